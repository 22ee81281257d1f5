package main

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"ptcoach/fitness-planner/internal/config"
	"ptcoach/fitness-planner/internal/repository"
	"ptcoach/fitness-planner/internal/repository/mongo"
)

var rootCmdPersistentFlags struct {
	ConfigFile string
	LogLevel   string
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&rootCmdPersistentFlags.ConfigFile, "config", "c", "", "Path to config file (default: config.yaml in the current dir)")
	rootCmd.PersistentFlags().StringVar(&rootCmdPersistentFlags.LogLevel, "log-level", "", "Log level (debug, info, warn, error) - overrides config file setting")
}

var rootCmd = &cobra.Command{
	Use:   "fitness-planner",
	Short: "Workout plan server for coaches and their clients",
	Long:  `fitness-planner serves the REST API coaches use to assign dated workout plans and clients use to log their sets.`,
	Example: `fitness-planner --config config.yaml
  fitness-planner serve --log-level debug
  fitness-planner migrate-legacy --dry-run
  fitness-planner migrate-weights --dry-run`,
	CompletionOptions: cobra.CompletionOptions{
		HiddenDefaultCmd: true,
	},
	SilenceUsage: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		if rootCmdPersistentFlags.LogLevel != "" {
			setLogLevel(rootCmdPersistentFlags.LogLevel)
		}
	},
	RunE: runServe,
}

func Execute() error {
	return rootCmd.Execute()
}

func setLogLevel(level string) {
	switch level {
	case "debug":
		log.SetLevel(log.DebugLevel)
	case "info":
		log.SetLevel(log.InfoLevel)
	case "warn":
		log.SetLevel(log.WarnLevel)
	case "error":
		log.SetLevel(log.ErrorLevel)
	default:
		log.Warnf("unknown log level %s, defaulting to info", level)
		log.SetLevel(log.InfoLevel)
	}
}

// loadConfig reads the config and applies its log level unless the flag set one.
func loadConfig() (config.Config, error) {
	cfg, err := config.LoadConfig(".", rootCmdPersistentFlags.ConfigFile)
	if err != nil {
		return cfg, fmt.Errorf("failed to load config: %w", err)
	}
	if rootCmdPersistentFlags.LogLevel == "" {
		setLogLevel(cfg.App.LogLevel)
	}
	return cfg, nil
}

// store bundles the repositories every command works against.
type store struct {
	users     repository.UserRepository
	exercises repository.ExerciseRepository
	plans     repository.PlanRepository
	counters  repository.CounterRepository
	close     func()
	ensure    func(ctx context.Context)
}

func openStore(ctx context.Context, cfg config.Config) (*store, error) {
	client, err := mongo.ConnectDB(ctx, cfg.Database.URI)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}
	db := client.Database(cfg.Database.Name)
	log.Info("database connection established", "database", cfg.Database.Name)

	counters := mongo.NewMongoCounterRepository(db)
	return &store{
		users:     mongo.NewMongoUserRepository(db, counters),
		exercises: mongo.NewMongoExerciseRepository(db, counters),
		plans:     mongo.NewMongoPlanRepository(db, counters),
		counters:  counters,
		close: func() {
			log.Info("disconnecting MongoDB")
			if err := mongo.DisconnectDB(client); err != nil {
				log.Error("failed to disconnect MongoDB", "error", err)
			}
		},
		ensure: func(ctx context.Context) {
			mongo.EnsureIndexes(ctx, db)
		},
	}, nil
}
