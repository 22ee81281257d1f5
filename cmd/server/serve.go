package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"ptcoach/fitness-planner/internal/api"
	"ptcoach/fitness-planner/internal/service"
	"ptcoach/fitness-planner/internal/storage"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API server",
	RunE:  runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if cfg.JWT.Secret == "" {
		return errors.New("jwt.secret (JWT_SECRET) must be set")
	}
	ctx := cmd.Context()

	st, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer st.close()

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()
		st.ensure(ctx)
	}()

	var fileStorage storage.FileStorage
	if cfg.S3.Enabled() {
		fileStorage, err = storage.NewS3Storage(ctx, cfg.S3)
		if err != nil {
			return err
		}
	} else {
		log.Warn("s3.bucket_name is not set, exercise video uploads are disabled")
	}

	authService := service.NewAuthService(st.users, cfg.JWT.Secret, cfg.JWT.Expiration)
	userService := service.NewUserService(st.users)
	exerciseService := service.NewExerciseService(st.exercises, fileStorage, cfg.S3.PublicURL, cfg.Cache.ExerciseTTL)
	planService := service.NewPlanService(st.plans, st.users)
	progressService := service.NewProgressService(st.plans, time.Now, cfg.Location())
	authoringService := service.NewAuthoringService(exerciseService)

	if created, err := authService.SeedAdmin(ctx, cfg.Seed.AdminUsername, cfg.Seed.AdminPassword); err != nil {
		log.Error("failed to seed admin account", "error", err)
	} else if created {
		log.Warn("created bootstrap admin account, change its password", "username", cfg.Seed.AdminUsername)
	}

	gin.SetMode(cfg.Server.Mode)
	router := gin.New()
	router.Use(gin.Recovery(), api.RequestLogger())
	api.SetupRoutes(router, cfg.JWT.Secret, authService, userService, exerciseService, planService, progressService, authoringService)

	server := &http.Server{
		Addr:         cfg.Server.Address,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		log.Info("starting API server", "listen", cfg.Server.Address, "timezone", cfg.Location().String())
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case err := <-serveErr:
		return err
	case <-quit:
	}
	log.Info("shutting down server...")

	ctxShutdown, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelShutdown()
	if err := server.Shutdown(ctxShutdown); err != nil {
		return err
	}
	log.Info("server exiting")
	return nil
}
