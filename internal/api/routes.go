package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"ptcoach/fitness-planner/internal/domain" // Needed for RoleMiddleware
	"ptcoach/fitness-planner/internal/service"
)

func SetupRoutes(
	router *gin.Engine,
	jwtSecret string,
	authService service.AuthService,
	userService service.UserService,
	exerciseService service.ExerciseService,
	planService service.PlanService,
	progressService service.ProgressService,
	authoringService service.AuthoringService,
) {
	authHandler := NewAuthHandler(authService, userService)
	userHandler := NewUserHandler(userService)
	exerciseHandler := NewExerciseHandler(exerciseService)
	planHandler := NewPlanHandler(planService)
	progressHandler := NewProgressHandler(progressService)
	authoringHandler := NewAuthoringHandler(authoringService)

	coachOnly := RoleMiddleware(domain.RoleAdmin)

	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	apiV1 := router.Group("/api/v1")
	{
		authGroup := apiV1.Group("/auth")
		{
			authGroup.POST("/login", authHandler.Login)
		}
	}

	protected := apiV1.Group("")
	protected.Use(AuthMiddleware(jwtSecret))
	{
		protected.GET("/me", authHandler.Me)

		// --- Users ---
		userGroup := protected.Group("/users")
		{
			userGroup.GET("", coachOnly, userHandler.ListUsers)
			userGroup.POST("", coachOnly, userHandler.CreateUser)
			userGroup.PATCH("/:userId/status", coachOnly, userHandler.SetUserStatus)

			// Clients reach these for themselves; the services enforce ownership.
			userGroup.GET("/:userId/plans", planHandler.ListUserPlans)
			userGroup.GET("/:userId/history", progressHandler.GetHistory)
			userGroup.GET("/:userId/exercises/last", progressHandler.GetLastInstance)
			userGroup.GET("/:userId/stats", progressHandler.GetStats)
			userGroup.GET("/:userId/calendar", progressHandler.GetCalendar)
			userGroup.GET("/:userId/calendar/:date", coachOnly, progressHandler.ResolveDay)
		}

		// --- Exercise library ---
		exerciseGroup := protected.Group("/exercises")
		{
			exerciseGroup.GET("", exerciseHandler.ListExercises)
			exerciseGroup.POST("", coachOnly, exerciseHandler.CreateExercise)
			exerciseGroup.PUT("/:exerciseId", coachOnly, exerciseHandler.UpdateExercise)
			exerciseGroup.DELETE("/:exerciseId", coachOnly, exerciseHandler.DeleteExercise)
			exerciseGroup.POST("/:exerciseId/video-upload-url", coachOnly, exerciseHandler.CreateVideoUploadURL)
		}

		// --- Plans ---
		planGroup := protected.Group("/plans")
		{
			planGroup.POST("", coachOnly, planHandler.CreatePlan)
			planGroup.GET("/:planId", planHandler.GetPlan)
			planGroup.PUT("/:planId", coachOnly, planHandler.UpdatePlan)
			planGroup.DELETE("/:planId", coachOnly, planHandler.DeletePlan)
			planGroup.POST("/:planId/clone", coachOnly, planHandler.ClonePlan)
			planGroup.PATCH("/:planId/exercises", planHandler.ToggleExercise)
		}

		protected.POST("/authoring/apply", coachOnly, authoringHandler.Apply)
	}
}
