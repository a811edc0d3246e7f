package api

import (
	"net/http"

	"fitpro/manager/internal/domain"
	"fitpro/manager/internal/service"

	"github.com/gin-gonic/gin"
)

// Services bundles what the handlers depend on.
type Services struct {
	Auth      service.AuthService
	Profiles  service.ProfileService
	Plans     service.PlanService
	Clients   service.ClientService
	Exercises service.ExerciseService
	Workouts  service.WorkoutService
	Drafts    *service.DraftService
	Payments  service.PaymentService
	Stats     service.StatsService
}

func SetupRoutes(router *gin.Engine, svc Services, metrics *Metrics) {
	authHandler := NewAuthHandler(svc.Auth)
	profileHandler := NewProfileHandler(svc.Profiles, svc.Plans)
	planHandler := NewPlanHandler(svc.Plans)
	clientHandler := NewClientHandler(svc.Clients)
	exerciseHandler := NewExerciseHandler(svc.Exercises)
	workoutHandler := NewWorkoutHandler(svc.Workouts)
	draftHandler := NewDraftHandler(svc.Drafts)
	paymentHandler := NewPaymentHandler(svc.Payments)
	dashboardHandler := NewDashboardHandler(svc.Stats)

	router.Use(RequestLogger(), metrics.Middleware())
	metrics.Gauge("builder_open_drafts", "Workout builder drafts currently open.", func() float64 {
		return float64(svc.Drafts.Len())
	})

	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})
	router.GET("/metrics", gin.WrapH(metrics.Handler()))

	apiV1 := router.Group("/api/v1")
	{
		authGroup := apiV1.Group("/auth")
		{
			authGroup.POST("/register", authHandler.Register)
			authGroup.POST("/login", authHandler.Login)
		}
	}

	protected := apiV1.Group("")
	protected.Use(AuthMiddleware(svc.Auth))
	{
		protected.POST("/auth/logout", authHandler.Logout)
		protected.POST("/auth/refresh", authHandler.Refresh)
		protected.GET("/me", authHandler.Me)

		protected.GET("/profile", profileHandler.GetProfile)
		protected.PATCH("/profile", profileHandler.UpdateProfile)
		protected.POST("/profile/avatar", profileHandler.UploadAvatar)

		protected.GET("/dashboard", dashboardHandler.Dashboard)
		protected.GET("/dashboard/revenue", dashboardHandler.MonthlyRevenue)
		protected.GET("/dashboard/clients", dashboardHandler.MonthlyNewClients)
		protected.GET("/finance/summary", dashboardHandler.FinancialSummary)

		clientGroup := protected.Group("/clients")
		{
			clientGroup.GET("", clientHandler.ListClients)
			clientGroup.POST("", clientHandler.CreateClient)
			clientGroup.GET("/:clientId", clientHandler.GetClient)
			clientGroup.PUT("/:clientId", clientHandler.UpdateClient)
			clientGroup.DELETE("/:clientId", clientHandler.DeleteClient)
			clientGroup.POST("/:clientId/measurements", clientHandler.AddMeasurement)
			clientGroup.POST("/:clientId/workouts/:workoutId", clientHandler.AssignWorkout)
			clientGroup.DELETE("/:clientId/workouts/:workoutId", clientHandler.UnassignWorkout)
		}

		exerciseGroup := protected.Group("/exercises")
		{
			exerciseGroup.GET("", exerciseHandler.ListExercises)
			exerciseGroup.POST("", exerciseHandler.CreateExercise)
			exerciseGroup.GET("/:exerciseId", exerciseHandler.GetExercise)
			exerciseGroup.PUT("/:exerciseId", exerciseHandler.UpdateExercise)
			exerciseGroup.DELETE("/:exerciseId", exerciseHandler.DeleteExercise)
			exerciseGroup.POST("/:exerciseId/media-url", exerciseHandler.MediaUploadURL)
		}

		workoutGroup := protected.Group("/workouts")
		{
			workoutGroup.GET("", workoutHandler.ListWorkouts)
			workoutGroup.POST("", workoutHandler.CreateWorkout)
			workoutGroup.GET("/:workoutId", workoutHandler.GetWorkout)
			workoutGroup.PUT("/:workoutId", workoutHandler.UpdateWorkout)
			workoutGroup.DELETE("/:workoutId", workoutHandler.DeleteWorkout)
			workoutGroup.GET("/:workoutId/preview", workoutHandler.PreviewWorkout)
			workoutGroup.GET("/:workoutId/export", workoutHandler.ExportWorkout)
		}

		// --- Workout builder ---
		draftGroup := protected.Group("/builder/drafts")
		{
			draftGroup.POST("", draftHandler.StartDraft)
			draftGroup.GET("/:draftId", draftHandler.GetDraft)
			draftGroup.PATCH("/:draftId", draftHandler.UpdateDetails)
			draftGroup.DELETE("/:draftId", draftHandler.DiscardDraft)
			draftGroup.POST("/:draftId/save", draftHandler.SaveDraft)
			draftGroup.GET("/:draftId/preview", draftHandler.PreviewDraft)
			draftGroup.GET("/:draftId/export", draftHandler.ExportDraft)

			draftGroup.POST("/:draftId/exercises", draftHandler.AddExercise)
			draftGroup.DELETE("/:draftId/exercises/:index", draftHandler.RemoveExercise)
			draftGroup.POST("/:draftId/exercises/:index/move-up", draftHandler.MoveExerciseUp)
			draftGroup.POST("/:draftId/exercises/:index/move-down", draftHandler.MoveExerciseDown)
			draftGroup.POST("/:draftId/exercises/:index/sets", draftHandler.AddSet)
			draftGroup.PATCH("/:draftId/exercises/:index/sets/:set", draftHandler.UpdateSet)
			draftGroup.DELETE("/:draftId/exercises/:index/sets/:set", draftHandler.RemoveSet)
		}

		paymentGroup := protected.Group("/payments")
		{
			paymentGroup.GET("", paymentHandler.ListPayments)
			paymentGroup.POST("", paymentHandler.CreatePayment)
			paymentGroup.GET("/:paymentId", paymentHandler.GetPayment)
			paymentGroup.PATCH("/:paymentId/status", paymentHandler.UpdatePaymentStatus)
			paymentGroup.DELETE("/:paymentId", paymentHandler.DeletePayment)
		}

		planGroup := protected.Group("/plans")
		{
			planGroup.GET("", planHandler.ListPlans)
			planGroup.GET("/:planId", planHandler.GetPlan)
			planGroup.POST("/:planId/select", planHandler.SelectPlan)

			// Catalog management is admin-only.
			planGroup.POST("", RoleMiddleware(domain.RoleAdmin), planHandler.CreatePlan)
			planGroup.PUT("/:planId", RoleMiddleware(domain.RoleAdmin), planHandler.UpdatePlan)
			planGroup.DELETE("/:planId", RoleMiddleware(domain.RoleAdmin), planHandler.DeletePlan)
		}
	}
}
