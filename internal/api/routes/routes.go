package routes

import (
	"fmt"

	"team-task-backend/internal/api/handlers"
	"team-task-backend/internal/api/middleware"
	"team-task-backend/internal/auth"
	"team-task-backend/internal/config"
	"team-task-backend/internal/repository"
	"team-task-backend/internal/service"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/gorm"
)

// SetupRoutes configures all the routes for the application.
// store keeps revoked session IDs; pass auth.NewMemoryTokenStore() when Redis is disabled.
func SetupRoutes(db *gorm.DB, cfg *config.Config, store auth.TokenStore) (*gin.Engine, error) {
	// Create router
	router := gin.New()

	// Add middleware
	router.Use(middleware.RequestID())
	router.Use(middleware.Logger())
	router.Use(middleware.Recovery())
	router.Use(middleware.CORS(cfg))

	// Initialize validator
	validator := service.NewValidator()

	// Initialize repositories
	userRepo := repository.NewUserRepository(db)
	teamRepo := repository.NewTeamRepository(db)
	membershipRepo := repository.NewMembershipRepository(db)
	taskRepo := repository.NewTaskRepository(db)
	transactor := repository.NewTransactor(db)

	// Initialize services
	userService := service.NewUserService(userRepo, validator)
	membershipService := service.NewMembershipService(membershipRepo, transactor)
	teamService := service.NewTeamService(teamRepo, transactor, membershipService, userService, validator)
	taskService := service.NewTaskService(taskRepo, membershipService, validator)

	// Initialize sessions
	sessions, err := auth.NewSessionService(auth.NewSessionConfig(cfg), store)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize sessions: %w", err)
	}
	authMiddleware := auth.NewAuthMiddleware(sessions)

	// Initialize handlers
	healthHandler := handlers.NewHealthHandler(db)
	authHandler := handlers.NewAuthHandler(userService, sessions)
	teamHandler := handlers.NewTeamHandler(teamService)
	memberHandler := handlers.NewMemberHandler(teamService)
	taskHandler := handlers.NewTaskHandler(taskService)

	// Health check routes
	router.GET("/health", healthHandler.Health)
	router.GET("/health/ready", healthHandler.Ready)
	router.GET("/health/live", healthHandler.Live)

	// Swagger documentation
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	api := router.Group("/api")
	{
		authRoutes := api.Group("/auth")
		{
			authRoutes.POST("/register", authHandler.Register)
			authRoutes.POST("/login", authHandler.Login)
			authRoutes.POST("/logout", authMiddleware.RequireAuth(), authHandler.Logout)
			authRoutes.GET("/me", authMiddleware.RequireAuth(), authHandler.Me)
			authRoutes.PUT("/password", authMiddleware.RequireAuth(), authHandler.ChangePassword)
		}

		teams := api.Group("/teams", authMiddleware.RequireAuth())
		{
			teams.GET("", teamHandler.ListTeams)
			teams.POST("", teamHandler.CreateTeam)
			teams.GET("/:id", teamHandler.GetTeam)
			teams.PUT("/:id", teamHandler.UpdateTeam)
			teams.DELETE("/:id", teamHandler.DeleteTeam)

			teams.GET("/:id/members", memberHandler.ListMembers)
			teams.POST("/:id/members", memberHandler.AddMember)
			teams.DELETE("/:id/members/:userId", memberHandler.RemoveMember)
		}

		tasks := api.Group("/tasks", authMiddleware.RequireAuth())
		{
			tasks.GET("", taskHandler.ListTasks)
			tasks.POST("", taskHandler.CreateTask)
			tasks.GET("/:id", taskHandler.GetTask)
			tasks.PUT("/:id", taskHandler.UpdateTask)
			tasks.PATCH("/:id/status", taskHandler.UpdateTaskStatus)
			tasks.DELETE("/:id", taskHandler.DeleteTask)
		}
	}

	return router, nil
}
