package server

import (
	"context"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/meilisearch/meilisearch-go"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/edunexus-app/backend/internal/config"
	"github.com/edunexus-app/backend/internal/handler"
	"github.com/edunexus-app/backend/internal/middleware"
	"github.com/edunexus-app/backend/internal/model"
	"github.com/edunexus-app/backend/internal/repository"
	"github.com/edunexus-app/backend/internal/service"
	"github.com/edunexus-app/backend/pkg/response"
	"github.com/edunexus-app/backend/pkg/storage"
)

type Server struct {
	engine      *gin.Engine
	cfg         *config.Config
	db          *gorm.DB
	redisClient *redis.Client
}

func NewServer(cfg *config.Config, db *gorm.DB, redisClient *redis.Client) *Server {
	mediaStorage, err := storage.NewCloudinaryStorage()
	if err != nil {
		log.Fatalf("failed to initialize cloudinary storage: %v", err)
	}

	// Search is optional; without a Meilisearch host course listings
	// fall back to store-side filtering.
	var searchSvc service.CourseSearchService
	if cfg.MeiliSearchHost != "" {
		meiliClient := meilisearch.New(cfg.MeiliSearchHost, meilisearch.WithAPIKey(cfg.MeiliMasterKey))
		searchSvc = service.NewCourseSearchService(meiliClient)
	}

	userRepo := repository.NewUserRepository(db)
	courseRepo := repository.NewCourseRepository(db)
	lectureRepo := repository.NewLectureRepository(db)
	assignmentRepo := repository.NewAssignmentRepository(db)
	submissionRepo := repository.NewSubmissionRepository(db)
	messageRepo := repository.NewMessageRepository(db)

	tokens := service.NewTokenManager(cfg.JWTSecret, cfg.JWTTTL)

	authSvc := service.NewAuthService(userRepo, tokens)
	userSvc := service.NewUserService(userRepo)
	courseSvc := service.NewCourseService(courseRepo, lectureRepo, assignmentRepo, submissionRepo, mediaStorage, searchSvc)
	lectureSvc := service.NewLectureService(lectureRepo, courseRepo, mediaStorage, cfg.LecturesFolder)
	assignmentSvc := service.NewAssignmentService(assignmentRepo, courseRepo, submissionRepo, mediaStorage, cfg.AssignmentsFolder)
	submissionSvc := service.NewSubmissionService(submissionRepo, assignmentRepo, mediaStorage, cfg.SubmissionsFolder)
	chatSvc := service.NewChatService(messageRepo, courseRepo, redisClient)
	limiter := service.NewRateLimiter(redisClient, cfg.RateLimitWindow, cfg.RateLimitMax)

	authHandler := handler.NewAuthHandler(authSvc, tokens, cfg.AuthCookie)
	userHandler := handler.NewUserHandler(userSvc)
	courseHandler := handler.NewCourseHandler(courseSvc, lectureSvc)
	assignmentHandler := handler.NewAssignmentHandler(assignmentSvc, submissionSvc)
	chatHandler := handler.NewChatHandler(chatSvc)

	if cfg.AppEnv == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	setupCORS(router, cfg)

	router.Use(gin.Recovery())
	router.Use(gin.Logger())

	authMiddleware := middleware.NewAuthMiddleware(tokens)

	api := router.Group("/api")
	api.Use(middleware.RateLimit(limiter))

	api.GET("/health", func(c *gin.Context) {
		response.Message(c, http.StatusOK, "ok")
	})

	auth := api.Group("/auth")
	{
		auth.POST("/register", authHandler.Register)
		auth.POST("/login", authHandler.Login)
		auth.POST("/logout", authHandler.Logout)
		auth.GET("/me", authMiddleware.RequireAuth(), authHandler.Me)
	}

	adminGroup := api.Group("/admin")
	adminGroup.Use(authMiddleware.RequireAuth(), authMiddleware.RequireRoles(model.RoleAdmin))
	{
		adminGroup.GET("/users", userHandler.List)
		adminGroup.GET("/users/:id", userHandler.Get)
		adminGroup.PATCH("/users/:id", userHandler.Update)
		adminGroup.DELETE("/users/:id", userHandler.Delete)
	}

	courses := api.Group("/courses")
	{
		// Catalog reads work anonymously; an attached actor widens
		// visibility of unpublished courses.
		courses.GET("", authMiddleware.OptionalAuth(), courseHandler.List)
		courses.GET("/:id", authMiddleware.OptionalAuth(), courseHandler.Get)

		protected := courses.Group("")
		protected.Use(authMiddleware.RequireAuth())
		{
			instructorOnly := authMiddleware.RequireRoles(model.RoleInstructor, model.RoleAdmin)

			protected.POST("", instructorOnly, courseHandler.Create)
			protected.PATCH("/:id", instructorOnly, courseHandler.Update)
			protected.DELETE("/:id", instructorOnly, courseHandler.Delete)
			protected.POST("/:id/publish", instructorOnly, courseHandler.TogglePublish)

			protected.POST("/:id/enroll", authMiddleware.RequireRoles(model.RoleStudent), courseHandler.Enroll)

			protected.POST("/:id/lectures", instructorOnly, courseHandler.AddLecture)
			protected.PATCH("/:id/lectures/:lectureId", instructorOnly, courseHandler.UpdateLecture)
			protected.DELETE("/:id/lectures/:lectureId", instructorOnly, courseHandler.DeleteLecture)

			protected.GET("/:id/assignments", assignmentHandler.ListByCourse)
			protected.POST("/:id/assignments", instructorOnly, assignmentHandler.Create)

			protected.GET("/:id/messages", chatHandler.History)
			protected.POST("/:id/messages", chatHandler.Post)
			protected.POST("/:id/messages/:messageId/seen", chatHandler.MarkSeen)
			protected.GET("/:id/chat/ws", chatHandler.Stream)
		}
	}

	assignments := api.Group("/assignments")
	assignments.Use(authMiddleware.RequireAuth())
	{
		assignments.GET("/:id", assignmentHandler.Get)
		assignments.PATCH("/:id", assignmentHandler.Update)
		assignments.DELETE("/:id", assignmentHandler.Delete)

		assignments.POST("/:id/submissions", assignmentHandler.Submit)
		assignments.GET("/:id/submissions", assignmentHandler.ListSubmissions)
	}

	submissions := api.Group("/submissions")
	submissions.Use(authMiddleware.RequireAuth())
	{
		submissions.POST("/:submissionId/grade", assignmentHandler.Grade)
	}

	return &Server{
		engine:      router,
		cfg:         cfg,
		db:          db,
		redisClient: redisClient,
	}
}

// Run serves until ctx is canceled, then drains in-flight requests.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:    ":" + s.cfg.Port,
		Handler: s.engine,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func setupCORS(router *gin.Engine, cfg *config.Config) {
	origins := strings.Split(cfg.AllowedOrigins, ",")

	router.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "HEAD", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
}
