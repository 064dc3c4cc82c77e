package server

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/gorm"

	"patientmanager/internal/audit"
	"patientmanager/internal/config"
	"patientmanager/internal/handler"
	"patientmanager/internal/middleware"
	"patientmanager/internal/repository"
)

type Server struct {
	Engine *gin.Engine
	DB     *gorm.DB
	Config *config.Server
}

// NewEngine wires repositories, handlers and routes over an open database.
func NewEngine(db *gorm.DB, cfg *config.Server) *gin.Engine {
	r := gin.Default()

	// Repositories
	userRepo := repository.NewUserRepository(db)
	patientRepo := repository.NewPatientRepository(db)
	programRepo := repository.NewProgramRepository(db)
	columnRepo := repository.NewColumnRepository(db)
	taskRepo := repository.NewTaskRepository(db)
	sharedAccessRepo := repository.NewSharedAccessRepository(db)
	auditRepo := repository.NewAuditRepository(db)

	auditLogger := audit.NewLogger(auditRepo)

	// Handlers
	statusHandler := handler.NewStatusHandler()
	userHandler := handler.NewUserHandler(userRepo, cfg.JWTSecret, cfg.JWTExpiry, auditLogger)
	patientHandler := handler.NewPatientHandler(patientRepo, auditLogger)
	programHandler := handler.NewProgramHandler(programRepo, patientRepo, auditLogger)
	columnHandler := handler.NewColumnHandler(columnRepo, programRepo, auditLogger)
	taskHandler := handler.NewTaskHandler(taskRepo, auditLogger)
	sharedAccessHandler := handler.NewSharedAccessHandler(sharedAccessRepo, patientRepo, userRepo, auditLogger)
	auditHandler := handler.NewAuditHandler(auditRepo)

	r.GET("/", statusHandler.Root)
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	api := r.Group("/api")

	// Public routes
	api.GET("", statusHandler.Info)
	api.GET("/health", statusHandler.Health)
	api.POST("/login", userHandler.Login)

	// Protected routes - require authentication
	authorized := api.Group("")
	authorized.Use(middleware.JWTAuthMiddleware(cfg.JWTSecret))
	{
		// Patient routes
		authorized.GET("/patients", patientHandler.GetAll)
		authorized.POST("/patients", patientHandler.Create)
		authorized.GET("/patients/:id", patientHandler.GetByID)
		authorized.PUT("/patients/:id", patientHandler.Update)
		authorized.DELETE("/patients/:id", patientHandler.Delete)
		authorized.GET("/shared_patients", patientHandler.GetShared)

		// Program routes
		authorized.GET("/programs", programHandler.GetAll)
		authorized.POST("/programs", programHandler.Create)
		authorized.GET("/programs/:id", programHandler.GetByID)
		authorized.PUT("/programs/:id", programHandler.Update)
		authorized.DELETE("/programs/:id", programHandler.Delete)

		// Board column routes
		authorized.GET("/programs/:id/columns", columnHandler.GetAll)
		authorized.POST("/programs/:id/columns", columnHandler.Append)
		authorized.POST("/programs/:id/columns/reorder", columnHandler.Reorder)
		authorized.GET("/columns/:id", columnHandler.GetByID)
		authorized.PUT("/columns/:id", columnHandler.Rename)
		authorized.DELETE("/columns/:id", columnHandler.Delete)

		// Task routes
		authorized.GET("/tasks", taskHandler.GetAll)
		authorized.POST("/tasks", taskHandler.Create)
		authorized.GET("/tasks/:id", taskHandler.GetByID)
		authorized.PUT("/tasks/:id", taskHandler.Update)
		authorized.DELETE("/tasks/:id", taskHandler.Delete)
		authorized.POST("/tasks/:id/move", taskHandler.Move)

		// User routes
		authorized.GET("/users", userHandler.GetAll)
		authorized.POST("/users", userHandler.Create)
		authorized.GET("/users/:id", userHandler.GetByID)
		authorized.PUT("/users/:id", userHandler.Update)
		authorized.DELETE("/users/:id", userHandler.Delete)

		// Shared access routes
		authorized.GET("/shared_access", sharedAccessHandler.GetAll)
		authorized.POST("/shared_access", sharedAccessHandler.Create)
		authorized.PUT("/shared_access/:id", sharedAccessHandler.Update)
		authorized.DELETE("/shared_access/:id", sharedAccessHandler.Delete)

		// Audit log routes
		authorized.GET("/audit_logs", auditHandler.GetAll)
	}

	return r
}

func Init(cfg *config.Server) (*Server, error) {
	db, err := repository.NewDB(cfg.DBFile)
	if err != nil {
		return nil, err
	}
	log.Println("✅ Connected to database")

	if cfg.AuditRetention > 0 {
		purged, err := repository.NewAuditRepository(db).Purge(context.Background(), cfg.AuditRetention)
		if err != nil {
			log.Printf("⚠️  Audit log purge failed: %v", err)
		} else if purged > 0 {
			log.Printf("🧹 Purged %d expired audit log entries", purged)
		}
	}

	return &Server{
		Engine: NewEngine(db, cfg),
		DB:     db,
		Config: cfg,
	}, nil
}

func (s *Server) Run() {
	srv := &http.Server{
		Addr:    ":" + s.Config.Port,
		Handler: s.Engine,
	}

	go func() {
		log.Printf("🚀 Server running on port %s\n", s.Config.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("❌ Failed to listen: %s\n", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("🛑 Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("❌ Server forced to shutdown: %s", err)
	}

	log.Println("✅ Server exited properly")
}
