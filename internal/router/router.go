package router

import (
	"time"

	"mesapos/internal/config"
	"mesapos/internal/handler"
	"mesapos/internal/infra"
	"mesapos/internal/middleware"
	"mesapos/internal/repository"
	"mesapos/internal/service"
	"mesapos/internal/worker"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// New wires all dependencies and returns a configured Gin engine.
// Dependency graph: Handler ← Service ← Repository ← DB/Redis
func New(cfg *config.Config, db *gorm.DB, rdb *redis.Client, mailerCB *infra.CircuitBreaker) *gin.Engine {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware chain (order matters)
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.Recovery())
	r.Use(middleware.CORS())
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.RateLimiter(1000, time.Minute)) // 1000 req/min per IP

	// ── Repositories ─────────────────────────────────────────────────────────
	registerRepo := repository.NewRegisterRepository(db)
	sessionRepo := repository.NewSessionRepository(db)

	// ── Services ─────────────────────────────────────────────────────────────
	// Worker dispatcher — close-of-till reports are rendered and mailed async
	dispatcher := worker.NewDispatcher(rdb)

	registerSvc := service.NewRegisterService(registerRepo)
	sessionSvc := service.NewSessionService(sessionRepo, registerRepo, dispatcher)

	// ── Handlers ─────────────────────────────────────────────────────────────
	registersH := handler.NewRegistersHandler(registerSvc, sessionSvc)
	sessionsH := handler.NewSessionsHandler(sessionSvc)
	movementsH := handler.NewMovementsHandler(sessionSvc)

	// ── Routes ───────────────────────────────────────────────────────────────

	// Public
	r.GET("/health", handler.Health(db, rdb, mailerCB))

	// Protected routes
	jwtMW := middleware.JWTAuth(cfg.JWTSecret)
	v1 := r.Group("/v1", jwtMW)
	{
		// Roles: cashier, supervisor, admin — declared per-endpoint
		regs := v1.Group("/registers")
		{
			regs.GET("", middleware.RequireRole("cashier", "supervisor", "admin"), registersH.List)
			regs.GET("/:id/session", middleware.RequireRole("cashier", "supervisor", "admin"), registersH.CurrentSession)
			regs.POST("", middleware.RequireRole("admin"), registersH.Create)
			regs.PATCH("/:id", middleware.RequireRole("admin"), registersH.Update)
			regs.DELETE("/:id", middleware.RequireRole("admin"), registersH.Delete)
		}

		sessions := v1.Group("/sessions")
		{
			sessions.POST("", middleware.RequireRole("cashier", "supervisor", "admin"), sessionsH.Open)
			sessions.POST("/:id/close", middleware.RequireRole("cashier", "supervisor", "admin"), sessionsH.Close)
			sessions.GET("/:id/summary", middleware.RequireRole("cashier", "supervisor", "admin"), sessionsH.Summary)
			sessions.GET("", middleware.RequireRole("supervisor", "admin"), sessionsH.History)
			sessions.POST("/:id/movements", middleware.RequireRole("cashier", "supervisor", "admin"), movementsH.Add)
			sessions.POST("/:id/settlements", middleware.RequireRole("cashier", "supervisor", "admin"), movementsH.Settle)
			sessions.GET("/:id/movements", middleware.RequireRole("cashier", "supervisor", "admin"), movementsH.ListForSession)
		}

		v1.GET("/movements", middleware.RequireRole("supervisor", "admin"), movementsH.ListManual)
	}

	return r
}
