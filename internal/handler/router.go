package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"attendtrack/internal/auth"
	"attendtrack/internal/httpmiddleware"
)

// HealthChecker is implemented by store.DB and store.Redis.
type HealthChecker interface {
	Healthy(ctx context.Context) bool
}

// RouterConfig carries everything NewRouter wires around the handler.
type RouterConfig struct {
	Tokens       *auth.TokenIssuer
	Limiter      httpmiddleware.Limiter
	LoginLimiter httpmiddleware.Limiter
	AllowOrigins []string
	Health       map[string]HealthChecker
}

// NewRouter returns the full HTTP surface.
func NewRouter(h *Handler, cfg RouterConfig) *gin.Engine {
	r := gin.New()

	r.Use(h.Recovery())
	r.Use(gin.LoggerWithConfig(gin.LoggerConfig{
		SkipPaths: []string{"/healthz", "/metrics"},
	}))
	r.Use(httpmiddleware.RequestID())
	r.Use(corsMiddleware(cfg.AllowOrigins))
	r.Use(httpmiddleware.SecurityHeaders())
	r.Use(h.metrics.GinMiddleware())
	if cfg.Limiter != nil {
		r.Use(httpmiddleware.GinMiddleware(cfg.Limiter))
	}

	r.GET("/metrics", gin.WrapH(h.metrics.Handler()))
	r.GET("/healthz", healthz(cfg.Health))

	login := []gin.HandlerFunc{}
	if cfg.LoginLimiter != nil {
		login = append(login, httpmiddleware.GinMiddleware(cfg.LoginLimiter))
	}
	r.POST("/login", append(login, h.Login)...)

	api := r.Group("/", auth.RequireBearer(cfg.Tokens))
	{
		api.GET("/departments", h.ListDepartments)
		api.POST("/departments", h.CreateDepartment)

		api.GET("/students", h.ListStudents)
		api.POST("/students", h.CreateStudent)

		api.GET("/courses", h.ListCourses)
		api.POST("/courses", h.CreateCourse)

		api.GET("/attendance", h.ListAttendance)
		api.POST("/attendance", h.RecordAttendance)
	}

	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	})
	return r
}

func corsMiddleware(origins []string) gin.HandlerFunc {
	cfg := cors.Config{
		AllowMethods:  []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders: []string{httpmiddleware.RequestIDHeader},
		MaxAge:        24 * time.Hour,
	}
	if len(origins) == 0 || (len(origins) == 1 && origins[0] == "*") {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = origins
	}
	return cors.New(cfg)
}

func healthz(checks map[string]HealthChecker) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		body := gin.H{"status": "ok"}
		status := http.StatusOK
		for name, check := range checks {
			healthy := check.Healthy(ctx)
			body[name] = healthy
			if !healthy {
				status = http.StatusServiceUnavailable
				body["status"] = "degraded"
			}
		}
		c.JSON(status, body)
	}
}
