package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/mark3labs/mcp-go/server"

	"github.com/yanqian/faq-agent/internal/domain/auth"
	"github.com/yanqian/faq-agent/internal/domain/faq"
	"github.com/yanqian/faq-agent/internal/infra/config"
)

// NewRouter wires up the HTTP handlers and returns a configured server.
func NewRouter(cfg *config.Config, handler *Handler, authHandler *AuthHandler, authSvc auth.Service, mcpSrv *server.MCPServer, logger *slog.Logger) *http.Server {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()
	router.Use(
		gin.Recovery(),
		requestLogger(logger),
		corsMiddleware(cfg.HTTP.AllowedOrigins),
		errorHandlingMiddleware(logger),
		rateLimitMiddleware(cfg.HTTP.RateLimit, logger),
	)

	router.GET("/healthz", handler.Healthz)
	if mcpSrv != nil && cfg.HTTP.MCPEnabled {
		router.Any("/mcp", gin.WrapH(server.NewStreamableHTTPServer(mcpSrv)))
	}

	requireAuth := authMiddleware(authSvc)
	admin := requireRole(auth.RoleAdmin)

	api := router.Group("/api/v1")
	{
		api.POST("/chat", handler.Chat)
		api.POST("/chat/reset", handler.ResetChat)

		api.POST("/faq/ask", handler.Ask)
		api.GET("/faq/trending", handler.TrendingFAQ)
		api.POST("/faq/question", requireAuth, handler.SubmitQuestion)

		api.GET("/faq/pending", requireAuth, admin, handler.ListEntries(faq.StatusPending))
		api.GET("/faq/active", requireAuth, admin, handler.ListEntries(faq.StatusActive))
		api.GET("/faq/deleted", requireAuth, admin, handler.ListEntries(faq.StatusDeleted))
		api.POST("/faq/answer", requireAuth, admin, handler.AnswerEntry)
		api.POST("/faq/delete", requireAuth, admin, handler.DeleteEntry)
		api.POST("/faq/update", requireAuth, admin, handler.UpdateEntry)
		api.POST("/faq/restore", requireAuth, admin, handler.RestoreEntry)

		api.POST("/tools/search", handler.ToolSearch)
		api.POST("/tools/register", handler.ToolRegister)
		api.POST("/tools/invoice", handler.ToolInvoice)

		api.POST("/auth/register", authHandler.Register)
		api.POST("/auth/login", authHandler.Login)
		api.POST("/auth/refresh", authHandler.Refresh)
		api.GET("/auth/me", requireAuth, authHandler.Me)
		api.POST("/auth/logout", requireAuth, authHandler.Logout)
		api.GET("/auth/google/login", authHandler.GoogleLogin)
		api.GET("/auth/google/callback", authHandler.GoogleCallback)
	}

	return &http.Server{
		Addr:           cfg.HTTP.Address,
		Handler:        withRetry(router, cfg.HTTP.Retry, logger),
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		MaxHeaderBytes: 1 << 20,
	}
}

func requestLogger(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		latency := time.Since(start)
		logger.Info("http request", "method", c.Request.Method, "path", c.Request.URL.Path, "status", c.Writer.Status(), "latency_ms", latency.Milliseconds())
	}
}
