package http

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"account-service/internal/service"
)

// NewRouter configura el router de Gin con middlewares y la tabla de rutas.
// El orden de los guards por ruta es fijo: los checks posteriores asumen
// que los anteriores pasaron.
func NewRouter(
	logger *zap.Logger,
	userH *UserHandler,
	tokens *service.TokenService,
	accounts *service.AccountService,
) *gin.Engine {
	r := gin.New()

	// Middlewares basicos: logging, recovery y JSON content-type.
	r.Use(zapLoggerMiddleware(logger), gin.Recovery(), jsonContentTypeMiddleware())

	auth := RequireAuth(tokens, accounts)

	r.POST("/users", EmailNotTaken(accounts), userH.Register)
	r.POST("/login", EmailExists(accounts), userH.Login)

	users := r.Group("/users", auth)
	users.GET("", RequireAdmin(), userH.List)
	users.GET("/profile", userH.Profile)
	users.PATCH("/:id", RequireSelfOrAdmin(), userH.Update)
	users.DELETE("/:id", RequireSelfOrAdmin(), userH.Delete)

	return r
}

// zapLoggerMiddleware crea un middleware simple de logging con zap.
func zapLoggerMiddleware(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		latency := time.Since(start)
		logger.Info("request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", latency),
			zap.String("client_ip", c.ClientIP()),
		)
	}
}

// jsonContentTypeMiddleware fuerza Content-Type: application/json en responses.
func jsonContentTypeMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Content-Type", "application/json")
		c.Next()
	}
}
