// Package http exposes the auth API over gin.
package http

import (
	"github.com/dmitrijs2005/gophauth/internal/logging"
	"github.com/dmitrijs2005/gophauth/internal/server/metrics"
	"github.com/dmitrijs2005/gophauth/internal/server/services"
	"github.com/gin-gonic/gin"
)

// SetupRouter builds the gin engine. /metrics is mounted only when m is
// not nil.
func SetupRouter(users *services.UserService, tokens *services.TokenService, m *metrics.Metrics, logger logging.Logger) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), RequestLogging(logger, m))

	handlers := NewAuthHandlers(users, tokens)

	auth := router.Group("/auth")
	{
		auth.POST("/register", handlers.Register)
		auth.POST("/login", handlers.Login)
		auth.POST("/refresh", handlers.Refresh)
	}

	protected := router.Group("/auth")
	protected.Use(AuthMiddleware(tokens))
	{
		protected.POST("/logout", handlers.Logout)
		protected.GET("/me", handlers.Me)
	}

	if m != nil {
		router.GET("/metrics", gin.WrapH(m.Handler()))
	}

	return router
}
