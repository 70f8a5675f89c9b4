// Package api wires the HTTP routes, middleware, and handlers of the
// web-api service.
package api

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/asuyou/anzen-web-api/internal/auth"
	"github.com/asuyou/anzen-web-api/internal/config"
	"github.com/asuyou/anzen-web-api/internal/logger"
	"github.com/asuyou/anzen-web-api/internal/server"
)

// Server bundles the router and the configured http.Server.
type Server struct {
	router *gin.Engine
	http   *http.Server
}

// NewServer builds the router and HTTP server around the given engine and
// user store.
func NewServer(cfg *config.Config, engine StatsEngine, users UserStore, log logger.Logger) *Server {
	if !cfg.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(corsMiddleware())
	router.Use(requestLogger(log))
	router.Use(metricsMiddleware())

	jwtManager := auth.NewJWTManager(cfg.JWT.Secret, cfg.JWT.Expiry)
	authHandler := NewAuthHandler(cfg, jwtManager, users, log)
	dataHandler := NewDataHandler(engine, log)

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	v1 := router.Group("/api/v1")

	authGroup := v1.Group("/auth")
	authGroup.POST("/login", authHandler.Login)
	authGroup.POST("/register", authHandler.Register)

	dataGroup := v1.Group("/data")
	dataGroup.Use(authMiddleware(jwtManager))
	dataGroup.GET("/test", dataHandler.Test)
	dataGroup.GET("/stats", dataHandler.Stats)
	dataGroup.GET("/activity", dataHandler.Activity)
	dataGroup.GET("/search", dataHandler.Search)

	httpServer := server.New(server.Config{
		Address:      fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}, router)

	return &Server{router: router, http: httpServer}
}

// Router returns the gin engine, mainly for tests.
func (s *Server) Router() *gin.Engine {
	return s.router
}

// HTTP returns the configured http.Server.
func (s *Server) HTTP() *http.Server {
	return s.http
}
