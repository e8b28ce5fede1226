package http

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/nurpe/contract-archive/internal/http/middleware"
	"github.com/nurpe/contract-archive/internal/status"
)

type RouterOptions struct {
	Environment string
	CORSOrigins []string
	Recorder    *status.Recorder
	Actors      middleware.ActorResolver
	Log         zerolog.Logger
}

func NewRouter(handler *Handler, opts RouterOptions) *gin.Engine {
	if opts.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(cors.New(corsConfig(opts.CORSOrigins)))
	router.Use(middleware.RequestID())
	if opts.Actors != nil {
		router.Use(middleware.Actor(opts.Actors))
	}
	router.Use(middleware.Logger(opts.Log))
	if opts.Recorder != nil {
		router.Use(middleware.Metrics(opts.Recorder))
	}

	handler.Register(router)
	return router
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.DefaultConfig()
	cfg.AllowHeaders = append(cfg.AllowHeaders, "Authorization", middleware.RequestIDHeader)
	cfg.ExposeHeaders = []string{middleware.RequestIDHeader, "Content-Disposition"}
	if len(origins) == 0 || (len(origins) == 1 && origins[0] == "*") {
		cfg.AllowAllOrigins = true
		return cfg
	}
	cfg.AllowOrigins = origins
	return cfg
}
