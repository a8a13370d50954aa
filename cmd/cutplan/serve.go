package main

import (
	"flag"
	"io"

	"github.com/gin-gonic/gin"
	"github.com/piwi3910/cutplan/internal/config"
	cphttp "github.com/piwi3910/cutplan/internal/http"
	"github.com/piwi3910/cutplan/internal/logger"
	"github.com/rs/zerolog/log"
)

func runServe(args []string, stderr io.Writer) int {
	fs := flag.NewFlagSet("serve", flag.ContinueOnError)
	fs.SetOutput(stderr)
	cfg := config.Load()
	fs.StringVar(&cfg.Server.Port, "port", cfg.Server.Port, "listen port (PORT)")
	if err := fs.Parse(args); err != nil {
		return exitUsage
	}

	logger.Init(cfg.Log.Level, cfg.Log.Pretty)
	if cfg.Log.Level != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := cphttp.NewRouter(cphttp.NewHandler(cfg.Plan), cphttp.NewHealthHandler(), cphttp.RouterConfig{
		CORSOrigins:    cfg.Server.CORSOrigins,
		RequestTimeout: cfg.Server.RequestTimeout,
	})
	server := cphttp.NewServer(router, cfg.Server.Port, cfg.Server.RequestTimeout)

	if err := server.Run(); err != nil {
		log.Error().Err(err).Msg("Server error")
		return exitFailed
	}
	return exitOK
}
