package main

import (
	"log"
	"net/http"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/Mordinel/gargoyle-web-monitor/internal/config"
	"github.com/Mordinel/gargoyle-web-monitor/internal/httpapi"
	"github.com/Mordinel/gargoyle-web-monitor/internal/logging"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	level, err := zapcore.ParseLevel(cfg.Logging.Level)
	if err != nil {
		level = zapcore.InfoLevel
	}
	logger, err := logging.NewLogger(cfg.Logging.Dir, level)
	if err != nil {
		log.Fatal(err)
	}
	defer logger.Sync()

	timeout, err := time.ParseDuration(cfg.Probe.Timeout)
	if err != nil {
		log.Fatal(err)
	}

	api := httpapi.NewServer(logger, cfg.Probe.UserAgent, timeout)
	router := api.Router(httpapi.Options{
		AllowedOrigins: cfg.Server.AllowedOrigins,
		APIKeys:        cfg.Server.APIKeys,
		RateLimitRPM:   cfg.Server.RateLimitRPM,
		RateLimitBurst: cfg.Server.RateLimitBurst,
	})

	logger.Info("api_listen", zap.String("addr", cfg.Server.Addr))
	if err := http.ListenAndServe(cfg.Server.Addr, router); err != nil {
		log.Fatal(err)
	}
}
