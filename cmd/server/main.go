package main

import (
	"context"
	"io"
	"log"
	"net/http"
	"os"

	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/adam-price1/choresapp/internal/config"
	"github.com/adam-price1/choresapp/internal/serverapp"
)

func main() {
	cfg, err := loadConfig()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logger := newLogger(cfg)

	handler, err := serverapp.NewHandler(context.Background(), serverapp.Options{
		Config: cfg,
		Logger: logger,
	})
	if err != nil {
		log.Fatalf("build server: %v", err)
	}

	logger.Printf("listening on http://localhost%s", cfg.Server.Addr)
	log.Fatal(http.ListenAndServe(cfg.Server.Addr, handler))
}

func loadConfig() (*config.Config, error) {
	path := os.Getenv("CHORESAPP_CONFIG")
	if path == "" {
		path = "choresapp.yml"
	}

	cfg, err := config.Load(path)
	if os.IsNotExist(err) {
		cfg = config.Default()
	} else if err != nil {
		return nil, err
	}

	cfg.ApplyEnv()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func newLogger(cfg *config.Config) *log.Logger {
	var out io.Writer = os.Stderr
	if cfg.Log.File != "" {
		out = &lumberjack.Logger{
			Filename:   cfg.Log.File,
			MaxSize:    cfg.Log.MaxSizeMB,
			MaxBackups: cfg.Log.MaxBackups,
			MaxAge:     cfg.Log.MaxAgeDays,
			Compress:   true,
		}
	}
	return log.New(out, "", 0)
}
