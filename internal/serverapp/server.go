package serverapp

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/adam-price1/choresapp/internal/chore"
	"github.com/adam-price1/choresapp/internal/config"
	"github.com/adam-price1/choresapp/internal/httpmw"
	"github.com/adam-price1/choresapp/internal/journal"
	"github.com/adam-price1/choresapp/internal/photo"
)

type Options struct {
	Config *config.Config
	Logger *log.Logger
}

// NewHandler wires storage, services and routes into one http.Handler.
func NewHandler(ctx context.Context, opts Options) (http.Handler, error) {
	if opts.Config == nil {
		return nil, errors.New("config is required")
	}
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}
	cfg := opts.Config

	choreRepo, commentRepo, err := buildRepos(cfg)
	if err != nil {
		return nil, err
	}

	var uploader photo.Uploader
	if cfg.Photos.Enabled {
		up, err := photo.NewS3Uploader(ctx, photo.S3Options{
			Bucket:        cfg.Photos.Bucket,
			Region:        cfg.Photos.Region,
			Profile:       cfg.Photos.Profile,
			KeyPrefix:     cfg.Photos.KeyPrefix,
			PublicBaseURL: cfg.Photos.PublicBaseURL,
		})
		if err != nil {
			return nil, err
		}
		uploader = up
	}

	choreService := chore.NewService(choreRepo, chore.Config{
		OwnDayWeeklyCap: cfg.Chores.OwnDayWeeklyCap,
		OwnDayTitle:     cfg.Chores.OwnDayTitle,
	})
	commentService := journal.NewService(commentRepo, uploader, journal.Config{
		MaxPhotoBytes: cfg.Comments.MaxPhotoBytes,
		PhotoTypes:    cfg.Comments.PhotoTypes,
	})

	mux := http.NewServeMux()

	choreHandler := chore.NewHandler(choreService)
	mux.HandleFunc("/api/chores", choreHandler.ChoresRoot)
	mux.HandleFunc("/api/chores/", choreHandler.ChoresSub)

	commentHandler := journal.NewHandler(commentService)
	mux.HandleFunc("/api/comments", commentHandler.CommentsRoot)

	mux.Handle("/metrics", promhttp.Handler())

	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"ok":      true,
			"service": "choresapp",
			"time":    time.Now().UTC().Format(time.RFC3339),
		})
	})

	mux.HandleFunc("/readyz", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		if _, err := choreRepo.List(chore.ListFilter{}); err != nil {
			writeJSON(w, http.StatusServiceUnavailable, map[string]any{
				"ok":    false,
				"error": "chore storage unavailable",
			})
			return
		}
		if _, err := commentRepo.List(); err != nil {
			writeJSON(w, http.StatusServiceUnavailable, map[string]any{
				"ok":    false,
				"error": "comment storage unavailable",
			})
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"ok":      true,
			"service": "choresapp",
			"time":    time.Now().UTC().Format(time.RFC3339),
		})
	})

	return httpmw.Chain(
		mux,
		httpmw.WithAccessLog(opts.Logger),
		httpmw.WithRequestID,
		httpmw.WithMetrics,
		httpmw.WithRecover(opts.Logger),
	), nil
}

func buildRepos(cfg *config.Config) (chore.Repo, journal.Repo, error) {
	switch cfg.Storage.Backend {
	case config.BackendMemory:
		return chore.NewMemoryRepo(), journal.NewMemoryRepo(), nil
	case config.BackendSQLite:
		path := strings.TrimSpace(cfg.Storage.SQLitePath)
		if path == "" {
			path = filepath.Join(cfg.Server.DataDir, "choresapp.db")
		}
		choreRepo, err := chore.NewSQLiteRepo(path)
		if err != nil {
			return nil, nil, err
		}
		commentRepo, err := journal.NewSQLiteRepo(path)
		if err != nil {
			return nil, nil, err
		}
		return choreRepo, commentRepo, nil
	case config.BackendFile:
		choreRepo, err := chore.NewFileRepo(cfg.Server.DataDir)
		if err != nil {
			return nil, nil, err
		}
		commentRepo, err := journal.NewFileRepo(cfg.Server.DataDir)
		if err != nil {
			return nil, nil, err
		}
		return choreRepo, commentRepo, nil
	default:
		return nil, nil, errors.New("unknown storage backend " + cfg.Storage.Backend)
	}
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}
