package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"stagecast/internal/assets"
	"stagecast/internal/hub"
	"stagecast/internal/library"
	"stagecast/internal/platform/config"
	"stagecast/internal/platform/logger"
	"stagecast/internal/platform/metrics"
	"stagecast/internal/presenter"

	"github.com/go-chi/chi/v5"
)

const shutdownTimeout = 10 * time.Second

func main() {
	_ = config.Load()

	port := config.GetEnv("PORT", "8080")
	logLevel := config.GetEnv("LOG_LEVEL", "info")
	logFormat := config.GetEnv("LOG_FORMAT", "json")
	libraryFile := config.GetEnv("LIBRARY_FILE", "library.json")
	backgroundsDir := config.GetEnv("BACKGROUNDS_DIR", "")
	sendBuffer := config.GetEnvInt("CLIENT_SEND_BUFFER", hub.DefaultSendBuffer)
	autopilotOn := config.GetEnvBool("AUTOPILOT_ENABLED", true)

	log := logger.New(logLevel, logFormat)

	repo := library.NewRepository()
	if err := repo.LoadFile(libraryFile); err != nil {
		log.Error("library load failed", "file", libraryFile, "error", err)
		os.Exit(1)
	}

	catalog := assets.NewCatalog(backgroundsDir, log)
	if err := catalog.Scan(); err != nil {
		log.Warn("background scan failed", "dir", backgroundsDir, "error", err)
	}

	state := presenter.NewState()
	hydrator := presenter.NewHydrator(repo)
	var autopilot *presenter.Autopilot
	if autopilotOn {
		autopilot = presenter.NewAutopilot(repo, hydrator, log)
	}
	met := metrics.New()
	h := hub.New(state, hydrator, autopilot, catalog, log, met, sendBuffer)
	catalog.OnChange(h.BroadcastBackgrounds)

	libHandler := library.NewHandler(repo, log)

	r := chi.NewRouter()
	r.Use(logger.RequestLogger(log))
	r.Use(metrics.RequestMiddleware(met))
	r.Get("/metrics", func(w http.ResponseWriter, r *http.Request) {
		met.Handler(func() { met.SetConnectedClients(h.ClientCount()) }).ServeHTTP(w, r)
	})
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	r.Get("/ws", h.ServeWS)
	r.Post("/hydrate", h.HandleHydrate)
	r.Get("/songs", libHandler.ListSongs)
	r.Get("/songs/{song_id}", libHandler.GetSong)
	r.Get("/schedule", libHandler.GetActiveSchedule)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go catalog.Watch(ctx)

	addr := ":" + port
	srv := &http.Server{Addr: addr, Handler: r}

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	log.Info("server starting",
		"port", port,
		"library_file", libraryFile,
		"backgrounds_dir", backgroundsDir,
		"autopilot", autopilotOn,
		"log_level", logLevel,
	)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	log.Info("shutdown signal received, draining connections")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("shutdown error", "error", err)
		os.Exit(1)
	}

	log.Info("server stopped")
}
