package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"karting-service/internal/config"
	bookingAssign "karting-service/internal/http-server/handlers/bookings/assign"
	bookingCreate "karting-service/internal/http-server/handlers/bookings/create"
	bookingGet "karting-service/internal/http-server/handlers/bookings/get"
	bookingStatus "karting-service/internal/http-server/handlers/bookings/status"
	kartAvail "karting-service/internal/http-server/handlers/karts/availability"
	kartAvailable "karting-service/internal/http-server/handlers/karts/available"
	kartCreate "karting-service/internal/http-server/handlers/karts/create"
	kartUpdate "karting-service/internal/http-server/handlers/karts/update"
	notifGet "karting-service/internal/http-server/handlers/notifications/get"
	notifRead "karting-service/internal/http-server/handlers/notifications/read"
	pilotCreate "karting-service/internal/http-server/handlers/pilots/create"
	pilotGet "karting-service/internal/http-server/handlers/pilots/get"
	slotAutoAssign "karting-service/internal/http-server/handlers/timeslots/autoassign"
	slotCreate "karting-service/internal/http-server/handlers/timeslots/create"
	slotGet "karting-service/internal/http-server/handlers/timeslots/get"
	"karting-service/internal/lock"
	svc "karting-service/internal/service"
	"karting-service/internal/storage/postgres"
	"karting-service/pkg/handlers/slogpretty"
	"karting-service/pkg/middleware/mwLogger"
	"karting-service/pkg/sl"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/chi/v5"
)

const (
	envLocal = "local"
	envDev   = "dev"
	envProd  = "prod"
)

func CORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		w.Header().Set("Content-Type", "application/json; charset=utf-8")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func main() {

	cfg := config.MustLoad()

	log := setupLogger(cfg.Env)

	log.Info("Starting API", slog.String("env", cfg.Env))
	log.Debug("Debug messages are enabled")

	storage, err := postgres.New(cfg.StoragePath)
	if err != nil {
		log.Error("Failed to init storage", sl.Err(err))
		os.Exit(1)
	}

	locker, err := lock.NewRedisLock(cfg.RedisAddr)
	if err != nil {
		log.Error("Failed to init redis lock", sl.Err(err))
		os.Exit(1)
	}

	service := svc.NewService(storage, locker)

	router := chi.NewRouter()

	router.Use(middleware.RequestID)
	router.Use(mwLogger.New(log))
	router.Use(middleware.Recoverer)
	router.Use(middleware.URLFormat)
	router.Use(CORS)

	// Pilots
	router.Post("/pilots", pilotCreate.New(log, service))
	router.Get("/pilots/{id}", pilotGet.New(log, service))

	// Karts
	router.Post("/karts", kartCreate.New(log, service))
	router.Put("/karts/{id}", kartUpdate.New(log, service))
	router.Get("/karts/available", kartAvailable.New(log, service))
	router.Post("/karts/availability", kartAvail.New(log, service))

	// Time slots
	router.Post("/timeslots", slotCreate.New(log, service))
	router.Get("/timeslots", slotGet.New(log, service))
	router.Post("/timeslots/{id}/auto-assign", slotAutoAssign.New(log, service))

	// Bookings
	router.Post("/bookings", bookingCreate.New(log, service))
	router.Get("/bookings/{id}", bookingGet.New(log, service))
	router.Put("/bookings/{id}/status", bookingStatus.New(log, service))
	router.Post("/bookings/{id}/kart", bookingAssign.New(log, service))

	// Notifications
	router.Get("/notifications", notifGet.New(log, service))
	router.Put("/notifications/{id}/read", notifRead.New(log, service))

	serv := &http.Server{
		Addr:         cfg.Address,
		Handler:      router,
		ReadTimeout:  cfg.HTTPServer.Timeout,
		WriteTimeout: cfg.HTTPServer.Timeout,
		IdleTimeout:  cfg.HTTPServer.IdleTimeout,
	}

	serverErrCh := make(chan error, 1)

	go func() {
		log.Info("Starting HTTP server", slog.String("addr", cfg.Address))
		if err := serv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErrCh <- err
		} else {
			serverErrCh <- nil
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		log.Info("Received shutdown signal", slog.String("signal", sig.String()))
	case err := <-serverErrCh:
		if err != nil {
			log.Error("HTTP server stopped unexpectedly", sl.Err(err))
		} else {
			log.Info("HTTP server stopped gracefully")
		}
	}

	shutdownTimeout := cfg.HTTPServer.ShutdownTimeout

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	log.Info("Shutting down HTTP server", slog.String("timeout", shutdownTimeout.String()))

	if err := serv.Shutdown(ctx); err != nil {
		log.Error("Server shutdown failed", sl.Err(err))
	} else {
		log.Info("Server shutdown complete")
	}

	if storage != nil {
		if err := storage.Close(); err != nil {
			log.Error("Failed to close storage", sl.Err(err))
		} else {
			log.Info("Storage closed")
		}
	}

	if locker != nil {
		if err := locker.Close(); err != nil {
			log.Error("Failed to close locker", sl.Err(err))
		} else {
			log.Info("Locker closed")
		}
	}

	log.Info("Shutdown finished, server stopped")

}

func setupLogger(env string) *slog.Logger {
	var log *slog.Logger
	switch env {
	case envLocal:
		log = setupPrettySlog()
	case envDev:
		log = slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}),
		)
	case envProd:
		log = slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}),
		)
	}

	return log
}

func setupPrettySlog() *slog.Logger {
	opts := slogpretty.PrettyHandlerOptions{
		SlogOpts: &slog.HandlerOptions{
			Level: slog.LevelDebug,
		},
	}

	handler := opts.NewPrettyHandler(os.Stdout)

	return slog.New(handler)
}
