package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"accent-check-go/internal/app"
	"accent-check-go/internal/config"
	"accent-check-go/internal/logger"
)

func main() {
	cfg, err := config.Load("")
	if err != nil {
		logger.New().WithError(err).Fatal("invalid configuration")
	}
	log := logger.NewWith(cfg.Environment, cfg.LogLevel)
	log.WithField("service", "accent-check-go").Info("starting service")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// the classifier is loaded once here and shared by every request
	a, err := app.Build(ctx, cfg, log)
	if err != nil {
		log.WithError(err).Fatal("failed to load classifier")
	}
	defer a.Close()

	// stage budgets plus classification must fit inside WriteTimeout
	writeTimeout := cfg.Media.FetchTimeout() + cfg.Media.NormalizeTimeout() + cfg.Classifier.Timeout() + 30*time.Second
	srv := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      a.Server().Handler(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: writeTimeout,
		IdleTimeout:  120 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		log.WithField("addr", srv.Addr).Info("listening")
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Fatal("server terminated")
		}
	case <-ctx.Done():
		log.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), writeTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.WithError(err).Error("graceful shutdown failed")
		}
	}
}
