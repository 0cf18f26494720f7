// Package app wires configuration into the service components.
package app

import (
	"context"
	"errors"
	"fmt"

	"accent-check-go/internal/api"
	"accent-check-go/internal/classifier"
	"accent-check-go/internal/config"
	"accent-check-go/internal/dataset"
	"accent-check-go/internal/logger"
	"accent-check-go/internal/media"
	"accent-check-go/internal/pipeline"
	"accent-check-go/internal/taxonomy"
	"accent-check-go/internal/types"
)

// App holds the long-lived handles of a running service.
type App struct {
	Config     *config.Config
	Log        *logger.Logger
	Classifier classifier.Classifier
	Pipeline   *pipeline.Orchestrator

	closers []func() error
}

// Build loads the classifier once and assembles the pipeline around it.
func Build(ctx context.Context, cfg *config.Config, log *logger.Logger) (*App, error) {
	if log == nil {
		log = logger.New()
	}
	a := &App{Config: cfg, Log: log}

	c, closeFn, err := NewClassifier(ctx, cfg.Classifier, log)
	if err != nil {
		return nil, err
	}
	a.Classifier = c
	if closeFn != nil {
		a.closers = append(a.closers, closeFn)
	}

	opts := []media.FetcherOption{
		media.WithMaxBytes(cfg.Media.MaxDownloadBytes),
		media.WithFetchLogger(log),
		media.WithS3(media.NewS3Client(cfg.S3)),
	}
	fetcher := media.NewFetcher(cfg.Media.CurlBinary, opts...)
	normalizer := media.NewNormalizer(cfg.Media.FFmpegBinary, nil)

	a.Pipeline = pipeline.New(fetcher, normalizer, c,
		pipeline.WithTempRoot(cfg.Media.TempDir),
		pipeline.WithFetchTimeout(cfg.Media.FetchTimeout()),
		pipeline.WithNormalizeTimeout(cfg.Media.NormalizeTimeout()),
		pipeline.WithLogger(log),
	)

	log.WithField("backend", cfg.Classifier.Backend).WithField("model", c.ModelID()).Info("classifier loaded")
	return a, nil
}

// NewClassifier constructs the configured backend. The returned close
// function, when non-nil, releases backend resources.
func NewClassifier(ctx context.Context, cfg config.Classifier, log *logger.Logger) (classifier.Classifier, func() error, error) {
	switch cfg.Backend {
	case config.BackendRemote:
		r := classifier.NewRemote(cfg.URL, cfg.ModelID, cfg.Timeout(), classifier.WithRemoteLogger(log))
		if cfg.ReadyWaitSec > 0 {
			if err := r.WaitReady(ctx, cfg.ReadyWait()); err != nil {
				return nil, nil, err
			}
		}
		return r, nil, nil
	case config.BackendCommand:
		c, err := classifier.NewCommand(cfg.Command, cfg.ModelID, nil)
		if err != nil {
			return nil, nil, err
		}
		return c, nil, nil
	case config.BackendONNX:
		o, err := classifier.NewONNX(cfg.ONNXModel, cfg.ONNXLibrary, cfg.ModelID)
		if err != nil {
			return nil, nil, err
		}
		return o, o.Close, nil
	case config.BackendStatic:
		label, ok := taxonomy.Parse(cfg.StaticLabel)
		if !ok {
			return nil, nil, fmt.Errorf("static label %q: not a taxonomy label", cfg.StaticLabel)
		}
		s, err := classifier.NewStatic(cfg.ModelID, label, 0.9)
		if err != nil {
			return nil, nil, err
		}
		return s, nil, nil
	default:
		return nil, nil, fmt.Errorf("unknown classifier backend %q", cfg.Backend)
	}
}

// Server builds the HTTP surface; /demo is enabled when a dataset is set.
func (a *App) Server() *api.Server {
	opts := []api.Option{api.WithLogger(a.Log)}
	if path := a.Config.Dataset.Path; path != "" {
		src := func() ([]types.BatchRecord, error) { return dataset.Load(path) }
		opts = append(opts, api.WithDemo(src, a.Config.Dataset.DemoLimit))
	}
	return api.New(a.Pipeline, opts...)
}

// Close releases backend resources.
func (a *App) Close() error {
	var errs []error
	for _, c := range a.closers {
		errs = append(errs, c())
	}
	return errors.Join(errs...)
}
