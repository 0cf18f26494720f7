package app

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"accent-check-go/internal/config"
	"accent-check-go/internal/logger"
	"accent-check-go/internal/types"
)

func staticConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := config.Default()
	cfg.Media.TempDir = t.TempDir()
	cfg.Classifier.Backend = config.BackendStatic
	cfg.Classifier.StaticLabel = "ireland"
	return &cfg
}

func TestBuildStatic(t *testing.T) {
	a, err := Build(context.Background(), staticConfig(t), logger.Discard())
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	defer a.Close()

	srv := httptest.NewServer(a.Server().Handler())
	defer srv.Close()
	resp, err := http.Get(srv.URL + "/health")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	var h types.HealthResponse
	if err := json.NewDecoder(resp.Body).Decode(&h); err != nil {
		t.Fatal(err)
	}
	if h.Model != "accent-id-commonaccent_ecapa" {
		t.Fatalf("model = %q", h.Model)
	}
}

func TestNewClassifierRemoteWaitsForHealth(t *testing.T) {
	model := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/health" {
			w.WriteHeader(http.StatusOK)
			return
		}
		http.NotFound(w, r)
	}))
	defer model.Close()

	cfg := config.Default().Classifier
	cfg.URL = model.URL
	cfg.ReadyWaitSec = 2
	c, closeFn, err := NewClassifier(context.Background(), cfg, logger.Discard())
	if err != nil {
		t.Fatalf("NewClassifier: %v", err)
	}
	if closeFn != nil || c.ModelID() != cfg.ModelID {
		t.Fatalf("unexpected classifier %T", c)
	}
}

func TestNewClassifierRemoteNotReady(t *testing.T) {
	model := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer model.Close()

	cfg := config.Default().Classifier
	cfg.URL = model.URL
	cfg.ReadyWaitSec = 1
	if _, _, err := NewClassifier(context.Background(), cfg, logger.Discard()); err == nil {
		t.Fatal("expected readiness error")
	}
}

func TestNewClassifierErrors(t *testing.T) {
	tests := []struct {
		name string
		cfg  config.Classifier
	}{
		{"unknown backend", config.Classifier{Backend: "magic"}},
		{"empty command", config.Classifier{Backend: config.BackendCommand}},
		{"bad static label", config.Classifier{Backend: config.BackendStatic, StaticLabel: "mars"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, _, err := NewClassifier(context.Background(), tt.cfg, logger.Discard()); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}

func TestServerEnablesDemoWithDataset(t *testing.T) {
	cfg := staticConfig(t)
	cfg.Dataset.Path = "does-not-exist.xlsx"
	a, err := Build(context.Background(), cfg, logger.Discard())
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	srv := httptest.NewServer(a.Server().Handler())
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/demo")
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500 for unreadable dataset", resp.StatusCode)
	}
}
