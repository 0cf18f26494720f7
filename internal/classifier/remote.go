package classifier

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"

	"accent-check-go/internal/logger"
)

// maxResponseBytes bounds a model server reply.
const maxResponseBytes = 1 << 20

// wireResult is the JSON shape returned by the model server and by classifier
// commands.
type wireResult struct {
	Labels []string  `json:"labels"`
	Probs  []float64 `json:"probs"`
	Score  *float64  `json:"score,omitempty"`
	Model  string    `json:"model,omitempty"`
	Error  string    `json:"error,omitempty"`
}

func decodeWire(body []byte) (Classification, error) {
	var w wireResult
	if err := json.Unmarshal(body, &w); err != nil {
		return Classification{}, fmt.Errorf("%w: json decode: %v", ErrMalformed, err)
	}
	if w.Error != "" {
		return Classification{}, fmt.Errorf("classifier error: %s", w.Error)
	}
	return FromDistribution(w.Labels, w.Probs, w.Score)
}

// Remote talks to a model server that keeps the pretrained classifier
// loaded. The server exposes GET /health and POST /classify (multipart field
// "audio").
type Remote struct {
	endpoint   string
	model      string
	httpClient *http.Client
	log        *logger.Logger
}

// RemoteOption configures a Remote.
type RemoteOption func(*Remote)

// WithHTTPClient overrides the HTTP client.
func WithHTTPClient(c *http.Client) RemoteOption {
	return func(r *Remote) {
		if c != nil {
			r.httpClient = c
		}
	}
}

// WithRemoteLogger sets the logger.
func WithRemoteLogger(l *logger.Logger) RemoteOption {
	return func(r *Remote) {
		if l != nil {
			r.log = l
		}
	}
}

// NewRemote builds a client for the model server at endpoint. timeout bounds
// each HTTP exchange; zero means no client-side limit.
func NewRemote(endpoint, modelID string, timeout time.Duration, opts ...RemoteOption) *Remote {
	r := &Remote{
		endpoint:   strings.TrimRight(endpoint, "/"),
		model:      modelID,
		httpClient: &http.Client{Timeout: timeout},
		log:        logger.New(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *Remote) ModelID() string { return r.model }

// Classify uploads the WAV file and decodes the distribution. It never retries.
func (r *Remote) Classify(ctx context.Context, audioPath string) (Classification, error) {
	f, err := os.Open(audioPath)
	if err != nil {
		return Classification{}, fmt.Errorf("open audio: %w", err)
	}
	defer f.Close()

	var b bytes.Buffer
	w := multipart.NewWriter(&b)
	part, err := w.CreateFormFile("audio", filepath.Base(audioPath))
	if err != nil {
		return Classification{}, err
	}
	if _, err := io.Copy(part, f); err != nil {
		return Classification{}, fmt.Errorf("read audio: %w", err)
	}
	_ = w.Close()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.endpoint+"/classify", &b)
	if err != nil {
		return Classification{}, err
	}
	req.Header.Set("Content-Type", w.FormDataContentType())

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return Classification{}, fmt.Errorf("classifier request: %w", err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return Classification{}, fmt.Errorf("classifier response: %w", err)
	}
	r.log.WithField("component", "classifier.remote").
		WithField("http_status", resp.StatusCode).
		Debug("classifier raw:\n" + string(body))
	if resp.StatusCode >= 300 {
		return Classification{}, fmt.Errorf("classifier http %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	return decodeWire(body)
}

// WaitReady polls the model server's health endpoint with exponential
// backoff until it answers 200 or maxWait elapses. It runs once at startup.
func (r *Remote) WaitReady(ctx context.Context, maxWait time.Duration) error {
	log := r.log.WithField("component", "classifier.remote").WithField("endpoint", r.endpoint)

	op := func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, r.endpoint+"/health", nil)
		if err != nil {
			return backoff.Permanent(err)
		}
		resp, err := r.httpClient.Do(req)
		if err != nil {
			return err
		}
		defer resp.Body.Close()
		_, _ = io.Copy(io.Discard, resp.Body)
		if resp.StatusCode != http.StatusOK {
			return fmt.Errorf("classifier health: status %d", resp.StatusCode)
		}
		return nil
	}

	b := backoff.NewExponentialBackOff()
	b.InitialInterval = 250 * time.Millisecond
	b.MaxInterval = 5 * time.Second
	b.MaxElapsedTime = maxWait

	notify := func(err error, next time.Duration) {
		log.WithField("error", err.Error()).WithField("retry_in", next.String()).Warn("classifier not ready")
	}
	if err := backoff.RetryNotify(op, backoff.WithContext(b, ctx), notify); err != nil {
		return fmt.Errorf("classifier at %s not ready: %w", r.endpoint, err)
	}
	log.Info("classifier ready")
	return nil
}
