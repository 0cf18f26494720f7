// Package pipeline runs one classify request end to end:
// fetch → normalize → classify → match, inside a scoped temp directory.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"accent-check-go/internal/classifier"
	"accent-check-go/internal/logger"
	"accent-check-go/internal/matcher"
	"accent-check-go/internal/types"
)

// Fetcher downloads source media to a local path.
type Fetcher interface {
	Fetch(ctx context.Context, sourceURL, dest string) error
}

// Normalizer converts media to mono 16 kHz PCM WAV.
type Normalizer interface {
	Normalize(ctx context.Context, src, dest string) error
}

// Stage is a state of the per-request lifecycle.
type Stage string

const (
	StageIdle        Stage = "idle"
	StageAcquiring   Stage = "acquiring"
	StageNormalizing Stage = "normalizing"
	StageClassifying Stage = "classifying"
	StageMatching    Stage = "matching"
	StageCompleted   Stage = "completed"
	StageFailed      Stage = "failed"
)

const (
	DefaultFetchTimeout     = 2 * time.Minute
	DefaultNormalizeTimeout = time.Minute
)

// Request is the input of one run.
type Request struct {
	VideoURL        string
	RequestedAccent string
	// RequestID correlates job logs with the HTTP request that started it.
	RequestID string
}

// Job is the ephemeral state of one run. It is owned by a single Run call.
type Job struct {
	ID        string
	Request   Request
	Dir       string
	VideoPath string
	AudioPath string

	stage Stage
	log   *logrus.Entry
}

// Stage returns the current lifecycle state.
func (j *Job) Stage() Stage { return j.stage }

// Orchestrator composes the pipeline stages. It holds no per-request state
// and is safe for concurrent use.
type Orchestrator struct {
	fetcher          Fetcher
	normalizer       Normalizer
	classifier       classifier.Classifier
	fetchTimeout     time.Duration
	normalizeTimeout time.Duration
	tempRoot         string
	log              *logger.Logger
	observe          func(*Job)
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithFetchTimeout sets the acquisition budget.
func WithFetchTimeout(d time.Duration) Option {
	return func(o *Orchestrator) {
		if d > 0 {
			o.fetchTimeout = d
		}
	}
}

// WithNormalizeTimeout sets the transcoding budget.
func WithNormalizeTimeout(d time.Duration) Option {
	return func(o *Orchestrator) {
		if d > 0 {
			o.normalizeTimeout = d
		}
	}
}

// WithTempRoot sets where job directories are created.
func WithTempRoot(dir string) Option {
	return func(o *Orchestrator) { o.tempRoot = dir }
}

// WithLogger sets the logger.
func WithLogger(l *logger.Logger) Option {
	return func(o *Orchestrator) {
		if l != nil {
			o.log = l
		}
	}
}

// WithObserver registers a hook called on every stage transition.
func WithObserver(fn func(*Job)) Option {
	return func(o *Orchestrator) { o.observe = fn }
}

// New builds an Orchestrator around an already-loaded classifier.
func New(f Fetcher, n Normalizer, c classifier.Classifier, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		fetcher:          f,
		normalizer:       n,
		classifier:       c,
		fetchTimeout:     DefaultFetchTimeout,
		normalizeTimeout: DefaultNormalizeTimeout,
		log:              logger.New(),
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// ModelID identifies the loaded classifier.
func (o *Orchestrator) ModelID() string {
	return o.classifier.ModelID()
}

// Run processes one request. Failures are returned as *Error. The job's temp
// directory is removed before Run returns, whatever the outcome. Cancellation
// of ctx is ignored; only the stage budgets abort work.
func (o *Orchestrator) Run(ctx context.Context, req Request) (resp types.ClassifyResponse, err error) {
	job := &Job{
		ID:      uuid.New().String(),
		Request: req,
		stage:   StageIdle,
	}
	job.log = o.log.WithField("component", "pipeline").WithField("job_id", job.ID)
	if req.RequestID != "" {
		job.log = job.log.WithField("req_id", req.RequestID)
	}

	if strings.TrimSpace(req.VideoURL) == "" {
		return types.ClassifyResponse{}, o.fail(job, KindValidation, ErrMissingURL)
	}

	dir, err := os.MkdirTemp(o.tempRoot, "accent-job-")
	if err != nil {
		return types.ClassifyResponse{}, o.fail(job, KindInternal, fmt.Errorf("create job dir: %w", err))
	}
	job.Dir = dir
	job.VideoPath = filepath.Join(dir, "video.mp4")
	job.AudioPath = filepath.Join(dir, "audio.wav")
	defer o.cleanup(job)
	defer func() {
		if r := recover(); r != nil {
			resp = types.ClassifyResponse{}
			err = o.fail(job, KindInternal, fmt.Errorf("panic: %v", r))
		}
	}()

	start := time.Now()
	resp, err = o.run(context.WithoutCancel(ctx), job)
	entry := job.log.WithField("duration_ms", time.Since(start).Milliseconds())
	if err == nil {
		entry.WithField("verdict", resp.Verdict).WithField("match_type", resp.MatchType).Info("job completed")
	}
	return resp, err
}

func (o *Orchestrator) run(ctx context.Context, job *Job) (types.ClassifyResponse, error) {
	o.enter(job, StageAcquiring)
	if timedOut, err := bounded(ctx, o.fetchTimeout, func(ctx context.Context) error {
		return o.fetcher.Fetch(ctx, job.Request.VideoURL, job.VideoPath)
	}); err != nil {
		if timedOut {
			return types.ClassifyResponse{}, o.fail(job, KindAcquisitionTimeout, err)
		}
		return types.ClassifyResponse{}, o.fail(job, KindAcquisitionError, err)
	}

	o.enter(job, StageNormalizing)
	if timedOut, err := bounded(ctx, o.normalizeTimeout, func(ctx context.Context) error {
		return o.normalizer.Normalize(ctx, job.VideoPath, job.AudioPath)
	}); err != nil {
		if timedOut {
			return types.ClassifyResponse{}, o.fail(job, KindNormalizationTimeout, err)
		}
		return types.ClassifyResponse{}, o.fail(job, KindNormalizationError, err)
	}

	o.enter(job, StageClassifying)
	cls, err := o.classify(ctx, job.AudioPath)
	if err != nil {
		return types.ClassifyResponse{}, o.fail(job, KindClassificationError, err)
	}

	o.enter(job, StageMatching)
	verdict := matcher.Evaluate(cls.Detected(), job.Request.RequestedAccent)

	o.enter(job, StageCompleted)
	return BuildResponse(cls, verdict), nil
}

// classify converts adapter panics into errors.
func (o *Orchestrator) classify(ctx context.Context, audioPath string) (c classifier.Classification, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("classifier panic: %v", r)
		}
	}()
	c, err = o.classifier.Classify(ctx, audioPath)
	if err == nil && len(c.Ranked) == 0 {
		err = classifier.ErrNoLabels
	}
	return c, err
}

// bounded runs fn under a deadline d and reports whether a failure was
// caused by that deadline.
func bounded(ctx context.Context, d time.Duration, fn func(context.Context) error) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, d)
	defer cancel()
	err := fn(ctx)
	if err == nil {
		return false, nil
	}
	return errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded), err
}

func (o *Orchestrator) enter(job *Job, s Stage) {
	job.stage = s
	job.log.WithField("stage", s).Debug("stage entered")
	if o.observe != nil {
		o.observe(job)
	}
}

func (o *Orchestrator) fail(job *Job, kind Kind, err error) *Error {
	failed := job.stage
	pe := &Error{Kind: kind, Stage: failed, Err: err}
	o.enter(job, StageFailed)
	job.log.WithField("failed_stage", failed).WithField("kind", kind).WithField("error", err.Error()).Warn("job failed")
	return pe
}

func (o *Orchestrator) cleanup(job *Job) {
	if job.Dir == "" {
		return
	}
	if err := os.RemoveAll(job.Dir); err != nil {
		job.log.WithField("dir", job.Dir).WithField("error", err.Error()).Error("failed to remove job dir")
	}
}
