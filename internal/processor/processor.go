// Package processor runs batch records through the classify pipeline.
package processor

import (
	"context"
	"time"

	"accent-check-go/internal/actionable"
	"accent-check-go/internal/aggregator"
	"accent-check-go/internal/logger"
	"accent-check-go/internal/pipeline"
	"accent-check-go/internal/types"
)

// Runner executes one classify request.
type Runner interface {
	Run(ctx context.Context, req pipeline.Request) (types.ClassifyResponse, error)
}

// Report is the outcome of a batch.
type Report struct {
	Results    []types.BatchResult   `json:"results"`
	Insight    aggregator.Insight    `json:"insight"`
	ActionCard actionable.ActionCard `json:"action_card"`
}

type Processor struct {
	runner Runner
	log    *logger.Logger
}

func New(r Runner, log *logger.Logger) *Processor {
	if log == nil {
		log = logger.New()
	}
	return &Processor{runner: r, log: log}
}

// Process runs records sequentially. A failed row is recorded and the batch
// continues; cancellation of ctx stops before the next row.
func (p *Processor) Process(ctx context.Context, records []types.BatchRecord) Report {
	log := p.log.WithField("component", "processor").WithField("rows", len(records))
	log.Info("batch started")

	results := make([]types.BatchResult, 0, len(records))
	for _, rec := range records {
		if ctx.Err() != nil {
			log.WithField("processed", len(results)).Warn("batch interrupted")
			break
		}
		results = append(results, p.one(ctx, rec))
	}

	ins := aggregator.Aggregate(results)
	card := actionable.Generate(ins)
	log.WithField("passed", ins.Passed).WithField("failed", ins.Failed).WithField("errored", ins.Errored).Info("batch finished")
	return Report{Results: results, Insight: ins, ActionCard: card}
}

func (p *Processor) one(ctx context.Context, rec types.BatchRecord) types.BatchResult {
	rowLog := p.log.WithField("row", rec.Row).WithField("video_url", rec.VideoURL)
	rowLog.Info("processing row")

	start := time.Now()
	resp, err := p.runner.Run(ctx, pipeline.Request{VideoURL: rec.VideoURL, RequestedAccent: rec.RequestedAccent})
	res := types.BatchResult{BatchRecord: rec, DurationMs: time.Since(start).Milliseconds()}
	if err != nil {
		pe := pipeline.AsError(err)
		res.Error = pe.Message()
		res.ErrorKind = string(pe.Kind)
		rowLog.WithField("kind", pe.Kind).Warn("row failed")
		return res
	}
	res.Response = &resp
	return res
}
