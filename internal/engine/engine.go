package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/gyaneshwarpardhi/casetimeline/internal/config"
	"github.com/gyaneshwarpardhi/casetimeline/internal/event"
	"github.com/gyaneshwarpardhi/casetimeline/internal/metrics"
	"github.com/gyaneshwarpardhi/casetimeline/internal/normalize"
	"github.com/gyaneshwarpardhi/casetimeline/internal/record"
	"github.com/gyaneshwarpardhi/casetimeline/internal/timeline"
)

// ErrShutdown is returned when the engine has stopped, either before the
// fetch jobs could be queued or while an aggregation waits.
var ErrShutdown = errors.New("engine shut down")

// Result is the outcome of one timeline aggregation.
type Result struct {
	InvocationID  string                 `json:"invocation_id"`
	CaseID        string                 `json:"case_id"`
	Events        []event.Event          `json:"events"`
	Diagnostics   []normalize.Diagnostic `json:"diagnostics,omitempty"`
	FailedSources []record.Kind          `json:"failed_sources,omitempty"`
	DurationMs    int64                  `json:"duration_ms"`
}

// Engine fetches a case's sources concurrently and runs the timeline pipeline.
type Engine struct {
	ctx     context.Context
	sources Sources
	pool    *workerPool[*fetchWork]
	conf    config.EngineConf
	logger  *slog.Logger
	now     func() time.Time
}

type fetchWork struct {
	ctx     context.Context // invocation scope
	caseID  string
	job     sourceJob
	resultC chan<- fetchResult
}

type fetchResult struct {
	kind     record.Kind
	apply    func(*timeline.Collections)
	attempts int
	err      error
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the logger. Defaults to slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) { e.logger = l }
}

// WithClock overrides the "now" handed to the time-range filter.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// New creates an Engine and starts its fetch workers. Workers stop when ctx ends.
func New(ctx context.Context, sources Sources, conf config.EngineConf, opts ...Option) *Engine {
	if conf.FetchWorkers < 1 {
		conf.FetchWorkers = 1
	}
	if conf.QueueDepth < 1 {
		conf.QueueDepth = 1
	}
	e := &Engine{
		ctx:     ctx,
		sources: sources,
		conf:    conf,
		logger:  slog.Default(),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	e.pool = newWorkerPool[*fetchWork](ctx, conf.FetchWorkers, conf.QueueDepth, func(_ context.Context, w *fetchWork) {
		w.resultC <- e.fetch(w)
	})
	return e
}

// Timeline fetches every configured source for caseID and returns the
// filtered, ordered feed. A failing source contributes no events; it never
// aborts the aggregation. If ctx ends first, ctx.Err() is returned and any
// late fetch result is discarded.
func (e *Engine) Timeline(ctx context.Context, caseID string, viewer *timeline.Viewer, crit timeline.Criteria) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	start := time.Now()
	invocation := uuid.NewString()
	log := e.logger.With("invocation_id", invocation, "case_id", caseID)

	jobs := e.sources.jobs()
	// Buffered so workers never block on an abandoned invocation.
	resultC := make(chan fetchResult, len(jobs))

	var failed []record.Kind
	pending := 0
	for _, j := range jobs {
		w := &fetchWork{ctx: ctx, caseID: caseID, job: j, resultC: resultC}
		if err := e.pool.Submit(w); err != nil {
			if errors.Is(err, errPoolClosed) {
				metrics.Aggregations.WithLabelValues("shutdown").Inc()
				return nil, ErrShutdown
			}
			metrics.SourceFailures.WithLabelValues(string(j.kind), "queue_full").Inc()
			log.Warn("fetch queue full, source skipped", "kind", j.kind, "capacity", e.pool.QueueCap())
			failed = append(failed, j.kind)
			continue
		}
		pending++
	}

	var src timeline.Collections
	for pending > 0 {
		select {
		case res := <-resultC:
			pending--
			if res.err != nil {
				metrics.SourceFailures.WithLabelValues(string(res.kind), "error").Inc()
				log.Warn("source fetch failed, treating as empty", "kind", res.kind, "attempts", res.attempts, "err", res.err)
				failed = append(failed, res.kind)
				continue
			}
			res.apply(&src)
		case <-ctx.Done():
			metrics.Aggregations.WithLabelValues("cancelled").Inc()
			log.Debug("aggregation abandoned", "pending", pending, "err", ctx.Err())
			return nil, ctx.Err()
		case <-e.ctx.Done():
			metrics.Aggregations.WithLabelValues("shutdown").Inc()
			return nil, ErrShutdown
		}
	}

	if err := ctx.Err(); err != nil {
		metrics.Aggregations.WithLabelValues("cancelled").Inc()
		return nil, err
	}

	out := timeline.Run(src, viewer, crit, e.now())
	for _, d := range out.Diagnostics {
		metrics.RecordsRejected.WithLabelValues(string(d.Kind)).Inc()
		log.Warn("record skipped", "kind", d.Kind, "record_id", d.RecordID, "field", d.Field)
	}

	res := &Result{
		InvocationID:  invocation,
		CaseID:        caseID,
		Events:        out.Events,
		Diagnostics:   out.Diagnostics,
		FailedSources: failed,
		DurationMs:    time.Since(start).Milliseconds(),
	}
	metrics.Aggregations.WithLabelValues("ok").Inc()
	metrics.EventsReturned.Observe(float64(len(res.Events)))
	metrics.AggregationDuration.Observe(float64(res.DurationMs))
	log.Debug("timeline aggregated", "raw", src.Len(), "events", len(res.Events), "failed_sources", len(failed))
	return res, nil
}

// fetch runs one source job with retries, honouring the invocation context.
func (e *Engine) fetch(w *fetchWork) fetchResult {
	res := fetchResult{kind: w.job.kind}
	for attempt := 0; attempt <= e.conf.FetchRetries; attempt++ {
		if attempt > 0 {
			backoff := time.Duration(attempt*e.conf.RetryBackoffMs) * time.Millisecond
			select {
			case <-time.After(backoff):
			case <-w.ctx.Done():
				res.err = w.ctx.Err()
				return res
			}
		}
		if err := w.ctx.Err(); err != nil {
			res.err = err
			return res
		}

		res.attempts++
		metrics.FetchAttempts.WithLabelValues(string(w.job.kind)).Inc()
		apply, err := e.attempt(w)
		if err == nil {
			res.apply, res.err = apply, nil
			return res
		}
		res.err = fmt.Errorf("fetch %s: %w", w.job.kind, err)
	}
	return res
}

func (e *Engine) attempt(w *fetchWork) (func(*timeline.Collections), error) {
	ctx := w.ctx
	if e.conf.FetchTimeoutMs > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, time.Duration(e.conf.FetchTimeoutMs)*time.Millisecond)
		defer cancel()
	}
	return w.job.fetch(ctx, w.caseID)
}

// QueueUtilization returns queue used / capacity (0–1).
func (e *Engine) QueueUtilization() float64 {
	if e.pool.QueueCap() == 0 {
		return 0
	}
	return float64(e.pool.QueueLen()) / float64(e.pool.QueueCap())
}

// Shutdown drains the fetch pool gracefully. Later Timeline calls return
// ErrShutdown.
func (e *Engine) Shutdown() {
	e.pool.Drain()
}
