// Package worker runs searches on a single background goroutine and exposes
// a non-blocking handle to the front end.
//
// The two sides talk over four channels of capacity one:
//
//	requests  front end -> worker, received while the worker is idle
//	cancel    front end -> worker, polled between controller calls
//	progress  worker -> front end, latest value wins
//	results   worker -> front end, exactly one per search
//
// Only one search may be outstanding at a time. SubmitSearch is refused until
// the previous outcome has been collected with PollResult.
package worker

import (
	"context"
	"errors"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/unifi-search-tool/unifi-search/internal/metrics"
	"github.com/unifi-search-tool/unifi-search/internal/search"
)

// DefaultNotifyTimeout bounds each notifier call.
const DefaultNotifyTimeout = 10 * time.Second

// ErrSearchInProgress is returned by SubmitSearch while an outcome is
// still outstanding.
var ErrSearchInProgress = errors.New("a search is already in progress")

// Runner executes one search. *search.Orchestrator satisfies it.
type Runner interface {
	Run(ctx context.Context, req *search.Request, hooks search.Hooks) search.Outcome
}

// RunnerFunc adapts a function to Runner.
type RunnerFunc func(ctx context.Context, req *search.Request, hooks search.Hooks) search.Outcome

func (f RunnerFunc) Run(ctx context.Context, req *search.Request, hooks search.Hooks) search.Outcome {
	return f(ctx, req, hooks)
}

// Notifier is told about every search after its outcome has been delivered.
type Notifier interface {
	Name() string
	SearchCompleted(ctx context.Context, rec search.Record) error
}

// Config tunes the worker.
type Config struct {
	NotifyTimeout time.Duration
}

// Worker owns the background search goroutine and its channel endpoints.
type Worker struct {
	requests chan *search.Request
	cancel   chan struct{}
	progress chan float32
	results  chan search.Outcome

	pending atomic.Bool

	runner        Runner
	notifiers     []Notifier
	notifyTimeout time.Duration
	metrics       *metrics.Metrics
	logger        *zap.SugaredLogger
	now           func() time.Time
}

// New creates a Worker. m may be nil.
func New(runner Runner, cfg Config, m *metrics.Metrics, logger *zap.SugaredLogger, notifiers ...Notifier) *Worker {
	if cfg.NotifyTimeout <= 0 {
		cfg.NotifyTimeout = DefaultNotifyTimeout
	}

	return &Worker{
		requests:      make(chan *search.Request, 1),
		cancel:        make(chan struct{}, 1),
		progress:      make(chan float32, 1),
		results:       make(chan search.Outcome, 1),
		runner:        runner,
		notifiers:     notifiers,
		notifyTimeout: cfg.NotifyTimeout,
		metrics:       m,
		logger:        logger,
		now:           time.Now,
	}
}

// Run processes requests until ctx is done. A search still running at that
// point is abandoned and its outcome is not delivered.
func (w *Worker) Run(ctx context.Context) error {
	w.logger.Info("Search worker started")

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("Search worker stopped")
			return ctx.Err()
		case req := <-w.requests:
			w.handle(ctx, req)
		}
	}
}

func (w *Worker) handle(ctx context.Context, req *search.Request) {
	started := w.now()

	log := w.logger.With("search_id", req.ID)
	log.Infow("Search started", "server", req.ServerURL, "target", req.TargetMAC)

	w.metrics.RecordSearchStarted()
	w.publishProgress(0)

	outcome := w.runner.Run(ctx, req, search.Hooks{
		Cancelled: w.pollCancel,
		Progress:  w.publishProgress,
	})

	rec := search.Record{
		ID:         req.ID,
		TargetMAC:  req.TargetMAC,
		ServerURL:  req.ServerURL,
		StartedAt:  started,
		FinishedAt: w.now(),
		Outcome:    outcome,
	}

	w.metrics.RecordSearchComplete(outcome.Kind.String(), outcome.ErrorKind(), rec.Duration())

	if outcome.Kind == search.KindFailed {
		log.Warnw("Search failed", "error", outcome.Err, "kind", outcome.ErrorKind(), "duration", rec.Duration())
	} else {
		log.Infow("Search completed", "outcome", outcome.Kind.String(), "duration", rec.Duration())
	}

	select {
	case w.results <- outcome:
	case <-ctx.Done():
		return
	}

	w.notify(ctx, rec)
}

func (w *Worker) notify(ctx context.Context, rec search.Record) {
	for _, n := range w.notifiers {
		nctx, cancel := context.WithTimeout(ctx, w.notifyTimeout)
		err := n.SearchCompleted(nctx, rec)
		cancel()

		w.metrics.RecordNotification(n.Name(), err)

		if err != nil {
			w.logger.Warnw("Failed to deliver search notification",
				"notifier", n.Name(),
				"search_id", rec.ID,
				"error", err,
			)
		}
	}
}

// publishProgress replaces any unread progress value with p. It never blocks.
func (w *Worker) publishProgress(p float32) {
	for {
		select {
		case w.progress <- p:
			return
		default:
		}

		select {
		case <-w.progress:
		default:
		}
	}
}

func (w *Worker) pollCancel() bool {
	select {
	case <-w.cancel:
		return true
	default:
		return false
	}
}

// SubmitSearch hands req to the worker. The worker takes ownership of req,
// including wiping its credentials. An ID is assigned if req has none.
func (w *Worker) SubmitSearch(req *search.Request) error {
	if !w.pending.CompareAndSwap(false, true) {
		return ErrSearchInProgress
	}

	// A cancel or progress value left over from the previous search must not
	// leak into this one.
	drain(w.cancel)
	drain(w.progress)

	if req.ID == "" {
		req.ID = uuid.NewString()
	}

	w.requests <- req

	return nil
}

// PollProgress returns the latest progress value, if a new one was published.
func (w *Worker) PollProgress() (float32, bool) {
	select {
	case p := <-w.progress:
		return p, true
	default:
		return 0, false
	}
}

// PollResult returns the outcome of the outstanding search once it is ready.
// Collecting the outcome allows the next submission.
func (w *Worker) PollResult() (search.Outcome, bool) {
	select {
	case o := <-w.results:
		w.pending.Store(false)
		return o, true
	default:
		return search.Outcome{}, false
	}
}

// RequestCancel asks the running search to stop. It has no effect when no
// search is outstanding and may be called repeatedly.
func (w *Worker) RequestCancel() {
	if !w.pending.Load() {
		return
	}

	select {
	case w.cancel <- struct{}{}:
	default:
	}
}

// Pending reports whether a submitted search has not yet been collected.
func (w *Worker) Pending() bool {
	return w.pending.Load()
}

func drain[T any](ch chan T) {
	for {
		select {
		case <-ch:
		default:
			return
		}
	}
}
