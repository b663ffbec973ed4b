package worker

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/unifi-search-tool/unifi-search/internal/metrics"
	"github.com/unifi-search-tool/unifi-search/internal/search"
	"github.com/unifi-search-tool/unifi-search/internal/unifi"
)

const (
	waitFor = 2 * time.Second
	tick    = 5 * time.Millisecond
)

type recordingNotifier struct {
	name string
	err  error

	mu      sync.Mutex
	records []search.Record
}

func (n *recordingNotifier) Name() string { return n.name }

func (n *recordingNotifier) SearchCompleted(_ context.Context, rec search.Record) error {
	n.mu.Lock()
	defer n.mu.Unlock()

	n.records = append(n.records, rec)

	return n.err
}

func (n *recordingNotifier) snapshot() []search.Record {
	n.mu.Lock()
	defer n.mu.Unlock()

	return append([]search.Record(nil), n.records...)
}

func startWorker(t *testing.T, runner Runner, m *metrics.Metrics, notifiers ...Notifier) *Worker {
	t.Helper()

	w := New(runner, Config{}, m, zaptest.NewLogger(t).Sugar(), notifiers...)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)

	go func() { done <- w.Run(ctx) }()

	t.Cleanup(func() {
		cancel()
		assert.ErrorIs(t, <-done, context.Canceled)
	})

	return w
}

func waitResult(t *testing.T, w *Worker) search.Outcome {
	t.Helper()

	var out search.Outcome

	require.Eventually(t, func() bool {
		var ok bool
		out, ok = w.PollResult()

		return ok
	}, waitFor, tick)

	return out
}

func newRequest(target string) *search.Request {
	return &search.Request{
		Username:  unifi.NewSecret("admin"),
		Password:  unifi.NewSecret("hunter2"),
		ServerURL: "https://controller.example:8443",
		TargetMAC: target,
	}
}

func TestSubmitAndCollect(t *testing.T) {
	m := metrics.New(prometheus.NewRegistry())
	n := &recordingNotifier{name: "recorder"}

	runner := RunnerFunc(func(_ context.Context, req *search.Request, _ search.Hooks) search.Outcome {
		req.Wipe()
		return search.NotFound()
	})

	w := startWorker(t, runner, m, n)

	req := newRequest("aa:bb:cc:dd:ee:ff")
	require.NoError(t, w.SubmitSearch(req))
	assert.NotEmpty(t, req.ID)
	assert.True(t, w.Pending())

	out := waitResult(t, w)
	assert.Equal(t, search.KindNotFound, out.Kind)
	assert.False(t, w.Pending())

	require.Eventually(t, func() bool { return len(n.snapshot()) == 1 }, waitFor, tick)

	rec := n.snapshot()[0]
	assert.Equal(t, req.ID, rec.ID)
	assert.Equal(t, "aa:bb:cc:dd:ee:ff", rec.TargetMAC)
	assert.Equal(t, "https://controller.example:8443", rec.ServerURL)
	assert.Equal(t, search.KindNotFound, rec.Outcome.Kind)
	assert.False(t, rec.FinishedAt.Before(rec.StartedAt))

	assert.InDelta(t, 1, testutil.ToFloat64(m.SearchesTotal.WithLabelValues("not_found")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(m.NotificationsTotal.WithLabelValues("recorder", "success")), 0)
}

func TestSubmitIsGatedUntilResultCollected(t *testing.T) {
	release := make(chan struct{})

	runner := RunnerFunc(func(context.Context, *search.Request, search.Hooks) search.Outcome {
		<-release
		return search.NotFound()
	})

	w := startWorker(t, runner, nil)

	require.NoError(t, w.SubmitSearch(newRequest("aa:bb:cc:dd:ee:ff")))
	assert.ErrorIs(t, w.SubmitSearch(newRequest("aa:bb:cc:dd:ee:ff")), ErrSearchInProgress)

	close(release)

	// finished but not yet collected
	time.Sleep(20 * time.Millisecond)
	assert.ErrorIs(t, w.SubmitSearch(newRequest("aa:bb:cc:dd:ee:ff")), ErrSearchInProgress)

	waitResult(t, w)
	require.NoError(t, w.SubmitSearch(newRequest("aa:bb:cc:dd:ee:ff")))
	waitResult(t, w)
}

func TestProgressLatestValueWins(t *testing.T) {
	emitted := make(chan struct{})
	release := make(chan struct{})

	runner := RunnerFunc(func(_ context.Context, _ *search.Request, hooks search.Hooks) search.Outcome {
		hooks.Progress(0.25)
		hooks.Progress(0.5)
		hooks.Progress(0.75)
		close(emitted)
		<-release

		return search.NotFound()
	})

	w := startWorker(t, runner, nil)

	require.NoError(t, w.SubmitSearch(newRequest("aa:bb:cc:dd:ee:ff")))
	<-emitted

	p, ok := w.PollProgress()
	require.True(t, ok)
	assert.Equal(t, float32(0.75), p)

	_, ok = w.PollProgress()
	assert.False(t, ok)

	close(release)
	waitResult(t, w)
}

func TestRequestCancel(t *testing.T) {
	started := make(chan struct{})

	runner := RunnerFunc(func(ctx context.Context, _ *search.Request, hooks search.Hooks) search.Outcome {
		close(started)

		for !hooks.Cancelled() {
			select {
			case <-ctx.Done():
				return search.Failed(ctx.Err())
			case <-time.After(time.Millisecond):
			}
		}

		return search.Cancelled()
	})

	w := startWorker(t, runner, nil)

	require.NoError(t, w.SubmitSearch(newRequest("aa:bb:cc:dd:ee:ff")))
	<-started

	w.RequestCancel()
	w.RequestCancel()

	assert.Equal(t, search.KindCancelled, waitResult(t, w).Kind)
}

func TestStaleCancelDoesNotLeak(t *testing.T) {
	var mu sync.Mutex

	var observed []bool

	release := make(chan struct{}, 1)

	runner := RunnerFunc(func(_ context.Context, _ *search.Request, hooks search.Hooks) search.Outcome {
		<-release

		mu.Lock()
		observed = append(observed, hooks.Cancelled())
		mu.Unlock()

		return search.NotFound()
	})

	w := startWorker(t, runner, nil)

	// idle cancel is ignored
	w.RequestCancel()

	require.NoError(t, w.SubmitSearch(newRequest("aa:bb:cc:dd:ee:ff")))
	release <- struct{}{}

	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()

		return len(observed) == 1
	}, waitFor, tick)

	// arrives after the search stopped polling
	w.RequestCancel()
	waitResult(t, w)

	require.NoError(t, w.SubmitSearch(newRequest("aa:bb:cc:dd:ee:ff")))
	release <- struct{}{}
	waitResult(t, w)

	mu.Lock()
	defer mu.Unlock()

	assert.Equal(t, []bool{false, false}, observed)
}

func TestProgressResetBetweenSearches(t *testing.T) {
	var calls atomic.Int32

	release := make(chan struct{})

	runner := RunnerFunc(func(_ context.Context, _ *search.Request, hooks search.Hooks) search.Outcome {
		if calls.Add(1) == 1 {
			hooks.Progress(1)
			return search.NotFound()
		}

		<-release

		return search.NotFound()
	})

	w := startWorker(t, runner, nil)

	require.NoError(t, w.SubmitSearch(newRequest("aa:bb:cc:dd:ee:ff")))
	waitResult(t, w)

	p, ok := w.PollProgress()
	require.True(t, ok)
	assert.Equal(t, float32(1), p)

	require.NoError(t, w.SubmitSearch(newRequest("aa:bb:cc:dd:ee:ff")))

	require.Eventually(t, func() bool {
		p, ok := w.PollProgress()
		return ok && p == 0
	}, waitFor, tick)

	close(release)
	waitResult(t, w)
}

func TestNotifierErrorsAreRecorded(t *testing.T) {
	m := metrics.New(prometheus.NewRegistry())
	failing := &recordingNotifier{name: "callback", err: errors.New("connection refused")}
	ok := &recordingNotifier{name: "rabbitmq"}

	runner := RunnerFunc(func(context.Context, *search.Request, search.Hooks) search.Outcome {
		return search.Failed(&unifi.APIError{Kind: unifi.KindTransport, StatusCode: 502})
	})

	w := startWorker(t, runner, m, failing, ok)

	require.NoError(t, w.SubmitSearch(newRequest("aa:bb:cc:dd:ee:ff")))
	assert.Equal(t, search.KindFailed, waitResult(t, w).Kind)

	require.Eventually(t, func() bool { return len(ok.snapshot()) == 1 }, waitFor, tick)
	assert.Len(t, failing.snapshot(), 1)

	assert.InDelta(t, 1, testutil.ToFloat64(m.NotificationsTotal.WithLabelValues("callback", "error")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(m.NotificationsTotal.WithLabelValues("rabbitmq", "success")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(m.ControllerErrorsTotal.WithLabelValues("TransportError")), 0)
}

func TestRunStopsOnContextCancel(t *testing.T) {
	w := New(RunnerFunc(func(context.Context, *search.Request, search.Hooks) search.Outcome {
		return search.NotFound()
	}), Config{}, nil, zaptest.NewLogger(t).Sugar())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.ErrorIs(t, w.Run(ctx), context.Canceled)
}

func TestCancelWhenIdleIsNoop(t *testing.T) {
	w := New(nil, Config{}, nil, zaptest.NewLogger(t).Sugar())

	w.RequestCancel()

	assert.False(t, w.pollCancel())
	assert.False(t, w.Pending())

	_, ok := w.PollResult()
	assert.False(t, ok)
}
