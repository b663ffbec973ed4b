// Package search locates a device by MAC address across every site of a
// UniFi controller.
//
// A run logs in, lists the sites once and then fetches each site's device
// inventory until the target is found. Cancellation is polled after login
// and before every site fetch, so at most one controller call is in flight
// when a cancel is observed in sequential mode.
package search

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/unifi-search-tool/unifi-search/internal/macaddr"
	"github.com/unifi-search-tool/unifi-search/internal/metrics"
	"github.com/unifi-search-tool/unifi-search/internal/unifi"
)

const (
	ModeSequential = "sequential"
	ModeConcurrent = "concurrent"

	DefaultConcurrency = 4
)

var (
	errUnknownMode = errors.New("unknown search mode")
	errMatched     = errors.New("target matched")
)

// Config selects how sites are scanned.
type Config struct {
	Mode        string
	Concurrency int
}

// Orchestrator runs searches. It holds no per-search state and may be reused.
type Orchestrator struct {
	newSession SessionFactory
	cfg        Config
	metrics    *metrics.Metrics
	logger     *zap.SugaredLogger
}

// New creates an Orchestrator. m may be nil.
func New(factory SessionFactory, cfg Config, m *metrics.Metrics, logger *zap.SugaredLogger) (*Orchestrator, error) {
	switch cfg.Mode {
	case "":
		cfg.Mode = ModeSequential
	case ModeSequential, ModeConcurrent:
	default:
		return nil, fmt.Errorf("%w: %q", errUnknownMode, cfg.Mode)
	}

	if cfg.Concurrency <= 0 {
		cfg.Concurrency = DefaultConcurrency
	}

	return &Orchestrator{
		newSession: factory,
		cfg:        cfg,
		metrics:    m,
		logger:     logger,
	}, nil
}

// Run executes one search and returns exactly one Outcome. The request's
// credentials are wiped before Run returns, whatever the outcome.
func (o *Orchestrator) Run(ctx context.Context, req *Request, hooks Hooks) Outcome {
	defer req.Wipe()

	target, err := macaddr.Parse(req.TargetMAC)
	if err != nil {
		return Failed(fmt.Errorf("%w: %w", ErrInvalidTarget, err))
	}

	log := o.logger.With("search_id", req.ID, "server", req.ServerURL, "target", target.String())

	sess, err := o.newSession(req.ServerURL, req.AcceptInvalidCerts)
	if err != nil {
		log.Errorw("Failed to create controller session", "error", err)
		return Failed(err)
	}

	err = sess.Login(ctx, req.Username, req.Password)
	req.Wipe()

	if err != nil {
		log.Warnw("Controller login failed", "error", err)
		return Failed(err)
	}

	if hooks.cancelled() {
		log.Info("Search cancelled after login")
		return Cancelled()
	}

	sites, err := sess.Sites(ctx)
	if err != nil {
		log.Warnw("Failed to list sites", "error", err)
		return Failed(err)
	}

	log.Debugw("Scanning sites", "sites", len(sites), "mode", o.cfg.Mode)

	start := time.Now()

	var outcome Outcome
	if o.cfg.Mode == ModeConcurrent {
		outcome = o.scanConcurrent(ctx, sess, sites, target, hooks)
	} else {
		outcome = o.scanSequential(ctx, sess, sites, target, hooks)
	}

	log.Infow("Site scan finished",
		"outcome", outcome.Kind.String(),
		"sites", len(sites),
		"elapsed", time.Since(start),
	)

	return outcome
}

func (o *Orchestrator) scanSequential(ctx context.Context, sess Session, sites []unifi.Site, target macaddr.Addr, hooks Hooks) Outcome {
	total := float32(len(sites))

	for i, site := range sites {
		if hooks.cancelled() {
			return Cancelled()
		}

		hooks.progress(float32(i) / total)

		devices, err := sess.SiteDevices(ctx, site.Code)
		if err != nil {
			return Failed(err)
		}

		o.metrics.RecordSiteScanned(len(devices))

		if d, ok := match(devices, target); ok {
			hooks.progress(1)
			return Found(found(d, site))
		}
	}

	hooks.progress(1)

	return NotFound()
}

// scanConcurrent fetches sites in parallel. Only this goroutine polls the
// cancel hook; workers report progress through a mutex so emitted values
// never decrease.
func (o *Orchestrator) scanConcurrent(ctx context.Context, sess Session, sites []unifi.Site, target macaddr.Addr, hooks Hooks) Outcome {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(o.cfg.Concurrency)

	var (
		mu        sync.Mutex
		scanned   int
		last      float32
		result    *unifi.Device
		cancelled bool
	)

	total := len(sites)

	hooks.progress(0)

	for _, site := range sites {
		if gctx.Err() != nil {
			break
		}

		if hooks.cancelled() {
			cancelled = true
			cancel()

			break
		}

		g.Go(func() error {
			devices, err := sess.SiteDevices(gctx, site.Code)
			if err != nil {
				return err
			}

			o.metrics.RecordSiteScanned(len(devices))

			mu.Lock()
			defer mu.Unlock()

			scanned++
			if p := float32(scanned) / float32(total); p > last {
				last = p
				hooks.progress(p)
			}

			if d, ok := match(devices, target); ok && result == nil {
				dev := found(d, site)
				result = &dev

				return errMatched
			}

			return nil
		})
	}

	err := g.Wait()

	switch {
	case result != nil:
		hooks.progress(1)
		return Found(*result)
	case cancelled:
		return Cancelled()
	case err != nil && !errors.Is(err, errMatched):
		return Failed(err)
	}

	hooks.progress(1)

	return NotFound()
}

func match(devices []unifi.Device, target macaddr.Addr) (unifi.Device, bool) {
	for i := range devices {
		if macaddr.Equal(devices[i].Addr, target) {
			return devices[i], true
		}
	}

	return unifi.Device{}, false
}

func found(d unifi.Device, site unifi.Site) unifi.Device {
	d.ResolveModelName()
	d.Site = site.Description

	return d
}
