// Package worker runs the background league refresh loop.
package worker

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/okian/ebladvance/internal/domain/model"
	"github.com/okian/ebladvance/pkg/logger"
	"github.com/okian/ebladvance/pkg/metrics"
)

const (
	defaultInterval = 5 * time.Minute
)

// Fetcher pulls a complete league snapshot upstream.
type Fetcher interface {
	FetchLeague(ctx context.Context) (model.LeagueData, error)
}

// FetcherFunc adapts a function to Fetcher.
type FetcherFunc func(ctx context.Context) (model.LeagueData, error)

// FetchLeague calls f.
func (f FetcherFunc) FetchLeague(ctx context.Context) (model.LeagueData, error) { return f(ctx) }

// Sink receives each successful pull.
type Sink interface {
	ReplaceLeague(ctx context.Context, data model.LeagueData) error
}

// Worker is a long-running background loop.
type Worker interface {
	// Run starts the loop until ctx is canceled or Shutdown is called.
	Run(ctx context.Context)
	// Shutdown stops the loop and waits for it to exit.
	Shutdown(ctx context.Context) error
}

// Status describes the refresher's most recent runs.
type Status struct {
	Runs        int       `json:"runs"`
	LastRun     time.Time `json:"last_run"`
	LastSuccess time.Time `json:"last_success"`
	LastError   string    `json:"last_error,omitempty"`
}

// Refresher fetches league data on start, then every interval and on demand.
type Refresher struct {
	fetcher  Fetcher
	sink     Sink
	interval time.Duration
	name     string

	trigger  chan struct{}
	shutdown chan struct{}
	done     chan struct{}
	stopOnce sync.Once

	// run serializes refreshes from the loop and from RefreshNow.
	run sync.Mutex

	mu     sync.RWMutex
	status Status

	logger logger.Logger
}

var _ Worker = (*Refresher)(nil)

// NewRefresher creates a refresher. Call Run to start it.
func NewRefresher(fetcher Fetcher, sink Sink, opts ...Option) *Refresher {
	r := &Refresher{
		fetcher:  fetcher,
		sink:     sink,
		interval: defaultInterval,
		name:     "refresher",
		trigger:  make(chan struct{}, 1),
		shutdown: make(chan struct{}),
		done:     make(chan struct{}),
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.logger == nil {
		r.logger = logger.Get().Named(r.name)
	}
	return r
}

// Run refreshes immediately, then on every tick or trigger.
func (r *Refresher) Run(ctx context.Context) {
	defer close(r.done)

	_ = r.RefreshNow(ctx)

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-r.shutdown:
			return
		case <-ticker.C:
			_ = r.RefreshNow(ctx)
		case <-r.trigger:
			_ = r.RefreshNow(ctx)
		}
	}
}

// Trigger asks the loop for a refresh without blocking. Returns false when a
// refresh is already pending and this request was coalesced into it.
func (r *Refresher) Trigger() bool {
	select {
	case r.trigger <- struct{}{}:
		metrics.RecordRefreshTrigger(false)
		return true
	default:
		metrics.RecordRefreshTrigger(true)
		return false
	}
}

// RefreshNow performs one refresh synchronously. On failure the previously
// stored data is left untouched.
func (r *Refresher) RefreshNow(ctx context.Context) error {
	r.run.Lock()
	defer r.run.Unlock()

	runID := uuid.NewString()
	start := time.Now()

	data, err := r.fetcher.FetchLeague(ctx)
	if err == nil {
		err = r.sink.ReplaceLeague(ctx, data)
		if err != nil {
			err = fmt.Errorf("store league: %w", err)
		}
	}

	r.mu.Lock()
	r.status.Runs++
	r.status.LastRun = start
	if err != nil {
		r.status.LastError = err.Error()
	} else {
		r.status.LastError = ""
		r.status.LastSuccess = start
	}
	r.mu.Unlock()

	if err != nil {
		metrics.RecordErrorByComponent("refresher", "refresh_failed")
		r.logger.Error(ctx, "league refresh failed",
			logger.String("run", runID),
			logger.Duration("took", time.Since(start)),
			logger.Error(err),
		)
		return err
	}

	metrics.RecordRefreshSuccess(start)
	r.logger.Info(ctx, "league refreshed",
		logger.String("run", runID),
		logger.Int("teams", len(data.Performances)),
		logger.Int("meets", len(data.Meets)),
		logger.Duration("took", time.Since(start)),
	)
	return nil
}

// Status returns a copy of the latest run status.
func (r *Refresher) Status() Status {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.status
}

// Shutdown stops the loop and waits for it to exit or ctx to expire.
func (r *Refresher) Shutdown(ctx context.Context) error {
	r.stopOnce.Do(func() { close(r.shutdown) })

	select {
	case <-r.done:
		return nil
	case <-ctx.Done():
		r.logger.Warn(ctx, "shutdown timed out")
		return fmt.Errorf("shutdown timed out: %w", ctx.Err())
	}
}
