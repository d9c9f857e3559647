// Package catalog keeps the resident advisory snapshot and refreshes it from a source.
package catalog

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/cenkalti/backoff"
	"github.com/ortelius/vulnwatch-backend/internal/metrics"
	"github.com/ortelius/vulnwatch-backend/internal/source"
	"github.com/ortelius/vulnwatch-backend/model"
	"github.com/ortelius/vulnwatch-backend/util"
	"golang.org/x/sync/singleflight"
)

var logger = util.Logger() // setup the logger

// ErrNotFound is returned by Get for ids not in the snapshot.
var ErrNotFound = errors.New("advisory not found")

// DefaultTimeout bounds a single refresh including its retries.
const DefaultTimeout = 30 * time.Second

// snapshot is replaced whole on every successful refresh and never modified.
type snapshot struct {
	advisories []model.Advisory
	byID       map[string]int
	loadedAt   time.Time
	rejected   int
}

// RefreshResult describes a completed refresh.
type RefreshResult struct {
	Source      string    `json:"source"`
	Loaded      int       `json:"loaded"`
	Rejected    int       `json:"rejected"`
	RefreshedAt time.Time `json:"refreshed_at"`
	Shared      bool      `json:"shared"`
}

// Status is the sync state reported by GET /sync/status.
type Status struct {
	Source      string     `json:"source"`
	Count       int        `json:"count"`
	Rejected    int        `json:"rejected"`
	LoadedAt    *time.Time `json:"loaded_at"`
	LastAttempt *time.Time `json:"last_attempt"`
	LastError   string     `json:"last_error,omitempty"`
}

// Option customizes a Catalog.
type Option func(*Catalog)

// WithTimeout sets the deadline of one refresh.
func WithTimeout(d time.Duration) Option {
	return func(c *Catalog) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// WithBackOff sets the retry policy; f is called once per refresh.
func WithBackOff(f func() backoff.BackOff) Option {
	return func(c *Catalog) {
		c.newBackOff = f
	}
}

// Catalog serves the current snapshot to readers while refreshes replace it.
type Catalog struct {
	src        source.Source
	timeout    time.Duration
	newBackOff func() backoff.BackOff

	group   singleflight.Group
	current atomic.Pointer[snapshot]

	mu          sync.Mutex
	lastAttempt time.Time
	lastErr     error
}

// New returns an empty catalog over src. Call Refresh to load it.
func New(src source.Source, opts ...Option) *Catalog {
	c := &Catalog{
		src:     src,
		timeout: DefaultTimeout,
	}
	c.newBackOff = func() backoff.BackOff {
		bo := backoff.NewExponentialBackOff()
		bo.InitialInterval = 500 * time.Millisecond
		bo.MaxInterval = 5 * time.Second
		bo.MaxElapsedTime = c.timeout
		return bo
	}
	for _, opt := range opts {
		opt(c)
	}
	c.current.Store(&snapshot{byID: map[string]int{}})
	return c
}

// Snapshot returns the advisories of the current snapshot. The slice is shared and
// must not be modified.
func (c *Catalog) Snapshot() []model.Advisory {
	return c.current.Load().advisories
}

// Get returns the advisory with the given id.
func (c *Catalog) Get(id string) (model.Advisory, error) {
	snap := c.current.Load()
	i, ok := snap.byID[id]
	if !ok {
		return model.Advisory{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return snap.advisories[i], nil
}

// Status reports the size and age of the snapshot and the outcome of the last attempt.
func (c *Catalog) Status() Status {
	snap := c.current.Load()
	st := Status{
		Source:   c.src.Name(),
		Count:    len(snap.advisories),
		Rejected: snap.rejected,
	}
	if !snap.loadedAt.IsZero() {
		loadedAt := snap.loadedAt
		st.LoadedAt = &loadedAt
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.lastAttempt.IsZero() {
		attempt := c.lastAttempt
		st.LastAttempt = &attempt
	}
	if c.lastErr != nil {
		st.LastError = c.lastErr.Error()
	}
	return st
}

// Refresh reloads the snapshot from the source. Callers arriving while a load is in
// flight wait for that load instead of starting another. The load itself is not tied
// to ctx; ctx only bounds how long this caller waits. On failure the previous
// snapshot is kept.
func (c *Catalog) Refresh(ctx context.Context) (RefreshResult, error) {
	ch := c.group.DoChan("refresh", func() (interface{}, error) {
		return c.load()
	})

	select {
	case <-ctx.Done():
		return RefreshResult{}, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return RefreshResult{}, res.Err
		}
		result := res.Val.(RefreshResult)
		result.Shared = res.Shared
		return result, nil
	}
}

func (c *Catalog) load() (result RefreshResult, err error) {
	ctx, cancel := context.WithTimeout(context.Background(), c.timeout)
	defer cancel()

	start := time.Now()
	defer func() {
		metrics.RefreshDuration.Observe(time.Since(start).Seconds())
		c.mu.Lock()
		c.lastAttempt = start
		c.lastErr = err
		c.mu.Unlock()
	}()

	var records []source.Record
	err = backoff.RetryNotify(func() error {
		var loadErr error
		records, loadErr = c.src.Load(ctx)
		if errors.Is(loadErr, source.ErrUnrecoverable) {
			return backoff.Permanent(loadErr)
		}
		return loadErr
	}, backoff.WithContext(c.newBackOff(), ctx), func(err error, next time.Duration) {
		logger.Sugar().Warnf("Loading advisories from %s failed, retrying in %s: %v", c.src.Name(), next, err)
	})
	if err != nil {
		metrics.RefreshTotal.WithLabelValues(metrics.ResultFailure).Inc()
		logger.Sugar().Errorf("Refresh from %s failed, keeping %d advisories: %v", c.src.Name(), len(c.Snapshot()), err)
		return RefreshResult{}, fmt.Errorf("refresh from %s: %w", c.src.Name(), err)
	}

	advisories, rejections := source.Normalize(records)
	for _, r := range rejections {
		metrics.RecordsRejected.WithLabelValues(r.Reason).Inc()
		logger.Sugar().Warnf("%v", r)
	}

	snap := &snapshot{
		advisories: advisories,
		byID:       make(map[string]int, len(advisories)),
		loadedAt:   time.Now().UTC(),
		rejected:   len(rejections),
	}
	for i, a := range advisories {
		snap.byID[a.ID] = i
	}
	c.current.Store(snap)

	metrics.RefreshTotal.WithLabelValues(metrics.ResultSuccess).Inc()
	metrics.AdvisoriesLoaded.Set(float64(len(advisories)))
	logger.Sugar().Infof("Loaded %d advisories from %s (%d rejected)", len(advisories), c.src.Name(), len(rejections))

	return RefreshResult{
		Source:      c.src.Name(),
		Loaded:      len(advisories),
		Rejected:    len(rejections),
		RefreshedAt: snap.loadedAt,
	}, nil
}

// Run refreshes every interval until ctx is done. A non-positive interval returns at once.
func (c *Catalog) Run(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		return
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := c.Refresh(ctx); err != nil && ctx.Err() == nil {
				logger.Sugar().Warnf("Scheduled refresh failed: %v", err)
			}
		}
	}
}
