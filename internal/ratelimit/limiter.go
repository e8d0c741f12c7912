// Package ratelimit implements sliding-window counters keyed by actor.
package ratelimit

import (
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/jonboulle/clockwork"
)

const shardCount = 32

type Config struct {
	Name          string
	Window        time.Duration
	MaxRequests   int
	SweepInterval time.Duration
}

// Result describes one admission decision.
type Result struct {
	Allowed   bool
	Remaining int
	// ResetIn is how long until the oldest request leaves the window. It is
	// zero while quota remains.
	ResetIn time.Duration
}

type shard struct {
	mu      sync.Mutex
	entries map[string][]time.Time
}

// Limiter keeps, per key, the timestamps of accepted requests inside the
// window. Entries are spread over mutex-guarded shards.
type Limiter struct {
	cfg    Config
	clock  clockwork.Clock
	logger *slog.Logger
	shards [shardCount]*shard

	lifecycle sync.Mutex
	stopCh    chan struct{}
	doneCh    chan struct{}
}

func NewLimiter(cfg Config, clock clockwork.Clock, logger *slog.Logger) (*Limiter, error) {
	if cfg.Window <= 0 {
		return nil, fmt.Errorf("limiter %q: window must be positive", cfg.Name)
	}
	if cfg.MaxRequests <= 0 {
		return nil, fmt.Errorf("limiter %q: max requests must be positive", cfg.Name)
	}
	if cfg.SweepInterval <= 0 {
		cfg.SweepInterval = cfg.Window
	}
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	if logger == nil {
		logger = slog.Default()
	}

	l := &Limiter{cfg: cfg, clock: clock, logger: logger}
	for i := range l.shards {
		l.shards[i] = &shard{entries: make(map[string][]time.Time)}
	}
	return l, nil
}

func (l *Limiter) Name() string { return l.cfg.Name }

func (l *Limiter) Config() Config { return l.cfg }

func (l *Limiter) shardFor(key string) *shard {
	return l.shards[xxhash.Sum64String(key)%shardCount]
}

// inWindow returns the suffix of ts still inside the window at now.
// Timestamps are appended in order, so the expired ones form a prefix.
func (l *Limiter) inWindow(ts []time.Time, now time.Time) []time.Time {
	i := 0
	for i < len(ts) && now.Sub(ts[i]) >= l.cfg.Window {
		i++
	}
	return ts[i:]
}

func (l *Limiter) resetIn(ts []time.Time, now time.Time) time.Duration {
	if len(ts) < l.cfg.MaxRequests || len(ts) == 0 {
		return 0
	}
	d := ts[0].Add(l.cfg.Window).Sub(now)
	if d < 0 {
		return 0
	}
	return d
}

// Check records a request for key and reports whether it was allowed.
func (l *Limiter) Check(key string) bool {
	return l.Allow(key).Allowed
}

// Allow is Check plus the remaining quota and reset time, computed in the
// same critical section.
func (l *Limiter) Allow(key string) Result {
	s := l.shardFor(key)
	s.mu.Lock()
	defer s.mu.Unlock()

	now := l.clock.Now()
	ts := l.inWindow(s.entries[key], now)

	if len(ts) >= l.cfg.MaxRequests {
		s.entries[key] = ts
		return Result{Allowed: false, Remaining: 0, ResetIn: l.resetIn(ts, now)}
	}

	ts = append(ts, now)
	s.entries[key] = ts
	return Result{
		Allowed:   true,
		Remaining: l.cfg.MaxRequests - len(ts),
		ResetIn:   l.resetIn(ts, now),
	}
}

// Remaining does not record a request.
func (l *Limiter) Remaining(key string) int {
	s := l.shardFor(key)
	s.mu.Lock()
	defer s.mu.Unlock()

	n := len(l.inWindow(s.entries[key], l.clock.Now()))
	if n >= l.cfg.MaxRequests {
		return 0
	}
	return l.cfg.MaxRequests - n
}

// ResetIn does not record a request.
func (l *Limiter) ResetIn(key string) time.Duration {
	s := l.shardFor(key)
	s.mu.Lock()
	defer s.mu.Unlock()

	now := l.clock.Now()
	return l.resetIn(l.inWindow(s.entries[key], now), now)
}

// Reset forgets every request recorded for key.
func (l *Limiter) Reset(key string) {
	s := l.shardFor(key)
	s.mu.Lock()
	delete(s.entries, key)
	s.mu.Unlock()
}

// Len is the number of keys currently tracked.
func (l *Limiter) Len() int {
	n := 0
	for _, s := range l.shards {
		s.mu.Lock()
		n += len(s.entries)
		s.mu.Unlock()
	}
	return n
}

// Sweep prunes every key and drops the ones left empty. It returns the
// number of keys removed.
func (l *Limiter) Sweep() int {
	now := l.clock.Now()
	removed := 0
	for _, s := range l.shards {
		removed += l.sweepShard(s, now)
	}
	return removed
}

func (l *Limiter) sweepShard(s *shard, now time.Time) (removed int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	defer func() {
		if r := recover(); r != nil {
			l.logger.Error("[RATELIMIT] sweep panic", "limiter", l.cfg.Name, "panic", r)
		}
	}()

	for key, ts := range s.entries {
		ts = l.inWindow(ts, now)
		if len(ts) == 0 {
			delete(s.entries, key)
			removed++
			continue
		}
		s.entries[key] = ts
	}
	return removed
}

// Start runs Sweep every SweepInterval until Stop. Calling Start twice is a no-op.
func (l *Limiter) Start() {
	l.lifecycle.Lock()
	defer l.lifecycle.Unlock()
	if l.stopCh != nil {
		return
	}

	l.stopCh = make(chan struct{})
	l.doneCh = make(chan struct{})
	ticker := l.clock.NewTicker(l.cfg.SweepInterval)

	go func(stop <-chan struct{}, done chan<- struct{}) {
		defer close(done)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.Chan():
				if n := l.Sweep(); n > 0 {
					l.logger.Debug("[RATELIMIT] swept idle keys", "limiter", l.cfg.Name, "removed", n)
				}
			case <-stop:
				return
			}
		}
	}(l.stopCh, l.doneCh)
}

// Stop halts the sweep loop and waits for it to exit.
func (l *Limiter) Stop() {
	l.lifecycle.Lock()
	defer l.lifecycle.Unlock()
	if l.stopCh == nil {
		return
	}
	close(l.stopCh)
	<-l.doneCh
	l.stopCh = nil
	l.doneCh = nil
}
