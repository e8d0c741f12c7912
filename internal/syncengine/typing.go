package syncengine

import (
	"time"

	"github.com/jonboulle/clockwork"
)

type TypingEntry struct {
	UserID      uint64
	DisplayName string
	LastSeenAt  time.Time
}

// sweeper drives the typing sweep. It is either stopped (no ticker) or
// running with a count of consecutive sweeps that found nothing.
type sweeper struct {
	clock     clockwork.Clock
	interval  time.Duration
	idleLimit int

	ticker      clockwork.Ticker
	emptyCycles int
}

func newSweeper(clock clockwork.Clock, interval time.Duration, idleLimit int) *sweeper {
	return &sweeper{clock: clock, interval: interval, idleLimit: idleLimit}
}

func (s *sweeper) running() bool {
	return s.ticker != nil
}

// start is a no-op while running, apart from forgetting idle cycles.
func (s *sweeper) start() {
	s.emptyCycles = 0
	if s.ticker == nil {
		s.ticker = s.clock.NewTicker(s.interval)
	}
}

func (s *sweeper) stop() {
	if s.ticker != nil {
		s.ticker.Stop()
		s.ticker = nil
	}
	s.emptyCycles = 0
}

// C is nil while stopped, so a select on it never fires.
func (s *sweeper) C() <-chan time.Time {
	if s.ticker == nil {
		return nil
	}
	return s.ticker.Chan()
}

// observe records the outcome of one sweep and stops the sweeper after
// idleLimit empty sweeps in a row.
func (s *sweeper) observe(empty bool) (stopped bool) {
	if !empty {
		s.emptyCycles = 0
		return false
	}
	s.emptyCycles++
	if s.emptyCycles >= s.idleLimit {
		s.stop()
		return true
	}
	return false
}

// roomTicker is a ticker that only exists while a room is open.
type roomTicker struct {
	ticker clockwork.Ticker
}

func (t *roomTicker) start(clock clockwork.Clock, d time.Duration) {
	t.stop()
	t.ticker = clock.NewTicker(d)
}

func (t *roomTicker) stop() {
	if t.ticker != nil {
		t.ticker.Stop()
		t.ticker = nil
	}
}

func (t *roomTicker) C() <-chan time.Time {
	if t.ticker == nil {
		return nil
	}
	return t.ticker.Chan()
}
