// Package syncengine keeps one room's message list, typing set and
// presence in step with the server across the broadcast and change-feed
// channels.
package syncengine

import "time"

type Config struct {
	PageSize         int
	MaxContentLength int

	TypingDebounce      time.Duration
	TypingTimeout       time.Duration
	TypingSweepInterval time.Duration
	// TypingIdleSweeps is how many consecutive empty sweeps stop the sweeper.
	TypingIdleSweeps int
	TypingCapacity   int

	PresenceCapacity   int
	DedupCapacity      int
	DedupClearInterval time.Duration

	CatchUpTimeout    time.Duration
	ReconnectDelay    time.Duration
	ReconnectMaxDelay time.Duration
}

func DefaultConfig() Config {
	return Config{
		PageSize:            50,
		MaxContentLength:    4000,
		TypingDebounce:      2 * time.Second,
		TypingTimeout:       3 * time.Second,
		TypingSweepInterval: time.Second,
		TypingIdleSweeps:    3,
		TypingCapacity:      20,
		PresenceCapacity:    500,
		DedupCapacity:       1000,
		DedupClearInterval:  5 * time.Minute,
		CatchUpTimeout:      15 * time.Second,
		ReconnectDelay:      time.Second,
		ReconnectMaxDelay:   30 * time.Second,
	}
}

func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.PageSize <= 0 {
		c.PageSize = d.PageSize
	}
	if c.MaxContentLength <= 0 {
		c.MaxContentLength = d.MaxContentLength
	}
	if c.TypingDebounce <= 0 {
		c.TypingDebounce = d.TypingDebounce
	}
	if c.TypingTimeout <= 0 {
		c.TypingTimeout = d.TypingTimeout
	}
	if c.TypingSweepInterval <= 0 {
		c.TypingSweepInterval = d.TypingSweepInterval
	}
	if c.TypingIdleSweeps <= 0 {
		c.TypingIdleSweeps = d.TypingIdleSweeps
	}
	if c.TypingCapacity <= 0 {
		c.TypingCapacity = d.TypingCapacity
	}
	if c.PresenceCapacity <= 0 {
		c.PresenceCapacity = d.PresenceCapacity
	}
	if c.DedupCapacity <= 0 {
		c.DedupCapacity = d.DedupCapacity
	}
	if c.DedupClearInterval <= 0 {
		c.DedupClearInterval = d.DedupClearInterval
	}
	if c.CatchUpTimeout <= 0 {
		c.CatchUpTimeout = d.CatchUpTimeout
	}
	if c.ReconnectDelay <= 0 {
		c.ReconnectDelay = d.ReconnectDelay
	}
	if c.ReconnectMaxDelay <= 0 {
		c.ReconnectMaxDelay = d.ReconnectMaxDelay
	}
	return c
}

type State int

const (
	StateIdle State = iota
	StateLoading
	StateActive
	StateReconnecting
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateLoading:
		return "loading"
	case StateActive:
		return "active"
	case StateReconnecting:
		return "reconnecting"
	default:
		return "unknown"
	}
}
