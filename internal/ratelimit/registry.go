package ratelimit

import (
	"fmt"
	"log/slog"
	"net"
	"strconv"

	"github.com/jonboulle/clockwork"

	"communitychat/internal/config"
)

// Limiter names.
const (
	Messages          = "messages"
	Images            = "images"
	PhoneVerification = "phone_verification"
)

// Registry owns the process' named limiters and their sweep lifecycle.
type Registry struct {
	limiters map[string]*Limiter
}

func NewRegistry(cfg config.RateLimitsConfig, clock clockwork.Clock, logger *slog.Logger) (*Registry, error) {
	r := &Registry{limiters: make(map[string]*Limiter)}

	named := []struct {
		name  string
		limit config.LimitConfig
	}{
		{Messages, cfg.Messages},
		{Images, cfg.Images},
		{PhoneVerification, cfg.PhoneVerification},
	}
	for _, n := range named {
		l, err := NewLimiter(Config{
			Name:          n.name,
			Window:        n.limit.Window,
			MaxRequests:   n.limit.MaxRequests,
			SweepInterval: cfg.SweepInterval,
		}, clock, logger)
		if err != nil {
			return nil, fmt.Errorf("rate limits: %w", err)
		}
		r.limiters[n.name] = l
	}
	return r, nil
}

// Get returns the named limiter.
func (r *Registry) Get(name string) (*Limiter, bool) {
	l, ok := r.limiters[name]
	return l, ok
}

func (r *Registry) Messages() *Limiter { return r.limiters[Messages] }

func (r *Registry) Images() *Limiter { return r.limiters[Images] }

func (r *Registry) PhoneVerification() *Limiter { return r.limiters[PhoneVerification] }

func (r *Registry) StartAll() {
	for _, l := range r.limiters {
		l.Start()
	}
}

func (r *Registry) StopAll() {
	for _, l := range r.limiters {
		l.Stop()
	}
}

func UserKey(userID uint64) string {
	return "user:" + strconv.FormatUint(userID, 10)
}

// IPKey strips the port from a remote address when present.
func IPKey(remoteAddr string) string {
	host, _, err := net.SplitHostPort(remoteAddr)
	if err != nil {
		host = remoteAddr
	}
	return "ip:" + host
}
