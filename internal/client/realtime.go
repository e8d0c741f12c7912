package client

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"communitychat/internal/chat/api"
	"communitychat/internal/common"
	"communitychat/internal/syncengine"
)

const (
	writeWait    = 10 * time.Second
	closeWait    = time.Second
	eventBuffer  = 64
	outboxBuffer = 16
)

var (
	ErrChannelClosed = errors.New("channel closed")
	errOutboxFull    = errors.New("channel outbox full")
)

var _ syncengine.Dialer = (*Dialer)(nil)

// Dialer opens room channels on the realtime gateway.
type Dialer struct {
	baseURL string
	token   string
	ws      *websocket.Dialer
	logger  *slog.Logger
}

// NewDialer takes the HTTP API root and derives the websocket URL from it.
func NewDialer(baseURL, token string, logger *slog.Logger) *Dialer {
	base := strings.TrimRight(baseURL, "/")
	switch {
	case strings.HasPrefix(base, "https://"):
		base = "wss://" + strings.TrimPrefix(base, "https://")
	case strings.HasPrefix(base, "http://"):
		base = "ws://" + strings.TrimPrefix(base, "http://")
	}
	return &Dialer{
		baseURL: base,
		token:   token,
		ws:      &websocket.Dialer{HandshakeTimeout: 10 * time.Second},
		logger:  logger,
	}
}

// Subscribe connects to roomID. A refused subscription comes back as the
// gateway's *common.ChatError; anything else is a *common.TransportError.
func (d *Dialer) Subscribe(ctx context.Context, roomID uint64) (syncengine.Channel, error) {
	q := url.Values{}
	q.Set("room_id", fmt.Sprintf("%d", roomID))
	q.Set("token", d.token)

	conn, resp, err := d.ws.DialContext(ctx, d.baseURL+"/realtime?"+q.Encode(), nil)
	if err != nil {
		if errors.Is(err, websocket.ErrBadHandshake) && resp != nil {
			defer resp.Body.Close()
			return nil, api.ReadError(resp)
		}
		return nil, &common.TransportError{Err: err}
	}

	ch := &Channel{
		conn:    conn,
		roomID:  roomID,
		events:  make(chan syncengine.Event, eventBuffer),
		outbox:  make(chan api.Frame, outboxBuffer),
		done:    make(chan struct{}),
		flushed: make(chan struct{}),
		logger:  d.logger,
	}
	go ch.readLoop()
	go ch.writeLoop()
	return ch, nil
}

// Channel is one websocket subscription. Its methods never block: frames
// queue on an outbox drained by a single writer.
type Channel struct {
	conn   *websocket.Conn
	roomID uint64
	events chan syncengine.Event
	outbox chan api.Frame
	done   chan struct{}

	// flushed is closed when the writer has sent what was queued before Close
	flushed chan struct{}
	once    sync.Once
	logger  *slog.Logger
}

func (c *Channel) Events() <-chan syncengine.Event {
	return c.events
}

func (c *Channel) Track(info api.PresenceInfo) error {
	return c.enqueue(api.FrameTrack, "", info)
}

func (c *Channel) Untrack() error {
	return c.enqueue(api.FrameUntrack, "", nil)
}

func (c *Channel) Typing() error {
	return c.enqueue(api.FrameBroadcast, api.EventTyping, nil)
}

func (c *Channel) enqueue(t api.FrameType, event string, payload interface{}) error {
	f, err := api.NewFrame(t, event, c.roomID, payload)
	if err != nil {
		return err
	}
	select {
	case <-c.done:
		return ErrChannelClosed
	default:
	}
	select {
	case c.outbox <- f:
		return nil
	case <-c.done:
		return ErrChannelClosed
	default:
		return errOutboxFull
	}
}

// Close ends the subscription. Frames queued before Close, such as a final
// untrack, are written before the close handshake. Events is closed once
// the reader exits.
func (c *Channel) Close() error {
	c.once.Do(func() {
		close(c.done)
		select {
		case <-c.flushed:
		case <-time.After(closeWait):
		}
		_ = c.conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
			time.Now().Add(time.Second))
		_ = c.conn.Close()
	})
	return nil
}

func (c *Channel) closed() bool {
	select {
	case <-c.done:
		return true
	default:
		return false
	}
}

func (c *Channel) readLoop() {
	defer close(c.events)
	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if !c.closed() {
				c.logger.Warn("[WS] connection lost", "room_id", c.roomID, "error", err)
				_ = c.conn.Close()
			}
			return
		}

		f, err := api.DecodeFrame(data)
		if err != nil {
			c.logger.Debug("[WS] malformed frame", "room_id", c.roomID, "error", err)
			continue
		}
		ev, err := syncengine.EventFromFrame(f)
		if err != nil {
			c.logger.Debug("[WS] skipped frame", "room_id", c.roomID, "error", err)
			continue
		}

		select {
		case c.events <- ev:
		case <-c.done:
			return
		}
	}
}

func (c *Channel) writeLoop() {
	defer close(c.flushed)
	for {
		select {
		case <-c.done:
			c.drain()
			return
		case f := <-c.outbox:
			if !c.write(f, writeWait) {
				return
			}
		}
	}
}

// drain writes whatever is still queued once Close has been called.
func (c *Channel) drain() {
	for {
		select {
		case f := <-c.outbox:
			if !c.write(f, closeWait) {
				return
			}
		default:
			return
		}
	}
}

func (c *Channel) write(f api.Frame, wait time.Duration) bool {
	data, err := f.Encode()
	if err != nil {
		c.logger.Error("[WS] encode frame", "type", f.Type, "error", err)
		return true
	}
	_ = c.conn.SetWriteDeadline(time.Now().Add(wait))
	if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
		c.logger.Debug("[WS] write failed", "room_id", c.roomID, "error", err)
		_ = c.conn.Close()
		return false
	}
	return true
}
