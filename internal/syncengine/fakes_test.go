package syncengine

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/require"

	"communitychat/internal/chat/api"
	"communitychat/internal/common"
	"communitychat/internal/logging"
)

const room = uint64(7)

var (
	epoch = time.Date(2026, 2, 1, 10, 0, 0, 0, time.UTC)
	self  = api.PresenceInfo{UserID: 10, DisplayName: "Alice"}
	bob   = api.PresenceInfo{UserID: 11, DisplayName: "Bob"}
	carol = api.PresenceInfo{UserID: 12, DisplayName: "Carol"}
)

func msg(id, userID uint64, at time.Duration, content string) api.Message {
	return api.Message{ID: id, RoomID: room, UserID: userID, Content: content, ContentType: "text", CreatedAt: epoch.Add(at)}
}

type fakeAPI struct {
	mu sync.Mutex

	page    []api.Message // newest first, as the server returns it
	hasMore bool
	pinned  []api.Message
	after   func(ctx context.Context, after uint64) (*api.ListMessagesResponse, error)
	older   func(before uint64) (*api.ListMessagesResponse, error)
	role    api.GetRoleResponse
	roleErr error
	mods    []api.Moderator

	send   func(ctx context.Context, req *api.SendMessageRequest) (*api.SendMessageResponse, error)
	upload func(filename, contentType string, data []byte) (*api.UploadResponse, error)

	pin func(id uint64) (*api.TogglePinResponse, error)

	// denied is returned by every moderation call when set
	denied error

	listCalls []api.ListMessagesRequest
	sendCalls []api.SendMessageRequest
	setRoles  []api.SetRoleRequest
	mutes     []api.MuteRequest
	deletes   []uint64
	reports   []api.ReportRequest
	marked    []uint64
}

func newFakeAPI() *fakeAPI {
	return &fakeAPI{role: api.GetRoleResponse{Role: "member"}}
}

func (f *fakeAPI) ListMessages(ctx context.Context, req *api.ListMessagesRequest) (*api.ListMessagesResponse, error) {
	f.mu.Lock()
	f.listCalls = append(f.listCalls, *req)
	after, older := f.after, f.older
	resp := &api.ListMessagesResponse{}
	switch {
	case req.Pinned:
		resp.Messages = append(resp.Messages, f.pinned...)
	case req.After == 0 && req.Before == 0:
		resp.Messages = append(resp.Messages, f.page...)
		resp.HasMore = f.hasMore
	}
	f.mu.Unlock()

	if req.After > 0 {
		if after == nil {
			return &api.ListMessagesResponse{}, nil
		}
		return after(ctx, req.After)
	}
	if req.Before > 0 && older != nil {
		return older(req.Before)
	}
	return resp, nil
}

func (f *fakeAPI) beforeCalls() []uint64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []uint64
	for _, c := range f.listCalls {
		if c.Before > 0 {
			out = append(out, c.Before)
		}
	}
	return out
}

func (f *fakeAPI) afterCalls() []uint64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []uint64
	for _, c := range f.listCalls {
		if c.After > 0 {
			out = append(out, c.After)
		}
	}
	return out
}

func (f *fakeAPI) SendMessage(ctx context.Context, req *api.SendMessageRequest) (*api.SendMessageResponse, error) {
	f.mu.Lock()
	f.sendCalls = append(f.sendCalls, *req)
	send := f.send
	f.mu.Unlock()
	if send == nil {
		return nil, &common.TransportError{Err: context.DeadlineExceeded}
	}
	return send(ctx, req)
}

func (f *fakeAPI) sent() []api.SendMessageRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]api.SendMessageRequest(nil), f.sendCalls...)
}

func (f *fakeAPI) setSend(fn func(ctx context.Context, req *api.SendMessageRequest) (*api.SendMessageResponse, error)) {
	f.mu.Lock()
	f.send = fn
	f.mu.Unlock()
}

func (f *fakeAPI) setAfter(fn func(ctx context.Context, after uint64) (*api.ListMessagesResponse, error)) {
	f.mu.Lock()
	f.after = fn
	f.mu.Unlock()
}

func (f *fakeAPI) GetRole(context.Context, *api.GetRoleRequest) (*api.GetRoleResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.roleErr != nil {
		return nil, f.roleErr
	}
	r := f.role
	return &r, nil
}

func (f *fakeAPI) ListModerators(context.Context, *api.ListModeratorsRequest) (*api.ListModeratorsResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return &api.ListModeratorsResponse{Moderators: append([]api.Moderator(nil), f.mods...)}, nil
}

func (f *fakeAPI) SetRole(_ context.Context, req *api.SetRoleRequest) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.denied != nil {
		return f.denied
	}
	f.setRoles = append(f.setRoles, *req)
	f.mods = append(f.mods, api.Moderator{Author: api.Author{UserID: req.UserID}, Role: req.Role})
	return nil
}

func (f *fakeAPI) Mute(_ context.Context, req *api.MuteRequest) (*api.MuteResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.denied != nil {
		return nil, f.denied
	}
	f.mutes = append(f.mutes, *req)
	return &api.MuteResponse{ExpiresAt: epoch.Add(time.Duration(req.Minutes) * time.Minute)}, nil
}

func (f *fakeAPI) Unmute(context.Context, *api.UnmuteRequest) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.denied
}

func (f *fakeAPI) TogglePin(_ context.Context, req *api.MessageRequest) (*api.TogglePinResponse, error) {
	f.mu.Lock()
	pin, denied := f.pin, f.denied
	f.mu.Unlock()
	if denied != nil {
		return nil, denied
	}
	return pin(req.MessageID)
}

func (f *fakeAPI) DeleteMessage(_ context.Context, req *api.MessageRequest) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.denied != nil {
		return f.denied
	}
	f.deletes = append(f.deletes, req.MessageID)
	return nil
}

func (f *fakeAPI) Report(_ context.Context, req *api.ReportRequest) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.denied != nil {
		return f.denied
	}
	f.reports = append(f.reports, *req)
	return nil
}

func (f *fakeAPI) MarkRead(_ context.Context, req *api.MarkReadRequest) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.denied != nil {
		return f.denied
	}
	f.marked = append(f.marked, req.RoomID)
	return nil
}

func (f *fakeAPI) UploadImage(_ context.Context, filename, contentType string, data []byte) (*api.UploadResponse, error) {
	return f.upload(filename, contentType, data)
}

type fakeChannel struct {
	events chan Event

	mu        sync.Mutex
	tracked   []api.PresenceInfo
	untracked int
	typing    int
	closed    bool
	closeOnce sync.Once
}

func newFakeChannel() *fakeChannel {
	return &fakeChannel{events: make(chan Event, 16)}
}

func (c *fakeChannel) Events() <-chan Event { return c.events }

func (c *fakeChannel) Track(info api.PresenceInfo) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.tracked = append(c.tracked, info)
	return nil
}

func (c *fakeChannel) Untrack() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.untracked++
	return nil
}

func (c *fakeChannel) Typing() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.typing++
	return nil
}

// Close is also how tests simulate a dropped connection.
func (c *fakeChannel) Close() error {
	c.closeOnce.Do(func() {
		c.mu.Lock()
		c.closed = true
		c.mu.Unlock()
		close(c.events)
	})
	return nil
}

func (c *fakeChannel) stats() (tracked []api.PresenceInfo, untracked, typing int, closed bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]api.PresenceInfo(nil), c.tracked...), c.untracked, c.typing, c.closed
}

type fakeDialer struct {
	mu       sync.Mutex
	channels []*fakeChannel
	rooms    []uint64
	err      error
	failures int // transport failures before the next success
}

// queue prepares the channels handed out by successive subscriptions.
func (d *fakeDialer) queue(chs ...*fakeChannel) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.channels = append(d.channels, chs...)
}

func (d *fakeDialer) Subscribe(_ context.Context, roomID uint64) (Channel, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.rooms = append(d.rooms, roomID)
	if d.err != nil {
		return nil, d.err
	}
	if d.failures > 0 {
		d.failures--
		return nil, &common.TransportError{Err: context.DeadlineExceeded}
	}
	if len(d.channels) == 0 {
		return newFakeChannel(), nil
	}
	ch := d.channels[0]
	d.channels = d.channels[1:]
	return ch, nil
}

func (d *fakeDialer) fail(err error, failures int) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.err, d.failures = err, failures
}

func (d *fakeDialer) subscriptions() []uint64 {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]uint64(nil), d.rooms...)
}

func testConfig() Config {
	cfg := DefaultConfig()
	cfg.TypingCapacity = 3
	cfg.CatchUpTimeout = time.Second
	return cfg
}

func startEngine(t *testing.T, chat *fakeAPI, dialer *fakeDialer, cfg Config) (*Engine, clockwork.FakeClock) {
	t.Helper()
	clock := clockwork.NewFakeClockAt(epoch)
	e, err := New(chat, dialer, self, cfg, clock, logging.Discard())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	errc := make(chan error, 1)
	go func() { errc <- e.Run(ctx) }()
	t.Cleanup(func() {
		cancel()
		<-errc
	})
	return e, clock
}

// openRoom opens room on a fresh engine with ch as its first channel.
func openRoom(t *testing.T, chat *fakeAPI, cfg Config) (*Engine, clockwork.FakeClock, *fakeDialer, *fakeChannel) {
	t.Helper()
	ch := newFakeChannel()
	dialer := &fakeDialer{}
	dialer.queue(ch)
	e, clock := startEngine(t, chat, dialer, cfg)
	require.NoError(t, e.Open(context.Background(), room))
	return e, clock, dialer, ch
}

// dispatch hands ev to the loop as if it came from the current channel.
func dispatch(t *testing.T, e *Engine, ev Event) {
	t.Helper()
	require.NoError(t, e.call(context.Background(), func() { e.handle(ev) }))
}

func ids(msgs []Message) []uint64 {
	out := make([]uint64, 0, len(msgs))
	for _, m := range msgs {
		out = append(out, m.ID)
	}
	return out
}
