package syncengine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strconv"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/jonboulle/clockwork"
	"golang.org/x/sync/errgroup"

	"communitychat/internal/chat/api"
	"communitychat/internal/common"
)

var ErrClosed = errors.New("sync engine is closed")

type RoleStatus struct {
	Role       common.Role
	IsMuted    bool
	MutedUntil *time.Time
}

type PresenceEntry struct {
	SessionKey  string
	UserID      uint64
	DisplayName string
	AvatarURL   string
}

// Engine owns the state of one open room. All state is touched only by
// the goroutine running Run; public methods post closures to it.
type Engine struct {
	api    ChatAPI
	dialer Dialer
	self   api.PresenceInfo
	cfg    Config
	clock  clockwork.Clock
	logger *slog.Logger

	ops     chan func()
	done    chan struct{}
	changes chan struct{}

	state      State
	roomID     uint64
	gen        uint64
	roomCtx    context.Context
	roomCancel context.CancelFunc
	channel    Channel
	sessionKey string

	messages   messageList
	hasMore    bool
	pinned     []Message
	moderators []api.Moderator
	role       RoleStatus
	lastErr    error

	dedup    *lru.Cache[uint64, struct{}]
	typing   *lru.Cache[uint64, TypingEntry]
	presence *lru.Cache[string, PresenceEntry]

	sweeper        *sweeper
	dedupClear     roomTicker
	lastTypingSent time.Time

	// connEpoch counts channel losses; a catch-up from an earlier
	// connection must not mark a later one Active
	connEpoch       uint64
	wasDisconnected bool
	gapPending      bool
}

// New builds an engine for the user described by self. Run must be started
// before any other method is called.
func New(chat ChatAPI, dialer Dialer, self api.PresenceInfo, cfg Config, clock clockwork.Clock, logger *slog.Logger) (*Engine, error) {
	cfg = cfg.withDefaults()

	dedup, err := lru.New[uint64, struct{}](cfg.DedupCapacity)
	if err != nil {
		return nil, err
	}
	typing, err := lru.New[uint64, TypingEntry](cfg.TypingCapacity)
	if err != nil {
		return nil, err
	}
	presence, err := lru.New[string, PresenceEntry](cfg.PresenceCapacity)
	if err != nil {
		return nil, err
	}

	return &Engine{
		api:      chat,
		dialer:   dialer,
		self:     self,
		cfg:      cfg,
		clock:    clock,
		logger:   logger,
		ops:      make(chan func()),
		done:     make(chan struct{}),
		changes:  make(chan struct{}, 1),
		dedup:    dedup,
		typing:   typing,
		presence: presence,
		sweeper:  newSweeper(clock, cfg.TypingSweepInterval, cfg.TypingIdleSweeps),
	}, nil
}

// Run processes posted work and timers until ctx is done. The open room
// is left on the way out.
func (e *Engine) Run(ctx context.Context) error {
	defer close(e.done)
	for {
		select {
		case <-ctx.Done():
			e.leave()
			return ctx.Err()
		case fn := <-e.ops:
			fn()
		case <-e.sweeper.C():
			e.sweepTyping()
		case <-e.dedupClear.C():
			e.dedup.Purge()
		}
	}
}

// post hands fn to the loop without waiting for it to run.
func (e *Engine) post(ctx context.Context, fn func()) error {
	select {
	case e.ops <- fn:
		return nil
	case <-e.done:
		return ErrClosed
	case <-ctx.Done():
		return ctx.Err()
	}
}

// call runs fn on the loop and waits for it. Once accepted fn always runs.
func (e *Engine) call(ctx context.Context, fn func()) error {
	finished := make(chan struct{})
	if err := e.post(ctx, func() {
		defer close(finished)
		fn()
	}); err != nil {
		return err
	}
	<-finished
	return nil
}

func read[T any](e *Engine, fn func() T) T {
	var out T
	_ = e.call(context.Background(), func() { out = fn() })
	return out
}

func (e *Engine) notify() {
	select {
	case e.changes <- struct{}{}:
	default:
	}
}

func (e *Engine) setState(s State) {
	if e.state != s {
		e.state = s
		e.notify()
	}
}

// Changes signals that some snapshot may have changed. Signals coalesce.
func (e *Engine) Changes() <-chan struct{} {
	return e.changes
}

// Open leaves the current room, loads the newest page, pinned messages,
// moderators and the caller's role in parallel, then subscribes.
func (e *Engine) Open(ctx context.Context, roomID uint64) error {
	if err := common.ValidateRoomID(roomID); err != nil {
		return err
	}

	var gen uint64
	if err := e.call(ctx, func() {
		e.leave()
		gen = e.begin(roomID)
	}); err != nil {
		return err
	}

	snap, err := e.load(ctx, roomID)
	if err == nil {
		var ch Channel
		ch, err = e.dialer.Subscribe(ctx, roomID)
		if err == nil {
			attached := false
			cerr := e.call(context.Background(), func() {
				if e.gen != gen {
					return
				}
				e.applySnapshot(snap)
				e.attach(ch)
				e.setState(StateActive)
				attached = true
			})
			if !attached {
				_ = ch.Close()
				if cerr == nil {
					cerr = context.Canceled
				}
				return cerr
			}
			e.logger.Info("[SYNC] room opened", "room_id", roomID, "messages", len(snap.page.Messages))
			return nil
		}
	}

	_ = e.call(context.Background(), func() {
		if e.gen == gen {
			e.leave()
		}
	})
	return err
}

// Close leaves the open room. The engine can open another one afterwards.
func (e *Engine) Close(ctx context.Context) error {
	return e.call(ctx, e.leave)
}

func (e *Engine) begin(roomID uint64) uint64 {
	e.gen++
	e.roomID = roomID
	e.roomCtx, e.roomCancel = context.WithCancel(context.Background())
	e.dedupClear.start(e.clock, e.cfg.DedupClearInterval)
	e.setState(StateLoading)
	return e.gen
}

// leave tears down everything tied to the open room: subscription,
// timers and the ephemeral sets.
func (e *Engine) leave() {
	if e.channel != nil {
		if err := e.channel.Untrack(); err != nil {
			e.logger.Debug("[SYNC] untrack failed", "room_id", e.roomID, "err", err)
		}
		_ = e.channel.Close()
		e.channel = nil
	}
	if e.roomCancel != nil {
		e.roomCancel()
		e.roomCancel = nil
		e.roomCtx = nil
	}

	e.sweeper.stop()
	e.dedupClear.stop()
	e.typing.Purge()
	e.presence.Purge()
	e.dedup.Purge()

	e.messages = messageList{}
	e.hasMore = false
	e.pinned = nil
	e.moderators = nil
	e.role = RoleStatus{}
	e.lastErr = nil
	e.sessionKey = ""
	e.lastTypingSent = time.Time{}
	e.wasDisconnected = false
	e.gapPending = false

	e.gen++
	e.roomID = 0
	e.setState(StateIdle)
	e.notify()
}

type snapshot struct {
	page   *api.ListMessagesResponse
	pinned *api.ListMessagesResponse
	mods   *api.ListModeratorsResponse
	role   *api.GetRoleResponse
}

func (e *Engine) load(ctx context.Context, roomID uint64) (*snapshot, error) {
	var s snapshot
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() (err error) {
		s.page, err = e.api.ListMessages(gctx, &api.ListMessagesRequest{RoomID: roomID, Limit: e.cfg.PageSize})
		return err
	})
	g.Go(func() (err error) {
		s.pinned, err = e.api.ListMessages(gctx, &api.ListMessagesRequest{RoomID: roomID, Pinned: true, Limit: e.cfg.PageSize})
		return err
	})
	g.Go(func() (err error) {
		s.mods, err = e.api.ListModerators(gctx, &api.ListModeratorsRequest{RoomID: roomID})
		return err
	})
	g.Go(func() (err error) {
		s.role, err = e.api.GetRole(gctx, &api.GetRoleRequest{RoomID: roomID})
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &s, nil
}

func (e *Engine) applySnapshot(s *snapshot) {
	page := make([]Message, 0, len(s.page.Messages))
	for _, m := range s.page.Messages {
		page = append(page, fromAPI(m, StatusSent))
	}
	// the page arrives newest first; merge restores chronological order
	e.messages.merge(page)
	e.hasMore = s.page.HasMore

	e.pinned = e.pinned[:0]
	for _, m := range s.pinned.Messages {
		e.pinned = append(e.pinned, fromAPI(m, StatusSent))
	}
	e.moderators = s.mods.Moderators
	e.role = RoleStatus{Role: common.Role(s.role.Role), IsMuted: s.role.IsMuted, MutedUntil: s.role.MutedUntil}
	e.notify()
}

func (e *Engine) attach(ch Channel) {
	e.channel = ch
	go e.pump(ch)
}

// pump forwards channel events to the loop. Events from a channel the
// engine has since replaced are dropped there.
func (e *Engine) pump(ch Channel) {
	for ev := range ch.Events() {
		if err := e.post(context.Background(), func() {
			if e.channel == ch {
				e.handle(ev)
			}
		}); err != nil {
			return
		}
	}
	_ = e.post(context.Background(), func() {
		if e.channel == ch {
			e.disconnected(nil)
		}
	})
}

func (e *Engine) handle(ev Event) {
	switch ev := ev.(type) {
	case Subscribed:
		e.onSubscribed(ev)
	case Disconnected:
		e.disconnected(ev.Err)
	case NewMessage:
		e.onNewMessage(ev.Message)
	case Typing:
		e.onTyping(ev)
	case ChangeInsert:
		e.onChangeInsert(ev.Message)
	case ChangeUpdate:
		e.onChangeUpdate(ev.Message)
	case PresenceSync:
		e.presence.Purge()
		for _, u := range ev.Users {
			e.addPresence(u)
		}
		e.notify()
	case PresenceJoin:
		e.addPresence(ev.User)
		e.notify()
	case PresenceLeave:
		e.presence.Remove(presenceKey(ev.User))
		e.notify()
	case ChannelError:
		e.lastErr = ev.Err
		e.logger.Warn("[SYNC] channel error", "room_id", e.roomID, "code", ev.Err.Code, "message", ev.Err.Message)
		e.notify()
	default:
		e.logger.Warn("[SYNC] unhandled event", "type", fmt.Sprintf("%T", ev))
	}
}

func (e *Engine) onSubscribed(ev Subscribed) {
	e.sessionKey = ev.SessionKey
	if err := e.channel.Track(e.self); err != nil {
		e.logger.Warn("[SYNC] track failed", "room_id", e.roomID, "err", err)
	}
	if e.wasDisconnected {
		e.wasDisconnected = false
		e.startCatchUp()
	}
	e.notify()
}

// onNewMessage handles the broadcast path. The local user's own messages
// are never inserted from here; their send response does that.
func (e *Engine) onNewMessage(m api.Message) {
	if m.RoomID != e.roomID {
		return
	}
	if e.typing.Remove(m.UserID) {
		e.notify()
	}
	if m.UserID == e.self.UserID {
		return
	}
	if e.dedup.Contains(m.ID) || e.messages.has(m.ID) {
		return
	}
	e.dedup.Add(m.ID, struct{}{})
	e.messages.insert(fromAPI(m, StatusSent))
	e.notify()
}

// onChangeInsert handles the change-feed path. A marker left by an
// earlier arrival is consumed here.
func (e *Engine) onChangeInsert(m api.Message) {
	if m.RoomID != e.roomID {
		return
	}
	if e.dedup.Remove(m.ID) {
		return
	}
	if m.IsDeleted || e.messages.has(m.ID) {
		return
	}
	e.dedup.Add(m.ID, struct{}{})
	e.messages.insert(fromAPI(m, StatusSent))
	e.notify()
}

func (e *Engine) onChangeUpdate(m api.Message) {
	if m.RoomID != e.roomID {
		return
	}
	e.updatePinned(m)
	if i := e.messages.indexOf(m.ID); i >= 0 {
		if m.IsDeleted {
			e.messages.removeAt(i)
		} else {
			cur := &e.messages.items[i]
			cur.Content = m.Content
			cur.IsPinned = m.IsPinned
			if m.Author != nil {
				cur.Author = m.Author
			}
		}
	}
	e.notify()
}

// updatePinned keeps the pinned list newest first.
func (e *Engine) updatePinned(m api.Message) {
	kept := e.pinned[:0]
	for _, p := range e.pinned {
		if p.ID != m.ID {
			kept = append(kept, p)
		}
	}
	e.pinned = kept
	if m.IsPinned && !m.IsDeleted {
		e.pinned = append(e.pinned, fromAPI(m, StatusSent))
		sort.SliceStable(e.pinned, func(i, j int) bool { return before(e.pinned[j], e.pinned[i]) })
	}
}

func (e *Engine) removeMessage(id uint64) {
	if i := e.messages.indexOf(id); i >= 0 {
		e.messages.removeAt(i)
	}
	e.updatePinned(api.Message{ID: id, IsDeleted: true})
	e.notify()
}

func (e *Engine) onTyping(ev Typing) {
	if ev.UserID == 0 || ev.UserID == e.self.UserID {
		return
	}
	e.typing.Add(ev.UserID, TypingEntry{UserID: ev.UserID, DisplayName: ev.DisplayName, LastSeenAt: e.clock.Now()})
	e.sweeper.start()
	e.notify()
}

func (e *Engine) sweepTyping() {
	now := e.clock.Now()
	removed := 0
	for _, id := range e.typing.Keys() {
		if t, ok := e.typing.Peek(id); ok && now.Sub(t.LastSeenAt) >= e.cfg.TypingTimeout {
			e.typing.Remove(id)
			removed++
		}
	}
	if e.sweeper.observe(e.typing.Len() == 0) {
		e.logger.Debug("[SYNC] typing sweep stopped", "room_id", e.roomID)
	}
	if removed > 0 {
		e.notify()
	}
}

func presenceKey(u api.PresenceInfo) string {
	if u.SessionKey != "" {
		return u.SessionKey
	}
	return "user:" + strconv.FormatUint(u.UserID, 10)
}

func (e *Engine) addPresence(u api.PresenceInfo) {
	e.presence.Add(presenceKey(u), PresenceEntry{
		SessionKey:  u.SessionKey,
		UserID:      u.UserID,
		DisplayName: u.DisplayName,
		AvatarURL:   u.AvatarURL,
	})
}

// NotifyTyping tells the room the local user is typing, at most once per
// TypingDebounce however often it is called.
func (e *Engine) NotifyTyping(ctx context.Context) error {
	return e.call(ctx, func() {
		if e.channel == nil {
			return
		}
		now := e.clock.Now()
		if !e.lastTypingSent.IsZero() && now.Sub(e.lastTypingSent) < e.cfg.TypingDebounce {
			return
		}
		e.lastTypingSent = now
		if err := e.channel.Typing(); err != nil {
			e.logger.Debug("[SYNC] typing publish failed", "room_id", e.roomID, "err", err)
		}
	})
}

// currentRole drops a mute whose expiry has passed.
func (e *Engine) currentRole() RoleStatus {
	if e.role.IsMuted && e.role.MutedUntil != nil && !e.role.MutedUntil.After(e.clock.Now()) {
		e.role.IsMuted = false
		e.role.MutedUntil = nil
	}
	return e.role
}

func (e *Engine) Messages() []Message {
	return read(e, e.messages.snapshot)
}

func (e *Engine) Pinned() []Message {
	return read(e, func() []Message {
		return append([]Message(nil), e.pinned...)
	})
}

func (e *Engine) Moderators() []api.Moderator {
	return read(e, func() []api.Moderator {
		return append([]api.Moderator(nil), e.moderators...)
	})
}

// TypingUsers lists users typing right now, least recently updated first.
// Entries past TypingTimeout are hidden even before the sweep removes them.
func (e *Engine) TypingUsers() []TypingEntry {
	return read(e, func() []TypingEntry {
		now := e.clock.Now()
		var out []TypingEntry
		for _, id := range e.typing.Keys() {
			if t, ok := e.typing.Peek(id); ok && now.Sub(t.LastSeenAt) < e.cfg.TypingTimeout {
				out = append(out, t)
			}
		}
		return out
	})
}

// OnlineUsers lists each present user once, however many sessions they
// have open.
func (e *Engine) OnlineUsers() []PresenceEntry {
	return read(e, func() []PresenceEntry {
		seen := make(map[uint64]bool)
		var out []PresenceEntry
		for _, key := range e.presence.Keys() {
			p, ok := e.presence.Peek(key)
			if !ok || seen[p.UserID] {
				continue
			}
			seen[p.UserID] = true
			out = append(out, p)
		}
		return out
	})
}

func (e *Engine) OnlineCount() int {
	return len(e.OnlineUsers())
}

func (e *Engine) Role() RoleStatus {
	return read(e, e.currentRole)
}

func (e *Engine) State() State {
	return read(e, func() State { return e.state })
}

func (e *Engine) RoomID() uint64 {
	return read(e, func() uint64 { return e.roomID })
}

func (e *Engine) HasMore() bool {
	return read(e, func() bool { return e.hasMore })
}

// LastError is the latest error frame received on the channel, if any.
func (e *Engine) LastError() error {
	return read(e, func() error { return e.lastErr })
}
