package syncengine

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"communitychat/internal/chat/api"
	"communitychat/internal/common"
)

func asPinned(m api.Message) api.Message {
	m.IsPinned = true
	return m
}

func TestTogglePin_MaintainsPinnedList(t *testing.T) {
	chat := newFakeAPI()
	chat.page = []api.Message{msg(3, 12, 3*time.Second, "c"), msg(2, 11, 2*time.Second, "b"), asPinned(msg(1, 11, time.Second, "a"))}
	chat.pinned = []api.Message{asPinned(msg(1, 11, time.Second, "a"))}

	state := map[uint64]api.Message{}
	for _, m := range chat.page {
		state[m.ID] = m
	}
	chat.pin = func(id uint64) (*api.TogglePinResponse, error) {
		m := state[id]
		m.IsPinned = !m.IsPinned
		state[id] = m
		return &api.TogglePinResponse{Message: m}, nil
	}
	e, _, _, _ := openRoom(t, chat, testConfig())

	steps := []struct {
		toggle     uint64
		wantPinned bool
		wantList   []uint64
	}{
		{toggle: 3, wantPinned: true, wantList: []uint64{3, 1}},
		{toggle: 2, wantPinned: true, wantList: []uint64{3, 2, 1}},
		{toggle: 1, wantPinned: false, wantList: []uint64{3, 2}},
		{toggle: 3, wantPinned: false, wantList: []uint64{2}},
	}
	for _, s := range steps {
		m, err := e.TogglePin(context.Background(), s.toggle)
		require.NoError(t, err)
		assert.Equal(t, s.wantPinned, m.IsPinned, "message %d", s.toggle)
		assert.Equal(t, s.wantList, ids(e.Pinned()), "after toggling %d", s.toggle)

		for _, got := range e.Messages() {
			if got.ID == s.toggle {
				assert.Equal(t, s.wantPinned, got.IsPinned, "list entry %d", s.toggle)
			}
		}
	}
}

func TestDelete_RemovesFromListAndPinned(t *testing.T) {
	chat := newFakeAPI()
	chat.page = []api.Message{asPinned(msg(2, 11, 2*time.Second, "b")), msg(1, 11, time.Second, "a")}
	chat.pinned = []api.Message{asPinned(msg(2, 11, 2*time.Second, "b"))}
	e, _, _, _ := openRoom(t, chat, testConfig())

	require.NoError(t, e.Delete(context.Background(), 2))

	assert.Equal(t, []uint64{1}, ids(e.Messages()))
	assert.Empty(t, e.Pinned())
	assert.Equal(t, []uint64{2}, chat.deletes)

	// the change feed echo of the delete is a no-op
	deleted := msg(2, 11, 2*time.Second, "b")
	deleted.IsDeleted = true
	dispatch(t, e, ChangeUpdate{Message: deleted})
	assert.Equal(t, []uint64{1}, ids(e.Messages()))
}

func TestSetRole_RefreshesModerators(t *testing.T) {
	chat := newFakeAPI()
	chat.role = api.GetRoleResponse{Role: "admin"}
	chat.mods = []api.Moderator{{Author: api.Author{UserID: self.UserID, DisplayName: "Alice"}, Role: "admin"}}
	e, _, _, _ := openRoom(t, chat, testConfig())
	require.Len(t, e.Moderators(), 1)

	require.NoError(t, e.SetRole(context.Background(), bob.UserID, common.RoleModerator))

	assert.Equal(t, []api.SetRoleRequest{{RoomID: room, UserID: bob.UserID, Role: "moderator"}}, chat.setRoles)
	mods := e.Moderators()
	require.Len(t, mods, 2)
	assert.Equal(t, bob.UserID, mods[1].UserID)
	assert.Equal(t, "moderator", mods[1].Role)
}

func TestModerationCalls_ForwardOpenRoom(t *testing.T) {
	chat := newFakeAPI()
	chat.page = []api.Message{msg(1, 11, time.Second, "a")}
	e, _, _, _ := openRoom(t, chat, testConfig())
	ctx := context.Background()

	expires, err := e.Mute(ctx, bob.UserID, 30, "spam")
	require.NoError(t, err)
	assert.Equal(t, epoch.Add(30*time.Minute), expires)
	assert.Equal(t, []api.MuteRequest{{RoomID: room, UserID: bob.UserID, Minutes: 30, Reason: "spam"}}, chat.mutes)

	require.NoError(t, e.Unmute(ctx, bob.UserID))

	require.NoError(t, e.Report(ctx, 1, "offensive"))
	assert.Equal(t, []api.ReportRequest{{MessageID: 1, Reason: "offensive"}}, chat.reports)

	require.NoError(t, e.MarkRead(ctx))
	assert.Equal(t, []uint64{room}, chat.marked)
}

func TestModerationCalls_ErrorsSurfaceVerbatim(t *testing.T) {
	denied := common.AccessDenied("moderators only")
	tests := []struct {
		name string
		run  func(ctx context.Context, e *Engine) error
	}{
		{"toggle pin", func(ctx context.Context, e *Engine) error {
			_, err := e.TogglePin(ctx, 1)
			return err
		}},
		{"delete", func(ctx context.Context, e *Engine) error { return e.Delete(ctx, 1) }},
		{"mute", func(ctx context.Context, e *Engine) error {
			_, err := e.Mute(ctx, bob.UserID, 10, "")
			return err
		}},
		{"unmute", func(ctx context.Context, e *Engine) error { return e.Unmute(ctx, bob.UserID) }},
		{"set role", func(ctx context.Context, e *Engine) error { return e.SetRole(ctx, bob.UserID, common.RoleAdmin) }},
		{"report", func(ctx context.Context, e *Engine) error { return e.Report(ctx, 1, "spam") }},
		{"mark read", func(ctx context.Context, e *Engine) error { return e.MarkRead(ctx) }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			chat := newFakeAPI()
			chat.page = []api.Message{asPinned(msg(1, 11, time.Second, "a"))}
			chat.pinned = []api.Message{asPinned(msg(1, 11, time.Second, "a"))}
			e, _, _, _ := openRoom(t, chat, testConfig())
			chat.mu.Lock()
			chat.denied = denied
			chat.mu.Unlock()

			err := tt.run(context.Background(), e)
			assert.Same(t, denied, err)

			assert.Equal(t, []uint64{1}, ids(e.Messages()))
			assert.Equal(t, []uint64{1}, ids(e.Pinned()))
		})
	}
}

func TestModerationCalls_NeedOpenRoom(t *testing.T) {
	chat := newFakeAPI()
	e, _ := startEngine(t, chat, &fakeDialer{}, testConfig())
	ctx := context.Background()

	calls := map[string]func() error{
		"mute": func() error {
			_, err := e.Mute(ctx, bob.UserID, 10, "")
			return err
		},
		"unmute": func() error {
			return e.Unmute(ctx, bob.UserID)
		},
		"set role": func() error {
			return e.SetRole(ctx, bob.UserID, common.RoleModerator)
		},
		"mark read": func() error {
			return e.MarkRead(ctx)
		},
		"refresh role": func() error {
			_, err := e.RefreshRole(ctx)
			return err
		},
		"load older": func() error {
			_, err := e.LoadOlder(ctx)
			return err
		},
	}
	for name, call := range calls {
		ce, ok := common.AsChatError(call())
		require.True(t, ok, name)
		assert.Equal(t, common.CodeValidation, ce.Code, name)
	}
	assert.Empty(t, chat.mutes)
	assert.Empty(t, chat.setRoles)
	assert.Empty(t, chat.marked)
}

func TestLoadOlder_MergesInOrder(t *testing.T) {
	chat := newFakeAPI()
	chat.page = []api.Message{msg(5, 12, 5*time.Second, "e"), msg(4, 11, 4*time.Second, "d")}
	chat.hasMore = true
	chat.older = func(before uint64) (*api.ListMessagesResponse, error) {
		switch before {
		case 4:
			// same timestamp: id breaks the tie
			return &api.ListMessagesResponse{Messages: []api.Message{msg(3, 11, 2*time.Second, "c"), msg(2, 12, 2*time.Second, "b")}, HasMore: true}, nil
		case 2:
			return &api.ListMessagesResponse{Messages: []api.Message{msg(1, 11, time.Second, "a")}}, nil
		}
		return &api.ListMessagesResponse{}, nil
	}
	e, _, _, _ := openRoom(t, chat, testConfig())
	require.True(t, e.HasMore())

	added, err := e.LoadOlder(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, added)
	assert.Equal(t, []uint64{2, 3, 4, 5}, ids(e.Messages()))
	assert.True(t, e.HasMore())

	added, err = e.LoadOlder(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, added)
	assert.Equal(t, []uint64{1, 2, 3, 4, 5}, ids(e.Messages()))
	assert.False(t, e.HasMore())

	assert.Equal(t, []uint64{4, 2}, chat.beforeCalls())
}

func TestLoadOlder_ErrorLeavesListAlone(t *testing.T) {
	chat := newFakeAPI()
	chat.page = []api.Message{msg(4, 11, 4*time.Second, "d")}
	chat.hasMore = true
	chat.older = func(uint64) (*api.ListMessagesResponse, error) {
		return nil, &common.TransportError{Err: context.DeadlineExceeded}
	}
	e, _, _, _ := openRoom(t, chat, testConfig())

	_, err := e.LoadOlder(context.Background())
	assert.True(t, common.IsTransport(err))
	assert.Equal(t, []uint64{4}, ids(e.Messages()))
	assert.True(t, e.HasMore())
}

func TestRefreshRole(t *testing.T) {
	until := epoch.Add(5 * time.Minute)
	chat := newFakeAPI()
	e, _, _, _ := openRoom(t, chat, testConfig())
	assert.Equal(t, common.RoleMember, e.Role().Role)

	chat.mu.Lock()
	chat.role = api.GetRoleResponse{Role: "moderator", IsMuted: true, MutedUntil: &until}
	chat.mu.Unlock()

	st, err := e.RefreshRole(context.Background())
	require.NoError(t, err)
	assert.Equal(t, common.RoleModerator, st.Role)
	assert.True(t, e.Role().IsMuted)

	chat.mu.Lock()
	chat.roleErr = common.ErrRoomNotFound
	chat.mu.Unlock()

	_, err = e.RefreshRole(context.Background())
	assert.ErrorIs(t, err, common.ErrRoomNotFound)
	assert.Equal(t, common.RoleModerator, e.Role().Role, "a failed refresh keeps the last known role")
}
