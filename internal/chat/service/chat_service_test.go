package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"communitychat/internal/chat/repository"
	"communitychat/internal/chat/service/mocks"
	"communitychat/internal/common"
	"communitychat/internal/config"
	"communitychat/internal/dbmysql"
	"communitychat/internal/logging"
	"communitychat/internal/ratelimit"
)

var epoch = time.Date(2026, 2, 1, 10, 0, 0, 0, time.UTC)

var alice = common.Actor{UserID: 10, Handle: "alice", DisplayName: "Alice"}

type recordingBroadcaster struct {
	mu    sync.Mutex
	views []MessageView
	err   error
}

func (b *recordingBroadcaster) PublishNewMessage(ctx context.Context, view MessageView) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.views = append(b.views, view)
	return b.err
}

type fixture struct {
	repo  *mocks.MockChatRepository
	bcast *recordingBroadcaster
	clock clockwork.FakeClock
	svc   ChatService
}

func newFixture(t *testing.T) *fixture {
	ctrl := gomock.NewController(t)
	clock := clockwork.NewFakeClockAt(epoch)

	limits, err := ratelimit.NewRegistry(config.RateLimitsConfig{
		Messages:          config.LimitConfig{MaxRequests: 10, Window: time.Minute},
		Images:            config.LimitConfig{MaxRequests: 5, Window: 5 * time.Minute},
		PhoneVerification: config.LimitConfig{MaxRequests: 3, Window: 5 * time.Minute},
	}, clock, logging.Discard())
	require.NoError(t, err)

	f := &fixture{
		repo:  mocks.NewMockChatRepository(ctrl),
		bcast: &recordingBroadcaster{},
		clock: clock,
	}
	f.svc = NewChatService(f.repo, limits, f.bcast, clock, config.ChatConfig{
		PageSize:         50,
		MaxContentLength: 4000,
		RoleCacheSize:    16,
		RoleCacheTTL:     time.Minute,
	}, logging.Discard())
	return f
}

func room() *dbmysql.Room {
	return &dbmysql.Room{ID: 1, Scope: "building", CityID: 1, DistrictID: 2, BuildingID: 3, IsActive: true}
}

func account() *dbmysql.Account {
	return &dbmysql.Account{UserID: 10, Handle: "alice", DisplayName: "Alice", CityID: 1, DistrictID: 2, BuildingID: 3, Status: "active"}
}

// admitWith simulates the transaction: the gate sees snap, and on success
// the store assigns id.
func admitWith(snap repository.Snapshot, id uint64) func(context.Context, *dbmysql.Message, time.Time, repository.GateFunc) error {
	return func(_ context.Context, msg *dbmysql.Message, _ time.Time, gate repository.GateFunc) error {
		if err := gate(snap); err != nil {
			return err
		}
		msg.ID = id
		return nil
	}
}

func TestChatService_SendMessage(t *testing.T) {
	f := newFixture(t)

	f.repo.EXPECT().
		Admit(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(admitWith(repository.Snapshot{Room: room(), Account: account(), Membership: &dbmysql.Membership{Role: "member"}}, 100)).
		Times(1)

	view, err := f.svc.SendMessage(context.Background(), alice, SendInput{RoomID: 1, Content: "hello"})

	require.NoError(t, err)
	assert.Equal(t, uint64(100), view.Message.ID)
	assert.Equal(t, "text", view.Message.ContentType)
	assert.Equal(t, epoch, view.Message.CreatedAt)
	assert.Equal(t, "Alice", view.Author.Name())

	require.Len(t, f.bcast.views, 1)
	assert.Equal(t, uint64(100), f.bcast.views[0].Message.ID)
}

func TestChatService_SendMessage_Validation(t *testing.T) {
	tests := []struct {
		name  string
		actor common.Actor
		in    SendInput
		code  common.ErrorCode
	}{
		{"no actor", common.Actor{}, SendInput{RoomID: 1, Content: "x"}, common.CodeUnauthenticated},
		{"no room", alice, SendInput{Content: "x"}, common.CodeValidation},
		{"empty content", alice, SendInput{RoomID: 1, Content: "  "}, common.CodeValidation},
		{"image without upload id", alice, SendInput{RoomID: 1, ContentType: common.ContentTypeImage}, common.CodeValidation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)

			_, err := f.svc.SendMessage(context.Background(), tt.actor, tt.in)

			ce, ok := common.AsChatError(err)
			require.True(t, ok, "got %v", err)
			assert.Equal(t, tt.code, ce.Code)
			assert.Empty(t, f.bcast.views)
		})
	}
}

func TestChatService_SendMessage_ReplyInOtherRoom(t *testing.T) {
	f := newFixture(t)
	replyTo := uint64(7)

	f.repo.EXPECT().GetMessage(gomock.Any(), replyTo).Return(&dbmysql.Message{ID: 7, RoomID: 2}, nil)

	_, err := f.svc.SendMessage(context.Background(), alice, SendInput{RoomID: 1, Content: "re", ReplyToID: &replyTo})
	assert.True(t, errors.Is(err, &common.ChatError{Code: common.CodeValidation}))
}

func TestChatService_SendMessage_ImageFromAnotherUser(t *testing.T) {
	f := newFixture(t)
	fileID := "65f1c0ffee0123456789abcd"

	f.repo.EXPECT().GetMediaRef(gomock.Any(), fileID).Return(&dbmysql.MediaRef{FileID: fileID, UploadedBy: 99}, nil)

	_, err := f.svc.SendMessage(context.Background(), alice, SendInput{RoomID: 1, Content: fileID, ContentType: common.ContentTypeImage})
	assert.True(t, errors.Is(err, &common.ChatError{Code: common.CodeValidation}))
}

func TestChatService_SendMessage_MutedCarriesUntil(t *testing.T) {
	f := newFixture(t)
	until := epoch.Add(10 * time.Minute)

	f.repo.EXPECT().
		Admit(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(admitWith(repository.Snapshot{
			Room: room(), Account: account(),
			Membership: &dbmysql.Membership{Role: "member"},
			ActiveMute: &dbmysql.Mute{ExpiresAt: until},
		}, 0))

	view, err := f.svc.SendMessage(context.Background(), alice, SendInput{RoomID: 1, Content: "hello"})

	assert.Nil(t, view)
	ce, ok := common.AsChatError(err)
	require.True(t, ok)
	assert.Equal(t, common.CodeMuted, ce.Code)
	require.NotNil(t, ce.MutedUntil)
	assert.True(t, until.Equal(*ce.MutedUntil))
	assert.Equal(t, 403, ce.HTTPStatus())
	assert.Empty(t, f.bcast.views)
}

func TestChatService_SendMessage_EleventhIsRateLimited(t *testing.T) {
	f := newFixture(t)

	var id uint64
	f.repo.EXPECT().
		Admit(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(ctx context.Context, msg *dbmysql.Message, now time.Time, gate repository.GateFunc) error {
			id++
			return admitWith(repository.Snapshot{Room: room(), Account: account()}, id)(ctx, msg, now, gate)
		}).
		Times(10)

	for i := 0; i < 10; i++ {
		_, err := f.svc.SendMessage(context.Background(), alice, SendInput{RoomID: 1, Content: "spam"})
		require.NoError(t, err, "message %d", i+1)
		f.clock.Advance(time.Second)
	}

	_, err := f.svc.SendMessage(context.Background(), alice, SendInput{RoomID: 1, Content: "spam"})

	ce, ok := common.AsChatError(err)
	require.True(t, ok)
	assert.Equal(t, common.CodeRateLimited, ce.Code)
	assert.Greater(t, ce.RetryAfter, time.Duration(0))
	assert.LessOrEqual(t, ce.RetryAfter, time.Minute)
	assert.Equal(t, 50*time.Second, ce.RetryAfter)
}

func TestChatService_SendMessage_BroadcastFailureIsNotFatal(t *testing.T) {
	f := newFixture(t)
	f.bcast.err = errors.New("redis down")

	f.repo.EXPECT().
		Admit(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(admitWith(repository.Snapshot{Room: room(), Account: account()}, 5))

	view, err := f.svc.SendMessage(context.Background(), alice, SendInput{RoomID: 1, Content: "hi"})

	require.NoError(t, err)
	assert.Equal(t, uint64(5), view.Message.ID)
}

func TestChatService_ListMessages(t *testing.T) {
	f := newFixture(t)

	f.repo.EXPECT().GetRoom(gomock.Any(), uint64(1)).Return(room(), nil)
	f.repo.EXPECT().GetAccount(gomock.Any(), uint64(10)).Return(account(), nil)
	f.repo.EXPECT().
		ListMessages(gomock.Any(), uint64(1), repository.MessageQuery{Limit: 50}).
		Return([]*dbmysql.Message{{ID: 3, UserID: 10}, {ID: 2, UserID: 11}, {ID: 1, UserID: 10}}, true, nil)
	f.repo.EXPECT().
		AccountsByIDs(gomock.Any(), []uint64{10, 11}).
		Return(map[uint64]*dbmysql.Account{10: account()}, nil)

	page, err := f.svc.ListMessages(context.Background(), alice, 1, repository.MessageQuery{})

	require.NoError(t, err)
	assert.True(t, page.HasMore)
	require.Len(t, page.Messages, 3)
	assert.Equal(t, "Alice", page.Messages[0].Author.Name())
	assert.Nil(t, page.Messages[1].Author)
}

func TestChatService_ListMessages_OutOfScope(t *testing.T) {
	f := newFixture(t)
	other := account()
	other.BuildingID = 99

	f.repo.EXPECT().GetRoom(gomock.Any(), uint64(1)).Return(room(), nil)
	f.repo.EXPECT().GetAccount(gomock.Any(), uint64(10)).Return(other, nil)

	_, err := f.svc.ListMessages(context.Background(), alice, 1, repository.MessageQuery{})
	assert.True(t, errors.Is(err, common.ErrAccessDenied))
}

func TestChatService_GetRole_CachedAndMuteExpiresOnRead(t *testing.T) {
	f := newFixture(t)
	until := epoch.Add(5 * time.Minute)

	f.repo.EXPECT().GetRoom(gomock.Any(), uint64(1)).Return(room(), nil).Times(1)
	f.repo.EXPECT().GetAccount(gomock.Any(), uint64(10)).Return(account(), nil).Times(1)
	f.repo.EXPECT().GetMembership(gomock.Any(), uint64(1), uint64(10)).Return(&dbmysql.Membership{Role: "moderator"}, nil).Times(1)
	f.repo.EXPECT().ActiveMute(gomock.Any(), uint64(1), uint64(10), gomock.Any()).Return(&dbmysql.Mute{ExpiresAt: until}, nil).Times(1)

	status, err := f.svc.GetRole(context.Background(), alice, 1)
	require.NoError(t, err)
	assert.Equal(t, common.RoleModerator, status.Role)
	assert.True(t, status.IsMuted)

	f.clock.Advance(6 * time.Minute)

	status, err = f.svc.GetRole(context.Background(), alice, 1)
	require.NoError(t, err)
	assert.False(t, status.IsMuted)
	assert.Nil(t, status.MutedUntil)
}

func TestChatService_RoomReadsRequireScope(t *testing.T) {
	other := account()
	other.BuildingID = 99

	tests := []struct {
		name string
		call func(svc ChatService) error
	}{
		{"get role", func(svc ChatService) error {
			_, err := svc.GetRole(context.Background(), alice, 1)
			return err
		}},
		{"list moderators", func(svc ChatService) error {
			_, err := svc.ListModerators(context.Background(), alice, 1)
			return err
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			f.repo.EXPECT().GetRoom(gomock.Any(), uint64(1)).Return(room(), nil)
			f.repo.EXPECT().GetAccount(gomock.Any(), uint64(10)).Return(other, nil)

			err := tt.call(f.svc)
			assert.True(t, errors.Is(err, common.ErrAccessDenied))
		})
	}
}

func TestChatService_ListModerators(t *testing.T) {
	f := newFixture(t)
	mods := []repository.Moderator{{UserID: 20, Role: "moderator"}}

	f.repo.EXPECT().GetRoom(gomock.Any(), uint64(1)).Return(room(), nil)
	f.repo.EXPECT().GetAccount(gomock.Any(), uint64(10)).Return(account(), nil)
	f.repo.EXPECT().ListModerators(gomock.Any(), uint64(1)).Return(mods, nil)

	got, err := f.svc.ListModerators(context.Background(), alice, 1)
	require.NoError(t, err)
	assert.Equal(t, mods, got)
}

func TestChatService_Unmute_Validation(t *testing.T) {
	f := newFixture(t)

	err := f.svc.Unmute(context.Background(), alice, 0, 20)
	assert.True(t, errors.Is(err, &common.ChatError{Code: common.CodeValidation}))

	err = f.svc.Unmute(context.Background(), alice, 1, 0)
	assert.True(t, errors.Is(err, &common.ChatError{Code: common.CodeValidation}))
}

func TestChatService_SetRole(t *testing.T) {
	t.Run("admin promotes member", func(t *testing.T) {
		f := newFixture(t)
		f.repo.EXPECT().GetMembership(gomock.Any(), uint64(1), uint64(10)).Return(&dbmysql.Membership{Role: "admin"}, nil)
		f.repo.EXPECT().GetAccount(gomock.Any(), uint64(20)).Return(&dbmysql.Account{UserID: 20}, nil)
		f.repo.EXPECT().SetRole(gomock.Any(), uint64(1), uint64(20), common.RoleModerator).Return(nil)

		assert.NoError(t, f.svc.SetRole(context.Background(), alice, 1, 20, common.RoleModerator))
	})

	t.Run("moderator cannot assign roles", func(t *testing.T) {
		f := newFixture(t)
		f.repo.EXPECT().GetMembership(gomock.Any(), uint64(1), uint64(10)).Return(&dbmysql.Membership{Role: "moderator"}, nil)

		err := f.svc.SetRole(context.Background(), alice, 1, 20, common.RoleModerator)
		assert.True(t, errors.Is(err, common.ErrAccessDenied))
	})

	t.Run("cannot change own role", func(t *testing.T) {
		f := newFixture(t)
		err := f.svc.SetRole(context.Background(), alice, 1, 10, common.RoleMember)
		assert.True(t, errors.Is(err, common.ErrAccessDenied))
	})
}

func TestChatService_Mute(t *testing.T) {
	f := newFixture(t)

	f.repo.EXPECT().
		Mute(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, mute *dbmysql.Mute, authorize repository.MuteAuthorizer) error {
			assert.Equal(t, uint64(20), mute.UserID)
			assert.Equal(t, uint64(10), mute.MutedBy)
			assert.Equal(t, "flood", mute.Reason)
			require.Error(t, authorize(&dbmysql.Membership{Role: "member"}, &dbmysql.Membership{Role: "member"}))
			return authorize(&dbmysql.Membership{Role: "moderator"}, nil)
		})

	until, err := f.svc.Mute(context.Background(), alice, 1, 20, 10, " flood ")

	require.NoError(t, err)
	assert.Equal(t, epoch.Add(10*time.Minute), until)
}

func TestChatService_Mute_RejectsBadDuration(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.Mute(context.Background(), alice, 1, 20, 0, "")
	assert.True(t, errors.Is(err, &common.ChatError{Code: common.CodeValidation}))

	_, err = f.svc.Mute(context.Background(), alice, 1, 10, 5, "")
	assert.True(t, errors.Is(err, &common.ChatError{Code: common.CodeValidation}))
}

func TestChatService_TogglePin(t *testing.T) {
	t.Run("member is denied", func(t *testing.T) {
		f := newFixture(t)
		f.repo.EXPECT().GetMessage(gomock.Any(), uint64(5)).Return(&dbmysql.Message{ID: 5, RoomID: 1}, nil)
		f.repo.EXPECT().GetMembership(gomock.Any(), uint64(1), uint64(10)).Return(nil, nil)

		_, err := f.svc.TogglePin(context.Background(), alice, 5)
		assert.True(t, errors.Is(err, common.ErrAccessDenied))
	})

	t.Run("moderator pins", func(t *testing.T) {
		f := newFixture(t)
		f.repo.EXPECT().GetMessage(gomock.Any(), uint64(5)).Return(&dbmysql.Message{ID: 5, RoomID: 1}, nil)
		f.repo.EXPECT().GetMembership(gomock.Any(), uint64(1), uint64(10)).Return(&dbmysql.Membership{Role: "moderator"}, nil)
		f.repo.EXPECT().
			UpdateMessage(gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, msg *dbmysql.Message, fields map[string]interface{}) error {
				assert.Equal(t, true, fields["is_pinned"])
				return nil
			})

		msg, err := f.svc.TogglePin(context.Background(), alice, 5)
		require.NoError(t, err)
		assert.True(t, msg.IsPinned)
	})
}

func TestChatService_DeleteMessage(t *testing.T) {
	f := newFixture(t)
	f.repo.EXPECT().GetMessage(gomock.Any(), uint64(5)).Return(&dbmysql.Message{ID: 5, RoomID: 1, UserID: 10, IsPinned: true}, nil)
	f.repo.EXPECT().GetMembership(gomock.Any(), uint64(1), uint64(10)).Return(nil, nil)
	f.repo.EXPECT().
		UpdateMessage(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, _ *dbmysql.Message, fields map[string]interface{}) error {
			assert.Equal(t, true, fields["is_deleted"])
			assert.Equal(t, false, fields["is_pinned"])
			return nil
		})

	assert.NoError(t, f.svc.DeleteMessage(context.Background(), alice, 5))
}

func TestChatService_Report(t *testing.T) {
	f := newFixture(t)

	assert.Error(t, f.svc.Report(context.Background(), alice, 5, "  "))

	f.repo.EXPECT().GetMessage(gomock.Any(), uint64(5)).Return(&dbmysql.Message{ID: 5, RoomID: 1, UserID: 11}, nil)
	f.repo.EXPECT().
		CreateReport(gomock.Any(), &dbmysql.Report{RoomID: 1, MessageID: 5, ReporterID: 10, Reason: "spam"}).
		Return(nil)

	assert.NoError(t, f.svc.Report(context.Background(), alice, 5, "spam"))
}

func TestChatService_CanSubscribe(t *testing.T) {
	t.Run("joins on first subscribe", func(t *testing.T) {
		f := newFixture(t)
		f.repo.EXPECT().GetRoom(gomock.Any(), uint64(1)).Return(room(), nil)
		f.repo.EXPECT().GetAccount(gomock.Any(), uint64(10)).Return(account(), nil)
		f.repo.EXPECT().EnsureMembership(gomock.Any(), uint64(1), uint64(10)).Return(&dbmysql.Membership{Role: "member"}, nil)

		acc, err := f.svc.CanSubscribe(context.Background(), alice, 1)
		require.NoError(t, err)
		assert.Equal(t, "Alice", acc.Name())
	})

	t.Run("banned member", func(t *testing.T) {
		f := newFixture(t)
		f.repo.EXPECT().GetRoom(gomock.Any(), uint64(1)).Return(room(), nil)
		f.repo.EXPECT().GetAccount(gomock.Any(), uint64(10)).Return(account(), nil)
		f.repo.EXPECT().EnsureMembership(gomock.Any(), uint64(1), uint64(10)).Return(&dbmysql.Membership{IsBanned: true}, nil)

		_, err := f.svc.CanSubscribe(context.Background(), alice, 1)
		assert.True(t, errors.Is(err, common.ErrBanned))
	})

	t.Run("inactive room", func(t *testing.T) {
		f := newFixture(t)
		inactive := room()
		inactive.IsActive = false
		f.repo.EXPECT().GetRoom(gomock.Any(), uint64(1)).Return(inactive, nil)

		_, err := f.svc.CanSubscribe(context.Background(), alice, 1)
		assert.True(t, errors.Is(err, common.ErrRoomInactive))
	})
}

func TestRoleCache_Invalidate(t *testing.T) {
	c := newRoleCache(2, time.Minute)
	c.put(1, 1, roleEntry{role: common.RoleMember})
	c.put(1, 2, roleEntry{role: common.RoleAdmin})
	c.put(1, 3, roleEntry{role: common.RoleModerator})

	assert.Equal(t, 2, c.len())
	_, ok := c.get(1, 1)
	assert.False(t, ok, "oldest entry evicted at capacity")

	c.invalidate(1, 2)
	_, ok = c.get(1, 2)
	assert.False(t, ok)
}
