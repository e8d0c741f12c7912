package syncengine

import (
	"context"
	"time"

	"communitychat/internal/chat/api"
	"communitychat/internal/common"
)

func (e *Engine) openRoom(ctx context.Context) (uint64, error) {
	var id uint64
	if err := e.call(ctx, func() { id = e.roomID }); err != nil {
		return 0, err
	}
	if id == 0 {
		return 0, common.Validation("no room is open")
	}
	return id, nil
}

// LoadOlder fetches the page before the oldest loaded message.
func (e *Engine) LoadOlder(ctx context.Context) (int, error) {
	var roomID, first, gen uint64
	if err := e.call(ctx, func() {
		roomID, first, gen = e.roomID, e.messages.firstRealID(), e.gen
	}); err != nil {
		return 0, err
	}
	if roomID == 0 {
		return 0, common.Validation("no room is open")
	}

	resp, err := e.api.ListMessages(ctx, &api.ListMessagesRequest{RoomID: roomID, Before: first, Limit: e.cfg.PageSize})
	if err != nil {
		return 0, err
	}

	added := 0
	_ = e.call(context.Background(), func() {
		if e.gen != gen {
			return
		}
		added = e.messages.merge(convert(resp.Messages))
		e.hasMore = resp.HasMore
		e.notify()
	})
	return added, nil
}

func (e *Engine) TogglePin(ctx context.Context, messageID uint64) (*Message, error) {
	resp, err := e.api.TogglePin(ctx, &api.MessageRequest{MessageID: messageID})
	if err != nil {
		return nil, err
	}
	_ = e.call(context.Background(), func() { e.onChangeUpdate(resp.Message) })
	m := fromAPI(resp.Message, StatusSent)
	return &m, nil
}

func (e *Engine) Delete(ctx context.Context, messageID uint64) error {
	if err := e.api.DeleteMessage(ctx, &api.MessageRequest{MessageID: messageID}); err != nil {
		return err
	}
	return e.call(context.Background(), func() { e.removeMessage(messageID) })
}

func (e *Engine) Mute(ctx context.Context, userID uint64, minutes int, reason string) (time.Time, error) {
	roomID, err := e.openRoom(ctx)
	if err != nil {
		return time.Time{}, err
	}
	resp, err := e.api.Mute(ctx, &api.MuteRequest{RoomID: roomID, UserID: userID, Minutes: minutes, Reason: reason})
	if err != nil {
		return time.Time{}, err
	}
	return resp.ExpiresAt, nil
}

func (e *Engine) Unmute(ctx context.Context, userID uint64) error {
	roomID, err := e.openRoom(ctx)
	if err != nil {
		return err
	}
	return e.api.Unmute(ctx, &api.UnmuteRequest{RoomID: roomID, UserID: userID})
}

// SetRole changes a member's role and refreshes the moderator list.
func (e *Engine) SetRole(ctx context.Context, userID uint64, role common.Role) error {
	roomID, err := e.openRoom(ctx)
	if err != nil {
		return err
	}
	if err := e.api.SetRole(ctx, &api.SetRoleRequest{RoomID: roomID, UserID: userID, Role: string(role)}); err != nil {
		return err
	}

	mods, err := e.api.ListModerators(ctx, &api.ListModeratorsRequest{RoomID: roomID})
	if err != nil {
		e.logger.Warn("[SYNC] moderator refresh failed", "room_id", roomID, "err", err)
		return nil
	}
	return e.call(context.Background(), func() {
		if e.roomID == roomID {
			e.moderators = mods.Moderators
			e.notify()
		}
	})
}

func (e *Engine) Report(ctx context.Context, messageID uint64, reason string) error {
	return e.api.Report(ctx, &api.ReportRequest{MessageID: messageID, Reason: reason})
}

func (e *Engine) MarkRead(ctx context.Context) error {
	roomID, err := e.openRoom(ctx)
	if err != nil {
		return err
	}
	return e.api.MarkRead(ctx, &api.MarkReadRequest{RoomID: roomID})
}

// RefreshRole reloads the caller's role and mute status.
func (e *Engine) RefreshRole(ctx context.Context) (RoleStatus, error) {
	roomID, err := e.openRoom(ctx)
	if err != nil {
		return RoleStatus{}, err
	}
	resp, err := e.api.GetRole(ctx, &api.GetRoleRequest{RoomID: roomID})
	if err != nil {
		return RoleStatus{}, err
	}
	st := RoleStatus{Role: common.Role(resp.Role), IsMuted: resp.IsMuted, MutedUntil: resp.MutedUntil}
	_ = e.call(context.Background(), func() {
		if e.roomID == roomID {
			e.role = st
			e.notify()
		}
	})
	return st, nil
}
