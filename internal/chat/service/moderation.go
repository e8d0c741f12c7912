package service

import (
	"context"
	"strings"
	"time"

	"communitychat/internal/chat/moderation"
	"communitychat/internal/chat/repository"
	"communitychat/internal/common"
	"communitychat/internal/dbmysql"
)

const (
	maxMuteMinutes  = 30 * 24 * 60
	maxReasonLength = 500
)

func roleOf(m *dbmysql.Membership) common.Role {
	if m == nil {
		return common.RoleMember
	}
	return common.Role(m.Role)
}

// GetRole is served from the role cache; IsMuted is recomputed on every read
// so a cached mute stops applying the moment it expires. Entries are only
// cached after the room passed the scope check for that user.
func (s *chatService) GetRole(ctx context.Context, actor common.Actor, roomID uint64) (*RoleStatus, error) {
	if err := requireActor(actor); err != nil {
		return nil, err
	}
	if err := common.ValidateRoomID(roomID); err != nil {
		return nil, err
	}

	entry, ok := s.roles.get(roomID, actor.UserID)
	if !ok {
		if _, _, err := s.visibleRoom(ctx, actor, roomID); err != nil {
			return nil, err
		}
		membership, err := s.repo.GetMembership(ctx, roomID, actor.UserID)
		if err != nil {
			return nil, err
		}
		mute, err := s.repo.ActiveMute(ctx, roomID, actor.UserID, s.now())
		if err != nil {
			return nil, err
		}

		entry = roleEntry{role: roleOf(membership)}
		if mute != nil {
			until := mute.ExpiresAt
			entry.mutedUntil = &until
		}
		s.roles.put(roomID, actor.UserID, entry)
	}

	status := &RoleStatus{Role: entry.role}
	if entry.mutedUntil != nil && entry.mutedUntil.After(s.now()) {
		status.IsMuted = true
		status.MutedUntil = entry.mutedUntil
	}
	return status, nil
}

func (s *chatService) actorRole(ctx context.Context, actor common.Actor, roomID uint64) (common.Role, error) {
	m, err := s.repo.GetMembership(ctx, roomID, actor.UserID)
	if err != nil {
		return "", err
	}
	return roleOf(m), nil
}

func (s *chatService) ListModerators(ctx context.Context, actor common.Actor, roomID uint64) ([]repository.Moderator, error) {
	if _, _, err := s.visibleRoom(ctx, actor, roomID); err != nil {
		return nil, err
	}
	return s.repo.ListModerators(ctx, roomID)
}

func (s *chatService) SetRole(ctx context.Context, actor common.Actor, roomID, targetUserID uint64, role common.Role) error {
	if err := requireActor(actor); err != nil {
		return err
	}
	if err := common.ValidateRoomID(roomID); err != nil {
		return err
	}
	if targetUserID == 0 {
		return common.Validation("target user is required")
	}
	if targetUserID == actor.UserID {
		return common.AccessDenied("you cannot change your own role")
	}

	actorRole, err := s.actorRole(ctx, actor, roomID)
	if err != nil {
		return err
	}
	if err := moderation.CanAssignRole(actorRole, role); err != nil {
		return err
	}
	if _, err := s.repo.GetAccount(ctx, targetUserID); err != nil {
		return err
	}

	if err := s.repo.SetRole(ctx, roomID, targetUserID, role); err != nil {
		return err
	}
	s.roles.invalidate(roomID, targetUserID)
	s.logger.Info("[CHAT] role changed", "room_id", roomID, "user_id", targetUserID, "role", role, "by", actor.UserID)
	return nil
}

// Mute returns the expiry of the new mute.
func (s *chatService) Mute(ctx context.Context, actor common.Actor, roomID, targetUserID uint64, minutes int, reason string) (time.Time, error) {
	if err := requireActor(actor); err != nil {
		return time.Time{}, err
	}
	if err := common.ValidateRoomID(roomID); err != nil {
		return time.Time{}, err
	}
	if targetUserID == 0 || targetUserID == actor.UserID {
		return time.Time{}, common.Validation("invalid mute target")
	}
	if minutes <= 0 || minutes > maxMuteMinutes {
		return time.Time{}, common.Validation("mute duration must be between 1 and %d minutes", maxMuteMinutes)
	}
	reason = strings.TrimSpace(reason)
	if len(reason) > 255 {
		reason = reason[:255]
	}

	expiresAt := s.now().Add(time.Duration(minutes) * time.Minute)
	mute := &dbmysql.Mute{
		RoomID:    roomID,
		UserID:    targetUserID,
		ExpiresAt: expiresAt,
		Reason:    reason,
		MutedBy:   actor.UserID,
	}
	err := s.repo.Mute(ctx, mute, func(actorM, targetM *dbmysql.Membership) error {
		return moderation.CanMute(roleOf(actorM), roleOf(targetM))
	})
	if err != nil {
		return time.Time{}, err
	}

	s.roles.invalidate(roomID, targetUserID)
	s.logger.Info("[CHAT] member muted", "room_id", roomID, "user_id", targetUserID, "until", expiresAt, "by", actor.UserID)
	return expiresAt, nil
}

func (s *chatService) Unmute(ctx context.Context, actor common.Actor, roomID, targetUserID uint64) error {
	if err := requireActor(actor); err != nil {
		return err
	}
	if err := common.ValidateRoomID(roomID); err != nil {
		return err
	}
	if targetUserID == 0 {
		return common.Validation("target user is required")
	}
	actorRole, err := s.actorRole(ctx, actor, roomID)
	if err != nil {
		return err
	}
	if !moderation.CanModerate(actorRole) {
		return common.AccessDenied("only moderators can unmute members")
	}

	if _, err := s.repo.Unmute(ctx, roomID, targetUserID, s.now()); err != nil {
		return err
	}
	s.roles.invalidate(roomID, targetUserID)
	return nil
}

func (s *chatService) TogglePin(ctx context.Context, actor common.Actor, messageID uint64) (*dbmysql.Message, error) {
	if err := requireActor(actor); err != nil {
		return nil, err
	}
	msg, err := s.repo.GetMessage(ctx, messageID)
	if err != nil {
		return nil, err
	}
	if msg.IsDeleted {
		return nil, &common.ChatError{Code: common.CodeNotFound, Message: "message not found"}
	}

	role, err := s.actorRole(ctx, actor, msg.RoomID)
	if err != nil {
		return nil, err
	}
	if !moderation.CanModerate(role) {
		return nil, common.AccessDenied("only moderators can pin messages")
	}

	pinned := !msg.IsPinned
	if err := s.repo.UpdateMessage(ctx, msg, map[string]interface{}{
		"is_pinned":  pinned,
		"updated_at": s.now(),
	}); err != nil {
		return nil, err
	}
	msg.IsPinned = pinned
	return msg, nil
}

// DeleteMessage is a soft delete; the change feed tells clients to drop it.
func (s *chatService) DeleteMessage(ctx context.Context, actor common.Actor, messageID uint64) error {
	if err := requireActor(actor); err != nil {
		return err
	}
	msg, err := s.repo.GetMessage(ctx, messageID)
	if err != nil {
		return err
	}
	if msg.IsDeleted {
		return nil
	}

	role, err := s.actorRole(ctx, actor, msg.RoomID)
	if err != nil {
		return err
	}
	if err := moderation.CanDelete(actor.UserID, role, msg); err != nil {
		return err
	}

	return s.repo.UpdateMessage(ctx, msg, map[string]interface{}{
		"is_deleted": true,
		"is_pinned":  false,
		"updated_at": s.now(),
	})
}

func (s *chatService) Report(ctx context.Context, actor common.Actor, messageID uint64, reason string) error {
	if err := requireActor(actor); err != nil {
		return err
	}
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return common.Validation("report reason is required")
	}
	if len(reason) > maxReasonLength {
		return common.Validation("report reason is too long")
	}

	msg, err := s.repo.GetMessage(ctx, messageID)
	if err != nil {
		return err
	}
	if msg.IsDeleted {
		return &common.ChatError{Code: common.CodeNotFound, Message: "message not found"}
	}
	if msg.UserID == actor.UserID {
		return common.Validation("you cannot report your own message")
	}

	return s.repo.CreateReport(ctx, &dbmysql.Report{
		RoomID:     msg.RoomID,
		MessageID:  msg.ID,
		ReporterID: actor.UserID,
		Reason:     reason,
	})
}
