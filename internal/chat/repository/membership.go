package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"communitychat/internal/common"
	"communitychat/internal/dbmysql"
)

func (r *chatRepo) GetMembership(ctx context.Context, roomID, userID uint64) (*dbmysql.Membership, error) {
	var m dbmysql.Membership
	err := r.db.WithContext(ctx).Where("room_id = ? AND user_id = ?", roomID, userID).Take(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get membership: %w", err)
	}
	return &m, nil
}

// EnsureMembership joins the user to the room as a member if they have no row yet.
func (r *chatRepo) EnsureMembership(ctx context.Context, roomID, userID uint64) (*dbmysql.Membership, error) {
	db := r.db.WithContext(ctx)
	seed := &dbmysql.Membership{RoomID: roomID, UserID: userID, Role: string(common.RoleMember)}
	if err := db.Clauses(clause.OnConflict{DoNothing: true}).Create(seed).Error; err != nil {
		return nil, fmt.Errorf("failed to ensure membership: %w", err)
	}
	return r.GetMembership(ctx, roomID, userID)
}

func (r *chatRepo) ActiveMute(ctx context.Context, roomID, userID uint64, now time.Time) (*dbmysql.Mute, error) {
	return findActiveMute(r.db.WithContext(ctx), roomID, userID, now)
}

func (r *chatRepo) ListModerators(ctx context.Context, roomID uint64) ([]Moderator, error) {
	var mods []Moderator
	err := r.db.WithContext(ctx).
		Table("chat_memberships AS m").
		Select("m.user_id, a.display_name, a.handle, a.avatar_url, m.role").
		Joins("JOIN accounts AS a ON a.user_id = m.user_id").
		Where("m.room_id = ? AND m.role IN ?", roomID, []string{string(common.RoleModerator), string(common.RoleAdmin)}).
		Order("m.role ASC, m.user_id ASC").
		Scan(&mods).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list moderators: %w", err)
	}
	return mods, nil
}

func (r *chatRepo) SetRole(ctx context.Context, roomID, userID uint64, role common.Role) error {
	m := &dbmysql.Membership{RoomID: roomID, UserID: userID, Role: string(role)}
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoUpdates: clause.AssignmentColumns([]string{"role", "updated_at"})}).
		Create(m).Error
	if err != nil {
		return fmt.Errorf("failed to set role: %w", err)
	}
	return nil
}

// Mute takes the same membership lock as Admit before inserting the mute row.
func (r *chatRepo) Mute(ctx context.Context, mute *dbmysql.Mute, authorize MuteAuthorizer) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		target, err := lockMembership(tx, mute.RoomID, mute.UserID)
		if err != nil {
			return err
		}

		var actor dbmysql.Membership
		var actorPtr *dbmysql.Membership
		err = tx.Where("room_id = ? AND user_id = ?", mute.RoomID, mute.MutedBy).Take(&actor).Error
		switch {
		case err == nil:
			actorPtr = &actor
		case !errors.Is(err, gorm.ErrRecordNotFound):
			return fmt.Errorf("failed to get actor membership: %w", err)
		}

		if err := authorize(actorPtr, target); err != nil {
			return err
		}

		if err := tx.Create(mute).Error; err != nil {
			return fmt.Errorf("failed to create mute: %w", err)
		}
		return nil
	})
}

func (r *chatRepo) Unmute(ctx context.Context, roomID, userID uint64, now time.Time) (int64, error) {
	res := r.db.WithContext(ctx).
		Where("room_id = ? AND user_id = ? AND expires_at > ?", roomID, userID, now).
		Delete(&dbmysql.Mute{})
	if res.Error != nil {
		return 0, fmt.Errorf("failed to unmute: %w", res.Error)
	}
	return res.RowsAffected, nil
}
