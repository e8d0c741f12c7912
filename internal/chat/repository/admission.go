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

// Admit runs gate and inserts msg plus its insert change row in a single
// transaction. The membership row is locked FOR UPDATE before the mute is
// read, so Mute on the same member serializes with admission.
func (r *chatRepo) Admit(ctx context.Context, msg *dbmysql.Message, now time.Time, gate GateFunc) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var snap Snapshot
		var err error

		if snap.Room, err = findRoom(tx, msg.RoomID); err != nil {
			return err
		}
		if snap.Account, err = findAccount(tx, msg.UserID); err != nil {
			return err
		}

		if snap.Room != nil && snap.Account != nil {
			if snap.Membership, err = lockMembership(tx, msg.RoomID, msg.UserID); err != nil {
				return err
			}
			if snap.ActiveMute, err = findActiveMute(tx.Clauses(clause.Locking{Strength: "SHARE"}), msg.RoomID, msg.UserID, now); err != nil {
				return err
			}
		}

		if err := gate(snap); err != nil {
			return err
		}

		if err := tx.Create(msg).Error; err != nil {
			return fmt.Errorf("failed to insert message: %w", err)
		}
		return writeChange(tx, msg, common.ChangeInsert)
	})
}

// lockMembership creates the (room, user) row when missing and returns it
// locked for the rest of the transaction.
func lockMembership(tx *gorm.DB, roomID, userID uint64) (*dbmysql.Membership, error) {
	seed := &dbmysql.Membership{RoomID: roomID, UserID: userID, Role: string(common.RoleMember)}
	if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(seed).Error; err != nil {
		return nil, fmt.Errorf("failed to ensure membership: %w", err)
	}

	var m dbmysql.Membership
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("room_id = ? AND user_id = ?", roomID, userID).
		Take(&m).Error
	if err != nil {
		return nil, fmt.Errorf("failed to lock membership: %w", err)
	}
	return &m, nil
}

func findActiveMute(db *gorm.DB, roomID, userID uint64, now time.Time) (*dbmysql.Mute, error) {
	var mute dbmysql.Mute
	err := db.Where("room_id = ? AND user_id = ? AND expires_at > ?", roomID, userID, now).
		Order("expires_at DESC").
		Take(&mute).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get mute: %w", err)
	}
	return &mute, nil
}
