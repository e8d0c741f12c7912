// Package verification confirms subscriber phone numbers with one-time
// SMS codes.
package verification

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"communitychat/internal/common"
	"communitychat/internal/dbmysql"
)

type Repository interface {
	Create(ctx context.Context, v *dbmysql.PhoneVerification) error
	// Latest returns the newest pending code for the user and phone, or nil.
	Latest(ctx context.Context, userID uint64, phone string) (*dbmysql.PhoneVerification, error)
	// Confirm stores the verified phone on the account and drops every
	// pending code of the user.
	Confirm(ctx context.Context, userID uint64, phone string, at time.Time) error
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, v *dbmysql.PhoneVerification) error {
	if err := r.db.WithContext(ctx).Create(v).Error; err != nil {
		return fmt.Errorf("failed to store verification code: %w", err)
	}
	return nil
}

func (r *repository) Latest(ctx context.Context, userID uint64, phone string) (*dbmysql.PhoneVerification, error) {
	var v dbmysql.PhoneVerification
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND phone = ?", userID, phone).
		Order("id DESC").
		First(&v).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load verification code: %w", err)
	}
	return &v, nil
}

func (r *repository) Confirm(ctx context.Context, userID uint64, phone string, at time.Time) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&dbmysql.Account{}).
			Where("user_id = ?", userID).
			Updates(map[string]interface{}{"phone": phone, "phone_verified_at": at})
		if res.Error != nil {
			return fmt.Errorf("failed to mark phone verified: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return common.ErrAccountNotFound
		}

		if err := tx.Where("user_id = ?", userID).Delete(&dbmysql.PhoneVerification{}).Error; err != nil {
			return fmt.Errorf("failed to clear verification codes: %w", err)
		}
		return nil
	})
}
