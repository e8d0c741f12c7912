package repository

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"communitychat/internal/dbmysql"
)

// ChangeRepository reads and prunes the message outbox.
type ChangeRepository interface {
	LatestChangeID(ctx context.Context) (uint64, error)
	ChangesAfter(ctx context.Context, afterID uint64, limit int) ([]*dbmysql.MessageChange, error)
	MessagesByIDs(ctx context.Context, ids []uint64) ([]*dbmysql.Message, error)
	AccountsByIDs(ctx context.Context, userIDs []uint64) (map[uint64]*dbmysql.Account, error)
	PurgeChangesBefore(ctx context.Context, cutoff time.Time) (int64, error)
	PurgeExpiredMutes(ctx context.Context, now time.Time) (int64, error)
}

type changeRepo struct {
	db *gorm.DB
}

func NewChangeRepository(db *gorm.DB) ChangeRepository {
	return &changeRepo{db: db}
}

func (r *changeRepo) LatestChangeID(ctx context.Context) (uint64, error) {
	var id uint64
	err := r.db.WithContext(ctx).Model(&dbmysql.MessageChange{}).
		Select("COALESCE(MAX(id), 0)").
		Scan(&id).Error
	if err != nil {
		return 0, fmt.Errorf("failed to read change cursor: %w", err)
	}
	return id, nil
}

func (r *changeRepo) ChangesAfter(ctx context.Context, afterID uint64, limit int) ([]*dbmysql.MessageChange, error) {
	var changes []*dbmysql.MessageChange
	err := r.db.WithContext(ctx).
		Where("id > ?", afterID).
		Order("id ASC").
		Limit(limit).
		Find(&changes).Error
	if err != nil {
		return nil, fmt.Errorf("failed to read changes: %w", err)
	}
	return changes, nil
}

func (r *changeRepo) MessagesByIDs(ctx context.Context, ids []uint64) ([]*dbmysql.Message, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var messages []*dbmysql.Message
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&messages).Error; err != nil {
		return nil, fmt.Errorf("failed to load changed messages: %w", err)
	}
	return messages, nil
}

func (r *changeRepo) AccountsByIDs(ctx context.Context, userIDs []uint64) (map[uint64]*dbmysql.Account, error) {
	return accountsByIDs(r.db.WithContext(ctx), userIDs)
}

func (r *changeRepo) PurgeChangesBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	res := r.db.WithContext(ctx).Where("created_at < ?", cutoff).Delete(&dbmysql.MessageChange{})
	if res.Error != nil {
		return 0, fmt.Errorf("failed to purge changes: %w", res.Error)
	}
	return res.RowsAffected, nil
}

func (r *changeRepo) PurgeExpiredMutes(ctx context.Context, now time.Time) (int64, error) {
	res := r.db.WithContext(ctx).Where("expires_at <= ?", now).Delete(&dbmysql.Mute{})
	if res.Error != nil {
		return 0, fmt.Errorf("failed to purge mutes: %w", res.Error)
	}
	return res.RowsAffected, nil
}
