package repository

import (
	"context"
	"time"

	"github.com/spacehub/spacehub-backend/internal/model"
	"gorm.io/gorm"
)

type QuoteRepository interface {
	Create(ctx context.Context, q *model.Quote) error
	FindByID(ctx context.Context, id uint64) (*model.Quote, error)
	ListByRequest(ctx context.Context, requestID uint64) ([]model.Quote, error)
	ListByHost(ctx context.Context, hostUID string) ([]model.Quote, error)
	MarkReadIfUnread(ctx context.Context, id uint64) (int64, error)
	SetDB(db *gorm.DB)
}

type quoteRepository struct {
	db *gorm.DB
}

func NewQuoteRepository(db *gorm.DB) QuoteRepository {
	return &quoteRepository{db: db}
}

func (r *quoteRepository) Create(ctx context.Context, q *model.Quote) error {
	if r.db == nil {
		return ErrDBNotReady
	}
	return r.db.WithContext(ctx).Create(q).Error
}

func (r *quoteRepository) FindByID(ctx context.Context, id uint64) (*model.Quote, error) {
	if r.db == nil {
		return nil, ErrDBNotReady
	}
	var q model.Quote
	if err := r.db.WithContext(ctx).Preload("Items").First(&q, id).Error; err != nil {
		return nil, err
	}
	return &q, nil
}

func (r *quoteRepository) ListByRequest(ctx context.Context, requestID uint64) ([]model.Quote, error) {
	if r.db == nil {
		return nil, ErrDBNotReady
	}
	var list []model.Quote
	if err := r.db.WithContext(ctx).
		Preload("Items").
		Where("request_id = ?", requestID).
		Order("id DESC").
		Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

func (r *quoteRepository) ListByHost(ctx context.Context, hostUID string) ([]model.Quote, error) {
	if r.db == nil {
		return nil, ErrDBNotReady
	}
	var list []model.Quote
	if err := r.db.WithContext(ctx).
		Preload("Items").
		Where("host_uid = ?", hostUID).
		Order("id DESC").
		Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

// MarkReadIfUnread flips unread to read exactly once; a quote already read is
// left untouched so the transition can never run backwards.
func (r *quoteRepository) MarkReadIfUnread(ctx context.Context, id uint64) (int64, error) {
	if r.db == nil {
		return 0, ErrDBNotReady
	}
	now := time.Now()
	res := r.db.WithContext(ctx).
		Model(&model.Quote{}).
		Where("id = ? AND status = ?", id, model.QuoteStatusUnread).
		Updates(map[string]interface{}{
			"status":  model.QuoteStatusRead,
			"read_at": now,
		})
	if res.Error != nil {
		return 0, res.Error
	}
	return res.RowsAffected, nil
}

func (r *quoteRepository) SetDB(db *gorm.DB) {
	r.db = db
}
