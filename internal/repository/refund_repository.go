package repository

import (
	"context"

	"github.com/spacehub/spacehub-backend/internal/model"
	"gorm.io/gorm"
)

type RefundRepository interface {
	Create(ctx context.Context, rf *model.Refund) error
	FindByID(ctx context.Context, id uint64) (*model.Refund, error)
	FindByPayment(ctx context.Context, paymentID uint64) (*model.Refund, error)
	Update(ctx context.Context, rf *model.Refund) error
	ListByUser(ctx context.Context, uid string) ([]model.Refund, error)
	SetDB(db *gorm.DB)
}

type refundRepository struct {
	db *gorm.DB
}

func NewRefundRepository(db *gorm.DB) RefundRepository {
	return &refundRepository{db: db}
}

func (r *refundRepository) Create(ctx context.Context, rf *model.Refund) error {
	if r.db == nil {
		return ErrDBNotReady
	}
	return r.db.WithContext(ctx).Create(rf).Error
}

func (r *refundRepository) FindByID(ctx context.Context, id uint64) (*model.Refund, error) {
	if r.db == nil {
		return nil, ErrDBNotReady
	}
	var rf model.Refund
	if err := r.db.WithContext(ctx).First(&rf, id).Error; err != nil {
		return nil, err
	}
	return &rf, nil
}

func (r *refundRepository) FindByPayment(ctx context.Context, paymentID uint64) (*model.Refund, error) {
	if r.db == nil {
		return nil, ErrDBNotReady
	}
	var rf model.Refund
	if err := r.db.WithContext(ctx).
		Where("payment_id = ?", paymentID).
		Order("id DESC").
		First(&rf).Error; err != nil {
		return nil, err
	}
	return &rf, nil
}

func (r *refundRepository) Update(ctx context.Context, rf *model.Refund) error {
	if r.db == nil {
		return ErrDBNotReady
	}
	return r.db.WithContext(ctx).Save(rf).Error
}

func (r *refundRepository) ListByUser(ctx context.Context, uid string) ([]model.Refund, error) {
	if r.db == nil {
		return nil, ErrDBNotReady
	}
	var list []model.Refund
	if err := r.db.WithContext(ctx).
		Where("guest_uid = ? OR host_uid = ?", uid, uid).
		Order("id DESC").
		Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

func (r *refundRepository) SetDB(db *gorm.DB) {
	r.db = db
}
