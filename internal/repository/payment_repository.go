package repository

import (
	"context"

	"github.com/spacehub/spacehub-backend/internal/model"
	"gorm.io/gorm"
)

type PaymentRepository interface {
	Create(ctx context.Context, p *model.Payment) error
	FindByID(ctx context.Context, id uint64) (*model.Payment, error)
	FindActiveByQuote(ctx context.Context, quoteID uint64) (*model.Payment, error)
	Update(ctx context.Context, p *model.Payment) error
	ListByGuest(ctx context.Context, guestUID string) ([]model.Payment, error)
	ListByHost(ctx context.Context, hostUID string) ([]model.Payment, error)
	SetDB(db *gorm.DB)
}

type paymentRepository struct {
	db *gorm.DB
}

func NewPaymentRepository(db *gorm.DB) PaymentRepository {
	return &paymentRepository{db: db}
}

func (r *paymentRepository) Create(ctx context.Context, p *model.Payment) error {
	if r.db == nil {
		return ErrDBNotReady
	}
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *paymentRepository) FindByID(ctx context.Context, id uint64) (*model.Payment, error) {
	if r.db == nil {
		return nil, ErrDBNotReady
	}
	var p model.Payment
	if err := r.db.WithContext(ctx).First(&p, id).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

// FindActiveByQuote returns the newest non-canceled payment for the quote.
func (r *paymentRepository) FindActiveByQuote(ctx context.Context, quoteID uint64) (*model.Payment, error) {
	if r.db == nil {
		return nil, ErrDBNotReady
	}
	var p model.Payment
	if err := r.db.WithContext(ctx).
		Where("quote_id = ? AND status <> ?", quoteID, model.PaymentStatusCanceled).
		Order("id DESC").
		First(&p).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *paymentRepository) Update(ctx context.Context, p *model.Payment) error {
	if r.db == nil {
		return ErrDBNotReady
	}
	return r.db.WithContext(ctx).Save(p).Error
}

func (r *paymentRepository) ListByGuest(ctx context.Context, guestUID string) ([]model.Payment, error) {
	if r.db == nil {
		return nil, ErrDBNotReady
	}
	var list []model.Payment
	if err := r.db.WithContext(ctx).
		Where("guest_uid = ?", guestUID).
		Order("id DESC").
		Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

func (r *paymentRepository) ListByHost(ctx context.Context, hostUID string) ([]model.Payment, error) {
	if r.db == nil {
		return nil, ErrDBNotReady
	}
	var list []model.Payment
	if err := r.db.WithContext(ctx).
		Where("host_uid = ?", hostUID).
		Order("id DESC").
		Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

func (r *paymentRepository) SetDB(db *gorm.DB) {
	r.db = db
}
