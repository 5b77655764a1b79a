package repository

import (
	"context"
	"errors"

	"github.com/spacehub/spacehub-backend/internal/model"
	"gorm.io/gorm"
)

var ErrDBNotReady = errors.New("database not initialized")

type RequestRepository interface {
	Create(ctx context.Context, req *model.SpaceRequest) error
	FindByID(ctx context.Context, id uint64) (*model.SpaceRequest, error)
	ListByGuest(ctx context.Context, guestUID string) ([]model.SpaceRequest, error)
	ListOpen(ctx context.Context, limit, offset int) ([]model.SpaceRequest, int64, error)
	Update(ctx context.Context, req *model.SpaceRequest) error
	MarkQuoted(ctx context.Context, id uint64) error
	Delete(ctx context.Context, id uint64) (int64, error)
	SetDB(db *gorm.DB)
}

type requestRepository struct {
	db *gorm.DB
}

func NewRequestRepository(db *gorm.DB) RequestRepository {
	return &requestRepository{db: db}
}

func (r *requestRepository) Create(ctx context.Context, req *model.SpaceRequest) error {
	if r.db == nil {
		return ErrDBNotReady
	}
	return r.db.WithContext(ctx).Create(req).Error
}

func (r *requestRepository) FindByID(ctx context.Context, id uint64) (*model.SpaceRequest, error) {
	if r.db == nil {
		return nil, ErrDBNotReady
	}
	var req model.SpaceRequest
	if err := r.db.WithContext(ctx).First(&req, id).Error; err != nil {
		return nil, err
	}
	return &req, nil
}

func (r *requestRepository) ListByGuest(ctx context.Context, guestUID string) ([]model.SpaceRequest, error) {
	if r.db == nil {
		return nil, ErrDBNotReady
	}
	var list []model.SpaceRequest
	if err := r.db.WithContext(ctx).
		Where("guest_uid = ?", guestUID).
		Order("id DESC").
		Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

func (r *requestRepository) ListOpen(ctx context.Context, limit, offset int) ([]model.SpaceRequest, int64, error) {
	if r.db == nil {
		return nil, 0, ErrDBNotReady
	}
	var (
		list  []model.SpaceRequest
		total int64
	)
	q := r.db.WithContext(ctx).Model(&model.SpaceRequest{}).Where("status = ?", model.RequestStatusPending)
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	if err := q.Order("created_at DESC").Limit(limit).Offset(offset).Find(&list).Error; err != nil {
		return nil, 0, err
	}
	return list, total, nil
}

func (r *requestRepository) Update(ctx context.Context, req *model.SpaceRequest) error {
	if r.db == nil {
		return ErrDBNotReady
	}
	return r.db.WithContext(ctx).Save(req).Error
}

func (r *requestRepository) MarkQuoted(ctx context.Context, id uint64) error {
	if r.db == nil {
		return ErrDBNotReady
	}
	return r.db.WithContext(ctx).
		Model(&model.SpaceRequest{}).
		Where("id = ? AND status = ?", id, model.RequestStatusPending).
		Update("status", model.RequestStatusQuoted).Error
}

func (r *requestRepository) Delete(ctx context.Context, id uint64) (int64, error) {
	if r.db == nil {
		return 0, ErrDBNotReady
	}
	res := r.db.WithContext(ctx).Delete(&model.SpaceRequest{}, id)
	if res.Error != nil {
		return 0, res.Error
	}
	return res.RowsAffected, nil
}

func (r *requestRepository) SetDB(db *gorm.DB) {
	r.db = db
}
