package repository

import (
	"context"
	"errors"

	"github.com/spacehub/spacehub-backend/internal/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ErrInsufficientCash is returned by DeductCash when the guarded balance
// update matches no row, i.e. the wallet does not hold enough cash.
var ErrInsufficientCash = errors.New("insufficient cash")

type WalletRepository interface {
	Get(ctx context.Context, hostUID string) (*model.Wallet, error)
	ChargeCash(ctx context.Context, hostUID string, amount int64, method *string, description string) (*model.CashHistoryEntry, error)
	DeductCash(ctx context.Context, hostUID string, amount int64, description string) (*model.CashHistoryEntry, error)
	ListHistory(ctx context.Context, hostUID string, limit int) ([]model.CashHistoryEntry, error)
	GetAutoCharge(ctx context.Context, hostUID string) (*model.AutoChargeSetting, error)
	SaveAutoCharge(ctx context.Context, s *model.AutoChargeSetting) error
	SetDB(db *gorm.DB)
}

type walletRepository struct {
	db *gorm.DB
}

func NewWalletRepository(db *gorm.DB) WalletRepository {
	return &walletRepository{db: db}
}

func (r *walletRepository) Get(ctx context.Context, hostUID string) (*model.Wallet, error) {
	if r.db == nil {
		return nil, ErrDBNotReady
	}
	var w model.Wallet
	if err := r.db.WithContext(ctx).Where("host_uid = ?", hostUID).FirstOrCreate(&w, &model.Wallet{HostUID: hostUID}).Error; err != nil {
		return nil, err
	}
	return &w, nil
}

// ChargeCash applies the balance update and the ledger append in one
// transaction. The ledger entry carries the post-transaction balance.
func (r *walletRepository) ChargeCash(ctx context.Context, hostUID string, amount int64, method *string, description string) (*model.CashHistoryEntry, error) {
	if r.db == nil {
		return nil, ErrDBNotReady
	}
	var entry *model.CashHistoryEntry
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "host_uid"}},
			DoUpdates: clause.Assignments(map[string]interface{}{"cash": gorm.Expr("cash + ?", amount)}),
		}).Create(&model.Wallet{HostUID: hostUID, Cash: amount}).Error; err != nil {
			return err
		}
		var w model.Wallet
		if err := tx.Where("host_uid = ?", hostUID).First(&w).Error; err != nil {
			return err
		}
		e := model.CashHistoryEntry{
			HostUID:     hostUID,
			Type:        model.CashHistoryTypeCharge,
			Amount:      amount,
			Balance:     w.Cash,
			Method:      method,
			Description: description,
		}
		if err := tx.Create(&e).Error; err != nil {
			return err
		}
		entry = &e
		return nil
	})
	if err != nil {
		return nil, err
	}
	return entry, nil
}

// DeductCash fails closed: the guarded UPDATE only matches when the wallet
// holds at least the requested amount, and nothing is written otherwise.
func (r *walletRepository) DeductCash(ctx context.Context, hostUID string, amount int64, description string) (*model.CashHistoryEntry, error) {
	if r.db == nil {
		return nil, ErrDBNotReady
	}
	var entry *model.CashHistoryEntry
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&model.Wallet{}).
			Where("host_uid = ? AND cash >= ?", hostUID, amount).
			Update("cash", gorm.Expr("cash - ?", amount))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrInsufficientCash
		}
		var w model.Wallet
		if err := tx.Where("host_uid = ?", hostUID).First(&w).Error; err != nil {
			return err
		}
		e := model.CashHistoryEntry{
			HostUID:     hostUID,
			Type:        model.CashHistoryTypeUse,
			Amount:      -amount,
			Balance:     w.Cash,
			Description: description,
		}
		if err := tx.Create(&e).Error; err != nil {
			return err
		}
		entry = &e
		return nil
	})
	if err != nil {
		return nil, err
	}
	return entry, nil
}

func (r *walletRepository) ListHistory(ctx context.Context, hostUID string, limit int) ([]model.CashHistoryEntry, error) {
	if r.db == nil {
		return nil, ErrDBNotReady
	}
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	var list []model.CashHistoryEntry
	if err := r.db.WithContext(ctx).
		Where("host_uid = ?", hostUID).
		Order("id DESC").
		Limit(limit).
		Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

func (r *walletRepository) GetAutoCharge(ctx context.Context, hostUID string) (*model.AutoChargeSetting, error) {
	if r.db == nil {
		return nil, ErrDBNotReady
	}
	var s model.AutoChargeSetting
	if err := r.db.WithContext(ctx).Where("host_uid = ?", hostUID).FirstOrCreate(&s, &model.AutoChargeSetting{HostUID: hostUID}).Error; err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *walletRepository) SaveAutoCharge(ctx context.Context, s *model.AutoChargeSetting) error {
	if r.db == nil {
		return ErrDBNotReady
	}
	return r.db.WithContext(ctx).Save(s).Error
}

func (r *walletRepository) SetDB(db *gorm.DB) {
	r.db = db
}
