package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/spacehub/spacehub-backend/internal/model"
	"github.com/spacehub/spacehub-backend/internal/repository"
)

var ErrInsufficientBalance = errors.New("insufficient_balance")

type WalletService interface {
	Get(ctx context.Context, hostUID string) (*model.Wallet, error)
	Charge(ctx context.Context, hostUID string, amount int64, method *string, description string) (*model.CashHistoryEntry, error)
	Deduct(ctx context.Context, hostUID string, amount int64, description string) (*model.CashHistoryEntry, error)
	History(ctx context.Context, hostUID string, limit int) ([]model.CashHistoryEntry, error)
	GetAutoCharge(ctx context.Context, hostUID string) (*model.AutoChargeSetting, error)
	PutAutoCharge(ctx context.Context, hostUID string, enabled bool, threshold, chargeAmount int64, method string) (*model.AutoChargeSetting, error)
}

type walletService struct {
	repo   repository.WalletRepository
	notify NotificationService
}

func NewWalletService(repo repository.WalletRepository, notify NotificationService) WalletService {
	return &walletService{repo: repo, notify: notify}
}

func (s *walletService) Get(ctx context.Context, hostUID string) (*model.Wallet, error) {
	if hostUID == "" {
		return nil, errors.New("host is required")
	}
	return s.repo.Get(ctx, hostUID)
}

func (s *walletService) Charge(ctx context.Context, hostUID string, amount int64, method *string, description string) (*model.CashHistoryEntry, error) {
	if hostUID == "" {
		return nil, errors.New("host is required")
	}
	if amount <= 0 {
		return nil, errors.New("amount must be positive")
	}
	entry, err := s.repo.ChargeCash(ctx, hostUID, amount, method, strings.TrimSpace(description))
	if err != nil {
		return nil, err
	}
	s.notify.Notify(ctx, hostUID, model.NotificationTypeWalletCharged,
		"Cash charged",
		fmt.Sprintf("%d was added to your wallet.", amount),
		nil, nil, nil)
	return entry, nil
}

// Deduct tops the wallet up first when auto-charge is enabled and the
// deduction would leave the balance under the configured threshold.
func (s *walletService) Deduct(ctx context.Context, hostUID string, amount int64, description string) (*model.CashHistoryEntry, error) {
	if hostUID == "" {
		return nil, errors.New("host is required")
	}
	if amount <= 0 {
		return nil, errors.New("amount must be positive")
	}
	setting, err := s.repo.GetAutoCharge(ctx, hostUID)
	if err != nil {
		return nil, err
	}
	if setting.Enabled && setting.ChargeAmount > 0 {
		w, err := s.repo.Get(ctx, hostUID)
		if err != nil {
			return nil, err
		}
		if w.Cash-amount < setting.ThresholdAmount {
			method := setting.Method
			if _, err := s.Charge(ctx, hostUID, setting.ChargeAmount, &method, "auto charge"); err != nil {
				return nil, err
			}
		}
	}
	entry, err := s.repo.DeductCash(ctx, hostUID, amount, strings.TrimSpace(description))
	if err != nil {
		if errors.Is(err, repository.ErrInsufficientCash) {
			return nil, ErrInsufficientBalance
		}
		return nil, err
	}
	return entry, nil
}

func (s *walletService) History(ctx context.Context, hostUID string, limit int) ([]model.CashHistoryEntry, error) {
	if hostUID == "" {
		return nil, errors.New("host is required")
	}
	return s.repo.ListHistory(ctx, hostUID, limit)
}

func (s *walletService) GetAutoCharge(ctx context.Context, hostUID string) (*model.AutoChargeSetting, error) {
	if hostUID == "" {
		return nil, errors.New("host is required")
	}
	return s.repo.GetAutoCharge(ctx, hostUID)
}

func (s *walletService) PutAutoCharge(ctx context.Context, hostUID string, enabled bool, threshold, chargeAmount int64, method string) (*model.AutoChargeSetting, error) {
	if hostUID == "" {
		return nil, errors.New("host is required")
	}
	if threshold < 0 || chargeAmount < 0 {
		return nil, errors.New("amounts must not be negative")
	}
	if enabled && chargeAmount == 0 {
		return nil, errors.New("charge amount is required when enabled")
	}
	setting := &model.AutoChargeSetting{
		HostUID:         hostUID,
		Enabled:         enabled,
		ThresholdAmount: threshold,
		ChargeAmount:    chargeAmount,
		Method:          strings.TrimSpace(method),
	}
	if err := s.repo.SaveAutoCharge(ctx, setting); err != nil {
		return nil, err
	}
	return setting, nil
}
