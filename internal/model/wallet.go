package model

import "time"

type Wallet struct {
	HostUID   string    `gorm:"column:host_uid;primaryKey;size:128"`
	Cash      int64     `gorm:"column:cash;not null;default:0"`
	Point     int64     `gorm:"column:point;not null;default:0"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

func (Wallet) TableName() string {
	return "wallets"
}

type CashHistoryType string

const (
	CashHistoryTypeCharge CashHistoryType = "charge"
	CashHistoryTypeUse    CashHistoryType = "use"
)

// CashHistoryEntry is an append-only ledger row. Amount is signed (positive
// for charges, negative for uses) and Balance is the cash balance after the
// transaction was applied.
type CashHistoryEntry struct {
	ID          uint64          `gorm:"primaryKey;autoIncrement"`
	HostUID     string          `gorm:"column:host_uid;size:128;index;not null"`
	Type        CashHistoryType `gorm:"column:type;size:16;not null"`
	Amount      int64           `gorm:"column:amount;not null"`
	Balance     int64           `gorm:"column:balance;not null"`
	Method      *string         `gorm:"column:method;size:64"`
	Description string          `gorm:"column:description;size:255"`
	CreatedAt   time.Time       `gorm:"autoCreateTime"`
}

func (CashHistoryEntry) TableName() string {
	return "cash_history"
}

type AutoChargeSetting struct {
	HostUID         string    `gorm:"column:host_uid;primaryKey;size:128"`
	Enabled         bool      `gorm:"column:enabled;not null;default:false"`
	ThresholdAmount int64     `gorm:"column:threshold_amount;not null;default:0"`
	ChargeAmount    int64     `gorm:"column:charge_amount;not null;default:0"`
	Method          string    `gorm:"column:method;size:64"`
	UpdatedAt       time.Time `gorm:"autoUpdateTime"`
}

func (AutoChargeSetting) TableName() string {
	return "auto_charge_settings"
}
