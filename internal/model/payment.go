package model

import "time"

type PaymentStatus string

const (
	PaymentStatusPending   PaymentStatus = "pending"
	PaymentStatusCompleted PaymentStatus = "completed"
	PaymentStatusCanceled  PaymentStatus = "canceled"
	PaymentStatusRefunded  PaymentStatus = "refunded"
)

type Payment struct {
	ID            uint64        `gorm:"primaryKey;autoIncrement"`
	RefCode       string        `gorm:"column:ref_code;size:36;uniqueIndex;not null"`
	QuoteID       uint64        `gorm:"column:quote_id;index;not null"`
	GuestUID      string        `gorm:"column:guest_uid;size:128;index;not null"`
	HostUID       string        `gorm:"column:host_uid;size:128;index;not null"`
	Amount        int64         `gorm:"column:amount;not null"`
	ServiceFee    int64         `gorm:"column:service_fee;not null"`
	TotalAmount   int64         `gorm:"column:total_amount;not null"`
	Status        PaymentStatus `gorm:"column:status;size:32;not null"`
	PaymentMethod string        `gorm:"column:payment_method;size:64"`
	PaidAt        *time.Time    `gorm:"column:paid_at"`
	CanceledAt    *time.Time    `gorm:"column:canceled_at"`
	RefundedAt    *time.Time    `gorm:"column:refunded_at"`
	CreatedAt     time.Time     `gorm:"autoCreateTime"`
	UpdatedAt     time.Time     `gorm:"autoUpdateTime"`
}

func (Payment) TableName() string {
	return "payments"
}
