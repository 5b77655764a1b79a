package model

import "time"

type RefundStatus string

const (
	RefundStatusRequested  RefundStatus = "requested"
	RefundStatusProcessing RefundStatus = "processing"
	RefundStatusCompleted  RefundStatus = "completed"
	RefundStatusRejected   RefundStatus = "rejected"
)

type Refund struct {
	ID             uint64       `gorm:"primaryKey;autoIncrement"`
	PaymentID      uint64       `gorm:"column:payment_id;index;not null"`
	GuestUID       string       `gorm:"column:guest_uid;size:128;index;not null"`
	HostUID        string       `gorm:"column:host_uid;size:128;index;not null"`
	OriginalAmount int64        `gorm:"column:original_amount;not null"`
	RefundAmount   *int64       `gorm:"column:refund_amount"`
	RefundReason   string       `gorm:"column:refund_reason;type:text"`
	Status         RefundStatus `gorm:"column:status;size:32;not null"`
	RequestedAt    time.Time    `gorm:"column:requested_at;autoCreateTime"`
	CompletedAt    *time.Time   `gorm:"column:completed_at"`
	UpdatedAt      time.Time    `gorm:"autoUpdateTime"`
}

func (Refund) TableName() string {
	return "refunds"
}
