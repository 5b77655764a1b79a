package model

import "time"

const (
	NotificationTypeQuoteReceived    = "quote_received"
	NotificationTypeQuoteRead        = "quote_read"
	NotificationTypePaymentCreated   = "payment_created"
	NotificationTypePaymentCompleted = "payment_completed"
	NotificationTypePaymentCanceled  = "payment_canceled"
	NotificationTypeRefundRequested  = "refund_requested"
	NotificationTypeRefundProcessing = "refund_processing"
	NotificationTypeRefundCompleted  = "refund_completed"
	NotificationTypeRefundRejected   = "refund_rejected"
	NotificationTypeMessageReceived  = "message_received"
	NotificationTypeWalletCharged    = "wallet_charged"
)

type Notification struct {
	ID        uint64     `gorm:"primaryKey;autoIncrement"`
	UserUID   string     `gorm:"column:user_uid;size:128;index;not null"`
	Type      string     `gorm:"column:type;size:64;not null"`
	Title     string     `gorm:"column:title;size:255"`
	Body      string     `gorm:"column:body;type:text"`
	Link      *string    `gorm:"column:link;size:255"`
	RequestID *uint64    `gorm:"column:request_id;index"`
	QuoteID   *uint64    `gorm:"column:quote_id;index"`
	PaymentID *uint64    `gorm:"column:payment_id;index"`
	ReadAt    *time.Time `gorm:"column:read_at"`
	CreatedAt time.Time  `gorm:"autoCreateTime"`
}

func (Notification) TableName() string {
	return "notifications"
}
