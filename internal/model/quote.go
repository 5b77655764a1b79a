package model

import "time"

type QuoteStatus string

const (
	QuoteStatusUnread QuoteStatus = "unread"
	QuoteStatusRead   QuoteStatus = "read"
)

type Quote struct {
	ID                uint64      `gorm:"primaryKey;autoIncrement"`
	RequestID         uint64      `gorm:"column:request_id;index;not null"`
	GuestUID          string      `gorm:"column:guest_uid;size:128;index;not null"`
	HostUID           string      `gorm:"column:host_uid;size:128;index;not null"`
	SpaceName         string      `gorm:"column:space_name;size:255;not null"`
	Price             int64       `gorm:"column:price;not null"`
	Description       string      `gorm:"column:description;type:text"`
	EstimatedDuration string      `gorm:"column:estimated_duration;size:64"`
	PhotoURL          *string     `gorm:"column:photo_url;size:512"`
	Status            QuoteStatus `gorm:"column:status;size:32;not null"`
	Items             []QuoteItem `gorm:"foreignKey:QuoteID"`
	ReadAt            *time.Time  `gorm:"column:read_at"`
	CreatedAt         time.Time   `gorm:"autoCreateTime"`
	UpdatedAt         time.Time   `gorm:"autoUpdateTime"`
}

func (Quote) TableName() string {
	return "quotes"
}

type QuoteItem struct {
	ID      uint64 `gorm:"primaryKey;autoIncrement"`
	QuoteID uint64 `gorm:"column:quote_id;index;not null"`
	Name    string `gorm:"column:name;size:255;not null"`
	Price   int64  `gorm:"column:price;not null"`
}

func (QuoteItem) TableName() string {
	return "quote_items"
}
