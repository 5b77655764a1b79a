package model

import "time"

type Conversation struct {
	ID        uint64    `gorm:"primaryKey;autoIncrement" json:"id"`
	RequestID uint64    `gorm:"column:request_id;index:idx_request_host,unique" json:"requestId"`
	GuestUID  string    `gorm:"column:guest_uid;size:128;index" json:"guestUid"`
	HostUID   string    `gorm:"column:host_uid;size:128;index:idx_request_host,unique" json:"hostUid"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updatedAt"`
}

func (Conversation) TableName() string {
	return "conversations"
}
