package model

import "time"

type RequestStatus string

const (
	RequestStatusPending RequestStatus = "pending"
	RequestStatusQuoted  RequestStatus = "quoted"
)

type SpaceRequest struct {
	ID                uint64        `gorm:"primaryKey;autoIncrement"`
	GuestUID          string        `gorm:"column:guest_uid;size:128;index;not null"`
	OriginalQuery     string        `gorm:"column:original_query;type:text"`
	SpaceType         string        `gorm:"column:space_type;size:64"`
	Purpose           string        `gorm:"column:purpose;size:255"`
	Capacity          int           `gorm:"column:capacity"`
	Equipment         []string      `gorm:"column:equipment;serializer:json"`
	Catering          bool          `gorm:"column:catering"`
	Parking           bool          `gorm:"column:parking"`
	AdditionalRequest string        `gorm:"column:additional_request;type:text"`
	Date              string        `gorm:"column:date;size:32"`
	Location          string        `gorm:"column:location;size:255"`
	TimeSlot          string        `gorm:"column:time_slot;size:64"`
	Category          string        `gorm:"column:category;size:64"`
	Status            RequestStatus `gorm:"column:status;size:32;not null"`
	CreatedAt         time.Time     `gorm:"autoCreateTime"`
	UpdatedAt         time.Time     `gorm:"autoUpdateTime"`
}

func (SpaceRequest) TableName() string {
	return "space_requests"
}
