package model

import (
	"time"
)

// CalendarCredential stores one calendar OAuth grant per user.
type CalendarCredential struct {
	UserId       string     `gorm:"type:varchar(128);primaryKey"`
	AccessToken  string     `gorm:"type:text;not null"`
	RefreshToken string     `gorm:"type:text"`
	Expiry       *time.Time `gorm:"index"`
	CreatedAt    time.Time  `gorm:"autoCreateTime"`
	UpdatedAt    time.Time  `gorm:"autoUpdateTime"`
}

func (CalendarCredential) TableName() string {
	return "calendar_credentials"
}
