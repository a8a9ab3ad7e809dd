package models

import "time"

type User struct {
	ID          string    `gorm:"primaryKey" json:"id"`
	DisplayName string    `gorm:"not null;default:''" json:"displayName"`
	DeviceToken string    `gorm:"not null;default:''" json:"deviceToken,omitempty"`
	Language    string    `gorm:"not null;default:en" json:"language"`
	CreatedAt   time.Time `gorm:"not null" json:"createdAt"`
}
