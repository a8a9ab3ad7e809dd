package models

import "time"

const (
	SupportStatusOpen       = "open"
	SupportStatusInProgress = "in-progress"
	SupportStatusClosed     = "closed"
)

type SupportRequest struct {
	ID          string    `gorm:"primaryKey" json:"id"`
	UserID      string    `gorm:"not null;index" json:"userId"`
	Title       string    `gorm:"not null" json:"title"`
	Description string    `gorm:"not null;default:''" json:"description"`
	Latitude    float64   `gorm:"not null;default:0" json:"latitude"`
	Longitude   float64   `gorm:"not null;default:0" json:"longitude"`
	SupportType string    `gorm:"not null;index" json:"supportType"`
	Anonymous   bool      `gorm:"not null;default:false" json:"anonymous"`
	Status      string    `gorm:"not null;default:open;index" json:"status"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// Message belongs to exactly one SupportRequest. Only Read changes after creation.
type Message struct {
	ID         string    `gorm:"primaryKey" json:"id"`
	RequestID  string    `gorm:"not null;index" json:"requestId"`
	SenderID   string    `gorm:"not null;index" json:"senderId"`
	ReceiverID string    `gorm:"not null;index" json:"receiverId"`
	Content    string    `gorm:"not null" json:"content"`
	Read       bool      `gorm:"not null;default:false" json:"read"`
	CreatedAt  time.Time `gorm:"not null;index" json:"createdAt"`
}

// ChatPreview is derived from the messages of one request as seen by one user.
type ChatPreview struct {
	RequestID     string    `json:"requestId"`
	CounterpartID string    `json:"counterpartId"`
	LastMessage   string    `json:"lastMessage"`
	LastMessageAt time.Time `json:"lastMessageAt"`
	UnreadCount   int       `json:"unreadCount"`
}
