package models

import "time"

const (
	ReminderKindMedication  = "medication"
	ReminderKindAppointment = "appointment"
)

const (
	ReminderStatusActive    = "active"
	ReminderStatusCompleted = "completed"
	ReminderStatusCancelled = "cancelled"
)

const (
	RecurrenceDaily   = "daily"
	RecurrenceWeekly  = "weekly"
	RecurrenceMonthly = "monthly"
)

type RecurrenceRule struct {
	Frequency string   `json:"frequency"`
	Times     []string `json:"times,omitempty"`
	Days      []int    `json:"days,omitempty"`
}

type Reminder struct {
	ID         string            `gorm:"primaryKey" json:"id"`
	UserID     string            `gorm:"not null;index" json:"userId"`
	Kind       string            `gorm:"not null" json:"kind"`
	Title      string            `gorm:"not null" json:"title"`
	Date       time.Time         `gorm:"type:date;not null" json:"date"`
	Time       string            `gorm:"not null" json:"time"`
	Recurrence *RecurrenceRule   `gorm:"serializer:json" json:"recurrence,omitempty"`
	Status     string            `gorm:"not null;default:active;index" json:"status"`
	Metadata   map[string]string `gorm:"serializer:json" json:"metadata,omitempty"`
	NotifiedAt *time.Time        `json:"notifiedAt,omitempty"`
	CreatedAt  time.Time         `json:"createdAt"`
	UpdatedAt  time.Time         `json:"updatedAt"`
}

func (reminder Reminder) IsRecurring() bool {
	return reminder.Recurrence != nil && reminder.Recurrence.Frequency != ""
}
