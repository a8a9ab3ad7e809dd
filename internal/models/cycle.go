package models

import "time"

const (
	DefaultCycleLength  = 28
	DefaultPeriodLength = 5
)

// CycleRecord is the stored period state of one user. PeriodEndDate is nil while
// the current period is still ongoing.
type CycleRecord struct {
	UserID             string     `gorm:"primaryKey" json:"userId"`
	LastPeriodStart    *time.Time `json:"lastPeriodStart"`
	PeriodEndDate      *time.Time `json:"periodEndDate"`
	CycleLengthHistory []int      `gorm:"serializer:json" json:"cycleLengthHistory"`
	UpdatedAt          time.Time  `json:"updatedAt"`
}
