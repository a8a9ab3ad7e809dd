package models

import "time"

type PregnancySymptom struct {
	Name     string    `json:"name"`
	Severity int       `json:"severity"`
	Notes    string    `json:"notes,omitempty"`
	LoggedAt time.Time `json:"loggedAt"`
}

type PregnancyAppointment struct {
	Title    string    `json:"title"`
	Location string    `json:"location,omitempty"`
	At       time.Time `json:"at"`
	Notes    string    `json:"notes,omitempty"`
}

type WeightEntry struct {
	Kilograms float64   `json:"kilograms"`
	LoggedAt  time.Time `json:"loggedAt"`
}

type KickCount struct {
	Count     int           `json:"count"`
	StartedAt time.Time     `json:"startedAt"`
	Duration  time.Duration `json:"duration"`
}

type ChecklistItem struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	Done  bool   `json:"done"`
}

type Memory struct {
	Title    string    `json:"title"`
	Body     string    `json:"body,omitempty"`
	PhotoURL string    `json:"photoUrl,omitempty"`
	TakenAt  time.Time `json:"takenAt"`
}

// PregnancyData is one aggregate: the nested lists are read and written with it.
type PregnancyData struct {
	ID                  string                 `gorm:"primaryKey" json:"id"`
	UserID              string                 `gorm:"not null;uniqueIndex" json:"userId"`
	DueDate             *time.Time             `json:"dueDate,omitempty"`
	LastMenstrualPeriod *time.Time             `json:"lastMenstrualPeriod,omitempty"`
	Symptoms            []PregnancySymptom     `gorm:"serializer:json" json:"symptoms"`
	Appointments        []PregnancyAppointment `gorm:"serializer:json" json:"appointments"`
	WeightEntries       []WeightEntry          `gorm:"serializer:json" json:"weightEntries"`
	KickCounts          []KickCount            `gorm:"serializer:json" json:"kickCounts"`
	Checklist           []ChecklistItem        `gorm:"serializer:json" json:"checklist"`
	Memories            []Memory               `gorm:"serializer:json" json:"memories"`
	UpdatedAt           time.Time              `json:"updatedAt"`
}

func (PregnancyData) TableName() string {
	return "pregnancies"
}
