package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/terraincognita07/femcare/internal/models"
	"github.com/terraincognita07/femcare/internal/security"
)

const pregnancyLengthDays = 280

var (
	ErrPregnancyLoadFailed   = errors.New("load pregnancy failed")
	ErrPregnancySaveFailed   = errors.New("save pregnancy failed")
	ErrInvalidPregnancyEntry = errors.New("invalid pregnancy entry")
	ErrChecklistItemNotFound = errors.New("checklist item not found")
)

// PregnancyRepository reads and writes the whole aggregate. Save replaces the
// stored document: the last write wins.
type PregnancyRepository interface {
	LoadPregnancy(ctx context.Context, userID string) (models.PregnancyData, error)
	SavePregnancy(ctx context.Context, data *models.PregnancyData) error
}

// PregnancyState distinguishes "no record created yet" from a loaded aggregate.
type PregnancyState struct {
	Data   models.PregnancyData `json:"data"`
	Exists bool                 `json:"exists"`
}

type PregnancyService struct {
	pregnancies PregnancyRepository
	location    *time.Location
	newID       func() (string, error)
}

func NewPregnancyService(pregnancies PregnancyRepository, location *time.Location) *PregnancyService {
	if location == nil {
		location = time.UTC
	}
	return &PregnancyService{
		pregnancies: pregnancies,
		location:    location,
		newID:       security.NewDocumentID,
	}
}

func (service *PregnancyService) Load(ctx context.Context, userID string) (PregnancyState, error) {
	data, err := service.pregnancies.LoadPregnancy(ctx, userID)
	if errors.Is(err, ErrNotFound) {
		return PregnancyState{Data: emptyPregnancy(userID)}, nil
	}
	if err != nil {
		return PregnancyState{}, fmt.Errorf("%w: %v", ErrPregnancyLoadFailed, err)
	}
	return PregnancyState{Data: data, Exists: true}, nil
}

// Setup records the last menstrual period and derives the due date when none is given.
func (service *PregnancyService) Setup(ctx context.Context, userID string, lastMenstrualPeriod time.Time, dueDate *time.Time) (models.PregnancyData, error) {
	if lastMenstrualPeriod.IsZero() {
		return models.PregnancyData{}, ErrInvalidPregnancyEntry
	}
	return service.mutate(ctx, userID, func(data *models.PregnancyData) error {
		lmp := DateAtLocation(lastMenstrualPeriod, service.location)
		due := EstimatedDueDate(lmp)
		if dueDate != nil {
			due = DateAtLocation(*dueDate, service.location)
		}
		data.LastMenstrualPeriod = &lmp
		data.DueDate = &due
		return nil
	})
}

func (service *PregnancyService) AddSymptom(ctx context.Context, userID string, symptom models.PregnancySymptom) (models.PregnancyData, error) {
	symptom.Name = strings.TrimSpace(symptom.Name)
	if symptom.Name == "" || symptom.Severity < 0 || symptom.Severity > 5 {
		return models.PregnancyData{}, ErrInvalidPregnancyEntry
	}
	return service.mutate(ctx, userID, func(data *models.PregnancyData) error {
		data.Symptoms = append(data.Symptoms, symptom)
		return nil
	})
}

func (service *PregnancyService) AddAppointment(ctx context.Context, userID string, appointment models.PregnancyAppointment) (models.PregnancyData, error) {
	appointment.Title = strings.TrimSpace(appointment.Title)
	if appointment.Title == "" || appointment.At.IsZero() {
		return models.PregnancyData{}, ErrInvalidPregnancyEntry
	}
	return service.mutate(ctx, userID, func(data *models.PregnancyData) error {
		data.Appointments = append(data.Appointments, appointment)
		return nil
	})
}

func (service *PregnancyService) AddWeightEntry(ctx context.Context, userID string, entry models.WeightEntry) (models.PregnancyData, error) {
	if entry.Kilograms <= 0 || entry.Kilograms > 500 {
		return models.PregnancyData{}, ErrInvalidPregnancyEntry
	}
	return service.mutate(ctx, userID, func(data *models.PregnancyData) error {
		data.WeightEntries = append(data.WeightEntries, entry)
		return nil
	})
}

func (service *PregnancyService) AddKickCount(ctx context.Context, userID string, kicks models.KickCount) (models.PregnancyData, error) {
	if kicks.Count < 0 || kicks.Duration < 0 {
		return models.PregnancyData{}, ErrInvalidPregnancyEntry
	}
	return service.mutate(ctx, userID, func(data *models.PregnancyData) error {
		data.KickCounts = append(data.KickCounts, kicks)
		return nil
	})
}

func (service *PregnancyService) AddChecklistItem(ctx context.Context, userID string, title string) (models.PregnancyData, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return models.PregnancyData{}, ErrInvalidPregnancyEntry
	}
	id, err := service.newID()
	if err != nil {
		return models.PregnancyData{}, fmt.Errorf("generate checklist id: %w", err)
	}
	return service.mutate(ctx, userID, func(data *models.PregnancyData) error {
		data.Checklist = append(data.Checklist, models.ChecklistItem{ID: id, Title: title})
		return nil
	})
}

func (service *PregnancyService) ToggleChecklistItem(ctx context.Context, userID string, itemID string) (models.PregnancyData, error) {
	return service.mutate(ctx, userID, func(data *models.PregnancyData) error {
		for index := range data.Checklist {
			if data.Checklist[index].ID == itemID {
				data.Checklist[index].Done = !data.Checklist[index].Done
				return nil
			}
		}
		return ErrChecklistItemNotFound
	})
}

func (service *PregnancyService) AddMemory(ctx context.Context, userID string, memory models.Memory) (models.PregnancyData, error) {
	memory.Title = strings.TrimSpace(memory.Title)
	if memory.Title == "" {
		return models.PregnancyData{}, ErrInvalidPregnancyEntry
	}
	return service.mutate(ctx, userID, func(data *models.PregnancyData) error {
		data.Memories = append(data.Memories, memory)
		return nil
	})
}

// mutate loads the aggregate, applies change client-side and writes it back whole.
func (service *PregnancyService) mutate(ctx context.Context, userID string, change func(data *models.PregnancyData) error) (models.PregnancyData, error) {
	state, err := service.Load(ctx, userID)
	if err != nil {
		return models.PregnancyData{}, err
	}

	data := state.Data
	if err := change(&data); err != nil {
		return models.PregnancyData{}, err
	}
	if err := service.pregnancies.SavePregnancy(ctx, &data); err != nil {
		return models.PregnancyData{}, fmt.Errorf("%w: %v", ErrPregnancySaveFailed, err)
	}
	return data, nil
}

func EstimatedDueDate(lastMenstrualPeriod time.Time) time.Time {
	return dateOnly(lastMenstrualPeriod).AddDate(0, 0, pregnancyLengthDays)
}

// GestationalAge returns completed weeks and remaining days since the last menstrual period.
func GestationalAge(lastMenstrualPeriod time.Time, now time.Time) (int, int) {
	days := daysBetween(lastMenstrualPeriod, now)
	if days < 0 {
		return 0, 0
	}
	return days / 7, days % 7
}

func emptyPregnancy(userID string) models.PregnancyData {
	return models.PregnancyData{
		UserID:        userID,
		Symptoms:      []models.PregnancySymptom{},
		Appointments:  []models.PregnancyAppointment{},
		WeightEntries: []models.WeightEntry{},
		KickCounts:    []models.KickCount{},
		Checklist:     []models.ChecklistItem{},
		Memories:      []models.Memory{},
	}
}
