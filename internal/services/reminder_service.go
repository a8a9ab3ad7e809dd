package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/terraincognita07/femcare/internal/models"
)

const MaxReminderTitleLength = 200

var (
	ErrInvalidReminderKind       = errors.New("invalid reminder kind")
	ErrInvalidReminderTitle      = errors.New("invalid reminder title")
	ErrInvalidReminderDate       = errors.New("invalid reminder date")
	ErrInvalidReminderRecurrence = errors.New("invalid reminder recurrence")
	ErrReminderNotActive         = errors.New("reminder is not active")
	ErrReminderNotOwned          = errors.New("reminder belongs to another user")
)

type ReminderRepository interface {
	CreateReminder(ctx context.Context, reminder *models.Reminder) error
	FindReminder(ctx context.Context, reminderID string) (models.Reminder, error)
	ListReminders(ctx context.Context, userID string, status string) ([]models.Reminder, error)
	ListActiveReminders(ctx context.Context) ([]models.Reminder, error)
	UpdateReminderStatus(ctx context.Context, reminderID string, status string) error
	MarkReminderNotified(ctx context.Context, reminderID string, at time.Time) error
}

type ReminderInput struct {
	UserID     string
	Kind       string
	Title      string
	Date       time.Time
	Time       string
	Recurrence *models.RecurrenceRule
	Metadata   map[string]string
}

type ReminderService struct {
	reminders ReminderRepository
	location  *time.Location
}

func NewReminderService(reminders ReminderRepository, location *time.Location) *ReminderService {
	if location == nil {
		location = time.UTC
	}
	return &ReminderService{reminders: reminders, location: location}
}

func NormalizeReminderInput(input ReminderInput) (ReminderInput, error) {
	input.Kind = strings.ToLower(strings.TrimSpace(input.Kind))
	switch input.Kind {
	case models.ReminderKindMedication, models.ReminderKindAppointment:
	default:
		return input, ErrInvalidReminderKind
	}

	input.Title = strings.TrimSpace(input.Title)
	if input.Title == "" || len(input.Title) > MaxReminderTitleLength {
		return input, ErrInvalidReminderTitle
	}
	if input.Date.IsZero() {
		return input, ErrInvalidReminderDate
	}

	input.Time = strings.TrimSpace(input.Time)
	if _, _, err := ParseReminderClock(input.Time); err != nil {
		return input, err
	}

	if input.Recurrence != nil {
		rule, err := normalizeRecurrence(*input.Recurrence)
		if err != nil {
			return input, err
		}
		input.Recurrence = &rule
	}
	return input, nil
}

func normalizeRecurrence(rule models.RecurrenceRule) (models.RecurrenceRule, error) {
	rule.Frequency = strings.ToLower(strings.TrimSpace(rule.Frequency))
	for index, clock := range rule.Times {
		clock = strings.TrimSpace(clock)
		if _, _, err := ParseReminderClock(clock); err != nil {
			return rule, fmt.Errorf("%w: %v", ErrInvalidReminderRecurrence, err)
		}
		rule.Times[index] = clock
	}

	switch rule.Frequency {
	case models.RecurrenceDaily:
		rule.Days = nil
	case models.RecurrenceWeekly:
		for _, day := range rule.Days {
			if day < 0 || day > 6 {
				return rule, ErrInvalidReminderRecurrence
			}
		}
	case models.RecurrenceMonthly:
		for _, day := range rule.Days {
			if day < 1 || day > 31 {
				return rule, ErrInvalidReminderRecurrence
			}
		}
	default:
		return rule, ErrInvalidReminderRecurrence
	}
	return rule, nil
}

func (service *ReminderService) Create(ctx context.Context, input ReminderInput) (models.Reminder, error) {
	normalized, err := NormalizeReminderInput(input)
	if err != nil {
		return models.Reminder{}, err
	}

	year, month, day := normalized.Date.Date()
	reminder := models.Reminder{
		UserID:     normalized.UserID,
		Kind:       normalized.Kind,
		Title:      normalized.Title,
		Date:       time.Date(year, month, day, 0, 0, 0, 0, time.UTC),
		Time:       normalized.Time,
		Recurrence: normalized.Recurrence,
		Status:     models.ReminderStatusActive,
		Metadata:   normalized.Metadata,
	}
	if err := service.reminders.CreateReminder(ctx, &reminder); err != nil {
		return models.Reminder{}, fmt.Errorf("create reminder: %w", err)
	}
	return reminder, nil
}

func (service *ReminderService) List(ctx context.Context, userID string, status string) ([]models.Reminder, error) {
	return service.reminders.ListReminders(ctx, userID, strings.TrimSpace(status))
}

func (service *ReminderService) Complete(ctx context.Context, userID string, reminderID string) error {
	return service.transition(ctx, userID, reminderID, models.ReminderStatusCompleted)
}

func (service *ReminderService) Cancel(ctx context.Context, userID string, reminderID string) error {
	return service.transition(ctx, userID, reminderID, models.ReminderStatusCancelled)
}

// transition only moves active reminders; reminders are never deleted.
func (service *ReminderService) transition(ctx context.Context, userID string, reminderID string, status string) error {
	reminder, err := service.reminders.FindReminder(ctx, reminderID)
	if err != nil {
		return err
	}
	if reminder.UserID != userID {
		return ErrReminderNotOwned
	}
	if reminder.Status != models.ReminderStatusActive {
		return ErrReminderNotActive
	}
	return service.reminders.UpdateReminderStatus(ctx, reminderID, status)
}

func (service *ReminderService) Label(reminder models.Reminder, now time.Time) (string, error) {
	return FormatReminderLabel(reminder.Date, reminder.Time, now.In(service.location))
}
