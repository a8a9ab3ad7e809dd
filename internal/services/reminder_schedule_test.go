package services

import (
	"testing"
	"time"

	"github.com/terraincognita07/femcare/internal/models"
)

func TestReminderSlotsOnOneOff(t *testing.T) {
	reminder := models.Reminder{
		Date:   mustParseDay("2024-03-12"),
		Time:   "09:00",
		Status: models.ReminderStatusActive,
	}

	if slots := ReminderSlotsOn(reminder, mustParseDay("2024-03-12"), time.UTC); len(slots) != 1 || slots[0].Hour() != 9 {
		t.Fatalf("expected one 09:00 slot, got %v", slots)
	}
	if slots := ReminderSlotsOn(reminder, mustParseDay("2024-03-13"), time.UTC); len(slots) != 0 {
		t.Fatalf("expected no slots on other days, got %v", slots)
	}
}

func TestReminderSlotsOnInactiveReminder(t *testing.T) {
	reminder := models.Reminder{
		Date:   mustParseDay("2024-03-12"),
		Time:   "09:00",
		Status: models.ReminderStatusCompleted,
	}
	if slots := ReminderSlotsOn(reminder, mustParseDay("2024-03-12"), time.UTC); len(slots) != 0 {
		t.Fatalf("expected no slots for completed reminder, got %v", slots)
	}
}

func TestReminderSlotsOnRecurring(t *testing.T) {
	tests := []struct {
		name string
		rule models.RecurrenceRule
		day  string
		want int
	}{
		{name: "daily sorted times", rule: models.RecurrenceRule{Frequency: models.RecurrenceDaily, Times: []string{"20:00", "08:00"}}, day: "2024-03-20", want: 2},
		{name: "before anchor", rule: models.RecurrenceRule{Frequency: models.RecurrenceDaily}, day: "2024-03-11", want: 0},
		{name: "weekly default anchor weekday", rule: models.RecurrenceRule{Frequency: models.RecurrenceWeekly}, day: "2024-03-19", want: 1},
		{name: "weekly other weekday", rule: models.RecurrenceRule{Frequency: models.RecurrenceWeekly}, day: "2024-03-20", want: 0},
		{name: "weekly explicit days", rule: models.RecurrenceRule{Frequency: models.RecurrenceWeekly, Days: []int{3}}, day: "2024-03-20", want: 1},
		{name: "monthly anchor day", rule: models.RecurrenceRule{Frequency: models.RecurrenceMonthly}, day: "2024-04-12", want: 1},
		{name: "monthly other day", rule: models.RecurrenceRule{Frequency: models.RecurrenceMonthly}, day: "2024-04-13", want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rule := tt.rule
			reminder := models.Reminder{
				Date:       mustParseDay("2024-03-12"),
				Time:       "09:00",
				Status:     models.ReminderStatusActive,
				Recurrence: &rule,
			}
			slots := ReminderSlotsOn(reminder, mustParseDay(tt.day), time.UTC)
			if len(slots) != tt.want {
				t.Fatalf("expected %d slots, got %v", tt.want, slots)
			}
			for index := 1; index < len(slots); index++ {
				if slots[index].Before(slots[index-1]) {
					t.Fatalf("expected sorted slots, got %v", slots)
				}
			}
		})
	}
}

func TestDueReminderSlotHonorsNotifiedAt(t *testing.T) {
	reminder := models.Reminder{
		Date:       mustParseDay("2024-03-12"),
		Time:       "09:00",
		Status:     models.ReminderStatusActive,
		Recurrence: &models.RecurrenceRule{Frequency: models.RecurrenceDaily, Times: []string{"08:00", "20:00"}},
	}

	now := time.Date(2024, 3, 13, 8, 10, 0, 0, time.UTC)
	slot, due := DueReminderSlot(reminder, now, time.UTC)
	if !due || slot.Hour() != 8 {
		t.Fatalf("expected 08:00 slot due, got %v %v", slot, due)
	}

	notifiedAt := now
	reminder.NotifiedAt = &notifiedAt
	if _, due := DueReminderSlot(reminder, now.Add(time.Hour), time.UTC); due {
		t.Fatal("expected slot to be consumed after notification")
	}

	slot, due = DueReminderSlot(reminder, time.Date(2024, 3, 13, 20, 5, 0, 0, time.UTC), time.UTC)
	if !due || slot.Hour() != 20 {
		t.Fatalf("expected 20:00 slot due, got %v %v", slot, due)
	}
}
