package services

import (
	"sort"
	"time"

	"github.com/terraincognita07/femcare/internal/models"
)

// ReminderSlotsOn lists the times a reminder fires on the calendar day of day.
func ReminderSlotsOn(reminder models.Reminder, day time.Time, location *time.Location) []time.Time {
	if reminder.Status != models.ReminderStatusActive {
		return nil
	}

	today := DateAtLocation(day, location)
	year, month, date := reminder.Date.Date()
	anchor := time.Date(year, month, date, 0, 0, 0, 0, location)
	if today.Before(anchor) {
		return nil
	}

	if !reminder.IsRecurring() {
		if !today.Equal(anchor) {
			return nil
		}
		return clockSlots(today, []string{reminder.Time})
	}

	rule := reminder.Recurrence
	switch rule.Frequency {
	case models.RecurrenceWeekly:
		days := rule.Days
		if len(days) == 0 {
			days = []int{int(anchor.Weekday())}
		}
		if !containsInt(days, int(today.Weekday())) {
			return nil
		}
	case models.RecurrenceMonthly:
		days := rule.Days
		if len(days) == 0 {
			days = []int{anchor.Day()}
		}
		if !containsInt(days, today.Day()) {
			return nil
		}
	}

	clocks := rule.Times
	if len(clocks) == 0 {
		clocks = []string{reminder.Time}
	}
	return clockSlots(today, clocks)
}

// DueReminderSlot returns the latest slot of today that has passed and was not
// notified yet.
func DueReminderSlot(reminder models.Reminder, now time.Time, location *time.Location) (time.Time, bool) {
	localNow := now.In(location)
	slots := ReminderSlotsOn(reminder, localNow, location)
	for index := len(slots) - 1; index >= 0; index-- {
		slot := slots[index]
		if slot.After(localNow) {
			continue
		}
		if reminder.NotifiedAt != nil && !reminder.NotifiedAt.Before(slot) {
			return time.Time{}, false
		}
		return slot, true
	}
	return time.Time{}, false
}

func clockSlots(day time.Time, clocks []string) []time.Time {
	slots := make([]time.Time, 0, len(clocks))
	for _, clock := range clocks {
		hour, minute, err := ParseReminderClock(clock)
		if err != nil {
			continue
		}
		slots = append(slots, time.Date(day.Year(), day.Month(), day.Day(), hour, minute, 0, 0, day.Location()))
	}
	sort.Slice(slots, func(i, j int) bool {
		return slots[i].Before(slots[j])
	})
	return slots
}

func containsInt(values []int, needle int) bool {
	for _, value := range values {
		if value == needle {
			return true
		}
	}
	return false
}
