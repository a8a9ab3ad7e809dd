package services

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"time"
)

var ErrInvalidReminderTime = errors.New("invalid reminder time")

var reminderClockPattern = regexp.MustCompile(`^(\d{1,2}):(\d{2})$`)

// ReminderLabels localizes the day part of a reminder label. Without ShortMonths
// other dates use the "Jan 2" layout.
type ReminderLabels struct {
	Today       string
	Tomorrow    string
	ShortMonths [12]string
	DayFirst    bool
}

var DefaultReminderLabels = ReminderLabels{Today: "Today", Tomorrow: "Tomorrow"}

// ParseReminderClock parses a 24-hour "HH:MM" string into hour and minute.
func ParseReminderClock(clock string) (int, int, error) {
	matches := reminderClockPattern.FindStringSubmatch(clock)
	if len(matches) != 3 {
		return 0, 0, fmt.Errorf("%w: %q", ErrInvalidReminderTime, clock)
	}
	hour, err := strconv.Atoi(matches[1])
	if err != nil || hour > 23 {
		return 0, 0, fmt.Errorf("%w: %q", ErrInvalidReminderTime, clock)
	}
	minute, err := strconv.Atoi(matches[2])
	if err != nil || minute > 59 {
		return 0, 0, fmt.Errorf("%w: %q", ErrInvalidReminderTime, clock)
	}
	return hour, minute, nil
}

// FormatReminderLabel renders "Today, 9:05 AM", "Tomorrow, 9:05 AM" or
// "Mar 14, 9:05 AM". The date is a calendar date: its own year, month and day are
// compared with the calendar day of now.
func FormatReminderLabel(date time.Time, clock string, now time.Time) (string, error) {
	return FormatReminderLabelWith(DefaultReminderLabels, date, clock, now)
}

func FormatReminderLabelWith(labels ReminderLabels, date time.Time, clock string, now time.Time) (string, error) {
	hour, minute, err := ParseReminderClock(clock)
	if err != nil {
		return "", err
	}

	year, month, day := date.Date()
	calendarDay := time.Date(year, month, day, 0, 0, 0, 0, now.Location())
	today := dateOnly(now)

	var dayLabel string
	switch {
	case calendarDay.Equal(today):
		dayLabel = labels.Today
	case calendarDay.Equal(today.AddDate(0, 0, 1)):
		dayLabel = labels.Tomorrow
	default:
		dayLabel = labels.monthDay(calendarDay)
	}

	at := time.Date(year, month, day, hour, minute, 0, 0, now.Location())
	return dayLabel + ", " + at.Format("3:04 PM"), nil
}

func (labels ReminderLabels) monthDay(date time.Time) string {
	monthName := labels.ShortMonths[date.Month()-1]
	if monthName == "" {
		return date.Format("Jan 2")
	}
	if labels.DayFirst {
		return fmt.Sprintf("%d %s", date.Day(), monthName)
	}
	return fmt.Sprintf("%s %d", monthName, date.Day())
}
