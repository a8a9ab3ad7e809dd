package services

import (
	"errors"
	"sort"
	"time"

	"github.com/terraincognita07/femcare/internal/models"
)

type CycleState string

const (
	CycleStateNoData    CycleState = "no-data"
	CycleStateOngoing   CycleState = "ongoing"
	CycleStateCompleted CycleState = "completed"
)

var ErrPeriodEndBeforeStart = errors.New("period end date before period start")

// DeriveCycleState never fails: absent dates are valid input. The relative order of
// start and end is not checked here, see ValidateCycleRange.
func DeriveCycleState(lastPeriodStart *time.Time, periodEndDate *time.Time) CycleState {
	if lastPeriodStart == nil {
		return CycleStateNoData
	}
	if periodEndDate == nil {
		return CycleStateOngoing
	}
	return CycleStateCompleted
}

func ValidateCycleRange(lastPeriodStart *time.Time, periodEndDate *time.Time) error {
	if lastPeriodStart == nil || periodEndDate == nil {
		return nil
	}
	if dateOnly(*periodEndDate).Before(dateOnly(*lastPeriodStart)) {
		return ErrPeriodEndBeforeStart
	}
	return nil
}

func IsValidCycleLength(value int) bool {
	return value >= 15 && value <= 90
}

// PredictionCycleLength is the median of the last six plausible lengths, or the
// default cycle length when there is no history.
func PredictionCycleLength(history []int) int {
	plausible := make([]int, 0, len(history))
	for _, length := range history {
		if IsValidCycleLength(length) {
			plausible = append(plausible, length)
		}
	}
	recent := tailInts(plausible, 6)
	if len(recent) == 0 {
		return models.DefaultCycleLength
	}
	return medianInt(recent)
}

func PredictNextCycleStart(lastPeriodStart *time.Time, history []int, location *time.Location) time.Time {
	if lastPeriodStart == nil {
		return time.Time{}
	}
	start := DateAtLocation(*lastPeriodStart, location)
	return start.AddDate(0, 0, PredictionCycleLength(history))
}

type CycleStatus struct {
	State              CycleState `json:"state"`
	LastPeriodStart    *time.Time `json:"lastPeriodStart,omitempty"`
	PeriodEndDate      *time.Time `json:"periodEndDate,omitempty"`
	CycleDay           int        `json:"cycleDay"`
	PredictedCycleDays int        `json:"predictedCycleDays"`
	AverageCycleLength float64    `json:"averageCycleLength"`
	NextCycleStart     time.Time  `json:"nextCycleStart"`
	DaysUntilNextCycle int        `json:"daysUntilNextCycle"`
	RangeOutOfOrder    bool       `json:"rangeOutOfOrder"`
}

func BuildCycleStatus(record models.CycleRecord, now time.Time, location *time.Location) CycleStatus {
	status := CycleStatus{
		State:           DeriveCycleState(record.LastPeriodStart, record.PeriodEndDate),
		LastPeriodStart: record.LastPeriodStart,
		PeriodEndDate:   record.PeriodEndDate,
	}
	status.RangeOutOfOrder = errors.Is(ValidateCycleRange(record.LastPeriodStart, record.PeriodEndDate), ErrPeriodEndBeforeStart)
	if status.State == CycleStateNoData {
		return status
	}

	status.PredictedCycleDays = PredictionCycleLength(record.CycleLengthHistory)
	status.AverageCycleLength = averageInts(tailInts(record.CycleLengthHistory, 6))
	status.NextCycleStart = PredictNextCycleStart(record.LastPeriodStart, record.CycleLengthHistory, location)

	today := DateAtLocation(now, location)
	start := DateAtLocation(*record.LastPeriodStart, location)
	if !today.Before(start) {
		status.CycleDay = daysBetween(start, today) + 1
	}
	status.DaysUntilNextCycle = daysBetween(today, status.NextCycleStart)
	return status
}

func tailInts(values []int, n int) []int {
	if len(values) <= n {
		return values
	}
	return values[len(values)-n:]
}

func averageInts(values []int) float64 {
	if len(values) == 0 {
		return 0
	}
	var total int
	for _, value := range values {
		total += value
	}
	return float64(total) / float64(len(values))
}

func medianInt(values []int) int {
	if len(values) == 0 {
		return 0
	}

	sorted := make([]int, 0, len(values))
	sorted = append(sorted, values...)
	sort.Ints(sorted)

	mid := len(sorted) / 2
	if len(sorted)%2 == 1 {
		return sorted[mid]
	}

	left := sorted[mid-1]
	right := sorted[mid]
	return int(float64(left+right)/2 + 0.5)
}
