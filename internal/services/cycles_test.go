package services

import (
	"errors"
	"testing"
	"time"

	"github.com/terraincognita07/femcare/internal/models"
)

func TestDeriveCycleState(t *testing.T) {
	start := mustParseDay("2025-03-01")
	end := mustParseDay("2025-03-05")
	before := mustParseDay("2025-02-20")

	tests := []struct {
		name  string
		start *time.Time
		end   *time.Time
		want  CycleState
	}{
		{name: "no data", start: nil, end: nil, want: CycleStateNoData},
		{name: "end without start", start: nil, end: &end, want: CycleStateNoData},
		{name: "ongoing", start: &start, end: nil, want: CycleStateOngoing},
		{name: "completed", start: &start, end: &end, want: CycleStateCompleted},
		{name: "end before start still completed", start: &start, end: &before, want: CycleStateCompleted},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DeriveCycleState(tt.start, tt.end); got != tt.want {
				t.Fatalf("DeriveCycleState() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestValidateCycleRange(t *testing.T) {
	start := mustParseDay("2025-03-01")
	sameDayEnd := mustParseDay("2025-03-01")
	before := mustParseDay("2025-02-27")

	if err := ValidateCycleRange(nil, &before); err != nil {
		t.Fatalf("expected nil error without start, got %v", err)
	}
	if err := ValidateCycleRange(&start, &sameDayEnd); err != nil {
		t.Fatalf("expected same-day end to be valid, got %v", err)
	}
	if err := ValidateCycleRange(&start, &before); !errors.Is(err, ErrPeriodEndBeforeStart) {
		t.Fatalf("expected ErrPeriodEndBeforeStart, got %v", err)
	}
}

func TestPredictionCycleLength(t *testing.T) {
	tests := []struct {
		name    string
		history []int
		want    int
	}{
		{name: "empty history uses default", history: nil, want: models.DefaultCycleLength},
		{name: "implausible values ignored", history: []int{3, 120}, want: models.DefaultCycleLength},
		{name: "odd median", history: []int{30, 26, 28}, want: 28},
		{name: "even median rounds up", history: []int{27, 28}, want: 28},
		{name: "only last six count", history: []int{60, 60, 60, 28, 28, 28, 29, 29, 29}, want: 29},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := PredictionCycleLength(tt.history); got != tt.want {
				t.Fatalf("PredictionCycleLength() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestBuildCycleStatusOngoing(t *testing.T) {
	start := mustParseDay("2025-03-01")
	record := models.CycleRecord{
		UserID:             "user-1",
		LastPeriodStart:    &start,
		CycleLengthHistory: []int{28, 30, 29},
	}

	status := BuildCycleStatus(record, mustParseDay("2025-03-05").Add(15*time.Hour), time.UTC)

	if status.State != CycleStateOngoing {
		t.Fatalf("expected ongoing state, got %q", status.State)
	}
	if status.CycleDay != 5 {
		t.Fatalf("expected cycle day 5, got %d", status.CycleDay)
	}
	if status.PredictedCycleDays != 29 {
		t.Fatalf("expected predicted length 29, got %d", status.PredictedCycleDays)
	}
	if status.AverageCycleLength != 29 {
		t.Fatalf("expected average length 29, got %v", status.AverageCycleLength)
	}
	if got := status.NextCycleStart.Format("2006-01-02"); got != "2025-03-30" {
		t.Fatalf("expected next start 2025-03-30, got %s", got)
	}
	if status.DaysUntilNextCycle != 25 {
		t.Fatalf("expected 25 days until next cycle, got %d", status.DaysUntilNextCycle)
	}
	if status.RangeOutOfOrder {
		t.Fatal("did not expect range out of order")
	}
}

func TestBuildCycleStatusNoDataSkipsPrediction(t *testing.T) {
	status := BuildCycleStatus(models.CycleRecord{UserID: "user-1"}, mustParseDay("2025-03-05"), time.UTC)
	if status.State != CycleStateNoData {
		t.Fatalf("expected no-data state, got %q", status.State)
	}
	if !status.NextCycleStart.IsZero() || status.CycleDay != 0 {
		t.Fatalf("expected empty prediction, got %+v", status)
	}
}

func TestBuildCycleStatusFlagsEndBeforeStart(t *testing.T) {
	start := mustParseDay("2025-03-10")
	end := mustParseDay("2025-03-08")
	status := BuildCycleStatus(models.CycleRecord{LastPeriodStart: &start, PeriodEndDate: &end}, mustParseDay("2025-03-12"), time.UTC)

	if status.State != CycleStateCompleted {
		t.Fatalf("expected completed state, got %q", status.State)
	}
	if !status.RangeOutOfOrder {
		t.Fatal("expected range out of order flag")
	}
}

func TestBuildCycleStatusStartInFuture(t *testing.T) {
	start := mustParseDay("2025-03-10")
	status := BuildCycleStatus(models.CycleRecord{LastPeriodStart: &start}, mustParseDay("2025-03-08"), time.UTC)
	if status.CycleDay != 0 {
		t.Fatalf("expected cycle day 0 before the start, got %d", status.CycleDay)
	}
}

func mustParseDay(raw string) time.Time {
	parsed, err := time.ParseInLocation("2006-01-02", raw, time.UTC)
	if err != nil {
		panic(err)
	}
	return parsed
}
