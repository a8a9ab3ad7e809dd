package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/terraincognita07/femcare/internal/models"
)

func TestCycleServiceStatusWithoutRecord(t *testing.T) {
	service := NewCycleService(&stubCycleRepository{}, time.UTC)

	status, err := service.Status(context.Background(), "user-1", mustParseDay("2025-03-05"))
	if err != nil {
		t.Fatalf("Status() unexpected error: %v", err)
	}
	if status.State != CycleStateNoData {
		t.Fatalf("expected no-data state, got %q", status.State)
	}
}

func TestCycleServiceStatusLoadFailure(t *testing.T) {
	service := NewCycleService(&stubCycleRepository{loadErr: errStubBackend}, time.UTC)

	status, err := service.Status(context.Background(), "user-1", mustParseDay("2025-03-05"))
	if !errors.Is(err, ErrCycleLoadFailed) {
		t.Fatalf("expected ErrCycleLoadFailed, got %v", err)
	}
	if status.State != CycleStateNoData {
		t.Fatalf("expected no-data fallback state, got %q", status.State)
	}
}

func TestCycleServiceStartAndEndPeriod(t *testing.T) {
	repo := &stubCycleRepository{}
	service := NewCycleService(repo, time.UTC)
	ctx := context.Background()

	if _, err := service.EndPeriod(ctx, "user-1", mustParseDay("2025-01-05")); !errors.Is(err, ErrNoPeriodStarted) {
		t.Fatalf("expected ErrNoPeriodStarted, got %v", err)
	}

	if _, err := service.StartPeriod(ctx, "user-1", mustParseDay("2025-01-01")); err != nil {
		t.Fatalf("StartPeriod() unexpected error: %v", err)
	}
	record, err := service.EndPeriod(ctx, "user-1", mustParseDay("2025-01-05"))
	if err != nil {
		t.Fatalf("EndPeriod() unexpected error: %v", err)
	}
	if DeriveCycleState(record.LastPeriodStart, record.PeriodEndDate) != CycleStateCompleted {
		t.Fatalf("expected completed cycle, got %+v", record)
	}

	record, err = service.StartPeriod(ctx, "user-1", mustParseDay("2025-01-30"))
	if err != nil {
		t.Fatalf("StartPeriod() unexpected error: %v", err)
	}
	if record.PeriodEndDate != nil {
		t.Fatal("expected new period to clear the end date")
	}
	if len(record.CycleLengthHistory) != 1 || record.CycleLengthHistory[0] != 29 {
		t.Fatalf("expected history [29], got %v", record.CycleLengthHistory)
	}
	if repo.saves != 3 {
		t.Fatalf("expected 3 saves, got %d", repo.saves)
	}
}

func TestCycleServiceStartPeriodSkipsImplausibleLength(t *testing.T) {
	start := mustParseDay("2025-01-01")
	repo := &stubCycleRepository{record: &models.CycleRecord{UserID: "user-1", LastPeriodStart: &start}}
	service := NewCycleService(repo, time.UTC)

	record, err := service.StartPeriod(context.Background(), "user-1", mustParseDay("2025-01-04"))
	if err != nil {
		t.Fatalf("StartPeriod() unexpected error: %v", err)
	}
	if len(record.CycleLengthHistory) != 0 {
		t.Fatalf("expected no history entry, got %v", record.CycleLengthHistory)
	}
}

func TestCycleServiceEndBeforeStartIsKept(t *testing.T) {
	start := mustParseDay("2025-01-10")
	repo := &stubCycleRepository{record: &models.CycleRecord{UserID: "user-1", LastPeriodStart: &start}}
	service := NewCycleService(repo, time.UTC)
	ctx := context.Background()

	if _, err := service.EndPeriod(ctx, "user-1", mustParseDay("2025-01-08")); err != nil {
		t.Fatalf("EndPeriod() unexpected error: %v", err)
	}
	status, err := service.Status(ctx, "user-1", mustParseDay("2025-01-12"))
	if err != nil {
		t.Fatalf("Status() unexpected error: %v", err)
	}
	if !status.RangeOutOfOrder || status.State != CycleStateCompleted {
		t.Fatalf("expected completed out-of-order status, got %+v", status)
	}
}

func TestCycleServiceSaveFailure(t *testing.T) {
	service := NewCycleService(&stubCycleRepository{saveErr: errStubBackend}, time.UTC)
	if _, err := service.StartPeriod(context.Background(), "user-1", mustParseDay("2025-01-01")); !errors.Is(err, ErrCycleSaveFailed) {
		t.Fatalf("expected ErrCycleSaveFailed, got %v", err)
	}
}
