package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/terraincognita07/femcare/internal/models"
)

const maxCycleHistory = 24

var (
	ErrNoPeriodStarted = errors.New("no period started")
	ErrCycleLoadFailed = errors.New("load cycle failed")
	ErrCycleSaveFailed = errors.New("save cycle failed")
)

type CycleRepository interface {
	LoadCycle(ctx context.Context, userID string) (models.CycleRecord, error)
	SaveCycle(ctx context.Context, record *models.CycleRecord) error
}

type CycleService struct {
	cycles   CycleRepository
	location *time.Location
}

func NewCycleService(cycles CycleRepository, location *time.Location) *CycleService {
	if location == nil {
		location = time.UTC
	}
	return &CycleService{cycles: cycles, location: location}
}

func (service *CycleService) load(ctx context.Context, userID string) (models.CycleRecord, error) {
	record, err := service.cycles.LoadCycle(ctx, userID)
	if errors.Is(err, ErrNotFound) {
		return models.CycleRecord{UserID: userID}, nil
	}
	if err != nil {
		return models.CycleRecord{}, fmt.Errorf("%w: %v", ErrCycleLoadFailed, err)
	}
	return record, nil
}

func (service *CycleService) Status(ctx context.Context, userID string, now time.Time) (CycleStatus, error) {
	record, err := service.load(ctx, userID)
	if err != nil {
		return CycleStatus{State: CycleStateNoData}, err
	}
	return BuildCycleStatus(record, now, service.location), nil
}

// StartPeriod opens a new cycle. The length of the cycle it closes is appended to
// the history when it is plausible.
func (service *CycleService) StartPeriod(ctx context.Context, userID string, day time.Time) (models.CycleRecord, error) {
	record, err := service.load(ctx, userID)
	if err != nil {
		return models.CycleRecord{}, err
	}

	start := DateAtLocation(day, service.location)
	if record.LastPeriodStart != nil {
		previous := DateAtLocation(*record.LastPeriodStart, service.location)
		if length := daysBetween(previous, start); IsValidCycleLength(length) {
			record.CycleLengthHistory = tailInts(append(record.CycleLengthHistory, length), maxCycleHistory)
		}
	}
	record.LastPeriodStart = &start
	record.PeriodEndDate = nil

	if err := service.cycles.SaveCycle(ctx, &record); err != nil {
		return models.CycleRecord{}, fmt.Errorf("%w: %v", ErrCycleSaveFailed, err)
	}
	return record, nil
}

// EndPeriod stores the end date as given; an end before the start is kept and
// reported through CycleStatus.RangeOutOfOrder.
func (service *CycleService) EndPeriod(ctx context.Context, userID string, day time.Time) (models.CycleRecord, error) {
	record, err := service.load(ctx, userID)
	if err != nil {
		return models.CycleRecord{}, err
	}
	if record.LastPeriodStart == nil {
		return models.CycleRecord{}, ErrNoPeriodStarted
	}

	end := DateAtLocation(day, service.location)
	record.PeriodEndDate = &end
	if err := service.cycles.SaveCycle(ctx, &record); err != nil {
		return models.CycleRecord{}, fmt.Errorf("%w: %v", ErrCycleSaveFailed, err)
	}
	return record, nil
}
