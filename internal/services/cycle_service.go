package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/terraincognita07/venus/internal/models"
	"gorm.io/gorm"
)

var (
	ErrCycleNotFound      = errors.New("cycle not found")
	ErrCycleStartRequired = errors.New("cycle start date required")
	ErrCycleRangeInvalid  = errors.New("cycle end date before start date")
	ErrCycleOverlap       = errors.New("cycle overlaps an existing cycle")
)

type CycleRepository interface {
	ListByUser(userID uint) ([]models.Cycle, error)
	FindByIDForUser(userID uint, cycleID string) (models.Cycle, error)
	Create(cycle *models.Cycle) error
	Save(cycle *models.Cycle) error
	DeleteByIDForUser(userID uint, cycleID string) (bool, error)
}

// CycleInput is a write request. A zero EndDate is derived from the user's period length.
type CycleInput struct {
	StartDate time.Time
	EndDate   time.Time
}

type CycleService struct {
	cycles CycleRepository
	events ChangePublisher
	newID  func() string
}

func NewCycleService(cycles CycleRepository, events ChangePublisher) *CycleService {
	if events == nil {
		events = noopPublisher{}
	}
	return &CycleService{cycles: cycles, events: events, newID: uuid.NewString}
}

func (service *CycleService) List(userID uint) ([]models.Cycle, error) {
	cycles, err := service.cycles.ListByUser(userID)
	if err != nil {
		return nil, fmt.Errorf("list cycles: %w", err)
	}
	return cycles, nil
}

// CheckOverlap runs the advisory overlap check against the user's stored cycles.
func (service *CycleService) CheckOverlap(userID uint, input CycleInput, periodLength int, excludeID string) (bool, error) {
	start, end, err := resolveCycleRange(input, periodLength)
	if err != nil {
		return false, err
	}
	existing, err := service.List(userID)
	if err != nil {
		return false, err
	}
	return CheckOverlap(start, end, existing, excludeID), nil
}

func (service *CycleService) Create(userID uint, input CycleInput, periodLength int) (models.Cycle, error) {
	start, end, err := resolveCycleRange(input, periodLength)
	if err != nil {
		return models.Cycle{}, err
	}
	existing, err := service.List(userID)
	if err != nil {
		return models.Cycle{}, err
	}
	if CheckOverlap(start, end, existing, "") {
		return models.Cycle{}, ErrCycleOverlap
	}

	cycle := models.Cycle{
		ID:        service.newID(),
		UserID:    userID,
		StartDate: start,
		EndDate:   end,
	}
	if err := service.cycles.Create(&cycle); err != nil {
		return models.Cycle{}, fmt.Errorf("create cycle: %w", err)
	}

	service.events.Publish(ChangeEvent{Table: ChangeTableCycles, Action: ChangeActionInsert, RecordID: cycle.ID, UserID: userID})
	return cycle, nil
}

func (service *CycleService) Update(userID uint, cycleID string, input CycleInput, periodLength int) (models.Cycle, error) {
	cycle, err := service.cycles.FindByIDForUser(userID, cycleID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.Cycle{}, ErrCycleNotFound
	}
	if err != nil {
		return models.Cycle{}, fmt.Errorf("load cycle: %w", err)
	}

	start, end, err := resolveCycleRange(input, periodLength)
	if err != nil {
		return models.Cycle{}, err
	}
	existing, err := service.List(userID)
	if err != nil {
		return models.Cycle{}, err
	}
	if CheckOverlap(start, end, existing, cycle.ID) {
		return models.Cycle{}, ErrCycleOverlap
	}

	cycle.StartDate = start
	cycle.EndDate = end
	if err := service.cycles.Save(&cycle); err != nil {
		return models.Cycle{}, fmt.Errorf("save cycle: %w", err)
	}

	service.events.Publish(ChangeEvent{Table: ChangeTableCycles, Action: ChangeActionUpdate, RecordID: cycle.ID, UserID: userID})
	return cycle, nil
}

func (service *CycleService) Delete(userID uint, cycleID string) error {
	deleted, err := service.cycles.DeleteByIDForUser(userID, cycleID)
	if err != nil {
		return fmt.Errorf("delete cycle: %w", err)
	}
	if !deleted {
		return ErrCycleNotFound
	}

	service.events.Publish(ChangeEvent{Table: ChangeTableCycles, Action: ChangeActionDelete, RecordID: cycleID, UserID: userID})
	return nil
}

func resolveCycleRange(input CycleInput, periodLength int) (time.Time, time.Time, error) {
	if input.StartDate.IsZero() {
		return time.Time{}, time.Time{}, ErrCycleStartRequired
	}
	start := dateOnly(input.StartDate)

	end := PeriodEndFromLength(start, periodLength)
	if !input.EndDate.IsZero() {
		end = dateOnly(input.EndDate)
	}
	if end.Before(start) {
		return time.Time{}, time.Time{}, ErrCycleRangeInvalid
	}
	return start, end, nil
}
