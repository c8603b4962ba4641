package repository

import (
	"context"
	"fmt"

	"github.com/ds124wfegd/tourbooker/internal/entity"
)

type scheduledTourRepository struct {
	schedules *store[string, *entity.ScheduledTour]
}

func NewScheduledTourRepository() ScheduledTourRepository {
	return &scheduledTourRepository{schedules: newStore[string, *entity.ScheduledTour]()}
}

func (r *scheduledTourRepository) Create(ctx context.Context, schedule *entity.ScheduledTour) error {
	if !r.schedules.insert(schedule.Code(), schedule) {
		return fmt.Errorf("%w: %s", entity.ErrScheduleExists, schedule.Code())
	}
	return nil
}

func (r *scheduledTourRepository) GetByCode(ctx context.Context, code string) (*entity.ScheduledTour, error) {
	schedule, ok := r.schedules.get(code)
	if !ok {
		return nil, fmt.Errorf("%w: %s", entity.ErrScheduleNotFound, code)
	}
	return schedule, nil
}

func (r *scheduledTourRepository) Delete(ctx context.Context, code string) error {
	if !r.schedules.remove(code) {
		return fmt.Errorf("%w: %s", entity.ErrScheduleNotFound, code)
	}
	return nil
}

func (r *scheduledTourRepository) GetAll(ctx context.Context) ([]*entity.ScheduledTour, error) {
	return r.schedules.list(ctx, nil)
}

func (r *scheduledTourRepository) GetOpen(ctx context.Context) ([]*entity.ScheduledTour, error) {
	return r.schedules.list(ctx, func(s *entity.ScheduledTour) bool {
		return s.IsOpen()
	})
}
