package repository

import (
	"context"
	"fmt"

	"github.com/ds124wfegd/tourbooker/internal/entity"
)

type tourRepository struct {
	tours *store[string, *entity.Tour]
}

func NewTourRepository() TourRepository {
	return &tourRepository{tours: newStore[string, *entity.Tour]()}
}

func (r *tourRepository) Create(ctx context.Context, tour *entity.Tour) error {
	if !r.tours.insert(tour.Code, tour) {
		return fmt.Errorf("%w: %s", entity.ErrTourExists, tour.Code)
	}
	return nil
}

func (r *tourRepository) GetByCode(ctx context.Context, code string) (*entity.Tour, error) {
	tour, ok := r.tours.get(code)
	if !ok {
		return nil, fmt.Errorf("%w: %s", entity.ErrTourNotFound, code)
	}
	return tour, nil
}

func (r *tourRepository) GetAll(ctx context.Context) ([]*entity.Tour, error) {
	return r.tours.list(ctx, nil)
}
