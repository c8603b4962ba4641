package repository

import (
	"context"

	"github.com/ds124wfegd/tourbooker/internal/entity"
)

type CustomerRepository interface {
	Create(ctx context.Context, customer *entity.Customer) error
	GetByPassport(ctx context.Context, passport string) (*entity.Customer, error)
	GetAll(ctx context.Context) ([]*entity.Customer, error)
}

type TourRepository interface {
	Create(ctx context.Context, tour *entity.Tour) error
	GetByCode(ctx context.Context, code string) (*entity.Tour, error)
	GetAll(ctx context.Context) ([]*entity.Tour, error)
}

type ScheduledTourRepository interface {
	Create(ctx context.Context, schedule *entity.ScheduledTour) error
	GetByCode(ctx context.Context, code string) (*entity.ScheduledTour, error)
	Delete(ctx context.Context, code string) error

	// Выборки
	GetAll(ctx context.Context) ([]*entity.ScheduledTour, error)
	GetOpen(ctx context.Context) ([]*entity.ScheduledTour, error)
}

type BookingRepository interface {
	Create(ctx context.Context, booking *entity.Booking) error
	GetByID(ctx context.Context, id int64) (*entity.Booking, error)
	Delete(ctx context.Context, id int64) error

	// Выборки
	GetAll(ctx context.Context) ([]*entity.Booking, error)
	GetBySchedule(ctx context.Context, scheduleCode string) ([]*entity.Booking, error)
	GetByCustomer(ctx context.Context, passport string) ([]*entity.Booking, error)
}
