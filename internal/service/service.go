package service

import (
	"context"

	"github.com/ds124wfegd/tourbooker/internal/entity"
)

// CustomerService defines the interface for customer operations
type CustomerService interface {
	RegisterCustomer(ctx context.Context, req *RegisterCustomerRequest) (*entity.Customer, error)
	GetCustomer(ctx context.Context, passport string) (*entity.Customer, error)
	GetAllCustomers(ctx context.Context) ([]*entity.Customer, error)
	GetCustomerBookings(ctx context.Context, passport string) ([]entity.BookingInfo, error)
}

// TourService управляет каталогом туров и расписанием отправлений
type TourService interface {
	// Каталог
	AddTour(ctx context.Context, req *AddTourRequest) (*entity.Tour, error)
	GetTour(ctx context.Context, code string) (*entity.Tour, error)
	GetAllTours(ctx context.Context) ([]*entity.Tour, error)

	// Расписание
	ScheduleTour(ctx context.Context, req *ScheduleTourRequest) (*entity.ScheduledTourInfo, error)
	GetScheduledTour(ctx context.Context, code string) (*entity.ScheduledTourInfo, error)
	GetAllScheduledTours(ctx context.Context) ([]entity.ScheduledTourInfo, error)
	GetOpenScheduledTours(ctx context.Context) ([]entity.ScheduledTourInfo, error)
	SetScheduleStatus(ctx context.Context, code string, open bool) (*entity.ScheduledTourInfo, error)
	RemoveScheduledTour(ctx context.Context, code string) error
	CloseDepartedTours(ctx context.Context) (int, error)

	// Статистика
	GetScheduleStats(ctx context.Context, code string) (*entity.ScheduleStats, error)
	GetLedgerStats(ctx context.Context) (*entity.LedgerStats, error)
}

// BookingService определяет интерфейс для операций с бронированиями
type BookingService interface {
	CreateBooking(ctx context.Context, req *CreateBookingRequest) (*entity.BookingInfo, error)
	GetBooking(ctx context.Context, id int64) (*entity.BookingInfo, error)
	GetAllBookings(ctx context.Context) ([]entity.BookingInfo, error)
	GetScheduleBookings(ctx context.Context, scheduleCode string) ([]entity.BookingInfo, error)

	// Отмена и изменение
	QuoteCancellation(ctx context.Context, id int64) (*CancellationQuote, error)
	CancelBooking(ctx context.Context, id int64) (*CancellationQuote, error)
	AddSeats(ctx context.Context, id int64, req *AddSeatsRequest) (*entity.BookingInfo, error)
}

// TaskPublisher интерфейс для публикации задач в очередь
type TaskPublisher interface {
	Publish(ctx context.Context, task *Task) error
}
