package repository

import (
	"context"
	"fmt"

	"github.com/ds124wfegd/tourbooker/internal/entity"
)

type bookingRepository struct {
	bookings *store[int64, *entity.Booking]
}

func NewBookingRepository() BookingRepository {
	return &bookingRepository{bookings: newStore[int64, *entity.Booking]()}
}

func (r *bookingRepository) Create(ctx context.Context, booking *entity.Booking) error {
	if !r.bookings.insert(booking.ID(), booking) {
		return fmt.Errorf("%w: booking %d already recorded", entity.ErrInvalidBooking, booking.ID())
	}
	return nil
}

func (r *bookingRepository) GetByID(ctx context.Context, id int64) (*entity.Booking, error) {
	booking, ok := r.bookings.get(id)
	if !ok {
		return nil, fmt.Errorf("%w: %d", entity.ErrBookingNotFound, id)
	}
	return booking, nil
}

func (r *bookingRepository) Delete(ctx context.Context, id int64) error {
	if !r.bookings.remove(id) {
		return fmt.Errorf("%w: %d", entity.ErrBookingNotFound, id)
	}
	return nil
}

func (r *bookingRepository) GetAll(ctx context.Context) ([]*entity.Booking, error) {
	return r.bookings.list(ctx, nil)
}

func (r *bookingRepository) GetBySchedule(ctx context.Context, scheduleCode string) ([]*entity.Booking, error) {
	return r.bookings.list(ctx, func(b *entity.Booking) bool {
		return b.ScheduledTour().Code() == scheduleCode
	})
}

func (r *bookingRepository) GetByCustomer(ctx context.Context, passport string) ([]*entity.Booking, error) {
	return r.bookings.list(ctx, func(b *entity.Booking) bool {
		for _, c := range b.Customers() {
			if c.Passport == passport {
				return true
			}
		}
		return false
	})
}
