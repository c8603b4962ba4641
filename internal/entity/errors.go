package entity

import "errors"

var (
	// Capacity errors
	ErrNotEnoughSeats      = errors.New("not enough available seats")
	ErrSeatReleaseExceeded = errors.New("cannot release more seats than were booked")
	ErrInvalidSeatCount    = errors.New("seat count must be positive")

	// Customer errors
	ErrCustomerNotFound = errors.New("customer not found")
	ErrCustomerExists   = errors.New("customer already exists")
	ErrInvalidCustomer  = errors.New("invalid customer")

	// Tour errors
	ErrTourNotFound = errors.New("tour not found")
	ErrTourExists   = errors.New("tour already exists")
	ErrInvalidTour  = errors.New("invalid tour")

	// Scheduled tour errors
	ErrScheduleNotFound    = errors.New("scheduled tour not found")
	ErrScheduleExists      = errors.New("scheduled tour already exists")
	ErrScheduleClosed      = errors.New("scheduled tour is closed for booking")
	ErrScheduleDeparted    = errors.New("scheduled tour has already departed")
	ErrScheduleHasBookings = errors.New("scheduled tour has outstanding bookings")
	ErrInvalidSchedule     = errors.New("invalid scheduled tour")

	// Booking errors
	ErrBookingNotFound     = errors.New("booking not found")
	ErrInvalidBooking      = errors.New("invalid booking")
	ErrGroupTooSmall       = errors.New("group booking needs at least two customers")
	ErrDuplicateCustomer   = errors.New("customer appears more than once in booking")
	ErrAddSeatsUnsupported = errors.New("booking does not support adding seats")
	ErrGroupClosed         = errors.New("cannot add seats to a closed group")

	// General errors
	ErrInvalidInput = errors.New("invalid input")
)
