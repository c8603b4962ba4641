package service

import (
	"context"
	"testing"
	"time"

	"github.com/ds124wfegd/tourbooker/internal/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScheduleTour(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.tourService.ScheduleTour(ctx, &ScheduleTourRequest{
		TourCode: "JPHA08", ScheduleCode: "STD", Departure: entity.DateTime{Time: testDeparture}, Capacity: 5,
	})
	assert.ErrorIs(t, err, entity.ErrScheduleExists)

	_, err = f.tourService.ScheduleTour(ctx, &ScheduleTourRequest{
		TourCode: "NOPE", ScheduleCode: "X", Departure: entity.DateTime{Time: testDeparture}, Capacity: 5,
	})
	assert.ErrorIs(t, err, entity.ErrTourNotFound)

	_, err = f.tourService.ScheduleTour(ctx, &ScheduleTourRequest{
		TourCode: "JPHA08", ScheduleCode: "ZERO", Departure: entity.DateTime{Time: testDeparture}, Capacity: 0,
	})
	assert.ErrorIs(t, err, entity.ErrInvalidSchedule)

	info, err := f.tourService.GetScheduledTour(ctx, "JPHA08-PEAK")
	require.NoError(t, err)
	assert.True(t, info.Open)
	assert.Equal(t, entity.PricingPeak, info.Kind)
	assert.InDelta(t, 1150.0, info.Cost, 1e-9)
}

func TestAddTour_Duplicate(t *testing.T) {
	f := newFixture(t)

	_, err := f.tourService.AddTour(context.Background(), &AddTourRequest{Code: "JPHA08", Name: "Again", Days: 1, BaseCost: 1})
	assert.ErrorIs(t, err, entity.ErrTourExists)

	tour, err := f.tourService.GetTour(context.Background(), "JPHA08")
	require.NoError(t, err)
	tour.BaseCost = 1
	again, err := f.tourService.GetTour(context.Background(), "JPHA08")
	require.NoError(t, err)
	assert.InDelta(t, 1000.0, again.BaseCost, 1e-9)
}

func TestSetScheduleStatus(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	info, err := f.tourService.SetScheduleStatus(ctx, "JPHA08-STD", false)
	require.NoError(t, err)
	assert.False(t, info.Open)

	open, err := f.tourService.GetOpenScheduledTours(ctx)
	require.NoError(t, err)
	require.Len(t, open, 1)
	assert.Equal(t, "JPHA08-PEAK", open[0].Code)

	// Повторное закрытие не публикует событие
	_, err = f.tourService.SetScheduleStatus(ctx, "JPHA08-STD", false)
	require.NoError(t, err)
	assert.Equal(t, []string{TaskTypeScheduleStatusChanged}, f.publisher.types())

	_, err = f.tourService.SetScheduleStatus(ctx, "JPHA08-NONE", true)
	assert.ErrorIs(t, err, entity.ErrScheduleNotFound)

	f.now = testDeparture.Add(time.Hour)
	_, err = f.tourService.SetScheduleStatus(ctx, "JPHA08-STD", true)
	assert.ErrorIs(t, err, entity.ErrScheduleDeparted)
}

func TestRemoveScheduledTour(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	booking, err := f.bookingService.CreateBooking(ctx, &CreateBookingRequest{
		ScheduleCode: "JPHA08-STD", Kind: entity.BookingIndividual, Passports: []string{"P01"},
	})
	require.NoError(t, err)

	err = f.tourService.RemoveScheduledTour(ctx, "JPHA08-STD")
	assert.ErrorIs(t, err, entity.ErrScheduleHasBookings)

	_, err = f.bookingService.CancelBooking(ctx, booking.ID)
	require.NoError(t, err)
	require.NoError(t, f.tourService.RemoveScheduledTour(ctx, "JPHA08-STD"))

	_, err = f.tourService.GetScheduledTour(ctx, "JPHA08-STD")
	assert.ErrorIs(t, err, entity.ErrScheduleNotFound)
	assert.ErrorIs(t, f.tourService.RemoveScheduledTour(ctx, "JPHA08-STD"), entity.ErrScheduleNotFound)
}

func TestCloseDepartedTours(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.tourService.ScheduleTour(ctx, &ScheduleTourRequest{
		TourCode: "JPHA08", ScheduleCode: "LATER", Departure: entity.DateTime{Time: testDeparture.AddDate(0, 1, 0)}, Capacity: 5,
	})
	require.NoError(t, err)

	closed, err := f.tourService.CloseDepartedTours(ctx)
	require.NoError(t, err)
	assert.Zero(t, closed)

	f.now = testDeparture
	closed, err = f.tourService.CloseDepartedTours(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, closed)

	open, err := f.tourService.GetOpenScheduledTours(ctx)
	require.NoError(t, err)
	require.Len(t, open, 1)
	assert.Equal(t, "JPHA08-LATER", open[0].Code)

	closed, err = f.tourService.CloseDepartedTours(ctx)
	require.NoError(t, err)
	assert.Zero(t, closed)
}

func TestStats(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.bookingService.CreateBooking(ctx, &CreateBookingRequest{
		ScheduleCode: "JPHA08-STD", Kind: entity.BookingGroup, Passports: passports(1, 6),
	})
	require.NoError(t, err)

	stats, err := f.tourService.GetScheduleStats(ctx, "JPHA08-STD")
	require.NoError(t, err)
	assert.Equal(t, 1, stats.TotalBookings)
	assert.Equal(t, 1, stats.GroupBookings)
	assert.Equal(t, 6, stats.BookedSeats)
	assert.InDelta(t, 0.5, stats.UtilizationRate, 1e-9)
	assert.InDelta(t, 5700.0, stats.Revenue, 1e-6)

	ledger, err := f.tourService.GetLedgerStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, ledger.TotalTours)
	assert.Equal(t, 12, ledger.TotalCustomers)
	assert.Equal(t, 2, ledger.TotalScheduledTours)
	assert.Equal(t, 2, ledger.OpenScheduledTours)
	assert.Equal(t, 6, ledger.BookedSeats)
	assert.InDelta(t, 0.25, ledger.Utilization, 1e-9)
}

func TestRegisterCustomer(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	dob, err := entity.ParseDate("1985-01-02")
	require.NoError(t, err)

	_, err = f.customerService.RegisterCustomer(ctx, &RegisterCustomerRequest{Passport: "P01", Name: "Dup", DateOfBirth: dob})
	assert.ErrorIs(t, err, entity.ErrCustomerExists)

	_, err = f.customerService.RegisterCustomer(ctx, &RegisterCustomerRequest{Passport: "N1", Name: "No Birthday"})
	assert.ErrorIs(t, err, entity.ErrInvalidCustomer)

	c, err := f.customerService.RegisterCustomer(ctx, &RegisterCustomerRequest{Passport: "N2", Name: "New", DateOfBirth: dob})
	require.NoError(t, err)
	assert.Equal(t, "N2", c.Passport)

	_, err = f.customerService.GetCustomer(ctx, "missing")
	assert.ErrorIs(t, err, entity.ErrCustomerNotFound)

	all, err := f.customerService.GetAllCustomers(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 13)
}
