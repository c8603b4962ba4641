package appServer

import (
	"context"
	"testing"
	"time"

	"github.com/ds124wfegd/tourbooker/config"
	repository "github.com/ds124wfegd/tourbooker/internal/database/memory"
	"github.com/ds124wfegd/tourbooker/internal/entity"
	"github.com/ds124wfegd/tourbooker/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type services struct {
	ledger    *service.Ledger
	customers service.CustomerService
	tours     service.TourService
	bookings  service.BookingService
}

func newServices() services {
	ledger := service.NewLedger(func() time.Time { return time.Date(2027, time.January, 10, 9, 0, 0, 0, time.Local) })
	customers := repository.NewCustomerRepository()
	tours := repository.NewTourRepository()
	schedules := repository.NewScheduledTourRepository()
	bookings := repository.NewBookingRepository()

	return services{
		ledger:    ledger,
		customers: service.NewCustomerService(ledger, customers, bookings),
		tours:     service.NewTourService(ledger, tours, schedules, bookings, customers, nil),
		bookings:  service.NewBookingService(ledger, bookings, schedules, customers, nil, 0),
	}
}

func demoCatalog() config.CatalogConfig {
	return config.CatalogConfig{
		Customers: []config.CustomerSeed{
			{Passport: "E2000444N", Name: "John Doe", DateOfBirth: "1990-05-20", Contact: "1234567890"},
			{Passport: "EC4744643", Name: "Jane Smith", DateOfBirth: "1985-09-15"},
		},
		Tours: []config.TourSeed{
			{Code: "JPHA08", Name: "Best of Hokkaido", Days: 8, Nights: 7, BaseCost: 2699.08},
		},
		Schedules: []config.ScheduleSeed{
			{TourCode: "JPHA08", ScheduleCode: "505", Departure: "2027-05-05 10:30", Language: "English", Capacity: 30, Peak: true},
			{TourCode: "JPHA08", ScheduleCode: "408", Departure: "2027-04-08 08:45", Language: "English", Capacity: 25},
		},
	}
}

func TestSeedCatalog(t *testing.T) {
	svc := newServices()
	ctx := context.Background()

	require.NoError(t, seedCatalog(ctx, demoCatalog(), svc.customers, svc.tours))

	customers, err := svc.customers.GetAllCustomers(ctx)
	require.NoError(t, err)
	assert.Len(t, customers, 2)

	peak, err := svc.tours.GetScheduledTour(ctx, "JPHA08-505")
	require.NoError(t, err)
	assert.Equal(t, entity.PricingPeak, peak.Kind)
	assert.True(t, peak.Open)
	assert.Equal(t, 30, peak.SeatsAvailable)

	std, err := svc.tours.GetScheduledTour(ctx, "JPHA08-408")
	require.NoError(t, err)
	assert.Equal(t, entity.PricingStandard, std.Kind)
}

func TestSeedCatalog_Errors(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *config.CatalogConfig)
		wantErr error
	}{
		{
			name:    "bad date of birth",
			mutate:  func(c *config.CatalogConfig) { c.Customers[0].DateOfBirth = "20-05-1990" },
			wantErr: entity.ErrInvalidInput,
		},
		{
			name:    "bad departure",
			mutate:  func(c *config.CatalogConfig) { c.Schedules[0].Departure = "tomorrow" },
			wantErr: entity.ErrInvalidInput,
		},
		{
			name:    "schedule for unknown tour",
			mutate:  func(c *config.CatalogConfig) { c.Schedules[1].TourCode = "NOPE" },
			wantErr: entity.ErrTourNotFound,
		},
		{
			name:    "duplicate tour",
			mutate:  func(c *config.CatalogConfig) { c.Tours = append(c.Tours, c.Tours[0]) },
			wantErr: entity.ErrTourExists,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			catalog := demoCatalog()
			tt.mutate(&catalog)

			svc := newServices()
			err := seedCatalog(context.Background(), catalog, svc.customers, svc.tours)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestBookingChecker(t *testing.T) {
	svc := newServices()
	ctx := context.Background()
	require.NoError(t, seedCatalog(ctx, demoCatalog(), svc.customers, svc.tours))

	booking, err := svc.bookings.CreateBooking(ctx, &service.CreateBookingRequest{
		ScheduleCode: "JPHA08-408",
		Kind:         entity.BookingIndividual,
		Passports:    []string{"E2000444N"},
	})
	require.NoError(t, err)

	epoch := svc.ledger.Epoch()
	checker := bookingChecker{bookings: svc.bookings, epoch: epoch}

	active, err := checker.BookingActive(ctx, epoch, booking.ID)
	require.NoError(t, err)
	assert.True(t, active)

	// тот же номер, выданный реестром предыдущего запуска
	active, err = checker.BookingActive(ctx, "previous-run", booking.ID)
	require.NoError(t, err)
	assert.False(t, active)

	_, err = svc.bookings.CancelBooking(ctx, booking.ID)
	require.NoError(t, err)

	active, err = checker.BookingActive(ctx, epoch, booking.ID)
	require.NoError(t, err)
	assert.False(t, active)
}
