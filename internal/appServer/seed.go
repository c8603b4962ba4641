package appServer

import (
	"context"
	"fmt"

	"github.com/ds124wfegd/tourbooker/config"
	"github.com/ds124wfegd/tourbooker/internal/entity"
	"github.com/ds124wfegd/tourbooker/internal/service"
	"github.com/sirupsen/logrus"
)

// seedCatalog загружает демонстрационный каталог из конфигурации
func seedCatalog(ctx context.Context, catalog config.CatalogConfig, customers service.CustomerService, tours service.TourService) error {
	for _, c := range catalog.Customers {
		dob, err := entity.ParseDate(c.DateOfBirth)
		if err != nil {
			return fmt.Errorf("customer %s: %w", c.Passport, err)
		}
		if _, err := customers.RegisterCustomer(ctx, &service.RegisterCustomerRequest{
			Passport:    c.Passport,
			Name:        c.Name,
			DateOfBirth: dob,
			Contact:     c.Contact,
		}); err != nil {
			return fmt.Errorf("customer %s: %w", c.Passport, err)
		}
	}

	for _, t := range catalog.Tours {
		if _, err := tours.AddTour(ctx, &service.AddTourRequest{
			Code:     t.Code,
			Name:     t.Name,
			Days:     t.Days,
			Nights:   t.Nights,
			BaseCost: t.BaseCost,
		}); err != nil {
			return fmt.Errorf("tour %s: %w", t.Code, err)
		}
	}

	for _, s := range catalog.Schedules {
		departure, err := entity.ParseDateTime(s.Departure)
		if err != nil {
			return fmt.Errorf("schedule %s-%s: %w", s.TourCode, s.ScheduleCode, err)
		}
		if _, err := tours.ScheduleTour(ctx, &service.ScheduleTourRequest{
			TourCode:     s.TourCode,
			ScheduleCode: s.ScheduleCode,
			Departure:    departure,
			Language:     s.Language,
			Capacity:     s.Capacity,
			Peak:         s.Peak,
		}); err != nil {
			return fmt.Errorf("schedule %s-%s: %w", s.TourCode, s.ScheduleCode, err)
		}
	}

	logrus.WithFields(logrus.Fields{
		"customers": len(catalog.Customers),
		"tours":     len(catalog.Tours),
		"schedules": len(catalog.Schedules),
	}).Info("Catalog loaded")
	return nil
}
