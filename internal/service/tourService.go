package service

import (
	"context"
	"fmt"

	repository "github.com/ds124wfegd/tourbooker/internal/database/memory"
	"github.com/ds124wfegd/tourbooker/internal/entity"
	"github.com/sirupsen/logrus"
)

type tourService struct {
	ledger       *Ledger
	tourRepo     repository.TourRepository
	scheduleRepo repository.ScheduledTourRepository
	bookingRepo  repository.BookingRepository
	customerRepo repository.CustomerRepository
	events       *events
}

// NewTourService создает сервис каталога. queue может быть nil.
func NewTourService(
	ledger *Ledger,
	tourRepo repository.TourRepository,
	scheduleRepo repository.ScheduledTourRepository,
	bookingRepo repository.BookingRepository,
	customerRepo repository.CustomerRepository,
	queue TaskPublisher,
) TourService {
	return &tourService{
		ledger:       ledger,
		tourRepo:     tourRepo,
		scheduleRepo: scheduleRepo,
		bookingRepo:  bookingRepo,
		customerRepo: customerRepo,
		events:       &events{queue: queue, epoch: ledger.Epoch()},
	}
}

func (s *tourService) AddTour(ctx context.Context, req *AddTourRequest) (*entity.Tour, error) {
	tour, err := entity.NewTour(req.Code, req.Name, req.Days, req.Nights, req.BaseCost)
	if err != nil {
		return nil, err
	}

	defer s.ledger.lock()()

	if err := s.tourRepo.Create(ctx, tour); err != nil {
		return nil, fmt.Errorf("add tour: %w", err)
	}

	logrus.WithFields(logrus.Fields{"code": tour.Code, "base_cost": tour.BaseCost}).Info("Tour added")
	out := *tour
	return &out, nil
}

func (s *tourService) GetTour(ctx context.Context, code string) (*entity.Tour, error) {
	tour, err := s.tourRepo.GetByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	out := *tour
	return &out, nil
}

func (s *tourService) GetAllTours(ctx context.Context) ([]*entity.Tour, error) {
	tours, err := s.tourRepo.GetAll(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]*entity.Tour, 0, len(tours))
	for _, t := range tours {
		tour := *t
		out = append(out, &tour)
	}
	return out, nil
}

// ScheduleTour создает открытое отправление тура. Код отправления уникален в пределах тура.
func (s *tourService) ScheduleTour(ctx context.Context, req *ScheduleTourRequest) (*entity.ScheduledTourInfo, error) {
	defer s.ledger.lock()()

	tour, err := s.tourRepo.GetByCode(ctx, req.TourCode)
	if err != nil {
		return nil, err
	}

	kind := entity.PricingStandard
	if req.Peak {
		kind = entity.PricingPeak
	}

	schedule, err := entity.NewScheduledTour(tour, req.ScheduleCode, req.Departure.Time, req.Language, req.Capacity, kind)
	if err != nil {
		return nil, err
	}

	if err := s.scheduleRepo.Create(ctx, schedule); err != nil {
		return nil, fmt.Errorf("schedule tour: %w", err)
	}

	logrus.WithFields(logrus.Fields{
		"code":      schedule.Code(),
		"departure": schedule.Departure(),
		"capacity":  schedule.Capacity(),
		"kind":      kind,
	}).Info("Tour scheduled")

	info := schedule.Info()
	return &info, nil
}

func (s *tourService) GetScheduledTour(ctx context.Context, code string) (*entity.ScheduledTourInfo, error) {
	defer s.ledger.lock()()

	schedule, err := s.scheduleRepo.GetByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	info := schedule.Info()
	return &info, nil
}

func (s *tourService) GetAllScheduledTours(ctx context.Context) ([]entity.ScheduledTourInfo, error) {
	defer s.ledger.lock()()

	schedules, err := s.scheduleRepo.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	return scheduleInfos(schedules), nil
}

func (s *tourService) GetOpenScheduledTours(ctx context.Context) ([]entity.ScheduledTourInfo, error) {
	defer s.ledger.lock()()

	schedules, err := s.scheduleRepo.GetOpen(ctx)
	if err != nil {
		return nil, err
	}
	return scheduleInfos(schedules), nil
}

func (s *tourService) SetScheduleStatus(ctx context.Context, code string, open bool) (*entity.ScheduledTourInfo, error) {
	info, changed, err := func() (*entity.ScheduledTourInfo, bool, error) {
		defer s.ledger.lock()()

		schedule, err := s.scheduleRepo.GetByCode(ctx, code)
		if err != nil {
			return nil, false, err
		}
		if open && schedule.Departed(s.ledger.Now()) {
			return nil, false, fmt.Errorf("open %s: %w", code, entity.ErrScheduleDeparted)
		}

		changed := schedule.IsOpen() != open
		schedule.SetStatus(open)
		info := schedule.Info()
		return &info, changed, nil
	}()
	if err != nil {
		return nil, err
	}

	if changed {
		logrus.WithFields(logrus.Fields{"code": code, "open": open}).Info("Scheduled tour status changed")
		s.events.scheduleStatusChanged(ctx, code, open, "operator")
	}
	return info, nil
}

// RemoveScheduledTour удаляет отправление, только если на него нет бронирований
func (s *tourService) RemoveScheduledTour(ctx context.Context, code string) error {
	defer s.ledger.lock()()

	schedule, err := s.scheduleRepo.GetByCode(ctx, code)
	if err != nil {
		return err
	}
	if !schedule.CanRemove() {
		return fmt.Errorf("remove %s: %w (%d seats booked)", code, entity.ErrScheduleHasBookings, schedule.BookedSeats())
	}

	if err := s.scheduleRepo.Delete(ctx, code); err != nil {
		return err
	}

	logrus.WithField("code", code).Info("Scheduled tour removed")
	return nil
}

// CloseDepartedTours закрывает открытые отправления, время которых уже наступило
func (s *tourService) CloseDepartedTours(ctx context.Context) (int, error) {
	closed, err := func() ([]string, error) {
		defer s.ledger.lock()()

		schedules, err := s.scheduleRepo.GetOpen(ctx)
		if err != nil {
			return nil, err
		}

		now := s.ledger.Now()
		var codes []string
		for _, schedule := range schedules {
			if schedule.Departed(now) {
				schedule.SetStatus(false)
				codes = append(codes, schedule.Code())
			}
		}
		return codes, nil
	}()
	if err != nil {
		return 0, fmt.Errorf("close departed tours: %w", err)
	}

	for _, code := range closed {
		logrus.WithField("code", code).Info("Departed tour closed")
		s.events.scheduleStatusChanged(ctx, code, false, "departed")
	}
	return len(closed), nil
}

func (s *tourService) GetScheduleStats(ctx context.Context, code string) (*entity.ScheduleStats, error) {
	defer s.ledger.lock()()

	schedule, err := s.scheduleRepo.GetByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	bookings, err := s.bookingRepo.GetBySchedule(ctx, code)
	if err != nil {
		return nil, err
	}
	return entity.NewScheduleStats(schedule, bookings), nil
}

func (s *tourService) GetLedgerStats(ctx context.Context) (*entity.LedgerStats, error) {
	defer s.ledger.lock()()

	tours, err := s.tourRepo.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	customers, err := s.customerRepo.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	schedules, err := s.scheduleRepo.GetAll(ctx)
	if err != nil {
		return nil, err
	}

	stats := &entity.LedgerStats{
		TotalTours:     len(tours),
		TotalCustomers: len(customers),
	}
	capacity := 0
	for _, schedule := range schedules {
		bookings, err := s.bookingRepo.GetBySchedule(ctx, schedule.Code())
		if err != nil {
			return nil, err
		}
		stats.Add(schedule, bookings)
		capacity += schedule.Capacity()
	}
	stats.Finish(capacity)

	return stats, nil
}

func scheduleInfos(schedules []*entity.ScheduledTour) []entity.ScheduledTourInfo {
	out := make([]entity.ScheduledTourInfo, 0, len(schedules))
	for _, s := range schedules {
		out = append(out, s.Info())
	}
	return out
}
