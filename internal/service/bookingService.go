package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	repository "github.com/ds124wfegd/tourbooker/internal/database/memory"
	"github.com/ds124wfegd/tourbooker/internal/entity"
	"github.com/sirupsen/logrus"
)

type bookingService struct {
	ledger       *Ledger
	bookingRepo  repository.BookingRepository
	scheduleRepo repository.ScheduledTourRepository
	customerRepo repository.CustomerRepository
	events       *events
}

// NewBookingService создает новый экземпляр BookingService. queue может быть nil,
// reminderBefore <= 0 отключает напоминания об отправлении.
func NewBookingService(
	ledger *Ledger,
	bookingRepo repository.BookingRepository,
	scheduleRepo repository.ScheduledTourRepository,
	customerRepo repository.CustomerRepository,
	queue TaskPublisher,
	reminderBefore time.Duration,
) BookingService {
	return &bookingService{
		ledger:       ledger,
		bookingRepo:  bookingRepo,
		scheduleRepo: scheduleRepo,
		customerRepo: customerRepo,
		events:       &events{queue: queue, reminderBefore: reminderBefore, epoch: ledger.Epoch()},
	}
}

// CreateBooking резервирует места и записывает бронирование как одну операцию:
// если запись не удалась, места возвращаются отправлению.
func (s *bookingService) CreateBooking(ctx context.Context, req *CreateBookingRequest) (*entity.BookingInfo, error) {
	info, err := s.reserveAndRecord(ctx, req)
	if err != nil {
		return nil, err
	}

	logrus.WithFields(logrus.Fields{
		"booking_id": info.ID,
		"schedule":   info.ScheduledTour.Code,
		"kind":       info.Kind,
		"seats":      info.Seats,
		"cost":       info.Cost,
	}).Info("Booking created")

	s.events.bookingCreated(ctx, info, s.ledger.Now())
	return info, nil
}

func (s *bookingService) reserveAndRecord(ctx context.Context, req *CreateBookingRequest) (*entity.BookingInfo, error) {
	defer s.ledger.lock()()

	schedule, err := s.scheduleRepo.GetByCode(ctx, req.ScheduleCode)
	if err != nil {
		return nil, err
	}
	if !schedule.IsOpen() {
		return nil, fmt.Errorf("book %s: %w", schedule.Code(), entity.ErrScheduleClosed)
	}
	if schedule.Departed(s.ledger.Now()) {
		return nil, fmt.Errorf("book %s: %w", schedule.Code(), entity.ErrScheduleDeparted)
	}

	customers, err := s.resolveCustomers(ctx, req.Passports)
	if err != nil {
		return nil, err
	}

	switch req.Kind {
	case entity.BookingIndividual:
		if len(customers) != 1 {
			return nil, fmt.Errorf("%w: individual booking takes exactly one customer, got %d", entity.ErrInvalidBooking, len(customers))
		}
	case entity.BookingGroup:
		if len(customers) < entity.MinGroupSize {
			return nil, fmt.Errorf("%w: got %d", entity.ErrGroupTooSmall, len(customers))
		}
	default:
		return nil, fmt.Errorf("%w: unknown booking kind %q", entity.ErrInvalidBooking, req.Kind)
	}

	if err := schedule.BookSeats(len(customers)); err != nil {
		return nil, fmt.Errorf("book %s: %w", schedule.Code(), err)
	}

	booking, err := s.record(ctx, schedule, customers, req)
	if err != nil {
		if releaseErr := schedule.CancelSeats(len(customers)); releaseErr != nil {
			logrus.WithField("schedule", schedule.Code()).WithError(releaseErr).Error("Failed to release seats after booking failure")
		}
		return nil, err
	}

	info := booking.Info()
	return &info, nil
}

func (s *bookingService) record(ctx context.Context, schedule *entity.ScheduledTour, customers []*entity.Customer, req *CreateBookingRequest) (*entity.Booking, error) {
	var (
		booking *entity.Booking
		err     error
	)
	id := s.ledger.nextID()
	if req.Kind == entity.BookingIndividual {
		booking, err = entity.NewIndividualBooking(id, schedule, customers[0], req.Single)
	} else {
		booking, err = entity.NewGroupBooking(id, schedule, customers)
	}
	if err != nil {
		return nil, err
	}

	if err := s.bookingRepo.Create(ctx, booking); err != nil {
		return nil, fmt.Errorf("record booking %d: %w", id, err)
	}
	return booking, nil
}

// resolveCustomers находит клиентов по паспортам, сохраняя порядок и отклоняя повторы
func (s *bookingService) resolveCustomers(ctx context.Context, passports []string) ([]*entity.Customer, error) {
	if len(passports) == 0 {
		return nil, fmt.Errorf("%w: at least one passport is required", entity.ErrInvalidBooking)
	}

	seen := make(map[string]struct{}, len(passports))
	customers := make([]*entity.Customer, 0, len(passports))
	for _, passport := range passports {
		if _, dup := seen[passport]; dup {
			return nil, fmt.Errorf("%w: %s", entity.ErrDuplicateCustomer, passport)
		}
		seen[passport] = struct{}{}

		customer, err := s.customerRepo.GetByPassport(ctx, passport)
		if err != nil {
			return nil, err
		}
		customers = append(customers, customer)
	}
	return customers, nil
}

func (s *bookingService) GetBooking(ctx context.Context, id int64) (*entity.BookingInfo, error) {
	defer s.ledger.lock()()

	booking, err := s.bookingRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	info := booking.Info()
	return &info, nil
}

func (s *bookingService) GetAllBookings(ctx context.Context) ([]entity.BookingInfo, error) {
	defer s.ledger.lock()()

	bookings, err := s.bookingRepo.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	return bookingInfos(bookings), nil
}

func (s *bookingService) GetScheduleBookings(ctx context.Context, scheduleCode string) ([]entity.BookingInfo, error) {
	defer s.ledger.lock()()

	if _, err := s.scheduleRepo.GetByCode(ctx, scheduleCode); err != nil {
		return nil, err
	}
	bookings, err := s.bookingRepo.GetBySchedule(ctx, scheduleCode)
	if err != nil {
		return nil, err
	}
	return bookingInfos(bookings), nil
}

// QuoteCancellation считает штраф на текущий момент без изменения состояния
func (s *bookingService) QuoteCancellation(ctx context.Context, id int64) (*CancellationQuote, error) {
	defer s.ledger.lock()()

	booking, err := s.bookingRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return newCancellationQuote(booking, s.ledger.Now()), nil
}

// CancelBooking удаляет бронирование и возвращает места отправлению
func (s *bookingService) CancelBooking(ctx context.Context, id int64) (*CancellationQuote, error) {
	quote, err := s.cancel(ctx, id)
	if err != nil {
		return nil, err
	}

	logrus.WithFields(logrus.Fields{
		"booking_id": quote.BookingID,
		"lead_days":  quote.LeadDays,
		"penalty":    quote.Penalty,
		"refund":     quote.Refund,
	}).Info("Booking cancelled")

	s.events.bookingCancelled(ctx, quote)
	return quote, nil
}

func (s *bookingService) cancel(ctx context.Context, id int64) (*CancellationQuote, error) {
	defer s.ledger.lock()()

	booking, err := s.bookingRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	quote := newCancellationQuote(booking, s.ledger.Now())

	if err := s.bookingRepo.Delete(ctx, id); err != nil {
		return nil, fmt.Errorf("cancel booking %d: %w", id, err)
	}
	if err := booking.ScheduledTour().CancelSeats(booking.Seats()); err != nil {
		// Бронирование возвращается на место, чтобы учет мест не разошелся
		if restoreErr := s.bookingRepo.Create(ctx, booking); restoreErr != nil {
			err = errors.Join(err, restoreErr)
		}
		return nil, fmt.Errorf("cancel booking %d: %w", id, err)
	}

	return quote, nil
}

// AddSeats проверяет, можно ли добавить путешественников. Ни один вид бронирования
// этого не допускает, поэтому операция всегда завершается ошибкой без изменений.
func (s *bookingService) AddSeats(ctx context.Context, id int64, req *AddSeatsRequest) (*entity.BookingInfo, error) {
	defer s.ledger.lock()()

	booking, err := s.bookingRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := booking.CanAddSeats(); err != nil {
		return nil, fmt.Errorf("add %d seats to booking %d: %w", len(req.Passports), id, err)
	}

	return nil, fmt.Errorf("add seats to booking %d: %w", id, entity.ErrAddSeatsUnsupported)
}

func bookingInfos(bookings []*entity.Booking) []entity.BookingInfo {
	out := make([]entity.BookingInfo, 0, len(bookings))
	for _, b := range bookings {
		out = append(out, b.Info())
	}
	return out
}
