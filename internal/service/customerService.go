package service

import (
	"context"
	"fmt"

	repository "github.com/ds124wfegd/tourbooker/internal/database/memory"
	"github.com/ds124wfegd/tourbooker/internal/entity"
	"github.com/sirupsen/logrus"
)

type customerService struct {
	ledger       *Ledger
	customerRepo repository.CustomerRepository
	bookingRepo  repository.BookingRepository
}

func NewCustomerService(
	ledger *Ledger,
	customerRepo repository.CustomerRepository,
	bookingRepo repository.BookingRepository,
) CustomerService {
	return &customerService{
		ledger:       ledger,
		customerRepo: customerRepo,
		bookingRepo:  bookingRepo,
	}
}

func (s *customerService) RegisterCustomer(ctx context.Context, req *RegisterCustomerRequest) (*entity.Customer, error) {
	customer, err := entity.NewCustomer(req.Passport, req.Name, req.DateOfBirth.Time, req.Contact)
	if err != nil {
		return nil, err
	}

	defer s.ledger.lock()()

	if err := s.customerRepo.Create(ctx, customer); err != nil {
		return nil, fmt.Errorf("register customer: %w", err)
	}

	logrus.WithField("passport", customer.Passport).Info("Customer registered")
	return copyCustomer(customer), nil
}

func (s *customerService) GetCustomer(ctx context.Context, passport string) (*entity.Customer, error) {
	customer, err := s.customerRepo.GetByPassport(ctx, passport)
	if err != nil {
		return nil, err
	}
	return copyCustomer(customer), nil
}

func (s *customerService) GetAllCustomers(ctx context.Context) ([]*entity.Customer, error) {
	customers, err := s.customerRepo.GetAll(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]*entity.Customer, 0, len(customers))
	for _, c := range customers {
		out = append(out, copyCustomer(c))
	}
	return out, nil
}

func (s *customerService) GetCustomerBookings(ctx context.Context, passport string) ([]entity.BookingInfo, error) {
	if _, err := s.customerRepo.GetByPassport(ctx, passport); err != nil {
		return nil, err
	}

	defer s.ledger.lock()()

	bookings, err := s.bookingRepo.GetByCustomer(ctx, passport)
	if err != nil {
		return nil, err
	}
	return bookingInfos(bookings), nil
}

func copyCustomer(c *entity.Customer) *entity.Customer {
	out := *c
	return &out
}
