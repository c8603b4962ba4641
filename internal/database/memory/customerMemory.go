package repository

import (
	"context"
	"fmt"

	"github.com/ds124wfegd/tourbooker/internal/entity"
)

type customerRepository struct {
	customers *store[string, *entity.Customer]
}

func NewCustomerRepository() CustomerRepository {
	return &customerRepository{customers: newStore[string, *entity.Customer]()}
}

func (r *customerRepository) Create(ctx context.Context, customer *entity.Customer) error {
	if !r.customers.insert(customer.Passport, customer) {
		return fmt.Errorf("%w: %s", entity.ErrCustomerExists, customer.Passport)
	}
	return nil
}

func (r *customerRepository) GetByPassport(ctx context.Context, passport string) (*entity.Customer, error) {
	customer, ok := r.customers.get(passport)
	if !ok {
		return nil, fmt.Errorf("%w: %s", entity.ErrCustomerNotFound, passport)
	}
	return customer, nil
}

func (r *customerRepository) GetAll(ctx context.Context) ([]*entity.Customer, error) {
	return r.customers.list(ctx, nil)
}
