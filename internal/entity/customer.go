package entity

import (
	"fmt"
	"strings"
	"time"
)

// Customer is a passenger record. Bookings reference customers, they never own them.
type Customer struct {
	Passport    string    `json:"passport"`
	Name        string    `json:"name"`
	DateOfBirth time.Time `json:"date_of_birth"`
	Contact     string    `json:"contact"`
}

func NewCustomer(passport, name string, dateOfBirth time.Time, contact string) (*Customer, error) {
	passport = strings.TrimSpace(passport)
	if passport == "" {
		return nil, fmt.Errorf("%w: passport number is required", ErrInvalidCustomer)
	}
	if strings.TrimSpace(name) == "" {
		return nil, fmt.Errorf("%w: name is required", ErrInvalidCustomer)
	}
	if dateOfBirth.IsZero() {
		return nil, fmt.Errorf("%w: date of birth is required", ErrInvalidCustomer)
	}

	return &Customer{
		Passport:    passport,
		Name:        strings.TrimSpace(name),
		DateOfBirth: dateOfBirth,
		Contact:     strings.TrimSpace(contact),
	}, nil
}

// Age returns the number of full years between the date of birth and now.
func (c *Customer) Age(now time.Time) int {
	age := now.Year() - c.DateOfBirth.Year()
	if now.Month() < c.DateOfBirth.Month() ||
		(now.Month() == c.DateOfBirth.Month() && now.Day() < c.DateOfBirth.Day()) {
		age--
	}
	return age
}

func (c *Customer) String() string {
	return fmt.Sprintf("Passport: %s Name: %s Age: %d Contact: %s",
		c.Passport, c.Name, c.Age(time.Now()), c.Contact)
}
