package domain

import (
	"errors"

	"github.com/shopspring/decimal"
)

// Status enumerates order progression. Any transition between known states is
// allowed.
type Status string

const (
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
	StatusCancelled  Status = "cancelled"
)

var (
	ErrInvalidCustomer = errors.New("customer account id must be greater than zero")
	ErrInvalidBusiness = errors.New("business account id must be greater than zero")
	ErrInvalidStatus   = errors.New("order status is invalid")
	ErrEmptyTitle      = errors.New("order title is required")
)

// Order is a purchase of one offer package. The package fields are copied at
// creation time so later catalog edits never change existing orders.
type Order struct {
	ID            int64
	CustomerID    int64
	BusinessID    int64
	OfferID       int64
	OfferDetailID int64

	Title              string
	Revisions          int
	DeliveryTimeInDays int
	Price              decimal.Decimal
	Features           []string
	OfferType          string

	Status Status
}

// Snapshot carries the package fields copied into a new order.
type Snapshot struct {
	OfferID            int64
	OfferDetailID      int64
	Title              string
	Revisions          int
	DeliveryTimeInDays int
	Price              decimal.Decimal
	Features           []string
	OfferType          string
}

// NewOrder validates and constructs an order from a package snapshot. The
// status starts at in_progress.
func NewOrder(customerID, businessID int64, snapshot Snapshot) (*Order, error) {
	order := &Order{
		CustomerID:         customerID,
		BusinessID:         businessID,
		OfferID:            snapshot.OfferID,
		OfferDetailID:      snapshot.OfferDetailID,
		Title:              snapshot.Title,
		Revisions:          snapshot.Revisions,
		DeliveryTimeInDays: snapshot.DeliveryTimeInDays,
		Price:              snapshot.Price,
		Features:           append([]string{}, snapshot.Features...),
		OfferType:          snapshot.OfferType,
		Status:             StatusInProgress,
	}
	if err := order.Validate(); err != nil {
		return nil, err
	}
	return order, nil
}

// Validate enforces invariants on the aggregate.
func (o *Order) Validate() error {
	if o.CustomerID <= 0 {
		return ErrInvalidCustomer
	}
	if o.BusinessID <= 0 {
		return ErrInvalidBusiness
	}
	if o.Title == "" {
		return ErrEmptyTitle
	}
	if !ValidStatus(o.Status) {
		return ErrInvalidStatus
	}
	return nil
}

// UpdateStatus accepts any known state. An empty status defaults to in_progress.
func (o *Order) UpdateStatus(status Status) error {
	if status == "" {
		status = StatusInProgress
	}
	if !ValidStatus(status) {
		return ErrInvalidStatus
	}
	o.Status = status
	return nil
}

// ValidStatus reports whether the status is one of the known states.
func ValidStatus(status Status) bool {
	switch status {
	case StatusInProgress, StatusCompleted, StatusCancelled:
		return true
	default:
		return false
	}
}

// Clone returns a deep copy of the order.
func (o *Order) Clone() *Order {
	if o == nil {
		return nil
	}
	copy := *o
	copy.Features = append([]string{}, o.Features...)
	return &copy
}
