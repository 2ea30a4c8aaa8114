// Package registry records price-drop subscriptions keyed by normalized
// email. Dedupe is global across products, matching the behavior of the
// service this replaces.
package registry

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/pricedrop/notifier/pkg/email"
)

var (
	// ErrInvalidEmail indicates the submitted address failed validation.
	ErrInvalidEmail = errors.New("invalid email address")
	// ErrAlreadySubscribed indicates a record already exists for the normalized email.
	ErrAlreadySubscribed = errors.New("email already subscribed")
)

// Product is the product context captured with a subscription. It is supplied
// by the caller and never fetched or mutated here. Price is a display string,
// not a numeric amount.
type Product struct {
	Name  string `json:"name"`
	Price string `json:"price"`
	URL   string `json:"url"`
}

// Record is a stored subscription. Email is normalized (trimmed, lower-cased).
// Records are never mutated or deleted; there is no unsubscribe.
type Record struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	Product      Product   `json:"product"`
	SubscribedAt time.Time `json:"subscribedAt"`
}

// Store persists subscription records. Add must treat the duplicate check and
// the insert as one atomic unit: two concurrent Adds for the same normalized
// email must not both succeed.
type Store interface {
	Add(ctx context.Context, record Record) error
	Exists(ctx context.Context, normalizedEmail string) (bool, error)
	List(ctx context.Context) ([]Record, error)
	Count(ctx context.Context) (int, error)
}

// RecordedFunc is invoked after a subscription has been stored. It must not
// block the intake path for long; publishers hand off to a goroutine.
type RecordedFunc func(ctx context.Context, record Record)

// Service validates and stores subscriptions.
type Service struct {
	store    Store
	recorded RecordedFunc
	now      func() time.Time
}

// NewService constructs a registry service. recorded may be nil.
func NewService(store Store, recorded RecordedFunc) *Service {
	return &Service{
		store:    store,
		recorded: recorded,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// Subscribe validates the address, normalizes it, and stores a new record.
// The store mutates only on the success path.
func (s *Service) Subscribe(ctx context.Context, rawEmail string, product Product) (Record, error) {
	if rawEmail == "" || !email.Valid(rawEmail) {
		return Record{}, ErrInvalidEmail
	}

	record := Record{
		ID:           uuid.NewString(),
		Email:        email.Normalize(rawEmail),
		Product:      product,
		SubscribedAt: s.now(),
	}
	if err := s.store.Add(ctx, record); err != nil {
		return Record{}, err
	}

	if s.recorded != nil {
		s.recorded(ctx, record)
	}
	return record, nil
}

// List returns all records in insertion order.
func (s *Service) List(ctx context.Context) ([]Record, error) {
	return s.store.List(ctx)
}

// Count returns the number of stored records.
func (s *Service) Count(ctx context.Context) (int, error) {
	return s.store.Count(ctx)
}

// ErrorKind classifies subscribe failures for transport-specific mapping. The
// widget branches its user-facing message on this code, not on the HTTP
// status alone.
type ErrorKind string

const (
	ErrorInvalidEmail      ErrorKind = "invalid_email"
	ErrorAlreadySubscribed ErrorKind = "already_subscribed"
	ErrorServerFault       ErrorKind = "server_error"
)

// ClassifyError maps a subscribe error to its response code.
func ClassifyError(err error) ErrorKind {
	switch {
	case errors.Is(err, ErrInvalidEmail):
		return ErrorInvalidEmail
	case errors.Is(err, ErrAlreadySubscribed):
		return ErrorAlreadySubscribed
	default:
		return ErrorServerFault
	}
}
