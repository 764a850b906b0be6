// Package booking provides the document store abstraction for users, events
// and bookings.
package booking

import (
	"context"
)

// Store groups the collections backing the booking service.
type Store interface {
	Users() UserStore
	Events() EventStore
	Bookings() BookingStore

	// Ping checks that the backend is reachable.
	Ping(ctx context.Context) error

	// Close releases the backend connection.
	Close(ctx context.Context) error
}

// UserStore persists User records.
type UserStore interface {
	// FindByID returns the user with the given id or an ErrNotFound error.
	FindByID(ctx context.Context, id string) (*User, error)

	// FindByEmail returns the user registered with email or an ErrNotFound error.
	FindByEmail(ctx context.Context, email string) (*User, error)

	// FindAll returns every user in insertion order.
	FindAll(ctx context.Context) ([]*User, error)

	// First returns the oldest user or an ErrNotFound error when there is none.
	First(ctx context.Context) (*User, error)

	// Insert assigns an id to u and stores it. A duplicate email is an ErrConflict error.
	Insert(ctx context.Context, u *User) error

	// AppendCreatedEvent adds eventID to the user's created events.
	AppendCreatedEvent(ctx context.Context, userID, eventID string) error
}

// EventStore persists Event records.
type EventStore interface {
	FindByID(ctx context.Context, id string) (*Event, error)

	// FindByIDs returns the events for ids in the order of ids. Unknown ids are skipped.
	FindByIDs(ctx context.Context, ids []string) ([]*Event, error)

	FindAll(ctx context.Context) ([]*Event, error)
	Insert(ctx context.Context, e *Event) error
	Delete(ctx context.Context, id string) error
}

// BookingStore persists Booking records.
type BookingStore interface {
	FindByID(ctx context.Context, id string) (*Booking, error)

	// FindByIDWithEvent returns the booking together with the event it references.
	FindByIDWithEvent(ctx context.Context, id string) (*Booking, *Event, error)

	FindAll(ctx context.Context) ([]*Booking, error)

	// Insert assigns an id and both timestamps to b and stores it.
	Insert(ctx context.Context, b *Booking) error

	Delete(ctx context.Context, id string) error
}
