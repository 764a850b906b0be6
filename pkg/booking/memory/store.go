// Package memory provides an in-process booking store for tests and local runs.
package memory

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/tournevent/booking/pkg/booking"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Store keeps all records in memory. It is safe for concurrent use.
type Store struct {
	mu       sync.RWMutex
	users    collection[booking.User]
	events   collection[booking.Event]
	bookings collection[booking.Booking]
}

// New creates an empty store.
func New() *Store {
	return &Store{
		users:    newCollection[booking.User](),
		events:   newCollection[booking.Event](),
		bookings: newCollection[booking.Booking](),
	}
}

func (s *Store) Users() booking.UserStore       { return &userStore{s} }
func (s *Store) Events() booking.EventStore     { return &eventStore{s} }
func (s *Store) Bookings() booking.BookingStore { return &bookingStore{s} }

// Ping always succeeds.
func (s *Store) Ping(ctx context.Context) error { return ctx.Err() }

// Close is a no-op.
func (s *Store) Close(context.Context) error { return nil }

// collection keeps records by id and remembers insertion order.
type collection[T any] struct {
	byID  map[primitive.ObjectID]*T
	order []primitive.ObjectID
}

func newCollection[T any]() collection[T] {
	return collection[T]{byID: make(map[primitive.ObjectID]*T)}
}

func (c *collection[T]) get(id primitive.ObjectID) (*T, bool) {
	rec, ok := c.byID[id]
	if !ok {
		return nil, false
	}
	cp := *rec
	return &cp, true
}

func (c *collection[T]) all() []*T {
	out := make([]*T, 0, len(c.order))
	for _, id := range c.order {
		cp := *c.byID[id]
		out = append(out, &cp)
	}
	return out
}

func (c *collection[T]) put(id primitive.ObjectID, rec *T) {
	cp := *rec
	if _, ok := c.byID[id]; !ok {
		c.order = append(c.order, id)
	}
	c.byID[id] = &cp
}

func (c *collection[T]) remove(id primitive.ObjectID) bool {
	if _, ok := c.byID[id]; !ok {
		return false
	}
	delete(c.byID, id)
	for i, oid := range c.order {
		if oid == id {
			c.order = append(c.order[:i], c.order[i+1:]...)
			break
		}
	}
	return true
}

type userStore struct{ s *Store }

func (u *userStore) FindByID(ctx context.Context, id string) (*booking.User, error) {
	oid, err := booking.ParseID("user", id)
	if err != nil {
		return nil, err
	}
	u.s.mu.RLock()
	defer u.s.mu.RUnlock()
	rec, ok := u.s.users.get(oid)
	if !ok {
		return nil, booking.NotFound("user", id)
	}
	return withEvents(rec), nil
}

func (u *userStore) FindByEmail(ctx context.Context, email string) (*booking.User, error) {
	u.s.mu.RLock()
	defer u.s.mu.RUnlock()
	for _, rec := range u.s.users.all() {
		if rec.Email == email {
			return withEvents(rec), nil
		}
	}
	return nil, booking.NotFound("user", email)
}

func (u *userStore) FindAll(ctx context.Context) ([]*booking.User, error) {
	u.s.mu.RLock()
	defer u.s.mu.RUnlock()
	users := u.s.users.all()
	for i, rec := range users {
		users[i] = withEvents(rec)
	}
	return users, nil
}

func (u *userStore) First(ctx context.Context) (*booking.User, error) {
	u.s.mu.RLock()
	defer u.s.mu.RUnlock()
	if len(u.s.users.order) == 0 {
		return nil, booking.NewError(booking.KindNotFound, "no users")
	}
	rec, _ := u.s.users.get(u.s.users.order[0])
	return withEvents(rec), nil
}

func (u *userStore) Insert(ctx context.Context, rec *booking.User) error {
	u.s.mu.Lock()
	defer u.s.mu.Unlock()
	for _, existing := range u.s.users.byID {
		if existing.Email == rec.Email {
			return booking.NewError(booking.KindConflict, fmt.Sprintf("user exists already: %s", rec.Email))
		}
	}
	rec.ID = primitive.NewObjectID()
	if rec.CreatedEvents == nil {
		rec.CreatedEvents = []primitive.ObjectID{}
	}
	u.s.users.put(rec.ID, withEvents(rec))
	return nil
}

func (u *userStore) AppendCreatedEvent(ctx context.Context, userID, eventID string) error {
	uid, err := booking.ParseID("user", userID)
	if err != nil {
		return err
	}
	eid, err := booking.ParseID("event", eventID)
	if err != nil {
		return err
	}
	u.s.mu.Lock()
	defer u.s.mu.Unlock()
	rec, ok := u.s.users.get(uid)
	if !ok {
		return booking.NotFound("user", userID)
	}
	rec.CreatedEvents = append(withEvents(rec).CreatedEvents, eid)
	u.s.users.put(uid, rec)
	return nil
}

// withEvents returns a copy of u whose CreatedEvents slice is not shared.
func withEvents(u *booking.User) *booking.User {
	cp := *u
	cp.CreatedEvents = append([]primitive.ObjectID{}, u.CreatedEvents...)
	return &cp
}

type eventStore struct{ s *Store }

func (e *eventStore) FindByID(ctx context.Context, id string) (*booking.Event, error) {
	oid, err := booking.ParseID("event", id)
	if err != nil {
		return nil, err
	}
	e.s.mu.RLock()
	defer e.s.mu.RUnlock()
	rec, ok := e.s.events.get(oid)
	if !ok {
		return nil, booking.NotFound("event", id)
	}
	return rec, nil
}

func (e *eventStore) FindByIDs(ctx context.Context, ids []string) ([]*booking.Event, error) {
	e.s.mu.RLock()
	defer e.s.mu.RUnlock()
	out := make([]*booking.Event, 0, len(ids))
	for _, oid := range booking.ParseIDs(ids) {
		if rec, ok := e.s.events.get(oid); ok {
			out = append(out, rec)
		}
	}
	return out, nil
}

func (e *eventStore) FindAll(ctx context.Context) ([]*booking.Event, error) {
	e.s.mu.RLock()
	defer e.s.mu.RUnlock()
	return e.s.events.all(), nil
}

func (e *eventStore) Insert(ctx context.Context, rec *booking.Event) error {
	e.s.mu.Lock()
	defer e.s.mu.Unlock()
	rec.ID = primitive.NewObjectID()
	rec.Date = rec.Date.UTC().Truncate(time.Millisecond)
	e.s.events.put(rec.ID, rec)
	return nil
}

func (e *eventStore) Delete(ctx context.Context, id string) error {
	oid, err := booking.ParseID("event", id)
	if err != nil {
		return err
	}
	e.s.mu.Lock()
	defer e.s.mu.Unlock()
	if !e.s.events.remove(oid) {
		return booking.NotFound("event", id)
	}
	return nil
}

type bookingStore struct{ s *Store }

func (b *bookingStore) FindByID(ctx context.Context, id string) (*booking.Booking, error) {
	oid, err := booking.ParseID("booking", id)
	if err != nil {
		return nil, err
	}
	b.s.mu.RLock()
	defer b.s.mu.RUnlock()
	rec, ok := b.s.bookings.get(oid)
	if !ok {
		return nil, booking.NotFound("booking", id)
	}
	return rec, nil
}

func (b *bookingStore) FindByIDWithEvent(ctx context.Context, id string) (*booking.Booking, *booking.Event, error) {
	oid, err := booking.ParseID("booking", id)
	if err != nil {
		return nil, nil, err
	}
	b.s.mu.RLock()
	defer b.s.mu.RUnlock()
	rec, ok := b.s.bookings.get(oid)
	if !ok {
		return nil, nil, booking.NotFound("booking", id)
	}
	event, ok := b.s.events.get(rec.Event)
	if !ok {
		return nil, nil, booking.NotFound("event", rec.Event.Hex())
	}
	return rec, event, nil
}

func (b *bookingStore) FindAll(ctx context.Context) ([]*booking.Booking, error) {
	b.s.mu.RLock()
	defer b.s.mu.RUnlock()
	return b.s.bookings.all(), nil
}

func (b *bookingStore) Insert(ctx context.Context, rec *booking.Booking) error {
	b.s.mu.Lock()
	defer b.s.mu.Unlock()
	now := booking.Now()
	rec.ID = primitive.NewObjectID()
	rec.CreatedAt = now
	rec.UpdatedAt = now
	b.s.bookings.put(rec.ID, rec)
	return nil
}

func (b *bookingStore) Delete(ctx context.Context, id string) error {
	oid, err := booking.ParseID("booking", id)
	if err != nil {
		return err
	}
	b.s.mu.Lock()
	defer b.s.mu.Unlock()
	if !b.s.bookings.remove(oid) {
		return booking.NotFound("booking", id)
	}
	return nil
}
