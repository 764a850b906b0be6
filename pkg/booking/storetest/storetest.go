// Package storetest holds behaviour tests shared by every booking.Store backend.
package storetest

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tournevent/booking/pkg/booking"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Run exercises a backend. newStore must return an empty store for each call.
func Run(t *testing.T, newStore func(t *testing.T) booking.Store) {
	t.Run("UserInsertAndFind", func(t *testing.T) { testUserInsertAndFind(t, newStore(t)) })
	t.Run("UserDuplicateEmail", func(t *testing.T) { testUserDuplicateEmail(t, newStore(t)) })
	t.Run("UserFirst", func(t *testing.T) { testUserFirst(t, newStore(t)) })
	t.Run("UserAppendCreatedEvent", func(t *testing.T) { testUserAppendCreatedEvent(t, newStore(t)) })
	t.Run("EventFindByIDs", func(t *testing.T) { testEventFindByIDs(t, newStore(t)) })
	t.Run("EventDelete", func(t *testing.T) { testEventDelete(t, newStore(t)) })
	t.Run("BookingLifecycle", func(t *testing.T) { testBookingLifecycle(t, newStore(t)) })
	t.Run("MalformedIDs", func(t *testing.T) { testMalformedIDs(t, newStore(t)) })
}

func insertUser(t *testing.T, s booking.Store, email string) *booking.User {
	t.Helper()
	u := &booking.User{Email: email, Password: "hash"}
	require.NoError(t, s.Users().Insert(context.Background(), u))
	require.False(t, u.ID.IsZero())
	return u
}

func insertEvent(t *testing.T, s booking.Store, title string, creator primitive.ObjectID) *booking.Event {
	t.Helper()
	e := &booking.Event{
		Title:       title,
		Description: "desc",
		Price:       9.5,
		Date:        time.Date(2026, 3, 1, 18, 30, 0, 123456789, time.UTC),
		Creator:     creator,
	}
	require.NoError(t, s.Events().Insert(context.Background(), e))
	require.False(t, e.ID.IsZero())
	return e
}

func testUserInsertAndFind(t *testing.T, s booking.Store) {
	ctx := context.Background()
	u := insertUser(t, s, "a@x.com")

	got, err := s.Users().FindByID(ctx, u.ID.Hex())
	require.NoError(t, err)
	assert.Equal(t, "a@x.com", got.Email)
	assert.Equal(t, "hash", got.Password)
	assert.Empty(t, got.CreatedEvents)

	got, err = s.Users().FindByEmail(ctx, "a@x.com")
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)

	_, err = s.Users().FindByEmail(ctx, "missing@x.com")
	assert.True(t, errors.Is(err, booking.ErrNotFound))

	_, err = s.Users().FindByID(ctx, primitive.NewObjectID().Hex())
	assert.True(t, errors.Is(err, booking.ErrNotFound))

	insertUser(t, s, "b@x.com")
	all, err := s.Users().FindAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "a@x.com", all[0].Email)
	assert.Equal(t, "b@x.com", all[1].Email)
}

func testUserDuplicateEmail(t *testing.T, s booking.Store) {
	ctx := context.Background()
	insertUser(t, s, "a@x.com")

	err := s.Users().Insert(ctx, &booking.User{Email: "a@x.com", Password: "other"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, booking.ErrConflict))

	all, err := s.Users().FindAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func testUserFirst(t *testing.T, s booking.Store) {
	ctx := context.Background()
	_, err := s.Users().First(ctx)
	assert.True(t, errors.Is(err, booking.ErrNotFound))

	first := insertUser(t, s, "first@x.com")
	insertUser(t, s, "second@x.com")

	got, err := s.Users().First(ctx)
	require.NoError(t, err)
	assert.Equal(t, first.ID, got.ID)
}

func testUserAppendCreatedEvent(t *testing.T, s booking.Store) {
	ctx := context.Background()
	u := insertUser(t, s, "a@x.com")
	e1 := insertEvent(t, s, "one", u.ID)
	e2 := insertEvent(t, s, "two", u.ID)

	require.NoError(t, s.Users().AppendCreatedEvent(ctx, u.ID.Hex(), e1.ID.Hex()))
	require.NoError(t, s.Users().AppendCreatedEvent(ctx, u.ID.Hex(), e2.ID.Hex()))

	got, err := s.Users().FindByID(ctx, u.ID.Hex())
	require.NoError(t, err)
	assert.Equal(t, []primitive.ObjectID{e1.ID, e2.ID}, got.CreatedEvents)

	err = s.Users().AppendCreatedEvent(ctx, primitive.NewObjectID().Hex(), e1.ID.Hex())
	assert.True(t, errors.Is(err, booking.ErrNotFound))
}

func testEventFindByIDs(t *testing.T, s booking.Store) {
	ctx := context.Background()
	u := insertUser(t, s, "a@x.com")
	e1 := insertEvent(t, s, "one", u.ID)
	e2 := insertEvent(t, s, "two", u.ID)

	got, err := s.Events().FindByID(ctx, e1.ID.Hex())
	require.NoError(t, err)
	assert.Equal(t, "one", got.Title)
	assert.Equal(t, 9.5, got.Price)
	assert.Equal(t, u.ID, got.Creator)
	assert.True(t, got.Date.Equal(time.Date(2026, 3, 1, 18, 30, 0, 123000000, time.UTC)))

	events, err := s.Events().FindByIDs(ctx, []string{e2.ID.Hex(), primitive.NewObjectID().Hex(), "bogus", e1.ID.Hex()})
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, "two", events[0].Title)
	assert.Equal(t, "one", events[1].Title)

	events, err = s.Events().FindByIDs(ctx, nil)
	require.NoError(t, err)
	assert.Empty(t, events)

	all, err := s.Events().FindAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func testEventDelete(t *testing.T, s booking.Store) {
	ctx := context.Background()
	u := insertUser(t, s, "a@x.com")
	e := insertEvent(t, s, "one", u.ID)

	require.NoError(t, s.Events().Delete(ctx, e.ID.Hex()))
	_, err := s.Events().FindByID(ctx, e.ID.Hex())
	assert.True(t, errors.Is(err, booking.ErrNotFound))

	err = s.Events().Delete(ctx, e.ID.Hex())
	assert.True(t, errors.Is(err, booking.ErrNotFound))
}

func testBookingLifecycle(t *testing.T, s booking.Store) {
	ctx := context.Background()
	u := insertUser(t, s, "a@x.com")
	e := insertEvent(t, s, "one", u.ID)

	b := &booking.Booking{Event: e.ID, User: u.ID}
	require.NoError(t, s.Bookings().Insert(ctx, b))
	require.False(t, b.ID.IsZero())
	assert.False(t, b.CreatedAt.IsZero())
	assert.Equal(t, b.CreatedAt, b.UpdatedAt)

	got, err := s.Bookings().FindByID(ctx, b.ID.Hex())
	require.NoError(t, err)
	assert.Equal(t, e.ID, got.Event)
	assert.Equal(t, u.ID, got.User)

	gotBooking, gotEvent, err := s.Bookings().FindByIDWithEvent(ctx, b.ID.Hex())
	require.NoError(t, err)
	assert.Equal(t, b.ID, gotBooking.ID)
	assert.Equal(t, "one", gotEvent.Title)

	all, err := s.Bookings().FindAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)

	require.NoError(t, s.Bookings().Delete(ctx, b.ID.Hex()))
	all, err = s.Bookings().FindAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)

	_, _, err = s.Bookings().FindByIDWithEvent(ctx, b.ID.Hex())
	assert.True(t, errors.Is(err, booking.ErrNotFound))

	orphan := &booking.Booking{Event: primitive.NewObjectID(), User: u.ID}
	require.NoError(t, s.Bookings().Insert(ctx, orphan))
	_, _, err = s.Bookings().FindByIDWithEvent(ctx, orphan.ID.Hex())
	assert.True(t, errors.Is(err, booking.ErrNotFound))
}

func testMalformedIDs(t *testing.T, s booking.Store) {
	ctx := context.Background()

	_, err := s.Users().FindByID(ctx, "not-an-id")
	assert.True(t, errors.Is(err, booking.ErrNotFound))
	_, err = s.Events().FindByID(ctx, "not-an-id")
	assert.True(t, errors.Is(err, booking.ErrNotFound))
	_, err = s.Bookings().FindByID(ctx, "not-an-id")
	assert.True(t, errors.Is(err, booking.ErrNotFound))
	err = s.Bookings().Delete(ctx, "not-an-id")
	assert.True(t, errors.Is(err, booking.ErrNotFound))
}
