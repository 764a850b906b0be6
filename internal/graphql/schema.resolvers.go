package graphql

import (
	"context"
	"errors"
	"fmt"

	"github.com/tournevent/booking/internal/actor"
	"github.com/tournevent/booking/internal/graphql/model"
	"github.com/tournevent/booking/pkg/booking"
	"go.uber.org/zap"
)

// Events is the resolver for the events field.
func (r *queryResolver) Events(ctx context.Context) (result []*model.Event, err error) {
	ctx, done := r.observe(ctx, "events")
	defer func() { done(err) }()

	events, err := r.Store.Events().FindAll(ctx)
	if err != nil {
		return nil, err
	}
	return eventsToGraphQL(events), nil
}

// Users is the resolver for the users field.
func (r *queryResolver) Users(ctx context.Context) (result []*model.User, err error) {
	ctx, done := r.observe(ctx, "users")
	defer func() { done(err) }()

	users, err := r.Store.Users().FindAll(ctx)
	if err != nil {
		return nil, err
	}
	return usersToGraphQL(users), nil
}

// Bookings is the resolver for the bookings field.
func (r *queryResolver) Bookings(ctx context.Context) (result []*model.Booking, err error) {
	ctx, done := r.observe(ctx, "bookings")
	defer func() { done(err) }()

	bookings, err := r.Store.Bookings().FindAll(ctx)
	if err != nil {
		return nil, err
	}
	return bookingsToGraphQL(bookings), nil
}

// CreateEvent is the resolver for the createEvent field.
func (r *mutationResolver) CreateEvent(ctx context.Context, input *model.EventInput) (result *model.Event, err error) {
	ctx, done := r.observe(ctx, "createEvent")
	defer func() { done(err) }()

	userID, ok := actor.UserID(ctx)
	if !ok {
		return nil, booking.NewError(booking.KindPreconditionNotMet, "cannot create an event before a user exists")
	}
	if input == nil {
		return nil, booking.NewError(booking.KindInvalidInput, "eventInput is required")
	}

	creator, err := r.Store.Users().FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, booking.ErrNotFound) {
			return nil, booking.NewError(booking.KindNotFound, "could not find user who created event")
		}
		return nil, err
	}

	date, err := parseEventDate(input.Date)
	if err != nil {
		return nil, err
	}

	rec := &booking.Event{
		Title:       input.Title,
		Description: input.Description,
		Price:       input.Price,
		Date:        date,
		Creator:     creator.ID,
	}
	if err := r.Store.Events().Insert(ctx, rec); err != nil {
		return nil, err
	}

	eventID := rec.ID.Hex()
	if err := r.Store.Users().AppendCreatedEvent(ctx, userID, eventID); err != nil {
		if delErr := r.Store.Events().Delete(ctx, eventID); delErr != nil {
			r.Logger.Ctx(ctx).Error("Failed to remove unlinked event",
				zap.String("event_id", eventID),
				zap.Error(delErr),
			)
		}
		return nil, err
	}

	r.Logger.Ctx(ctx).Info("Event created",
		zap.String("event_id", eventID),
		zap.String("creator_id", userID),
	)
	return eventToGraphQL(rec), nil
}

// CreateUser is the resolver for the createUser field.
func (r *mutationResolver) CreateUser(ctx context.Context, input *model.UserInput) (result *model.User, err error) {
	ctx, done := r.observe(ctx, "createUser")
	defer func() { done(err) }()

	if input == nil {
		return nil, booking.NewError(booking.KindInvalidInput, "userInput is required")
	}

	_, err = r.Store.Users().FindByEmail(ctx, input.Email)
	switch {
	case err == nil:
		return nil, booking.NewError(booking.KindConflict, fmt.Sprintf("user exists already: %s", input.Email))
	case !errors.Is(err, booking.ErrNotFound):
		return nil, err
	}

	hash, err := booking.HashPassword(input.Password, r.SaltRounds)
	if err != nil {
		return nil, booking.NewError(booking.KindInvalidInput, "cannot hash password").WithCause(err)
	}

	rec := &booking.User{Email: input.Email, Password: hash}
	if err := r.Store.Users().Insert(ctx, rec); err != nil {
		return nil, err
	}

	userID := rec.ID.Hex()
	if r.Defaults.SetIfEmpty(userID) {
		r.Logger.Ctx(ctx).Info("Default acting user set", zap.String("user_id", userID))
	}
	return userToGraphQL(rec), nil
}

// BookEvent is the resolver for the bookEvent field.
// The acting user is referenced as is; its existence is not checked.
func (r *mutationResolver) BookEvent(ctx context.Context, eventID string) (result *model.Booking, err error) {
	ctx, done := r.observe(ctx, "bookEvent")
	defer func() { done(err) }()

	userID, ok := actor.UserID(ctx)
	if !ok {
		return nil, booking.NewError(booking.KindPreconditionNotMet, "cannot book an event before a user exists")
	}
	uid, err := booking.ParseID("user", userID)
	if err != nil {
		return nil, err
	}

	event, err := r.Store.Events().FindByID(ctx, eventID)
	if err != nil {
		return nil, err
	}

	rec := &booking.Booking{Event: event.ID, User: uid}
	if err := r.Store.Bookings().Insert(ctx, rec); err != nil {
		return nil, err
	}
	return bookingToGraphQL(rec), nil
}

// CancelBooking is the resolver for the cancelBooking field.
func (r *mutationResolver) CancelBooking(ctx context.Context, bookingID string) (result *model.Event, err error) {
	ctx, done := r.observe(ctx, "cancelBooking")
	defer func() { done(err) }()

	_, event, err := r.Store.Bookings().FindByIDWithEvent(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if err := r.Store.Bookings().Delete(ctx, bookingID); err != nil {
		return nil, err
	}
	return eventToGraphQL(event), nil
}

// Creator is the resolver for the creator field.
func (r *eventResolver) Creator(ctx context.Context, obj *model.Event) (result *model.User, err error) {
	ctx, done := r.observe(ctx, "Event.creator")
	defer func() { done(err) }()

	user, err := r.Store.Users().FindByID(ctx, obj.Creator.ID)
	if err != nil {
		return nil, err
	}
	return userToGraphQL(user), nil
}

// CreatedEvents is the resolver for the createdEvents field.
func (r *userResolver) CreatedEvents(ctx context.Context, obj *model.User) (result []*model.Event, err error) {
	ctx, done := r.observe(ctx, "User.createdEvents")
	defer func() { done(err) }()

	events, err := r.Store.Events().FindByIDs(ctx, obj.CreatedEvents.IDs)
	if err != nil {
		return nil, err
	}
	return eventsToGraphQL(events), nil
}

// Event is the resolver for the event field.
func (r *bookingResolver) Event(ctx context.Context, obj *model.Booking) (result *model.Event, err error) {
	ctx, done := r.observe(ctx, "Booking.event")
	defer func() { done(err) }()

	event, err := r.Store.Events().FindByID(ctx, obj.Event.ID)
	if err != nil {
		return nil, err
	}
	return eventToGraphQL(event), nil
}

// User is the resolver for the user field.
func (r *bookingResolver) User(ctx context.Context, obj *model.Booking) (result *model.User, err error) {
	ctx, done := r.observe(ctx, "Booking.user")
	defer func() { done(err) }()

	user, err := r.Store.Users().FindByID(ctx, obj.User.ID)
	if err != nil {
		return nil, err
	}
	return userToGraphQL(user), nil
}
