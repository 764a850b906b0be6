package graphql

import (
	"fmt"
	"time"

	"github.com/tournevent/booking/internal/graphql/model"
	"github.com/tournevent/booking/pkg/booking"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const timestampLayout = "2006-01-02T15:04:05.000Z"

// Accepted layouts for EventInput.date, most specific first.
var eventDateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02",
}

func formatTimestamp(t time.Time) string {
	return t.UTC().Format(timestampLayout)
}

func parseEventDate(s string) (time.Time, error) {
	for _, layout := range eventDateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, booking.NewError(booking.KindInvalidInput, fmt.Sprintf("invalid event date: %q", s))
}

func hexIDs(ids []primitive.ObjectID) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = id.Hex()
	}
	return out
}

func eventToGraphQL(e *booking.Event) *model.Event {
	if e == nil {
		return nil
	}
	return &model.Event{
		ID:          e.ID.Hex(),
		Title:       e.Title,
		Description: e.Description,
		Price:       e.Price,
		Date:        formatTimestamp(e.Date),
		Creator:     model.UserRef{ID: e.Creator.Hex()},
	}
}

func userToGraphQL(u *booking.User) *model.User {
	if u == nil {
		return nil
	}
	return &model.User{
		ID:            u.ID.Hex(),
		Email:         u.Email,
		CreatedEvents: model.EventListRef{IDs: hexIDs(u.CreatedEvents)},
	}
}

func bookingToGraphQL(b *booking.Booking) *model.Booking {
	if b == nil {
		return nil
	}
	return &model.Booking{
		ID:        b.ID.Hex(),
		Event:     model.EventRef{ID: b.Event.Hex()},
		User:      model.UserRef{ID: b.User.Hex()},
		CreatedAt: formatTimestamp(b.CreatedAt),
		UpdatedAt: formatTimestamp(b.UpdatedAt),
	}
}

func eventsToGraphQL(events []*booking.Event) []*model.Event {
	out := make([]*model.Event, len(events))
	for i, e := range events {
		out[i] = eventToGraphQL(e)
	}
	return out
}

func usersToGraphQL(users []*booking.User) []*model.User {
	out := make([]*model.User, len(users))
	for i, u := range users {
		out[i] = userToGraphQL(u)
	}
	return out
}

func bookingsToGraphQL(bookings []*booking.Booking) []*model.Booking {
	out := make([]*model.Booking, len(bookings))
	for i, b := range bookings {
		out[i] = bookingToGraphQL(b)
	}
	return out
}
