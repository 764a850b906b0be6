// Package model holds the response and input shapes of the GraphQL API.
package model

// UserRef is a pending reference to a User. The executor resolves it only
// when the field is selected, and every resolution queries the store again.
type UserRef struct {
	ID string
}

// EventRef is a pending reference to an Event.
type EventRef struct {
	ID string
}

// EventListRef is a pending reference to a list of Events.
type EventListRef struct {
	IDs []string
}

type Event struct {
	ID          string
	Title       string
	Description string
	Price       float64
	Date        string
	Creator     UserRef
}

// User is the public projection of an account. It has no password field.
type User struct {
	ID            string
	Email         string
	CreatedEvents EventListRef
}

type Booking struct {
	ID        string
	Event     EventRef
	User      UserRef
	CreatedAt string
	UpdatedAt string
}

type EventInput struct {
	Title       string
	Description string
	Price       float64
	Date        string
}

type UserInput struct {
	Email    string
	Password string
}
