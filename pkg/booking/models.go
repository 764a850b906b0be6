package booking

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User is a stored user account. Password holds the bcrypt hash.
type User struct {
	ID            primitive.ObjectID   `bson:"_id,omitempty"`
	Email         string               `bson:"email"`
	Password      string               `bson:"password"`
	CreatedEvents []primitive.ObjectID `bson:"createdEvents"`
}

// Event is a stored event created by a user.
type Event struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	Title       string             `bson:"title"`
	Description string             `bson:"description"`
	Price       float64            `bson:"price"`
	Date        time.Time          `bson:"date"`
	Creator     primitive.ObjectID `bson:"creator"`
}

// Booking links a user to an event.
type Booking struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	Event     primitive.ObjectID `bson:"event"`
	User      primitive.ObjectID `bson:"user"`
	CreatedAt time.Time          `bson:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt"`
}

// ParseID converts the textual form of a record id. A malformed id cannot
// reference any record, so it is reported as ErrNotFound for kind.
func ParseID(kind, id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, NotFound(kind, id)
	}
	return oid, nil
}

// ParseIDs converts ids, dropping the malformed ones.
func ParseIDs(ids []string) []primitive.ObjectID {
	oids := make([]primitive.ObjectID, 0, len(ids))
	for _, id := range ids {
		if oid, err := primitive.ObjectIDFromHex(id); err == nil {
			oids = append(oids, oid)
		}
	}
	return oids
}

// Now returns the current time at the precision the document store keeps.
func Now() time.Time {
	return time.Now().UTC().Truncate(time.Millisecond)
}
