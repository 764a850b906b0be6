package mongodb

import (
	"context"
	"fmt"
	"time"

	"github.com/tournevent/booking/pkg/booking"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func byInsertion() *options.FindOptions {
	return options.Find().SetSort(bson.D{{Key: "_id", Value: 1}})
}

type userStore struct{ coll *mongo.Collection }

func (u *userStore) FindByID(ctx context.Context, id string) (*booking.User, error) {
	oid, err := booking.ParseID("user", id)
	if err != nil {
		return nil, err
	}
	var rec booking.User
	if err := u.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&rec); err != nil {
		return nil, notFoundOr(err, "user", id, "find user")
	}
	return &rec, nil
}

func (u *userStore) FindByEmail(ctx context.Context, email string) (*booking.User, error) {
	var rec booking.User
	if err := u.coll.FindOne(ctx, bson.M{"email": email}).Decode(&rec); err != nil {
		return nil, notFoundOr(err, "user", email, "find user by email")
	}
	return &rec, nil
}

func (u *userStore) FindAll(ctx context.Context) ([]*booking.User, error) {
	cur, err := u.coll.Find(ctx, bson.M{}, byInsertion())
	if err != nil {
		return nil, booking.StoreFailure("find users", err)
	}
	users := []*booking.User{}
	if err := cur.All(ctx, &users); err != nil {
		return nil, booking.StoreFailure("decode users", err)
	}
	return users, nil
}

func (u *userStore) First(ctx context.Context) (*booking.User, error) {
	var rec booking.User
	opts := options.FindOne().SetSort(bson.D{{Key: "_id", Value: 1}})
	if err := u.coll.FindOne(ctx, bson.M{}, opts).Decode(&rec); err != nil {
		return nil, notFoundOr(err, "user", "first", "find first user")
	}
	return &rec, nil
}

func (u *userStore) Insert(ctx context.Context, rec *booking.User) error {
	rec.ID = primitive.NewObjectID()
	if rec.CreatedEvents == nil {
		rec.CreatedEvents = []primitive.ObjectID{}
	}
	if _, err := u.coll.InsertOne(ctx, rec); err != nil {
		rec.ID = primitive.NilObjectID
		if mongo.IsDuplicateKeyError(err) {
			return booking.NewError(booking.KindConflict, fmt.Sprintf("user exists already: %s", rec.Email))
		}
		return booking.StoreFailure("insert user", err)
	}
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
	res, err := u.coll.UpdateOne(ctx,
		bson.M{"_id": uid},
		bson.M{"$push": bson.M{"createdEvents": eid}},
	)
	if err != nil {
		return booking.StoreFailure("update user", err)
	}
	if res.MatchedCount == 0 {
		return booking.NotFound("user", userID)
	}
	return nil
}

type eventStore struct{ coll *mongo.Collection }

func (e *eventStore) FindByID(ctx context.Context, id string) (*booking.Event, error) {
	oid, err := booking.ParseID("event", id)
	if err != nil {
		return nil, err
	}
	var rec booking.Event
	if err := e.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&rec); err != nil {
		return nil, notFoundOr(err, "event", id, "find event")
	}
	return &rec, nil
}

func (e *eventStore) FindByIDs(ctx context.Context, ids []string) ([]*booking.Event, error) {
	oids := booking.ParseIDs(ids)
	if len(oids) == 0 {
		return []*booking.Event{}, nil
	}
	cur, err := e.coll.Find(ctx, bson.M{"_id": bson.M{"$in": oids}})
	if err != nil {
		return nil, booking.StoreFailure("find events", err)
	}
	var found []*booking.Event
	if err := cur.All(ctx, &found); err != nil {
		return nil, booking.StoreFailure("decode events", err)
	}

	byID := make(map[primitive.ObjectID]*booking.Event, len(found))
	for _, ev := range found {
		byID[ev.ID] = ev
	}
	events := make([]*booking.Event, 0, len(found))
	for _, oid := range oids {
		if ev, ok := byID[oid]; ok {
			events = append(events, ev)
		}
	}
	return events, nil
}

func (e *eventStore) FindAll(ctx context.Context) ([]*booking.Event, error) {
	cur, err := e.coll.Find(ctx, bson.M{}, byInsertion())
	if err != nil {
		return nil, booking.StoreFailure("find events", err)
	}
	events := []*booking.Event{}
	if err := cur.All(ctx, &events); err != nil {
		return nil, booking.StoreFailure("decode events", err)
	}
	return events, nil
}

func (e *eventStore) Insert(ctx context.Context, rec *booking.Event) error {
	rec.ID = primitive.NewObjectID()
	rec.Date = rec.Date.UTC().Truncate(time.Millisecond)
	if _, err := e.coll.InsertOne(ctx, rec); err != nil {
		rec.ID = primitive.NilObjectID
		return booking.StoreFailure("insert event", err)
	}
	return nil
}

func (e *eventStore) Delete(ctx context.Context, id string) error {
	return deleteOne(ctx, e.coll, "event", id)
}

type bookingStore struct{ coll *mongo.Collection }

func (b *bookingStore) FindByID(ctx context.Context, id string) (*booking.Booking, error) {
	oid, err := booking.ParseID("booking", id)
	if err != nil {
		return nil, err
	}
	var rec booking.Booking
	if err := b.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&rec); err != nil {
		return nil, notFoundOr(err, "booking", id, "find booking")
	}
	return &rec, nil
}

// bookingWithEvent is the shape produced by the $lookup join.
type bookingWithEvent struct {
	booking.Booking `bson:",inline"`
	Events          []booking.Event `bson:"eventDocs"`
}

func (b *bookingStore) FindByIDWithEvent(ctx context.Context, id string) (*booking.Booking, *booking.Event, error) {
	oid, err := booking.ParseID("booking", id)
	if err != nil {
		return nil, nil, err
	}
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.D{{Key: "_id", Value: oid}}}},
		{{Key: "$lookup", Value: bson.D{
			{Key: "from", Value: eventsCollection},
			{Key: "localField", Value: "event"},
			{Key: "foreignField", Value: "_id"},
			{Key: "as", Value: "eventDocs"},
		}}},
		{{Key: "$limit", Value: 1}},
	}
	cur, err := b.coll.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, nil, booking.StoreFailure("find booking with event", err)
	}
	var rows []bookingWithEvent
	if err := cur.All(ctx, &rows); err != nil {
		return nil, nil, booking.StoreFailure("decode booking with event", err)
	}
	if len(rows) == 0 {
		return nil, nil, booking.NotFound("booking", id)
	}
	row := rows[0]
	if len(row.Events) == 0 {
		return nil, nil, booking.NotFound("event", row.Booking.Event.Hex())
	}
	rec := row.Booking
	event := row.Events[0]
	return &rec, &event, nil
}

func (b *bookingStore) FindAll(ctx context.Context) ([]*booking.Booking, error) {
	cur, err := b.coll.Find(ctx, bson.M{}, byInsertion())
	if err != nil {
		return nil, booking.StoreFailure("find bookings", err)
	}
	bookings := []*booking.Booking{}
	if err := cur.All(ctx, &bookings); err != nil {
		return nil, booking.StoreFailure("decode bookings", err)
	}
	return bookings, nil
}

func (b *bookingStore) Insert(ctx context.Context, rec *booking.Booking) error {
	now := booking.Now()
	rec.ID = primitive.NewObjectID()
	rec.CreatedAt = now
	rec.UpdatedAt = now
	if _, err := b.coll.InsertOne(ctx, rec); err != nil {
		rec.ID = primitive.NilObjectID
		return booking.StoreFailure("insert booking", err)
	}
	return nil
}

func (b *bookingStore) Delete(ctx context.Context, id string) error {
	return deleteOne(ctx, b.coll, "booking", id)
}

func deleteOne(ctx context.Context, coll *mongo.Collection, kind, id string) error {
	oid, err := booking.ParseID(kind, id)
	if err != nil {
		return err
	}
	res, err := coll.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return booking.StoreFailure("delete "+kind, err)
	}
	if res.DeletedCount == 0 {
		return booking.NotFound(kind, id)
	}
	return nil
}
