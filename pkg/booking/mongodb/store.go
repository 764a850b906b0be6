// Package mongodb implements the booking store on MongoDB.
package mongodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/tournevent/booking/pkg/booking"
	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.uber.org/zap"
)

const (
	usersCollection    = "users"
	eventsCollection   = "events"
	bookingsCollection = "bookings"
)

// Config holds MongoDB connection settings.
type Config struct {
	Host           string
	Username       string
	Password       string
	Database       string
	AuthSource     string
	ConnectTimeout time.Duration

	// URI overrides Host when set.
	URI string
}

func (c Config) uri() string {
	if c.URI != "" {
		return c.URI
	}
	return "mongodb://" + c.Host
}

// Store is a booking.Store backed by a MongoDB database.
type Store struct {
	client   *mongo.Client
	db       *mongo.Database
	logger   *otelzap.Logger
	users    *mongo.Collection
	events   *mongo.Collection
	bookings *mongo.Collection
}

// Connect dials MongoDB and verifies the connection with a ping.
func Connect(ctx context.Context, cfg Config, logger *otelzap.Logger) (*Store, error) {
	opts := options.Client().ApplyURI(cfg.uri())
	if cfg.Username != "" {
		opts.SetAuth(options.Credential{
			Username:   cfg.Username,
			Password:   cfg.Password,
			AuthSource: cfg.AuthSource,
		})
	}
	if cfg.ConnectTimeout > 0 {
		opts.SetConnectTimeout(cfg.ConnectTimeout)
		opts.SetServerSelectionTimeout(cfg.ConnectTimeout)
	}

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("connecting to mongodb: %w", err)
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("pinging mongodb: %w", err)
	}

	logger.Info("Connected to MongoDB",
		zap.String("host", cfg.Host),
		zap.String("database", cfg.Database),
	)
	return New(client, cfg.Database, logger), nil
}

// New wraps an existing client.
func New(client *mongo.Client, database string, logger *otelzap.Logger) *Store {
	db := client.Database(database)
	return &Store{
		client:   client,
		db:       db,
		logger:   logger,
		users:    db.Collection(usersCollection),
		events:   db.Collection(eventsCollection),
		bookings: db.Collection(bookingsCollection),
	}
}

func (s *Store) Users() booking.UserStore       { return &userStore{coll: s.users} }
func (s *Store) Events() booking.EventStore     { return &eventStore{coll: s.events} }
func (s *Store) Bookings() booking.BookingStore { return &bookingStore{coll: s.bookings} }

// Ping checks the primary is reachable.
func (s *Store) Ping(ctx context.Context) error {
	if err := s.client.Ping(ctx, readpref.Primary()); err != nil {
		return booking.StoreFailure("ping", err)
	}
	return nil
}

// Close disconnects the client.
func (s *Store) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

// EnsureIndexes creates the indexes the store relies on. The unique email
// index turns concurrent duplicate registrations into duplicate-key errors.
func (s *Store) EnsureIndexes(ctx context.Context) error {
	name, err := s.users.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true).SetName("email_unique"),
	})
	if err != nil {
		return booking.StoreFailure("create users email index", err)
	}
	s.logger.Info("Ensured MongoDB index", zap.String("collection", usersCollection), zap.String("index", name))
	return nil
}

// Drop removes all collections. Used by tests.
func (s *Store) Drop(ctx context.Context) error {
	return s.db.Drop(ctx)
}

func notFoundOr(err error, kind, id, op string) error {
	if errors.Is(err, mongo.ErrNoDocuments) {
		return booking.NotFound(kind, id)
	}
	return booking.StoreFailure(op, err)
}
