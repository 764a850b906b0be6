package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/tournevent/booking/internal/actor"
	"github.com/tournevent/booking/internal/config"
	"github.com/tournevent/booking/internal/telemetry"
	"github.com/tournevent/booking/pkg/booking"
	"github.com/tournevent/booking/pkg/booking/memory"
	"github.com/tournevent/booking/pkg/booking/mongodb"
	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.uber.org/zap"
)

func loadConfig() (*config.Config, error) {
	return config.Load(envFile)
}

func initLogger(level string) (*otelzap.Logger, error) {
	return telemetry.NewLogger(level)
}

func initTracer(ctx context.Context, cfg *config.Config) (func(context.Context) error, error) {
	if !cfg.OTELEnabled {
		return func(context.Context) error { return nil }, nil
	}

	_, shutdown, err := telemetry.InitTracer(ctx, cfg.OTELEndpoint, cfg.ServiceName, cfg.Attributes()...)
	return shutdown, err
}

func initStore(ctx context.Context, cfg *config.Config, logger *otelzap.Logger) (booking.Store, error) {
	if cfg.StoreBackend == config.BackendMemory {
		logger.Warn("Using in-memory store, data is lost on exit")
		return memory.New(), nil
	}
	store, err := connectMongo(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}
	return store, nil
}

// connectMongo connects and makes sure the unique email index exists.
func connectMongo(ctx context.Context, cfg *config.Config, logger *otelzap.Logger) (*mongodb.Store, error) {
	store, err := mongodb.Connect(ctx, mongodb.Config{
		Host:           cfg.MongoHost,
		Username:       cfg.MongoUser,
		Password:       cfg.MongoPassword,
		Database:       cfg.MongoDatabase,
		AuthSource:     cfg.MongoAuthSource,
		ConnectTimeout: cfg.MongoConnectTimeout,
	}, logger)
	if err != nil {
		return nil, fmt.Errorf("connecting to mongodb: %w", err)
	}
	if err := store.EnsureIndexes(ctx); err != nil {
		store.Close(context.Background())
		return nil, fmt.Errorf("creating indexes: %w", err)
	}
	return store, nil
}

// initActingUser seeds the default acting user with the first stored user.
// With no users yet, the first created user becomes the default.
func initActingUser(ctx context.Context, store booking.Store, logger *otelzap.Logger) (*actor.Default, error) {
	defaults := &actor.Default{}

	user, err := store.Users().First(ctx)
	switch {
	case err == nil:
		defaults.SetIfEmpty(user.ID.Hex())
		logger.Info("Default acting user set", zap.String("user_id", user.ID.Hex()))
	case errors.Is(err, booking.ErrNotFound):
		logger.Info("No users yet, the first created user becomes the acting user")
	default:
		return nil, fmt.Errorf("loading acting user: %w", err)
	}
	return defaults, nil
}
