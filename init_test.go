package main

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tournevent/booking/internal/config"
	"github.com/tournevent/booking/pkg/booking"
	"github.com/tournevent/booking/pkg/booking/memory"
	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.uber.org/zap"
)

func TestInitActingUser_Empty(t *testing.T) {
	defaults, err := initActingUser(context.Background(), memory.New(), otelzap.New(zap.NewNop()))
	require.NoError(t, err)
	assert.Empty(t, defaults.Get())
}

func TestInitActingUser_FirstUser(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	first := &booking.User{Email: "a@x.com", Password: "hash"}
	require.NoError(t, store.Users().Insert(ctx, first))
	require.NoError(t, store.Users().Insert(ctx, &booking.User{Email: "b@x.com", Password: "hash"}))

	defaults, err := initActingUser(ctx, store, otelzap.New(zap.NewNop()))
	require.NoError(t, err)
	assert.Equal(t, first.ID.Hex(), defaults.Get())
}

func TestInitStore_Memory(t *testing.T) {
	cfg := &config.Config{StoreBackend: config.BackendMemory}
	store, err := initStore(context.Background(), cfg, otelzap.New(zap.NewNop()))
	require.NoError(t, err)
	assert.NoError(t, store.Ping(context.Background()))
}
