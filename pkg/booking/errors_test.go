package booking_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/tournevent/booking/pkg/booking"
)

func TestError_Error(t *testing.T) {
	err := booking.NotFound("event", "abc")
	assert.Equal(t, "event not found: abc", err.Error())
}

func TestError_ErrorWithCause(t *testing.T) {
	cause := errors.New("connection reset")
	err := booking.StoreFailure("insert user", cause)
	assert.Equal(t, "insert user: connection reset", err.Error())
	assert.True(t, errors.Is(err, cause))
}

func TestError_IsMatchesKind(t *testing.T) {
	assert.True(t, errors.Is(booking.NotFound("user", "1"), booking.ErrNotFound))
	assert.False(t, errors.Is(booking.NotFound("user", "1"), booking.ErrConflict))
	assert.True(t, errors.Is(fmt.Errorf("wrapped: %w", booking.StoreFailure("x", errors.New("y"))), booking.ErrStoreFailure))
}

func TestKindOf(t *testing.T) {
	assert.Equal(t, booking.KindConflict, booking.KindOf(booking.NewError(booking.KindConflict, "dup")))
	assert.Equal(t, booking.KindNotFound, booking.KindOf(fmt.Errorf("ctx: %w", booking.NotFound("user", "1"))))
	assert.Equal(t, booking.Kind(""), booking.KindOf(errors.New("plain")))
}

func TestParseID(t *testing.T) {
	_, err := booking.ParseID("event", "zzz")
	assert.True(t, errors.Is(err, booking.ErrNotFound))
	assert.Equal(t, "event not found: zzz", err.Error())

	ids := booking.ParseIDs([]string{"507f1f77bcf86cd799439011", "nope"})
	assert.Len(t, ids, 1)
	assert.Equal(t, "507f1f77bcf86cd799439011", ids[0].Hex())
}

func TestHashPassword(t *testing.T) {
	hash, err := booking.HashPassword("pw", 4)
	assert.NoError(t, err)
	assert.NotEqual(t, "pw", hash)
	assert.NotEmpty(t, hash)
}
