package actor_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/tournevent/booking/internal/actor"
)

func TestUserID(t *testing.T) {
	_, ok := actor.UserID(context.Background())
	assert.False(t, ok)

	_, ok = actor.UserID(actor.WithUserID(context.Background(), ""))
	assert.False(t, ok)

	id, ok := actor.UserID(actor.WithUserID(context.Background(), "u1"))
	assert.True(t, ok)
	assert.Equal(t, "u1", id)
}

func TestDefault_SetIfEmpty(t *testing.T) {
	var d actor.Default
	assert.Equal(t, "", d.Get())

	assert.False(t, d.SetIfEmpty(""))
	assert.True(t, d.SetIfEmpty("first"))
	assert.False(t, d.SetIfEmpty("second"))
	assert.Equal(t, "first", d.Get())
}

func TestDefault_ConcurrentSetKeepsOneWinner(t *testing.T) {
	var d actor.Default
	var wg sync.WaitGroup
	wins := make(chan string, 10)
	for _, id := range []string{"a", "b", "c", "d", "e", "f", "g", "h", "i", "j"} {
		wg.Add(1)
		go func(id string) {
			defer wg.Done()
			if d.SetIfEmpty(id) {
				wins <- id
			}
		}(id)
	}
	wg.Wait()
	close(wins)

	var winners []string
	for id := range wins {
		winners = append(winners, id)
	}
	assert.Len(t, winners, 1)
	assert.Equal(t, winners[0], d.Get())
}

func TestMiddleware(t *testing.T) {
	var d actor.Default
	var seen string
	var present bool
	handler := actor.Middleware(&d)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen, present = actor.UserID(r.Context())
	}))

	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/graphql", nil))
	assert.False(t, present)

	d.SetIfEmpty("u1")
	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/graphql", nil))
	assert.True(t, present)
	assert.Equal(t, "u1", seen)
}
