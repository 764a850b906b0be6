// Package actor carries the acting user of a request.
//
// There is no authentication: the acting user is the process default, which
// is the first user found at startup or the first user created afterwards.
// HTTP middleware copies it into each request context and resolvers read it
// only from there.
package actor

import (
	"context"
	"net/http"
	"sync"
)

type contextKey struct{}

// WithUserID returns a copy of ctx carrying the acting user id.
func WithUserID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, contextKey{}, id)
}

// UserID returns the acting user id carried by ctx.
func UserID(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(contextKey{}).(string)
	return id, ok && id != ""
}

// Default holds the process-wide default acting user. The zero value is ready to use.
type Default struct {
	mu sync.RWMutex
	id string
}

// Get returns the default user id, or "" when none is set.
func (d *Default) Get() string {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.id
}

// SetIfEmpty sets the default user id unless one is already set and reports
// whether it did.
func (d *Default) SetIfEmpty(id string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.id != "" || id == "" {
		return false
	}
	d.id = id
	return true
}

// Middleware puts the current default user into every request context.
func Middleware(d *Default) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if id := d.Get(); id != "" {
				r = r.WithContext(WithUserID(r.Context(), id))
			}
			next.ServeHTTP(w, r)
		})
	}
}
