package graphql

import (
	"context"
	"time"

	"github.com/tournevent/booking/internal/actor"
	"github.com/tournevent/booking/internal/graphql/model"
	"github.com/tournevent/booking/internal/telemetry"
	"github.com/tournevent/booking/pkg/booking"
	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

const tracerName = "github.com/tournevent/booking/internal/graphql"

// Resolver is the root resolver for the GraphQL schema.
// It holds dependencies needed by all resolvers.
type Resolver struct {
	Store      booking.Store
	Defaults   *actor.Default
	SaltRounds int
	Logger     *otelzap.Logger
	Metrics    *telemetry.Metrics

	tracer trace.Tracer
}

// NewResolver creates a new resolver with the given dependencies.
func NewResolver(store booking.Store, defaults *actor.Default, saltRounds int, logger *otelzap.Logger, metrics *telemetry.Metrics) *Resolver {
	return &Resolver{
		Store:      store,
		Defaults:   defaults,
		SaltRounds: saltRounds,
		Logger:     logger,
		Metrics:    metrics,
		tracer:     otel.Tracer(tracerName),
	}
}

// ResolverRoot gives the executor access to every resolver group.
type ResolverRoot interface {
	Query() QueryResolver
	Mutation() MutationResolver
	Event() EventResolver
	User() UserResolver
	Booking() BookingResolver
}

type QueryResolver interface {
	Events(ctx context.Context) ([]*model.Event, error)
	Users(ctx context.Context) ([]*model.User, error)
	Bookings(ctx context.Context) ([]*model.Booking, error)
}

type MutationResolver interface {
	CreateEvent(ctx context.Context, input *model.EventInput) (*model.Event, error)
	CreateUser(ctx context.Context, input *model.UserInput) (*model.User, error)
	BookEvent(ctx context.Context, eventID string) (*model.Booking, error)
	CancelBooking(ctx context.Context, bookingID string) (*model.Event, error)
}

// EventResolver resolves the pending references of an Event.
type EventResolver interface {
	Creator(ctx context.Context, obj *model.Event) (*model.User, error)
}

// UserResolver resolves the pending references of a User.
type UserResolver interface {
	CreatedEvents(ctx context.Context, obj *model.User) ([]*model.Event, error)
}

// BookingResolver resolves the pending references of a Booking.
type BookingResolver interface {
	Event(ctx context.Context, obj *model.Booking) (*model.Event, error)
	User(ctx context.Context, obj *model.Booking) (*model.User, error)
}

func (r *Resolver) Query() QueryResolver       { return &queryResolver{r} }
func (r *Resolver) Mutation() MutationResolver { return &mutationResolver{r} }
func (r *Resolver) Event() EventResolver       { return &eventResolver{r} }
func (r *Resolver) User() UserResolver         { return &userResolver{r} }
func (r *Resolver) Booking() BookingResolver   { return &bookingResolver{r} }

type queryResolver struct{ *Resolver }
type mutationResolver struct{ *Resolver }
type eventResolver struct{ *Resolver }
type userResolver struct{ *Resolver }
type bookingResolver struct{ *Resolver }

// observe starts a span for operation. The returned function must be called
// with the operation's error: failures are logged and counted, never altered.
func (r *Resolver) observe(ctx context.Context, operation string) (context.Context, func(error)) {
	ctx, span := r.tracer.Start(ctx, operation)
	start := time.Now()

	return ctx, func(err error) {
		defer span.End()

		status := "success"
		if err != nil {
			status = "error"
			kind := string(booking.KindOf(err))
			if kind == "" {
				kind = "UNKNOWN"
			}
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			r.Logger.Ctx(ctx).Error("Operation failed",
				zap.String("operation", operation),
				zap.String("kind", kind),
				zap.Error(err),
			)
			r.Metrics.RecordError(operation, kind)
		}
		r.Metrics.RecordOperation(operation, status, time.Since(start).Seconds())
	}
}
