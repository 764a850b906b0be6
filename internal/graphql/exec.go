package graphql

import (
	"bytes"
	"context"
	_ "embed"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/99designs/gqlgen/graphql"
	"github.com/tournevent/booking/internal/graphql/model"
	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"github.com/vektah/gqlparser/v2"
	"github.com/vektah/gqlparser/v2/ast"
	"github.com/vektah/gqlparser/v2/gqlerror"
	"github.com/vektah/gqlparser/v2/validator"
	"go.uber.org/zap"
)

//go:embed schema.graphqls
var schemaSource string

var (
	errInternal      = errors.New("internal system error")
	errMustNotBeNull = errors.New("must not be null")
)

// LoadSchema parses the embedded schema.
func LoadSchema() (*ast.Schema, error) {
	return gqlparser.LoadSchema(&ast.Source{Name: "schema.graphqls", Input: schemaSource})
}

// Executor runs GraphQL operations against a ResolverRoot. Pending references
// are resolved while the response is written, and only when selected.
type Executor struct {
	schema    *ast.Schema
	resolvers ResolverRoot
	logger    *otelzap.Logger
}

// NewExecutor creates an executor for the embedded schema.
func NewExecutor(resolvers ResolverRoot, logger *otelzap.Logger) (*Executor, error) {
	schema, err := LoadSchema()
	if err != nil {
		return nil, fmt.Errorf("loading schema: %w", err)
	}
	return &Executor{schema: schema, resolvers: resolvers, logger: logger}, nil
}

// Schema returns the parsed schema.
func (e *Executor) Schema() *ast.Schema {
	return e.schema
}

// Execute parses, validates and executes one operation.
func (e *Executor) Execute(ctx context.Context, params *graphql.RawParams) *graphql.Response {
	if strings.TrimSpace(params.Query) == "" {
		return errorResponse(gqlerror.Errorf("no query string supplied in request"))
	}

	doc, errs := gqlparser.LoadQuery(e.schema, params.Query)
	if len(errs) > 0 {
		return &graphql.Response{Errors: errs}
	}

	if len(doc.Operations) > 1 && params.OperationName == "" {
		return errorResponse(gqlerror.Errorf("operation name must be supplied when the query has more than one operation"))
	}
	op := doc.Operations.ForName(params.OperationName)
	if op == nil {
		return errorResponse(gqlerror.Errorf("operation %s not found", params.OperationName))
	}

	vars, err := validator.VariableValues(e.schema, op, params.Variables)
	if err != nil {
		var gqlErr *gqlerror.Error
		if errors.As(err, &gqlErr) {
			return errorResponse(gqlErr)
		}
		return errorResponse(gqlerror.Errorf("%s", err.Error()))
	}

	opCtx := &graphql.OperationContext{
		RawQuery:      params.Query,
		Variables:     vars,
		OperationName: params.OperationName,
		Doc:           doc,
		Operation:     op,
	}
	ctx = graphql.WithOperationContext(ctx, opCtx)
	ec := &executionContext{Executor: e, opCtx: opCtx}

	var data graphql.Marshaler
	switch op.Operation {
	case ast.Query:
		data = ec._RootQuery(ctx, op.SelectionSet)
	case ast.Mutation:
		data = ec._RootMutation(ctx, op.SelectionSet)
	default:
		return errorResponse(gqlerror.Errorf("unsupported operation type %s", op.Operation))
	}

	var buf bytes.Buffer
	data.MarshalGQL(&buf)
	return &graphql.Response{Data: buf.Bytes(), Errors: ec.errors}
}

func errorResponse(err *gqlerror.Error) *graphql.Response {
	return &graphql.Response{Errors: gqlerror.List{err}}
}

// executionContext is the state of a single operation. Fields execute one
// after the other, so it needs no locking.
type executionContext struct {
	*Executor
	opCtx  *graphql.OperationContext
	errors gqlerror.List
}

func (ec *executionContext) addError(field graphql.CollectedField, path ast.Path, err error) {
	gqlErr := gqlerror.WrapPath(path, err)
	if field.Field != nil && field.Position != nil {
		gqlErr.Locations = []gqlerror.Location{{Line: field.Position.Line, Column: field.Position.Column}}
	}
	ec.errors = append(ec.errors, gqlErr)
}

// resolve calls fn and records its error, or a recovered panic, at path.
func resolve[T any](ctx context.Context, ec *executionContext, field graphql.CollectedField, path ast.Path, fn func(context.Context) (T, error)) (res T, ok bool) {
	defer func() {
		if r := recover(); r != nil {
			ec.logger.Ctx(ctx).Error("Resolver panicked",
				zap.String("path", path.String()),
				zap.Any("panic", r),
				zap.Stack("stack"),
			)
			ec.addError(field, path, errInternal)
			ok = false
		}
	}()

	res, err := fn(ctx)
	if err != nil {
		ec.addError(field, path, err)
		return res, false
	}
	return res, true
}

func appendPath(path ast.Path, elem ast.PathElement) ast.Path {
	out := make(ast.Path, len(path), len(path)+1)
	copy(out, path)
	return append(out, elem)
}

// completeObject nulls the whole object when a non-null field came back null.
func completeObject(fields []graphql.CollectedField, out *graphql.FieldSet) graphql.Marshaler {
	for i, field := range fields {
		if out.Values[i] == graphql.Null && field.Definition != nil && field.Definition.Type.NonNull {
			return graphql.Null
		}
	}
	return out
}

// marshalList writes a list of non-null items; one null item nulls the list.
func marshalList[T any](path ast.Path, items []T, marshal func(ast.Path, T) graphql.Marshaler) graphql.Marshaler {
	ret := make(graphql.Array, len(items))
	for i, item := range items {
		ret[i] = marshal(appendPath(path, ast.PathIndex(i)), item)
		if ret[i] == graphql.Null {
			return graphql.Null
		}
	}
	return ret
}

func unknownField(typeName string, field graphql.CollectedField) {
	panic("unknown field " + strconv.Quote(typeName+"."+field.Name))
}

// region    ************************** root types **************************

func (ec *executionContext) _RootQuery(ctx context.Context, sel ast.SelectionSet) graphql.Marshaler {
	fields := graphql.CollectFields(ec.opCtx, sel, []string{"RootQuery"})
	out := graphql.NewFieldSet(fields)
	for i, field := range fields {
		path := ast.Path{ast.PathName(field.Alias)}
		switch field.Name {
		case "__typename":
			out.Values[i] = graphql.MarshalString("RootQuery")
		case "__schema":
			out.Values[i] = ec.introspectSchema(ctx, field)
		case "__type":
			out.Values[i] = ec.introspectType(ctx, field)
		case "events":
			events, ok := resolve(ctx, ec, field, path, ec.resolvers.Query().Events)
			out.Values[i] = ec.marshalNEventList(ctx, field, path, events, ok)
		case "users":
			users, ok := resolve(ctx, ec, field, path, ec.resolvers.Query().Users)
			out.Values[i] = ec.marshalNUserList(ctx, field, path, users, ok)
		case "bookings":
			bookings, ok := resolve(ctx, ec, field, path, ec.resolvers.Query().Bookings)
			out.Values[i] = ec.marshalNBookingList(ctx, field, path, bookings, ok)
		default:
			unknownField("RootQuery", field)
		}
	}
	return completeObject(fields, out)
}

// Mutation fields run serially in document order.
func (ec *executionContext) _RootMutation(ctx context.Context, sel ast.SelectionSet) graphql.Marshaler {
	fields := graphql.CollectFields(ec.opCtx, sel, []string{"RootMutation"})
	out := graphql.NewFieldSet(fields)
	for i, field := range fields {
		path := ast.Path{ast.PathName(field.Alias)}
		args := field.ArgumentMap(ec.opCtx.Variables)
		switch field.Name {
		case "__typename":
			out.Values[i] = graphql.MarshalString("RootMutation")
		case "createEvent":
			out.Values[i] = ec._RootMutation_createEvent(ctx, field, path, args)
		case "createUser":
			out.Values[i] = ec._RootMutation_createUser(ctx, field, path, args)
		case "bookEvent":
			out.Values[i] = ec._RootMutation_bookEvent(ctx, field, path, args)
		case "cancelBooking":
			out.Values[i] = ec._RootMutation_cancelBooking(ctx, field, path, args)
		default:
			unknownField("RootMutation", field)
		}
	}
	return completeObject(fields, out)
}

func (ec *executionContext) _RootMutation_createEvent(ctx context.Context, field graphql.CollectedField, path ast.Path, args map[string]any) graphql.Marshaler {
	input, err := eventInputArg(args, "eventInput")
	if err != nil {
		ec.addError(field, path, err)
		return graphql.Null
	}
	event, ok := resolve(ctx, ec, field, path, func(ctx context.Context) (*model.Event, error) {
		return ec.resolvers.Mutation().CreateEvent(ctx, input)
	})
	if !ok || event == nil {
		return graphql.Null
	}
	return ec._Event(ctx, field.Selections, path, event)
}

func (ec *executionContext) _RootMutation_createUser(ctx context.Context, field graphql.CollectedField, path ast.Path, args map[string]any) graphql.Marshaler {
	input, err := userInputArg(args, "userInput")
	if err != nil {
		ec.addError(field, path, err)
		return graphql.Null
	}
	user, ok := resolve(ctx, ec, field, path, func(ctx context.Context) (*model.User, error) {
		return ec.resolvers.Mutation().CreateUser(ctx, input)
	})
	if !ok || user == nil {
		return graphql.Null
	}
	return ec._User(ctx, field.Selections, path, user)
}

func (ec *executionContext) _RootMutation_bookEvent(ctx context.Context, field graphql.CollectedField, path ast.Path, args map[string]any) graphql.Marshaler {
	eventID, err := idArg(args, "eventId")
	if err != nil {
		ec.addError(field, path, err)
		return graphql.Null
	}
	b, ok := resolve(ctx, ec, field, path, func(ctx context.Context) (*model.Booking, error) {
		return ec.resolvers.Mutation().BookEvent(ctx, eventID)
	})
	if !ok {
		return graphql.Null
	}
	return ec.marshalNBooking(ctx, field, path, b)
}

func (ec *executionContext) _RootMutation_cancelBooking(ctx context.Context, field graphql.CollectedField, path ast.Path, args map[string]any) graphql.Marshaler {
	bookingID, err := idArg(args, "bookingId")
	if err != nil {
		ec.addError(field, path, err)
		return graphql.Null
	}
	event, ok := resolve(ctx, ec, field, path, func(ctx context.Context) (*model.Event, error) {
		return ec.resolvers.Mutation().CancelBooking(ctx, bookingID)
	})
	if !ok {
		return graphql.Null
	}
	return ec.marshalNEvent(ctx, field, path, event)
}

// endregion ************************** root types **************************

// region    ************************** domain types **************************

func (ec *executionContext) _Event(ctx context.Context, sel ast.SelectionSet, path ast.Path, obj *model.Event) graphql.Marshaler {
	fields := graphql.CollectFields(ec.opCtx, sel, []string{"Event"})
	out := graphql.NewFieldSet(fields)
	for i, field := range fields {
		fieldPath := appendPath(path, ast.PathName(field.Alias))
		switch field.Name {
		case "__typename":
			out.Values[i] = graphql.MarshalString("Event")
		case "_id":
			out.Values[i] = graphql.MarshalID(obj.ID)
		case "title":
			out.Values[i] = graphql.MarshalString(obj.Title)
		case "description":
			out.Values[i] = graphql.MarshalString(obj.Description)
		case "price":
			out.Values[i] = graphql.MarshalFloat(obj.Price)
		case "date":
			out.Values[i] = graphql.MarshalString(obj.Date)
		case "creator":
			user, ok := resolve(ctx, ec, field, fieldPath, func(ctx context.Context) (*model.User, error) {
				return ec.resolvers.Event().Creator(ctx, obj)
			})
			if !ok {
				out.Values[i] = graphql.Null
				continue
			}
			out.Values[i] = ec.marshalNUser(ctx, field, fieldPath, user)
		default:
			unknownField("Event", field)
		}
	}
	return completeObject(fields, out)
}

func (ec *executionContext) _User(ctx context.Context, sel ast.SelectionSet, path ast.Path, obj *model.User) graphql.Marshaler {
	fields := graphql.CollectFields(ec.opCtx, sel, []string{"User"})
	out := graphql.NewFieldSet(fields)
	for i, field := range fields {
		fieldPath := appendPath(path, ast.PathName(field.Alias))
		switch field.Name {
		case "__typename":
			out.Values[i] = graphql.MarshalString("User")
		case "_id":
			out.Values[i] = graphql.MarshalID(obj.ID)
		case "email":
			out.Values[i] = graphql.MarshalString(obj.Email)
		case "password":
			out.Values[i] = graphql.Null
		case "createdEvents":
			events, ok := resolve(ctx, ec, field, fieldPath, func(ctx context.Context) ([]*model.Event, error) {
				return ec.resolvers.User().CreatedEvents(ctx, obj)
			})
			if !ok || events == nil {
				out.Values[i] = graphql.Null
				continue
			}
			out.Values[i] = marshalList(fieldPath, events, func(p ast.Path, e *model.Event) graphql.Marshaler {
				return ec.marshalNEvent(ctx, field, p, e)
			})
		default:
			unknownField("User", field)
		}
	}
	return completeObject(fields, out)
}

func (ec *executionContext) _Booking(ctx context.Context, sel ast.SelectionSet, path ast.Path, obj *model.Booking) graphql.Marshaler {
	fields := graphql.CollectFields(ec.opCtx, sel, []string{"Booking"})
	out := graphql.NewFieldSet(fields)
	for i, field := range fields {
		fieldPath := appendPath(path, ast.PathName(field.Alias))
		switch field.Name {
		case "__typename":
			out.Values[i] = graphql.MarshalString("Booking")
		case "_id":
			out.Values[i] = graphql.MarshalID(obj.ID)
		case "event":
			event, ok := resolve(ctx, ec, field, fieldPath, func(ctx context.Context) (*model.Event, error) {
				return ec.resolvers.Booking().Event(ctx, obj)
			})
			if !ok {
				out.Values[i] = graphql.Null
				continue
			}
			out.Values[i] = ec.marshalNEvent(ctx, field, fieldPath, event)
		case "user":
			user, ok := resolve(ctx, ec, field, fieldPath, func(ctx context.Context) (*model.User, error) {
				return ec.resolvers.Booking().User(ctx, obj)
			})
			if !ok {
				out.Values[i] = graphql.Null
				continue
			}
			out.Values[i] = ec.marshalNUser(ctx, field, fieldPath, user)
		case "createdAt":
			out.Values[i] = graphql.MarshalString(obj.CreatedAt)
		case "updatedAt":
			out.Values[i] = graphql.MarshalString(obj.UpdatedAt)
		default:
			unknownField("Booking", field)
		}
	}
	return completeObject(fields, out)
}

// endregion ************************** domain types **************************

// region    ***************************** marshal *****************************

func (ec *executionContext) marshalNEvent(ctx context.Context, field graphql.CollectedField, path ast.Path, v *model.Event) graphql.Marshaler {
	if v == nil {
		ec.addError(field, path, errMustNotBeNull)
		return graphql.Null
	}
	return ec._Event(ctx, field.Selections, path, v)
}

func (ec *executionContext) marshalNUser(ctx context.Context, field graphql.CollectedField, path ast.Path, v *model.User) graphql.Marshaler {
	if v == nil {
		ec.addError(field, path, errMustNotBeNull)
		return graphql.Null
	}
	return ec._User(ctx, field.Selections, path, v)
}

func (ec *executionContext) marshalNBooking(ctx context.Context, field graphql.CollectedField, path ast.Path, v *model.Booking) graphql.Marshaler {
	if v == nil {
		ec.addError(field, path, errMustNotBeNull)
		return graphql.Null
	}
	return ec._Booking(ctx, field.Selections, path, v)
}

func (ec *executionContext) marshalNEventList(ctx context.Context, field graphql.CollectedField, path ast.Path, v []*model.Event, ok bool) graphql.Marshaler {
	if !ok {
		return graphql.Null
	}
	return marshalList(path, v, func(p ast.Path, e *model.Event) graphql.Marshaler {
		return ec.marshalNEvent(ctx, field, p, e)
	})
}

func (ec *executionContext) marshalNUserList(ctx context.Context, field graphql.CollectedField, path ast.Path, v []*model.User, ok bool) graphql.Marshaler {
	if !ok {
		return graphql.Null
	}
	return marshalList(path, v, func(p ast.Path, u *model.User) graphql.Marshaler {
		return ec.marshalNUser(ctx, field, p, u)
	})
}

func (ec *executionContext) marshalNBookingList(ctx context.Context, field graphql.CollectedField, path ast.Path, v []*model.Booking, ok bool) graphql.Marshaler {
	if !ok {
		return graphql.Null
	}
	return marshalList(path, v, func(p ast.Path, b *model.Booking) graphql.Marshaler {
		return ec.marshalNBooking(ctx, field, p, b)
	})
}

// endregion ***************************** marshal *****************************
