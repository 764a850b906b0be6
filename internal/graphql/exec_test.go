package graphql_test

import (
	"context"
	"encoding/json"
	"testing"

	gqlruntime "github.com/99designs/gqlgen/graphql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tournevent/booking/internal/actor"
	"github.com/tournevent/booking/internal/graphql"
	"github.com/tournevent/booking/internal/graphql/model"
	"github.com/tournevent/booking/pkg/booking"
	"github.com/tournevent/booking/pkg/booking/memory"
	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"github.com/vektah/gqlparser/v2/ast"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

type testEnv struct {
	store    *memory.Store
	defaults *actor.Default
	exec     *graphql.Executor
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	store := memory.New()
	resolver, defaults := newTestResolver(store)
	exec, err := graphql.NewExecutor(resolver, otelzap.New(zap.NewNop()))
	require.NoError(t, err)
	return &testEnv{store: store, defaults: defaults, exec: exec}
}

// do executes query as the current default acting user.
func (e *testEnv) do(t *testing.T, query string, vars map[string]any) (map[string]any, *gqlruntime.Response) {
	t.Helper()
	ctx := context.Background()
	if id := e.defaults.Get(); id != "" {
		ctx = actor.WithUserID(ctx, id)
	}
	resp := e.exec.Execute(ctx, &gqlruntime.RawParams{Query: query, Variables: vars})
	if resp.Data == nil || string(resp.Data) == "null" {
		return nil, resp
	}
	var data map[string]any
	require.NoError(t, json.Unmarshal(resp.Data, &data))
	return data, resp
}

func TestExecutor_EndToEnd(t *testing.T) {
	env := newTestEnv(t)

	data, resp := env.do(t, `mutation($u: UserInput) { createUser(userInput: $u) { _id email password } }`,
		map[string]any{"u": map[string]any{"email": "a@x.com", "password": "pw"}})
	require.Empty(t, resp.Errors)
	user := data["createUser"].(map[string]any)
	assert.Equal(t, "a@x.com", user["email"])
	assert.Nil(t, user["password"])
	assert.Equal(t, env.defaults.Get(), user["_id"])

	data, resp = env.do(t, `mutation {
		createEvent(eventInput: {title: "T", description: "D", price: 10, date: "2026-05-01T19:00:00Z"}) {
			_id title price date creator { email }
		}
	}`, nil)
	require.Empty(t, resp.Errors)
	event := data["createEvent"].(map[string]any)
	assert.Equal(t, "T", event["title"])
	assert.Equal(t, 10.0, event["price"])
	assert.Equal(t, "2026-05-01T19:00:00.000Z", event["date"])
	assert.Equal(t, "a@x.com", event["creator"].(map[string]any)["email"])

	data, resp = env.do(t, `{ events { title creator { email createdEvents { title } } } }`, nil)
	require.Empty(t, resp.Errors)
	events := data["events"].([]any)
	require.Len(t, events, 1)
	creator := events[0].(map[string]any)["creator"].(map[string]any)
	assert.Equal(t, "a@x.com", creator["email"])
	assert.Equal(t, []any{map[string]any{"title": "T"}}, creator["createdEvents"])

	data, resp = env.do(t, `mutation($id: ID!) { bookEvent(eventId: $id) { _id createdAt updatedAt } }`,
		map[string]any{"id": event["_id"]})
	require.Empty(t, resp.Errors)
	bookingID := data["bookEvent"].(map[string]any)["_id"]

	data, resp = env.do(t, `{ bookings { _id event { title } user { email } } }`, nil)
	require.Empty(t, resp.Errors)
	bookings := data["bookings"].([]any)
	require.Len(t, bookings, 1)
	b := bookings[0].(map[string]any)
	assert.Equal(t, "T", b["event"].(map[string]any)["title"])
	assert.Equal(t, "a@x.com", b["user"].(map[string]any)["email"])

	data, resp = env.do(t, `mutation($id: ID!) { cancelBooking(bookingId: $id) { title } }`,
		map[string]any{"id": bookingID})
	require.Empty(t, resp.Errors)
	assert.Equal(t, "T", data["cancelBooking"].(map[string]any)["title"])

	data, resp = env.do(t, `{ bookings { _id } }`, nil)
	require.Empty(t, resp.Errors)
	assert.Empty(t, data["bookings"])
}

func TestExecutor_NeverReturnsPassword(t *testing.T) {
	env := newTestEnv(t)
	_, resp := env.do(t, `mutation { createUser(userInput: {email: "a@x.com", password: "secret"}) { email } }`, nil)
	require.Empty(t, resp.Errors)

	_, resp = env.do(t, `{ users { _id email password } }`, nil)
	require.Empty(t, resp.Errors)
	assert.NotContains(t, string(resp.Data), "secret")
	assert.NotContains(t, string(resp.Data), "$2a$")
	assert.Contains(t, string(resp.Data), `"password":null`)
}

func TestExecutor_CreateEventWithoutActingUser(t *testing.T) {
	env := newTestEnv(t)

	data, resp := env.do(t, `mutation {
		createEvent(eventInput: {title: "T", description: "D", price: 1.5, date: "2026-05-01"}) { _id }
	}`, nil)

	require.Len(t, resp.Errors, 1)
	assert.Equal(t, "cannot create an event before a user exists", resp.Errors[0].Message)
	assert.Equal(t, ast.Path{ast.PathName("createEvent")}, resp.Errors[0].Path)
	assert.Contains(t, data, "createEvent")
	assert.Nil(t, data["createEvent"])
}

func TestExecutor_NonNullRootFieldError(t *testing.T) {
	env := newTestEnv(t)
	env.do(t, `mutation { createUser(userInput: {email: "a@x.com", password: "pw"}) { _id } }`, nil)

	data, resp := env.do(t, `mutation { bookEvent(eventId: "650000000000000000000000") { _id } }`, nil)
	assert.Nil(t, data)
	assert.Equal(t, "null", string(resp.Data))
	require.Len(t, resp.Errors, 1)
	assert.Equal(t, "event not found: 650000000000000000000000", resp.Errors[0].Message)
}

func TestExecutor_NullPropagation(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	u := &booking.User{Email: "a@x.com", Password: "hash"}
	require.NoError(t, env.store.Users().Insert(ctx, u))
	orphan := &booking.Booking{Event: primitive.NewObjectID(), User: u.ID}
	require.NoError(t, env.store.Bookings().Insert(ctx, orphan))

	// Without the reference selected nothing is fetched.
	data, resp := env.do(t, `{ bookings { _id user { email } } }`, nil)
	require.Empty(t, resp.Errors)
	assert.Len(t, data["bookings"], 1)

	data, resp = env.do(t, `{ bookings { _id event { title } } }`, nil)
	assert.Nil(t, data)
	require.Len(t, resp.Errors, 1)
	assert.Equal(t, ast.Path{ast.PathName("bookings"), ast.PathIndex(0), ast.PathName("event")}, resp.Errors[0].Path)
	assert.Contains(t, resp.Errors[0].Message, "event not found")
}

func TestExecutor_AliasesFragmentsAndTypename(t *testing.T) {
	env := newTestEnv(t)
	env.do(t, `mutation { createUser(userInput: {email: "a@x.com", password: "pw"}) { _id } }`, nil)

	data, resp := env.do(t, `
		query Accounts($skipEmail: Boolean!) {
			people: users { ...userFields kind: __typename }
			__typename
		}
		fragment userFields on User {
			email @skip(if: $skipEmail)
			_id
		}`, map[string]any{"skipEmail": true})
	require.Empty(t, resp.Errors)

	assert.Equal(t, "RootQuery", data["__typename"])
	people := data["people"].([]any)
	require.Len(t, people, 1)
	person := people[0].(map[string]any)
	assert.Equal(t, "User", person["kind"])
	assert.NotContains(t, person, "email")
	assert.Contains(t, person, "_id")
}

func TestExecutor_Introspection(t *testing.T) {
	env := newTestEnv(t)

	data, resp := env.do(t, `{
		__schema { queryType { name } mutationType { name } types { name } directives { name } }
		__type(name: "User") { kind fields { name type { kind name ofType { name } } } }
	}`, nil)
	require.Empty(t, resp.Errors)

	schema := data["__schema"].(map[string]any)
	assert.Equal(t, "RootQuery", schema["queryType"].(map[string]any)["name"])
	assert.Equal(t, "RootMutation", schema["mutationType"].(map[string]any)["name"])
	assert.NotEmpty(t, schema["directives"])

	var typeNames []string
	for _, tp := range schema["types"].([]any) {
		typeNames = append(typeNames, tp.(map[string]any)["name"].(string))
	}
	assert.Subset(t, typeNames, []string{"Booking", "Event", "User", "EventInput", "UserInput"})

	userType := data["__type"].(map[string]any)
	assert.Equal(t, "OBJECT", userType["kind"])
	var fieldNames []string
	for _, f := range userType["fields"].([]any) {
		fieldNames = append(fieldNames, f.(map[string]any)["name"].(string))
	}
	assert.Equal(t, []string{"_id", "email", "password", "createdEvents"}, fieldNames)

	data, resp = env.do(t, `{ __type(name: "Nope") { name } }`, nil)
	require.Empty(t, resp.Errors)
	assert.Nil(t, data["__type"])
}

func TestExecutor_RequestErrors(t *testing.T) {
	env := newTestEnv(t)

	tests := []struct {
		name  string
		query string
		vars  map[string]any
	}{
		{"empty", "   ", nil},
		{"unknown field", `{ nope }`, nil},
		{"syntax", `{ events {`, nil},
		{"ambiguous operation", `query A { events { _id } } query B { users { _id } }`, nil},
		{"missing variable", `mutation($id: ID!) { bookEvent(eventId: $id) { _id } }`, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := env.exec.Execute(context.Background(), &gqlruntime.RawParams{Query: tt.query, Variables: tt.vars})
			assert.NotEmpty(t, resp.Errors)
			assert.Nil(t, resp.Data)
		})
	}
}

func TestExecutor_OperationName(t *testing.T) {
	env := newTestEnv(t)

	resp := env.exec.Execute(context.Background(), &gqlruntime.RawParams{
		Query:         `query A { events { _id } } query B { users { email } }`,
		OperationName: "B",
	})
	require.Empty(t, resp.Errors)
	assert.JSONEq(t, `{"users":[]}`, string(resp.Data))

	resp = env.exec.Execute(context.Background(), &gqlruntime.RawParams{
		Query:         `query A { events { _id } }`,
		OperationName: "C",
	})
	require.Len(t, resp.Errors, 1)
	assert.Equal(t, "operation C not found", resp.Errors[0].Message)
}

type panickingRoot struct{ *graphql.Resolver }

func (p panickingRoot) Query() graphql.QueryResolver { return panickingQuery{p.Resolver.Query()} }

type panickingQuery struct{ graphql.QueryResolver }

func (panickingQuery) Events(context.Context) ([]*model.Event, error) { panic("boom") }

func TestExecutor_RecoversPanics(t *testing.T) {
	resolver, _ := newTestResolver(memory.New())
	exec, err := graphql.NewExecutor(panickingRoot{resolver}, otelzap.New(zap.NewNop()))
	require.NoError(t, err)

	resp := exec.Execute(context.Background(), &gqlruntime.RawParams{Query: `{ events { _id } }`})
	require.Len(t, resp.Errors, 1)
	assert.Equal(t, "internal system error", resp.Errors[0].Message)
	assert.Equal(t, "null", string(resp.Data))
}
