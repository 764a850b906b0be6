package graphql

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/tournevent/booking/internal/graphql/model"
	"github.com/tournevent/booking/pkg/booking"
)

// Argument values come either from literals in the document or from coerced
// variables, so numbers may arrive as float64, int64, int or json.Number.

func invalidArg(name string, v any) error {
	return booking.NewError(booking.KindInvalidInput, fmt.Sprintf("invalid value for %s: %v", name, v))
}

func eventInputArg(args map[string]any, name string) (*model.EventInput, error) {
	raw, ok := args[name]
	if !ok || raw == nil {
		return nil, nil
	}
	m, ok := raw.(map[string]any)
	if !ok {
		return nil, invalidArg(name, raw)
	}

	var (
		input model.EventInput
		err   error
	)
	if input.Title, err = stringField(m, name, "title"); err != nil {
		return nil, err
	}
	if input.Description, err = stringField(m, name, "description"); err != nil {
		return nil, err
	}
	if input.Price, err = toFloat(name+".price", m["price"]); err != nil {
		return nil, err
	}
	if input.Date, err = stringField(m, name, "date"); err != nil {
		return nil, err
	}
	return &input, nil
}

func userInputArg(args map[string]any, name string) (*model.UserInput, error) {
	raw, ok := args[name]
	if !ok || raw == nil {
		return nil, nil
	}
	m, ok := raw.(map[string]any)
	if !ok {
		return nil, invalidArg(name, raw)
	}

	var (
		input model.UserInput
		err   error
	)
	if input.Email, err = stringField(m, name, "email"); err != nil {
		return nil, err
	}
	if input.Password, err = stringField(m, name, "password"); err != nil {
		return nil, err
	}
	return &input, nil
}

func idArg(args map[string]any, name string) (string, error) {
	switch v := args[name].(type) {
	case string:
		return v, nil
	case int64:
		return strconv.FormatInt(v, 10), nil
	case int:
		return strconv.Itoa(v), nil
	case json.Number:
		return v.String(), nil
	default:
		return "", invalidArg(name, v)
	}
}

func stringField(m map[string]any, parent, key string) (string, error) {
	s, ok := m[key].(string)
	if !ok {
		return "", invalidArg(parent+"."+key, m[key])
	}
	return s, nil
}

func toFloat(name string, v any) (float64, error) {
	switch n := v.(type) {
	case float64:
		return n, nil
	case float32:
		return float64(n), nil
	case int64:
		return float64(n), nil
	case int:
		return float64(n), nil
	case json.Number:
		f, err := n.Float64()
		if err != nil {
			return 0, invalidArg(name, v)
		}
		return f, nil
	case string:
		f, err := strconv.ParseFloat(n, 64)
		if err != nil {
			return 0, invalidArg(name, v)
		}
		return f, nil
	default:
		return 0, invalidArg(name, v)
	}
}
