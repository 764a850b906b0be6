package graphql

import (
	"context"

	"github.com/99designs/gqlgen/graphql"
	"github.com/99designs/gqlgen/graphql/introspection"
	"github.com/vektah/gqlparser/v2/ast"
)

func (ec *executionContext) introspectSchema(ctx context.Context, field graphql.CollectedField) graphql.Marshaler {
	return ec.___Schema(ctx, field.Selections, introspection.WrapSchema(ec.schema))
}

func (ec *executionContext) introspectType(ctx context.Context, field graphql.CollectedField) graphql.Marshaler {
	args := field.ArgumentMap(ec.opCtx.Variables)
	name, _ := args["name"].(string)
	def, ok := ec.schema.Types[name]
	if !ok {
		return graphql.Null
	}
	return ec.marshalOType(ctx, field.Selections, introspection.WrapTypeFromDef(ec.schema, def))
}

func includeDeprecated(ec *executionContext, field graphql.CollectedField) bool {
	v, _ := field.ArgumentMap(ec.opCtx.Variables)["includeDeprecated"].(bool)
	return v
}

func marshalOString(v *string) graphql.Marshaler {
	if v == nil {
		return graphql.Null
	}
	return graphql.MarshalString(*v)
}

func (ec *executionContext) ___Schema(ctx context.Context, sel ast.SelectionSet, obj *introspection.Schema) graphql.Marshaler {
	fields := graphql.CollectFields(ec.opCtx, sel, []string{"__Schema"})
	out := graphql.NewFieldSet(fields)
	for i, field := range fields {
		switch field.Name {
		case "__typename":
			out.Values[i] = graphql.MarshalString("__Schema")
		case "types":
			out.Values[i] = ec.marshalTypes(ctx, field.Selections, obj.Types())
		case "queryType":
			out.Values[i] = ec.marshalOType(ctx, field.Selections, obj.QueryType())
		case "mutationType":
			out.Values[i] = ec.marshalOType(ctx, field.Selections, obj.MutationType())
		case "subscriptionType":
			out.Values[i] = ec.marshalOType(ctx, field.Selections, obj.SubscriptionType())
		case "directives":
			directives := obj.Directives()
			ret := make(graphql.Array, len(directives))
			for j := range directives {
				ret[j] = ec.___Directive(ctx, field.Selections, &directives[j])
			}
			out.Values[i] = ret
		default:
			out.Values[i] = graphql.Null
		}
	}
	return out
}

func (ec *executionContext) ___Type(ctx context.Context, sel ast.SelectionSet, obj *introspection.Type) graphql.Marshaler {
	fields := graphql.CollectFields(ec.opCtx, sel, []string{"__Type"})
	out := graphql.NewFieldSet(fields)
	for i, field := range fields {
		switch field.Name {
		case "__typename":
			out.Values[i] = graphql.MarshalString("__Type")
		case "kind":
			out.Values[i] = graphql.MarshalString(obj.Kind())
		case "name":
			out.Values[i] = marshalOString(obj.Name())
		case "description":
			out.Values[i] = marshalOString(obj.Description())
		case "fields":
			fs := obj.Fields(includeDeprecated(ec, field))
			if fs == nil {
				out.Values[i] = graphql.Null
				continue
			}
			ret := make(graphql.Array, len(fs))
			for j := range fs {
				ret[j] = ec.___Field(ctx, field.Selections, &fs[j])
			}
			out.Values[i] = ret
		case "interfaces":
			out.Values[i] = ec.marshalOTypes(ctx, field.Selections, obj.Interfaces())
		case "possibleTypes":
			out.Values[i] = ec.marshalOTypes(ctx, field.Selections, obj.PossibleTypes())
		case "enumValues":
			values := obj.EnumValues(includeDeprecated(ec, field))
			if values == nil {
				out.Values[i] = graphql.Null
				continue
			}
			ret := make(graphql.Array, len(values))
			for j := range values {
				ret[j] = ec.___EnumValue(ctx, field.Selections, &values[j])
			}
			out.Values[i] = ret
		case "inputFields":
			inputs := obj.InputFields()
			if inputs == nil {
				out.Values[i] = graphql.Null
				continue
			}
			out.Values[i] = ec.marshalInputValues(ctx, field.Selections, inputs)
		case "ofType":
			out.Values[i] = ec.marshalOType(ctx, field.Selections, obj.OfType())
		default:
			// specifiedByURL, isOneOf
			out.Values[i] = graphql.Null
		}
	}
	return out
}

func (ec *executionContext) ___Field(ctx context.Context, sel ast.SelectionSet, obj *introspection.Field) graphql.Marshaler {
	fields := graphql.CollectFields(ec.opCtx, sel, []string{"__Field"})
	out := graphql.NewFieldSet(fields)
	for i, field := range fields {
		switch field.Name {
		case "__typename":
			out.Values[i] = graphql.MarshalString("__Field")
		case "name":
			out.Values[i] = graphql.MarshalString(obj.Name)
		case "description":
			out.Values[i] = marshalOString(obj.Description())
		case "args":
			out.Values[i] = ec.marshalInputValues(ctx, field.Selections, obj.Args)
		case "type":
			out.Values[i] = ec.marshalOType(ctx, field.Selections, obj.Type)
		case "isDeprecated":
			out.Values[i] = graphql.MarshalBoolean(obj.IsDeprecated())
		case "deprecationReason":
			out.Values[i] = marshalOString(obj.DeprecationReason())
		default:
			out.Values[i] = graphql.Null
		}
	}
	return out
}

func (ec *executionContext) ___InputValue(ctx context.Context, sel ast.SelectionSet, obj *introspection.InputValue) graphql.Marshaler {
	fields := graphql.CollectFields(ec.opCtx, sel, []string{"__InputValue"})
	out := graphql.NewFieldSet(fields)
	for i, field := range fields {
		switch field.Name {
		case "__typename":
			out.Values[i] = graphql.MarshalString("__InputValue")
		case "name":
			out.Values[i] = graphql.MarshalString(obj.Name)
		case "description":
			out.Values[i] = marshalOString(obj.Description())
		case "type":
			out.Values[i] = ec.marshalOType(ctx, field.Selections, obj.Type)
		case "defaultValue":
			out.Values[i] = marshalOString(obj.DefaultValue)
		case "isDeprecated":
			out.Values[i] = graphql.MarshalBoolean(false)
		default:
			out.Values[i] = graphql.Null
		}
	}
	return out
}

func (ec *executionContext) ___EnumValue(ctx context.Context, sel ast.SelectionSet, obj *introspection.EnumValue) graphql.Marshaler {
	fields := graphql.CollectFields(ec.opCtx, sel, []string{"__EnumValue"})
	out := graphql.NewFieldSet(fields)
	for i, field := range fields {
		switch field.Name {
		case "__typename":
			out.Values[i] = graphql.MarshalString("__EnumValue")
		case "name":
			out.Values[i] = graphql.MarshalString(obj.Name)
		case "description":
			out.Values[i] = marshalOString(obj.Description())
		case "isDeprecated":
			out.Values[i] = graphql.MarshalBoolean(obj.IsDeprecated())
		case "deprecationReason":
			out.Values[i] = marshalOString(obj.DeprecationReason())
		default:
			out.Values[i] = graphql.Null
		}
	}
	return out
}

func (ec *executionContext) ___Directive(ctx context.Context, sel ast.SelectionSet, obj *introspection.Directive) graphql.Marshaler {
	fields := graphql.CollectFields(ec.opCtx, sel, []string{"__Directive"})
	out := graphql.NewFieldSet(fields)
	for i, field := range fields {
		switch field.Name {
		case "__typename":
			out.Values[i] = graphql.MarshalString("__Directive")
		case "name":
			out.Values[i] = graphql.MarshalString(obj.Name)
		case "description":
			out.Values[i] = marshalOString(obj.Description())
		case "locations":
			ret := make(graphql.Array, len(obj.Locations))
			for j, loc := range obj.Locations {
				ret[j] = graphql.MarshalString(loc)
			}
			out.Values[i] = ret
		case "args":
			out.Values[i] = ec.marshalInputValues(ctx, field.Selections, obj.Args)
		case "isRepeatable":
			out.Values[i] = graphql.MarshalBoolean(obj.IsRepeatable)
		default:
			out.Values[i] = graphql.Null
		}
	}
	return out
}

func (ec *executionContext) marshalOType(ctx context.Context, sel ast.SelectionSet, v *introspection.Type) graphql.Marshaler {
	if v == nil {
		return graphql.Null
	}
	return ec.___Type(ctx, sel, v)
}

func (ec *executionContext) marshalTypes(ctx context.Context, sel ast.SelectionSet, v []introspection.Type) graphql.Marshaler {
	ret := make(graphql.Array, len(v))
	for i := range v {
		ret[i] = ec.___Type(ctx, sel, &v[i])
	}
	return ret
}

func (ec *executionContext) marshalOTypes(ctx context.Context, sel ast.SelectionSet, v []introspection.Type) graphql.Marshaler {
	if v == nil {
		return graphql.Null
	}
	return ec.marshalTypes(ctx, sel, v)
}

func (ec *executionContext) marshalInputValues(ctx context.Context, sel ast.SelectionSet, v []introspection.InputValue) graphql.Marshaler {
	ret := make(graphql.Array, len(v))
	for i := range v {
		ret[i] = ec.___InputValue(ctx, sel, &v[i])
	}
	return ret
}
