package validate

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
)

// Error is returned by Validate on any validation failure. It always
// carries the name of the handler being validated (spec.md §4.1: "raise
// ValidationError carrying the handler name").
type Error struct {
	HandlerName string
	Field       string
	Reason      string
}

func (e *Error) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("validate %s: %s", e.HandlerName, e.Reason)
	}
	return fmt.Sprintf("validate %s: field %q: %s", e.HandlerName, e.Field, e.Reason)
}

func fail(handlerName, field, reason string) error {
	return &Error{HandlerName: handlerName, Field: field, Reason: reason}
}

// Validate implements spec.md §4.1's validate(H, P, onSubscribe): it walks
// schema's fields against payload, recursively resolving dependencies and
// coercing leaf values, and returns the coerced argument map ready to be
// decoded into the handler's params struct. onSubscribe gates which fields
// participate (spec.md "RequiredOnSubscribe").
func Validate(ctx context.Context, handlerName string, schema *Schema, payload map[string]any, onSubscribe bool) (map[string]any, error) {
	out := make(map[string]any, len(schema.Fields))

	for _, f := range schema.Fields {
		if onSubscribe && !f.RequiredOnSubscribe {
			continue
		}

		raw, present := payload[f.Name]

		if f.Dependency != nil {
			sub, _ := raw.(map[string]any)
			if sub == nil {
				sub = map[string]any{}
			}
			coercedSub, err := Validate(ctx, f.Dependency.Name(), f.Dependency.Schema(), sub, onSubscribe)
			if err != nil {
				return nil, err
			}
			result, err := f.Dependency.Invoke(ctx, coercedSub)
			if err != nil {
				return nil, fail(handlerName, f.Name, err.Error())
			}
			out[f.Name] = result
			continue
		}

		if !present {
			return nil, fail(handlerName, f.Name, "required field is missing")
		}

		coerced, err := coerceValue(ctx, handlerName, f, raw, onSubscribe)
		if err != nil {
			return nil, err
		}
		out[f.Name] = coerced
	}

	return out, nil
}

func coerceValue(ctx context.Context, handlerName string, f Field, raw any, onSubscribe bool) (any, error) {
	switch f.Kind {
	case KindString:
		s, ok := raw.(string)
		if !ok {
			return nil, fail(handlerName, f.Name, "expected a string")
		}
		return s, nil

	case KindBool:
		switch v := raw.(type) {
		case bool:
			return v, nil
		case string:
			b, err := strconv.ParseBool(v)
			if err != nil {
				return nil, fail(handlerName, f.Name, "expected a boolean")
			}
			return b, nil
		default:
			return nil, fail(handlerName, f.Name, "expected a boolean")
		}

	case KindInt:
		switch v := raw.(type) {
		case float64:
			return v, nil
		case int:
			return float64(v), nil
		case int64:
			return float64(v), nil
		case json.Number:
			n, err := v.Float64()
			if err != nil {
				return nil, fail(handlerName, f.Name, "expected an integer")
			}
			return n, nil
		case string:
			n, err := strconv.ParseFloat(v, 64)
			if err != nil {
				return nil, fail(handlerName, f.Name, "expected an integer")
			}
			return n, nil
		default:
			return nil, fail(handlerName, f.Name, "expected an integer")
		}

	case KindFloat:
		switch v := raw.(type) {
		case float64:
			return v, nil
		case string:
			n, err := strconv.ParseFloat(v, 64)
			if err != nil {
				return nil, fail(handlerName, f.Name, "expected a number")
			}
			return n, nil
		default:
			return nil, fail(handlerName, f.Name, "expected a number")
		}

	case KindSlice:
		s, ok := raw.([]any)
		if !ok {
			return nil, fail(handlerName, f.Name, "expected an array")
		}
		return s, nil

	case KindObject:
		sub, ok := raw.(map[string]any)
		if !ok {
			return nil, fail(handlerName, f.Name, "expected an object")
		}
		coerced, err := Validate(ctx, handlerName, f.Nested, sub, onSubscribe)
		if err != nil {
			return nil, err
		}
		return coerced, nil

	default: // KindAny
		return raw, nil
	}
}

// decodeInto converts a coerced argument map into a concrete params struct
// by round-tripping through JSON. This is the one place numeric coercion
// (float64 -> int, etc.) happens for free via encoding/json's own decoding
// rules once the map values are already schema-correct.
func decodeInto(args map[string]any, dst any) error {
	raw, err := json.Marshal(args)
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, dst)
}

// DecodeInto is exported for handler construction: it converts a validated
// argument map into the handler's params struct.
func DecodeInto(args map[string]any, dst any) error {
	return decodeInto(args, dst)
}
