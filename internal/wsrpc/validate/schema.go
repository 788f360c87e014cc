// Package validate builds per-handler argument schemas from a Go params
// struct and validates/coerces inbound payloads against them.
//
// Go gives no runtime access to a function's parameter names, only their
// types, so the schema is derived from a params struct's fields instead of
// from the handler function's signature directly: each field's name (its
// json tag, or the field name) becomes the wire key, and a `ws` struct tag
// carries the two markers the spec calls for — RequiredOnSubscribe and
// Depends.
package validate

import (
	"fmt"
	"reflect"
	"strings"
	"sync"
)

// Kind is the coercion target for a leaf field.
type Kind int

const (
	KindAny Kind = iota
	KindString
	KindInt
	KindFloat
	KindBool
	KindSlice
	KindObject
)

// Field describes one parameter slot in a handler's schema.
type Field struct {
	Name                string
	Kind                Kind
	RequiredOnSubscribe bool
	Nested              *Schema    // set when Kind == KindObject and there is no Dependency
	Dependency          Dependency // set when this field is populated by a named dependency
	structIndex         int
}

// Schema is the ordered set of fields a params struct validates against.
type Schema struct {
	typ    reflect.Type
	Fields []Field
}

// schemaCache memoizes schemas per (struct type, dependency set) so repeated
// BuildSchema calls for the same pair don't re-walk reflect.Type fields.
var schemaCache sync.Map // map[schemaCacheKey]*Schema

type schemaCacheKey struct {
	typ  reflect.Type
	deps *DependencySet
}

// BuildSchema derives a Schema for params type P by reflecting over its
// fields. deps resolves `ws:"depends=<name>"` tags to a concrete Dependency;
// pass nil when the params struct declares no dependencies.
func BuildSchema[P any](deps *DependencySet) *Schema {
	var zero P
	typ := reflect.TypeOf(zero)
	return buildSchemaForType(typ, deps)
}

func buildSchemaForType(typ reflect.Type, deps *DependencySet) *Schema {
	key := schemaCacheKey{typ: typ, deps: deps}
	if cached, ok := schemaCache.Load(key); ok {
		return cached.(*Schema)
	}

	if typ.Kind() != reflect.Struct {
		panic(fmt.Sprintf("validate: params type %s must be a struct", typ))
	}

	s := &Schema{typ: typ}
	for i := 0; i < typ.NumField(); i++ {
		sf := typ.Field(i)
		if !sf.IsExported() {
			continue
		}
		f := Field{
			Name:        wireName(sf),
			structIndex: i,
		}

		tag := sf.Tag.Get("ws")
		for _, part := range strings.Split(tag, ",") {
			part = strings.TrimSpace(part)
			switch {
			case part == "required_on_subscribe":
				f.RequiredOnSubscribe = true
			case strings.HasPrefix(part, "depends="):
				depName := strings.TrimPrefix(part, "depends=")
				if deps == nil {
					panic(fmt.Sprintf("validate: field %s.%s depends on %q but no DependencySet was supplied", typ, sf.Name, depName))
				}
				dep, ok := deps.Get(depName)
				if !ok {
					panic(fmt.Sprintf("validate: unknown dependency %q referenced by %s.%s", depName, typ, sf.Name))
				}
				f.Dependency = dep
			}
		}

		if f.Dependency == nil {
			f.Kind = kindOf(sf.Type)
			if f.Kind == KindObject {
				f.Nested = buildSchemaForType(derefStruct(sf.Type), deps)
			}
		}

		s.Fields = append(s.Fields, f)
	}

	schemaCache.Store(key, s)
	return s
}

func wireName(sf reflect.StructField) string {
	if tag, ok := sf.Tag.Lookup("json"); ok {
		name := strings.Split(tag, ",")[0]
		if name != "" && name != "-" {
			return name
		}
	}
	return sf.Name
}

func derefStruct(t reflect.Type) reflect.Type {
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	return t
}

func kindOf(t reflect.Type) Kind {
	t = derefStruct(t)
	switch t.Kind() {
	case reflect.String:
		return KindString
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return KindInt
	case reflect.Float32, reflect.Float64:
		return KindFloat
	case reflect.Bool:
		return KindBool
	case reflect.Slice, reflect.Array:
		return KindSlice
	case reflect.Struct:
		return KindObject
	default:
		return KindAny
	}
}
