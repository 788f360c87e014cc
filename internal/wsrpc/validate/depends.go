package validate

import "context"

// Dependency is the validator's view of "another async function" that
// supplies a parameter's value (spec.md §3, "Dependency"). It is
// intentionally non-generic so a Schema's Field can hold one regardless of
// the dependency's own params/return types; NewDependency closes over those
// type parameters at construction time.
type Dependency interface {
	// Name identifies the dependency for error messages.
	Name() string

	// Schema returns the dependency's own argument schema, so its payload
	// can be validated in isolation before the dependency is invoked.
	Schema() *Schema

	// Invoke runs the dependency's underlying function against an already
	// validated+coerced argument map and returns its result.
	Invoke(ctx context.Context, args map[string]any) (any, error)
}

// dependencyFunc adapts a validated-args function into a Dependency.
type dependencyFunc[P, R any] struct {
	name   string
	schema *Schema
	fn     func(ctx context.Context, p P) (R, error)
}

// NewDependency builds a Dependency from a function and its own params
// type P. deps lets the dependency's params themselves contain nested
// Depends fields, satisfying spec.md's "arbitrary depth" requirement.
func NewDependency[P, R any](name string, deps *DependencySet, fn func(ctx context.Context, p P) (R, error)) Dependency {
	return &dependencyFunc[P, R]{
		name:   name,
		schema: BuildSchema[P](deps),
		fn:     fn,
	}
}

func (d *dependencyFunc[P, R]) Name() string   { return d.name }
func (d *dependencyFunc[P, R]) Schema() *Schema { return d.schema }

func (d *dependencyFunc[P, R]) Invoke(ctx context.Context, args map[string]any) (any, error) {
	var p P
	if err := decodeInto(args, &p); err != nil {
		return nil, err
	}
	return d.fn(ctx, p)
}

// DependencySet resolves `ws:"depends=<name>"` tags to concrete
// Dependencies when a schema is built. It is populated once at
// registration time and then treated as read-only.
type DependencySet struct {
	byName map[string]Dependency
}

// NewDependencySet builds a DependencySet from name->Dependency pairs.
func NewDependencySet(deps ...Dependency) *DependencySet {
	ds := &DependencySet{byName: make(map[string]Dependency, len(deps))}
	for _, d := range deps {
		ds.byName[d.Name()] = d
	}
	return ds
}

// Get looks up a dependency by name.
func (ds *DependencySet) Get(name string) (Dependency, bool) {
	if ds == nil {
		return nil, false
	}
	d, ok := ds.byName[name]
	return d, ok
}
