package demo

import (
	"context"

	"github.com/aumbhatt/wsrpc/internal/wsrpc"
	"github.com/aumbhatt/wsrpc/internal/wsrpc/validate"
)

// CommonParams is the innermost dependency of the "Nested dependency"
// scenario (spec.md §8 scenario 3): common(a: int, b: str).
type CommonParams struct {
	A int    `json:"a"`
	B string `json:"b"`
}

// NestedParams depends on "common"; X carries whatever common returned.
type NestedParams struct {
	X string `json:"x" ws:"depends=common"`
}

// NestedResult is nested's own return shape, {"x": x}, and also act's
// result shape (act just forwards its dependency's result).
type NestedResult struct {
	X string `json:"x"`
}

// ActParams depends on "nested" under the field name "dep".
type ActParams struct {
	Dep NestedResult `json:"dep" ws:"depends=nested"`
}

// RegisterNestedDependencyChain wires common -> nested -> act exactly as
// spec.md §8 scenario 3 describes it, via a Router to also exercise the
// late-binding registration surface (spec.md §4.6 / design note §9): the
// chain is fully declared before RegisterNestedDependencyChain's caller
// ever has an *App, and is only bound to one when IncludeRouter runs.
func RegisterNestedDependencyChain() (*wsrpc.Router, *wsrpc.ActionRef[ActParams, NestedResult]) {
	router := wsrpc.NewRouter()

	common := validate.NewDependency("common", nil, func(ctx context.Context, p CommonParams) (string, error) {
		return "dependency result", nil
	})
	commonDeps := validate.NewDependencySet(common)

	nested := validate.NewDependency("nested", commonDeps, func(ctx context.Context, p NestedParams) (NestedResult, error) {
		return NestedResult{X: p.X}, nil
	})
	nestedDeps := validate.NewDependencySet(nested)

	act := wsrpc.RouterAction(router, "act", nestedDeps, func(ctx context.Context, p ActParams) (NestedResult, error) {
		return p.Dep, nil
	})

	return router, act
}
