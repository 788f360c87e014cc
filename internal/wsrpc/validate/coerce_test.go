package validate

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type chatParams struct {
	Room    string `json:"room" ws:"required_on_subscribe"`
	Message string `json:"message"`
}

func TestValidate_RequiredOnSubscribeGatesFields(t *testing.T) {
	s := BuildSchema[chatParams](nil)

	args, err := Validate(context.Background(), "chat", s, map[string]any{"room": "general"}, true)
	require.NoError(t, err)
	assert.Equal(t, "general", args["room"])
	_, hasMessage := args["message"]
	assert.False(t, hasMessage)
}

func TestValidate_FullPassRequiresAllFields(t *testing.T) {
	s := BuildSchema[chatParams](nil)

	_, err := Validate(context.Background(), "chat", s, map[string]any{"room": "general"}, false)
	require.Error(t, err)
	var verr *Error
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "message", verr.Field)
}

func TestValidate_CoercesNumericStrings(t *testing.T) {
	type params struct {
		Count int  `json:"count"`
		Flag  bool `json:"flag"`
	}
	s := BuildSchema[params](nil)

	args, err := Validate(context.Background(), "h", s, map[string]any{"count": "42", "flag": "true"}, false)
	require.NoError(t, err)
	assert.Equal(t, float64(42), args["count"])
	assert.Equal(t, true, args["flag"])

	var p params
	require.NoError(t, DecodeInto(args, &p))
	assert.Equal(t, 42, p.Count)
	assert.True(t, p.Flag)
}

func TestValidate_RejectsWrongType(t *testing.T) {
	type params struct {
		Name string `json:"name"`
	}
	s := BuildSchema[params](nil)

	_, err := Validate(context.Background(), "h", s, map[string]any{"name": 5}, false)
	require.Error(t, err)
}

func TestValidate_NestedObjectRecurses(t *testing.T) {
	type inner struct {
		X int `json:"x"`
	}
	type outer struct {
		Inner inner `json:"inner"`
	}
	s := BuildSchema[outer](nil)

	args, err := Validate(context.Background(), "h", s, map[string]any{
		"inner": map[string]any{"x": 3},
	}, false)
	require.NoError(t, err)

	sub, ok := args["inner"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, float64(3), sub["x"])
}

type currentUserParams struct{}

func TestValidate_DependencyResolvedAndInjected(t *testing.T) {
	dep := NewDependency("current_user", nil, func(ctx context.Context, p currentUserParams) (string, error) {
		return "ada", nil
	})
	deps := NewDependencySet(dep)

	type params struct {
		User string `json:"user" ws:"depends=current_user"`
	}
	s := BuildSchema[params](deps)

	args, err := Validate(context.Background(), "h", s, map[string]any{}, false)
	require.NoError(t, err)
	assert.Equal(t, "ada", args["user"])
}

func TestValidate_DependencyErrorWrapsHandlerName(t *testing.T) {
	dep := NewDependency("current_user", nil, func(ctx context.Context, p currentUserParams) (string, error) {
		return "", errors.New("not authenticated")
	})
	deps := NewDependencySet(dep)

	type params struct {
		User string `json:"user" ws:"depends=current_user"`
	}
	s := BuildSchema[params](deps)

	_, err := Validate(context.Background(), "secure_action", s, map[string]any{}, false)
	require.Error(t, err)
	var verr *Error
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "secure_action", verr.HandlerName)
}

func TestValidate_NestedDependencyArbitraryDepth(t *testing.T) {
	innerDep := NewDependency("inner_dep", nil, func(ctx context.Context, p currentUserParams) (string, error) {
		return "base", nil
	})
	innerDeps := NewDependencySet(innerDep)

	type middleParams struct {
		Base string `json:"base" ws:"depends=inner_dep"`
	}
	outerDep := NewDependency("outer_dep", innerDeps, func(ctx context.Context, p middleParams) (string, error) {
		return p.Base + "+outer", nil
	})
	outerDeps := NewDependencySet(outerDep)

	type params struct {
		Value string `json:"value" ws:"depends=outer_dep"`
	}
	s := BuildSchema[params](outerDeps)

	args, err := Validate(context.Background(), "h", s, map[string]any{}, false)
	require.NoError(t, err)
	assert.Equal(t, "base+outer", args["value"])
}
