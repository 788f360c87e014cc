package wsrpc

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aumbhatt/wsrpc/internal/wsrpc/validate"
)

type simpleActionParams struct {
	A int `json:"a"`
	B int `json:"b"`
}

type sumResult struct {
	Sum int `json:"sum"`
}

func TestAction_CallReturnsResultDirectly(t *testing.T) {
	app := newTestApp()
	h := MustAction(app, "simple_action", nil, func(ctx context.Context, p simpleActionParams) (sumResult, error) {
		return sumResult{Sum: p.A + p.B}, nil
	})

	res, err := h.Call(context.Background(), simpleActionParams{A: 2, B: 3})
	require.NoError(t, err)
	assert.Equal(t, 5, res.Sum)
}

func TestAction_InvokeSendsActionReplyWithData(t *testing.T) {
	app := newTestApp()
	MustAction(app, "simple_action", nil, func(ctx context.Context, p simpleActionParams) (sumResult, error) {
		return sumResult{Sum: p.A + p.B}, nil
	})

	sock := newFakeSocket("s1")
	app.Manager.Action(context.Background(), "simple_action", sock, map[string]any{"a": 2, "b": 3})

	msgs := sock.messages()
	require.Len(t, msgs, 1)
	assert.Contains(t, string(msgs[0]), `"status":"completed"`)
	assert.Contains(t, string(msgs[0]), `"sum":5`)
}

func TestAction_InvokeWithNoReplyOmitsData(t *testing.T) {
	app := newTestApp()
	MustAction(app, "fire_and_forget", nil, func(ctx context.Context, p simpleActionParams) (NoReply, error) {
		return NoReply{}, nil
	})

	sock := newFakeSocket("s1")
	app.Manager.Action(context.Background(), "fire_and_forget", sock, map[string]any{"a": 1, "b": 1})

	msgs := sock.messages()
	require.Len(t, msgs, 1)
	assert.Contains(t, string(msgs[0]), `"status":"completed"`)
	assert.NotContains(t, string(msgs[0]), `"data"`)
}

func TestAction_InvokeInvalidParamsSendsError(t *testing.T) {
	app := newTestApp()
	MustAction(app, "simple_action", nil, func(ctx context.Context, p simpleActionParams) (sumResult, error) {
		return sumResult{Sum: p.A + p.B}, nil
	})

	sock := newFakeSocket("s1")
	app.Manager.Action(context.Background(), "simple_action", sock, map[string]any{"a": "not-a-number"})

	msgs := sock.messages()
	require.Len(t, msgs, 1)
	assert.Contains(t, string(msgs[0]), "Invalid parameters for action 'simple_action'")
}

func TestAction_UserFunctionErrorIsSwallowedNotSentToSocket(t *testing.T) {
	app := newTestApp()
	MustAction(app, "boom", nil, func(ctx context.Context, p simpleActionParams) (sumResult, error) {
		return sumResult{}, assert.AnError
	})

	sock := newFakeSocket("s1")
	app.Manager.Action(context.Background(), "boom", sock, map[string]any{"a": 1, "b": 1})

	assert.Empty(t, sock.messages())
}

func TestAction_UnknownActionSendsNotFoundError(t *testing.T) {
	app := newTestApp()
	sock := newFakeSocket("s1")
	app.Manager.Action(context.Background(), "nope", sock, map[string]any{})

	msgs := sock.messages()
	require.Len(t, msgs, 1)
	assert.Contains(t, string(msgs[0]), "Action 'nope' not found")
}

// Nested dependency chain: action "nested" -> depends on "current_user" ->
// depends on "session". Exercises validate.NewDependency's arbitrary-depth
// resolution end to end through an ActionHandler.
type sessionParams struct {
	Token string `json:"token"`
}

type userParams struct {
	Session string `json:"session" ws:"depends=session"`
}

type nestedActionParams struct {
	User string `json:"user" ws:"depends=current_user"`
	Note string `json:"note"`
}

func TestAction_NestedDependencyChainResolvesEndToEnd(t *testing.T) {
	sessionDep := validate.NewDependency("session", nil, func(ctx context.Context, p sessionParams) (string, error) {
		return "session-for-" + p.Token, nil
	})
	sessionDeps := validate.NewDependencySet(sessionDep)

	userDep := validate.NewDependency("current_user", sessionDeps, func(ctx context.Context, p userParams) (string, error) {
		return "user:" + p.Session, nil
	})
	deps := validate.NewDependencySet(userDep)

	app := newTestApp()
	MustAction(app, "nested", deps, func(ctx context.Context, p nestedActionParams) (sumResult, error) {
		return sumResult{}, nil
	})

	sock := newFakeSocket("s1")
	app.Manager.Action(context.Background(), "nested", sock, map[string]any{
		"note": "hi",
		"user": map[string]any{"session": map[string]any{"token": "abc"}},
	})

	msgs := sock.messages()
	require.Len(t, msgs, 1)
	assert.Contains(t, string(msgs[0]), `"status":"completed"`)
}
