package wsrpc

import "fmt"

// RegistrationError is returned by createChannel/createAction (and so by
// Channel, Action and App.IncludeRouter) when a name
// is already registered, as either a channel or an action (spec.md §3,
// "Name uniqueness"). It is fatal at startup (spec.md §7).
type RegistrationError struct {
	Name string
}

func (e *RegistrationError) Error() string {
	return fmt.Sprintf("wsrpc: name %q is already registered", e.Name)
}

// EnvelopeError models spec.md §7's "envelope error": a missing type,
// missing channel, or unknown type on an inbound frame. Nothing in this
// package returns it: the Dispatcher reports envelope errors to the socket
// as error frames and keeps the connection open.
type EnvelopeError struct {
	Message string
}

func (e *EnvelopeError) Error() string { return e.Message }

// NotFoundError models spec.md §7's "not-found error": an unknown channel
// on subscribe, or an unknown action name. Nothing in this package returns
// it: the Manager reports these to the socket as error frames.
type NotFoundError struct {
	Message string
}

func (e *NotFoundError) Error() string { return e.Message }
