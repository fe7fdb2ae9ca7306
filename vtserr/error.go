// Package vtserr defines the error taxonomy shared by every layer of the
// client pipeline (transport, multiplexer, reconnect, auth, retry, façade).
//
// Every error this package constructs carries a stable Kind plus an
// optional wrapped source, reachable through Unwrap.
package vtserr

import (
	"errors"
	"fmt"
)

// Kind identifies which invariant or boundary failed. Kinds are never
// conflated: callers should branch on Kind (via Is/Has), not on message text.
type Kind string

const (
	// KindJSON means a payload was malformed in either direction.
	KindJSON Kind = "json"
	// KindTransportFull means the in-flight request ceiling was reached.
	KindTransportFull Kind = "transport_full"
	// KindConnectionRefused means the reconnect factory failed to open a connection.
	KindConnectionRefused Kind = "connection_refused"
	// KindConnectionDropped means the underlying stream closed or the client was released.
	KindConnectionDropped Kind = "connection_dropped"
	// KindRead means the underlying transport failed while receiving.
	KindRead Kind = "read"
	// KindWrite means the underlying transport failed while sending.
	KindWrite Kind = "write"
	// KindDesynchronized means a reply's request ID matched no pending slot. Informational.
	KindDesynchronized Kind = "desynchronized"
	// KindAPI means the host rejected the request with an APIError response.
	KindAPI Kind = "api"
	// KindUnexpectedResponse means the response messageType didn't match the caller's expectation.
	KindUnexpectedResponse Kind = "unexpected_response"
	// KindAuthentication means the handshake completed with authenticated=false and no recovery left.
	KindAuthentication Kind = "authentication"
	// KindUnexpectedFrame means a non-text, non-ping WebSocket frame was received.
	KindUnexpectedFrame Kind = "unexpected_frame"
	// KindOther is a catch-all for errors that don't fit another kind.
	KindOther Kind = "other"
)

// Error is the error type the client pipeline's layers construct. Context
// cancellation surfaces as the context's own error, and the embedder-level
// packages (pluginconfig, tokenstore) return plain errors.
type Error struct {
	Kind Kind
	// Expected/Received are populated for KindUnexpectedResponse.
	Expected string
	Received string
	// APIErrorID/APIMessage are populated for KindAPI.
	APIErrorID int32
	APIMessage string

	msg string
	err error
}

// New creates an Error of the given Kind with no wrapped source.
func New(kind Kind) *Error {
	return &Error{Kind: kind}
}

// Wrap creates an Error of the given Kind wrapping source.
func Wrap(kind Kind, source error) *Error {
	return &Error{Kind: kind, err: source}
}

// WithMessage attaches a human-readable message, returning the receiver for chaining.
func (e *Error) WithMessage(msg string) *Error {
	e.msg = msg
	return e
}

func (e *Error) Error() string {
	label := string(e.Kind)
	switch e.Kind {
	case KindUnexpectedResponse:
		label = fmt.Sprintf("unexpected response (expected %s, received %s)", e.Expected, e.Received)
	case KindAPI:
		label = fmt.Sprintf("api error %d: %s", e.APIErrorID, e.APIMessage)
	}

	switch {
	case e.msg != "" && e.err != nil:
		return fmt.Sprintf("%s: %s: %v", label, e.msg, e.err)
	case e.msg != "":
		return fmt.Sprintf("%s: %s", label, e.msg)
	case e.err != nil:
		return fmt.Sprintf("%s: %v", label, e.err)
	default:
		return label
	}
}

func (e *Error) Unwrap() error { return e.err }

// Is reports whether target is an *Error with the same Kind, so that
// errors.Is(err, vtserr.New(vtserr.KindConnectionDropped)) works as expected.
func (e *Error) Is(target error) bool {
	var other *Error
	if errors.As(target, &other) {
		return e.Kind == other.Kind
	}
	return false
}

// HasKind reports whether err, or any error in its chain, is an *Error of the given Kind.
func HasKind(err error, kind Kind) bool {
	for err != nil {
		var e *Error
		if errors.As(err, &e) && e.Kind == kind {
			return true
		}
		unwrapped := errors.Unwrap(err)
		if unwrapped == err {
			break
		}
		err = unwrapped
	}
	return false
}

// NewAPIError builds a KindAPI error from an error ID and message.
func NewAPIError(errorID int32, message string) *Error {
	return &Error{Kind: KindAPI, APIErrorID: errorID, APIMessage: message}
}

// NewUnexpectedResponse builds a KindUnexpectedResponse error.
func NewUnexpectedResponse(expected, received string) *Error {
	return &Error{Kind: KindUnexpectedResponse, Expected: expected, Received: received}
}

// IsAuthError reports whether err is a KindAPI error carrying the
// "RequestRequiresAuthentication" error ID (8).
func IsAuthError(err error) bool {
	var e *Error
	if errors.As(err, &e) && e.Kind == KindAPI {
		return e.APIErrorID == RequestRequiresAuthenticationID
	}
	return false
}

// RequestRequiresAuthenticationID is the well-known APIError errorID that
// triggers re-authentication (see vtsdata.ErrorID).
const RequestRequiresAuthenticationID int32 = 8
