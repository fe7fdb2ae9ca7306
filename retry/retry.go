// Package retry implements the retry middleware: a thin layer above
// authentication that replays a call exactly once after a disconnect, and
// exactly once after an authentication-error recovery, per call.
package retry

import (
	"context"

	"github.com/walfie/vts-plugin-go/vtsdata"
	"github.com/walfie/vts-plugin-go/vtserr"
)

// Sender is the inner service the middleware wraps — typically the
// authentication middleware sitting atop the reconnecting service.
type Sender interface {
	Send(ctx context.Context, env vtsdata.RequestEnvelope) (vtsdata.ResponseEnvelope, error)
}

// Options controls which single-shot retries are enabled for a call. Both
// default to true in the client builder.
type Options struct {
	// RetryOnDisconnect replays the call once if it fails because the
	// connection was dropped or could not be (re)established.
	RetryOnDisconnect bool
	// RetryOnAuthError replays the call once if it fails because the inner
	// authentication middleware could not recover from an auth error.
	RetryOnAuthError bool
}

// DefaultOptions matches the client builder's default: both retries enabled.
func DefaultOptions() Options {
	return Options{RetryOnDisconnect: true, RetryOnAuthError: true}
}

// Middleware wraps inner with the retry policy in opts.
type Middleware struct {
	inner Sender
	opts  Options
}

// New creates a Middleware.
func New(inner Sender, opts Options) *Middleware {
	return &Middleware{inner: inner, opts: opts}
}

// Send forwards env to the inner sender. On failure it retries at most once:
// retry_on_disconnect covers ConnectionRefused/ConnectionDropped/Read/Write
// failures, retry_on_auth_error covers KindAuthentication failures. Each flag
// is consumed at most once per call — a second failure of the same class is
// returned to the caller.
func (m *Middleware) Send(ctx context.Context, env vtsdata.RequestEnvelope) (vtsdata.ResponseEnvelope, error) {
	retryOnDisconnect := m.opts.RetryOnDisconnect
	retryOnAuthError := m.opts.RetryOnAuthError

	for {
		resp, err := m.inner.Send(ctx, env)
		if err == nil {
			return resp, nil
		}

		switch {
		case retryOnDisconnect && isDisconnectFailure(err):
			retryOnDisconnect = false
			continue
		case retryOnAuthError && vtserr.HasKind(err, vtserr.KindAuthentication):
			retryOnAuthError = false
			continue
		default:
			return resp, err
		}
	}
}

func isDisconnectFailure(err error) bool {
	return vtserr.HasKind(err, vtserr.KindConnectionRefused) ||
		vtserr.HasKind(err, vtserr.KindConnectionDropped) ||
		vtserr.HasKind(err, vtserr.KindRead) ||
		vtserr.HasKind(err, vtserr.KindWrite)
}
