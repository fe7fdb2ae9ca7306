// Package auth implements the authentication middleware: it owns the
// {stored_token, is_authenticated} state shared across concurrent calls,
// performs the token-then-authenticate handshake on demand, and reacts to
// the host's "request requires authentication" error by re-authenticating
// and replaying the call once.
package auth

import (
	"context"
	"sync"

	"github.com/walfie/vts-plugin-go/vtsdata"
	"github.com/walfie/vts-plugin-go/vtserr"
)

// Sender is the subset of the inner service (the reconnecting service) that
// the middleware wraps.
type Sender interface {
	Send(ctx context.Context, env vtsdata.RequestEnvelope) (vtsdata.ResponseEnvelope, error)
}

// TokenObserver is notified whenever the handshake obtains a new token from
// the host, so the embedder can persist it.
type TokenObserver interface {
	NewAuthToken(token string)
}

// PluginInfo is the template used to build AuthenticationTokenRequest and
// AuthenticationRequest payloads.
type PluginInfo struct {
	PluginName      string
	PluginDeveloper string
	PluginIcon      *string
}

// Middleware wraps a Sender with authentication. Safe for concurrent use:
// the mutex is held across the whole handshake, including its network calls
// (see handshake), so that concurrent callers arriving mid-handshake share
// its result instead of each triggering their own.
type Middleware struct {
	inner    Sender
	info     PluginInfo
	observer TokenObserver

	mu              sync.Mutex
	storedToken     string
	isAuthenticated bool
}

// New creates a Middleware. initialToken seeds stored_token (may be empty).
func New(inner Sender, info PluginInfo, initialToken string, observer TokenObserver) *Middleware {
	return &Middleware{inner: inner, info: info, storedToken: initialToken, observer: observer}
}

// Send ensures the connection is authenticated (running the handshake if
// necessary), forwards env, and recovers from a single
// RequestRequiresAuthentication error by re-authenticating and retrying once.
func (m *Middleware) Send(ctx context.Context, env vtsdata.RequestEnvelope) (vtsdata.ResponseEnvelope, error) {
	if !m.authenticated() {
		if err := m.handshake(ctx); err != nil {
			return vtsdata.ResponseEnvelope{}, err
		}
	}

	resp, err := m.inner.Send(ctx, env)
	if err != nil {
		if vtserr.HasKind(err, vtserr.KindConnectionDropped) {
			m.setAuthenticated(false)
		}
		return resp, err
	}

	if resp.IsAPIError() {
		apiErr, parseErr := resp.ParseAPIError()
		if parseErr == nil && apiErr.IsAuthenticationError() {
			m.setAuthenticated(false)
			if err := m.handshake(ctx); err != nil {
				return vtsdata.ResponseEnvelope{}, err
			}

			resp, err = m.inner.Send(ctx, env)
			if err != nil {
				return resp, err
			}
			if resp.IsAPIError() {
				if apiErr2, err2 := resp.ParseAPIError(); err2 == nil {
					return resp, vtserr.NewAPIError(int32(apiErr2.ErrorID), apiErr2.Message)
				}
			}
		}
	}

	return resp, nil
}

func (m *Middleware) authenticated() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.isAuthenticated
}

func (m *Middleware) setAuthenticated(v bool) {
	m.mu.Lock()
	m.isAuthenticated = v
	m.mu.Unlock()
}

// handshake runs the token-then-authenticate exchange under the mutex:
// concurrent callers that arrive while a handshake is in progress block on
// the lock and, once it's released, re-check is_authenticated rather than
// running their own handshake.
//
// Holding the lock across the exchange's network calls is deliberate, even
// though everywhere else this type only locks around state inspection:
// releasing it mid-exchange would let two cold callers each send a token
// request, prompting the user for plugin access twice. The serialization
// cost only applies while unauthenticated.
func (m *Middleware) handshake(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.isAuthenticated {
		return nil
	}

	if m.storedToken != "" {
		ok, err := m.tryAuthenticateLocked(ctx, m.storedToken)
		if err != nil {
			return err
		}
		if ok {
			m.isAuthenticated = true
			return nil
		}
	}

	token, err := m.requestNewTokenLocked(ctx)
	if err != nil {
		return err
	}

	m.storedToken = token
	if m.observer != nil {
		m.observer.NewAuthToken(token)
	}

	ok, err := m.tryAuthenticateLocked(ctx, token)
	if err != nil {
		return err
	}
	if !ok {
		m.isAuthenticated = false
		return vtserr.New(vtserr.KindAuthentication).WithMessage("host rejected freshly issued token")
	}

	m.isAuthenticated = true
	return nil
}

func (m *Middleware) tryAuthenticateLocked(ctx context.Context, token string) (bool, error) {
	req := vtsdata.AuthenticationRequest{
		PluginName:          m.info.PluginName,
		PluginDeveloper:     m.info.PluginDeveloper,
		AuthenticationToken: token,
	}
	env, err := vtsdata.NewRequestEnvelope(req)
	if err != nil {
		return false, vtserr.Wrap(vtserr.KindJSON, err)
	}

	resp, err := m.inner.Send(ctx, env)
	if err != nil {
		return false, err
	}
	if resp.IsAPIError() {
		apiErr, parseErr := resp.ParseAPIError()
		if parseErr != nil {
			return false, vtserr.Wrap(vtserr.KindJSON, parseErr)
		}
		return false, vtserr.NewAPIError(int32(apiErr.ErrorID), apiErr.Message)
	}

	authResp, err := vtsdata.Parse[vtsdata.AuthenticationResponse](resp)
	if err != nil {
		return false, err
	}
	return authResp.Authenticated, nil
}

func (m *Middleware) requestNewTokenLocked(ctx context.Context) (string, error) {
	req := vtsdata.AuthenticationTokenRequest{
		PluginName:      m.info.PluginName,
		PluginDeveloper: m.info.PluginDeveloper,
		PluginIcon:      m.info.PluginIcon,
	}
	env, err := vtsdata.NewRequestEnvelope(req)
	if err != nil {
		return "", vtserr.Wrap(vtserr.KindJSON, err)
	}

	resp, err := m.inner.Send(ctx, env)
	if err != nil {
		return "", err
	}
	if resp.IsAPIError() {
		apiErr, parseErr := resp.ParseAPIError()
		if parseErr != nil {
			return "", vtserr.Wrap(vtserr.KindJSON, parseErr)
		}
		return "", vtserr.NewAPIError(int32(apiErr.ErrorID), apiErr.Message)
	}

	tokenResp, err := vtsdata.Parse[vtsdata.AuthenticationTokenResponse](resp)
	if err != nil {
		return "", err
	}
	return tokenResp.AuthenticationToken, nil
}
