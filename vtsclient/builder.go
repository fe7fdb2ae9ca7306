package vtsclient

import (
	"context"
	"log/slog"

	"github.com/walfie/vts-plugin-go/auth"
	"github.com/walfie/vts-plugin-go/eventstream"
	"github.com/walfie/vts-plugin-go/internal/obslog"
	"github.com/walfie/vts-plugin-go/mux"
	"github.com/walfie/vts-plugin-go/reconnect"
	"github.com/walfie/vts-plugin-go/retry"
	"github.com/walfie/vts-plugin-go/transport"
	"github.com/walfie/vts-plugin-go/vtserr"
)

// DefaultURL is the reconnect target used unless overridden with Builder.URL.
const DefaultURL = "ws://localhost:8001"

type options struct {
	url               string
	authToken         string
	pluginInfo        *auth.PluginInfo
	tokenObserver     auth.TokenObserver
	retryOnDisconnect bool
	retryOnAuthError  bool
	requestBuffer     int
	eventBuffer       int
	logger            *slog.Logger
	factory           reconnect.Factory
}

// Builder assembles a Client and its lifecycle/event channel. The zero
// Builder (via NewBuilder) targets ws://localhost:8001 with no
// authentication and both retries enabled.
type Builder struct {
	opts options
}

// NewBuilder returns a Builder seeded with the documented defaults.
func NewBuilder() *Builder {
	return &Builder{opts: options{
		url:               DefaultURL,
		retryOnDisconnect: true,
		retryOnAuthError:  true,
	}}
}

// URL sets the reconnect target. Default: ws://localhost:8001.
func (b *Builder) URL(url string) *Builder {
	b.opts.url = url
	return b
}

// AuthToken seeds the authentication state with a previously obtained token,
// so the handshake can skip straight to the authenticate step. Requires
// Authentication to also be set.
func (b *Builder) AuthToken(token string) *Builder {
	b.opts.authToken = token
	return b
}

// Authentication installs the authentication middleware with the given
// plugin identity, used to build AuthenticationTokenRequest and
// AuthenticationRequest payloads. pluginIcon may be nil.
func (b *Builder) Authentication(pluginName, pluginDeveloper string, pluginIcon *string) *Builder {
	b.opts.pluginInfo = &auth.PluginInfo{
		PluginName:      pluginName,
		PluginDeveloper: pluginDeveloper,
		PluginIcon:      pluginIcon,
	}
	return b
}

// TokenObserver registers an additional observer notified whenever the
// handshake obtains a new token (e.g. tokenstore.Store, to persist it). The
// façade's own signal bus always sees every new token regardless of this
// option; this is for embedders that want persistence without polling the
// event channel.
func (b *Builder) TokenObserver(obs auth.TokenObserver) *Builder {
	b.opts.tokenObserver = obs
	return b
}

// RetryOnDisconnect controls whether a call is replayed once after a
// disconnection. Default: true.
func (b *Builder) RetryOnDisconnect(v bool) *Builder {
	b.opts.retryOnDisconnect = v
	return b
}

// RetryOnAuthError controls whether a call is replayed once after an
// authentication-error recovery. Default: true.
func (b *Builder) RetryOnAuthError(v bool) *Builder {
	b.opts.retryOnAuthError = v
	return b
}

// RequestBuffer sets the ceiling on concurrent in-flight requests per
// connection. Zero (the default) means no ceiling.
func (b *Builder) RequestBuffer(n int) *Builder {
	b.opts.requestBuffer = n
	return b
}

// EventBuffer sets the capacity of the lifecycle/event channel returned by
// Build. Default: 16.
func (b *Builder) EventBuffer(n int) *Builder {
	b.opts.eventBuffer = n
	return b
}

// Logger sets the *slog.Logger shared by every layer of the pipeline.
// Default: a discard logger.
func (b *Builder) Logger(log *slog.Logger) *Builder {
	b.opts.logger = log
	return b
}

// Factory overrides how a fresh (transport, multiplexer) pair is produced on
// (re)connect. Embedders normally never call this; it exists so tests (and
// alternative transports) can substitute something other than
// transport.Dial.
func (b *Builder) Factory(f reconnect.Factory) *Builder {
	b.opts.factory = f
	return b
}

// Build constructs the pipeline and returns the client alongside its
// lifecycle/event channel. The channel is never closed, not even by
// Client.Close: a range over it does not end on its own.
func (b *Builder) Build() (*Client, <-chan Signal, error) {
	opts := b.opts

	if opts.authToken != "" && opts.pluginInfo == nil {
		return nil, nil, vtserr.New(vtserr.KindOther).
			WithMessage("AuthToken was set without Authentication; call Authentication first")
	}

	log := opts.logger
	if log == nil {
		log = obslog.Discard()
	}

	bus := newSignalBus(opts.eventBuffer, log)

	factory := opts.factory
	if factory == nil {
		factory = defaultFactory(log, bus, opts.requestBuffer)
	}

	svc := reconnect.New(factory, opts.url, bus, log)

	var sender Sender = svc
	if opts.pluginInfo != nil {
		observer := auth.TokenObserver(bus)
		if opts.tokenObserver != nil {
			observer = multiObserver{bus, opts.tokenObserver}
		}
		sender = auth.New(svc, *opts.pluginInfo, opts.authToken, observer)
	}

	sender = retry.New(sender, retry.Options{
		RetryOnDisconnect: opts.retryOnDisconnect,
		RetryOnAuthError:  opts.retryOnAuthError,
	})

	client := &Client{sender: sender, close: svc.Close}
	return client, bus.ch, nil
}

// defaultFactory wires the default production pipeline for a fresh
// connection: dial the WebSocket, wrap it as a message transport, split
// events from it, and hand the remaining response stream to a fresh
// multiplexer.
func defaultFactory(log *slog.Logger, sink eventstream.Sink, requestBuffer int) reconnect.Factory {
	return func(ctx context.Context, url string) (reconnect.Connection, error) {
		conn, err := transport.Dial(ctx, url)
		if err != nil {
			return reconnect.Connection{}, err
		}

		mt := transport.NewMessageTransport(conn, log)
		splitter := eventstream.New(mt, sink, log)
		m := mux.New(splitter, mt, log, requestBuffer)

		return reconnect.Connection{Sender: m, Run: m.Run}, nil
	}
}
