// Package reconnect implements the reconnecting service: on demand, it
// (re)establishes a fresh transport and multiplexer pair and emits connection
// lifecycle signals, without itself retrying the call that triggered the
// reconnect — that's the retry middleware's job.
package reconnect

import (
	"context"
	"log/slog"
	"sync"

	"github.com/walfie/vts-plugin-go/vtsdata"
	"github.com/walfie/vts-plugin-go/vtserr"
)

// Sender is the subset of *mux.Multiplexer the service forwards calls to.
type Sender interface {
	Send(ctx context.Context, env vtsdata.RequestEnvelope) (vtsdata.ResponseEnvelope, error)
}

// Connection bundles a freshly dialed multiplexer with the driver task that
// must run for its lifetime. Run is expected to block until the connection
// is lost, the way (*mux.Multiplexer).Run does.
type Connection struct {
	Sender Sender
	Run    func(ctx context.Context) error
}

// Factory produces a fresh Connection for url. It is the caller's one
// extension point for wiring together transport.Dial, transport.MessageTransport,
// eventstream.Splitter, and mux.New.
type Factory func(ctx context.Context, url string) (Connection, error)

// Lifecycle is the one place connection lifecycle signals are emitted; the
// root client façade implements this over its broadcast channel.
type Lifecycle interface {
	Connected()
	Disconnected(reason error)
}

// Service owns the demand-driven reconnect loop described by the core design:
// it is either Connected (holding a live Sender) or Disconnected, and only
// ever (re)connects lazily, from inside Send.
type Service struct {
	factory Factory
	url     string
	log     *slog.Logger
	life    Lifecycle

	mu      sync.Mutex
	current Sender
	cancel  context.CancelFunc
}

// New creates a Service targeting url. No connection is established until
// the first Send.
func New(factory Factory, url string, life Lifecycle, log *slog.Logger) *Service {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &Service{factory: factory, url: url, log: log, life: life}
}

// Send forwards env to the current connection, reconnecting first if
// currently disconnected. A Read/Write/ConnectionDropped error from the
// underlying multiplexer transitions the service back to Disconnected and is
// returned to the caller verbatim; the service itself never retries.
func (s *Service) Send(ctx context.Context, env vtsdata.RequestEnvelope) (vtsdata.ResponseEnvelope, error) {
	sender, err := s.ensureConnected(ctx)
	if err != nil {
		return vtsdata.ResponseEnvelope{}, err
	}

	resp, err := sender.Send(ctx, env)
	if err != nil && isConnectionFailure(err) {
		s.transitionToDisconnected(err)
	}
	return resp, err
}

func isConnectionFailure(err error) bool {
	return vtserr.HasKind(err, vtserr.KindRead) ||
		vtserr.HasKind(err, vtserr.KindWrite) ||
		vtserr.HasKind(err, vtserr.KindConnectionDropped) ||
		vtserr.HasKind(err, vtserr.KindUnexpectedFrame)
}

// ensureConnected returns the current Sender, dialing first if the service
// is disconnected. The mutex is held across the factory call so that
// concurrent callers arriving while disconnected produce exactly one
// connection: the winner dials, the rest block on the lock and find
// s.current already set.
func (s *Service) ensureConnected(ctx context.Context) (Sender, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.current != nil {
		return s.current, nil
	}

	conn, err := s.factory(ctx, s.url)
	if err != nil {
		return nil, vtserr.Wrap(vtserr.KindConnectionRefused, err).WithMessage("reconnect factory failed")
	}

	driverCtx, cancel := context.WithCancel(context.Background())
	s.current = conn.Sender
	s.cancel = cancel

	go func() {
		runErr := conn.Run(driverCtx)
		s.transitionToDisconnected(runErr)
	}()

	s.log.Info("connected", "url", s.url)
	s.life.Connected()

	return conn.Sender, nil
}

func (s *Service) transitionToDisconnected(reason error) {
	s.mu.Lock()
	if s.current == nil {
		s.mu.Unlock()
		return
	}
	s.current = nil
	cancel := s.cancel
	s.cancel = nil
	s.mu.Unlock()

	if cancel != nil {
		cancel()
	}

	s.log.Warn("disconnected", "reason", reason)
	s.life.Disconnected(reason)
}

// Close tears down the current connection, if any, without reconnecting.
func (s *Service) Close() {
	s.mu.Lock()
	cancel := s.cancel
	s.current = nil
	s.cancel = nil
	s.mu.Unlock()

	if cancel != nil {
		cancel()
	}
}
