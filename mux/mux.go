// Package mux implements the request/response multiplexer: it tags outgoing
// request envelopes with unique correlation ids, writes them to the
// underlying connection, and routes incoming response envelopes back to the
// caller awaiting that id.
package mux

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"sync"
	"sync/atomic"

	"github.com/walfie/vts-plugin-go/vtsdata"
	"github.com/walfie/vts-plugin-go/vtserr"
)

// EnvelopeSource yields non-event response envelopes, one at a time. In
// production this is an *eventstream.Splitter sitting on top of the message
// transport; tests can substitute a fake.
type EnvelopeSource interface {
	Next(ctx context.Context) (vtsdata.ResponseEnvelope, error)
}

// EnvelopeWriter writes request envelopes to the underlying connection. In
// production this is *transport.MessageTransport.
type EnvelopeWriter interface {
	WriteEnvelope(ctx context.Context, env vtsdata.RequestEnvelope) error
}

type pendingSlot struct {
	reply chan vtsdata.ResponseEnvelope
}

// Multiplexer owns one connection's worth of in-flight request bookkeeping.
// It is torn down with the connection: once Run returns, every method on
// Multiplexer fails with vtserr.KindConnectionDropped.
type Multiplexer struct {
	source EnvelopeSource
	writer EnvelopeWriter
	log    *slog.Logger

	tag int64 // atomically incremented; formatted as decimal requestID

	mu         sync.Mutex
	pending    map[string]*pendingSlot
	closed     bool
	closeErr   error // returned to new calls after termination: always ConnectionDropped
	pendingErr error // returned to slots that were already pending at termination time

	// sem bounds concurrent in-flight requests when ceiling > 0.
	sem chan struct{}
}

// New creates a Multiplexer. ceiling <= 0 means no limit on concurrent
// in-flight requests (Send never blocks on admission).
func New(source EnvelopeSource, writer EnvelopeWriter, log *slog.Logger, ceiling int) *Multiplexer {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	m := &Multiplexer{
		source:  source,
		writer:  writer,
		log:     log,
		pending: make(map[string]*pendingSlot),
	}
	if ceiling > 0 {
		m.sem = make(chan struct{}, ceiling)
	}
	return m
}

// Run is the driver task: it polls the source until it errors, dispatching
// each response envelope to the pending caller matching its requestID. It
// returns the terminal error, which is also the error the calls still pending
// at termination fail with; Send/TrySend calls made afterwards fail with
// vtserr.KindConnectionDropped.
//
// A KindJSON error is non-fatal: it is logged and the loop keeps polling
// instead of tearing down the connection. Every other error terminates the
// multiplexer.
func (m *Multiplexer) Run(ctx context.Context) error {
	for {
		env, err := m.source.Next(ctx)
		if err != nil {
			if vtserr.HasKind(err, vtserr.KindJSON) {
				m.log.Warn("discarding malformed response frame", "error", err)
				continue
			}
			return m.terminate(err)
		}

		m.dispatch(env)
	}
}

func (m *Multiplexer) dispatch(env vtsdata.ResponseEnvelope) {
	m.mu.Lock()
	slot, ok := m.pending[env.RequestID]
	if ok {
		delete(m.pending, env.RequestID)
	}
	m.mu.Unlock()

	if !ok {
		// Can happen after cancellation or a driver race at teardown.
		// Informational only, never fails an active call.
		m.log.Warn("discarding desynchronized response",
			"requestID", env.RequestID,
			"error", vtserr.New(vtserr.KindDesynchronized).
				WithMessage("response requestID matched no pending call"))
		return
	}

	slot.reply <- env
}

// terminate marks the multiplexer as dead and fails every already-pending
// slot with Read (or UnexpectedFrame). Used for stream-side termination. New
// calls made after termination always see ConnectionDropped.
func (m *Multiplexer) terminate(cause error) error {
	kind := vtserr.KindRead
	if vtserr.HasKind(cause, vtserr.KindUnexpectedFrame) {
		kind = vtserr.KindUnexpectedFrame
	}
	wrapped := vtserr.Wrap(kind, cause).WithMessage("multiplexer read loop terminated")
	m.terminateWith(wrapped)
	return wrapped
}

// terminateSink marks the multiplexer as dead and fails every already-pending
// slot with Write: any sink-side error terminates the multiplexer entirely,
// not just the call that triggered it. New calls made after termination
// always see ConnectionDropped.
func (m *Multiplexer) terminateSink(cause error) error {
	wrapped := vtserr.Wrap(vtserr.KindWrite, cause).WithMessage("multiplexer write failed")
	m.terminateWith(wrapped)
	return wrapped
}

func (m *Multiplexer) terminateWith(pendingErr error) {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return
	}
	m.closed = true
	m.pendingErr = pendingErr
	m.closeErr = vtserr.New(vtserr.KindConnectionDropped).WithMessage("connection closed")
	pending := m.pending
	m.pending = nil
	m.mu.Unlock()

	for _, slot := range pending {
		close(slot.reply)
	}
}

// nextTag assigns the next correlation tag: decimal strings of a counter
// starting at 0, unique and never reused within this Multiplexer's lifetime.
// The counter resets implicitly on reconnect because a fresh Multiplexer (and
// counter) is created per connection; the tag namespace is per-connection, so
// the reset is safe.
func (m *Multiplexer) nextTag() string {
	n := atomic.AddInt64(&m.tag, 1) - 1
	return strconv.FormatInt(n, 10)
}

// register allocates a pending slot for tag, returning the reply channel. It
// fails if the multiplexer has already been torn down.
func (m *Multiplexer) register(tag string) (chan vtsdata.ResponseEnvelope, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return nil, m.closeErr
	}

	reply := make(chan vtsdata.ResponseEnvelope, 1)
	m.pending[tag] = &pendingSlot{reply: reply}
	return reply, nil
}

// cancel removes the pending slot for tag without delivering a reply, for use
// when the caller's context is cancelled while awaiting.
func (m *Multiplexer) cancel(tag string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.pending != nil {
		delete(m.pending, tag)
	}
}

// Send writes env (stamping a fresh requestID) and blocks until the matching
// reply arrives, the multiplexer is torn down, or ctx is cancelled. If a
// ceiling was configured, Send blocks on admission first: the (N+1)-th
// concurrent call pends until one pending call completes.
func (m *Multiplexer) Send(ctx context.Context, env vtsdata.RequestEnvelope) (vtsdata.ResponseEnvelope, error) {
	if m.sem != nil {
		select {
		case m.sem <- struct{}{}:
			defer func() { <-m.sem }()
		case <-ctx.Done():
			return vtsdata.ResponseEnvelope{}, ctx.Err()
		}
	}
	return m.send(ctx, env)
}

// TrySend behaves like Send but never blocks on the in-flight ceiling: if the
// ceiling is reached, it immediately returns a vtserr.KindTransportFull error.
func (m *Multiplexer) TrySend(ctx context.Context, env vtsdata.RequestEnvelope) (vtsdata.ResponseEnvelope, error) {
	if m.sem != nil {
		select {
		case m.sem <- struct{}{}:
			defer func() { <-m.sem }()
		default:
			return vtsdata.ResponseEnvelope{}, vtserr.New(vtserr.KindTransportFull).
				WithMessage(fmt.Sprintf("in-flight ceiling of %d reached", cap(m.sem)))
		}
	}
	return m.send(ctx, env)
}

func (m *Multiplexer) send(ctx context.Context, env vtsdata.RequestEnvelope) (vtsdata.ResponseEnvelope, error) {
	tag := m.nextTag()
	env = env.WithRequestID(tag)

	reply, err := m.register(tag)
	if err != nil {
		return vtsdata.ResponseEnvelope{}, err
	}

	if writeErr := m.writer.WriteEnvelope(ctx, env); writeErr != nil {
		m.cancel(tag)
		return vtsdata.ResponseEnvelope{}, m.terminateSink(writeErr)
	}

	select {
	case resp, ok := <-reply:
		if !ok {
			m.mu.Lock()
			err := m.pendingErr
			m.mu.Unlock()
			return vtsdata.ResponseEnvelope{}, err
		}
		return resp, nil
	case <-ctx.Done():
		m.cancel(tag)
		return vtsdata.ResponseEnvelope{}, ctx.Err()
	}
}
