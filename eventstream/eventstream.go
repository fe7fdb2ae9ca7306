// Package eventstream implements the event splitter: it wraps the incoming
// response envelope stream, pulls out server-pushed events, and exposes only
// the remaining request/response traffic to the multiplexer.
package eventstream

import (
	"context"
	"log/slog"

	"github.com/walfie/vts-plugin-go/vtsdata"
)

// EnvelopeSource is anything that yields response envelopes one at a time,
// such as *transport.MessageTransport.
type EnvelopeSource interface {
	ReadEnvelope(ctx context.Context) (vtsdata.ResponseEnvelope, error)
}

// Sink receives classified events. Implementations must not block for long:
// a full, bounded sink should drop the event with a warning instead of
// stalling the splitter (see Splitter.Next).
type Sink interface {
	DeliverEvent(ev vtsdata.Event)
}

// SinkFunc adapts a function to a Sink.
type SinkFunc func(vtsdata.Event)

func (f SinkFunc) DeliverEvent(ev vtsdata.Event) { f(ev) }

// Splitter wraps an EnvelopeSource, classifying each envelope as a
// server-pushed event or a correlated response per ResponseType.IsEvent, and
// routing events to sink transparently so that callers of Next only ever see
// non-event (request/response) envelopes.
type Splitter struct {
	source EnvelopeSource
	sink   Sink
	log    *slog.Logger
}

// New creates a Splitter. events are delivered to sink as they're classified;
// Next returns only the non-event envelopes.
func New(source EnvelopeSource, sink Sink, log *slog.Logger) *Splitter {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &Splitter{source: source, sink: sink, log: log}
}

// Next blocks until the next non-event response envelope is available,
// forwarding any events encountered along the way to the sink. A KindJSON
// error from the source is non-fatal to the stream: it is surfaced to the
// caller once, and the next call resumes polling normally.
func (s *Splitter) Next(ctx context.Context) (vtsdata.ResponseEnvelope, error) {
	for {
		env, err := s.source.ReadEnvelope(ctx)
		if err != nil {
			return vtsdata.ResponseEnvelope{}, err
		}

		if env.IsEvent() {
			// Decode here, at the split point: a known event whose payload
			// fails to unmarshal becomes an UnknownEvent entry on the event
			// channel, never an error on the response path.
			ev := vtsdata.ClassifyEvent(env)
			if u, ok := ev.Unknown(); ok && u.Err != nil {
				s.log.Warn("event payload failed to decode",
					"messageType", env.MessageType.String(), "error", u.Err)
			} else {
				s.log.Debug("dispatching event", "messageType", env.MessageType.String())
			}
			s.sink.DeliverEvent(ev)
			continue
		}

		return env, nil
	}
}
