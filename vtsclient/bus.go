package vtsclient

import (
	"log/slog"

	"github.com/walfie/vts-plugin-go/vtsdata"
)

// signalBus is the single place lifecycle signals and events are funneled
// onto the embedder-facing channel. It satisfies reconnect.Lifecycle,
// auth.TokenObserver, and eventstream.Sink simultaneously, so one instance
// wires into all three layers.
//
// Delivery never blocks the driver that calls it: a full channel drops the
// signal with a warning instead of stalling the multiplexer's read loop or
// the reconnect service. Events are advisory; the request/response path
// must not stall on a slow consumer.
type signalBus struct {
	ch  chan Signal
	log *slog.Logger
}

func newSignalBus(capacity int, log *slog.Logger) *signalBus {
	if capacity <= 0 {
		capacity = 16
	}
	return &signalBus{ch: make(chan Signal, capacity), log: log}
}

func (b *signalBus) deliver(sig Signal) {
	select {
	case b.ch <- sig:
	default:
		b.log.Warn("dropping lifecycle signal, event channel full", "kind", sig.Kind.String())
	}
}

func (b *signalBus) Connected() { b.deliver(Signal{Kind: SignalConnected}) }

func (b *signalBus) Disconnected(reason error) {
	b.deliver(Signal{Kind: SignalDisconnected, Reason: reason})
}

func (b *signalBus) NewAuthToken(token string) {
	b.deliver(Signal{Kind: SignalNewAuthToken, Token: token})
}

func (b *signalBus) DeliverEvent(ev vtsdata.Event) {
	b.deliver(Signal{Kind: SignalEvent, Event: ev})
}

// multiObserver fans NewAuthToken out to several auth.TokenObserver
// instances, so the signal bus and an embedder-supplied persistence layer
// (e.g. tokenstore.Store) can both react to a freshly issued token.
type multiObserver []interface{ NewAuthToken(string) }

func (m multiObserver) NewAuthToken(token string) {
	for _, obs := range m {
		obs.NewAuthToken(token)
	}
}
