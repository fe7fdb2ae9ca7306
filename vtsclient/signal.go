package vtsclient

import (
	"fmt"

	"github.com/walfie/vts-plugin-go/vtsdata"
)

// SignalKind discriminates the variants of Signal: Connected,
// Disconnected(reason), NewAuthToken(token), or a server-pushed Event.
type SignalKind int

const (
	SignalConnected SignalKind = iota
	SignalDisconnected
	SignalNewAuthToken
	SignalEvent
)

func (k SignalKind) String() string {
	switch k {
	case SignalConnected:
		return "Connected"
	case SignalDisconnected:
		return "Disconnected"
	case SignalNewAuthToken:
		return "NewAuthToken"
	case SignalEvent:
		return "Event"
	default:
		return "Unknown"
	}
}

// Signal is one lifecycle/event item delivered on the channel returned by
// Builder.Build. At most one of Reason, Token, Event is populated, depending
// on Kind; a SignalConnected carries none of them.
type Signal struct {
	Kind   SignalKind
	Reason error         // set when Kind == SignalDisconnected
	Token  string        // set when Kind == SignalNewAuthToken
	Event  vtsdata.Event // set when Kind == SignalEvent
}

func (s Signal) String() string {
	switch s.Kind {
	case SignalDisconnected:
		return fmt.Sprintf("Disconnected(%v)", s.Reason)
	case SignalNewAuthToken:
		return "NewAuthToken(***)"
	case SignalEvent:
		return fmt.Sprintf("Event(%s)", s.Event.Type())
	default:
		return s.Kind.String()
	}
}
