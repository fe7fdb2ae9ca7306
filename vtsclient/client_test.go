package vtsclient

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/walfie/vts-plugin-go/internal/obslog"
	"github.com/walfie/vts-plugin-go/vtsdata"
	"github.com/walfie/vts-plugin-go/vtserr"
)

type fakeSender struct {
	mu   sync.Mutex
	resp vtsdata.ResponseEnvelope
	err  error
}

func (f *fakeSender) Send(ctx context.Context, env vtsdata.RequestEnvelope) (vtsdata.ResponseEnvelope, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return vtsdata.ResponseEnvelope{}, f.err
	}
	resp := f.resp
	resp.RequestID = env.RequestID
	return resp, nil
}

func TestSend_DecodesTypedResponse(t *testing.T) {
	sender := &fakeSender{resp: vtsdata.ResponseEnvelope{
		MessageType: vtsdata.ResponseTypeStatistics,
		Data:        []byte(`{"framerate":60,"vTubeStudioVersion":"1.2.3"}`),
	}}
	client := &Client{sender: sender}

	resp, err := Send[vtsdata.StatisticsResponse](context.Background(), client, vtsdata.StatisticsRequest{})
	if err != nil {
		t.Fatalf("Send: %v", err)
	}
	if resp.Framerate != 60 || resp.VTubeStudioVersion != "1.2.3" {
		t.Fatalf("unexpected decoded response: %+v", resp)
	}
}

func TestSend_SurfacesAPIError(t *testing.T) {
	sender := &fakeSender{resp: vtsdata.ResponseEnvelope{
		MessageType: vtsdata.ResponseTypeAPIError,
		Data:        []byte(`{"errorID":8,"message":"auth required"}`),
	}}
	client := &Client{sender: sender}

	_, err := Send[vtsdata.StatisticsResponse](context.Background(), client, vtsdata.StatisticsRequest{})
	if !vtserr.HasKind(err, vtserr.KindAPI) {
		t.Fatalf("expected KindAPI error, got %v", err)
	}
	if !vtserr.IsAuthError(err) {
		t.Fatalf("expected IsAuthError(err) to be true, got %v", err)
	}
}

func TestSend_SurfacesUnexpectedResponse(t *testing.T) {
	sender := &fakeSender{resp: vtsdata.ResponseEnvelope{
		MessageType: vtsdata.ResponseTypeCurrentModel,
		Data:        []byte(`{}`),
	}}
	client := &Client{sender: sender}

	_, err := Send[vtsdata.StatisticsResponse](context.Background(), client, vtsdata.StatisticsRequest{})
	if !vtserr.HasKind(err, vtserr.KindUnexpectedResponse) {
		t.Fatalf("expected KindUnexpectedResponse, got %v", err)
	}
}

func TestSend_PropagatesTransportError(t *testing.T) {
	dropped := vtserr.New(vtserr.KindConnectionDropped)
	client := &Client{sender: &fakeSender{err: dropped}}

	_, err := Send[vtsdata.StatisticsResponse](context.Background(), client, vtsdata.StatisticsRequest{})
	if !errors.Is(err, dropped) {
		t.Fatalf("expected ConnectionDropped, got %v", err)
	}
}

func TestSignalBus_DropsWhenFullWithoutBlocking(t *testing.T) {
	bus := newSignalBus(1, obslog.Discard())

	bus.Connected()
	bus.Connected() // would block on an unbuffered/full channel if deliver didn't select-default

	if len(bus.ch) != 1 {
		t.Fatalf("expected exactly 1 buffered signal, got %d", len(bus.ch))
	}
}

func TestSignalBus_SatisfiesAllThreeRoles(t *testing.T) {
	bus := newSignalBus(4, obslog.Discard())

	bus.Connected()
	bus.Disconnected(errors.New("boom"))
	bus.NewAuthToken("T")
	bus.DeliverEvent(vtsdata.Event{Envelope: vtsdata.ResponseEnvelope{MessageType: vtsdata.ResponseTypeTestEvent}})

	var kinds []SignalKind
	for i := 0; i < 4; i++ {
		kinds = append(kinds, (<-bus.ch).Kind)
	}

	want := []SignalKind{SignalConnected, SignalDisconnected, SignalNewAuthToken, SignalEvent}
	for i, k := range want {
		if kinds[i] != k {
			t.Fatalf("signal %d: got %v, want %v", i, kinds[i], k)
		}
	}
}

func TestBuilder_RejectsAuthTokenWithoutAuthentication(t *testing.T) {
	_, _, err := NewBuilder().AuthToken("T").Build()
	if err == nil {
		t.Fatal("expected Build to reject a bare AuthToken")
	}
}

func TestBuilder_DefaultsURL(t *testing.T) {
	b := NewBuilder()
	if b.opts.url != DefaultURL {
		t.Fatalf("default url = %q, want %q", b.opts.url, DefaultURL)
	}
	if !b.opts.retryOnDisconnect || !b.opts.retryOnAuthError {
		t.Fatal("both retry options should default to true")
	}
}
