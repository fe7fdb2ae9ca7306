package transport

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/walfie/vts-plugin-go/vtsdata"
	"github.com/walfie/vts-plugin-go/vtserr"
)

// fakeConn is a scripted Conn: Read pops frames (or errors) in order, Write
// records what was sent.
type fakeConn struct {
	frames  [][]byte
	readErr []error
	written [][]byte
	closed  bool
}

func (f *fakeConn) Read(ctx context.Context) ([]byte, error) {
	if len(f.readErr) > 0 && f.readErr[0] != nil {
		err := f.readErr[0]
		f.readErr = f.readErr[1:]
		return nil, err
	}
	if len(f.readErr) > 0 {
		f.readErr = f.readErr[1:]
	}
	if len(f.frames) == 0 {
		return nil, vtserr.New(vtserr.KindRead).WithMessage("no more frames")
	}
	frame := f.frames[0]
	f.frames = f.frames[1:]
	return frame, nil
}

func (f *fakeConn) Write(ctx context.Context, data []byte) error {
	f.written = append(f.written, data)
	return nil
}

func (f *fakeConn) Close(reason string) error {
	f.closed = true
	return nil
}

func TestMessageTransport_WriteEnvelopeSerializesOneTextFrame(t *testing.T) {
	conn := &fakeConn{}
	mt := NewMessageTransport(conn, nil)

	env, err := vtsdata.NewRequestEnvelope(vtsdata.StatisticsRequest{})
	if err != nil {
		t.Fatalf("NewRequestEnvelope: %v", err)
	}

	if err := mt.WriteEnvelope(context.Background(), env.WithRequestID("0")); err != nil {
		t.Fatalf("WriteEnvelope: %v", err)
	}

	if len(conn.written) != 1 {
		t.Fatalf("wrote %d frames, want 1", len(conn.written))
	}
	frame := string(conn.written[0])
	for _, want := range []string{`"messageType":"StatisticsRequest"`, `"requestID":"0"`} {
		if !strings.Contains(frame, want) {
			t.Errorf("frame missing %s:\n%s", want, frame)
		}
	}
}

func TestMessageTransport_ReadEnvelopeParsesTextFrame(t *testing.T) {
	conn := &fakeConn{frames: [][]byte{
		[]byte(`{"apiName":"VTubeStudioPublicAPI","apiVersion":"1.0","timestamp":1,"requestID":"5","messageType":"StatisticsResponse","data":{"uptime":42}}`),
	}}
	mt := NewMessageTransport(conn, nil)

	env, err := mt.ReadEnvelope(context.Background())
	if err != nil {
		t.Fatalf("ReadEnvelope: %v", err)
	}
	if env.RequestID != "5" {
		t.Errorf("RequestID = %q, want %q", env.RequestID, "5")
	}
	if env.MessageType != vtsdata.ResponseTypeStatistics {
		t.Errorf("MessageType = %q, want %q", env.MessageType, vtsdata.ResponseTypeStatistics)
	}
}

func TestMessageTransport_MalformedFrameIsNonFatal(t *testing.T) {
	conn := &fakeConn{frames: [][]byte{
		[]byte(`{not json`),
		[]byte(`{"requestID":"1","messageType":"StatisticsResponse","data":{}}`),
	}}
	mt := NewMessageTransport(conn, nil)

	// The bad frame surfaces exactly once, as a KindJSON error.
	_, err := mt.ReadEnvelope(context.Background())
	if err == nil {
		t.Fatal("ReadEnvelope of malformed frame succeeded, want KindJSON error")
	}
	if !vtserr.HasKind(err, vtserr.KindJSON) {
		t.Errorf("error kind = %v, want KindJSON", err)
	}

	// The stream keeps going: the next call returns the next good frame.
	env, err := mt.ReadEnvelope(context.Background())
	if err != nil {
		t.Fatalf("ReadEnvelope after malformed frame: %v", err)
	}
	if env.RequestID != "1" {
		t.Errorf("RequestID = %q, want %q", env.RequestID, "1")
	}
}

func TestMessageTransport_ConnReadErrorPropagates(t *testing.T) {
	cause := vtserr.Wrap(vtserr.KindRead, errors.New("connection reset"))
	conn := &fakeConn{readErr: []error{cause}}
	mt := NewMessageTransport(conn, nil)

	_, err := mt.ReadEnvelope(context.Background())
	if err == nil {
		t.Fatal("ReadEnvelope with failing conn succeeded, want an error")
	}
	if !vtserr.HasKind(err, vtserr.KindRead) {
		t.Errorf("error kind = %v, want KindRead", err)
	}
}

func TestMessageTransport_CloseClosesConn(t *testing.T) {
	conn := &fakeConn{}
	mt := NewMessageTransport(conn, nil)

	if err := mt.Close("done"); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if !conn.closed {
		t.Error("underlying conn not closed")
	}
}
