package transport

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/walfie/vts-plugin-go/vtsdata"
	"github.com/walfie/vts-plugin-go/vtserr"
)

// MessageTransport adapts a byte-message Conn into a sink of request
// envelopes and a stream of response envelopes: the envelope codec's JSON
// encode/decode happens here, once, for the whole pipeline above it.
type MessageTransport struct {
	conn Conn
	log  *slog.Logger
}

// NewMessageTransport wraps conn. log receives a warning for every malformed
// frame skipped on the read side; it may be nil to discard those warnings.
func NewMessageTransport(conn Conn, log *slog.Logger) *MessageTransport {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &MessageTransport{conn: conn, log: log}
}

// WriteEnvelope serializes env and writes it as a single text frame.
func (t *MessageTransport) WriteEnvelope(ctx context.Context, env vtsdata.RequestEnvelope) error {
	data, err := json.Marshal(env)
	if err != nil {
		return vtserr.Wrap(vtserr.KindJSON, err)
	}
	return t.conn.Write(ctx, data)
}

// ReadEnvelope blocks for the next response envelope. A frame that fails to
// parse as JSON is surfaced as one vtserr.KindJSON item — the caller sees it
// exactly once and the stream is expected to keep polling on the next call;
// only a Conn-level error (dropped connection, unexpected frame kind) is
// fatal to the stream.
func (t *MessageTransport) ReadEnvelope(ctx context.Context) (vtsdata.ResponseEnvelope, error) {
	data, err := t.conn.Read(ctx)
	if err != nil {
		return vtsdata.ResponseEnvelope{}, err
	}

	var env vtsdata.ResponseEnvelope
	if jsonErr := json.Unmarshal(data, &env); jsonErr != nil {
		t.log.Warn("malformed response frame", "error", jsonErr)
		return vtsdata.ResponseEnvelope{}, vtserr.Wrap(vtserr.KindJSON, jsonErr).
			WithMessage("malformed response frame")
	}

	return env, nil
}

// Close tears down the underlying connection.
func (t *MessageTransport) Close(reason string) error {
	return t.conn.Close(reason)
}
