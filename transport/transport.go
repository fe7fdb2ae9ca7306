// Package transport adapts a raw WebSocket connection to the byte-message
// sink/stream the rest of the client pipeline depends on, so that the
// multiplexer and its tests never import coder/websocket directly.
package transport

import (
	"context"
	"fmt"

	"github.com/coder/websocket"

	"github.com/walfie/vts-plugin-go/vtserr"
)

// Conn is the minimal surface the multiplexer needs from a connection: send a
// text message, receive the next one, and close. wsConn adapts
// coder/websocket's *Conn to it, and tests substitute a fake.
type Conn interface {
	// Read blocks for the next text message. Ping/pong/close handling is
	// expected to happen beneath this method, the way coder/websocket does it
	// internally; only data frames are ever returned here.
	Read(ctx context.Context) ([]byte, error)
	Write(ctx context.Context, data []byte) error
	Close(reason string) error
}

// wsConn adapts *websocket.Conn to Conn.
type wsConn struct {
	conn *websocket.Conn
}

// Dial opens a new WebSocket connection to url and wraps it as a Conn.
func Dial(ctx context.Context, url string) (Conn, error) {
	conn, _, err := websocket.Dial(ctx, url, nil)
	if err != nil {
		return nil, vtserr.Wrap(vtserr.KindConnectionRefused, err).WithMessage(fmt.Sprintf("dial %s", url))
	}
	// The default read limit is meant for general WebSocket traffic; API
	// payloads like AvailableModelsResponse can comfortably exceed it.
	conn.SetReadLimit(32 << 20)
	return &wsConn{conn: conn}, nil
}

func (w *wsConn) Read(ctx context.Context) ([]byte, error) {
	typ, data, err := w.conn.Read(ctx)
	if err != nil {
		return nil, vtserr.Wrap(vtserr.KindRead, err)
	}
	if typ != websocket.MessageText {
		return nil, vtserr.New(vtserr.KindUnexpectedFrame).WithMessage(fmt.Sprintf("message type %v", typ))
	}
	return data, nil
}

func (w *wsConn) Write(ctx context.Context, data []byte) error {
	if err := w.conn.Write(ctx, websocket.MessageText, data); err != nil {
		return vtserr.Wrap(vtserr.KindWrite, err)
	}
	return nil
}

func (w *wsConn) Close(reason string) error {
	return w.conn.Close(websocket.StatusNormalClosure, reason)
}
