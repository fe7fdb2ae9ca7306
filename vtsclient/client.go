// Package vtsclient is the client façade: it builds the full middleware
// pipeline (retry over authentication over reconnect over the multiplexer)
// from a Builder and exposes a typed Send.
package vtsclient

import (
	"context"
	"errors"

	"github.com/walfie/vts-plugin-go/vtsdata"
	"github.com/walfie/vts-plugin-go/vtserr"
)

// Sender is the top of the middleware pipeline the façade forwards calls
// to — ordinarily *retry.Middleware.
type Sender interface {
	Send(ctx context.Context, env vtsdata.RequestEnvelope) (vtsdata.ResponseEnvelope, error)
}

// Client is a constructed pipeline, ready to send typed requests. Build one
// with NewBuilder().Build().
type Client struct {
	sender Sender
	close  func()
}

// Send builds env from req via the envelope codec, forwards it through the
// full pipeline, and decodes the reply as Resp. A host-rejected request
// surfaces as a vtserr.KindAPI error; a reply whose messageType doesn't
// match Resp's surfaces as vtserr.KindUnexpectedResponse.
func Send[Resp vtsdata.Response](ctx context.Context, c *Client, req vtsdata.Request) (Resp, error) {
	var zero Resp

	env, err := vtsdata.NewRequestEnvelope(req)
	if err != nil {
		return zero, vtserr.Wrap(vtserr.KindJSON, err)
	}

	resp, err := c.sender.Send(ctx, env)
	if err != nil {
		return zero, err
	}

	if resp.IsAPIError() {
		apiErr, parseErr := resp.ParseAPIError()
		if parseErr != nil {
			return zero, vtserr.Wrap(vtserr.KindJSON, parseErr)
		}
		return zero, vtserr.NewAPIError(int32(apiErr.ErrorID), apiErr.Message)
	}

	out, err := vtsdata.Parse[Resp](resp)
	if err != nil {
		var mismatch interface {
			Expected() vtsdata.ResponseType
			Received() vtsdata.ResponseType
		}
		if errors.As(err, &mismatch) {
			return zero, vtserr.NewUnexpectedResponse(mismatch.Expected().String(), mismatch.Received().String())
		}
		return zero, vtserr.Wrap(vtserr.KindJSON, err)
	}
	return out, nil
}

// Close tears down the current connection, if any, without reconnecting.
// Pending Send calls fail with vtserr.KindConnectionDropped.
func (c *Client) Close() {
	if c.close != nil {
		c.close()
	}
}
