// Package vtsdata defines the wire envelope, the open request/response/event
// type catalogue, and the typed request/response structs exchanged with the
// host over the API connection.
package vtsdata

import "encoding/json"

// DefaultAPIName is the apiName value used in every request envelope unless overridden.
const DefaultAPIName = "VTubeStudioPublicAPI"

// DefaultAPIVersion is the apiVersion value used in every request envelope unless overridden.
const DefaultAPIVersion = "1.0"

// Request is implemented by every typed request payload.
type Request interface {
	// RequestMessageType returns the messageType this request serializes as.
	RequestMessageType() RequestType
}

// Response is implemented by every typed response payload.
type Response interface {
	// ResponseMessageType returns the messageType this response expects to parse from.
	ResponseMessageType() ResponseType
}

// RequestEnvelope is the outer JSON object sent for every request.
type RequestEnvelope struct {
	APIName     string          `json:"apiName"`
	APIVersion  string          `json:"apiVersion"`
	RequestID   string          `json:"requestID,omitempty"`
	MessageType RequestType     `json:"messageType"`
	Data        json.RawMessage `json:"data,omitempty"`
}

// NewRequestEnvelope builds an envelope with default apiName/apiVersion, serializing req as the data field.
func NewRequestEnvelope(req Request) (RequestEnvelope, error) {
	data, err := json.Marshal(req)
	if err != nil {
		return RequestEnvelope{}, err
	}

	return RequestEnvelope{
		APIName:     DefaultAPIName,
		APIVersion:  DefaultAPIVersion,
		MessageType: req.RequestMessageType(),
		Data:        data,
	}, nil
}

// WithRequestID returns a copy of the envelope with the given correlation id set.
func (e RequestEnvelope) WithRequestID(id string) RequestEnvelope {
	e.RequestID = id
	return e
}

// ResponseEnvelope is the outer JSON object received for every response, event, and API error.
type ResponseEnvelope struct {
	APIName     string          `json:"apiName"`
	APIVersion  string          `json:"apiVersion"`
	Timestamp   int64           `json:"timestamp"`
	RequestID   string          `json:"requestID"`
	MessageType ResponseType    `json:"messageType"`
	Data        json.RawMessage `json:"data"`
}

// IsAPIError reports whether the envelope's messageType is "APIError".
func (e ResponseEnvelope) IsAPIError() bool {
	return e.MessageType == ResponseTypeAPIError
}

// IsEvent reports whether the envelope carries an asynchronous, uncorrelated
// server-pushed event rather than a reply to a specific request: its
// messageType is either a known event kind, or ends in the literal suffix "Event".
func (e ResponseEnvelope) IsEvent() bool {
	return e.MessageType.IsEvent()
}

// ParseAPIError decodes the data field as an ApiError. Callers should only call
// this when IsAPIError() is true.
func (e ResponseEnvelope) ParseAPIError() (APIError, error) {
	var apiErr APIError
	if err := json.Unmarshal(e.Data, &apiErr); err != nil {
		return APIError{}, err
	}
	return apiErr, nil
}

// Parse decodes the data field into a typed response, after checking that the
// envelope's messageType matches the expected type for Resp. Callers check
// IsAPIError before calling Parse.
func Parse[Resp Response](e ResponseEnvelope) (Resp, error) {
	var resp Resp
	if e.MessageType != resp.ResponseMessageType() {
		var zero Resp
		return zero, &unexpectedResponse{expected: resp.ResponseMessageType(), received: e.MessageType}
	}

	if err := json.Unmarshal(e.Data, &resp); err != nil {
		var zero Resp
		return zero, err
	}
	return resp, nil
}

type unexpectedResponse struct {
	expected ResponseType
	received ResponseType
}

func (u *unexpectedResponse) Error() string {
	return "unexpected response: expected " + u.expected.String() + ", received " + u.received.String()
}

// Expected returns the messageType the caller wanted.
func (u *unexpectedResponse) Expected() ResponseType { return u.expected }

// Received returns the messageType that was actually in the envelope.
func (u *unexpectedResponse) Received() ResponseType { return u.received }

// APIError is the data payload of a response whose messageType is "APIError".
type APIError struct {
	ErrorID ErrorID `json:"errorID"`
	Message string  `json:"message"`
}

func (e APIError) Error() string {
	return e.ErrorID.String() + ": " + e.Message
}

// IsAuthenticationError reports whether this is the well-known
// RequestRequiresAuthentication error that the auth middleware reacts to.
func (e APIError) IsAuthenticationError() bool {
	return e.ErrorID == ErrorIDRequestRequiresAuthentication
}
