package vtsdata

import "encoding/json"

// Event is one server-pushed item delivered on the event channel. Data holds
// the payload, decoded eagerly at the point the envelope was classified as an
// event: one of the typed *EventData structs below, or UnknownEvent when the
// messageType has no typed struct here or its payload failed to decode.
type Event struct {
	Envelope ResponseEnvelope
	Data     any
}

// Type returns the wire messageType of the event.
func (e Event) Type() ResponseType { return e.Envelope.MessageType }

// Unknown returns the UnknownEvent fallback and true when this event carries
// no typed payload.
func (e Event) Unknown() (UnknownEvent, bool) {
	u, ok := e.Data.(UnknownEvent)
	return u, ok
}

// UnknownEvent is the fallback payload for event types this module has no
// typed struct for, and for known types whose payload failed to decode (Err
// is non-nil in that case). Raw preserves the data field so callers can
// decode it themselves.
type UnknownEvent struct {
	Type ResponseType
	Raw  json.RawMessage
	Err  error
}

// ClassifyEvent decodes env's data field into the typed payload matching its
// messageType. Decoding happens here, at the event/response split, so that a
// malformed event payload surfaces as an UnknownEvent entry on the event
// channel rather than as an error on the response path.
func ClassifyEvent(env ResponseEnvelope) Event {
	decode, ok := eventDecoders[env.MessageType]
	if !ok {
		return Event{Envelope: env, Data: UnknownEvent{Type: env.MessageType, Raw: env.Data}}
	}

	payload, err := decode(env.Data)
	if err != nil {
		return Event{Envelope: env, Data: UnknownEvent{Type: env.MessageType, Raw: env.Data, Err: err}}
	}
	return Event{Envelope: env, Data: payload}
}

var eventDecoders = map[ResponseType]func(json.RawMessage) (any, error){
	ResponseTypeTestEvent:                  decodeEventData[TestEventData],
	ResponseTypeModelLoadedEvent:           decodeEventData[ModelLoadedEventData],
	ResponseTypeTrackingStatusChangedEvent: decodeEventData[TrackingStatusChangedEventData],
	ResponseTypeHotkeyTriggeredEvent:       decodeEventData[HotkeyTriggeredEventData],
}

func decodeEventData[T Response](data json.RawMessage) (any, error) {
	var payload T
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, err
	}
	return payload, nil
}

// ParseEvent decodes an Event's raw data field into a typed event payload,
// matching by messageType the same way Parse does for request/response pairs.
// Most callers can type-switch on Event.Data instead; this is for decoding a
// payload type the eager classification doesn't model. Event payload types
// satisfy Response purely so they can share that decoding path; they are
// never sent as requests.
func ParseEvent[T Response](e Event) (T, error) {
	return Parse[T](e.Envelope)
}

// TestEventConfig configures the subscription payload for TestEvent.
type TestEventConfig struct {
	TestMessageForEvent string `json:"testMessageForEvent,omitempty"`
}

// TestEventData is pushed periodically once subscribed, echoing the configured message.
type TestEventData struct {
	YourTestMessage string `json:"yourTestMessage"`
	Counter         int64  `json:"counter"`
}

func (TestEventData) ResponseMessageType() ResponseType { return ResponseTypeTestEvent }

// ModelLoadedEventData is pushed whenever the currently loaded model changes.
type ModelLoadedEventData struct {
	ModelLoaded bool   `json:"modelLoaded"`
	ModelName   string `json:"modelName"`
	ModelID     string `json:"modelID"`
}

func (ModelLoadedEventData) ResponseMessageType() ResponseType { return ResponseTypeModelLoadedEvent }

// TrackingStatusChangedEventData is pushed whenever face/hand tracking is lost or regained.
type TrackingStatusChangedEventData struct {
	FaceFound      bool `json:"faceFound"`
	LeftHandFound  bool `json:"leftHandFound"`
	RightHandFound bool `json:"rightHandFound"`
}

func (TrackingStatusChangedEventData) ResponseMessageType() ResponseType {
	return ResponseTypeTrackingStatusChangedEvent
}

// HotkeyTriggeredEventData is pushed whenever any hotkey fires, including ones
// triggered from the host's own UI rather than via HotkeyTriggerRequest.
type HotkeyTriggeredEventData struct {
	HotkeyID   string `json:"hotkeyID"`
	HotkeyName string `json:"hotkeyName"`
}

func (HotkeyTriggeredEventData) ResponseMessageType() ResponseType {
	return ResponseTypeHotkeyTriggeredEvent
}
