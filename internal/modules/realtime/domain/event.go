package domain

import "time"

// EventKind names the change carried by an Event.
type EventKind string

const (
	KindNewQuestion      EventKind = "new-question"
	KindQuestionUpdated  EventKind = "question-updated"
	KindQuestionDeleted  EventKind = "question-deleted"
	KindNewAnswer        EventKind = "new-answer"
	KindAnswerUpdated    EventKind = "answer-updated"
	KindAnswerDeleted    EventKind = "answer-deleted"
	KindMessageReceived  EventKind = "message-received"
	KindNewNotification  EventKind = "new-notification"
	KindMentorshipUpdate EventKind = "mentorship-updated"
	KindMentorshipDelete EventKind = "mentorship-deleted"
	KindMentorshipAsk    EventKind = "mentorship-request"
	KindMentorshipMsg    EventKind = "mentorship-message"

	KindConnected EventKind = "connected"
	KindJoined    EventKind = "joined"
	KindLeft      EventKind = "left"
	KindPong      EventKind = "pong"
	KindError     EventKind = "error"
)

// Event is the frame written to every session joined to Topic.
type Event struct {
	Topic     string            `json:"topic"`
	Kind      EventKind         `json:"event"`
	Payload   any               `json:"data,omitempty"`
	Metadata  map[string]string `json:"metadata,omitempty"`
	Timestamp time.Time         `json:"timestamp"`
}

// NewEvent stamps an event for topic with the current UTC time.
func NewEvent(topic string, kind EventKind, payload any) *Event {
	return &Event{
		Topic:     topic,
		Kind:      kind,
		Payload:   payload,
		Timestamp: time.Now().UTC(),
	}
}

// SystemEvent builds a frame addressed to one session rather than a room.
func SystemEvent(kind EventKind, metadata map[string]string, payload any) *Event {
	evt := NewEvent(SystemTopic, kind, payload)
	evt.Metadata = metadata
	return evt
}
