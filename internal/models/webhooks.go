package models

// EventKind discriminates webhook event variants.
type EventKind string

const (
	EventStatus      EventKind = "status"
	EventInboundText EventKind = "inbound_text"
	EventButtonReply EventKind = "button_reply"
	EventListReply   EventKind = "list_reply"
)

// WebhookEvent is the tagged union of everything the dispatcher can deliver.
// Exactly one concrete variant implements each kind; events are transient
// values, constructed, sent and discarded.
type WebhookEvent interface {
	Kind() EventKind
}

// StatusEvent reports a delivery status for a message the test subject sent.
type StatusEvent struct {
	MessageID   string
	RecipientID string
}

func (StatusEvent) Kind() EventKind { return EventStatus }

// TextEvent simulates an inbound text message from a contact.
type TextEvent struct {
	MessageID string
	From      string
	Name      string
	Body      string
}

func (TextEvent) Kind() EventKind { return EventInboundText }

// ButtonReplyEvent simulates a contact tapping an interactive button.
type ButtonReplyEvent struct {
	MessageID string
	From      string
	ButtonID  string
	Title     string
}

func (ButtonReplyEvent) Kind() EventKind { return EventButtonReply }

// ListReplyEvent simulates a contact picking an interactive list row.
type ListReplyEvent struct {
	MessageID   string
	From        string
	ItemID      string
	Title       string
	Description string
}

func (ListReplyEvent) Kind() EventKind { return EventListReply }
