package messaging

// Webhook payload shapes for the channel's event delivery.

const (
	EventTypeMessage  = "message"
	EventTypeFollow   = "follow"
	EventTypeUnfollow = "unfollow"

	MessageTypeText = "text"
)

type WebhookRequest struct {
	Destination string  `json:"destination"`
	Events      []Event `json:"events"`
}

type Event struct {
	Type       string       `json:"type"`
	Timestamp  int64        `json:"timestamp"`
	ReplyToken string       `json:"replyToken,omitempty"`
	Source     EventSource  `json:"source"`
	Message    EventMessage `json:"message,omitempty"`
}

type EventSource struct {
	Type   string `json:"type"`
	UserID string `json:"userId"`
}

type EventMessage struct {
	ID   string `json:"id"`
	Type string `json:"type"`
	Text string `json:"text"`
}

// TextMessage reports whether the event carries user text to route.
func (e Event) TextMessage() (string, bool) {
	if e.Type != EventTypeMessage || e.Message.Type != MessageTypeText {
		return "", false
	}
	return e.Message.Text, true
}
