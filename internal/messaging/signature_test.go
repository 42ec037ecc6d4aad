package messaging

import "testing"

func TestValidateSignature(t *testing.T) {
	t.Parallel()

	body := []byte(`{"events":[]}`)
	signature := Sign("channel-secret", body)

	if !ValidateSignature("channel-secret", body, signature) {
		t.Error("valid signature rejected")
	}
	if ValidateSignature("channel-secret", []byte(`{"events":[{}]}`), signature) {
		t.Error("signature accepted for a different body")
	}
	if ValidateSignature("other-secret", body, signature) {
		t.Error("signature accepted under a different secret")
	}
	if ValidateSignature("channel-secret", body, "") {
		t.Error("empty signature accepted")
	}
	if ValidateSignature("channel-secret", body, "not base64 !!!") {
		t.Error("malformed signature accepted")
	}
}

func TestEventTextMessage(t *testing.T) {
	t.Parallel()

	event := Event{
		Type:    EventTypeMessage,
		Message: EventMessage{Type: MessageTypeText, Text: "こんにちは"},
	}
	if text, ok := event.TextMessage(); !ok || text != "こんにちは" {
		t.Errorf("TextMessage() = %q, %v", text, ok)
	}

	if _, ok := (Event{Type: EventTypeFollow}).TextMessage(); ok {
		t.Error("follow event reported as text")
	}
	if _, ok := (Event{Type: EventTypeMessage, Message: EventMessage{Type: "sticker"}}).TextMessage(); ok {
		t.Error("sticker message reported as text")
	}
}
