package whatsapp

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
)

// MessageHandler is called once for each text or interactive reply in a delivery.
type MessageHandler func(ctx context.Context, msg InboundMessage)

type WebhookHandler struct {
	verifyToken string
	onMessage   MessageHandler
}

func NewWebhookHandler(verifyToken string, onMessage MessageHandler) *WebhookHandler {
	return &WebhookHandler{
		verifyToken: verifyToken,
		onMessage:   onMessage,
	}
}

// HandleVerify handles the GET webhook verification from Meta.
// Reference: https://developers.facebook.com/docs/whatsapp/cloud-api/get-started#webhook-verification
func (h *WebhookHandler) HandleVerify(w http.ResponseWriter, r *http.Request) {
	mode := r.URL.Query().Get("hub.mode")
	token := r.URL.Query().Get("hub.verify_token")
	challenge := r.URL.Query().Get("hub.challenge")

	if mode == "subscribe" && token == h.verifyToken {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(challenge))
		return
	}

	log.Printf("webhook: verification rejected (mode=%q)", mode)
	http.Error(w, "Forbidden", http.StatusForbidden)
}

// HandleIncoming processes incoming webhook POST notifications. It always
// answers 200 so the platform does not retry on our own failures.
func (h *WebhookHandler) HandleIncoming(w http.ResponseWriter, r *http.Request) {
	var payload WebhookPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		log.Printf("webhook: failed to decode payload: %v", err)
		w.WriteHeader(http.StatusOK)
		return
	}

	// Processing is synchronous: the ACK goes out once every reply has been sent.
	for _, msg := range Flatten(payload) {
		h.onMessage(r.Context(), msg)
	}

	w.WriteHeader(http.StatusOK)
}

// Flatten extracts the (sender, text) pairs from a delivery. Status updates,
// media and messages without a body are skipped.
func Flatten(payload WebhookPayload) []InboundMessage {
	var out []InboundMessage
	for _, entry := range payload.Entry {
		for _, change := range entry.Changes {
			for _, msg := range change.Value.Messages {
				text, ok := messageText(msg)
				if !ok || msg.From == "" {
					continue
				}
				out = append(out, InboundMessage{
					ID:        msg.ID,
					From:      msg.From,
					Text:      text,
					Timestamp: parseTimestamp(msg.Timestamp),
				})
			}
		}
	}
	return out
}

func messageText(msg Message) (string, bool) {
	switch msg.Type {
	case "text":
		if msg.Text != nil && msg.Text.Body != "" {
			return msg.Text.Body, true
		}
	case "interactive":
		if msg.Interactive == nil {
			return "", false
		}
		switch msg.Interactive.Type {
		case "button_reply":
			if msg.Interactive.ButtonReply != nil {
				return msg.Interactive.ButtonReply.Title, true
			}
		case "list_reply":
			if msg.Interactive.ListReply != nil {
				return msg.Interactive.ListReply.Title, true
			}
		}
	}
	return "", false
}
