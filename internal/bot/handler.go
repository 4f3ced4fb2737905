package bot

import (
	"context"
	"log"
	"time"

	"github.com/lojasmm/erpbot/internal/session"
	"github.com/lojasmm/erpbot/internal/whatsapp"
)

// Sender delivers a text reply to a WhatsApp user.
type Sender interface {
	SendText(ctx context.Context, to, body string) error
}

// Deduper remembers delivered message IDs so platform retries are dropped.
type Deduper interface {
	MarkProcessed(messageID string, at time.Time) (bool, error)
}

type Handler struct {
	wa       Sender
	dedup    Deduper
	sessions *session.Manager
	resolver *Resolver
}

func NewHandler(wa Sender, dedup Deduper, sessions *session.Manager, resolver *Resolver) *Handler {
	return &Handler{wa: wa, dedup: dedup, sessions: sessions, resolver: resolver}
}

// HandleMessage resolves and sends the reply for one inbound message. Nothing
// escapes it: failures are logged so the webhook can still acknowledge.
func (h *Handler) HandleMessage(ctx context.Context, msg whatsapp.InboundMessage) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("bot: panic handling message from %s: %v", msg.From, r)
		}
	}()

	if h.dedup != nil && msg.ID != "" {
		first, err := h.dedup.MarkProcessed(msg.ID, time.Now())
		if err != nil {
			log.Printf("bot: dedup check for %s: %v", msg.ID, err)
		} else if !first {
			log.Printf("bot: dropping duplicate delivery %s from %s", msg.ID, msg.From)
			return
		}
	}

	// The send happens under the sender's lock so replies keep message order.
	h.sessions.WithSession(msg.From, func(s *session.Session) error {
		reply := h.resolver.Resolve(ctx, msg, s)
		if reply == "" {
			return nil
		}
		if err := h.wa.SendText(ctx, msg.From, reply); err != nil {
			log.Printf("bot: failed to send reply to %s: %v", msg.From, err)
		}
		return nil
	})
}
