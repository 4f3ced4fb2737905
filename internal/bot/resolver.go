package bot

import (
	"context"
	"fmt"
	"log"
	"strconv"
	"strings"

	"github.com/lojasmm/erpbot/internal/nlp"
	"github.com/lojasmm/erpbot/internal/session"
	"github.com/lojasmm/erpbot/internal/whatsapp"
)

// DefaultThreshold is the minimum classifier confidence acted upon.
const DefaultThreshold = 0.6

var greetings = map[string]bool{
	"hi": true, "hello": true, "hey": true, "hiya": true, "hola": true,
	"salam": true, "marhaba": true,
	"good morning": true, "good afternoon": true, "good evening": true,
}

var farewells = map[string]bool{"bye": true, "goodbye": true, "bye bye": true}

// CustomerFinder renders the reply for a mobile-number lookup. It never fails;
// errors come back as user-facing text.
type CustomerFinder interface {
	FindCustomerByMobile(ctx context.Context, mobile string) string
}

// IntentRecorder counts classifier results for analytics.
type IntentRecorder interface {
	RecordIntent(label string) error
}

// Resolver turns one inbound message plus the sender's session into a reply.
type Resolver struct {
	erp        CustomerFinder
	classifier nlp.Classifier
	threshold  float64
	recorder   IntentRecorder
}

// NewResolver builds a resolver. A nil classifier disables the intent step;
// a nil recorder disables analytics.
func NewResolver(erp CustomerFinder, classifier nlp.Classifier, threshold float64, recorder IntentRecorder) *Resolver {
	return &Resolver{
		erp:        erp,
		classifier: classifier,
		threshold:  threshold,
		recorder:   recorder,
	}
}

// Resolve must be called with the session locked (see session.Manager.WithSession).
func (r *Resolver) Resolve(ctx context.Context, msg whatsapp.InboundMessage, s *session.Session) string {
	text := msg.Text
	lower := normalize(text)

	if reply, ok := r.command(s, lower); ok {
		return reply
	}

	switch s.State {
	case session.StateCollectingAddress:
		if s.Order == nil {
			s.Order = &session.Order{Quantity: 1}
		}
		s.Order.Address = text
		s.State = session.StateConfirmingOrder
		return orderSummaryText(s.Order)
	case session.StateHandlingComplaint:
		log.Printf("bot: complaint from %s: %s", msg.From, text)
		s.Reset()
		return complaintAckText
	}

	if reply, ok := r.classify(ctx, text, s); ok {
		return reply
	}

	if mobile := nlp.MobilePattern.FindString(text); mobile != "" {
		return r.erp.FindCustomerByMobile(ctx, mobile)
	}

	if reply, ok := lookupKnowledge(lower); ok {
		return reply
	}
	return helpText
}

// command handles the fixed command words, which take precedence over
// classification.
func (r *Resolver) command(s *session.Session, lower string) (string, bool) {
	// Everything but an explicit cancel is the address itself.
	if s.State == session.StateCollectingAddress {
		if lower == "cancel" {
			s.Reset()
			return orderCancelledText, true
		}
		return "", false
	}

	if s.State == session.StateConfirmingOrder {
		switch lower {
		case "yes", "y", "confirm":
			reply := orderCancelledText
			if s.Order != nil {
				reply = orderPlacedText(s.Order)
				log.Printf("bot: order placed by %s: %d x %s", s.Sender, s.Order.Quantity, s.Order.Product)
			}
			s.Reset()
			return reply, true
		case "no", "n", "cancel":
			s.Reset()
			return orderCancelledText, true
		}
	}

	word := strings.TrimRight(lower, "!.?, ")
	switch {
	case strings.Contains(lower, "help"):
		return helpText, true
	case greetings[word]:
		return greetingText, true
	case farewells[word]:
		return farewellText, true
	case isOrderCommand(lower):
		return r.startOrder(s, lower), true
	}
	return "", false
}

func isOrderCommand(lower string) bool {
	return lower == "order" || strings.HasPrefix(lower, "order ")
}

// startOrder parses "order [qty] <product>" and asks for the address.
func (r *Resolver) startOrder(s *session.Session, lower string) string {
	fields := strings.Fields(strings.TrimPrefix(lower, "order"))
	qty := 1
	if len(fields) > 0 {
		if n, err := strconv.Atoi(fields[0]); err == nil {
			if n > 0 {
				qty = n
			}
			fields = fields[1:]
		}
	}
	if len(fields) == 0 {
		return askProductText
	}

	s.Order = &session.Order{Product: strings.Join(fields, " "), Quantity: qty}
	s.State = session.StateCollectingAddress
	return askAddressText(s.Order)
}

// classify runs the intent step. ok is false when the message should continue
// down the fallback chain.
func (r *Resolver) classify(ctx context.Context, text string, s *session.Session) (reply string, ok bool) {
	if r.classifier == nil {
		return "", false
	}
	defer func() {
		if rec := recover(); rec != nil {
			log.Printf("bot: classifier failed: %v", rec)
			reply, ok = "", false
		}
	}()

	res := r.classifier.Classify(ctx, text)
	if r.recorder != nil {
		if err := r.recorder.RecordIntent(res.Intent.String()); err != nil {
			log.Printf("bot: recording intent: %v", err)
		}
	}

	if res.Confidence <= r.threshold {
		return "", false
	}
	// A mobile number in the text always reaches the ERP lookup.
	if res.Intent != nlp.CustomerLookup && nlp.MobilePattern.MatchString(text) {
		return "", false
	}

	handle, found := intentHandlers[res.Intent]
	if !found {
		return "", false
	}
	return handle(ctx, r, res, s)
}

type intentHandler func(ctx context.Context, r *Resolver, res nlp.Result, s *session.Session) (string, bool)

func knowledge(text string) intentHandler {
	return func(context.Context, *Resolver, nlp.Result, *session.Session) (string, bool) {
		return text, true
	}
}

// intentHandlers has one entry per nlp.Intent.
var intentHandlers = map[nlp.Intent]intentHandler{
	nlp.Unknown: func(context.Context, *Resolver, nlp.Result, *session.Session) (string, bool) {
		return "", false
	},
	nlp.Greeting: knowledge(greetingText),
	nlp.Help:     knowledge(helpText),
	nlp.Menu:     knowledge(menuText),
	nlp.Delivery: knowledge(deliveryText),
	nlp.Payment:  knowledge(paymentText),
	nlp.Order: func(_ context.Context, r *Resolver, res nlp.Result, s *session.Session) (string, bool) {
		if len(res.Entities.Products) == 0 {
			return askProductText, true
		}
		cmd := "order " + res.Entities.Products[0]
		if len(res.Entities.Quantities) > 0 {
			if n := int(res.Entities.Quantities[0].Number); n > 0 {
				cmd = fmt.Sprintf("order %d %s", n, res.Entities.Products[0])
			}
		}
		return r.startOrder(s, cmd), true
	},
	nlp.Complaint: func(_ context.Context, _ *Resolver, _ nlp.Result, s *session.Session) (string, bool) {
		s.State = session.StateHandlingComplaint
		return complaintText, true
	},
	nlp.CustomerLookup: func(ctx context.Context, r *Resolver, res nlp.Result, _ *session.Session) (string, bool) {
		if len(res.Entities.PhoneNumbers) == 0 {
			return "", false
		}
		return r.erp.FindCustomerByMobile(ctx, res.Entities.PhoneNumbers[0]), true
	},
}

func normalize(text string) string {
	return strings.ToLower(strings.TrimSpace(text))
}
