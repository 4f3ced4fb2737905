// Package nlp classifies inbound chat text into a closed set of intents and
// extracts the entities the bot acts on.
package nlp

import "context"

// Intent is the closed set of labels the engine can produce.
type Intent int

const (
	Unknown Intent = iota
	Greeting
	Order
	Menu
	Delivery
	Payment
	Help
	Complaint
	CustomerLookup
)

var intentNames = [...]string{
	Unknown:        "unknown",
	Greeting:       "greeting",
	Order:          "order",
	Menu:           "menu",
	Delivery:       "delivery",
	Payment:        "payment",
	Help:           "help",
	Complaint:      "complaint",
	CustomerLookup: "customer_lookup",
}

func (i Intent) String() string {
	if i < 0 || int(i) >= len(intentNames) {
		return intentNames[Unknown]
	}
	return intentNames[i]
}

// ParseIntent maps a catalog label to its Intent.
func ParseIntent(label string) (Intent, bool) {
	for i, name := range intentNames {
		if name == label {
			return Intent(i), true
		}
	}
	return Unknown, false
}

// Intents returns every classifiable intent, Unknown excluded.
func Intents() []Intent {
	out := make([]Intent, 0, len(intentNames)-1)
	for i := Greeting; int(i) < len(intentNames); i++ {
		out = append(out, i)
	}
	return out
}

type Urgency string

const (
	UrgencyLow    Urgency = "low"
	UrgencyMedium Urgency = "medium"
	UrgencyHigh   Urgency = "high"
)

type Quantity struct {
	Number float64 `json:"number"`
	Unit   string  `json:"unit,omitempty"`
}

type Entities struct {
	Products     []string   `json:"products"`
	Locations    []string   `json:"locations"`
	PhoneNumbers []string   `json:"phone_numbers"`
	Quantities   []Quantity `json:"quantities"`
	Urgency      Urgency    `json:"urgency"`
}

type Sentiment struct {
	Label string  `json:"label"`
	Score float64 `json:"score"`
}

// Result is produced fresh for every classified message.
type Result struct {
	Intent     Intent    `json:"-"`
	Label      string    `json:"intent"`
	Confidence float64   `json:"confidence"`
	Entities   Entities  `json:"entities"`
	Sentiment  Sentiment `json:"sentiment"`
	Answer     string    `json:"answer,omitempty"`
}

// Classifier is the capability the bot depends on. Implementations must not
// block on training and must never panic out of Classify.
type Classifier interface {
	Classify(ctx context.Context, text string) Result
}

func degraded() Result {
	return Result{
		Intent:    Unknown,
		Label:     Unknown.String(),
		Entities:  Entities{Urgency: UrgencyLow},
		Sentiment: Sentiment{Label: "neutral"},
	}
}
