package nlp

import (
	"context"
	"fmt"
	"log"
	"sort"
	"sync/atomic"
)

// Engine is a trainable intent classifier. It is safe for concurrent use;
// Classify returns the degraded unknown result until Train has completed.
type Engine struct {
	catalog   *Catalog
	extractor *extractor
	answers   map[Intent]string
	model     atomic.Pointer[model]
}

// NewEngine registers the catalog's utterances, entity dictionaries, regex
// extractors and answers. Training happens separately in Train.
func NewEngine(c *Catalog) (*Engine, error) {
	if c == nil {
		return nil, fmt.Errorf("nlp: nil catalog")
	}
	if err := c.validate(); err != nil {
		return nil, err
	}

	answers := make(map[Intent]string, len(c.Intents))
	for label, spec := range c.Intents {
		intent, _ := ParseIntent(label)
		answers[intent] = spec.Answer
	}

	return &Engine{
		catalog:   c,
		extractor: newExtractor(c),
		answers:   answers,
	}, nil
}

// Train builds the model from the catalog. Calling it again retrains.
func (e *Engine) Train(ctx context.Context) error {
	labels := make([]string, 0, len(e.catalog.Intents))
	for label := range e.catalog.Intents {
		labels = append(labels, label)
	}
	sort.Strings(labels)

	m := newModel()
	var n int
	for _, label := range labels {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("nlp: training interrupted: %w", err)
		}
		intent, _ := ParseIntent(label)
		for _, u := range e.catalog.Intents[label].Utterances {
			m.learn(intent, tokenize(u))
			n++
		}
	}

	e.model.Store(m)
	log.Printf("nlp: trained on %d utterances across %d intents (vocabulary %d)", n, len(labels), len(m.vocab))
	return nil
}

// Trained reports whether Train has completed.
func (e *Engine) Trained() bool {
	return e.model.Load() != nil
}

func (e *Engine) Classify(ctx context.Context, text string) (res Result) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("nlp: classify panicked: %v", r)
			res = degraded()
		}
	}()

	m := e.model.Load()
	if m == nil || ctx.Err() != nil {
		return degraded()
	}

	intent, confidence := m.predict(tokenize(text))
	return Result{
		Intent:     intent,
		Label:      intent.String(),
		Confidence: confidence,
		Entities:   e.extractor.extract(text),
		Sentiment:  sentiment(words(text)),
		Answer:     e.answers[intent],
	}
}

var _ Classifier = (*Engine)(nil)
