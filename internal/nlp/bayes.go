package nlp

import "math"

// smoothing is the additive (Lidstone) smoothing constant. Small values keep
// single-word messages like "hi" decisive.
const smoothing = 0.1

// model is a multinomial naive Bayes model over tokens.
type model struct {
	classes    []Intent
	docCount   map[Intent]int
	wordCount  map[Intent]map[string]int
	totalWords map[Intent]int
	vocab      map[string]struct{}
	totalDocs  int
}

func newModel() *model {
	return &model{
		docCount:   make(map[Intent]int),
		wordCount:  make(map[Intent]map[string]int),
		totalWords: make(map[Intent]int),
		vocab:      make(map[string]struct{}),
	}
}

func (m *model) learn(intent Intent, tokens []string) {
	if _, ok := m.wordCount[intent]; !ok {
		m.wordCount[intent] = make(map[string]int)
		m.classes = append(m.classes, intent)
	}
	m.docCount[intent]++
	m.totalDocs++
	for _, tok := range tokens {
		m.wordCount[intent][tok]++
		m.totalWords[intent]++
		m.vocab[tok] = struct{}{}
	}
}

// predict returns the most probable intent and a confidence in [0,1]: the
// posterior of the winner scaled by the share of tokens the model knows.
func (m *model) predict(tokens []string) (Intent, float64) {
	if len(tokens) == 0 || m.totalDocs == 0 {
		return Unknown, 0
	}

	known := make([]string, 0, len(tokens))
	for _, tok := range tokens {
		if _, ok := m.vocab[tok]; ok {
			known = append(known, tok)
		}
	}
	if len(known) == 0 {
		return Unknown, 0
	}

	v := float64(len(m.vocab))
	scores := make([]float64, len(m.classes))
	best := 0
	for i, c := range m.classes {
		s := math.Log(float64(m.docCount[c]) / float64(m.totalDocs))
		denom := float64(m.totalWords[c]) + smoothing*v
		for _, tok := range known {
			s += math.Log((float64(m.wordCount[c][tok]) + smoothing) / denom)
		}
		scores[i] = s
		if s > scores[best] {
			best = i
		}
	}

	// softmax relative to the best score to avoid underflow
	var sum float64
	for _, s := range scores {
		sum += math.Exp(s - scores[best])
	}
	posterior := 1 / sum
	coverage := float64(len(known)) / float64(len(tokens))
	return m.classes[best], posterior * coverage
}
