package nlp

import (
	"regexp"
	"sort"
	"strconv"
	"strings"
)

// MobilePattern matches a mobile number with an optional country code. The
// matched text is used verbatim as the ERP lookup value.
var MobilePattern = regexp.MustCompile(`(?:\+\d{1,3})?\d{8,15}`)

var (
	reQuantity = regexp.MustCompile(`\b(\d{1,4}(?:\.\d+)?)\s*([a-z]+)?\b`)

	highUrgency   = []string{"urgent", "asap", "immediately", "emergency", "right now"}
	mediumUrgency = []string{"today", "soon", "quickly", "fast", "tonight"}

	positiveWords = map[string]float64{
		"good": 1, "great": 2, "thanks": 1, "thank": 1, "love": 2, "excellent": 3,
		"happy": 2, "awesome": 3, "nice": 1, "perfect": 3, "delicious": 3,
	}
	negativeWords = map[string]float64{
		"bad": -2, "late": -1, "terrible": -3, "worst": -3, "angry": -3, "broken": -2,
		"cold": -1, "wrong": -2, "poor": -2, "disappointed": -2, "missing": -2,
		"damaged": -2, "awful": -3, "rude": -2, "complaint": -1,
	}
)

// dictionary maps synonyms to canonical entity names.
type dictionary struct {
	synonyms []synonym
}

type synonym struct {
	phrase    string // folded, space separated
	canonical string
}

func newDictionary(entries map[string][]string) *dictionary {
	d := &dictionary{}
	for canonical, syns := range entries {
		all := append([]string{canonical}, syns...)
		for _, s := range all {
			phrase := strings.Join(words(s), " ")
			if phrase != "" {
				d.synonyms = append(d.synonyms, synonym{phrase: phrase, canonical: canonical})
			}
		}
	}
	// longest phrase first so "orange juice" wins over "juice"
	sort.SliceStable(d.synonyms, func(i, j int) bool {
		return len(d.synonyms[i].phrase) > len(d.synonyms[j].phrase)
	})
	return d
}

// find returns canonical names in order of first appearance in text.
func (d *dictionary) find(ws []string) []string {
	padded := " " + strings.Join(stemAll(ws), " ") + " "
	type hit struct {
		pos  int
		name string
	}
	var hits []hit
	seen := map[string]bool{}
	for _, s := range d.synonyms {
		if seen[s.canonical] {
			continue
		}
		needle := " " + strings.Join(stemAll(strings.Fields(s.phrase)), " ") + " "
		if pos := strings.Index(padded, needle); pos >= 0 {
			seen[s.canonical] = true
			hits = append(hits, hit{pos, s.canonical})
		}
	}
	sort.SliceStable(hits, func(i, j int) bool { return hits[i].pos < hits[j].pos })

	out := make([]string, len(hits))
	for i, h := range hits {
		out[i] = h.name
	}
	return out
}

func stemAll(ws []string) []string {
	out := make([]string, len(ws))
	for i, w := range ws {
		out[i] = normalizeToken(w)
	}
	return out
}

type extractor struct {
	products  *dictionary
	locations *dictionary
	units     map[string]bool
}

func newExtractor(c *Catalog) *extractor {
	units := make(map[string]bool, len(c.Units))
	for _, u := range c.Units {
		units[strings.ToLower(u)] = true
	}
	return &extractor{
		products:  newDictionary(c.Entities.Products),
		locations: newDictionary(c.Entities.Locations),
		units:     units,
	}
}

func (x *extractor) extract(text string) Entities {
	folded := fold(text)
	ws := words(text)

	e := Entities{
		Products:     x.products.find(ws),
		Locations:    x.locations.find(ws),
		PhoneNumbers: MobilePattern.FindAllString(text, -1),
		Urgency:      urgency(folded),
	}

	for _, m := range reQuantity.FindAllStringSubmatch(folded, -1) {
		n, err := strconv.ParseFloat(m[1], 64)
		if err != nil {
			continue
		}
		e.Quantities = append(e.Quantities, Quantity{Number: n, Unit: x.unit(m[2])})
	}
	return e
}

// unit resolves "boxes", "bottles" or "kg" to a catalog unit, or "".
func (x *extractor) unit(word string) string {
	for _, cand := range []string{word, strings.TrimSuffix(word, "es"), strings.TrimSuffix(word, "s")} {
		if cand != "" && x.units[cand] {
			return cand
		}
	}
	return ""
}

func urgency(folded string) Urgency {
	for _, w := range highUrgency {
		if strings.Contains(folded, w) {
			return UrgencyHigh
		}
	}
	for _, w := range mediumUrgency {
		if strings.Contains(folded, w) {
			return UrgencyMedium
		}
	}
	return UrgencyLow
}

func sentiment(ws []string) Sentiment {
	var score float64
	for _, w := range ws {
		score += positiveWords[w] + negativeWords[w]
	}
	if len(ws) > 0 {
		score /= float64(len(ws))
	}
	switch {
	case score > 0:
		return Sentiment{Label: "positive", Score: score}
	case score < 0:
		return Sentiment{Label: "negative", Score: score}
	default:
		return Sentiment{Label: "neutral", Score: 0}
	}
}
