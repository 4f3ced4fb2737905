package nlp

import (
	_ "embed"
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"
)

//go:embed catalog.yaml
var defaultCatalog []byte

type IntentSpec struct {
	Answer     string   `yaml:"answer"`
	Utterances []string `yaml:"utterances"`
}

type EntitySpec struct {
	Products  map[string][]string `yaml:"products"`
	Locations map[string][]string `yaml:"locations"`
}

// Catalog is the training data registered with the engine.
type Catalog struct {
	Intents  map[string]IntentSpec `yaml:"intents"`
	Entities EntitySpec            `yaml:"entities"`
	Units    []string              `yaml:"units"`
}

// DefaultCatalog returns the embedded catalog.
func DefaultCatalog() (*Catalog, error) {
	return ParseCatalog(defaultCatalog)
}

// LoadCatalog reads a catalog file, falling back to the embedded one when path is empty.
func LoadCatalog(path string) (*Catalog, error) {
	if path == "" {
		return DefaultCatalog()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}
	return ParseCatalog(data)
}

func ParseCatalog(data []byte) (*Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}
	if err := c.validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

func (c *Catalog) validate() error {
	if len(c.Intents) == 0 {
		return fmt.Errorf("catalog has no intents")
	}
	labels := make([]string, 0, len(c.Intents))
	for label := range c.Intents {
		labels = append(labels, label)
	}
	sort.Strings(labels)
	for _, label := range labels {
		intent, ok := ParseIntent(label)
		if !ok || intent == Unknown {
			return fmt.Errorf("catalog intent %q is not a known intent", label)
		}
		if len(c.Intents[label].Utterances) == 0 {
			return fmt.Errorf("catalog intent %q has no utterances", label)
		}
	}
	return nil
}
