package config

import (
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"
)

// Page is one entry of the ordered page list: a docs-relative source path and
// its display title. A title may carry one level of grouping, "Guide/Install".
type Page struct {
	Path  string `json:"path" yaml:"path"`
	Title string `json:"title" yaml:"title"`
}

// UnmarshalYAML accepts ["path", "title"], ["path"] or {path: ..., title: ...}.
func (p *Page) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.SequenceNode:
		var pair []string
		if err := node.Decode(&pair); err != nil {
			return fmt.Errorf("line %d: page entry: %w", node.Line, err)
		}
		return p.fromPair(pair)
	case yaml.MappingNode:
		type rawPage Page
		var raw rawPage
		if err := node.Decode(&raw); err != nil {
			return fmt.Errorf("line %d: page entry: %w", node.Line, err)
		}
		*p = Page(raw)
		return nil
	case yaml.ScalarNode:
		var single string
		if err := node.Decode(&single); err != nil {
			return err
		}
		return p.fromPair([]string{single})
	default:
		return fmt.Errorf("line %d: unsupported page entry", node.Line)
	}
}

// UnmarshalJSON mirrors UnmarshalYAML for JSON configuration files.
func (p *Page) UnmarshalJSON(data []byte) error {
	var pair []string
	if err := json.Unmarshal(data, &pair); err == nil {
		return p.fromPair(pair)
	}

	var single string
	if err := json.Unmarshal(data, &single); err == nil {
		return p.fromPair([]string{single})
	}

	type rawPage struct {
		Path  string `json:"path"`
		Title string `json:"title"`
	}
	var raw rawPage
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("page entry: %w", err)
	}
	p.Path = raw.Path
	p.Title = raw.Title
	return nil
}

func (p *Page) fromPair(pair []string) error {
	switch len(pair) {
	case 1:
		p.Path, p.Title = pair[0], ""
	case 2:
		p.Path, p.Title = pair[0], pair[1]
	default:
		return fmt.Errorf("page entry must have a path and an optional title, got %d values", len(pair))
	}
	return nil
}
