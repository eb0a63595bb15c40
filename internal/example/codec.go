package example

import (
	"encoding/json"
	"fmt"
	"os"

	orderedmap "github.com/wk8/go-ordered-map/v2"
	"gopkg.in/yaml.v3"
)

// UnmarshalYAML decodes a mapping node, preserving key order. The reserved
// keys are routed to Demos and Augmented.
func (e *Example) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.DocumentNode && len(node.Content) == 1 {
		node = node.Content[0]
	}
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("%w: line %d", ErrNotMapping, node.Line)
	}

	e.values = orderedmap.New[string, any](len(node.Content) / 2)
	e.Demos = nil
	e.Augmented = false

	for i := 0; i+1 < len(node.Content); i += 2 {
		key := node.Content[i].Value
		val := node.Content[i+1]

		switch key {
		case KeyAugmented:
			if err := val.Decode(&e.Augmented); err != nil {
				return fmt.Errorf("example: %s: %w", key, err)
			}
		case KeyDemos:
			var demos []*Example
			if err := val.Decode(&demos); err != nil {
				return fmt.Errorf("example: %s: %w", key, err)
			}
			e.Demos = demos
		default:
			var v any
			if err := val.Decode(&v); err != nil {
				return fmt.Errorf("example: %s: %w", key, err)
			}
			e.values.Set(key, v)
		}
	}
	return nil
}

// MarshalYAML encodes the example as an ordered mapping with the reserved
// keys last.
func (e *Example) MarshalYAML() (any, error) {
	node := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}

	appendPair := func(key string, value any) error {
		var val yaml.Node
		if err := val.Encode(value); err != nil {
			return fmt.Errorf("example: %s: %w", key, err)
		}
		node.Content = append(node.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: key},
			&val,
		)
		return nil
	}

	for pair := e.values.Oldest(); pair != nil; pair = pair.Next() {
		if err := appendPair(pair.Key, pair.Value); err != nil {
			return nil, err
		}
	}
	if e.Augmented {
		if err := appendPair(KeyAugmented, true); err != nil {
			return nil, err
		}
	}
	if len(e.Demos) > 0 {
		if err := appendPair(KeyDemos, e.Demos); err != nil {
			return nil, err
		}
	}
	return node, nil
}

// MarshalJSON encodes the example as a JSON object in key order.
func (e *Example) MarshalJSON() ([]byte, error) {
	om := orderedmap.New[string, any](e.values.Len() + 2)
	for pair := e.values.Oldest(); pair != nil; pair = pair.Next() {
		om.Set(pair.Key, pair.Value)
	}
	if e.Augmented {
		om.Set(KeyAugmented, true)
	}
	if len(e.Demos) > 0 {
		om.Set(KeyDemos, e.Demos)
	}
	return json.Marshal(om)
}

// Parse decodes a YAML (or JSON) document into an example.
func Parse(data []byte) (*Example, error) {
	e := New()
	if err := yaml.Unmarshal(data, e); err != nil {
		return nil, err
	}
	return e, nil
}

// Load reads and parses the example stored at path.
func Load(path string) (*Example, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	e, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return e, nil
}
