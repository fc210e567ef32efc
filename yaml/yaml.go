// Package yaml provides a YAML codec implementation.
package yaml

import (
	"bytes"
	"fmt"

	"github.com/zoobzio/packets"
	"gopkg.in/yaml.v3"
)

const mergeTag = "!!merge"

// yamlCodec implements packets.Codec for YAML.
type yamlCodec struct{}

// New returns a YAML codec.
func New() packets.Codec {
	return &yamlCodec{}
}

// ContentType returns the MIME type for YAML.
func (c *yamlCodec) ContentType() string {
	return "application/yaml"
}

// Marshal encodes v as YAML with two-space indentation.
func (c *yamlCodec) Marshal(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Unmarshal decodes YAML data into v. Decoding into *any yields a raw tree:
// mapping keys keep their source text ("1.0" stays "1.0"), merge keys are
// expanded and aliases resolved.
func (c *yamlCodec) Unmarshal(data []byte, v any) error {
	target, ok := v.(*any)
	if !ok {
		return yaml.Unmarshal(data, v)
	}
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return err
	}
	tree, err := rawTree(&doc)
	if err != nil {
		return err
	}
	*target = tree
	return nil
}

func rawTree(n *yaml.Node) (any, error) {
	switch n.Kind {
	case yaml.DocumentNode:
		if len(n.Content) == 0 {
			return nil, nil
		}
		return rawTree(n.Content[0])
	case yaml.AliasNode:
		return rawTree(n.Alias)
	case yaml.SequenceNode:
		out := make([]any, 0, len(n.Content))
		for _, item := range n.Content {
			v, err := rawTree(item)
			if err != nil {
				return nil, err
			}
			out = append(out, v)
		}
		return out, nil
	case yaml.MappingNode:
		return mapping(n)
	case yaml.ScalarNode:
		var v any
		if err := n.Decode(&v); err != nil {
			return nil, err
		}
		return v, nil
	}
	return nil, nil
}

// mapping builds a map from a mapping node. Explicit keys win over merged
// ones; among merged mappings the first one listed wins.
func mapping(n *yaml.Node) (map[string]any, error) {
	out := make(map[string]any, len(n.Content)/2)
	var explicit []int
	for i := 0; i+1 < len(n.Content); i += 2 {
		k := n.Content[i]
		if k.Kind == yaml.ScalarNode && k.Value == "<<" && k.ShortTag() == mergeTag {
			if err := merge(out, n.Content[i+1]); err != nil {
				return nil, err
			}
			continue
		}
		explicit = append(explicit, i)
	}
	for _, i := range explicit {
		key, err := mapKey(n.Content[i])
		if err != nil {
			return nil, err
		}
		v, err := rawTree(n.Content[i+1])
		if err != nil {
			return nil, err
		}
		out[key] = v
	}
	return out, nil
}

func merge(out map[string]any, n *yaml.Node) error {
	if n.Kind == yaml.AliasNode {
		n = n.Alias
	}
	switch n.Kind {
	case yaml.MappingNode:
		m, err := mapping(n)
		if err != nil {
			return err
		}
		for k, v := range m {
			if _, ok := out[k]; !ok {
				out[k] = v
			}
		}
		return nil
	case yaml.SequenceNode:
		for _, item := range n.Content {
			if err := merge(out, item); err != nil {
				return err
			}
		}
		return nil
	}
	return fmt.Errorf("yaml: line %d: merge value must be a mapping", n.Line)
}

func mapKey(n *yaml.Node) (string, error) {
	if n.Kind == yaml.AliasNode {
		n = n.Alias
	}
	if n.Kind == yaml.ScalarNode {
		return n.Value, nil
	}
	v, err := rawTree(n)
	if err != nil {
		return "", err
	}
	return fmt.Sprint(v), nil
}
