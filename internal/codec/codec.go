// Package codec reads and writes plan documents as JSON or YAML.
package codec

import (
	"bytes"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"

	"alcyxob/liftplan/internal/domain"
	"gopkg.in/yaml.v3"
)

// Format is a document encoding.
type Format int

const (
	FormatJSON Format = iota
	FormatYAML
)

func (f Format) String() string {
	if f == FormatYAML {
		return "yaml"
	}
	return "json"
}

// FormatFor picks the encoding from a path's extension. Anything that is not
// .yaml or .yml is JSON. Storage prefixes such as s3:// do not matter.
func FormatFor(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	}
	return FormatJSON
}

// Encode renders a plan, pretty-printed, in the given format.
func Encode(p domain.Plan, f Format) ([]byte, error) {
	data, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("codec: encode plan: %w", err)
	}
	if f == FormatJSON {
		return append(data, '\n'), nil
	}
	return jsonToYAML(data)
}

// Decode parses a plan document in the given format.
func Decode(data []byte, f Format) (domain.Plan, error) {
	if f == FormatYAML {
		converted, err := yamlToJSON(data)
		if err != nil {
			return domain.Plan{}, err
		}
		data = converted
	}
	var p domain.Plan
	if err := json.Unmarshal(data, &p); err != nil {
		return domain.Plan{}, fmt.Errorf("codec: decode plan: %w", err)
	}
	return p, nil
}

// jsonToYAML re-encodes a JSON document as block-style YAML, keeping key order.
func jsonToYAML(data []byte) ([]byte, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("codec: convert to yaml: %w", err)
	}
	blockStyle(&doc)
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(&doc); err != nil {
		return nil, fmt.Errorf("codec: encode yaml: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("codec: encode yaml: %w", err)
	}
	return buf.Bytes(), nil
}

// blockStyle drops the flow and quoting styles that JSON input carries. The
// encoder still quotes strings that would otherwise read back as another type.
func blockStyle(n *yaml.Node) {
	switch n.Kind {
	case yaml.MappingNode, yaml.SequenceNode:
		n.Style &^= yaml.FlowStyle
	case yaml.ScalarNode:
		n.Style &^= yaml.DoubleQuotedStyle
	}
	for _, child := range n.Content {
		blockStyle(child)
	}
}

func yamlToJSON(data []byte) ([]byte, error) {
	var raw any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("codec: decode yaml: %w", err)
	}
	if raw == nil {
		return nil, fmt.Errorf("codec: decode yaml: empty document")
	}
	out, err := json.Marshal(raw)
	if err != nil {
		return nil, fmt.Errorf("codec: decode yaml: %w", err)
	}
	return out, nil
}
