package jsontree

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Format selects the output syntax of an Encoder.
type Format string

const (
	FormatJSON  Format = "json"
	FormatJSON5 Format = "json5"
	FormatYAML  Format = "yaml"
)

// ParseFormat validates a format name from user input.
func ParseFormat(s string) (Format, error) {
	switch Format(s) {
	case FormatJSON, FormatJSON5, FormatYAML:
		return Format(s), nil
	default:
		return "", fmt.Errorf("invalid format %q (want json, json5 or yaml)", s)
	}
}

// Encoder serializes a Value tree. JSON and JSON5 output is indented with
// four spaces; JSON5 leaves identifier-shaped keys unquoted. YAML goes
// through yaml.v3 nodes so member order survives.
type Encoder struct {
	format Format
	indent int
}

// NewEncoder creates an encoder for the given format.
func NewEncoder(format Format) *Encoder {
	return &Encoder{format: format, indent: 4}
}

// Marshal serializes v.
func (e *Encoder) Marshal(v Value) ([]byte, error) {
	if e.format == FormatYAML {
		node, err := yamlNode(v)
		if err != nil {
			return nil, err
		}
		var buf bytes.Buffer
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err := enc.Encode(node); err != nil {
			return nil, err
		}
		if err := enc.Close(); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	}

	var buf bytes.Buffer
	if err := e.writeValue(&buf, v, 0); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Write serializes v to w, followed by a newline for JSON flavors (YAML
// output already ends with one).
func (e *Encoder) Write(w io.Writer, v Value) error {
	data, err := e.Marshal(v)
	if err != nil {
		return err
	}
	if e.format != FormatYAML {
		data = append(data, '\n')
	}
	_, err = w.Write(data)
	return err
}

// Strings converts a string slice into a Value array. Convenience for
// porcelain tree builders.
func Strings(ss []string) []Value {
	out := make([]Value, len(ss))
	for i, s := range ss {
		out[i] = s
	}
	return out
}

func (e *Encoder) writeValue(buf *bytes.Buffer, v Value, depth int) error {
	switch x := v.(type) {
	case *Object:
		return e.writeObject(buf, x.Keys(), func(key string) Value {
			value, _ := x.Get(key)
			return value
		}, depth)
	case map[string]Value:
		// Unordered maps serialize with sorted keys so output stays
		// deterministic.
		keys := make([]string, 0, len(x))
		for k := range x {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		return e.writeObject(buf, keys, func(key string) Value { return x[key] }, depth)
	case []Value:
		return e.writeArray(buf, x, depth)
	default:
		return e.writeScalar(buf, v)
	}
}

func (e *Encoder) writeObject(buf *bytes.Buffer, keys []string, value func(string) Value, depth int) error {
	if len(keys) == 0 {
		buf.WriteString("{}")
		return nil
	}
	buf.WriteByte('{')
	for i, key := range keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		buf.WriteByte('\n')
		e.writeIndent(buf, depth+1)
		if err := e.writeKey(buf, key); err != nil {
			return err
		}
		buf.WriteString(": ")
		if err := e.writeValue(buf, value(key), depth+1); err != nil {
			return err
		}
	}
	buf.WriteByte('\n')
	e.writeIndent(buf, depth)
	buf.WriteByte('}')
	return nil
}

func (e *Encoder) writeArray(buf *bytes.Buffer, arr []Value, depth int) error {
	if len(arr) == 0 {
		buf.WriteString("[]")
		return nil
	}
	buf.WriteByte('[')
	for i, item := range arr {
		if i > 0 {
			buf.WriteByte(',')
		}
		buf.WriteByte('\n')
		e.writeIndent(buf, depth+1)
		if err := e.writeValue(buf, item, depth+1); err != nil {
			return err
		}
	}
	buf.WriteByte('\n')
	e.writeIndent(buf, depth)
	buf.WriteByte(']')
	return nil
}

func (e *Encoder) writeKey(buf *bytes.Buffer, key string) error {
	if e.format == FormatJSON5 && isIdentifier(key) {
		buf.WriteString(key)
		return nil
	}
	return e.writeScalar(buf, key)
}

func (e *Encoder) writeScalar(buf *bytes.Buffer, v Value) error {
	switch x := v.(type) {
	case nil:
		buf.WriteString("null")
	case bool:
		if x {
			buf.WriteString("true")
		} else {
			buf.WriteString("false")
		}
	case json.Number:
		buf.WriteString(x.String())
	default:
		// Strings, floats and integers take encoding/json's canonical form.
		data, err := json.Marshal(v)
		if err != nil {
			return fmt.Errorf("value of type %T is not serializable: %w", v, err)
		}
		buf.Write(data)
	}
	return nil
}

func (e *Encoder) writeIndent(buf *bytes.Buffer, depth int) {
	for i := 0; i < depth*e.indent; i++ {
		buf.WriteByte(' ')
	}
}

// isIdentifier reports whether key can be written unquoted in JSON5 output.
func isIdentifier(key string) bool {
	if key == "" {
		return false
	}
	for i, r := range key {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r == '_', r == '$':
		case r >= '0' && r <= '9':
			if i == 0 {
				return false
			}
		default:
			return false
		}
	}
	return true
}

func yamlNode(v Value) (*yaml.Node, error) {
	switch x := v.(type) {
	case *Object:
		node := &yaml.Node{Kind: yaml.MappingNode}
		for key, value := range x.Members() {
			valueNode, err := yamlNode(value)
			if err != nil {
				return nil, err
			}
			node.Content = append(node.Content,
				&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: key},
				valueNode,
			)
		}
		return node, nil
	case map[string]Value:
		keys := make([]string, 0, len(x))
		for k := range x {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		node := &yaml.Node{Kind: yaml.MappingNode}
		for _, key := range keys {
			valueNode, err := yamlNode(x[key])
			if err != nil {
				return nil, err
			}
			node.Content = append(node.Content,
				&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: key},
				valueNode,
			)
		}
		return node, nil
	case []Value:
		node := &yaml.Node{Kind: yaml.SequenceNode}
		for _, item := range x {
			itemNode, err := yamlNode(item)
			if err != nil {
				return nil, err
			}
			node.Content = append(node.Content, itemNode)
		}
		return node, nil
	case nil:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!null", Value: "null"}, nil
	case bool:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!bool", Value: strconv.FormatBool(x)}, nil
	case string:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: x}, nil
	case json.Number:
		return &yaml.Node{Kind: yaml.ScalarNode, Value: x.String()}, nil
	case float64:
		return &yaml.Node{Kind: yaml.ScalarNode, Value: strconv.FormatFloat(x, 'g', -1, 64)}, nil
	case int:
		return &yaml.Node{Kind: yaml.ScalarNode, Value: strconv.Itoa(x)}, nil
	default:
		return nil, fmt.Errorf("value of type %T is not serializable", v)
	}
}
