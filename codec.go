package goredact

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// errNotJSON signals that a string is not a well-formed JSON document.
// It is the expected outcome for most free text and never leaves the package.
var errNotJSON = errors.New("goredact: not a JSON document")

// ParseJSON decodes s into a Value, keeping object key order and number literals.
// Malformed input yields a plain error. A well-formed document nested deeper
// than maxDepth yields an error wrapping ErrDepthExceeded.
func ParseJSON(s string, maxDepth int) (Value, error) {
	// json.Valid scans without recursion, so malformed input is rejected
	// before the recursive decoder ever runs.
	if !json.Valid([]byte(s)) {
		return nil, errNotJSON
	}
	dec := json.NewDecoder(strings.NewReader(s))
	dec.UseNumber()
	return decodeJSONValue(dec, 0, maxDepth)
}

func decodeJSONValue(dec *json.Decoder, depth, maxDepth int) (Value, error) {
	if depth > maxDepth {
		return nil, depthExceeded(maxDepth)
	}
	tok, err := dec.Token()
	if err != nil {
		return nil, errors.Wrap(err, "goredact: decode json")
	}
	switch t := tok.(type) {
	case nil:
		return Null{}, nil
	case bool:
		return Bool(t), nil
	case json.Number:
		return Number(t), nil
	case string:
		return String(t), nil
	case json.Delim:
		switch t {
		case '{':
			m := Mapping{}
			for dec.More() {
				kt, err := dec.Token()
				if err != nil {
					return nil, errors.Wrap(err, "goredact: decode json")
				}
				key, ok := kt.(string)
				if !ok {
					return nil, errors.Errorf("goredact: unexpected object key %v", kt)
				}
				v, err := decodeJSONValue(dec, depth+1, maxDepth)
				if err != nil {
					return nil, err
				}
				m = m.set(key, v)
			}
			if _, err := dec.Token(); err != nil {
				return nil, errors.Wrap(err, "goredact: decode json")
			}
			return m, nil
		case '[':
			s := Sequence{}
			for dec.More() {
				v, err := decodeJSONValue(dec, depth+1, maxDepth)
				if err != nil {
					return nil, err
				}
				s = append(s, v)
			}
			if _, err := dec.Token(); err != nil {
				return nil, errors.Wrap(err, "goredact: decode json")
			}
			return s, nil
		}
	}
	return nil, errors.Errorf("goredact: unexpected json token %v", tok)
}

// EncodeJSON renders v as compact JSON. Mapping order is kept and HTML
// characters are left unescaped.
func EncodeJSON(v Value) ([]byte, error) {
	var buf bytes.Buffer
	if err := appendJSON(&buf, v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func appendJSON(buf *bytes.Buffer, v Value) error {
	switch t := v.(type) {
	case nil, Null:
		buf.WriteString("null")
	case Bool:
		buf.WriteString(strconv.FormatBool(bool(t)))
	case Number:
		if isNumberLiteral(string(t)) {
			buf.WriteString(string(t))
			return nil
		}
		return appendJSONString(buf, string(t))
	case String:
		return appendJSONString(buf, string(t))
	case Foreign:
		return appendJSONString(buf, foreignText(t.V))
	case Sequence:
		buf.WriteByte('[')
		for i, item := range t {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := appendJSON(buf, item); err != nil {
				return err
			}
		}
		buf.WriteByte(']')
	case Mapping:
		buf.WriteByte('{')
		for i, e := range t {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := appendJSONString(buf, e.Key); err != nil {
				return err
			}
			buf.WriteByte(':')
			if err := appendJSON(buf, e.Value); err != nil {
				return err
			}
		}
		buf.WriteByte('}')
	default:
		return errors.Errorf("goredact: cannot encode %T", v)
	}
	return nil
}

func appendJSONString(buf *bytes.Buffer, s string) error {
	enc := json.NewEncoder(buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(s); err != nil {
		return errors.Wrap(err, "goredact: encode json string")
	}
	// Encode terminates every value with a newline.
	buf.Truncate(buf.Len() - 1)
	return nil
}

func isNumberLiteral(s string) bool {
	if s == "" {
		return false
	}
	if c := s[0]; c != '-' && (c < '0' || c > '9') {
		return false
	}
	return json.Valid([]byte(s))
}

// MarshalJSON implements json.Marshaler.
func (Null) MarshalJSON() ([]byte, error) { return []byte("null"), nil }

// MarshalJSON implements json.Marshaler.
func (n Number) MarshalJSON() ([]byte, error) { return EncodeJSON(n) }

// MarshalJSON implements json.Marshaler.
func (s Sequence) MarshalJSON() ([]byte, error) { return EncodeJSON(s) }

// MarshalJSON implements json.Marshaler.
func (m Mapping) MarshalJSON() ([]byte, error) { return EncodeJSON(m) }

// MarshalJSON implements json.Marshaler.
func (f Foreign) MarshalJSON() ([]byte, error) { return EncodeJSON(f) }

// ParseYAML decodes the first YAML document in data into a Value,
// keeping mapping order. Aliases are expanded; each expansion counts
// as one level of depth so self-referencing anchors terminate.
func ParseYAML(data []byte, maxDepth int) (Value, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, errors.Wrap(err, "goredact: decode yaml")
	}
	if doc.Kind == 0 {
		return Null{}, nil
	}
	return fromYAMLNode(&doc, 0, maxDepth)
}

func fromYAMLNode(n *yaml.Node, depth, maxDepth int) (Value, error) {
	if depth > maxDepth {
		return nil, depthExceeded(maxDepth)
	}
	switch n.Kind {
	case yaml.DocumentNode:
		if len(n.Content) == 0 {
			return Null{}, nil
		}
		return fromYAMLNode(n.Content[0], depth, maxDepth)
	case yaml.AliasNode:
		return fromYAMLNode(n.Alias, depth+1, maxDepth)
	case yaml.SequenceNode:
		s := make(Sequence, 0, len(n.Content))
		for _, c := range n.Content {
			v, err := fromYAMLNode(c, depth+1, maxDepth)
			if err != nil {
				return nil, err
			}
			s = append(s, v)
		}
		return s, nil
	case yaml.MappingNode:
		m := make(Mapping, 0, len(n.Content)/2)
		for i := 0; i+1 < len(n.Content); i += 2 {
			k, err := fromYAMLNode(n.Content[i], depth+1, maxDepth)
			if err != nil {
				return nil, err
			}
			v, err := fromYAMLNode(n.Content[i+1], depth+1, maxDepth)
			if err != nil {
				return nil, err
			}
			m = m.set(textOf(k), v)
		}
		return m, nil
	case yaml.ScalarNode:
		return yamlScalar(n), nil
	}
	return nil, errors.Errorf("goredact: unexpected yaml node kind %d", n.Kind)
}

func yamlScalar(n *yaml.Node) Value {
	switch n.ShortTag() {
	case "!!null":
		return Null{}
	case "!!bool":
		var b bool
		if err := n.Decode(&b); err == nil {
			return Bool(b)
		}
	case "!!int":
		var i int64
		if err := n.Decode(&i); err == nil {
			return Number(strconv.FormatInt(i, 10))
		}
		var u uint64
		if err := n.Decode(&u); err == nil {
			return Number(strconv.FormatUint(u, 10))
		}
	case "!!float":
		var f float64
		if err := n.Decode(&f); err == nil {
			return floatNumber(f, 64)
		}
	}
	return String(n.Value)
}

// EncodeYAML renders v as a YAML document, keeping mapping order.
func EncodeYAML(v Value) ([]byte, error) {
	b, err := yaml.Marshal(toYAMLNode(v))
	if err != nil {
		return nil, errors.Wrap(err, "goredact: encode yaml")
	}
	return b, nil
}

func toYAMLNode(v Value) *yaml.Node {
	switch t := v.(type) {
	case Bool:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!bool", Value: strconv.FormatBool(bool(t))}
	case Number:
		s := string(t)
		if _, err := strconv.ParseInt(s, 10, 64); err == nil {
			return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!int", Value: s}
		}
		if isNumberLiteral(s) {
			return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!float", Value: s}
		}
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: s}
	case String:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: string(t)}
	case Foreign:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: foreignText(t.V)}
	case Sequence:
		n := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
		for _, item := range t {
			n.Content = append(n.Content, toYAMLNode(item))
		}
		return n
	case Mapping:
		n := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
		for _, e := range t {
			n.Content = append(n.Content,
				&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: e.Key},
				toYAMLNode(e.Value),
			)
		}
		return n
	}
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!null", Value: "null"}
}
