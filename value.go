package goredact

import (
	"encoding"
	"encoding/json"
	"fmt"
	"reflect"
	"sort"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// Kind identifies the variant of a Value.
type Kind uint8

const (
	KindNull Kind = iota
	KindBool
	KindNumber
	KindString
	KindSequence
	KindMapping
	KindForeign
)

// Value is a node of a decoded data tree. The set of variants is closed:
// Null, Bool, Number, String, Sequence, Mapping and Foreign.
// A nil Value is treated as Null everywhere.
type Value interface {
	Kind() Kind
	isValue()
}

// Null is the absent value.
type Null struct{}

// Bool is a boolean scalar.
type Bool bool

// Number holds the canonical textual literal of a numeric scalar, e.g. "42" or "1.5".
// Keeping the literal avoids float round-trips when a document is re-encoded.
type Number string

// String is a text scalar.
type String string

// Sequence is an ordered list of values.
type Sequence []Value

// Mapping is an ordered collection of entries with unique keys.
type Mapping []Entry

// Entry is a single key/value pair of a Mapping.
type Entry struct {
	Key   string
	Value Value
}

// Foreign carries a Go value of a type the model has no variant for.
// It is stringified and redacted as text when sanitized.
type Foreign struct {
	V any
}

func (Null) Kind() Kind     { return KindNull }
func (Bool) Kind() Kind     { return KindBool }
func (Number) Kind() Kind   { return KindNumber }
func (String) Kind() Kind   { return KindString }
func (Sequence) Kind() Kind { return KindSequence }
func (Mapping) Kind() Kind  { return KindMapping }
func (Foreign) Kind() Kind  { return KindForeign }

func (Null) isValue()     {}
func (Bool) isValue()     {}
func (Number) isValue()   {}
func (String) isValue()   {}
func (Sequence) isValue() {}
func (Mapping) isValue()  {}
func (Foreign) isValue()  {}

// Get returns the value bound to key.
func (m Mapping) Get(key string) (Value, bool) {
	for _, e := range m {
		if e.Key == key {
			return e.Value, true
		}
	}
	return nil, false
}

// set replaces the value of an existing key in place or appends a new entry.
// The first position of a duplicated key wins, its last value wins.
func (m Mapping) set(key string, v Value) Mapping {
	for i := range m {
		if m[i].Key == key {
			m[i].Value = v
			return m
		}
	}
	return append(m, Entry{Key: key, Value: v})
}

var textMarshalerType = reflect.TypeOf((*encoding.TextMarshaler)(nil)).Elem()

// FromAny converts an in-memory Go value into a Value tree.
//
// Go maps have no order, so their keys are emitted sorted. Structs are converted
// through their JSON encoding so that json tags decide the field names.
// Anything else without a natural variant becomes Foreign.
//
// It fails with an error wrapping ErrDepthExceeded when v is nested deeper
// than DefaultMaxDepth or contains itself.
func FromAny(v any) (Value, error) {
	return fromAny(v, 0, DefaultMaxDepth)
}

// fromAny converts v as if it sat at depth of a tree limited to maxDepth.
func fromAny(v any, depth, maxDepth int) (Value, error) {
	c := &converter{maxDepth: maxDepth}
	return c.convert(v, depth)
}

// converter holds the depth limit and the pointers on the current path.
// Self-referencing maps and slices are stopped by the depth limit,
// pointer cycles by onPath.
type converter struct {
	maxDepth int
	onPath   map[uintptr]struct{}
}

func (c *converter) convert(v any, depth int) (Value, error) {
	if depth > c.maxDepth {
		return nil, depthExceeded(c.maxDepth)
	}
	switch t := v.(type) {
	case nil:
		return Null{}, nil
	case Value:
		return t, nil
	case bool:
		return Bool(t), nil
	case string:
		return String(t), nil
	case json.Number:
		return Number(t), nil
	case []byte:
		return String(t), nil
	case int:
		return Number(strconv.FormatInt(int64(t), 10)), nil
	case int64:
		return Number(strconv.FormatInt(t, 10)), nil
	case float64:
		return floatNumber(t, 64), nil
	case map[string]any:
		m := make(Mapping, 0, len(t))
		for _, k := range sortedKeys(t) {
			item, err := c.convert(t[k], depth+1)
			if err != nil {
				return nil, err
			}
			m = append(m, Entry{Key: k, Value: item})
		}
		return m, nil
	case []any:
		s := make(Sequence, len(t))
		for i, item := range t {
			sv, err := c.convert(item, depth+1)
			if err != nil {
				return nil, err
			}
			s[i] = sv
		}
		return s, nil
	case json.RawMessage:
		return c.parseJSON(string(t), depth, String(t))
	}
	return c.convertReflect(reflect.ValueOf(v), depth)
}

// parseJSON decodes an encoded document rooted at depth, or returns fallback
// when b is not JSON.
func (c *converter) parseJSON(b string, depth int, fallback Value) (Value, error) {
	parsed, err := ParseJSON(b, c.maxDepth-depth)
	switch {
	case err == nil:
		return parsed, nil
	case errors.Is(err, ErrDepthExceeded):
		return nil, depthExceeded(c.maxDepth)
	}
	return fallback, nil
}

func (c *converter) convertReflect(rv reflect.Value, depth int) (Value, error) {
	if rv.Type().Implements(textMarshalerType) {
		if rv.Kind() == reflect.Pointer && rv.IsNil() {
			return Null{}, nil
		}
		return Foreign{V: rv.Interface()}, nil
	}
	switch rv.Kind() {
	case reflect.Pointer:
		if rv.IsNil() {
			return Null{}, nil
		}
		p := rv.Pointer()
		if _, ok := c.onPath[p]; ok {
			return nil, depthExceeded(c.maxDepth)
		}
		if c.onPath == nil {
			c.onPath = make(map[uintptr]struct{})
		}
		c.onPath[p] = struct{}{}
		defer delete(c.onPath, p)
		return c.convert(rv.Elem().Interface(), depth)
	case reflect.Interface:
		if rv.IsNil() {
			return Null{}, nil
		}
		return c.convert(rv.Elem().Interface(), depth)
	case reflect.Bool:
		return Bool(rv.Bool()), nil
	case reflect.String:
		return String(rv.String()), nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return Number(strconv.FormatInt(rv.Int(), 10)), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return Number(strconv.FormatUint(rv.Uint(), 10)), nil
	case reflect.Float32:
		return floatNumber(rv.Float(), 32), nil
	case reflect.Float64:
		return floatNumber(rv.Float(), 64), nil
	case reflect.Map:
		if rv.IsNil() {
			return Null{}, nil
		}
		keys := make([]string, 0, rv.Len())
		byKey := make(map[string]reflect.Value, rv.Len())
		iter := rv.MapRange()
		for iter.Next() {
			k := fmt.Sprint(iter.Key().Interface())
			keys = append(keys, k)
			byKey[k] = iter.Value()
		}
		sort.Strings(keys)
		m := make(Mapping, 0, len(keys))
		for _, k := range keys {
			item, err := c.convert(byKey[k].Interface(), depth+1)
			if err != nil {
				return nil, err
			}
			m = append(m, Entry{Key: k, Value: item})
		}
		return m, nil
	case reflect.Slice:
		if rv.IsNil() {
			return Null{}, nil
		}
		fallthrough
	case reflect.Array:
		if rv.Type().Elem().Kind() == reflect.Uint8 {
			return String(fmt.Sprintf("%s", rv.Interface())), nil
		}
		s := make(Sequence, rv.Len())
		for i := 0; i < rv.Len(); i++ {
			item, err := c.convert(rv.Index(i).Interface(), depth+1)
			if err != nil {
				return nil, err
			}
			s[i] = item
		}
		return s, nil
	case reflect.Struct:
		b, err := json.Marshal(rv.Interface())
		if err != nil {
			var unsupported *json.UnsupportedValueError
			if errors.As(err, &unsupported) && strings.HasPrefix(unsupported.Str, "encountered a cycle") {
				return nil, depthExceeded(c.maxDepth)
			}
			return Foreign{V: rv.Interface()}, nil
		}
		return c.parseJSON(string(b), depth, Foreign{V: rv.Interface()})
	}
	return Foreign{V: rv.Interface()}, nil
}

func floatNumber(f float64, bits int) Value {
	var (
		b   []byte
		err error
	)
	if bits == 32 {
		b, err = json.Marshal(float32(f))
	} else {
		b, err = json.Marshal(f)
	}
	if err != nil {
		// NaN and infinities have no JSON literal.
		return Number(strconv.FormatFloat(f, 'g', -1, bits))
	}
	return Number(b)
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// ToAny converts a Value back into plain Go values: nil, bool, json.Number,
// string, []any and map[string]any.
func ToAny(v Value) any {
	switch t := v.(type) {
	case nil, Null:
		return nil
	case Bool:
		return bool(t)
	case Number:
		return json.Number(t)
	case String:
		return string(t)
	case Sequence:
		out := make([]any, len(t))
		for i, item := range t {
			out[i] = ToAny(item)
		}
		return out
	case Mapping:
		out := make(map[string]any, len(t))
		for _, e := range t {
			out[e.Key] = ToAny(e.Value)
		}
		return out
	case Foreign:
		return t.V
	}
	return nil
}

// foreignText is the best-effort string form of a value the model does not know.
func foreignText(v any) string {
	switch t := v.(type) {
	case encoding.TextMarshaler:
		if b, err := t.MarshalText(); err == nil {
			return string(b)
		}
	case error:
		return t.Error()
	case fmt.Stringer:
		return t.String()
	}
	return fmt.Sprint(v)
}

// textOf returns the canonical string form of v used for masking.
func textOf(v Value) string {
	switch t := v.(type) {
	case nil, Null:
		return ""
	case Bool:
		return strconv.FormatBool(bool(t))
	case Number:
		return string(t)
	case String:
		return string(t)
	case Foreign:
		return foreignText(t.V)
	}
	b, err := EncodeJSON(v)
	if err != nil {
		return fmt.Sprint(ToAny(v))
	}
	return string(b)
}
