package goredact_test

import (
	"encoding/json"
	"math"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/muhammadluth/goredact"
	"github.com/pkg/errors"
)

type loginRequest struct {
	User     string `json:"user"`
	Password string `json:"password"`
	Remember bool   `json:"remember,omitempty"`
	internal string
}

func TestFromAny(t *testing.T) {
	n := 7
	var nilPtr *int
	var nilSlice []int

	tests := []struct {
		name     string
		input    any
		expected string
	}{
		{"Nil", nil, `null`},
		{"Bool", true, `true`},
		{"String", "s", `"s"`},
		{"Int", 42, `42`},
		{"Uint8", uint8(3), `3`},
		{"Float", 1.5, `1.5`},
		{"LargeFloat", 1e21, `1e+21`},
		{"Float32", float32(0.1), `0.1`},
		{"NaN", math.NaN(), `"NaN"`},
		{"Bytes", []byte("hi"), `"hi"`},
		{"JSONNumber", json.Number("3.14"), `3.14`},
		{"RawMessage", json.RawMessage(`{"b":1,"a":2}`), `{"b":1,"a":2}`},
		{"Pointer", &n, `7`},
		{"NilPointer", nilPtr, `null`},
		{"NilSlice", nilSlice, `null`},
		{"StringSlice", []string{"a", "b"}, `["a","b"]`},
		{"MapSortedKeys", map[string]int{"b": 1, "a": 2}, `{"a":2,"b":1}`},
		{"IntKeys", map[int]string{2: "b", 1: "a"}, `{"1":"a","2":"b"}`},
		{"Struct", loginRequest{User: "u", Password: "p", internal: "x"}, `{"user":"u","password":"p"}`},
		{"Time", time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC), `"2024-01-02T03:04:05Z"`},
		{"Value", goredact.String("already"), `"already"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, err := goredact.FromAny(tt.input)
			if err != nil {
				t.Fatalf("FromAny: %v", err)
			}
			b, err := goredact.EncodeJSON(v)
			if err != nil {
				t.Fatalf("EncodeJSON: %v", err)
			}
			if string(b) != tt.expected {
				t.Errorf("FromAny(%#v) encoded to %s, want %s", tt.input, b, tt.expected)
			}
		})
	}
}

func TestFromAnyKinds(t *testing.T) {
	tests := []struct {
		input any
		kind  goredact.Kind
	}{
		{nil, goredact.KindNull},
		{false, goredact.KindBool},
		{1, goredact.KindNumber},
		{"x", goredact.KindString},
		{[]any{1}, goredact.KindSequence},
		{map[string]any{}, goredact.KindMapping},
		{time.Second, goredact.KindNumber},
		{time.Time{}, goredact.KindForeign},
		{make(chan int), goredact.KindForeign},
	}
	for _, tt := range tests {
		v, err := goredact.FromAny(tt.input)
		if err != nil {
			t.Errorf("FromAny(%T): %v", tt.input, err)
			continue
		}
		if got := v.Kind(); got != tt.kind {
			t.Errorf("FromAny(%T).Kind() = %v, want %v", tt.input, got, tt.kind)
		}
	}
}

func TestToAny(t *testing.T) {
	v := goredact.Mapping{
		{Key: "n", Value: goredact.Number("1.5")},
		{Key: "s", Value: goredact.Sequence{goredact.String("a"), goredact.Null{}, goredact.Bool(true)}},
		{Key: "m", Value: goredact.Mapping{{Key: "k", Value: goredact.String("v")}}},
	}
	want := map[string]any{
		"n": json.Number("1.5"),
		"s": []any{"a", nil, true},
		"m": map[string]any{"k": "v"},
	}
	if got := goredact.ToAny(v); !reflect.DeepEqual(got, want) {
		t.Errorf("ToAny = %#v, want %#v", got, want)
	}
}

func TestMappingGet(t *testing.T) {
	m := goredact.Mapping{
		{Key: "a", Value: goredact.String("x")},
		{Key: "b", Value: goredact.Null{}},
	}
	if v, ok := m.Get("a"); !ok || v != goredact.String("x") {
		t.Errorf("Get(a) = %v, %v", v, ok)
	}
	if v, ok := m.Get("b"); !ok || v.Kind() != goredact.KindNull {
		t.Errorf("Get(b) = %v, %v", v, ok)
	}
	if _, ok := m.Get("c"); ok {
		t.Error("Get(c) should report missing")
	}
}

func TestValueMarshalJSON(t *testing.T) {
	payload := map[string]any{
		"doc": goredact.Mapping{
			{Key: "z", Value: goredact.Number("1")},
			{Key: "a", Value: goredact.Sequence{goredact.Null{}}},
		},
	}
	b, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("json.Marshal: %v", err)
	}
	if string(b) != `{"doc":{"z":1,"a":[null]}}` {
		t.Errorf("got %s", b)
	}
}

type node struct {
	Name string `json:"name"`
	Next *node  `json:"next"`
}

func TestFromAnySelfReference(t *testing.T) {
	selfMap := map[string]any{"a": 1}
	selfMap["self"] = selfMap

	selfSlice := []any{"x"}
	selfSlice[0] = selfSlice

	typedMap := map[string][]any{}
	typedMap["loop"] = []any{typedMap}

	var iface any
	iface = &iface

	ring := &node{Name: "a"}
	ring.Next = &node{Name: "b", Next: ring}

	tests := []struct {
		name  string
		input any
	}{
		{"Map", selfMap},
		{"Slice", selfSlice},
		{"ReflectedMap", typedMap},
		{"PointerToItself", &iface},
		{"StructRing", ring},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := goredact.FromAny(tt.input); !errors.Is(err, goredact.ErrDepthExceeded) {
				t.Errorf("expected ErrDepthExceeded, got %v", err)
			}
		})
	}
}

func TestFromAnyDepthLimit(t *testing.T) {
	var v any = "leaf"
	for i := 0; i < goredact.DefaultMaxDepth; i++ {
		v = []any{v}
	}
	if _, err := goredact.FromAny(v); err != nil {
		t.Errorf("nesting at the limit: %v", err)
	}
	if _, err := goredact.FromAny([]any{v}); !errors.Is(err, goredact.ErrDepthExceeded) {
		t.Errorf("expected ErrDepthExceeded past the limit, got %v", err)
	}

	raw := json.RawMessage(strings.Repeat("[", goredact.DefaultMaxDepth+2) + strings.Repeat("]", goredact.DefaultMaxDepth+2))
	if _, err := goredact.FromAny(raw); !errors.Is(err, goredact.ErrDepthExceeded) {
		t.Errorf("expected ErrDepthExceeded for a deep raw document, got %v", err)
	}
}
