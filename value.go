package vdom

import (
	"encoding/json"
	"fmt"
	"maps"
	"sort"
	"strings"
	"unicode"

	"gopkg.in/yaml.v3"
)

// Value is an attribute value: either a plain string or a style map.
// A Value with a non-nil Style is structured; otherwise Str holds the value.
type Value struct {
	Str   string
	Style map[string]string
}

func String(s string) Value {
	return Value{Str: s}
}

func Style(m map[string]string) Value {
	if m == nil {
		m = map[string]string{}
	}
	return Value{Style: m}
}

// IsStyle reports whether v is a structured style map.
func (v Value) IsStyle() bool {
	return v.Style != nil
}

func (v Value) Equal(o Value) bool {
	if v.IsStyle() != o.IsStyle() {
		return false
	}
	if v.IsStyle() {
		return maps.Equal(v.Style, o.Style)
	}
	return v.Str == o.Str
}

// String renders v as an attribute string. Style maps render as
// "name:value;" pairs in key order, with camelCase names converted to
// kebab-case (fontSize -> font-size).
func (v Value) String() string {
	if !v.IsStyle() {
		return v.Str
	}
	keys := make([]string, 0, len(v.Style))
	for k := range v.Style {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	for _, k := range keys {
		b.WriteString(kebab(k))
		b.WriteByte(':')
		b.WriteString(v.Style[k])
		b.WriteByte(';')
	}
	return b.String()
}

func kebab(name string) string {
	var b strings.Builder
	for _, r := range name {
		if unicode.IsUpper(r) {
			b.WriteByte('-')
			b.WriteRune(unicode.ToLower(r))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

func (v Value) MarshalJSON() ([]byte, error) {
	if v.IsStyle() {
		return json.Marshal(v.Style)
	}
	return json.Marshal(v.Str)
}

func (v *Value) UnmarshalJSON(data []byte) error {
	trimmed := strings.TrimSpace(string(data))
	if strings.HasPrefix(trimmed, "{") {
		style := map[string]string{}
		if err := json.Unmarshal(data, &style); err != nil {
			return fmt.Errorf("failed to decode style value: %w", err)
		}
		*v = Value{Style: style}
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("failed to decode attribute value: %w", err)
	}
	*v = Value{Str: s}
	return nil
}

func (v Value) MarshalYAML() (any, error) {
	if v.IsStyle() {
		return v.Style, nil
	}
	return v.Str, nil
}

func (v *Value) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.MappingNode:
		style := map[string]string{}
		if err := node.Decode(&style); err != nil {
			return fmt.Errorf("failed to decode style value: %w", err)
		}
		*v = Value{Style: style}
	case yaml.ScalarNode:
		*v = Value{Str: node.Value}
	default:
		return fmt.Errorf("unexpected yaml node kind %d for attribute value", node.Kind)
	}
	return nil
}
