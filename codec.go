package vdom

import (
	"encoding/json"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// Format is a serialization format for deltas and snapshots.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// ParseFormat accepts json/j and yaml/yml/y.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(s) {
	case "json", "j":
		return FormatJSON, nil
	case "yaml", "yml", "y":
		return FormatYAML, nil
	}
	return "", fmt.Errorf("unknown format %q", s)
}

func marshal(v any, f Format) ([]byte, error) {
	switch f {
	case FormatYAML:
		return yaml.Marshal(v)
	case FormatJSON, "":
		return json.MarshalIndent(v, "", "  ")
	}
	return nil, fmt.Errorf("unknown format %q", f)
}

func unmarshal(data []byte, v any, f Format) error {
	switch f {
	case FormatYAML:
		return yaml.Unmarshal(data, v)
	case FormatJSON, "":
		return json.Unmarshal(data, v)
	}
	return fmt.Errorf("unknown format %q", f)
}

// MarshalDelta serialises a Delta.
func MarshalDelta(d *Delta, f Format) ([]byte, error) {
	return marshal(d, f)
}

// UnmarshalDelta deserialises a Delta.
func UnmarshalDelta(data []byte, f Format) (*Delta, error) {
	var d Delta
	if err := unmarshal(data, &d, f); err != nil {
		return nil, fmt.Errorf("failed to decode delta: %w", err)
	}
	if d.Patches == nil {
		d.Patches = PatchSet{}
	}
	for _, ops := range d.Patches {
		for _, op := range ops {
			if op.Node != nil {
				recount(op.Node)
			}
		}
	}
	return &d, nil
}

// MarshalSnapshot serialises a snapshot.
func MarshalSnapshot(n *Node, f Format) ([]byte, error) {
	return marshal(n, f)
}

// UnmarshalSnapshot deserialises a snapshot. Counts are recomputed rather
// than trusted.
func UnmarshalSnapshot(data []byte, f Format) (*Node, error) {
	var n Node
	if err := unmarshal(data, &n, f); err != nil {
		return nil, fmt.Errorf("failed to decode snapshot: %w", err)
	}
	recount(&n)
	return &n, nil
}

func recount(n *Node) {
	for _, c := range n.Children {
		recount(c)
	}
	n.Count = countChildren(n.Children)
	if n.Kind == "" {
		n.Kind = ElementKind
	}
	if n.Kind == ElementKind {
		n.Key = n.Props["key"].Str
	}
}
