// SPDX-FileCopyrightText: 2025 Antoni Szymański
// SPDX-License-Identifier: MPL-2.0

package gtjs

import (
	"encoding/json"
	"strconv"

	"github.com/elliotchance/orderedmap/v3"
)

// Node is one schema fragment: either a reference to a named
// definition, an anyOf union, or an inline scalar/array/object schema.
// Zero-valued attributes are omitted from the output, never emitted as
// null or empty.
type Node struct {
	Ref   string
	AnyOf []*Node

	Types       []string // JSON Schema "type"; a single entry marshals as a string
	Title       string
	Description string
	Default     any // nil means absent
	Enum        []any

	Format    string
	Pattern   string
	MinLength *int
	MaxLength *int

	Minimum          json.Number
	ExclusiveMinimum json.Number
	Maximum          json.Number
	ExclusiveMaximum json.Number
	MultipleOf       json.Number

	Items       *Node
	MinItems    *int
	MaxItems    *int
	UniqueItems *bool

	Properties           *orderedmap.OrderedMap[string, *Node]
	PatternProperties    *orderedmap.OrderedMap[string, *Node]
	Required             []string
	AdditionalProperties *Node
}

// Refer builds a reference node pointing at a definitions entry.
func Refer(name string) *Node {
	if name == "#" {
		return &Node{Ref: "#"}
	}
	return &Node{Ref: "#/definitions/" + name}
}

// NullNode is the inline fragment for the null alternative in unions.
func NullNode() *Node {
	return &Node{Types: []string{"null"}}
}

func (n *Node) MarshalJSON() ([]byte, error) {
	w := &objectWriter{}
	n.appendTo(w)
	return w.finish()
}

// appendTo writes the node's fields, in a fixed order, into an already
// opened JSON object. Document splices the root node's fields next to
// "$schema" through the same path.
func (n *Node) appendTo(w *objectWriter) {
	if n.Ref != "" {
		w.put("$ref", n.Ref)
		if n.Description != "" {
			w.put("description", n.Description)
		}
		return
	}
	if len(n.AnyOf) > 0 {
		w.put("anyOf", n.AnyOf)
	}
	switch len(n.Types) {
	case 0:
	case 1:
		w.put("type", n.Types[0])
	default:
		w.put("type", n.Types)
	}
	if n.Title != "" {
		w.put("title", n.Title)
	}
	if n.Description != "" {
		w.put("description", n.Description)
	}
	if n.Default != nil {
		w.put("default", n.Default)
	}
	if len(n.Enum) > 0 {
		w.put("enum", n.Enum)
	}
	if n.Format != "" {
		w.put("format", n.Format)
	}
	if n.Pattern != "" {
		w.put("pattern", n.Pattern)
	}
	if n.MinLength != nil {
		w.put("minLength", *n.MinLength)
	}
	if n.MaxLength != nil {
		w.put("maxLength", *n.MaxLength)
	}
	if n.Minimum != "" {
		w.put("minimum", n.Minimum)
	}
	if n.ExclusiveMinimum != "" {
		w.put("exclusiveMinimum", n.ExclusiveMinimum)
	}
	if n.Maximum != "" {
		w.put("maximum", n.Maximum)
	}
	if n.ExclusiveMaximum != "" {
		w.put("exclusiveMaximum", n.ExclusiveMaximum)
	}
	if n.MultipleOf != "" {
		w.put("multipleOf", n.MultipleOf)
	}
	if n.Items != nil {
		w.put("items", n.Items)
	}
	if n.MinItems != nil {
		w.put("minItems", *n.MinItems)
	}
	if n.MaxItems != nil {
		w.put("maxItems", *n.MaxItems)
	}
	if n.UniqueItems != nil {
		w.put("uniqueItems", *n.UniqueItems)
	}
	if n.Properties != nil {
		w.putOrdered("properties", n.Properties)
	}
	if n.PatternProperties != nil {
		w.putOrdered("patternProperties", n.PatternProperties)
	}
	if len(n.Required) > 0 {
		w.put("required", n.Required)
	}
	if n.AdditionalProperties != nil {
		w.put("additionalProperties", n.AdditionalProperties)
	}
}

// objectWriter assembles a JSON object whose keys keep insertion
// order, which encoding/json cannot do for maps.
type objectWriter struct {
	buf []byte
	n   int
	err error
}

func (w *objectWriter) put(key string, v any) {
	if w.err != nil {
		return
	}
	data, err := marshalNoEscape(v)
	if err != nil {
		w.err = err
		return
	}
	w.putRaw(key, data)
}

func (w *objectWriter) putRaw(key string, raw []byte) {
	if w.err != nil {
		return
	}
	if w.n > 0 {
		w.buf = append(w.buf, ',')
	}
	w.buf = strconv.AppendQuote(w.buf, key)
	w.buf = append(w.buf, ':')
	w.buf = append(w.buf, raw...)
	w.n++
}

func (w *objectWriter) putOrdered(key string, m *orderedmap.OrderedMap[string, *Node]) {
	if w.err != nil {
		return
	}
	inner := &objectWriter{}
	for name, node := range m.AllFromFront() {
		inner.put(name, node)
	}
	raw, err := inner.finish()
	if err != nil {
		w.err = err
		return
	}
	w.putRaw(key, raw)
}

func (w *objectWriter) finish() ([]byte, error) {
	if w.err != nil {
		return nil, w.err
	}
	out := make([]byte, 0, len(w.buf)+2)
	out = append(out, '{')
	out = append(out, w.buf...)
	out = append(out, '}')
	return out, nil
}
