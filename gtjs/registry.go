// SPDX-FileCopyrightText: 2025 Antoni Szymański
// SPDX-License-Identifier: MPL-2.0

package gtjs

import (
	"strconv"
	"strings"

	"github.com/elliotchance/orderedmap/v3"
	"github.com/hashicorp/go-set/v3"
)

// definition is one named, registered schema body. The same
// ResolvedType with different nullability yields distinct definitions.
type definition struct {
	name     string
	typ      *ResolvedType
	nullable bool
	node     *Node
}

type defKey struct {
	typeKey  string
	nullable bool
}

// definitionRegistry assigns stable, collision-free names and stores
// each body exactly once. One registry exists per generation run.
type definitionRegistry struct {
	byKey map[defKey]*definition
	names *set.Set[string]
	order []*definition
}

func newDefinitionRegistry() *definitionRegistry {
	return &definitionRegistry{
		byKey: make(map[defKey]*definition),
		names: set.New[string](0),
	}
}

// register returns the definition for (type, nullability), creating
// and naming it on first sight. Created definitions have a nil node
// until the walker builds their body.
func (r *definitionRegistry) register(t *ResolvedType, nullable bool) (_ *definition, created bool) {
	key := defKey{typeKey: t.Key(), nullable: nullable}
	if d, ok := r.byKey[key]; ok {
		return d, false
	}

	base := definitionName(t)
	if nullable {
		base += "-nullable"
	}
	// Distinct raw types sharing a base name are disambiguated with a
	// numeric suffix in first-registration order.
	name := base
	for i := uint64(2); r.names.Contains(name); i++ {
		name = base + "-" + strconv.FormatUint(i, 10)
	}
	r.names.Insert(name)

	d := &definition{name: name, typ: t, nullable: nullable}
	r.byKey[key] = d
	r.order = append(r.order, d)
	return d, true
}

// definitions freezes the registry into the output map, keyed by
// definition name in first-registration order.
func (r *definitionRegistry) definitions() *orderedmap.OrderedMap[string, *Node] {
	out := orderedmap.NewOrderedMap[string, *Node]()
	for _, d := range r.order {
		if d.node != nil && d.node.Title == "" {
			d.node.Title = d.typ.String()
		}
		out.Set(d.name, d.node)
	}
	return out
}

// definitionName derives the registry name: the declared name plus a
// parenthesized, comma-joined list of bound parameter names, e.g.
// "TestSuperClass(Boolean)".
func definitionName(t *ResolvedType) string {
	name := t.name
	if name == "" {
		name = t.kind.String()
	}
	if len(t.args) == 0 {
		return name
	}
	var sb strings.Builder
	sb.WriteString(name)
	sb.WriteByte('(')
	for i, arg := range t.args {
		if i > 0 {
			sb.WriteByte(',')
		}
		sb.WriteString(definitionName(arg))
	}
	sb.WriteByte(')')
	return sb.String()
}
