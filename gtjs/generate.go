// SPDX-FileCopyrightText: 2025 Antoni Szymański
// SPDX-License-Identifier: MPL-2.0

package gtjs

import (
	"fmt"
	"maps"
	"slices"

	"github.com/elliotchance/orderedmap/v3"
	"github.com/hashicorp/go-set/v3"
)

// Generator turns a root ResolvedType into a Document by walking the
// type graph through a TypeInspector. A Generator is reusable; every
// Generate call runs with its own definition registry.
type Generator struct {
	inspector TypeInspector
	config    *Config
}

type GeneratorOption func(*Generator)

func WithConfig(cfg *Config) GeneratorOption {
	return func(g *Generator) {
		g.config = cfg
	}
}

func NewGenerator(inspector TypeInspector, opts ...GeneratorOption) *Generator {
	g := &Generator{inspector: inspector, config: NewConfig()}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// run carries the state of one generation: the registry and the queue
// of definitions whose bodies still have to be built. Queue processing
// instead of recursion is what breaks reference cycles: a type already
// registered is never enqueued again.
type run struct {
	gen     *Generator
	rootKey string
	reg     *definitionRegistry
	queue   []*definition
}

// Generate produces the complete schema document for root. It either
// returns a fully linked document or fails wholesale with a single
// diagnostic; no partial output is produced.
func (g *Generator) Generate(root *ResolvedType) (doc *Document, err error) {
	defer func() {
		// A throwing resolver chain is a caller bug, reported as a
		// ConfigurationError rather than a crash.
		if p := recover(); p != nil {
			doc = nil
			err = &ConfigurationError{Reason: fmt.Sprintf("resolver panicked: %v", p)}
		}
	}()

	r := &run{gen: g, rootKey: root.Key(), reg: newDefinitionRegistry()}

	var rootNode *Node
	switch {
	case root.kind.IsScalar():
		rootNode = scalarNode(root)
		rootNode.Title = "" // the document title already carries the name
	case root.kind == Object:
		rootNode, err = r.objectBody(root)
	default:
		return nil, &UnsupportedTypeError{Type: root}
	}
	if err != nil {
		return nil, err
	}

	for len(r.queue) > 0 {
		d := r.queue[0]
		r.queue = r.queue[1:]
		if d.node != nil {
			continue
		}
		d.node, err = r.objectBody(d.typ)
		if err != nil {
			return nil, err
		}
	}

	return &Document{
		Schema:      SchemaVersion,
		Title:       root.String(),
		Root:        rootNode,
		Definitions: r.reg.definitions(),
	}, nil
}

// objectBody assembles the schema body for an object type from its
// resolved members.
func (r *run) objectBody(t *ResolvedType) (*Node, error) {
	members, err := r.members(t)
	if err != nil {
		return nil, err
	}

	node := &Node{Types: []string{"object"}}
	props := orderedmap.NewOrderedMap[string, *Node]()
	for _, m := range members {
		part := r.gen.config.part(m)
		if part.ShouldIgnore(m) {
			continue
		}

		name := m.Name
		if override, ok := part.ResolvePropertyNameOverride(m); ok {
			name = override
		}

		prop, err := r.memberNode(m, part)
		if err != nil {
			return nil, err
		}
		props.Set(name, prop)
		if part.IsRequired(m) {
			node.Required = append(node.Required, name)
		}
	}
	if props.Len() > 0 {
		node.Properties = props
	}
	return node, nil
}

// members enumerates t's own members plus any supertype members not
// shadowed by name, with generic parameters substituted along the way.
func (r *run) members(t *ResolvedType) ([]Member, error) {
	list, err := r.gen.inspector.Members(t)
	if err != nil {
		return nil, &UnsupportedTypeError{Type: t, Err: err}
	}
	bindings := t.bindings()
	for i := range list {
		list[i].Declaring = t
		list[i].Type = substitute(list[i].Type, bindings)
	}

	seen := set.New[string](len(list))
	for _, m := range list {
		seen.Insert(m.Name)
	}
	for super := substitute(t.super, bindings); super != nil; {
		superMembers, err := r.gen.inspector.Members(super)
		if err != nil {
			return nil, &UnsupportedTypeError{Type: super, Err: err}
		}
		sb := super.bindings()
		for _, m := range superMembers {
			if seen.Contains(m.Name) {
				continue // shadowed by a subtype member
			}
			seen.Insert(m.Name)
			m.Declaring = t
			m.Type = substitute(m.Type, sb)
			list = append(list, m)
		}
		super = substitute(super.Supertype(), sb)
	}
	return list, nil
}

// memberNode builds the property node for one member: attribute
// resolution, target-type substitution, then assembly.
func (r *run) memberNode(m Member, part *MemberConfigPart) (*Node, error) {
	effective := m.Type
	overridden := false
	if o, ok := part.ResolveTargetTypeOverride(m); ok && o != nil {
		if !compatibleOverride(m.Type, o) {
			return nil, &ConfigurationError{
				Member:   memberPath(m),
				Declared: m.Type,
				Override: o,
			}
		}
		effective = o
		overridden = true
	}
	if effective == nil {
		return nil, &ConfigurationError{Member: memberPath(m), Reason: "member has no resolvable type"}
	}

	nullable, defined := part.IsNullable(m)
	if !defined {
		nullable = m.Nilable
	}

	var node *Node
	var err error
	switch {
	case effective.kind == Union:
		node, err = r.unionNode(effective, nullable)
	case effective.kind.IsScalar():
		node = scalarNode(effective)
		if nullable && effective.kind != Null && effective.kind != Any {
			node.Types = append(node.Types, "null")
		}
	case effective.kind == Array:
		node, err = r.arrayNode(effective)
		if err == nil && nullable {
			node.Types = append(node.Types, "null")
		}
	case effective.kind == Map:
		node, err = r.mapNode(effective)
		if err == nil && nullable {
			node.Types = append(node.Types, "null")
		}
	case effective.kind == Object:
		node, err = r.objectRef(m, effective, nullable, overridden)
	default:
		return nil, &UnsupportedTypeError{Type: effective}
	}
	if err != nil {
		return nil, err
	}

	if ap, ok := part.ResolveAdditionalProperties(m); ok && node.Ref == "" {
		node.AdditionalProperties, err = r.typeNode(ap)
		if err != nil {
			return nil, err
		}
	}
	if pp, ok := part.ResolvePatternProperties(m); ok && node.Ref == "" {
		node.PatternProperties, err = r.patternProperties(pp)
		if err != nil {
			return nil, err
		}
	}
	r.applyAttributes(node, m, part)
	part.ApplyAttributeOverrides(node, m)
	return node, nil
}

// patternProperties builds value nodes keyed by name pattern, in
// sorted pattern order to keep the output deterministic.
func (r *run) patternProperties(pp map[string]*ResolvedType) (*orderedmap.OrderedMap[string, *Node], error) {
	out := orderedmap.NewOrderedMap[string, *Node]()
	for _, pattern := range slices.Sorted(maps.Keys(pp)) {
		node, err := r.typeNode(pp[pattern])
		if err != nil {
			return nil, err
		}
		out.Set(pattern, node)
	}
	return out, nil
}

// objectRef produces the call-site node for an object-typed member.
// Nullability stays a per-reference property: the referenced body is
// shared and the wrapping differs per call site. The one exception is
// a nullable slot whose type was substituted, which gets a dedicated
// "-nullable" definition named after the declared type.
func (r *run) objectRef(m Member, effective *ResolvedType, nullable, overridden bool) (*Node, error) {
	if overridden && nullable && m.Type != nil && m.Type.kind == Object {
		subRef := r.refNode(effective)
		wrapper, created := r.reg.register(m.Type, true)
		if created {
			wrapper.node = &Node{AnyOf: []*Node{NullNode(), subRef}}
		}
		return &Node{AnyOf: []*Node{NullNode(), Refer(wrapper.name)}}, nil
	}

	ref := r.refNode(effective)
	if nullable {
		return &Node{AnyOf: []*Node{NullNode(), ref}}, nil
	}
	return ref, nil
}

// refNode registers (and queues, on first sight) the definition for an
// object type and returns a reference to it. References back to the
// root type use "#".
func (r *run) refNode(t *ResolvedType) *Node {
	if t.Key() == r.rootKey {
		return Refer("#")
	}
	d, created := r.reg.register(t, false)
	if created {
		r.queue = append(r.queue, d)
	}
	return Refer(d.name)
}

// typeNode builds a node for a type outside any member context, as
// used for array items, map values and union alternatives.
func (r *run) typeNode(t *ResolvedType) (*Node, error) {
	switch {
	case t == nil:
		return nil, &UnsupportedTypeError{Type: t}
	case t.kind == Union:
		return r.unionNode(t, false)
	case t.kind.IsScalar():
		return scalarNode(t), nil
	case t.kind == Array:
		return r.arrayNode(t)
	case t.kind == Map:
		return r.mapNode(t)
	case t.kind == Object:
		return r.refNode(t), nil
	default:
		return nil, &UnsupportedTypeError{Type: t}
	}
}

func (r *run) arrayNode(t *ResolvedType) (*Node, error) {
	items, err := r.typeNode(t.elem)
	if err != nil {
		return nil, err
	}
	return &Node{Types: []string{"array"}, Items: items}, nil
}

func (r *run) mapNode(t *ResolvedType) (*Node, error) {
	values, err := r.typeNode(t.elem)
	if err != nil {
		return nil, err
	}
	return &Node{Types: []string{"object"}, AdditionalProperties: values}, nil
}

// unionNode inlines every alternative; the null alternative comes
// first when the union contains null or the member is nullable.
func (r *run) unionNode(t *ResolvedType, nullable bool) (*Node, error) {
	alts := make([]*Node, 0, len(t.alts)+1)
	hasNull := nullable
	for _, alt := range t.alts {
		if alt.kind == Null {
			hasNull = true
		}
	}
	if hasNull {
		alts = append(alts, NullNode())
	}
	for _, alt := range t.alts {
		if alt.kind == Null {
			continue
		}
		node, err := r.typeNode(alt)
		if err != nil {
			return nil, err
		}
		alts = append(alts, node)
	}
	return &Node{AnyOf: alts}, nil
}

// scalarNode builds the inline fragment for a scalar classification.
// Named scalars carry their declared name as the title.
func scalarNode(t *ResolvedType) *Node {
	n := &Node{}
	switch t.kind {
	case Boolean:
		n.Types = []string{"boolean"}
	case Integer:
		n.Types = []string{"integer"}
	case Number:
		n.Types = []string{"number"}
	case String:
		n.Types = []string{"string"}
	case Null:
		n.Types = []string{"null"}
	case Any:
		// the empty schema accepts any instance
	}
	if t.name != "" {
		n.Title = t.name
	}
	return n
}

// applyAttributes copies every attribute that resolved to a defined
// value onto the assembled node; absent attributes leave it untouched.
func (r *run) applyAttributes(n *Node, m Member, part *MemberConfigPart) {
	if v, ok := part.ResolveTitle(m); ok {
		n.Title = v
	}
	if v, ok := part.ResolveDescription(m); ok {
		n.Description = v
	}
	if n.Ref != "" {
		// besides description, attributes next to "$ref" would be
		// ignored by consumers
		return
	}
	if v, ok := part.ResolveDefault(m); ok {
		n.Default = v
	}
	if v, ok := part.ResolveEnum(m); ok {
		n.Enum = v
	}
	if v, ok := part.ResolveStringFormat(m); ok {
		n.Format = v
	}
	if v, ok := part.ResolveStringPattern(m); ok {
		n.Pattern = v
	}
	if v, ok := part.ResolveStringMinLength(m); ok {
		n.MinLength = &v
	}
	if v, ok := part.ResolveStringMaxLength(m); ok {
		n.MaxLength = &v
	}
	if v, ok := part.ResolveNumberInclusiveMinimum(m); ok {
		n.Minimum = v
	}
	if v, ok := part.ResolveNumberExclusiveMinimum(m); ok {
		n.ExclusiveMinimum = v
	}
	if v, ok := part.ResolveNumberInclusiveMaximum(m); ok {
		n.Maximum = v
	}
	if v, ok := part.ResolveNumberExclusiveMaximum(m); ok {
		n.ExclusiveMaximum = v
	}
	if v, ok := part.ResolveNumberMultipleOf(m); ok {
		n.MultipleOf = v
	}
	if v, ok := part.ResolveArrayMinItems(m); ok {
		n.MinItems = &v
	}
	if v, ok := part.ResolveArrayMaxItems(m); ok {
		n.MaxItems = &v
	}
	if v, ok := part.ResolveArrayUniqueItems(m); ok {
		n.UniqueItems = &v
	}
}

// compatibleOverride accepts an override that is the declared type
// itself or carries it in its supertype chain. Without hierarchy
// information there is nothing to check against.
func compatibleOverride(declared, override *ResolvedType) bool {
	if declared == nil || override == nil {
		return true
	}
	if declared.kind != Object || override.kind != Object {
		return true
	}
	if override.rawEqual(declared) {
		return true
	}
	if override.super == nil {
		return true
	}
	for s := override.super; s != nil; s = s.super {
		if s.rawEqual(declared) {
			return true
		}
	}
	return false
}

func memberPath(m Member) string {
	if m.Declaring == nil {
		return m.Name
	}
	return m.Declaring.String() + "." + m.Name
}
