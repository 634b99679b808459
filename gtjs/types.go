// SPDX-FileCopyrightText: 2025 Antoni Szymański
// SPDX-License-Identifier: MPL-2.0

package gtjs

import "strings"

// Kind classifies a ResolvedType for schema purposes.
type Kind uint8

const (
	Invalid Kind = iota
	Boolean
	Integer
	Number
	String
	Null
	Any
	Array
	Map
	Object
	Union
	TypeParam
)

func (k Kind) String() string {
	switch k {
	case Boolean:
		return "boolean"
	case Integer:
		return "integer"
	case Number:
		return "number"
	case String:
		return "string"
	case Null:
		return "null"
	case Any:
		return "any"
	case Array:
		return "array"
	case Map:
		return "map"
	case Object:
		return "object"
	case Union:
		return "union"
	case TypeParam:
		return "typeparam"
	default:
		return "invalid"
	}
}

// IsScalar reports whether values of this kind are emitted inline,
// without a definitions entry.
func (k Kind) IsScalar() bool {
	switch k {
	case Boolean, Integer, Number, String, Null, Any:
		return true
	default:
		return false
	}
}

// ResolvedType is a type together with its bound generic parameters.
// Values are immutable; the With* methods return modified copies.
type ResolvedType struct {
	pkg    string
	name   string
	kind   Kind
	params []string        // declared type parameter names
	args   []*ResolvedType // bound type arguments, parallel to params
	elem   *ResolvedType   // Array and Map element type
	alts   []*ResolvedType // Union alternatives
	super  *ResolvedType   // resolved supertype, if any
}

var (
	BooleanType = &ResolvedType{kind: Boolean}
	IntegerType = &ResolvedType{kind: Integer}
	NumberType  = &ResolvedType{kind: Number}
	StringType  = &ResolvedType{kind: String}
	NullType    = &ResolvedType{kind: Null}
	AnyType     = &ResolvedType{kind: Any}
)

// NewObject returns an object type identified by package path and name.
func NewObject(pkg, name string) *ResolvedType {
	return &ResolvedType{pkg: pkg, name: name, kind: Object}
}

// NamedScalar returns a scalar type carrying a declared name, e.g. a
// wrapper around a primitive. Named scalars keep their name as the
// node title when inlined.
func NamedScalar(pkg, name string, kind Kind) *ResolvedType {
	return &ResolvedType{pkg: pkg, name: name, kind: kind}
}

func ArrayOf(elem *ResolvedType) *ResolvedType {
	return &ResolvedType{kind: Array, elem: elem}
}

func MapOf(elem *ResolvedType) *ResolvedType {
	return &ResolvedType{kind: Map, elem: elem}
}

func UnionOf(alts ...*ResolvedType) *ResolvedType {
	return &ResolvedType{kind: Union, alts: alts}
}

// TypeParamRef returns a placeholder standing for an unbound type
// parameter; it is replaced during generic substitution.
func TypeParamRef(name string) *ResolvedType {
	return &ResolvedType{name: name, kind: TypeParam}
}

func (t *ResolvedType) clone() *ResolvedType {
	c := *t
	return &c
}

// WithTypeParams returns a copy declaring the given type parameter names.
func (t *ResolvedType) WithTypeParams(names ...string) *ResolvedType {
	c := t.clone()
	c.params = names
	return c
}

// WithArgs returns a copy with the given type arguments bound.
func (t *ResolvedType) WithArgs(args ...*ResolvedType) *ResolvedType {
	c := t.clone()
	c.args = args
	return c
}

// WithSupertype returns a copy linked to its resolved supertype.
func (t *ResolvedType) WithSupertype(super *ResolvedType) *ResolvedType {
	c := t.clone()
	c.super = super
	return c
}

func (t *ResolvedType) Kind() Kind                    { return t.kind }
func (t *ResolvedType) Name() string                  { return t.name }
func (t *ResolvedType) Package() string               { return t.pkg }
func (t *ResolvedType) TypeParams() []string          { return t.params }
func (t *ResolvedType) Args() []*ResolvedType         { return t.args }
func (t *ResolvedType) Elem() *ResolvedType           { return t.elem }
func (t *ResolvedType) Alternatives() []*ResolvedType { return t.alts }
func (t *ResolvedType) Supertype() *ResolvedType      { return t.super }

// Key is the deduplication identity: raw type plus the ordered
// identities of its bound arguments.
func (t *ResolvedType) Key() string {
	var sb strings.Builder
	t.appendKey(&sb)
	return sb.String()
}

func (t *ResolvedType) appendKey(sb *strings.Builder) {
	switch t.kind {
	case Array:
		sb.WriteString("[]")
		t.elem.appendKey(sb)
	case Map:
		sb.WriteString("map[")
		t.elem.appendKey(sb)
		sb.WriteByte(']')
	case Union:
		for i, alt := range t.alts {
			if i > 0 {
				sb.WriteByte('|')
			}
			alt.appendKey(sb)
		}
	case TypeParam:
		sb.WriteByte('$')
		sb.WriteString(t.name)
	default:
		if t.name == "" {
			sb.WriteString(t.kind.String())
			return
		}
		if t.pkg != "" {
			sb.WriteString(t.pkg)
			sb.WriteByte('.')
		}
		sb.WriteString(t.name)
		if len(t.args) > 0 {
			sb.WriteByte('(')
			for i, arg := range t.args {
				if i > 0 {
					sb.WriteByte(',')
				}
				arg.appendKey(sb)
			}
			sb.WriteByte(')')
		}
	}
}

// rawEqual compares raw type identity, ignoring bound arguments.
func (t *ResolvedType) rawEqual(other *ResolvedType) bool {
	if t == nil || other == nil {
		return false
	}
	return t.name != "" && t.name == other.name && t.pkg == other.pkg
}

// String renders the human-readable generic signature, e.g.
// "TestSuperClass<Boolean>".
func (t *ResolvedType) String() string {
	if t == nil {
		return "<nil>"
	}
	switch t.kind {
	case Array:
		return t.elem.String() + "[]"
	case Map:
		return "Map<String, " + t.elem.String() + ">"
	case Union:
		names := make([]string, len(t.alts))
		for i, alt := range t.alts {
			names[i] = alt.String()
		}
		return strings.Join(names, " | ")
	}
	name := t.name
	if name == "" {
		name = t.kind.String()
	}
	if len(t.args) == 0 {
		return name
	}
	names := make([]string, len(t.args))
	for i, arg := range t.args {
		names[i] = arg.String()
	}
	return name + "<" + strings.Join(names, ", ") + ">"
}

// bindings maps declared type parameter names to their bound arguments.
func (t *ResolvedType) bindings() map[string]*ResolvedType {
	if len(t.params) == 0 || len(t.args) == 0 {
		return nil
	}
	m := make(map[string]*ResolvedType, len(t.params))
	for i, name := range t.params {
		if i >= len(t.args) {
			break
		}
		m[name] = t.args[i]
	}
	return m
}

// substitute replaces type parameter references according to bindings.
// It is a pure function: the input type is never modified.
func substitute(t *ResolvedType, bindings map[string]*ResolvedType) *ResolvedType {
	if t == nil || len(bindings) == 0 {
		return t
	}
	switch t.kind {
	case TypeParam:
		if bound, ok := bindings[t.name]; ok {
			return bound
		}
		return t
	case Array, Map:
		if elem := substitute(t.elem, bindings); elem != t.elem {
			c := t.clone()
			c.elem = elem
			return c
		}
		return t
	case Union:
		alts, changed := substituteAll(t.alts, bindings)
		if !changed {
			return t
		}
		c := t.clone()
		c.alts = alts
		return c
	default:
		args, argsChanged := substituteAll(t.args, bindings)
		super := substitute(t.super, bindings)
		if !argsChanged && super == t.super {
			return t
		}
		c := t.clone()
		c.args = args
		c.super = super
		return c
	}
}

func substituteAll(ts []*ResolvedType, bindings map[string]*ResolvedType) ([]*ResolvedType, bool) {
	var out []*ResolvedType
	for i, t := range ts {
		s := substitute(t, bindings)
		if s != t && out == nil {
			out = make([]*ResolvedType, i, len(ts))
			copy(out, ts[:i])
		}
		if out != nil {
			out = append(out, s)
		}
	}
	if out == nil {
		return ts, false
	}
	return out, true
}

// MemberKind selects which config part's resolver chains apply to a member.
type MemberKind uint8

const (
	FieldMember MemberKind = iota
	AccessorMember
)

// Member is a field or accessor belonging to a declaring type. Members
// are owned by their declaring type and never shared across types.
type Member struct {
	Declaring *ResolvedType
	Kind      MemberKind
	Name      string
	Type      *ResolvedType
	Tag       string // raw struct tag, if the source platform has one
	Doc       string
	// Nilable is the type-level nullability default, consulted when no
	// nullable check responds.
	Nilable bool
}

// TypeInspector enumerates the members of a resolved type. It is the
// only window the generator has into the underlying type system;
// implementations exist per target platform.
type TypeInspector interface {
	Members(t *ResolvedType) ([]Member, error)
}
