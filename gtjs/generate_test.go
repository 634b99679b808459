// SPDX-FileCopyrightText: 2025 Antoni Szymański
// SPDX-License-Identifier: MPL-2.0

package gtjs

import (
	"bytes"
	"encoding/json"
	"fmt"
	"slices"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/santhosh-tekuri/jsonschema/v6"
	"github.com/stretchr/testify/require"
)

// fakeInspector serves members from a map keyed by raw type identity,
// ignoring bound arguments the way a real inspector consults the
// generic declaration.
type fakeInspector map[string][]Member

func (f fakeInspector) Members(t *ResolvedType) ([]Member, error) {
	members, ok := f[t.Package()+"."+t.Name()]
	if !ok {
		return nil, fmt.Errorf("no members for %s", t)
	}
	return slices.Clone(members), nil
}

func mustMarshal(t *testing.T, v json.Marshaler) string {
	t.Helper()
	data, err := v.MarshalJSON()
	require.NoError(t, err)
	return string(data)
}

func TestGenerateSimpleObject(t *testing.T) {
	person := NewObject("example", "Person")
	inspector := fakeInspector{
		"example.Person": {
			{Name: "name", Type: StringType},
			{Name: "age", Type: IntegerType},
		},
	}
	cfg := NewConfig()
	cfg.Fields.WithRequiredCheck(func(m Member) bool { return m.Name == "name" })

	doc, err := NewGenerator(inspector, WithConfig(cfg)).Generate(person)
	require.NoError(t, err)
	require.JSONEq(t, `{
		"$schema": "http://json-schema.org/draft-07/schema#",
		"title": "Person",
		"type": "object",
		"properties": {
			"name": {"type": "string"},
			"age": {"type": "integer"}
		},
		"required": ["name"]
	}`, mustMarshal(t, doc))
}

func TestNullableWrappingOfReferences(t *testing.T) {
	root := NewObject("example", "Root")
	child := NewObject("example", "Child")
	inspector := fakeInspector{
		"example.Root": {
			{Name: "always", Type: child},
			{Name: "maybe", Type: child, Nilable: true},
		},
		"example.Child": {
			{Name: "value", Type: StringType},
		},
	}

	doc, err := NewGenerator(inspector).Generate(root)
	require.NoError(t, err)

	// both call sites share one definition; only the wrapping differs
	require.Equal(t, 1, doc.Definitions.Len())
	always, _ := doc.Root.Properties.Get("always")
	require.JSONEq(t, `{"$ref": "#/definitions/Child"}`, mustMarshal(t, always))
	maybe, _ := doc.Root.Properties.Get("maybe")
	require.JSONEq(t,
		`{"anyOf": [{"type": "null"}, {"$ref": "#/definitions/Child"}]}`,
		mustMarshal(t, maybe))
}

func TestNullableScalarUsesTypeList(t *testing.T) {
	root := NewObject("example", "Root")
	inspector := fakeInspector{
		"example.Root": {{Name: "note", Type: StringType, Nilable: true}},
	}

	doc, err := NewGenerator(inspector).Generate(root)
	require.NoError(t, err)
	note, _ := doc.Root.Properties.Get("note")
	require.JSONEq(t, `{"type": ["string", "null"]}`, mustMarshal(t, note))
}

func TestIgnoreShortCircuit(t *testing.T) {
	root := NewObject("example", "Root")
	hidden := NewObject("example", "Hidden")
	inspector := fakeInspector{
		"example.Root": {
			{Name: "visible", Type: StringType},
			{Name: "hidden", Type: hidden, Nilable: true},
		},
		// no members registered for Hidden: walking it would fail
	}
	cfg := NewConfig()
	cfg.Fields.
		WithIgnoreCheck(func(m Member) bool { return m.Name == "hidden" }).
		WithRequiredCheck(func(m Member) bool { return m.Name == "hidden" })

	doc, err := NewGenerator(inspector, WithConfig(cfg)).Generate(root)
	require.NoError(t, err)

	_, ok := doc.Root.Properties.Get("hidden")
	require.False(t, ok)
	require.Empty(t, doc.Root.Required)
	require.Equal(t, 0, doc.Definitions.Len())
}

func TestSelfReferentialTypeTerminates(t *testing.T) {
	node := NewObject("example", "Node")
	inspector := fakeInspector{
		"example.Node": {
			{Name: "value", Type: StringType},
			{Name: "next", Type: node, Nilable: true},
		},
	}

	doc, err := NewGenerator(inspector).Generate(node)
	require.NoError(t, err)
	next, _ := doc.Root.Properties.Get("next")
	require.JSONEq(t, `{"anyOf": [{"type": "null"}, {"$ref": "#"}]}`, mustMarshal(t, next))
}

func TestMutuallyReferentialTypesTerminate(t *testing.T) {
	a := NewObject("example", "A")
	b := NewObject("example", "B")
	inspector := fakeInspector{
		"example.A": {{Name: "b", Type: b}},
		"example.B": {{Name: "a", Type: a}},
	}

	doc, err := NewGenerator(inspector).Generate(a)
	require.NoError(t, err)
	require.Equal(t, 1, doc.Definitions.Len())
	body, ok := doc.Definitions.Get("B")
	require.True(t, ok)
	back, _ := body.Properties.Get("a")
	require.Equal(t, "#", back.Ref)
}

func TestGenericDefinition(t *testing.T) {
	box := NewObject("example", "Box").WithTypeParams("T")
	root := NewObject("example", "Root")
	inspector := fakeInspector{
		"example.Box":  {{Name: "value", Type: TypeParamRef("T")}},
		"example.Root": {{Name: "box", Type: box.WithArgs(NamedScalar("", "String", String))}},
	}

	doc, err := NewGenerator(inspector).Generate(root)
	require.NoError(t, err)
	body, ok := doc.Definitions.Get("Box(String)")
	require.True(t, ok)
	require.JSONEq(t, `{
		"type": "object",
		"title": "Box<String>",
		"properties": {"value": {"type": "string", "title": "String"}}
	}`, mustMarshal(t, body))
}

// The subtype substitution scenario: a nullable slot declared as the
// generic supertype but forced to a concrete subtype produces a
// dedicated "-nullable" definition named after the declared type,
// and the subtype's body carries the inherited generic field.
func TestSubtypeSubstitution(t *testing.T) {
	superString := NewObject("example", "TestSuperClass").
		WithTypeParams("T").
		WithArgs(NamedScalar("", "String", String))
	sub3 := NewObject("example", "TestSubClass3").WithSupertype(superString)
	root := NewObject("example", "TestClassWithSuperTypeReferences")

	inspector := fakeInspector{
		"example.TestClassWithSuperTypeReferences": {
			{Name: "supertypeNoAnnotation", Type: superString, Nilable: true},
		},
		"example.TestSuperClass": {{Name: "genericValue", Type: TypeParamRef("T")}},
		"example.TestSubClass3":  {{Name: "directValue", Type: BooleanType}},
	}
	cfg := NewConfig()
	cfg.Fields.WithTargetTypeOverrideResolver(func(m Member) (*ResolvedType, bool) {
		if m.Type != nil && m.Type.Name() == "TestSuperClass" {
			return sub3, true
		}
		return nil, false
	})

	doc, err := NewGenerator(inspector, WithConfig(cfg)).Generate(root)
	require.NoError(t, err)
	require.JSONEq(t, `{
		"$schema": "http://json-schema.org/draft-07/schema#",
		"title": "TestClassWithSuperTypeReferences",
		"type": "object",
		"properties": {
			"supertypeNoAnnotation": {
				"anyOf": [
					{"type": "null"},
					{"$ref": "#/definitions/TestSuperClass(String)-nullable"}
				]
			}
		},
		"definitions": {
			"TestSubClass3": {
				"type": "object",
				"title": "TestSubClass3",
				"properties": {
					"directValue": {"type": "boolean"},
					"genericValue": {"type": "string", "title": "String"}
				}
			},
			"TestSuperClass(String)-nullable": {
				"anyOf": [{"type": "null"}, {"$ref": "#/definitions/TestSubClass3"}],
				"title": "TestSuperClass<String>"
			}
		}
	}`, mustMarshal(t, doc))
}

func TestUnionMemberInlinesScalars(t *testing.T) {
	root := NewObject("example", "Root")
	union := UnionOf(
		NamedScalar("", "Number", Number),
		NamedScalar("", "String", String),
		NullType,
	)
	inspector := fakeInspector{
		"example.Root": {{Name: "value", Type: union}},
	}

	doc, err := NewGenerator(inspector).Generate(root)
	require.NoError(t, err)
	value, _ := doc.Root.Properties.Get("value")
	require.JSONEq(t, `{
		"anyOf": [
			{"type": "null"},
			{"type": "number", "title": "Number"},
			{"type": "string", "title": "String"}
		]
	}`, mustMarshal(t, value))
	require.Equal(t, 0, doc.Definitions.Len())
}

func TestCollisionDisambiguation(t *testing.T) {
	widgetA := NewObject("example/a", "Widget")
	widgetB := NewObject("example/b", "Widget")
	root := NewObject("example", "Root")
	inspector := fakeInspector{
		"example.Root": {
			{Name: "first", Type: widgetA},
			{Name: "second", Type: widgetB},
		},
		"example/a.Widget": {{Name: "x", Type: StringType}},
		"example/b.Widget": {{Name: "y", Type: IntegerType}},
	}

	doc, err := NewGenerator(inspector).Generate(root)
	require.NoError(t, err)

	first, _ := doc.Root.Properties.Get("first")
	require.Equal(t, "#/definitions/Widget", first.Ref)
	second, _ := doc.Root.Properties.Get("second")
	require.Equal(t, "#/definitions/Widget-2", second.Ref)

	_, ok := doc.Definitions.Get("Widget")
	require.True(t, ok)
	_, ok = doc.Definitions.Get("Widget-2")
	require.True(t, ok)
}

func TestArrayAndMapMembers(t *testing.T) {
	root := NewObject("example", "Root")
	item := NewObject("example", "Item")
	inspector := fakeInspector{
		"example.Root": {
			{Name: "items", Type: ArrayOf(item)},
			{Name: "labels", Type: MapOf(StringType)},
			{Name: "matrix", Type: ArrayOf(ArrayOf(NumberType))},
		},
		"example.Item": {{Name: "id", Type: StringType}},
	}

	doc, err := NewGenerator(inspector).Generate(root)
	require.NoError(t, err)

	items, _ := doc.Root.Properties.Get("items")
	require.JSONEq(t,
		`{"type": "array", "items": {"$ref": "#/definitions/Item"}}`,
		mustMarshal(t, items))
	labels, _ := doc.Root.Properties.Get("labels")
	require.JSONEq(t,
		`{"type": "object", "additionalProperties": {"type": "string"}}`,
		mustMarshal(t, labels))
	matrix, _ := doc.Root.Properties.Get("matrix")
	require.JSONEq(t,
		`{"type": "array", "items": {"type": "array", "items": {"type": "number"}}}`,
		mustMarshal(t, matrix))
}

func TestResolvedAttributesApplied(t *testing.T) {
	root := NewObject("example", "Root")
	inspector := fakeInspector{
		"example.Root": {
			{Name: "code", Type: StringType},
			{Name: "ratio", Type: NumberType},
			{Name: "tags", Type: ArrayOf(StringType)},
		},
	}
	cfg := NewConfig()
	cfg.Fields.
		WithDescriptionResolver(func(m Member) (string, bool) {
			if m.Name == "code" {
				return "short identifier", true
			}
			return "", false
		}).
		WithStringPatternResolver(func(m Member) (string, bool) {
			if m.Name == "code" {
				return "^[a-z]+$", true
			}
			return "", false
		}).
		WithStringMinLengthResolver(func(m Member) (int, bool) {
			if m.Name == "code" {
				return 1, true
			}
			return 0, false
		}).
		WithNumberInclusiveMinimumResolver(func(m Member) (json.Number, bool) {
			if m.Name == "ratio" {
				return "0", true
			}
			return "", false
		}).
		WithNumberExclusiveMaximumResolver(func(m Member) (json.Number, bool) {
			if m.Name == "ratio" {
				return "1", true
			}
			return "", false
		}).
		WithArrayMinItemsResolver(func(m Member) (int, bool) {
			if m.Name == "tags" {
				return 1, true
			}
			return 0, false
		}).
		WithArrayUniqueItemsResolver(func(m Member) (bool, bool) {
			if m.Name == "tags" {
				return true, true
			}
			return false, false
		})

	doc, err := NewGenerator(inspector, WithConfig(cfg)).Generate(root)
	require.NoError(t, err)

	code, _ := doc.Root.Properties.Get("code")
	require.JSONEq(t, `{
		"type": "string",
		"description": "short identifier",
		"pattern": "^[a-z]+$",
		"minLength": 1
	}`, mustMarshal(t, code))
	ratio, _ := doc.Root.Properties.Get("ratio")
	require.JSONEq(t,
		`{"type": "number", "minimum": 0, "exclusiveMaximum": 1}`,
		mustMarshal(t, ratio))
	tags, _ := doc.Root.Properties.Get("tags")
	require.JSONEq(t, `{
		"type": "array",
		"items": {"type": "string"},
		"minItems": 1,
		"uniqueItems": true
	}`, mustMarshal(t, tags))
}

func TestPropertyNameOverride(t *testing.T) {
	root := NewObject("example", "Root")
	inspector := fakeInspector{
		"example.Root": {{Name: "UserName", Type: StringType}},
	}
	cfg := NewConfig()
	cfg.Fields.
		WithPropertyNameOverrideResolver(func(m Member) (string, bool) {
			return "user_name", true
		}).
		WithRequiredCheck(func(Member) bool { return true })

	doc, err := NewGenerator(inspector, WithConfig(cfg)).Generate(root)
	require.NoError(t, err)

	_, ok := doc.Root.Properties.Get("UserName")
	require.False(t, ok)
	_, ok = doc.Root.Properties.Get("user_name")
	require.True(t, ok)
	require.Equal(t, []string{"user_name"}, doc.Root.Required)
}

func TestEnumAndDefaultApplied(t *testing.T) {
	root := NewObject("example", "Root")
	inspector := fakeInspector{
		"example.Root": {{Name: "level", Type: StringType}},
	}
	cfg := NewConfig()
	cfg.Fields.
		WithEnumResolver(func(Member) ([]any, bool) {
			return []any{"debug", "info", "error"}, true
		}).
		WithDefaultResolver(func(Member) (any, bool) { return "info", true })

	doc, err := NewGenerator(inspector, WithConfig(cfg)).Generate(root)
	require.NoError(t, err)
	level, _ := doc.Root.Properties.Get("level")
	require.JSONEq(t, `{
		"type": "string",
		"default": "info",
		"enum": ["debug", "info", "error"]
	}`, mustMarshal(t, level))
}

func TestPatternPropertiesResolved(t *testing.T) {
	root := NewObject("example", "Root")
	extension := NewObject("example", "Extension")
	inspector := fakeInspector{
		"example.Root": {{Name: "meta", Type: MapOf(StringType)}},
		"example.Extension": {
			{Name: "payload", Type: StringType},
		},
	}
	cfg := NewConfig()
	cfg.Fields.WithPatternPropertiesResolver(func(m Member) (map[string]*ResolvedType, bool) {
		if m.Name != "meta" {
			return nil, false
		}
		return map[string]*ResolvedType{
			"^x-":   extension,
			"^num-": IntegerType,
		}, true
	})

	doc, err := NewGenerator(inspector, WithConfig(cfg)).Generate(root)
	require.NoError(t, err)

	meta, _ := doc.Root.Properties.Get("meta")
	// patterns come out in sorted order
	require.Equal(t,
		`{"type":"object","patternProperties":{"^num-":{"type":"integer"},"^x-":{"$ref":"#/definitions/Extension"}},"additionalProperties":{"type":"string"}}`,
		mustMarshal(t, meta))
	_, ok := doc.Definitions.Get("Extension")
	require.True(t, ok)
}

// Overrides have the last word: they run after every resolver chain,
// in registration order, each seeing its predecessors' changes.
func TestAttributeOverridesRunLast(t *testing.T) {
	root := NewObject("example", "Root")
	inspector := fakeInspector{
		"example.Root": {{Name: "code", Type: StringType}},
	}
	cfg := NewConfig()
	cfg.Fields.
		WithDescriptionResolver(func(Member) (string, bool) { return "resolved", true }).
		WithAttributeOverride(func(n *Node, m Member) {
			n.Description = n.Description + " then overridden"
			n.Format = "uuid"
		}).
		WithAttributeOverride(func(n *Node, m Member) {
			n.Description = n.Description + " twice"
		})

	doc, err := NewGenerator(inspector, WithConfig(cfg)).Generate(root)
	require.NoError(t, err)
	code, _ := doc.Root.Properties.Get("code")
	require.JSONEq(t, `{
		"type": "string",
		"description": "resolved then overridden twice",
		"format": "uuid"
	}`, mustMarshal(t, code))
}

func TestScalarRoot(t *testing.T) {
	doc, err := NewGenerator(fakeInspector{}).Generate(NamedScalar("", "Identifier", String))
	require.NoError(t, err)
	require.JSONEq(t, `{
		"$schema": "http://json-schema.org/draft-07/schema#",
		"title": "Identifier",
		"type": "string"
	}`, mustMarshal(t, doc))
}

func TestIncompatibleOverrideFails(t *testing.T) {
	root := NewObject("example", "Root")
	declared := NewObject("example", "Widget")
	unrelated := NewObject("example", "Gadget").
		WithSupertype(NewObject("example", "Other"))
	inspector := fakeInspector{
		"example.Root": {{Name: "w", Type: declared}},
	}
	cfg := NewConfig()
	cfg.Fields.WithTargetTypeOverrideResolver(func(Member) (*ResolvedType, bool) {
		return unrelated, true
	})

	_, err := NewGenerator(inspector, WithConfig(cfg)).Generate(root)
	var confErr *ConfigurationError
	require.ErrorAs(t, err, &confErr)
	require.Equal(t, "Root.w", confErr.Member)
}

func TestUnknownTypeFails(t *testing.T) {
	root := NewObject("example", "Root")
	missing := NewObject("example", "Missing")
	inspector := fakeInspector{
		"example.Root": {{Name: "m", Type: missing}},
	}

	_, err := NewGenerator(inspector).Generate(root)
	var typeErr *UnsupportedTypeError
	require.ErrorAs(t, err, &typeErr)
	require.Equal(t, "Missing", typeErr.Type.Name())
}

func TestPanickingResolverSurfacesConfigurationError(t *testing.T) {
	root := NewObject("example", "Root")
	inspector := fakeInspector{
		"example.Root": {{Name: "x", Type: StringType}},
	}
	cfg := NewConfig()
	cfg.Fields.WithTitleResolver(func(Member) (string, bool) {
		panic("broken resolver")
	})

	doc, err := NewGenerator(inspector, WithConfig(cfg)).Generate(root)
	require.Nil(t, doc)
	var confErr *ConfigurationError
	require.ErrorAs(t, err, &confErr)
	require.Contains(t, confErr.Error(), "broken resolver")
}

func complexFixture() (TypeInspector, *Config, *ResolvedType) {
	root := NewObject("example", "Order")
	customer := NewObject("example", "Customer")
	address := NewObject("example", "Address")
	line := NewObject("example", "Line")
	inspector := fakeInspector{
		"example.Order": {
			{Name: "id", Type: StringType},
			{Name: "customer", Type: customer},
			{Name: "billing", Type: address, Nilable: true},
			{Name: "lines", Type: ArrayOf(line)},
			{Name: "meta", Type: MapOf(StringType)},
		},
		"example.Customer": {
			{Name: "name", Type: StringType},
			{Name: "address", Type: address},
		},
		"example.Address": {
			{Name: "street", Type: StringType},
			{Name: "parent", Type: NewObject("example", "Order"), Nilable: true},
		},
		"example.Line": {
			{Name: "sku", Type: StringType},
			{Name: "quantity", Type: IntegerType},
		},
	}
	cfg := NewConfig()
	cfg.Fields.WithRequiredCheck(func(m Member) bool { return !m.Nilable })
	return inspector, cfg, root
}

func TestDeterminism(t *testing.T) {
	inspector, cfg, root := complexFixture()
	gen := NewGenerator(inspector, WithConfig(cfg))

	first, err := gen.Generate(root)
	require.NoError(t, err)
	second, err := gen.Generate(root)
	require.NoError(t, err)

	a, err := first.Render()
	require.NoError(t, err)
	b, err := second.Render()
	require.NoError(t, err)
	if diff := cmp.Diff(string(a), string(b)); diff != "" {
		t.Errorf("renders differ (-first +second):\n%s", diff)
	}
}

func TestReferenceClosure(t *testing.T) {
	inspector, cfg, root := complexFixture()
	doc, err := NewGenerator(inspector, WithConfig(cfg)).Generate(root)
	require.NoError(t, err)

	defined := map[string]bool{}
	for name := range doc.Definitions.Keys() {
		defined[name] = true
	}

	// every $ref target exists
	var check func(n *Node)
	var refs []string
	check = func(n *Node) {
		if n == nil {
			return
		}
		if n.Ref != "" {
			refs = append(refs, n.Ref)
		}
		for _, alt := range n.AnyOf {
			check(alt)
		}
		check(n.Items)
		check(n.AdditionalProperties)
		if n.Properties != nil {
			for _, prop := range n.Properties.AllFromFront() {
				check(prop)
			}
		}
		if n.PatternProperties != nil {
			for _, prop := range n.PatternProperties.AllFromFront() {
				check(prop)
			}
		}
	}
	check(doc.Root)
	for _, body := range doc.Definitions.AllFromFront() {
		check(body)
	}
	targets := map[string]bool{}
	for _, ref := range refs {
		if ref == "#" {
			continue
		}
		name, found := strings.CutPrefix(ref, "#/definitions/")
		require.True(t, found, "unexpected ref %q", ref)
		require.True(t, defined[name], "dangling ref %q", ref)
		targets[name] = true
	}

	// every definition is reachable from the root
	for name := range defined {
		require.True(t, targets[name], "orphan definition %q", name)
	}
}

func TestGeneratedDocumentCompiles(t *testing.T) {
	inspector, cfg, root := complexFixture()
	doc, err := NewGenerator(inspector, WithConfig(cfg)).Generate(root)
	require.NoError(t, err)
	data, err := doc.Render()
	require.NoError(t, err)

	inst, err := jsonschema.UnmarshalJSON(bytes.NewReader(data))
	require.NoError(t, err)
	compiler := jsonschema.NewCompiler()
	require.NoError(t, compiler.AddResource("memory:", inst))
	_, err = compiler.Compile("memory:")
	require.NoError(t, err)
}

func TestSupertypeMembersMerged(t *testing.T) {
	base := NewObject("example", "Base").WithTypeParams("T").
		WithArgs(NamedScalar("", "Boolean", Boolean))
	derived := NewObject("example", "Derived").WithSupertype(base)
	inspector := fakeInspector{
		"example.Base": {
			{Name: "id", Type: StringType},
			{Name: "payload", Type: TypeParamRef("T")},
		},
		"example.Derived": {
			{Name: "id", Type: IntegerType}, // shadows Base.id
			{Name: "extra", Type: StringType},
		},
	}

	doc, err := NewGenerator(inspector).Generate(derived)
	require.NoError(t, err)
	require.JSONEq(t, `{
		"$schema": "http://json-schema.org/draft-07/schema#",
		"title": "Derived",
		"type": "object",
		"properties": {
			"id": {"type": "integer"},
			"extra": {"type": "string"},
			"payload": {"type": "boolean", "title": "Boolean"}
		}
	}`, mustMarshal(t, doc))
}
