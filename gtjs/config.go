// SPDX-FileCopyrightText: 2025 Antoni Szymański
// SPDX-License-Identifier: MPL-2.0

package gtjs

import "encoding/json"

// MemberConfigPart collects the resolver chains for one member-kind
// category. Chains are consulted in registration order; the With*
// methods append and return the part for chaining.
type MemberConfigPart struct {
	ignoreChecks   []Check
	requiredChecks []Check
	nullableChecks []ConfigFunction[bool]

	targetTypeOverrides   []ConfigFunction[*ResolvedType]
	propertyNameOverrides []ConfigFunction[string]

	titleResolvers       []ConfigFunction[string]
	descriptionResolvers []ConfigFunction[string]
	defaultResolvers     []ConfigFunction[any]
	enumResolvers        []ConfigFunction[[]any]
	formatResolvers      []ConfigFunction[string]
	patternResolvers     []ConfigFunction[string]

	minLengthResolvers []ConfigFunction[int]
	maxLengthResolvers []ConfigFunction[int]

	minimumResolvers          []ConfigFunction[json.Number]
	exclusiveMinimumResolvers []ConfigFunction[json.Number]
	maximumResolvers          []ConfigFunction[json.Number]
	exclusiveMaximumResolvers []ConfigFunction[json.Number]
	multipleOfResolvers       []ConfigFunction[json.Number]

	minItemsResolvers    []ConfigFunction[int]
	maxItemsResolvers    []ConfigFunction[int]
	uniqueItemsResolvers []ConfigFunction[bool]

	additionalPropertiesResolvers []ConfigFunction[*ResolvedType]
	patternPropertiesResolvers    []ConfigFunction[map[string]*ResolvedType]

	attributeOverrides []AttributeOverride
}

func (p *MemberConfigPart) WithIgnoreCheck(check Check) *MemberConfigPart {
	p.ignoreChecks = append(p.ignoreChecks, check)
	return p
}

func (p *MemberConfigPart) WithRequiredCheck(check Check) *MemberConfigPart {
	p.requiredChecks = append(p.requiredChecks, check)
	return p
}

func (p *MemberConfigPart) WithNullableCheck(check ConfigFunction[bool]) *MemberConfigPart {
	p.nullableChecks = append(p.nullableChecks, check)
	return p
}

func (p *MemberConfigPart) WithTargetTypeOverrideResolver(resolve ConfigFunction[*ResolvedType]) *MemberConfigPart {
	p.targetTypeOverrides = append(p.targetTypeOverrides, resolve)
	return p
}

func (p *MemberConfigPart) WithPropertyNameOverrideResolver(resolve ConfigFunction[string]) *MemberConfigPart {
	p.propertyNameOverrides = append(p.propertyNameOverrides, resolve)
	return p
}

func (p *MemberConfigPart) WithTitleResolver(resolve ConfigFunction[string]) *MemberConfigPart {
	p.titleResolvers = append(p.titleResolvers, resolve)
	return p
}

func (p *MemberConfigPart) WithDescriptionResolver(resolve ConfigFunction[string]) *MemberConfigPart {
	p.descriptionResolvers = append(p.descriptionResolvers, resolve)
	return p
}

func (p *MemberConfigPart) WithDefaultResolver(resolve ConfigFunction[any]) *MemberConfigPart {
	p.defaultResolvers = append(p.defaultResolvers, resolve)
	return p
}

func (p *MemberConfigPart) WithEnumResolver(resolve ConfigFunction[[]any]) *MemberConfigPart {
	p.enumResolvers = append(p.enumResolvers, resolve)
	return p
}

func (p *MemberConfigPart) WithStringFormatResolver(resolve ConfigFunction[string]) *MemberConfigPart {
	p.formatResolvers = append(p.formatResolvers, resolve)
	return p
}

func (p *MemberConfigPart) WithStringPatternResolver(resolve ConfigFunction[string]) *MemberConfigPart {
	p.patternResolvers = append(p.patternResolvers, resolve)
	return p
}

func (p *MemberConfigPart) WithStringMinLengthResolver(resolve ConfigFunction[int]) *MemberConfigPart {
	p.minLengthResolvers = append(p.minLengthResolvers, resolve)
	return p
}

func (p *MemberConfigPart) WithStringMaxLengthResolver(resolve ConfigFunction[int]) *MemberConfigPart {
	p.maxLengthResolvers = append(p.maxLengthResolvers, resolve)
	return p
}

func (p *MemberConfigPart) WithNumberInclusiveMinimumResolver(resolve ConfigFunction[json.Number]) *MemberConfigPart {
	p.minimumResolvers = append(p.minimumResolvers, resolve)
	return p
}

func (p *MemberConfigPart) WithNumberExclusiveMinimumResolver(resolve ConfigFunction[json.Number]) *MemberConfigPart {
	p.exclusiveMinimumResolvers = append(p.exclusiveMinimumResolvers, resolve)
	return p
}

func (p *MemberConfigPart) WithNumberInclusiveMaximumResolver(resolve ConfigFunction[json.Number]) *MemberConfigPart {
	p.maximumResolvers = append(p.maximumResolvers, resolve)
	return p
}

func (p *MemberConfigPart) WithNumberExclusiveMaximumResolver(resolve ConfigFunction[json.Number]) *MemberConfigPart {
	p.exclusiveMaximumResolvers = append(p.exclusiveMaximumResolvers, resolve)
	return p
}

func (p *MemberConfigPart) WithNumberMultipleOfResolver(resolve ConfigFunction[json.Number]) *MemberConfigPart {
	p.multipleOfResolvers = append(p.multipleOfResolvers, resolve)
	return p
}

func (p *MemberConfigPart) WithArrayMinItemsResolver(resolve ConfigFunction[int]) *MemberConfigPart {
	p.minItemsResolvers = append(p.minItemsResolvers, resolve)
	return p
}

func (p *MemberConfigPart) WithArrayMaxItemsResolver(resolve ConfigFunction[int]) *MemberConfigPart {
	p.maxItemsResolvers = append(p.maxItemsResolvers, resolve)
	return p
}

func (p *MemberConfigPart) WithArrayUniqueItemsResolver(resolve ConfigFunction[bool]) *MemberConfigPart {
	p.uniqueItemsResolvers = append(p.uniqueItemsResolvers, resolve)
	return p
}

func (p *MemberConfigPart) WithAdditionalPropertiesResolver(resolve ConfigFunction[*ResolvedType]) *MemberConfigPart {
	p.additionalPropertiesResolvers = append(p.additionalPropertiesResolvers, resolve)
	return p
}

func (p *MemberConfigPart) WithPatternPropertiesResolver(resolve ConfigFunction[map[string]*ResolvedType]) *MemberConfigPart {
	p.patternPropertiesResolvers = append(p.patternPropertiesResolvers, resolve)
	return p
}

// WithAttributeOverride registers a hook run after all resolver chains,
// free to mutate the assembled node directly. Overrides run in
// registration order, each seeing its predecessors' changes.
func (p *MemberConfigPart) WithAttributeOverride(override AttributeOverride) *MemberConfigPart {
	p.attributeOverrides = append(p.attributeOverrides, override)
	return p
}

// ShouldIgnore reports whether the member is excluded from its
// declaring type's schema. Defaults to false without checks.
func (p *MemberConfigPart) ShouldIgnore(m Member) bool {
	return anyTrue(p.ignoreChecks, m)
}

// IsRequired reports whether the member appears in its parent's
// "required" list. Defaults to false without checks.
func (p *MemberConfigPart) IsRequired(m Member) bool {
	return anyTrue(p.requiredChecks, m)
}

// IsNullable resolves the member's nullability. The verdict is
// undefined when no check responds; the caller then falls back on the
// member's type-level default.
func (p *MemberConfigPart) IsNullable(m Member) (nullable, defined bool) {
	return nullableVerdict(p.nullableChecks, m)
}

// ResolveTargetTypeOverride determines an alternative target type for
// the member, typically substituting a subtype for its declared
// supertype.
func (p *MemberConfigPart) ResolveTargetTypeOverride(m Member) (*ResolvedType, bool) {
	return firstDefined(p.targetTypeOverrides, m)
}

// ResolvePropertyNameOverride determines an alternative name in the
// parent schema's "properties"; callers fall back on the member's
// natural name.
func (p *MemberConfigPart) ResolvePropertyNameOverride(m Member) (string, bool) {
	return firstDefined(p.propertyNameOverrides, m)
}

func (p *MemberConfigPart) ResolveTitle(m Member) (string, bool) {
	return firstDefined(p.titleResolvers, m)
}

func (p *MemberConfigPart) ResolveDescription(m Member) (string, bool) {
	return firstDefined(p.descriptionResolvers, m)
}

func (p *MemberConfigPart) ResolveDefault(m Member) (any, bool) {
	return firstDefined(p.defaultResolvers, m)
}

func (p *MemberConfigPart) ResolveEnum(m Member) ([]any, bool) {
	return firstDefined(p.enumResolvers, m)
}

func (p *MemberConfigPart) ResolveStringFormat(m Member) (string, bool) {
	return firstDefined(p.formatResolvers, m)
}

func (p *MemberConfigPart) ResolveStringPattern(m Member) (string, bool) {
	return firstDefined(p.patternResolvers, m)
}

func (p *MemberConfigPart) ResolveStringMinLength(m Member) (int, bool) {
	return firstDefined(p.minLengthResolvers, m)
}

func (p *MemberConfigPart) ResolveStringMaxLength(m Member) (int, bool) {
	return firstDefined(p.maxLengthResolvers, m)
}

func (p *MemberConfigPart) ResolveNumberInclusiveMinimum(m Member) (json.Number, bool) {
	return firstDefined(p.minimumResolvers, m)
}

func (p *MemberConfigPart) ResolveNumberExclusiveMinimum(m Member) (json.Number, bool) {
	return firstDefined(p.exclusiveMinimumResolvers, m)
}

func (p *MemberConfigPart) ResolveNumberInclusiveMaximum(m Member) (json.Number, bool) {
	return firstDefined(p.maximumResolvers, m)
}

func (p *MemberConfigPart) ResolveNumberExclusiveMaximum(m Member) (json.Number, bool) {
	return firstDefined(p.exclusiveMaximumResolvers, m)
}

func (p *MemberConfigPart) ResolveNumberMultipleOf(m Member) (json.Number, bool) {
	return firstDefined(p.multipleOfResolvers, m)
}

func (p *MemberConfigPart) ResolveArrayMinItems(m Member) (int, bool) {
	return firstDefined(p.minItemsResolvers, m)
}

func (p *MemberConfigPart) ResolveArrayMaxItems(m Member) (int, bool) {
	return firstDefined(p.maxItemsResolvers, m)
}

func (p *MemberConfigPart) ResolveArrayUniqueItems(m Member) (bool, bool) {
	return firstDefined(p.uniqueItemsResolvers, m)
}

func (p *MemberConfigPart) ResolveAdditionalProperties(m Member) (*ResolvedType, bool) {
	return firstDefined(p.additionalPropertiesResolvers, m)
}

// ResolvePatternProperties determines value types keyed by the name
// pattern their properties must match.
func (p *MemberConfigPart) ResolvePatternProperties(m Member) (map[string]*ResolvedType, bool) {
	return firstDefined(p.patternPropertiesResolvers, m)
}

// ApplyAttributeOverrides runs the registered override hooks on the
// assembled node.
func (p *MemberConfigPart) ApplyAttributeOverrides(n *Node, m Member) {
	for _, override := range p.attributeOverrides {
		override(n, m)
	}
}

// Config bundles one MemberConfigPart per member-kind category.
type Config struct {
	Fields    *MemberConfigPart
	Accessors *MemberConfigPart
}

func NewConfig() *Config {
	return &Config{
		Fields:    &MemberConfigPart{},
		Accessors: &MemberConfigPart{},
	}
}

func (c *Config) part(m Member) *MemberConfigPart {
	if m.Kind == AccessorMember {
		return c.Accessors
	}
	return c.Fields
}
