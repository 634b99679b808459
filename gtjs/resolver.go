// SPDX-FileCopyrightText: 2025 Antoni Szymański
// SPDX-License-Identifier: MPL-2.0

package gtjs

// Check decides a yes/no question about a member.
type Check func(Member) bool

// ConfigFunction resolves an attribute value for a member. The second
// return value reports whether the resolver has an answer at all;
// resolvers without one let the rest of the chain speak.
type ConfigFunction[V any] func(Member) (V, bool)

// AttributeOverride mutates a member's assembled node after every
// resolver chain has been applied, as the last word on its attributes.
type AttributeOverride func(*Node, Member)

// firstDefined consults the chain in registration order and takes the
// first defined value.
func firstDefined[V any](chain []ConfigFunction[V], m Member) (V, bool) {
	for _, resolve := range chain {
		if v, ok := resolve(m); ok {
			return v, true
		}
	}
	var zero V
	return zero, false
}

// anyTrue reports whether any check in the chain answers true.
func anyTrue(checks []Check, m Member) bool {
	for _, check := range checks {
		if check(m) {
			return true
		}
	}
	return false
}

// nullableVerdict collects every defined answer; the result is defined
// iff at least one resolver responded, and true iff any response was
// true. A resolver asserting nullable therefore overrides another
// asserting non-nullable, regardless of registration order.
func nullableVerdict(chain []ConfigFunction[bool], m Member) (nullable, defined bool) {
	for _, resolve := range chain {
		v, ok := resolve(m)
		if !ok {
			continue
		}
		defined = true
		if v {
			nullable = true
		}
	}
	return nullable, defined
}
