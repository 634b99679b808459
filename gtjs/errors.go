// SPDX-FileCopyrightText: 2025 Antoni Szymański
// SPDX-License-Identifier: MPL-2.0

package gtjs

import "fmt"

// ConfigurationError reports a caller bug in the registered resolver
// chains, e.g. a target-type override incompatible with the member's
// declared type. The run aborts without partial output.
type ConfigurationError struct {
	Member   string
	Declared *ResolvedType
	Override *ResolvedType
	Reason   string
}

func (e *ConfigurationError) Error() string {
	if e.Override != nil {
		return fmt.Sprintf(
			"gtjs: member %s: target type override %s is incompatible with declared type %s",
			e.Member, e.Override, e.Declared,
		)
	}
	return fmt.Sprintf("gtjs: member %s: %s", e.Member, e.Reason)
}

// UnsupportedTypeError reports a type reachable from the root that has
// neither a scalar classification nor inspectable members.
type UnsupportedTypeError struct {
	Type *ResolvedType
	Err  error
}

func (e *UnsupportedTypeError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("gtjs: unsupported type %s: %v", e.Type, e.Err)
	}
	return fmt.Sprintf("gtjs: unsupported type %s", e.Type)
}

func (e *UnsupportedTypeError) Unwrap() error {
	return e.Err
}
