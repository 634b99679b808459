// SPDX-FileCopyrightText: 2025 Antoni Szymański
// SPDX-License-Identifier: MPL-2.0

package goinspect

import (
	"github.com/antoniszymanski/gtjs-go/gtjs"
	"github.com/fatih/structtag"
)

// DefaultConfig registers the resolver chains that make generated
// documents follow encoding/json conventions: property names from json
// tags, `json:"-"` fields ignored, everything required unless nilable
// or marked omitempty/omitzero.
func DefaultConfig() *gtjs.Config {
	cfg := gtjs.NewConfig()
	cfg.Fields.
		WithIgnoreCheck(func(m gtjs.Member) bool {
			tag, ok := jsonTag(m.Tag)
			return ok && tag.Name == "-"
		}).
		WithPropertyNameOverrideResolver(func(m gtjs.Member) (string, bool) {
			tag, ok := jsonTag(m.Tag)
			if !ok || tag.Name == "" || tag.Name == "-" {
				return "", false
			}
			return tag.Name, true
		}).
		WithRequiredCheck(func(m gtjs.Member) bool {
			if m.Nilable {
				return false
			}
			tag, ok := jsonTag(m.Tag)
			if !ok {
				return true
			}
			return !tag.HasOption("omitempty") && !tag.HasOption("omitzero")
		})
	return cfg
}

func jsonTag(s string) (*structtag.Tag, bool) {
	tags, err := structtag.Parse(s)
	if err != nil {
		return nil, false
	}
	tag, err := tags.Get("json")
	if err != nil {
		return nil, false
	}
	return tag, true
}
