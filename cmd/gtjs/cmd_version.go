// SPDX-FileCopyrightText: 2025 Antoni Szymański
// SPDX-License-Identifier: MPL-2.0

package main

import (
	"errors"
	"runtime/debug"

	"github.com/alecthomas/kong"
)

type cmdVersion struct{}

func (cmdVersion) Run(ctx *kong.Context) error {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return errors.New("build info not found")
	}

	commit, builtAt := "unknown", "unknown"
	for _, setting := range info.Settings {
		switch setting.Key {
		case "vcs.revision":
			if len(setting.Value) >= 8 {
				commit = setting.Value[:8]
			}
		case "vcs.time":
			builtAt = setting.Value
		}
	}

	ctx.Printf(
		`gtjs %s (%s, commit %s, %s)`,
		info.Main.Version, info.GoVersion, commit, builtAt,
	)
	return nil
}
