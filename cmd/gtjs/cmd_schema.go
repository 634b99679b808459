// SPDX-FileCopyrightText: 2025 Antoni Szymański
// SPDX-License-Identifier: MPL-2.0

package main

import (
	"io"
	"os"
	"path/filepath"

	"github.com/antoniszymanski/gtjs-go/cmd/gtjs/config"
)

type cmdSchema struct {
	Path string `arg:"" type:"path" default:"gtjs.schema.json"`
}

func (c *cmdSchema) Run() error {
	var f *os.File
	var err error
	if c.Path != "-" {
		if err = os.MkdirAll(filepath.Dir(c.Path), 0750); err != nil {
			return err
		}
		f, err = os.Create(c.Path)
		if err != nil {
			return err
		}
		defer f.Close() //nolint:errcheck
	} else {
		f = os.Stdout
	}

	_, err = io.WriteString(f, config.Schema())
	return err
}
