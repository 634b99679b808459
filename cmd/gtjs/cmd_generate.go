// SPDX-FileCopyrightText: 2025 Antoni Szymański
// SPDX-License-Identifier: MPL-2.0

package main

import (
	"encoding/json"
	"io"
	"os"
	"path/filepath"

	jsonc "github.com/DisposaBoy/JsonConfigReader"
	"github.com/antoniszymanski/gtjs-go/cmd/gtjs/config"
	"github.com/antoniszymanski/gtjs-go/goinspect"
	"github.com/antoniszymanski/gtjs-go/gtjs"
	"golang.org/x/sync/errgroup"
)

type cmdGenerate struct {
	Path string `arg:"" type:"path" default:"gtjs.jsonc"`
}

func (c *cmdGenerate) Run() error {
	var f *os.File
	var err error
	if c.Path != "-" {
		f, err = os.Open(c.Path)
		if err != nil {
			return err
		}
		defer f.Close() //nolint:errcheck
	} else {
		f = os.Stdin
	}

	data, err := io.ReadAll(jsonc.New(f))
	if err != nil {
		return err
	}
	var cfg config.Config
	if err = json.Unmarshal(data, &cfg); err != nil {
		return err
	}

	pkg, err := goinspect.Load(cfg.Package)
	if err != nil {
		return err
	}
	var opts []goinspect.Option
	if cfg.IncludeUnexported {
		opts = append(opts, goinspect.IncludeUnexported())
	}
	inspector := goinspect.NewInspector(pkg, opts...)
	gen := gtjs.NewGenerator(inspector, gtjs.WithConfig(goinspect.DefaultConfig()))

	// The inspector is not safe for concurrent use; generate serially
	// and parallelize only the writes.
	documents := make(map[string][]byte, len(cfg.Types))
	for _, name := range cfg.Types {
		root, err := inspector.Resolve(name)
		if err != nil {
			return err
		}
		doc, err := gen.Generate(root)
		if err != nil {
			return err
		}
		documents[name], err = doc.Render()
		if err != nil {
			return err
		}
	}

	if err = os.MkdirAll(cfg.OutputPath, 0750); err != nil {
		return err
	}
	var g errgroup.Group
	for name, data := range documents {
		g.Go(func() error {
			return os.WriteFile(
				filepath.Join(cfg.OutputPath, name+".schema.json"), data, 0600,
			)
		})
	}
	return g.Wait()
}
