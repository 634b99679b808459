// SPDX-FileCopyrightText: 2025 Antoni Szymański
// SPDX-License-Identifier: MPL-2.0

package config

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"strings"
	"sync"

	"github.com/antoniszymanski/gtjs-go/cmd/gtjs/internal"
	"github.com/santhosh-tekuri/jsonschema/v6"
)

type Config struct {
	// Schema is the optional "$schema" reference for editor support.
	Schema string `json:"$schema,omitzero"`
	// Package is the Go package pattern to load, as understood by
	// golang.org/x/tools/go/packages.
	Package string `json:"package" jsonschema:"required,minLength=1"`
	// Types lists the root type names to generate one document for each.
	Types internal.Array[string] `json:"types" jsonschema:"required,minItems=1"`
	// OutputPath is the directory the documents are written into.
	OutputPath string `json:"output_path" jsonschema:"required,minLength=1"`
	// IncludeUnexported also inspects unexported fields and types.
	IncludeUnexported bool `json:"include_unexported"`
}

func (c *Config) UnmarshalJSON(data []byte) error {
	sch, err := compiledSchema()
	if err != nil {
		return err
	}
	inst, err := jsonschema.UnmarshalJSON(bytes.NewReader(data))
	if err != nil {
		return err
	}
	if err = sch.Validate(inst); err != nil {
		return err
	}
	type RawConfig Config
	return json.Unmarshal(data, (*RawConfig)(c))
}

var compiledSchema = sync.OnceValues(func() (*jsonschema.Schema, error) {
	doc, err := jsonschema.UnmarshalJSON(strings.NewReader(schema))
	if err != nil {
		return nil, err
	}
	compiler := jsonschema.NewCompiler()
	if err = compiler.AddResource("memory:", doc); err != nil {
		return nil, err
	}
	return compiler.Compile("memory:")
})

func Schema() string {
	return schema
}

//go:generate go run ../internal/schemagen

//go:embed schema.json
var schema string
