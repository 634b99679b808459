// SPDX-FileCopyrightText: 2025 Antoni Szymański
// SPDX-License-Identifier: MPL-2.0

package gtjs

import (
	"bytes"
	"encoding/json"

	"github.com/elliotchance/orderedmap/v3"
)

// SchemaVersion is the dialect every generated document declares.
const SchemaVersion = "http://json-schema.org/draft-07/schema#"

// Document is a complete generated schema: the root node's fields
// spliced next to "$schema" and "title", plus the definitions map
// holding every referenced type body.
type Document struct {
	Schema      string
	Title       string
	Root        *Node
	Definitions *orderedmap.OrderedMap[string, *Node]
}

func (d *Document) MarshalJSON() ([]byte, error) {
	w := &objectWriter{}
	if d.Schema != "" {
		w.put("$schema", d.Schema)
	}
	if d.Title != "" {
		w.put("title", d.Title)
	}
	if d.Root != nil {
		d.Root.appendTo(w)
	}
	if d.Definitions != nil && d.Definitions.Len() > 0 {
		w.putOrdered("definitions", d.Definitions)
	}
	return w.finish()
}

// Render marshals the document indented, without HTML escaping.
func (d *Document) Render() ([]byte, error) {
	data, err := d.MarshalJSON()
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err = json.Indent(&buf, data, "", "\t"); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func marshalNoEscape(in any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(in); err != nil {
		return nil, err
	}
	out := buf.Bytes()[:buf.Len()-1] // remove a trailing newline
	return out, nil
}
