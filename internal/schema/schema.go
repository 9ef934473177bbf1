// Package schema loads import schemas from YAML files.
//
// A schema file describes one import type:
//
//	key: employment
//	label: Employment Record
//	mode: attach
//	contact:
//	  idKey: externalId
//	  nameKey: contactName
//	fields:
//	  - key: externalId
//	    label: External ID
//	    rules: [required]
//	  - key: contactName
//	    label: Contact Name
//	    rules: [required]
//	  - key: startDate
//	    label: Start Date
//	    type: date
//	    rules: [required, pastDate]
package schema

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/input-output-hk/atala-prism-sub004/internal/core"
	"gopkg.in/yaml.v3"
)

// Field is one column in a schema file.
type Field struct {
	Key   string          `yaml:"key"`
	Label string          `yaml:"label,omitempty"`
	Type  core.ValueType  `yaml:"type,omitempty"`
	Rules []core.RuleName `yaml:"rules,omitempty"`
}

// File is the document stored in a schema file.
type File struct {
	Key     string             `yaml:"key"`
	Label   string             `yaml:"label,omitempty"`
	Mode    core.ImportMode    `yaml:"mode"`
	Contact core.ContactFields `yaml:"contact"`
	Fields  []Field            `yaml:"fields"`
}

// Definition builds the registry definition described by the file.
func (f File) Definition() (core.SchemaDefinition, error) {
	if f.Key == "" {
		return core.SchemaDefinition{}, fmt.Errorf("key is required")
	}
	if f.Mode == "" {
		f.Mode = core.ModeAttach
	}

	specs := make([]core.FieldSpec, len(f.Fields))
	for i, field := range f.Fields {
		specs[i] = core.FieldSpec{
			Key:   field.Key,
			Label: field.Label,
			Type:  field.Type,
			Rules: field.Rules,
		}
	}

	s, err := core.NewSchema(specs...)
	if err != nil {
		return core.SchemaDefinition{}, fmt.Errorf("schema %s: %w", f.Key, err)
	}

	return core.SchemaDefinition{
		Key:     f.Key,
		Label:   f.Label,
		Mode:    f.Mode,
		Contact: f.Contact,
		Schema:  s,
	}, nil
}

// Parse decodes a schema document. Unknown keys are rejected.
func Parse(data []byte) (core.SchemaDefinition, error) {
	var f File
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil {
		return core.SchemaDefinition{}, fmt.Errorf("parse schema YAML: %w", err)
	}
	return f.Definition()
}

// LoadFile reads one schema file.
func LoadFile(path string) (core.SchemaDefinition, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return core.SchemaDefinition{}, fmt.Errorf("read schema file: %w", err)
	}

	def, err := Parse(data)
	if err != nil {
		return core.SchemaDefinition{}, fmt.Errorf("%s: %w", path, err)
	}
	return def, nil
}

// LoadDir reads every .yaml and .yml file in dir, sorted by name.
func LoadDir(dir string) ([]core.SchemaDefinition, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read schema dir: %w", err)
	}

	var names []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		switch strings.ToLower(filepath.Ext(e.Name())) {
		case ".yaml", ".yml":
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)

	defs := make([]core.SchemaDefinition, 0, len(names))
	for _, name := range names {
		def, err := LoadFile(filepath.Join(dir, name))
		if err != nil {
			return nil, err
		}
		defs = append(defs, def)
	}
	return defs, nil
}

// RegisterDir loads dir and registers every schema in it. It returns the
// registered keys.
func RegisterDir(dir string) ([]string, error) {
	defs, err := LoadDir(dir)
	if err != nil {
		return nil, err
	}

	keys := make([]string, 0, len(defs))
	for _, def := range defs {
		if err := core.TryRegister(def); err != nil {
			return keys, fmt.Errorf("register %s: %w", def.Key, err)
		}
		keys = append(keys, def.Key)
	}
	return keys, nil
}

// Marshal renders a definition as a schema document.
func Marshal(def core.SchemaDefinition) ([]byte, error) {
	f := File{
		Key:     def.Key,
		Label:   def.Label,
		Mode:    def.Mode,
		Contact: def.Contact,
	}
	for _, spec := range def.Schema.Fields() {
		f.Fields = append(f.Fields, Field{
			Key:   spec.Key,
			Label: spec.Label,
			Type:  spec.Type,
			Rules: spec.Rules,
		})
	}
	return yaml.Marshal(f)
}
