package core

import (
	"fmt"
	"sort"
	"sync"
)

// ContactFields names the schema fields holding a contact's external
// identifier and display name.
type ContactFields struct {
	IDKey   string `json:"idKey" yaml:"idKey"`
	NameKey string `json:"nameKey" yaml:"nameKey"`
}

// ImportMode says how an import relates to the contact directory.
type ImportMode string

const (
	// ModeCreate imports register new contacts.
	ModeCreate ImportMode = "create"
	// ModeAttach imports attach rows to contacts registered earlier and are
	// cross-referenced against the directory.
	ModeAttach ImportMode = "attach"
)

// SchemaDefinition is a registered entity type.
type SchemaDefinition struct {
	Key     string // Unique identifier: "government-id"
	Label   string // Display name: "Government ID"
	Schema  Schema
	Mode    ImportMode
	Contact ContactFields
}

// CrossReferenced reports whether imports of this type are checked against
// the contact directory.
func (d SchemaDefinition) CrossReferenced() bool {
	return d.Mode == ModeAttach
}

var (
	registry   = make(map[string]SchemaDefinition)
	registryMu sync.RWMutex
)

// Register adds a schema definition to the registry.
// Panics if the key is already registered or the contact fields are not in
// the schema.
func Register(def SchemaDefinition) {
	if err := checkDefinition(def); err != nil {
		panic(err.Error())
	}

	registryMu.Lock()
	defer registryMu.Unlock()

	if _, exists := registry[def.Key]; exists {
		panic(fmt.Sprintf("schema already registered: %s", def.Key))
	}
	if def.Label == "" {
		def.Label = def.Key
	}

	registry[def.Key] = def
}

// TryRegister is Register for definitions loaded at runtime.
func TryRegister(def SchemaDefinition) error {
	if err := checkDefinition(def); err != nil {
		return err
	}

	registryMu.Lock()
	defer registryMu.Unlock()

	if _, exists := registry[def.Key]; exists {
		return fmt.Errorf("schema already registered: %s", def.Key)
	}
	if def.Label == "" {
		def.Label = def.Key
	}

	registry[def.Key] = def
	return nil
}

func checkDefinition(def SchemaDefinition) error {
	if def.Key == "" {
		return fmt.Errorf("schema definition has no key")
	}
	if def.Schema.Len() == 0 {
		return fmt.Errorf("schema %s: %w", def.Key, ErrEmptySchema)
	}
	switch def.Mode {
	case ModeCreate, ModeAttach:
	default:
		return fmt.Errorf("schema %s: unknown import mode %q", def.Key, def.Mode)
	}
	for _, key := range []string{def.Contact.IDKey, def.Contact.NameKey} {
		if def.Schema.IndexOf(key) < 0 {
			return fmt.Errorf("schema %s field %q: %w", def.Key, key, ErrUnknownCrossRef)
		}
	}
	return nil
}

// Get returns a schema definition by key.
// Returns false if not found.
func Get(key string) (SchemaDefinition, bool) {
	registryMu.RLock()
	defer registryMu.RUnlock()

	def, ok := registry[key]
	return def, ok
}

// All returns all registered definitions sorted by key.
func All() []SchemaDefinition {
	registryMu.RLock()
	defer registryMu.RUnlock()

	result := make([]SchemaDefinition, 0, len(registry))
	for _, def := range registry {
		result = append(result, def)
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].Key < result[j].Key
	})

	return result
}

// Keys returns all registered schema keys, sorted.
func Keys() []string {
	defs := All()
	keys := make([]string, len(defs))
	for i, def := range defs {
		keys[i] = def.Key
	}
	return keys
}

// SchemaCount returns the number of registered schemas.
func SchemaCount() int {
	registryMu.RLock()
	defer registryMu.RUnlock()
	return len(registry)
}

// Clear removes all registered schemas.
// Primarily useful for testing.
func Clear() {
	registryMu.Lock()
	defer registryMu.Unlock()
	registry = make(map[string]SchemaDefinition)
}
