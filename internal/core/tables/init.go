// Package tables registers the built-in import schemas with the core registry.
// Import this package to ensure all schemas are registered.
package tables

import "github.com/input-output-hk/atala-prism-sub004/internal/core"

// Contact field keys shared by every built-in schema.
const (
	KeyExternalID  = "externalId"
	KeyContactName = "contactName"
)

var contactFields = core.ContactFields{IDKey: KeyExternalID, NameKey: KeyContactName}

// identityFields returns the leading columns every import starts with.
func identityFields() []core.FieldSpec {
	return []core.FieldSpec{
		{Key: KeyExternalID, Label: "External ID", Rules: []core.RuleName{core.RuleRequired}},
		{Key: KeyContactName, Label: "Contact Name", Rules: []core.RuleName{core.RuleRequired}},
	}
}
