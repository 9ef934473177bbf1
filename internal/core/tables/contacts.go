package tables

import "github.com/input-output-hk/atala-prism-sub004/internal/core"

func init() {
	registerContacts()
}

func registerContacts() {
	core.Register(core.SchemaDefinition{
		Key:     "contacts",
		Label:   "Contacts",
		Mode:    core.ModeCreate,
		Contact: contactFields,
		Schema:  core.MustSchema(identityFields()...),
	})
}
