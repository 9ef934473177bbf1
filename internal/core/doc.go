// Package core validates tabular bulk imports against declarative schemas.
//
// This package holds the import engine and the service around it,
// independent of any transport. It is used by the HTTP handlers, the
// importcheck CLI and tests without modification.
//
// # Engine
//
// A [Schema] is an ordered list of [FieldSpec] values. [Importer.Run] takes a
// decoded [RawTable] whose first row is the header and returns an
// [ImportReport]:
//
//  1. Header cells are matched to field labels after [Normalize]; misplaced
//     and unknown columns become header errors
//  2. Each data row is split into a [ParsedRecord] keyed by schema key, with
//     surplus cells reported as extraField
//  3. Field rules (required, pastDate, futureDate) run against each record
//  4. An optional [CrossReference] checks identifiers and names against a
//     [Lookup] of registered contacts
//
// Validation never fails. Every problem is a [ValidationError] in the
// report, addressed by row and column, so a client can render the file as a
// grid with the offending cells highlighted.
//
// # Schema Registry
//
// Import types are registered at init time using [Register] or loaded at
// runtime with [TryRegister]:
//
//	core.Register(core.SchemaDefinition{
//	    Key:     "contacts",
//	    Label:   "Contacts",
//	    Mode:    core.ModeCreate,
//	    Contact: core.ContactFields{IDKey: "externalId", NameKey: "contactName"},
//	    Schema: core.MustSchema(
//	        core.FieldSpec{Key: "externalId", Label: "External ID", Rules: []core.RuleName{core.RuleRequired}},
//	        core.FieldSpec{Key: "contactName", Label: "Contact Name", Rules: []core.RuleName{core.RuleRequired}},
//	    ),
//	})
//
// # Service
//
// [Service] decodes uploads with [ReadTable], caps concurrent imports with an
// [ImportLimiter], loads the contact directory for attach-mode imports and
// commits clean create-mode imports through a [ContactStore].
//
// # Error Handling
//
// Report errors map to user messages by kind with [MapKind]. Technical
// errors map by message pattern with [MapError]:
//
//   - IMP001-IMP011: Data errors, one per error kind
//   - DB001-DB004: Database errors (duplicates, connections)
//   - FILE001-FILE004: File errors (size, format, read)
//   - SCH001-SCH003: Schema errors (unknown type, wrong mode)
//   - IMPORT001-IMPORT002: Import errors (busy, unfixed rows)
//   - REQ001-REQ002: Request errors (cancelled, timeout)
package core
