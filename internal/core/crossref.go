package core

import "strings"

// Lookup resolves an external identifier to the display name it was
// registered with.
type Lookup interface {
	LookupName(externalID string) (name string, ok bool)
}

// Directory is an in-memory Lookup keyed by external identifier.
type Directory map[string]string

// LookupName implements Lookup.
func (d Directory) LookupName(externalID string) (string, bool) {
	name, ok := d[externalID]
	return name, ok
}

// CrossReference ties the rows of an import to previously registered
// contacts. IDKey and NameKey are schema keys.
type CrossReference struct {
	IDKey   string
	NameKey string
	Lookup  Lookup
}

// Validate checks that the record's identifier is known and that its name
// matches the registered one. Records without an identifier are skipped;
// the required rule reports them.
func (c CrossReference) Validate(rowIndex int, rec ParsedRecord, schema Schema) []ValidationError {
	if c.Lookup == nil {
		return nil
	}

	raw := rec.Value(c.IDKey)
	if isBlank(raw) {
		return nil
	}

	known, ok := c.Lookup.LookupName(strings.TrimSpace(raw))
	if !ok {
		return []ValidationError{{
			Kind: KindUnexpectedExternalID,
			Row:  RowRef{Index: rowIndex},
			Col:  ColRef{Index: schema.IndexOf(c.IDKey), Name: c.IDKey},
		}}
	}

	if strings.TrimSpace(rec.Value(c.NameKey)) != strings.TrimSpace(known) {
		return []ValidationError{{
			Kind: KindValueDoesNotMatch,
			Row:  RowRef{Index: rowIndex},
			Col:  ColRef{Index: schema.IndexOf(c.NameKey), Name: c.NameKey},
		}}
	}

	return nil
}
