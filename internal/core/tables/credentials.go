package tables

import "github.com/input-output-hk/atala-prism-sub004/internal/core"

func init() {
	registerGovernmentID()
	registerEducational()
}

func registerGovernmentID() {
	fields := append(identityFields(),
		core.FieldSpec{Key: "idNumber", Label: "ID Number", Rules: []core.RuleName{core.RuleRequired}},
		core.FieldSpec{Key: "dateOfBirth", Label: "Date of Birth", Type: core.TypeDate,
			Rules: []core.RuleName{core.RuleRequired, core.RulePastDate}},
		core.FieldSpec{Key: "expirationDate", Label: "Expiration Date", Type: core.TypeDate,
			Rules: []core.RuleName{core.RuleRequired, core.RuleFutureDate}},
	)

	core.Register(core.SchemaDefinition{
		Key:     "government-id",
		Label:   "Government ID",
		Mode:    core.ModeAttach,
		Contact: contactFields,
		Schema:  core.MustSchema(fields...),
	})
}

func registerEducational() {
	fields := append(identityFields(),
		core.FieldSpec{Key: "degreeName", Label: "Degree Name", Rules: []core.RuleName{core.RuleRequired}},
		core.FieldSpec{Key: "award", Label: "Award", Rules: []core.RuleName{core.RuleRequired}},
		core.FieldSpec{Key: "startDate", Label: "Start Date", Type: core.TypeDate,
			Rules: []core.RuleName{core.RuleRequired, core.RulePastDate}},
		core.FieldSpec{Key: "graduationDate", Label: "Graduation Date", Type: core.TypeDate,
			Rules: []core.RuleName{core.RuleRequired, core.RulePastDate}},
	)

	core.Register(core.SchemaDefinition{
		Key:     "educational",
		Label:   "Educational Credential",
		Mode:    core.ModeAttach,
		Contact: contactFields,
		Schema:  core.MustSchema(fields...),
	})
}
