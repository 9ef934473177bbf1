package core

import (
	"errors"
	"testing"
)

func TestNewSchema(t *testing.T) {
	tests := []struct {
		name    string
		fields  []FieldSpec
		wantErr error
	}{
		{name: "no fields", fields: nil, wantErr: ErrEmptySchema},
		{name: "empty key", fields: []FieldSpec{{Key: ""}}, wantErr: ErrEmptyKey},
		{name: "duplicate key", fields: []FieldSpec{{Key: "a"}, {Key: "a"}}, wantErr: ErrDuplicateKey},
		{name: "unknown rule", fields: []FieldSpec{{Key: "a", Rules: []RuleName{"positive"}}}, wantErr: ErrUnknownRule},
		{name: "unknown type", fields: []FieldSpec{{Key: "a", Type: "number"}}, wantErr: ErrUnknownType},
		{name: "valid", fields: []FieldSpec{{Key: "a"}, {Key: "b", Type: TypeDate, Rules: []RuleName{RulePastDate}}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewSchema(tt.fields...)
			if tt.wantErr == nil {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("NewSchema() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestNewSchema_Defaults(t *testing.T) {
	rules := []RuleName{RuleRequired}
	s := MustSchema(FieldSpec{Key: "externalId", Rules: rules})

	f := s.Field(0)
	if f.Label != "externalId" {
		t.Errorf("Label = %q, want key as default", f.Label)
	}
	if f.Type != TypeString {
		t.Errorf("Type = %q, want %q", f.Type, TypeString)
	}

	rules[0] = RulePastDate
	if !s.Field(0).HasRule(RuleRequired) {
		t.Error("schema should not share the caller's rules slice")
	}
}

func TestSchema_IndexOf(t *testing.T) {
	s := MustSchema(FieldSpec{Key: "a"}, FieldSpec{Key: "b"})

	if got := s.IndexOf("b"); got != 1 {
		t.Errorf("IndexOf(b) = %d, want 1", got)
	}
	if got := s.IndexOf("z"); got != -1 {
		t.Errorf("IndexOf(z) = %d, want -1", got)
	}
}

func TestMustSchema_Panics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected panic for empty schema")
		}
	}()
	MustSchema()
}
