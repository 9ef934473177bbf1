package core

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
)

type fakeStore struct {
	mu       sync.Mutex
	dir      Directory
	dirErr   error
	inserted []Contact
}

func (f *fakeStore) Directory(ctx context.Context) (Directory, error) {
	return f.dir, f.dirErr
}

func (f *fakeStore) InsertContacts(ctx context.Context, contacts []Contact) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.inserted = append(f.inserted, contacts...)
	return int64(len(contacts)), nil
}

func registerServiceSchemas(t *testing.T) {
	t.Helper()
	Clear()
	t.Cleanup(Clear)

	Register(SchemaDefinition{
		Key:     "contacts",
		Mode:    ModeCreate,
		Contact: ContactFields{IDKey: "externalId", NameKey: "contactName"},
		Schema: MustSchema(
			FieldSpec{Key: "externalId", Label: "External ID", Rules: []RuleName{RuleRequired}},
			FieldSpec{Key: "contactName", Label: "Contact Name", Rules: []RuleName{RuleRequired}},
			FieldSpec{Key: "email", Label: "Email"},
		),
	})
	Register(SchemaDefinition{
		Key:     "degrees",
		Mode:    ModeAttach,
		Contact: ContactFields{IDKey: "externalId", NameKey: "contactName"},
		Schema: MustSchema(
			FieldSpec{Key: "externalId", Label: "External ID", Rules: []RuleName{RuleRequired}},
			FieldSpec{Key: "contactName", Label: "Contact Name"},
			FieldSpec{Key: "graduation", Label: "Graduation", Type: TypeDate, Rules: []RuleName{RulePastDate}},
		),
	})
}

func newTestService(store ContactStore) *Service {
	return NewService(store, ServiceConfig{
		MaxConcurrent: 2,
		MaxWaitTime:   time.Second,
		Clock:         func() time.Time { return testNow },
	})
}

func TestService_Validate(t *testing.T) {
	registerServiceSchemas(t)
	svc := newTestService(&fakeStore{})

	csv := "External ID,Contact Name,Email\nE1,Ann,ann@example.com\n,Bob,\n"
	result, err := svc.Validate(context.Background(), "contacts", strings.NewReader(csv))
	if err != nil {
		t.Fatalf("Validate() error: %v", err)
	}

	if _, err := uuid.Parse(result.ImportID); err != nil {
		t.Errorf("ImportID %q is not a UUID", result.ImportID)
	}
	if result.Rows != 2 || result.Errors != 1 {
		t.Errorf("Rows = %d, Errors = %d, want 2 and 1", result.Rows, result.Errors)
	}
	if got := result.Report.ErrorsByRow[1][0].Kind; got != KindRequired {
		t.Errorf("row 1 error = %q, want required", got)
	}
	if svc.Limiter().ActiveCount() != 0 {
		t.Error("limiter slot not released")
	}
}

func TestService_UnknownSchema(t *testing.T) {
	registerServiceSchemas(t)
	svc := newTestService(nil)

	_, err := svc.Validate(context.Background(), "nope", strings.NewReader("a\nb\n"))
	if !errors.Is(err, ErrUnknownSchema) {
		t.Errorf("error = %v, want ErrUnknownSchema", err)
	}
	if MapError(err).Code != "SCH001" {
		t.Errorf("MapError code = %s, want SCH001", MapError(err).Code)
	}
}

func TestService_CrossReference(t *testing.T) {
	registerServiceSchemas(t)
	svc := newTestService(&fakeStore{dir: Directory{"E1": "Ann"}})

	csv := "External ID,Contact Name,Graduation\nE1,Ann,01/07/2015\nE1,Bob,01/07/2015\nE9,Ann,01/07/2015\n"
	result, err := svc.Validate(context.Background(), "degrees", strings.NewReader(csv))
	if err != nil {
		t.Fatal(err)
	}

	kinds := []ErrorKind{}
	for _, errs := range result.Report.ErrorsByRow {
		for _, e := range errs {
			kinds = append(kinds, e.Kind)
		}
	}
	want := []ErrorKind{KindValueDoesNotMatch, KindUnexpectedExternalID}
	if len(kinds) != 2 || kinds[0] != want[0] || kinds[1] != want[1] {
		t.Errorf("errors = %v, want %v", kinds, want)
	}
}

func TestService_CrossReferenceNeedsStore(t *testing.T) {
	registerServiceSchemas(t)
	svc := newTestService(nil)

	_, err := svc.Validate(context.Background(), "degrees", strings.NewReader("External ID\nE1\n"))
	if !errors.Is(err, ErrNoContactStore) {
		t.Errorf("error = %v, want ErrNoContactStore", err)
	}
}

func TestService_DirectoryError(t *testing.T) {
	registerServiceSchemas(t)
	svc := newTestService(&fakeStore{dirErr: errors.New("connection refused")})

	_, err := svc.Validate(context.Background(), "degrees", strings.NewReader("External ID\nE1\n"))
	if err == nil || MapError(err).Code != "DB002" {
		t.Errorf("error = %v, want DB002", err)
	}
}

func TestService_Commit(t *testing.T) {
	registerServiceSchemas(t)
	store := &fakeStore{}
	svc := newTestService(store)

	csv := "External ID,Contact Name,Email\n E1 ,Ann,ann@example.com\nE2,Bob,\n"
	result, err := svc.Commit(context.Background(), "contacts", strings.NewReader(csv))
	if err != nil {
		t.Fatalf("Commit() error: %v", err)
	}

	if result.Inserted != 2 || len(store.inserted) != 2 {
		t.Fatalf("Inserted = %d, stored = %d, want 2", result.Inserted, len(store.inserted))
	}

	first := store.inserted[0]
	if first.ExternalID != "E1" || first.Name != "Ann" {
		t.Errorf("contact = %+v", first)
	}
	if first.Attributes["email"] != "ann@example.com" {
		t.Errorf("Attributes = %v", first.Attributes)
	}
	if first.ImportID.String() != result.ImportID {
		t.Errorf("ImportID = %s, want %s", first.ImportID, result.ImportID)
	}
}

func TestService_CommitRejected(t *testing.T) {
	registerServiceSchemas(t)

	tests := []struct {
		name    string
		store   ContactStore
		schema  string
		csv     string
		wantErr error
	}{
		{name: "validation errors", store: &fakeStore{}, schema: "contacts", csv: "External ID,Contact Name\nE1,\n", wantErr: ErrReportHasErrors},
		{name: "attach import", store: &fakeStore{}, schema: "degrees", csv: "External ID\nE1\n", wantErr: ErrNotContactImport},
		{name: "no store", store: nil, schema: "contacts", csv: "External ID,Contact Name\nE1,Ann\n", wantErr: ErrNoContactStore},
		{name: "unknown schema", store: &fakeStore{}, schema: "nope", csv: "", wantErr: ErrUnknownSchema},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := newTestService(tt.store)
			_, err := svc.Commit(context.Background(), tt.schema, strings.NewReader(tt.csv))
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Commit() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestService_CommitReturnsReportWithErrors(t *testing.T) {
	registerServiceSchemas(t)
	store := &fakeStore{}
	svc := newTestService(store)

	result, err := svc.Commit(context.Background(), "contacts", strings.NewReader("External ID,Contact Name\nE1,\n"))
	if !errors.Is(err, ErrReportHasErrors) {
		t.Fatalf("error = %v", err)
	}
	if result == nil || !result.Report.HasErrors() {
		t.Error("commit should return the failing report")
	}
	if len(store.inserted) != 0 {
		t.Error("nothing should be stored")
	}
}

func TestService_TooLarge(t *testing.T) {
	registerServiceSchemas(t)
	svc := NewService(nil, ServiceConfig{MaxFileSize: 8})

	_, err := svc.Validate(context.Background(), "contacts", strings.NewReader("External ID,Contact Name\nE1,Ann\n"))
	if !errors.Is(err, ErrFileTooLarge) {
		t.Errorf("error = %v, want ErrFileTooLarge", err)
	}
}

func TestContactsFromRecords_SkipsZeroWidth(t *testing.T) {
	def := SchemaDefinition{Contact: ContactFields{IDKey: "id", NameKey: "name"}}
	records := []ParsedRecord{
		{Fields: map[string]string{"id": "E1", "name": "Ann"}, Original: Row{"E1", "Ann"}},
		newRecord(Row{}),
	}

	contacts := ContactsFromRecords(def, uuid.New(), records)
	if len(contacts) != 1 {
		t.Errorf("contacts = %d, want 1", len(contacts))
	}
}

func TestService_ValidateTableTakesImportSlot(t *testing.T) {
	registerServiceSchemas(t)
	svc := NewService(nil, ServiceConfig{MaxConcurrent: 1, MaxWaitTime: 10 * time.Millisecond})
	table := RawTable{{"External ID", "Contact Name", "Email"}, {"E1", "Ann", ""}}

	if !svc.Limiter().TryAcquire() {
		t.Fatal("TryAcquire() = false on an idle limiter")
	}
	if _, err := svc.ValidateTable(context.Background(), "contacts", table); !errors.Is(err, ErrTooManyImports) {
		t.Fatalf("ValidateTable() with no free slot error = %v, want ErrTooManyImports", err)
	}
	svc.Limiter().Release()

	result, err := svc.ValidateTable(context.Background(), "contacts", table)
	if err != nil {
		t.Fatalf("ValidateTable() error: %v", err)
	}
	if result.Rows != 1 || result.Errors != 0 {
		t.Errorf("rows=%d errors=%d", result.Rows, result.Errors)
	}
	if n := svc.Limiter().ActiveCount(); n != 0 {
		t.Errorf("ActiveCount() = %d after ValidateTable, want 0", n)
	}
}
