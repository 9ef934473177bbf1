package core

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/input-output-hk/atala-prism-sub004/internal/logging"
)

// ImportTimeout is the default maximum duration for one import.
var ImportTimeout = 2 * time.Minute

var (
	// ErrUnknownSchema is returned for a schema key with no registration.
	ErrUnknownSchema = errors.New("unknown schema")

	// ErrNotContactImport is returned when committing an import that
	// attaches rows to contacts instead of creating them.
	ErrNotContactImport = errors.New("import type does not create contacts")

	// ErrReportHasErrors is returned when committing a file that did not
	// validate cleanly.
	ErrReportHasErrors = errors.New("import has validation errors")

	// ErrNoContactStore is returned when an operation needs the contact
	// directory and the service was built without one.
	ErrNoContactStore = errors.New("no contact store configured")
)

// Contact is one contact created by a committed import.
type Contact struct {
	ExternalID string
	Name       string
	ImportID   uuid.UUID
	// Attributes holds every other mapped field of the row.
	Attributes map[string]string
}

// ContactStore persists contacts and serves the directory used for cross
// references.
type ContactStore interface {
	Directory(ctx context.Context) (Directory, error)
	InsertContacts(ctx context.Context, contacts []Contact) (int64, error)
}

// ServiceConfig holds the tunables of a Service. Zero values take defaults.
type ServiceConfig struct {
	MaxFileSize   int64
	MaxConcurrent int
	MaxWaitTime   time.Duration
	Timeout       time.Duration
	Workers       int
	Clock         func() time.Time
}

// ImportResult is the outcome of validating one file.
type ImportResult struct {
	ImportID  string        `json:"importId"`
	SchemaKey string        `json:"schema"`
	Header    Row           `json:"header"`
	Rows      int           `json:"rows"`
	Errors    int           `json:"errorCount"`
	Report    ImportReport  `json:"report"`
	Duration  time.Duration `json:"-"`
}

// CommitResult is the outcome of committing a contact import.
type CommitResult struct {
	ImportResult
	Inserted int64 `json:"inserted"`
}

// Service runs imports for registered schemas.
type Service struct {
	store   ContactStore
	limiter *ImportLimiter
	cfg     ServiceConfig
}

// NewService creates a Service. store may be nil, in which case imports that
// need the contact directory fail with ErrNoContactStore.
func NewService(store ContactStore, cfg ServiceConfig) *Service {
	if cfg.MaxFileSize <= 0 {
		cfg.MaxFileSize = DefaultMaxFileSize
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = ImportTimeout
	}
	if cfg.Workers <= 0 {
		cfg.Workers = 1
	}
	if cfg.Clock == nil {
		cfg.Clock = time.Now
	}

	return &Service{
		store:   store,
		limiter: NewImportLimiter(cfg.MaxConcurrent, cfg.MaxWaitTime),
		cfg:     cfg,
	}
}

// Limiter exposes the concurrency limiter for status reporting.
func (s *Service) Limiter() *ImportLimiter { return s.limiter }

// Schemas returns every registered definition sorted by key.
func (s *Service) Schemas() []SchemaDefinition { return All() }

// Definition looks up a registered schema.
func (s *Service) Definition(schemaKey string) (SchemaDefinition, error) {
	def, ok := Get(schemaKey)
	if !ok {
		return SchemaDefinition{}, fmt.Errorf("%w: %s", ErrUnknownSchema, schemaKey)
	}
	return def, nil
}

// Validate decodes r and validates it against the schema registered as
// schemaKey. Data problems are reported in the result, not as an error.
func (s *Service) Validate(ctx context.Context, schemaKey string, r io.Reader) (*ImportResult, error) {
	def, err := s.Definition(schemaKey)
	if err != nil {
		return nil, err
	}

	ctx, done, err := s.admit(ctx)
	if err != nil {
		return nil, err
	}
	defer done()

	table, err := ReadTable(r, s.cfg.MaxFileSize)
	if err != nil {
		return nil, err
	}

	return s.run(ctx, def, table)
}

// ValidateTable validates an already decoded table. It takes an import slot
// and is bounded by the import timeout like Validate.
func (s *Service) ValidateTable(ctx context.Context, schemaKey string, table RawTable) (*ImportResult, error) {
	def, err := s.Definition(schemaKey)
	if err != nil {
		return nil, err
	}

	ctx, done, err := s.admit(ctx)
	if err != nil {
		return nil, err
	}
	defer done()

	return s.run(ctx, def, table)
}

// admit acquires an import slot and bounds ctx by the import timeout.
// The caller must call done when the import finishes.
func (s *Service) admit(ctx context.Context) (context.Context, func(), error) {
	if err := s.limiter.Acquire(ctx); err != nil {
		return nil, nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, s.cfg.Timeout)
	return ctx, func() {
		cancel()
		s.limiter.Release()
	}, nil
}

// Commit validates r and, when the file is clean, stores its rows as new
// contacts. Only create-mode imports can be committed.
func (s *Service) Commit(ctx context.Context, schemaKey string, r io.Reader) (*CommitResult, error) {
	def, err := s.Definition(schemaKey)
	if err != nil {
		return nil, err
	}
	if def.Mode != ModeCreate {
		return nil, fmt.Errorf("%s: %w", schemaKey, ErrNotContactImport)
	}
	if s.store == nil {
		return nil, ErrNoContactStore
	}

	result, err := s.Validate(ctx, schemaKey, r)
	if err != nil {
		return nil, err
	}
	commit := &CommitResult{ImportResult: *result}
	if result.Report.HasErrors() {
		return commit, fmt.Errorf("%s: %w", result.ImportID, ErrReportHasErrors)
	}

	importID, err := uuid.Parse(result.ImportID)
	if err != nil {
		return nil, fmt.Errorf("parse import id: %w", err)
	}
	contacts := ContactsFromRecords(def, importID, result.Report.Records)

	logger := logging.WithFields(ctx, "import_id", result.ImportID, "schema", schemaKey)

	inserted, err := s.store.InsertContacts(ctx, contacts)
	if err != nil {
		logger.Error("insert contacts failed", "error", err, "contacts", len(contacts))
		return nil, fmt.Errorf("insert contacts: %w", err)
	}
	commit.Inserted = inserted

	logger.Info("contacts imported", "inserted", inserted)
	return commit, nil
}

func (s *Service) run(ctx context.Context, def SchemaDefinition, table RawTable) (*ImportResult, error) {
	importID := uuid.New().String()
	logger := logging.WithFields(ctx, "import_id", importID, "schema", def.Key)
	start := time.Now()

	opts := []Option{
		WithClock(s.cfg.Clock),
		WithWorkers(s.cfg.Workers),
		WithLogger(logger),
	}

	if def.CrossReferenced() {
		if s.store == nil {
			return nil, ErrNoContactStore
		}
		dir, err := s.store.Directory(ctx)
		if err != nil {
			return nil, fmt.Errorf("load contact directory: %w", err)
		}
		opts = append(opts, WithCrossReference(CrossReference{
			IDKey:   def.Contact.IDKey,
			NameKey: def.Contact.NameKey,
			Lookup:  dir,
		}))
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	im, err := NewImporter(def.Schema, opts...)
	if err != nil {
		return nil, err
	}
	report := im.Run(table)

	header := Row{}
	if len(table) > 0 {
		header = table[0]
	}

	result := &ImportResult{
		ImportID:  importID,
		SchemaKey: def.Key,
		Header:    header,
		Rows:      len(report.Records),
		Errors:    report.ErrorCount(),
		Report:    report,
		Duration:  time.Since(start),
	}

	logger.Info("import validated",
		"rows", result.Rows,
		"errors", result.Errors,
		"duration_ms", result.Duration.Milliseconds(),
	)

	return result, nil
}

// ContactsFromRecords converts the records of a clean create-mode import
// into contacts. Blank rows are skipped.
func ContactsFromRecords(def SchemaDefinition, importID uuid.UUID, records []ParsedRecord) []Contact {
	contacts := make([]Contact, 0, len(records))
	for _, rec := range records {
		if isBlankRow(rec.Original) {
			continue
		}
		attrs := make(map[string]string, len(rec.Fields))
		for key, value := range rec.Fields {
			if key == def.Contact.IDKey || key == def.Contact.NameKey {
				continue
			}
			attrs[key] = strings.TrimSpace(value)
		}
		contacts = append(contacts, Contact{
			ExternalID: strings.TrimSpace(rec.Value(def.Contact.IDKey)),
			Name:       strings.TrimSpace(rec.Value(def.Contact.NameKey)),
			ImportID:   importID,
			Attributes: attrs,
		})
	}
	return contacts
}
