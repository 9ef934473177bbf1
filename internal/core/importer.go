package core

// importer.go drives one validation pass over a decoded table.
//
// The flow:
//  1. A table with no usable data rows short-circuits to a single emptyFile error
//  2. The header row is reconciled once against the schema
//  3. Each data row is split, field-validated and, when configured,
//     cross-referenced, yielding one error list and one record
//
// Rows share nothing but the read-only schema and lookup, so they can be
// validated on a worker pool and reassembled by index.

import (
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"
)

// Importer validates tables against one schema.
type Importer struct {
	schema   Schema
	crossRef *CrossReference
	clock    func() time.Time
	workers  int
	logger   *slog.Logger
}

// Option configures an Importer.
type Option func(*Importer)

// WithClock sets the source of "now" for the date rules.
func WithClock(clock func() time.Time) Option {
	return func(im *Importer) {
		if clock != nil {
			im.clock = clock
		}
	}
}

// WithNow fixes "now" to t.
func WithNow(t time.Time) Option {
	return WithClock(func() time.Time { return t })
}

// WithCrossReference checks rows against registered contacts.
func WithCrossReference(ref CrossReference) Option {
	return func(im *Importer) {
		im.crossRef = &ref
	}
}

// WithWorkers validates rows on n goroutines. Values below 2 keep the
// pass on the calling goroutine.
func WithWorkers(n int) Option {
	return func(im *Importer) {
		im.workers = n
	}
}

// WithLogger sets the logger used for pass summaries.
func WithLogger(logger *slog.Logger) Option {
	return func(im *Importer) {
		if logger != nil {
			im.logger = logger
		}
	}
}

// NewImporter creates an Importer for schema. It fails when a cross
// reference names a field the schema does not declare.
func NewImporter(schema Schema, opts ...Option) (*Importer, error) {
	if schema.Len() == 0 {
		return nil, ErrEmptySchema
	}

	im := &Importer{
		schema:  schema,
		clock:   time.Now,
		workers: 1,
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(im)
	}

	if im.crossRef != nil {
		for _, key := range []string{im.crossRef.IDKey, im.crossRef.NameKey} {
			if schema.IndexOf(key) < 0 {
				return nil, fmt.Errorf("field %q: %w", key, ErrUnknownCrossRef)
			}
		}
	}

	return im, nil
}

// Schema returns the schema the importer validates against.
func (im *Importer) Schema() Schema { return im.schema }

// Run validates table and returns the report. It never fails: every data
// problem is reported in the result.
func (im *Importer) Run(table RawTable) ImportReport {
	start := time.Now()

	if isDegenerate(table) {
		im.logger.Debug("import table empty", "rows", len(table))
		return emptyFileReport()
	}

	now := im.clock()
	layout := ReconcileHeader(table[0], im.schema)
	data := table[1:]

	report := ImportReport{
		HeaderErrors: layout.Errors,
		ErrorsByRow:  make([][]ValidationError, len(data)),
		Records:      make([]ParsedRecord, len(data)),
	}
	if report.HeaderErrors == nil {
		report.HeaderErrors = []ValidationError{}
	}

	process := func(i int) {
		rec, errs := im.processRow(i, data[i], layout, now)
		report.Records[i] = rec
		report.ErrorsByRow[i] = errs
	}

	if im.workers > 1 && len(data) > 1 {
		var g errgroup.Group
		g.SetLimit(im.workers)
		for i := range data {
			g.Go(func() error {
				process(i)
				return nil
			})
		}
		_ = g.Wait()
	} else {
		for i := range data {
			process(i)
		}
	}

	im.logger.Debug("import validated",
		"rows", len(data),
		"header_errors", len(report.HeaderErrors),
		"rows_with_errors", report.RowsWithErrors(),
		"duration_ms", time.Since(start).Milliseconds(),
	)

	return report
}

// processRow runs one data row through the splitter, the field rules and
// the optional cross reference. The returned slice is never nil.
func (im *Importer) processRow(i int, row Row, layout HeaderLayout, now time.Time) (ParsedRecord, []ValidationError) {
	rec, errs := SplitRow(i, row, im.schema, layout)
	if errs == nil {
		errs = []ValidationError{}
	}

	// Zero-width and blank rows carry nothing to validate, whatever their width.
	if len(row) == 0 || isBlankRow(row) {
		return rec, errs
	}

	errs = append(errs, ValidateFields(i, rec, im.schema, now)...)

	if im.crossRef != nil {
		errs = append(errs, im.crossRef.Validate(i, rec, im.schema)...)
	}

	return rec, errs
}

// isDegenerate reports whether table has no usable data rows: no rows, a
// header with nothing after it, or data rows that are all zero-width.
func isDegenerate(table RawTable) bool {
	if len(table) < 2 {
		return true
	}
	for _, row := range table[1:] {
		if len(row) > 0 {
			return false
		}
	}
	return true
}

// Validate is a convenience for a single synchronous pass with default options.
func Validate(table RawTable, schema Schema, opts ...Option) (ImportReport, error) {
	im, err := NewImporter(schema, opts...)
	if err != nil {
		return ImportReport{}, err
	}
	return im.Run(table), nil
}
