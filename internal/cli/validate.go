package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/input-output-hk/atala-prism-sub004/internal/contacts"
	"github.com/input-output-hk/atala-prism-sub004/internal/core"
)

type validateOptions struct {
	schemaKey    string
	now          string
	workers      int
	contactsPath string
	format       string
	maxFileSize  int64
}

// NewValidateCmd creates the validate subcommand.
func NewValidateCmd() *cobra.Command {
	opts := &validateOptions{}

	cmd := &cobra.Command{
		Use:   "validate <file.csv|->",
		Short: "Validate a CSV file and print its report",
		Long: `Validate a CSV file against a registered schema.

Credential schemas are cross-referenced against a contacts CSV given with
--contacts. The command exits non-zero when the file has errors.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(cmd, opts, args[0])
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&opts.schemaKey, "schema", "s", "", "schema key (required)")
	flags.StringVar(&opts.now, "now", "", "reference date as DD/MM/YYYY (default: today)")
	flags.IntVar(&opts.workers, "workers", 1, "goroutines validating rows")
	flags.StringVar(&opts.contactsPath, "contacts", "", "contacts CSV used for cross references")
	flags.StringVarP(&opts.format, "format", "f", "text", "output format: text or json")
	flags.Int64Var(&opts.maxFileSize, "max-size", core.DefaultMaxFileSize, "largest accepted file in bytes")
	_ = cmd.MarkFlagRequired("schema")

	return cmd
}

func runValidate(cmd *cobra.Command, opts *validateOptions, path string) error {
	if opts.format != "text" && opts.format != "json" {
		return fmt.Errorf("unknown format %q", opts.format)
	}

	clock := time.Now
	if opts.now != "" {
		now, ok := core.ParseDate(opts.now)
		if !ok {
			return fmt.Errorf("--now: %q is not a DD/MM/YYYY date", opts.now)
		}
		clock = func() time.Time { return now }
	}

	def, ok := core.Get(opts.schemaKey)
	if !ok {
		return fmt.Errorf("%w: %s", core.ErrUnknownSchema, opts.schemaKey)
	}

	var store core.ContactStore
	if opts.contactsPath != "" {
		mem, err := loadContacts(opts.contactsPath, def)
		if err != nil {
			return err
		}
		store = mem
	}

	in, closeIn, err := openInput(cmd, path)
	if err != nil {
		return err
	}
	defer closeIn()

	svc := core.NewService(store, core.ServiceConfig{
		MaxFileSize: opts.maxFileSize,
		Workers:     opts.workers,
		Clock:       clock,
	})

	result, err := svc.Validate(cmd.Context(), opts.schemaKey, in)
	if err != nil {
		return fmt.Errorf("%s (%s)", core.FormatUserError(err), err)
	}

	out := cmd.OutOrStdout()
	if opts.format == "json" {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		if err := enc.Encode(result); err != nil {
			return fmt.Errorf("encoding output: %w", err)
		}
	} else {
		writeTextReport(out, path, result)
	}

	if result.Report.HasErrors() {
		return ErrInvalidFile
	}
	return nil
}

// loadContacts reads a contacts CSV into a memory store. The ID and name
// columns are found by the labels def gives its contact fields, falling
// back to the first two columns.
func loadContacts(path string, def core.SchemaDefinition) (*contacts.MemoryStore, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}
	defer f.Close()

	table, err := core.ReadTable(f, core.DefaultMaxFileSize)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	idCol, nameCol := 0, 1
	if len(table) > 0 {
		idCol = columnOf(table[0], def, def.Contact.IDKey, idCol)
		nameCol = columnOf(table[0], def, def.Contact.NameKey, nameCol)
	}

	store := contacts.NewMemoryStore()
	store.Seed(table, idCol, nameCol)
	return store, nil
}

func columnOf(header core.Row, def core.SchemaDefinition, key string, fallback int) int {
	i := def.Schema.IndexOf(key)
	if i < 0 {
		return fallback
	}
	label := def.Schema.Field(i).Label
	for col, h := range header {
		if core.SameField(h, label) {
			return col
		}
	}
	return fallback
}

func openInput(cmd *cobra.Command, path string) (io.Reader, func(), error) {
	if path == "-" {
		return cmd.InOrStdin(), func() {}, nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("read file: %w", err)
	}
	return f, func() { f.Close() }, nil
}

// writeTextReport prints one line per error. Lines are numbered as in the
// spreadsheet: the header is line 1 and data row i is line i+2.
func writeTextReport(w io.Writer, path string, result *core.ImportResult) {
	report := result.Report

	if report.IsEmptyFile() {
		fmt.Fprintf(w, "%s: %s\n", path, core.MapKind(core.KindEmptyFile).Message)
		return
	}

	for _, e := range report.AllErrors() {
		line := e.Row.Index + 2
		msg := core.MapKind(e.Kind)
		col := fmt.Sprintf("col %d", e.Col.Index+1)
		if e.Col.Name != "" {
			col += fmt.Sprintf(" %q", e.Col.Name)
		}
		fmt.Fprintf(w, "%s:%d: %s: %s (%s)\n", path, line, col, msg.Message, msg.Code)
	}

	if !report.HasErrors() {
		fmt.Fprintf(w, "%s: %d rows OK\n", path, result.Rows)
		return
	}
	fmt.Fprintf(w, "%s: %d errors in %d of %d rows\n",
		path, result.Errors, report.RowsWithErrors(), result.Rows)
}
