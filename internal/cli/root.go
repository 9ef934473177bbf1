// Package cli implements the importcheck command line tool, which validates
// import files offline against the registered schemas.
package cli

import (
	"errors"
	"log/slog"

	"github.com/spf13/cobra"

	_ "github.com/input-output-hk/atala-prism-sub004/internal/core/tables" // Register built-in schemas
	"github.com/input-output-hk/atala-prism-sub004/internal/logging"
	"github.com/input-output-hk/atala-prism-sub004/internal/schema"
)

// ErrInvalidFile is returned by validate when the report has errors, so the
// process exits non-zero.
var ErrInvalidFile = errors.New("file has validation errors")

type rootOptions struct {
	schemaDir string
	logLevel  string
	logFormat string
}

// NewRootCmd creates the root importcheck command with all subcommands
// registered.
func NewRootCmd() *cobra.Command {
	opts := &rootOptions{}

	root := &cobra.Command{
		Use:           "importcheck",
		Short:         "importcheck - validate bulk import spreadsheets",
		Args:          cobra.NoArgs,
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			// Logs go to stderr so stdout carries only reports.
			slog.SetDefault(logging.New(cmd.ErrOrStderr(), opts.logLevel, opts.logFormat))

			if opts.schemaDir == "" {
				return nil
			}
			keys, err := schema.RegisterDir(opts.schemaDir)
			if err != nil {
				return err
			}
			slog.Debug("schema files registered", "dir", opts.schemaDir, "schemas", keys)
			return nil
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&opts.schemaDir, "schema-dir", "", "directory of extra YAML schema files")
	flags.StringVar(&opts.logLevel, "log-level", "warn", "log level: debug, info, warn, error")
	flags.StringVar(&opts.logFormat, "log-format", "text", "log format: text or json")

	root.AddCommand(NewValidateCmd())
	root.AddCommand(NewSchemasCmd())
	root.AddCommand(NewTemplateCmd())
	return root
}
