package cli

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/nurpe/contract-archive/internal/logger"
)

// RootOptions holds the flags shared by the client commands.
type RootOptions struct {
	Server  string
	Format  string
	Verbose bool
}

var ValidFormats = []string{"text", "json"}

func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "contract-archive",
		Short: "Office contract archive",
		Long: `Contract archive server and operator tools.

serve runs the REST API and status sampler; backup, restore and report talk
to a running server.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !isValidFormat(opts.Format) {
				return fmt.Errorf("invalid format %q: must be one of %v", opts.Format, ValidFormats)
			}
			return nil
		},
	}

	cmd.PersistentFlags().StringVar(&opts.Server, "server", "http://localhost:4000", "archive server origin")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")

	cmd.AddCommand(NewServeCommand())
	cmd.AddCommand(NewMigrateCommand())
	cmd.AddCommand(NewBackupCommand(opts))
	cmd.AddCommand(NewRestoreCommand(opts))
	cmd.AddCommand(NewReportCommand(opts))

	return cmd
}

func isValidFormat(format string) bool {
	for _, f := range ValidFormats {
		if f == format {
			return true
		}
	}
	return false
}

// clientLogger writes diagnostics to stderr so stdout stays parseable.
func clientLogger(opts *RootOptions) zerolog.Logger {
	env := "production"
	if opts.Verbose {
		env = "development"
	}
	log := logger.NewWithWriter(env, os.Stderr)
	if !opts.Verbose {
		log = log.Level(zerolog.WarnLevel)
	}
	return log
}
