package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/nurpe/contract-archive/internal/client"
)

func NewBackupCommand(rootOpts *RootOptions) *cobra.Command {
	var out string

	cmd := &cobra.Command{
		Use:   "backup",
		Short: "Download every collection as one JSON document",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			gateway := client.NewGateway(rootOpts.Server, clientLogger(rootOpts))
			payload, err := gateway.Backup(cmd.Context())
			if err != nil {
				return fmt.Errorf("backup: %w", err)
			}
			if out == "" || out == "-" {
				_, err = fmt.Fprintln(cmd.OutOrStdout(), string(payload))
				return err
			}
			if err := os.WriteFile(out, payload, 0o600); err != nil {
				return fmt.Errorf("write backup: %w", err)
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "backup written to %s\n", out)
			return nil
		},
	}

	cmd.Flags().StringVarP(&out, "out", "o", "", "output file (stdout when empty)")
	return cmd
}

func NewRestoreCommand(rootOpts *RootOptions) *cobra.Command {
	var in string

	cmd := &cobra.Command{
		Use:   "restore",
		Short: "Upload a backup; collections missing from it are left as they are",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var (
				payload []byte
				err     error
			)
			if in == "" || in == "-" {
				payload, err = io.ReadAll(cmd.InOrStdin())
			} else {
				payload, err = os.ReadFile(in)
			}
			if err != nil {
				return fmt.Errorf("read backup: %w", err)
			}

			gateway := client.NewGateway(rootOpts.Server, clientLogger(rootOpts))
			if err := gateway.Restore(cmd.Context(), payload); err != nil {
				return fmt.Errorf("restore: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "restore complete")
			return nil
		},
	}

	cmd.Flags().StringVarP(&in, "in", "i", "", "backup file (stdin when empty)")
	return cmd
}
