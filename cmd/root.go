// Package cmd defines the CLI commands for the casescan executable.
package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

var cfgFile string

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "casescan",
		Short: "Backward ID-scan crawler for ombudsman case documents",
		Long: `casescan walks the umbodsmadur.is numeric document ID space backward
from a starting ID, collecting published case documents into a structured
JSON corpus. Gaps, withdrawn documents, and listing redirects are skipped;
the scan ends when the target count is reached or the ID space runs out.`,
		SilenceUsage: true,
	}

	cmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (YAML); defaults apply when omitted")
	cmd.AddCommand(newScanCmd())

	return cmd
}

// Execute runs the CLI under a signal-aware context. Interrupts cancel the
// scan; partial results collected so far are still written.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
