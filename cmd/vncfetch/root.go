package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/nao1215/vncfetch/internal/version"
)

// NewRootCmd creates the root command for vncfetch.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "vncfetch",
		Short: "Export VNC resolver search results",
		Long: `vncfetch searches a VNC resolver for the open VNC servers of a country
and saves the results as a report.

Run without a subcommand to start the interactive session, which asks for
a country code and an output format (HTML, JSON or XML). HTML reports can
link to the remote screenshots or store them in an images/ directory next
to the report.

Use "vncfetch export" for scripted runs.`,
		Args:          cobra.NoArgs,
		Version:       version.Version(),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          runInteractiveCmd,
	}

	// Global flags that apply to all commands
	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")
	cmd.PersistentFlags().StringP("config", "c", "",
		"Configuration file path (default: .vncfetch in current or home directory)")
	cmd.PersistentFlags().String("output-dir", "",
		"Directory reports are written to (default: current directory)")

	cmd.AddCommand(NewExportCmd())
	cmd.AddCommand(NewInitCmd())
	cmd.AddCommand(NewHistoryCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// runInteractiveCmd runs one interactive session.
func runInteractiveCmd(cmd *cobra.Command, _ []string) error {
	app, err := newApp(cmd)
	if err != nil {
		return err
	}
	defer app.Close()

	ctx, cancel := app.signalContext()
	defer cancel()

	_, err = app.newShell(cmd.InOrStdin(), cmd.OutOrStdout()).Run(ctx)
	return err
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
