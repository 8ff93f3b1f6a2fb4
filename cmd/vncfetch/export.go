package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nao1215/vncfetch/internal/model"
)

// NewExportCmd creates the export command.
func NewExportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Fetch a country and write a report without prompting",
		Long: `Export runs the same fetch-and-export pipeline as the interactive session,
taking the country code and output format from flags.

Examples:
  # Export German servers as JSON
  vncfetch export -C DE -f json

  # HTML report with screenshots stored under images/
  vncfetch export -C JP -f html --images

  # Markdown report into a separate directory
  vncfetch export -C FR -f markdown --output-dir reports`,
		Args: cobra.NoArgs,
		RunE: runExportCmd,
	}

	cmd.Flags().StringP("country", "C", "",
		"2-letter ISO country code to search (required)")
	cmd.Flags().StringP("format", "f", model.FormatHTML.String(),
		"Output format: html, json, xml or markdown")
	cmd.Flags().BoolP("images", "i", false,
		"Download screenshots next to an HTML report")

	return cmd
}

// exportTarget builds the export target from the command flags.
func exportTarget(cmd *cobra.Command) (string, model.ExportTarget, error) {
	country, err := cmd.Flags().GetString("country")
	if err != nil {
		return "", model.ExportTarget{}, err
	}
	if country == "" {
		return "", model.ExportTarget{}, errors.New("country code is required (use -C, e.g. -C DE)")
	}

	name, err := cmd.Flags().GetString("format")
	if err != nil {
		return "", model.ExportTarget{}, err
	}
	format, err := model.ParseFormat(name)
	if err != nil {
		return "", model.ExportTarget{}, err
	}

	images, err := cmd.Flags().GetBool("images")
	if err != nil {
		return "", model.ExportTarget{}, err
	}
	if images && format != model.FormatHTML {
		return "", model.ExportTarget{}, fmt.Errorf("--images requires the html format, got %s", format)
	}

	return country, model.ExportTarget{Format: format, DownloadImages: images}, nil
}

// runExportCmd executes the export command.
func runExportCmd(cmd *cobra.Command, _ []string) error {
	country, target, err := exportTarget(cmd)
	if err != nil {
		return err
	}

	app, err := newApp(cmd)
	if err != nil {
		return err
	}
	defer app.Close()

	ctx, cancel := app.signalContext()
	defer cancel()

	_, err = app.newShell(cmd.InOrStdin(), cmd.OutOrStdout()).RunOnce(ctx, country, target)
	return err
}
