package main

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/nao1215/markdown"
	"github.com/spf13/cobra"

	"github.com/nao1215/vncfetch/internal/config"
	"github.com/nao1215/vncfetch/internal/history"
)

// NewHistoryCmd creates the history command.
func NewHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show past runs",
		Long: `History lists previous fetch-and-export runs, newest first, as a
Markdown table. Only run metadata is kept: time, country, format, record
count, output file and duration.

Examples:
  # Show the last 20 runs
  vncfetch history

  # Show the last 5 runs
  vncfetch history -n 5`,
		Args: cobra.NoArgs,
		RunE: runHistoryCmd,
	}

	cmd.Flags().IntP("limit", "n", history.DefaultListLimit,
		"Maximum number of runs to show")

	return cmd
}

// runHistoryCmd executes the history command.
func runHistoryCmd(cmd *cobra.Command, _ []string) error {
	limit, err := cmd.Flags().GetInt("limit")
	if err != nil {
		return err
	}

	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}

	db, err := history.Open(cfg.DBDir, history.Options{CreateIfNotExists: false})
	if err != nil {
		if errors.Is(err, history.ErrDatabaseNotFound) {
			fmt.Fprintln(cmd.OutOrStdout(), "No runs recorded yet.")
			return nil
		}
		return err
	}
	defer db.Close()

	runs, err := db.ListRuns(context.Background(), limit)
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No runs recorded yet.")
		return nil
	}

	return writeHistory(cmd, runs)
}

// writeHistory prints runs as a Markdown table.
func writeHistory(cmd *cobra.Command, runs []history.Run) error {
	rows := make([][]string, 0, len(runs))
	for _, r := range runs {
		format := r.Format
		if r.DownloadImages {
			format += " + images"
		}
		rows = append(rows, []string{
			r.StartedAt.Local().Format(time.DateTime),
			r.Country,
			format,
			strconv.Itoa(r.Records),
			r.OutputPath,
			fmt.Sprintf("%.2fs", r.Elapsed.Seconds()),
		})
	}

	md := markdown.NewMarkdown(cmd.OutOrStdout())
	md.H2(config.AppName + " run history")
	md.PlainText("")
	md.Table(markdown.TableSet{
		Header: []string{"Started", "Country", "Format", "Records", "Output", "Elapsed"},
		Rows:   rows,
	})
	return md.Build()
}
