package shell

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/nao1215/vncfetch/internal/history"
	"github.com/nao1215/vncfetch/internal/model"
	"github.com/nao1215/vncfetch/internal/spinner"
)

// FilenameLayout is the time layout of report file names (DD-MM-YYYY-HH.MM.SS).
const FilenameLayout = "02-01-2006-15.04.05"

// Prompts printed by the session.
const (
	promptCountry  = "Enter the 2-letter ISO country code: "
	promptChoice   = "Enter your choice (1/2/3): "
	promptDownload = "Do you want to download the image files? (Yes/No): "
)

// Fetcher runs a country search. *resolver.Client satisfies it.
type Fetcher interface {
	Search(ctx context.Context, countryCode string) (*model.ResultSet, error)
}

// Exporter writes a result set to path. *report.Exporter satisfies it.
type Exporter interface {
	Export(ctx context.Context, rs *model.ResultSet, target model.ExportTarget, path string) error
}

// Recorder is told about every completed run. *history.RunDB satisfies it.
type Recorder interface {
	Record(ctx context.Context, o history.Outcome) error
}

// Shell drives one fetch-and-export session over a reader and a writer.
type Shell struct {
	in        *bufio.Reader
	out       io.Writer
	fetcher   Fetcher
	exporter  Exporter
	spinner   *spinner.Spinner
	now       func() time.Time
	outputDir string
	recorder  Recorder
	logger    *slog.Logger
	upper     cases.Caser
}

// Option configures a Shell.
type Option func(*Shell)

// WithSpinner sets the progress spinner. By default the spinner is
// disabled.
func WithSpinner(s *spinner.Spinner) Option {
	return func(sh *Shell) {
		sh.spinner = s
	}
}

// WithClock sets the time source used for file names and elapsed time.
func WithClock(now func() time.Time) Option {
	return func(sh *Shell) {
		sh.now = now
	}
}

// WithOutputDir sets the directory reports are written to.
func WithOutputDir(dir string) Option {
	return func(sh *Shell) {
		sh.outputDir = dir
	}
}

// WithRecorder sets the recorder of completed runs.
func WithRecorder(r Recorder) Option {
	return func(sh *Shell) {
		sh.recorder = r
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(sh *Shell) {
		sh.logger = logger
	}
}

// New creates a Shell reading answers from in and printing to out.
func New(in io.Reader, out io.Writer, fetcher Fetcher, exporter Exporter, opts ...Option) *Shell {
	sh := &Shell{
		in:        bufio.NewReader(in),
		out:       out,
		fetcher:   fetcher,
		exporter:  exporter,
		now:       time.Now,
		outputDir: ".",
		logger:    slog.Default(),
		upper:     cases.Upper(language.Und),
	}
	for _, opt := range opts {
		opt(sh)
	}
	if sh.spinner == nil {
		sh.spinner = spinner.New(out, spinner.WithEnabled(false))
	}
	return sh
}

// Run performs one interactive session and returns the outcome of the
// written report. An invalid format choice returns ErrInvalidChoice and
// writes nothing.
func (sh *Shell) Run(ctx context.Context) (*history.Outcome, error) {
	printBanner(sh.out)

	answer, err := sh.prompt(promptCountry)
	if err != nil {
		return nil, err
	}
	country := sh.upper.String(strings.TrimSpace(answer))

	start := sh.now()
	rs, err := sh.fetch(ctx, country)
	if err != nil {
		return nil, err
	}

	target, err := sh.askTarget()
	if err != nil {
		return nil, err
	}

	return sh.export(ctx, rs, target, start)
}

// RunOnce fetches country and exports it to target without prompting.
// It prints the same progress lines as an interactive session.
func (sh *Shell) RunOnce(ctx context.Context, country string, target model.ExportTarget) (*history.Outcome, error) {
	country = sh.upper.String(strings.TrimSpace(country))

	start := sh.now()
	rs, err := sh.fetch(ctx, country)
	if err != nil {
		return nil, err
	}
	return sh.export(ctx, rs, target, start)
}

// fetch searches country while the spinner runs.
func (sh *Shell) fetch(ctx context.Context, country string) (*model.ResultSet, error) {
	fmt.Fprint(sh.out, "Fetching data....")

	h := sh.spinner.Start()
	rs, err := sh.fetcher.Search(ctx, country)
	h.Stop()

	if err != nil {
		fmt.Fprintln(sh.out, "failed")
		return nil, err
	}

	fmt.Fprintln(sh.out, "done")
	fmt.Fprintf(sh.out, "\nFetched %d objects.\n", rs.Count())
	return rs, nil
}

// askTarget shows the format menu and, for HTML, the image question.
func (sh *Shell) askTarget() (model.ExportTarget, error) {
	fmt.Fprintln(sh.out, "How would you like the output to be formatted?")
	for _, item := range menu {
		fmt.Fprintf(sh.out, "%s. %s\n", item.key, item.label)
	}

	answer, err := sh.prompt(promptChoice)
	if err != nil {
		return model.ExportTarget{}, err
	}

	format, err := ParseChoice(answer)
	if err != nil {
		fmt.Fprintln(sh.out, "Invalid choice.")
		return model.ExportTarget{}, fmt.Errorf("%w: %q", err, strings.TrimSpace(answer))
	}

	target := model.ExportTarget{Format: format}
	if format == model.FormatHTML {
		answer, err := sh.prompt(promptDownload)
		if err != nil {
			return model.ExportTarget{}, err
		}
		target.DownloadImages = IsYes(answer)
	}
	return target, nil
}

// export writes the report for rs and prints the completion line.
func (sh *Shell) export(ctx context.Context, rs *model.ResultSet, target model.ExportTarget, start time.Time) (*history.Outcome, error) {
	name := target.Filename(rs.Country + "-" + sh.now().Format(FilenameLayout))
	path := filepath.Join(sh.outputDir, name)

	fmt.Fprintf(sh.out, "Saving as %s\n", target.Format)

	h := sh.spinner.Start()
	err := sh.exporter.Export(ctx, rs, target, path)
	h.Stop()

	if err != nil {
		return nil, err
	}

	elapsed := sh.now().Sub(start)
	fmt.Fprintf(sh.out, "Completed. Output file: %s. Time taken: %.2f seconds.\n", name, elapsed.Seconds())

	outcome := &history.Outcome{
		StartedAt:  start,
		Country:    rs.Country,
		Target:     target,
		Records:    rs.Count(),
		OutputPath: path,
		Elapsed:    elapsed,
	}
	sh.record(ctx, outcome)
	return outcome, nil
}

// record hands outcome to the recorder. Failures are logged only.
func (sh *Shell) record(ctx context.Context, outcome *history.Outcome) {
	if sh.recorder == nil {
		return
	}
	if err := sh.recorder.Record(ctx, *outcome); err != nil {
		sh.logger.Warn("failed to record run in history", "error", err)
	}
}

// prompt prints question and reads one line. A final line without a
// newline is accepted; EOF before any input is an error.
func (sh *Shell) prompt(question string) (string, error) {
	fmt.Fprint(sh.out, question)

	line, err := sh.in.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) && line != "" {
			return strings.TrimRight(line, "\r\n"), nil
		}
		if errors.Is(err, io.EOF) {
			return "", fmt.Errorf("no input: %w", io.ErrUnexpectedEOF)
		}
		return "", fmt.Errorf("failed to read input: %w", err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}
