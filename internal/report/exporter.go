package report

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"

	"github.com/nao1215/vncfetch/internal/model"
)

// DefaultImageDir is the screenshot directory used when none is configured.
const DefaultImageDir = "images"

// ErrUnsupportedFormat is returned for a format no writer exists for.
var ErrUnsupportedFormat = errors.New("unsupported output format")

// Exporter writes a result set to a file in the format of an ExportTarget.
type Exporter struct {
	images           ImageFetcher
	imageDir         string
	skipFailedImages bool
	logger           *slog.Logger
}

// ExporterOption configures an Exporter.
type ExporterOption func(*Exporter)

// WithImageFetcher sets the client used to download screenshots.
// It is required for HTML targets with local images.
func WithImageFetcher(f ImageFetcher) ExporterOption {
	return func(e *Exporter) {
		e.images = f
	}
}

// WithImageDir sets the screenshot directory, relative to the report.
func WithImageDir(dir string) ExporterOption {
	return func(e *Exporter) {
		if dir != "" {
			e.imageDir = dir
		}
	}
}

// WithSkipFailedImages keeps the remote link of screenshots that fail to
// download instead of aborting the export.
func WithSkipFailedImages(skip bool) ExporterOption {
	return func(e *Exporter) {
		e.skipFailedImages = skip
	}
}

// WithExporterLogger sets the logger.
func WithExporterLogger(logger *slog.Logger) ExporterOption {
	return func(e *Exporter) {
		e.logger = logger
	}
}

// NewExporter creates an Exporter.
func NewExporter(opts ...ExporterOption) *Exporter {
	e := &Exporter{
		imageDir: DefaultImageDir,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Export writes rs to path in the target's format. The file appears only
// once it is complete. Screenshots for local-image HTML targets are stored
// next to path before the page is written.
func (e *Exporter) Export(ctx context.Context, rs *model.ResultSet, target model.ExportTarget, path string) error {
	newWriter, err := e.writerFor(ctx, rs, target, filepath.Dir(path))
	if err != nil {
		return err
	}

	e.logger.Debug("exporting", "format", target.Format, "path", path, "records", rs.Count())

	return writeFileAtomic(path, func(w io.Writer) error {
		if _, err := newWriter(w).Write(rs); err != nil {
			return fmt.Errorf("failed to render %s report: %w", target.Format, err)
		}
		return nil
	})
}

// writerFor returns a constructor for the target's writer, downloading
// screenshots first when the target needs them.
func (e *Exporter) writerFor(ctx context.Context, rs *model.ResultSet, target model.ExportTarget, baseDir string) (func(io.Writer) Writer, error) {
	switch target.Format {
	case model.FormatJSON:
		return func(w io.Writer) Writer { return NewJSONWriter(w) }, nil
	case model.FormatXML:
		return func(w io.Writer) Writer { return NewXMLWriter(w) }, nil
	case model.FormatMarkdown:
		return func(w io.Writer) Writer { return NewMarkdownWriter(w) }, nil
	case model.FormatHTML:
		if !target.DownloadImages {
			return func(w io.Writer) Writer { return NewHTMLWriter(w) }, nil
		}
		if e.images == nil {
			return nil, errors.New("image download requested but no image fetcher is configured")
		}
		downloader := NewImageDownloader(e.images, e.imageDir, e.skipFailedImages, e.logger)
		sources, err := downloader.Download(ctx, rs, baseDir)
		if err != nil {
			return nil, err
		}
		return func(w io.Writer) Writer {
			return NewHTMLWriter(w, WithImageSources(sources))
		}, nil
	default:
		return nil, fmt.Errorf("%w: %v", ErrUnsupportedFormat, target.Format)
	}
}
