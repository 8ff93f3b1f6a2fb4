package report

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path"
	"path/filepath"
	"strings"

	"github.com/nao1215/vncfetch/internal/model"
)

// imageExt is the extension of stored screenshots. The resolver serves PNG.
const imageExt = ".png"

// ErrMissingID is returned when a screenshot must be stored for a record
// that has no id to name the file after.
var ErrMissingID = errors.New("record has no id")

// ImageFetcher downloads the bytes behind an image URL.
// *resolver.Client satisfies it.
type ImageFetcher interface {
	Screenshot(ctx context.Context, imageURL string) ([]byte, error)
}

// ImageDownloader stores the screenshot of every record under a directory
// next to the report.
type ImageDownloader struct {
	fetcher    ImageFetcher
	dir        string
	skipFailed bool
	logger     *slog.Logger
}

// NewImageDownloader creates an ImageDownloader storing images in dir,
// a path relative to the report's directory.
func NewImageDownloader(fetcher ImageFetcher, dir string, skipFailed bool, logger *slog.Logger) *ImageDownloader {
	if logger == nil {
		logger = slog.Default()
	}
	return &ImageDownloader{
		fetcher:    fetcher,
		dir:        dir,
		skipFailed: skipFailed,
		logger:     logger,
	}
}

// Download fetches every screenshot in order and writes it to
// <baseDir>/<dir>/<id>.png. It returns the <img> source of each record,
// relative to baseDir. With skipFailed set, a failed record keeps its remote
// image link and a warning is logged; otherwise the first failure is returned.
func (d *ImageDownloader) Download(ctx context.Context, rs *model.ResultSet, baseDir string) ([]string, error) {
	imageDir := filepath.Join(baseDir, d.dir)
	sources := make([]string, rs.Count())

	for i, rec := range rs.Results {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		src, err := d.downloadOne(ctx, rec, imageDir)
		if err != nil {
			if !d.skipFailed || errors.Is(err, ErrFilesystem) {
				return nil, fmt.Errorf("failed to store image of record %q: %w", rec.ID(), err)
			}
			d.logger.Warn("image download failed, keeping remote link",
				"id", rec.ID(),
				"url", rec.ImageLink(),
				"error", err,
			)
			sources[i] = rec.ImageLink()
			continue
		}
		sources[i] = src
	}

	return sources, nil
}

// downloadOne fetches and stores one screenshot and returns its source path.
func (d *ImageDownloader) downloadOne(ctx context.Context, rec *model.Record, imageDir string) (string, error) {
	if !rec.HasID() {
		return "", ErrMissingID
	}

	d.logger.Info("fetching image", "id", rec.ID())
	data, err := d.fetcher.Screenshot(ctx, rec.ImageLink())
	if err != nil {
		return "", err
	}

	name := ImageFileName(rec.ID())
	err = writeFileAtomic(filepath.Join(imageDir, name), func(w io.Writer) error {
		_, err := w.Write(data)
		return err
	})
	if err != nil {
		return "", err
	}

	// The source is a URL path, so it always uses forward slashes.
	return path.Join(filepath.ToSlash(d.dir), name), nil
}

// ImageFileName returns the file name of a record's screenshot.
// Characters that are unsafe in a file name or URL path become "_".
func ImageFileName(id string) string {
	var b strings.Builder
	for _, r := range id {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_', r == '.':
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}

	name := b.String()
	if name == "" || strings.Trim(name, ".") == "" {
		name = "_" + name
	}
	return name + imageExt
}
