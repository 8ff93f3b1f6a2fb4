package history

import (
	"context"
	"time"

	"github.com/nao1215/vncfetch/internal/model"
)

// Outcome describes a finished run as seen by the code that performed it.
type Outcome struct {
	StartedAt  time.Time
	Country    string
	Target     model.ExportTarget
	Records    int
	OutputPath string
	Elapsed    time.Duration
}

// Record saves an outcome as a Run. It lets a RunDB act as the run
// recorder of the interactive shell and the export command.
func (rdb *RunDB) Record(ctx context.Context, o Outcome) error {
	return rdb.SaveRun(ctx, &Run{
		StartedAt:      o.StartedAt,
		Country:        o.Country,
		Format:         o.Target.Format.String(),
		DownloadImages: o.Target.DownloadImages,
		Records:        o.Records,
		OutputPath:     o.OutputPath,
		Elapsed:        o.Elapsed,
	})
}
