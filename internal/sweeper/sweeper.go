// Package sweeper removes stored files that no media row points at.
//
// A crash between writing a file and inserting its row leaves the file behind;
// the request's own cleanup never runs in that case.
package sweeper

import (
	"context"
	"log/slog"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/princekumarofficial/tourism-media-service/internal/blobstore"
	"github.com/princekumarofficial/tourism-media-service/internal/config"
)

// Referencer reports whether a stored file still belongs to a media row.
type Referencer interface {
	MediaFileReferenced(ctx context.Context, filePath string) (bool, error)
}

// tempReaper is implemented by stores that stage writes in temp files.
type tempReaper interface {
	RemoveStaleTemp(ctx context.Context, cutoff time.Time) (int, int64, error)
}

// Result summarizes one sweep.
type Result struct {
	Scanned     int
	Orphaned    int
	Removed     int
	TempRemoved int
	Bytes       int64
}

type Sweeper struct {
	refs     Referencer
	blobs    blobstore.Store
	interval time.Duration
	grace    time.Duration
	dryRun   bool
	logger   *slog.Logger
	now      func() time.Time
}

func New(refs Referencer, blobs blobstore.Store, cfg config.Sweeper, logger *slog.Logger) *Sweeper {
	if logger == nil {
		logger = slog.Default()
	}
	return &Sweeper{
		refs:     refs,
		blobs:    blobs,
		interval: cfg.Interval,
		grace:    cfg.GracePeriod,
		dryRun:   cfg.DryRun,
		logger:   logger,
		now:      time.Now,
	}
}

// Start sweeps once immediately, then on every tick until ctx is canceled.
func (s *Sweeper) Start(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.logger.Info("Orphan sweeper started",
		"interval", s.interval.String(),
		"grace_period", s.grace.String(),
		"dry_run", s.dryRun)

	s.run(ctx)

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("Orphan sweeper shutting down")
			return
		case <-ticker.C:
			s.run(ctx)
		}
	}
}

func (s *Sweeper) run(ctx context.Context) {
	startTime := time.Now()

	res, err := s.Sweep(ctx)
	if err != nil {
		s.logger.Error("Orphan sweep failed",
			"error", err.Error(),
			"duration_ms", time.Since(startTime).Milliseconds())
		return
	}

	s.logger.Info("Completed orphan sweep",
		"scanned", res.Scanned,
		"orphaned", res.Orphaned,
		"removed", res.Removed,
		"temp_removed", res.TempRemoved,
		"reclaimed", humanize.IBytes(uint64(res.Bytes)),
		"duration_ms", time.Since(startTime).Milliseconds())
}

// Sweep deletes files older than the grace period that no row references,
// along with temp files of writes that never finished.
// Younger files may belong to an upload that is still in flight.
func (s *Sweeper) Sweep(ctx context.Context) (Result, error) {
	var res Result
	cutoff := s.now().Add(-s.grace)

	if tr, ok := s.blobs.(tempReaper); ok && !s.dryRun {
		n, size, err := tr.RemoveStaleTemp(ctx, cutoff)
		res.TempRemoved = n
		res.Bytes += size
		if err != nil {
			return res, err
		}
	}

	objects, err := s.blobs.List(ctx)
	if err != nil {
		return res, err
	}

	for _, obj := range objects {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		res.Scanned++

		if obj.ModTime.After(cutoff) {
			continue
		}

		referenced, err := s.refs.MediaFileReferenced(ctx, obj.Name)
		if err != nil {
			return res, err
		}
		if referenced {
			continue
		}
		res.Orphaned++

		if s.dryRun {
			s.logger.Info("Would remove orphaned file", "file", obj.Name, "size", obj.Size)
			continue
		}

		if err := s.blobs.Delete(ctx, obj.Name); err != nil {
			s.logger.Error("Failed to remove orphaned file", "file", obj.Name, "error", err.Error())
			continue
		}
		res.Removed++
		res.Bytes += obj.Size
	}

	return res, nil
}
