package tasks

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/mikestefanello/backlite"
)

// ImageReferencer reports every image path still referenced by a listing.
type ImageReferencer interface {
	ImagePaths() ([]string, error)
}

// OrphanSweeper deletes stored files that no listing references.
type OrphanSweeper interface {
	SweepOrphans(referenced []string) (int, error)
}

// SweepOrphanUploadsTask deletes uploaded images left behind by replaced or
// deleted listings.
type SweepOrphanUploadsTask struct{}

// Config returns the queue configuration for the upload sweep.
func (t SweepOrphanUploadsTask) Config() backlite.QueueConfig {
	return backlite.QueueConfig{
		Name:        "sweep_orphan_uploads",
		MaxAttempts: 3,
		Backoff:     5 * time.Minute,
		Timeout:     5 * time.Minute,
		Retention: &backlite.Retention{
			Duration:   24 * time.Hour,
			OnlyFailed: false,
			Data:       &backlite.RetainData{OnlyFailed: true},
		},
	}
}

// NewSweepOrphanUploadsQueue creates the backlite queue for the upload
// sweep.
func NewSweepOrphanUploadsQueue(referencer ImageReferencer, sweeper OrphanSweeper) backlite.Queue {
	return backlite.NewQueue(func(ctx context.Context, task SweepOrphanUploadsTask) error {
		if referencer == nil || sweeper == nil {
			return fmt.Errorf("upload sweep not configured")
		}

		referenced, err := referencer.ImagePaths()
		if err != nil {
			return fmt.Errorf("list referenced images: %w", err)
		}

		removed, err := sweeper.SweepOrphans(referenced)
		if err != nil {
			return fmt.Errorf("sweep orphan uploads: %w", err)
		}

		log.Printf("[TASK] Swept %d orphaned upload(s)", removed)
		return nil
	})
}
