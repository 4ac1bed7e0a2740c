package renewal

import (
	"context"
	"strings"
	"time"

	"certhub/internal/storage"

	"github.com/sirupsen/logrus"
)

// BlobLister is the slice of object storage the sweeper needs
type BlobLister interface {
	ListPrefix(ctx context.Context, prefix string) ([]storage.ObjectInfo, error)
	DeleteBlob(ctx context.Context, key string) error
}

// ApplicationChecker answers whether an application record exists
type ApplicationChecker interface {
	Exists(ctx context.Context, appID string) (bool, error)
}

// OrphanSweeper reconciles object storage against the application table.
// A crash between upload and record write can leave blobs with no owning
// application; the sweeper deletes any such blob older than the grace
// period.
type OrphanSweeper struct {
	ctx      context.Context
	cancel   context.CancelFunc
	apps     ApplicationChecker
	blobs    BlobLister
	logger   *logrus.Entry
	interval time.Duration
	grace    time.Duration
}

// OrphanSweeperConfig holds the configuration for the sweeper
type OrphanSweeperConfig struct {
	Apps         ApplicationChecker
	Blobs        BlobLister
	Logger       *logrus.Entry
	IntervalSec  int
	GraceMinutes int
}

// NewOrphanSweeper creates a sweeper
func NewOrphanSweeper(cfg *OrphanSweeperConfig) *OrphanSweeper {
	ctx, cancel := context.WithCancel(context.Background())
	return &OrphanSweeper{
		ctx:      ctx,
		cancel:   cancel,
		apps:     cfg.Apps,
		blobs:    cfg.Blobs,
		logger:   cfg.Logger.WithField("component", "orphan-sweeper"),
		interval: time.Duration(cfg.IntervalSec) * time.Second,
		grace:    time.Duration(cfg.GraceMinutes) * time.Minute,
	}
}

// Start runs the sweep loop until Stop is called
func (s *OrphanSweeper) Start() {
	go func() {
		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		s.logger.WithField("interval", s.interval).Info("orphan sweeper started")
		for {
			select {
			case <-s.ctx.Done():
				s.logger.Info("orphan sweeper stopped")
				return
			case <-ticker.C:
				if err := s.SweepOnce(s.ctx); err != nil {
					s.logger.WithError(err).Warn("orphan sweep failed")
				}
			}
		}
	}()
}

// Stop terminates the sweep loop
func (s *OrphanSweeper) Stop() {
	s.cancel()
}

// SweepOnce scans the renewals namespace and deletes blobs whose
// application id has no record and whose objects are past the grace period.
func (s *OrphanSweeper) SweepOnce(ctx context.Context) error {
	objects, err := s.blobs.ListPrefix(ctx, "renewals/")
	if err != nil {
		return err
	}

	cutoff := time.Now().Add(-s.grace)
	checked := make(map[string]bool)
	deleted := 0

	for _, obj := range objects {
		if obj.LastModified.After(cutoff) {
			continue
		}
		appID := appIDFromKey(obj.Key)
		if appID == "" {
			continue
		}

		exists, ok := checked[appID]
		if !ok {
			exists, err = s.apps.Exists(ctx, appID)
			if err != nil {
				return err
			}
			checked[appID] = exists
		}
		if exists {
			continue
		}

		if err := s.blobs.DeleteBlob(ctx, obj.Key); err != nil {
			s.logger.WithError(err).WithField("key", obj.Key).Warn("failed to delete orphaned blob")
			continue
		}
		deleted++
	}

	if deleted > 0 {
		s.logger.WithField("deleted", deleted).Info("swept orphaned blobs")
	}
	return nil
}

// appIDFromKey extracts the application id from "renewals/<appID>/<file>"
func appIDFromKey(key string) string {
	parts := strings.SplitN(key, "/", 3)
	if len(parts) != 3 || parts[0] != "renewals" {
		return ""
	}
	return parts[1]
}
