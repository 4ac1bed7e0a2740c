package feeschedule

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"certhub/internal/model"

	"github.com/go-redis/redis/v8"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

const mirrorKey = "feeschedule:snapshot"

// Source fetches fee schedule settings from the remote configuration store
type Source interface {
	FetchSettings(ctx context.Context) ([]model.FeeScheduleSetting, error)
}

// GormSource reads fee schedule settings from the settings table
type GormSource struct {
	db *gorm.DB
}

// NewGormSource creates a settings-table source
func NewGormSource(db *gorm.DB) *GormSource {
	return &GormSource{db: db}
}

// FetchSettings loads all fee schedule rows
func (s *GormSource) FetchSettings(ctx context.Context) ([]model.FeeScheduleSetting, error) {
	var rows []model.FeeScheduleSetting
	if err := s.db.WithContext(ctx).Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch fee schedule settings: %w", err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("fee schedule settings table is empty")
	}
	return rows, nil
}

// Provider resolves and caches the session fee schedule. Load never fails
// outward: a remote failure degrades to the redis mirror, then to the
// built-in default table, flagged by Snapshot.Origin for UI messaging.
type Provider struct {
	source    Source
	rdb       *redis.Client
	mirrorTTL time.Duration
	logger    *logrus.Entry

	mu      sync.RWMutex
	current *Snapshot
}

// NewProvider creates a fee schedule provider. rdb may be nil to disable
// the mirror.
func NewProvider(source Source, rdb *redis.Client, mirrorTTL time.Duration, logger *logrus.Entry) *Provider {
	return &Provider{
		source:    source,
		rdb:       rdb,
		mirrorTTL: mirrorTTL,
		logger:    logger.WithField("component", "fee-schedule-provider"),
	}
}

// Load returns the session-cached snapshot, loading it on first use.
func (p *Provider) Load(ctx context.Context) *Snapshot {
	p.mu.RLock()
	cur := p.current
	p.mu.RUnlock()
	if cur != nil {
		return cur
	}
	return p.Refresh(ctx)
}

// Current returns the cached snapshot without triggering a load; nil if
// nothing has been loaded yet.
func (p *Provider) Current() *Snapshot {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.current
}

// Refresh forces a reload from the remote source and replaces the cached
// snapshot in place. Callers holding an older snapshot keep computing
// against it; subsequent calculations see the new one.
func (p *Provider) Refresh(ctx context.Context) *Snapshot {
	snap := p.resolve(ctx)

	p.mu.Lock()
	p.current = snap
	p.mu.Unlock()

	return snap
}

func (p *Provider) resolve(ctx context.Context) *Snapshot {
	rows, err := p.source.FetchSettings(ctx)
	if err == nil {
		schedule, convErr := settingsToSchedule(rows)
		if convErr == nil {
			snap := &Snapshot{Schedule: schedule, Origin: OriginRemote, LoadedAt: time.Now()}
			p.writeMirror(ctx, snap)
			return snap
		}
		err = convErr
	}

	p.logger.WithError(err).Warn("remote fee schedule unavailable, degrading")

	if mirrored := p.readMirror(ctx); mirrored != nil {
		return mirrored
	}

	return &Snapshot{Schedule: DefaultSchedule(), Origin: OriginDefault, LoadedAt: time.Now()}
}

func settingsToSchedule(rows []model.FeeScheduleSetting) (Schedule, error) {
	schedule := make(Schedule, len(rows))
	for _, row := range rows {
		var education map[model.EducationMode]int
		if err := json.Unmarshal(row.EducationJSON, &education); err != nil {
			return nil, fmt.Errorf("invalid education fee table for type %q: %w", row.TypeCode, err)
		}
		schedule[row.TypeCode] = Entry{
			RenewalFee:         row.RenewalFee,
			DeliveryFee:        row.DeliveryFee,
			Education:          education,
			EarlyDiscountRate:  row.EarlyDiscountRate,
			OnlineDiscountRate: row.OnlineDiscountRate,
		}
	}
	return schedule, nil
}

func (p *Provider) writeMirror(ctx context.Context, snap *Snapshot) {
	if p.rdb == nil || p.mirrorTTL <= 0 {
		return
	}
	data, err := json.Marshal(snap.Schedule)
	if err != nil {
		p.logger.WithError(err).Warn("failed to marshal fee schedule mirror")
		return
	}
	if err := p.rdb.Set(ctx, mirrorKey, data, p.mirrorTTL).Err(); err != nil {
		p.logger.WithError(err).Warn("failed to write fee schedule mirror")
	}
}

func (p *Provider) readMirror(ctx context.Context) *Snapshot {
	if p.rdb == nil {
		return nil
	}
	data, err := p.rdb.Get(ctx, mirrorKey).Bytes()
	if err != nil {
		if err != redis.Nil {
			p.logger.WithError(err).Warn("failed to read fee schedule mirror")
		}
		return nil
	}
	var schedule Schedule
	if err := json.Unmarshal(data, &schedule); err != nil {
		p.logger.WithError(err).Warn("corrupt fee schedule mirror, ignoring")
		return nil
	}
	return &Snapshot{Schedule: schedule, Origin: OriginMirror, LoadedAt: time.Now()}
}
