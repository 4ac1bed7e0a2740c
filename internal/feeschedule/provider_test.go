package feeschedule

import (
	"context"
	"errors"
	"testing"

	"certhub/internal/model"

	"github.com/sirupsen/logrus"
	"gorm.io/datatypes"
)

type stubSource struct {
	rows []model.FeeScheduleSetting
	err  error
	hits int
}

func (s *stubSource) FetchSettings(ctx context.Context) ([]model.FeeScheduleSetting, error) {
	s.hits++
	if s.err != nil {
		return nil, s.err
	}
	return s.rows, nil
}

func testLogger() *logrus.Entry {
	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)
	return logrus.NewEntry(logger)
}

func remoteRows() []model.FeeScheduleSetting {
	return []model.FeeScheduleSetting{
		{
			TypeCode:           "pilates",
			RenewalFee:         42000,
			DeliveryFee:        6000,
			EducationJSON:      datatypes.JSON(`{"online":64000,"offline":80000,"already-completed":0}`),
			EarlyDiscountRate:  0.10,
			OnlineDiscountRate: 0.20,
		},
	}
}

func TestLoad_Remote(t *testing.T) {
	src := &stubSource{rows: remoteRows()}
	p := NewProvider(src, nil, 0, testLogger())

	snap := p.Load(context.Background())
	if snap.Origin != OriginRemote {
		t.Fatalf("Expected origin remote, got %s", snap.Origin)
	}

	entry, ok := snap.Entry("pilates")
	if !ok {
		t.Fatal("Expected pilates entry")
	}
	if entry.RenewalFee != 42000 {
		t.Errorf("Expected renewal fee 42000, got %d", entry.RenewalFee)
	}
	if entry.Education[model.EducationModeOnline] != 64000 {
		t.Errorf("Expected online education fee 64000, got %d", entry.Education[model.EducationModeOnline])
	}
}

func TestLoad_CachesForSession(t *testing.T) {
	src := &stubSource{rows: remoteRows()}
	p := NewProvider(src, nil, 0, testLogger())

	p.Load(context.Background())
	p.Load(context.Background())

	if src.hits != 1 {
		t.Errorf("Expected a single remote fetch, got %d", src.hits)
	}
}

func TestLoad_FallsBackToDefault(t *testing.T) {
	src := &stubSource{err: errors.New("settings unavailable")}
	p := NewProvider(src, nil, 0, testLogger())

	snap := p.Load(context.Background())
	if snap.Origin != OriginDefault {
		t.Fatalf("Expected origin default, got %s", snap.Origin)
	}

	entry, ok := snap.Entry("pilates")
	if !ok {
		t.Fatal("Default schedule must cover pilates")
	}
	if entry.RenewalFee != 40000 {
		t.Errorf("Expected default renewal fee 40000, got %d", entry.RenewalFee)
	}
}

func TestLoad_CorruptEducationTableDegrades(t *testing.T) {
	rows := remoteRows()
	rows[0].EducationJSON = datatypes.JSON(`not json`)
	src := &stubSource{rows: rows}
	p := NewProvider(src, nil, 0, testLogger())

	snap := p.Load(context.Background())
	if snap.Origin != OriginDefault {
		t.Errorf("Expected corrupt remote data to degrade to default, got %s", snap.Origin)
	}
}

func TestRefresh_ReplacesSnapshotInPlace(t *testing.T) {
	src := &stubSource{rows: remoteRows()}
	p := NewProvider(src, nil, 0, testLogger())

	first := p.Load(context.Background())

	src.rows[0].RenewalFee = 45000
	second := p.Refresh(context.Background())

	if first == second {
		t.Error("Refresh should produce a new snapshot")
	}
	entry, _ := second.Entry("pilates")
	if entry.RenewalFee != 45000 {
		t.Errorf("Expected refreshed fee 45000, got %d", entry.RenewalFee)
	}

	// the provider now serves the new snapshot
	cur := p.Current()
	if cur != second {
		t.Error("Current() should return the refreshed snapshot")
	}

	// the old snapshot is untouched, so an in-flight calculation holding it
	// keeps consistent values
	oldEntry, _ := first.Entry("pilates")
	if oldEntry.RenewalFee != 42000 {
		t.Errorf("Old snapshot must not change, got %d", oldEntry.RenewalFee)
	}
}

func TestRefresh_RemoteFailureKeepsServingDefault(t *testing.T) {
	src := &stubSource{err: errors.New("down")}
	p := NewProvider(src, nil, 0, testLogger())

	snap := p.Refresh(context.Background())
	if snap == nil {
		t.Fatal("Refresh must never return nil")
	}
	if snap.Origin != OriginDefault {
		t.Errorf("Expected default origin, got %s", snap.Origin)
	}
}

func TestDefaultSchedule_CoversAllEducationModes(t *testing.T) {
	for typeCode, entry := range DefaultSchedule() {
		for _, mode := range []model.EducationMode{
			model.EducationModeOnline,
			model.EducationModeOffline,
			model.EducationModeAlreadyCompleted,
		} {
			if _, ok := entry.Education[mode]; !ok {
				t.Errorf("Type %s missing education fee for mode %s", typeCode, mode)
			}
		}
	}
}
