package renewal

import (
	"context"
	"testing"
)

type fakeAppChecker struct {
	known map[string]bool
}

func (f *fakeAppChecker) Exists(ctx context.Context, appID string) (bool, error) {
	return f.known[appID], nil
}

func TestSweepOnce(t *testing.T) {
	blobs := newFakeBlobs()
	// fakeBlobs reports a zero LastModified, so every object is past the
	// grace period
	blobs.objects["renewals/owned-app/file1.pdf"] = []byte("pdf")
	blobs.objects["renewals/orphan-app/file1.pdf"] = []byte("pdf")
	blobs.objects["renewals/orphan-app/file2.pdf"] = []byte("pdf")

	sweeper := NewOrphanSweeper(&OrphanSweeperConfig{
		Apps:         &fakeAppChecker{known: map[string]bool{"owned-app": true}},
		Blobs:        blobs,
		Logger:       silentLogger(),
		IntervalSec:  3600,
		GraceMinutes: 60,
	})

	if err := sweeper.SweepOnce(context.Background()); err != nil {
		t.Fatalf("SweepOnce() failed: %v", err)
	}

	if _, ok := blobs.objects["renewals/owned-app/file1.pdf"]; !ok {
		t.Error("Blob belonging to an existing application must survive the sweep")
	}
	if blobs.count() != 1 {
		t.Errorf("Expected orphaned blobs deleted, %d objects remain", blobs.count())
	}
}

func TestAppIDFromKey(t *testing.T) {
	tests := []struct {
		key  string
		want string
	}{
		{"renewals/abc-123/file.pdf", "abc-123"},
		{"other/abc-123/file.pdf", ""},
		{"renewals/abc-123", ""},
	}
	for _, tt := range tests {
		if got := appIDFromKey(tt.key); got != tt.want {
			t.Errorf("appIDFromKey(%q) = %q, want %q", tt.key, got, tt.want)
		}
	}
}
