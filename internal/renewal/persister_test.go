package renewal

import (
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"certhub/internal/feeschedule"
	"certhub/internal/fileintake"
	"certhub/internal/model"
)

func reviewedDraft() *Draft {
	snap := &feeschedule.Snapshot{
		Schedule: feeschedule.DefaultSchedule(),
		Origin:   feeschedule.OriginDefault,
		LoadedAt: testNow,
	}
	cert := &model.Certificate{
		BaseModel: model.BaseModel{ID: 1},
		UserID:    7,
		TypeCode:  "pilates",
		ExpiresAt: testNow.Add(70 * 24 * time.Hour),
		Status:    model.CertificateStatusActive,
	}
	breakdown, err := ComputeFees(snap, "pilates", model.EducationModeOnline, model.DeliveryModeBoth, cert.ExpiresAt, testNow)
	if err != nil {
		panic(err)
	}
	return &Draft{
		Certificate:   cert,
		Schedule:      snap,
		EducationMode: model.EducationModeOnline,
		DeliveryMode:  model.DeliveryModeBoth,
		Recipient:     model.Recipient{Name: "Kim Jiwoo", Phone: "010-1234-5678", Address: "12 Teheran-ro, Seoul"},
		Files: []fileintake.File{
			evidenceFile("a.pdf"),
			evidenceFile("b.pdf"),
		},
		Breakdown: &breakdown,
	}
}

func TestPersisterSubmit(t *testing.T) {
	blobs := newFakeBlobs()
	apps := &fakeAppStore{}
	p := NewPersister(apps, fileintake.NewUploader(blobs, silentLogger()), silentLogger())

	appID, err := p.Submit(context.Background(), 7, reviewedDraft())
	if err != nil {
		t.Fatalf("Submit() failed: %v", err)
	}

	if len(apps.apps) != 1 {
		t.Fatalf("Expected 1 application record, got %d", len(apps.apps))
	}
	app := apps.apps[0]
	if app.AppID != appID {
		t.Errorf("Record id %s does not match returned id %s", app.AppID, appID)
	}
	if app.UserID != 7 {
		t.Errorf("Expected user 7, got %d", app.UserID)
	}
	if app.Status != model.RenewalStatusPaymentPending {
		t.Errorf("Expected payment_pending, got %s", app.Status)
	}

	// every persisted file reference points at an uploaded blob
	var refs []fileintake.UploadedFile
	if err := json.Unmarshal(app.FilesJSON, &refs); err != nil {
		t.Fatalf("Failed to decode file references: %v", err)
	}
	if len(refs) != 2 {
		t.Fatalf("Expected 2 file references, got %d", len(refs))
	}
	for _, ref := range refs {
		if !strings.HasPrefix(ref.StorageKey, fileintake.Namespace(appID)) {
			t.Errorf("Reference %s not under application namespace", ref.StorageKey)
		}
		if _, ok := blobs.objects[ref.StorageKey]; !ok {
			t.Errorf("Reference %s points at a missing blob", ref.StorageKey)
		}
	}
}

func TestPersisterSubmit_RollbackOnRecordWriteFailure(t *testing.T) {
	blobs := newFakeBlobs()
	apps := &fakeAppStore{failing: true}
	p := NewPersister(apps, fileintake.NewUploader(blobs, silentLogger()), silentLogger())

	if _, err := p.Submit(context.Background(), 7, reviewedDraft()); err == nil {
		t.Fatal("Expected submit failure")
	}

	// both uploaded blobs were deleted and no record exists
	if blobs.count() != 0 {
		t.Errorf("Expected all blobs rolled back, %d remain", blobs.count())
	}
	if len(apps.apps) != 0 {
		t.Errorf("Expected no application record, got %d", len(apps.apps))
	}
}

func TestPersisterSubmit_UploadFailureWritesNoRecord(t *testing.T) {
	blobs := newFakeBlobs()
	blobs.failOn = "b.pdf"
	apps := &fakeAppStore{}
	p := NewPersister(apps, fileintake.NewUploader(blobs, silentLogger()), silentLogger())

	if _, err := p.Submit(context.Background(), 7, reviewedDraft()); err == nil {
		t.Fatal("Expected submit failure")
	}

	if len(apps.apps) != 0 {
		t.Error("No record may be written when any upload fails")
	}
	if blobs.count() != 0 {
		t.Errorf("Partial uploads must be rolled back, %d remain", blobs.count())
	}
}

func TestPersisterSubmit_RequiresReviewedDraft(t *testing.T) {
	blobs := newFakeBlobs()
	apps := &fakeAppStore{}
	p := NewPersister(apps, fileintake.NewUploader(blobs, silentLogger()), silentLogger())

	draft := reviewedDraft()
	draft.Breakdown = nil

	if _, err := p.Submit(context.Background(), 7, draft); err == nil {
		t.Error("Expected error for draft without computed breakdown")
	}
}
