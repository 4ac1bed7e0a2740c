package renewal

import (
	"context"
	"encoding/json"
	"fmt"

	"certhub/internal/fileintake"
	"certhub/internal/model"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// ApplicationStore writes renewal applications to the document store
type ApplicationStore interface {
	Create(ctx context.Context, app *model.RenewalApplication) error
}

// GormApplicationStore persists applications via gorm
type GormApplicationStore struct {
	db *gorm.DB
}

// NewGormApplicationStore creates a gorm-backed application store
func NewGormApplicationStore(db *gorm.DB) *GormApplicationStore {
	return &GormApplicationStore{db: db}
}

// Create inserts the application as a single document create
func (s *GormApplicationStore) Create(ctx context.Context, app *model.RenewalApplication) error {
	if err := s.db.WithContext(ctx).Create(app).Error; err != nil {
		return fmt.Errorf("failed to create renewal application: %w", err)
	}
	return nil
}

// Exists reports whether an application record exists for the id
func (s *GormApplicationStore) Exists(ctx context.Context, appID string) (bool, error) {
	var count int64
	err := s.db.WithContext(ctx).
		Model(&model.RenewalApplication{}).
		Where("app_id = ?", appID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// GormCertificateStore loads certificates via gorm
type GormCertificateStore struct {
	db *gorm.DB
}

// NewGormCertificateStore creates a gorm-backed certificate store
func NewGormCertificateStore(db *gorm.DB) *GormCertificateStore {
	return &GormCertificateStore{db: db}
}

// FindOwned loads a certificate belonging to the user
func (s *GormCertificateStore) FindOwned(ctx context.Context, uid, certID int) (*model.Certificate, error) {
	var cert model.Certificate
	err := s.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", certID, uid).
		First(&cert).Error
	if err != nil {
		return nil, err
	}
	return &cert, nil
}

// Persister performs the two-phase submission: upload files under a
// pre-generated application id, then write the application record. The
// record never references a missing file; a write failure rolls the
// uploads back before the error is surfaced.
type Persister struct {
	apps     ApplicationStore
	uploader *fileintake.Uploader
	logger   *logrus.Entry
}

// NewPersister creates a persister
func NewPersister(apps ApplicationStore, uploader *fileintake.Uploader, logger *logrus.Entry) *Persister {
	return &Persister{
		apps:     apps,
		uploader: uploader,
		logger:   logger.WithField("component", "renewal-persister"),
	}
}

// Submit uploads the draft's files and writes the application record,
// returning the new application id.
func (p *Persister) Submit(ctx context.Context, uid int, draft *Draft) (string, error) {
	if draft == nil || draft.Certificate == nil {
		return "", fmt.Errorf("no draft to submit")
	}
	if draft.Breakdown == nil {
		return "", fmt.Errorf("fee breakdown has not been computed")
	}

	// The id is generated client-side so uploads can be namespaced before
	// the record exists.
	appID := uuid.NewString()

	refs, err := p.uploader.UploadAll(ctx, appID, uid, draft.Files)
	if err != nil {
		p.uploader.Rollback(ctx, appID)
		return "", fmt.Errorf("file upload failed: %w", err)
	}

	app, err := assembleApplication(appID, uid, draft, refs)
	if err != nil {
		p.uploader.Rollback(ctx, appID)
		return "", err
	}

	if err := p.apps.Create(ctx, app); err != nil {
		p.logger.WithError(err).WithField("appId", appID).
			Warn("record write failed after uploads, rolling back blobs")
		p.uploader.Rollback(ctx, appID)
		return "", fmt.Errorf("failed to persist application: %w", err)
	}

	return appID, nil
}

func assembleApplication(appID string, uid int, draft *Draft, refs []fileintake.UploadedFile) (*model.RenewalApplication, error) {
	recipientJSON, err := json.Marshal(draft.Recipient)
	if err != nil {
		return nil, fmt.Errorf("failed to encode recipient: %w", err)
	}
	breakdownJSON, err := json.Marshal(draft.Breakdown)
	if err != nil {
		return nil, fmt.Errorf("failed to encode fee breakdown: %w", err)
	}
	filesJSON, err := json.Marshal(refs)
	if err != nil {
		return nil, fmt.Errorf("failed to encode file references: %w", err)
	}

	return &model.RenewalApplication{
		AppID:         appID,
		UserID:        uid,
		CertificateID: draft.Certificate.ID,
		TypeCode:      draft.Certificate.TypeCode,
		EducationMode: draft.EducationMode,
		DeliveryMode:  draft.DeliveryMode,
		RecipientJSON: recipientJSON,
		BreakdownJSON: breakdownJSON,
		FilesJSON:     filesJSON,
		TotalAmount:   draft.Breakdown.Total,
		Status:        model.RenewalStatusPaymentPending,
		Progress:      25,
	}, nil
}
