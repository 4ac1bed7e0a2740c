package fileintake

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// BlobStore is the slice of object storage the uploader needs
type BlobStore interface {
	PutBlob(ctx context.Context, key string, reader io.Reader, size int64, contentType string, metadata map[string]string) (string, error)
	DeletePrefix(ctx context.Context, prefix string) (int, error)
}

// UploadedFile is a durable reference to a stored evidence file
type UploadedFile struct {
	OriginalName string `json:"originalName"`
	Size         int64  `json:"size"`
	MIME         string `json:"mime"`
	Kind         Kind   `json:"kind"`
	StorageKey   string `json:"storageKey"`
}

// Namespace returns the object key prefix for one application's files
func Namespace(appID string) string {
	return fmt.Sprintf("renewals/%s/", appID)
}

// Uploader streams validated files to object storage under an
// application-scoped namespace and supports rollback of the whole
// namespace when a downstream write fails.
type Uploader struct {
	store  BlobStore
	logger *logrus.Entry
}

// NewUploader creates an uploader
func NewUploader(store BlobStore, logger *logrus.Entry) *Uploader {
	return &Uploader{
		store:  store,
		logger: logger.WithField("component", "file-uploader"),
	}
}

// UploadAll uploads every file concurrently under the application's
// namespace, tagging each object with the uploader's identity and the
// upload timestamp. Any single failure fails the whole batch; blobs that
// were already written stay in place for the caller to roll back.
func (u *Uploader) UploadAll(ctx context.Context, appID string, uploaderUID int, files []File) ([]UploadedFile, error) {
	if err := ValidateBatch(files); err != nil {
		return nil, err
	}

	refs := make([]UploadedFile, len(files))
	errs := make([]error, len(files))

	var wg sync.WaitGroup
	for i := range files {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			f := files[i]
			key := Namespace(appID) + uuid.NewString() + "_" + f.Name
			metadata := map[string]string{
				"uploader-uid": strconv.Itoa(uploaderUID),
				"uploaded-at":  time.Now().UTC().Format(time.RFC3339),
				"file-kind":    string(f.Kind),
			}
			storedKey, err := u.store.PutBlob(ctx, key, bytes.NewReader(f.Content), f.Size, f.MIME, metadata)
			if err != nil {
				errs[i] = fmt.Errorf("upload of %q failed: %w", f.Name, err)
				return
			}
			refs[i] = UploadedFile{
				OriginalName: f.Name,
				Size:         f.Size,
				MIME:         f.MIME,
				Kind:         f.Kind,
				StorageKey:   storedKey,
			}
		}(i)
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}
	return refs, nil
}

// Rollback deletes every blob under the application's namespace. A failed
// rollback leaves orphaned files; that condition is logged, not hidden.
func (u *Uploader) Rollback(ctx context.Context, appID string) {
	deleted, err := u.store.DeletePrefix(ctx, Namespace(appID))
	if err != nil {
		u.logger.WithError(err).WithField("appId", appID).
			Error("rollback incomplete, orphaned files may remain in object storage")
		return
	}
	u.logger.WithFields(logrus.Fields{
		"appId":   appID,
		"deleted": deleted,
	}).Info("rolled back uploaded files")
}
