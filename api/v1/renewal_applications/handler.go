package renewal_applications

import (
	"encoding/json"
	"errors"

	"certhub/internal/fileintake"
	"certhub/internal/httpx"
	"certhub/internal/model"
	"certhub/internal/storage"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// FileLink is a stored file reference with a time-limited download URL
type FileLink struct {
	OriginalName string `json:"originalName"`
	Size         int64  `json:"size"`
	MIME         string `json:"mime"`
	Kind         string `json:"kind"`
	DownloadURL  string `json:"downloadUrl,omitempty"`
}

// ApplicationItem is an application row with resolved file links
type ApplicationItem struct {
	model.RenewalApplication
	FileLinks []FileLink `json:"fileLinks"`
}

// ListHandler returns the caller's renewal applications, newest first
func ListHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		uid := c.GetInt("uid")

		var apps []model.RenewalApplication
		if err := db.Where("user_id = ?", uid).Order("submitted_at DESC").Find(&apps).Error; err != nil {
			httpx.FailErr(c, httpx.ErrDatabaseError("failed to list applications", err))
			return
		}

		httpx.OK(c, apps)
	}
}

// GetHandler returns one owned application with presigned download URLs
// for its evidence files
func GetHandler(db *gorm.DB, blobs *storage.MinioService) gin.HandlerFunc {
	return func(c *gin.Context) {
		uid := c.GetInt("uid")

		var app model.RenewalApplication
		if err := db.Where("app_id = ? AND user_id = ?", c.Param("appId"), uid).First(&app).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				httpx.FailErr(c, httpx.ErrNotFound("application not found"))
				return
			}
			httpx.FailErr(c, httpx.ErrDatabaseError("failed to load application", err))
			return
		}

		var refs []fileintake.UploadedFile
		if err := json.Unmarshal(app.FilesJSON, &refs); err != nil {
			httpx.FailErr(c, httpx.ErrInternalError("corrupt file references", err))
			return
		}

		links := make([]FileLink, 0, len(refs))
		for _, ref := range refs {
			link := FileLink{
				OriginalName: ref.OriginalName,
				Size:         ref.Size,
				MIME:         ref.MIME,
				Kind:         string(ref.Kind),
			}
			// A URL failure degrades to a link without a download; the
			// application itself still renders
			if url, err := blobs.PresignedURL(c.Request.Context(), ref.StorageKey); err == nil {
				link.DownloadURL = url
			}
			links = append(links, link)
		}

		httpx.OK(c, ApplicationItem{
			RenewalApplication: app,
			FileLinks:          links,
		})
	}
}
