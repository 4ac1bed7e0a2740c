package certificates

import (
	"errors"
	"math"
	"time"

	"certhub/internal/httpx"
	"certhub/internal/model"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// CertificateItem is a certificate row enriched with renewal hints
type CertificateItem struct {
	model.Certificate
	DaysUntilExpiry int  `json:"daysUntilExpiry"`
	Renewable       bool `json:"renewable"`
}

// ListHandler returns the caller's certificates, newest expiry first
func ListHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		uid := c.GetInt("uid")

		var certs []model.Certificate
		if err := db.Where("user_id = ?", uid).Order("expires_at DESC").Find(&certs).Error; err != nil {
			httpx.FailErr(c, httpx.ErrDatabaseError("failed to list certificates", err))
			return
		}

		now := time.Now()
		items := make([]CertificateItem, 0, len(certs))
		for _, cert := range certs {
			items = append(items, CertificateItem{
				Certificate:     cert,
				DaysUntilExpiry: int(math.Ceil(cert.ExpiresAt.Sub(now).Hours() / 24)),
				Renewable:       cert.Renewable(now),
			})
		}

		httpx.OK(c, items)
	}
}

// GetHandler returns one owned certificate
func GetHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		uid := c.GetInt("uid")

		var cert model.Certificate
		if err := db.Where("id = ? AND user_id = ?", c.Param("id"), uid).First(&cert).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				httpx.FailErr(c, httpx.ErrNotFound("certificate not found"))
				return
			}
			httpx.FailErr(c, httpx.ErrDatabaseError("failed to load certificate", err))
			return
		}

		now := time.Now()
		httpx.OK(c, CertificateItem{
			Certificate:     cert,
			DaysUntilExpiry: int(math.Ceil(cert.ExpiresAt.Sub(now).Hours() / 24)),
			Renewable:       cert.Renewable(now),
		})
	}
}
