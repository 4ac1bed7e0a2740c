package payments

import (
	"certhub/internal/httpx"
	"certhub/internal/model"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// ListHandler returns the caller's payment records, newest first
func ListHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		uid := c.GetInt("uid")

		query := db.Where("user_id = ?", uid)
		if kind := c.Query("kind"); kind != "" {
			query = query.Where("kind = ?", kind)
		}
		if status := c.Query("status"); status != "" {
			query = query.Where("status = ?", status)
		}

		var payments []model.Payment
		if err := query.Order("created_at DESC").Find(&payments).Error; err != nil {
			httpx.FailErr(c, httpx.ErrDatabaseError("failed to list payments", err))
			return
		}

		httpx.OK(c, payments)
	}
}

// SummaryHandler returns per-status totals for the caller's dashboard
func SummaryHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		uid := c.GetInt("uid")

		type row struct {
			Status model.PaymentStatus `json:"status"`
			Count  int64               `json:"count"`
			Amount int64               `json:"amount"`
		}
		var rows []row
		if err := db.Model(&model.Payment{}).
			Select("status, COUNT(*) AS count, COALESCE(SUM(amount), 0) AS amount").
			Where("user_id = ?", uid).
			Group("status").
			Scan(&rows).Error; err != nil {
			httpx.FailErr(c, httpx.ErrDatabaseError("failed to summarize payments", err))
			return
		}

		httpx.OK(c, rows)
	}
}
