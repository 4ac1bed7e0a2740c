package courses

import (
	"errors"
	"strconv"

	"certhub/internal/httpx"
	"certhub/internal/model"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// ApplyRequest represents a course application request body
type ApplyRequest struct {
	CourseID int    `json:"courseId" binding:"required"`
	Note     string `json:"note"`
}

// ListHandler returns the open course catalog with pagination
func ListHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
		pageSize, _ := strconv.Atoi(c.DefaultQuery("pageSize", "20"))
		if page < 1 {
			page = 1
		}
		if pageSize < 1 || pageSize > 100 {
			pageSize = 20
		}

		query := db.Model(&model.Course{}).Where("status = ?", model.CourseStatusOpen)
		if typeCode := c.Query("typeCode"); typeCode != "" {
			query = query.Where("type_code = ?", typeCode)
		}

		var total int64
		if err := query.Count(&total).Error; err != nil {
			httpx.FailErr(c, httpx.ErrDatabaseError("failed to count courses", err))
			return
		}

		var courses []model.Course
		if err := query.Order("starts_at ASC").
			Offset((page - 1) * pageSize).Limit(pageSize).
			Find(&courses).Error; err != nil {
			httpx.FailErr(c, httpx.ErrDatabaseError("failed to list courses", err))
			return
		}

		httpx.OKItems(c, courses, total, page, pageSize)
	}
}

// ApplyHandler creates a pending course application and its payment record
func ApplyHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req ApplyRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			httpx.FailErr(c, httpx.ErrParamInvalid("invalid request body"))
			return
		}

		uid := c.GetInt("uid")

		var course model.Course
		if err := db.First(&course, req.CourseID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				httpx.FailErr(c, httpx.ErrNotFound("course not found"))
				return
			}
			httpx.FailErr(c, httpx.ErrDatabaseError("failed to load course", err))
			return
		}
		if course.Status != model.CourseStatusOpen {
			httpx.FailErr(c, httpx.ErrStateConflict("course is closed"))
			return
		}

		var count int64
		if err := db.Model(&model.CourseApplication{}).
			Where("user_id = ? AND course_id = ?", uid, req.CourseID).
			Count(&count).Error; err != nil {
			httpx.FailErr(c, httpx.ErrDatabaseError("database error", err))
			return
		}
		if count > 0 {
			httpx.FailErr(c, httpx.ErrAlreadyExists("already applied to this course"))
			return
		}

		app := model.CourseApplication{
			UserID:   uid,
			CourseID: req.CourseID,
			Status:   model.CourseApplicationPending,
			Note:     req.Note,
		}

		// Application and payment are created together
		err := db.Transaction(func(tx *gorm.DB) error {
			if err := tx.Create(&app).Error; err != nil {
				return err
			}
			payment := model.Payment{
				UserID:    uid,
				Kind:      model.PaymentKindCourse,
				TargetRef: strconv.Itoa(app.ID),
				Amount:    course.Price,
				Status:    model.PaymentStatusPending,
			}
			return tx.Create(&payment).Error
		})
		if err != nil {
			httpx.FailErr(c, httpx.ErrDatabaseError("failed to create application", err))
			return
		}

		httpx.OK(c, app)
	}
}

// MyApplicationsHandler returns the caller's course applications
func MyApplicationsHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		uid := c.GetInt("uid")

		var apps []model.CourseApplication
		if err := db.Where("user_id = ?", uid).Order("created_at DESC").Find(&apps).Error; err != nil {
			httpx.FailErr(c, httpx.ErrDatabaseError("failed to list applications", err))
			return
		}

		httpx.OK(c, apps)
	}
}
