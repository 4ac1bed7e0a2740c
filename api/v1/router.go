package v1

import (
	"certhub/api/v1/auth"
	"certhub/api/v1/certificates"
	"certhub/api/v1/courses"
	feeschedulev1 "certhub/api/v1/feeschedule"
	"certhub/api/v1/middleware"
	"certhub/api/v1/payments"
	"certhub/api/v1/renewal_applications"
	"certhub/api/v1/renewals"
	"certhub/internal/config"
	"certhub/internal/feeschedule"
	"certhub/internal/httpx"
	"certhub/internal/renewal"
	"certhub/internal/storage"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// Deps bundles the shared services the route handlers need
type Deps struct {
	DB       *gorm.DB
	Config   *config.Config
	Schedule *feeschedule.Provider
	Renewals *renewal.Manager
	Blobs    *storage.MinioService
}

// SetupRouter sets up the API v1 routes
func SetupRouter(r *gin.Engine, deps Deps) {
	v1 := r.Group("/api/v1")
	{
		// Public routes (no authentication required)
		v1.GET("/ping", pingHandler)

		// Auth routes
		authGroup := v1.Group("/auth")
		{
			authGroup.POST("/register", auth.RegisterHandler(deps.DB))
			authGroup.POST("/login", auth.LoginHandler(deps.DB, deps.Config))
		}

		// Protected routes (authentication required)
		protected := v1.Group("")
		protected.Use(middleware.AuthRequired())
		{
			protected.GET("/me", auth.MeHandler(deps.DB))

			// Certificates held by the caller
			certsGroup := protected.Group("/certificates")
			{
				certsGroup.GET("", certificates.ListHandler(deps.DB))
				certsGroup.GET("/:id", certificates.GetHandler(deps.DB))
			}

			// Renewal workflow
			renewalsGroup := protected.Group("/renewals")
			{
				renewalsGroup.POST("/open", renewals.OpenHandler(deps.Renewals))
				renewalsGroup.POST("/options", renewals.OptionsHandler(deps.Renewals))
				renewalsGroup.POST("/files", renewals.FilesHandler(deps.Renewals))
				renewalsGroup.POST("/review", renewals.ReviewHandler(deps.Renewals))
				renewalsGroup.POST("/submit", renewals.SubmitHandler(deps.Renewals, deps.DB))
				renewalsGroup.POST("/close", renewals.CloseHandler(deps.Renewals))
				renewalsGroup.GET("/state", renewals.StateHandler(deps.Renewals))
			}

			// Submitted renewal applications
			appsGroup := protected.Group("/renewal-applications")
			{
				appsGroup.GET("", renewal_applications.ListHandler(deps.DB))
				appsGroup.GET("/:appId", renewal_applications.GetHandler(deps.DB, deps.Blobs))
			}

			// Fee schedule
			feeGroup := protected.Group("/fee-schedule")
			{
				feeGroup.GET("", feeschedulev1.GetHandler(deps.Schedule))
				feeGroup.POST("/refresh", feeschedulev1.RefreshHandler(deps.Schedule))
			}

			// Course catalog and applications
			coursesGroup := protected.Group("/courses")
			{
				coursesGroup.GET("", courses.ListHandler(deps.DB))
				coursesGroup.POST("/apply", courses.ApplyHandler(deps.DB))
				coursesGroup.GET("/applications", courses.MyApplicationsHandler(deps.DB))
			}

			// Payments
			paymentsGroup := protected.Group("/payments")
			{
				paymentsGroup.GET("", payments.ListHandler(deps.DB))
				paymentsGroup.GET("/summary", payments.SummaryHandler(deps.DB))
			}
		}
	}
}

// pingHandler handles the ping request using unified response
func pingHandler(c *gin.Context) {
	httpx.OK(c, gin.H{
		"pong": true,
	})
}
