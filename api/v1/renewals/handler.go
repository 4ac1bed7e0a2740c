package renewals

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"

	"certhub/internal/fileintake"
	"certhub/internal/httpx"
	"certhub/internal/model"
	"certhub/internal/renewal"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// OpenRequest starts a renewal workflow for one owned certificate
type OpenRequest struct {
	CertificateID int `json:"certificateId" binding:"required"`
}

// OptionsRequest carries the education/delivery selections and recipient
type OptionsRequest struct {
	EducationMode string          `json:"educationMode" binding:"required"`
	DeliveryMode  string          `json:"deliveryMode" binding:"required"`
	Recipient     model.Recipient `json:"recipient" binding:"required"`
}

// SubmitResponse returns the created application id
type SubmitResponse struct {
	ApplicationID string `json:"applicationId"`
}

// OpenHandler opens (or reopens) the renewal workflow. Reopening discards
// any previous draft.
func OpenHandler(manager *renewal.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req OpenRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			httpx.FailErr(c, httpx.ErrParamInvalid("invalid request body"))
			return
		}

		wf := manager.ForUser(c.GetInt("uid"))
		if err := wf.Open(c.Request.Context(), req.CertificateID); err != nil {
			failRenewal(c, "failed to open renewal", err)
			return
		}

		httpx.OK(c, wf.State())
	}
}

// OptionsHandler records education mode, delivery mode, and recipient info
func OptionsHandler(manager *renewal.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req OptionsRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			httpx.FailErr(c, httpx.ErrParamInvalid("invalid request body"))
			return
		}

		wf := manager.ForUser(c.GetInt("uid"))
		err := wf.SelectOptions(model.EducationMode(req.EducationMode), model.DeliveryMode(req.DeliveryMode), req.Recipient)
		if err != nil {
			failRenewal(c, "failed to record options", err)
			return
		}

		httpx.OK(c, wf.State())
	}
}

// FilesHandler stages uploaded files on the draft. Evidence documents are
// posted under the "evidence" field, the completion certificate (when
// education was already completed) under "completionCert". The whole batch
// is validated before anything is kept.
func FilesHandler(manager *renewal.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		form, err := c.MultipartForm()
		if err != nil {
			httpx.FailErr(c, httpx.ErrParamInvalid("invalid multipart form"))
			return
		}

		batch, err := readBatch(form.File["evidence"], fileintake.KindEvidence)
		if err != nil {
			httpx.FailErr(c, httpx.ErrFileRejected(err.Error()))
			return
		}
		certs, err := readBatch(form.File["completionCert"], fileintake.KindCompletionCert)
		if err != nil {
			httpx.FailErr(c, httpx.ErrFileRejected(err.Error()))
			return
		}
		batch = append(batch, certs...)
		if len(batch) == 0 {
			httpx.FailErr(c, httpx.ErrParamMissing("no files provided"))
			return
		}

		wf := manager.ForUser(c.GetInt("uid"))
		if err := wf.AttachFiles(batch); err != nil {
			var stepErr *renewal.StepError
			if errors.As(err, &stepErr) {
				httpx.FailErr(c, httpx.ErrStateConflict(stepErr.Error()))
				return
			}
			httpx.FailErr(c, httpx.ErrFileRejected(err.Error()))
			return
		}

		httpx.OK(c, wf.State())
	}
}

// ReviewHandler freezes the fee breakdown for final confirmation
func ReviewHandler(manager *renewal.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		wf := manager.ForUser(c.GetInt("uid"))
		if err := wf.Review(); err != nil {
			failRenewal(c, "failed to review renewal", err)
			return
		}
		httpx.OK(c, wf.State())
	}
}

// SubmitHandler persists the application and opens a pending payment for
// the frozen total. On failure the draft survives and submit may be retried.
func SubmitHandler(manager *renewal.Manager, db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		uid := c.GetInt("uid")
		wf := manager.ForUser(uid)

		appID, err := wf.Submit(c.Request.Context())
		if err != nil {
			var stepErr *renewal.StepError
			if errors.As(err, &stepErr) {
				httpx.FailErr(c, httpx.ErrStateConflict(stepErr.Error()))
				return
			}
			httpx.FailErr(c, httpx.ErrSubmitFailed("", err))
			return
		}

		// The payment amount is read back from the persisted record so it
		// cannot diverge from what the persister wrote
		var app model.RenewalApplication
		if err := db.First(&app, "app_id = ?", appID).Error; err != nil {
			httpx.OKMsg(c, "submitted, payment record deferred", SubmitResponse{ApplicationID: appID})
			return
		}

		payment := model.Payment{
			UserID:    uid,
			Kind:      model.PaymentKindRenewal,
			TargetRef: appID,
			Amount:    app.TotalAmount,
			Status:    model.PaymentStatusPending,
		}
		if err := db.Create(&payment).Error; err != nil {
			// The application is already persisted; the payment record can
			// be reconciled later, so do not fail the submission over it
			httpx.OKMsg(c, "submitted, payment record deferred", SubmitResponse{ApplicationID: appID})
			return
		}

		httpx.OK(c, SubmitResponse{ApplicationID: appID})
	}
}

// CloseHandler discards the draft and closes the workflow
func CloseHandler(manager *renewal.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		wf := manager.ForUser(c.GetInt("uid"))
		if err := wf.Close(); err != nil {
			failRenewal(c, "failed to close renewal", err)
			return
		}
		httpx.OK(c, wf.State())
	}
}

// StateHandler returns the current workflow state for rendering
func StateHandler(manager *renewal.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		wf := manager.ForUser(c.GetInt("uid"))
		httpx.OK(c, wf.State())
	}
}

// readBatch loads multipart parts into staged intake files. Reads are capped
// one byte past the size limit so oversized parts still fail validation
// instead of exhausting memory.
func readBatch(headers []*multipart.FileHeader, kind fileintake.Kind) ([]fileintake.File, error) {
	batch := make([]fileintake.File, 0, len(headers))
	for _, fh := range headers {
		src, err := fh.Open()
		if err != nil {
			return nil, fmt.Errorf("failed to read file %q: %w", fh.Filename, err)
		}
		content, err := io.ReadAll(io.LimitReader(src, fileintake.MaxFileSize+1))
		src.Close()
		if err != nil {
			return nil, fmt.Errorf("failed to read file %q: %w", fh.Filename, err)
		}
		batch = append(batch, fileintake.File{
			Name:    fh.Filename,
			Size:    fh.Size,
			MIME:    fh.Header.Get("Content-Type"),
			Kind:    kind,
			Content: content,
		})
	}
	return batch, nil
}

// failRenewal maps workflow errors to the response envelope
func failRenewal(c *gin.Context, msg string, err error) {
	var verr *renewal.ValidationError
	var stepErr *renewal.StepError
	switch {
	case errors.As(err, &verr):
		httpx.FailErr(c, httpx.ErrParamInvalid(verr.Error()).WithData(verr.Fields))
	case errors.As(err, &stepErr):
		httpx.FailErr(c, httpx.ErrStateConflict(stepErr.Error()))
	case errors.Is(err, renewal.ErrNotRenewable):
		httpx.FailErr(c, httpx.ErrStateConflict(err.Error()))
	case errors.Is(err, renewal.ErrNoFeeEntry):
		httpx.FailErr(c, httpx.ErrFeeUnknown(err.Error()))
	case errors.Is(err, gorm.ErrRecordNotFound):
		httpx.FailErr(c, httpx.ErrNotFound("certificate not found"))
	default:
		httpx.FailErr(c, httpx.ErrInternalError(msg, err))
	}
}
