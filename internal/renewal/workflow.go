package renewal

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"certhub/internal/feeschedule"
	"certhub/internal/fileintake"
	"certhub/internal/model"
)

// CertificateStore loads certificates for workflow validation
type CertificateStore interface {
	FindOwned(ctx context.Context, uid, certID int) (*model.Certificate, error)
}

// StateView is the read-only workflow state exposed to the UI layer
type StateView struct {
	Step            string        `json:"step"`
	Progress        int           `json:"progress"`
	CertificateID   int           `json:"certificateId,omitempty"`
	TypeCode        string        `json:"typeCode,omitempty"`
	ScheduleOrigin  string        `json:"scheduleOrigin,omitempty"`
	Breakdown       *FeeBreakdown `json:"breakdown,omitempty"`
	AttachedFiles   []string      `json:"attachedFiles,omitempty"`
	ApplicationID   string        `json:"applicationId,omitempty"`
	LastSubmitError string        `json:"lastSubmitError,omitempty"`
}

// EventSink receives workflow step-change notifications. The UI layer
// subscribes instead of sharing state with the workflow.
type EventSink interface {
	RenewalStepChanged(uid int, view StateView)
}

// NopSink discards events
type NopSink struct{}

// RenewalStepChanged implements EventSink
func (NopSink) RenewalStepChanged(int, StateView) {}

// Workflow drives one user's renewal intake modal. All operations are
// serialized by an internal mutex; only one modal exists per user.
type Workflow struct {
	uid       int
	certs     CertificateStore
	schedules *feeschedule.Provider
	persister *Persister
	sink      EventSink
	now       func() time.Time

	mu            sync.Mutex
	step          Step
	draft         *Draft
	applicationID string
	submitErr     error
}

// NewWorkflow creates a closed workflow for one user
func NewWorkflow(uid int, certs CertificateStore, schedules *feeschedule.Provider, persister *Persister, sink EventSink, now func() time.Time) *Workflow {
	if now == nil {
		now = time.Now
	}
	if sink == nil {
		sink = NopSink{}
	}
	return &Workflow{
		uid:       uid,
		certs:     certs,
		schedules: schedules,
		persister: persister,
		sink:      sink,
		now:       now,
		step:      StepClosed,
	}
}

// Open starts (or restarts) the renewal intake for a certificate. Reopening
// without closing discards the previous draft entirely. The fee schedule is
// refreshed before every open.
func (w *Workflow) Open(ctx context.Context, certID int) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.step == StepSubmitting {
		return &StepError{Op: "open", Current: w.step}
	}

	cert, err := w.certs.FindOwned(ctx, w.uid, certID)
	if err != nil {
		return fmt.Errorf("failed to load certificate: %w", err)
	}
	if !cert.Renewable(w.now()) {
		return fmt.Errorf("certificate %d (status %s): %w", certID, cert.Status, ErrNotRenewable)
	}

	snapshot := w.schedules.Refresh(ctx)
	if _, ok := snapshot.Entry(cert.TypeCode); !ok {
		return fmt.Errorf("certificate type %q: %w", cert.TypeCode, ErrNoFeeEntry)
	}

	w.draft = newDraft(cert, snapshot)
	w.applicationID = ""
	w.submitErr = nil
	w.setStep(StepCertificateSelected)
	return nil
}

// SelectOptions records education mode, delivery mode, and recipient info,
// recomputing the fee breakdown. Field-level validation failures block the
// transition and leave the current step unchanged.
func (w *Workflow) SelectOptions(eduMode model.EducationMode, deliveryMode model.DeliveryMode, recipient model.Recipient) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.step != StepCertificateSelected && w.step != StepOptionsEntered {
		return &StepError{Op: "select options", Current: w.step}
	}

	if err := validateOptions(eduMode, deliveryMode, recipient); err != nil {
		return err
	}

	breakdown, err := ComputeFees(w.draft.Schedule, w.draft.Certificate.TypeCode, eduMode, deliveryMode, w.draft.Certificate.ExpiresAt, w.now())
	if err != nil {
		return err
	}

	w.draft.EducationMode = eduMode
	w.draft.DeliveryMode = deliveryMode
	w.draft.Recipient = recipient
	w.draft.Breakdown = &breakdown
	w.setStep(StepOptionsEntered)
	return nil
}

// AttachFiles stages validated evidence files on the draft. At least one
// continuing-education evidence file is required; a completion certificate
// is required only when education was already completed.
func (w *Workflow) AttachFiles(files []fileintake.File) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.step != StepOptionsEntered && w.step != StepFilesAttached {
		return &StepError{Op: "attach files", Current: w.step}
	}

	// The incoming batch is checked in full before the draft is touched;
	// a rejected re-attach keeps the previously staged files.
	if err := fileintake.ValidateBatch(files); err != nil {
		return err
	}
	if !hasFileKind(files, fileintake.KindEvidence) {
		return fmt.Errorf("at least one continuing-education evidence file is required")
	}
	if w.draft.EducationMode == model.EducationModeAlreadyCompleted && !hasFileKind(files, fileintake.KindCompletionCert) {
		return fmt.Errorf("an education-completion certificate file is required when education is already completed")
	}

	w.draft.Files = files
	w.setStep(StepFilesAttached)
	return nil
}

// Review recomputes and freezes the fee breakdown for display
func (w *Workflow) Review() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.step != StepFilesAttached {
		return &StepError{Op: "review", Current: w.step}
	}

	breakdown, err := ComputeFees(w.draft.Schedule, w.draft.Certificate.TypeCode, w.draft.EducationMode, w.draft.DeliveryMode, w.draft.Certificate.ExpiresAt, w.now())
	if err != nil {
		return err
	}

	w.draft.Breakdown = &breakdown
	w.setStep(StepReviewing)
	return nil
}

// Submit persists the renewal application. On persistence failure the
// workflow lands in the error step with the draft intact, so a retry does
// not require re-entering anything.
func (w *Workflow) Submit(ctx context.Context) (string, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.step != StepReviewing && w.step != StepFailed {
		return "", &StepError{Op: "submit", Current: w.step}
	}

	w.setStep(StepSubmitting)

	appID, err := w.persister.Submit(ctx, w.uid, w.draft)
	if err != nil {
		w.submitErr = err
		w.setStep(StepFailed)
		return "", err
	}

	w.applicationID = appID
	w.submitErr = nil
	w.draft = nil
	w.setStep(StepCompleted)
	return appID, nil
}

// Close discards the draft from any state except an in-flight submission
func (w *Workflow) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.step == StepSubmitting {
		return &StepError{Op: "close", Current: w.step}
	}

	w.draft = nil
	w.submitErr = nil
	w.setStep(StepClosed)
	return nil
}

// State returns a read-only view for rendering
func (w *Workflow) State() StateView {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.stateLocked()
}

func (w *Workflow) stateLocked() StateView {
	view := StateView{
		Step:          w.step.String(),
		Progress:      w.step.Progress(),
		ApplicationID: w.applicationID,
	}
	if w.submitErr != nil {
		view.LastSubmitError = w.submitErr.Error()
	}
	if w.draft != nil {
		view.CertificateID = w.draft.Certificate.ID
		view.TypeCode = w.draft.Certificate.TypeCode
		view.ScheduleOrigin = string(w.draft.Schedule.Origin)
		view.Breakdown = w.draft.Breakdown
		for _, f := range w.draft.Files {
			view.AttachedFiles = append(view.AttachedFiles, f.Name)
		}
	}
	return view
}

func (w *Workflow) setStep(step Step) {
	w.step = step
	w.sink.RenewalStepChanged(w.uid, w.stateLocked())
}

func validateOptions(eduMode model.EducationMode, deliveryMode model.DeliveryMode, recipient model.Recipient) error {
	verr := newValidationError()

	if !eduMode.Valid() {
		verr.Fields["educationMode"] = fmt.Sprintf("unknown education mode %q", eduMode)
	}
	if !deliveryMode.Valid() {
		verr.Fields["deliveryMode"] = fmt.Sprintf("unknown delivery mode %q", deliveryMode)
	}
	if strings.TrimSpace(recipient.Name) == "" {
		verr.Fields["recipient.name"] = "recipient name is required"
	}
	if strings.TrimSpace(recipient.Phone) == "" {
		verr.Fields["recipient.phone"] = "recipient phone is required"
	}
	needsAddress := deliveryMode == model.DeliveryModePhysical || deliveryMode == model.DeliveryModeBoth
	if needsAddress && strings.TrimSpace(recipient.Address) == "" {
		verr.Fields["recipient.address"] = "delivery address is required for physical delivery"
	}
	if recipient.Email != "" && !strings.Contains(recipient.Email, "@") {
		verr.Fields["recipient.email"] = "invalid email address"
	}

	if len(verr.Fields) > 0 {
		return verr
	}
	return nil
}
