package renewal

import (
	"certhub/internal/feeschedule"
	"certhub/internal/fileintake"
	"certhub/internal/model"
)

// Draft is the transient in-progress renewal form state. One draft exists
// per open workflow; it is discarded on close, on re-open, and after a
// completed submission.
type Draft struct {
	Certificate   *model.Certificate
	Schedule      *feeschedule.Snapshot
	EducationMode model.EducationMode
	DeliveryMode  model.DeliveryMode
	Recipient     model.Recipient
	Files         []fileintake.File
	// Breakdown is recomputed on every option change and frozen at review
	Breakdown *FeeBreakdown
}

func newDraft(cert *model.Certificate, schedule *feeschedule.Snapshot) *Draft {
	return &Draft{
		Certificate: cert,
		Schedule:    schedule,
	}
}

func hasFileKind(files []fileintake.File, kind fileintake.Kind) bool {
	for _, f := range files {
		if f.Kind == kind {
			return true
		}
	}
	return false
}
