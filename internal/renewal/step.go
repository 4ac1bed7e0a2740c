package renewal

// Step is the renewal workflow state. The modal walks
// Closed → CertificateSelected → OptionsEntered → FilesAttached →
// Reviewing → Submitting → Completed, with StepFailed reachable from
// Submitting and returning to submission retry.
type Step int

const (
	StepClosed Step = iota
	StepCertificateSelected
	StepOptionsEntered
	StepFilesAttached
	StepReviewing
	StepSubmitting
	StepCompleted
	StepFailed
)

// String returns the wire name of the step
func (s Step) String() string {
	switch s {
	case StepClosed:
		return "closed"
	case StepCertificateSelected:
		return "certificate_selected"
	case StepOptionsEntered:
		return "options_entered"
	case StepFilesAttached:
		return "files_attached"
	case StepReviewing:
		return "reviewing"
	case StepSubmitting:
		return "submitting"
	case StepCompleted:
		return "completed"
	case StepFailed:
		return "error"
	}
	return "unknown"
}

// Progress returns the intake progress percentage shown in the modal
func (s Step) Progress() int {
	switch s {
	case StepClosed:
		return 0
	case StepCertificateSelected:
		return 25
	case StepOptionsEntered:
		return 50
	case StepFilesAttached:
		return 75
	case StepReviewing, StepFailed:
		return 90
	case StepSubmitting:
		return 95
	case StepCompleted:
		return 100
	}
	return 0
}
