package model

// EducationMode describes how the continuing-education requirement was met
type EducationMode string

const (
	EducationModeOnline           EducationMode = "online"
	EducationModeOffline          EducationMode = "offline"
	EducationModeAlreadyCompleted EducationMode = "already-completed"
)

// Valid reports whether the mode is one of the known education modes
func (m EducationMode) Valid() bool {
	switch m {
	case EducationModeOnline, EducationModeOffline, EducationModeAlreadyCompleted:
		return true
	}
	return false
}

// DeliveryMode describes how the renewed certificate is delivered
type DeliveryMode string

const (
	DeliveryModePhysical DeliveryMode = "physical"
	DeliveryModeDigital  DeliveryMode = "digital"
	DeliveryModeBoth     DeliveryMode = "both"
)

// Valid reports whether the mode is one of the known delivery modes
func (m DeliveryMode) Valid() bool {
	switch m {
	case DeliveryModePhysical, DeliveryModeDigital, DeliveryModeBoth:
		return true
	}
	return false
}
