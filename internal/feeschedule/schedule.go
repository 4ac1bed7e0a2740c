package feeschedule

import (
	"time"

	"certhub/internal/model"
)

// Entry holds the renewal cost table for one certificate type
type Entry struct {
	RenewalFee         int                         `json:"renewalFee"`
	DeliveryFee        int                         `json:"deliveryFee"`
	Education          map[model.EducationMode]int `json:"education"`
	EarlyDiscountRate  float64                     `json:"earlyDiscountRate"`
	OnlineDiscountRate float64                     `json:"onlineDiscountRate"`
}

// Schedule maps certificate type code to its fee entry
type Schedule map[string]Entry

// Origin describes where a loaded schedule came from
type Origin string

const (
	OriginRemote  Origin = "remote"  // loaded from the settings table
	OriginMirror  Origin = "cached"  // recovered from the redis mirror
	OriginDefault Origin = "default" // built-in fallback table
)

// Snapshot is an immutable view of the schedule handed to calculations.
// Calculations take the snapshot as an argument, so a refresh landing
// mid-calculation never tears a single computation.
type Snapshot struct {
	Schedule Schedule  `json:"schedule"`
	Origin   Origin    `json:"origin"`
	LoadedAt time.Time `json:"loadedAt"`
}

// Entry returns the fee entry for a certificate type
func (s *Snapshot) Entry(typeCode string) (Entry, bool) {
	e, ok := s.Schedule[typeCode]
	return e, ok
}

// DefaultSchedule returns the built-in fallback fee table, used whenever
// the remote settings source is unavailable.
func DefaultSchedule() Schedule {
	return Schedule{
		"pilates": {
			RenewalFee:  40000,
			DeliveryFee: 5000,
			Education: map[model.EducationMode]int{
				model.EducationModeOnline:           64000,
				model.EducationModeOffline:          80000,
				model.EducationModeAlreadyCompleted: 0,
			},
			EarlyDiscountRate:  0.10,
			OnlineDiscountRate: 0.20,
		},
		"yoga": {
			RenewalFee:  35000,
			DeliveryFee: 5000,
			Education: map[model.EducationMode]int{
				model.EducationModeOnline:           56000,
				model.EducationModeOffline:          70000,
				model.EducationModeAlreadyCompleted: 0,
			},
			EarlyDiscountRate:  0.10,
			OnlineDiscountRate: 0.20,
		},
		"spinning": {
			RenewalFee:  30000,
			DeliveryFee: 5000,
			Education: map[model.EducationMode]int{
				model.EducationModeOnline:           48000,
				model.EducationModeOffline:          60000,
				model.EducationModeAlreadyCompleted: 0,
			},
			EarlyDiscountRate:  0.10,
			OnlineDiscountRate: 0.15,
		},
		"rehab": {
			RenewalFee:  50000,
			DeliveryFee: 5000,
			Education: map[model.EducationMode]int{
				model.EducationModeOnline:           72000,
				model.EducationModeOffline:          90000,
				model.EducationModeAlreadyCompleted: 0,
			},
			EarlyDiscountRate:  0.10,
			OnlineDiscountRate: 0.20,
		},
	}
}
