package renewal

import (
	"fmt"
	"math"
	"time"

	"certhub/internal/feeschedule"
	"certhub/internal/model"
)

// Early renewal discount applies when the certificate still has at least
// this many days before expiry.
const earlyRenewalThresholdDays = 60

// FeeBreakdown is the full cost calculation for a renewal
type FeeBreakdown struct {
	TypeCode        string   `json:"typeCode"`
	RenewalFee      int      `json:"renewalFee"`
	EducationFee    int      `json:"educationFee"`
	DeliveryFee     int      `json:"deliveryFee"`
	Discount        int      `json:"discount"`
	Total           int      `json:"total"`
	DaysUntilExpiry int      `json:"daysUntilExpiry"`
	DiscountReasons []string `json:"discountReasons"`
}

// ComputeFees computes the discount-adjusted renewal cost from a schedule
// snapshot and the user's selections. It is pure: no side effects, and the
// snapshot is taken as an argument so concurrent refreshes cannot tear a
// single calculation.
//
// An unknown certificate type or education mode is an explicit error,
// never a silent zero.
func ComputeFees(snap *feeschedule.Snapshot, typeCode string, eduMode model.EducationMode, deliveryMode model.DeliveryMode, expiry, now time.Time) (FeeBreakdown, error) {
	entry, ok := snap.Entry(typeCode)
	if !ok {
		return FeeBreakdown{}, fmt.Errorf("no fee schedule entry for certificate type %q", typeCode)
	}
	if !eduMode.Valid() {
		return FeeBreakdown{}, fmt.Errorf("unknown education mode %q", eduMode)
	}
	if !deliveryMode.Valid() {
		return FeeBreakdown{}, fmt.Errorf("unknown delivery mode %q", deliveryMode)
	}

	educationFee, ok := entry.Education[eduMode]
	if !ok {
		return FeeBreakdown{}, fmt.Errorf("no education fee for type %q mode %q", typeCode, eduMode)
	}

	deliveryFee := 0
	if deliveryMode == model.DeliveryModeBoth {
		deliveryFee = entry.DeliveryFee
	}

	daysUntilExpiry := int(math.Ceil(expiry.Sub(now).Hours() / 24))

	discount := 0
	var reasons []string
	if daysUntilExpiry >= earlyRenewalThresholdDays {
		early := int(math.Round(float64(entry.RenewalFee) * entry.EarlyDiscountRate))
		discount += early
		reasons = append(reasons, fmt.Sprintf("early renewal (%d days before expiry): -%d", daysUntilExpiry, early))
	}
	if eduMode == model.EducationModeOnline {
		online := int(math.Round(float64(educationFee) * entry.OnlineDiscountRate))
		discount += online
		reasons = append(reasons, fmt.Sprintf("online education: -%d", online))
	}

	total := entry.RenewalFee + educationFee + deliveryFee - discount
	if total < 0 {
		total = 0
	}

	return FeeBreakdown{
		TypeCode:        typeCode,
		RenewalFee:      entry.RenewalFee,
		EducationFee:    educationFee,
		DeliveryFee:     deliveryFee,
		Discount:        discount,
		Total:           total,
		DaysUntilExpiry: daysUntilExpiry,
		DiscountReasons: reasons,
	}, nil
}
