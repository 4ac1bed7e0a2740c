package renewal

import (
	"testing"
	"time"

	"certhub/internal/feeschedule"
	"certhub/internal/model"
)

func defaultSnapshot() *feeschedule.Snapshot {
	return &feeschedule.Snapshot{
		Schedule: feeschedule.DefaultSchedule(),
		Origin:   feeschedule.OriginDefault,
		LoadedAt: time.Now(),
	}
}

func TestComputeFees_PilatesScenario(t *testing.T) {
	// pilates, expiry 70 days away, online education, both delivery:
	// 40000 + 64000 + 5000 - 4000 (early) - 12800 (online) = 92200
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	expiry := now.Add(70 * 24 * time.Hour)

	fb, err := ComputeFees(defaultSnapshot(), "pilates", model.EducationModeOnline, model.DeliveryModeBoth, expiry, now)
	if err != nil {
		t.Fatalf("ComputeFees() failed: %v", err)
	}

	if fb.RenewalFee != 40000 {
		t.Errorf("Expected renewal fee 40000, got %d", fb.RenewalFee)
	}
	if fb.EducationFee != 64000 {
		t.Errorf("Expected education fee 64000, got %d", fb.EducationFee)
	}
	if fb.DeliveryFee != 5000 {
		t.Errorf("Expected delivery fee 5000, got %d", fb.DeliveryFee)
	}
	if fb.Discount != 16800 {
		t.Errorf("Expected discount 16800, got %d", fb.Discount)
	}
	if fb.Total != 92200 {
		t.Errorf("Expected total 92200, got %d", fb.Total)
	}
	if len(fb.DiscountReasons) != 2 {
		t.Errorf("Expected 2 discount reasons, got %d: %v", len(fb.DiscountReasons), fb.DiscountReasons)
	}
}

func TestComputeFees_Additivity(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	snap := defaultSnapshot()

	for _, typeCode := range []string{"pilates", "yoga", "spinning", "rehab"} {
		for _, edu := range []model.EducationMode{model.EducationModeOnline, model.EducationModeOffline, model.EducationModeAlreadyCompleted} {
			for _, delivery := range []model.DeliveryMode{model.DeliveryModePhysical, model.DeliveryModeDigital, model.DeliveryModeBoth} {
				for _, days := range []int{10, 59, 60, 120} {
					expiry := now.Add(time.Duration(days) * 24 * time.Hour)
					fb, err := ComputeFees(snap, typeCode, edu, delivery, expiry, now)
					if err != nil {
						t.Fatalf("ComputeFees(%s,%s,%s,%d) failed: %v", typeCode, edu, delivery, days, err)
					}
					want := fb.RenewalFee + fb.EducationFee + fb.DeliveryFee - fb.Discount
					if want < 0 {
						want = 0
					}
					if fb.Total != want {
						t.Errorf("%s/%s/%s/%dd: total %d, want %d", typeCode, edu, delivery, days, fb.Total, want)
					}
					if fb.Total < 0 {
						t.Errorf("%s/%s/%s/%dd: negative total %d", typeCode, edu, delivery, days, fb.Total)
					}
				}
			}
		}
	}
}

func TestComputeFees_EarlyDiscountBoundary(t *testing.T) {
	now := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

	atBoundary := now.Add(60 * 24 * time.Hour)
	fb, err := ComputeFees(defaultSnapshot(), "pilates", model.EducationModeOffline, model.DeliveryModeDigital, atBoundary, now)
	if err != nil {
		t.Fatalf("ComputeFees() failed: %v", err)
	}
	if fb.DaysUntilExpiry != 60 {
		t.Fatalf("Expected 60 days until expiry, got %d", fb.DaysUntilExpiry)
	}
	if fb.Discount != 4000 {
		t.Errorf("Expected early discount 4000 at exactly 60 days, got %d", fb.Discount)
	}

	belowBoundary := now.Add(59 * 24 * time.Hour)
	fb, err = ComputeFees(defaultSnapshot(), "pilates", model.EducationModeOffline, model.DeliveryModeDigital, belowBoundary, now)
	if err != nil {
		t.Fatalf("ComputeFees() failed: %v", err)
	}
	if fb.DaysUntilExpiry != 59 {
		t.Fatalf("Expected 59 days until expiry, got %d", fb.DaysUntilExpiry)
	}
	if fb.Discount != 0 {
		t.Errorf("Expected no early discount at 59 days, got %d", fb.Discount)
	}
}

func TestComputeFees_PartialDayRoundsUp(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	// 59 days and 6 hours away rounds up to 60 days
	expiry := now.Add(59*24*time.Hour + 6*time.Hour)

	fb, err := ComputeFees(defaultSnapshot(), "pilates", model.EducationModeOffline, model.DeliveryModeDigital, expiry, now)
	if err != nil {
		t.Fatalf("ComputeFees() failed: %v", err)
	}
	if fb.DaysUntilExpiry != 60 {
		t.Errorf("Expected ceil to 60 days, got %d", fb.DaysUntilExpiry)
	}
	if fb.Discount == 0 {
		t.Error("Expected early discount after ceiling to 60 days")
	}
}

func TestComputeFees_ClampsNegativeTotal(t *testing.T) {
	now := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	snap := &feeschedule.Snapshot{
		Schedule: feeschedule.Schedule{
			"pilates": {
				RenewalFee:  1000,
				DeliveryFee: 0,
				Education: map[model.EducationMode]int{
					model.EducationModeOnline: 1000,
				},
				EarlyDiscountRate:  3.0, // adversarial, >100%
				OnlineDiscountRate: 3.0,
			},
		},
	}

	fb, err := ComputeFees(snap, "pilates", model.EducationModeOnline, model.DeliveryModeDigital, now.Add(90*24*time.Hour), now)
	if err != nil {
		t.Fatalf("ComputeFees() failed: %v", err)
	}
	if fb.Total != 0 {
		t.Errorf("Expected total clamped to 0, got %d", fb.Total)
	}
}

func TestComputeFees_UnknownType(t *testing.T) {
	now := time.Now()
	_, err := ComputeFees(defaultSnapshot(), "crossfit", model.EducationModeOnline, model.DeliveryModeBoth, now.Add(90*24*time.Hour), now)
	if err == nil {
		t.Error("Expected error for unknown certificate type")
	}
}

func TestComputeFees_UnknownEducationMode(t *testing.T) {
	now := time.Now()
	_, err := ComputeFees(defaultSnapshot(), "pilates", model.EducationMode("hybrid"), model.DeliveryModeBoth, now.Add(90*24*time.Hour), now)
	if err == nil {
		t.Error("Expected error for unknown education mode")
	}
}

func TestComputeFees_DeliveryFeeOnlyForBoth(t *testing.T) {
	now := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	expiry := now.Add(30 * 24 * time.Hour)

	for _, tc := range []struct {
		mode model.DeliveryMode
		want int
	}{
		{model.DeliveryModePhysical, 0},
		{model.DeliveryModeDigital, 0},
		{model.DeliveryModeBoth, 5000},
	} {
		fb, err := ComputeFees(defaultSnapshot(), "pilates", model.EducationModeOffline, tc.mode, expiry, now)
		if err != nil {
			t.Fatalf("ComputeFees(%s) failed: %v", tc.mode, err)
		}
		if fb.DeliveryFee != tc.want {
			t.Errorf("Delivery mode %s: expected fee %d, got %d", tc.mode, tc.want, fb.DeliveryFee)
		}
	}
}
