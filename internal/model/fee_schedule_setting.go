package model

import (
	"time"

	"gorm.io/datatypes"
)

// FeeScheduleSetting is one certificate type's row in the remote fee
// configuration. The education fee table is stored as JSON keyed by
// education mode.
type FeeScheduleSetting struct {
	ID                 int            `gorm:"primaryKey;autoIncrement" json:"id"`
	TypeCode           string         `gorm:"type:varchar(64);uniqueIndex;not null" json:"typeCode"`
	RenewalFee         int            `gorm:"not null" json:"renewalFee"`
	DeliveryFee        int            `gorm:"not null;default:0" json:"deliveryFee"`
	EducationJSON      datatypes.JSON `gorm:"column:education_json;type:json;not null" json:"education"`
	EarlyDiscountRate  float64        `gorm:"not null;default:0" json:"earlyDiscountRate"`
	OnlineDiscountRate float64        `gorm:"not null;default:0" json:"onlineDiscountRate"`
	UpdatedAt          time.Time      `gorm:"autoUpdateTime" json:"updatedAt"`
}

// TableName specifies the table name for FeeScheduleSetting
func (FeeScheduleSetting) TableName() string {
	return "fee_schedule_settings"
}
