package model

import (
	"time"

	"gorm.io/datatypes"
)

// RenewalApplicationStatus represents the lifecycle status of a renewal application
type RenewalApplicationStatus string

const (
	RenewalStatusPaymentPending RenewalApplicationStatus = "payment_pending"
	RenewalStatusPaid           RenewalApplicationStatus = "paid"
	RenewalStatusApproved       RenewalApplicationStatus = "approved"
	RenewalStatusRejected       RenewalApplicationStatus = "rejected"
)

// RenewalApplication is the persisted record of a submitted renewal.
// Created exactly once per successful workflow submission; payment and
// approval processes mutate it afterwards.
type RenewalApplication struct {
	AppID          string                   `gorm:"primaryKey;type:varchar(36)" json:"appId"`
	UserID         int                      `gorm:"not null;index" json:"userId"`
	CertificateID  int                      `gorm:"not null;index" json:"certificateId"`
	TypeCode       string                   `gorm:"type:varchar(64);not null" json:"typeCode"`
	EducationMode  EducationMode            `gorm:"type:varchar(32);not null" json:"educationMode"`
	DeliveryMode   DeliveryMode             `gorm:"type:varchar(16);not null" json:"deliveryMode"`
	RecipientJSON  datatypes.JSON           `gorm:"column:recipient_json;type:json;not null" json:"recipient"`
	BreakdownJSON  datatypes.JSON           `gorm:"column:breakdown_json;type:json;not null" json:"breakdown"`
	FilesJSON      datatypes.JSON           `gorm:"column:files_json;type:json;not null" json:"files"`
	TotalAmount    int                      `gorm:"not null" json:"totalAmount"`
	Status         RenewalApplicationStatus `gorm:"type:varchar(32);not null;default:'payment_pending';index" json:"status"`
	Progress       int                      `gorm:"not null;default:25" json:"progress"`
	SubmittedAt    time.Time                `gorm:"autoCreateTime" json:"submittedAt"`
	UpdatedAt      time.Time                `gorm:"autoUpdateTime" json:"updatedAt"`
}

// TableName specifies the table name for RenewalApplication
func (RenewalApplication) TableName() string {
	return "renewal_applications"
}

// Recipient holds delivery contact details captured during renewal intake
type Recipient struct {
	Name    string `json:"name"`
	Phone   string `json:"phone"`
	Email   string `json:"email"`
	Address string `json:"address"`
}
