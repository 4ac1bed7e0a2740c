package model

import "time"

// CertificateStatus represents the lifecycle status of an issued certificate
type CertificateStatus string

const (
	CertificateStatusActive     CertificateStatus = "active"
	CertificateStatusExpired    CertificateStatus = "expired"
	CertificateStatusSuperseded CertificateStatus = "superseded"
	CertificateStatusRevoked    CertificateStatus = "revoked"
)

// Certificate represents an issued training credential held by a user.
// Certificates are created by the issuance process and are read-only to the
// renewal engine; status moves to superseded only after an approved renewal.
type Certificate struct {
	BaseModel
	UserID       int               `gorm:"not null;index" json:"userId"`
	TypeCode     string            `gorm:"type:varchar(64);not null;index" json:"typeCode"`
	DisplayName  string            `gorm:"type:varchar(255);not null" json:"displayName"`
	SerialNumber string            `gorm:"type:varchar(64);uniqueIndex;not null" json:"serialNumber"`
	IssuedAt     time.Time         `gorm:"not null" json:"issuedAt"`
	ExpiresAt    time.Time         `gorm:"not null;index" json:"expiresAt"`
	Status       CertificateStatus `gorm:"type:enum('active','expired','superseded','revoked');default:'active'" json:"status"`
}

// TableName specifies the table name for Certificate
func (Certificate) TableName() string {
	return "certificates"
}

// Renewable reports whether the certificate can enter a renewal workflow.
func (c *Certificate) Renewable(now time.Time) bool {
	return c.Status == CertificateStatusActive && c.ExpiresAt.After(now)
}
