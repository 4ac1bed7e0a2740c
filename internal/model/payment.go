package model

// PaymentStatus represents payment status
type PaymentStatus string

const (
	PaymentStatusPending  PaymentStatus = "pending"
	PaymentStatusPaid     PaymentStatus = "paid"
	PaymentStatusCanceled PaymentStatus = "canceled"
)

// PaymentKind distinguishes what a payment is for
type PaymentKind string

const (
	PaymentKindCourse  PaymentKind = "course"
	PaymentKindRenewal PaymentKind = "renewal"
)

// Payment represents a payment record. Gateway integration is out of scope;
// records are created pending and settled by an external process.
type Payment struct {
	BaseModel
	UserID    int           `gorm:"not null;index" json:"userId"`
	Kind      PaymentKind   `gorm:"type:varchar(16);not null" json:"kind"`
	TargetRef string        `gorm:"type:varchar(64);not null;index" json:"targetRef"`
	Amount    int           `gorm:"not null" json:"amount"`
	Status    PaymentStatus `gorm:"type:enum('pending','paid','canceled');default:'pending'" json:"status"`
}

// TableName specifies the table name for Payment
func (Payment) TableName() string {
	return "payments"
}
