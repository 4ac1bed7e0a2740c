package model

import "time"

// CourseStatus represents course availability
type CourseStatus string

const (
	CourseStatusOpen   CourseStatus = "open"
	CourseStatusClosed CourseStatus = "closed"
)

// Course represents a training course in the catalog
type Course struct {
	BaseModel
	Title       string       `gorm:"type:varchar(255);not null" json:"title"`
	TypeCode    string       `gorm:"type:varchar(64);not null;index" json:"typeCode"`
	Description string       `gorm:"type:text" json:"description"`
	Price       int          `gorm:"not null" json:"price"`
	Capacity    int          `gorm:"not null;default:0" json:"capacity"`
	StartsAt    time.Time    `json:"startsAt"`
	Status      CourseStatus `gorm:"type:enum('open','closed');default:'open'" json:"status"`
}

// TableName specifies the table name for Course
func (Course) TableName() string {
	return "courses"
}

// CourseApplicationStatus represents course application status
type CourseApplicationStatus string

const (
	CourseApplicationPending  CourseApplicationStatus = "pending"
	CourseApplicationAccepted CourseApplicationStatus = "accepted"
	CourseApplicationRejected CourseApplicationStatus = "rejected"
)

// CourseApplication represents a user's application to attend a course
type CourseApplication struct {
	BaseModel
	UserID   int                     `gorm:"not null;index" json:"userId"`
	CourseID int                     `gorm:"not null;index" json:"courseId"`
	Status   CourseApplicationStatus `gorm:"type:enum('pending','accepted','rejected');default:'pending'" json:"status"`
	Note     string                  `gorm:"type:varchar(500)" json:"note"`
}

// TableName specifies the table name for CourseApplication
func (CourseApplication) TableName() string {
	return "course_applications"
}
