package certificate

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Certificate represents an issued certificate for course completion.
// The composite unique index on (user_id, course_id) is the actual guarantee
// against duplicate issuance; the pre-insert existence check only exists for
// the friendlier "already issued" response.
type Certificate struct {
	gorm.Model
	UserID            uint              `json:"user_id" gorm:"uniqueIndex:idx_cert_user_course;not null"`
	CourseID          uint              `json:"course_id" gorm:"uniqueIndex:idx_cert_user_course;not null"`
	TemplateID        uint              `json:"template_id" gorm:"index;not null"`
	CertificateNumber string            `json:"certificate_number" gorm:"unique;not null"`
	VerificationHash  string            `json:"verification_hash" gorm:"unique;not null"`
	IssuedAt          time.Time         `json:"issued_at"`
	ExpiresAt         *time.Time        `json:"expires_at"`
	Metadata          datatypes.JSONMap `json:"metadata"`
	IsDeleted         bool              `gorm:"default:false"`
}
