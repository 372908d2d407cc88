package certificate

import "gorm.io/gorm"

// VerificationLog is an append-only audit row written on every verification
// attempt, whether or not the hash matched a certificate.
type VerificationLog struct {
	gorm.Model
	CertificateID    *uint  `json:"certificate_id" gorm:"index"` // nil when the hash matched nothing
	VerificationHash string `json:"verification_hash" gorm:"index;not null"`
	VerifiedBy       *uint  `json:"verified_by"` // authenticated verifier, if any
	IsValid          bool   `json:"is_valid" gorm:"default:false"`
	IPAddress        string `json:"ip_address"`
	UserAgent        string `json:"user_agent"`
}
