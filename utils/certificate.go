package utils

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"html"
	"math/rand"
	"strings"
	"time"

	"lms/config"
	"lms/models"
	certModels "lms/models/certificate"
	courseModels "lms/models/course"
)

// GenerateCertificateNumber builds a human-readable certificate number:
// CERT- + last 6 digits of the issuance millisecond timestamp + a 4-digit
// random suffix. Display identifier only; the unique column on the
// certificates table is what actually rejects a collision.
func GenerateCertificateNumber(issuedAt time.Time) string {
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	millis := issuedAt.UnixMilli()
	return fmt.Sprintf("CERT-%06d%04d", millis%1000000, rng.Intn(10000))
}

// GenerateVerificationHash derives the opaque lookup key for public
// verification: SHA-256 over the identifiers and issuance timestamp joined
// by a pipe. One-way; it does not seal the rendered certificate content.
func GenerateVerificationHash(userID, courseID uint, certNumber string, issuedAt time.Time) string {
	payload := fmt.Sprintf("%d|%d|%s|%d", userID, courseID, certNumber, issuedAt.UnixMilli())
	sum := sha256.Sum256([]byte(payload))
	return hex.EncodeToString(sum[:])
}

// VerificationURL builds the public verification link embedded in rendered
// certificates.
func VerificationURL(hash string) string {
	return config.AppConfig.BaseURL + "/certificate/verify?hash=" + hash
}

// RenderedCertificate is the renderer output handed to the frontend.
type RenderedCertificate struct {
	HTML string `json:"html"`
	CSS  string `json:"css"`
}

// RenderCertificate substitutes the fixed placeholder set plus every metadata
// key into the template. All substituted values are HTML-entity escaped; no
// field is treated as trusted rich content.
func RenderCertificate(
	tpl *certModels.CertificateTemplate,
	cert *certModels.Certificate,
	user *models.User,
	course *courseModels.Course,
) (*RenderedCertificate, error) {
	if tpl == nil || cert == nil || user == nil || course == nil {
		return nil, fmt.Errorf("certificate render: missing joined record")
	}

	courseHours := course.Duration
	if courseHours == 0 {
		courseHours = 40
	}

	replacements := map[string]string{
		"{{student_name}}":       user.Name,
		"{{course_name}}":        course.Title,
		"{{course_hours}}":       fmt.Sprintf("%d", courseHours),
		"{{issue_date}}":         cert.IssuedAt.Format("January 2, 2006"),
		"{{certificate_number}}": cert.CertificateNumber,
		"{{verification_url}}":   VerificationURL(cert.VerificationHash),
	}

	for key, value := range cert.Metadata {
		replacements["{{"+key+"}}"] = fmt.Sprintf("%v", value)
	}

	rendered := tpl.HTMLBody
	for token, value := range replacements {
		rendered = strings.ReplaceAll(rendered, token, html.EscapeString(value))
	}

	return &RenderedCertificate{HTML: rendered, CSS: tpl.CSSText}, nil
}
