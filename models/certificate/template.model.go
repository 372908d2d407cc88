package certificate

import "gorm.io/gorm"

// CertificateTemplate stores the HTML/CSS layout used to render issued
// certificates. Placeholder tokens like {{student_name}} are substituted at
// render time. At most one template is marked default; the application clears
// the previous default when a new one is set.
type CertificateTemplate struct {
	gorm.Model
	Name               string `json:"name" gorm:"not null"`
	Description        string `json:"description"`
	HTMLBody           string `json:"html_body"`
	CSSText            string `json:"css_text"`
	BackgroundImageURL string `json:"background_image_url"`
	IsDefault          bool   `json:"is_default" gorm:"default:false"`
	IsDeleted          bool   `gorm:"default:false"`
}
