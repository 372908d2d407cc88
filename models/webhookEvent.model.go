package models

import (
	"gorm.io/gorm"
)

// WebhookEvent stores every accepted inbound webhook delivery. The composite
// unique index on (provider, event_id) makes redelivered events no-ops.
type WebhookEvent struct {
	gorm.Model
	Provider  string `json:"provider" gorm:"uniqueIndex:idx_webhook_event;not null"` // PAYMENT, ENROLLMENT
	EventID   string `json:"event_id" gorm:"uniqueIndex:idx_webhook_event;not null"`
	ReceiptID string `json:"receipt_id" gorm:"index"` // uuid handed back to the provider
	EventType string `json:"event_type"`
	Payload   string `json:"payload"` // raw JSON body as received
	Status    string `json:"status" gorm:"default:'PROCESSED'"` // PROCESSED, FAILED, IGNORED
	Error     string `json:"error"`
	IsDeleted bool   `gorm:"default:false"`
}
