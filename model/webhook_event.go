package model

import "time"

// WebhookEvent records a processed payment-processor event id. Inserted
// with ON CONFLICT DO NOTHING, it gives webhook deduplication that
// survives process restarts; a replayed delivery hits the primary key
// and is answered as an idempotent no-op.
type WebhookEvent struct {
	EventID    string    `gorm:"primaryKey" json:"eventId"`
	EventType  string    `gorm:"not null" json:"eventType"`
	ReceivedAt time.Time `gorm:"autoCreateTime" json:"receivedAt"`
}
