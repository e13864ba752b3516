package domain

import "time"

// WebhookEvent is a signature-verified webhook delivery routed to topic
// handlers.
type WebhookEvent struct {
	ID         string    `json:"id"`
	Topic      string    `json:"topic"`
	Shop       string    `json:"shop"`
	Payload    []byte    `json:"-"`
	Verified   bool      `json:"verified"`
	ReceivedAt time.Time `json:"received_at"`
}
