package model

import "time"

// SuspiciousActivityRecord is one entry in the security monitor's buffer.
type SuspiciousActivityRecord struct {
	ID        string    `json:"id"`
	Type      string    `json:"type"`
	Details   string    `json:"details"`
	Timestamp time.Time `json:"timestamp"`
	Origin    string    `json:"originContext,omitempty"`
}
