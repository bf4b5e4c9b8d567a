package models

import "time"

// RiskHistoryEntry is the append-only projection of an assessment into the
// per-customer timeline. Entries are never updated; they disappear only when
// the owning customer is removed.
type RiskHistoryEntry struct {
	ID         int64     `json:"id"`
	CustomerID string    `json:"customer_id"`
	DealID     *string   `json:"deal_id,omitempty"`
	Score      int       `json:"score"`
	Level      RiskLevel `json:"level"`
	RecordedAt time.Time `json:"recorded_at"`
}
