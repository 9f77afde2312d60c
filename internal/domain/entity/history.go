package entity

import "time"

// ReviewHistoryEntry is one record in the append-only audit trail of a
// payment request. Entries are created exactly once per status transition
// and are never mutated or deleted.
type ReviewHistoryEntry struct {
	ID             int64     `json:"id"`
	RequestID      int64     `json:"request_id"`
	ActorID        string    `json:"actor_id"`
	ActorRole      string    `json:"actor_role"`
	Action         string    `json:"action"`
	PreviousStatus string    `json:"previous_status"`
	NewStatus      string    `json:"new_status"`
	Comment        string    `json:"comment,omitempty"`
	Timestamp      time.Time `json:"timestamp"`
}
