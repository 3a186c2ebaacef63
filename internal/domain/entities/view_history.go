package entities

import "time"

// ViewEvent is a single append-only "user viewed business" record
type ViewEvent struct {
	ID         string    `json:"id" db:"id"`
	UserID     string    `json:"user_id" db:"user_id"`
	BusinessID string    `json:"business_id" db:"business_id"`
	ViewedAt   time.Time `json:"viewed_at" db:"viewed_at"`
}

// ViewAggregate is the per-target rollup the discovery engine consumes:
// most recent view time and total view count for one business.
type ViewAggregate struct {
	BusinessID   string    `json:"business_id" db:"business_id"`
	LastViewedAt time.Time `json:"last_viewed_at" db:"last_viewed_at"`
	ViewCount    int       `json:"view_count" db:"view_count"`
}

// BusinessEvent is published on the event bus when something happens to a
// business that adjacent collaborators care about (e.g. view-count
// incrementing, which is out of core).
type BusinessEvent struct {
	ID         string    `json:"id"`
	Type       string    `json:"type"`
	BusinessID string    `json:"business_id"`
	UserID     string    `json:"user_id,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}

// Event types published by this service
const (
	EventTypeBusinessViewed = "business.viewed"
)
