package entities

import "time"

// ContentBlock is a content widget attached to a business's builder page.
// Older blocks were linked directly to the business id before pages existed,
// so lookups check the page link first and fall back to the business id.
type ContentBlock struct {
	ID         string    `json:"id" db:"id"`
	PageID     string    `json:"page_id,omitempty" db:"page_id"`
	BusinessID string    `json:"business_id,omitempty" db:"business_id"`
	Kind       string    `json:"kind" db:"kind"`
	IsActive   bool      `json:"is_active" db:"is_active"`
	IsVisible  bool      `json:"is_visible" db:"is_visible"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
}

// BlockOwner identifies the record a visible-block count is requested for
type BlockOwner struct {
	PageID     string
	BusinessID string
}
