package entities

import (
	"time"
)

// User represents an already-authenticated caller. Session resolution is out
// of scope; the discovery engine only consumes the stored profile location
// and the link to the caller's own business.
type User struct {
	ID         string    `json:"id" db:"id"`
	Email      string    `json:"email" db:"email"`
	FirstName  string    `json:"first_name" db:"first_name"`
	LastName   string    `json:"last_name" db:"last_name"`
	BusinessID string    `json:"business_id,omitempty" db:"business_id"`
	Location   GeoPoint  `json:"location" db:"-"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
	UpdatedAt  time.Time `json:"updated_at" db:"updated_at"`
}

// Favorite links a user to a business they favorited
type Favorite struct {
	ID         string    `json:"id" db:"id"`
	UserID     string    `json:"user_id" db:"user_id"`
	BusinessID string    `json:"business_id" db:"business_id"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
}

// PreferenceProfile is the per-request personalization input: taxonomy
// identifiers aggregated from the caller's own business and their favorites.
// It is computed fresh on every request and never persisted.
type PreferenceProfile struct {
	IndustryIDs    map[string]struct{}
	SubIndustryIDs map[string]struct{}
}

// NewPreferenceProfile returns an empty profile
func NewPreferenceProfile() *PreferenceProfile {
	return &PreferenceProfile{
		IndustryIDs:    make(map[string]struct{}),
		SubIndustryIDs: make(map[string]struct{}),
	}
}

// AddBusiness folds a business's taxonomy identifiers into the profile
func (p *PreferenceProfile) AddBusiness(b *Business) {
	if b == nil {
		return
	}
	if b.IndustryID != "" {
		p.IndustryIDs[b.IndustryID] = struct{}{}
	}
	if b.SubIndustryID != "" {
		p.SubIndustryIDs[b.SubIndustryID] = struct{}{}
	}
}

// IsEmpty reports whether the profile carries no preferences
func (p *PreferenceProfile) IsEmpty() bool {
	return p == nil || (len(p.IndustryIDs) == 0 && len(p.SubIndustryIDs) == 0)
}
