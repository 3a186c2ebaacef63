package entities

import "time"

// Industry is an entry in the industry/sub-industry catalog. Sub-industries
// reference their parent through ParentID.
type Industry struct {
	ID        string    `json:"id" db:"id"`
	Title     string    `json:"title" db:"title"`
	ParentID  string    `json:"parent_id,omitempty" db:"parent_id"`
	IsActive  bool      `json:"is_active" db:"is_active"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// IsSubIndustry reports whether the entry is nested under a parent industry
func (i *Industry) IsSubIndustry() bool {
	return i.ParentID != ""
}
