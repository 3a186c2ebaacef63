package entities

// DiscoveryResult is one ranked, enriched entry in a discovery response.
// Distance is in kilometers, rounded to two decimals, and nil when the
// request had no location context. Created transiently per request.
type DiscoveryResult struct {
	Business        *Business `json:"business"`
	Distance        *float64  `json:"distance"`
	DistanceUnit    string    `json:"distanceUnit"`
	IsCurrentlyOpen bool      `json:"isCurrentlyOpen"`

	// Mode-specific scores, present only where the mode computes them
	PersonalizationScore *float64 `json:"personalizationScore,omitempty"`
	TopPickScore         *float64 `json:"topPickScore,omitempty"`
	EngagementScore      *float64 `json:"engagementScore,omitempty"`
}

// Pagination describes the slice of the filtered result set being returned
type Pagination struct {
	CurrentPage int  `json:"currentPage"`
	TotalPages  int  `json:"totalPages"`
	TotalCount  int  `json:"totalCount"`
	Limit       int  `json:"limit"`
	HasNextPage bool `json:"hasNextPage"`
	HasPrevPage bool `json:"hasPrevPage"`
}

// NewPagination computes pagination metadata for a filtered total
func NewPagination(totalCount, page, limit int) *Pagination {
	totalPages := 0
	if limit > 0 {
		totalPages = (totalCount + limit - 1) / limit
	}
	return &Pagination{
		CurrentPage: page,
		TotalPages:  totalPages,
		TotalCount:  totalCount,
		Limit:       limit,
		HasNextPage: page < totalPages,
		HasPrevPage: page > 1 && totalPages > 0,
	}
}
