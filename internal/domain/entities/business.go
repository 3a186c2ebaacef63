package entities

import (
	"time"

	"github.com/discoverly/discoverly/backend/pkg/geoutil"
)

// Business is the read-only candidate projection the discovery engine
// operates on. Industry can be carried two ways: taxonomy identifiers
// (IndustryID/SubIndustryID) on newer records, free-text legacy fields on
// records that predate the taxonomy catalog.
type Business struct {
	ID                string              `json:"id" db:"id"`
	OwnerID           string              `json:"owner_id" db:"owner_id"`
	Name              string              `json:"name" db:"name"`
	Address           Address             `json:"address" db:"-"`
	Location          GeoPoint            `json:"location" db:"-"`
	IndustryID        string              `json:"industry_id,omitempty" db:"industry_id"`
	SubIndustryID     string              `json:"sub_industry_id,omitempty" db:"sub_industry_id"`
	LegacyIndustry    string              `json:"legacy_industry,omitempty" db:"legacy_industry"`
	LegacySubIndustry string              `json:"legacy_sub_industry,omitempty" db:"legacy_sub_industry"`
	PriceTier         string              `json:"price_tier,omitempty" db:"price_tier"`
	FeatureTags       []string            `json:"feature_tags,omitempty" db:"-"`
	ViewCount         int                 `json:"view_count" db:"view_count"`
	FavoriteCount     int                 `json:"favorite_count" db:"favorite_count"`
	RatingAverage     float64             `json:"rating_average" db:"rating_average"`
	RatingCount       int                 `json:"rating_count" db:"rating_count"`
	CompletionPercent float64             `json:"completion_percent" db:"completion_percent"`
	LogoURL           string              `json:"logo_url,omitempty" db:"logo_url"`
	CoverImageURL     string              `json:"cover_image_url,omitempty" db:"cover_image_url"`
	ShortDescription  string              `json:"short_description,omitempty" db:"short_description"`
	Description       string              `json:"description,omitempty" db:"description"`
	PageID            string              `json:"page_id,omitempty" db:"page_id"`
	Hours             *WeeklyServiceHours `json:"hours,omitempty" db:"-"`
	IsActive          bool                `json:"is_active" db:"is_active"`
	CreatedAt         time.Time           `json:"created_at" db:"created_at"`
	UpdatedAt         time.Time           `json:"updated_at" db:"updated_at"`
}

// Address represents a physical address
type Address struct {
	Street  string `json:"street" db:"street"`
	City    string `json:"city" db:"city"`
	State   string `json:"state" db:"state"`
	ZipCode string `json:"zip_code" db:"zip_code"`
	Country string `json:"country" db:"country"`
}

// GeoPoint represents geographical coordinates. The zero value [0,0] is the
// "no location set" sentinel, never a real coordinate.
type GeoPoint struct {
	Latitude  float64 `json:"latitude" db:"latitude"`
	Longitude float64 `json:"longitude" db:"longitude"`
}

// IsSet reports whether the point carries a real coordinate
func (p GeoPoint) IsSet() bool {
	return !geoutil.IsNullIsland(p.Latitude, p.Longitude)
}

// HasIndustry reports whether the record resolves to any industry, via
// taxonomy identifier or legacy free text
func (b *Business) HasIndustry() bool {
	return b.IndustryID != "" || b.LegacyIndustry != ""
}

// HasDescription reports whether either description field is populated
func (b *Business) HasDescription() bool {
	return b.ShortDescription != "" || b.Description != ""
}

// HasResolvableLocation reports whether the record can be placed at all:
// street text, city text, or a non-sentinel geo point
func (b *Business) HasResolvableLocation() bool {
	return b.Address.Street != "" || b.Address.City != "" || b.Location.IsSet()
}

// HasEngagement reports whether the record has any recorded interaction
func (b *Business) HasEngagement() bool {
	return b.ViewCount > 0 || b.FavoriteCount > 0 || b.RatingCount > 0
}
