package handlers

import (
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/discoverly/discoverly/backend/internal/application/services"
	apperrors "github.com/discoverly/discoverly/backend/pkg/errors"
)

// parseDiscoveryFilters reads the recognized filter options from the query
// string. A coordinate that is present but not a number is a field error;
// other unparseable numerics are kept as zero values and caught by service
// validation where they matter; unknown parameters are ignored.
func parseDiscoveryFilters(r *http.Request) (services.DiscoveryFilters, error) {
	q := r.URL.Query()

	filters := services.DiscoveryFilters{
		MaxDistanceM:    parseFloat(q, "maxDistance"),
		Limit:           parseInt(q, "limit"),
		Page:            parseInt(q, "page"),
		Category:        firstNonEmpty(q.Get("category"), q.Get("businessType")),
		MinRating:       parseFloat(q, "rating"),
		PriceTiers:      parseList(q, "priceRange"),
		OpenedStatus:    q.Get("openedStatus"),
		FeatureTags:     parseList(q, "features"),
		Search:          q.Get("search"),
		SortBy:          q.Get("sortBy"),
		TopRated:        parseBool(q, "toprated"),
		MostLiked:       parseBool(q, "mostliked"),
		OpenNow:         parseBool(q, "opennow"),
		Nearby:          parseBool(q, "nearby"),
		CompleteProfile: parseBool(q, "completeProfile"),
	}

	var fields []apperrors.FieldError
	filters.Latitude = parseFloatPtr(q, "latitude", &fields)
	filters.Longitude = parseFloatPtr(q, "longitude", &fields)
	if len(fields) > 0 {
		return filters, apperrors.NewFieldValidationError(fields)
	}

	return filters, nil
}

// appliedFilters echoes the caller's effective filter set back in the
// response envelope
func appliedFilters(f services.DiscoveryFilters) map[string]interface{} {
	applied := map[string]interface{}{
		"limit": f.Limit,
		"page":  f.Page,
	}
	if f.Latitude != nil && f.Longitude != nil {
		applied["latitude"] = *f.Latitude
		applied["longitude"] = *f.Longitude
		applied["maxDistance"] = f.MaxDistanceM
	}
	if f.Category != "" {
		applied["category"] = f.Category
	}
	if f.MinRating > 0 {
		applied["rating"] = f.MinRating
	}
	if len(f.PriceTiers) > 0 {
		applied["priceRange"] = f.PriceTiers
	}
	if f.OpenedStatus != "" {
		applied["openedStatus"] = f.OpenedStatus
	}
	if len(f.FeatureTags) > 0 {
		applied["features"] = f.FeatureTags
	}
	if f.Search != "" {
		applied["search"] = f.Search
	}
	if f.SortBy != "" {
		applied["sortBy"] = f.SortBy
	}
	if flags := flagList(f); len(flags) > 0 {
		applied["flags"] = flags
	}
	return applied
}

func flagList(f services.DiscoveryFilters) []string {
	var flags []string
	if f.TopRated {
		flags = append(flags, "toprated")
	}
	if f.MostLiked {
		flags = append(flags, "mostliked")
	}
	if f.OpenNow {
		flags = append(flags, "opennow")
	}
	if f.Nearby {
		flags = append(flags, "nearby")
	}
	if f.CompleteProfile {
		flags = append(flags, "completeProfile")
	}
	return flags
}

func parseFloat(q url.Values, key string) float64 {
	v, err := strconv.ParseFloat(q.Get(key), 64)
	if err != nil {
		return 0
	}
	return v
}

func parseFloatPtr(q url.Values, key string, fields *[]apperrors.FieldError) *float64 {
	raw := q.Get(key)
	if raw == "" {
		return nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		*fields = append(*fields, apperrors.FieldError{
			Field:   key,
			Message: "must be a number",
		})
		return nil
	}
	return &v
}

func parseInt(q url.Values, key string) int {
	v, err := strconv.Atoi(q.Get(key))
	if err != nil {
		return 0
	}
	return v
}

func parseBool(q url.Values, key string) bool {
	v, err := strconv.ParseBool(q.Get(key))
	if err != nil {
		return false
	}
	return v
}

// parseList accepts both repeated parameters and comma-separated values
func parseList(q url.Values, key string) []string {
	var values []string
	for _, raw := range q[key] {
		for _, part := range strings.Split(raw, ",") {
			if trimmed := strings.TrimSpace(part); trimmed != "" {
				values = append(values, trimmed)
			}
		}
	}
	return values
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
