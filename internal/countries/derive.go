// Package countries holds the rules that turn the fetched country collection
// into what the Home screen shows: the slider pick, the featured pick, the
// region filter and the paginated grid.
package countries

import (
	"math/rand/v2"

	"countries_app_echo/internal/models"
)

const (
	// RegionAll disables region filtering.
	RegionAll = "All"
	// PageSize is both the initial visible count and the "load more" step.
	PageSize = 6
	// SliderDefaultName is preferred for the initial slider selection.
	SliderDefaultName = "India"
)

// Regions lists the filter options offered on the Home screen, in display order.
var Regions = []string{RegionAll, "Asia", "Europe"}

// IsRegionOption reports whether region is one of Regions.
func IsRegionOption(region string) bool {
	for _, r := range Regions {
		if r == region {
			return true
		}
	}
	return false
}

// RandomSource picks an index in [0, n).
type RandomSource interface {
	IntN(n int) int
}

type globalRandom struct{}

func (globalRandom) IntN(n int) int { return rand.IntN(n) }

// DefaultRandom uses the math/rand/v2 global generator and is safe for concurrent use.
var DefaultRandom RandomSource = globalRandom{}

// SliderDefault returns the record named SliderDefaultName, or the first
// record when there is none. ok is false for an empty list.
func SliderDefault(list []models.Country) (c models.Country, ok bool) {
	if len(list) == 0 {
		return models.Country{}, false
	}
	for _, country := range list {
		if country.Name == SliderDefaultName {
			return country, true
		}
	}
	return list[0], true
}

// PickFeatured returns a uniformly random record from list.
func PickFeatured(list []models.Country, rng RandomSource) (models.Country, bool) {
	if len(list) == 0 {
		return models.Country{}, false
	}
	if rng == nil {
		rng = DefaultRandom
	}
	return list[rng.IntN(len(list))], true
}

// FilterByRegion returns the records whose region equals region, keeping
// their relative order. RegionAll returns list itself.
func FilterByRegion(list []models.Country, region string) []models.Country {
	if region == RegionAll {
		return list
	}
	filtered := make([]models.Country, 0, len(list))
	for _, country := range list {
		if country.Region == region {
			filtered = append(filtered, country)
		}
	}
	return filtered
}

// VisibleSlice returns the first cursor records of list. A cursor past the
// end yields the whole list.
func VisibleSlice(list []models.Country, cursor int) []models.Country {
	if cursor < 0 {
		cursor = 0
	}
	return list[:min(cursor, len(list))]
}

// FindByName returns the first record with the given name.
func FindByName(list []models.Country, name string) (models.Country, bool) {
	for _, country := range list {
		if country.Name == name {
			return country, true
		}
	}
	return models.Country{}, false
}
