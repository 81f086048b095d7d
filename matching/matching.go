// Package matching ranks approved workers for a customer's location and
// filter criteria. All computation is pure; callers pass worker rows in and
// get a distance-annotated, sorted slice back.
package matching

import (
	"errors"
	"math"
	"sort"
	"strings"

	"quickfix-server/models"
)

// ErrInvalidCoordinates is returned when a latitude/longitude pair is outside
// the valid range.
var ErrInvalidCoordinates = errors.New("invalid coordinates")

const earthRadiusKm = 6371

// Weights controls the composite "recommended" score. The defaults are a
// deliberate policy: availability dominates because an unavailable worker
// cannot be booked at all, distance decays linearly within a practical 20 km
// service radius, rating and price are secondary tie-breakers.
type Weights struct {
	Availability float64
	Distance     float64
	Rating       float64
	Price        float64

	// RadiusKm is the distance at which the distance term reaches zero.
	RadiusKm float64
	// PriceNorm normalizes min charge; cheaper workers score higher and the
	// term is intentionally not clamped below zero.
	PriceNorm float64
}

// DefaultWeights returns the scoring defaults. Deployments may tune these via
// config, but the defaults are a behavioral contract.
func DefaultWeights() Weights {
	return Weights{
		Availability: 0.4,
		Distance:     0.3,
		Rating:       0.2,
		Price:        0.1,
		RadiusKm:     20,
		PriceNorm:    1000,
	}
}

// Sort orders accepted by Rank.
const (
	SortRecommended = "recommended"
	SortRating      = "rating"
	SortDistance    = "distance"
	SortPrice       = "price"
)

// Filter narrows and orders the result set. The zero value applies only the
// approved/active eligibility gate and the recommended sort.
type Filter struct {
	Category      string
	Query         string
	SortBy        string
	PriceMin      int
	PriceMax      int
	AvailableOnly bool
	Limit         int
}

// Match is a worker annotated with the computed distance from the requester
// and, for the recommended sort, the composite score.
type Match struct {
	models.WorkerProfile
	Distance float64 `json:"distance"`
	Score    float64 `json:"score,omitempty"`
}

// ValidateCoordinates checks that a lat/lng pair is on the globe.
func ValidateCoordinates(lat, lng float64) error {
	if math.IsNaN(lat) || math.IsNaN(lng) || lat < -90 || lat > 90 || lng < -180 || lng > 180 {
		return ErrInvalidCoordinates
	}
	return nil
}

// Distance calculates the great-circle distance in kilometers between two
// points using the haversine formula, rounded to one decimal place.
func Distance(lat1, lng1, lat2, lng2 float64) float64 {
	lat1Rad := lat1 * math.Pi / 180
	lat2Rad := lat2 * math.Pi / 180
	deltaLat := (lat2 - lat1) * math.Pi / 180
	deltaLng := (lng2 - lng1) * math.Pi / 180

	a := math.Sin(deltaLat/2)*math.Sin(deltaLat/2) +
		math.Cos(lat1Rad)*math.Cos(lat2Rad)*
			math.Sin(deltaLng/2)*math.Sin(deltaLng/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return math.Round(earthRadiusKm*c*10) / 10
}

// Score computes the composite ranking score for a worker at the given
// distance from the requester. Each term is normalized to [0,1] except the
// price term, which can go negative for workers charging above the norm.
func (w Weights) Score(worker *models.WorkerProfile, distanceKm float64) float64 {
	availability := 0.0
	if worker.IsAvailable {
		availability = 1.0
	}
	distanceScore := math.Max(0, 1-distanceKm/w.RadiusKm)
	ratingScore := worker.Rating / 5
	priceScore := 1 - float64(worker.MinCharge)/w.PriceNorm

	return availability*w.Availability +
		distanceScore*w.Distance +
		ratingScore*w.Rating +
		priceScore*w.Price
}

// Rank filters, annotates and sorts workers for a requester at (lat, lng).
// Workers that are not approved or not active never appear; AvailableOnly
// additionally drops offline workers. All sorts are stable so equal keys
// preserve input order.
func (w Weights) Rank(workers []models.WorkerProfile, lat, lng float64, filter Filter) ([]Match, error) {
	if err := ValidateCoordinates(lat, lng); err != nil {
		return nil, err
	}

	matches := make([]Match, 0, len(workers))
	for i := range workers {
		worker := &workers[i]
		if !worker.IsVisible() {
			continue
		}
		if filter.AvailableOnly && !worker.IsAvailable {
			continue
		}
		if filter.Category != "" && !matchesCategory(worker, filter.Category) {
			continue
		}
		if filter.Query != "" && !matchesQuery(worker, filter.Query) {
			continue
		}
		if filter.PriceMin > 0 && worker.MinCharge < filter.PriceMin {
			continue
		}
		if filter.PriceMax > 0 && worker.MinCharge > filter.PriceMax {
			continue
		}

		distance := Distance(lat, lng, worker.Lat, worker.Lng)
		match := Match{WorkerProfile: *worker, Distance: distance}
		if filter.SortBy == "" || filter.SortBy == SortRecommended {
			match.Score = w.Score(worker, distance)
		}
		matches = append(matches, match)
	}

	switch filter.SortBy {
	case SortRating:
		sort.SliceStable(matches, func(i, j int) bool {
			return matches[i].Rating > matches[j].Rating
		})
	case SortDistance:
		sort.SliceStable(matches, func(i, j int) bool {
			return matches[i].Distance < matches[j].Distance
		})
	case SortPrice:
		sort.SliceStable(matches, func(i, j int) bool {
			return matches[i].MinCharge < matches[j].MinCharge
		})
	default:
		sort.SliceStable(matches, func(i, j int) bool {
			return matches[i].Score > matches[j].Score
		})
	}

	if filter.Limit > 0 && filter.Limit < len(matches) {
		matches = matches[:filter.Limit]
	}
	return matches, nil
}

// matchesCategory does a bidirectional case-insensitive substring match
// between the requested category and the worker's skill labels, so
// "Electrician" matches a worker whose skill is "Electrician & Wiring" and
// vice versa.
func matchesCategory(worker *models.WorkerProfile, category string) bool {
	if containsEitherWay(worker.Skill, category) {
		return true
	}
	for _, skill := range worker.Skills {
		if containsEitherWay(skill, category) {
			return true
		}
	}
	return false
}

func matchesQuery(worker *models.WorkerProfile, query string) bool {
	q := strings.ToLower(query)
	if strings.Contains(strings.ToLower(worker.User.Name), q) ||
		strings.Contains(strings.ToLower(worker.Skill), q) ||
		strings.Contains(strings.ToLower(worker.Area), q) {
		return true
	}
	for _, skill := range worker.Skills {
		if strings.Contains(strings.ToLower(skill), q) {
			return true
		}
	}
	return false
}

func containsEitherWay(a, b string) bool {
	la, lb := strings.ToLower(a), strings.ToLower(b)
	return strings.Contains(la, lb) || strings.Contains(lb, la)
}
