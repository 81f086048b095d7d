package matching

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"quickfix-server/models"
)

func worker(name, skill string, opts func(*models.WorkerProfile)) models.WorkerProfile {
	w := models.WorkerProfile{
		Skill:       skill,
		Rating:      4.0,
		MinCharge:   200,
		IsApproved:  true,
		IsActive:    true,
		IsAvailable: true,
		Lat:         28.6139,
		Lng:         77.2090,
		User:        models.User{Name: name},
	}
	if opts != nil {
		opts(&w)
	}
	return w
}

func TestDistanceIdentity(t *testing.T) {
	assert.Equal(t, 0.0, Distance(28.6139, 77.2090, 28.6139, 77.2090))
}

func TestDistanceSymmetry(t *testing.T) {
	pairs := [][4]float64{
		{28.6139, 77.2090, 28.4595, 77.0266},
		{12.9716, 77.5946, 13.0827, 80.2707},
		{-33.8688, 151.2093, 51.5074, -0.1278},
	}
	for _, p := range pairs {
		assert.Equal(t, Distance(p[0], p[1], p[2], p[3]), Distance(p[2], p[3], p[0], p[1]))
	}
}

func TestDistanceDelhiGurgaon(t *testing.T) {
	// Connaught Place to Gurgaon, a well-known ~30 km hop.
	d := Distance(28.6139, 77.2090, 28.4595, 77.0266)
	assert.GreaterOrEqual(t, d, 24.0)
	assert.LessOrEqual(t, d, 31.0)
}

func TestDistanceRoundedToOneDecimal(t *testing.T) {
	d := Distance(28.6139, 77.2090, 28.5355, 77.3910)
	assert.Equal(t, d, float64(int(d*10))/10)
}

func TestValidateCoordinates(t *testing.T) {
	assert.NoError(t, ValidateCoordinates(28.6, 77.2))
	assert.ErrorIs(t, ValidateCoordinates(91, 0), ErrInvalidCoordinates)
	assert.ErrorIs(t, ValidateCoordinates(0, 181), ErrInvalidCoordinates)
	assert.ErrorIs(t, ValidateCoordinates(-90.1, 0), ErrInvalidCoordinates)
}

func TestRankRejectsInvalidCoordinates(t *testing.T) {
	_, err := DefaultWeights().Rank(nil, 200, 0, Filter{})
	assert.ErrorIs(t, err, ErrInvalidCoordinates)
}

func TestRankEligibilityGate(t *testing.T) {
	workers := []models.WorkerProfile{
		worker("Approved", "Electrician", nil),
		worker("Unapproved", "Electrician", func(w *models.WorkerProfile) { w.IsApproved = false }),
		worker("Suspended", "Electrician", func(w *models.WorkerProfile) { w.IsActive = false }),
	}

	matches, err := DefaultWeights().Rank(workers, 28.6139, 77.2090, Filter{})
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, "Approved", matches[0].User.Name)
}

func TestRankAvailableOnly(t *testing.T) {
	workers := []models.WorkerProfile{
		worker("Online", "Plumber", nil),
		worker("Offline", "Plumber", func(w *models.WorkerProfile) { w.IsAvailable = false }),
	}

	matches, err := DefaultWeights().Rank(workers, 28.6139, 77.2090, Filter{AvailableOnly: true})
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, "Online", matches[0].User.Name)

	// Without the flag the offline worker is still visible.
	matches, err = DefaultWeights().Rank(workers, 28.6139, 77.2090, Filter{SortBy: SortRating})
	require.NoError(t, err)
	assert.Len(t, matches, 2)
}

func TestRankCategoryBidirectionalSubstring(t *testing.T) {
	workers := []models.WorkerProfile{
		worker("A", "Electrician & Wiring", nil),
		worker("B", "Plumber", func(w *models.WorkerProfile) { w.Skills = []string{"Pipe Fitting", "electrician work"} }),
		worker("C", "Painter", nil),
	}

	matches, err := DefaultWeights().Rank(workers, 28.6139, 77.2090, Filter{Category: "Electrician"})
	require.NoError(t, err)
	require.Len(t, matches, 2)

	// The shorter string may be contained in the longer one in either direction.
	matches, err = DefaultWeights().Rank(workers, 28.6139, 77.2090, Filter{Category: "AC Technician Electrician Wiring"})
	require.NoError(t, err)
	assert.Empty(t, matches)
}

func TestRankQueryFilter(t *testing.T) {
	workers := []models.WorkerProfile{
		worker("Amit Sharma", "Electrician", func(w *models.WorkerProfile) { w.Area = "Noida" }),
		worker("Ravi Singh", "Plumber", func(w *models.WorkerProfile) { w.Skills = []string{"Leak Detection"} }),
	}

	for query, want := range map[string]string{
		"amit":  "Amit Sharma",
		"noida": "Amit Sharma",
		"leak":  "Ravi Singh",
		"PLUMB": "Ravi Singh",
	} {
		matches, err := DefaultWeights().Rank(workers, 28.6139, 77.2090, Filter{Query: query})
		require.NoError(t, err)
		require.Len(t, matches, 1, "query %q", query)
		assert.Equal(t, want, matches[0].User.Name)
	}
}

func TestRankPriceFilterInclusive(t *testing.T) {
	workers := []models.WorkerProfile{
		worker("Cheap", "Cleaner", func(w *models.WorkerProfile) { w.MinCharge = 100 }),
		worker("Mid", "Cleaner", func(w *models.WorkerProfile) { w.MinCharge = 300 }),
		worker("Premium", "Cleaner", func(w *models.WorkerProfile) { w.MinCharge = 900 }),
	}

	matches, err := DefaultWeights().Rank(workers, 28.6139, 77.2090, Filter{PriceMin: 100, PriceMax: 300, SortBy: SortPrice})
	require.NoError(t, err)
	require.Len(t, matches, 2)
	assert.Equal(t, 100, matches[0].MinCharge)
	assert.Equal(t, 300, matches[1].MinCharge)
}

func TestRankRatingSortStable(t *testing.T) {
	workers := []models.WorkerProfile{
		worker("First", "Cleaner", func(w *models.WorkerProfile) { w.Rating = 4.5 }),
		worker("Second", "Cleaner", func(w *models.WorkerProfile) { w.Rating = 4.5 }),
		worker("Third", "Cleaner", func(w *models.WorkerProfile) { w.Rating = 4.9 }),
	}

	matches, err := DefaultWeights().Rank(workers, 28.6139, 77.2090, Filter{SortBy: SortRating})
	require.NoError(t, err)
	require.Len(t, matches, 3)
	assert.Equal(t, "Third", matches[0].User.Name)
	assert.Equal(t, "First", matches[1].User.Name)
	assert.Equal(t, "Second", matches[2].User.Name)
}

func TestRankDistanceSort(t *testing.T) {
	workers := []models.WorkerProfile{
		worker("Far", "Cleaner", func(w *models.WorkerProfile) { w.Lat, w.Lng = 28.4595, 77.0266 }),
		worker("Near", "Cleaner", func(w *models.WorkerProfile) { w.Lat, w.Lng = 28.6145, 77.2100 }),
	}

	matches, err := DefaultWeights().Rank(workers, 28.6139, 77.2090, Filter{SortBy: SortDistance})
	require.NoError(t, err)
	require.Len(t, matches, 2)
	assert.Equal(t, "Near", matches[0].User.Name)
	assert.Less(t, matches[0].Distance, matches[1].Distance)
}

func TestScoreWeights(t *testing.T) {
	w := DefaultWeights()

	available := worker("A", "Cleaner", func(wp *models.WorkerProfile) {
		wp.Rating = 5
		wp.MinCharge = 0
	})
	// Coincident location, perfect rating, free: every term maxes out.
	assert.InDelta(t, 1.0, w.Score(&available, 0), 1e-9)

	offline := available
	offline.IsAvailable = false
	assert.InDelta(t, 0.6, w.Score(&offline, 0), 1e-9)

	// Distance term decays to zero at 20km and beyond.
	assert.InDelta(t, 0.7, w.Score(&available, 20), 1e-9)
	assert.InDelta(t, 0.7, w.Score(&available, 50), 1e-9)

	// Price term is not clamped: a 2000 charge goes negative and drags the
	// score below the zero-price baseline.
	expensive := available
	expensive.MinCharge = 2000
	assert.InDelta(t, 0.8, w.Score(&expensive, 0), 1e-9)
}

func TestRankRecommendedOrdersByScore(t *testing.T) {
	workers := []models.WorkerProfile{
		worker("Offline", "Cleaner", func(w *models.WorkerProfile) { w.IsAvailable = false; w.Rating = 5 }),
		worker("Online", "Cleaner", func(w *models.WorkerProfile) { w.Rating = 3 }),
	}

	matches, err := DefaultWeights().Rank(workers, 28.6139, 77.2090, Filter{})
	require.NoError(t, err)
	require.Len(t, matches, 2)
	// Availability carries 0.4 weight, so the online worker wins despite the
	// lower rating.
	assert.Equal(t, "Online", matches[0].User.Name)
	assert.Greater(t, matches[0].Score, matches[1].Score)
}

func TestRankLimit(t *testing.T) {
	workers := []models.WorkerProfile{
		worker("A", "Cleaner", nil),
		worker("B", "Cleaner", nil),
		worker("C", "Cleaner", nil),
	}

	matches, err := DefaultWeights().Rank(workers, 28.6139, 77.2090, Filter{Limit: 2})
	require.NoError(t, err)
	assert.Len(t, matches, 2)
}
