package tours

import (
	"encoding/json"
	"testing"
	"time"

	"tourhub/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleTour() models.Tour {
	return models.Tour{
		Name:        "Istanbul Getaway",
		Description: "Five nights in the old city",
		Image:       []string{"istanbul.jpg"},
		StartDate:   time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC),
		Duration:    5,
		Destinations: []models.Destination{
			{City: "Istanbul", Nights: 5},
		},
		Price:    models.Price{Amount: 750, Currency: "USD", PerPerson: true},
		Included: []string{"flight", "transfer"},
		Hotels: []models.Hotel{
			{Name: "Pera Palace", Stars: 5, City: "Istanbul"},
		},
	}
}

func TestValidateTour(t *testing.T) {
	assert.NoError(t, validateTour(sampleTour()))

	t.Run("MissingName", func(t *testing.T) {
		tour := sampleTour()
		tour.Name = ""
		assert.Error(t, validateTour(tour))
	})

	t.Run("ZeroDuration", func(t *testing.T) {
		tour := sampleTour()
		tour.Duration = 0
		assert.Error(t, validateTour(tour))
	})

	t.Run("ZeroDestinationNights", func(t *testing.T) {
		tour := sampleTour()
		tour.Destinations[0].Nights = 0
		assert.Error(t, validateTour(tour))
	})

	t.Run("NonPositivePrice", func(t *testing.T) {
		tour := sampleTour()
		tour.Price.Amount = 0
		assert.Error(t, validateTour(tour))
	})

	t.Run("HotelStarsOutOfRange", func(t *testing.T) {
		tour := sampleTour()
		tour.Hotels[0].Stars = 6
		assert.Error(t, validateTour(tour))

		tour.Hotels[0].Stars = 0
		assert.Error(t, validateTour(tour))
	})

	t.Run("MissingStartDate", func(t *testing.T) {
		tour := sampleTour()
		tour.StartDate = time.Time{}
		assert.Error(t, validateTour(tour))
	})
}

func TestTourInputDefaults(t *testing.T) {
	raw := `{
		"name": "Rome Weekend",
		"description": "Short break",
		"startDate": "2026-06-01T00:00:00Z",
		"duration": 2,
		"destinations": [{"city": "Rome", "nights": 2}],
		"price": {"amount": 300}
	}`

	var input tourInput
	require.NoError(t, json.Unmarshal([]byte(raw), &input))

	tour := input.toTour()
	assert.Equal(t, "USD", tour.Price.Currency)
	assert.True(t, tour.Price.PerPerson)
	assert.NotNil(t, tour.Image)
	assert.NotNil(t, tour.Included)
	assert.NoError(t, validateTour(tour))
}

func TestTourInputExplicitPerPerson(t *testing.T) {
	raw := `{"price": {"amount": 300, "currency": "EUR", "perPerson": false}}`

	var input tourInput
	require.NoError(t, json.Unmarshal([]byte(raw), &input))

	tour := input.toTour()
	assert.Equal(t, "EUR", tour.Price.Currency)
	assert.False(t, tour.Price.PerPerson)
}
