package analyzer

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/weareasocialyazilim/travelmatch/internal/domain"
)

func TestHaversine_ZeroDistance(t *testing.T) {
	assert.InDelta(t, 0, Haversine(41.0082, 28.9784, 41.0082, 28.9784), 0.001)
}

func TestHaversine_IstanbulAnkara(t *testing.T) {
	// Known great-circle distance is roughly 350 km.
	d := Haversine(41.0082, 28.9784, 39.9334, 32.8597)
	assert.InDelta(t, 350, d, 50)
}

func TestDetect_VisualAndLocationMatch(t *testing.T) {
	m := NewLandmarkMatcher(domain.BuiltinLandmarks())

	features := map[string]float64{
		"hot_air_balloon": 0.9,
		"fairy_chimney":   0.8,
		"rock_formation":  0.7,
	}
	gps := &domain.GPSPoint{Lat: 38.6431, Lng: 34.8289}

	result, err := m.Detect(context.Background(), features, gps)

	require.NoError(t, err)
	require.NotNil(t, result.TopMatch)
	assert.Equal(t, "cappadocia_balloons", result.TopMatch.LandmarkID)
	assert.InDelta(t, 1.0, result.TopMatch.Confidence, 0.001)
	assert.InDelta(t, 1.0, result.TopMatch.VisualScore, 0.001)
	assert.InDelta(t, 1.0, result.TopMatch.LocationScore, 0.001)
	assert.True(t, result.LocationVerified)
}

func TestDetect_VisualOnlyDoesNotVerifyLocation(t *testing.T) {
	m := NewLandmarkMatcher(domain.BuiltinLandmarks())

	features := map[string]float64{
		"beach":         0.9,
		"mediterranean": 0.9,
		"cliffs":        0.9,
	}

	result, err := m.Detect(context.Background(), features, nil)

	require.NoError(t, err)
	require.NotNil(t, result.TopMatch)
	assert.Equal(t, "antalya_beach", result.TopMatch.LandmarkID)
	assert.InDelta(t, 0.7, result.TopMatch.Confidence, 0.001)
	assert.Equal(t, 0.0, result.TopMatch.LocationScore)
	assert.Nil(t, result.TopMatch.DistanceKm)
	assert.False(t, result.LocationVerified)
}

func TestDetect_LocationAloneBelowThreshold(t *testing.T) {
	m := NewLandmarkMatcher(domain.BuiltinLandmarks())

	// Standing at the landmark but showing none of its features.
	gps := &domain.GPSPoint{Lat: 36.8969, Lng: 30.7133}
	result, err := m.Detect(context.Background(), map[string]float64{}, gps)

	require.NoError(t, err)
	assert.Empty(t, result.Detected)
	assert.Nil(t, result.TopMatch)
	assert.False(t, result.LocationVerified)
}

func TestDetect_OutsideRadiusScoresZeroLocation(t *testing.T) {
	registry := []domain.Landmark{{
		LandmarkID:          "hagia_sophia",
		Name:                "Ayasofya",
		Lat:                 41.0086,
		Lng:                 28.9802,
		RadiusKm:            1,
		VisualFeatures:      []string{"dome", "minaret"},
		ConfidenceThreshold: 0.5,
	}}
	m := NewLandmarkMatcher(registry)

	// Ankara is far outside the 1 km radius.
	gps := &domain.GPSPoint{Lat: 39.9334, Lng: 32.8597}
	features := map[string]float64{"dome": 0.9, "minaret": 0.9}

	result, err := m.Detect(context.Background(), features, gps)

	require.NoError(t, err)
	require.NotNil(t, result.TopMatch)
	assert.Equal(t, 0.0, result.TopMatch.LocationScore)
	require.NotNil(t, result.TopMatch.DistanceKm)
	assert.Greater(t, *result.TopMatch.DistanceKm, 300.0)
	assert.InDelta(t, 0.7, result.TopMatch.Confidence, 0.001)
	assert.False(t, result.LocationVerified)
}

func TestVisualSimilarity_EmptyInputs(t *testing.T) {
	assert.Equal(t, 0.0, visualSimilarity(nil, []string{"dome"}))
	assert.Equal(t, 0.0, visualSimilarity(map[string]float64{"dome": 0.9}, nil))
}
