package analyzer

import (
	"context"
	"math"
	"sort"

	"github.com/weareasocialyazilim/travelmatch/internal/domain"
)

const (
	// Combined landmark score weighs visual evidence over GPS proximity.
	landmarkVisualWeight   = 0.7
	landmarkLocationWeight = 0.3

	// Per-feature presence threshold for visual similarity.
	featureConfidenceFloor = 0.5

	earthRadiusKm = 6371
)

// LandmarkMatcher matches visual features and GPS coordinates against a
// static landmark registry.
type LandmarkMatcher struct {
	registry []domain.Landmark
}

func NewLandmarkMatcher(registry []domain.Landmark) *LandmarkMatcher {
	return &LandmarkMatcher{registry: registry}
}

// Detect scores every registry entry against the extracted visual features
// and, when available, the EXIF GPS position. A landmark counts as detected
// only when its combined score clears its own confidence threshold.
func (m *LandmarkMatcher) Detect(ctx context.Context, features map[string]float64, gps *domain.GPSPoint) (*domain.LandmarkMatchResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	detected := []domain.LandmarkMatch{}
	for _, lm := range m.registry {
		visual := visualSimilarity(features, lm.VisualFeatures)

		location := 0.0
		var distanceKm *float64
		if gps != nil {
			d := Haversine(gps.Lat, gps.Lng, lm.Lat, lm.Lng)
			dr := round2(d)
			distanceKm = &dr
			if d <= lm.RadiusKm {
				location = 1.0 - d/lm.RadiusKm
			}
		}

		combined := visual*landmarkVisualWeight + location*landmarkLocationWeight
		if combined >= lm.ConfidenceThreshold {
			detected = append(detected, domain.LandmarkMatch{
				LandmarkID:    lm.LandmarkID,
				Name:          lm.Name,
				Confidence:    round3(combined),
				VisualScore:   round3(visual),
				LocationScore: round3(location),
				DistanceKm:    distanceKm,
			})
		}
	}

	sort.SliceStable(detected, func(i, j int) bool {
		return detected[i].Confidence > detected[j].Confidence
	})

	result := &domain.LandmarkMatchResult{Detected: detected}
	if len(detected) > 0 {
		result.TopMatch = &detected[0]
	}
	for _, d := range detected {
		if d.LocationScore > 0.5 {
			result.LocationVerified = true
			break
		}
	}
	return result, nil
}

// visualSimilarity is the fraction of the landmark's tagged features present
// in the image above the per-feature confidence floor.
func visualSimilarity(features map[string]float64, target []string) float64 {
	if len(features) == 0 || len(target) == 0 {
		return 0
	}
	matches := 0
	for _, f := range target {
		if features[f] > featureConfidenceFloor {
			matches++
		}
	}
	return float64(matches) / float64(len(target))
}

// Haversine returns the great-circle distance in kilometers between two
// WGS84 coordinates.
func Haversine(lat1, lng1, lat2, lng2 float64) float64 {
	lat1Rad := lat1 * math.Pi / 180
	lat2Rad := lat2 * math.Pi / 180
	dLat := (lat2 - lat1) * math.Pi / 180
	dLng := (lng2 - lng1) * math.Pi / 180

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1Rad)*math.Cos(lat2Rad)*math.Sin(dLng/2)*math.Sin(dLng/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return earthRadiusKm * c
}
