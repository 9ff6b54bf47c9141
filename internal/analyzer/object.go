package analyzer

import (
	"context"
	"sort"

	"github.com/weareasocialyazilim/travelmatch/internal/domain"
)

const (
	objectConfidenceFloor     = 0.6
	categoryVerifiedThreshold = 0.7
	maxDetectedObjects        = 10
)

// experienceObjects maps experience categories to the object vocabulary the
// matcher scores per image.
var experienceObjects = map[string][]string{
	"adventure": {"parachute", "balloon", "kayak", "surfboard", "climbing_gear", "diving_mask"},
	"luxury":    {"yacht", "champagne", "luxury_car", "helicopter", "private_jet"},
	"food":      {"restaurant", "food_plate", "wine", "cooking", "chef"},
	"nature":    {"mountain", "waterfall", "forest", "beach", "lake", "wildlife"},
	"culture":   {"museum", "artwork", "monument", "traditional_dress", "handicraft"},
	"wellness":  {"spa", "massage", "yoga", "pool", "sauna"},
}

// ObjectMatcher detects experience-relevant objects and scores categories.
// Detection is independent of the expected category, which only drives the
// CategoryVerified flag.
type ObjectMatcher struct {
	extractor FeatureExtractor
}

func NewObjectMatcher(extractor FeatureExtractor) *ObjectMatcher {
	return &ObjectMatcher{extractor: extractor}
}

func (m *ObjectMatcher) Detect(ctx context.Context, data []byte, expectedCategory string) (*domain.ObjectMatchResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	detected := []domain.DetectedObject{}
	categoryScores := map[string]float64{}

	for category, objects := range experienceObjects {
		categoryScore := 0.0
		found := false
		for _, obj := range objects {
			confidence, bbox := m.extractor.ObjectConfidence(data, obj)
			if confidence > objectConfidenceFloor {
				detected = append(detected, domain.DetectedObject{
					Object:     obj,
					Confidence: round3(confidence),
					BBox:       bbox,
				})
				categoryScore = max(categoryScore, confidence)
				found = true
			}
		}
		if found {
			categoryScores[category] = round3(categoryScore)
		}
	}

	// Confidence descending, name as tie-break so output is deterministic.
	sort.SliceStable(detected, func(i, j int) bool {
		if detected[i].Confidence != detected[j].Confidence {
			return detected[i].Confidence > detected[j].Confidence
		}
		return detected[i].Object < detected[j].Object
	})

	objectCount := len(detected)
	if len(detected) > maxDetectedObjects {
		detected = detected[:maxDetectedObjects]
	}

	result := &domain.ObjectMatchResult{
		DetectedObjects: detected,
		CategoryScores:  categoryScores,
		PrimaryCategory: primaryCategory(categoryScores),
		ObjectCount:     objectCount,
	}
	if expectedCategory != "" {
		result.CategoryVerified = categoryScores[expectedCategory] > categoryVerifiedThreshold
	}
	return result, nil
}

func primaryCategory(scores map[string]float64) string {
	best := ""
	bestScore := -1.0
	for category, score := range scores {
		if score > bestScore || (score == bestScore && category < best) {
			best = category
			bestScore = score
		}
	}
	return best
}
