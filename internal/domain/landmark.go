package domain

// Landmark is a static registry entry the landmark matcher compares proofs
// against. Read-only at runtime; seeded into the registry table at bootstrap.
// Confidence thresholds vary per landmark because some have far more
// distinctive visual signatures than others.
type Landmark struct {
	LandmarkID          string   `json:"landmark_id" dynamodbav:"landmark_id"`
	Name                string   `json:"name" dynamodbav:"name"`
	Lat                 float64  `json:"lat" dynamodbav:"lat"`
	Lng                 float64  `json:"lng" dynamodbav:"lng"`
	RadiusKm            float64  `json:"radius_km" dynamodbav:"radius_km"`
	VisualFeatures      []string `json:"visual_features" dynamodbav:"visual_features"`
	ConfidenceThreshold float64  `json:"confidence_threshold" dynamodbav:"confidence_threshold"`
}

// BuiltinLandmarks returns the seed registry of Turkish landmarks. Used to
// populate the registry table on first boot and as a fallback when the table
// cannot be read.
func BuiltinLandmarks() []Landmark {
	return []Landmark{
		{
			LandmarkID:          "cappadocia_balloons",
			Name:                "Kapadokya Balon Turu",
			Lat:                 38.6431, Lng: 34.8289,
			RadiusKm:            50,
			VisualFeatures:      []string{"hot_air_balloon", "fairy_chimney", "rock_formation"},
			ConfidenceThreshold: 0.75,
		},
		{
			LandmarkID:          "hagia_sophia",
			Name:                "Ayasofya",
			Lat:                 41.0086, Lng: 28.9802,
			RadiusKm:            1,
			VisualFeatures:      []string{"dome", "minaret", "byzantine_architecture"},
			ConfidenceThreshold: 0.80,
		},
		{
			LandmarkID:          "blue_mosque",
			Name:                "Sultan Ahmet Camii",
			Lat:                 41.0054, Lng: 28.9768,
			RadiusKm:            1,
			VisualFeatures:      []string{"six_minaret", "blue_tiles", "dome"},
			ConfidenceThreshold: 0.80,
		},
		{
			LandmarkID:          "bosphorus",
			Name:                "Boğaz",
			Lat:                 41.0822, Lng: 29.0500,
			RadiusKm:            20,
			VisualFeatures:      []string{"bridge", "water", "boat", "strait"},
			ConfidenceThreshold: 0.70,
		},
		{
			LandmarkID:          "pamukkale",
			Name:                "Pamukkale Travertenleri",
			Lat:                 37.9204, Lng: 29.1187,
			RadiusKm:            10,
			VisualFeatures:      []string{"white_terraces", "thermal_pools", "travertine"},
			ConfidenceThreshold: 0.85,
		},
		{
			LandmarkID:          "ephesus",
			Name:                "Efes Antik Kenti",
			Lat:                 37.9390, Lng: 27.3417,
			RadiusKm:            5,
			VisualFeatures:      []string{"library_celsus", "ancient_ruins", "columns"},
			ConfidenceThreshold: 0.80,
		},
		{
			LandmarkID:          "antalya_beach",
			Name:                "Antalya Sahili",
			Lat:                 36.8969, Lng: 30.7133,
			RadiusKm:            30,
			VisualFeatures:      []string{"beach", "mediterranean", "cliffs"},
			ConfidenceThreshold: 0.65,
		},
		{
			LandmarkID:          "sumela_monastery",
			Name:                "Sümela Manastırı",
			Lat:                 40.6917, Lng: 39.6550,
			RadiusKm:            5,
			VisualFeatures:      []string{"cliff_monastery", "forest", "mountain"},
			ConfidenceThreshold: 0.85,
		},
	}
}
