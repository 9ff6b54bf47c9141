package domain

import "time"

// QualityResult is the outcome of image quality analysis.
type QualityResult struct {
	OverallScore float64           `json:"overall_score"`
	Verdict      string            `json:"quality_verdict"` // excellent | good | acceptable | poor
	Resolution   ResolutionScore   `json:"resolution"`
	Sharpness    SharpnessScore    `json:"sharpness"`
	Lighting     LightingScore     `json:"lighting"`
	Compression  CompressionScore  `json:"compression"`
	Suggestions  []string          `json:"suggestions"`
}

type ResolutionScore struct {
	Width    int     `json:"width"`
	Height   int     `json:"height"`
	Score    float64 `json:"score"`
	Adequate bool    `json:"adequate"`
}

type SharpnessScore struct {
	Score    float64 `json:"score"`
	IsBlurry bool    `json:"is_blurry"`
}

type LightingScore struct {
	Score  float64  `json:"score"`
	Issues []string `json:"issues"` // too_dark | overexposed
}

type CompressionScore struct {
	Score      float64 `json:"score"`
	FileSizeKB float64 `json:"file_size_kb"`
}

// AuthenticityResult is the outcome of manipulation/AI-generation analysis.
type AuthenticityResult struct {
	IsAuthentic          bool      `json:"is_authentic"`
	AuthenticityScore    float64   `json:"authenticity_score"`
	ELAScore             float64   `json:"ela_score"`
	AIGeneratedScore     float64   `json:"ai_generated_probability"`
	ManipulationScore    float64   `json:"manipulation_probability"`
	MetadataConsistent   bool      `json:"metadata_consistent"`
	MetadataFlags        []string  `json:"metadata_flags"`
	RiskLevel            RiskLevel `json:"risk_level"`
}

// LandmarkMatch is one landmark the matcher considers detected.
type LandmarkMatch struct {
	LandmarkID    string   `json:"landmark_id"`
	Name          string   `json:"name"`
	Confidence    float64  `json:"confidence"`
	VisualScore   float64  `json:"visual_score"`
	LocationScore float64  `json:"location_score"`
	DistanceKm    *float64 `json:"distance_km,omitempty"`
}

// LandmarkMatchResult is the outcome of landmark detection, sorted by
// confidence descending.
type LandmarkMatchResult struct {
	Detected         []LandmarkMatch `json:"detected_landmarks"`
	TopMatch         *LandmarkMatch  `json:"top_match,omitempty"`
	LocationVerified bool            `json:"location_verified"`
}

// BoundingBox locates a detected object within the image, normalized to [0,1].
type BoundingBox struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// DetectedObject is one object found in the image.
type DetectedObject struct {
	Object     string      `json:"object"`
	Confidence float64     `json:"confidence"`
	BBox       BoundingBox `json:"bbox"`
}

// ObjectMatchResult is the outcome of object/category detection. Category
// scores are independent of the expected category; the expectation only
// drives CategoryVerified.
type ObjectMatchResult struct {
	DetectedObjects  []DetectedObject   `json:"detected_objects"`
	CategoryScores   map[string]float64 `json:"category_scores"`
	PrimaryCategory  string             `json:"primary_category,omitempty"`
	CategoryVerified bool               `json:"category_verified"`
	ObjectCount      int                `json:"object_count"`
}

// FaceResult is the outcome of face detection and analysis. Quality, liveness
// and match are nil when no face was found. The embedding never leaves the
// service; it is persisted for later reference matching only.
type FaceResult struct {
	FaceDetected  bool      `json:"face_detected"`
	FaceCount     int       `json:"face_count"`
	QualityScore  float64   `json:"quality_score"`
	LivenessScore *float64  `json:"liveness_score,omitempty"`
	MatchScore    *float64  `json:"match_score,omitempty"`
	Embedding     []float64 `json:"-"`
}

// ScoreBreakdown exposes the per-component scores on a 0-100 scale.
type ScoreBreakdown struct {
	QualityScore       float64  `json:"quality_score"`
	AuthenticityScore  float64  `json:"authenticity_score"`
	LandmarkConfidence *float64 `json:"landmark_confidence,omitempty"`
	FaceQuality        *float64 `json:"face_quality,omitempty"`
}

// VerificationDetails carries the raw per-analyzer results. A nil field means
// that analyzer did not run for this proof type (or was short-circuited).
type VerificationDetails struct {
	Quality      *QualityResult       `json:"quality,omitempty"`
	Authenticity *AuthenticityResult  `json:"authenticity,omitempty"`
	Landmarks    *LandmarkMatchResult `json:"landmarks,omitempty"`
	Objects      *ObjectMatchResult   `json:"objects,omitempty"`
	Face         *FaceResult          `json:"face,omitempty"`
}

// VerificationResult is the structured verdict returned for every
// verification call. OverallScore is always within [0,100], rounded to one
// decimal; Status is a deterministic function of the score and the issues.
type VerificationResult struct {
	Approved     bool                `json:"approved"`
	Status       VerificationStatus  `json:"status"`
	OverallScore float64             `json:"overall_score"`
	Breakdown    ScoreBreakdown      `json:"breakdown"`
	Details      VerificationDetails `json:"details"`
	Issues       []string            `json:"issues"`
	Suggestions  []string            `json:"suggestions"`
	VerifiedAt   time.Time           `json:"verified_at"`
}

// VerificationRecord is the persisted audit row written after each completed
// verification. It intentionally omits image bytes and analyzer internals.
type VerificationRecord struct {
	VerificationID string             `json:"verification_id" dynamodbav:"verification_id"`
	UserID         string             `json:"user_id" dynamodbav:"user_id"`
	MomentID       string             `json:"moment_id,omitempty" dynamodbav:"moment_id"`
	ProofType      ProofType          `json:"proof_type" dynamodbav:"proof_type"`
	Status         VerificationStatus `json:"status" dynamodbav:"status"`
	OverallScore   float64            `json:"overall_score" dynamodbav:"overall_score"`
	IssueCount     int                `json:"issue_count" dynamodbav:"issue_count"`
	CreatedAt      int64              `json:"created_at" dynamodbav:"created_at"`
}
