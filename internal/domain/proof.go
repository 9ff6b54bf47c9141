package domain

import "time"

// ProofType classifies the evidence a user submits for a moment.
// The string values cross the API boundary and must not change.
type ProofType string

const (
	ProofSelfieWithID    ProofType = "selfie_with_id"
	ProofExperiencePhoto ProofType = "experience_photo"
	ProofReceipt         ProofType = "receipt"
	ProofLocationCheck   ProofType = "location_check"
	ProofVideo           ProofType = "video_proof"
)

// Valid reports whether pt is one of the five known proof types.
func (pt ProofType) Valid() bool {
	switch pt {
	case ProofSelfieWithID, ProofExperiencePhoto, ProofReceipt, ProofLocationCheck, ProofVideo:
		return true
	}
	return false
}

// VerificationStatus is the terminal (or pending) state of a verification.
type VerificationStatus string

const (
	StatusApproved     VerificationStatus = "approved"
	StatusRejected     VerificationStatus = "rejected"
	StatusManualReview VerificationStatus = "manual_review"
	StatusPending      VerificationStatus = "pending"
)

// RiskLevel buckets fraud signals for downstream consumers.
type RiskLevel string

const (
	RiskCritical RiskLevel = "critical"
	RiskHigh     RiskLevel = "high"
	RiskMedium   RiskLevel = "medium"
	RiskLow      RiskLevel = "low"
	RiskNone     RiskLevel = "none"
)

// GPSPoint is a WGS84 coordinate pair.
type GPSPoint struct {
	Lat float64 `json:"lat" validate:"latitude"`
	Lng float64 `json:"lng" validate:"longitude"`
}

// EXIFMetadata is the subset of image metadata the pipeline inspects.
// Produced by the image-fetch collaborator; any field may be zero when the
// source image carries no EXIF block.
type EXIFMetadata struct {
	DateTime time.Time `json:"date_time,omitempty"`
	Make     string    `json:"make,omitempty"`
	Model    string    `json:"model,omitempty"`
	Software string    `json:"software,omitempty"`
	GPSInfo  *GPSPoint `json:"gps_info,omitempty"`
}

// ImagePayload is what the image-fetch collaborator returns for a proof reference.
type ImagePayload struct {
	Data   []byte
	Width  int
	Height int
	EXIF   *EXIFMetadata
}

// ProofSubmission describes one verification request. It lives only for the
// duration of the call and is never persisted as-is.
type ProofSubmission struct {
	ImageURL         string
	ProofType        ProofType
	UserID           string
	MomentID         string
	ExpectedLocation *GPSPoint
	ExpectedCategory string
	ReferenceFaceID  string
}

// ProofHashEntry is one row of the shared, append-only perceptual-hash index
// used for cross-user duplicate detection.
type ProofHashEntry struct {
	PHash      string    `json:"phash"`
	UserID     string    `json:"user_id"`
	MomentID   string    `json:"moment_id"`
	UploadedAt time.Time `json:"uploaded_at"`
}

// DuplicateMatch reports a prior submission whose perceptual hash is close
// enough to the one being checked.
type DuplicateMatch struct {
	OriginalUserID   string    `json:"original_user_id"`
	OriginalMomentID string    `json:"original_moment_id"`
	Similarity       float64   `json:"similarity"`
	UploadedAt       time.Time `json:"uploaded_at"`
}

// DuplicateResult is the outcome of a duplicate check. The new hash is always
// appended to the index regardless of outcome.
type DuplicateResult struct {
	IsDuplicate bool             `json:"is_duplicate"`
	Duplicates  []DuplicateMatch `json:"duplicates"`
	PHash       string           `json:"phash"`
	RiskLevel   RiskLevel        `json:"risk_level"`
}
