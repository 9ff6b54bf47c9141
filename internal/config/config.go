package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all runtime configuration loaded from environment variables.
type Config struct {
	AppPort string
	AppEnv  string

	AWSRegion      string
	AWSEndpointURL string // empty in prod, set to LocalStack URL in dev
	AWSAccessKeyID string
	AWSSecretKey   string
	DynamoTables   DynamoTables
	S3BucketName   string
	SNSTopicARN    string // manual-review alerts; empty disables publishing

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	ServiceTokenSecret string // empty disables service auth
	AllowedOrigins     []string

	Verification VerificationConfig
}

// DynamoTables holds the DynamoDB table name for each entity.
type DynamoTables struct {
	Landmarks     string
	Verifications string
}

// VerificationConfig carries the pipeline tunables. The defaults are
// heuristic values calibrated together; override individually with care.
type VerificationConfig struct {
	QualityGateThreshold float64 // below this the proof is rejected outright

	WeightQuality      float64
	WeightAuthenticity float64
	WeightLandmark     float64
	WeightObject       float64
	WeightFace         float64

	ApproveCleanThreshold float64 // approve with zero issues
	ApproveMinorThreshold float64 // approve with at most one issue
	ManualReviewThreshold float64
	FaceMatchIssueFloor   float64 // below this a reference mismatch is flagged
	LowQualityIssueFloor  float64

	AnalyzerTimeout  time.Duration
	CacheTTLApproved time.Duration
	CacheTTLNegative time.Duration
	EmbeddingTTL     time.Duration
}

// Load reads all configuration from environment variables.
func Load() *Config {
	return &Config{
		AppPort: getEnv("APP_PORT", "3000"),
		AppEnv:  getEnv("APP_ENV", "development"),

		AWSRegion:      getEnv("AWS_REGION", "eu-central-1"),
		AWSEndpointURL: getEnv("AWS_ENDPOINT_URL", ""),
		AWSAccessKeyID: getEnv("AWS_ACCESS_KEY_ID", ""),
		AWSSecretKey:   getEnv("AWS_SECRET_ACCESS_KEY", ""),
		DynamoTables: DynamoTables{
			Landmarks:     getEnv("DYNAMO_TABLE_LANDMARKS", "proof_landmarks"),
			Verifications: getEnv("DYNAMO_TABLE_VERIFICATIONS", "proof_verifications"),
		},
		S3BucketName: getEnv("S3_BUCKET_NAME", "travelmatch-proofs"),
		SNSTopicARN:  getEnv("SNS_MANUAL_REVIEW_TOPIC_ARN", ""),

		RedisAddr:     getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       getEnvInt("REDIS_DB", 0),

		ServiceTokenSecret: getEnv("SERVICE_TOKEN_SECRET", ""),
		AllowedOrigins:     strings.Split(getEnv("ALLOWED_ORIGINS", "*"), ","),

		Verification: VerificationConfig{
			QualityGateThreshold: getEnvFloat("QUALITY_GATE_THRESHOLD", 0.3),

			WeightQuality:      getEnvFloat("FUSION_WEIGHT_QUALITY", 0.15),
			WeightAuthenticity: getEnvFloat("FUSION_WEIGHT_AUTHENTICITY", 0.25),
			WeightLandmark:     getEnvFloat("FUSION_WEIGHT_LANDMARK", 0.30),
			WeightObject:       getEnvFloat("FUSION_WEIGHT_OBJECT", 0.15),
			WeightFace:         getEnvFloat("FUSION_WEIGHT_FACE", 0.15),

			ApproveCleanThreshold: getEnvFloat("APPROVE_CLEAN_THRESHOLD", 0.8),
			ApproveMinorThreshold: getEnvFloat("APPROVE_MINOR_THRESHOLD", 0.6),
			ManualReviewThreshold: getEnvFloat("MANUAL_REVIEW_THRESHOLD", 0.4),
			FaceMatchIssueFloor:   getEnvFloat("FACE_MATCH_ISSUE_FLOOR", 0.8),
			LowQualityIssueFloor:  getEnvFloat("LOW_QUALITY_ISSUE_FLOOR", 0.5),

			AnalyzerTimeout:  getEnvDuration("ANALYZER_TIMEOUT", 10*time.Second),
			CacheTTLApproved: getEnvDuration("CACHE_TTL_APPROVED", time.Hour),
			CacheTTLNegative: getEnvDuration("CACHE_TTL_NEGATIVE", 5*time.Minute),
			EmbeddingTTL:     getEnvDuration("EMBEDDING_TTL", 30*24*time.Hour),
		},
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
