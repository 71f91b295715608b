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

	JWTPrivateKeyPath string
	JWTPublicKeyPath  string
	JWTExpiry         time.Duration

	SMTPHost     string
	SMTPPort     string
	SMTPFrom     string
	SMTPUsername string
	SMTPPassword string

	// OTP lifecycle.
	OTPTTL           time.Duration
	OTPSweepInterval time.Duration

	// Local wall-clock stamp on location writes, expressed as minutes
	// east of UTC. 330 = +5:30 (IST), matching the deployment region.
	LocalTimeOffsetMin int

	// External face-recognition engine invocation.
	EngineCommand string
	EngineScript  string

	AllowedOrigins []string // CORS allowed origins
}

// DynamoTables holds the DynamoDB table name for each entity.
type DynamoTables struct {
	Otps           string
	StaffLocations string
}

// Load reads all configuration from environment variables.
func Load() *Config {
	return &Config{
		AppPort: getEnv("APP_PORT", "3000"),
		AppEnv:  getEnv("APP_ENV", "development"),

		AWSRegion:      getEnv("AWS_REGION", "us-east-1"),
		AWSEndpointURL: getEnv("AWS_ENDPOINT_URL", ""),
		AWSAccessKeyID: getEnv("AWS_ACCESS_KEY_ID", ""),
		AWSSecretKey:   getEnv("AWS_SECRET_ACCESS_KEY", ""),
		DynamoTables: DynamoTables{
			Otps:           getEnv("DYNAMO_TABLE_OTPS", "otps"),
			StaffLocations: getEnv("DYNAMO_TABLE_STAFF_LOCATIONS", "staff_locations"),
		},
		S3BucketName: getEnv("S3_BUCKET_NAME", "staff-attendance-photos"),

		JWTPrivateKeyPath: getEnv("JWT_PRIVATE_KEY_PATH", "./private_key.pem"),
		JWTPublicKeyPath:  getEnv("JWT_PUBLIC_KEY_PATH", "./public_key.pem"),
		JWTExpiry:         time.Duration(getEnvInt("JWT_EXPIRY_HOURS", 24)) * time.Hour,

		SMTPHost:     getEnv("SMTP_HOST", "localhost"),
		SMTPPort:     getEnv("SMTP_PORT", "1025"),
		SMTPFrom:     getEnv("SMTP_FROM", "noreply@example.com"),
		SMTPUsername: getEnv("SMTP_USERNAME", ""),
		SMTPPassword: getEnv("SMTP_PASSWORD", ""),

		OTPTTL:           time.Duration(getEnvInt("OTP_TTL_MINUTES", 5)) * time.Minute,
		OTPSweepInterval: time.Duration(getEnvInt("OTP_SWEEP_INTERVAL_MINUTES", 10)) * time.Minute,

		LocalTimeOffsetMin: getEnvInt("LOCAL_TIME_OFFSET_MINUTES", 330),

		EngineCommand: getEnv("FACE_ENGINE_COMMAND", "python3"),
		EngineScript:  getEnv("FACE_ENGINE_SCRIPT", "./face_reco/app.py"),

		AllowedOrigins: strings.Split(getEnv("ALLOWED_ORIGINS", "*"), ","),
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
