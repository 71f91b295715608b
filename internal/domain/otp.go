package domain

// OtpRecord stores a one-time passcode for a signup or login attempt.
// PK: email (normalized lower-case). At most one active code per email:
// issuing a new code overwrites the previous record.
// ExpiresAt is a Unix timestamp used as DynamoDB TTL.
type OtpRecord struct {
	Email     string `json:"email" dynamodbav:"email"`
	Code      string `json:"code" dynamodbav:"code"`
	ExpiresAt int64  `json:"expires_at" dynamodbav:"expires_at"`
}
