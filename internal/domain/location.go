package domain

import "time"

// StaffLocation is the single location record kept per staff member.
// PK: staff_id. Writes replace the embedded Location wholesale.
type StaffLocation struct {
	StaffID  string   `json:"staffId" dynamodbav:"staff_id"`
	Location Location `json:"location" dynamodbav:"location"`
}

// Location is the position snapshot embedded in a StaffLocation.
// UpdatedAt is a local wall-clock HH:mm:ss string stamped in a fixed
// UTC offset; UpdatedAtUTC is the absolute timestamp of the same write.
type Location struct {
	Latitude     float64   `json:"latitude" dynamodbav:"latitude"`
	Longitude    float64   `json:"longitude" dynamodbav:"longitude"`
	Altitude     float64   `json:"altitude" dynamodbav:"altitude"`
	UpdatedAt    string    `json:"updatedAt" dynamodbav:"updated_at"`
	UpdatedAtUTC time.Time `json:"updatedAtUTC" dynamodbav:"updated_at_utc"`
}

// LocationInput is the write payload for a location update. Latitude and
// longitude are required; a JSON string like "12" fails decoding before
// validation ever runs, so non-numeric input never reaches the store.
type LocationInput struct {
	Latitude  *float64 `json:"latitude" validate:"required"`
	Longitude *float64 `json:"longitude" validate:"required"`
	Altitude  *float64 `json:"altitude"`
}
