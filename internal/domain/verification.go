package domain

import "time"

// OTPVerification is one issued passcode for a (phone, email) identity.
// PK: verification_id. The identity-index GSI (HASH identity, RANGE created_at)
// serves the newest-unused lookup. ExpiresAt is a Unix timestamp used as
// DynamoDB TTL.
//
// Issuance never invalidates earlier records for the same identity; the
// verifier only reads the newest unused one, so superseded records linger in
// the table until TTL cleanup.
type OTPVerification struct {
	VerificationID string    `json:"id" dynamodbav:"verification_id"`
	Identity       string    `json:"-" dynamodbav:"identity"`
	Phone          string    `json:"phone" dynamodbav:"phone"`
	Email          string    `json:"email" dynamodbav:"email"`
	Code           string    `json:"-" dynamodbav:"otp_code"`
	ExpiresAt      int64     `json:"expires_at" dynamodbav:"expires_at"` // TTL (Unix seconds)
	IsUsed         bool      `json:"is_used" dynamodbav:"is_used"`
	Attempts       int       `json:"attempts" dynamodbav:"attempts"`
	CreatedAt      time.Time `json:"created_at" dynamodbav:"created_at"`
}

// IdentityKey builds the identity-index partition key for a phone/email pair.
func IdentityKey(phone, email string) string {
	return phone + "#" + email
}
