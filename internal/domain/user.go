package domain

import "time"

type User struct {
	UserID       string    `json:"id" dynamodbav:"user_id"`
	Email        string    `json:"email" dynamodbav:"email"`
	Phone        string    `json:"phone" dynamodbav:"phone"`
	Name         string    `json:"name" dynamodbav:"name"`
	PasswordHash *string   `json:"-" dynamodbav:"password_hash"`
	IsVerified   bool      `json:"is_verified" dynamodbav:"is_verified"`
	CreatedAt    time.Time `json:"created_at" dynamodbav:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" dynamodbav:"updated_at"`
}

type SendOTPRequest struct {
	Phone string `json:"phone" validate:"required"`
	Email string `json:"email" validate:"required"`
	Name  string `json:"name" validate:"required"`
}

type VerifyOTPRequest struct {
	Phone string `json:"phone" validate:"required"`
	Email string `json:"email" validate:"required"`
	Name  string `json:"name" validate:"required"`
	OTP   string `json:"otp" validate:"required"`
}

type LoginRequest struct {
	Email string `json:"email" validate:"required"`
	// Password is accepted on the wire but never checked; OTP verification is
	// the only credential the login path trusts.
	Password string `json:"password"`
}
