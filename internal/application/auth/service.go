package auth

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"log/slog"
	"math/big"
	"strconv"
	"time"

	"github.com/go-otp-api/internal/domain"
	"github.com/go-otp-api/internal/pkg/id"
)

const (
	otpTTL      = 10 * time.Minute
	maxAttempts = 3
)

// SMSSender is the delivery collaborator: a single fire-and-forget call.
type SMSSender interface {
	SendOTP(ctx context.Context, phoneNumber, code string) error
}

type verificationStore interface {
	Put(ctx context.Context, v *domain.OTPVerification) error
	GetLatest(ctx context.Context, phoneNumber, email string) (*domain.OTPVerification, error)
	IncrementAttempts(ctx context.Context, verificationID string) error
	MarkUsed(ctx context.Context, verificationID string) error
}

type userStore interface {
	Put(ctx context.Context, u *domain.User) error
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByPhone(ctx context.Context, phoneNumber string) (*domain.User, error)
}

// SendOTPResult carries the generated code and the delivery outcome.
// SMSError is set only when delivery failed; delivery failure never fails the
// operation itself.
type SendOTPResult struct {
	Code      string
	SMSStatus string // "success" | "failed"
	SMSError  string
}

// VerifyOTPResult carries the resolved user. Created reports whether this
// verification provisioned the account.
type VerifyOTPResult struct {
	User    *domain.User
	Created bool
}

type Service interface {
	SendOTP(ctx context.Context, req domain.SendOTPRequest) (*SendOTPResult, error)
	VerifyOTP(ctx context.Context, req domain.VerifyOTPRequest) (*VerifyOTPResult, error)
	Login(ctx context.Context, req domain.LoginRequest) (*domain.User, error)
}

type service struct {
	verificationRepo verificationStore
	userRepo         userStore
	smsSender        SMSSender
}

type ServiceDeps struct {
	VerificationRepo verificationStore
	UserRepo         userStore
	SMSSender        SMSSender
}

func NewService(deps ServiceDeps) Service {
	return &service{
		verificationRepo: deps.VerificationRepo,
		userRepo:         deps.UserRepo,
		smsSender:        deps.SMSSender,
	}
}

// SendOTP generates a 6-digit code, stores a fresh verification record and
// attempts SMS delivery. The insert is unconditional: earlier unused records
// for the same identity are left in place and simply become unreachable.
// Persisting the record is the postcondition; delivery is best-effort.
func (s *service) SendOTP(ctx context.Context, req domain.SendOTPRequest) (*SendOTPResult, error) {
	code, err := generateOTP()
	if err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	v := &domain.OTPVerification{
		VerificationID: id.New(),
		Identity:       domain.IdentityKey(req.Phone, req.Email),
		Phone:          req.Phone,
		Email:          req.Email,
		Code:           code,
		ExpiresAt:      now.Add(otpTTL).Unix(),
		IsUsed:         false,
		Attempts:       0,
		CreatedAt:      now,
	}
	if err := s.verificationRepo.Put(ctx, v); err != nil {
		return nil, fmt.Errorf("store verification: %w", err)
	}

	res := &SendOTPResult{Code: code, SMSStatus: "success"}
	if err := s.smsSender.SendOTP(ctx, req.Phone, code); err != nil {
		slog.Error("SMS delivery failed", "phone", req.Phone, "err", err)
		res.SMSStatus = "failed"
		res.SMSError = err.Error()
	}
	return res, nil
}

// VerifyOTP validates a submitted code against the newest record for the
// identity and provisions (or reuses) the user account on success.
// Check order: existence, consumed, expiry, attempts, code. The attempts
// check precedes the code comparison, so a 4th attempt never compares codes.
//
// An already-consumed record with a matching, unexpired code resolves to the
// provisioned user. This makes re-verification idempotent, and it is what the
// loser of a concurrent consume falls back to.
func (s *service) VerifyOTP(ctx context.Context, req domain.VerifyOTPRequest) (*VerifyOTPResult, error) {
	v, err := s.verificationRepo.GetLatest(ctx, req.Phone, req.Email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("no valid OTP: %w", domain.ErrNotFound)
		}
		return nil, fmt.Errorf("load verification: %w", err)
	}
	if v.IsUsed {
		if time.Now().Unix() <= v.ExpiresAt && v.Code == req.OTP {
			if u := s.existingUser(ctx, req.Email, req.Phone); u != nil {
				return &VerifyOTPResult{User: u}, nil
			}
		}
		return nil, fmt.Errorf("no valid OTP: %w", domain.ErrNotFound)
	}
	if time.Now().Unix() > v.ExpiresAt {
		return nil, fmt.Errorf("OTP expired: %w", domain.ErrOTPExpired)
	}
	if v.Attempts >= maxAttempts {
		return nil, fmt.Errorf("maximum attempts exceeded: %w", domain.ErrMaxAttempts)
	}
	if v.Code != req.OTP {
		if err := s.verificationRepo.IncrementAttempts(ctx, v.VerificationID); err != nil {
			return nil, fmt.Errorf("record failed attempt: %w", err)
		}
		return nil, fmt.Errorf("invalid OTP: %w", domain.ErrInvalidOTP)
	}

	// Conditional consume: a concurrent verification may have won. The loser
	// resolves the winner's user or, failing that, gets the not-found outcome.
	if err := s.verificationRepo.MarkUsed(ctx, v.VerificationID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			if u := s.existingUser(ctx, req.Email, req.Phone); u != nil {
				return &VerifyOTPResult{User: u}, nil
			}
			return nil, fmt.Errorf("no valid OTP: %w", domain.ErrNotFound)
		}
		return nil, fmt.Errorf("consume verification: %w", err)
	}

	if u := s.existingUser(ctx, req.Email, req.Phone); u != nil {
		return &VerifyOTPResult{User: u}, nil
	}

	now := time.Now().UTC()
	u := &domain.User{
		UserID:     id.New(),
		Email:      req.Email,
		Phone:      req.Phone,
		Name:       req.Name,
		IsVerified: true,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := s.userRepo.Put(ctx, u); err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}
	return &VerifyOTPResult{User: u, Created: true}, nil
}

// existingUser resolves an account by email-or-phone match. Returns nil when
// neither lookup hits.
func (s *service) existingUser(ctx context.Context, email, phoneNumber string) *domain.User {
	if u, err := s.userRepo.GetByEmail(ctx, email); err == nil {
		return u
	}
	if u, err := s.userRepo.GetByPhone(ctx, phoneNumber); err == nil {
		return u
	}
	return nil
}

// Login looks up a verified user by email. The password field of the request
// is not checked anywhere.
func (s *service) Login(ctx context.Context, req domain.LoginRequest) (*domain.User, error) {
	u, err := s.userRepo.GetByEmail(ctx, req.Email)
	if err != nil || !u.IsVerified {
		return nil, fmt.Errorf("invalid email or password: %w", domain.ErrUnauthorized)
	}
	return u, nil
}

// generateOTP draws a 6-digit code uniformly from [100000, 999999].
func generateOTP() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		return "", err
	}
	return strconv.FormatInt(n.Int64()+100000, 10), nil
}
