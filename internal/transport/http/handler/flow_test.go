package handler

import (
	"context"
	"fmt"
	"net/http"
	"regexp"
	"sync"
	"testing"

	"github.com/go-otp-api/internal/application/auth"
	"github.com/go-otp-api/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// In-memory stores driving the full issue→verify→re-verify flow through the
// real service and handlers, with no DynamoDB behind them.

type memVerificationStore struct {
	mu      sync.Mutex
	records []*domain.OTPVerification
}

func (s *memVerificationStore) Put(_ context.Context, v *domain.OTPVerification) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *v
	s.records = append(s.records, &cp)
	return nil
}

func (s *memVerificationStore) GetLatest(_ context.Context, phoneNumber, email string) (*domain.OTPVerification, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	identity := domain.IdentityKey(phoneNumber, email)
	var latest *domain.OTPVerification
	for _, r := range s.records {
		if r.Identity != identity {
			continue
		}
		if latest == nil || !r.CreatedAt.Before(latest.CreatedAt) {
			latest = r
		}
	}
	if latest == nil {
		return nil, fmt.Errorf("no verification for identity: %w", domain.ErrNotFound)
	}
	cp := *latest
	return &cp, nil
}

func (s *memVerificationStore) IncrementAttempts(_ context.Context, verificationID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range s.records {
		if r.VerificationID == verificationID {
			r.Attempts++
			return nil
		}
	}
	return domain.ErrNotFound
}

func (s *memVerificationStore) MarkUsed(_ context.Context, verificationID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range s.records {
		if r.VerificationID == verificationID {
			if r.IsUsed {
				return fmt.Errorf("verification already consumed: %w", domain.ErrNotFound)
			}
			r.IsUsed = true
			return nil
		}
	}
	return domain.ErrNotFound
}

type memUserStore struct {
	mu    sync.Mutex
	users []*domain.User
}

func (s *memUserStore) Put(_ context.Context, u *domain.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *u
	s.users = append(s.users, &cp)
	return nil
}

func (s *memUserStore) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, fmt.Errorf("user not found: %w", domain.ErrNotFound)
}

func (s *memUserStore) GetByPhone(_ context.Context, phoneNumber string) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Phone == phoneNumber {
			cp := *u
			return &cp, nil
		}
	}
	return nil, fmt.Errorf("user not found: %w", domain.ErrNotFound)
}

type memSMSSender struct {
	mu   sync.Mutex
	sent []string
	err  error
}

func (s *memSMSSender) SendOTP(_ context.Context, _, code string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	s.sent = append(s.sent, code)
	return nil
}

func newFlow(t *testing.T, sms *memSMSSender) (*OTPHandler, *memVerificationStore, *memUserStore) {
	t.Helper()
	vs := &memVerificationStore{}
	us := &memUserStore{}
	svc := auth.NewService(auth.ServiceDeps{
		VerificationRepo: vs,
		UserRepo:         us,
		SMSSender:        sms,
	})
	return NewOTPHandler(svc, true), vs, us
}

func TestFlow_IssueVerifyReverify(t *testing.T) {
	sms := &memSMSSender{}
	h, _, us := newFlow(t, sms)
	body := map[string]string{"phone": "+919999999999", "email": "a@x.com", "name": "A"}

	// Issue.
	rr := postJSON(t, h.Send, body)
	require.Equal(t, http.StatusOK, rr.Code)
	var sent SendOTPEnvelope
	decodeBody(t, rr, &sent)
	require.True(t, sent.Success)
	require.Regexp(t, regexp.MustCompile(`^[0-9]{6}$`), sent.DevOTP)
	require.Len(t, sms.sent, 1)
	assert.Equal(t, sent.DevOTP, sms.sent[0])

	// Verify with the issued code.
	body["otp"] = sent.DevOTP
	rr = postJSON(t, h.Verify, body)
	require.Equal(t, http.StatusOK, rr.Code)
	var first VerifyOTPEnvelope
	decodeBody(t, rr, &first)
	assert.True(t, first.Success)
	assert.Equal(t, "User created successfully", first.Message)
	require.NotNil(t, first.User)
	assert.True(t, first.User.IsVerified)

	// Verify again with the same code: same user, no second insert.
	rr = postJSON(t, h.Verify, body)
	require.Equal(t, http.StatusOK, rr.Code)
	var second VerifyOTPEnvelope
	decodeBody(t, rr, &second)
	assert.True(t, second.Success)
	assert.Equal(t, "User already exists", second.Message)
	require.NotNil(t, second.User)
	assert.Equal(t, first.User.UserID, second.User.UserID)
	assert.Len(t, us.users, 1)
}

func TestFlow_NewestCodeSupersedesOlder(t *testing.T) {
	sms := &memSMSSender{}
	h, _, _ := newFlow(t, sms)
	body := map[string]string{"phone": "+919999999999", "email": "a@x.com", "name": "A"}

	rr := postJSON(t, h.Send, body)
	require.Equal(t, http.StatusOK, rr.Code)
	var firstIssue SendOTPEnvelope
	decodeBody(t, rr, &firstIssue)

	rr = postJSON(t, h.Send, body)
	require.Equal(t, http.StatusOK, rr.Code)
	var secondIssue SendOTPEnvelope
	decodeBody(t, rr, &secondIssue)

	if firstIssue.DevOTP == secondIssue.DevOTP {
		t.Skip("codes collided; superseding is unobservable")
	}

	// The older code is unreachable once a newer one is issued.
	body["otp"] = firstIssue.DevOTP
	rr = postJSON(t, h.Verify, body)
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	// The newest code verifies.
	body["otp"] = secondIssue.DevOTP
	rr = postJSON(t, h.Verify, body)
	assert.Equal(t, http.StatusOK, rr.Code)
}

func TestFlow_ThreeWrongAttemptsLockOut(t *testing.T) {
	sms := &memSMSSender{}
	h, vs, _ := newFlow(t, sms)
	body := map[string]string{"phone": "+919999999999", "email": "a@x.com", "name": "A"}

	rr := postJSON(t, h.Send, body)
	require.Equal(t, http.StatusOK, rr.Code)
	var sent SendOTPEnvelope
	decodeBody(t, rr, &sent)

	wrong := "000000"
	if wrong == sent.DevOTP {
		wrong = "000001"
	}

	body["otp"] = wrong
	for i := 0; i < 3; i++ {
		rr = postJSON(t, h.Verify, body)
		assert.Equal(t, http.StatusBadRequest, rr.Code)
		var env MessageEnvelope
		decodeBody(t, rr, &env)
		assert.Equal(t, "Invalid OTP", env.Error)
	}
	assert.Equal(t, 3, vs.records[0].Attempts)

	// The 4th attempt is rejected before any code comparison.
	body["otp"] = sent.DevOTP
	rr = postJSON(t, h.Verify, body)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	var env MessageEnvelope
	decodeBody(t, rr, &env)
	assert.Equal(t, "Maximum attempts exceeded", env.Error)
	assert.Equal(t, 3, vs.records[0].Attempts)
	assert.False(t, vs.records[0].IsUsed)
}

func TestFlow_DeliveryFailureDoesNotBlockVerification(t *testing.T) {
	sms := &memSMSSender{err: fmt.Errorf("gateway unreachable")}
	h, _, _ := newFlow(t, sms)
	body := map[string]string{"phone": "+919999999999", "email": "a@x.com", "name": "A"}

	rr := postJSON(t, h.Send, body)
	require.Equal(t, http.StatusOK, rr.Code)
	var sent SendOTPEnvelope
	decodeBody(t, rr, &sent)
	assert.True(t, sent.Success)
	assert.Equal(t, "failed", sent.SMSStatus)

	// The stored code is still verifiable.
	body["otp"] = sent.DevOTP
	rr = postJSON(t, h.Verify, body)
	assert.Equal(t, http.StatusOK, rr.Code)
}
