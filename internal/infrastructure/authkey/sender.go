package authkey

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/go-otp-api/internal/config"
	pkgphone "github.com/go-otp-api/internal/pkg/phone"
)

// successMessage is the exact Message value Authkey returns on delivery.
const successMessage = "Message sent successfully"

// Sender delivers one-time passcodes over SMS via the Authkey HTTP API.
// The API is a single GET with the key, number, country code, template SID
// and code as query parameters.
type Sender struct {
	httpClient  *http.Client
	baseURL     string
	apiKey      string
	countryCode string
	sid         string
}

func NewSender(cfg *config.Config) (*Sender, error) {
	if cfg.AuthkeyAPIKey == "" {
		return nil, errors.New("authkey API key not configured")
	}
	return &Sender{
		httpClient:  &http.Client{Timeout: 10 * time.Second},
		baseURL:     cfg.AuthkeyBaseURL,
		apiKey:      cfg.AuthkeyAPIKey,
		countryCode: cfg.AuthkeyCountryCode,
		sid:         cfg.AuthkeySID,
	}, nil
}

func (s *Sender) SendOTP(ctx context.Context, phoneNumber, code string) error {
	q := url.Values{}
	q.Set("authkey", s.apiKey)
	q.Set("mobile", pkgphone.Normalize(phoneNumber))
	q.Set("country_code", s.countryCode)
	q.Set("sid", s.sid)
	q.Set("otp", code)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+"/request?"+q.Encode(), nil)
	if err != nil {
		return err
	}
	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("authkey request: %w", err)
	}
	defer resp.Body.Close()

	var out struct {
		Message string `json:"Message"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return fmt.Errorf("authkey response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 || out.Message != successMessage {
		return fmt.Errorf("authkey delivery failed: status=%d message=%q", resp.StatusCode, out.Message)
	}
	return nil
}
