package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"massage-booking-service/internal/domain/repository"
	"massage-booking-service/internal/infrastructure/config"
	"massage-booking-service/pkg/logger"
)

// TwilioNotifier sends SMS through the Twilio Messages API. Every failure is
// swallowed and reported as an unsent message; the booking flow never depends
// on this path succeeding.
type TwilioNotifier struct {
	logger     logger.Logger
	httpClient *http.Client
	baseURL    string
	accountSID string
	authToken  string
	fromNumber string
}

// NewTwilioNotifier creates a Twilio SMS notifier. Callers are expected to
// check config.TwilioEnabled() first and fall back to NewNullNotifier.
func NewTwilioNotifier(cfg *config.Config, logger logger.Logger) repository.Notifier {
	return &TwilioNotifier{
		logger:     logger,
		httpClient: &http.Client{Timeout: 15 * time.Second},
		baseURL:    cfg.TwilioAPIBaseURL,
		accountSID: cfg.TwilioAccountSID,
		authToken:  cfg.TwilioAuthToken,
		fromNumber: cfg.TwilioFromNumber,
	}
}

// Send posts a message to the Twilio REST API and reports whether it was
// accepted
func (n *TwilioNotifier) Send(ctx context.Context, phone, body string) bool {
	form := url.Values{}
	form.Set("To", phone)
	form.Set("From", n.fromNumber)
	form.Set("Body", body)

	endpoint := fmt.Sprintf("%s/2010-04-01/Accounts/%s/Messages.json", n.baseURL, n.accountSID)
	req, err := http.NewRequestWithContext(ctx, "POST", endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		n.logger.Warn("Failed to build SMS request", "error", err)
		return false
	}

	req.SetBasicAuth(n.accountSID, n.authToken)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := n.httpClient.Do(req)
	if err != nil {
		n.logger.Warn("Failed to send SMS", "phone", phone, "error", err)
		return false
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		var errorBody map[string]interface{}
		json.NewDecoder(resp.Body).Decode(&errorBody)
		n.logger.Warn("Twilio returned an error",
			"status", resp.StatusCode,
			"body", errorBody)
		return false
	}

	var response struct {
		SID    string `json:"sid"`
		Status string `json:"status"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&response); err != nil {
		n.logger.Warn("Failed to decode Twilio response", "error", err)
		return false
	}

	n.logger.Info("SMS sent",
		"sid", response.SID,
		"phone", phone,
		"status", response.Status)
	return true
}

// NullNotifier is the no-op substitute used when Twilio credentials are not
// configured
type NullNotifier struct{}

// NewNullNotifier creates a notifier that never sends anything
func NewNullNotifier() repository.Notifier {
	return &NullNotifier{}
}

// Send always reports the message as unsent
func (n *NullNotifier) Send(ctx context.Context, phone, body string) bool {
	return false
}
