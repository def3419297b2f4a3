// Package otp implements phone verification against the ThaiBulkSMS
// OTP API.
package otp

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"linewall/internal/config"
	"linewall/internal/pkg/errors"
	"linewall/internal/pkg/logger"
	"linewall/internal/ports"
)

const challengeTTL = 5 * time.Minute

// ThaiBulkSMS talks to the ThaiBulkSMS OTP request/verify endpoints.
type ThaiBulkSMS struct {
	baseURL string
	key     string
	secret  string
	http    *http.Client
	log     *logger.Logger
}

// New builds the provider. Credentials are checked per call so that a
// deployment without SMS still boots and reports NOT_CONFIGURED only
// when the feature is used.
func New(cfg config.OTPConfig, log *logger.Logger) *ThaiBulkSMS {
	return &ThaiBulkSMS{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		key:     cfg.APIKey,
		secret:  cfg.APISecret,
		http: &http.Client{
			Timeout: cfg.Timeout,
		},
		log: log.WithComponent("otp"),
	}
}

type requestResponse struct {
	Status string `json:"status"`
	Token  string `json:"token"`
	RefNo  string `json:"refno"`
}

type verifyResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

// Request asks the provider to send a PIN to the phone number and
// returns the challenge token used later for verification.
func (t *ThaiBulkSMS) Request(ctx context.Context, phoneNumber string) (ports.OTPChallenge, error) {
	if t.key == "" || t.secret == "" {
		return ports.OTPChallenge{}, errors.NotConfigured("sms provider")
	}

	form := url.Values{}
	form.Set("msisdn", phoneNumber)
	form.Set("key", t.key)
	form.Set("secret", t.secret)

	var out requestResponse
	if err := t.post(ctx, "/request", form, &out); err != nil {
		return ports.OTPChallenge{}, err
	}
	if out.Token == "" {
		return ports.OTPChallenge{}, errors.New(errors.CodeUnavailable, "otp provider returned no token")
	}

	ref := out.RefNo
	if ref == "" && len(out.Token) >= 6 {
		ref = strings.ToUpper(out.Token[:6])
	}

	t.log.Info("otp requested", "ref", ref)
	return ports.OTPChallenge{
		Token:     out.Token,
		RefCode:   ref,
		ExpiresAt: time.Now().Add(challengeTTL),
	}, nil
}

// Verify checks a PIN against a previously issued challenge token. A
// wrong PIN is (false, nil), not an error.
func (t *ThaiBulkSMS) Verify(ctx context.Context, token, pin string) (bool, error) {
	if t.key == "" || t.secret == "" {
		return false, errors.NotConfigured("sms provider")
	}

	form := url.Values{}
	form.Set("token", token)
	form.Set("pin", pin)
	form.Set("key", t.key)
	form.Set("secret", t.secret)

	var out verifyResponse
	if err := t.post(ctx, "/verify", form, &out); err != nil {
		return false, err
	}
	return out.Status == "success", nil
}

func (t *ThaiBulkSMS) post(ctx context.Context, path string, form url.Values, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		t.baseURL+path, strings.NewReader(form.Encode()))
	if err != nil {
		return errors.Wrap(err, "otp.post", "build request")
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	res, err := t.http.Do(req)
	if err != nil {
		return errors.WrapWithCode(err, errors.CodeUnavailable, "otp.post", "otp provider unreachable")
	}
	defer res.Body.Close()

	body, err := io.ReadAll(io.LimitReader(res.Body, 4096))
	if err != nil {
		return errors.WrapWithCode(err, errors.CodeUnavailable, "otp.post", "read otp response")
	}

	// The provider reports PIN mismatches with a non-2xx status and a
	// JSON body; decode before deciding.
	if err := json.Unmarshal(body, out); err != nil {
		if res.StatusCode >= 300 {
			return errors.Newf(errors.CodeUnavailable, "otp provider returned status %d", res.StatusCode).
				WithField("status", res.StatusCode)
		}
		return errors.Wrap(err, "otp.post", "decode otp response")
	}
	return nil
}
