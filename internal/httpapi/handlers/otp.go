package handlers

import (
	"net/http"
	"regexp"

	"linewall/internal/httpkit"
	"linewall/internal/pkg/errors"
	"linewall/internal/pkg/middleware"
	"linewall/internal/repositories"
)

// Thai mobile numbers: ten digits starting with 0.
var phoneRe = regexp.MustCompile(`^0\d{9}$`)

var pinRe = regexp.MustCompile(`^\d{6}$`)

type SendOTPRequest struct {
	PhoneNumber string `json:"phoneNumber"`
}

type VerifyOTPRequest struct {
	PhoneNumber string `json:"phoneNumber"`
	OTPCode     string `json:"otpCode"`
}

// PostSendOTP requests a verification PIN for the phone number.
func (h *Handler) PostSendOTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := h.log.FromContext(ctx)

	var req SendOTPRequest
	if err := httpkit.DecodeJSON(r, &req); err != nil {
		httpkit.WriteErr(w, http.StatusBadRequest,
			string(errors.CodeValidation), "invalid json body", nil)
		return
	}

	if !phoneRe.MatchString(req.PhoneNumber) {
		httpkit.WriteErr(w, http.StatusBadRequest,
			string(errors.CodeValidation),
			"phone number must be 10 digits starting with 0",
			map[string]any{"field": "phoneNumber"})
		return
	}

	if h.limiter != nil {
		allowed, retryAfter, _ := h.limiter.AllowSend(ctx, req.PhoneNumber)
		if !allowed {
			httpkit.WriteErr(w, http.StatusTooManyRequests,
				string(errors.CodeValidation), "too many OTP requests",
				map[string]any{"retryAfterSeconds": int(retryAfter.Seconds())})
			return
		}
	}

	challenge, err := h.otp.Request(ctx, req.PhoneNumber)
	if err != nil {
		middleware.HandleError(w, r, h.log, err)
		return
	}

	if _, err := h.otpRepo.Create(ctx, req.PhoneNumber, challenge.Token, challenge.RefCode); err != nil {
		log.LogError(ctx, "otp challenge not persisted", err)
		httpkit.WriteErr(w, http.StatusInternalServerError,
			string(errors.CodeInternal), "failed to store OTP challenge", nil)
		return
	}

	httpkit.WriteJSON(w, http.StatusOK, map[string]any{
		"success":       true,
		"referenceCode": challenge.RefCode,
	})
}

// PostVerifyOTP checks a PIN against the latest pending challenge.
func (h *Handler) PostVerifyOTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := h.log.FromContext(ctx)

	var req VerifyOTPRequest
	if err := httpkit.DecodeJSON(r, &req); err != nil {
		httpkit.WriteErr(w, http.StatusBadRequest,
			string(errors.CodeValidation), "invalid json body", nil)
		return
	}

	if !phoneRe.MatchString(req.PhoneNumber) {
		httpkit.WriteErr(w, http.StatusBadRequest,
			string(errors.CodeValidation),
			"phone number must be 10 digits starting with 0",
			map[string]any{"field": "phoneNumber"})
		return
	}
	if !pinRe.MatchString(req.OTPCode) {
		httpkit.WriteErr(w, http.StatusBadRequest,
			string(errors.CodeValidation), "OTP code must be 6 digits",
			map[string]any{"field": "otpCode"})
		return
	}

	record, err := h.otpRepo.GetPending(ctx, req.PhoneNumber)
	if err != nil {
		if errors.Is(err, repositories.ErrOTPNotFound) {
			httpkit.WriteErr(w, http.StatusBadRequest,
				string(errors.CodeValidation),
				"no OTP found or OTP expired, request a new one", nil)
			return
		}
		log.LogError(ctx, "otp lookup failed", err)
		httpkit.WriteErr(w, http.StatusInternalServerError,
			string(errors.CodeInternal), "failed to look up OTP", nil)
		return
	}

	ok, err := h.otp.Verify(ctx, record.Token, req.OTPCode)
	if err != nil {
		middleware.HandleError(w, r, h.log, err)
		return
	}
	if !ok {
		httpkit.WriteErr(w, http.StatusBadRequest,
			string(errors.CodeValidation), "invalid OTP code", nil)
		return
	}

	// The provider accepted the PIN; a failed bookkeeping update must
	// not turn that into a verification failure.
	if err := h.otpRepo.MarkVerified(ctx, record.ID); err != nil {
		log.LogError(ctx, "otp not marked verified", err)
	}

	httpkit.WriteJSON(w, http.StatusOK, map[string]any{
		"success": true,
	})
}
