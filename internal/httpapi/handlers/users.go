package handlers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"linewall/internal/httpkit"
	"linewall/internal/models"
	"linewall/internal/pkg/errors"
	"linewall/internal/repositories"
)

type SaveUserRequest struct {
	LineUUID    string `json:"lineUuid"`
	Title       string `json:"title"`
	FirstName   string `json:"firstName"`
	LastName    string `json:"lastName"`
	Gender      string `json:"gender"`
	DateOfBirth string `json:"dateOfBirth"`
	Email       string `json:"email"`
	PhoneNumber string `json:"phoneNumber"`
}

// PostUser upserts a LINE user profile after onboarding.
func (h *Handler) PostUser(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req SaveUserRequest
	if err := httpkit.DecodeJSON(r, &req); err != nil {
		httpkit.WriteErr(w, http.StatusBadRequest,
			string(errors.CodeValidation), "invalid json body", nil)
		return
	}

	for field, value := range map[string]string{
		"lineUuid":    req.LineUUID,
		"firstName":   req.FirstName,
		"lastName":    req.LastName,
		"email":       req.Email,
		"phoneNumber": req.PhoneNumber,
	} {
		if strings.TrimSpace(value) == "" {
			httpkit.WriteErr(w, http.StatusBadRequest,
				string(errors.CodeValidation), field+" is required",
				map[string]any{"field": field})
			return
		}
	}

	user := &models.User{
		LineUUID:    req.LineUUID,
		Title:       req.Title,
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		Gender:      req.Gender,
		DateOfBirth: req.DateOfBirth,
		Email:       req.Email,
		PhoneNumber: req.PhoneNumber,
	}
	if err := h.users.Save(ctx, user); err != nil {
		h.log.FromContext(ctx).LogError(ctx, "save user failed", err)
		httpkit.WriteErr(w, http.StatusInternalServerError,
			string(errors.CodeInternal), "failed to save user", nil)
		return
	}

	httpkit.WriteJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"user":    user,
	})
}

// GetUser reports whether a LINE user has completed onboarding.
func (h *Handler) GetUser(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	lineUUID := chi.URLParam(r, "lineUserID")

	user, err := h.users.GetByLineUUID(ctx, lineUUID)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			httpkit.WriteJSON(w, http.StatusOK, map[string]any{
				"registered": false,
			})
			return
		}
		h.log.FromContext(ctx).LogError(ctx, "fetch user failed", err)
		httpkit.WriteErr(w, http.StatusInternalServerError,
			string(errors.CodeInternal), "failed to fetch user", nil)
		return
	}

	httpkit.WriteJSON(w, http.StatusOK, map[string]any{
		"registered": true,
		"user": map[string]any{
			"lineUuid":  user.LineUUID,
			"firstName": user.FirstName,
			"lastName":  user.LastName,
			"email":     user.Email,
		},
	})
}
