package handlers

import (
	"net/http"

	"linewall/internal/httpkit"
	"linewall/internal/pkg/errors"
	"linewall/internal/pkg/middleware"
)

type PushRequest struct {
	RecipientID string `json:"recipientId"`
	ImageURL    string `json:"imageUrl"`
}

// PostPush resends an already published wallpaper to a chat. Nothing is
// rendered or uploaded here.
func (h *Handler) PostPush(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req PushRequest
	if err := httpkit.DecodeJSON(r, &req); err != nil {
		httpkit.WriteErr(w, http.StatusBadRequest,
			string(errors.CodeValidation), "invalid json body", nil)
		return
	}

	if err := h.pipeline.Resend(ctx, req.RecipientID, req.ImageURL); err != nil {
		middleware.HandleError(w, r, h.log, err)
		return
	}

	httpkit.WriteJSON(w, http.StatusOK, map[string]any{
		"success":   true,
		"delivered": true,
	})
}
