package handlers

import (
	"encoding/base64"
	"net/http"

	"linewall/internal/httpkit"
	"linewall/internal/pkg/errors"
	"linewall/internal/pkg/middleware"
)

type PublishRequest struct {
	ImageBytesBase64 string `json:"imageBytesBase64"`
	NamingHint       string `json:"namingHint"`
	ContentType      string `json:"contentType,omitempty"`
}

// PostPublish uploads caller-supplied image bytes and returns the
// public URL. Used as the manual-download fallback path.
func (h *Handler) PostPublish(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req PublishRequest
	if err := httpkit.DecodeJSON(r, &req); err != nil {
		httpkit.WriteErr(w, http.StatusBadRequest,
			string(errors.CodeValidation), "invalid json body", nil)
		return
	}

	data, err := base64.StdEncoding.DecodeString(req.ImageBytesBase64)
	if err != nil {
		httpkit.WriteErr(w, http.StatusBadRequest,
			string(errors.CodeValidation), "imageBytesBase64 is not valid base64",
			map[string]any{"field": "imageBytesBase64"})
		return
	}

	contentType := req.ContentType
	if contentType == "" {
		contentType = "image/jpeg"
	}

	asset, err := h.publisher.Publish(ctx, data, contentType, req.NamingHint)
	if err != nil {
		middleware.HandleError(w, r, h.log, err)
		return
	}

	httpkit.WriteJSON(w, http.StatusOK, map[string]any{
		"success":   true,
		"url":       asset.URL,
		"objectKey": asset.ObjectKey,
	})
}
