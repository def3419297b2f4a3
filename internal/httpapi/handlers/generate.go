package handlers

import (
	"encoding/base64"
	"net/http"

	"linewall/internal/httpkit"
	"linewall/internal/pipeline"
	"linewall/internal/pkg/errors"
	"linewall/internal/pkg/middleware"
)

type GenerateRequest struct {
	TemplateID  string `json:"templateId"`
	Text        string `json:"text"`
	RecipientID string `json:"recipientId"`
}

type GenerateResponse struct {
	Success           bool   `json:"success"`
	RenderedImage     string `json:"renderedImage,omitempty"`
	ImageURL          string `json:"imageUrl,omitempty"`
	ObjectKey         string `json:"objectKey,omitempty"`
	DeliveryAttempted bool   `json:"deliveryAttempted"`
	Delivered         bool   `json:"delivered"`
	DeliveryError     string `json:"deliveryError,omitempty"`
}

// PostGenerate runs the full generation pipeline for one request.
func (h *Handler) PostGenerate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req GenerateRequest
	if err := httpkit.DecodeJSON(r, &req); err != nil {
		httpkit.WriteErr(w, http.StatusBadRequest,
			string(errors.CodeValidation), "invalid json body", nil)
		return
	}

	res, err := h.pipeline.Generate(ctx, pipeline.GenerateRequest{
		TemplateID:  req.TemplateID,
		Text:        req.Text,
		RecipientID: req.RecipientID,
	})
	if err != nil {
		// Upload failures still carry the rendered image so the client
		// can offer a manual download.
		if errors.GetCode(err) == errors.CodeUploadFailed && res != nil && res.Image != nil {
			httpkit.WriteJSON(w, errors.GetHTTPStatus(err), map[string]any{
				"success":       false,
				"error":         err.Error(),
				"code":          string(errors.GetCode(err)),
				"renderedImage": dataURL(res.Image.MimeType, res.Image.Bytes),
			})
			return
		}
		middleware.HandleError(w, r, h.log, err)
		return
	}

	out := GenerateResponse{
		Success:           true,
		DeliveryAttempted: true,
		Delivered:         res.Delivered,
	}
	if res.Image != nil {
		out.RenderedImage = dataURL(res.Image.MimeType, res.Image.Bytes)
	}
	if res.Asset != nil {
		out.ImageURL = res.Asset.URL
		out.ObjectKey = res.Asset.ObjectKey
	}
	if res.DeliveryErr != nil {
		out.DeliveryError = res.DeliveryErr.Error()
	}

	httpkit.WriteJSON(w, http.StatusOK, out)
}

func dataURL(mimeType string, data []byte) string {
	return "data:" + mimeType + ";base64," + base64.StdEncoding.EncodeToString(data)
}
