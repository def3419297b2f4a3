package handlers

import (
	"net/http"

	"linewall/internal/httpkit"
)

// ListTemplates returns the wallpaper catalog for template pickers.
func (h *Handler) ListTemplates(w http.ResponseWriter, r *http.Request) {
	httpkit.WriteJSON(w, http.StatusOK, map[string]any{
		"templates": h.catalog.List(),
	})
}
