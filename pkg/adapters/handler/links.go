package handler

import (
	"net/http"

	"github.com/wadjakorntonsri/linkbio/pkg/core/dashboard"
	"github.com/wadjakorntonsri/linkbio/pkg/core/domain"
	"github.com/wadjakorntonsri/linkbio/pkg/ports"
)

type LinkHandler struct {
	service ports.LinkService
}

func NewLinkHandler(service ports.LinkService) *LinkHandler {
	return &LinkHandler{service: service}
}

// ReorderRequest payload
type ReorderRequest struct {
	IDs []string `json:"ids"`
}

// DashboardResponse is the owner's overview.
type DashboardResponse struct {
	Summary dashboard.Summary `json:"summary"`
	Links   []domain.Link     `json:"links"`
}

// List Links
func (h *LinkHandler) List(w http.ResponseWriter, r *http.Request) {
	links, err := h.service.List(r.Context(), OwnerID(r.Context()))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"data":  links,
		"total": len(links),
	})
}

// Create Link
func (h *LinkHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req domain.NewLink
	if !decodeJSON(w, r, &req) {
		return
	}

	link, err := h.service.Add(r.Context(), OwnerID(r.Context()), req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, link)
}

// Update Link
func (h *LinkHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req domain.LinkUpdate
	if !decodeJSON(w, r, &req) {
		return
	}

	link, err := h.service.Update(r.Context(), OwnerID(r.Context()), r.PathValue("id"), req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, link)
}

// Toggle flips whether the link shows on the public page.
func (h *LinkHandler) Toggle(w http.ResponseWriter, r *http.Request) {
	link, err := h.service.ToggleActive(r.Context(), OwnerID(r.Context()), r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, link)
}

// Delete Link
func (h *LinkHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Delete(r.Context(), OwnerID(r.Context()), r.PathValue("id")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *LinkHandler) Reorder(w http.ResponseWriter, r *http.Request) {
	var req ReorderRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	links, err := h.service.Reorder(r.Context(), OwnerID(r.Context()), req.IDs)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"data": links})
}

// Get Stats for a Link
func (h *LinkHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.service.Stats(r.Context(), OwnerID(r.Context()), r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

// Get Dashboard
func (h *LinkHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	links, err := h.service.List(r.Context(), OwnerID(r.Context()))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, DashboardResponse{
		Summary: dashboard.Summarize(links),
		Links:   links,
	})
}
