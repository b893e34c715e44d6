package handler

import (
	"net/http"

	"github.com/wadjakorntonsri/linkbio/pkg/core/domain"
	"github.com/wadjakorntonsri/linkbio/pkg/ports"
)

type PublicHandler struct {
	public  ports.PublicService
	tracker ports.ClickTracker
}

func NewPublicHandler(public ports.PublicService, tracker ports.ClickTracker) *PublicHandler {
	return &PublicHandler{public: public, tracker: tracker}
}

// TrackResponse reports whether a click was counted.
type TrackResponse struct {
	Tracked bool  `json:"tracked"`
	Clicks  int64 `json:"clicks"`
}

// Profile serves the public page data for a username.
func (h *PublicHandler) Profile(w http.ResponseWriter, r *http.Request) {
	page, err := h.public.Resolve(r.Context(), r.PathValue("username"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, page)
}

// Click counts a visitor activation of a link shown on the profile page.
// Links that are not on the page are accepted but not counted.
func (h *PublicHandler) Click(w http.ResponseWriter, r *http.Request) {
	page, err := h.public.Resolve(r.Context(), r.PathValue("username"))
	if err != nil {
		writeError(w, err)
		return
	}

	id := r.PathValue("id")
	resp := TrackResponse{}
	for _, l := range page.Links {
		if l.ID == id {
			resp.Clicks, resp.Tracked = h.tracker.Track(r.Context(), id, visitFromRequest(r))
			break
		}
	}
	writeJSON(w, http.StatusAccepted, resp)
}

// Redirect to the link URL
func (h *PublicHandler) Redirect(w http.ResponseWriter, r *http.Request) {
	link, err := h.public.Link(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}

	// Async track visit (only if query param "no_stat" is not set)
	if r.URL.Query().Get("no_stat") == "" {
		h.tracker.TrackAsync(r.Context(), link.ID, visitFromRequest(r))
	}

	http.Redirect(w, r, link.URL, http.StatusFound)
}

func visitFromRequest(r *http.Request) domain.Visit {
	return domain.Visit{
		UserAgent: r.UserAgent(),
		Referrer:  r.Header.Get("Referer"),
	}
}
