// Package dashboard keeps an owner's working copy of their links and applies
// each mutation locally once the store has accepted it.
package dashboard

import (
	"context"
	"errors"
	"sync"

	"github.com/wadjakorntonsri/linkbio/pkg/core/domain"
	"github.com/wadjakorntonsri/linkbio/pkg/ports"
)

// Result is the outcome of one dashboard action. Callers must check OK
// before assuming the store changed.
type Result struct {
	OK      bool         `json:"ok"`
	Message string       `json:"message"`
	Link    *domain.Link `json:"link,omitempty"`
	Err     error        `json:"-"`
}

// Summary is the owner's headline numbers.
type Summary struct {
	TotalClicks int64 `json:"total_clicks"`
	ActiveLinks int   `json:"active_links"`
	TotalLinks  int   `json:"total_links"`
}

// Session is one owner's dashboard. It is safe for concurrent use.
type Session struct {
	service ports.LinkService
	ownerID string

	mu    sync.Mutex
	links []domain.Link
}

func NewSession(service ports.LinkService, ownerID string) *Session {
	return &Session{service: service, ownerID: ownerID}
}

// Load replaces the working copy with the store's list.
func (s *Session) Load(ctx context.Context) Result {
	links, err := s.service.List(ctx, s.ownerID)
	if err != nil {
		return failure("Could not load links", err)
	}

	s.mu.Lock()
	s.links = links
	s.mu.Unlock()
	return Result{OK: true, Message: "Links loaded"}
}

// Add creates a link and prepends it to the working copy.
func (s *Session) Add(ctx context.Context, input domain.NewLink) Result {
	link, err := s.service.Add(ctx, s.ownerID, input)
	if err != nil {
		return failure("Could not add link", err)
	}

	s.mu.Lock()
	s.links = append([]domain.Link{*link}, s.links...)
	s.mu.Unlock()
	return Result{OK: true, Message: "Link added", Link: link}
}

// Toggle flips the link's active flag.
func (s *Session) Toggle(ctx context.Context, id string) Result {
	link, err := s.service.ToggleActive(ctx, s.ownerID, id)
	if err != nil {
		return failure("Could not update link status", err)
	}

	s.mu.Lock()
	for i := range s.links {
		if s.links[i].ID == id {
			s.links[i].IsActive = !s.links[i].IsActive
		}
	}
	s.mu.Unlock()
	return Result{OK: true, Message: "Link status updated", Link: link}
}

// Delete removes the link permanently.
func (s *Session) Delete(ctx context.Context, id string) Result {
	if err := s.service.Delete(ctx, s.ownerID, id); err != nil {
		return failure("Could not delete link", err)
	}

	s.mu.Lock()
	kept := s.links[:0]
	for _, l := range s.links {
		if l.ID != id {
			kept = append(kept, l)
		}
	}
	s.links = kept
	s.mu.Unlock()
	return Result{OK: true, Message: "Link deleted permanently"}
}

// Links returns a copy of the working list.
func (s *Session) Links() []domain.Link {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]domain.Link(nil), s.links...)
}

func (s *Session) Summary() Summary {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Summarize(s.links)
}

// Summarize computes the headline numbers for a list of links.
func Summarize(links []domain.Link) Summary {
	sum := Summary{TotalLinks: len(links)}
	for _, l := range links {
		sum.TotalClicks += l.Clicks
		if l.IsActive {
			sum.ActiveLinks++
		}
	}
	return sum
}

func failure(message string, err error) Result {
	var verr *domain.ValidationError
	if errors.As(err, &verr) {
		message = verr.Error()
	}
	return Result{OK: false, Message: message, Err: err}
}
