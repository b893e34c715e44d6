package domain

import "time"

// Link is an entry on a profile page. Position orders links ascending.
type Link struct {
	ID          string    `json:"id"`
	ProfileID   string    `json:"profile_id"`
	Title       string    `json:"title"`
	URL         string    `json:"url"`
	Description string    `json:"description,omitempty"`
	Icon        string    `json:"icon,omitempty"`
	Clicks      int64     `json:"clicks"`
	IsActive    bool      `json:"is_active"`
	Position    int       `json:"position"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// NewLink is the owner's input when adding a link.
type NewLink struct {
	Title       string `json:"title" validate:"required,max=100"`
	URL         string `json:"url" validate:"required,http_url,max=2048"`
	Description string `json:"description,omitempty" validate:"max=280"`
	Icon        string `json:"icon,omitempty" validate:"max=64"`
}

// LinkUpdate carries a partial link edit.
type LinkUpdate struct {
	Title       *string `json:"title,omitempty"`
	URL         *string `json:"url,omitempty"`
	Description *string `json:"description,omitempty"`
	Icon        *string `json:"icon,omitempty"`
}

// PublicLink is the visitor-facing projection of an active link.
type PublicLink struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	URL         string `json:"url"`
	Description string `json:"description,omitempty"`
	Icon        string `json:"icon,omitempty"`
	Clicks      int64  `json:"clicks"`
	Position    int    `json:"position"`
}

// Public projects a link for anonymous display.
func (l Link) Public() PublicLink {
	return PublicLink{
		ID:          l.ID,
		Title:       l.Title,
		URL:         l.URL,
		Description: l.Description,
		Icon:        l.Icon,
		Clicks:      l.Clicks,
		Position:    l.Position,
	}
}
