package ports

import (
	"context"
	"time"

	"github.com/wadjakorntonsri/linkbio/pkg/core/domain"
)

// ProfileRepository defines storage operations for profiles.
// Lookups return (nil, nil) when nothing matches.
type ProfileRepository interface {
	CreateProfile(ctx context.Context, profile *domain.Profile) error
	GetProfile(ctx context.Context, id string) (*domain.Profile, error)
	// FindProfilesByUsername returns at most limit profiles with that username.
	FindProfilesByUsername(ctx context.Context, username string, limit int) ([]domain.Profile, error)
	UpdateProfile(ctx context.Context, profile *domain.Profile) error
	DumpProfiles(ctx context.Context) ([]domain.Profile, error) // For migration
}

// LinkRepository defines storage operations for links. Every owner mutation
// is scoped by profile ID.
type LinkRepository interface {
	CreateLink(ctx context.Context, link *domain.Link) error
	GetLink(ctx context.Context, id string) (*domain.Link, error)
	GetOwnedLink(ctx context.Context, ownerID, id string) (*domain.Link, error)
	ListLinks(ctx context.Context, ownerID string, activeOnly bool) ([]domain.Link, error)
	CountLinks(ctx context.Context, ownerID string) (int, error)
	UpdateLink(ctx context.Context, link *domain.Link) error
	// ToggleLinkActive flips is_active and reports whether a row matched.
	ToggleLinkActive(ctx context.Context, ownerID, id string) (bool, error)
	DeleteLink(ctx context.Context, ownerID, id string) error
	UpdateLinkPositions(ctx context.Context, ownerID string, ids []string) error
	DumpLinks(ctx context.Context) ([]domain.Link, error) // For migration

	// Stats
	// RecordClick atomically increments the counter of an active link and
	// appends the event. It returns the new counter value.
	RecordClick(ctx context.Context, click *domain.ClickEvent) (int64, error)
	GetLinkStats(ctx context.Context, linkID string) (*domain.LinkStats, error)
}

// ProfileCache caches username lookups for the public read path.
type ProfileCache interface {
	Get(username string) (*domain.Profile, bool)
	Set(profile *domain.Profile)
	Invalidate(usernames ...string)
}

// SessionRevoker remembers signed-out session tokens until they expire.
type SessionRevoker interface {
	Revoke(ctx context.Context, tokenID string, ttl time.Duration) error
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}

// ProfileService defines profile business logic for the signed-in owner.
type ProfileService interface {
	Fetch(ctx context.Context, ownerID string) (*domain.Profile, error)
	Update(ctx context.Context, ownerID string, update domain.ProfileUpdate) (*domain.Profile, error)
	Provision(ctx context.Context, ownerID string, identity domain.Identity) (*domain.Profile, error)
}

// LinkService defines link management for the signed-in owner.
type LinkService interface {
	List(ctx context.Context, ownerID string) ([]domain.Link, error)
	Add(ctx context.Context, ownerID string, input domain.NewLink) (*domain.Link, error)
	Update(ctx context.Context, ownerID, id string, update domain.LinkUpdate) (*domain.Link, error)
	ToggleActive(ctx context.Context, ownerID, id string) (*domain.Link, error)
	Delete(ctx context.Context, ownerID, id string) error
	Reorder(ctx context.Context, ownerID string, ids []string) ([]domain.Link, error)
	Stats(ctx context.Context, ownerID, id string) (*domain.LinkStats, error)
}

// ClickTracker counts visitor activations. It never returns errors; failures
// are logged and reported through ok.
type ClickTracker interface {
	Track(ctx context.Context, linkID string, visit domain.Visit) (clicks int64, ok bool)
	TrackAsync(ctx context.Context, linkID string, visit domain.Visit)
}

// PublicService is the anonymous read path.
type PublicService interface {
	Resolve(ctx context.Context, username string) (*domain.PublicProfile, error)
	Link(ctx context.Context, id string) (*domain.PublicLink, error)
}
