package services

import (
	"context"
	"strings"

	"github.com/wadjakorntonsri/linkbio/pkg/core/domain"
	"github.com/wadjakorntonsri/linkbio/pkg/ports"
)

// PublicService resolves profile pages for anonymous visitors. It never takes
// an owner identity.
type PublicService struct {
	profiles ports.ProfileRepository
	links    ports.LinkRepository
	cache    ports.ProfileCache
}

// NewPublicService creates the resolver. cache may be nil.
func NewPublicService(profiles ports.ProfileRepository, links ports.LinkRepository, cache ports.ProfileCache) *PublicService {
	return &PublicService{profiles: profiles, links: links, cache: cache}
}

// Resolve returns the profile owning username together with its active links
// in display order. Zero or ambiguous matches are reported as not found.
func (s *PublicService) Resolve(ctx context.Context, username string) (*domain.PublicProfile, error) {
	username = strings.ToLower(strings.TrimSpace(username))
	if username == "" {
		return nil, domain.ErrProfileNotFound
	}

	profile, err := s.lookup(ctx, username)
	if err != nil {
		return nil, err
	}

	links, err := s.links.ListLinks(ctx, profile.ID, true)
	if err != nil {
		return nil, storeError("list public links", err)
	}

	public := &domain.PublicProfile{
		Profile: *profile,
		Links:   make([]domain.PublicLink, 0, len(links)),
	}
	for _, l := range links {
		public.Links = append(public.Links, l.Public())
	}
	return public, nil
}

// Link returns an active link for redirecting a visitor.
func (s *PublicService) Link(ctx context.Context, id string) (*domain.PublicLink, error) {
	link, err := s.links.GetLink(ctx, id)
	if err != nil {
		return nil, storeError("get link", err)
	}
	if link == nil || !link.IsActive {
		return nil, domain.ErrLinkNotFound
	}
	public := link.Public()
	return &public, nil
}

func (s *PublicService) lookup(ctx context.Context, username string) (*domain.Profile, error) {
	if s.cache != nil {
		if profile, ok := s.cache.Get(username); ok {
			return profile, nil
		}
	}

	matches, err := s.profiles.FindProfilesByUsername(ctx, username, 2)
	if err != nil {
		return nil, storeError("find profile", err)
	}
	if len(matches) != 1 {
		return nil, domain.ErrProfileNotFound
	}

	profile := &matches[0]
	if s.cache != nil {
		s.cache.Set(profile)
	}
	return profile, nil
}
