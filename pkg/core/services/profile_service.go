package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/wadjakorntonsri/linkbio/pkg/core/domain"
	"github.com/wadjakorntonsri/linkbio/pkg/ports"
)

const maxUsernameAttempts = 20

type ProfileService struct {
	repo     ports.ProfileRepository
	cache    ports.ProfileCache
	validate *validator.Validate
}

// NewProfileService creates the owner profile accessor. cache may be nil.
func NewProfileService(repo ports.ProfileRepository, cache ports.ProfileCache) *ProfileService {
	return &ProfileService{repo: repo, cache: cache, validate: newValidator()}
}

func (s *ProfileService) Fetch(ctx context.Context, ownerID string) (*domain.Profile, error) {
	if ownerID == "" {
		return nil, domain.ErrNoIdentity
	}

	profile, err := s.repo.GetProfile(ctx, ownerID)
	if err != nil {
		return nil, storeError("fetch profile", err)
	}
	if profile == nil {
		return nil, domain.ErrProfileNotFound
	}
	return profile, nil
}

func (s *ProfileService) Update(ctx context.Context, ownerID string, update domain.ProfileUpdate) (*domain.Profile, error) {
	profile, err := s.Fetch(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	oldUsername := profile.Username

	set := func(dst *string, v *string) {
		if v != nil {
			*dst = strings.TrimSpace(*v)
		}
	}
	if update.Username != nil {
		profile.Username = strings.ToLower(strings.TrimSpace(*update.Username))
	}
	set(&profile.DisplayName, update.DisplayName)
	set(&profile.Bio, update.Bio)
	set(&profile.AvatarURL, update.AvatarURL)
	set(&profile.Website, update.Website)
	set(&profile.SocialInstagram, update.SocialInstagram)
	set(&profile.SocialLinkedIn, update.SocialLinkedIn)
	set(&profile.SocialTwitter, update.SocialTwitter)
	set(&profile.SocialYouTube, update.SocialYouTube)

	fields := profileFields{
		Username:        profile.Username,
		DisplayName:     profile.DisplayName,
		Bio:             profile.Bio,
		AvatarURL:       profile.AvatarURL,
		Website:         profile.Website,
		SocialInstagram: profile.SocialInstagram,
		SocialLinkedIn:  profile.SocialLinkedIn,
		SocialTwitter:   profile.SocialTwitter,
		SocialYouTube:   profile.SocialYouTube,
	}
	if err := s.validate.Struct(fields); err != nil {
		return nil, validationError(err)
	}

	if profile.Username != oldUsername {
		taken, err := s.usernameTaken(ctx, profile.Username)
		if err != nil {
			return nil, err
		}
		if taken {
			return nil, domain.ErrUsernameTaken
		}
	}

	profile.UpdatedAt = time.Now().UTC()
	if err := s.repo.UpdateProfile(ctx, profile); err != nil {
		return nil, storeError("update profile", err)
	}

	if s.cache != nil {
		s.cache.Invalidate(oldUsername, profile.Username)
	}
	return profile, nil
}

// Provision returns the owner's profile, creating it on first sign-in with a
// username derived from the e-mail address.
func (s *ProfileService) Provision(ctx context.Context, ownerID string, identity domain.Identity) (*domain.Profile, error) {
	if ownerID == "" {
		return nil, domain.ErrNoIdentity
	}

	existing, err := s.repo.GetProfile(ctx, ownerID)
	if err != nil {
		return nil, storeError("fetch profile", err)
	}
	if existing != nil {
		return existing, nil
	}

	now := time.Now().UTC()
	profile := &domain.Profile{
		ID:          ownerID,
		DisplayName: truncate(strings.TrimSpace(identity.Name), 80),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if s.validate.Var(identity.Picture, "required,http_url") == nil {
		profile.AvatarURL = identity.Picture
	}

	base := usernameBase(identity.Email)
	for attempt := 0; attempt <= maxUsernameAttempts; attempt++ {
		candidate := usernameCandidate(base, attempt)

		taken, err := s.usernameTaken(ctx, candidate)
		if err != nil {
			return nil, err
		}
		if taken {
			continue
		}

		profile.Username = candidate
		err = s.repo.CreateProfile(ctx, profile)
		switch {
		case err == nil:
			log.Info().Str("profile_id", ownerID).Str("username", candidate).Msg("profile provisioned")
			return profile, nil
		case errors.Is(err, domain.ErrUsernameTaken):
			continue
		case errors.Is(err, domain.ErrConflict):
			// Signed in twice concurrently; the other request created it.
			return s.Fetch(ctx, ownerID)
		default:
			return nil, storeError("create profile", err)
		}
	}

	return nil, fmt.Errorf("no free username for %q: %w", base, domain.ErrConflict)
}

func (s *ProfileService) usernameTaken(ctx context.Context, username string) (bool, error) {
	matches, err := s.repo.FindProfilesByUsername(ctx, username, 1)
	if err != nil {
		return false, storeError("find profile", err)
	}
	return len(matches) > 0, nil
}

func usernameBase(email string) string {
	local, _, _ := strings.Cut(email, "@")
	base := NormalizeUsername(local)
	if len(base) < 3 {
		base = "user" + base
	}
	return truncate(base, 23)
}

// usernameCandidate yields base, base_2, base_3 ... and finally a random suffix.
func usernameCandidate(base string, attempt int) string {
	switch {
	case attempt == 0:
		return base
	case attempt < maxUsernameAttempts:
		return fmt.Sprintf("%s_%d", base, attempt+1)
	default:
		return base + "_" + strings.ReplaceAll(uuid.NewString(), "-", "")[:6]
	}
}

func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max])
}
