package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wadjakorntonsri/linkbio/pkg/adapters/cache"
	"github.com/wadjakorntonsri/linkbio/pkg/core/domain"
)

func strPtr(s string) *string { return &s }

func TestProfileService_Fetch(t *testing.T) {
	repo := newRepo(t)
	svc := NewProfileService(repo, nil)
	ctx := context.Background()

	_, err := svc.Fetch(ctx, "")
	assert.ErrorIs(t, err, domain.ErrNoIdentity)
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	_, err = svc.Fetch(ctx, "missing")
	assert.ErrorIs(t, err, domain.ErrProfileNotFound)

	seeded := seedProfile(t, repo, "joaosilva")
	got, err := svc.Fetch(ctx, seeded.ID)
	require.NoError(t, err)
	assert.Equal(t, "joaosilva", got.Username)
}

func TestProfileService_Provision(t *testing.T) {
	repo := newRepo(t)
	svc := NewProfileService(repo, nil)
	ctx := context.Background()

	first, err := svc.Provision(ctx, "owner-1", domain.Identity{
		Email:   "Joao.Silva@example.com",
		Name:    "João Silva",
		Picture: "https://example.com/me.png",
	})
	require.NoError(t, err)
	assert.Equal(t, "joaosilva", first.Username)
	assert.Equal(t, "João Silva", first.DisplayName)
	assert.Equal(t, "https://example.com/me.png", first.AvatarURL)

	again, err := svc.Provision(ctx, "owner-1", domain.Identity{Email: "other@example.com"})
	require.NoError(t, err)
	assert.Equal(t, first.ID, again.ID)
	assert.Equal(t, "joaosilva", again.Username)

	// same local part, different account
	second, err := svc.Provision(ctx, "owner-2", domain.Identity{Email: "joaosilva@other.org"})
	require.NoError(t, err)
	assert.Equal(t, "joaosilva_2", second.Username)

	short, err := svc.Provision(ctx, "owner-3", domain.Identity{Email: "x@example.com"})
	require.NoError(t, err)
	assert.Equal(t, "userx", short.Username)

	_, err = svc.Provision(ctx, "", domain.Identity{Email: "a@example.com"})
	assert.ErrorIs(t, err, domain.ErrNoIdentity)
}

func TestProfileService_Update(t *testing.T) {
	repo := newRepo(t)
	svc := NewProfileService(repo, nil)
	ctx := context.Background()

	owner := seedProfile(t, repo, "joaosilva")
	seedProfile(t, repo, "taken")

	updated, err := svc.Update(ctx, owner.ID, domain.ProfileUpdate{
		DisplayName: strPtr("  João  "),
		Bio:         strPtr("Photographer"),
		Website:     strPtr("https://joao.example.com"),
	})
	require.NoError(t, err)
	assert.Equal(t, "João", updated.DisplayName)
	assert.Equal(t, "Photographer", updated.Bio)
	assert.Equal(t, "joaosilva", updated.Username)

	stored, err := svc.Fetch(ctx, owner.ID)
	require.NoError(t, err)
	assert.Equal(t, "https://joao.example.com", stored.Website)

	_, err = svc.Update(ctx, owner.ID, domain.ProfileUpdate{Username: strPtr("Taken")})
	assert.ErrorIs(t, err, domain.ErrUsernameTaken)
	assert.ErrorIs(t, err, domain.ErrConflict)

	_, err = svc.Update(ctx, owner.ID, domain.ProfileUpdate{
		Username: strPtr("a b"),
		Website:  strPtr("ftp://nope"),
	})
	var verr *domain.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "username")
	assert.Contains(t, verr.Fields, "website")

	// nothing was written by the rejected updates
	stored, err = svc.Fetch(ctx, owner.ID)
	require.NoError(t, err)
	assert.Equal(t, "joaosilva", stored.Username)

	_, err = svc.Update(ctx, "", domain.ProfileUpdate{})
	assert.ErrorIs(t, err, domain.ErrNoIdentity)
}

func TestProfileService_UpdateInvalidatesCache(t *testing.T) {
	repo := newRepo(t)
	profileCache, err := cache.New(100, time.Minute)
	require.NoError(t, err)
	t.Cleanup(profileCache.Close)

	profiles := NewProfileService(repo, profileCache)
	public := NewPublicService(repo, repo, profileCache)
	ctx := context.Background()

	owner := seedProfile(t, repo, "joaosilva")

	_, err = public.Resolve(ctx, "joaosilva")
	require.NoError(t, err)
	profileCache.Wait()

	_, err = profiles.Update(ctx, owner.ID, domain.ProfileUpdate{Username: strPtr("joao")})
	require.NoError(t, err)

	_, err = public.Resolve(ctx, "joaosilva")
	assert.ErrorIs(t, err, domain.ErrProfileNotFound)

	page, err := public.Resolve(ctx, "joao")
	require.NoError(t, err)
	assert.Equal(t, owner.ID, page.Profile.ID)
}

func TestUsernameCandidate(t *testing.T) {
	assert.Equal(t, "joao", usernameCandidate("joao", 0))
	assert.Equal(t, "joao_2", usernameCandidate("joao", 1))
	assert.Equal(t, "joao_20", usernameCandidate("joao", maxUsernameAttempts-1))

	random := usernameCandidate("joao", maxUsernameAttempts)
	assert.Regexp(t, `^joao_[0-9a-f]{6}$`, random)
	assert.True(t, usernamePattern.MatchString(random))
}

func TestNormalizeUsername(t *testing.T) {
	assert.Equal(t, "joao_silva", NormalizeUsername("  Joao_Silva "))
	assert.Equal(t, "joosilva", NormalizeUsername("João.Silva"))
	assert.Equal(t, "", NormalizeUsername("..."))
}
