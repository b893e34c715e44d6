package services

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"github.com/wadjakorntonsri/linkbio/pkg/adapters/repository/sqlite"
	"github.com/wadjakorntonsri/linkbio/pkg/core/domain"
)

// newRepo opens a private in-memory store for one test.
func newRepo(t *testing.T) *sqlite.SQLiteRepository {
	t.Helper()
	repo, err := sqlite.NewSQLiteRepository("file:" + uuid.NewString() + "?mode=memory&cache=shared")
	require.NoError(t, err)
	t.Cleanup(func() { repo.Close() })
	return repo
}

func seedProfile(t *testing.T, repo *sqlite.SQLiteRepository, username string) *domain.Profile {
	t.Helper()
	now := time.Now().UTC()
	p := &domain.Profile{
		ID:        uuid.NewString(),
		Username:  username,
		CreatedAt: now,
		UpdatedAt: now,
	}
	require.NoError(t, repo.CreateProfile(context.Background(), p))
	return p
}

func seedLink(t *testing.T, repo *sqlite.SQLiteRepository, ownerID, title string, position int, clicks int64, active bool) *domain.Link {
	t.Helper()
	now := time.Now().UTC()
	l := &domain.Link{
		ID:        uuid.NewString(),
		ProfileID: ownerID,
		Title:     title,
		URL:       "https://example.com/" + title,
		Clicks:    clicks,
		IsActive:  active,
		Position:  position,
		CreatedAt: now,
		UpdatedAt: now,
	}
	require.NoError(t, repo.CreateLink(context.Background(), l))
	return l
}
