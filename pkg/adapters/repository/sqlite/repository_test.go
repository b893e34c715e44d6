package sqlite

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wadjakorntonsri/linkbio/pkg/core/domain"
)

func setupRepo(t *testing.T) *SQLiteRepository {
	t.Helper()
	repo, err := NewSQLiteRepository("file:" + uuid.NewString() + "?mode=memory&cache=shared")
	require.NoError(t, err)
	t.Cleanup(func() { repo.Close() })
	return repo
}

func newProfile(username string) *domain.Profile {
	now := time.Now().UTC().Truncate(time.Second)
	return &domain.Profile{
		ID:          uuid.NewString(),
		Username:    username,
		DisplayName: "Display " + username,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

func newLink(ownerID, title string, position int) *domain.Link {
	now := time.Now().UTC().Truncate(time.Second)
	return &domain.Link{
		ID:        uuid.NewString(),
		ProfileID: ownerID,
		Title:     title,
		URL:       "https://example.com/" + title,
		IsActive:  true,
		Position:  position,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func TestMigrateIsIdempotent(t *testing.T) {
	repo := setupRepo(t)
	require.NoError(t, migrate(repo.db))
}

func TestMigrateAddsIconColumn(t *testing.T) {
	db, err := sql.Open("sqlite", "file:"+uuid.NewString()+"?mode=memory&cache=shared")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	db.SetMaxOpenConns(1)

	_, err = db.Exec(`CREATE TABLE links (
		id TEXT PRIMARY KEY,
		profile_id TEXT NOT NULL,
		title TEXT NOT NULL,
		url TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		click_count INTEGER NOT NULL DEFAULT 0,
		is_active INTEGER NOT NULL DEFAULT 1,
		position INTEGER NOT NULL DEFAULT 0,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
	)`)
	require.NoError(t, err)
	_, err = db.Exec(`INSERT INTO links (id, profile_id, title, url) VALUES ('old', 'p', 'Old', 'https://example.com')`)
	require.NoError(t, err)

	require.NoError(t, migrate(db))

	var icon string
	require.NoError(t, db.QueryRow(`SELECT icon FROM links WHERE id = 'old'`).Scan(&icon))
	assert.Empty(t, icon)
}

func TestProfiles(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()

	p := newProfile("joaosilva")
	require.NoError(t, repo.CreateProfile(ctx, p))

	got, err := repo.GetProfile(ctx, p.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "joaosilva", got.Username)
	assert.Equal(t, "Display joaosilva", got.DisplayName)
	assert.True(t, p.CreatedAt.Equal(got.CreatedAt))

	missing, err := repo.GetProfile(ctx, "missing")
	require.NoError(t, err)
	assert.Nil(t, missing)

	// username is unique
	err = repo.CreateProfile(ctx, newProfile("joaosilva"))
	assert.ErrorIs(t, err, domain.ErrUsernameTaken)

	// and so is the id
	dup := newProfile("other")
	dup.ID = p.ID
	err = repo.CreateProfile(ctx, dup)
	assert.ErrorIs(t, err, domain.ErrConflict)
	assert.NotErrorIs(t, err, domain.ErrUsernameTaken)

	matches, err := repo.FindProfilesByUsername(ctx, "joaosilva", 2)
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, p.ID, matches[0].ID)

	got.Bio = "Photographer"
	got.Username = "joao"
	require.NoError(t, repo.UpdateProfile(ctx, got))
	matches, err = repo.FindProfilesByUsername(ctx, "joaosilva", 2)
	require.NoError(t, err)
	assert.Empty(t, matches)

	ghost := newProfile("ghost")
	assert.ErrorIs(t, repo.UpdateProfile(ctx, ghost), domain.ErrProfileNotFound)

	all, err := repo.DumpProfiles(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestLinks(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()

	owner := newProfile("joaosilva")
	other := newProfile("other")
	require.NoError(t, repo.CreateProfile(ctx, owner))
	require.NoError(t, repo.CreateProfile(ctx, other))

	b := newLink(owner.ID, "b", 1)
	a := newLink(owner.ID, "a", 0)
	theirs := newLink(other.ID, "theirs", 0)
	for _, l := range []*domain.Link{b, a, theirs} {
		require.NoError(t, repo.CreateLink(ctx, l))
	}

	links, err := repo.ListLinks(ctx, owner.ID, false)
	require.NoError(t, err)
	require.Len(t, links, 2)
	assert.Equal(t, a.ID, links[0].ID)
	assert.Equal(t, b.ID, links[1].ID)

	count, err := repo.CountLinks(ctx, owner.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	found, err := repo.ToggleLinkActive(ctx, owner.ID, a.ID)
	require.NoError(t, err)
	assert.True(t, found)

	active, err := repo.ListLinks(ctx, owner.ID, true)
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, b.ID, active[0].ID)

	found, err = repo.ToggleLinkActive(ctx, other.ID, a.ID)
	require.NoError(t, err)
	assert.False(t, found)

	owned, err := repo.GetOwnedLink(ctx, other.ID, a.ID)
	require.NoError(t, err)
	assert.Nil(t, owned)

	a.Title = "renamed"
	a.Icon = "camera"
	require.NoError(t, repo.UpdateLink(ctx, a))
	got, err := repo.GetLink(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, "renamed", got.Title)
	assert.Equal(t, "camera", got.Icon)
	assert.False(t, got.IsActive)

	require.NoError(t, repo.UpdateLinkPositions(ctx, owner.ID, []string{b.ID, a.ID}))
	links, err = repo.ListLinks(ctx, owner.ID, false)
	require.NoError(t, err)
	assert.Equal(t, b.ID, links[0].ID)

	err = repo.UpdateLinkPositions(ctx, owner.ID, []string{a.ID, theirs.ID})
	assert.ErrorIs(t, err, domain.ErrLinkNotFound)
	// the failed reorder rolled back
	links, err = repo.ListLinks(ctx, owner.ID, false)
	require.NoError(t, err)
	assert.Equal(t, b.ID, links[0].ID)

	// deleting someone else's link does nothing
	require.NoError(t, repo.DeleteLink(ctx, other.ID, a.ID))
	require.NoError(t, repo.DeleteLink(ctx, owner.ID, a.ID))
	gone, err := repo.GetLink(ctx, a.ID)
	require.NoError(t, err)
	assert.Nil(t, gone)

	all, err := repo.DumpLinks(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	empty, err := repo.ListLinks(ctx, "nobody", false)
	require.NoError(t, err)
	assert.NotNil(t, empty)
	assert.Empty(t, empty)
}

func TestRecordClick(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()

	owner := newProfile("joaosilva")
	require.NoError(t, repo.CreateProfile(ctx, owner))
	link := newLink(owner.ID, "site", 0)
	link.Clicks = 5
	require.NoError(t, repo.CreateLink(ctx, link))

	click := &domain.ClickEvent{LinkID: link.ID, Referrer: "https://instagram.com", UserAgent: "test"}
	clicks, err := repo.RecordClick(ctx, click)
	require.NoError(t, err)
	assert.EqualValues(t, 6, clicks)
	assert.Equal(t, owner.ID, click.ProfileID)
	assert.NotEmpty(t, click.ID)

	_, err = repo.RecordClick(ctx, &domain.ClickEvent{LinkID: link.ID})
	require.NoError(t, err)

	stats, err := repo.GetLinkStats(ctx, link.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 2, stats.TotalClicks)
	assert.EqualValues(t, 1, stats.Referrers["https://instagram.com"])
	assert.EqualValues(t, 1, stats.Referrers["Direct"])
	require.Len(t, stats.DailyClicks, 1)
	assert.EqualValues(t, 2, stats.DailyClicks[0].Count)

	_, err = repo.RecordClick(ctx, &domain.ClickEvent{LinkID: "missing"})
	assert.ErrorIs(t, err, domain.ErrLinkNotFound)

	_, err = repo.ToggleLinkActive(ctx, owner.ID, link.ID)
	require.NoError(t, err)
	_, err = repo.RecordClick(ctx, &domain.ClickEvent{LinkID: link.ID})
	assert.ErrorIs(t, err, domain.ErrLinkNotFound)

	got, err := repo.GetLink(ctx, link.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 7, got.Clicks)
}
