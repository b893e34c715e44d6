package dashboard

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wadjakorntonsri/linkbio/pkg/core/domain"
)

// fakeLinks is an in-memory LinkService. fail makes every call return it.
type fakeLinks struct {
	links []domain.Link
	next  int
	fail  error
}

func (f *fakeLinks) List(ctx context.Context, ownerID string) ([]domain.Link, error) {
	if f.fail != nil {
		return nil, f.fail
	}
	return append([]domain.Link(nil), f.links...), nil
}

func (f *fakeLinks) Add(ctx context.Context, ownerID string, input domain.NewLink) (*domain.Link, error) {
	if f.fail != nil {
		return nil, f.fail
	}
	if input.Title == "" {
		return nil, domain.NewValidationError("title", "is required")
	}
	f.next++
	l := domain.Link{
		ID:        fmt.Sprintf("link-%d", f.next),
		ProfileID: ownerID,
		Title:     input.Title,
		URL:       input.URL,
		IsActive:  true,
		Position:  len(f.links),
	}
	f.links = append(f.links, l)
	return &l, nil
}

func (f *fakeLinks) Update(ctx context.Context, ownerID, id string, update domain.LinkUpdate) (*domain.Link, error) {
	return nil, errors.New("not used")
}

func (f *fakeLinks) ToggleActive(ctx context.Context, ownerID, id string) (*domain.Link, error) {
	if f.fail != nil {
		return nil, f.fail
	}
	for i := range f.links {
		if f.links[i].ID == id {
			f.links[i].IsActive = !f.links[i].IsActive
			l := f.links[i]
			return &l, nil
		}
	}
	return nil, domain.ErrLinkNotFound
}

func (f *fakeLinks) Delete(ctx context.Context, ownerID, id string) error {
	if f.fail != nil {
		return f.fail
	}
	kept := f.links[:0]
	for _, l := range f.links {
		if l.ID != id {
			kept = append(kept, l)
		}
	}
	f.links = kept
	return nil
}

func (f *fakeLinks) Reorder(ctx context.Context, ownerID string, ids []string) ([]domain.Link, error) {
	return nil, errors.New("not used")
}

func (f *fakeLinks) Stats(ctx context.Context, ownerID, id string) (*domain.LinkStats, error) {
	return nil, errors.New("not used")
}

func seeded() *fakeLinks {
	return &fakeLinks{links: []domain.Link{
		{ID: "a", Title: "A", Clicks: 3, IsActive: true, Position: 0},
		{ID: "b", Title: "B", Clicks: 4, IsActive: false, Position: 1},
	}}
}

func TestSession_LoadAndSummary(t *testing.T) {
	s := NewSession(seeded(), "owner-1")
	res := s.Load(context.Background())
	require.True(t, res.OK)

	assert.Len(t, s.Links(), 2)
	assert.Equal(t, Summary{TotalClicks: 7, ActiveLinks: 1, TotalLinks: 2}, s.Summary())
}

func TestSession_AddPrepends(t *testing.T) {
	s := NewSession(seeded(), "owner-1")
	require.True(t, s.Load(context.Background()).OK)

	res := s.Add(context.Background(), domain.NewLink{Title: "New", URL: "https://example.com"})
	require.True(t, res.OK)
	require.NotNil(t, res.Link)

	links := s.Links()
	require.Len(t, links, 3)
	assert.Equal(t, res.Link.ID, links[0].ID)
	assert.Equal(t, "a", links[1].ID)
}

func TestSession_ToggleFlipsOnlyThatLink(t *testing.T) {
	s := NewSession(seeded(), "owner-1")
	require.True(t, s.Load(context.Background()).OK)

	res := s.Toggle(context.Background(), "b")
	require.True(t, res.OK)

	links := s.Links()
	assert.True(t, links[0].IsActive)
	assert.True(t, links[1].IsActive)
}

func TestSession_DeleteFilters(t *testing.T) {
	s := NewSession(seeded(), "owner-1")
	require.True(t, s.Load(context.Background()).OK)

	res := s.Delete(context.Background(), "a")
	require.True(t, res.OK)
	assert.Equal(t, "Link deleted permanently", res.Message)

	links := s.Links()
	require.Len(t, links, 1)
	assert.Equal(t, "b", links[0].ID)
}

func TestSession_FailureKeepsState(t *testing.T) {
	fake := seeded()
	s := NewSession(fake, "owner-1")
	require.True(t, s.Load(context.Background()).OK)

	fake.fail = fmt.Errorf("delete link: %w", domain.ErrStore)

	for _, res := range []Result{
		s.Add(context.Background(), domain.NewLink{Title: "New", URL: "https://example.com"}),
		s.Toggle(context.Background(), "a"),
		s.Delete(context.Background(), "a"),
	} {
		assert.False(t, res.OK)
		assert.ErrorIs(t, res.Err, domain.ErrStore)
		assert.NotEmpty(t, res.Message)
	}

	links := s.Links()
	require.Len(t, links, 2)
	assert.True(t, links[0].IsActive)

	res := s.Load(context.Background())
	assert.False(t, res.OK)
	assert.Len(t, s.Links(), 2)
}

func TestSession_ValidationMessage(t *testing.T) {
	s := NewSession(seeded(), "owner-1")

	res := s.Add(context.Background(), domain.NewLink{URL: "https://example.com"})
	assert.False(t, res.OK)
	assert.Equal(t, "validation failed: title: is required", res.Message)
	assert.ErrorIs(t, res.Err, domain.ErrValidation)
}

func TestSession_ToggleUnknown(t *testing.T) {
	s := NewSession(seeded(), "owner-1")
	require.True(t, s.Load(context.Background()).OK)

	res := s.Toggle(context.Background(), "missing")
	assert.False(t, res.OK)
	assert.ErrorIs(t, res.Err, domain.ErrLinkNotFound)
}

func TestSession_LinksIsACopy(t *testing.T) {
	s := NewSession(seeded(), "owner-1")
	require.True(t, s.Load(context.Background()).OK)

	links := s.Links()
	links[0].Title = "mutated"
	assert.Equal(t, "A", s.Links()[0].Title)
}
