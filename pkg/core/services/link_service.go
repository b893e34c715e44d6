package services

import (
	"context"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/wadjakorntonsri/linkbio/pkg/core/domain"
	"github.com/wadjakorntonsri/linkbio/pkg/ports"
)

type LinkService struct {
	repo     ports.LinkRepository
	validate *validator.Validate
}

func NewLinkService(repo ports.LinkRepository) *LinkService {
	return &LinkService{repo: repo, validate: newValidator()}
}

func (s *LinkService) List(ctx context.Context, ownerID string) ([]domain.Link, error) {
	if ownerID == "" {
		return nil, domain.ErrNoIdentity
	}

	links, err := s.repo.ListLinks(ctx, ownerID, false)
	if err != nil {
		return nil, storeError("list links", err)
	}
	return links, nil
}

// Add appends a link at the end of the owner's list. Nothing is written when
// validation fails.
func (s *LinkService) Add(ctx context.Context, ownerID string, input domain.NewLink) (*domain.Link, error) {
	if ownerID == "" {
		return nil, domain.ErrNoIdentity
	}

	input.Title = strings.TrimSpace(input.Title)
	input.URL = strings.TrimSpace(input.URL)
	input.Description = strings.TrimSpace(input.Description)
	input.Icon = strings.TrimSpace(input.Icon)
	if err := s.validate.Struct(input); err != nil {
		return nil, validationError(err)
	}

	count, err := s.repo.CountLinks(ctx, ownerID)
	if err != nil {
		return nil, storeError("count links", err)
	}

	now := time.Now().UTC()
	link := &domain.Link{
		ID:          uuid.NewString(),
		ProfileID:   ownerID,
		Title:       input.Title,
		URL:         input.URL,
		Description: input.Description,
		Icon:        input.Icon,
		Clicks:      0,
		IsActive:    true,
		Position:    count,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.repo.CreateLink(ctx, link); err != nil {
		return nil, storeError("add link", err)
	}
	return link, nil
}

func (s *LinkService) Update(ctx context.Context, ownerID, id string, update domain.LinkUpdate) (*domain.Link, error) {
	link, err := s.owned(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}

	// Update fields if provided (partial update)
	if update.Title != nil {
		link.Title = strings.TrimSpace(*update.Title)
	}
	if update.URL != nil {
		link.URL = strings.TrimSpace(*update.URL)
	}
	if update.Description != nil {
		link.Description = strings.TrimSpace(*update.Description)
	}
	if update.Icon != nil {
		link.Icon = strings.TrimSpace(*update.Icon)
	}

	fields := domain.NewLink{Title: link.Title, URL: link.URL, Description: link.Description, Icon: link.Icon}
	if err := s.validate.Struct(fields); err != nil {
		return nil, validationError(err)
	}

	link.UpdatedAt = time.Now().UTC()
	if err := s.repo.UpdateLink(ctx, link); err != nil {
		return nil, storeError("update link", err)
	}
	return link, nil
}

// ToggleActive flips the active flag in one store statement, so two toggles
// always restore the original value.
func (s *LinkService) ToggleActive(ctx context.Context, ownerID, id string) (*domain.Link, error) {
	if ownerID == "" {
		return nil, domain.ErrNoIdentity
	}

	found, err := s.repo.ToggleLinkActive(ctx, ownerID, id)
	if err != nil {
		return nil, storeError("toggle link", err)
	}
	if !found {
		return nil, domain.ErrLinkNotFound
	}
	return s.owned(ctx, ownerID, id)
}

// Delete removes the link permanently. Unknown ids are not an error.
func (s *LinkService) Delete(ctx context.Context, ownerID, id string) error {
	if ownerID == "" {
		return domain.ErrNoIdentity
	}

	if err := s.repo.DeleteLink(ctx, ownerID, id); err != nil {
		return storeError("delete link", err)
	}
	return nil
}

// Reorder sets each link's position to its index in ids.
func (s *LinkService) Reorder(ctx context.Context, ownerID string, ids []string) ([]domain.Link, error) {
	if ownerID == "" {
		return nil, domain.ErrNoIdentity
	}

	seen := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		if _, dup := seen[id]; dup {
			return nil, domain.NewValidationError("ids", "must not contain duplicates")
		}
		seen[id] = struct{}{}
	}

	if err := s.repo.UpdateLinkPositions(ctx, ownerID, ids); err != nil {
		return nil, storeError("reorder links", err)
	}
	return s.List(ctx, ownerID)
}

func (s *LinkService) Stats(ctx context.Context, ownerID, id string) (*domain.LinkStats, error) {
	if _, err := s.owned(ctx, ownerID, id); err != nil {
		return nil, err
	}

	stats, err := s.repo.GetLinkStats(ctx, id)
	if err != nil {
		return nil, storeError("link stats", err)
	}
	return stats, nil
}

func (s *LinkService) owned(ctx context.Context, ownerID, id string) (*domain.Link, error) {
	if ownerID == "" {
		return nil, domain.ErrNoIdentity
	}

	link, err := s.repo.GetOwnedLink(ctx, ownerID, id)
	if err != nil {
		return nil, storeError("get link", err)
	}
	if link == nil {
		return nil, domain.ErrLinkNotFound
	}
	return link, nil
}
