package services

import (
	"context"
	"strings"

	"github.com/dmorris/notedly/internal/common"
	"github.com/dmorris/notedly/internal/server/auth"
	"github.com/dmorris/notedly/internal/server/cache"
	"github.com/dmorris/notedly/internal/server/models"
	"github.com/dmorris/notedly/internal/server/repositories/notes"
)

// NoteService orchestrates the note lifecycle. The cache is optional; a nil
// cache means every read goes to the store.
type NoteService struct {
	repo  notes.Repository
	cache *cache.NoteCache
}

func NewNoteService(repo notes.Repository, cache *cache.NoteCache) *NoteService {
	return &NoteService{repo: repo, cache: cache}
}

// Create makes a new note owned by identity.
func (s *NoteService) Create(ctx context.Context, identity, content string) (*models.Note, error) {
	if identity == "" {
		return nil, common.ErrorUnauthenticated
	}
	if strings.TrimSpace(content) == "" {
		return nil, common.ErrorValidation
	}

	note, err := s.repo.Create(ctx, &models.Note{
		Content:  content,
		AuthorID: identity,
	})
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		_ = s.cache.InvalidateList(ctx)
	}

	return note, nil
}

// Get returns a single note; no identity required.
func (s *NoteService) Get(ctx context.Context, id string) (*models.Note, error) {
	if s.cache != nil {
		if note, err := s.cache.Get(ctx, id); err == nil && note != nil {
			return note, nil
		}
	}

	note, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		_ = s.cache.Set(ctx, note)
	}

	return note, nil
}

// List returns all notes, newest first; no identity required.
func (s *NoteService) List(ctx context.Context) ([]*models.Note, error) {
	if s.cache != nil {
		if list, err := s.cache.GetList(ctx); err == nil && list != nil {
			return list, nil
		}
	}

	list, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}

	if s.cache != nil && list != nil {
		_ = s.cache.SetList(ctx, list)
	}

	return list, nil
}

// Update replaces a note's content. Only the owner may update; content
// edits are last-writer-wins.
func (s *NoteService) Update(ctx context.Context, identity, id, content string) (*models.Note, error) {
	if identity == "" {
		return nil, common.ErrorUnauthenticated
	}
	if strings.TrimSpace(content) == "" {
		return nil, common.ErrorValidation
	}

	note, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if auth.CanMutate(identity, note, auth.ActionUpdate) != auth.Allow {
		return nil, common.ErrorForbidden
	}

	updated, err := s.repo.UpdateContent(ctx, id, content)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		_ = s.cache.Invalidate(ctx, id)
	}

	return updated, nil
}

// Delete removes a note. Authentication and ownership failures are errors;
// a store-level removal failure is reported as false, never as an error.
// Callers rely on that soft-failure contract.
func (s *NoteService) Delete(ctx context.Context, identity, id string) (bool, error) {
	if identity == "" {
		return false, common.ErrorUnauthenticated
	}

	note, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return false, err
	}

	if auth.CanMutate(identity, note, auth.ActionDelete) != auth.Allow {
		return false, common.ErrorForbidden
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return false, nil
	}

	if s.cache != nil {
		_ = s.cache.Invalidate(ctx, id)
	}

	return true, nil
}

// ToggleFavorite flips identity's membership in the note's favorited set
// and adjusts the counter by one. The whole flip is a single atomic store
// operation; the service never reads the set first.
func (s *NoteService) ToggleFavorite(ctx context.Context, identity, id string) (*models.Note, error) {
	if identity == "" {
		return nil, common.ErrorUnauthenticated
	}

	note, err := s.repo.ToggleMembership(ctx, id, identity)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		_ = s.cache.Invalidate(ctx, id)
	}

	return note, nil
}
