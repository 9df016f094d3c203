package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/ahmetcoskunkizilkaya/buzzly-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/buzzly-backend/internal/identity"
	"github.com/ahmetcoskunkizilkaya/buzzly-backend/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// PostStore persists posts. Missing or deleted posts surface as an error
// wrapping gorm.ErrRecordNotFound.
type PostStore interface {
	Create(ctx context.Context, post *models.Post) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Post, error)
	Exists(ctx context.Context, id uuid.UUID) (bool, error)
	Update(ctx context.Context, id uuid.UUID, updates map[string]interface{}) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type PostService struct {
	store PostStore
	now   func() time.Time
}

func NewPostService(store PostStore) *PostService {
	return &PostService{
		store: store,
		now:   func() time.Time { return time.Now().UTC() },
	}
}

func (s *PostService) Create(ctx context.Context, authorID uuid.UUID, req *dto.CreatePostRequest) (*models.Post, error) {
	text := strings.TrimSpace(req.Text)
	if text == "" {
		return nil, fmt.Errorf("%w: text is required", ErrInvalidArgument)
	}

	now := s.now()
	post := &models.Post{
		ID:        uuid.New(),
		AuthorID:  authorID,
		Text:      text,
		ImageRef:  strings.TrimSpace(req.ImageRef),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.store.Create(ctx, post); err != nil {
		return nil, err
	}
	return post, nil
}

func (s *PostService) Get(ctx context.Context, id uuid.UUID) (*models.Post, error) {
	post, err := s.store.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: post %s", ErrNotFound, id)
		}
		return nil, err
	}
	return post, nil
}

// Update edits a post. Only its author may do so.
func (s *PostService) Update(ctx context.Context, actor identity.Actor, id uuid.UUID, req *dto.UpdatePostRequest) (*models.Post, error) {
	post, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if post.AuthorID != actor.ID {
		return nil, ErrForbidden
	}

	updates := map[string]interface{}{}
	if req.Text != nil {
		text := strings.TrimSpace(*req.Text)
		if text == "" {
			return nil, fmt.Errorf("%w: text must not be empty", ErrInvalidArgument)
		}
		updates["text"] = text
		post.Text = text
	}
	if req.ImageRef != nil {
		ref := strings.TrimSpace(*req.ImageRef)
		updates["image_ref"] = ref
		post.ImageRef = ref
	}
	if len(updates) == 0 {
		return post, nil
	}

	now := s.now()
	updates["updated_at"] = now
	if err := s.store.Update(ctx, id, updates); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: post %s", ErrNotFound, id)
		}
		return nil, err
	}
	post.UpdatedAt = now
	return post, nil
}

// Delete removes a post. Its author or any moderator may do so; reports
// against the post keep their snapshot.
func (s *PostService) Delete(ctx context.Context, actor identity.Actor, id uuid.UUID) error {
	post, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if post.AuthorID != actor.ID && !actor.IsModerator {
		return ErrForbidden
	}

	if err := s.store.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: post %s", ErrNotFound, id)
		}
		return err
	}

	slog.Info("post deleted",
		"action", "delete_post",
		"actor_id", actor.ID.String(),
		"post_id", id.String(),
	)
	return nil
}

// Snapshot captures the reportable fields of a live post.
func (s *PostService) Snapshot(ctx context.Context, id uuid.UUID) (models.ContentSnapshot, error) {
	post, err := s.Get(ctx, id)
	if err != nil {
		return models.ContentSnapshot{}, err
	}
	return post.Snapshot(), nil
}

func (s *PostService) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	return s.store.Exists(ctx, id)
}
