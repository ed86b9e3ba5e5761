// Package service implements the post and comment use cases on top of the
// repositories and the listing cache.
package service

import (
	"context"
	"log/slog"
	"slices"
	"strings"

	"blogapi/internal/cache"
	"blogapi/internal/middleware"
	"blogapi/internal/models"
	"blogapi/internal/observability"
	"blogapi/internal/repository"

	"github.com/google/uuid"
)

// ListingCache holds the post listing under cache.PostsListKey.
type ListingCache = cache.Memory[[]models.PostSummary]

// NewListingCache creates the process-wide listing cache.
func NewListingCache() *ListingCache {
	return cache.NewMemory[[]models.PostSummary]()
}

type PostService struct {
	postRepo repository.PostRepository
	cache    *ListingCache
}

type CreatePostInput struct {
	Title   string
	Content string
}

func NewPostService(postRepo repository.PostRepository, listing *ListingCache) *PostService {
	return &PostService{
		postRepo: postRepo,
		cache:    listing,
	}
}

// ListPosts serves the listing from cache when present, otherwise from the store.
// An empty listing is cached like any other.
func (s *PostService) ListPosts(ctx context.Context) (_ []models.PostSummary, err error) {
	ctx, span := observability.StartServiceSpan(ctx, "PostService", "ListPosts")
	defer func() { observability.EndSpan(span, err) }()

	rows, err := cache.Aside(ctx, s.cache, cache.PostsListKey, s.postRepo.ListWithCommentCounts)
	if err != nil {
		return nil, models.NewStorageError(err)
	}
	// Callers must not be able to mutate the cached slice.
	return slices.Clone(rows), nil
}

// CreatePost stores a new post and invalidates the listing after commit.
func (s *PostService) CreatePost(ctx context.Context, in CreatePostInput) (_ *models.Post, err error) {
	ctx, span := observability.StartServiceSpan(ctx, "PostService", "CreatePost")
	defer func() { observability.EndSpan(span, err) }()

	if strings.TrimSpace(in.Title) == "" {
		return nil, models.NewValidationError("Title is required")
	}
	if strings.TrimSpace(in.Content) == "" {
		return nil, models.NewValidationError("Content is required")
	}

	post := &models.Post{
		Title:   in.Title,
		Content: in.Content,
	}
	if err := s.postRepo.Create(ctx, post); err != nil {
		middleware.Logger.ErrorContext(ctx, "failed to create post", slog.String("error", err.Error()))
		return nil, mutationError(err)
	}

	s.cache.Invalidate(cache.PostsListKey)
	middleware.Logger.InfoContext(ctx, "post created", slog.String("post_id", post.ID.String()))
	return post, nil
}

// GetPost always reads through to the store.
func (s *PostService) GetPost(ctx context.Context, id uuid.UUID) (_ *models.PostWithComments, err error) {
	ctx, span := observability.StartServiceSpan(ctx, "PostService", "GetPost")
	defer func() { observability.EndSpan(span, err) }()

	post, err := s.postRepo.GetWithComments(ctx, id)
	if err != nil {
		return nil, lookupError(err, "Post", id)
	}
	return post, nil
}
