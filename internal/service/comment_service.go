package service

import (
	"context"
	"log/slog"
	"strings"

	"blogapi/internal/cache"
	"blogapi/internal/middleware"
	"blogapi/internal/models"
	"blogapi/internal/observability"
	"blogapi/internal/repository"

	"github.com/google/uuid"
)

type CommentService struct {
	commentRepo repository.CommentRepository
	postRepo    repository.PostRepository
	cache       *ListingCache
}

type AddCommentInput struct {
	PostID  uuid.UUID
	Content string
}

func NewCommentService(
	commentRepo repository.CommentRepository,
	postRepo repository.PostRepository,
	listing *ListingCache,
) *CommentService {
	return &CommentService{
		commentRepo: commentRepo,
		postRepo:    postRepo,
		cache:       listing,
	}
}

// AddComment attaches a comment to an existing post. A missing post returns
// NotFound before any write is attempted.
func (s *CommentService) AddComment(ctx context.Context, in AddCommentInput) (_ *models.Comment, err error) {
	ctx, span := observability.StartServiceSpan(ctx, "CommentService", "AddComment")
	defer func() { observability.EndSpan(span, err) }()

	if strings.TrimSpace(in.Content) == "" {
		return nil, models.NewValidationError("Content is required")
	}

	if _, err := s.postRepo.GetByID(ctx, in.PostID); err != nil {
		return nil, lookupError(err, "Post", in.PostID)
	}

	comment := &models.Comment{
		Content: in.Content,
		PostID:  in.PostID,
	}
	if err := s.commentRepo.Create(ctx, comment); err != nil {
		middleware.Logger.ErrorContext(ctx, "failed to create comment",
			slog.String("post_id", in.PostID.String()),
			slog.String("error", err.Error()),
		)
		return nil, mutationError(err)
	}

	s.cache.Invalidate(cache.PostsListKey)
	middleware.Logger.InfoContext(ctx, "comment created",
		slog.String("post_id", in.PostID.String()),
		slog.String("comment_id", comment.ID.String()),
	)
	return comment, nil
}
