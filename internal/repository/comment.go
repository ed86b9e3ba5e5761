package repository

import (
	"context"

	"blogapi/internal/models"
	"blogapi/internal/observability"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const commentsTable = "comments"

// CommentRepository defines interface for comment operations
type CommentRepository interface {
	Create(ctx context.Context, comment *models.Comment) error
	ListByPost(ctx context.Context, postID uuid.UUID) ([]models.Comment, error)
}

type commentRepository struct {
	db *gorm.DB
}

// NewCommentRepository creates a new CommentRepository
func NewCommentRepository(db *gorm.DB) CommentRepository {
	return &commentRepository{db: db}
}

// Create inserts the comment. A post_id with no matching post is ErrIntegrity.
func (r *commentRepository) Create(ctx context.Context, comment *models.Comment) (err error) {
	ctx, span := observability.StartRepositorySpan(ctx, "Create", commentsTable)
	defer func() { observability.EndSpan(span, err) }()
	defer observability.TrackQuery("create", commentsTable)()

	err = r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Create(comment).Error
	})
	return classify("comment_create", err)
}

func (r *commentRepository) ListByPost(ctx context.Context, postID uuid.UUID) (_ []models.Comment, err error) {
	ctx, span := observability.StartRepositorySpan(ctx, "ListByPost", commentsTable)
	defer func() { observability.EndSpan(span, err) }()

	return listCommentsByPost(ctx, r.db, postID)
}

func listCommentsByPost(ctx context.Context, db *gorm.DB, postID uuid.UUID) ([]models.Comment, error) {
	defer observability.TrackQuery("list_by_post", commentsTable)()

	comments := []models.Comment{}
	if err := db.WithContext(ctx).Where("post_id = ?", postID).Order("id").Find(&comments).Error; err != nil {
		return nil, classify("comment_list", err)
	}
	return comments, nil
}
