// Package repository provides data access layer implementations for the application.
package repository

import (
	"context"

	"blogapi/internal/models"
	"blogapi/internal/observability"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const postsTable = "blog_posts"

// PostRepository defines the interface for post data operations
type PostRepository interface {
	Create(ctx context.Context, post *models.Post) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Post, error)
	GetWithComments(ctx context.Context, id uuid.UUID) (*models.PostWithComments, error)
	ListWithCommentCounts(ctx context.Context) ([]models.PostSummary, error)
}

// postRepository implements PostRepository
type postRepository struct {
	db *gorm.DB
}

// NewPostRepository creates a new post repository
func NewPostRepository(db *gorm.DB) PostRepository {
	return &postRepository{db: db}
}

func (r *postRepository) Create(ctx context.Context, post *models.Post) (err error) {
	ctx, span := observability.StartRepositorySpan(ctx, "Create", postsTable)
	defer func() { observability.EndSpan(span, err) }()
	defer observability.TrackQuery("create", postsTable)()

	err = r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Create(post).Error
	})
	return classify("post_create", err)
}

func (r *postRepository) GetByID(ctx context.Context, id uuid.UUID) (_ *models.Post, err error) {
	ctx, span := observability.StartRepositorySpan(ctx, "GetByID", postsTable)
	defer func() { observability.EndSpan(span, err) }()
	defer observability.TrackQuery("get", postsTable)()

	var post models.Post
	if err = r.db.WithContext(ctx).Where("id = ?", id).First(&post).Error; err != nil {
		return nil, classify("post_get", err)
	}
	return &post, nil
}

// GetWithComments reads the post row and then its comments.
func (r *postRepository) GetWithComments(ctx context.Context, id uuid.UUID) (_ *models.PostWithComments, err error) {
	ctx, span := observability.StartRepositorySpan(ctx, "GetWithComments", postsTable)
	defer func() { observability.EndSpan(span, err) }()

	post, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	comments, err := listCommentsByPost(ctx, r.db, id)
	if err != nil {
		return nil, err
	}

	return &models.PostWithComments{Post: *post, Comments: comments}, nil
}

// ListWithCommentCounts returns one row per post, zero-comment posts included,
// ordered by title then id.
func (r *postRepository) ListWithCommentCounts(ctx context.Context) (_ []models.PostSummary, err error) {
	ctx, span := observability.StartRepositorySpan(ctx, "ListWithCommentCounts", postsTable)
	defer func() { observability.EndSpan(span, err) }()
	defer observability.TrackQuery("list_with_counts", postsTable)()

	var rows []models.PostSummary
	err = r.db.WithContext(ctx).
		Table(postsTable).
		Select("blog_posts.id AS id, blog_posts.title AS title, COUNT(comments.id) AS num_comments").
		Joins("LEFT JOIN comments ON comments.post_id = blog_posts.id").
		Group("blog_posts.id, blog_posts.title").
		Order("blog_posts.title, blog_posts.id").
		Scan(&rows).Error
	if err != nil {
		return nil, classify("post_list", err)
	}
	if rows == nil {
		rows = []models.PostSummary{}
	}
	return rows, nil
}
