// Package seed creates demo posts and comments for development databases.
package seed

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"blogapi/internal/middleware"
	"blogapi/internal/models"
	"blogapi/internal/repository"

	"github.com/brianvoe/gofakeit/v6"
	"gorm.io/gorm"
)

// Options controls how much data Run creates.
type Options struct {
	Posts              int
	MaxCommentsPerPost int
}

// Result counts what Run created.
type Result struct {
	Posts    int
	Comments int
}

// Seeder writes fake data through the repositories.
type Seeder struct {
	db       *gorm.DB
	posts    repository.PostRepository
	comments repository.CommentRepository
	faker    *gofakeit.Faker
}

// NewSeeder returns a Seeder. A zero seed picks a time-based one.
func NewSeeder(db *gorm.DB, seed int64) *Seeder {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &Seeder{
		db:       db,
		posts:    repository.NewPostRepository(db),
		comments: repository.NewCommentRepository(db),
		faker:    gofakeit.New(seed),
	}
}

// ClearAll deletes every comment and post.
func (s *Seeder) ClearAll(ctx context.Context) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec("DELETE FROM comments").Error; err != nil {
			return fmt.Errorf("clear comments: %w", err)
		}
		if err := tx.Exec("DELETE FROM blog_posts").Error; err != nil {
			return fmt.Errorf("clear posts: %w", err)
		}
		return nil
	})
}

// BuildPost returns an unsaved post with fake content.
func (s *Seeder) BuildPost() *models.Post {
	return &models.Post{
		Title:   s.faker.Sentence(5),
		Content: s.faker.Paragraph(1, 3, 8, "\n"),
	}
}

// BuildComment returns an unsaved comment on postID with fake content.
func (s *Seeder) BuildComment(post *models.Post) *models.Comment {
	return &models.Comment{
		PostID:  post.ID,
		Content: s.faker.Sentence(s.faker.IntRange(3, 12)),
	}
}

// Run creates opts.Posts posts, each with between zero and
// opts.MaxCommentsPerPost comments.
func (s *Seeder) Run(ctx context.Context, opts Options) (Result, error) {
	var res Result
	for i := 0; i < opts.Posts; i++ {
		post := s.BuildPost()
		if err := s.posts.Create(ctx, post); err != nil {
			return res, fmt.Errorf("create post %d: %w", i, err)
		}
		res.Posts++

		n := 0
		if opts.MaxCommentsPerPost > 0 {
			n = s.faker.IntRange(0, opts.MaxCommentsPerPost)
		}
		for j := 0; j < n; j++ {
			if err := s.comments.Create(ctx, s.BuildComment(post)); err != nil {
				return res, fmt.Errorf("create comment on post %s: %w", post.ID, err)
			}
			res.Comments++
		}
	}

	middleware.Logger.InfoContext(ctx, "seed complete",
		slog.Int("posts", res.Posts),
		slog.Int("comments", res.Comments),
	)
	return res, nil
}
