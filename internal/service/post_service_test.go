package service

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"testing"

	"blogapi/internal/cache"
	"blogapi/internal/models"
	"blogapi/internal/repository"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// postRepoStub is a stub for repository.PostRepository.
type postRepoStub struct {
	createFn          func(context.Context, *models.Post) error
	getByIDFn         func(context.Context, uuid.UUID) (*models.Post, error)
	getWithCommentsFn func(context.Context, uuid.UUID) (*models.PostWithComments, error)
	listFn            func(context.Context) ([]models.PostSummary, error)

	createCalls atomic.Int32
	listCalls   atomic.Int32
}

func (s *postRepoStub) Create(ctx context.Context, post *models.Post) error {
	s.createCalls.Add(1)
	return s.createFn(ctx, post)
}
func (s *postRepoStub) GetByID(ctx context.Context, id uuid.UUID) (*models.Post, error) {
	return s.getByIDFn(ctx, id)
}
func (s *postRepoStub) GetWithComments(ctx context.Context, id uuid.UUID) (*models.PostWithComments, error) {
	return s.getWithCommentsFn(ctx, id)
}
func (s *postRepoStub) ListWithCommentCounts(ctx context.Context) ([]models.PostSummary, error) {
	s.listCalls.Add(1)
	return s.listFn(ctx)
}

func noopPostRepo() *postRepoStub {
	return &postRepoStub{
		createFn: func(_ context.Context, p *models.Post) error {
			p.ID = uuid.New()
			return nil
		},
		getByIDFn: func(_ context.Context, id uuid.UUID) (*models.Post, error) {
			return &models.Post{ID: id, Title: "t", Content: "c"}, nil
		},
		getWithCommentsFn: func(_ context.Context, id uuid.UUID) (*models.PostWithComments, error) {
			return &models.PostWithComments{Post: models.Post{ID: id}, Comments: []models.Comment{}}, nil
		},
		listFn: func(_ context.Context) ([]models.PostSummary, error) {
			return []models.PostSummary{}, nil
		},
	}
}

func integrityErr() error {
	return fmt.Errorf("%w: %w", repository.ErrIntegrity, errors.New("violates foreign key constraint"))
}

func storageErr() error {
	return fmt.Errorf("%w: %w", repository.ErrStorage, errors.New("connection refused"))
}

func notFoundErr() error {
	return fmt.Errorf("%w: %w", repository.ErrNotFound, errors.New("record not found"))
}

// assertAppErrorCode asserts that err is an AppError with the given code.
func assertAppErrorCode(t *testing.T, err error, code string) {
	t.Helper()
	require.Error(t, err)
	var appErr *models.AppError
	require.True(t, errors.As(err, &appErr), "expected AppError, got %T: %v", err, err)
	assert.Equal(t, code, appErr.Code)
}

func assertValidationError(t *testing.T, err error) {
	t.Helper()
	assertAppErrorCode(t, err, models.CodeValidation)
}

func primeListing(t *testing.T, c *ListingCache) {
	t.Helper()
	c.Set(cache.PostsListKey, []models.PostSummary{{ID: uuid.New(), Title: "cached"}})
}

func TestPostService_ListPosts_CacheHitAvoidsStore(t *testing.T) {
	t.Parallel()

	repo := noopPostRepo()
	row := models.PostSummary{ID: uuid.New(), Title: "A", NumComments: 3}
	repo.listFn = func(_ context.Context) ([]models.PostSummary, error) {
		return []models.PostSummary{row}, nil
	}
	svc := NewPostService(repo, NewListingCache())
	ctx := context.Background()

	first, err := svc.ListPosts(ctx)
	require.NoError(t, err)
	second, err := svc.ListPosts(ctx)
	require.NoError(t, err)

	assert.Equal(t, []models.PostSummary{row}, first)
	assert.Equal(t, first, second)
	assert.Equal(t, int32(1), repo.listCalls.Load())
}

func TestPostService_ListPosts_EmptyListingIsCached(t *testing.T) {
	t.Parallel()

	repo := noopPostRepo()
	listing := NewListingCache()
	svc := NewPostService(repo, listing)
	ctx := context.Background()

	first, err := svc.ListPosts(ctx)
	require.NoError(t, err)
	assert.NotNil(t, first)
	assert.Empty(t, first)

	cached, ok := listing.Get(cache.PostsListKey)
	assert.True(t, ok)
	assert.Empty(t, cached)

	second, err := svc.ListPosts(ctx)
	require.NoError(t, err)
	assert.NotNil(t, second)
	assert.Equal(t, int32(1), repo.listCalls.Load(), "empty cached listing must be a hit")
}

func TestPostService_ListPosts_StoreError(t *testing.T) {
	t.Parallel()

	repo := noopPostRepo()
	repo.listFn = func(_ context.Context) ([]models.PostSummary, error) { return nil, storageErr() }
	listing := NewListingCache()
	svc := NewPostService(repo, listing)

	rows, err := svc.ListPosts(context.Background())
	assert.Nil(t, rows)
	assertAppErrorCode(t, err, models.CodeStorage)
	assert.Zero(t, listing.Len())

	_, _ = svc.ListPosts(context.Background())
	assert.Equal(t, int32(2), repo.listCalls.Load())
}

func TestPostService_ListPosts_ReturnsCopy(t *testing.T) {
	t.Parallel()

	repo := noopPostRepo()
	repo.listFn = func(_ context.Context) ([]models.PostSummary, error) {
		return []models.PostSummary{{Title: "original"}}, nil
	}
	svc := NewPostService(repo, NewListingCache())
	ctx := context.Background()

	rows, err := svc.ListPosts(ctx)
	require.NoError(t, err)
	rows[0].Title = "mutated"

	again, err := svc.ListPosts(ctx)
	require.NoError(t, err)
	assert.Equal(t, "original", again[0].Title)
}

func TestPostService_ListPosts_FillRacingInvalidationIsDropped(t *testing.T) {
	t.Parallel()

	repo := noopPostRepo()
	listing := NewListingCache()
	svc := NewPostService(repo, listing)
	ctx := context.Background()

	// The listing query observes the store before a post is created and
	// finishes after that post's invalidation.
	repo.listFn = func(ctx context.Context) ([]models.PostSummary, error) {
		stale := []models.PostSummary{}
		_, err := svc.CreatePost(ctx, CreatePostInput{Title: "late", Content: "body"})
		require.NoError(t, err)
		return stale, nil
	}

	rows, err := svc.ListPosts(ctx)
	require.NoError(t, err)
	assert.Empty(t, rows)

	_, ok := listing.Get(cache.PostsListKey)
	assert.False(t, ok, "stale fill must not be cached")
}

func TestPostService_CreatePost_Validation(t *testing.T) {
	t.Parallel()

	repo := noopPostRepo()
	listing := NewListingCache()
	primeListing(t, listing)
	svc := NewPostService(repo, listing)
	ctx := context.Background()

	t.Run("empty title", func(t *testing.T) {
		_, err := svc.CreatePost(ctx, CreatePostInput{Content: "body"})
		assertValidationError(t, err)
	})

	t.Run("blank content", func(t *testing.T) {
		_, err := svc.CreatePost(ctx, CreatePostInput{Title: "A", Content: "   "})
		assertValidationError(t, err)
	})

	assert.Zero(t, repo.createCalls.Load())
	_, ok := listing.Get(cache.PostsListKey)
	assert.True(t, ok)
}

func TestPostService_CreatePost_InvalidatesListing(t *testing.T) {
	t.Parallel()

	repo := noopPostRepo()
	listing := NewListingCache()
	primeListing(t, listing)
	svc := NewPostService(repo, listing)

	post, err := svc.CreatePost(context.Background(), CreatePostInput{Title: "A", Content: "body"})
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, post.ID)
	assert.Equal(t, "A", post.Title)

	_, ok := listing.Get(cache.PostsListKey)
	assert.False(t, ok)
}

func TestPostService_CreatePost_StoreFailure(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		repoErr  error
		wantCode string
	}{
		{"integrity is a client fault", integrityErr(), models.CodeIntegrity},
		{"storage is a server fault", storageErr(), models.CodeStorage},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			repo := noopPostRepo()
			repo.createFn = func(_ context.Context, _ *models.Post) error { return tt.repoErr }
			listing := NewListingCache()
			primeListing(t, listing)
			svc := NewPostService(repo, listing)

			post, err := svc.CreatePost(context.Background(), CreatePostInput{Title: "A", Content: "body"})
			assert.Nil(t, post)
			assertAppErrorCode(t, err, tt.wantCode)
			assert.ErrorIs(t, err, tt.repoErr)

			_, ok := listing.Get(cache.PostsListKey)
			assert.True(t, ok, "failed mutation must not invalidate")
		})
	}
}

func TestPostService_GetPost(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("found", func(t *testing.T) {
		t.Parallel()
		svc := NewPostService(noopPostRepo(), NewListingCache())
		id := uuid.New()
		got, err := svc.GetPost(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, id, got.ID)
	})

	t.Run("missing", func(t *testing.T) {
		t.Parallel()
		repo := noopPostRepo()
		repo.getWithCommentsFn = func(_ context.Context, _ uuid.UUID) (*models.PostWithComments, error) {
			return nil, notFoundErr()
		}
		svc := NewPostService(repo, NewListingCache())
		_, err := svc.GetPost(ctx, uuid.New())
		assertAppErrorCode(t, err, models.CodeNotFound)
	})

	t.Run("storage failure", func(t *testing.T) {
		t.Parallel()
		repo := noopPostRepo()
		repo.getWithCommentsFn = func(_ context.Context, _ uuid.UUID) (*models.PostWithComments, error) {
			return nil, storageErr()
		}
		svc := NewPostService(repo, NewListingCache())
		_, err := svc.GetPost(ctx, uuid.New())
		assertAppErrorCode(t, err, models.CodeStorage)
	})
}
