package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"devconnect/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPostService_InvalidIdentifierSkipsStore(t *testing.T) {
	t.Parallel()
	user := uuid.New()
	svc := NewPostService(failingPostRepo(t), nil, identityStub{"tok": user})
	ctx := context.Background()

	_, err := svc.GetPost(ctx, "tok", "not-an-id")
	assertCode(t, err, models.CodeInvalidIdentifier)

	_, err = svc.ToggleLike(ctx, "tok", "123")
	assertCode(t, err, models.CodeInvalidIdentifier)

	err = svc.DeletePost(ctx, "tok", "")
	assertCode(t, err, models.CodeInvalidIdentifier)

	_, err = svc.RemoveComment(ctx, "tok", uuid.NewString(), "nope")
	assertCode(t, err, models.CodeInvalidIdentifier)
}

func TestPostService_Unauthenticated(t *testing.T) {
	t.Parallel()
	svc := NewPostService(failingPostRepo(t), nil, identityStub{})
	ctx := context.Background()

	_, err := svc.ListPosts(ctx, "")
	assertCode(t, err, models.CodeUnauthenticated)

	_, err = svc.CreatePost(ctx, "bogus", "hello")
	assertCode(t, err, models.CodeUnauthenticated)
}

func TestPostService_StorageErrorSurfaced(t *testing.T) {
	t.Parallel()
	user := uuid.New()
	post := &models.Post{ID: uuid.New(), UserID: uuid.New(), Likes: []models.Like{}}
	storeErr := models.NewStorageError(errors.New("connection reset"))

	repo := failingPostRepo(t)
	repo.getByIDFn = func(_ context.Context, id uuid.UUID) (*models.Post, error) {
		assert.Equal(t, post.ID, id)
		return post, nil
	}
	saves := 0
	repo.saveFn = func(context.Context, *models.Post) error {
		saves++
		return storeErr
	}

	svc := NewPostService(repo, nil, identityStub{"tok": user})
	likes, err := svc.ToggleLike(context.Background(), "tok", post.ID.String())
	assert.Nil(t, likes)
	assert.ErrorIs(t, err, storeErr)
	assert.Equal(t, 1, saves, "storage failures are not retried")
}

func TestPostService_NotFound(t *testing.T) {
	t.Parallel()
	repo := failingPostRepo(t)
	repo.getByIDFn = func(_ context.Context, id uuid.UUID) (*models.Post, error) {
		return nil, models.NewNotFoundError("Post", id)
	}
	svc := NewPostService(repo, nil, identityStub{"tok": uuid.New()})

	_, err := svc.AddComment(context.Background(), "tok", uuid.NewString(), "hi")
	assertCode(t, err, models.CodeNotFound)
}

// Create, list, like, unlike.
func TestPostService_ScenarioLikeToggle(t *testing.T) {
	t.Parallel()
	f := newFixture(t, nil, "")
	ctx := context.Background()

	tok1, u1 := f.register(t, "Ada")
	tok2, u2 := f.register(t, "Grace")

	post, err := f.postSvc.CreatePost(ctx, tok1, "hello")
	require.NoError(t, err)
	assert.Equal(t, u1, post.UserID)
	assert.Equal(t, "Ada", post.Name)

	posts, err := f.postSvc.ListPosts(ctx, tok2)
	require.NoError(t, err)
	require.Len(t, posts, 1)
	assert.Empty(t, posts[0].Likes)
	assert.Empty(t, posts[0].Comments)

	likes, err := f.postSvc.ToggleLike(ctx, tok2, post.ID.String())
	require.NoError(t, err)
	assert.Equal(t, []models.Like{{UserID: u2}}, likes)

	likes, err = f.postSvc.ToggleLike(ctx, tok2, post.ID.String())
	require.NoError(t, err)
	assert.Empty(t, likes)

	stored, err := f.postSvc.GetPost(ctx, tok1, post.ID.String())
	require.NoError(t, err)
	assert.Empty(t, stored.Likes)
}

// A non-author cannot delete a post and the store is left unchanged.
func TestPostService_ScenarioDeleteByNonAuthor(t *testing.T) {
	t.Parallel()
	f := newFixture(t, nil, "")
	ctx := context.Background()

	tok1, _ := f.register(t, "Ada")
	tok3, _ := f.register(t, "Linus")

	post, err := f.postSvc.CreatePost(ctx, tok1, "mine")
	require.NoError(t, err)

	err = f.postSvc.DeletePost(ctx, tok3, post.ID.String())
	assertCode(t, err, models.CodeUnauthorized)

	posts, err := f.postSvc.ListPosts(ctx, tok1)
	require.NoError(t, err)
	require.Len(t, posts, 1)
	assert.Equal(t, post.ID, posts[0].ID)

	require.NoError(t, f.postSvc.DeletePost(ctx, tok1, post.ID.String()))
	_, err = f.postSvc.GetPost(ctx, tok1, post.ID.String())
	assertCode(t, err, models.CodeNotFound)
}

func TestPostService_Comments(t *testing.T) {
	t.Parallel()
	f := newFixture(t, nil, "")
	ctx := context.Background()

	authorTok, _ := f.register(t, "Ada")
	tok2, u2 := f.register(t, "Grace")

	post, err := f.postSvc.CreatePost(ctx, authorTok, "discuss")
	require.NoError(t, err)
	pid := post.ID.String()

	_, err = f.postSvc.AddComment(ctx, tok2, pid, "   ")
	assertCode(t, err, models.CodeValidation)

	comments, err := f.postSvc.AddComment(ctx, tok2, pid, "first")
	require.NoError(t, err)
	comments, err = f.postSvc.AddComment(ctx, tok2, pid, "second")
	require.NoError(t, err)
	require.Len(t, comments, 2)
	assert.Equal(t, "second", comments[0].Text)
	assert.Equal(t, u2, comments[0].UserID)
	assert.Equal(t, "Grace", comments[0].Name)

	// the post author may not remove someone else's comment
	_, err = f.postSvc.RemoveComment(ctx, authorTok, pid, comments[0].ID.String())
	assertCode(t, err, models.CodeUnauthorized)

	_, err = f.postSvc.RemoveComment(ctx, tok2, pid, uuid.NewString())
	assertCode(t, err, models.CodeNotFound)

	remaining, err := f.postSvc.RemoveComment(ctx, tok2, pid, comments[0].ID.String())
	require.NoError(t, err)
	require.Len(t, remaining, 1)
	assert.Equal(t, "first", remaining[0].Text)
}

func TestPostService_CreateValidation(t *testing.T) {
	t.Parallel()
	f := newFixture(t, nil, "")
	tok, _ := f.register(t, "Ada")

	_, err := f.postSvc.CreatePost(context.Background(), tok, " \n ")
	assertCode(t, err, models.CodeValidation)

	posts, err := f.postSvc.ListPosts(context.Background(), tok)
	require.NoError(t, err)
	assert.Empty(t, posts)
}

// The length limit counts characters, not bytes.
func TestPostService_CreateMultibyteLength(t *testing.T) {
	t.Parallel()
	f := newFixture(t, nil, "")
	tok, _ := f.register(t, "Ada")
	ctx := context.Background()

	text := strings.Repeat("ж", 3000)
	post, err := f.postSvc.CreatePost(ctx, tok, text)
	require.NoError(t, err)
	assert.Equal(t, text, post.Text)

	_, err = f.postSvc.CreatePost(ctx, tok, strings.Repeat("ж", maxPostLen))
	require.NoError(t, err)

	_, err = f.postSvc.CreatePost(ctx, tok, strings.Repeat("ж", maxPostLen+1))
	assertCode(t, err, models.CodeValidation)
}

// A like landing after a concurrent delete leaves the post deleted.
func TestPostService_LikeAfterDelete(t *testing.T) {
	t.Parallel()
	f := newFixture(t, nil, "")
	ctx := context.Background()
	tok1, _ := f.register(t, "Ada")
	tok2, _ := f.register(t, "Grace")

	post, err := f.postSvc.CreatePost(ctx, tok1, "going away")
	require.NoError(t, err)
	require.NoError(t, f.posts.Delete(ctx, post.ID))

	repo := failingPostRepo(t)
	repo.getByIDFn = func(context.Context, uuid.UUID) (*models.Post, error) {
		stale := *post
		return &stale, nil
	}
	repo.saveFn = f.posts.Save
	svc := NewPostService(repo, f.users, f.tokens)

	_, err = svc.ToggleLike(ctx, tok2, post.ID.String())
	assertCode(t, err, models.CodeNotFound)

	_, err = f.postSvc.GetPost(ctx, tok1, post.ID.String())
	assertCode(t, err, models.CodeNotFound)
}
