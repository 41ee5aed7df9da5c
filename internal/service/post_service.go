package service

import (
	"context"
	"strings"
	"unicode/utf8"

	"devconnect/internal/auth"
	"devconnect/internal/engine"
	"devconnect/internal/models"
	"devconnect/internal/repository"

	"go.opentelemetry.io/otel/attribute"
)

const maxPostLen = 5000

type PostService struct {
	posts    repository.PostRepository
	users    repository.UserRepository
	identity auth.IdentityProvider
	ids      engine.IDSource
	now      Clock
}

func NewPostService(
	posts repository.PostRepository,
	users repository.UserRepository,
	identity auth.IdentityProvider,
) *PostService {
	return &PostService{
		posts:    posts,
		users:    users,
		identity: identity,
		ids:      engine.NewIDs,
		now:      utcNow,
	}
}

// CreatePost publishes text as a new post by the caller.
func (s *PostService) CreatePost(ctx context.Context, credential, text string) (_ *models.Post, err error) {
	ctx, done := begin(ctx, "PostService", "CreatePost")
	defer done(&err)

	userID, err := principal(ctx, s.identity, credential)
	if err != nil {
		return nil, err
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return nil, models.NewValidationError("Text is required")
	}
	if utf8.RuneCountInString(text) > maxPostLen {
		return nil, models.NewValidationError("Text too long (max 5000 characters)")
	}

	who, err := author(ctx, s.users, userID)
	if err != nil {
		return nil, err
	}

	post := &models.Post{
		ID:        s.ids(),
		UserID:    who.UserID,
		Name:      who.Name,
		Avatar:    who.Avatar,
		Text:      text,
		Likes:     []models.Like{},
		Comments:  []models.Comment{},
		CreatedAt: s.now(),
	}
	if err := s.posts.Create(ctx, post); err != nil {
		return nil, err
	}
	return post, nil
}

// ListPosts returns every post, newest first.
func (s *PostService) ListPosts(ctx context.Context, credential string) (_ []*models.Post, err error) {
	ctx, done := begin(ctx, "PostService", "ListPosts")
	defer done(&err)

	if _, err := principal(ctx, s.identity, credential); err != nil {
		return nil, err
	}
	return s.posts.List(ctx)
}

func (s *PostService) GetPost(ctx context.Context, credential, postID string) (_ *models.Post, err error) {
	ctx, done := begin(ctx, "PostService", "GetPost", attribute.String("post.id", postID))
	defer done(&err)

	if _, err := principal(ctx, s.identity, credential); err != nil {
		return nil, err
	}
	id, err := engine.ParseID("post", postID)
	if err != nil {
		return nil, err
	}
	return s.posts.GetByID(ctx, id)
}

// DeletePost removes a post. Only its author may do so.
func (s *PostService) DeletePost(ctx context.Context, credential, postID string) (err error) {
	ctx, done := begin(ctx, "PostService", "DeletePost", attribute.String("post.id", postID))
	defer done(&err)

	userID, err := principal(ctx, s.identity, credential)
	if err != nil {
		return err
	}
	id, err := engine.ParseID("post", postID)
	if err != nil {
		return err
	}
	post, err := s.posts.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if !engine.CanDeletePost(post, userID) {
		return models.NewUnauthorizedError("User not authorized")
	}
	return s.posts.Delete(ctx, id)
}

// ToggleLike likes or unlikes the post for the caller and returns its likes.
func (s *PostService) ToggleLike(ctx context.Context, credential, postID string) (_ []models.Like, err error) {
	ctx, done := begin(ctx, "PostService", "ToggleLike", attribute.String("post.id", postID))
	defer done(&err)

	userID, err := principal(ctx, s.identity, credential)
	if err != nil {
		return nil, err
	}
	id, err := engine.ParseID("post", postID)
	if err != nil {
		return nil, err
	}
	post, err := s.posts.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	likes := engine.ToggleLike(post, userID)
	if err := s.posts.Save(ctx, post); err != nil {
		return nil, err
	}
	return likes, nil
}

// AddComment prepends a comment by the caller and returns the post's comments.
func (s *PostService) AddComment(ctx context.Context, credential, postID, text string) (_ []models.Comment, err error) {
	ctx, done := begin(ctx, "PostService", "AddComment", attribute.String("post.id", postID))
	defer done(&err)

	userID, err := principal(ctx, s.identity, credential)
	if err != nil {
		return nil, err
	}
	id, err := engine.ParseID("post", postID)
	if err != nil {
		return nil, err
	}
	post, err := s.posts.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	who, err := author(ctx, s.users, userID)
	if err != nil {
		return nil, err
	}

	if _, err := engine.AddComment(post, who, text, s.ids, s.now()); err != nil {
		return nil, err
	}
	if err := s.posts.Save(ctx, post); err != nil {
		return nil, err
	}
	return post.Comments, nil
}

// RemoveComment deletes one of the caller's own comments and returns the
// remaining comments.
func (s *PostService) RemoveComment(ctx context.Context, credential, postID, commentID string) (_ []models.Comment, err error) {
	ctx, done := begin(ctx, "PostService", "RemoveComment",
		attribute.String("post.id", postID), attribute.String("comment.id", commentID))
	defer done(&err)

	userID, err := principal(ctx, s.identity, credential)
	if err != nil {
		return nil, err
	}
	pid, err := engine.ParseID("post", postID)
	if err != nil {
		return nil, err
	}
	cid, err := engine.ParseID("comment", commentID)
	if err != nil {
		return nil, err
	}
	post, err := s.posts.GetByID(ctx, pid)
	if err != nil {
		return nil, err
	}

	if err := engine.RemoveComment(post, userID, cid); err != nil {
		return nil, err
	}
	if err := s.posts.Save(ctx, post); err != nil {
		return nil, err
	}
	return post.Comments, nil
}
