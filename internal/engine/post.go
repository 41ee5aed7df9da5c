package engine

import (
	"slices"
	"strings"
	"time"

	"devconnect/internal/models"

	"github.com/google/uuid"
)

// ToggleLike likes the post for userID, or removes the like when one is
// already present. Applying it twice with the same user restores the original
// likes. The returned slice is the post's updated likes.
func ToggleLike(post *models.Post, userID uuid.UUID) []models.Like {
	idx := slices.IndexFunc(post.Likes, func(l models.Like) bool { return l.UserID == userID })
	if idx >= 0 {
		post.Likes = slices.Delete(slices.Clone(post.Likes), idx, idx+1)
	} else {
		post.Likes = append([]models.Like{{UserID: userID}}, post.Likes...)
	}
	return post.Likes
}

// HasLiked reports whether userID has a like on the post.
func HasLiked(post *models.Post, userID uuid.UUID) bool {
	return slices.ContainsFunc(post.Likes, func(l models.Like) bool { return l.UserID == userID })
}

// AddComment prepends a new comment by author. A user may comment any number
// of times.
func AddComment(post *models.Post, author models.Author, text string, ids IDSource, now time.Time) (models.Comment, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return models.Comment{}, models.NewValidationError("Text is required")
	}
	if ids == nil {
		ids = NewIDs
	}
	comment := models.Comment{
		ID:        ids(),
		UserID:    author.UserID,
		Name:      author.Name,
		Avatar:    author.Avatar,
		Text:      text,
		CreatedAt: now,
	}
	post.Comments = append([]models.Comment{comment}, post.Comments...)
	return comment, nil
}

// RemoveComment deletes exactly one comment, keeping the order of the rest.
func RemoveComment(post *models.Post, requesterID, commentID uuid.UUID) error {
	idx := slices.IndexFunc(post.Comments, func(c models.Comment) bool { return c.ID == commentID })
	if idx < 0 {
		return models.NewNotFoundError("Comment", commentID)
	}
	if !CanRemoveComment(post, post.Comments[idx], requesterID) {
		return models.NewUnauthorizedError("You can only delete your own comments")
	}
	post.Comments = slices.Delete(slices.Clone(post.Comments), idx, idx+1)
	return nil
}

// CanRemoveComment is the comment-removal predicate. Only the comment's own
// author qualifies; the post author does not.
func CanRemoveComment(_ *models.Post, comment models.Comment, requesterID uuid.UUID) bool {
	return comment.UserID == requesterID
}

// CanDeletePost is the post-deletion predicate: author only.
func CanDeletePost(post *models.Post, requesterID uuid.UUID) bool {
	return post.UserID == requesterID
}
