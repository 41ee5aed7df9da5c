package repository

import (
	"context"
	"errors"

	"devconnect/internal/models"
	"devconnect/internal/observability"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// PostRepository defines the interface for post data operations. A post is
// loaded and saved together with its likes and comments.
type PostRepository interface {
	Create(ctx context.Context, post *models.Post) error
	Save(ctx context.Context, post *models.Post) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Post, error)
	List(ctx context.Context) ([]*models.Post, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// postRepository implements PostRepository
type postRepository struct {
	db  *gorm.DB
	log *observability.RepoLogger
}

// NewPostRepository creates a new post repository
func NewPostRepository(db *gorm.DB) PostRepository {
	return &postRepository{db: db, log: observability.NewRepoLogger("posts")}
}

// Create inserts a new post.
func (r *postRepository) Create(ctx context.Context, post *models.Post) error {
	defer observability.TrackQuery("create", "posts")()
	if post.ID == uuid.Nil {
		post.ID = uuid.New()
	}
	if post.Likes == nil {
		post.Likes = []models.Like{}
	}
	if post.Comments == nil {
		post.Comments = []models.Comment{}
	}
	if err := r.db.WithContext(ctx).Create(post).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return models.NewConflictError("Post already exists")
		}
		return translate(ctx, r.log, "create", "Post", post.ID, err)
	}
	r.log.LogSave(ctx, map[string]any{"id": post.ID, "user_id": post.UserID})
	return nil
}

// Save overwrites an existing post row; the last writer wins. A post deleted
// since it was loaded stays deleted and Save reports NOT_FOUND.
func (r *postRepository) Save(ctx context.Context, post *models.Post) error {
	defer observability.TrackQuery("save", "posts")()
	if post.ID == uuid.Nil {
		return models.NewNotFoundError("Post", post.ID)
	}
	if post.Likes == nil {
		post.Likes = []models.Like{}
	}
	if post.Comments == nil {
		post.Comments = []models.Comment{}
	}
	res := r.db.WithContext(ctx).
		Model(post).
		Select("text", "name", "avatar", "likes", "comments", "updated_at").
		Updates(post)
	if res.Error != nil {
		return translate(ctx, r.log, "save", "Post", post.ID, res.Error)
	}
	if res.RowsAffected == 0 {
		return models.NewNotFoundError("Post", post.ID)
	}
	r.log.LogSave(ctx, map[string]any{"id": post.ID, "likes": len(post.Likes), "comments": len(post.Comments)})
	return nil
}

func (r *postRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Post, error) {
	defer observability.TrackQuery("read", "posts")()
	var post models.Post
	if err := r.db.WithContext(ctx).First(&post, "id = ?", id).Error; err != nil {
		return nil, translate(ctx, r.log, "read", "Post", id, err)
	}
	r.log.LogRead(ctx, map[string]any{"id": id})
	return &post, nil
}

// List returns every post, newest first.
func (r *postRepository) List(ctx context.Context) ([]*models.Post, error) {
	defer observability.TrackQuery("list", "posts")()
	var posts []*models.Post
	if err := r.db.WithContext(ctx).Order("created_at DESC").Find(&posts).Error; err != nil {
		return nil, translate(ctx, r.log, "list", "Post", nil, err)
	}
	return posts, nil
}

func (r *postRepository) Delete(ctx context.Context, id uuid.UUID) error {
	defer observability.TrackQuery("delete", "posts")()
	if err := r.db.WithContext(ctx).Delete(&models.Post{}, "id = ?", id).Error; err != nil {
		return translate(ctx, r.log, "delete", "Post", id, err)
	}
	r.log.LogDelete(ctx, map[string]any{"id": id})
	return nil
}
