package repository

import (
	"context"
	"errors"

	"devconnect/internal/models"
	"devconnect/internal/observability"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ProfileRepository defines persistence for profiles, keyed by owning user.
// Experience and education travel with the profile row.
type ProfileRepository interface {
	Save(ctx context.Context, profile *models.Profile) error
	// FindByUserID returns (nil, nil) when the user has no profile.
	FindByUserID(ctx context.Context, userID uuid.UUID) (*models.Profile, error)
	GetByUserID(ctx context.Context, userID uuid.UUID) (*models.Profile, error)
	List(ctx context.Context) ([]*models.Profile, error)
	DeleteByUserID(ctx context.Context, userID uuid.UUID) error
}

type profileRepository struct {
	db  *gorm.DB
	log *observability.RepoLogger
}

// NewProfileRepository creates a new profile repository
func NewProfileRepository(db *gorm.DB) ProfileRepository {
	return &profileRepository{db: db, log: observability.NewRepoLogger("profiles")}
}

// Save upserts on user_id so a user can never end up with two profiles.
func (r *profileRepository) Save(ctx context.Context, profile *models.Profile) error {
	defer observability.TrackQuery("save", "profiles")()
	if profile.ID == uuid.Nil {
		profile.ID = uuid.New()
	}
	err := r.db.WithContext(ctx).
		Omit(clause.Associations).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "user_id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"company", "website", "location", "bio", "status", "github_username",
				"skills", "social", "experience", "education", "updated_at",
			}),
		}).
		Create(profile).Error
	if err != nil {
		return translate(ctx, r.log, "save", "Profile", profile.UserID, err)
	}
	r.log.LogSave(ctx, map[string]any{"user_id": profile.UserID})
	return nil
}

func (r *profileRepository) FindByUserID(ctx context.Context, userID uuid.UUID) (*models.Profile, error) {
	profile, err := r.GetByUserID(ctx, userID)
	if models.IsCode(err, models.CodeNotFound) {
		return nil, nil
	}
	return profile, err
}

func (r *profileRepository) GetByUserID(ctx context.Context, userID uuid.UUID) (*models.Profile, error) {
	defer observability.TrackQuery("read", "profiles")()
	var profile models.Profile
	err := r.db.WithContext(ctx).
		Preload("User").
		Where("user_id = ?", userID).
		First(&profile).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Profile for user", userID)
		}
		return nil, translate(ctx, r.log, "read", "Profile", userID, err)
	}
	return &profile, nil
}

func (r *profileRepository) List(ctx context.Context) ([]*models.Profile, error) {
	defer observability.TrackQuery("list", "profiles")()
	var profiles []*models.Profile
	if err := r.db.WithContext(ctx).Preload("User").Order("created_at ASC").Find(&profiles).Error; err != nil {
		return nil, translate(ctx, r.log, "list", "Profile", nil, err)
	}
	return profiles, nil
}

func (r *profileRepository) DeleteByUserID(ctx context.Context, userID uuid.UUID) error {
	defer observability.TrackQuery("delete", "profiles")()
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).Delete(&models.Profile{}).Error; err != nil {
		return translate(ctx, r.log, "delete", "Profile", userID, err)
	}
	r.log.LogDelete(ctx, map[string]any{"user_id": userID})
	return nil
}
