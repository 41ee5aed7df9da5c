package service

import (
	"context"
	"strings"

	"devconnect/internal/auth"
	"devconnect/internal/engine"
	"devconnect/internal/featureflags"
	"devconnect/internal/github"
	"devconnect/internal/models"
	"devconnect/internal/repository"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
)

// RepoFinder looks up a user's public source repositories.
type RepoFinder interface {
	Repos(username string) ([]github.Repo, error)
}

type ProfileService struct {
	profiles repository.ProfileRepository
	users    repository.UserRepository
	identity auth.IdentityProvider
	repos    RepoFinder
	flags    *featureflags.Manager
	ids      engine.IDSource
	now      Clock
}

func NewProfileService(
	profiles repository.ProfileRepository,
	users repository.UserRepository,
	identity auth.IdentityProvider,
	repos RepoFinder,
	flags *featureflags.Manager,
) *ProfileService {
	return &ProfileService{
		profiles: profiles,
		users:    users,
		identity: identity,
		repos:    repos,
		flags:    flags,
		ids:      engine.NewIDs,
		now:      utcNow,
	}
}

func noProfile() error {
	return &models.AppError{Code: models.CodeNotFound, Message: "There is no profile for this user"}
}

// UpsertProfile creates the caller's profile or merges fields into it.
// Creating requires status and skills; a merge may carry any subset.
func (s *ProfileService) UpsertProfile(ctx context.Context, credential string, fields models.ProfileFields) (_ *models.Profile, err error) {
	ctx, done := begin(ctx, "ProfileService", "UpsertProfile")
	defer done(&err)

	userID, err := principal(ctx, s.identity, credential)
	if err != nil {
		return nil, err
	}
	existing, err := s.profiles.FindByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if err := validateProfileFields(existing == nil, fields); err != nil {
		return nil, err
	}

	profile := engine.UpsertProfile(existing, userID, fields, s.ids, s.now())
	if err := s.profiles.Save(ctx, profile); err != nil {
		return nil, err
	}
	return profile, nil
}

func validateProfileFields(creating bool, fields models.ProfileFields) error {
	errs := map[string]string{}
	if (fields.Status != nil && strings.TrimSpace(*fields.Status) == "") || (creating && fields.Status == nil) {
		errs["status"] = "Status is required"
	}
	if (fields.Skills != nil && len(fields.Skills) == 0) || (creating && fields.Skills == nil) {
		errs["skills"] = "Skills is required"
	}
	if len(errs) > 0 {
		return models.NewFieldValidationError(errs)
	}
	return nil
}

func (s *ProfileService) GetOwnProfile(ctx context.Context, credential string) (_ *models.Profile, err error) {
	ctx, done := begin(ctx, "ProfileService", "GetOwnProfile")
	defer done(&err)

	userID, err := principal(ctx, s.identity, credential)
	if err != nil {
		return nil, err
	}
	return s.ownProfile(ctx, userID)
}

// GetProfileByUser is public; no credential is needed.
func (s *ProfileService) GetProfileByUser(ctx context.Context, rawUserID string) (_ *models.Profile, err error) {
	ctx, done := begin(ctx, "ProfileService", "GetProfileByUser", attribute.String("user.id", rawUserID))
	defer done(&err)

	userID, err := engine.ParseID("user", rawUserID)
	if err != nil {
		return nil, err
	}
	return s.ownProfile(ctx, userID)
}

func (s *ProfileService) ListProfiles(ctx context.Context) (_ []*models.Profile, err error) {
	ctx, done := begin(ctx, "ProfileService", "ListProfiles")
	defer done(&err)

	return s.profiles.List(ctx)
}

func (s *ProfileService) AddExperience(ctx context.Context, credential string, entry models.ExperienceEntry) (_ *models.Profile, err error) {
	ctx, done := begin(ctx, "ProfileService", "AddExperience")
	defer done(&err)

	userID, err := principal(ctx, s.identity, credential)
	if err != nil {
		return nil, err
	}
	if err := engine.ValidateExperience(entry); err != nil {
		return nil, err
	}
	profile, err := s.ownProfile(ctx, userID)
	if err != nil {
		return nil, err
	}

	profile.Experience = engine.AddEntry(profile.Experience, entry, s.ids)
	return s.save(ctx, profile)
}

func (s *ProfileService) RemoveExperience(ctx context.Context, credential, entryID string) (_ *models.Profile, err error) {
	ctx, done := begin(ctx, "ProfileService", "RemoveExperience", attribute.String("entry.id", entryID))
	defer done(&err)

	userID, err := principal(ctx, s.identity, credential)
	if err != nil {
		return nil, err
	}
	id, err := engine.ParseID("experience", entryID)
	if err != nil {
		return nil, err
	}
	profile, err := s.ownProfile(ctx, userID)
	if err != nil {
		return nil, err
	}

	remaining, err := engine.RemoveEntry("Experience", profile.Experience, id)
	if err != nil {
		return nil, err
	}
	profile.Experience = remaining
	return s.save(ctx, profile)
}

func (s *ProfileService) AddEducation(ctx context.Context, credential string, entry models.EducationEntry) (_ *models.Profile, err error) {
	ctx, done := begin(ctx, "ProfileService", "AddEducation")
	defer done(&err)

	userID, err := principal(ctx, s.identity, credential)
	if err != nil {
		return nil, err
	}
	if err := engine.ValidateEducation(entry); err != nil {
		return nil, err
	}
	profile, err := s.ownProfile(ctx, userID)
	if err != nil {
		return nil, err
	}

	profile.Education = engine.AddEntry(profile.Education, entry, s.ids)
	return s.save(ctx, profile)
}

func (s *ProfileService) RemoveEducation(ctx context.Context, credential, entryID string) (_ *models.Profile, err error) {
	ctx, done := begin(ctx, "ProfileService", "RemoveEducation", attribute.String("entry.id", entryID))
	defer done(&err)

	userID, err := principal(ctx, s.identity, credential)
	if err != nil {
		return nil, err
	}
	id, err := engine.ParseID("education", entryID)
	if err != nil {
		return nil, err
	}
	profile, err := s.ownProfile(ctx, userID)
	if err != nil {
		return nil, err
	}

	remaining, err := engine.RemoveEntry("Education", profile.Education, id)
	if err != nil {
		return nil, err
	}
	profile.Education = remaining
	return s.save(ctx, profile)
}

// DeleteProfileCascade removes the caller's profile and then the caller's
// account. Posts written by the user are left in place.
func (s *ProfileService) DeleteProfileCascade(ctx context.Context, credential string) (err error) {
	ctx, done := begin(ctx, "ProfileService", "DeleteProfileCascade")
	defer done(&err)

	userID, err := principal(ctx, s.identity, credential)
	if err != nil {
		return err
	}
	if err := s.profiles.DeleteByUserID(ctx, userID); err != nil {
		return err
	}
	return s.users.Delete(ctx, userID)
}

// GitHubRepos lists the public repositories of a GitHub user. The lookup is
// behind the github_repos flag; the credential is optional and only feeds
// percentage rollouts.
func (s *ProfileService) GitHubRepos(ctx context.Context, credential, username string) (_ []github.Repo, err error) {
	ctx, done := begin(ctx, "ProfileService", "GitHubRepos", attribute.String("github.username", username))
	defer done(&err)

	caller := uuid.Nil
	if credential != "" {
		if id, err := principal(ctx, s.identity, credential); err == nil {
			caller = id
		}
	}
	if s.repos == nil || !s.flags.Enabled(featureflags.GitHubRepos, caller) {
		return nil, &models.AppError{Code: models.CodeNotFound, Message: "GitHub lookup is disabled"}
	}
	return s.repos.Repos(username)
}

func (s *ProfileService) ownProfile(ctx context.Context, userID uuid.UUID) (*models.Profile, error) {
	profile, err := s.profiles.GetByUserID(ctx, userID)
	if models.IsCode(err, models.CodeNotFound) {
		return nil, noProfile()
	}
	return profile, err
}

func (s *ProfileService) save(ctx context.Context, profile *models.Profile) (*models.Profile, error) {
	profile.UpdatedAt = s.now()
	if err := s.profiles.Save(ctx, profile); err != nil {
		return nil, err
	}
	return profile, nil
}
