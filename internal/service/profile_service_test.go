package service

import (
	"context"
	"testing"
	"time"

	"devconnect/internal/github"
	"devconnect/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type repoFinderStub struct {
	calls []string
}

func (s *repoFinderStub) Repos(username string) ([]github.Repo, error) {
	s.calls = append(s.calls, username)
	return []github.Repo{{Name: username + "-repo"}}, nil
}

func baseProfile() models.ProfileFields {
	return models.ProfileFields{
		Status: ptr("Developer"),
		Skills: []string{"go", "sql"},
		Social: models.SocialFields{Twitter: ptr("https://twitter.com/ada")},
	}
}

func TestProfileService_UpsertCreatesOnceAndMerges(t *testing.T) {
	t.Parallel()
	f := newFixture(t, nil, "")
	ctx := context.Background()
	tok, uid := f.register(t, "Ada")

	_, err := f.profileSvc.UpsertProfile(ctx, tok, models.ProfileFields{Bio: ptr("hi")})
	assertCode(t, err, models.CodeValidation)

	created, err := f.profileSvc.UpsertProfile(ctx, tok, baseProfile())
	require.NoError(t, err)
	assert.Equal(t, uid, created.UserID)

	updated, err := f.profileSvc.UpsertProfile(ctx, tok, models.ProfileFields{
		Bio:    ptr("x"),
		Social: models.SocialFields{YouTube: ptr("https://youtube.com/ada")},
	})
	require.NoError(t, err)
	assert.Equal(t, created.ID, updated.ID)

	all, err := f.profileSvc.ListProfiles(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)

	got, err := f.profileSvc.GetOwnProfile(ctx, tok)
	require.NoError(t, err)
	assert.Equal(t, "x", got.Bio)
	assert.Equal(t, "Developer", got.Status)
	assert.Equal(t, []string{"go", "sql"}, got.Skills)
	assert.Equal(t, "https://twitter.com/ada", got.Social.Twitter)
	assert.Equal(t, "https://youtube.com/ada", got.Social.YouTube)
	require.NotNil(t, got.User)
	assert.Equal(t, "Ada", got.User.Name)

	_, err = f.profileSvc.UpsertProfile(ctx, tok, models.ProfileFields{Status: ptr("  ")})
	assertCode(t, err, models.CodeValidation)
}

// Adding then removing an experience entry restores the empty history.
func TestProfileService_ScenarioExperience(t *testing.T) {
	t.Parallel()
	f := newFixture(t, nil, "")
	ctx := context.Background()
	tok, _ := f.register(t, "Ada")

	_, err := f.profileSvc.AddExperience(ctx, tok, models.ExperienceEntry{Title: "Eng", Company: "Acme", From: time.Now()})
	assertCode(t, err, models.CodeNotFound)

	_, err = f.profileSvc.UpsertProfile(ctx, tok, baseProfile())
	require.NoError(t, err)

	_, err = f.profileSvc.AddExperience(ctx, tok, models.ExperienceEntry{Title: "Eng"})
	assertCode(t, err, models.CodeValidation)

	profile, err := f.profileSvc.AddExperience(ctx, tok, models.ExperienceEntry{
		Title:   "Eng",
		Company: "Acme",
		From:    time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	require.Len(t, profile.Experience, 1)
	assert.Equal(t, "Eng", profile.Experience[0].Title)
	entryID := profile.Experience[0].ID

	_, err = f.profileSvc.RemoveExperience(ctx, tok, "bad-id")
	assertCode(t, err, models.CodeInvalidIdentifier)
	_, err = f.profileSvc.RemoveExperience(ctx, tok, uuid.NewString())
	assertCode(t, err, models.CodeNotFound)

	profile, err = f.profileSvc.RemoveExperience(ctx, tok, entryID.String())
	require.NoError(t, err)
	assert.Empty(t, profile.Experience)

	stored, err := f.profileSvc.GetOwnProfile(ctx, tok)
	require.NoError(t, err)
	assert.Empty(t, stored.Experience)
}

func TestProfileService_Education(t *testing.T) {
	t.Parallel()
	f := newFixture(t, nil, "")
	ctx := context.Background()
	tok, uid := f.register(t, "Grace")
	_, err := f.profileSvc.UpsertProfile(ctx, tok, baseProfile())
	require.NoError(t, err)

	from := time.Date(2010, 9, 1, 0, 0, 0, 0, time.UTC)
	_, err = f.profileSvc.AddEducation(ctx, tok, models.EducationEntry{School: "MIT", Degree: "BSc", FieldOfStudy: "CS", From: from})
	require.NoError(t, err)
	profile, err := f.profileSvc.AddEducation(ctx, tok, models.EducationEntry{School: "Yale", Degree: "PhD", FieldOfStudy: "Math", From: from})
	require.NoError(t, err)
	require.Len(t, profile.Education, 2)
	assert.Equal(t, "Yale", profile.Education[0].School)

	profile, err = f.profileSvc.RemoveEducation(ctx, tok, profile.Education[0].ID.String())
	require.NoError(t, err)
	require.Len(t, profile.Education, 1)
	assert.Equal(t, "MIT", profile.Education[0].School)

	public, err := f.profileSvc.GetProfileByUser(ctx, uid.String())
	require.NoError(t, err)
	assert.Len(t, public.Education, 1)

	_, err = f.profileSvc.GetProfileByUser(ctx, "42")
	assertCode(t, err, models.CodeInvalidIdentifier)
	_, err = f.profileSvc.GetProfileByUser(ctx, uuid.NewString())
	assertCode(t, err, models.CodeNotFound)
}

func TestProfileService_DeleteCascadeKeepsPosts(t *testing.T) {
	t.Parallel()
	f := newFixture(t, nil, "")
	ctx := context.Background()
	tok, uid := f.register(t, "Ada")
	otherTok, _ := f.register(t, "Grace")

	_, err := f.profileSvc.UpsertProfile(ctx, tok, baseProfile())
	require.NoError(t, err)
	post, err := f.postSvc.CreatePost(ctx, tok, "still here")
	require.NoError(t, err)

	require.NoError(t, f.profileSvc.DeleteProfileCascade(ctx, tok))

	_, err = f.profileSvc.GetProfileByUser(ctx, uid.String())
	assertCode(t, err, models.CodeNotFound)
	_, err = f.users.GetByID(ctx, uid)
	assertCode(t, err, models.CodeNotFound)

	got, err := f.postSvc.GetPost(ctx, otherTok, post.ID.String())
	require.NoError(t, err)
	assert.Equal(t, uid, got.UserID)

	err = f.profileSvc.DeleteProfileCascade(ctx, "")
	assertCode(t, err, models.CodeUnauthenticated)
}

func TestProfileService_GitHubReposFlag(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	finder := &repoFinderStub{}
	on := newFixture(t, finder, "github_repos=on")
	repos, err := on.profileSvc.GitHubRepos(ctx, "", "octocat")
	require.NoError(t, err)
	require.Len(t, repos, 1)
	assert.Equal(t, []string{"octocat"}, finder.calls)

	off := newFixture(t, finder, "github_repos=off")
	_, err = off.profileSvc.GitHubRepos(ctx, "", "octocat")
	assertCode(t, err, models.CodeNotFound)
	assert.Len(t, finder.calls, 1)
}
