package service

import (
	"context"
	"testing"
	"time"

	"devconnect/internal/auth"
	"devconnect/internal/featureflags"
	"devconnect/internal/models"
	"devconnect/internal/repository"
	"devconnect/internal/testutil"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// identityStub resolves fixed credentials.
type identityStub map[string]uuid.UUID

func (s identityStub) Resolve(_ context.Context, credential string) (uuid.UUID, error) {
	if id, ok := s[credential]; ok {
		return id, nil
	}
	return uuid.Nil, models.NewUnauthenticatedError("Token is not valid")
}

// postRepoStub is a stub for repository.PostRepository.
type postRepoStub struct {
	createFn  func(context.Context, *models.Post) error
	saveFn    func(context.Context, *models.Post) error
	getByIDFn func(context.Context, uuid.UUID) (*models.Post, error)
	listFn    func(context.Context) ([]*models.Post, error)
	deleteFn  func(context.Context, uuid.UUID) error
}

func (s *postRepoStub) Create(ctx context.Context, post *models.Post) error {
	return s.createFn(ctx, post)
}
func (s *postRepoStub) Save(ctx context.Context, post *models.Post) error {
	return s.saveFn(ctx, post)
}
func (s *postRepoStub) GetByID(ctx context.Context, id uuid.UUID) (*models.Post, error) {
	return s.getByIDFn(ctx, id)
}
func (s *postRepoStub) List(ctx context.Context) ([]*models.Post, error) {
	return s.listFn(ctx)
}
func (s *postRepoStub) Delete(ctx context.Context, id uuid.UUID) error {
	return s.deleteFn(ctx, id)
}

// failingPostRepo fails the test on any access.
func failingPostRepo(t *testing.T) *postRepoStub {
	return &postRepoStub{
		createFn: func(context.Context, *models.Post) error {
			t.Fatal("unexpected Create")
			return nil
		},
		saveFn: func(context.Context, *models.Post) error {
			t.Fatal("unexpected Save")
			return nil
		},
		getByIDFn: func(context.Context, uuid.UUID) (*models.Post, error) {
			t.Fatal("unexpected GetByID")
			return nil, nil
		},
		listFn: func(context.Context) ([]*models.Post, error) {
			t.Fatal("unexpected List")
			return nil, nil
		},
		deleteFn: func(context.Context, uuid.UUID) error {
			t.Fatal("unexpected Delete")
			return nil
		},
	}
}

func assertCode(t *testing.T, err error, code string) {
	t.Helper()
	require.Error(t, err)
	require.Equal(t, code, models.ErrorCode(err), "error: %v", err)
}

func ptr[T any](v T) *T { return &v }

// fixture wires the services over a private SQLite database.
type fixture struct {
	db       *gorm.DB
	users    repository.UserRepository
	posts    repository.PostRepository
	profiles repository.ProfileRepository
	tokens   *auth.TokenIssuer

	userSvc    *UserService
	postSvc    *PostService
	profileSvc *ProfileService
}

func newFixture(t *testing.T, repos RepoFinder, flags string) *fixture {
	t.Helper()
	db := testutil.NewSQLiteDB(t)

	f := &fixture{
		db:       db,
		users:    repository.NewUserRepository(db),
		posts:    repository.NewPostRepository(db),
		profiles: repository.NewProfileRepository(db),
		tokens:   auth.NewTokenIssuer("test-secret", time.Hour),
	}
	f.userSvc = NewUserService(f.users, f.tokens)
	f.userSvc.hashCost = bcrypt.MinCost
	f.postSvc = NewPostService(f.posts, f.users, f.tokens)
	f.profileSvc = NewProfileService(f.profiles, f.users, f.tokens, repos, featureflags.NewManager(flags))
	return f
}

// register creates a user and returns its token and id.
func (f *fixture) register(t *testing.T, name string) (string, uuid.UUID) {
	t.Helper()
	token, user, err := f.userSvc.Register(context.Background(), RegisterInput{
		Name:     name,
		Email:    uuid.NewString()[:8] + "@example.com",
		Password: "secret123",
	})
	require.NoError(t, err)
	return token, user.ID
}
