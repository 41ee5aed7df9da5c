package seed

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"devconnect/internal/engine"
	"devconnect/internal/models"
	"devconnect/internal/repository"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// DefaultPassword is shared by every seeded account.
const DefaultPassword = "password123"

// Summary counts what a run created.
type Summary struct {
	Users    int
	Profiles int
	Posts    int
	Comments int
	Likes    int
}

// Seeder writes demo users, profiles and posts.
type Seeder struct {
	db       *gorm.DB
	users    repository.UserRepository
	posts    repository.PostRepository
	profiles repository.ProfileRepository
	log      *slog.Logger
	hashCost int
}

// NewSeeder binds a Seeder to db.
func NewSeeder(db *gorm.DB, log *slog.Logger) *Seeder {
	if log == nil {
		log = slog.Default()
	}
	return &Seeder{
		db:       db,
		users:    repository.NewUserRepository(db),
		posts:    repository.NewPostRepository(db),
		profiles: repository.NewProfileRepository(db),
		log:      log,
		hashCost: bcrypt.DefaultCost,
	}
}

// ClearAll deletes every post, profile and user.
func (s *Seeder) ClearAll(ctx context.Context) error {
	tx := s.db.WithContext(ctx).Session(&gorm.Session{AllowGlobalUpdate: true})
	for _, model := range []any{&models.Post{}, &models.Profile{}, &models.User{}} {
		if err := tx.Delete(model).Error; err != nil {
			return fmt.Errorf("clear %T: %w", model, err)
		}
	}
	return nil
}

// Run executes plan.
func (s *Seeder) Run(ctx context.Context, plan Plan) (Summary, error) {
	var sum Summary
	if err := plan.Validate(); err != nil {
		return sum, err
	}

	seed := plan.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	faker := gofakeit.New(seed)

	if plan.Clean {
		if err := s.ClearAll(ctx); err != nil {
			return sum, err
		}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(DefaultPassword), s.hashCost)
	if err != nil {
		return sum, fmt.Errorf("hash seed password: %w", err)
	}

	users := make([]*models.User, 0, plan.Users)
	for i := 0; i < plan.Users; i++ {
		user := &models.User{
			Name:     faker.Name(),
			Email:    fmt.Sprintf("%s.%d@devconnect.local", strings.ToLower(faker.Username()), i),
			Password: string(hash),
			Avatar:   "https://i.pravatar.cc/200?u=" + uuid.NewString(),
		}
		if err := s.users.Create(ctx, user); err != nil {
			return sum, err
		}
		users = append(users, user)
		sum.Users++

		if plan.Profiles {
			if err := s.profiles.Save(ctx, buildProfile(faker, user.ID)); err != nil {
				return sum, err
			}
			sum.Profiles++
		}
	}

	now := time.Now().UTC()
	for _, user := range users {
		for p := 0; p < plan.PostsPerUser; p++ {
			post := &models.Post{
				ID:        engine.NewIDs(),
				UserID:    user.ID,
				Name:      user.Name,
				Avatar:    user.Avatar,
				Text:      faker.Paragraph(1, 3, 12, " "),
				Likes:     []models.Like{},
				Comments:  []models.Comment{},
				CreatedAt: faker.DateRange(now.AddDate(0, 0, -60), now),
			}

			for _, other := range users {
				if faker.Float64Range(0, 1) < plan.LikeRatio {
					engine.ToggleLike(post, other.ID)
				}
			}
			for c := 0; c < plan.CommentsPerPost && len(users) > 0; c++ {
				commenter := users[faker.Number(0, len(users)-1)]
				if _, err := engine.AddComment(post, models.AuthorOf(commenter), faker.Sentence(8), engine.NewIDs, post.CreatedAt.Add(time.Duration(c+1)*time.Hour)); err != nil {
					return sum, err
				}
			}

			if err := s.posts.Create(ctx, post); err != nil {
				return sum, err
			}
			sum.Posts++
			sum.Comments += len(post.Comments)
			sum.Likes += len(post.Likes)
		}
	}

	s.log.InfoContext(ctx, "seed complete",
		slog.Int("users", sum.Users),
		slog.Int("profiles", sum.Profiles),
		slog.Int("posts", sum.Posts),
		slog.Int("comments", sum.Comments),
		slog.Int("likes", sum.Likes),
	)
	return sum, nil
}

func buildProfile(faker *gofakeit.Faker, userID uuid.UUID) *models.Profile {
	job := faker.Job()
	skills := make([]string, 0, 4)
	for i := 0; i < 4; i++ {
		skills = append(skills, faker.ProgrammingLanguage())
	}
	handle := strings.ToLower(faker.Username())

	profile := engine.UpsertProfile(nil, userID, models.ProfileFields{
		Company:        ptr(faker.Company()),
		Website:        ptr(faker.URL()),
		Location:       ptr(faker.City()),
		Bio:            ptr(faker.Sentence(12)),
		Status:         ptr(job.Title),
		GitHubUsername: ptr(handle),
		Skills:         engine.ParseSkills(strings.Join(skills, ",")),
		Social: models.SocialFields{
			Twitter:  ptr("https://twitter.com/" + handle),
			LinkedIn: ptr("https://linkedin.com/in/" + handle),
		},
	}, engine.NewIDs, time.Now().UTC())

	start := faker.DateRange(time.Now().AddDate(-12, 0, 0), time.Now().AddDate(-6, 0, 0))
	profile.Education = engine.AddEntry(profile.Education, models.EducationEntry{
		School:       "University of " + faker.City(),
		Degree:       "BSc",
		FieldOfStudy: "Computer Science",
		From:         start,
		To:           ptr(start.AddDate(4, 0, 0)),
	}, engine.NewIDs)
	profile.Experience = engine.AddEntry(profile.Experience, models.ExperienceEntry{
		Title:   job.Title,
		Company: job.Company,
		From:    start.AddDate(4, 1, 0),
		Current: true,
	}, engine.NewIDs)
	return profile
}

func ptr[T any](v T) *T { return &v }
