package service

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"strings"

	"devconnect/internal/auth"
	"devconnect/internal/models"
	"devconnect/internal/repository"
	"devconnect/internal/validation"

	"golang.org/x/crypto/bcrypt"
)

type UserService struct {
	users    repository.UserRepository
	tokens   *auth.TokenIssuer
	hashCost int
}

type RegisterInput struct {
	Name     string `json:"name" validate:"notblank,max=100"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,pwd,max=72"`
}

type LoginInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

func NewUserService(users repository.UserRepository, tokens *auth.TokenIssuer) *UserService {
	return &UserService{users: users, tokens: tokens, hashCost: bcrypt.DefaultCost}
}

// Register creates an account and returns a token for it.
func (s *UserService) Register(ctx context.Context, in RegisterInput) (_ string, _ *models.User, err error) {
	ctx, done := begin(ctx, "UserService", "Register")
	defer done(&err)

	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	if err := validation.Struct(in); err != nil {
		return "", nil, err
	}

	existing, err := s.users.GetByEmail(ctx, in.Email)
	if err != nil {
		return "", nil, err
	}
	if existing != nil {
		return "", nil, models.NewConflictError("User already exists")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.hashCost)
	if err != nil {
		return "", nil, fmt.Errorf("hash password: %w", err)
	}

	user := &models.User{
		Name:     in.Name,
		Email:    in.Email,
		Password: string(hash),
		Avatar:   gravatarURL(in.Email),
	}
	if err := s.users.Create(ctx, user); err != nil {
		return "", nil, err
	}

	token, err := s.tokens.Issue(user.ID)
	if err != nil {
		return "", nil, err
	}
	return token, user, nil
}

// Login checks credentials and returns a fresh token. Unknown email and wrong
// password are indistinguishable to the caller.
func (s *UserService) Login(ctx context.Context, in LoginInput) (_ string, err error) {
	ctx, done := begin(ctx, "UserService", "Login")
	defer done(&err)

	if err := validation.Struct(in); err != nil {
		return "", err
	}

	invalid := models.NewUnauthenticatedError("Invalid Credentials")
	user, err := s.users.GetByEmail(ctx, in.Email)
	if err != nil {
		return "", err
	}
	if user == nil {
		return "", invalid
	}
	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(in.Password)) != nil {
		return "", invalid
	}
	return s.tokens.Issue(user.ID)
}

// Me returns the caller's account.
func (s *UserService) Me(ctx context.Context, credential string) (_ *models.User, err error) {
	ctx, done := begin(ctx, "UserService", "Me")
	defer done(&err)

	userID, err := principal(ctx, s.tokens, credential)
	if err != nil {
		return nil, err
	}
	user, err := s.users.GetByID(ctx, userID)
	if models.IsCode(err, models.CodeNotFound) {
		return nil, models.NewUnauthenticatedError("User no longer exists")
	}
	return user, err
}

// gravatarURL derives the avatar from the address. Gravatar keys images by
// the MD5 of the normalized email.
func gravatarURL(email string) string {
	sum := md5.Sum([]byte(strings.ToLower(strings.TrimSpace(email))))
	return "https://www.gravatar.com/avatar/" + hex.EncodeToString(sum[:]) + "?s=200&r=pg&d=mm"
}
