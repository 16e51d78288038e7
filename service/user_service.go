package service

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/mongo"

	"bloggerz/internal/auth"
	"bloggerz/model"
	"bloggerz/utils"
)

var (
	ErrUserExists       = errors.New("user already exists")
	ErrWrongCredentials = errors.New("wrong credentials")
	ErrUserNotFound     = errors.New("user not found")
)

// UserService bundles the credential store with the token manager.
type UserService struct {
	store  UserStore
	tokens *auth.TokenManager
}

// NewUserService 创建一个新的 UserService 实例
func NewUserService(store UserStore, tokens *auth.TokenManager) *UserService {
	return &UserService{store: store, tokens: tokens}
}

// Register persists a freshly created user after hashing the password.
func (s *UserService) Register(ctx context.Context, user *model.User) error {
	hashed, err := utils.HashPassword(user.Password)
	if err != nil {
		return err
	}
	user.Password = hashed
	user.CreatedAt = time.Now()
	if err := s.store.CreateUser(ctx, user); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrUserExists
		}
		return err
	}
	return nil
}

// Login verifies the credentials and issues a session token on success.
// Unknown username and wrong password collapse into the same error so the
// response does not leak which of the two failed.
func (s *UserService) Login(ctx context.Context, username, password string) (*model.User, string, error) {
	user, err := s.store.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, "", ErrWrongCredentials
		}
		return nil, "", err
	}
	if !utils.CheckPasswordHash(password, user.Password) {
		return nil, "", ErrWrongCredentials
	}

	token, err := s.tokens.Generate(user.ID.Hex(), user.Username)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

// Verify parses a session token and returns the embedded identity.
func (s *UserService) Verify(token string) (*auth.Claims, error) {
	return s.tokens.Parse(token)
}
