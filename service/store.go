package service

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"bloggerz/model"
)

// UserStore is the credential store surface the services need.
// dao.UserDAO is the production implementation.
type UserStore interface {
	CreateUser(ctx context.Context, user *model.User) error
	GetByUsername(ctx context.Context, username string) (*model.User, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*model.User, error)
	GetByIDs(ctx context.Context, ids []primitive.ObjectID) ([]model.User, error)
}

// PostStore is the post store surface. dao.PostDAO is the production
// implementation; Like/Unlike report whether the document changed.
type PostStore interface {
	CreatePost(ctx context.Context, post *model.Post) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*model.Post, error)
	UpdatePost(ctx context.Context, post *model.Post) error
	ListRecent(ctx context.Context, limit int64) ([]model.Post, error)
	ListByAuthor(ctx context.Context, authorID primitive.ObjectID) ([]model.Post, error)
	DeletePost(ctx context.Context, id primitive.ObjectID) error
	Like(ctx context.Context, id primitive.ObjectID, userID string) (bool, error)
	Unlike(ctx context.Context, id primitive.ObjectID, userID string) (bool, error)
}
