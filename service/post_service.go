package service

import (
	"context"
	"errors"
	"io"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"bloggerz/internal/storage"
	"bloggerz/model"
)

var (
	ErrPostNotFound = errors.New("post not found")
	ErrNotAuthor    = errors.New("you are not the author")
)

// listLimit caps the home feed at the 20 most recent posts.
const listLimit = 20

// coverPrefix is the public path prefix covers are served under.
const coverPrefix = "uploads/"

// PostService orchestrates post CRUD, likes and profile reads. All
// mutations take the caller identity from the verified session, never from
// request fields, and update/delete require an author match.
type PostService struct {
	posts  PostStore
	users  UserStore
	covers storage.CoverStore
}

// NewPostService 创建一个新的 PostService 实例
func NewPostService(posts PostStore, users UserStore, covers storage.CoverStore) *PostService {
	return &PostService{posts: posts, users: users, covers: covers}
}

// CreatePost stores the cover and the post document, author = caller.
func (s *PostService) CreatePost(ctx context.Context, authorID, title, summary, content, coverName string, cover io.Reader, coverSize int64) (*model.Post, error) {
	aid, err := primitive.ObjectIDFromHex(authorID)
	if err != nil {
		return nil, ErrUserNotFound
	}
	name, err := s.covers.Save(ctx, coverName, cover, coverSize)
	if err != nil {
		return nil, err
	}
	post := &model.Post{
		Title:    title,
		Summary:  summary,
		Content:  content,
		Cover:    coverPrefix + name,
		AuthorID: aid,
	}
	if err := s.posts.CreatePost(ctx, post); err != nil {
		return nil, err
	}
	return s.populateAuthor(ctx, post)
}

// UpdatePost replaces the editable fields. The cover changes only when a
// new file was supplied (cover != nil); otherwise the old reference stays.
func (s *PostService) UpdatePost(ctx context.Context, callerID, postID, title, summary, content, coverName string, cover io.Reader, coverSize int64) (*model.Post, error) {
	post, err := s.getPost(ctx, postID)
	if err != nil {
		return nil, err
	}
	if post.AuthorID.Hex() != callerID {
		return nil, ErrNotAuthor
	}

	if cover != nil {
		name, err := s.covers.Save(ctx, coverName, cover, coverSize)
		if err != nil {
			return nil, err
		}
		post.Cover = coverPrefix + name
	}
	post.Title = title
	post.Summary = summary
	post.Content = content
	if err := s.posts.UpdatePost(ctx, post); err != nil {
		return nil, err
	}
	return s.populateAuthor(ctx, post)
}

// ListPosts returns up to 20 posts, newest first, authors resolved.
func (s *PostService) ListPosts(ctx context.Context) ([]model.Post, error) {
	posts, err := s.posts.ListRecent(ctx, listLimit)
	if err != nil {
		return nil, err
	}
	if err := s.populateAuthors(ctx, posts); err != nil {
		return nil, err
	}
	return posts, nil
}

// GetPost fetches a single post with its author resolved.
func (s *PostService) GetPost(ctx context.Context, postID string) (*model.Post, error) {
	post, err := s.getPost(ctx, postID)
	if err != nil {
		return nil, err
	}
	return s.populateAuthor(ctx, post)
}

// LikePost records one like by userID. Liking twice is a no-op; the store
// enforces set semantics atomically.
func (s *PostService) LikePost(ctx context.Context, postID, userID string) (*model.Post, error) {
	post, err := s.getPost(ctx, postID)
	if err != nil {
		return nil, err
	}
	if _, err := s.posts.Like(ctx, post.ID, userID); err != nil {
		return nil, err
	}
	return s.GetPost(ctx, postID)
}

// UnlikePost removes userID's like. Unliking without a prior like is a no-op.
func (s *PostService) UnlikePost(ctx context.Context, postID, userID string) (*model.Post, error) {
	post, err := s.getPost(ctx, postID)
	if err != nil {
		return nil, err
	}
	if _, err := s.posts.Unlike(ctx, post.ID, userID); err != nil {
		return nil, err
	}
	return s.GetPost(ctx, postID)
}

// DeletePost removes the post after an author-match check and returns the
// deleted document.
func (s *PostService) DeletePost(ctx context.Context, callerID, postID string) (*model.Post, error) {
	post, err := s.getPost(ctx, postID)
	if err != nil {
		return nil, err
	}
	if post.AuthorID.Hex() != callerID {
		return nil, ErrNotAuthor
	}
	if err := s.posts.DeletePost(ctx, post.ID); err != nil {
		return nil, err
	}
	return s.populateAuthor(ctx, post)
}

// Profile returns a user's public record plus their posts, newest first.
func (s *PostService) Profile(ctx context.Context, userID string) (*model.User, []model.Post, error) {
	uid, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return nil, nil, ErrUserNotFound
	}
	user, err := s.users.GetByID(ctx, uid)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil, ErrUserNotFound
		}
		return nil, nil, err
	}
	posts, err := s.posts.ListByAuthor(ctx, uid)
	if err != nil {
		return nil, nil, err
	}
	if err := s.populateAuthors(ctx, posts); err != nil {
		return nil, nil, err
	}
	return user, posts, nil
}

func (s *PostService) getPost(ctx context.Context, postID string) (*model.Post, error) {
	oid, err := primitive.ObjectIDFromHex(postID)
	if err != nil {
		return nil, ErrPostNotFound
	}
	post, err := s.posts.GetByID(ctx, oid)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrPostNotFound
		}
		return nil, err
	}
	return post, nil
}

func (s *PostService) populateAuthor(ctx context.Context, post *model.Post) (*model.Post, error) {
	posts := []model.Post{*post}
	if err := s.populateAuthors(ctx, posts); err != nil {
		return nil, err
	}
	return &posts[0], nil
}

// populateAuthors resolves author_id to {id, username} with one batch
// lookup, the document-store version of the original's populate call.
func (s *PostService) populateAuthors(ctx context.Context, posts []model.Post) error {
	if len(posts) == 0 {
		return nil
	}
	seen := make(map[primitive.ObjectID]bool)
	var ids []primitive.ObjectID
	for i := range posts {
		if !seen[posts[i].AuthorID] {
			seen[posts[i].AuthorID] = true
			ids = append(ids, posts[i].AuthorID)
		}
	}
	users, err := s.users.GetByIDs(ctx, ids)
	if err != nil {
		return err
	}
	byID := make(map[primitive.ObjectID]string, len(users))
	for _, u := range users {
		byID[u.ID] = u.Username
	}
	for i := range posts {
		if name, ok := byID[posts[i].AuthorID]; ok {
			posts[i].Author = &model.Author{ID: posts[i].AuthorID, Username: name}
		}
	}
	return nil
}
