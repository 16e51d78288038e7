// Package testutil provides in-memory store fakes so service and handler
// tests run without Mongo or a blob backend. The fakes mirror the real
// stores' error contracts (mongo.ErrNoDocuments, duplicate-key errors).
package testutil

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"bloggerz/model"
)

// MemUserStore is an in-memory service.UserStore.
type MemUserStore struct {
	mu    sync.Mutex
	users map[primitive.ObjectID]model.User
}

func NewMemUserStore() *MemUserStore {
	return &MemUserStore{users: make(map[primitive.ObjectID]model.User)}
}

func (s *MemUserStore) CreateUser(_ context.Context, user *model.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Username == user.Username {
			// same shape the mongo driver reports for a unique-index hit
			return mongo.WriteException{WriteErrors: []mongo.WriteError{{Code: 11000}}}
		}
	}
	user.ID = primitive.NewObjectID()
	s.users[user.ID] = *user
	return nil
}

func (s *MemUserStore) GetByUsername(_ context.Context, username string) (*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Username == username {
			cp := u
			return &cp, nil
		}
	}
	return nil, mongo.ErrNoDocuments
}

func (s *MemUserStore) GetByID(_ context.Context, id primitive.ObjectID) (*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return nil, mongo.ErrNoDocuments
	}
	cp := u
	return &cp, nil
}

func (s *MemUserStore) GetByIDs(_ context.Context, ids []primitive.ObjectID) ([]model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []model.User
	for _, id := range ids {
		if u, ok := s.users[id]; ok {
			out = append(out, u)
		}
	}
	return out, nil
}

// Count reports how many users exist, for duplicate-registration asserts.
func (s *MemUserStore) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.users)
}

// MemPostStore is an in-memory service.PostStore. Creation times come from
// a logical clock so ordering is deterministic even for rapid inserts.
type MemPostStore struct {
	mu    sync.Mutex
	posts map[primitive.ObjectID]model.Post
	clock int
	base  time.Time
}

func NewMemPostStore() *MemPostStore {
	return &MemPostStore{posts: make(map[primitive.ObjectID]model.Post), base: time.Now()}
}

func (s *MemPostStore) CreatePost(_ context.Context, post *model.Post) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.clock++
	post.ID = primitive.NewObjectID()
	post.CreatedAt = s.base.Add(time.Duration(s.clock) * time.Second)
	post.UpdatedAt = post.CreatedAt
	if post.LikedBy == nil {
		post.LikedBy = []string{}
	}
	s.posts[post.ID] = *post
	return nil
}

func (s *MemPostStore) GetByID(_ context.Context, id primitive.ObjectID) (*model.Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.posts[id]
	if !ok {
		return nil, mongo.ErrNoDocuments
	}
	cp := p
	cp.LikedBy = append([]string(nil), p.LikedBy...)
	return &cp, nil
}

func (s *MemPostStore) UpdatePost(_ context.Context, post *model.Post) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	stored, ok := s.posts[post.ID]
	if !ok {
		return mongo.ErrNoDocuments
	}
	stored.Title = post.Title
	stored.Summary = post.Summary
	stored.Content = post.Content
	stored.Cover = post.Cover
	stored.UpdatedAt = time.Now()
	s.posts[post.ID] = stored
	return nil
}

func (s *MemPostStore) ListRecent(_ context.Context, limit int64) ([]model.Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := s.sortedLocked(func(model.Post) bool { return true })
	if int64(len(out)) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (s *MemPostStore) ListByAuthor(_ context.Context, authorID primitive.ObjectID) ([]model.Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sortedLocked(func(p model.Post) bool { return p.AuthorID == authorID }), nil
}

func (s *MemPostStore) DeletePost(_ context.Context, id primitive.ObjectID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.posts, id)
	return nil
}

func (s *MemPostStore) Like(_ context.Context, id primitive.ObjectID, userID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.posts[id]
	if !ok {
		return false, nil
	}
	for _, u := range p.LikedBy {
		if u == userID {
			return false, nil
		}
	}
	p.LikedBy = append(p.LikedBy, userID)
	p.Likes++
	s.posts[id] = p
	return true, nil
}

func (s *MemPostStore) Unlike(_ context.Context, id primitive.ObjectID, userID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.posts[id]
	if !ok {
		return false, nil
	}
	for i, u := range p.LikedBy {
		if u == userID {
			p.LikedBy = append(p.LikedBy[:i], p.LikedBy[i+1:]...)
			p.Likes--
			s.posts[id] = p
			return true, nil
		}
	}
	return false, nil
}

func (s *MemPostStore) sortedLocked(keep func(model.Post) bool) []model.Post {
	var out []model.Post
	for _, p := range s.posts {
		if keep(p) {
			cp := p
			cp.LikedBy = append([]string(nil), p.LikedBy...)
			out = append(out, cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out
}

// MemCoverStore is an in-memory storage.CoverStore.
type MemCoverStore struct {
	mu    sync.Mutex
	blobs map[string][]byte
	seq   int
}

func NewMemCoverStore() *MemCoverStore {
	return &MemCoverStore{blobs: make(map[string][]byte)}
}

func (s *MemCoverStore) Save(_ context.Context, originalName string, r io.Reader, _ int64) (string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq++
	name := fmt.Sprintf("cover-%d%s", s.seq, filepath.Ext(originalName))
	s.blobs[name] = data
	return name, nil
}

func (s *MemCoverStore) Open(_ context.Context, name string) (io.ReadCloser, string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	data, ok := s.blobs[name]
	if !ok {
		return nil, "", fmt.Errorf("no such cover %q", name)
	}
	return io.NopCloser(bytes.NewReader(data)), "application/octet-stream", nil
}
