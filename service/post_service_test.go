package service_test

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"bloggerz/internal/auth"
	"bloggerz/internal/testutil"
	"bloggerz/model"
	"bloggerz/service"
)

type postFixture struct {
	posts *testutil.MemPostStore
	users *testutil.MemUserStore
	svc   *service.PostService
	alice string // user ids (hex)
	bob   string
}

func newPostFixture(t *testing.T) *postFixture {
	t.Helper()
	users := testutil.NewMemUserStore()
	posts := testutil.NewMemPostStore()
	userSvc := service.NewUserService(users, auth.NewTokenManager("test-secret", time.Hour))

	ids := make(map[string]string)
	for _, name := range []string{"alice", "bob"} {
		u := &model.User{Username: name, Password: "pw1secret", FullName: name,
			Email: name + "@example.com", Phone: "15551234567", Age: 30}
		if err := userSvc.Register(context.Background(), u); err != nil {
			t.Fatalf("register %s: %v", name, err)
		}
		ids[name] = u.ID.Hex()
	}

	return &postFixture{
		posts: posts,
		users: users,
		svc:   service.NewPostService(posts, users, testutil.NewMemCoverStore()),
		alice: ids["alice"],
		bob:   ids["bob"],
	}
}

func (f *postFixture) create(t *testing.T, author, title string) *model.Post {
	t.Helper()
	post, err := f.svc.CreatePost(context.Background(), author, title, "S", "C",
		"img.png", strings.NewReader("png"), 3)
	if err != nil {
		t.Fatalf("create post %q: %v", title, err)
	}
	return post
}

func TestCreatePostSetsAuthorAndCover(t *testing.T) {
	f := newPostFixture(t)
	post := f.create(t, f.alice, "Hello")

	if post.AuthorID.Hex() != f.alice {
		t.Errorf("author = %s, want alice (%s)", post.AuthorID.Hex(), f.alice)
	}
	if post.Author == nil || post.Author.Username != "alice" {
		t.Errorf("author not populated: %+v", post.Author)
	}
	if !strings.HasPrefix(post.Cover, "uploads/") || !strings.HasSuffix(post.Cover, ".png") {
		t.Errorf("cover ref = %q", post.Cover)
	}
	if post.Likes != 0 || len(post.LikedBy) != 0 {
		t.Errorf("new post has likes: %d %v", post.Likes, post.LikedBy)
	}
}

func TestNewPostIsFirstInList(t *testing.T) {
	f := newPostFixture(t)
	f.create(t, f.alice, "Old")
	newest := f.create(t, f.alice, "Hello")

	posts, err := f.svc.ListPosts(context.Background())
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(posts) != 2 || posts[0].ID != newest.ID {
		t.Fatalf("newest post is not first: %v", posts)
	}
}

func TestListPostsCapAndOrder(t *testing.T) {
	f := newPostFixture(t)
	for i := 0; i < 25; i++ {
		f.create(t, f.alice, fmt.Sprintf("post-%d", i))
	}

	posts, err := f.svc.ListPosts(context.Background())
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(posts) != 20 {
		t.Fatalf("len = %d, want 20", len(posts))
	}
	for i := 1; i < len(posts); i++ {
		if posts[i].CreatedAt.After(posts[i-1].CreatedAt) {
			t.Fatalf("posts not in descending creation order at %d", i)
		}
	}
	if posts[0].Title != "post-24" {
		t.Errorf("first post = %q, want post-24", posts[0].Title)
	}
}

func TestUpdatePostByAuthor(t *testing.T) {
	f := newPostFixture(t)
	post := f.create(t, f.alice, "Hello")

	updated, err := f.svc.UpdatePost(context.Background(), f.alice, post.ID.Hex(),
		"Hello v2", "S2", "C2", "", nil, 0)
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Title != "Hello v2" || updated.Summary != "S2" || updated.Content != "C2" {
		t.Errorf("fields not updated: %+v", updated)
	}
	if updated.Cover != post.Cover {
		t.Errorf("cover changed without a new file: %q -> %q", post.Cover, updated.Cover)
	}
}

func TestUpdatePostReplacesCoverWhenSupplied(t *testing.T) {
	f := newPostFixture(t)
	post := f.create(t, f.alice, "Hello")

	updated, err := f.svc.UpdatePost(context.Background(), f.alice, post.ID.Hex(),
		"Hello", "S", "C", "new.jpg", strings.NewReader("jpg"), 3)
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Cover == post.Cover {
		t.Error("cover not replaced")
	}
	if !strings.HasSuffix(updated.Cover, ".jpg") {
		t.Errorf("new cover = %q", updated.Cover)
	}
}

func TestUpdatePostByOtherUser(t *testing.T) {
	f := newPostFixture(t)
	post := f.create(t, f.alice, "Hello")

	_, err := f.svc.UpdatePost(context.Background(), f.bob, post.ID.Hex(),
		"Hacked", "S", "C", "", nil, 0)
	if !errors.Is(err, service.ErrNotAuthor) {
		t.Fatalf("err = %v, want ErrNotAuthor", err)
	}

	got, err := f.svc.GetPost(context.Background(), post.ID.Hex())
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Title != "Hello" {
		t.Errorf("post mutated by non-author: title = %q", got.Title)
	}
}

func TestUpdateMissingPost(t *testing.T) {
	f := newPostFixture(t)
	_, err := f.svc.UpdatePost(context.Background(), f.alice,
		"65f0c1d2e3a4b5c6d7e8f901", "T", "S", "C", "", nil, 0)
	if !errors.Is(err, service.ErrPostNotFound) {
		t.Fatalf("err = %v, want ErrPostNotFound", err)
	}
}

func TestGetPostIdempotent(t *testing.T) {
	f := newPostFixture(t)
	post := f.create(t, f.alice, "Hello")

	a, err := f.svc.GetPost(context.Background(), post.ID.Hex())
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	b, err := f.svc.GetPost(context.Background(), post.ID.Hex())
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if a.Title != b.Title || a.Content != b.Content || a.Likes != b.Likes || !a.CreatedAt.Equal(b.CreatedAt) {
		t.Errorf("two reads differ: %+v vs %+v", a, b)
	}
}

func TestGetPostMissing(t *testing.T) {
	f := newPostFixture(t)
	for _, id := range []string{"65f0c1d2e3a4b5c6d7e8f901", "not-a-hex-id"} {
		if _, err := f.svc.GetPost(context.Background(), id); !errors.Is(err, service.ErrPostNotFound) {
			t.Errorf("GetPost(%q) err = %v, want ErrPostNotFound", id, err)
		}
	}
}

func TestLikeUnlikeRoundTrip(t *testing.T) {
	f := newPostFixture(t)
	post := f.create(t, f.alice, "Hello")

	liked, err := f.svc.LikePost(context.Background(), post.ID.Hex(), f.bob)
	if err != nil {
		t.Fatalf("like: %v", err)
	}
	if liked.Likes != 1 || len(liked.LikedBy) != 1 || liked.LikedBy[0] != f.bob {
		t.Fatalf("after like: likes=%d likedBy=%v", liked.Likes, liked.LikedBy)
	}

	unliked, err := f.svc.UnlikePost(context.Background(), post.ID.Hex(), f.bob)
	if err != nil {
		t.Fatalf("unlike: %v", err)
	}
	if unliked.Likes != 0 || len(unliked.LikedBy) != 0 {
		t.Fatalf("after unlike: likes=%d likedBy=%v", unliked.Likes, unliked.LikedBy)
	}
}

func TestLikeTwiceCountsOnce(t *testing.T) {
	f := newPostFixture(t)
	post := f.create(t, f.alice, "Hello")

	for i := 0; i < 2; i++ {
		if _, err := f.svc.LikePost(context.Background(), post.ID.Hex(), f.bob); err != nil {
			t.Fatalf("like %d: %v", i, err)
		}
	}
	got, err := f.svc.GetPost(context.Background(), post.ID.Hex())
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Likes != 1 || len(got.LikedBy) != 1 {
		t.Fatalf("double like counted: likes=%d likedBy=%v", got.Likes, got.LikedBy)
	}
}

func TestUnlikeWithoutLikeIsNoop(t *testing.T) {
	f := newPostFixture(t)
	post := f.create(t, f.alice, "Hello")

	got, err := f.svc.UnlikePost(context.Background(), post.ID.Hex(), f.bob)
	if err != nil {
		t.Fatalf("unlike: %v", err)
	}
	if got.Likes != 0 {
		t.Fatalf("likes = %d after unlike without like", got.Likes)
	}
}

func TestLikeMissingPost(t *testing.T) {
	f := newPostFixture(t)
	if _, err := f.svc.LikePost(context.Background(), "65f0c1d2e3a4b5c6d7e8f901", f.bob); !errors.Is(err, service.ErrPostNotFound) {
		t.Fatalf("err = %v, want ErrPostNotFound", err)
	}
}

func TestDeleteRequiresAuthor(t *testing.T) {
	f := newPostFixture(t)
	post := f.create(t, f.alice, "Hello")

	if _, err := f.svc.DeletePost(context.Background(), f.bob, post.ID.Hex()); !errors.Is(err, service.ErrNotAuthor) {
		t.Fatalf("non-author delete err = %v, want ErrNotAuthor", err)
	}

	deleted, err := f.svc.DeletePost(context.Background(), f.alice, post.ID.Hex())
	if err != nil {
		t.Fatalf("author delete: %v", err)
	}
	if deleted.ID != post.ID {
		t.Errorf("deleted wrong post: %s", deleted.ID.Hex())
	}
	if _, err := f.svc.GetPost(context.Background(), post.ID.Hex()); !errors.Is(err, service.ErrPostNotFound) {
		t.Fatalf("post still readable after delete: %v", err)
	}
}

func TestProfileReturnsOwnPostsOnly(t *testing.T) {
	f := newPostFixture(t)
	f.create(t, f.alice, "A1")
	f.create(t, f.bob, "B1")
	f.create(t, f.alice, "A2")

	user, posts, err := f.svc.Profile(context.Background(), f.alice)
	if err != nil {
		t.Fatalf("profile: %v", err)
	}
	if user.Username != "alice" {
		t.Errorf("user = %q", user.Username)
	}
	if len(posts) != 2 {
		t.Fatalf("post count = %d, want 2", len(posts))
	}
	if posts[0].Title != "A2" || posts[1].Title != "A1" {
		t.Errorf("posts not newest-first: %q, %q", posts[0].Title, posts[1].Title)
	}
	for _, p := range posts {
		if p.Author == nil || p.Author.Username != "alice" {
			t.Errorf("author not populated on %q", p.Title)
		}
	}
}

func TestProfileUnknownUser(t *testing.T) {
	f := newPostFixture(t)
	for _, id := range []string{"65f0c1d2e3a4b5c6d7e8f901", "bogus"} {
		if _, _, err := f.svc.Profile(context.Background(), id); !errors.Is(err, service.ErrUserNotFound) {
			t.Errorf("Profile(%q) err = %v, want ErrUserNotFound", id, err)
		}
	}
}
