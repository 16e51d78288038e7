package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"bloggerz/internal/auth"
	"bloggerz/internal/testutil"
	"bloggerz/model"
	"bloggerz/service"
	"bloggerz/utils"
)

func newUserService() (*service.UserService, *testutil.MemUserStore) {
	store := testutil.NewMemUserStore()
	tokens := auth.NewTokenManager("test-secret", time.Hour)
	return service.NewUserService(store, tokens), store
}

func alice() *model.User {
	return &model.User{
		Username: "alice",
		Password: "pw1secret",
		FullName: "Alice Doe",
		Email:    "alice@example.com",
		Phone:    "15551234567",
		Age:      30,
	}
}

func TestRegisterHashesPassword(t *testing.T) {
	svc, store := newUserService()
	user := alice()
	if err := svc.Register(context.Background(), user); err != nil {
		t.Fatalf("register: %v", err)
	}

	stored, err := store.GetByUsername(context.Background(), "alice")
	if err != nil {
		t.Fatalf("lookup: %v", err)
	}
	if stored.Password == "pw1secret" {
		t.Fatal("password stored in plaintext")
	}
	if !utils.CheckPasswordHash("pw1secret", stored.Password) {
		t.Fatal("stored hash does not verify against the plaintext")
	}
}

func TestRegisterDuplicateUsername(t *testing.T) {
	svc, store := newUserService()
	if err := svc.Register(context.Background(), alice()); err != nil {
		t.Fatalf("first register: %v", err)
	}
	err := svc.Register(context.Background(), alice())
	if !errors.Is(err, service.ErrUserExists) {
		t.Fatalf("second register err = %v, want ErrUserExists", err)
	}
	if store.Count() != 1 {
		t.Fatalf("user count = %d after duplicate register", store.Count())
	}
}

func TestLoginIssuesVerifiableToken(t *testing.T) {
	svc, _ := newUserService()
	if err := svc.Register(context.Background(), alice()); err != nil {
		t.Fatalf("register: %v", err)
	}

	user, token, err := svc.Login(context.Background(), "alice", "pw1secret")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	claims, err := svc.Verify(token)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if claims.Username != "alice" || claims.UserID != user.ID.Hex() {
		t.Errorf("claims = {%s %s}, want {alice %s}", claims.Username, claims.UserID, user.ID.Hex())
	}
}

func TestLoginWrongPassword(t *testing.T) {
	svc, _ := newUserService()
	if err := svc.Register(context.Background(), alice()); err != nil {
		t.Fatalf("register: %v", err)
	}
	if _, _, err := svc.Login(context.Background(), "alice", "wrong"); !errors.Is(err, service.ErrWrongCredentials) {
		t.Fatalf("err = %v, want ErrWrongCredentials", err)
	}
}

func TestLoginUnknownUser(t *testing.T) {
	svc, _ := newUserService()
	if _, _, err := svc.Login(context.Background(), "nobody", "pw"); !errors.Is(err, service.ErrWrongCredentials) {
		t.Fatalf("err = %v, want ErrWrongCredentials", err)
	}
}

func TestVerifyRejectsBadToken(t *testing.T) {
	svc, _ := newUserService()
	if _, err := svc.Verify("garbage"); err == nil {
		t.Fatal("expected bad token to be rejected")
	}
}
