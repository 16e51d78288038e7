package storage

import (
	"context"
	"io"
	"strings"
	"testing"
)

func TestLocalSaveOpenRoundTrip(t *testing.T) {
	store, err := NewLocal(t.TempDir())
	if err != nil {
		t.Fatalf("new local: %v", err)
	}
	ctx := context.Background()

	name, err := store.Save(ctx, "photo.png", strings.NewReader("fake png bytes"), 14)
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if !strings.HasSuffix(name, ".png") {
		t.Errorf("stored name %q does not keep the extension", name)
	}

	rc, contentType, err := store.Open(ctx, name)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer rc.Close()
	if contentType != "image/png" {
		t.Errorf("content type = %q", contentType)
	}
	data, err := io.ReadAll(rc)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if string(data) != "fake png bytes" {
		t.Errorf("content = %q", data)
	}
}

func TestLocalNamesAreUnique(t *testing.T) {
	store, err := NewLocal(t.TempDir())
	if err != nil {
		t.Fatalf("new local: %v", err)
	}
	ctx := context.Background()

	a, _ := store.Save(ctx, "img.jpg", strings.NewReader("a"), 1)
	b, _ := store.Save(ctx, "img.jpg", strings.NewReader("b"), 1)
	if a == b {
		t.Errorf("two uploads of %q got the same stored name %q", "img.jpg", a)
	}
}

func TestLocalOpenMissing(t *testing.T) {
	store, err := NewLocal(t.TempDir())
	if err != nil {
		t.Fatalf("new local: %v", err)
	}
	if _, _, err := store.Open(context.Background(), "nope.png"); err == nil {
		t.Fatal("expected error for missing cover")
	}
}

func TestLocalOpenRejectsPathEscape(t *testing.T) {
	store, err := NewLocal(t.TempDir())
	if err != nil {
		t.Fatalf("new local: %v", err)
	}
	if _, _, err := store.Open(context.Background(), "../secrets.txt"); err == nil {
		t.Fatal("expected traversal name to be rejected")
	}
}
