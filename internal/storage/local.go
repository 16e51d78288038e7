package storage

import (
	"context"
	"fmt"
	"io"
	"mime"
	"os"
	"path/filepath"
)

// Local stores covers on the local filesystem under a single directory,
// the way the original deployment served its uploads folder statically.
type Local struct {
	dir string
}

func NewLocal(dir string) (*Local, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &Local{dir: dir}, nil
}

func (l *Local) Save(_ context.Context, originalName string, r io.Reader, _ int64) (string, error) {
	name := deriveName(originalName)
	f, err := os.Create(filepath.Join(l.dir, name))
	if err != nil {
		return "", fmt.Errorf("create cover file: %w", err)
	}
	defer f.Close()
	if _, err := io.Copy(f, r); err != nil {
		return "", fmt.Errorf("write cover file: %w", err)
	}
	return name, nil
}

func (l *Local) Open(_ context.Context, name string) (io.ReadCloser, string, error) {
	// The name is server-generated; reject anything that escapes the dir.
	if filepath.Base(name) != name {
		return nil, "", fmt.Errorf("invalid cover name %q", name)
	}
	f, err := os.Open(filepath.Join(l.dir, name))
	if err != nil {
		return nil, "", err
	}
	contentType := mime.TypeByExtension(filepath.Ext(name))
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	return f, contentType, nil
}
