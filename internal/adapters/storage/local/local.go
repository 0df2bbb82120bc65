package local

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/vncsmyrnk/meetmind/internal/core/ports"
)

// Store keeps blobs on the local filesystem under basePath.
type Store struct {
	basePath  string
	publicURL string
}

// NewStore creates basePath if needed. When publicURL is empty, Put returns
// file:// URLs.
func NewStore(basePath, publicURL string) (*Store, error) {
	abs, err := filepath.Abs(basePath)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve storage path: %w", err)
	}
	if err := os.MkdirAll(abs, 0o750); err != nil {
		return nil, fmt.Errorf("failed to create storage directory: %w", err)
	}
	return &Store{
		basePath:  abs,
		publicURL: strings.TrimRight(publicURL, "/"),
	}, nil
}

func (s *Store) Put(_ context.Context, key string, r io.Reader, _ string) (string, error) {
	fullPath, err := s.resolve(key)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(filepath.Dir(fullPath), 0o750); err != nil {
		return "", fmt.Errorf("failed to create directory: %w", err)
	}

	f, err := os.Create(fullPath)
	if err != nil {
		return "", fmt.Errorf("failed to create file: %w", err)
	}
	if _, err := io.Copy(f, r); err != nil {
		f.Close()
		return "", fmt.Errorf("failed to write file: %w", err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("failed to close file: %w", err)
	}

	if s.publicURL != "" {
		return s.publicURL + "/" + path.Clean(key), nil
	}
	return (&url.URL{Scheme: "file", Path: filepath.ToSlash(fullPath)}).String(), nil
}

func (s *Store) DeletePrefix(_ context.Context, prefix string) error {
	dir, err := s.resolve(prefix)
	if err != nil {
		return err
	}
	if err := os.RemoveAll(dir); err != nil {
		return fmt.Errorf("failed to delete %s: %w", prefix, err)
	}
	return nil
}

// resolve maps key under basePath and refuses keys escaping it.
func (s *Store) resolve(key string) (string, error) {
	fullPath := filepath.Join(s.basePath, filepath.FromSlash(path.Clean("/"+key)))
	if fullPath == s.basePath {
		return "", fmt.Errorf("invalid storage key %q", key)
	}
	return fullPath, nil
}

var _ ports.BlobStore = (*Store)(nil)
