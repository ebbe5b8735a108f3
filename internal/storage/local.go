package storage

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"treva/internal/models"
)

// LocalStore is a MediaStore backed by a directory on disk. Files land in
// <root>/images or <root>/videos with a random-token-plus-timestamp name so
// concurrent uploads never collide.
type LocalStore struct {
	root string
}

// NewLocalStore creates the upload directory tree and returns the store.
func NewLocalStore(root string) (*LocalStore, error) {
	for _, dir := range []string{root, filepath.Join(root, "images"), filepath.Join(root, "videos")} {
		if err := os.MkdirAll(dir, 0o775); err != nil {
			return nil, fmt.Errorf("failed to create upload dir %s: %w", dir, err)
		}
	}
	return &LocalStore{root: root}, nil
}

// Save streams the upload to disk and returns its relative path.
func (s *LocalStore) Save(mediaType, ext string, r io.Reader) (string, error) {
	sub := "images"
	if mediaType == models.MediaTypeVideo {
		sub = "videos"
	}

	token := make([]byte, 8)
	if _, err := rand.Read(token); err != nil {
		return "", fmt.Errorf("failed to generate file token: %w", err)
	}
	name := fmt.Sprintf("%s_%d.%s", hex.EncodeToString(token), time.Now().Unix(), ext)
	relPath := filepath.ToSlash(filepath.Join(sub, name))

	f, err := os.Create(filepath.Join(s.root, sub, name))
	if err != nil {
		return "", fmt.Errorf("failed to create upload file: %w", err)
	}
	defer f.Close()

	if _, err := io.Copy(f, r); err != nil {
		os.Remove(f.Name())
		return "", fmt.Errorf("failed to write upload file: %w", err)
	}
	return relPath, nil
}

// Remove deletes a stored file. The path is normalized and pinned under the
// upload root; anything escaping it is refused.
func (s *LocalStore) Remove(relPath string) error {
	clean := filepath.Clean(filepath.FromSlash(relPath))
	if strings.HasPrefix(clean, "..") || filepath.IsAbs(clean) {
		return fmt.Errorf("refusing to remove path outside upload root: %s", relPath)
	}
	err := os.Remove(filepath.Join(s.root, clean))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove %s: %w", relPath, err)
	}
	return nil
}
