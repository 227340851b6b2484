package pictures

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"venue_booking/internal/domain"
)

// FSStore keeps pictures under <root>/<kind>/<name>.
type FSStore struct{ root string }

func NewFSStore(root string) (*FSStore, error) {
	for _, k := range []domain.PictureKind{domain.PictureVenue, domain.PictureFoodItem, domain.PictureProfile} {
		if err := os.MkdirAll(filepath.Join(root, string(k)), 0o755); err != nil {
			return nil, fmt.Errorf("pictures: create %s dir: %w", k, err)
		}
	}
	return &FSStore{root: root}, nil
}

func (s *FSStore) path(kind domain.PictureKind, name string) (string, error) {
	if !validKind(kind) || !validName(name) {
		return "", domain.ErrNotFound
	}
	return filepath.Join(s.root, string(kind), name), nil
}

// Save writes r to disk and returns the stored path, e.g. public/venues/1.jpg.
func (s *FSStore) Save(_ context.Context, kind domain.PictureKind, name string, r io.Reader, _ int64, _ string) (string, error) {
	p, err := s.path(kind, name)
	if err != nil {
		return "", domain.Invalid("Invalid picture name")
	}
	f, err := os.OpenFile(p, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		if errors.Is(err, fs.ErrExist) {
			return "", domain.Errorf(domain.ErrConflict, "Picture already exists")
		}
		return "", fmt.Errorf("pictures: create %s: %w", p, err)
	}
	if _, err := io.Copy(f, r); err != nil {
		f.Close()
		_ = os.Remove(p)
		return "", fmt.Errorf("pictures: write %s: %w", p, err)
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(p)
		return "", fmt.Errorf("pictures: close %s: %w", p, err)
	}
	return filepath.ToSlash(p), nil
}

func (s *FSStore) Open(_ context.Context, kind domain.PictureKind, name string) (io.ReadCloser, error) {
	p, err := s.path(kind, name)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(p)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("pictures: open %s: %w", p, err)
	}
	return f, nil
}

func (s *FSStore) Delete(_ context.Context, kind domain.PictureKind, name string) error {
	p, err := s.path(kind, name)
	if err != nil {
		return domain.Invalid("Invalid picture name")
	}
	if err := os.Remove(p); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("pictures: remove %s: %w", p, err)
	}
	return nil
}
