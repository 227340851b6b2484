package app

import (
	"context"
	"fmt"
	"io"
	"path"

	"github.com/rs/zerolog/log"

	"venue_booking/internal/domain"
)

// Upload is a picture received from a client.
type Upload struct {
	Filename    string
	Body        io.Reader
	Size        int64
	ContentType string
}

type Namer interface {
	Name(original string) (string, error)
}

// PictureService names and stores uploads and serves them back.
type PictureService struct {
	store domain.PictureStore
	names Namer
}

func NewPictureService(s domain.PictureStore, n Namer) *PictureService {
	return &PictureService{store: s, names: n}
}

// Save stores up under kind and returns the stored path. A nil upload
// yields a nil path.
func (p *PictureService) Save(ctx context.Context, kind domain.PictureKind, up *Upload) (*string, error) {
	if up == nil {
		return nil, nil
	}
	name, err := p.names.Name(up.Filename)
	if err != nil {
		return nil, err
	}
	stored, err := p.store.Save(ctx, kind, name, up.Body, up.Size, up.ContentType)
	if err != nil {
		return nil, fmt.Errorf("service: save %s picture: %w", kind, err)
	}
	return &stored, nil
}

func (p *PictureService) Open(ctx context.Context, kind domain.PictureKind, name string) (io.ReadCloser, error) {
	return p.store.Open(ctx, kind, name)
}

// Discard removes a picture saved for a row that was never written. Failures
// are logged only; the caller is already returning the insert error.
func (p *PictureService) Discard(ctx context.Context, kind domain.PictureKind, stored *string) {
	if stored == nil {
		return
	}
	name := path.Base(*stored)
	if err := p.store.Delete(ctx, kind, name); err != nil {
		log.Warn().Err(err).Str("kind", string(kind)).Str("name", name).Msg("orphan picture cleanup failed")
	}
}
