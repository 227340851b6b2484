package app_test

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"sync"

	"github.com/stretchr/testify/mock"

	"venue_booking/internal/app"
	"venue_booking/internal/app/apptest"
	"venue_booking/internal/domain"
)

func ptr[T any](v T) *T { return &v }

// ---- mocks ----

type geoMock struct{ mock.Mock }

func (g *geoMock) ReverseGeocode(ctx context.Context, lat, lon float64) (string, error) {
	args := g.Called(lat, lon)
	return args.String(0), args.Error(1)
}

func (g *geoMock) Search(ctx context.Context, query string) (domain.Coords, error) {
	args := g.Called(query)
	return args.Get(0).(domain.Coords), args.Error(1)
}

type notifierMock struct{ mock.Mock }

func (n *notifierMock) Notify(ctx context.Context, msg domain.Notification) error {
	return n.Called(msg).Error(0)
}

// ---- auth and pictures ----

type plainHasher struct{}

func (plainHasher) Hash(pw string) (string, error) { return "hashed:" + pw, nil }
func (plainHasher) Compare(hash, pw string) error {
	if hash != "hashed:"+pw {
		return domain.ErrUnauthorized
	}
	return nil
}

type fixedTokens struct{}

func (fixedTokens) Issue(p domain.Principal) (string, error) {
	return "token-" + string(p.Role), nil
}

type memPictures struct {
	mu    sync.Mutex
	files map[string][]byte
}

func (s *memPictures) Save(_ context.Context, kind domain.PictureKind, name string, r io.Reader, _ int64, _ string) (string, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.files == nil {
		s.files = map[string][]byte{}
	}
	key := "public/" + string(kind) + "/" + name
	s.files[key] = b
	return key, nil
}

func (s *memPictures) Open(_ context.Context, kind domain.PictureKind, name string) (io.ReadCloser, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.files["public/"+string(kind)+"/"+name]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return io.NopCloser(bytes.NewReader(b)), nil
}

func (s *memPictures) Delete(_ context.Context, kind domain.PictureKind, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.files, "public/"+string(kind)+"/"+name)
	return nil
}

// brokenStore fails every write that would persist a picture path.
type brokenStore struct{ *apptest.Store }

var errWrite = errors.New("write failed")

func (brokenStore) CreateVenue(context.Context, domain.Venue) (domain.Venue, error) {
	return domain.Venue{}, errWrite
}

func (brokenStore) CreateMenuItem(context.Context, domain.MenuItem) (domain.MenuItem, error) {
	return domain.MenuItem{}, errWrite
}

func (brokenStore) UpdateMenuItem(context.Context, domain.MenuItem) error { return errWrite }

func (brokenStore) UpdateAccount(context.Context, domain.Account) (domain.Account, error) {
	return domain.Account{}, errWrite
}

type seqNamer struct{ n int }

func (s *seqNamer) Name(original string) (string, error) {
	s.n++
	ext := ""
	if i := strings.LastIndexByte(original, '.'); i >= 0 {
		ext = strings.ToLower(original[i:])
	}
	return "pic" + string(rune('0'+s.n)) + ext, nil
}

func upload(name, body string) *app.Upload {
	return &app.Upload{Filename: name, Body: strings.NewReader(body), Size: int64(len(body)), ContentType: "image/jpeg"}
}
