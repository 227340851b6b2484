package pictures

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"venue_booking/internal/adapters/observability"
	"venue_booking/internal/domain"
)

// objectAPI is the slice of the MinIO client the store needs.
type objectAPI interface {
	BucketExists(ctx context.Context, bucket string) (bool, error)
	MakeBucket(ctx context.Context, bucket string, opts minio.MakeBucketOptions) error
	PutObject(ctx context.Context, bucket, key string, r io.Reader, size int64, opts minio.PutObjectOptions) (minio.UploadInfo, error)
	StatObject(ctx context.Context, bucket, key string, opts minio.StatObjectOptions) (minio.ObjectInfo, error)
	RemoveObject(ctx context.Context, bucket, key string, opts minio.RemoveObjectOptions) error
}

// objectGetter opens an object for streaming. minio.Client.GetObject returns a
// concrete *minio.Object, so it is adapted separately.
type objectGetter func(ctx context.Context, bucket, key string) (io.ReadCloser, error)

// S3Store keeps pictures in a bucket under the key <kind>/<name>.
type S3Store struct {
	api    objectAPI
	get    objectGetter
	bucket string
}

type S3Options struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	UseSSL    bool
	Bucket    string
}

func NewS3Store(ctx context.Context, o S3Options) (*S3Store, error) {
	if o.Endpoint == "" || o.AccessKey == "" || o.SecretKey == "" || o.Bucket == "" {
		return nil, fmt.Errorf("pictures: MINIO_ENDPOINT, MINIO_ACCESS_KEY, MINIO_SECRET_KEY and MINIO_BUCKET are required")
	}
	cl, err := minio.New(o.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(o.AccessKey, o.SecretKey, ""),
		Secure: o.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("pictures: minio client: %w", err)
	}
	get := func(ctx context.Context, bucket, key string) (io.ReadCloser, error) {
		return cl.GetObject(ctx, bucket, key, minio.GetObjectOptions{})
	}
	return newS3Store(ctx, cl, get, o.Bucket)
}

func newS3Store(ctx context.Context, api objectAPI, get objectGetter, bucket string) (*S3Store, error) {
	ok, err := api.BucketExists(ctx, bucket)
	if err != nil {
		return nil, fmt.Errorf("pictures: check bucket %s: %w", bucket, err)
	}
	if !ok {
		if err := api.MakeBucket(ctx, bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("pictures: make bucket %s: %w", bucket, err)
		}
	}
	return &S3Store{api: api, get: get, bucket: bucket}, nil
}

func key(kind domain.PictureKind, name string) string { return string(kind) + "/" + name }

// Save uploads r and returns the object key, which doubles as the stored path.
func (s *S3Store) Save(ctx context.Context, kind domain.PictureKind, name string, r io.Reader, size int64, contentType string) (string, error) {
	if !validKind(kind) || !validName(name) {
		return "", domain.Invalid("Invalid picture name")
	}
	k := key(kind, name)
	start := time.Now()
	_, err := s.api.PutObject(ctx, s.bucket, k, r, size, minio.PutObjectOptions{ContentType: contentType})
	observability.ObserveExternal("minio", "put", statusOf(err), time.Since(start))
	if err != nil {
		return "", fmt.Errorf("pictures: put %s: %w", k, err)
	}
	return k, nil
}

func (s *S3Store) Open(ctx context.Context, kind domain.PictureKind, name string) (io.ReadCloser, error) {
	if !validKind(kind) || !validName(name) {
		return nil, domain.ErrNotFound
	}
	k := key(kind, name)
	start := time.Now()
	// GetObject is lazy, so existence is checked up front to report 404s.
	_, err := s.api.StatObject(ctx, s.bucket, k, minio.StatObjectOptions{})
	observability.ObserveExternal("minio", "stat", statusOf(err), time.Since(start))
	if err != nil {
		if minio.ToErrorResponse(err).Code == "NoSuchKey" {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("pictures: stat %s: %w", k, err)
	}
	rc, err := s.get(ctx, s.bucket, k)
	if err != nil {
		return nil, fmt.Errorf("pictures: get %s: %w", k, err)
	}
	return rc, nil
}

// Delete removes the object. S3 treats a missing key as a successful delete.
func (s *S3Store) Delete(ctx context.Context, kind domain.PictureKind, name string) error {
	if !validKind(kind) || !validName(name) {
		return domain.Invalid("Invalid picture name")
	}
	k := key(kind, name)
	start := time.Now()
	err := s.api.RemoveObject(ctx, s.bucket, k, minio.RemoveObjectOptions{})
	observability.ObserveExternal("minio", "remove", statusOf(err), time.Since(start))
	if err != nil {
		return fmt.Errorf("pictures: remove %s: %w", k, err)
	}
	return nil
}

func statusOf(err error) int {
	if err == nil {
		return 200
	}
	if code := minio.ToErrorResponse(err).StatusCode; code != 0 {
		return code
	}
	return 0
}
