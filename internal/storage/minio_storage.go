package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/fhuszti/videos-ms-go/internal/logger"
	"github.com/fhuszti/videos-ms-go/internal/port"
	"github.com/fhuszti/videos-ms-go/internal/usecase/video"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// MinioConfig holds what is needed to reach a MinIO (or S3 compatible) bucket.
type MinioConfig struct {
	Endpoint        string
	AccessKey       string
	SecretKey       string
	UseSSL          bool
	Bucket          string
	PublicBaseURL   string
	DownloadTimeout time.Duration
}

type MinioStorage struct {
	client     minioClient
	bucketName string
	publicBase string
	remote     *remoteFetcher
	// unavailable is set when the store is not usable at all.
	unavailable string
}

// compile-time check: *MinioStorage must satisfy port.ObjectStore
var _ port.ObjectStore = (*MinioStorage)(nil)

// NewMinioStorage builds the store. Missing endpoint, bucket or credentials do not
// fail construction: every operation will report video.ErrStorageUnavailable instead.
func NewMinioStorage(cfg MinioConfig) (*MinioStorage, error) {
	s := &MinioStorage{
		bucketName: cfg.Bucket,
		publicBase: minioPublicBase(cfg),
		remote:     newRemoteFetcher(cfg.DownloadTimeout),
	}
	if reason := missingMinioSetting(cfg); reason != "" {
		s.unavailable = reason
		return s, nil
	}

	logger.Info(context.Background(), "initialising minio client...")
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, mapMinioErr(err)
	}
	s.client = client
	return s, nil
}

func missingMinioSetting(cfg MinioConfig) string {
	switch {
	case cfg.Endpoint == "":
		return "MINIO_ENDPOINT is not set"
	case cfg.AccessKey == "" || cfg.SecretKey == "":
		return "MinIO credentials are not set"
	case cfg.Bucket == "":
		return "STORAGE_BUCKET is not set"
	}
	return ""
}

func minioPublicBase(cfg MinioConfig) string {
	if cfg.PublicBaseURL != "" {
		return strings.TrimSuffix(cfg.PublicBaseURL, "/")
	}
	if cfg.Endpoint == "" || cfg.Bucket == "" {
		return ""
	}
	scheme := "http"
	if cfg.UseSSL {
		scheme = "https"
	}
	return fmt.Sprintf("%s://%s/%s", scheme, cfg.Endpoint, cfg.Bucket)
}

func (s *MinioStorage) available() error {
	if s.unavailable != "" {
		return fmt.Errorf("%w: %s", video.ErrStorageUnavailable, s.unavailable)
	}
	if s.client == nil {
		return fmt.Errorf("%w: no client", video.ErrStorageUnavailable)
	}
	return nil
}

// InitBucket creates the bucket when it does not exist yet.
func (s *MinioStorage) InitBucket(ctx context.Context) error {
	if err := s.available(); err != nil {
		return err
	}
	ok, err := s.client.BucketExists(ctx, s.bucketName)
	if err != nil {
		return mapMinioErr(err)
	}
	if !ok {
		logger.Infof(ctx, "bucket %q does not exist, creating it...", s.bucketName)
		if err := s.client.MakeBucket(ctx, s.bucketName, minio.MakeBucketOptions{}); err != nil {
			return mapMinioErr(err)
		}
	}
	return nil
}

func (s *MinioStorage) Put(ctx context.Context, r io.Reader, size int64, contentType, folder string) (port.StoredObject, error) {
	if err := s.available(); err != nil {
		return port.StoredObject{}, err
	}
	key := newObjectKey(folder, contentType)
	logger.Infof(ctx, "saving file %q into bucket %q...", key, s.bucketName)

	if size <= 0 {
		size = -1
	}
	cr := &countingReader{r: r}
	info, err := s.client.PutObject(ctx, s.bucketName, key, cr, size, minio.PutObjectOptions{ContentType: contentType})
	if err != nil {
		return port.StoredObject{}, mapMinioErr(err)
	}

	written := info.Size
	if written <= 0 {
		written = cr.n
	}
	return port.StoredObject{URL: publicURL(s.publicBase, key), Key: key, Size: written}, nil
}

func (s *MinioStorage) Get(ctx context.Context, rawURL string) (io.ReadCloser, error) {
	if err := s.available(); err != nil {
		return nil, err
	}
	key, ok := keyFromURL(s.publicBase, rawURL)
	if !ok {
		logger.Infof(ctx, "fetching remote file %q...", rawURL)
		return s.remote.fetch(ctx, rawURL)
	}

	logger.Infof(ctx, "getting file %q from bucket %q...", key, s.bucketName)
	obj, err := s.client.GetObject(ctx, s.bucketName, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, mapMinioErr(err)
	}
	// GetObject is lazy: surface a missing key now rather than on first read.
	if _, err := obj.Stat(); err != nil {
		_ = obj.Close()
		return nil, mapMinioErr(err)
	}
	return obj, nil
}

func (s *MinioStorage) Delete(ctx context.Context, rawURL string) bool {
	if err := s.available(); err != nil {
		logger.Warnf(ctx, "⚠️  cannot delete %q: %v", rawURL, err)
		return false
	}
	key, ok := keyFromURL(s.publicBase, rawURL)
	if !ok {
		logger.Warnf(ctx, "⚠️  cannot delete %q: not an object of bucket %q", rawURL, s.bucketName)
		return false
	}

	logger.Infof(ctx, "removing file %q from bucket %q...", key, s.bucketName)
	if err := s.client.RemoveObject(ctx, s.bucketName, key, minio.RemoveObjectOptions{}); err != nil {
		err = mapMinioErr(err)
		if errors.Is(err, video.ErrObjectNotFound) {
			return true
		}
		logger.Warnf(ctx, "⚠️  failed to remove file %q: %v", key, err)
		return false
	}
	return true
}
