package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/fhuszti/videos-ms-go/internal/logger"
	"github.com/fhuszti/videos-ms-go/internal/port"
	"github.com/fhuszti/videos-ms-go/internal/usecase/video"
)

// S3Config targets an AWS S3 bucket, or any S3 compatible endpoint.
type S3Config struct {
	Region          string
	Endpoint        string
	AccessKey       string
	SecretKey       string
	Bucket          string
	PublicBaseURL   string
	DownloadTimeout time.Duration
}

type S3Storage struct {
	client      s3Client
	uploader    s3Uploader
	bucket      string
	publicBase  string
	remote      *remoteFetcher
	unavailable string
}

// compile-time check: *S3Storage must satisfy port.ObjectStore
var _ port.ObjectStore = (*S3Storage)(nil)

const credentialsCheckTimeout = 5 * time.Second

// NewS3Storage loads the AWS configuration and checks once that credentials resolve.
func NewS3Storage(ctx context.Context, cfg S3Config) (*S3Storage, error) {
	s := &S3Storage{
		bucket:     cfg.Bucket,
		publicBase: s3PublicBase(cfg),
		remote:     newRemoteFetcher(cfg.DownloadTimeout),
	}
	if strings.TrimSpace(cfg.Bucket) == "" {
		s.unavailable = "STORAGE_BUCKET is not set"
		return s, nil
	}

	logger.Info(ctx, "initialising s3 client...")
	loadOpts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.Region),
	}
	if cfg.AccessKey != "" && cfg.SecretKey != "" {
		loadOpts = append(loadOpts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		))
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	credCtx, cancel := context.WithTimeout(ctx, credentialsCheckTimeout)
	defer cancel()
	if _, err := awsCfg.Credentials.Retrieve(credCtx); err != nil {
		s.unavailable = fmt.Sprintf("no usable AWS credentials: %v", err)
		return s, nil
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})
	s.client = client
	s.uploader = manager.NewUploader(client, func(u *manager.Uploader) {
		u.PartSize = 5 * 1024 * 1024
		u.LeavePartsOnError = false
	})
	return s, nil
}

func s3PublicBase(cfg S3Config) string {
	if cfg.PublicBaseURL != "" {
		return strings.TrimSuffix(cfg.PublicBaseURL, "/")
	}
	if cfg.Bucket == "" {
		return ""
	}
	if cfg.Endpoint != "" {
		return fmt.Sprintf("%s/%s", strings.TrimSuffix(cfg.Endpoint, "/"), cfg.Bucket)
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com", cfg.Bucket, cfg.Region)
}

func (s *S3Storage) available() error {
	if s.unavailable != "" {
		return fmt.Errorf("%w: %s", video.ErrStorageUnavailable, s.unavailable)
	}
	if s.client == nil || s.uploader == nil {
		return fmt.Errorf("%w: no client", video.ErrStorageUnavailable)
	}
	return nil
}

func (s *S3Storage) InitBucket(ctx context.Context) error {
	if err := s.available(); err != nil {
		return err
	}
	_, err := s.client.HeadBucket(ctx, &s3.HeadBucketInput{Bucket: aws.String(s.bucket)})
	if err == nil {
		return nil
	}
	if !errors.Is(mapS3Err(err), video.ErrObjectNotFound) {
		return mapS3Err(err)
	}

	logger.Infof(ctx, "bucket %q does not exist, creating it...", s.bucket)
	if _, err := s.client.CreateBucket(ctx, &s3.CreateBucketInput{Bucket: aws.String(s.bucket)}); err != nil {
		return mapS3Err(err)
	}
	return nil
}

func (s *S3Storage) Put(ctx context.Context, r io.Reader, _ int64, contentType, folder string) (port.StoredObject, error) {
	if err := s.available(); err != nil {
		return port.StoredObject{}, err
	}
	key := newObjectKey(folder, contentType)
	logger.Infof(ctx, "saving file %q into bucket %q...", key, s.bucket)

	cr := &countingReader{r: r}
	if _, err := s.uploader.Upload(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        cr,
		ContentType: aws.String(contentType),
	}); err != nil {
		return port.StoredObject{}, mapS3Err(err)
	}
	return port.StoredObject{URL: publicURL(s.publicBase, key), Key: key, Size: cr.n}, nil
}

func (s *S3Storage) Get(ctx context.Context, rawURL string) (io.ReadCloser, error) {
	if err := s.available(); err != nil {
		return nil, err
	}
	key, ok := keyFromURL(s.publicBase, rawURL)
	if !ok {
		logger.Infof(ctx, "fetching remote file %q...", rawURL)
		return s.remote.fetch(ctx, rawURL)
	}

	logger.Infof(ctx, "getting file %q from bucket %q...", key, s.bucket)
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{Bucket: aws.String(s.bucket), Key: aws.String(key)})
	if err != nil {
		return nil, mapS3Err(err)
	}
	return out.Body, nil
}

func (s *S3Storage) Delete(ctx context.Context, rawURL string) bool {
	if err := s.available(); err != nil {
		logger.Warnf(ctx, "⚠️  cannot delete %q: %v", rawURL, err)
		return false
	}
	key, ok := keyFromURL(s.publicBase, rawURL)
	if !ok {
		logger.Warnf(ctx, "⚠️  cannot delete %q: not an object of bucket %q", rawURL, s.bucket)
		return false
	}

	logger.Infof(ctx, "removing file %q from bucket %q...", key, s.bucket)
	if _, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{Bucket: aws.String(s.bucket), Key: aws.String(key)}); err != nil {
		logger.Warnf(ctx, "⚠️  failed to remove file %q: %v", key, mapS3Err(err))
		return false
	}
	return true
}
