package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	StorageDriverMinio = "minio"
	StorageDriverS3    = "s3"

	QueueDriverLocal = "local"
	QueueDriverAsynq = "asynq"

	ThumbnailFormatWebP = "webp"
	ThumbnailFormatJPEG = "jpeg"
)

type Settings struct {
	MariaDBDSN      string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	ServerPort      int

	StorageDriver        string
	StorageBucket        string
	StoragePublicBaseURL string
	MinioEndpoint        string
	MinioAccessKey       string
	MinioSecretKey       string
	MinioUseSSL          bool
	S3Region             string
	S3Endpoint           string
	S3AccessKey          string
	S3SecretKey          string

	RedisAddr     string
	RedisPassword string
	CacheTTL      time.Duration

	QueueDriver       string
	WorkerConcurrency int
	WorkerQueueSize   int
	JobTimeout        time.Duration
	StaleJobAge       time.Duration
	StaleJobInterval  time.Duration

	ScratchDir           string
	ScratchMaxAge        time.Duration
	ScratchSweepInterval time.Duration

	FFmpegPath             string
	FFprobePath            string
	ThumbnailWidth         int
	ThumbnailOffsetPercent int
	ThumbnailFormat        string
	DownloadTimeout        time.Duration
	ExtractTimeout         time.Duration

	MaxUploadBytes  int64
	UploadRateLimit float64
	UploadRateBurst int

	CORSAllowedOrigins []string
}

var required = []string{
	"MARIADB_DSN",
	"MARIADB_MAX_OPEN_CONN",
	"MARIADB_MAX_IDLE_CONNS",
	"MARIADB_CONN_MAX_LIFETIME",
	"SERVER_PORT",
	"STORAGE_BUCKET",
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("STORAGE_DRIVER", StorageDriverMinio)
	v.SetDefault("MINIO_ENDPOINT", "localhost:9000")
	v.SetDefault("MINIO_USE_SSL", false)
	v.SetDefault("S3_REGION", "us-east-1")
	v.SetDefault("REDIS_ADDR", "")
	v.SetDefault("CACHE_TTL", "5m")
	v.SetDefault("QUEUE_DRIVER", QueueDriverLocal)
	v.SetDefault("WORKER_CONCURRENCY", 4)
	v.SetDefault("WORKER_QUEUE_SIZE", 64)
	v.SetDefault("JOB_TIMEOUT", "15m")
	v.SetDefault("STALE_JOB_AGE", "1h")
	v.SetDefault("STALE_JOB_CHECK_INTERVAL", "10m")
	v.SetDefault("CORS_ALLOWED_ORIGINS", "*")
	v.SetDefault("SCRATCH_DIR", "")
	v.SetDefault("SCRATCH_MAX_AGE", "24h")
	v.SetDefault("SCRATCH_SWEEP_INTERVAL", "1h")
	v.SetDefault("FFMPEG_PATH", "ffmpeg")
	v.SetDefault("FFPROBE_PATH", "ffprobe")
	v.SetDefault("THUMBNAIL_WIDTH", 320)
	v.SetDefault("THUMBNAIL_OFFSET_PERCENT", 10)
	v.SetDefault("THUMBNAIL_FORMAT", ThumbnailFormatWebP)
	v.SetDefault("DOWNLOAD_TIMEOUT", "5m")
	v.SetDefault("EXTRACT_TIMEOUT", "2m")
	v.SetDefault("MAX_UPLOAD_BYTES", int64(500<<20))
	v.SetDefault("UPLOAD_RATE_LIMIT", 0)
	v.SetDefault("UPLOAD_RATE_BURST", 5)
}

func Load() (*Settings, error) {
	// a missing .env is fine, the OS environment is used as is
	_ = godotenv.Load(".env")

	v := viper.New()
	v.AutomaticEnv()
	setDefaults(v)

	for _, key := range required {
		if !v.IsSet(key) {
			return nil, fmt.Errorf("%s is required", key)
		}
	}

	s := &Settings{
		MariaDBDSN:      v.GetString("MARIADB_DSN"),
		MaxOpenConns:    v.GetInt("MARIADB_MAX_OPEN_CONN"),
		MaxIdleConns:    v.GetInt("MARIADB_MAX_IDLE_CONNS"),
		ConnMaxLifetime: time.Duration(v.GetInt("MARIADB_CONN_MAX_LIFETIME")) * time.Second,
		ServerPort:      v.GetInt("SERVER_PORT"),

		StorageDriver:        strings.ToLower(v.GetString("STORAGE_DRIVER")),
		StorageBucket:        v.GetString("STORAGE_BUCKET"),
		StoragePublicBaseURL: v.GetString("STORAGE_PUBLIC_BASE_URL"),
		MinioEndpoint:        v.GetString("MINIO_ENDPOINT"),
		MinioAccessKey:       v.GetString("MINIO_ACCESS_KEY"),
		MinioSecretKey:       v.GetString("MINIO_SECRET_KEY"),
		MinioUseSSL:          v.GetBool("MINIO_USE_SSL"),
		S3Region:             v.GetString("S3_REGION"),
		S3Endpoint:           v.GetString("S3_ENDPOINT"),
		S3AccessKey:          v.GetString("S3_ACCESS_KEY"),
		S3SecretKey:          v.GetString("S3_SECRET_KEY"),

		RedisAddr:     v.GetString("REDIS_ADDR"),
		RedisPassword: v.GetString("REDIS_PASSWORD"),
		CacheTTL:      v.GetDuration("CACHE_TTL"),

		QueueDriver:       strings.ToLower(v.GetString("QUEUE_DRIVER")),
		WorkerConcurrency: v.GetInt("WORKER_CONCURRENCY"),
		WorkerQueueSize:   v.GetInt("WORKER_QUEUE_SIZE"),
		JobTimeout:        v.GetDuration("JOB_TIMEOUT"),
		StaleJobAge:       v.GetDuration("STALE_JOB_AGE"),
		StaleJobInterval:  v.GetDuration("STALE_JOB_CHECK_INTERVAL"),

		ScratchDir:           v.GetString("SCRATCH_DIR"),
		ScratchMaxAge:        v.GetDuration("SCRATCH_MAX_AGE"),
		ScratchSweepInterval: v.GetDuration("SCRATCH_SWEEP_INTERVAL"),

		FFmpegPath:             v.GetString("FFMPEG_PATH"),
		FFprobePath:            v.GetString("FFPROBE_PATH"),
		ThumbnailWidth:         v.GetInt("THUMBNAIL_WIDTH"),
		ThumbnailOffsetPercent: v.GetInt("THUMBNAIL_OFFSET_PERCENT"),
		ThumbnailFormat:        strings.ToLower(v.GetString("THUMBNAIL_FORMAT")),
		DownloadTimeout:        v.GetDuration("DOWNLOAD_TIMEOUT"),
		ExtractTimeout:         v.GetDuration("EXTRACT_TIMEOUT"),

		MaxUploadBytes:  v.GetInt64("MAX_UPLOAD_BYTES"),
		UploadRateLimit: v.GetFloat64("UPLOAD_RATE_LIMIT"),
		UploadRateBurst: v.GetInt("UPLOAD_RATE_BURST"),

		CORSAllowedOrigins: splitList(v.GetString("CORS_ALLOWED_ORIGINS")),
	}

	if err := s.validate(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Settings) validate() error {
	switch s.StorageDriver {
	case StorageDriverMinio, StorageDriverS3:
	default:
		return fmt.Errorf("STORAGE_DRIVER must be %q or %q, got %q", StorageDriverMinio, StorageDriverS3, s.StorageDriver)
	}
	switch s.QueueDriver {
	case QueueDriverLocal:
	case QueueDriverAsynq:
		if s.RedisAddr == "" {
			return fmt.Errorf("REDIS_ADDR is required when QUEUE_DRIVER=%s", QueueDriverAsynq)
		}
	default:
		return fmt.Errorf("QUEUE_DRIVER must be %q or %q, got %q", QueueDriverLocal, QueueDriverAsynq, s.QueueDriver)
	}
	switch s.ThumbnailFormat {
	case ThumbnailFormatWebP, ThumbnailFormatJPEG:
	default:
		return fmt.Errorf("THUMBNAIL_FORMAT must be %q or %q, got %q", ThumbnailFormatWebP, ThumbnailFormatJPEG, s.ThumbnailFormat)
	}
	if s.ThumbnailOffsetPercent < 0 || s.ThumbnailOffsetPercent > 100 {
		return fmt.Errorf("THUMBNAIL_OFFSET_PERCENT must be between 0 and 100, got %d", s.ThumbnailOffsetPercent)
	}
	if s.ThumbnailWidth <= 0 {
		return fmt.Errorf("THUMBNAIL_WIDTH must be positive, got %d", s.ThumbnailWidth)
	}
	if s.WorkerConcurrency <= 0 {
		return fmt.Errorf("WORKER_CONCURRENCY must be positive, got %d", s.WorkerConcurrency)
	}
	// a job still running must never look stale
	if s.JobTimeout > 0 && s.StaleJobAge <= s.JobTimeout {
		return fmt.Errorf("STALE_JOB_AGE (%s) must be longer than JOB_TIMEOUT (%s)", s.StaleJobAge, s.JobTimeout)
	}
	return nil
}

// splitList parses a comma separated env value, dropping blanks.
func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
