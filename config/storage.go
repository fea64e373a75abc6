package config

import (
	"os"
)

// StorageConfig selects where report images are kept. The default backend
// writes to local disk under MediaRoot; setting STORAGE_BACKEND=s3 routes
// files to an S3-compatible bucket (Cloudflare R2 included) instead.
type StorageConfig struct {
	Backend         string // "local" or "s3"
	MediaRoot       string
	AccountID       string
	AccessKeyID     string
	SecretAccessKey string
	BucketName      string
	Region          string
	Endpoint        string
}

func GetStorageConfig() *StorageConfig {
	cfg := &StorageConfig{
		Backend:         os.Getenv("STORAGE_BACKEND"),
		MediaRoot:       os.Getenv("MEDIA_ROOT"),
		AccountID:       os.Getenv("S3_ACCOUNT_ID"),
		AccessKeyID:     os.Getenv("S3_ACCESS_KEY_ID"),
		SecretAccessKey: os.Getenv("S3_SECRET_ACCESS_KEY"),
		BucketName:      os.Getenv("S3_BUCKET_NAME"),
		Region:          os.Getenv("S3_REGION"),
		Endpoint:        os.Getenv("S3_ENDPOINT"),
	}

	if cfg.Backend == "" {
		cfg.Backend = "local"
	}
	if cfg.MediaRoot == "" {
		cfg.MediaRoot = "media"
	}
	if cfg.Region == "" {
		cfg.Region = "auto"
	}

	return cfg
}
