package storage

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/relatoria/api-go/config"
)

// S3Store keeps report images in an S3-compatible bucket. With S3_ACCOUNT_ID
// set and no explicit endpoint it targets Cloudflare R2.
type S3Store struct {
	Client *s3.Client
	Bucket string
}

func NewS3Store(cfg *config.StorageConfig) (*S3Store, error) {
	if cfg.BucketName == "" {
		return nil, errors.New("s3 storage backend requires S3_BUCKET_NAME")
	}

	endpoint := cfg.Endpoint
	if endpoint == "" && cfg.AccountID != "" {
		endpoint = fmt.Sprintf("https://%s.r2.cloudflarestorage.com", cfg.AccountID)
	}

	client := s3.New(s3.Options{
		BaseEndpoint: aws.String(endpoint),
		Credentials: credentials.NewStaticCredentialsProvider(
			cfg.AccessKeyID,
			cfg.SecretAccessKey,
			"",
		),
		Region: cfg.Region,
	})

	return &S3Store{Client: client, Bucket: cfg.BucketName}, nil
}

func (s *S3Store) Save(key string, r io.Reader) error {
	_, err := s.Client.PutObject(context.TODO(), &s3.PutObjectInput{
		Bucket: aws.String(s.Bucket),
		Key:    aws.String(key),
		Body:   r,
	})
	return err
}

func (s *S3Store) Delete(key string) error {
	// DeleteObject is a no-op for absent keys, matching LocalStore.
	_, err := s.Client.DeleteObject(context.TODO(), &s3.DeleteObjectInput{
		Bucket: aws.String(s.Bucket),
		Key:    aws.String(key),
	})
	return err
}

// isNotFound reports whether err is S3's missing-object answer, as opposed
// to a transport or permission failure.
func isNotFound(err error) bool {
	var notFound *types.NotFound
	return errors.As(err, &notFound)
}

func (s *S3Store) Exists(key string) (bool, error) {
	_, err := s.Client.HeadObject(context.TODO(), &s3.HeadObjectInput{
		Bucket: aws.String(s.Bucket),
		Key:    aws.String(key),
	})
	if isNotFound(err) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}
