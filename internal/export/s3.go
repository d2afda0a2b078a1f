package export

import (
	"bytes"
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

type S3Config struct {
	Bucket    string
	Region    string
	Endpoint  string
	AccessKey string
	SecretKey string
}

type objectPutter interface {
	PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3Archiver stores export workbooks under archive/.
type S3Archiver struct {
	client objectPutter
	bucket string
}

// NewS3Archiver returns nil when no bucket is configured; a nil archiver
// refuses uploads.
func NewS3Archiver(cfg S3Config) *S3Archiver {
	if cfg.Bucket == "" {
		return nil
	}

	opts := s3.Options{
		Region: cfg.Region,
	}
	if cfg.AccessKey != "" {
		opts.Credentials = aws.NewCredentialsCache(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		)
	}
	if cfg.Endpoint != "" {
		opts.BaseEndpoint = aws.String(cfg.Endpoint)
		opts.UsePathStyle = true
	}

	return &S3Archiver{client: s3.New(opts), bucket: cfg.Bucket}
}

var ErrArchiveDisabled = errors.New("export archive not configured")

// Put uploads data and returns the object location.
func (a *S3Archiver) Put(ctx context.Context, name string, data []byte) (string, error) {
	if a == nil {
		return "", ErrArchiveDisabled
	}

	key := "archive/" + name
	_, err := a.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(a.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(ContentType),
	})
	if err != nil {
		return "", fmt.Errorf("s3 put %s: %w", key, err)
	}

	return fmt.Sprintf("s3://%s/%s", a.bucket, key), nil
}
