// Package storage puts snap images into an S3-compatible object store.
package storage

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	sc "github.com/dmitrijs2005/snapline/internal/server/config"
)

// ObjectStore is the surface the snap service needs: store bytes under a
// key, get back a URL clients can fetch.
type ObjectStore interface {
	Upload(ctx context.Context, key string, data []byte, contentType string) (string, error)
}

type S3Store struct {
	config *sc.Config
	client *s3.Client
}

// NewS3Store builds an S3 client from static credentials and a custom base
// endpoint (MinIO-compatible).
func NewS3Store(ctx context.Context, c *sc.Config) (*S3Store, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(c.S3Region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			c.S3RootUser,
			c.S3RootPassword,
			"",
		)))
	if err != nil {
		return nil, err
	}

	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(c.S3BaseEndpoint)
		o.UsePathStyle = true
	})

	return &S3Store{config: c, client: client}, nil
}

func (s *S3Store) Upload(ctx context.Context, key string, data []byte, contentType string) (string, error) {

	bucket := s.config.S3Bucket

	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      &bucket,
		Key:         &key,
		Body:        bytes.NewReader(data),
		ContentType: &contentType,
	})
	if err != nil {
		return "", fmt.Errorf("s3 put error: %w", err)
	}

	return fmt.Sprintf("%s/%s/%s",
		strings.TrimRight(s.config.S3BaseEndpoint, "/"), bucket, key), nil
}

// RandomStorageKey returns a date-partitioned unique object key.
func RandomStorageKey() string {
	d := time.Now()
	return fmt.Sprintf("snaps/%d/%d/%d/%v", d.Year(), d.Month(), d.Day(), uuid.New())
}
