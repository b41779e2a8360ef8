package utils

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/url"
	"path"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// R2Config holds Cloudflare R2 credentials.
type R2Config struct {
	AccountID       string
	AccessKeyID     string
	SecretAccessKey string
	Bucket          string
	PublicURL       string // e.g. https://pub-<hash>.r2.dev
}

// Enabled reports whether every required value is present.
func (c R2Config) Enabled() bool {
	return c.AccountID != "" && c.Bucket != "" && c.PublicURL != "" && c.AccessKeyID != "" && c.SecretAccessKey != ""
}

// R2Store uploads invoice PDFs to an R2 bucket through the S3 API.
type R2Store struct {
	client     *s3.Client
	bucket     string
	publicBase string
}

func NewR2Store(ctx context.Context, c R2Config) (*R2Store, error) {
	if !c.Enabled() {
		return nil, errors.New("missing required R2 settings")
	}

	cfg, err := config.LoadDefaultConfig(ctx,
		config.WithRegion("auto"), // R2 ignores the region but the SDK requires one
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(c.AccessKeyID, c.SecretAccessKey, "")),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load R2 config: %w", err)
	}

	endpoint := fmt.Sprintf("https://%s.r2.cloudflarestorage.com", c.AccountID)
	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(endpoint)
	})
	return &R2Store{client: client, bucket: c.Bucket, publicBase: strings.TrimRight(c.PublicURL, "/")}, nil
}

// PublicURL is the address an uploaded key is served from.
func (s *R2Store) PublicURL(key string) string {
	return s.publicBase + "/" + url.PathEscape(key)
}

// Upload stores a PDF under key and returns its public URL.
func (s *R2Store) Upload(ctx context.Context, key string, body []byte) (string, error) {
	key = path.Base(key)
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(body),
		ContentType: aws.String("application/pdf"),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload to R2: %w", err)
	}
	return s.PublicURL(key), nil
}

// Delete removes the object behind a URL returned by Upload.
func (s *R2Store) Delete(ctx context.Context, fileURL string) error {
	u, err := url.Parse(fileURL)
	if err != nil {
		return fmt.Errorf("invalid file URL: %w", err)
	}
	_, err = s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(path.Base(u.Path)),
	})
	if err != nil {
		return fmt.Errorf("failed to delete R2 object: %w", err)
	}
	return nil
}
