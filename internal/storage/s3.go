package storage

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
)

// S3Options configures the target bucket and how object URLs are rendered.
type S3Options struct {
	Bucket string
	Region string
	// Endpoint is set for S3-compatible stores; objects are then addressed
	// path-style as <endpoint>/<bucket>/<key>.
	Endpoint string
	// PublicBaseURL, when set, overrides URL construction entirely
	// (e.g. a CDN in front of the bucket).
	PublicBaseURL string
}

// S3Service stores avatar blobs in Amazon S3 (or compatible APIs).
type S3Service struct {
	client   *s3.Client
	uploader *manager.Uploader
	opts     S3Options
}

func NewS3Service(client *s3.Client, opts S3Options) *S3Service {
	return &S3Service{
		client:   client,
		uploader: manager.NewUploader(client),
		opts:     opts,
	}
}

func (s *S3Service) Upload(ctx context.Context, key string, body io.Reader, contentType string) error {
	if s.opts.Bucket == "" {
		return fmt.Errorf("storage bucket is required")
	}
	if strings.TrimSpace(key) == "" {
		return fmt.Errorf("object key is required")
	}

	input := &s3.PutObjectInput{
		Bucket: aws.String(s.opts.Bucket),
		Key:    aws.String(key),
		Body:   body,
		ACL:    types.ObjectCannedACLPublicRead,
	}
	if contentType != "" {
		input.ContentType = aws.String(contentType)
	}

	if _, err := s.uploader.Upload(ctx, input); err != nil {
		return fmt.Errorf("upload %s: %w", key, err)
	}
	return nil
}

func (s *S3Service) Delete(ctx context.Context, key string) error {
	if s.opts.Bucket == "" {
		return fmt.Errorf("storage bucket is required")
	}
	trimmed := strings.TrimSpace(key)
	if trimmed == "" {
		return fmt.Errorf("object key is required")
	}

	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.opts.Bucket),
		Key:    aws.String(trimmed),
	})
	if err != nil {
		return fmt.Errorf("delete object %s: %w", trimmed, err)
	}
	return nil
}

func (s *S3Service) ObjectURL(key string) string {
	if key == "" {
		return ""
	}
	if base := strings.TrimSuffix(s.opts.PublicBaseURL, "/"); base != "" {
		return base + "/" + key
	}
	if endpoint := strings.TrimSuffix(s.opts.Endpoint, "/"); endpoint != "" {
		return fmt.Sprintf("%s/%s/%s", endpoint, s.opts.Bucket, key)
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", s.opts.Bucket, s.opts.Region, key)
}

var _ Service = (*S3Service)(nil)
