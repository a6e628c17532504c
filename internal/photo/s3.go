package photo

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// S3Options configures the S3-backed uploader.
type S3Options struct {
	Bucket  string
	Region  string
	Profile string
	// KeyPrefix is prepended to every object key.
	KeyPrefix string
	// PublicBaseURL overrides the default virtual-hosted S3 URL, for
	// buckets served through a CDN or custom domain.
	PublicBaseURL string
}

// S3Uploader stores images in an S3 bucket and returns their public URL.
type S3Uploader struct {
	client *s3.Client
	opts   S3Options
}

func NewS3Uploader(ctx context.Context, opts S3Options) (*S3Uploader, error) {
	if strings.TrimSpace(opts.Bucket) == "" {
		return nil, fmt.Errorf("photo: bucket is required")
	}

	loadOpts := []func(*awsconfig.LoadOptions) error{}
	if opts.Profile != "" {
		loadOpts = append(loadOpts, awsconfig.WithSharedConfigProfile(opts.Profile))
	}
	if opts.Region != "" {
		loadOpts = append(loadOpts, awsconfig.WithRegion(opts.Region))
	}
	cfg, err := awsconfig.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("photo: load aws config: %w", err)
	}

	return &S3Uploader{
		client: s3.NewFromConfig(cfg),
		opts:   opts,
	}, nil
}

func (u *S3Uploader) Upload(ctx context.Context, key, contentType string, data []byte) (string, error) {
	if prefix := strings.Trim(u.opts.KeyPrefix, "/"); prefix != "" {
		key = prefix + "/" + key
	}

	_, err := u.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(u.opts.Bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("photo: upload %s: %w", key, err)
	}

	if base := strings.TrimRight(u.opts.PublicBaseURL, "/"); base != "" {
		return base + "/" + key, nil
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", u.opts.Bucket, u.opts.Region, key), nil
}
