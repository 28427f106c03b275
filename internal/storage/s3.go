package storage

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/mostafayousef44200444-rgb/backend/internal/config"

	"github.com/aws/aws-sdk-go-v2/aws"
	awscfg "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// s3Store is the S3-compatible image host driver.
// Works with AWS S3, MinIO, DigitalOcean Spaces, Cloudflare R2.
type s3Store struct {
	client  *s3.Client
	bucket  string
	baseURL string
	prefix  string
	logger  zerolog.Logger
}

// NewS3Store creates an image store backed by an S3-compatible bucket.
func NewS3Store(ctx context.Context, cfg config.ImageStoreConfig, logger zerolog.Logger) (ImageStore, error) {
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("storage: image bucket is not configured")
	}

	opts := []func(*awscfg.LoadOptions) error{
		awscfg.WithRegion(cfg.Region),
	}

	// Static credentials (required for MinIO / R2 / Spaces)
	if cfg.Key != "" && cfg.Secret != "" {
		opts = append(opts, awscfg.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.Key, cfg.Secret, ""),
		))
	}

	awsCfg, err := awscfg.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("storage: load config: %w", err)
	}

	clientOpts := []func(*s3.Options){}
	if cfg.Endpoint != "" {
		clientOpts = append(clientOpts, func(o *s3.Options) {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true // required for MinIO
		})
	}

	return &s3Store{
		client:  s3.NewFromConfig(awsCfg, clientOpts...),
		bucket:  cfg.Bucket,
		baseURL: strings.TrimRight(cfg.PublicURL(), "/"),
		prefix:  strings.TrimLeft(cfg.Prefix, "/"),
		logger:  logger.With().Str("storage", "s3").Logger(),
	}, nil
}

// Upload stores the image under a random key and returns its public URL.
func (s *s3Store) Upload(ctx context.Context, filename string, data []byte) (string, error) {
	key := s.prefix + uuid.NewString() + strings.ToLower(filepath.Ext(filename))

	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(http.DetectContentType(data)),
	})
	if err != nil {
		s.logger.Error().Err(err).Str("key", key).Msg("failed to upload image")
		return "", fmt.Errorf("storage: put %s: %w", key, err)
	}

	s.logger.Debug().Str("key", key).Int("size", len(data)).Msg("image uploaded")

	return s.baseURL + "/" + key, nil
}
