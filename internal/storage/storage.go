package storage

import (
	"context"
	"fmt"
	"io"
	"mime"
	"path"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"

	"fitness-backend/internal/config"
)

// Uploader stores uploaded attachments (course covers, receipts, contracts)
// in an S3-compatible bucket and hands back public URLs.
type Uploader struct {
	client  *s3.Client
	bucket  string
	baseURL string
}

func NewUploader(ctx context.Context, cfg *config.Config) (*Uploader, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.Storage.AccessKey,
			cfg.Storage.SecretKey,
			"",
		)),
		awsconfig.WithRegion(cfg.Storage.Region),
	)
	if err != nil {
		return nil, fmt.Errorf("configure storage client: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Storage.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Storage.Endpoint)
		}
	})

	return &Uploader{
		client:  client,
		bucket:  cfg.Storage.Bucket,
		baseURL: strings.TrimRight(cfg.Storage.PublicBaseURL, "/"),
	}, nil
}

// Upload stores the stream under a dated random key and returns its public
// URL. The original filename only contributes its extension.
func (u *Uploader) Upload(ctx context.Context, prefix, filename string, body io.Reader) (string, error) {
	ext := strings.ToLower(path.Ext(filename))
	key := fmt.Sprintf("%s/%s/%s%s", prefix, time.Now().UTC().Format("2006/01/02"), uuid.NewString(), ext)

	contentType := mime.TypeByExtension(ext)
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	_, err := u.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(u.bucket),
		Key:         aws.String(key),
		Body:        body,
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("upload %s: %w", key, err)
	}

	return u.baseURL + "/" + key, nil
}
