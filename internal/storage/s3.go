// Package storage archives generated CSV exports to S3-compatible object
// storage.
package storage

import (
	"bytes"
	"compress/gzip"
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"

	"github.com/prensalab/prensa/internal/config"
)

// Client wraps an S3-compatible object storage client.
type Client struct {
	s3     *s3.Client
	bucket string
}

// NewClient creates a new S3-compatible storage client. An empty endpoint
// leaves archiving disabled rather than failing startup.
func NewClient(ctx context.Context, cfg config.ArchiveConfig) (*Client, error) {
	if cfg.Endpoint == "" {
		slog.Warn("archive endpoint not configured, export archiving disabled")
		return &Client{bucket: cfg.Bucket}, nil
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(cfg.Region),
		awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("storage: load aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.BaseEndpoint = &cfg.Endpoint
		o.UsePathStyle = true
	})

	return &Client{
		s3:     client,
		bucket: cfg.Bucket,
	}, nil
}

// Configured returns true if the client has a valid connection configured.
func (c *Client) Configured() bool {
	return c.s3 != nil
}

// StoreExport compresses and uploads one CSV export. The returned key embeds
// the date and a fresh id so repeated exports never overwrite each other.
func (c *Client) StoreExport(ctx context.Context, name string, data []byte) (string, error) {
	if c.s3 == nil {
		slog.Warn("export archiving not configured, skipping upload", "name", name)
		return "", nil
	}

	key := fmt.Sprintf("exports/%s/%s-%s.gz",
		time.Now().UTC().Format("2006-01-02"), uuid.New(), name)

	compressed, err := gzipCompress(data)
	if err != nil {
		return "", fmt.Errorf("storage: compress %s: %w", name, err)
	}

	_, err = c.s3.PutObject(ctx, &s3.PutObjectInput{
		Bucket: &c.bucket,
		Key:    &key,
		Body:   bytes.NewReader(compressed),
	})
	if err != nil {
		return "", fmt.Errorf("storage: upload %s: %w", key, err)
	}

	slog.Debug("export archived", "key", key, "size", len(compressed))
	return key, nil
}

// GetExport retrieves and decompresses one archived export by key.
func (c *Client) GetExport(ctx context.Context, key string) ([]byte, error) {
	if c.s3 == nil {
		return nil, fmt.Errorf("storage: not configured")
	}

	out, err := c.s3.GetObject(ctx, &s3.GetObjectInput{
		Bucket: &c.bucket,
		Key:    &key,
	})
	if err != nil {
		return nil, fmt.Errorf("storage: get %s: %w", key, err)
	}
	defer out.Body.Close()

	data, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, fmt.Errorf("storage: read %s: %w", key, err)
	}

	return gzipDecompress(data)
}

func gzipCompress(data []byte) ([]byte, error) {
	var buf bytes.Buffer
	w := gzip.NewWriter(&buf)
	if _, err := w.Write(data); err != nil {
		return nil, err
	}
	if err := w.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func gzipDecompress(data []byte) ([]byte, error) {
	r, err := gzip.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	defer r.Close()
	return io.ReadAll(r)
}
