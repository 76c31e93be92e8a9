// Package publish uploads finished release archives to an S3-compatible
// bucket.
package publish

import (
	"context"
	"errors"
	"fmt"
	"path"
	"path/filepath"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// Config describes the destination bucket.
type Config struct {
	Endpoint  string
	Bucket    string
	Prefix    string
	Region    string
	AccessKey string
	SecretKey string
	Insecure  bool
}

// Enabled reports whether an upload destination is configured.
func (c Config) Enabled() bool {
	return c.Endpoint != "" && c.Bucket != ""
}

// Validate checks that an enabled configuration is usable.
func (c Config) Validate() error {
	if !c.Enabled() {
		return nil
	}
	if c.AccessKey == "" || c.SecretKey == "" {
		return errors.New("publish credentials are required (RELFORGE_S3_ACCESS_KEY, RELFORGE_S3_SECRET_KEY)")
	}
	if strings.Contains(c.Endpoint, "://") {
		return fmt.Errorf("publish endpoint must be host[:port] without a scheme: %s", c.Endpoint)
	}
	return nil
}

// ObjectName returns the key used for file under the configured prefix.
func (c Config) ObjectName(file string) string {
	name := filepath.Base(file)
	prefix := strings.Trim(c.Prefix, "/")
	if prefix == "" {
		return name
	}
	return path.Join(prefix, name)
}

// Uploader puts release files into the bucket.
type Uploader struct {
	cfg    Config
	client *minio.Client
}

// New creates an Uploader. It does not contact the endpoint.
func New(cfg Config) (*Uploader, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: !cfg.Insecure,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create storage client: %w", err)
	}

	return &Uploader{cfg: cfg, client: client}, nil
}

// Upload stores each file and returns the object keys written.
func (u *Uploader) Upload(ctx context.Context, files ...string) ([]string, error) {
	exists, err := u.client.BucketExists(ctx, u.cfg.Bucket)
	if err != nil {
		return nil, fmt.Errorf("failed to reach bucket %s: %w", u.cfg.Bucket, err)
	}
	if !exists {
		return nil, fmt.Errorf("bucket %s does not exist", u.cfg.Bucket)
	}

	keys := make([]string, 0, len(files))
	for _, file := range files {
		key := u.cfg.ObjectName(file)
		_, err := u.client.FPutObject(ctx, u.cfg.Bucket, key, file, minio.PutObjectOptions{
			ContentType: contentType(file),
		})
		if err != nil {
			return keys, fmt.Errorf("failed to upload %s: %w", filepath.Base(file), err)
		}
		keys = append(keys, key)
	}
	return keys, nil
}

func contentType(file string) string {
	switch strings.ToLower(filepath.Ext(file)) {
	case ".zip":
		return "application/zip"
	case ".sha256":
		return "text/plain; charset=utf-8"
	default:
		return "application/octet-stream"
	}
}
