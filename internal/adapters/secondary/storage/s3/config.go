package s3

import (
	"context"
	"fmt"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

type Config struct {
	Host       string        `envconfig:"HOST"` // localhost:9000
	AccessKey  string        `envconfig:"ACCESS_KEY"`
	SecretKey  string        `envconfig:"SECRET_KEY"`
	Bucket     string        `envconfig:"BUCKET" default:"stars-reports"`
	UseSSL     bool          `envconfig:"USE_SSL" default:"false"`
	PresignTTL time.Duration `envconfig:"PRESIGN_TTL" default:"15m"`
}

// IsEnabled выгрузка отчётов доступна только при заданном host
func (c *Config) IsEnabled() bool {
	return c != nil && c.Host != ""
}

// NewClient создаёт MinIO клиент и создаёт bucket, если его нет
func (c *Config) NewClient() (*minio.Client, error) {
	client, err := minio.New(c.Host, &minio.Options{
		Creds:  credentials.NewStaticV4(c.AccessKey, c.SecretKey, ""),
		Secure: c.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create minio client: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	exists, err := client.BucketExists(ctx, c.Bucket)
	if err != nil {
		return nil, fmt.Errorf("failed to check bucket existence: %w", err)
	}

	if !exists {
		if err := client.MakeBucket(ctx, c.Bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("failed to create bucket %s: %w", c.Bucket, err)
		}
	}

	return client, nil
}
