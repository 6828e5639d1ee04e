package s3

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	aws "github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	awss3 "github.com/aws/aws-sdk-go-v2/service/s3"
)

// Store sube fotos a un bucket S3 (o compatible, p.ej. MinIO).
// Superficie mínima: un solo bucket, keys directas.
type Store struct {
	client    *awss3.Client
	bucket    string
	region    string
	endpoint  string
	pathStyle bool
}

// Config de construcción explícita (útil en tests). En prod normalmente
// se usa OpenFromEnv.
type Config struct {
	Region    string
	Bucket    string
	Endpoint  string // opcional; habilita endpoint custom (MinIO)
	PathStyle bool
}

// New crea un Store desde Config. Las credenciales salen de la cadena
// default del SDK (env vars, profile, IAM role).
func New(ctx context.Context, cfg Config) (*Store, error) {
	if strings.TrimSpace(cfg.Bucket) == "" {
		return nil, errors.New("s3 bucket required")
	}
	region := cfg.Region
	if region == "" {
		region = "us-east-1"
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	client := awss3.NewFromConfig(awsCfg, func(o *awss3.Options) {
		if cfg.PathStyle {
			o.UsePathStyle = true
		}
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
	})

	return &Store{
		client:    client,
		bucket:    cfg.Bucket,
		region:    region,
		endpoint:  strings.TrimRight(cfg.Endpoint, "/"),
		pathStyle: cfg.PathStyle,
	}, nil
}

// OpenFromEnv construye el Store desde env:
// - BLOB_S3_BUCKET (requerido)
// - BLOB_S3_REGION (default us-east-1)
// - BLOB_S3_ENDPOINT (opcional, para MinIO)
// - BLOB_S3_PATH_STYLE=true|false (default false)
func OpenFromEnv(ctx context.Context) (*Store, error) {
	bucket := os.Getenv("BLOB_S3_BUCKET")
	if bucket == "" {
		return nil, errors.New("BLOB_S3_BUCKET required")
	}
	return New(ctx, Config{
		Bucket:    bucket,
		Region:    os.Getenv("BLOB_S3_REGION"),
		Endpoint:  os.Getenv("BLOB_S3_ENDPOINT"),
		PathStyle: strings.EqualFold(os.Getenv("BLOB_S3_PATH_STYLE"), "true"),
	})
}

// Put implementa blob.Store: sube el objeto y devuelve su URL pública.
func (s *Store) Put(ctx context.Context, key string, r io.Reader, contentType string) (string, error) {
	if strings.TrimSpace(key) == "" {
		return "", errors.New("object key required")
	}

	input := &awss3.PutObjectInput{
		Bucket: &s.bucket,
		Key:    &key,
		Body:   r,
	}
	if contentType != "" {
		input.ContentType = &contentType
	}

	if _, err := s.client.PutObject(ctx, input); err != nil {
		return "", fmt.Errorf("put object %s: %w", key, err)
	}

	return s.publicURL(key), nil
}

func (s *Store) publicURL(key string) string {
	if s.endpoint != "" {
		// Con endpoint custom asumimos path-style (formato típico de MinIO).
		return fmt.Sprintf("%s/%s/%s", s.endpoint, s.bucket, key)
	}
	if s.pathStyle {
		return fmt.Sprintf("https://s3.%s.amazonaws.com/%s/%s", s.region, s.bucket, key)
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", s.bucket, s.region, key)
}
