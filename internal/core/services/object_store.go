package services

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// S3Source describes the bucket the raw telemetry objects land in.
type S3Source struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Region    string
	Bucket    string
	Prefix    string
	Insecure  bool
}

// S3ObjectStore reads raw JSON objects from an S3-compatible bucket.
type S3ObjectStore struct {
	client *minio.Client
	bucket string
	prefix string
}

func NewS3ObjectStore(source S3Source) (*S3ObjectStore, error) {
	region := source.Region
	if region == "" {
		region = "us-east-1"
	}

	minioClient, err := minio.New(source.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(source.AccessKey, source.SecretKey, ""),
		Secure: !source.Insecure,
		Region: region,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create s3 client - %w", err)
	}

	return &S3ObjectStore{
		client: minioClient,
		bucket: source.Bucket,
		prefix: source.Prefix,
	}, nil
}

// List returns the keys of every object under the configured prefix.
func (s *S3ObjectStore) List(ctx context.Context) ([]string, error) {
	var keys []string

	objects := s.client.ListObjects(ctx, s.bucket, minio.ListObjectsOptions{
		Prefix:    s.prefix,
		Recursive: true,
	})
	for object := range objects {
		if object.Err != nil {
			return nil, fmt.Errorf("failed to list bucket %s - %w", s.bucket, object.Err)
		}
		if strings.HasSuffix(object.Key, "/") {
			// prefix placeholder, not a data object
			continue
		}
		keys = append(keys, object.Key)
	}

	return keys, nil
}

func (s *S3ObjectStore) Fetch(ctx context.Context, key string) (io.ReadCloser, error) {
	object, err := s.client.GetObject(ctx, s.bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch object %s - %w", key, err)
	}
	return object, nil
}
