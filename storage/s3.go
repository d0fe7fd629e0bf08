package storage

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"quisine/models"
)

// S3Store uploads to an S3 compatible bucket and returns CDN URLs.
type S3Store struct {
	client    *minio.Client
	bucket    string
	cdnDomain string
}

func NewS3Store(endpoint, accessKey, secretKey, bucket, cdnDomain string, useSSL bool) (*S3Store, error) {
	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure: useSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize S3 client: %v", err)
	}
	if cdnDomain == "" {
		cdnDomain = endpoint + "/" + bucket
	}
	return &S3Store{client: client, bucket: bucket, cdnDomain: cdnDomain}, nil
}

func (s *S3Store) Upload(ctx context.Context, folder string, img models.ImageUpload) (string, error) {
	p, err := prepare(img)
	if err != nil {
		return "", err
	}
	key := objectKey(folder, p.ext)
	_, err = s.client.PutObject(ctx, s.bucket, key, bytes.NewReader(p.data), int64(len(p.data)), minio.PutObjectOptions{
		ContentType: p.contentType,
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload image to S3: %v", err)
	}
	return s.urlFor(key), nil
}

func (s *S3Store) Remove(ctx context.Context, ref string) error {
	key, ok := s.keyFor(ref)
	if !ok {
		return nil
	}
	return s.client.RemoveObject(ctx, s.bucket, key, minio.RemoveObjectOptions{})
}

func (s *S3Store) Owns(ref string) bool {
	_, ok := s.keyFor(ref)
	return ok
}

func (s *S3Store) urlFor(key string) string {
	return fmt.Sprintf("https://%s/%s", s.cdnDomain, key)
}

func (s *S3Store) keyFor(ref string) (string, bool) {
	prefix := fmt.Sprintf("https://%s/", s.cdnDomain)
	if !strings.HasPrefix(ref, prefix) || len(ref) == len(prefix) {
		return "", false
	}
	return strings.TrimPrefix(ref, prefix), true
}
