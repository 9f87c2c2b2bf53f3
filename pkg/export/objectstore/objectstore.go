// Package objectstore uploads release artifacts to S3 compatible storage
// and mints presigned download links for them.
package objectstore

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"path"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/shipgatedev/shipgate/internal/log"
)

var ErrUpload = errors.New("object store upload error")

// API is the slice of the S3 client the service needs.
type API interface {
	BucketExists(ctx context.Context, bucketName string) (bool, error)
	FPutObject(ctx context.Context, bucketName string, objectName string, filePath string,
		opts minio.PutObjectOptions) (minio.UploadInfo, error)
	PresignedGetObject(ctx context.Context, bucketName string, objectName string,
		expires time.Duration, reqParams url.Values) (*url.URL, error)
}

// Config carries the connection settings for an S3 compatible endpoint.
type Config struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	Prefix    string
}

// Enabled reports whether enough settings are present to attempt uploads.
func (c Config) Enabled() bool {
	return c.Endpoint != "" && c.AccessKey != "" && c.SecretKey != "" && c.Bucket != ""
}

// Result describes a completed upload.
type Result struct {
	Bucket     string
	ObjectName string
	Size       int64
	ShareURL   string
}

type Service struct {
	api    API
	bucket string
	prefix string
}

func NewService(api API, bucket string, prefix string) *Service {
	return &Service{api: api, bucket: bucket, prefix: prefix}
}

// NewServiceFromConfig dials the configured endpoint over TLS.
func NewServiceFromConfig(config Config) (*Service, error) {
	client, err := minio.New(config.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(config.AccessKey, config.SecretKey, ""),
		Secure: true,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUpload, err)
	}
	return NewService(client, config.Bucket, config.Prefix), nil
}

// Upload stores filePath under objectName and returns a presigned download
// link valid for expiry.
func (s *Service) Upload(ctx context.Context, filePath string, objectName string, expiry time.Duration) (Result, error) {
	objectName = path.Join(s.prefix, objectName)

	exists, err := s.api.BucketExists(ctx, s.bucket)
	if err != nil {
		return Result{}, fmt.Errorf("%w: checking bucket '%s': %v", ErrUpload, s.bucket, err)
	}
	if !exists {
		return Result{}, fmt.Errorf("%w: bucket '%s' does not exist", ErrUpload, s.bucket)
	}

	info, err := s.api.FPutObject(ctx, s.bucket, objectName, filePath, minio.PutObjectOptions{})
	if err != nil {
		return Result{}, fmt.Errorf("%w: putting '%s': %v", ErrUpload, objectName, err)
	}
	log.Infof("uploaded %s (%s) to bucket %s", objectName, humanize.Bytes(uint64(info.Size)), s.bucket)

	shareURL, err := s.api.PresignedGetObject(ctx, s.bucket, objectName, expiry, nil)
	if err != nil {
		return Result{}, fmt.Errorf("%w: presigning '%s': %v", ErrUpload, objectName, err)
	}

	return Result{
		Bucket:     s.bucket,
		ObjectName: objectName,
		Size:       info.Size,
		ShareURL:   shareURL.String(),
	}, nil
}
