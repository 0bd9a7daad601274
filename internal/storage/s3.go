package storage

import (
	"bytes"
	"context"
	"io"
	"path"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/awserr"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"

	"github.com/ethetl/ethetl/internal/apperrors"
	"github.com/ethetl/ethetl/internal/config"
)

// S3 is the S3 Storage Operator backend (storage.s3.*).
type S3 struct {
	client *s3.S3
	bucket string
	root   string
}

// NewS3 dials an S3-compatible endpoint per cfg. EndpointURL lets this target
// MinIO or any other S3-compatible store, not just AWS.
func NewS3(cfg config.S3StorageConfig) (*S3, error) {
	awsCfg := aws.NewConfig().
		WithRegion(cfg.Region).
		WithS3ForcePathStyle(!cfg.EnableVirtualAddress)

	if cfg.EndpointURL != "" {
		awsCfg = awsCfg.WithEndpoint(cfg.EndpointURL)
	}
	if cfg.AccessKeyID != "" {
		awsCfg = awsCfg.WithCredentials(credentials.NewStaticCredentials(cfg.AccessKeyID, cfg.SecretAccessKey, ""))
	}

	sess, err := session.NewSession(awsCfg)
	if err != nil {
		return nil, &apperrors.ConfigError{Field: "storage.s3", Reason: err.Error()}
	}

	return &S3{client: s3.New(sess), bucket: cfg.Bucket, root: cfg.Root}, nil
}

func (o *S3) key(p string) string { return path.Join(o.root, p) }

// Put uploads data as the object at key(path), overwriting any existing object.
func (o *S3) Put(ctx context.Context, p string, data []byte) error {
	key := o.key(p)
	_, err := o.client.PutObjectWithContext(ctx, &s3.PutObjectInput{
		Bucket: aws.String(o.bucket),
		Key:    aws.String(key),
		Body:   bytes.NewReader(data),
	})
	if err != nil {
		return &apperrors.TransientError{Op: "s3.put", Err: err}
	}
	return nil
}

// Get downloads the object at key(path) in full.
func (o *S3) Get(ctx context.Context, p string) ([]byte, error) {
	key := o.key(p)
	out, err := o.client.GetObjectWithContext(ctx, &s3.GetObjectInput{
		Bucket: aws.String(o.bucket),
		Key:    aws.String(key),
	})
	if isNotFound(err) {
		return nil, &ObjectNotFoundError{Path: p}
	}
	if err != nil {
		return nil, &apperrors.TransientError{Op: "s3.get", Err: err}
	}
	defer out.Body.Close()
	return io.ReadAll(out.Body)
}

// Stat reports whether the object at key(path) exists via HeadObject.
func (o *S3) Stat(ctx context.Context, p string) (bool, error) {
	key := o.key(p)
	_, err := o.client.HeadObjectWithContext(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(o.bucket),
		Key:    aws.String(key),
	})
	if isNotFound(err) {
		return false, nil
	}
	if err != nil {
		return false, &apperrors.TransientError{Op: "s3.stat", Err: err}
	}
	return true, nil
}

func isNotFound(err error) bool {
	aerr, ok := err.(awserr.Error)
	if !ok {
		return false
	}
	switch aerr.Code() {
	case s3.ErrCodeNoSuchKey, "NotFound":
		return true
	default:
		return false
	}
}
