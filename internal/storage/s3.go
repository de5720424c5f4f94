package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/awserr"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"

	"github.com/broucz/machine-learning-suite/internal/pipeline"
)

// S3Storage persists partitions as parquet objects in an S3 bucket.
type S3Storage struct {
	bucket string
	svc    *s3.S3
}

// NewS3Storage creates a store bound to the given bucket.
func NewS3Storage(region, bucket string) (*S3Storage, error) {
	sess, err := session.NewSession(&aws.Config{Region: aws.String(region)})
	if err != nil {
		return nil, fmt.Errorf("creating AWS session: %w", err)
	}
	return &S3Storage{bucket: bucket, svc: s3.New(sess)}, nil
}

func (s *S3Storage) key(path string) string {
	return path + ".parquet"
}

// Write serializes the table and uploads it to s3://<bucket>/<path>.parquet.
func (s *S3Storage) Write(ctx context.Context, t *pipeline.Table, path string) error {
	var buf bytes.Buffer
	if err := writeTable(&buf, t); err != nil {
		return err
	}
	_, err := s.svc.PutObjectWithContext(ctx, &s3.PutObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.key(path)),
		Body:   bytes.NewReader(buf.Bytes()),
	})
	if err != nil {
		return fmt.Errorf("uploading s3://%s/%s: %w", s.bucket, s.key(path), err)
	}
	return nil
}

// Read downloads and concatenates the given partitions into one table.
func (s *S3Storage) Read(ctx context.Context, paths []string) (*pipeline.Table, error) {
	table := pipeline.NewTable(nil)
	for _, path := range paths {
		out, err := s.svc.GetObjectWithContext(ctx, &s3.GetObjectInput{
			Bucket: aws.String(s.bucket),
			Key:    aws.String(s.key(path)),
		})
		if err != nil {
			return nil, fmt.Errorf("fetching s3://%s/%s: %w", s.bucket, s.key(path), err)
		}
		data, err := io.ReadAll(out.Body)
		out.Body.Close()
		if err != nil {
			return nil, fmt.Errorf("downloading s3://%s/%s: %w", s.bucket, s.key(path), err)
		}
		partition, err := readTable(bytes.NewReader(data))
		if err != nil {
			return nil, fmt.Errorf("reading s3://%s/%s: %w", s.bucket, s.key(path), err)
		}
		table.AppendTable(partition)
	}
	return table, nil
}

// Exists reports whether the partition object is already in the bucket.
func (s *S3Storage) Exists(ctx context.Context, path string) (bool, error) {
	_, err := s.svc.HeadObjectWithContext(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.key(path)),
	})
	if err == nil {
		return true, nil
	}
	if aerr, ok := err.(awserr.Error); ok && (aerr.Code() == "NotFound" || aerr.Code() == s3.ErrCodeNoSuchKey) {
		return false, nil
	}
	return false, err
}
