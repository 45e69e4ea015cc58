package output

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path"
	"path/filepath"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/tuannm99/novasort/internal/alias/util"
	"github.com/tuannm99/novasort/internal/storage"
)

var ErrNoBucket = errors.New("output: s3 bucket is empty")

// S3Sink uploads the decoded final run to s3://Bucket/Prefix/Name.
type S3Sink struct {
	Bucket string
	Prefix string
	Name   string

	uploader *manager.Uploader
}

// NewS3Sink wraps any client the upload manager accepts; *s3.Client in
// production, a mock in tests.
func NewS3Sink(client manager.UploadAPIClient, bucket, prefix, name string) (*S3Sink, error) {
	if bucket == "" {
		return nil, ErrNoBucket
	}
	if name == "" {
		name = filepath.Base(DefaultPath)
	}
	return &S3Sink{
		Bucket:   bucket,
		Prefix:   prefix,
		Name:     name,
		uploader: manager.NewUploader(client),
	}, nil
}

func (s *S3Sink) Key() string {
	return path.Join(s.Prefix, s.Name)
}

func (s *S3Sink) Publish(ctx context.Context, runPath string, codec storage.Codec) (string, error) {
	src, err := storage.OpenDecoded(runPath, codec)
	if err != nil {
		return "", fmt.Errorf("%w: open %s: %w", ErrPublish, runPath, err)
	}
	defer util.CloseFileFunc(src)

	key := s.Key()
	_, err = s.uploader.Upload(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.Bucket),
		Key:         aws.String(key),
		Body:        src,
		ContentType: aws.String("text/csv"),
	})
	if err != nil {
		return "", fmt.Errorf("%w: upload s3://%s/%s: %w", ErrPublish, s.Bucket, key, err)
	}

	loc := "s3://" + s.Bucket + "/" + key
	slog.Info("output: result uploaded", "location", loc)
	return loc, nil
}
