package externals

import (
	"fmt"
	"mime/multipart"
	"os"
	"path/filepath"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3/s3manager"
	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// ImageStore persists uploaded images and returns their public URL.
type ImageStore interface {
	Upload(file *multipart.FileHeader, keyPrefix string) (string, error)
}

// S3ImageStore uploads to an S3 bucket under a random key.
type S3ImageStore struct {
	bucket   string
	uploader *s3manager.Uploader
}

// NewS3ImageStore builds the store from S3_BUCKET and AWS_REGION.
func NewS3ImageStore() (*S3ImageStore, error) {
	bucket := os.Getenv("S3_BUCKET")
	if bucket == "" {
		return nil, errors.New("S3_BUCKET is not set")
	}
	region := os.Getenv("AWS_REGION")
	if region == "" {
		region = "us-west-1"
	}
	sess, err := session.NewSession(&aws.Config{Region: aws.String(region)})
	if err != nil {
		return nil, errors.Wrap(err, "create aws session")
	}
	return &S3ImageStore{bucket: bucket, uploader: s3manager.NewUploader(sess)}, nil
}

func (s *S3ImageStore) Upload(file *multipart.FileHeader, keyPrefix string) (string, error) {
	src, err := file.Open()
	if err != nil {
		return "", errors.Wrap(err, "open upload")
	}
	defer src.Close()

	key := fmt.Sprintf("%s/%s%s", keyPrefix, uuid.NewString(), filepath.Ext(file.Filename))
	out, err := s.uploader.Upload(&s3manager.UploadInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
		Body:   src,
	})
	if err != nil {
		return "", errors.Wrap(err, "upload to s3")
	}
	return out.Location, nil
}

// FakeImageStore returns deterministic URLs without touching the
// network. Used in tests and when S3 is not configured.
type FakeImageStore struct{}

func (FakeImageStore) Upload(file *multipart.FileHeader, keyPrefix string) (string, error) {
	return fmt.Sprintf("https://images.travelbuddy.test/%s/%s", keyPrefix, file.Filename), nil
}
