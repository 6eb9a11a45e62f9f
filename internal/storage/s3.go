package storage

import (
	"bytes"
	"context"
	"fmt"
	"log"
	"path"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// S3Backend stores uploads in an S3 compatible bucket. A custom endpoint
// supports MinIO style deployments.
type S3Backend struct {
	client *s3.Client
	bucket string
}

func NewS3Backend(region string, bucket string, endpoint string, accessKey string, secretKey string) (*S3Backend, error) {
	cfg, err := awsconfig.LoadDefaultConfig(context.Background(),
		awsconfig.WithRegion(region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(accessKey, secretKey, "")),
	)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	client := s3.NewFromConfig(cfg, func(options *s3.Options) {
		if endpoint != "" {
			options.BaseEndpoint = aws.String(endpoint)
			options.UsePathStyle = true
		}
	})

	return &S3Backend{client: client, bucket: bucket}, nil
}

func (backend *S3Backend) Save(data []byte, folder string, organizationID string, userID string, fileName string) (SavedFile, error) {
	if !safeFileName(fileName) {
		return SavedFile{}, fmt.Errorf("%w: %q", ErrUnsafeFileName, fileName)
	}
	key := path.Join(organizationID, userID, folder, fileName)
	_, err := backend.client.PutObject(context.Background(), &s3.PutObjectInput{
		Bucket: aws.String(backend.bucket),
		Key:    aws.String(key),
		Body:   bytes.NewReader(data),
	})
	if err != nil {
		return SavedFile{}, fmt.Errorf("put object %s: %w", key, err)
	}

	fileURL := fmt.Sprintf("s3://%s/%s", backend.bucket, key)
	return SavedFile{URL: fileURL, ThumbnailURL: fileURL}, nil
}

func (backend *S3Backend) Delete(fileURL string) bool {
	key := strings.TrimPrefix(fileURL, fmt.Sprintf("s3://%s/", backend.bucket))
	if key == fileURL {
		return false
	}
	_, err := backend.client.DeleteObject(context.Background(), &s3.DeleteObjectInput{
		Bucket: aws.String(backend.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		log.Printf("delete object %s failed: %v", key, err)
		return false
	}
	return true
}
