package audiostore

import (
	"bytes"
	"context"
	"fmt"
	"net/url"
	"os"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// S3Archive keeps durable copies of uploaded clips in object storage.
type S3Archive struct {
	client *minio.Client
	bucket string
	host   string
}

func NewS3Archive() (*S3Archive, error) {
	endpoint := os.Getenv("S3_ENDPOINT")
	accessKey := os.Getenv("S3_ACCESS_KEY")
	secretKey := os.Getenv("S3_SECRET_KEY")
	bucket := os.Getenv("S3_BUCKET")
	region := os.Getenv("S3_REGION")

	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure: true,
		Region: region,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to init S3 client: %w", err)
	}

	exists, err := client.BucketExists(context.Background(), bucket)
	if err != nil {
		return nil, fmt.Errorf("failed to check bucket: %w", err)
	}
	if !exists {
		return nil, fmt.Errorf("bucket %q does not exist", bucket)
	}

	return &S3Archive{
		client: client,
		bucket: bucket,
		host:   fmt.Sprintf("https://%s", endpoint),
	}, nil
}

// Archive uploads the clip under clips/<session>/<date>/<filename> and
// returns the public URL.
func (s *S3Archive) Archive(ctx context.Context, sessionID, filename string, data []byte) (string, error) {
	key := fmt.Sprintf("clips/%s/%s/%s", sessionID, time.Now().Format("2006-01-02"), filename)

	_, err := s.client.PutObject(ctx, s.bucket, key, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType:  "audio/webm",
		UserMetadata: map[string]string{"uploaded-at": time.Now().Format(time.RFC3339)},
	})
	if err != nil {
		return "", fmt.Errorf("archive clip: %w", err)
	}

	return fmt.Sprintf("%s/%s/%s", s.host, s.bucket, url.PathEscape(key)), nil
}
