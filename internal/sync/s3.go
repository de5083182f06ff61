package sync

import (
	"bytes"
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// DatePlaceholder in an S3 key is replaced with the UTC export date, so
// "rwa/{date}/journal.jsonl" keeps one archive per day.
const DatePlaceholder = "{date}"

// S3Destination uploads the journal export to an S3-compatible bucket.
type S3Destination struct {
	client *s3.Client
	bucket string
	key    string
	now    func() time.Time
}

// NewS3Destination creates an S3 destination. If endpoint is non-empty,
// path-style addressing is enabled (for MinIO and similar).
func NewS3Destination(ctx context.Context, bucket, key, region, endpoint string) (*S3Destination, error) {
	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(region),
	}

	cfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("load AWS config: %w", err)
	}

	var s3opts []func(*s3.Options)
	if endpoint != "" {
		s3opts = append(s3opts, func(o *s3.Options) {
			o.BaseEndpoint = aws.String(endpoint)
			o.UsePathStyle = true
		})
	}

	client := s3.NewFromConfig(cfg, s3opts...)
	return &S3Destination{
		client: client,
		bucket: bucket,
		key:    key,
		now:    time.Now,
	}, nil
}

func (d *S3Destination) Name() string {
	return "s3://" + d.bucket + "/" + d.key
}

// Write uploads the export under the key for the current date. The object
// carries the export time and record count as user metadata.
func (d *S3Destination) Write(ctx context.Context, data []byte) error {
	now := d.now().UTC()
	key := objectKey(d.key, now)
	_, err := d.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(d.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String("application/x-ndjson"),
		Metadata: map[string]string{
			"exported-at": now.Format(time.RFC3339),
			"records":     strconv.Itoa(bytes.Count(data, []byte{'\n'})),
		},
	})
	if err != nil {
		return fmt.Errorf("s3 put s3://%s/%s: %w", d.bucket, key, err)
	}
	return nil
}

func objectKey(template string, at time.Time) string {
	return strings.ReplaceAll(template, DatePlaceholder, at.UTC().Format("2006-01-02"))
}
