// Package publish copies generated reports to remote storage.
package publish

import (
	"context"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"golang.org/x/sync/errgroup"

	"github.com/harrison/projexport/internal/config"
	"github.com/harrison/projexport/internal/metrics"
)

// maxParallelUploads bounds concurrent PutObject calls per Publish.
const maxParallelUploads = 4

// UploadError reports a report that could not be uploaded.
type UploadError struct {
	File string
	Key  string
	Err  error
}

func (e *UploadError) Error() string {
	return fmt.Sprintf("failed to upload %s to %s: %v", e.File, e.Key, e.Err)
}

func (e *UploadError) Unwrap() error {
	return e.Err
}

// PutObjectAPI is the part of the S3 client used for uploads.
type PutObjectAPI interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3Publisher uploads reports to bucket/prefix/<project>/<file>.
type S3Publisher struct {
	client PutObjectAPI
	bucket string
	prefix string
}

// NewS3Publisher builds a client from cfg. Static credentials are used when
// configured, otherwise the default AWS credential chain applies. A custom
// endpoint (MinIO and friends) switches to path-style addressing.
func NewS3Publisher(ctx context.Context, cfg config.S3Config) (*S3Publisher, error) {
	opts := []func(*awsconfig.LoadOptions) error{}
	if cfg.Region != "" {
		opts = append(opts, awsconfig.WithRegion(cfg.Region))
	}
	if cfg.AccessKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})

	return NewS3PublisherWithClient(client, cfg.Bucket, cfg.Prefix), nil
}

// NewS3PublisherWithClient wraps an existing client.
func NewS3PublisherWithClient(client PutObjectAPI, bucket, prefix string) *S3Publisher {
	return &S3Publisher{
		client: client,
		bucket: bucket,
		prefix: strings.Trim(prefix, "/"),
	}
}

// Key returns the object key for a report of project.
func (p *S3Publisher) Key(project, file string) string {
	return path.Join(p.prefix, project, filepath.Base(file))
}

// Publish uploads files in parallel and returns their s3:// locations in the
// order given. The first failure cancels the remaining uploads.
func (p *S3Publisher) Publish(ctx context.Context, project string, files []string) ([]string, error) {
	locations := make([]string, len(files))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxParallelUploads)

	for i, file := range files {
		i, file := i, file
		key := p.Key(project, file)
		g.Go(func() error {
			if err := p.upload(gctx, file, key); err != nil {
				return &UploadError{File: file, Key: key, Err: err}
			}
			locations[i] = fmt.Sprintf("s3://%s/%s", p.bucket, key)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return locations, nil
}

func (p *S3Publisher) upload(ctx context.Context, file, key string) error {
	f, err := os.Open(file)
	if err != nil {
		return err
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return err
	}

	start := time.Now()
	_, err = p.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(p.bucket),
		Key:           aws.String(key),
		Body:          f,
		ContentLength: aws.Int64(info.Size()),
		ContentType:   aws.String(contentType(file)),
	})
	metrics.RecordS3Operation("put_object", time.Since(start), err == nil)
	return err
}

func contentType(file string) string {
	if strings.EqualFold(filepath.Ext(file), ".md") {
		return "text/markdown; charset=utf-8"
	}
	return "text/plain; charset=utf-8"
}
