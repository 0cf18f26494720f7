package media

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"os"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/smithy-go"

	"accent-check-go/internal/config"
)

// S3Getter is the subset of the S3 API used for acquisition. *s3.Client
// satisfies it.
type S3Getter interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// NewS3Client builds an S3 client from static settings. Without an access key
// requests are anonymous. SDK retries are disabled; a failed fetch fails the
// request.
func NewS3Client(cfg config.S3) *s3.Client {
	opts := s3.Options{
		Region:       cfg.Region,
		UsePathStyle: cfg.PathStyle,
		Retryer:      aws.NopRetryer{},
		Credentials:  aws.AnonymousCredentials{},
	}
	if cfg.Endpoint != "" {
		opts.BaseEndpoint = aws.String(cfg.Endpoint)
	}
	if cfg.AccessKeyID != "" {
		creds := aws.Credentials{
			AccessKeyID:     cfg.AccessKeyID,
			SecretAccessKey: cfg.SecretAccessKey,
			Source:          "accent-check-config",
		}
		opts.Credentials = aws.NewCredentialsCache(aws.CredentialsProviderFunc(
			func(context.Context) (aws.Credentials, error) { return creds, nil },
		))
	}
	return s3.New(opts)
}

func (f *Fetcher) s3Get(ctx context.Context, u *url.URL, dest string) error {
	bucket := u.Host
	key := strings.TrimPrefix(u.Path, "/")
	if bucket == "" || key == "" {
		return fmt.Errorf("s3 url %q: bucket and key required", u.String())
	}
	out, err := f.s3.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		if isS3NotFound(err) {
			return fmt.Errorf("s3 get %s/%s: %w", bucket, key, os.ErrNotExist)
		}
		return fmt.Errorf("s3 get %s/%s: %w", bucket, key, err)
	}
	defer out.Body.Close()

	file, err := os.Create(dest)
	if err != nil {
		return fmt.Errorf("create download: %w", err)
	}
	var src io.Reader = out.Body
	if f.maxBytes > 0 {
		src = io.LimitReader(out.Body, f.maxBytes+1)
	}
	n, copyErr := io.Copy(file, src)
	closeErr := file.Close()
	if copyErr != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return fmt.Errorf("s3 get %s/%s: %w", bucket, key, ctxErr)
		}
		return fmt.Errorf("s3 get %s/%s: %w", bucket, key, copyErr)
	}
	if closeErr != nil {
		return fmt.Errorf("write download: %w", closeErr)
	}
	if f.maxBytes > 0 && n > f.maxBytes {
		return fmt.Errorf("s3 get %s/%s: object exceeds %d bytes", bucket, key, f.maxBytes)
	}
	return nil
}

func isS3NotFound(err error) bool {
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.ErrorCode() {
		case "NotFound", "NoSuchKey":
			return true
		}
	}
	return false
}
