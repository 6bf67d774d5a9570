// Package storage archives uploaded CSV files to S3 so an import can
// be audited or replayed after the fact.
package storage

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// s3Putter is the slice of the S3 client the archiver needs.
type s3Putter interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// Archiver writes raw import payloads to an S3 bucket.
type Archiver struct {
	client s3Putter
	bucket string
	now    func() time.Time
}

// NewArchiver loads AWS credentials and builds the S3 client. An empty
// profile uses the default credential chain (IAM role on ECS).
func NewArchiver(ctx context.Context, bucket, region, profile string) (*Archiver, error) {
	var cfg aws.Config
	var err error

	if profile != "" {
		cfg, err = awsconfig.LoadDefaultConfig(ctx,
			awsconfig.WithRegion(region),
			awsconfig.WithSharedConfigProfile(profile),
		)
	} else {
		cfg, err = awsconfig.LoadDefaultConfig(ctx,
			awsconfig.WithRegion(region),
		)
	}
	if err != nil {
		return nil, fmt.Errorf("loading AWS config: %w", err)
	}

	return &Archiver{
		client: s3.NewFromConfig(cfg),
		bucket: bucket,
		now:    time.Now,
	}, nil
}

// NewArchiverWithClient is used by tests to substitute a fake client.
func NewArchiverWithClient(client s3Putter, bucket string) *Archiver {
	return &Archiver{client: client, bucket: bucket, now: time.Now}
}

// ArchiveImport stores the raw payload under a tenant- and date-scoped
// key and returns the key.
func (a *Archiver) ArchiveImport(ctx context.Context, tenantID, jobID, filename, payload string) (string, error) {
	key := fmt.Sprintf("imports/%s/%s/%s_%s",
		tenantID, a.now().UTC().Format("2006/01/02"), jobID, sanitizeFilename(filename))

	_, err := a.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(a.bucket),
		Key:         aws.String(key),
		Body:        strings.NewReader(payload),
		ContentType: aws.String("text/csv"),
	})
	if err != nil {
		return "", fmt.Errorf("archiving import to s3://%s/%s: %w", a.bucket, key, err)
	}
	return key, nil
}

// sanitizeFilename keeps S3 keys flat and predictable.
func sanitizeFilename(name string) string {
	name = strings.ReplaceAll(name, "/", "_")
	name = strings.ReplaceAll(name, "\\", "_")
	if name == "" {
		return "upload.csv"
	}
	return name
}
