package storage

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/s3"
)

type fakePutter struct {
	bucket string
	key    string
	body   string
}

func (f *fakePutter) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	f.bucket = *in.Bucket
	f.key = *in.Key
	data, _ := io.ReadAll(in.Body)
	f.body = string(data)
	return &s3.PutObjectOutput{}, nil
}

func TestArchiveImport(t *testing.T) {
	fake := &fakePutter{}
	a := NewArchiverWithClient(fake, "watchtower-imports")
	a.now = func() time.Time { return time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC) }

	key, err := a.ArchiveImport(context.Background(), "zain_bh", "job-1", "contacts.csv", "name,phone\n")
	if err != nil {
		t.Fatalf("ArchiveImport: %v", err)
	}

	want := "imports/zain_bh/2026/03/14/job-1_contacts.csv"
	if key != want {
		t.Errorf("key = %q, want %q", key, want)
	}
	if fake.bucket != "watchtower-imports" || fake.key != want {
		t.Errorf("put to %s/%s", fake.bucket, fake.key)
	}
	if fake.body != "name,phone\n" {
		t.Errorf("body = %q", fake.body)
	}
}

func TestSanitizeFilename(t *testing.T) {
	if got := sanitizeFilename("../etc/passwd"); got != ".._etc_passwd" {
		t.Errorf("sanitizeFilename = %q", got)
	}
	if got := sanitizeFilename(""); got != "upload.csv" {
		t.Errorf("empty name = %q", got)
	}
}
