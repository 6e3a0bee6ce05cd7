package blob

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"

	"vagas-go/internal/vagas"
)

// fakeBucket is an in-memory stand-in for the S3 client and uploader.
type fakeBucket struct {
	objects map[string][]byte
	types   map[string]string
}

func newFakeBucket() *fakeBucket {
	return &fakeBucket{objects: map[string][]byte{}, types: map[string]string{}}
}

func (f *fakeBucket) Upload(_ context.Context, in *s3.PutObjectInput, _ ...func(*manager.Uploader)) (*manager.UploadOutput, error) {
	data, err := io.ReadAll(in.Body)
	if err != nil {
		return nil, err
	}
	f.objects[*in.Key] = data
	if in.ContentType != nil {
		f.types[*in.Key] = *in.ContentType
	}
	return &manager.UploadOutput{}, nil
}

func (f *fakeBucket) GetObject(_ context.Context, in *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	data, ok := f.objects[*in.Key]
	if !ok {
		return nil, &types.NoSuchKey{}
	}
	return &s3.GetObjectOutput{Body: io.NopCloser(bytes.NewReader(data))}, nil
}

func (f *fakeBucket) DeleteObject(_ context.Context, in *s3.DeleteObjectInput, _ ...func(*s3.Options)) (*s3.DeleteObjectOutput, error) {
	delete(f.objects, *in.Key)
	return &s3.DeleteObjectOutput{}, nil
}

func TestS3Store_RoundTrip(t *testing.T) {
	bucket := newFakeBucket()
	s := newS3Store(bucket, bucket, "vagas-img", "/prod/", "https://vagas-img.s3.sa-east-1.amazonaws.com")
	ctx := context.Background()

	if err := s.Put(ctx, "library/a.jpg", strings.NewReader("jpeg"), 4, "image/jpeg"); err != nil {
		t.Fatalf("Put() error = %v", err)
	}
	if _, ok := bucket.objects["prod/library/a.jpg"]; !ok {
		t.Fatalf("object not stored under prefixed key, have %v", bucket.objects)
	}
	if bucket.types["prod/library/a.jpg"] != "image/jpeg" {
		t.Errorf("content type = %q", bucket.types["prod/library/a.jpg"])
	}

	var buf bytes.Buffer
	if err := s.Get(ctx, "library/a.jpg", &buf); err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if buf.String() != "jpeg" {
		t.Errorf("Get() = %q, want %q", buf.String(), "jpeg")
	}

	if got, want := s.URL("library/a.jpg"), "https://vagas-img.s3.sa-east-1.amazonaws.com/prod/library/a.jpg"; got != want {
		t.Errorf("URL() = %q, want %q", got, want)
	}

	if err := s.Delete(ctx, "library/a.jpg"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if err := s.Get(ctx, "library/a.jpg", &buf); !errors.Is(err, vagas.ErrNotFound) {
		t.Errorf("Get() after delete error = %v, want ErrNotFound", err)
	}
}

func TestS3Store_SizeMismatch(t *testing.T) {
	bucket := newFakeBucket()
	s := newS3Store(bucket, bucket, "b", "", "https://b")

	if err := s.Put(context.Background(), "a.jpg", strings.NewReader("abc"), 10, ""); err == nil {
		t.Error("Put() expected size mismatch error, got nil")
	}
}
