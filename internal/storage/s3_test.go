package storage

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeObjects struct {
	puts    map[string][]byte
	types   map[string]string
	deleted []string
	err     error
}

func (f *fakeObjects) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	if f.err != nil {
		return nil, f.err
	}
	var buf bytes.Buffer
	if _, err := buf.ReadFrom(in.Body); err != nil {
		return nil, err
	}
	f.puts[aws.ToString(in.Key)] = buf.Bytes()
	f.types[aws.ToString(in.Key)] = aws.ToString(in.ContentType)
	return &s3.PutObjectOutput{}, nil
}

func (f *fakeObjects) DeleteObject(_ context.Context, in *s3.DeleteObjectInput, _ ...func(*s3.Options)) (*s3.DeleteObjectOutput, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.deleted = append(f.deleted, aws.ToString(in.Key))
	return &s3.DeleteObjectOutput{}, nil
}

type fakePresigner struct {
	ttl time.Duration
}

func (f *fakePresigner) PresignGetObject(_ context.Context, in *s3.GetObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
	var opts s3.PresignOptions
	for _, fn := range optFns {
		fn(&opts)
	}
	f.ttl = opts.Expires
	return &v4.PresignedHTTPRequest{URL: "https://docs.example/" + aws.ToString(in.Bucket) + "/" + aws.ToString(in.Key)}, nil
}

func newTestStorage() (*DocumentStorage, *fakeObjects, *fakePresigner) {
	objects := &fakeObjects{puts: map[string][]byte{}, types: map[string]string{}}
	presigner := &fakePresigner{}
	st := New(objects, presigner, Options{
		Bucket:   "bucket",
		Prefix:   "/project-reports/",
		MaxBytes: 64,
		URLTTL:   15 * time.Minute,
	})
	return st, objects, presigner
}

func TestKey(t *testing.T) {
	st, _, _ := newTestStorage()

	key := st.Key("p1", `C:\reports\final report (v2).pdf`)
	assert.True(t, strings.HasPrefix(key, "project-reports/p1/"), key)
	assert.True(t, strings.HasSuffix(key, "-final_report_v2_.pdf"), key)

	assert.True(t, strings.HasSuffix(st.Key("p1", "../.."), "-document"))
}

func TestUpload(t *testing.T) {
	st, objects, _ := newTestStorage()

	doc, err := st.Upload(context.Background(), "p1", "notes.txt", strings.NewReader("spent on paint"))
	require.NoError(t, err)
	assert.Equal(t, "notes.txt", doc.Name)
	assert.Equal(t, int64(14), doc.SizeBytes)
	assert.Equal(t, "text/plain; charset=utf-8", doc.ContentType)
	assert.Equal(t, []byte("spent on paint"), objects.puts[doc.Key])
	assert.Equal(t, doc.ContentType, objects.types[doc.Key])
}

func TestUploadRejects(t *testing.T) {
	st, objects, _ := newTestStorage()
	ctx := context.Background()

	_, err := st.Upload(ctx, "p1", "empty.txt", strings.NewReader(""))
	assert.ErrorIs(t, err, ErrDocumentEmpty)

	_, err = st.Upload(ctx, "p1", "big.txt", strings.NewReader(strings.Repeat("a", 65)))
	assert.ErrorIs(t, err, ErrDocumentTooLarge)

	_, err = st.Upload(ctx, "p1", "page.html", strings.NewReader("<html><body>hi</body></html>"))
	assert.ErrorIs(t, err, ErrDocumentUnsupported)

	assert.Empty(t, objects.puts)

	objects.err = errors.New("boom")
	_, err = st.Upload(ctx, "p1", "notes.txt", strings.NewReader("fine"))
	assert.ErrorContains(t, err, "boom")
}

func TestDeleteAndPresign(t *testing.T) {
	st, objects, presigner := newTestStorage()
	ctx := context.Background()

	require.NoError(t, st.Delete(ctx, "project-reports/p1/x.pdf"))
	assert.Equal(t, []string{"project-reports/p1/x.pdf"}, objects.deleted)

	url, err := st.PresignURL(ctx, "project-reports/p1/x.pdf")
	require.NoError(t, err)
	assert.Equal(t, "https://docs.example/bucket/project-reports/p1/x.pdf", url)
	assert.Equal(t, 15*time.Minute, presigner.ttl)
}
