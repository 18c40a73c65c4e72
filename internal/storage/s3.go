// Package storage keeps project report documents in S3.
package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"path"
	"regexp"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"volunteerhub/internal/utils"
)

var (
	ErrDocumentTooLarge    = errors.New("document exceeds the maximum size")
	ErrDocumentEmpty       = errors.New("document is empty")
	ErrDocumentUnsupported = errors.New("document type is not supported")
)

var allowedContentTypes = map[string]bool{
	"application/pdf":           true,
	"image/png":                 true,
	"image/jpeg":                true,
	"text/plain; charset=utf-8": true,
}

var unsafeNameChars = regexp.MustCompile(`[^a-zA-Z0-9._-]+`)

// ObjectAPI is the part of the S3 client the store needs.
type ObjectAPI interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	DeleteObject(ctx context.Context, params *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
}

type Presigner interface {
	PresignGetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error)
}

type DocumentStorage struct {
	client    ObjectAPI
	presigner Presigner
	bucket    string
	prefix    string
	maxBytes  int64
	urlTTL    time.Duration
}

type Options struct {
	Bucket   string
	Prefix   string
	MaxBytes int64
	URLTTL   time.Duration
}

func New(client ObjectAPI, presigner Presigner, opts Options) *DocumentStorage {
	return &DocumentStorage{
		client:    client,
		presigner: presigner,
		bucket:    opts.Bucket,
		prefix:    strings.Trim(opts.Prefix, "/"),
		maxBytes:  opts.MaxBytes,
		urlTTL:    opts.URLTTL,
	}
}

// NewFromClient wires a DocumentStorage to a real S3 client.
func NewFromClient(client *s3.Client, opts Options) *DocumentStorage {
	return New(client, s3.NewPresignClient(client), opts)
}

// Document is an uploaded file as stored.
type Document struct {
	Key         string
	Name        string
	ContentType string
	SizeBytes   int64
}

// Key builds the object key for a document belonging to a project.
func (s *DocumentStorage) Key(projectID, filename string) string {
	name := unsafeNameChars.ReplaceAllString(path.Base(strings.ReplaceAll(filename, "\\", "/")), "_")
	name = strings.Trim(name, "._")
	if name == "" {
		name = "document"
	}
	return path.Join(s.prefix, projectID, utils.NanoID()+"-"+name)
}

// Upload reads at most MaxBytes from body, sniffs its type and stores it.
func (s *DocumentStorage) Upload(ctx context.Context, projectID, filename string, body io.Reader) (*Document, error) {
	data, err := io.ReadAll(io.LimitReader(body, s.maxBytes+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read document: %w", err)
	}
	if len(data) == 0 {
		return nil, ErrDocumentEmpty
	}
	if int64(len(data)) > s.maxBytes {
		return nil, ErrDocumentTooLarge
	}

	contentType := http.DetectContentType(data)
	if !allowedContentTypes[contentType] {
		return nil, fmt.Errorf("%w: %s", ErrDocumentUnsupported, contentType)
	}

	key := s.Key(projectID, filename)
	_, err = s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(data),
		ContentType:   aws.String(contentType),
		ContentLength: aws.Int64(int64(len(data))),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to upload document: %w", err)
	}

	return &Document{
		Key:         key,
		Name:        path.Base(strings.ReplaceAll(filename, "\\", "/")),
		ContentType: contentType,
		SizeBytes:   int64(len(data)),
	}, nil
}

func (s *DocumentStorage) Delete(ctx context.Context, key string) error {
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("failed to delete document %s: %w", key, err)
	}
	return nil
}

// PresignURL returns a time limited download link for key.
func (s *DocumentStorage) PresignURL(ctx context.Context, key string) (string, error) {
	req, err := s.presigner.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	}, s3.WithPresignExpires(s.urlTTL))
	if err != nil {
		return "", fmt.Errorf("failed to presign document %s: %w", key, err)
	}
	return req.URL, nil
}
