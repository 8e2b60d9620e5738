package publish

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"path"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/wbweb-dev/wbweb/pkg/hiccup"
	"github.com/wbweb-dev/wbweb/pkg/render"
)

// ContentType is the content type of published pages.
const ContentType = "text/html; charset=utf-8"

// ErrEmptyKey is returned when Publish is called without an object key.
var ErrEmptyKey = errors.New("publish: empty object key")

// ObjectPutter uploads one object. *s3.Client satisfies it.
type ObjectPutter interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// Object describes a published page.
type Object struct {
	Bucket      string
	Key         string
	ETag        string
	Size        int64
	ContentType string
}

// Error reports a failed upload.
type Error struct {
	Bucket string
	Key    string
	Err    error
}

// Error implements the error interface.
func (e *Error) Error() string {
	return fmt.Sprintf("publish s3://%s/%s: %v", e.Bucket, e.Key, e.Err)
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error { return e.Err }

// ErrorCode returns the registered error code.
func (e *Error) ErrorCode() string { return "P001" }

// Publisher renders pages and uploads them to a bucket.
//
// Example usage:
//
//	cfg, _ := config.LoadDefaultConfig(ctx)
//	p := publish.New(s3.NewFromConfig(cfg), "my-site", "pages/", nil)
//	obj, err := p.Publish(ctx, "about.html", "About", body)
type Publisher struct {
	putter       ObjectPutter
	bucket       string
	prefix       string
	renderer     *render.Renderer
	cacheControl string
}

// New creates a Publisher.
//
// Parameters:
//   - putter: S3 client, or any ObjectPutter
//   - bucket: bucket name
//   - prefix: key prefix (e.g., "pages/")
//   - renderer: renderer for the page body; nil uses the defaults
func New(putter ObjectPutter, bucket, prefix string, renderer *render.Renderer) *Publisher {
	if renderer == nil {
		renderer = render.New(render.Config{})
	}
	return &Publisher{
		putter:   putter,
		bucket:   bucket,
		prefix:   prefix,
		renderer: renderer,
	}
}

// WithCacheControl sets the Cache-Control header stored with each object.
func (p *Publisher) WithCacheControl(v string) *Publisher {
	p.cacheControl = v
	return p
}

// Key returns the full object key for key.
func (p *Publisher) Key(key string) string {
	return path.Join(p.prefix, strings.TrimPrefix(key, "/"))
}

// Publish renders a full document titled title around body and uploads it
// under the publisher's prefix. Render failures are returned unchanged and
// nothing is uploaded; upload failures are returned as *Error.
func (p *Publisher) Publish(ctx context.Context, key, title string, body *hiccup.Node) (Object, error) {
	if strings.Trim(key, "/") == "" {
		return Object{}, ErrEmptyKey
	}

	html, err := p.renderer.PageString(render.Page{Title: title, Body: body})
	if err != nil {
		return Object{}, err
	}

	full := p.Key(key)
	input := &s3.PutObjectInput{
		Bucket:        aws.String(p.bucket),
		Key:           aws.String(full),
		Body:          bytes.NewReader([]byte(html)),
		ContentType:   aws.String(ContentType),
		ContentLength: aws.Int64(int64(len(html))),
		Metadata: map[string]string{
			"title": title,
		},
	}
	if p.cacheControl != "" {
		input.CacheControl = aws.String(p.cacheControl)
	}

	out, err := p.putter.PutObject(ctx, input)
	if err != nil {
		return Object{}, &Error{Bucket: p.bucket, Key: full, Err: err}
	}

	obj := Object{
		Bucket:      p.bucket,
		Key:         full,
		Size:        int64(len(html)),
		ContentType: ContentType,
	}
	if out != nil && out.ETag != nil {
		obj.ETag = *out.ETag
	}
	return obj, nil
}
