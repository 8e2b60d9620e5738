package publish

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// DirPutter writes objects to the local filesystem as <dir>/<bucket>/<key>.
// It stands in for S3 in dry runs and tests.
type DirPutter struct {
	dir string
}

var _ ObjectPutter = (*DirPutter)(nil)

// NewDirPutter creates a DirPutter rooted at dir.
func NewDirPutter(dir string) (*DirPutter, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}
	return &DirPutter{dir: dir}, nil
}

// PutObject implements ObjectPutter.
func (d *DirPutter) PutObject(ctx context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	bucket := aws.ToString(in.Bucket)
	key := aws.ToString(in.Key)
	if bucket == "" || key == "" {
		return nil, fmt.Errorf("bucket and key are required")
	}
	for _, part := range strings.Split(bucket+"/"+key, "/") {
		if part == ".." {
			return nil, fmt.Errorf("invalid object key %q", key)
		}
	}

	path := filepath.Join(d.dir, bucket, filepath.FromSlash(key))
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, err
	}

	f, err := os.Create(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	h := md5.New()
	var body io.Reader = in.Body
	if body == nil {
		body = strings.NewReader("")
	}
	if _, err := io.Copy(io.MultiWriter(f, h), body); err != nil {
		os.Remove(path)
		return nil, err
	}

	etag := `"` + hex.EncodeToString(h.Sum(nil)) + `"`
	return &s3.PutObjectOutput{ETag: aws.String(etag)}, nil
}
