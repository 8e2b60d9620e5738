// Package publish renders pages to static HTML documents and uploads them
// to S3.
//
// Any ObjectPutter works as the destination: *s3.Client from
// aws-sdk-go-v2 for real buckets, DirPutter for a local directory.
package publish
