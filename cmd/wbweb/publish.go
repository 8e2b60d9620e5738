package main

import (
	"context"
	"path/filepath"
	"strings"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/spf13/cobra"

	"github.com/wbweb-dev/wbweb/internal/errors"
	"github.com/wbweb-dev/wbweb/pkg/publish"
)

func publishCmd(a *app) *cobra.Command {
	var (
		bucket string
		key    string
		prefix string
		region string
		title  string
		format string
		outDir string
	)

	cmd := &cobra.Command{
		Use:   "publish <file>",
		Short: "Render a tree to a static page and upload it to S3",
		Long: `Render a tree as a complete HTML document and upload it to an S3 bucket.

AWS credentials and region come from the standard AWS configuration
chain (environment, shared config, instance role). Bucket, prefix and
region default to the "publish" section of the config file.

With --out-dir nothing is uploaded: objects are written to
<out-dir>/<bucket>/<prefix>/<key> instead.

Examples:
  wbweb publish about.json --bucket my-site --key about.html --title About
  wbweb publish about.yaml --key about.html --out-dir ./build`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			pc := a.cfg.Publish
			if bucket == "" {
				bucket = pc.Bucket
			}
			if prefix == "" {
				prefix = pc.Prefix
			}
			if region == "" {
				region = pc.Region
			}
			if bucket == "" {
				return errors.New("P001").WithDetail("No bucket given").
					WithSuggestion("Pass --bucket or set publish.bucket in the config file")
			}
			if key == "" {
				base := filepath.Base(args[0])
				key = strings.TrimSuffix(base, filepath.Ext(base)) + ".html"
			}

			node, err := loadTree(args[0], format, cmd.InOrStdin(), a.cfg.Render.MaxDepth)
			if err != nil {
				return err
			}

			putter, err := newPutter(cmd.Context(), outDir, region)
			if err != nil {
				return err
			}

			p := publish.New(putter, bucket, prefix, rendererFor(a.cfg))
			if pc.CacheControl != "" {
				p.WithCacheControl(pc.CacheControl)
			}

			obj, err := p.Publish(cmd.Context(), key, title, node)
			if err != nil {
				return errors.FromError(err, "P001").WithFile(args[0])
			}

			a.logger.Info("published", "bucket", obj.Bucket, "key", obj.Key, "bytes", obj.Size, "etag", obj.ETag)
			success(cmd.OutOrStdout(), "Published s3://%s/%s", obj.Bucket, obj.Key)
			return nil
		},
	}

	cmd.Flags().StringVarP(&bucket, "bucket", "b", "", "Destination bucket (default from config)")
	cmd.Flags().StringVarP(&key, "key", "k", "", "Object key (default: input name with .html)")
	cmd.Flags().StringVar(&prefix, "prefix", "", "Key prefix (default from config)")
	cmd.Flags().StringVar(&region, "region", "", "AWS region (default from config or AWS environment)")
	cmd.Flags().StringVarP(&title, "title", "t", "", "Document title")
	cmd.Flags().StringVarP(&format, "format", "f", "", "Input format: json, yaml, html (default from extension)")
	cmd.Flags().StringVar(&outDir, "out-dir", "", "Write to a local directory instead of S3")

	return cmd
}

// newPutter returns a local directory putter for dry runs, or an S3
// client built from the default AWS configuration chain.
func newPutter(ctx context.Context, outDir, region string) (publish.ObjectPutter, error) {
	if outDir != "" {
		d, err := publish.NewDirPutter(outDir)
		if err != nil {
			return nil, errors.New("P001").WithDetail(err.Error()).Wrap(err)
		}
		return d, nil
	}

	var opts []func(*awsconfig.LoadOptions) error
	if region != "" {
		opts = append(opts, awsconfig.WithRegion(region))
	}
	cfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, errors.New("P001").
			WithDetail("Cannot load AWS configuration: " + err.Error()).
			WithSuggestion("Set AWS_REGION and credentials, or use --out-dir for a local dry run").
			Wrap(err)
	}
	return s3.NewFromConfig(cfg), nil
}
