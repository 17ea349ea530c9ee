package aws

import (
	"context"
	"io"
	"sort"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/jdlms/aws-tui/internal/types"
)

const (
	maxObjectPage = 1000
	delimiter     = "/"
)

// ListBuckets returns every bucket of the account sorted by name
func (c *Client) ListBuckets(ctx context.Context) ([]types.Bucket, error) {
	out, err := c.s3.ListBuckets(ctx, &s3.ListBucketsInput{})
	if err != nil {
		return nil, remoteError("ListBuckets", err)
	}

	buckets := make([]types.Bucket, 0, len(out.Buckets))
	for _, b := range out.Buckets {
		name := aws.ToString(b.Name)
		if name == "" {
			name = "unknown"
		}
		buckets = append(buckets, types.Bucket{Name: name, CreatedAt: aws.ToTime(b.CreationDate)})
	}
	sort.Slice(buckets, func(i, j int) bool {
		return buckets[i].Name < buckets[j].Name
	})
	return buckets, nil
}

// BucketRegion returns the region of bucket, asking S3 at most once per bucket
func (c *Client) BucketRegion(ctx context.Context, bucket string) (string, error) {
	return c.regions.Resolve(ctx, bucket, c.bucketLocation)
}

func (c *Client) bucketLocation(ctx context.Context, bucket string) (string, error) {
	out, err := c.s3.GetBucketLocation(ctx, &s3.GetBucketLocationInput{Bucket: aws.String(bucket)})
	if err != nil {
		return "", remoteError("GetBucketLocation", err)
	}
	region := normalizeLocation(string(out.LocationConstraint))
	c.log.Debug().Str("bucket", bucket).Str("bucketRegion", region).Msg("resolved bucket region")
	return region, nil
}

// normalizeLocation maps the legacy LocationConstraint values to region names
func normalizeLocation(constraint string) string {
	switch constraint {
	case "":
		return "us-east-1"
	case "EU":
		return "eu-west-1"
	default:
		return constraint
	}
}

// ListObjects returns one page of the folders and files directly under
// prefix, folders first. The call goes to the bucket's own region when it
// is known.
func (c *Client) ListObjects(ctx context.Context, bucket, prefix string, pageSize int, token string) (types.ObjectPage, error) {
	out, err := c.s3.ListObjectsV2(ctx, &s3.ListObjectsV2Input{
		Bucket:            aws.String(bucket),
		Prefix:            optionalString(prefix),
		ContinuationToken: optionalString(token),
		MaxKeys:           int32Clamp(pageSize, 1, maxObjectPage),
		Delimiter:         aws.String(delimiter),
	}, c.bucketRegionOption(ctx, bucket))
	if err != nil {
		return types.ObjectPage{}, remoteError("ListObjectsV2", err)
	}

	page := types.ObjectPage{
		Items:     make([]types.Item, 0, len(out.CommonPrefixes)+len(out.Contents)),
		NextToken: aws.ToString(out.NextContinuationToken),
	}
	for _, p := range out.CommonPrefixes {
		page.Items = append(page.Items, types.ObjectFolder{Prefix: aws.ToString(p.Prefix)})
	}
	for _, o := range out.Contents {
		page.Items = append(page.Items, types.ObjectFile{
			Key:          aws.ToString(o.Key),
			Size:         aws.ToInt64(o.Size),
			LastModified: aws.ToTime(o.LastModified),
			StorageClass: string(o.StorageClass),
		})
	}
	return page, nil
}

// GetObject opens the body of one object. The caller closes it.
func (c *Client) GetObject(ctx context.Context, bucket, key string) (io.ReadCloser, error) {
	out, err := c.s3.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	}, c.bucketRegionOption(ctx, bucket))
	if err != nil {
		return nil, remoteError("GetObject", err)
	}
	return out.Body, nil
}

// bucketRegionOption points a call at the bucket's region. A failed lookup
// keeps the client region and lets S3 answer with its own error.
func (c *Client) bucketRegionOption(ctx context.Context, bucket string) func(*s3.Options) {
	region, err := c.BucketRegion(ctx, bucket)
	if err != nil {
		c.log.Debug().Err(err).Str("bucket", bucket).Msg("bucket region lookup failed")
		return func(*s3.Options) {}
	}
	return func(o *s3.Options) {
		o.Region = region
	}
}
