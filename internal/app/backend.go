package app

import (
	"context"
	"io"

	"github.com/jdlms/aws-tui/internal/aws"
	"github.com/jdlms/aws-tui/internal/types"
)

// Backend is the remote API behind the views. *aws.Client implements it.
type Backend interface {
	ListInstances(ctx context.Context, pageSize int, token string) (types.InstancePage, error)
	DescribeInstanceStatus(ctx context.Context, ids []string) ([]types.InstanceStatus, error)
	SetInstanceState(ctx context.Context, ids []string, target types.TargetState) error
	ListRegions(ctx context.Context) ([]types.Region, error)

	ListBuckets(ctx context.Context) ([]types.Bucket, error)
	BucketRegion(ctx context.Context, bucket string) (string, error)
	ListObjects(ctx context.Context, bucket, prefix string, pageSize int, token string) (types.ObjectPage, error)
	GetObject(ctx context.Context, bucket, key string) (io.ReadCloser, error)

	FetchCostRecords(ctx context.Context, tr types.TimeRange, groupBy []string) ([]types.CostRecord, error)
}

var _ Backend = (*aws.Client)(nil)

// BackendFactory returns a Backend for a profile and region
type BackendFactory func(ctx context.Context, profile, region string) (Backend, error)

// ProviderFactory adapts an aws.Provider so clients are reused per
// profile and region
func ProviderFactory(p *aws.Provider) BackendFactory {
	return func(ctx context.Context, profile, region string) (Backend, error) {
		c, err := p.Client(ctx, profile, region)
		if err != nil {
			return nil, err
		}
		return c, nil
	}
}
