package aws

import (
	"context"
	"io"
	"strings"
	"sync"

	"github.com/aws/aws-sdk-go-v2/service/costexplorer"
	"github.com/aws/aws-sdk-go-v2/service/ec2"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/rs/zerolog"
)

type fakeEC2 struct {
	instances   []*ec2.DescribeInstancesOutput
	instancesIn []*ec2.DescribeInstancesInput
	status      *ec2.DescribeInstanceStatusOutput
	statusIn    *ec2.DescribeInstanceStatusInput
	regions     *ec2.DescribeRegionsOutput
	started     [][]string
	stopped     [][]string
	err         error
}

func (f *fakeEC2) DescribeInstances(_ context.Context, in *ec2.DescribeInstancesInput, _ ...func(*ec2.Options)) (*ec2.DescribeInstancesOutput, error) {
	f.instancesIn = append(f.instancesIn, in)
	if f.err != nil {
		return nil, f.err
	}
	out := f.instances[0]
	f.instances = f.instances[1:]
	return out, nil
}

func (f *fakeEC2) DescribeInstanceStatus(_ context.Context, in *ec2.DescribeInstanceStatusInput, _ ...func(*ec2.Options)) (*ec2.DescribeInstanceStatusOutput, error) {
	f.statusIn = in
	if f.err != nil {
		return nil, f.err
	}
	return f.status, nil
}

func (f *fakeEC2) StartInstances(_ context.Context, in *ec2.StartInstancesInput, _ ...func(*ec2.Options)) (*ec2.StartInstancesOutput, error) {
	f.started = append(f.started, in.InstanceIds)
	return &ec2.StartInstancesOutput{}, f.err
}

func (f *fakeEC2) StopInstances(_ context.Context, in *ec2.StopInstancesInput, _ ...func(*ec2.Options)) (*ec2.StopInstancesOutput, error) {
	f.stopped = append(f.stopped, in.InstanceIds)
	return &ec2.StopInstancesOutput{}, f.err
}

func (f *fakeEC2) DescribeRegions(_ context.Context, _ *ec2.DescribeRegionsInput, _ ...func(*ec2.Options)) (*ec2.DescribeRegionsOutput, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.regions, nil
}

type fakeS3 struct {
	mu            sync.Mutex
	buckets       *s3.ListBucketsOutput
	locations     map[string]string
	locationCalls int
	objects       *s3.ListObjectsV2Output
	objectsIn     *s3.ListObjectsV2Input
	regionUsed    string
	body          string
	err           error
}

func (f *fakeS3) ListBuckets(context.Context, *s3.ListBucketsInput, ...func(*s3.Options)) (*s3.ListBucketsOutput, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.buckets, nil
}

func (f *fakeS3) GetBucketLocation(_ context.Context, in *s3.GetBucketLocationInput, _ ...func(*s3.Options)) (*s3.GetBucketLocationOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.locationCalls++
	if f.err != nil {
		return nil, f.err
	}
	out := &s3.GetBucketLocationOutput{}
	out.LocationConstraint = s3types.BucketLocationConstraint(f.locations[*in.Bucket])
	return out, nil
}

func (f *fakeS3) ListObjectsV2(_ context.Context, in *s3.ListObjectsV2Input, optFns ...func(*s3.Options)) (*s3.ListObjectsV2Output, error) {
	f.objectsIn = in
	f.regionUsed = applyRegion(optFns)
	if f.err != nil {
		return nil, f.err
	}
	return f.objects, nil
}

func (f *fakeS3) GetObject(_ context.Context, _ *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	f.regionUsed = applyRegion(optFns)
	if f.err != nil {
		return nil, f.err
	}
	return &s3.GetObjectOutput{Body: io.NopCloser(strings.NewReader(f.body))}, nil
}

func applyRegion(optFns []func(*s3.Options)) string {
	var o s3.Options
	for _, fn := range optFns {
		fn(&o)
	}
	return o.Region
}

type fakeCE struct {
	pages      []*costexplorer.GetCostAndUsageOutput
	inputs     []*costexplorer.GetCostAndUsageInput
	forecast   *costexplorer.GetCostForecastOutput
	forecastIn *costexplorer.GetCostForecastInput
	err        error
}

func (f *fakeCE) GetCostAndUsage(_ context.Context, in *costexplorer.GetCostAndUsageInput, _ ...func(*costexplorer.Options)) (*costexplorer.GetCostAndUsageOutput, error) {
	f.inputs = append(f.inputs, in)
	if f.err != nil {
		return nil, f.err
	}
	out := f.pages[0]
	f.pages = f.pages[1:]
	return out, nil
}

func (f *fakeCE) GetCostForecast(_ context.Context, in *costexplorer.GetCostForecastInput, _ ...func(*costexplorer.Options)) (*costexplorer.GetCostForecastOutput, error) {
	f.forecastIn = in
	if f.err != nil {
		return nil, f.err
	}
	return f.forecast, nil
}

func newTestClient(e *fakeEC2, s *fakeS3, c *fakeCE) *Client {
	return New(e, s, c, zerolog.Nop())
}
