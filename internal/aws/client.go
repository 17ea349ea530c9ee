// Package aws is the remote side of the browser: EC2 instances, S3 buckets and
// objects, and Cost Explorer records.
package aws

import (
	"context"
	"net"
	"sync"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awshttp "github.com/aws/aws-sdk-go-v2/aws/transport/http"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/costexplorer"
	"github.com/aws/aws-sdk-go-v2/service/ec2"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/m-mizutani/goerr/v2"
	"github.com/rs/zerolog"

	"github.com/jdlms/aws-tui/internal/cache"
)

const (
	connectTimeout  = 5 * time.Second
	responseTimeout = 10 * time.Second

	// Cost Explorer only has an endpoint in us-east-1
	costExplorerRegion = "us-east-1"
)

// EC2API is the subset of the EC2 client used here
type EC2API interface {
	DescribeInstances(ctx context.Context, in *ec2.DescribeInstancesInput, optFns ...func(*ec2.Options)) (*ec2.DescribeInstancesOutput, error)
	DescribeInstanceStatus(ctx context.Context, in *ec2.DescribeInstanceStatusInput, optFns ...func(*ec2.Options)) (*ec2.DescribeInstanceStatusOutput, error)
	StartInstances(ctx context.Context, in *ec2.StartInstancesInput, optFns ...func(*ec2.Options)) (*ec2.StartInstancesOutput, error)
	StopInstances(ctx context.Context, in *ec2.StopInstancesInput, optFns ...func(*ec2.Options)) (*ec2.StopInstancesOutput, error)
	DescribeRegions(ctx context.Context, in *ec2.DescribeRegionsInput, optFns ...func(*ec2.Options)) (*ec2.DescribeRegionsOutput, error)
}

// S3API is the subset of the S3 client used here
type S3API interface {
	ListBuckets(ctx context.Context, in *s3.ListBucketsInput, optFns ...func(*s3.Options)) (*s3.ListBucketsOutput, error)
	GetBucketLocation(ctx context.Context, in *s3.GetBucketLocationInput, optFns ...func(*s3.Options)) (*s3.GetBucketLocationOutput, error)
	ListObjectsV2(ctx context.Context, in *s3.ListObjectsV2Input, optFns ...func(*s3.Options)) (*s3.ListObjectsV2Output, error)
	GetObject(ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// CostExplorerAPI is the subset of the Cost Explorer client used here
type CostExplorerAPI interface {
	GetCostAndUsage(ctx context.Context, in *costexplorer.GetCostAndUsageInput, optFns ...func(*costexplorer.Options)) (*costexplorer.GetCostAndUsageOutput, error)
	GetCostForecast(ctx context.Context, in *costexplorer.GetCostForecastInput, optFns ...func(*costexplorer.Options)) (*costexplorer.GetCostForecastOutput, error)
}

// Client talks to the three services for one profile and region
type Client struct {
	ec2     EC2API
	s3      S3API
	ce      CostExplorerAPI
	log     zerolog.Logger
	regions *cache.RegionMemo

	Profile string
	Region  string
}

// New wires a Client from already built service clients
func New(ec2Client EC2API, s3Client S3API, ceClient CostExplorerAPI, log zerolog.Logger) *Client {
	return &Client{
		ec2:     ec2Client,
		s3:      s3Client,
		ce:      ceClient,
		log:     log,
		regions: cache.NewRegionMemo(),
	}
}

// NewClient loads the shared AWS config for profile and region and builds the
// service clients. Empty profile or region leave the SDK defaults in place.
func NewClient(ctx context.Context, profile, region string, log zerolog.Logger) (*Client, error) {
	httpClient := awshttp.NewBuildableClient().
		WithTimeout(responseTimeout).
		WithDialerOptions(func(d *net.Dialer) {
			d.Timeout = connectTimeout
		})

	opts := []func(*config.LoadOptions) error{
		config.WithHTTPClient(httpClient),
	}
	if profile != "" {
		opts = append(opts, config.WithSharedConfigProfile(profile))
	}
	if region != "" {
		opts = append(opts, config.WithRegion(region))
	}

	cfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to load AWS config",
			goerr.V("profile", profile), goerr.V("region", region))
	}
	if cfg.Region == "" {
		cfg.Region = costExplorerRegion
	}

	c := New(
		ec2.NewFromConfig(cfg),
		s3.NewFromConfig(cfg),
		costexplorer.NewFromConfig(cfg, func(o *costexplorer.Options) {
			o.Region = costExplorerRegion
		}),
		log.With().Str("profile", profile).Str("region", cfg.Region).Logger(),
	)
	c.Profile = profile
	c.Region = cfg.Region

	log.Debug().Str("profile", profile).Str("region", cfg.Region).Msg("created AWS client")
	return c, nil
}

// Provider hands out one Client per profile and region
type Provider struct {
	mu      sync.Mutex
	clients map[string]*Client
	log     zerolog.Logger
	build   func(ctx context.Context, profile, region string, log zerolog.Logger) (*Client, error)
}

// NewProvider returns a Provider building real SDK clients
func NewProvider(log zerolog.Logger) *Provider {
	return &Provider{
		clients: make(map[string]*Client),
		log:     log,
		build:   NewClient,
	}
}

// Client returns the cached Client for profile and region, building it on
// first use
func (p *Provider) Client(ctx context.Context, profile, region string) (*Client, error) {
	key := providerKey(profile, region)

	p.mu.Lock()
	defer p.mu.Unlock()

	if c, ok := p.clients[key]; ok {
		return c, nil
	}
	c, err := p.build(ctx, profile, region, p.log)
	if err != nil {
		return nil, err
	}
	p.clients[key] = c
	return c, nil
}

func providerKey(profile, region string) string {
	if profile == "" {
		profile = "default"
	}
	if region == "" {
		region = "default"
	}
	return profile + ":" + region
}

func int32Clamp(n, lo, hi int) *int32 {
	if n < lo {
		n = lo
	}
	if n > hi {
		n = hi
	}
	return aws.Int32(int32(n))
}

func optionalString(s string) *string {
	if s == "" {
		return nil
	}
	return aws.String(s)
}
