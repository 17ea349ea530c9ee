package aws

import (
	"context"
	"fmt"
	"sort"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ec2"
	ec2types "github.com/aws/aws-sdk-go-v2/service/ec2/types"

	"github.com/jdlms/aws-tui/internal/types"
)

// DescribeInstances accepts between 5 and 1000 results per page
const (
	minInstancePage = 5
	maxInstancePage = 1000
)

// ListInstances returns one page of instances
func (c *Client) ListInstances(ctx context.Context, pageSize int, token string) (types.InstancePage, error) {
	out, err := c.ec2.DescribeInstances(ctx, &ec2.DescribeInstancesInput{
		MaxResults: int32Clamp(pageSize, minInstancePage, maxInstancePage),
		NextToken:  optionalString(token),
	})
	if err != nil {
		return types.InstancePage{}, remoteError("DescribeInstances", err)
	}

	var page types.InstancePage
	for _, reservation := range out.Reservations {
		for _, instance := range reservation.Instances {
			page.Items = append(page.Items, toInstance(instance))
		}
	}
	page.NextToken = aws.ToString(out.NextToken)

	c.log.Debug().
		Int("count", len(page.Items)).
		Bool("more", page.NextToken != "").
		Msg("listed instances")
	return page, nil
}

// DescribeInstanceStatus returns the status checks of ids, stopped instances
// included
func (c *Client) DescribeInstanceStatus(ctx context.Context, ids []string) ([]types.InstanceStatus, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	out, err := c.ec2.DescribeInstanceStatus(ctx, &ec2.DescribeInstanceStatusInput{
		InstanceIds:         ids,
		IncludeAllInstances: aws.Bool(true),
	})
	if err != nil {
		return nil, remoteError("DescribeInstanceStatus", err)
	}

	statuses := make([]types.InstanceStatus, 0, len(out.InstanceStatuses))
	for _, s := range out.InstanceStatuses {
		status := types.InstanceStatus{InstanceID: aws.ToString(s.InstanceId)}
		if s.InstanceStatus != nil {
			status.InstanceStatus = string(s.InstanceStatus.Status)
		}
		if s.SystemStatus != nil {
			status.SystemStatus = string(s.SystemStatus.Status)
		}
		statuses = append(statuses, status)
	}
	return statuses, nil
}

// SetInstanceState forwards a start or stop request
func (c *Client) SetInstanceState(ctx context.Context, ids []string, target types.TargetState) error {
	var err error
	switch target {
	case types.TargetRunning:
		_, err = c.ec2.StartInstances(ctx, &ec2.StartInstancesInput{InstanceIds: ids})
		err = remoteError("StartInstances", err)
	case types.TargetStopped:
		_, err = c.ec2.StopInstances(ctx, &ec2.StopInstancesInput{InstanceIds: ids})
		err = remoteError("StopInstances", err)
	default:
		return fmt.Errorf("unsupported target state %q", target)
	}
	if err != nil {
		return err
	}

	c.log.Info().Strs("instances", ids).Str("target", string(target)).Msg("requested state change")
	return nil
}

// ListRegions returns every region, opted in or not, sorted by name
func (c *Client) ListRegions(ctx context.Context) ([]types.Region, error) {
	out, err := c.ec2.DescribeRegions(ctx, &ec2.DescribeRegionsInput{
		AllRegions: aws.Bool(true),
	})
	if err != nil {
		return nil, remoteError("DescribeRegions", err)
	}

	regions := make([]types.Region, 0, len(out.Regions))
	for _, r := range out.Regions {
		name := aws.ToString(r.RegionName)
		if name == "" {
			name = "unknown"
		}
		regions = append(regions, types.Region{Name: name, Endpoint: aws.ToString(r.Endpoint)})
	}
	sort.Slice(regions, func(i, j int) bool {
		return regions[i].Name < regions[j].Name
	})
	return regions, nil
}

func toInstance(in ec2types.Instance) types.Instance {
	tags := make(map[string]string, len(in.Tags))
	for _, t := range in.Tags {
		key, value := aws.ToString(t.Key), aws.ToString(t.Value)
		if key != "" && value != "" {
			tags[key] = value
		}
	}

	id := aws.ToString(in.InstanceId)
	if id == "" {
		id = "unknown"
	}

	out := types.Instance{
		InstanceID: id,
		Name:       tags["Name"],
		Type:       string(in.InstanceType),
		LaunchTime: aws.ToTime(in.LaunchTime),
		PublicIP:   aws.ToString(in.PublicIpAddress),
		PrivateIP:  aws.ToString(in.PrivateIpAddress),
		Tags:       tags,
	}
	if in.State != nil {
		out.State = string(in.State.Name)
	}
	if in.Placement != nil {
		out.AZ = aws.ToString(in.Placement.AvailabilityZone)
	}
	return out
}
