package aws

import (
	"context"
	"math"
	"strconv"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/costexplorer"
	cetypes "github.com/aws/aws-sdk-go-v2/service/costexplorer/types"

	"github.com/jdlms/aws-tui/internal/types"
)

const (
	costMetric = "UnblendedCost"

	dateLayout = "2006-01-02"
	hourLayout = "2006-01-02T15:04:05Z"
)

// Dimensions the costs view groups by
const (
	GroupByService   = "SERVICE"
	GroupByUsageType = "USAGE_TYPE"
)

func dateInterval(tr types.TimeRange) *cetypes.DateInterval {
	layout := dateLayout
	if tr.Granularity == string(cetypes.GranularityHourly) {
		layout = hourLayout
	}
	return &cetypes.DateInterval{
		Start: aws.String(tr.Start.Format(layout)),
		End:   aws.String(tr.End.Format(layout)),
	}
}

// FetchCostRecords returns one record per group and time bucket of tr,
// following every result page. groupBy lists dimension keys; the first is
// read as the service and the second as the usage type.
func (c *Client) FetchCostRecords(ctx context.Context, tr types.TimeRange, groupBy []string) ([]types.CostRecord, error) {
	groups := make([]cetypes.GroupDefinition, 0, len(groupBy))
	for _, key := range groupBy {
		groups = append(groups, cetypes.GroupDefinition{
			Type: cetypes.GroupDefinitionTypeDimension,
			Key:  aws.String(key),
		})
	}

	var (
		records []types.CostRecord
		token   *string
		pages   int
	)
	for {
		out, err := c.ce.GetCostAndUsage(ctx, &costexplorer.GetCostAndUsageInput{
			TimePeriod:    dateInterval(tr),
			Granularity:   cetypes.Granularity(tr.Granularity),
			Metrics:       []string{costMetric},
			GroupBy:       groups,
			NextPageToken: token,
		})
		if err != nil {
			return nil, remoteError("GetCostAndUsage", err)
		}
		pages++

		for _, bucket := range out.ResultsByTime {
			for _, group := range bucket.Groups {
				records = append(records, toCostRecord(group))
			}
		}

		token = out.NextPageToken
		if aws.ToString(token) == "" {
			break
		}
	}

	c.log.Debug().
		Str("range", tr.String()).
		Int("pages", pages).
		Int("records", len(records)).
		Msg("fetched cost records")
	return records, nil
}

func toCostRecord(group cetypes.Group) types.CostRecord {
	rec := types.CostRecord{}
	if len(group.Keys) > 0 {
		rec.Service = group.Keys[0]
	}
	if len(group.Keys) > 1 {
		rec.UsageType = group.Keys[1]
	}
	if metric, ok := group.Metrics[costMetric]; ok {
		rec.Amount = parseAmount(metric.Amount)
		rec.Unit = aws.ToString(metric.Unit)
	}
	return rec
}

// parseAmount reads a Cost Explorer amount; anything unparsable counts as 0
func parseAmount(amount *string) float64 {
	if amount == nil {
		return 0
	}
	value, err := strconv.ParseFloat(*amount, 64)
	if err != nil || math.IsNaN(value) || math.IsInf(value, 0) {
		return 0
	}
	return value
}
