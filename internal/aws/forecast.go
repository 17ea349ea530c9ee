// forecast.go - month-to-date spend and the forecast for the rest of the month
package aws

import (
	"context"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/costexplorer"
	cetypes "github.com/aws/aws-sdk-go-v2/service/costexplorer/types"

	"github.com/jdlms/aws-tui/internal/types"
)

// Spend is an amount of money over a period
type Spend struct {
	Period types.TimeRange
	Amount float64
	Unit   string
}

// currentMonthPeriod returns the month of now up to the start of tomorrow
func currentMonthPeriod(now time.Time) types.TimeRange {
	now = now.UTC()
	start := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	end := now.Truncate(24*time.Hour).AddDate(0, 0, 1)
	return types.TimeRange{Start: start, End: end, Granularity: string(cetypes.GranularityMonthly)}
}

// remainingMonthPeriod returns today up to the first day of next month
func remainingMonthPeriod(now time.Time) types.TimeRange {
	now = now.UTC()
	start := now.Truncate(24 * time.Hour)
	end := time.Date(now.Year(), now.Month()+1, 1, 0, 0, 0, 0, time.UTC)
	return types.TimeRange{Start: start, End: end, Granularity: string(cetypes.GranularityMonthly)}
}

// MonthToDate returns the unblended cost of the current month so far
func (c *Client) MonthToDate(ctx context.Context, now time.Time) (Spend, error) {
	period := currentMonthPeriod(now)
	out, err := c.ce.GetCostAndUsage(ctx, &costexplorer.GetCostAndUsageInput{
		TimePeriod:  dateInterval(period),
		Granularity: cetypes.GranularityMonthly,
		Metrics:     []string{costMetric},
	})
	if err != nil {
		return Spend{}, remoteError("GetCostAndUsage", err)
	}

	spend := Spend{Period: period}
	for _, result := range out.ResultsByTime {
		if metric, ok := result.Total[costMetric]; ok {
			spend.Amount += parseAmount(metric.Amount)
			if spend.Unit == "" {
				spend.Unit = aws.ToString(metric.Unit)
			}
		}
	}
	return spend, nil
}

// Forecast returns the predicted unblended cost from today to the end of the
// month
func (c *Client) Forecast(ctx context.Context, now time.Time) (Spend, error) {
	period := remainingMonthPeriod(now)
	out, err := c.ce.GetCostForecast(ctx, &costexplorer.GetCostForecastInput{
		TimePeriod:  dateInterval(period),
		Granularity: cetypes.GranularityMonthly,
		Metric:      cetypes.MetricUnblendedCost,
	})
	if err != nil {
		return Spend{}, remoteError("GetCostForecast", err)
	}

	spend := Spend{Period: period}
	if out.Total != nil {
		spend.Amount = parseAmount(out.Total.Amount)
		spend.Unit = aws.ToString(out.Total.Unit)
	}
	return spend, nil
}
