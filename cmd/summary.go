package cmd

import (
	"context"
	"fmt"
	"io"
	"maps"
	"slices"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/jdlms/aws-tui/internal/aws"
	"github.com/jdlms/aws-tui/internal/costs"
	"github.com/jdlms/aws-tui/internal/types"
	"github.com/jdlms/aws-tui/internal/ui"
)

var (
	summaryRange string
	summaryTop   int
)

var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Print an account overview without starting the interface",
	Long:  "Fetch instances, buckets and costs concurrently and print a short report",
	RunE:  runSummary,
}

func init() {
	summaryCmd.Flags().StringVar(&summaryRange, "range", string(types.Range7d), "cost range: 24h, 7d or 30d")
	summaryCmd.Flags().IntVar(&summaryTop, "top", 5, "number of services to list")
	rootCmd.AddCommand(summaryCmd)
}

// report is everything the summary prints
type report struct {
	Profile       string
	Region        string
	Instances     []types.Instance
	MoreInstances bool
	Buckets       []types.Bucket
	Costs         types.CostSummary
	MonthToDate   aws.Spend
	Forecast      *aws.Spend
}

func parseRange(s string) (types.CostRange, error) {
	r := types.CostRange(s)
	if !slices.Contains(types.CostRanges, r) {
		return "", goerr.New("unknown cost range", goerr.V("range", s))
	}
	return r, nil
}

func runSummary(cmd *cobra.Command, _ []string) error {
	r, err := parseRange(summaryRange)
	if err != nil {
		return err
	}

	rt, err := setup(cmd)
	if err != nil {
		return err
	}
	defer rt.Close()

	client, err := newClient(cmd.Context(), rt)
	if err != nil {
		return err
	}

	rep, err := collect(cmd.Context(), client, rt.log, rt.settings.PageSize, r, time.Now())
	if err != nil {
		rt.log.Error().Err(err).Msg("summary failed")
		return err
	}
	rep.Profile = rt.settings.Profile
	rep.Region = client.Region

	writeSummary(cmd.OutOrStdout(), rep, summaryTop)
	return nil
}

// summarySource is the part of aws.Client the summary reads
type summarySource interface {
	ListInstances(ctx context.Context, pageSize int, token string) (types.InstancePage, error)
	ListBuckets(ctx context.Context) ([]types.Bucket, error)
	FetchCostRecords(ctx context.Context, tr types.TimeRange, groupBy []string) ([]types.CostRecord, error)
	MonthToDate(ctx context.Context, now time.Time) (aws.Spend, error)
	Forecast(ctx context.Context, now time.Time) (aws.Spend, error)
}

// collect runs every query at once. The forecast is optional; Cost Explorer
// refuses it for young accounts.
func collect(ctx context.Context, client summarySource, log zerolog.Logger, pageSize int, r types.CostRange, now time.Time) (report, error) {
	var rep report
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		page, err := client.ListInstances(gctx, pageSize, "")
		if err != nil {
			return err
		}
		rep.Instances = page.Items
		rep.MoreInstances = page.NextToken != ""
		return nil
	})
	g.Go(func() error {
		buckets, err := client.ListBuckets(gctx)
		if err != nil {
			return err
		}
		rep.Buckets = buckets
		return nil
	})
	g.Go(func() error {
		records, err := client.FetchCostRecords(gctx, costs.TimeRangeFor(r, now), []string{aws.GroupByService, aws.GroupByUsageType})
		if err != nil {
			return err
		}
		rep.Costs = costs.Aggregate(records)
		rep.Costs.Range = r
		rep.Costs.LastUpdated = now
		return nil
	})
	g.Go(func() error {
		spend, err := client.MonthToDate(gctx, now)
		if err != nil {
			return err
		}
		rep.MonthToDate = spend
		return nil
	})
	g.Go(func() error {
		spend, err := client.Forecast(gctx, now)
		if err != nil {
			log.Debug().Err(err).Msg("forecast unavailable")
			return nil
		}
		rep.Forecast = &spend
		return nil
	})

	if err := g.Wait(); err != nil {
		return report{}, err
	}
	return rep, nil
}

func writeSummary(w io.Writer, rep report, top int) {
	fmt.Fprintf(w, "Profile: %s  Region: %s\n\n", displayProfile(rep.Profile), rep.Region)

	states := map[string]int{}
	for _, in := range rep.Instances {
		states[in.State]++
	}
	more := ""
	if rep.MoreInstances {
		more = "+"
	}
	fmt.Fprintf(w, "EC2 instances: %d%s", len(rep.Instances), more)
	for _, state := range slices.Sorted(maps.Keys(states)) {
		fmt.Fprintf(w, "  %s %d", state, states[state])
	}
	fmt.Fprintln(w)
	fmt.Fprintf(w, "S3 buckets:    %d\n\n", len(rep.Buckets))

	fmt.Fprintf(w, "Month to date: %s\n", ui.FormatAmount(rep.MonthToDate.Amount, rep.MonthToDate.Unit))
	if rep.Forecast != nil {
		fmt.Fprintf(w, "Forecast:      %s (rest of month)\n", ui.FormatAmount(rep.Forecast.Amount, rep.Forecast.Unit))
	}
	fmt.Fprintln(w)

	c := rep.Costs
	fmt.Fprintf(w, "%s: %s\n", c.Range.Label(), ui.FormatAmount(c.Total, c.Unit))
	if c.MixedUnits {
		fmt.Fprintln(w, "  (costs are reported in more than one currency)")
	}
	for i, svc := range c.Services {
		if i >= top {
			fmt.Fprintf(w, "  ... %d more\n", len(c.Services)-top)
			break
		}
		fmt.Fprintf(w, "  %-40s %12s %7s\n", svc.Name, ui.FormatAmount(svc.Amount, svc.Unit), ui.FormatPercent(svc.PercentOfTotal))
	}
}

func displayProfile(p string) string {
	if p == "" {
		return "default"
	}
	return p
}
