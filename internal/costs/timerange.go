package costs

import (
	"time"

	"github.com/jdlms/aws-tui/internal/types"
)

// Granularities understood by Cost Explorer
const (
	GranularityHourly = "HOURLY"
	GranularityDaily  = "DAILY"
)

// TimeRangeFor returns the query window of a preset. Windows end at the start
// of tomorrow (UTC) so today's partial spend is included.
func TimeRangeFor(r types.CostRange, now time.Time) types.TimeRange {
	now = now.UTC()
	end := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC).AddDate(0, 0, 1)

	switch r {
	case types.Range24h:
		return types.TimeRange{Start: end.AddDate(0, 0, -1), End: end, Granularity: GranularityHourly}
	case types.Range30d:
		return types.TimeRange{Start: end.AddDate(0, 0, -30), End: end, Granularity: GranularityDaily}
	default:
		return types.TimeRange{Start: end.AddDate(0, 0, -7), End: end, Granularity: GranularityDaily}
	}
}
