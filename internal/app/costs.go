package app

import (
	"context"

	"github.com/jdlms/aws-tui/internal/aws"
	"github.com/jdlms/aws-tui/internal/costs"
	"github.com/jdlms/aws-tui/internal/nav"
	"github.com/jdlms/aws-tui/internal/types"
)

const mixedUnitsNotice = "Cost records use more than one currency; totals mix units."

// CostsController drives the service and usage type cost tree
type CostsController struct {
	view
	rangeIdx int
	summary  types.CostSummary
	loaded   bool
	expanded costs.Expansion
	rows     []costs.Row
	selected int
}

func newCostsController(e *env) *CostsController {
	return &CostsController{
		view:     view{env: e},
		rangeIdx: 1,
		expanded: costs.Expansion{},
	}
}

// Activate loads the tree unless it is already shown
func (c *CostsController) Activate() {
	if !c.loaded && !c.loading {
		c.Refresh()
	}
}

// Range is the selected preset
func (c *CostsController) Range() types.CostRange {
	return types.CostRanges[c.rangeIdx]
}

// CycleRange moves to the next preset and reloads
func (c *CostsController) CycleRange() {
	c.rangeIdx = (c.rangeIdx + 1) % len(types.CostRanges)
	c.Refresh()
}

// Refresh fetches and aggregates the records of the selected range
func (c *CostsController) Refresh() {
	r := c.Range()
	tr := costs.TimeRangeFor(r, c.env.now())
	backend := c.env.backend

	c.loading = true
	c.info = ""
	nav.Fetch(c.env.loop, &c.session, c.env.ctx, nav.Request[types.CostSummary]{
		Call: func(ctx context.Context) (types.CostSummary, error) {
			records, err := backend.FetchCostRecords(ctx, tr, []string{aws.GroupByService, aws.GroupByUsageType})
			if err != nil {
				return types.CostSummary{}, err
			}
			summary := costs.Aggregate(records)
			summary.Range = r
			return summary, nil
		},
		Commit: func(summary types.CostSummary) {
			summary.LastUpdated = c.env.now()
			c.summary = summary
			c.expanded = costs.TopExpanded(summary, costs.DefaultExpanded)
			c.selected = 0
			c.rebuild("")
			c.loaded = true
			c.err = nil
			if summary.MixedUnits {
				c.info = mixedUnitsNotice
			}
			c.env.log.Debug().
				Str("range", string(r)).
				Int("services", len(summary.Services)).
				Float64("total", summary.Total).
				Msg("costs aggregated")
		},
		Fail: c.fail("GetCostAndUsage"),
		Done: c.done,
	})
}

// rebuild flattens the tree again and keeps the selection on id when it
// is still visible
func (c *CostsController) rebuild(id string) {
	c.rows = costs.Rows(c.summary, c.expanded)
	if id != "" {
		for i, row := range c.rows {
			if row.ID == id {
				c.selected = i
				return
			}
		}
	}
	c.selected = nav.Clamp(c.selected, len(c.rows))
}

// Expand opens the selected service
func (c *CostsController) Expand() {
	row, ok := c.SelectedRow()
	if !ok || !row.IsService() || row.Expanded {
		return
	}
	c.expanded[row.ID] = true
	c.rebuild(row.ID)
}

// Collapse closes the selected service, or the parent of a selected usage
// type, leaving the selection on the service
func (c *CostsController) Collapse() {
	row, ok := c.SelectedRow()
	if !ok {
		return
	}
	id := row.ID
	if !row.IsService() {
		id = row.ParentID
	} else if !row.Expanded {
		return
	}
	delete(c.expanded, id)
	c.rebuild(id)
}

// Toggle opens or closes the selected service
func (c *CostsController) Toggle() {
	row, ok := c.SelectedRow()
	if !ok || !row.IsService() {
		return
	}
	if row.Expanded {
		c.Collapse()
		return
	}
	c.Expand()
}

// ToggleAll opens every service, or closes all when all are open
func (c *CostsController) ToggleAll() {
	var id string
	if row, ok := c.SelectedRow(); ok {
		id = row.ID
		if !row.IsService() {
			id = row.ParentID
		}
	}
	c.expanded = c.expanded.Toggle(c.summary)
	c.rebuild(id)
}

// Move shifts the selection
func (c *CostsController) Move(delta int) {
	c.selected = move(c.selected, delta, len(c.rows))
}

// SelectedRow returns the selected row of the tree
func (c *CostsController) SelectedRow() (costs.Row, bool) {
	if len(c.rows) == 0 {
		return costs.Row{}, false
	}
	return c.rows[c.selected], true
}

// Leave cancels the fetch in flight
func (c *CostsController) Leave() {
	c.cancel()
}

// Reset forgets the tree, used when the profile changes
func (c *CostsController) Reset() {
	c.Leave()
	c.summary = types.CostSummary{}
	c.loaded = false
	c.expanded = costs.Expansion{}
	c.rows = nil
	c.selected = 0
	c.err = nil
	c.info = ""
}

func (c *CostsController) Summary() types.CostSummary { return c.summary }
func (c *CostsController) Rows() []costs.Row          { return c.rows }
func (c *CostsController) Selection() int             { return c.selected }
func (c *CostsController) Loaded() bool               { return c.loaded }
