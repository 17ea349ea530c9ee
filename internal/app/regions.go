package app

import (
	"context"

	"github.com/jdlms/aws-tui/internal/nav"
	"github.com/jdlms/aws-tui/internal/types"
)

// RegionsController drives the region picker
type RegionsController struct {
	view
	open     bool
	loaded   bool
	regions  []types.Region
	selected int
}

func newRegionsController(e *env) *RegionsController {
	return &RegionsController{view: view{env: e}}
}

// Open shows the picker with current preselected, loading the regions once
func (c *RegionsController) Open(current string) {
	c.open = true
	c.err = nil
	c.preselect(current)
	if !c.loaded && !c.loading {
		c.load(current)
	}
}

func (c *RegionsController) load(current string) {
	backend := c.env.backend
	c.loading = true
	nav.Fetch(c.env.loop, &c.session, c.env.ctx, nav.Request[[]types.Region]{
		Call: func(ctx context.Context) ([]types.Region, error) {
			return backend.ListRegions(ctx)
		},
		Commit: func(regions []types.Region) {
			c.regions = regions
			c.loaded = true
			c.preselect(current)
		},
		Fail: c.fail("DescribeRegions"),
		Done: c.done,
	})
}

func (c *RegionsController) preselect(current string) {
	for i, r := range c.regions {
		if r.Name == current {
			c.selected = i
			return
		}
	}
	c.selected = nav.Clamp(c.selected, len(c.regions))
}

// Close hides the picker
func (c *RegionsController) Close() {
	c.open = false
	c.cancel()
}

// Move shifts the selection
func (c *RegionsController) Move(delta int) {
	c.selected = move(c.selected, delta, len(c.regions))
}

// Selected returns the highlighted region
func (c *RegionsController) Selected() (types.Region, bool) {
	if len(c.regions) == 0 {
		return types.Region{}, false
	}
	return c.regions[c.selected], true
}

// Reset drops the region list so the next Open lists them again
func (c *RegionsController) Reset() {
	c.Close()
	c.loaded = false
	c.regions = nil
	c.selected = 0
	c.err = nil
}

func (c *RegionsController) IsOpen() bool            { return c.open }
func (c *RegionsController) Regions() []types.Region { return c.regions }
func (c *RegionsController) Selection() int          { return c.selected }
