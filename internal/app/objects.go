package app

import (
	"context"

	"github.com/jdlms/aws-tui/internal/nav"
	"github.com/jdlms/aws-tui/internal/types"
)

// Location is a bucket and a prefix inside it
type Location struct {
	Bucket string
	Prefix string
}

// ObjectsController drives the bucket list and the object listing of
// one location. Where the location comes from is up to the page stack.
type ObjectsController struct {
	view

	bucketSession  nav.Session
	bucketsLoading bool
	bucketsLoaded  bool
	bucketsErr     error
	buckets        []types.Bucket
	bucketSel      int

	inBucket bool
	loc      Location
	cursor   *nav.Cursor
	items    []types.Item
	selected int
	loaded   bool

	regions map[string]string
}

func newObjectsController(e *env) *ObjectsController {
	return &ObjectsController{
		view:    view{env: e},
		cursor:  nav.NewCursor(),
		regions: make(map[string]string),
	}
}

// ShowBuckets switches to the bucket list, loading it once
func (c *ObjectsController) ShowBuckets() {
	c.cancel()
	c.inBucket = false
	if !c.bucketsLoaded && !c.bucketsLoading {
		c.loadBuckets()
	}
}

func (c *ObjectsController) loadBuckets() {
	backend := c.env.backend
	c.bucketsLoading = true
	c.info = ""
	nav.Fetch(c.env.loop, &c.bucketSession, c.env.ctx, nav.Request[[]types.Bucket]{
		Call: func(ctx context.Context) ([]types.Bucket, error) {
			return backend.ListBuckets(ctx)
		},
		Commit: func(buckets []types.Bucket) {
			c.buckets = buckets
			c.bucketSel = nav.Clamp(c.bucketSel, len(buckets))
			c.bucketsLoaded = true
			c.bucketsErr = nil
		},
		Fail: func(err error) {
			c.env.log.Warn().Err(err).Msg("list buckets failed")
			c.bucketsErr = err
		},
		Done: func() { c.bucketsLoading = false },
	})
}

// Open lists loc from its first page. Opening the location already shown
// keeps the listing.
func (c *ObjectsController) Open(loc Location) {
	if c.inBucket && loc == c.loc && (c.loaded || c.loading) {
		return
	}
	c.cancel()
	c.inBucket = true
	c.loc = loc
	c.cursor.Reset()
	c.items = nil
	c.selected = 0
	c.loaded = false
	c.err = nil
	c.info = ""
	c.resolveRegion(loc.Bucket)
	c.load(0, false, false)
}

// resolveRegion looks up the bucket region in the background. The result
// is only ever added, never replaced.
func (c *ObjectsController) resolveRegion(bucket string) {
	if _, ok := c.regions[bucket]; ok {
		return
	}
	backend, ctx, loop, log := c.env.backend, c.env.ctx, c.env.loop, c.env.log
	go func() {
		region, err := backend.BucketRegion(ctx, bucket)
		if err != nil {
			if !nav.IsCancelled(err) {
				log.Debug().Err(err).Str("bucket", bucket).Msg("bucket region lookup failed")
			}
			return
		}
		loop(func() {
			if _, ok := c.regions[bucket]; !ok {
				c.regions[bucket] = region
			}
		})
	}()
}

// Refresh reloads the current level. Inside a bucket the listing restarts
// at the first page of the current location.
func (c *ObjectsController) Refresh() {
	if !c.inBucket {
		c.loadBuckets()
		return
	}
	c.load(0, true, true)
}

// NextPage requests the next page of the location
func (c *ObjectsController) NextPage() {
	if !c.inBucket || !c.cursor.HasNext() {
		c.info = "No more pages."
		return
	}
	c.load(c.cursor.Index()+1, false, false)
}

// PrevPage requests the previous page of the location
func (c *ObjectsController) PrevPage() {
	if !c.inBucket || c.cursor.Index() == 0 {
		c.info = "Already on the first page."
		return
	}
	c.load(c.cursor.Index()-1, false, false)
}

func (c *ObjectsController) load(index int, keepSelection, reset bool) {
	token, err := c.cursor.Token(index)
	if err != nil {
		c.env.log.Error().Err(err).Int("index", index).Msg("object page token")
		return
	}
	backend, pageSize, loc := c.env.backend, c.env.settings.PageSize, c.loc

	c.loading = true
	c.info = ""
	nav.Fetch(c.env.loop, &c.session, c.env.ctx, nav.Request[types.ObjectPage]{
		Call: func(ctx context.Context) (types.ObjectPage, error) {
			return backend.ListObjects(ctx, loc.Bucket, loc.Prefix, pageSize, token)
		},
		Commit: func(page types.ObjectPage) {
			if reset {
				c.cursor.Reset()
			}
			if err := c.cursor.Seek(index); err != nil {
				c.env.log.Error().Err(err).Int("index", index).Msg("object page seek")
			}
			c.cursor.RecordNext(index, page.NextToken)

			c.items = page.Items
			if keepSelection {
				c.selected = nav.Clamp(c.selected, len(c.items))
			} else {
				c.selected = 0
			}
			c.err = nil
			c.loaded = true
		},
		Fail: c.fail("ListObjects"),
		Done: c.done,
	})
}

// Move shifts the selection of the visible level
func (c *ObjectsController) Move(delta int) {
	if c.inBucket {
		c.selected = move(c.selected, delta, len(c.items))
		return
	}
	c.bucketSel = move(c.bucketSel, delta, len(c.buckets))
}

// SelectedBucket returns the selected bucket of the bucket list
func (c *ObjectsController) SelectedBucket() (types.Bucket, bool) {
	if len(c.buckets) == 0 {
		return types.Bucket{}, false
	}
	return c.buckets[c.bucketSel], true
}

// SelectedItem returns the selected folder or file of the location
func (c *ObjectsController) SelectedItem() (types.Item, bool) {
	if len(c.items) == 0 {
		return nil, false
	}
	return c.items[c.selected], true
}

// Leave cancels the listings in flight
func (c *ObjectsController) Leave() {
	c.cancel()
	c.bucketSession.Cancel()
	c.bucketsLoading = false
}

// Reset forgets both levels, used when the region or profile changes
func (c *ObjectsController) Reset() {
	c.Leave()
	c.buckets = nil
	c.bucketSel = 0
	c.bucketsLoaded = false
	c.bucketsErr = nil
	c.inBucket = false
	c.loc = Location{}
	c.cursor.Reset()
	c.items = nil
	c.selected = 0
	c.loaded = false
	c.err = nil
	c.info = ""
}

// ClearTransient also drops the bucket list error
func (c *ObjectsController) ClearTransient() {
	c.view.ClearTransient()
	c.bucketsErr = nil
}

// Region returns the resolved region of a bucket, empty while unknown
func (c *ObjectsController) Region(bucket string) string {
	return c.regions[bucket]
}

// Loading reports whether the visible level is loading
func (c *ObjectsController) Loading() bool {
	if c.inBucket {
		return c.loading
	}
	return c.bucketsLoading
}

// Err is the error of the visible level
func (c *ObjectsController) Err() error {
	if c.inBucket {
		return c.err
	}
	return c.bucketsErr
}

func (c *ObjectsController) Buckets() []types.Bucket { return c.buckets }
func (c *ObjectsController) BucketSelection() int    { return c.bucketSel }
func (c *ObjectsController) Items() []types.Item     { return c.items }
func (c *ObjectsController) Selection() int          { return c.selected }
func (c *ObjectsController) PageIndex() int          { return c.cursor.Index() }
func (c *ObjectsController) HasNextPage() bool       { return c.cursor.HasNext() }

// Location returns the open location, false on the bucket list
func (c *ObjectsController) Location() (Location, bool) {
	return c.loc, c.inBucket
}
