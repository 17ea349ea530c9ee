package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jdlms/aws-tui/internal/nav"
	"github.com/jdlms/aws-tui/internal/types"
)

// statusLookupLimit caps the status check lookup after a page loads
const statusLookupLimit = 20

var (
	// ErrActionInFlight rejects a start or stop while another one runs
	ErrActionInFlight = errors.New("another action is in progress")
	// ErrActionNotAvailable rejects a start or stop the instance state does not allow
	ErrActionNotAvailable = errors.New("action not available for this state")
)

// InstancesController drives the paginated EC2 instance list
type InstancesController struct {
	view
	cursor   *nav.Cursor
	items    []types.Instance
	selected int
	loaded   bool
	loadedAt time.Time

	statusSession nav.Session
	statuses      map[string]types.InstanceStatus

	actionSession nav.Session
	acting        bool
	actionErr     error
	actionMsg     string
}

func newInstancesController(e *env) *InstancesController {
	return &InstancesController{
		view:     view{env: e},
		cursor:   nav.NewCursor(),
		statuses: make(map[string]types.InstanceStatus),
	}
}

// Activate loads the first page unless a page is already shown
func (c *InstancesController) Activate() {
	if !c.loaded && !c.loading {
		c.load(0, false, false)
	}
}

// Refresh restarts the listing at the first page, keeping the selection
// index where the new page allows it
func (c *InstancesController) Refresh() {
	c.load(0, true, true)
}

// reloadPage fetches the current page again
func (c *InstancesController) reloadPage() {
	c.load(c.cursor.Index(), true, false)
}

// NextPage requests the page after the current one
func (c *InstancesController) NextPage() {
	if !c.cursor.HasNext() {
		c.info = "No more pages."
		return
	}
	c.load(c.cursor.Index()+1, false, false)
}

// PrevPage requests the page before the current one
func (c *InstancesController) PrevPage() {
	if c.cursor.Index() == 0 {
		c.info = "Already on the first page."
		return
	}
	c.load(c.cursor.Index()-1, false, false)
}

func (c *InstancesController) load(index int, keepSelection, reset bool) {
	token, err := c.cursor.Token(index)
	if err != nil {
		c.env.log.Error().Err(err).Int("index", index).Msg("instance page token")
		return
	}
	backend, pageSize := c.env.backend, c.env.settings.PageSize

	c.loading = true
	c.info = ""
	nav.Fetch(c.env.loop, &c.session, c.env.ctx, nav.Request[types.InstancePage]{
		Call: func(ctx context.Context) (types.InstancePage, error) {
			return backend.ListInstances(ctx, pageSize, token)
		},
		Commit: func(page types.InstancePage) {
			if reset {
				c.cursor.Reset()
			}
			if err := c.cursor.Seek(index); err != nil {
				c.env.log.Error().Err(err).Int("index", index).Msg("instance page seek")
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
			c.loadedAt = c.env.now()
			c.lookupStatuses()
		},
		Fail: c.fail("ListInstances"),
		Done: c.done,
	})
}

// lookupStatuses fetches the status checks of the first items of the page
// and merges them by instance id
func (c *InstancesController) lookupStatuses() {
	ids := make([]string, 0, statusLookupLimit)
	for _, inst := range c.items {
		if len(ids) == statusLookupLimit {
			break
		}
		ids = append(ids, inst.InstanceID)
	}
	if len(ids) == 0 {
		return
	}
	backend := c.env.backend

	nav.Fetch(c.env.loop, &c.statusSession, c.env.ctx, nav.Request[[]types.InstanceStatus]{
		Call: func(ctx context.Context) ([]types.InstanceStatus, error) {
			return backend.DescribeInstanceStatus(ctx, ids)
		},
		Commit: func(statuses []types.InstanceStatus) {
			for _, s := range statuses {
				c.statuses[s.InstanceID] = s
			}
		},
		Fail: func(err error) {
			c.env.log.Debug().Err(err).Int("ids", len(ids)).Msg("status lookup failed")
		},
	})
}

// Start asks for the selected instance to be started
func (c *InstancesController) Start() error {
	inst, ok := c.Selected()
	if !ok {
		return nil
	}
	return c.act(inst, types.TargetRunning)
}

// Stop asks for the selected instance to be stopped
func (c *InstancesController) Stop() error {
	inst, ok := c.Selected()
	if !ok {
		return nil
	}
	return c.act(inst, types.TargetStopped)
}

// StartInstance asks for inst to be started whatever the selection is
func (c *InstancesController) StartInstance(inst types.Instance) error {
	return c.act(inst, types.TargetRunning)
}

// StopInstance asks for inst to be stopped whatever the selection is
func (c *InstancesController) StopInstance(inst types.Instance) error {
	return c.act(inst, types.TargetStopped)
}

// act sends one state change. A request already sent is never aborted, so
// acting stays set until it completes, even across Leave.
func (c *InstancesController) act(inst types.Instance, target types.TargetState) error {
	if c.acting {
		c.actionErr = ErrActionInFlight
		return ErrActionInFlight
	}
	if !actionAllowed(inst.State, target) {
		c.actionErr = ErrActionNotAvailable
		return ErrActionNotAvailable
	}

	verb, past := "Starting", "Start"
	if target == types.TargetStopped {
		verb, past = "Stopping", "Stop"
	}
	backend, id := c.env.backend, inst.InstanceID

	c.acting = true
	c.actionErr = nil
	c.actionMsg = fmt.Sprintf("%s %s...", verb, id)
	nav.Fetch(c.env.loop, &c.actionSession, c.env.ctx, nav.Request[struct{}]{
		Call: func(ctx context.Context) (struct{}, error) {
			return struct{}{}, backend.SetInstanceState(ctx, []string{id}, target)
		},
		Commit: func(struct{}) {
			c.env.log.Info().Str("instance", id).Str("target", string(target)).Msg("state change requested")
			c.actionMsg = past + " request sent; state may take time to update."
			c.reloadPage()
		},
		Fail: func(err error) {
			c.env.log.Warn().Err(err).Str("instance", id).Msg("state change failed")
			c.actionMsg = ""
			c.actionErr = err
		},
		Done: func() { c.acting = false },
	})
	return nil
}

func actionAllowed(state string, target types.TargetState) bool {
	switch target {
	case types.TargetRunning:
		return state == "stopped"
	case types.TargetStopped:
		return state == "running"
	}
	return false
}

// Leave cancels the listing and status lookups. A start or stop already
// sent keeps running and still reports its outcome.
func (c *InstancesController) Leave() {
	c.cancel()
	c.statusSession.Cancel()
}

// Reset forgets the listing, used when the region or profile changes
func (c *InstancesController) Reset() {
	c.Leave()
	c.actionSession.Cancel()
	c.acting = false
	c.cursor.Reset()
	c.items = nil
	c.selected = 0
	c.loaded = false
	c.statuses = make(map[string]types.InstanceStatus)
	c.err = nil
	c.info = ""
	c.actionErr = nil
	c.actionMsg = ""
}

// Tick refreshes the page once it is older than the refresh interval
func (c *InstancesController) Tick(now time.Time) {
	if !c.loaded || c.loading || c.acting {
		return
	}
	interval := time.Duration(c.env.settings.RefreshSeconds) * time.Second
	if interval > 0 && now.Sub(c.loadedAt) >= interval {
		c.reloadPage()
	}
}

// ClearTransient also drops the action messages
func (c *InstancesController) ClearTransient() {
	c.view.ClearTransient()
	c.actionErr = nil
	if !c.acting {
		c.actionMsg = ""
	}
}

// Move shifts the selection
func (c *InstancesController) Move(delta int) {
	c.selected = move(c.selected, delta, len(c.items))
}

// Select sets the selection, clamped to the list
func (c *InstancesController) Select(index int) {
	c.selected = nav.Clamp(index, len(c.items))
}

// Selected returns the selected instance
func (c *InstancesController) Selected() (types.Instance, bool) {
	if len(c.items) == 0 {
		return types.Instance{}, false
	}
	return c.items[c.selected], true
}

// Find returns the instance with id from the current page
func (c *InstancesController) Find(id string) (types.Instance, bool) {
	for _, inst := range c.items {
		if inst.InstanceID == id {
			return inst, true
		}
	}
	return types.Instance{}, false
}

func (c *InstancesController) Items() []types.Instance { return c.items }
func (c *InstancesController) Selection() int          { return c.selected }
func (c *InstancesController) PageIndex() int          { return c.cursor.Index() }
func (c *InstancesController) HasNextPage() bool       { return c.cursor.HasNext() }
func (c *InstancesController) Acting() bool            { return c.acting }
func (c *InstancesController) ActionErr() error        { return c.actionErr }
func (c *InstancesController) ActionMsg() string       { return c.actionMsg }

// Status returns the merged status checks of an instance
func (c *InstancesController) Status(id string) (types.InstanceStatus, bool) {
	s, ok := c.statuses[id]
	return s, ok
}
