package app

import (
	"context"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/rs/zerolog"

	"github.com/jdlms/aws-tui/internal/config"
	"github.com/jdlms/aws-tui/internal/nav"
	"github.com/jdlms/aws-tui/internal/types"
)

// HomeItems are the views reachable from the home page, in menu order
var HomeItems = []types.Kind{types.KindInstances, types.KindObjects, types.KindCosts}

// Options configure a Shell
type Options struct {
	Loop     nav.Loop
	Context  context.Context
	Backend  Backend
	Factory  BackendFactory
	Settings config.Settings
	// File is the settings file as loaded, before environment and flag
	// overrides. Region switches persist it with only the region changed.
	File       config.Config
	ConfigPath string
	Logger     zerolog.Logger
	Now        func() time.Time
	Home       string
}

// Shell owns the page stack and the view controllers. Every method must
// be called on the loop the controllers were given.
type Shell struct {
	env      *env
	settings config.Settings
	file     config.Config
	stack    *nav.Stack

	Instances *InstancesController
	Objects   *ObjectsController
	Costs     *CostsController
	Regions   *RegionsController
	Download  *DownloadController

	homeSel int
	err     error
	info    string
	quit    bool

	factory       BackendFactory
	configPath    string
	switchSession nav.Session
	switching     bool
}

// NewShell builds the controllers on the home page
func NewShell(opts Options) *Shell {
	s := &Shell{
		settings:   opts.Settings,
		file:       opts.File,
		stack:      nav.NewStack(),
		factory:    opts.Factory,
		configPath: opts.ConfigPath,
	}
	if s.file == (config.Config{}) {
		s.file = config.Default()
	}
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	s.env = &env{
		loop:     opts.Loop,
		ctx:      ctx,
		backend:  opts.Backend,
		settings: &s.settings,
		log:      opts.Logger,
		now:      now,
		home:     opts.Home,
	}
	s.Instances = newInstancesController(s.env)
	s.Objects = newObjectsController(s.env)
	s.Costs = newCostsController(s.env)
	s.Regions = newRegionsController(s.env)
	s.Download = newDownloadController(s.env)
	s.stack.OnChange = s.pageChanged
	return s
}

// controller is what the shell needs from every view when pages change
type controller interface {
	Leave()
	ClearTransient()
}

func (s *Shell) controllerFor(p nav.Page) controller {
	switch {
	case p.Is(types.KindInstances):
		return s.Instances
	case p.Kind == nav.PageDetail && p.Is(types.KindObjects):
		if _, ok := p.Item.(types.ObjectFile); ok {
			return s.Download
		}
		return s.Objects
	case p.Is(types.KindObjects):
		return s.Objects
	case p.Is(types.KindCosts):
		return s.Costs
	}
	return nil
}

func (s *Shell) pageChanged(prev, next nav.Page) {
	s.err = nil
	s.info = ""
	s.env.log.Debug().Str("from", prev.String()).Str("to", next.String()).Msg("page changed")

	if c := s.controllerFor(prev); c != nil {
		c.ClearTransient()
		if c != s.controllerFor(next) {
			c.Leave()
		}
	}
	s.activate(next)
}

// activate starts whatever the page needs from its controller
func (s *Shell) activate(p nav.Page) {
	switch {
	case p.Kind == nav.PageHome:
		s.homeSel = nav.Clamp(s.homeSel, len(HomeItems))
	case p.Is(types.KindInstances):
		s.Instances.Activate()
	case p.Is(types.KindCosts):
		s.Costs.Activate()
	case p.Is(types.KindObjects) && p.Kind == nav.PageList:
		s.Objects.ShowBuckets()
	case p.Is(types.KindObjects):
		if file, ok := p.Item.(types.ObjectFile); ok {
			s.Download.Prepare(p.Extra, file.Key)
			return
		}
		if loc, ok := objectLocation(p); ok {
			s.Objects.Open(loc)
		}
	}
}

// objectLocation reads the bucket and prefix an objects page lists
func objectLocation(p nav.Page) (Location, bool) {
	switch item := p.Item.(type) {
	case types.Bucket:
		return Location{Bucket: item.Name}, true
	case types.ObjectFolder:
		return Location{Bucket: p.Extra, Prefix: item.Prefix}, true
	}
	return Location{}, false
}

// Handle applies one intent
func (s *Shell) Handle(intent Intent) {
	if intent == IntentNone {
		return
	}
	if s.Regions.IsOpen() {
		s.handleRegions(intent)
		return
	}

	switch intent {
	case IntentQuit:
		s.quit = true
		return
	case IntentBack:
		s.stack.Back()
		return
	case IntentHistoryBack:
		s.stack.Back()
		return
	case IntentHistoryForward:
		s.stack.Forward()
		return
	case IntentOpenRegions:
		s.Regions.Open(s.settings.Region)
		return
	case IntentCancelPending:
		s.cancelPending()
		return
	}

	page := s.stack.Current()
	switch {
	case page.Kind == nav.PageHome:
		s.handleHome(intent)
	case page.Is(types.KindInstances):
		s.handleInstances(page, intent)
	case page.Is(types.KindObjects):
		s.handleObjects(page, intent)
	case page.Is(types.KindCosts):
		s.handleCosts(intent)
	}
}

func (s *Shell) handleHome(intent Intent) {
	switch intent {
	case IntentMoveUp:
		s.homeSel = move(s.homeSel, -1, len(HomeItems))
	case IntentMoveDown:
		s.homeSel = move(s.homeSel, 1, len(HomeItems))
	case IntentConfirm:
		s.stack.Push(nav.List(HomeItems[s.homeSel]))
	}
}

func (s *Shell) handleInstances(page nav.Page, intent Intent) {
	c := s.Instances
	if page.Kind == nav.PageDetail {
		s.handleInstanceDetail(page, intent)
		return
	}
	switch intent {
	case IntentMoveUp:
		c.Move(-1)
	case IntentMoveDown:
		c.Move(1)
	case IntentPageForward:
		c.NextPage()
	case IntentPageBackward:
		c.PrevPage()
	case IntentRefresh:
		c.Refresh()
	case IntentStart:
		_ = c.Start()
	case IntentStop:
		_ = c.Stop()
	case IntentConfirm:
		if inst, ok := c.Selected(); ok {
			s.stack.Push(nav.Detail(types.KindInstances, inst, ""))
		}
	}
}

// handleInstanceDetail acts on the instance the page shows. The list
// selection behind it is left alone.
func (s *Shell) handleInstanceDetail(page nav.Page, intent Intent) {
	inst, ok := page.Item.(types.Instance)
	if !ok {
		return
	}
	c := s.Instances
	if latest, found := c.Find(inst.InstanceID); found {
		inst = latest
	}
	switch intent {
	case IntentRefresh:
		c.reloadPage()
	case IntentStart:
		_ = c.StartInstance(inst)
	case IntentStop:
		_ = c.StopInstance(inst)
	}
}

func (s *Shell) handleObjects(page nav.Page, intent Intent) {
	if _, ok := page.Item.(types.ObjectFile); ok {
		switch intent {
		case IntentConfirm:
			_ = s.Download.Download()
		case IntentComplete:
			s.Download.Complete()
		}
		return
	}

	c := s.Objects
	switch intent {
	case IntentMoveUp:
		c.Move(-1)
	case IntentMoveDown:
		c.Move(1)
	case IntentPageForward:
		c.NextPage()
	case IntentPageBackward:
		c.PrevPage()
	case IntentRefresh:
		c.Refresh()
	case IntentConfirm:
		s.drillIn(page)
	}
}

// drillIn pushes the page of the selected bucket, folder or file
func (s *Shell) drillIn(page nav.Page) {
	if page.Kind == nav.PageList {
		if b, ok := s.Objects.SelectedBucket(); ok {
			s.stack.Push(nav.Detail(types.KindObjects, b, ""))
		}
		return
	}
	loc, ok := s.Objects.Location()
	if !ok {
		return
	}
	item, ok := s.Objects.SelectedItem()
	if !ok {
		return
	}
	s.stack.Push(nav.Detail(types.KindObjects, item, loc.Bucket))
}

func (s *Shell) handleCosts(intent Intent) {
	c := s.Costs
	switch intent {
	case IntentMoveUp:
		c.Move(-1)
	case IntentMoveDown:
		c.Move(1)
	case IntentRefresh:
		c.Refresh()
	case IntentCycleRange:
		c.CycleRange()
	case IntentToggleAll:
		c.ToggleAll()
	case IntentExpand:
		c.Expand()
	case IntentCollapse:
		c.Collapse()
	case IntentConfirm:
		c.Toggle()
	}
}

func (s *Shell) handleRegions(intent Intent) {
	switch intent {
	case IntentQuit:
		s.quit = true
	case IntentMoveUp:
		s.Regions.Move(-1)
	case IntentMoveDown:
		s.Regions.Move(1)
	case IntentBack, IntentOpenRegions, IntentCancelPending:
		s.Regions.Close()
	case IntentConfirm:
		region, ok := s.Regions.Selected()
		if !ok {
			return
		}
		s.Regions.Close()
		if region.Name != s.settings.Region {
			s.SwitchRegion(region.Name)
		}
	}
}

func (s *Shell) cancelPending() {
	if c := s.controllerFor(s.stack.Current()); c != nil {
		c.Leave()
		s.info = "Pending requests cancelled."
	}
}

type switchResult struct {
	backend Backend
	saveErr error
}

// SwitchRegion builds a backend for region, persists the choice and resets
// every view that lists regional data
func (s *Shell) SwitchRegion(region string) {
	if s.factory == nil {
		return
	}
	next := s.settings
	next.Region = region
	file := s.file
	file.Region = region
	factory, path := s.factory, s.configPath

	s.switching = true
	s.err = nil
	s.info = "Switching to " + region + "..."
	nav.Fetch(s.env.loop, &s.switchSession, s.env.ctx, nav.Request[switchResult]{
		Call: func(ctx context.Context) (switchResult, error) {
			backend, err := factory(ctx, next.Profile, next.Region)
			if err != nil {
				return switchResult{}, goerr.Wrap(err, "connect to region", goerr.V("region", region))
			}
			res := switchResult{backend: backend}
			if path != "" {
				if err := config.Save(path, file); err != nil {
					res.saveErr = goerr.Wrap(err, "save region", goerr.V("path", path))
				}
			}
			return res, nil
		},
		Commit: func(res switchResult) {
			s.settings = next
			s.file = file
			s.env.backend = res.backend
			s.resetViews()
			s.activate(s.stack.Current())
			s.info = "Region set to " + region + "."
			if res.saveErr != nil {
				s.env.log.Warn().Err(res.saveErr).Msg("region not persisted")
				s.err = res.saveErr
			}
			s.env.log.Info().Str("region", region).Msg("region switched")
		},
		Fail: func(err error) {
			s.env.log.Warn().Err(err).Str("region", region).Msg("region switch failed")
			s.err = err
			s.info = ""
		},
		Done: func() { s.switching = false },
	})
}

func (s *Shell) resetViews() {
	s.Instances.Reset()
	s.Objects.Reset()
	s.Costs.Reset()
	s.Regions.Reset()
	s.Download.Leave()
}

// Tick runs periodic work such as the instance auto refresh
func (s *Shell) Tick(now time.Time) {
	if s.stack.Current().Is(types.KindInstances) {
		s.Instances.Tick(now)
	}
}

// Page is the active page
func (s *Shell) Page() nav.Page { return s.stack.Current() }

// Stack exposes the page history
func (s *Shell) Stack() *nav.Stack { return s.stack }

// Settings are the effective settings
func (s *Shell) Settings() config.Settings { return s.settings }

func (s *Shell) HomeSelection() int { return s.homeSel }
func (s *Shell) Err() error         { return s.err }
func (s *Shell) Info() string       { return s.info }
func (s *Shell) Quit() bool         { return s.quit }
func (s *Shell) Switching() bool    { return s.switching }
