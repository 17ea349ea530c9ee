package app

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jdlms/aws-tui/internal/nav"
	"github.com/jdlms/aws-tui/internal/types"
)

func TestInstancesPagesReuseTokens(t *testing.T) {
	fb := &fakeBackend{instancePages: map[string]types.InstancePage{
		"":   {Items: instances("i-1", "i-2"), NextToken: "T1"},
		"T1": {Items: instances("i-3")},
	}}
	s, q := newTestShell(t, fb)
	openInstances(t, s, q)
	c := s.Instances

	require.Len(t, c.Items(), 2)
	assert.True(t, c.HasNextPage())

	c.NextPage()
	q.settle(t)
	assert.Equal(t, "i-3", c.Items()[0].InstanceID)
	assert.Equal(t, 1, c.PageIndex())

	c.PrevPage()
	q.settle(t)
	assert.Equal(t, 0, c.PageIndex())

	c.NextPage()
	q.settle(t)
	assert.Equal(t, []string{"", "T1", "", "T1"}, fb.calls())

	c.NextPage()
	assert.Equal(t, "No more pages.", c.Info())
	assert.Len(t, fb.calls(), 4)
}

func TestInstancesPrevPageOnFirstPage(t *testing.T) {
	fb := &fakeBackend{instancePages: map[string]types.InstancePage{"": {Items: instances("i-1")}}}
	s, q := newTestShell(t, fb)
	openInstances(t, s, q)

	s.Instances.PrevPage()
	assert.Equal(t, "Already on the first page.", s.Instances.Info())
	assert.Len(t, fb.calls(), 1)
}

func TestInstancesRefreshClampsSelection(t *testing.T) {
	fb := &fakeBackend{instancePages: map[string]types.InstancePage{
		"": {Items: instances("i-1", "i-2", "i-3", "i-4", "i-5")},
	}}
	s, q := newTestShell(t, fb)
	openInstances(t, s, q)
	c := s.Instances

	c.Select(4)
	require.Equal(t, 4, c.Selection())

	fb.set(func(f *fakeBackend) {
		f.instancePages[""] = types.InstancePage{Items: instances("i-1", "i-2")}
	})
	c.Refresh()
	q.settle(t)

	assert.Equal(t, 1, c.Selection())
	inst, ok := c.Selected()
	require.True(t, ok)
	assert.Equal(t, "i-2", inst.InstanceID)
}

func TestInstancesRefreshRestartsChain(t *testing.T) {
	fb := &fakeBackend{instancePages: map[string]types.InstancePage{
		"":   {Items: instances("i-1"), NextToken: "T1"},
		"T1": {Items: instances("i-2"), NextToken: "T2"},
	}}
	s, q := newTestShell(t, fb)
	openInstances(t, s, q)
	c := s.Instances

	c.NextPage()
	q.settle(t)
	require.Equal(t, 1, c.PageIndex())

	c.Refresh()
	q.settle(t)
	assert.Equal(t, 0, c.PageIndex())
	assert.Equal(t, 2, c.cursor.Len(), "only the first continuation is known again")
}

func TestInstancesLatestFetchWins(t *testing.T) {
	gate := make(chan struct{})
	fb := &fakeBackend{instancePages: map[string]types.InstancePage{
		"":   {Items: instances("i-1"), NextToken: "T1"},
		"T1": {Items: instances("i-late")},
	}}
	s, q := newTestShell(t, fb)
	openInstances(t, s, q)
	c := s.Instances

	// A: page 1 hangs
	fb.set(func(f *fakeBackend) { f.instanceGates = map[string]chan struct{}{"T1": gate} })
	c.NextPage()
	// B: a refresh of page 0 completes first
	c.Refresh()
	q.settle(t)
	require.Equal(t, "i-1", c.Items()[0].InstanceID)

	close(gate)
	q.settle(t)
	assert.Equal(t, "i-1", c.Items()[0].InstanceID)
	assert.Equal(t, 0, c.PageIndex())
	assert.False(t, c.Loading())
}

func TestInstancesLeaveDropsLateResult(t *testing.T) {
	gate := make(chan struct{})
	fb := &fakeBackend{
		instancePages: map[string]types.InstancePage{"": {Items: instances("i-1")}},
		instanceGates: map[string]chan struct{}{"": gate},
	}
	s, q := newTestShell(t, fb)
	openInstances(t, s, q)
	require.True(t, s.Instances.Loading())

	s.stack.Back()
	close(gate)
	q.settle(t)

	assert.Empty(t, s.Instances.Items())
	assert.False(t, s.Instances.Loading())
	assert.NoError(t, s.Instances.Err())
}

func TestInstancesFailedRefreshKeepsList(t *testing.T) {
	fb := &fakeBackend{instancePages: map[string]types.InstancePage{"": {Items: instances("i-1")}}}
	s, q := newTestShell(t, fb)
	openInstances(t, s, q)

	boom := errors.New("throttled")
	fb.set(func(f *fakeBackend) { f.instancesErr = boom })
	s.Instances.Refresh()
	q.settle(t)

	assert.ErrorIs(t, s.Instances.Err(), boom)
	require.Len(t, s.Instances.Items(), 1)
	assert.False(t, s.Instances.Loading())
}

func TestInstancesStatusLookup(t *testing.T) {
	ids := make([]string, 0, 25)
	for i := 0; i < 25; i++ {
		ids = append(ids, "i-"+string(rune('a'+i)))
	}
	fb := &fakeBackend{
		instancePages: map[string]types.InstancePage{"": {Items: instances(ids...)}},
		statuses: []types.InstanceStatus{
			{InstanceID: "i-a", InstanceStatus: "ok", SystemStatus: "ok"},
		},
	}
	s, q := newTestShell(t, fb)
	openInstances(t, s, q)

	require.Len(t, fb.statusCalls, 1)
	assert.Len(t, fb.statusCalls[0], statusLookupLimit)
	st, ok := s.Instances.Status("i-a")
	require.True(t, ok)
	assert.Equal(t, "ok/ok", st.String())
	_, ok = s.Instances.Status("i-b")
	assert.False(t, ok)
}

func TestInstancesActions(t *testing.T) {
	tests := []struct {
		name    string
		state   string
		start   bool
		wantErr error
		target  types.TargetState
	}{
		{name: "start stopped", state: "stopped", start: true, target: types.TargetRunning},
		{name: "stop running", state: "running", start: false, target: types.TargetStopped},
		{name: "start running", state: "running", start: true, wantErr: ErrActionNotAvailable},
		{name: "stop stopped", state: "stopped", start: false, wantErr: ErrActionNotAvailable},
		{name: "stop pending", state: "pending", start: false, wantErr: ErrActionNotAvailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fb := &fakeBackend{instancePages: map[string]types.InstancePage{
				"": {Items: []types.Instance{{InstanceID: "i-1", State: tt.state}}},
			}}
			s, q := newTestShell(t, fb)
			openInstances(t, s, q)
			c := s.Instances

			var err error
			if tt.start {
				err = c.Start()
			} else {
				err = c.Stop()
			}
			q.settle(t)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.ErrorIs(t, c.ActionErr(), tt.wantErr)
				assert.Empty(t, fb.stateCalls)
				return
			}
			require.NoError(t, err)
			require.Len(t, fb.stateCalls, 1)
			assert.Equal(t, []string{"i-1"}, fb.stateCalls[0].ids)
			assert.Equal(t, tt.target, fb.stateCalls[0].target)
			assert.Contains(t, c.ActionMsg(), "state may take time to update")
			assert.Len(t, fb.calls(), 2, "the page is reloaded after the request")
			assert.False(t, c.Acting())
		})
	}
}

func TestInstancesActionsAreSerialized(t *testing.T) {
	gate := make(chan struct{})
	fb := &fakeBackend{
		instancePages: map[string]types.InstancePage{"": {Items: []types.Instance{{InstanceID: "i-1", State: "stopped"}}}},
		stateGate:     gate,
	}
	s, q := newTestShell(t, fb)
	openInstances(t, s, q)
	c := s.Instances

	require.NoError(t, c.Start())
	assert.Equal(t, "Starting i-1...", c.ActionMsg())
	assert.ErrorIs(t, c.Start(), ErrActionInFlight)

	close(gate)
	q.settle(t)
	assert.False(t, c.Acting())
	assert.Len(t, fb.stateCalls, 1)
}

func TestInstanceDetailActsOnShownInstance(t *testing.T) {
	fb := &fakeBackend{instancePages: map[string]types.InstancePage{
		"":   {Items: instances("i-1", "i-2"), NextToken: "T1"},
		"T1": {Items: instances("i-3")},
	}}
	s, q := newTestShell(t, fb)
	openInstances(t, s, q)
	c := s.Instances

	s.Handle(IntentConfirm)
	require.Equal(t, nav.PageDetail, s.Page().Kind)
	require.Equal(t, "instances/i-1", s.Page().String())

	s.Handle(IntentMoveDown)
	s.Handle(IntentPageForward)
	q.settle(t)
	assert.Equal(t, 0, c.Selection(), "the list behind the detail page does not move")
	assert.Equal(t, 0, c.PageIndex())
	assert.Len(t, fb.calls(), 1)

	s.Handle(IntentStop)
	q.settle(t)

	states := fb.states()
	require.Len(t, states, 1)
	assert.Equal(t, []string{"i-1"}, states[0].ids)
	assert.Equal(t, types.TargetStopped, states[0].target)
}

func TestInstanceDetailUsesLatestState(t *testing.T) {
	fb := &fakeBackend{instancePages: map[string]types.InstancePage{
		"": {Items: []types.Instance{{InstanceID: "i-1", State: "running"}}},
	}}
	s, q := newTestShell(t, fb)
	openInstances(t, s, q)
	s.Handle(IntentConfirm)

	fb.set(func(f *fakeBackend) {
		f.instancePages[""] = types.InstancePage{Items: []types.Instance{{InstanceID: "i-1", State: "stopped"}}}
	})
	s.Handle(IntentRefresh)
	q.settle(t)

	s.Handle(IntentStop)
	assert.ErrorIs(t, s.Instances.ActionErr(), ErrActionNotAvailable)
	s.Handle(IntentStart)
	q.settle(t)

	states := fb.states()
	require.Len(t, states, 1)
	assert.Equal(t, types.TargetRunning, states[0].target)
}

func TestInstancesActionSurvivesLeaving(t *testing.T) {
	tests := []struct {
		name      string
		interrupt func(t *testing.T, s *Shell)
	}{
		{
			name: "leave and re-enter",
			interrupt: func(t *testing.T, s *Shell) {
				s.Handle(IntentBack)
				require.Equal(t, nav.PageHome, s.Page().Kind)
				s.Handle(IntentConfirm)
			},
		},
		{
			name:      "cancel pending",
			interrupt: func(_ *testing.T, s *Shell) { s.Handle(IntentCancelPending) },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gate := make(chan struct{})
			fb := &fakeBackend{
				instancePages: map[string]types.InstancePage{"": {Items: []types.Instance{{InstanceID: "i-1", State: "running"}}}},
				stateGate:     gate,
			}
			s, q := newTestShell(t, fb)
			openInstances(t, s, q)
			c := s.Instances

			require.NoError(t, c.Stop())
			tt.interrupt(t, s)
			require.True(t, s.Page().Is(types.KindInstances))

			assert.True(t, c.Acting())
			assert.ErrorIs(t, c.Stop(), ErrActionInFlight)

			close(gate)
			q.settle(t)
			assert.Len(t, fb.states(), 1)
			assert.False(t, c.Acting())
			assert.Contains(t, c.ActionMsg(), "state may take time to update")
		})
	}
}

func TestInstancesActionErrorIsSeparate(t *testing.T) {
	boom := errors.New("UnauthorizedOperation")
	fb := &fakeBackend{
		instancePages: map[string]types.InstancePage{"": {Items: []types.Instance{{InstanceID: "i-1", State: "running"}}}},
		stateErr:      boom,
	}
	s, q := newTestShell(t, fb)
	openInstances(t, s, q)
	c := s.Instances

	require.NoError(t, c.Stop())
	q.settle(t)

	assert.ErrorIs(t, c.ActionErr(), boom)
	assert.NoError(t, c.Err())
	assert.Empty(t, c.ActionMsg())
	assert.Len(t, fb.calls(), 1, "no reload after a failed request")
}

func TestInstancesTickRefreshes(t *testing.T) {
	fb := &fakeBackend{instancePages: map[string]types.InstancePage{"": {Items: instances("i-1")}}}
	s, q := newTestShell(t, fb)
	openInstances(t, s, q)

	s.Tick(testNow.Add(10 * time.Second))
	q.settle(t)
	assert.Len(t, fb.calls(), 1)

	s.Tick(testNow.Add(31 * time.Second))
	q.settle(t)
	assert.Len(t, fb.calls(), 2)
}
