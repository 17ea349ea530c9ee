package app

import (
	"context"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/jdlms/aws-tui/internal/config"
	"github.com/jdlms/aws-tui/internal/nav"
	"github.com/jdlms/aws-tui/internal/types"
)

var testNow = time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)

// queue is a Loop whose scheduled functions run when the test drains it
type queue chan func()

func (q queue) loop(fn func()) { q <- fn }

// settle runs scheduled functions until none arrives for a short while
func (q queue) settle(t *testing.T) {
	t.Helper()
	for {
		select {
		case fn := <-q:
			fn()
		case <-time.After(100 * time.Millisecond):
			return
		}
	}
}

type stateCall struct {
	ids    []string
	target types.TargetState
}

type objectCall struct {
	bucket, prefix, token string
}

type fakeBackend struct {
	mu sync.Mutex

	instancePages map[string]types.InstancePage
	instanceCalls []string
	instanceGates map[string]chan struct{}
	instancesErr  error

	statuses    []types.InstanceStatus
	statusCalls [][]string

	stateCalls []stateCall
	stateGate  chan struct{}
	stateErr   error

	regions     []types.Region
	regionCalls int

	buckets       []types.Bucket
	bucketCalls   int
	bucketRegions map[string]string

	objectPages map[objectCall]types.ObjectPage
	objectCalls []objectCall
	objectsErr  error

	body string

	records    []types.CostRecord
	costRanges []types.TimeRange
	costsErr   error
}

func (f *fakeBackend) ListInstances(ctx context.Context, _ int, token string) (types.InstancePage, error) {
	f.mu.Lock()
	f.instanceCalls = append(f.instanceCalls, token)
	gate := f.instanceGates[token]
	f.mu.Unlock()

	if gate != nil {
		// ignores ctx on purpose: late results must still be dropped
		<-gate
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.instancesErr != nil {
		return types.InstancePage{}, f.instancesErr
	}
	return f.instancePages[token], nil
}

func (f *fakeBackend) DescribeInstanceStatus(_ context.Context, ids []string) ([]types.InstanceStatus, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.statusCalls = append(f.statusCalls, ids)
	return f.statuses, nil
}

func (f *fakeBackend) SetInstanceState(_ context.Context, ids []string, target types.TargetState) error {
	f.mu.Lock()
	f.stateCalls = append(f.stateCalls, stateCall{ids: ids, target: target})
	gate := f.stateGate
	f.mu.Unlock()
	if gate != nil {
		<-gate
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.stateErr
}

func (f *fakeBackend) ListRegions(context.Context) ([]types.Region, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.regionCalls++
	return f.regions, nil
}

func (f *fakeBackend) ListBuckets(context.Context) ([]types.Bucket, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.bucketCalls++
	return f.buckets, nil
}

func (f *fakeBackend) BucketRegion(_ context.Context, bucket string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.bucketRegions[bucket], nil
}

func (f *fakeBackend) ListObjects(_ context.Context, bucket, prefix string, _ int, token string) (types.ObjectPage, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	call := objectCall{bucket: bucket, prefix: prefix, token: token}
	f.objectCalls = append(f.objectCalls, call)
	if f.objectsErr != nil {
		return types.ObjectPage{}, f.objectsErr
	}
	return f.objectPages[call], nil
}

func (f *fakeBackend) GetObject(context.Context, string, string) (io.ReadCloser, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return io.NopCloser(strings.NewReader(f.body)), nil
}

func (f *fakeBackend) FetchCostRecords(_ context.Context, tr types.TimeRange, _ []string) ([]types.CostRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.costRanges = append(f.costRanges, tr)
	if f.costsErr != nil {
		return nil, f.costsErr
	}
	return f.records, nil
}

func (f *fakeBackend) calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.instanceCalls...)
}

func (f *fakeBackend) states() []stateCall {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]stateCall(nil), f.stateCalls...)
}

func (f *fakeBackend) set(fn func(f *fakeBackend)) {
	f.mu.Lock()
	defer f.mu.Unlock()
	fn(f)
}

func newTestShell(t *testing.T, fb *fakeBackend, mutate ...func(*Options)) (*Shell, queue) {
	t.Helper()
	q := make(queue, 64)
	opts := Options{
		Loop:     q.loop,
		Context:  context.Background(),
		Backend:  fb,
		Settings: config.Settings{Region: "us-east-1", PageSize: 2, RefreshSeconds: 30},
		Logger:   zerolog.Nop(),
		Now:      func() time.Time { return testNow },
		Home:     t.TempDir(),
	}
	for _, m := range mutate {
		m(&opts)
	}
	return NewShell(opts), q
}

func instances(ids ...string) []types.Instance {
	out := make([]types.Instance, 0, len(ids))
	for _, id := range ids {
		out = append(out, types.Instance{InstanceID: id, State: "running"})
	}
	return out
}

func openInstances(t *testing.T, s *Shell, q queue) {
	t.Helper()
	s.stack.Push(nav.List(types.KindInstances))
	q.settle(t)
}
