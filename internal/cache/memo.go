// Package cache holds the process-lifetime bucket region memo.
package cache

import (
	"context"
	"sync"

	"golang.org/x/sync/singleflight"
)

// RegionLookup resolves the region of one bucket
type RegionLookup func(ctx context.Context, bucket string) (string, error)

// RegionMemo maps bucket names to regions. Entries are added once and never
// evicted; a bucket keeps its region for its whole life.
type RegionMemo struct {
	mu      sync.RWMutex
	regions map[string]string
	group   singleflight.Group
}

// NewRegionMemo returns an empty memo
func NewRegionMemo() *RegionMemo {
	return &RegionMemo{regions: make(map[string]string)}
}

// Get returns the memoized region of bucket
func (m *RegionMemo) Get(bucket string) (string, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	region, ok := m.regions[bucket]
	return region, ok
}

// Len is the number of known buckets
func (m *RegionMemo) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.regions)
}

// Resolve returns the memoized region or runs lookup once for all concurrent
// callers. Failures are not memoized.
func (m *RegionMemo) Resolve(ctx context.Context, bucket string, lookup RegionLookup) (string, error) {
	if region, ok := m.Get(bucket); ok {
		return region, nil
	}

	v, err, _ := m.group.Do(bucket, func() (any, error) {
		if region, ok := m.Get(bucket); ok {
			return region, nil
		}
		region, err := lookup(ctx, bucket)
		if err != nil {
			return "", err
		}
		m.put(bucket, region)
		return region, nil
	})
	if err != nil {
		return "", err
	}
	return v.(string), nil
}

func (m *RegionMemo) put(bucket, region string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.regions[bucket]; !ok {
		m.regions[bucket] = region
	}
}
