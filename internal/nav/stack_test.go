package nav

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jdlms/aws-tui/internal/types"
)

func TestStackStartsAtHome(t *testing.T) {
	s := NewStack()

	assert.Equal(t, Home(), s.Current())
	assert.Equal(t, 1, s.Depth())
	assert.Equal(t, 0, s.ForwardDepth())
}

func TestStackBackNeverPopsRoot(t *testing.T) {
	s := NewStack()
	calls := 0
	s.OnChange = func(prev, next Page) { calls++ }

	assert.False(t, s.Back())
	assert.Equal(t, Home(), s.Current())
	assert.Zero(t, calls)
}

func TestStackForwardOnEmptyIsNoop(t *testing.T) {
	s := NewStack()
	s.Push(List(types.KindInstances))

	assert.False(t, s.Forward())
	assert.Equal(t, List(types.KindInstances), s.Current())
}

func TestStackBackThenForwardRestoresPage(t *testing.T) {
	s := NewStack()
	detail := Detail(types.KindInstances, types.Instance{InstanceID: "i-1"}, "ok/ok")
	s.Push(List(types.KindInstances))
	s.Push(detail)

	require.True(t, s.Back())
	assert.Equal(t, List(types.KindInstances), s.Current())
	assert.Equal(t, 1, s.ForwardDepth())

	require.True(t, s.Forward())
	assert.Equal(t, detail, s.Current())
	assert.Equal(t, 0, s.ForwardDepth())
}

func TestStackPushClearsForward(t *testing.T) {
	tests := []struct {
		name string
		ops  func(s *Stack)
	}{
		{
			name: "after one back",
			ops: func(s *Stack) {
				s.Push(List(types.KindObjects))
				s.Back()
			},
		},
		{
			name: "after several backs",
			ops: func(s *Stack) {
				s.Push(List(types.KindObjects))
				s.Push(Detail(types.KindObjects, types.Bucket{Name: "logs"}, ""))
				s.Push(Detail(types.KindObjects, types.ObjectFolder{Prefix: "2024/"}, "logs"))
				s.Back()
				s.Back()
			},
		},
		{
			name: "after back and forward",
			ops: func(s *Stack) {
				s.Push(List(types.KindCosts))
				s.Push(List(types.KindInstances))
				s.Back()
				s.Back()
				s.Forward()
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewStack()
			tt.ops(s)
			require.NotZero(t, s.ForwardDepth())

			s.Push(List(types.KindInstances))
			assert.Zero(t, s.ForwardDepth())
			assert.False(t, s.Forward())
		})
	}
}

func TestStackForwardOrder(t *testing.T) {
	s := NewStack()
	a := List(types.KindObjects)
	b := Detail(types.KindObjects, types.Bucket{Name: "a"}, "")
	c := Detail(types.KindObjects, types.ObjectFolder{Prefix: "x/"}, "a")
	s.Push(a)
	s.Push(b)
	s.Push(c)

	s.Back()
	s.Back()
	assert.Equal(t, a, s.Current())

	s.Forward()
	assert.Equal(t, b, s.Current())
	s.Forward()
	assert.Equal(t, c, s.Current())
}

func TestStackOnChange(t *testing.T) {
	s := NewStack()
	var seen [][2]Page
	s.OnChange = func(prev, next Page) { seen = append(seen, [2]Page{prev, next}) }

	list := List(types.KindCosts)
	s.Push(list)
	s.Back()
	s.Forward()

	require.Len(t, seen, 3)
	assert.Equal(t, [2]Page{Home(), list}, seen[0])
	assert.Equal(t, [2]Page{list, Home()}, seen[1])
	assert.Equal(t, [2]Page{Home(), list}, seen[2])
}

func TestPageIs(t *testing.T) {
	assert.False(t, Home().Is(types.KindInstances))
	assert.True(t, List(types.KindInstances).Is(types.KindInstances))
	assert.True(t, Detail(types.KindObjects, types.Bucket{Name: "b"}, "").Is(types.KindObjects))
	assert.False(t, Detail(types.KindObjects, types.Bucket{Name: "b"}, "").Is(types.KindCosts))
	assert.Equal(t, "objects/b", Detail(types.KindObjects, types.Bucket{Name: "b"}, "").String())
}
