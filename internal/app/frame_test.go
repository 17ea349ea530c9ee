package app

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jdlms/aws-tui/internal/nav"
	"github.com/jdlms/aws-tui/internal/types"
	"github.com/jdlms/aws-tui/internal/ui"
)

func TestFrameHome(t *testing.T) {
	s, _ := newTestShell(t, &fakeBackend{})
	s.Handle(IntentMoveDown)

	f := s.Frame()
	assert.Equal(t, []string{"EC2 Instances", "S3 Buckets", "Costs"}, f.Menu)
	assert.Equal(t, 1, f.MenuIndex)
	assert.Equal(t, 1, f.Selected)
	assert.Contains(t, f.Header, "us-east-1")
	assert.Nil(t, f.Modal)
	assert.Nil(t, f.Input)
}

func TestFrameInstances(t *testing.T) {
	fb := &fakeBackend{
		instancePages: map[string]types.InstancePage{"": {
			Items: []types.Instance{{InstanceID: "i-1", Name: "web", State: "running"}},
		}},
		statuses: []types.InstanceStatus{{InstanceID: "i-1", InstanceStatus: "ok", SystemStatus: "ok"}},
	}
	s, q := newTestShell(t, fb)
	openInstances(t, s, q)

	f := s.Frame()
	require.Len(t, f.Table.Rows, 2)
	row := f.Table.Rows[1]
	assert.Equal(t, "web", row[0])
	assert.Contains(t, row[2], ui.ColorGreen)
	assert.Contains(t, row[5], "ok/ok")
	assert.Equal(t, 0, f.Selected)
	assert.Equal(t, 0, f.MenuIndex)
	assert.Contains(t, f.Table.Title, "page 1")
}

func TestFrameBanners(t *testing.T) {
	boom := errors.New("throttled")
	s, q := newTestShell(t, &fakeBackend{instancesErr: boom})
	openInstances(t, s, q)

	f := s.Frame()
	require.NotEmpty(t, f.Banners)
	assert.Equal(t, ui.BannerError, f.Banners[0].Level)
	assert.Equal(t, "throttled", f.Banners[0].Text)
}

func TestFrameCostsTree(t *testing.T) {
	s, _ := openCosts(t, &fakeBackend{records: costRecords()})
	s.Handle(IntentConfirm)

	f := s.Frame()
	require.Len(t, f.Table.Rows, 4)
	assert.True(t, strings.HasPrefix(f.Table.Rows[1][0], "► EC2"))
	assert.True(t, strings.HasPrefix(f.Table.Rows[2][0], "▼ S3"))
	assert.Equal(t, "    Storage", f.Table.Rows[3][0])
	assert.Contains(t, f.Table.Rows[1][1], "$6.00")
	assert.Equal(t, "75.0%", f.Table.Rows[1][2])
	assert.Contains(t, f.Table.Title, "total $8.00")
	assert.Equal(t, costLagNotice, f.Banners[len(f.Banners)-1].Text)
}

func TestFrameObjectPageHasInput(t *testing.T) {
	s, q := newTestShell(t, &fakeBackend{})
	s.stack.Push(nav.Detail(types.KindObjects, types.ObjectFile{Key: "a/b.txt", Size: 2048}, "logs"))
	q.settle(t)

	f := s.Frame()
	require.NotNil(t, f.Input)
	assert.Equal(t, "~/Downloads/logs/a/b.txt", f.Input.Value)
	assert.Equal(t, "s3://logs/a/b.txt", f.Table.Title)
	assert.Contains(t, f.Footer, "tab complete")
}

func TestFrameRegionsModal(t *testing.T) {
	fb := &fakeBackend{regions: []types.Region{{Name: "eu-west-1"}, {Name: "us-east-1"}}}
	s, q := newTestShell(t, fb)
	s.Handle(IntentOpenRegions)
	q.settle(t)

	f := s.Frame()
	require.NotNil(t, f.Modal)
	assert.Equal(t, []string{"  eu-west-1", "* us-east-1"}, f.Modal.Rows)
	assert.Equal(t, 1, f.Modal.Selected)
}
