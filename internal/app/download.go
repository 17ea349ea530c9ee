package app

import (
	"context"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/m-mizutani/goerr/v2"

	"github.com/jdlms/aws-tui/internal/nav"
)

// maxSuggestions caps the path completions offered under the input
const maxSuggestions = 6

// DownloadStatus is the state of the object download
type DownloadStatus int

const (
	DownloadIdle DownloadStatus = iota
	DownloadSaving
	DownloadDone
	DownloadFailed
)

// DownloadController saves one object to a local path
type DownloadController struct {
	view
	suggestSession nav.Session

	bucket      string
	key         string
	path        string
	suggestions []string
	status      DownloadStatus
	savedTo     string
	written     int64
}

func newDownloadController(e *env) *DownloadController {
	return &DownloadController{view: view{env: e}}
}

// Prepare targets an object. The destination defaults to
// ~/Downloads/<bucket>/<key> and survives coming back to the same object.
func (c *DownloadController) Prepare(bucket, key string) {
	if bucket == c.bucket && key == c.key && c.path != "" {
		return
	}
	c.Leave()
	c.bucket, c.key = bucket, key
	c.path = path.Join("~", "Downloads", bucket, key)
	c.suggestions = nil
	c.status = DownloadIdle
	c.savedTo = ""
	c.written = 0
	c.err = nil
	c.info = ""
}

// SetPath updates the destination and looks for completions
func (c *DownloadController) SetPath(p string) {
	if p == c.path {
		return
	}
	c.path = p
	c.suggest()
}

// Complete replaces the destination with the first completion
func (c *DownloadController) Complete() {
	if len(c.suggestions) == 0 {
		c.suggest()
		return
	}
	c.SetPath(c.suggestions[0])
}

func (c *DownloadController) suggest() {
	typed, home := c.path, c.env.home
	nav.Fetch(c.env.loop, &c.suggestSession, c.env.ctx, nav.Request[[]string]{
		Call: func(context.Context) ([]string, error) {
			return completePath(typed, home)
		},
		Commit: func(suggestions []string) { c.suggestions = suggestions },
		Fail: func(err error) {
			c.suggestions = nil
			c.env.log.Debug().Err(err).Str("path", typed).Msg("no completions")
		},
	})
}

// completePath lists the entries of the typed directory that start with the
// typed base name, in the form they were typed. Directories end in "/".
func completePath(typed, home string) ([]string, error) {
	dirPart, base := "", typed
	if i := strings.LastIndex(typed, "/"); i >= 0 {
		dirPart, base = typed[:i+1], typed[i+1:]
	} else if typed == "~" {
		return []string{"~/"}, nil
	}

	dir := expandHome(dirPart, home)
	if dir == "" {
		dir = "."
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	var out []string
	for _, entry := range entries {
		name := entry.Name()
		if !strings.HasPrefix(name, base) {
			continue
		}
		if strings.HasPrefix(name, ".") && !strings.HasPrefix(base, ".") {
			continue
		}
		if entry.IsDir() {
			name += "/"
		}
		out = append(out, dirPart+name)
		if len(out) == maxSuggestions {
			break
		}
	}
	return out, nil
}

// expandHome resolves a leading "~" against home
func expandHome(p, home string) string {
	switch {
	case p == "~":
		return home
	case strings.HasPrefix(p, "~/"):
		return filepath.Join(home, p[2:])
	}
	return p
}

// Download streams the object into the destination, creating parent
// directories as needed
func (c *DownloadController) Download() error {
	if c.status == DownloadSaving {
		return ErrActionInFlight
	}
	if strings.TrimSpace(c.path) == "" || strings.HasSuffix(c.path, "/") {
		c.err = goerr.New("destination must be a file path", goerr.V("path", c.path))
		c.status = DownloadFailed
		return c.err
	}
	backend, bucket, key := c.env.backend, c.bucket, c.key
	dest := expandHome(c.path, c.env.home)

	c.status = DownloadSaving
	c.err = nil
	c.info = fmt.Sprintf("Downloading s3://%s/%s...", bucket, key)
	nav.Fetch(c.env.loop, &c.session, c.env.ctx, nav.Request[int64]{
		Call: func(ctx context.Context) (int64, error) {
			return saveObject(ctx, backend, bucket, key, dest)
		},
		Commit: func(n int64) {
			c.env.log.Info().Str("bucket", bucket).Str("key", key).Str("dest", dest).Int64("bytes", n).Msg("object saved")
			c.status = DownloadDone
			c.savedTo = dest
			c.written = n
			c.info = "Saved to " + dest
		},
		Fail: func(err error) {
			c.env.log.Warn().Err(err).Str("dest", dest).Msg("download failed")
			c.status = DownloadFailed
			c.err = err
			c.info = ""
		},
	})
	return nil
}

func saveObject(ctx context.Context, backend Backend, bucket, key, dest string) (int64, error) {
	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return 0, goerr.Wrap(err, "create destination directory", goerr.V("dest", dest))
	}
	body, err := backend.GetObject(ctx, bucket, key)
	if err != nil {
		return 0, err
	}
	defer body.Close()

	f, err := os.Create(dest)
	if err != nil {
		return 0, goerr.Wrap(err, "create destination file", goerr.V("dest", dest))
	}
	n, err := io.Copy(f, body)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		_ = os.Remove(dest)
		return 0, goerr.Wrap(err, "write object", goerr.V("dest", dest))
	}
	return n, nil
}

// Leave cancels the download and the completion lookup
func (c *DownloadController) Leave() {
	c.session.Cancel()
	c.suggestSession.Cancel()
	if c.status == DownloadSaving {
		c.status = DownloadIdle
		c.info = ""
	}
}

// ClearTransient keeps the result of a finished download visible
func (c *DownloadController) ClearTransient() {
	if c.status == DownloadFailed {
		c.status = DownloadIdle
	}
	c.err = nil
}

func (c *DownloadController) Path() string           { return c.path }
func (c *DownloadController) Suggestions() []string  { return c.suggestions }
func (c *DownloadController) Status() DownloadStatus { return c.status }
func (c *DownloadController) Written() int64         { return c.written }
func (c *DownloadController) SavedTo() string        { return c.savedTo }
