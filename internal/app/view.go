package app

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/jdlms/aws-tui/internal/config"
	"github.com/jdlms/aws-tui/internal/nav"
)

// env is what every controller shares. It is only touched on the UI
// goroutine; fetch goroutines capture the values they need up front.
type env struct {
	loop     nav.Loop
	ctx      context.Context
	backend  Backend
	settings *config.Settings
	log      zerolog.Logger
	now      func() time.Time
	home     string
}

// view holds the lifecycle fields common to all controllers
type view struct {
	env     *env
	session nav.Session
	loading bool
	err     error
	info    string
}

// Loading reports whether a fetch is in flight
func (v *view) Loading() bool { return v.loading }

// Err is the last listing error
func (v *view) Err() error { return v.err }

// Info is the last informational message
func (v *view) Info() string { return v.info }

// ClearTransient drops the error and info messages but keeps loaded data
func (v *view) ClearTransient() {
	v.err = nil
	v.info = ""
}

func (v *view) fail(op string) func(error) {
	return func(err error) {
		v.env.log.Warn().Err(err).Str("op", op).Msg("fetch failed")
		v.err = err
	}
}

func (v *view) done() {
	v.loading = false
}

// cancel abandons the current fetch
func (v *view) cancel() {
	v.session.Cancel()
	v.loading = false
}

// move shifts a selection by delta inside a list of n items
func move(selected, delta, n int) int {
	return nav.Clamp(selected+delta, n)
}
