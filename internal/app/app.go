package app

import (
	"context"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"
	"github.com/rs/zerolog"

	"github.com/jdlms/aws-tui/internal/ui"
)

// App connects the shell to the terminal
type App struct {
	tv     *tview.Application
	screen *ui.Screen
	shell  *Shell
	log    zerolog.Logger
	focus  tview.Primitive
}

// CreateApp initializes the screen and the shell. opts.Loop is replaced
// by the tview event loop.
func CreateApp(opts Options) *App {
	ui.SetupRosePineTheme()

	a := &App{
		tv:     tview.NewApplication(),
		screen: ui.NewScreen(),
		log:    opts.Logger,
	}
	opts.Loop = a.queue
	a.shell = NewShell(opts)

	a.screen.OnInput = func(text string) {
		a.shell.Download.SetPath(text)
	}
	a.tv.SetRoot(a.screen.Root, true)
	a.tv.SetInputCapture(a.capture)
	a.render()
	return a
}

// queue runs fn on the event loop and redraws
func (a *App) queue(fn func()) {
	a.tv.QueueUpdateDraw(func() {
		fn()
		a.render()
	})
}

func (a *App) render() {
	focus := a.screen.Render(a.shell.Frame())
	if focus != a.focus {
		a.focus = focus
		a.tv.SetFocus(focus)
	}
}

func (a *App) capture(event *tcell.EventKey) *tcell.EventKey {
	page := a.shell.Page()
	intent := IntentFor(page, a.shell.Regions.IsOpen(), event)
	if intent == IntentNone {
		if isObjectPage(page) && !a.shell.Regions.IsOpen() {
			return event
		}
		return nil
	}

	a.log.Debug().Stringer("intent", intent).Str("page", page.String()).Msg("key")
	a.shell.Handle(intent)
	if a.shell.Quit() {
		a.tv.Stop()
		return nil
	}
	a.render()
	return nil
}

// Run shows the home page until the user quits or ctx ends
func (a *App) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	go a.tick(ctx)
	go func() {
		<-ctx.Done()
		a.tv.Stop()
	}()

	a.log.Info().Msg("starting ui")
	err := a.tv.Run()
	a.log.Info().Err(err).Msg("ui stopped")
	return err
}

func (a *App) tick(ctx context.Context) {
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			a.queue(func() { a.shell.Tick(now) })
		}
	}
}
