package nav

import (
	"context"
	"errors"

	"github.com/aws/smithy-go"
)

// Ticket identifies one fetch of a Session
type Ticket uint64

// Session tracks the current fetch of one view.
// A fetch only commits while its ticket is still current.
type Session struct {
	generation uint64
	cancel     context.CancelFunc
}

// Begin supersedes the previous fetch and cancels its context
func (s *Session) Begin(parent context.Context) (Ticket, context.Context) {
	s.cancelCurrent()
	s.generation++
	ctx, cancel := context.WithCancel(parent)
	s.cancel = cancel
	return Ticket(s.generation), ctx
}

// IsCurrent reports whether no fetch began after t
func (s *Session) IsCurrent(t Ticket) bool {
	return uint64(t) == s.generation
}

// Cancel invalidates the current fetch without starting a new one
func (s *Session) Cancel() {
	s.cancelCurrent()
	s.generation++
}

// Generation is the number of fetches begun or cancelled so far
func (s *Session) Generation() uint64 {
	return s.generation
}

// release frees the context of a fetch that finished while current
func (s *Session) release(t Ticket) {
	if s.IsCurrent(t) {
		s.cancelCurrent()
	}
}

func (s *Session) cancelCurrent() {
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
}

// IsCancelled reports whether err comes from a cancelled context
func IsCancelled(err error) bool {
	if errors.Is(err, context.Canceled) {
		return true
	}
	var canceled *smithy.CanceledError
	return errors.As(err, &canceled)
}
