package nav

import "context"

// Loop schedules fn on the UI event loop
type Loop func(fn func())

// Request describes one guarded fetch
type Request[T any] struct {
	// Call runs off the event loop
	Call func(ctx context.Context) (T, error)
	// Commit applies a successful result
	Commit func(T)
	// Fail receives errors other than cancellation
	Fail func(error)
	// Done runs after Commit or Fail, and after a cancelled call, while current
	Done func()
}

// Fetch begins a new generation on s and runs req.Call on its own goroutine.
// The result is handed back through loop and dropped if another fetch began
// on s in the meantime, whatever order the calls complete in.
func Fetch[T any](loop Loop, s *Session, parent context.Context, req Request[T]) Ticket {
	ticket, ctx := s.Begin(parent)
	go func() {
		result, err := req.Call(ctx)
		loop(func() {
			if !s.IsCurrent(ticket) {
				return
			}
			s.release(ticket)
			switch {
			case err == nil:
				if req.Commit != nil {
					req.Commit(result)
				}
			case IsCancelled(err):
			default:
				if req.Fail != nil {
					req.Fail(err)
				}
			}
			if req.Done != nil {
				req.Done()
			}
		})
	}()
	return ticket
}

// Clamp bounds a selection index to a list of n items
func Clamp(index, n int) int {
	if n <= 0 || index < 0 {
		return 0
	}
	if index >= n {
		return n - 1
	}
	return index
}
