package nav

// Stack is the back/forward page history. The root page is never popped.
type Stack struct {
	back    []Page
	forward []Page

	// OnChange runs after every change of the active page
	OnChange func(prev, next Page)
}

// NewStack returns a history holding only the home page
func NewStack() *Stack {
	return &Stack{back: []Page{Home()}}
}

// Current is the active page
func (s *Stack) Current() Page {
	return s.back[len(s.back)-1]
}

// Depth is the number of pages on the back stack, active page included
func (s *Stack) Depth() int {
	return len(s.back)
}

// ForwardDepth is the number of pages that Forward can restore
func (s *Stack) ForwardDepth() int {
	return len(s.forward)
}

// Push makes page active and drops the forward history
func (s *Stack) Push(page Page) {
	prev := s.Current()
	s.back = append(s.back, page)
	s.forward = nil
	s.changed(prev)
}

// Back pops the active page onto the front of the forward stack
func (s *Stack) Back() bool {
	if len(s.back) <= 1 {
		return false
	}
	prev := s.Current()
	s.back = s.back[:len(s.back)-1]
	s.forward = append([]Page{prev}, s.forward...)
	s.changed(prev)
	return true
}

// Forward re-activates the most recently popped page
func (s *Stack) Forward() bool {
	if len(s.forward) == 0 {
		return false
	}
	prev := s.Current()
	next := s.forward[0]
	s.forward = s.forward[1:]
	s.back = append(s.back, next)
	s.changed(prev)
	return true
}

func (s *Stack) changed(prev Page) {
	if s.OnChange != nil {
		s.OnChange(prev, s.Current())
	}
}
