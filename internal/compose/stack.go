package compose

import (
	"github.com/dshills/vterm/internal/surface"
)

// Stack is the ordered list of top-level window surfaces, back to front.
// The desktop is not part of the stack; it sits below every window at
// layer 0.
type Stack struct {
	windows []*surface.Surface
}

// NewStack creates an empty stack.
func NewStack() *Stack {
	return &Stack{windows: make([]*surface.Surface, 0, 8)}
}

// Push places s on top. A surface already in the stack is raised.
func (st *Stack) Push(s *surface.Surface) {
	st.Remove(s.ID())
	st.windows = append(st.windows, s)
}

// Remove takes the surface out of the stack.
func (st *Stack) Remove(id surface.ID) bool {
	i := st.index(id)
	if i < 0 {
		return false
	}
	st.windows = append(st.windows[:i], st.windows[i+1:]...)
	return true
}

// Raise moves the surface to the top.
func (st *Stack) Raise(id surface.ID) bool {
	i := st.index(id)
	if i < 0 {
		return false
	}
	s := st.windows[i]
	st.windows = append(st.windows[:i], st.windows[i+1:]...)
	st.windows = append(st.windows, s)
	return true
}

// Lower moves the surface to the bottom, just above the desktop.
func (st *Stack) Lower(id surface.ID) bool {
	i := st.index(id)
	if i < 0 {
		return false
	}
	s := st.windows[i]
	copy(st.windows[1:i+1], st.windows[:i])
	st.windows[0] = s
	return true
}

// Layer returns the 1-based position of the surface, or 0 when it is not
// a window.
func (st *Stack) Layer(id surface.ID) int {
	return st.index(id) + 1
}

// Windows returns the stack back to front. The slice must not be modified.
func (st *Stack) Windows() []*surface.Surface {
	return st.windows
}

// Top returns the frontmost visible window, or nil.
func (st *Stack) Top() *surface.Surface {
	for i := len(st.windows) - 1; i >= 0; i-- {
		if st.windows[i].Visible() {
			return st.windows[i]
		}
	}
	return nil
}

// Len returns the number of windows.
func (st *Stack) Len() int { return len(st.windows) }

// HasVisible reports whether any window is shown.
func (st *Stack) HasVisible() bool { return st.Top() != nil }

func (st *Stack) index(id surface.ID) int {
	for i, s := range st.windows {
		if s.ID() == id {
			return i
		}
	}
	return -1
}
