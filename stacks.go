package zdraw

// transformStack maintains the nested coordinate frames of a frame.
// The bottom entry is the base transform (identity, or the virtual
// resolution scale) and is never popped.
//
// Each entry stores the fully composed transform, so the active transform
// is always the top of the stack and capture at enqueue time is a copy of
// a value type.
type transformStack struct {
	stack []Transform
}

func newTransformStack(base Transform) *transformStack {
	s := &transformStack{stack: make([]Transform, 0, 8)}
	s.stack = append(s.stack, base)
	return s
}

// active returns the current composed transform.
func (s *transformStack) active() Transform {
	return s.stack[len(s.stack)-1]
}

// push composes t as a coordinate frame nested inside the current one
// and makes the result active.
func (s *transformStack) push(t Transform) {
	s.stack = append(s.stack, s.active().Concat(t))
}

// pop removes the innermost frame. Popping the base is an underflow.
func (s *transformStack) pop() error {
	if len(s.stack) <= 1 {
		return ErrStackUnderflow
	}
	s.stack = s.stack[:len(s.stack)-1]
	return nil
}

// depth returns the number of pushed frames above the base.
func (s *transformStack) depth() int {
	return len(s.stack) - 1
}

// reset drops all pushed frames and installs a new base.
func (s *transformStack) reset(base Transform) {
	s.stack = s.stack[:0]
	s.stack = append(s.stack, base)
}

// clipStack maintains nested clip rectangles in surface space. Each entry
// stores the effective rectangle at its level (the intersection of all
// rectangles pushed so far), so capture at enqueue time is a single read.
// An empty effective rectangle is legal and suppresses geometry until
// popped.
type clipStack struct {
	entries []Rect
}

func newClipStack() *clipStack {
	return &clipStack{entries: make([]Rect, 0, 8)}
}

// push intersects r with the current effective rectangle (or uses r
// unchanged when the stack is empty) and pushes the result.
func (s *clipStack) push(r Rect) {
	if len(s.entries) > 0 {
		r = s.entries[len(s.entries)-1].Intersect(r)
	}
	s.entries = append(s.entries, r)
}

// pop removes the most recent clip rectangle.
func (s *clipStack) pop() error {
	if len(s.entries) == 0 {
		return ErrClipUnderflow
	}
	s.entries = s.entries[:len(s.entries)-1]
	return nil
}

// current returns the effective clip rectangle and whether clipping is
// active at all.
func (s *clipStack) current() (Rect, bool) {
	if len(s.entries) == 0 {
		return Rect{}, false
	}
	return s.entries[len(s.entries)-1], true
}

// depth returns the number of active clip rectangles.
func (s *clipStack) depth() int {
	return len(s.entries)
}

// reset clears all clip rectangles.
func (s *clipStack) reset() {
	s.entries = s.entries[:0]
}
