package preprocessor

// IfState tracks whether an #if/#elif/#else cascade has already taken a
// branch, so later arms in the same cascade are skipped.
type IfState uint8

const (
	ifStateNone IfState = 0
	// ifStateBranchTaken is set once some arm of the current cascade has
	// been kept; all later arms are then skipped regardless of their
	// condition.
	ifStateBranchTaken IfState = 1 << 0
)

// ifStateStack is a simple LIFO used to nest conditional-compilation blocks.
type ifStateStack struct {
	frames []IfState
}

func (s *ifStateStack) push(st IfState) {
	s.frames = append(s.frames, st)
}

func (s *ifStateStack) pop() (IfState, bool) {
	if len(s.frames) == 0 {
		return ifStateNone, false
	}

	top := s.frames[len(s.frames)-1]
	s.frames = s.frames[:len(s.frames)-1]

	return top, true
}

func (s *ifStateStack) empty() bool {
	return len(s.frames) == 0
}
