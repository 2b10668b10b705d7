// Package nav tracks the packages visited while drilling down the
// dependency graph.
package nav

import "github.com/wexinc/portshell/internal/model"

// Frame is one visited package and the dependency that led to it.
type Frame struct {
	Record *model.Record
	// Via is the dependency entered to reach Record; nil for the root.
	Via *model.Dependency
}

// Stack is a non-empty stack of visited packages. The root is never popped.
type Stack struct {
	frames []Frame
}

// New creates a stack holding root.
func New(root *model.Record) *Stack {
	return &Stack{frames: []Frame{{Record: root}}}
}

// Current returns the package on top of the stack.
func (s *Stack) Current() *model.Record {
	return s.frames[len(s.frames)-1].Record
}

// Enter pushes the best version of dep. It reports false, leaving the stack
// unchanged, when dep has no visible version.
func (s *Stack) Enter(dep *model.Dependency) bool {
	if dep == nil || dep.Best == nil {
		return false
	}
	s.frames = append(s.frames, Frame{Record: dep.Best, Via: dep})
	return true
}

// GoBack pops the top package and returns the frame that was left. It
// reports false when only the root remains.
func (s *Stack) GoBack() (Frame, bool) {
	if len(s.frames) == 1 {
		return Frame{}, false
	}
	top := s.frames[len(s.frames)-1]
	s.frames = s.frames[:len(s.frames)-1]
	return top, true
}

// Depth returns the number of packages on the stack.
func (s *Stack) Depth() int {
	return len(s.frames)
}

// Records returns the visited packages from the root up.
func (s *Stack) Records() []*model.Record {
	records := make([]*model.Record, len(s.frames))
	for i, f := range s.frames {
		records[i] = f.Record
	}
	return records
}
