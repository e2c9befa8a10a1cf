package ui

import (
	"fmt"
	"runtime/debug"

	"github.com/Darhlilove/dashly-sub001/pkg/layout"
)

// Supervisor isolates component render failures. A panicking View is
// replaced with a fallback notice instead of crashing the program, the
// failure is reported once, and ctrl+r clears the failed state so the
// component gets another attempt.
type Supervisor struct {
	reporter layout.Reporter
	failed   map[string]string // component name -> panic message

	// Viewport, when set, attaches the current viewport to each report.
	Viewport func() layout.Viewport
}

// NewSupervisor creates a supervisor reporting through the given reporter.
func NewSupervisor(reporter layout.Reporter) *Supervisor {
	if reporter == nil {
		reporter = layout.NopReporter{}
	}
	return &Supervisor{
		reporter: reporter,
		failed:   make(map[string]string),
	}
}

// Render invokes the component's render function, recovering from panics.
// Once a component has failed it stays in fallback until Reset.
func (s *Supervisor) Render(component string, render func() string) (out string) {
	if msg, ok := s.failed[component]; ok {
		return s.fallbackView(component, msg)
	}

	defer func() {
		if r := recover(); r != nil {
			msg := fmt.Sprint(r)
			s.failed[component] = msg
			meta := map[string]any{
				"panic": msg,
				"stack": string(debug.Stack()),
			}
			if s.Viewport != nil {
				vp := s.Viewport()
				meta["viewport_width"] = vp.Width
				meta["viewport_height"] = vp.Height
			}
			s.reporter.Report(component, "render_fallback", meta)
			out = s.fallbackView(component, msg)
		}
	}()
	return render()
}

// Failed reports whether the component is in fallback.
func (s *Supervisor) Failed(component string) bool {
	_, ok := s.failed[component]
	return ok
}

// Reset clears all failed components so they render normally again.
func (s *Supervisor) Reset() {
	for k := range s.failed {
		delete(s.failed, k)
	}
}

func (s *Supervisor) fallbackView(component, msg string) string {
	return ErrorStyle.Render(fmt.Sprintf("%s is unavailable: %s", component, msg)) +
		"\n" + MutedStyle.Render("press ctrl+r to retry")
}
