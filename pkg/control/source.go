// pkg/control/source.go
package control

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"sync"
)

// QueueSource collects edges from an asynchronous input system (a terminal
// event loop, a network handler) and hands them to the sampler. It is safe
// for concurrent use: Press and SetAxes may be called from any goroutine.
type QueueSource struct {
	mu      sync.Mutex
	pending map[Command]bool
	axes    Axes
}

// NewQueueSource creates an empty queue source
func NewQueueSource() *QueueSource {
	return &QueueSource{pending: make(map[Command]bool)}
}

// Press records an edge for cmd. Repeated presses before the next sample
// collapse into one edge.
func (q *QueueSource) Press(cmd Command) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.pending[cmd] = true
}

// SetAxes replaces the current stick position
func (q *QueueSource) SetAxes(axes Axes) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.axes = axes
}

// Triggered reports and clears a pending edge
func (q *QueueSource) Triggered(cmd Command) bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	fired := q.pending[cmd]
	delete(q.pending, cmd)
	return fired
}

// Axes returns the current stick position
func (q *QueueSource) Axes() Axes {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.axes
}

// ScriptEvent is one entry of a command script. Either Command or Axes is set.
type ScriptEvent struct {
	At      float64 `json:"at"`
	Command string  `json:"command,omitempty"`
	Axes    *Axes   `json:"axes,omitempty"`
}

// Script is a timeline of pilot input keyed by simulation seconds
type Script struct {
	Events []ScriptEvent `json:"events"`
}

type scheduled struct {
	at      float64
	command Command
	isAxes  bool
	axes    Axes
}

// ScriptedSource replays a Script against simulation time. Events due in
// the same frame fire together; axes hold their last scripted value.
type ScriptedSource struct {
	events  []scheduled
	cursor  int
	now     float64
	pending map[Command]bool
	axes    Axes
}

// NewScriptedSource validates and orders a script
func NewScriptedSource(script Script) (*ScriptedSource, error) {
	events := make([]scheduled, 0, len(script.Events))
	for i, e := range script.Events {
		if e.At < 0 {
			return nil, fmt.Errorf("event %d: negative time %v", i, e.At)
		}
		switch {
		case e.Axes != nil && e.Command != "":
			return nil, fmt.Errorf("event %d: command and axes are mutually exclusive", i)
		case e.Axes != nil:
			events = append(events, scheduled{at: e.At, isAxes: true, axes: *e.Axes})
		default:
			cmd, err := ParseCommand(e.Command)
			if err != nil {
				return nil, fmt.Errorf("event %d: %w", i, err)
			}
			events = append(events, scheduled{at: e.At, command: cmd})
		}
	}
	sort.SliceStable(events, func(i, j int) bool { return events[i].at < events[j].at })

	return &ScriptedSource{
		events:  events,
		pending: make(map[Command]bool),
	}, nil
}

// LoadScript reads a JSON script file
func LoadScript(path string) (*ScriptedSource, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read script: %w", err)
	}
	var script Script
	if err := json.Unmarshal(data, &script); err != nil {
		return nil, fmt.Errorf("failed to parse script: %w", err)
	}
	return NewScriptedSource(script)
}

// Advance moves the script clock forward and fires every event now due
func (s *ScriptedSource) Advance(dt float64) {
	if dt > 0 {
		s.now += dt
	}
	for s.cursor < len(s.events) && s.events[s.cursor].at <= s.now {
		e := s.events[s.cursor]
		if e.isAxes {
			s.axes = e.axes
		} else {
			s.pending[e.command] = true
		}
		s.cursor++
	}
}

// Triggered reports and clears a due edge
func (s *ScriptedSource) Triggered(cmd Command) bool {
	fired := s.pending[cmd]
	delete(s.pending, cmd)
	return fired
}

// Axes returns the most recent scripted stick position
func (s *ScriptedSource) Axes() Axes {
	return s.axes
}

// Now returns the script clock in seconds
func (s *ScriptedSource) Now() float64 {
	return s.now
}

// Done reports whether every event has fired
func (s *ScriptedSource) Done() bool {
	return s.cursor >= len(s.events)
}
