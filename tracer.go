package kasync

import (
	"fmt"
	"io"
)

// A Tracer is the out-of-scope collaborator (spec §4.5) that the engine
// calls into on Execution construction and finish. It emits indented
// start/end lines labelled by the Executor's display name. It must not
// alter semantics — it only ever observes.
//
// Grounded on the original KAsync library's debug.h/debug.cpp Tracer class,
// which pairs a Start message with an End message per Execution and
// indents by nesting depth via a running id counter.
type Tracer interface {
	// Start is called when an Execution begins. name is the step's display
	// name (see [Job.Named]), or "" if none was set. The returned id is
	// passed back to End.
	Start(name string) int
	// End is called exactly once, when the Execution's Future finishes.
	End(id int)
}

// SetTracer installs t as l's Tracer. Pass nil to remove a previously
// installed Tracer. Must be called before any Job is executed against l.
func (l *Loop) SetTracer(t Tracer) {
	l.tracer = t
}

// indentTracer is the default Tracer: "-> name" on Start, "<- name" on End,
// indented by nesting depth, matching the original debug.cpp behavior. Not
// safe for use by more than one Loop concurrently, consistent with the
// engine's single-threaded cooperative model (spec §5).
type indentTracer struct {
	w     io.Writer
	depth int
	names map[int]string
	next  int
}

// NewIndentTracer returns a Tracer that writes indented start/end lines to
// w, one pair per Execution.
func NewIndentTracer(w io.Writer) Tracer {
	return &indentTracer{w: w, names: make(map[int]string)}
}

func (t *indentTracer) Start(name string) int {
	t.next++
	id := t.next
	fmt.Fprintf(t.w, "%*s-> %s\n", t.depth*2, "", displayOrDefault(name))
	t.depth++
	t.names[id] = name
	return id
}

func (t *indentTracer) End(id int) {
	t.depth--
	name := t.names[id]
	delete(t.names, id)
	fmt.Fprintf(t.w, "%*s<- %s\n", t.depth*2, "", displayOrDefault(name))
}

func displayOrDefault(name string) string {
	if name == "" {
		return "<anonymous>"
	}
	return name
}
