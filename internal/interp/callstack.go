package interp

import (
	"strings"

	"github.com/termfx/lithium/internal/source"
)

// callEntry is one frame of the diagnostic call stack: the function
// name and the range of the call site.
type callEntry struct {
	name string
	rng  source.Range
}

// callStack records the chain of active user-function calls. It exists
// purely for diagnostics: dumpstack() renders it, nothing else reads
// it.
type callStack struct {
	entries []callEntry
}

func (cs *callStack) push(name string, rng source.Range) {
	cs.entries = append(cs.entries, callEntry{name: name, rng: rng})
}

func (cs *callStack) pop() {
	if len(cs.entries) > 0 {
		cs.entries = cs.entries[:len(cs.entries)-1]
	}
}

func (cs *callStack) depth() int {
	return len(cs.entries)
}

// String renders the stack with the innermost call last.
func (cs *callStack) String() string {
	if len(cs.entries) == 0 {
		return "Call Stack is empty\n"
	}
	var b strings.Builder
	b.WriteString("Call Stack:\n")
	for _, entry := range cs.entries {
		b.WriteString("    at " + entry.name + " (" + entry.rng.Start.String() + ")\n")
	}
	return b.String()
}
