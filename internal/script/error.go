package script

import (
	"fmt"
	"strings"
)

// Error is a failure raised while parsing or running user code. It carries a
// trace suitable for the output log.
type Error struct {
	Script string
	Err    error
	Stack  []string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %v", e.Script, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Trace renders the error the way it is appended to an output log.
func (e *Error) Trace() string {
	var b strings.Builder
	b.WriteString("Traceback (most recent call last):\n")
	for _, frame := range e.Stack {
		fmt.Fprintf(&b, "  %s\n", frame)
	}
	fmt.Fprintf(&b, "  File %q\n", e.Script)
	fmt.Fprintf(&b, "Error: %v\n", e.Err)
	return b.String()
}
