package pipe

import "fmt"

// Op names the step of an invocation that failed.
type Op string

const (
	OpStart Op = "start"
	OpWait  Op = "wait"
	OpExit  Op = "exit"
)

// Error reports a failed external program invocation. It is returned wrapped
// in a subprocess ClassifiedError; use errors.As to reach it.
type Error struct {
	Command  string
	Op       Op
	ExitCode int // meaningful when Op is OpExit
	Err      error
}

func (e *Error) Error() string {
	switch e.Op {
	case OpExit:
		return fmt.Sprintf("%s terminated unsuccessfully (exit status %d)", e.Command, e.ExitCode)
	default:
		return fmt.Sprintf("%s %s: %v", e.Op, e.Command, e.Err)
	}
}

func (e *Error) Unwrap() error { return e.Err }
