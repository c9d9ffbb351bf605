package pipe

import (
	"fmt"
	"strings"
)

// Invocation is one external program call: a command and its ordered arguments.
type Invocation struct {
	Name string
	Args []string
}

// String renders the invocation for logs. Arguments are not shell-quoted.
func (i Invocation) String() string {
	if len(i.Args) == 0 {
		return i.Name
	}
	return i.Name + " " + strings.Join(i.Args, " ")
}

// ArgBuilder assembles an Invocation argument by argument.
type ArgBuilder struct {
	inv Invocation
}

// NewArgs starts an invocation of the named program.
func NewArgs(name string) *ArgBuilder {
	return &ArgBuilder{inv: Invocation{Name: name}}
}

// Add appends arguments verbatim.
func (b *ArgBuilder) Add(args ...string) *ArgBuilder {
	b.inv.Args = append(b.inv.Args, args...)
	return b
}

// Addf appends a single formatted argument.
func (b *ArgBuilder) Addf(format string, a ...any) *ArgBuilder {
	b.inv.Args = append(b.inv.Args, fmt.Sprintf(format, a...))
	return b
}

// Build returns the invocation. The builder may keep being used; the
// returned value does not share its argument slice.
func (b *ArgBuilder) Build() Invocation {
	args := make([]string, len(b.inv.Args))
	copy(args, b.inv.Args)
	return Invocation{Name: b.inv.Name, Args: args}
}
