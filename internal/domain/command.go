package domain

// DecisionKind classifies how the router treated one line of console input.
type DecisionKind int

const (
	// NotMine hands the input back to the host untouched.
	NotMine DecisionKind = iota
	// Handled means the input was ours and ran to completion.
	Handled
	// HandledWithError means the input was ours but failed; the host must not see it.
	HandledWithError
	// UsageRequested means the host's own help command ran and a usage hint should follow.
	UsageRequested
)

func (k DecisionKind) String() string {
	switch k {
	case NotMine:
		return "not_mine"
	case Handled:
		return "handled"
	case HandledWithError:
		return "handled_with_error"
	case UsageRequested:
		return "usage_requested"
	default:
		return "unknown"
	}
}

// Decision is the router's verdict for one console line.
type Decision struct {
	Kind DecisionKind
	// Output is console text produced while routing: a result table, usage,
	// an error message, or a one-line diagnostic for declined input.
	Output string
}

// Forwards reports whether the host's original handler must run.
func (d Decision) Forwards() bool {
	return d.Kind == NotMine || d.Kind == UsageRequested
}

// ParsedCommand is a fully parsed console command. Each subcommand is its own type.
type ParsedCommand interface {
	isParsedCommand()
}

// QueryCommand runs literal SQL against the embedded store.
type QueryCommand struct {
	SQL          string
	IntAsDecimal bool
}

func (QueryCommand) isParsedCommand() {}
