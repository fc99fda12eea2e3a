package ui

// Severity tags a status line.
type Severity int

const (
	SeverityNeutral Severity = iota
	SeveritySuccess
	SeverityError
)

func (s Severity) String() string {
	switch s {
	case SeveritySuccess:
		return "ok"
	case SeverityError:
		return "err"
	default:
		return ""
	}
}

// Badge names a labeled value slot.
type Badge string

const (
	BadgeNetwork  Badge = "network"
	BadgeAccount  Badge = "account"
	BadgeBalance  Badge = "balance"
	BadgeEstimate Badge = "estimate"
)

// Control names a user-triggerable control whose enabled state the core drives.
type Control string

const (
	ControlConnect Control = "connect"
	ControlBuy     Control = "buy"
)

// Link names a block-explorer hyperlink slot.
type Link string

const (
	LinkContract Link = "contract"
	LinkTx       Link = "tx"
)

// Sink is the passive presentation surface the core writes to. Implementations
// must tolerate concurrent calls; the core never reads back from the sink.
type Sink interface {
	SetStatus(msg string, severity Severity)
	SetBadge(badge Badge, text string)
	SetProgress(percent float64, label string)
	SetControl(control Control, enabled bool)
	SetLink(link Link, url string)
}

// Nop is a Sink that discards everything. Useful for tests and headless runs.
type Nop struct{}

var _ Sink = Nop{}

func (Nop) SetStatus(string, Severity)    {}
func (Nop) SetBadge(Badge, string)        {}
func (Nop) SetProgress(float64, string)   {}
func (Nop) SetControl(Control, bool)      {}
func (Nop) SetLink(Link, string)          {}
