package presale

import "fmt"

// OutcomeKind discriminates terminal purchase outcomes. Acceptance by the node
// is not terminal: the executor publishes the hash and a status line to the
// sink the moment the submission is accepted, then awaits the receipt.
type OutcomeKind int

const (
	// OutcomeFailed means submission itself errored; no transaction exists.
	OutcomeFailed OutcomeKind = iota
	// OutcomeConfirmed means the receipt carried a success status.
	OutcomeConfirmed
	// OutcomeReverted means the receipt carried a non-success status. Distinct
	// from a submission-time rejection.
	OutcomeReverted
)

func (k OutcomeKind) String() string {
	switch k {
	case OutcomeConfirmed:
		return "confirmed"
	case OutcomeReverted:
		return "reverted"
	case OutcomeFailed:
		return "failed"
	default:
		return fmt.Sprintf("OutcomeKind(%d)", int(k))
	}
}

// PurchaseOutcome is the terminal result of one purchase invocation.
type PurchaseOutcome struct {
	Kind   OutcomeKind
	TxHash string
	Err    error // set only for OutcomeFailed
}

func confirmed(txHash string) PurchaseOutcome {
	return PurchaseOutcome{Kind: OutcomeConfirmed, TxHash: txHash}
}

func reverted(txHash string) PurchaseOutcome {
	return PurchaseOutcome{Kind: OutcomeReverted, TxHash: txHash}
}

func failed(err error) PurchaseOutcome {
	return PurchaseOutcome{Kind: OutcomeFailed, Err: err}
}
