package ledger

import (
	"errors"
	"fmt"
)

// ErrNothingToMine is returned by MinePending when the pending buffer is
// empty. It is an ordinary outcome, not a defect.
var ErrNothingToMine = errors.New("nothing to mine: pending buffer is empty")

// InvalidTransactionError reports a transaction rejected at submission.
// The pending buffer is left unchanged.
type InvalidTransactionError struct {
	Reason string
}

func (e InvalidTransactionError) Error() string {
	return fmt.Sprintf("invalid transaction: %s", e.Reason)
}

// TamperError reports the first block at which chain validation failed.
// Validation is read-only; the chain is left as-is.
type TamperError struct {
	Index  uint64
	Reason string
}

func (e TamperError) Error() string {
	return fmt.Sprintf("block %d has been tampered: %s", e.Index, e.Reason)
}
