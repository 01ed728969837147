package ledger

import "fmt"

// Validate walks the chain from index 1 and checks every block's stored
// digest against a recomputation and its linkage to the previous block's
// hash. It stops at the first failure and returns a TamperError naming the
// offending index; the genesis block's own digest is deliberately not
// re-checked, matching the reference behavior. Validation is read-only.
func (c *Chain) Validate() error {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if len(c.blocks) == 0 {
		return fmt.Errorf("chain has no blocks")
	}
	if c.blocks[0].PreviousHash != GenesisPreviousHash {
		return TamperError{Index: 0, Reason: "genesis previous hash is not the sentinel"}
	}

	for i := 1; i < len(c.blocks); i++ {
		current := c.blocks[i]
		previous := c.blocks[i-1]

		if current.Hash != current.Digest() {
			return TamperError{Index: current.Index, Reason: "stored hash does not match recomputed digest"}
		}
		if current.PreviousHash != previous.Hash {
			return TamperError{Index: current.Index, Reason: "previous hash does not link to prior block"}
		}
	}
	return nil
}

// IsValid reports whether the chain passes Validate.
func (c *Chain) IsValid() bool {
	return c.Validate() == nil
}
