package ledger_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hashline/hashline/internal/ledger"
)

func minedChain(t *testing.T, blocks int) *ledger.Chain {
	t.Helper()
	chain := newTestChain(t)
	for i := 0; i < blocks; i++ {
		require.NoError(t, chain.SubmitTransaction("Alice", "Bob", 1.5))
		require.NoError(t, chain.SubmitTransaction("Bob", "Charlie", 0.8))
		_, err := chain.MinePending(context.Background())
		require.NoError(t, err)
	}
	return chain
}

func TestValidationSoundness(t *testing.T) {
	chain := minedChain(t, 3)
	assert.NoError(t, chain.Validate())
	assert.True(t, chain.IsValid())
}

func TestTamperedTransactionDetected(t *testing.T) {
	chain := minedChain(t, 2)

	chain.Blocks()[1].Transactions[0].Amount = 100

	err := chain.Validate()
	var tamperErr ledger.TamperError
	require.ErrorAs(t, err, &tamperErr)
	assert.EqualValues(t, 1, tamperErr.Index, "validation must name the first tampered block")
	assert.False(t, chain.IsValid())
}

func TestBrokenLinkageDetected(t *testing.T) {
	chain := minedChain(t, 2)

	// Re-seal block 1's digest over tampered content so its own hash check
	// passes; block 2's previous-hash linkage is now the first break.
	block := chain.Blocks()[1]
	block.Transactions[0].Amount = 100
	block.Hash = block.Digest()

	err := chain.Validate()
	var tamperErr ledger.TamperError
	require.ErrorAs(t, err, &tamperErr)
	assert.EqualValues(t, 2, tamperErr.Index)
}

func TestValidationStopsAtFirstFailure(t *testing.T) {
	chain := minedChain(t, 3)

	chain.Blocks()[1].Transactions[0].Amount = 100
	chain.Blocks()[2].Transactions[0].Amount = 200

	var tamperErr ledger.TamperError
	require.ErrorAs(t, chain.Validate(), &tamperErr)
	assert.EqualValues(t, 1, tamperErr.Index)
}

func TestGenesisDigestNotRechecked(t *testing.T) {
	chain := minedChain(t, 1)

	// The reference validation never re-derives the genesis digest; only
	// its linkage into block 1 is covered. Corrupting the genesis payload
	// alone must therefore go unnoticed.
	chain.Blocks()[0].Transactions[0].Amount = 9999

	assert.True(t, chain.IsValid())
}

func TestGenesisSentinelChecked(t *testing.T) {
	chain := minedChain(t, 1)

	chain.Blocks()[0].PreviousHash = "1"

	var tamperErr ledger.TamperError
	require.ErrorAs(t, chain.Validate(), &tamperErr)
	assert.EqualValues(t, 0, tamperErr.Index)
}
