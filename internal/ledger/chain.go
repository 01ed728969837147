package ledger

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/hashline/hashline/internal/miner"
	"github.com/hashline/hashline/internal/models"
)

// GenesisPreviousHash is the sentinel previous-hash of the first block.
const GenesisPreviousHash = "0"

// TimestampFormat is the layout block timestamps are rendered with. The
// timestamp is part of the digest payload, so the format is fixed.
const TimestampFormat = "2006-01-02 15:04:05"

// Chain is an append-only sequence of proof-of-work sealed blocks plus a
// buffer of transactions waiting to be mined. A single logical caller drives
// it; the mutex only guards concurrent readers such as metrics collectors.
type Chain struct {
	mu         sync.RWMutex
	blocks     []*models.Block
	pending    []models.Transaction
	difficulty int
	miner      miner.Miner
}

// New constructs a chain with the given difficulty and seals its genesis
// block: a single network-issuance transaction with the sentinel previous
// hash. The genesis block goes through the same proof-of-work as any other
// block, so construction blocks until the search converges.
func New(ctx context.Context, difficulty int, m miner.Miner) (*Chain, error) {
	c := &Chain{
		difficulty: difficulty,
		miner:      m,
	}

	genesis := models.NewBlock(0, []models.Transaction{
		{Sender: "Genesis", Receiver: "Network", Amount: 0},
	}, time.Now().Format(TimestampFormat), GenesisPreviousHash)

	digest, err := m.Seal(ctx, genesis, difficulty)
	if err != nil {
		return nil, fmt.Errorf("failed to seal genesis block: %w", err)
	}
	genesis.Hash = digest
	c.blocks = append(c.blocks, genesis)

	slog.Debug("Genesis block sealed", "hash", genesis.Hash, "nonce", genesis.Nonce)
	return c, nil
}

// SubmitTransaction validates and buffers a transaction for the next block.
// On rejection the buffer is left unchanged.
func (c *Chain) SubmitTransaction(sender, receiver string, amount float64) error {
	if sender == "" {
		return InvalidTransactionError{Reason: "sender is empty"}
	}
	if receiver == "" {
		return InvalidTransactionError{Reason: "receiver is empty"}
	}
	if amount <= 0 {
		return InvalidTransactionError{Reason: fmt.Sprintf("amount must be positive, got %v", amount)}
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.pending = append(c.pending, models.Transaction{
		Sender:   sender,
		Receiver: receiver,
		Amount:   amount,
	})
	return nil
}

// MinePending seals the pending transactions into a new block and appends
// it, returning the new block's index. The operation is atomic: if the
// nonce search aborts or is cancelled, neither the chain nor the buffer
// changes. An empty buffer returns ErrNothingToMine.
func (c *Chain) MinePending(ctx context.Context) (uint64, error) {
	c.mu.RLock()
	if len(c.pending) == 0 {
		c.mu.RUnlock()
		return 0, ErrNothingToMine
	}
	tip := c.blocks[len(c.blocks)-1]
	block := models.NewBlock(uint64(len(c.blocks)), c.pending, time.Now().Format(TimestampFormat), tip.Hash)
	c.mu.RUnlock()

	// The search runs outside the lock; the block is exclusively owned by
	// the miner until it is sealed.
	digest, err := c.miner.Seal(ctx, block, c.difficulty)
	if err != nil {
		return 0, fmt.Errorf("failed to seal block %d: %w", block.Index, err)
	}
	block.Hash = digest

	c.mu.Lock()
	c.blocks = append(c.blocks, block)
	c.pending = c.pending[:0]
	c.mu.Unlock()

	slog.Info("Block mined", "index", block.Index, "nonce", block.Nonce, "hash", block.Hash)
	return block.Index, nil
}

// Difficulty returns the required count of leading zero hex characters,
// fixed at construction.
func (c *Chain) Difficulty() int {
	return c.difficulty
}

// Tip returns the most recently appended block.
func (c *Chain) Tip() *models.Block {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.blocks[len(c.blocks)-1]
}

// Blocks returns the ordered block sequence. The slice is a copy; the
// blocks themselves are shared.
func (c *Chain) Blocks() []*models.Block {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]*models.Block, len(c.blocks))
	copy(out, c.blocks)
	return out
}

// Length returns the number of sealed blocks in the chain.
func (c *Chain) Length() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.blocks)
}

// PendingCount returns the number of buffered transactions.
func (c *Chain) PendingCount() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.pending)
}
