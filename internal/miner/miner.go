package miner

import (
	"context"
	"errors"
	"strings"

	"github.com/hashline/hashline/internal/models"
)

// ErrSearchAborted is returned when an iteration cap is configured and the
// nonce search exhausts it without finding a satisfying digest.
var ErrSearchAborted = errors.New("nonce search aborted: iteration cap reached")

// Miner seals a candidate block by searching for a nonce whose digest meets
// the difficulty target. On success the block's Nonce holds the winning
// value and the returned string is its digest. The ledger only depends on
// this interface so a different search strategy can be swapped in without
// changing its contract.
type Miner interface {
	Seal(ctx context.Context, block *models.Block, difficulty int) (string, error)
}

// ctxCheckInterval is how many digests a search computes between context
// polls. The search loop is hot; polling every iteration is measurable.
const ctxCheckInterval = 4096

// MeetsDifficulty reports whether a hex digest has at least difficulty
// leading zero characters.
func MeetsDifficulty(digest string, difficulty int) bool {
	return strings.HasPrefix(digest, strings.Repeat("0", difficulty))
}

// SequentialMiner is the reference search: start at nonce 0, recompute the
// digest, increment until the target is met. The search is unbounded unless
// MaxIterations is set; digest outputs are effectively uniform so it
// converges in practice, but there is no structural termination guarantee.
type SequentialMiner struct {
	// MaxIterations caps the number of nonces tried. Zero means no cap.
	MaxIterations uint64
}

func (m *SequentialMiner) Seal(ctx context.Context, block *models.Block, difficulty int) (string, error) {
	prefix := strings.Repeat("0", difficulty)

	block.Nonce = 0
	for attempts := uint64(0); ; attempts++ {
		if m.MaxIterations > 0 && attempts >= m.MaxIterations {
			return "", ErrSearchAborted
		}
		if attempts%ctxCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return "", err
			}
		}

		digest := block.Digest()
		if strings.HasPrefix(digest, prefix) {
			return digest, nil
		}
		block.Nonce++
	}
}
