package miner

import (
	"context"
	"strings"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"github.com/hashline/hashline/internal/models"
)

// ParallelMiner fans the nonce search out over Workers goroutines. Worker w
// tries nonces w, w+Workers, w+2*Workers, ... on its own clone of the block,
// so the workers cover disjoint residues of the nonce space. The first
// satisfying (nonce, digest) pair wins; the caller's block is updated to
// that nonce and every other candidate is discarded.
type ParallelMiner struct {
	Workers int

	// MaxIterations caps the total number of nonces tried across all
	// workers. Zero means no cap.
	MaxIterations uint64
}

type sealResult struct {
	nonce  uint64
	digest string
}

func (m *ParallelMiner) Seal(ctx context.Context, block *models.Block, difficulty int) (string, error) {
	workers := m.Workers
	if workers < 1 {
		workers = 1
	}

	prefix := strings.Repeat("0", difficulty)

	var perWorker uint64
	if m.MaxIterations > 0 {
		perWorker = (m.MaxIterations + uint64(workers) - 1) / uint64(workers)
	}

	// Buffered so every worker can report a find without blocking even if
	// the winner has already been drained.
	found := make(chan sealResult, workers)
	var done atomic.Bool

	eg, ctx := errgroup.WithContext(ctx)
	for w := 0; w < workers; w++ {
		offset := uint64(w)
		eg.Go(func() error {
			local := block.Clone()
			local.Nonce = offset

			for attempts := uint64(0); ; attempts++ {
				if perWorker > 0 && attempts >= perWorker {
					return ErrSearchAborted
				}
				if attempts%ctxCheckInterval == 0 {
					if done.Load() {
						return nil
					}
					if err := ctx.Err(); err != nil {
						return err
					}
				}

				digest := local.Digest()
				if strings.HasPrefix(digest, prefix) {
					done.Store(true)
					found <- sealResult{nonce: local.Nonce, digest: digest}
					return nil
				}
				local.Nonce += uint64(workers)
			}
		})
	}

	err := eg.Wait()

	// A worker may have found a winner even if another aborted first and
	// cancelled the group; an actual find always takes precedence.
	select {
	case r := <-found:
		block.Nonce = r.nonce
		return r.digest, nil
	default:
	}

	if err != nil {
		return "", err
	}
	return "", ErrSearchAborted
}
