package miner_test

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hashline/hashline/internal/miner"
	"github.com/hashline/hashline/internal/models"
)

// impossibleDifficulty requires the whole digest to be zero; no nonce can
// satisfy it, which makes abort and cancellation paths deterministic.
const impossibleDifficulty = 64

func candidateBlock() *models.Block {
	return models.NewBlock(1, []models.Transaction{
		{Sender: "Alice", Receiver: "Bob", Amount: 1.5},
	}, "2026-01-02 10:00:00", "0")
}

func TestMeetsDifficulty(t *testing.T) {
	assert.True(t, miner.MeetsDifficulty("00ab", 2))
	assert.True(t, miner.MeetsDifficulty("00ab", 0))
	assert.False(t, miner.MeetsDifficulty("0ab0", 2))
	assert.False(t, miner.MeetsDifficulty("ab00", 1))
}

func TestSequentialSeal(t *testing.T) {
	block := candidateBlock()
	m := &miner.SequentialMiner{}

	digest, err := m.Seal(context.Background(), block, 2)
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(digest, "00"))
	assert.Equal(t, digest, block.Digest(), "stored nonce must reproduce the winning digest")
}

func TestSequentialSealAborts(t *testing.T) {
	block := candidateBlock()
	m := &miner.SequentialMiner{MaxIterations: 100}

	_, err := m.Seal(context.Background(), block, impossibleDifficulty)
	assert.ErrorIs(t, err, miner.ErrSearchAborted)
}

func TestSequentialSealCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	m := &miner.SequentialMiner{}
	_, err := m.Seal(ctx, candidateBlock(), impossibleDifficulty)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestParallelSeal(t *testing.T) {
	block := candidateBlock()
	m := &miner.ParallelMiner{Workers: 4}

	digest, err := m.Seal(context.Background(), block, 2)
	require.NoError(t, err)

	assert.True(t, miner.MeetsDifficulty(digest, 2))
	assert.Equal(t, digest, block.Digest(), "winning nonce must be adopted by the caller's block")
}

func TestParallelSealAborts(t *testing.T) {
	block := candidateBlock()
	m := &miner.ParallelMiner{Workers: 4, MaxIterations: 400}

	_, err := m.Seal(context.Background(), block, impossibleDifficulty)
	assert.ErrorIs(t, err, miner.ErrSearchAborted)
}

func TestParallelSealSingleWorker(t *testing.T) {
	block := candidateBlock()
	m := &miner.ParallelMiner{Workers: 1}

	digest, err := m.Seal(context.Background(), block, 1)
	require.NoError(t, err)
	assert.True(t, miner.MeetsDifficulty(digest, 1))
}
