package models

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
)

// Transaction is a plain transfer record. It carries no identity and is
// never mutated after it enters a sealed block.
type Transaction struct {
	Sender   string  `json:"sender"`
	Receiver string  `json:"receiver"`
	Amount   float64 `json:"amount"`
}

// Block is a ledger entry. Nonce and Hash are mutated only by the
// proof-of-work search; once the block is appended to a chain they are fixed.
type Block struct {
	Index        uint64        `json:"index"`
	Transactions []Transaction `json:"transactions"`
	Timestamp    string        `json:"timestamp"`
	PreviousHash string        `json:"previous_hash"`
	Nonce        uint64        `json:"nonce"`
	Hash         string        `json:"hash"`
}

// digestTransaction fixes the encoding of a transaction inside the digest
// payload. Fields are declared in sorted key order so the output matches a
// sorted-keys JSON serialization byte for byte.
type digestTransaction struct {
	Amount   float64 `json:"amount"`
	Receiver string  `json:"receiver"`
	Sender   string  `json:"sender"`
}

// digestPayload is the canonical encoding hashed by Digest. Keys sorted,
// Hash itself excluded.
type digestPayload struct {
	Index        uint64              `json:"index"`
	Nonce        uint64              `json:"nonce"`
	PreviousHash string              `json:"previous_hash"`
	Timestamp    string              `json:"timestamp"`
	Transactions []digestTransaction `json:"transactions"`
}

// NewBlock constructs an unsealed block over a copy of the given
// transactions. Hash is set to the provisional digest at nonce 0 so the
// block is well-formed before mining.
func NewBlock(index uint64, transactions []Transaction, timestamp, previousHash string) *Block {
	txs := make([]Transaction, len(transactions))
	copy(txs, transactions)

	b := &Block{
		Index:        index,
		Transactions: txs,
		Timestamp:    timestamp,
		PreviousHash: previousHash,
		Nonce:        0,
	}
	b.Hash = b.Digest()
	return b
}

// Digest computes the SHA-256 digest of the block's canonical encoding as a
// lowercase hex string. It reads the current field values on every call so
// the mining loop observes a fresh digest per nonce.
func (b *Block) Digest() string {
	txs := make([]digestTransaction, len(b.Transactions))
	for i, tx := range b.Transactions {
		txs[i] = digestTransaction{
			Amount:   tx.Amount,
			Receiver: tx.Receiver,
			Sender:   tx.Sender,
		}
	}

	payload, err := json.Marshal(digestPayload{
		Index:        b.Index,
		Nonce:        b.Nonce,
		PreviousHash: b.PreviousHash,
		Timestamp:    b.Timestamp,
		Transactions: txs,
	})
	if err != nil {
		// Only strings and numbers in the payload; Marshal cannot fail.
		panic(err)
	}

	sum := sha256.Sum256(payload)
	return hex.EncodeToString(sum[:])
}

// Clone returns a deep copy of the block. Workers searching the nonce space
// concurrently each mutate their own clone.
func (b *Block) Clone() *Block {
	txs := make([]Transaction, len(b.Transactions))
	copy(txs, b.Transactions)

	return &Block{
		Index:        b.Index,
		Transactions: txs,
		Timestamp:    b.Timestamp,
		PreviousHash: b.PreviousHash,
		Nonce:        b.Nonce,
		Hash:         b.Hash,
	}
}
