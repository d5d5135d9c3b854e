package vdom

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

var ErrBaseMismatch = errors.New("base hash mismatch")

// NewDelta diffs oldNode against newNode and records the base it applies to.
func NewDelta(oldNode, newNode *Node, author string, opts ...Option) (*Delta, error) {
	baseHash, err := HashSnapshot(oldNode)
	if err != nil {
		return nil, err
	}
	id, err := uuid.NewV7()
	if err != nil {
		return nil, fmt.Errorf("failed to generate delta id: %w", err)
	}
	return &Delta{
		ID:        id.String(),
		BaseHash:  baseHash,
		Patches:   Diff(oldNode, newNode, opts...),
		Timestamp: time.Now().UnixMilli(),
		Author:    author,
	}, nil
}

// HashSnapshot returns the SHA-256 hex digest of n's JSON encoding.
// Map keys are encoded in sorted order, so equal trees hash equally.
func HashSnapshot(n *Node) (string, error) {
	data, err := json.Marshal(n)
	if err != nil {
		return "", fmt.Errorf("failed to encode snapshot: %w", err)
	}
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:]), nil
}

// Verify checks that base is the tree the delta was computed against.
func (d *Delta) Verify(base *Node) error {
	current, err := HashSnapshot(base)
	if err != nil {
		return err
	}
	if current != d.BaseHash {
		return fmt.Errorf("%w: expected %s, got %s", ErrBaseMismatch, d.BaseHash, current)
	}
	return nil
}
