// Package kv implements the named-slot key-value persistence boundary.
// Values are opaque byte payloads; callers own the encoding.
package kv

import (
	"context"
	"errors"
)

// Store reads and writes named slots.
type Store interface {
	// Get returns the payload stored under slot, or ErrSlotNotFound.
	Get(ctx context.Context, slot string) ([]byte, error)
	// Put replaces the payload stored under slot.
	Put(ctx context.Context, slot string, value []byte) error
	Close() error
}

var ErrSlotNotFound = errors.New("slot not found")
