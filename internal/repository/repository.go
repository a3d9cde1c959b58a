package repository

import (
	"context"

	"github.com/ousmanedev/receiptwatch/internal/domain/models"
)

// Store is the persistence abstraction for receipts. It is backed
// interchangeably by MongoDB or an in-memory map, selected at startup.
//
// Concurrent updates to the same id race; the last write wins. There is no
// optimistic-concurrency token.
type Store interface {
	// Insert persists a new receipt, assigning its id and server
	// timestamps, and returns the canonical record.
	Insert(ctx context.Context, receipt models.Receipt) (models.Receipt, error)

	// List returns all live receipts ordered by upload time, newest first.
	// Each call observes a fresh snapshot.
	List(ctx context.Context) ([]models.Receipt, error)

	// Update applies a partial patch to the receipt with the given id,
	// refreshes its updatedAt timestamp, and returns the post-update
	// record. Returns models.ErrNotFound for unknown ids.
	Update(ctx context.Context, id string, patch models.ReceiptPatch) (models.Receipt, error)

	// Delete removes a receipt permanently. Returns models.ErrNotFound for
	// unknown ids. Ids are never reused.
	Delete(ctx context.Context, id string) error

	// Close releases the store. Operations after Close return
	// models.ErrStoreUnavailable.
	Close(ctx context.Context) error
}
