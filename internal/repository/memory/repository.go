package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/ousmanedev/receiptwatch/internal/domain/models"
	"github.com/ousmanedev/receiptwatch/internal/repository"
)

// Repository is the in-memory Store used when no MongoDB URI is configured,
// and by tests that need an isolated instance per run.
type Repository struct {
	mu       sync.RWMutex
	receipts map[string]models.Receipt
	closed   bool
	now      func() time.Time
}

var _ repository.Store = (*Repository)(nil)

// NewRepository creates an empty in-memory store.
func NewRepository() *Repository {
	return &Repository{
		receipts: make(map[string]models.Receipt),
		now:      time.Now,
	}
}

// Insert assigns a fresh id and server timestamps and stores the receipt.
func (r *Repository) Insert(_ context.Context, receipt models.Receipt) (models.Receipt, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return models.Receipt{}, models.ErrStoreUnavailable
	}

	now := r.now()
	receipt.ID = uuid.NewString()
	receipt.UploadedAt = now
	receipt.UpdatedAt = now

	r.receipts[receipt.ID] = receipt
	return receipt, nil
}

// List returns a snapshot of all receipts, newest first.
func (r *Repository) List(_ context.Context) ([]models.Receipt, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.closed {
		return nil, models.ErrStoreUnavailable
	}

	out := make([]models.Receipt, 0, len(r.receipts))
	for _, receipt := range r.receipts {
		out = append(out, receipt)
	}

	sort.Slice(out, func(i, j int) bool {
		return out[i].UploadedAt.After(out[j].UploadedAt)
	})

	return out, nil
}

// Update applies the non-nil patch fields and refreshes updatedAt.
func (r *Repository) Update(_ context.Context, id string, patch models.ReceiptPatch) (models.Receipt, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return models.Receipt{}, models.ErrStoreUnavailable
	}

	receipt, ok := r.receipts[id]
	if !ok {
		return models.Receipt{}, models.ErrNotFound
	}

	if patch.Status != nil {
		receipt.Status = *patch.Status
	}
	if patch.Note != nil {
		receipt.Note = *patch.Note
	}
	if patch.UpdatedBy != nil {
		receipt.UpdatedBy = *patch.UpdatedBy
	}
	receipt.UpdatedAt = r.now()

	r.receipts[id] = receipt
	return receipt, nil
}

// Delete removes the receipt permanently.
func (r *Repository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return models.ErrStoreUnavailable
	}

	if _, ok := r.receipts[id]; !ok {
		return models.ErrNotFound
	}

	delete(r.receipts, id)
	return nil
}

// Close marks the store unusable. Further operations fail with
// models.ErrStoreUnavailable.
func (r *Repository) Close(_ context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.closed = true
	r.receipts = nil
	return nil
}
