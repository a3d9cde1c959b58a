package receipts

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/ousmanedev/receiptwatch/internal/domain/models"
	"github.com/ousmanedev/receiptwatch/internal/repository"
)

// Service orchestrates receipt CRUD against the record store. Aging fields
// are always recomputed server-side from the order date; client-submitted
// daysPassed/daysLeft values are ignored.
type Service struct {
	store  repository.Store
	now    func() time.Time
	logger *zap.Logger
}

// NewService wires a new receipt service instance.
func NewService(store repository.Store, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		store:  store,
		now:    time.Now,
		logger: logger,
	}
}

// WithClock overrides the reference clock. Intended for tests.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// Create validates the request, computes aging from the normalized order
// date, and persists a new pending receipt.
func (s *Service) Create(ctx context.Context, req models.CreateReceiptRequest) (models.Receipt, error) {
	if req.ImageSrc == "" {
		return models.Receipt{}, fmt.Errorf("%w: imageSrc is required", models.ErrValidation)
	}
	if req.ExtractedText == "" {
		return models.Receipt{}, fmt.Errorf("%w: extractedText is required", models.ErrValidation)
	}

	orderDate := models.NormalizeOrderDate(req.OrderDate)
	aging := models.ComputeAging(orderDate, s.now())

	receipt := models.Receipt{
		ImageSrc:      req.ImageSrc,
		ExtractedText: req.ExtractedText,
		OrderDate:     orderDate,
		DaysPassed:    aging.DaysPassed,
		DaysLeft:      aging.DaysLeft,
		Status:        models.StatusPending,
		Note:          "",
		FileName:      req.FileName,
	}

	created, err := s.store.Insert(ctx, receipt)
	if err != nil {
		return models.Receipt{}, fmt.Errorf("insert receipt: %w", err)
	}

	s.logger.Info("receipt created",
		zap.String("id", created.ID),
		zap.String("order_date", created.OrderDate),
		zap.Int("days_passed", created.DaysPassed))

	return created, nil
}

// List returns all receipts, newest first.
func (s *Service) List(ctx context.Context) ([]models.Receipt, error) {
	return s.store.List(ctx)
}

// Update applies a partial patch and returns the post-update record.
func (s *Service) Update(ctx context.Context, id string, patch models.ReceiptPatch) (models.Receipt, error) {
	updated, err := s.store.Update(ctx, id, patch)
	if err != nil {
		return models.Receipt{}, err
	}

	s.logger.Info("receipt updated",
		zap.String("id", id),
		zap.String("status", string(updated.Status)))

	return updated, nil
}

// Delete removes a receipt permanently.
func (s *Service) Delete(ctx context.Context, id string) error {
	if err := s.store.Delete(ctx, id); err != nil {
		return err
	}

	s.logger.Info("receipt deleted", zap.String("id", id))
	return nil
}

// Stats aggregates counts over the live record set. Ages are recomputed from
// the order date at call time so long-lived records keep counting toward the
// alert threshold as they age.
func (s *Service) Stats(ctx context.Context) (models.Stats, error) {
	receipts, err := s.store.List(ctx)
	if err != nil {
		return models.Stats{}, err
	}

	now := s.now()
	stats := models.Stats{TotalReceipts: len(receipts)}

	for _, r := range receipts {
		switch r.Status {
		case models.StatusDone:
			stats.CompletedReceipts++
		case models.StatusPending:
			stats.PendingReceipts++
			if models.ComputeAging(r.OrderDate, now).DaysPassed >= models.AlertThresholdDays {
				stats.AlertReceipts++
			}
		}
	}

	return stats, nil
}
