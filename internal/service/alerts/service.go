package alerts

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/ousmanedev/receiptwatch/internal/domain/models"
	"github.com/ousmanedev/receiptwatch/internal/repository"
)

// Notifier is the outbound delivery capability for alert summaries. Delivery
// failures must never fail a scan.
type Notifier interface {
	SendAlert(ctx context.Context, message string) error
}

// Service scans the record store for receipts inside the alert window and
// renders/delivers urgency summaries.
type Service struct {
	store    repository.Store
	notifier Notifier
	now      func() time.Time
	logger   *zap.Logger
}

// NewService wires a new alert scanner instance.
func NewService(store repository.Store, notifier Notifier, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		store:    store,
		notifier: notifier,
		now:      time.Now,
		logger:   logger,
	}
}

// WithClock overrides the reference clock. Intended for tests.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// Scan returns the receipts currently inside the alert window, with aging
// refreshed against the scan-time reference date. The window is strictly
// [5, 18] days for pending receipts.
func (s *Service) Scan(ctx context.Context) ([]models.Receipt, error) {
	receipts, err := s.store.List(ctx)
	if err != nil {
		return nil, err
	}

	now := s.now()
	alertable := []models.Receipt{}

	for _, r := range receipts {
		aging := models.ComputeAging(r.OrderDate, now)
		if !models.Alertable(r.Status, aging.DaysPassed) {
			continue
		}
		r.DaysPassed = aging.DaysPassed
		r.DaysLeft = aging.DaysLeft
		alertable = append(alertable, r)
	}

	return alertable, nil
}

// Notify runs a scan, renders the summary and hands it to the notifier.
// Delivery errors are logged and swallowed; only scan errors propagate.
func (s *Service) Notify(ctx context.Context) error {
	alertable, err := s.Scan(ctx)
	if err != nil {
		return fmt.Errorf("alert scan: %w", err)
	}

	if len(alertable) == 0 {
		s.logger.Info("alert scan found nothing in the window")
		return nil
	}

	summary := RenderSummary(alertable)

	if err := s.notifier.SendAlert(ctx, summary); err != nil {
		s.logger.Error("failed to deliver alert summary", zap.Error(err), zap.Int("receipts", len(alertable)))
		return nil
	}

	s.logger.Info("alert summary delivered", zap.Int("receipts", len(alertable)))
	return nil
}

// RenderSummary groups alertable receipts by urgency tier and renders a plain
// text digest. Tier boundaries come from the classifier, so the summary and
// the UI always agree.
func RenderSummary(receipts []models.Receipt) string {
	groups := map[models.Tier][]models.Receipt{}
	for _, r := range receipts {
		tier := models.Classify(r.Status, r.DaysPassed)
		groups[tier] = append(groups[tier], r)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Receipt alerts: %d pending receipt(s) need attention\n", len(receipts))

	sections := []struct {
		tier    models.Tier
		heading string
	}{
		{models.TierOverdue, "Overdue"},
		{models.TierDueSoon, "Due soon"},
		{models.TierOK, "Day 5+"},
	}

	for _, section := range sections {
		members := groups[section.tier]
		if len(members) == 0 {
			continue
		}

		fmt.Fprintf(&b, "\n%s (%d):\n", section.heading, len(members))
		for _, r := range members {
			name := r.FileName
			if name == "" {
				name = r.ID
			}
			fmt.Fprintf(&b, "- %s | ordered %s | day %d, %d left\n", name, r.OrderDate, r.DaysPassed, r.DaysLeft)
		}
	}

	return strings.TrimRight(b.String(), "\n")
}
