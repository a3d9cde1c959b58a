package receipts

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/ousmanedev/receiptwatch/internal/domain/models"
	"github.com/ousmanedev/receiptwatch/internal/repository/memory"
)

var testNow = time.Date(2025, 10, 24, 0, 0, 0, 0, time.UTC)

func newTestService() *Service {
	return NewService(memory.NewRepository(), nil).WithClock(func() time.Time { return testNow })
}

func TestCreateValidation(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	tests := []struct {
		name string
		req  models.CreateReceiptRequest
	}{
		{"missing imageSrc", models.CreateReceiptRequest{ExtractedText: "text"}},
		{"missing extractedText", models.CreateReceiptRequest{ImageSrc: "blob:x"}},
		{"missing both", models.CreateReceiptRequest{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := svc.Create(ctx, tt.req); !errors.Is(err, models.ErrValidation) {
				t.Errorf("got %v, want ErrValidation", err)
			}
		})
	}
}

func TestCreateDefaults(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	created, err := svc.Create(ctx, models.CreateReceiptRequest{
		ImageSrc:      "x",
		ExtractedText: "y",
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if created.OrderDate != models.OrderDateUnknown {
		t.Errorf("orderDate = %q, want N/A", created.OrderDate)
	}
	if created.DaysPassed != 0 || created.DaysLeft != 18 {
		t.Errorf("aging = {%d, %d}, want {0, 18}", created.DaysPassed, created.DaysLeft)
	}
	if created.Status != models.StatusPending {
		t.Errorf("status = %s, want Pending", created.Status)
	}
	if created.Note != "" {
		t.Errorf("note = %q, want empty", created.Note)
	}

	listed, err := svc.List(ctx)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(listed) == 0 || listed[0].ID != created.ID {
		t.Error("created receipt must appear first in a subsequent List")
	}
}

func TestCreateRecomputesAgingServerSide(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	// Client-submitted aging fields are never trusted.
	bogusPassed, bogusLeft := 99, -42
	created, err := svc.Create(ctx, models.CreateReceiptRequest{
		ImageSrc:      "x",
		ExtractedText: "y",
		OrderDate:     "2025-10-01",
		DaysPassed:    &bogusPassed,
		DaysLeft:      &bogusLeft,
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if created.DaysPassed != 23 {
		t.Errorf("daysPassed = %d, want 23", created.DaysPassed)
	}
	if created.DaysLeft != -5 {
		t.Errorf("daysLeft = %d, want -5", created.DaysLeft)
	}
}

func TestCreateNormalizesMalformedOrderDate(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	created, err := svc.Create(ctx, models.CreateReceiptRequest{
		ImageSrc:      "x",
		ExtractedText: "y",
		OrderDate:     "24th of October",
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if created.OrderDate != models.OrderDateUnknown {
		t.Errorf("orderDate = %q, want N/A", created.OrderDate)
	}
	if created.DaysPassed != 0 || created.DaysLeft != 18 {
		t.Errorf("aging = {%d, %d}, want sentinel {0, 18}", created.DaysPassed, created.DaysLeft)
	}
}

func TestUpdateAndDeleteUnknownId(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	if _, err := svc.Update(ctx, "nope", models.ReceiptPatch{}); !errors.Is(err, models.ErrNotFound) {
		t.Errorf("Update: got %v, want ErrNotFound", err)
	}
	if err := svc.Delete(ctx, "nope"); !errors.Is(err, models.ErrNotFound) {
		t.Errorf("Delete: got %v, want ErrNotFound", err)
	}
}

func TestStats(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	seed := []struct {
		orderDate string
		status    models.Status
	}{
		{"2025-10-22", models.StatusPending}, // day 2, below alert threshold
		{"2025-10-15", models.StatusPending}, // day 9, alertable
		{"2025-10-01", models.StatusPending}, // day 23, still counts for stats (>= 5)
		{"2025-10-10", models.StatusDone},    // completed
		{"2025-10-10", models.StatusDelayed}, // neither pending nor completed
	}

	for _, s := range seed {
		created, err := svc.Create(ctx, models.CreateReceiptRequest{
			ImageSrc:      "x",
			ExtractedText: "y",
			OrderDate:     s.orderDate,
		})
		if err != nil {
			t.Fatalf("Create failed: %v", err)
		}
		if s.status != models.StatusPending {
			status := s.status
			if _, err := svc.Update(ctx, created.ID, models.ReceiptPatch{Status: &status}); err != nil {
				t.Fatalf("Update failed: %v", err)
			}
		}
	}

	stats, err := svc.Stats(ctx)
	if err != nil {
		t.Fatalf("Stats failed: %v", err)
	}

	if stats.TotalReceipts != 5 {
		t.Errorf("total = %d, want 5", stats.TotalReceipts)
	}
	if stats.PendingReceipts != 3 {
		t.Errorf("pending = %d, want 3", stats.PendingReceipts)
	}
	if stats.CompletedReceipts != 1 {
		t.Errorf("completed = %d, want 1", stats.CompletedReceipts)
	}
	if stats.AlertReceipts != 2 {
		t.Errorf("alertable = %d, want 2", stats.AlertReceipts)
	}
}
