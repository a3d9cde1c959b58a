package models

import (
	"testing"
	"time"
)

func TestComputeAging(t *testing.T) {
	reference := time.Date(2025, 10, 24, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name           string
		orderDate      string
		reference      time.Time
		wantDaysPassed int
		wantDaysLeft   int
	}{
		{
			name:           "unknown date returns sentinel defaults",
			orderDate:      OrderDateUnknown,
			reference:      reference,
			wantDaysPassed: 0,
			wantDaysLeft:   18,
		},
		{
			name:           "same day",
			orderDate:      "2025-10-24",
			reference:      reference,
			wantDaysPassed: 0,
			wantDaysLeft:   18,
		},
		{
			name:           "partial day rounds up",
			orderDate:      "2025-10-23",
			reference:      time.Date(2025, 10, 23, 9, 30, 0, 0, time.UTC),
			wantDaysPassed: 1,
			wantDaysLeft:   17,
		},
		{
			name:           "twenty three days elapsed",
			orderDate:      "2025-10-01",
			reference:      reference,
			wantDaysPassed: 23,
			wantDaysLeft:   -5,
		},
		{
			name:           "future order date yields negative daysPassed",
			orderDate:      "2025-10-30",
			reference:      reference,
			wantDaysPassed: -6,
			wantDaysLeft:   24,
		},
		{
			name:           "malformed date takes the sentinel branch",
			orderDate:      "24/10/2025",
			reference:      reference,
			wantDaysPassed: 0,
			wantDaysLeft:   18,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ComputeAging(tt.orderDate, tt.reference)
			if got.DaysPassed != tt.wantDaysPassed {
				t.Errorf("DaysPassed = %d, want %d", got.DaysPassed, tt.wantDaysPassed)
			}
			if got.DaysLeft != tt.wantDaysLeft {
				t.Errorf("DaysLeft = %d, want %d", got.DaysLeft, tt.wantDaysLeft)
			}
		})
	}
}

func TestComputeAgingDaysLeftInvariant(t *testing.T) {
	reference := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)

	dates := []string{"2026-03-15", "2026-03-01", "2025-12-31", "2026-04-10", OrderDateUnknown, "garbage"}
	for _, d := range dates {
		aging := ComputeAging(d, reference)
		if aging.DaysLeft != ReviewWindowDays-aging.DaysPassed {
			t.Errorf("order date %q: daysLeft %d != 18 - daysPassed %d", d, aging.DaysLeft, aging.DaysPassed)
		}
	}
}

func TestNormalizeOrderDate(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"2025-10-01", "2025-10-01"},
		{"  2025-10-01  ", "2025-10-01"},
		{"", OrderDateUnknown},
		{OrderDateUnknown, OrderDateUnknown},
		{"not-a-date", OrderDateUnknown},
		{"2025-13-45", OrderDateUnknown},
		{"10/01/2025", OrderDateUnknown},
	}

	for _, tt := range tests {
		if got := NormalizeOrderDate(tt.input); got != tt.want {
			t.Errorf("NormalizeOrderDate(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name       string
		status     Status
		daysPassed int
		want       Tier
	}{
		{"done wins regardless of age", StatusDone, 500, TierCompleted},
		{"done wins on negative age", StatusDone, -3, TierCompleted},
		{"pending over window is overdue", StatusPending, 19, TierOverdue},
		{"pending at 23 is overdue", StatusPending, 23, TierOverdue},
		{"pending at upper bound is due soon", StatusPending, 18, TierDueSoon},
		{"pending at lower due-soon bound", StatusPending, 9, TierDueSoon},
		{"pending below due-soon bound is ok", StatusPending, 8, TierOK},
		{"pending fresh is ok", StatusPending, 0, TierOK},
		{"pending future order date is ok", StatusPending, -6, TierOK},
		{"delayed follows the same age rules", StatusDelayed, 12, TierDueSoon},
		{"delayed overdue", StatusDelayed, 30, TierOverdue},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Classify(tt.status, tt.daysPassed); got != tt.want {
				t.Errorf("Classify(%s, %d) = %s, want %s", tt.status, tt.daysPassed, got, tt.want)
			}
		})
	}
}

func TestAlertable(t *testing.T) {
	tests := []struct {
		name       string
		status     Status
		daysPassed int
		want       bool
	}{
		{"pending at lower bound", StatusPending, 5, true},
		{"pending at upper bound", StatusPending, 18, true},
		{"pending mid window", StatusPending, 10, true},
		{"pending just below window", StatusPending, 4, false},
		{"pending just past window is urgent but not alertable", StatusPending, 19, false},
		{"pending far past window", StatusPending, 23, false},
		{"done inside window", StatusDone, 10, false},
		{"delayed inside window", StatusDelayed, 10, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Alertable(tt.status, tt.daysPassed); got != tt.want {
				t.Errorf("Alertable(%s, %d) = %v, want %v", tt.status, tt.daysPassed, got, tt.want)
			}
		})
	}
}

func TestTierLabel(t *testing.T) {
	labels := map[Tier]string{
		TierOK:        "On track",
		TierDueSoon:   "Due soon",
		TierOverdue:   "Overdue",
		TierCompleted: "Completed",
	}

	for tier, want := range labels {
		if got := tier.Label(); got != want {
			t.Errorf("%s.Label() = %q, want %q", tier, got, want)
		}
	}
}
