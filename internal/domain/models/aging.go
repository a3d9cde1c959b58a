package models

import (
	"math"
	"strings"
	"time"
)

const (
	// OrderDateLayout is the calendar form receipts carry their order date in.
	OrderDateLayout = "2006-01-02"

	// ReviewWindowDays is the fixed window a pending receipt must be
	// resolved within.
	ReviewWindowDays = 18

	// AlertThresholdDays is the age at which a pending receipt becomes
	// alert-worthy.
	AlertThresholdDays = 5

	// DueSoonThresholdDays is the age at which a pending receipt is
	// classified as due soon.
	DueSoonThresholdDays = 9
)

// Aging is the derived pair computed from an order date and a reference date.
type Aging struct {
	DaysPassed int
	DaysLeft   int
}

// ComputeAging derives the aging pair for an order date against an explicit
// reference date. The reference is always a parameter so callers control the
// clock. Unknown or unparsable order dates take the sentinel branch.
func ComputeAging(orderDate string, reference time.Time) Aging {
	if orderDate == OrderDateUnknown {
		return Aging{DaysPassed: 0, DaysLeft: ReviewWindowDays}
	}

	parsed, err := time.Parse(OrderDateLayout, orderDate)
	if err != nil {
		return Aging{DaysPassed: 0, DaysLeft: ReviewWindowDays}
	}

	elapsed := reference.Sub(parsed)
	daysPassed := int(math.Ceil(elapsed.Hours() / 24))

	return Aging{
		DaysPassed: daysPassed,
		DaysLeft:   ReviewWindowDays - daysPassed,
	}
}

// NormalizeOrderDate trims the input and maps empty or unparsable values to
// the N/A sentinel, so everything downstream only ever sees a valid
// YYYY-MM-DD string or the sentinel.
func NormalizeOrderDate(value string) string {
	value = strings.TrimSpace(value)
	if value == "" || value == OrderDateUnknown {
		return OrderDateUnknown
	}

	if _, err := time.Parse(OrderDateLayout, value); err != nil {
		return OrderDateUnknown
	}

	return value
}
