package models

// Tier is the display and alert classification of a receipt. It drives both
// UI styling and alert-window grouping, so it must stay the single source of
// truth for both.
type Tier string

const (
	TierOK        Tier = "OK"
	TierDueSoon   Tier = "DUE_SOON"
	TierOverdue   Tier = "OVERDUE"
	TierCompleted Tier = "COMPLETED"
)

// Label returns the human-facing name of the tier.
func (t Tier) Label() string {
	switch t {
	case TierCompleted:
		return "Completed"
	case TierOverdue:
		return "Overdue"
	case TierDueSoon:
		return "Due soon"
	default:
		return "On track"
	}
}

// Classify maps a status and an age to a tier. Done wins over any age,
// including negative or very large values.
func Classify(status Status, daysPassed int) Tier {
	if status == StatusDone {
		return TierCompleted
	}

	switch {
	case daysPassed > ReviewWindowDays:
		return TierOverdue
	case daysPassed >= DueSoonThresholdDays:
		return TierDueSoon
	default:
		return TierOK
	}
}

// Alertable reports whether a receipt belongs to the alert window. The window
// is strictly [5, 18]: an overdue receipt (daysPassed > 18) is urgent but no
// longer alertable.
func Alertable(status Status, daysPassed int) bool {
	return status == StatusPending &&
		daysPassed >= AlertThresholdDays &&
		daysPassed <= ReviewWindowDays
}
