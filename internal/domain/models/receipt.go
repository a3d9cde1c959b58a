package models

import "time"

// Status enumerates the lifecycle states a receipt moves through.
type Status string

const (
	StatusPending Status = "Pending"
	StatusDone    Status = "Done"
	StatusDelayed Status = "Delayed"
)

// OrderDateUnknown is the sentinel value stored when no order date could be
// recovered from a receipt.
const OrderDateUnknown = "N/A"

// Receipt is the central entity: one uploaded receipt image, its extracted
// text, and its position in the 18-day review window.
type Receipt struct {
	ID            string    `bson:"_id" json:"id"`
	ImageSrc      string    `bson:"image_src" json:"imageSrc"`
	ExtractedText string    `bson:"extracted_text" json:"extractedText"`
	OrderDate     string    `bson:"order_date" json:"orderDate"`
	DaysPassed    int       `bson:"days_passed" json:"daysPassed"`
	DaysLeft      int       `bson:"days_left" json:"daysLeft"`
	Status        Status    `bson:"status" json:"status"`
	Note          string    `bson:"note" json:"note"`
	FileName      string    `bson:"file_name" json:"fileName"`
	UploadedAt    time.Time `bson:"uploaded_at" json:"uploadedAt"`
	UpdatedAt     time.Time `bson:"updated_at" json:"updatedAt"`
	UpdatedBy     string    `bson:"updated_by" json:"updatedBy"`
}

// CreateReceiptRequest is the wire shape for creating a receipt. DaysPassed
// and DaysLeft are accepted for compatibility with older clients but the
// server always recomputes aging from OrderDate.
type CreateReceiptRequest struct {
	ImageSrc      string `json:"imageSrc"`
	ExtractedText string `json:"extractedText"`
	OrderDate     string `json:"orderDate"`
	DaysPassed    *int   `json:"daysPassed"`
	DaysLeft      *int   `json:"daysLeft"`
	FileName      string `json:"fileName"`
}

// ReceiptPatch carries a partial update. Nil fields are left unchanged.
type ReceiptPatch struct {
	Status    *Status `json:"status"`
	Note      *string `json:"note"`
	UpdatedBy *string `json:"updatedBy"`
}

// Stats aggregates counts over the live record set.
type Stats struct {
	TotalReceipts     int `json:"totalReceipts"`
	PendingReceipts   int `json:"pendingReceipts"`
	CompletedReceipts int `json:"completedReceipts"`
	AlertReceipts     int `json:"alertReceipts"`
}

// ImportResult is the per-file outcome of a batch import. Exactly one of
// Receipt and Error is set.
type ImportResult struct {
	FileName string   `json:"fileName"`
	Receipt  *Receipt `json:"receipt,omitempty"`
	Error    string   `json:"error,omitempty"`
}
