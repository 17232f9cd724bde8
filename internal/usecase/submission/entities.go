package submission

import (
	"time"

	"fieldops-backend/internal/domain/photo"

	"github.com/shopspring/decimal"
)

type CreateInput struct {
	SupervisorID         string
	SupervisorName       string
	WorkOrderID          string
	LineItemID           string
	Quantity             decimal.Decimal
	ActualManpower       string
	MaterialConsumed     string
	ExistingPhotos       []string
	PreviousSubmissionID string
	// PreviousVersion, when set, must match the predecessor's current version.
	PreviousVersion *int64
	Photos          []photo.Upload
}

type ValidateInput struct {
	Status          string
	Remarks         *string
	Quantity        *decimal.Decimal
	ExpectedVersion *int64
}

// ResubmitInput carries the legacy PUT /submissions/:id body. Nil fields are
// copied from the record being resubmitted.
type ResubmitInput struct {
	Quantity         *decimal.Decimal
	ActualManpower   *string
	MaterialConsumed *string
	Photos           []photo.Upload
	ExpectedVersion  *int64
}

type AdminRemarksInput struct {
	AdminRemarks    string
	ExpectedVersion *int64
}

// View is a submission as one role is allowed to see it. Rate and Revenue are
// nil for supervisors and dropped from JSON.
type View struct {
	ID                   string           `json:"id"`
	SupervisorID         string           `json:"supervisorId"`
	SupervisorName       string           `json:"supervisorName"`
	WorkOrderID          string           `json:"workOrderId"`
	OrderNumber          string           `json:"orderNumber"`
	LineItemID           string           `json:"lineItemId"`
	LineItemName         string           `json:"lineItemName"`
	UOM                  string           `json:"uom"`
	Quantity             decimal.Decimal  `json:"quantity"`
	ActualManpower       string           `json:"actualManpower"`
	MaterialConsumed     string           `json:"materialConsumed"`
	StandardManpower     string           `json:"standardManpower"`
	Rate                 *decimal.Decimal `json:"rate,omitempty"`
	Revenue              *decimal.Decimal `json:"revenue,omitempty"`
	Status               string           `json:"status"`
	Remarks              string           `json:"remarks"`
	AdminRemarks         string           `json:"adminRemarks"`
	PreviousSubmissionID *string          `json:"previousSubmissionId,omitempty"`
	EvidencePhotos       []string         `json:"evidencePhotos"`
	Version              int64            `json:"version"`
	CreatedAt            time.Time        `json:"createdAt"`
	UpdatedAt            time.Time        `json:"updatedAt"`
}
