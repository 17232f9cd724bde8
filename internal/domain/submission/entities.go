package submission

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

// DefaultRejectRemarks is stored when a validator rejects without giving a reason.
const DefaultRejectRemarks = "No remarks provided"

// Table: submissions
type Submission struct {
	ID string `gorm:"column:id;primaryKey;size:32" json:"id"`

	SupervisorID   string `gorm:"column:supervisor_id;size:64;not null;index:idx_submissions_supervisor" json:"supervisor_id"`
	SupervisorName string `gorm:"column:supervisor_name;size:255;not null" json:"supervisor_name"`

	WorkOrderID string `gorm:"column:work_order_id;size:32;not null;index" json:"work_order_id"`
	LineItemID  string `gorm:"column:line_item_id;size:32;not null;index" json:"line_item_id"`

	Quantity         decimal.Decimal `gorm:"column:quantity;type:decimal(18,4);not null" json:"quantity"`
	ActualManpower   string          `gorm:"column:actual_manpower;type:text" json:"actual_manpower"`
	MaterialConsumed string          `gorm:"column:material_consumed;type:text" json:"material_consumed"`

	Snapshot RateSnapshot    `gorm:"embedded;embeddedPrefix:snapshot_" json:"-"`
	Revenue  decimal.Decimal `gorm:"column:revenue;type:decimal(24,6);not null" json:"revenue"`

	Status               Status  `gorm:"column:status;size:32;not null;index:idx_submissions_status" json:"status"`
	Remarks              string  `gorm:"column:remarks;type:text" json:"remarks"`
	AdminRemarks         string  `gorm:"column:admin_remarks;type:text" json:"admin_remarks"`
	PreviousSubmissionID *string `gorm:"column:previous_submission_id;size:32;index" json:"previous_submission_id,omitempty"`

	EvidencePhotos datatypes.JSONSlice[string] `gorm:"column:evidence_photos" json:"evidence_photos"`

	Version   int64     `gorm:"column:version;not null;default:1" json:"version"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (Submission) TableName() string { return "submissions" }

// NewParams carries the caller-supplied fields of a fresh submission.
type NewParams struct {
	ID                   string
	SupervisorID         string
	SupervisorName       string
	WorkOrderID          string
	LineItemID           string
	Quantity             decimal.Decimal
	ActualManpower       string
	MaterialConsumed     string
	PreviousSubmissionID string
	Photos               []string
}

// New builds a Pending Validation submission with its snapshot and revenue fixed.
func New(p NewParams, snap RateSnapshot) (*Submission, error) {
	if err := CheckQuantity(p.Quantity); err != nil {
		return nil, err
	}
	s := &Submission{
		ID:               p.ID,
		SupervisorID:     p.SupervisorID,
		SupervisorName:   p.SupervisorName,
		WorkOrderID:      p.WorkOrderID,
		LineItemID:       p.LineItemID,
		Quantity:         p.Quantity,
		ActualManpower:   p.ActualManpower,
		MaterialConsumed: p.MaterialConsumed,
		Snapshot:         snap,
		Revenue:          Revenue(p.Quantity, snap.Rate),
		Status:           StatusPendingValidation,
		EvidencePhotos:   datatypes.JSONSlice[string](append([]string{}, p.Photos...)),
		Version:          1,
	}
	if p.PreviousSubmissionID != "" {
		prev := p.PreviousSubmissionID
		s.PreviousSubmissionID = &prev
	}
	return s, nil
}

// SetQuantity overwrites the quantity and recomputes revenue from the stored snapshot.
func (s *Submission) SetQuantity(q decimal.Decimal) error {
	if err := CheckQuantity(q); err != nil {
		return err
	}
	s.Quantity = q
	s.Revenue = Revenue(q, s.Snapshot.Rate)
	return nil
}

// Decide applies a validator decision. remarks and quantity are optional.
func (s *Submission) Decide(target Status, remarks *string, quantity *decimal.Decimal) error {
	ev, err := DecisionEvent(target)
	if err != nil {
		return err
	}
	next, err := Transition(s.Status, ev)
	if err != nil {
		return err
	}
	if quantity != nil {
		if err := s.SetQuantity(*quantity); err != nil {
			return err
		}
	}
	switch next {
	case StatusRejected:
		s.Remarks = DefaultRejectRemarks
		if remarks != nil && *remarks != "" {
			s.Remarks = *remarks
		}
	case StatusApproved:
		s.Remarks = ""
	}
	s.Status = next
	return nil
}

// Supersede retires a rejected submission in favour of its successor.
func (s *Submission) Supersede() error {
	next, err := Transition(s.Status, EventResubmit)
	if err != nil {
		return err
	}
	s.Status = next
	return nil
}

func (s *Submission) Photos() []string { return []string(s.EvidencePhotos) }
