package masterdata

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

var (
	ErrNotFound         = errors.New("master data not found")
	ErrDuplicateKey     = errors.New("work order number already exists")
	ErrInvalidReference = errors.New("referenced work order does not exist")
	ErrInvalidRate      = errors.New("rate must be a non-negative amount with at most 2 decimal places")
)

// RateScale is the number of fractional digits a line item rate may carry.
const RateScale = 2

// CheckRate enforces the stored precision of line_items.rate.
func CheckRate(rate decimal.Decimal) error {
	if rate.IsNegative() || !rate.Equal(rate.Truncate(RateScale)) {
		return ErrInvalidRate
	}
	return nil
}

// Table: work_orders. Immutable once created.
type WorkOrder struct {
	ID          string    `gorm:"column:id;primaryKey;size:32" json:"id"`
	OrderNumber string    `gorm:"column:order_number;size:64;not null;uniqueIndex:ux_work_orders_order_number" json:"order_number"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

func (WorkOrder) TableName() string { return "work_orders" }

// Table: line_items. Rate is live master data; submissions copy it at creation.
type LineItem struct {
	ID               string          `gorm:"column:id;primaryKey;size:32" json:"id"`
	WorkOrderID      string          `gorm:"column:work_order_id;size:32;not null;index" json:"work_order_id"`
	Name             string          `gorm:"column:name;size:255;not null" json:"name"`
	UOM              string          `gorm:"column:uom;size:32;not null" json:"uom"`
	Rate             decimal.Decimal `gorm:"column:rate;type:decimal(18,2);not null" json:"rate"`
	StandardManpower string          `gorm:"column:standard_manpower;type:text" json:"standard_manpower"`
	CreatedAt        time.Time       `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt        time.Time       `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (LineItem) TableName() string { return "line_items" }
