package submission

import (
	"github.com/shopspring/decimal"

	"fieldops-backend/internal/domain/masterdata"
)

// RateSnapshot is copied from a LineItem when a submission is created and never re-read afterwards.
type RateSnapshot struct {
	Rate             decimal.Decimal `gorm:"column:rate;type:decimal(18,2);not null"`
	StandardManpower string          `gorm:"column:standard_manpower;type:text"`
}

func SnapshotOf(li *masterdata.LineItem) RateSnapshot {
	return RateSnapshot{Rate: li.Rate, StandardManpower: li.StandardManpower}
}

// QuantityScale is the number of fractional digits a quantity may carry.
const QuantityScale = 4

func CheckQuantity(q decimal.Decimal) error {
	if q.IsNegative() || !q.Equal(q.Truncate(QuantityScale)) {
		return ErrInvalidQuantity
	}
	return nil
}

// Revenue is quantity × rate, exact.
func Revenue(quantity, rate decimal.Decimal) decimal.Decimal {
	return quantity.Mul(rate)
}
