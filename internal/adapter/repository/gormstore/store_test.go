package gormstore

import (
	"testing"

	"fieldops-backend/internal/domain/masterdata"
	"fieldops-backend/internal/domain/submission"
	dbinfra "fieldops-backend/internal/infrastructure/db"
	"fieldops-backend/pkg/id"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// openTestDB opens a private in-memory sqlite database carrying the production schema.
func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := dbinfra.OpenGormWithDialector(dbinfra.SQLite(":memory:"), nil)
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	// every pooled connection would otherwise get its own empty :memory: database
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("sql db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	if err := Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func makeLineItem(woID, rate string) *masterdata.LineItem {
	return &masterdata.LineItem{
		ID:               id.NewID32(),
		WorkOrderID:      woID,
		Name:             "Cable pulling",
		UOM:              "m",
		Rate:             dec(rate),
		StandardManpower: "2 technicians",
	}
}

func makeSubmission(t *testing.T, supervisor string, li *masterdata.LineItem, qty string) *submission.Submission {
	t.Helper()
	s, err := submission.New(submission.NewParams{
		ID:             id.NewID32(),
		SupervisorID:   supervisor,
		SupervisorName: "Supervisor " + supervisor,
		WorkOrderID:    li.WorkOrderID,
		LineItemID:     li.ID,
		Quantity:       dec(qty),
		ActualManpower: "3",
		Photos:         []string{"https://cdn.example.com/a.jpg"},
	}, submission.SnapshotOf(li))
	if err != nil {
		t.Fatalf("submission.New: %v", err)
	}
	return s
}
