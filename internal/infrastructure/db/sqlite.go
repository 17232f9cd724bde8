package db

import (
	"strings"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/schema"
)

// SQLite opens path with decimal columns created as text. SQLite gives
// decimal(p,s) NUMERIC affinity, which folds large values into REAL.
func SQLite(path string) gorm.Dialector {
	return sqliteDialector{Dialector: &sqlite.Dialector{DSN: path}}
}

type sqliteDialector struct {
	*sqlite.Dialector
}

func (d sqliteDialector) DataTypeOf(field *schema.Field) string {
	if strings.HasPrefix(strings.ToLower(string(field.DataType)), "decimal") {
		return "text"
	}
	return d.Dialector.DataTypeOf(field)
}

// Migrator hands the migrator this dialector so DDL sees DataTypeOf above.
func (d sqliteDialector) Migrator(db *gorm.DB) gorm.Migrator {
	m := d.Dialector.Migrator(db).(sqlite.Migrator)
	m.Dialector = d
	return m
}
