package models

import (
	"database/sql/driver"

	"github.com/lib/pq"
	"gorm.io/gorm"
	"gorm.io/gorm/schema"
)

// StringList stores a list of short labels in one column. Postgres gets a
// native text[]; other dialects store the pq array literal in a text column,
// which Scan parses back.
type StringList pq.StringArray

func (l *StringList) Scan(src any) error {
	return (*pq.StringArray)(l).Scan(src)
}

// Value stores a nil list as the empty array so the column can stay NOT NULL.
func (l StringList) Value() (driver.Value, error) {
	if l == nil {
		l = StringList{}
	}
	return pq.StringArray(l).Value()
}

func (StringList) GormDataType() string {
	return "text"
}

func (StringList) GormDBDataType(db *gorm.DB, _ *schema.Field) string {
	if db.Dialector.Name() == "postgres" {
		return "text[]"
	}
	return "text"
}
