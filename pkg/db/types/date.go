package dbtypes

import (
	"database/sql/driver"
	"fmt"
	"strings"
	"time"
)

const dateLayout = "2006-01-02"

// Date is a calendar day kept in ISO form ("2006-01-02"). Postgres hands back
// time.Time for date columns while sqlite returns text; both scan into Date.
type Date string

func (d *Date) Scan(src any) error {
	if src == nil {
		*d = ""
		return nil
	}

	switch v := src.(type) {
	case time.Time:
		*d = Date(v.UTC().Format(dateLayout))
		return nil
	case string:
		return d.parseFromString(v)
	case []byte:
		return d.parseFromString(string(v))
	default:
		return fmt.Errorf("Date: unsupported Scan type %T", src)
	}
}

func (d Date) Value() (driver.Value, error) {
	if d == "" {
		return nil, nil
	}
	return string(d), nil
}

func (d Date) String() string {
	return string(d)
}

func (d *Date) parseFromString(s string) error {
	s = strings.TrimSpace(s)
	if s == "" {
		*d = ""
		return nil
	}
	// timestamps such as "2024-01-05T00:00:00Z" or "2024-01-05 00:00:00+00:00"
	if len(s) > len(dateLayout) {
		s = s[:len(dateLayout)]
	}
	if _, err := time.Parse(dateLayout, s); err != nil {
		return fmt.Errorf("Date: parse %q: %w", s, err)
	}
	*d = Date(s)
	return nil
}
