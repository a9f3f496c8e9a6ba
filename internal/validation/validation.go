package validation

import (
	"strings"
	"time"
)

type Violations map[string]string

func (v Violations) Empty() bool { return len(v) == 0 }

// Basic validators
func Required(field, value string, v Violations) {
	if strings.TrimSpace(value) == "" {
		v[field] = "required"
	}
}

func PositiveFloat(field string, val float64, v Violations) {
	if val <= 0 {
		v[field] = "must_be_positive"
	}
}

func NonNegativeFloat(field string, val float64, v Violations) {
	if val < 0 {
		v[field] = "must_be_positive"
	}
}

func RangeFloat(field string, val, minVal, maxVal float64, v Violations) {
	if val < minVal || val > maxVal {
		v[field] = "out_of_range"
	}
}

// ISODate parses an ISO-8601 date (YYYY-MM-DD) and records a violation when
// it does not parse. Returns the zero time on failure.
func ISODate(field, value string, v Violations) time.Time {
	t, err := time.Parse("2006-01-02", strings.TrimSpace(value))
	if err != nil {
		v[field] = "invalid_date"
		return time.Time{}
	}
	return t
}
