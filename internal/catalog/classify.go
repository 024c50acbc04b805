package catalog

import "strings"

// Category is the coarse display classification of a column's declared
// type, used by the dashboard for color-coding.
type Category int

const (
	CategoryUnknown Category = iota
	CategoryNumeric
	CategoryText
	CategoryTemporal
	CategoryBinary
)

func (c Category) String() string {
	switch c {
	case CategoryNumeric:
		return "numeric"
	case CategoryText:
		return "text"
	case CategoryTemporal:
		return "temporal"
	case CategoryBinary:
		return "binary"
	default:
		return "unknown"
	}
}

// MarshalText renders the category as its display name in JSON and YAML.
func (c Category) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

// Classify maps a declared column type to its display category using
// case-insensitive substring matching. Matching follows a fixed precedence,
// first match wins; an empty or unrecognized type is Unknown.
func Classify(declaredType string) Category {
	t := strings.ToUpper(declaredType)
	switch {
	case containsAny(t, "INT", "REAL", "NUM"):
		return CategoryNumeric
	case containsAny(t, "CHAR", "TEXT", "CLOB"):
		return CategoryText
	case containsAny(t, "DATE", "TIME"):
		return CategoryTemporal
	case containsAny(t, "BLOB", "BOOL"):
		return CategoryBinary
	default:
		return CategoryUnknown
	}
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
