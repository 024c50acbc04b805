package sqlexec

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strconv"
	"time"
)

// CellKind discriminates the value held by a Cell.
type CellKind int

const (
	KindNull CellKind = iota
	KindInt
	KindFloat
	KindText
	KindBool
	KindBytes
)

// Cell is a single result value. Only the field selected by Kind is
// meaningful.
type Cell struct {
	Kind  CellKind
	Int   int64
	Float float64
	Text  string
	Bool  bool
	Bytes []byte
}

// NewCell converts a value scanned from database/sql into a Cell.
// Temporal values are rendered as RFC 3339 text, and anything without a
// dedicated kind falls back to its string form.
func NewCell(v any) Cell {
	switch x := v.(type) {
	case nil:
		return Cell{Kind: KindNull}
	case int64:
		return Cell{Kind: KindInt, Int: x}
	case int:
		return Cell{Kind: KindInt, Int: int64(x)}
	case int32:
		return Cell{Kind: KindInt, Int: int64(x)}
	case int16:
		return Cell{Kind: KindInt, Int: int64(x)}
	case int8:
		return Cell{Kind: KindInt, Int: int64(x)}
	case uint64:
		return Cell{Kind: KindInt, Int: int64(x)}
	case uint32:
		return Cell{Kind: KindInt, Int: int64(x)}
	case uint16:
		return Cell{Kind: KindInt, Int: int64(x)}
	case uint8:
		return Cell{Kind: KindInt, Int: int64(x)}
	case uint:
		return Cell{Kind: KindInt, Int: int64(x)}
	case float64:
		return Cell{Kind: KindFloat, Float: x}
	case float32:
		return Cell{Kind: KindFloat, Float: float64(x)}
	case bool:
		return Cell{Kind: KindBool, Bool: x}
	case string:
		return Cell{Kind: KindText, Text: x}
	case []byte:
		return Cell{Kind: KindBytes, Bytes: x}
	case time.Time:
		return Cell{Kind: KindText, Text: x.Format(time.RFC3339)}
	default:
		return Cell{Kind: KindText, Text: fmt.Sprint(x)}
	}
}

// String renders the cell for terminal output.
func (c Cell) String() string {
	switch c.Kind {
	case KindNull:
		return "NULL"
	case KindInt:
		return strconv.FormatInt(c.Int, 10)
	case KindFloat:
		return strconv.FormatFloat(c.Float, 'g', -1, 64)
	case KindText:
		return c.Text
	case KindBool:
		return strconv.FormatBool(c.Bool)
	case KindBytes:
		return string(c.Bytes)
	default:
		return ""
	}
}

// MarshalJSON encodes the cell as the bare JSON value. Byte values have no
// JSON representation of their own and are encoded as a \x-prefixed hex
// string.
func (c Cell) MarshalJSON() ([]byte, error) {
	switch c.Kind {
	case KindNull:
		return []byte("null"), nil
	case KindInt:
		return strconv.AppendInt(nil, c.Int, 10), nil
	case KindFloat:
		return json.Marshal(c.Float)
	case KindText:
		return json.Marshal(c.Text)
	case KindBool:
		return json.Marshal(c.Bool)
	case KindBytes:
		return json.Marshal(`\x` + hex.EncodeToString(c.Bytes))
	default:
		return nil, fmt.Errorf("unknown cell kind %d", c.Kind)
	}
}
