package common

import (
	"fmt"
	"math"
	"time"

	"github.com/govalues/decimal"
)

// Value is one typed cell read from a column. Decimals keep their unscaled
// coefficient in I64, dates keep days since 1970-01-01 in I64.
type Value struct {
	Typ    LType
	IsNull bool
	//value
	Bool bool
	I64  int64
	F64  float64
	Str  string
}

func NullValue(typ LType) *Value {
	return &Value{Typ: typ, IsNull: true}
}

func BooleanValue(b bool) *Value {
	return &Value{Typ: BooleanType(), Bool: b}
}

func IntegerValue(i int32) *Value {
	return &Value{Typ: IntegerType(), I64: int64(i)}
}

func BigintValue(i int64) *Value {
	return &Value{Typ: BigintType(), I64: i}
}

func DoubleValue(f float64) *Value {
	return &Value{Typ: DoubleType(), F64: f}
}

func VarcharValue(s string) *Value {
	return &Value{Typ: VarcharType(), Str: s}
}

func DateValue(t time.Time) *Value {
	days := t.UTC().Truncate(24*time.Hour).Unix() / 86400
	return &Value{Typ: DateType(), I64: days}
}

// DecimalValue parses s and rescales it to the scale of typ.
func DecimalValue(typ LType, s string) (*Value, error) {
	if typ.Id != LTID_DECIMAL {
		return nil, fmt.Errorf("%v is not a decimal type", typ)
	}
	d, err := decimal.Parse(s)
	if err != nil {
		return nil, err
	}
	if d.Scale() > typ.Scale {
		d = d.Round(typ.Scale)
	}
	if d.Coef() > math.MaxInt64 {
		return nil, fmt.Errorf("decimal %s out of range", s)
	}
	coef := int64(d.Coef())
	for sc := d.Scale(); sc < typ.Scale; sc++ {
		if coef > math.MaxInt64/10 {
			return nil, fmt.Errorf("decimal %s out of range for %v", s, typ)
		}
		coef *= 10
	}
	if d.Sign() < 0 {
		coef = -coef
	}
	return &Value{Typ: typ, I64: coef}, nil
}

func (val Value) String() string {
	if val.IsNull {
		return "NULL"
	}
	switch val.Typ.Id {
	case LTID_INTEGER, LTID_BIGINT:
		return fmt.Sprintf("%d", val.I64)
	case LTID_BOOLEAN:
		return fmt.Sprintf("%v", val.Bool)
	case LTID_VARCHAR:
		return val.Str
	case LTID_DECIMAL:
		d, err := decimal.New(val.I64, val.Typ.Scale)
		if err != nil {
			panic(err)
		}
		return d.String()
	case LTID_DATE:
		return time.Unix(val.I64*86400, 0).UTC().Format(time.DateOnly)
	case LTID_DOUBLE:
		return fmt.Sprintf("%v", val.F64)
	default:
		panic("usp")
	}
}

// Equal compares type, nullness and payload. Two nulls of one type are equal.
func (val *Value) Equal(o *Value) bool {
	if val == nil || o == nil {
		return val == o
	}
	if !val.Typ.Equal(o.Typ) || val.IsNull != o.IsNull {
		return false
	}
	if val.IsNull {
		return true
	}
	switch val.Typ.Id {
	case LTID_BOOLEAN:
		return val.Bool == o.Bool
	case LTID_DOUBLE:
		return val.F64 == o.F64
	case LTID_VARCHAR:
		return val.Str == o.Str
	default:
		return val.I64 == o.I64
	}
}

// Compare orders values of one type. Nulls sort first.
func (val *Value) Compare(o *Value) int {
	if val.IsNull || o.IsNull {
		switch {
		case val.IsNull && o.IsNull:
			return 0
		case val.IsNull:
			return -1
		default:
			return 1
		}
	}
	switch val.Typ.Id {
	case LTID_BOOLEAN:
		switch {
		case val.Bool == o.Bool:
			return 0
		case !val.Bool:
			return -1
		default:
			return 1
		}
	case LTID_DOUBLE:
		return cmpOrdered(val.F64, o.F64)
	case LTID_VARCHAR:
		return cmpOrdered(val.Str, o.Str)
	default:
		return cmpOrdered(val.I64, o.I64)
	}
}

func cmpOrdered[T ~int64 | ~float64 | ~string](a, b T) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}
