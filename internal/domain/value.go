package domain

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"unicode/utf8"
)

// ValueKind enumerates the dynamic storage classes of a result cell.
type ValueKind int

const (
	KindNull ValueKind = iota
	KindInteger
	KindReal
	KindText
	KindBlob
)

// Value is one result cell. Only the field matching Kind is meaningful.
type Value struct {
	Kind    ValueKind
	Integer int64
	Real    float64
	Text    []byte
	Blob    []byte
}

func NullValue() Value               { return Value{Kind: KindNull} }
func IntegerValue(v int64) Value     { return Value{Kind: KindInteger, Integer: v} }
func RealValue(v float64) Value      { return Value{Kind: KindReal, Real: v} }
func TextValue(v []byte) Value       { return Value{Kind: KindText, Text: v} }
func BlobValue(v []byte) Value       { return Value{Kind: KindBlob, Blob: v} }
func TextValueString(v string) Value { return Value{Kind: KindText, Text: []byte(v)} }

// Render formats the cell for console display.
// Integers are hexadecimal (two's complement for negatives) unless intAsDecimal is set.
func (v Value) Render(intAsDecimal bool) string {
	switch v.Kind {
	case KindNull:
		return NullPlaceholder
	case KindInteger:
		if intAsDecimal {
			return strconv.FormatInt(v.Integer, 10)
		}
		return "0x" + strconv.FormatUint(uint64(v.Integer), 16)
	case KindReal:
		if math.IsInf(v.Real, 0) {
			if v.Real < 0 {
				return "-inf"
			}
			return "inf"
		}
		return strconv.FormatFloat(v.Real, 'f', -1, 64)
	case KindText:
		if utf8.Valid(v.Text) {
			return string(v.Text)
		}
		return strings.ToValidUTF8(string(v.Text), string(utf8.RuneError))
	case KindBlob:
		return fmt.Sprintf(BlobFormat, len(v.Blob))
	default:
		return ""
	}
}
