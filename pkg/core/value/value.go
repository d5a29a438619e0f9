package value

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"
)

// ErrNotInteger is returned when a cell's text does not parse as an integer.
var ErrNotInteger = errors.New("value: not an integer")

// Value is a single untyped stack cell. Terminfo cells carry no type tag: the
// same text is read as a number by arithmetic and verbatim by %s, so the
// decimal text is the only representation kept.
type Value struct {
	Text string
}

// FromInt encodes an integer as its decimal text.
func FromInt(i int64) Value {
	return Value{Text: strconv.FormatInt(i, 10)}
}

// FromBool encodes true as 1 and false as 0.
func FromBool(b bool) Value {
	if b {
		return Value{Text: "1"}
	}
	return Value{Text: "0"}
}

// FromString wraps s unchanged.
func FromString(s string) Value {
	return Value{Text: s}
}

// FromAny converts a caller-supplied argument into a cell.
func FromAny(arg any) Value {
	switch v := arg.(type) {
	case nil:
		return Value{}
	case Value:
		return v
	case string:
		return Value{Text: v}
	case []byte:
		return Value{Text: string(v)}
	case bool:
		return FromBool(v)
	case int:
		return FromInt(int64(v))
	case int8:
		return FromInt(int64(v))
	case int16:
		return FromInt(int64(v))
	case int32:
		return FromInt(int64(v))
	case int64:
		return FromInt(v)
	case uint:
		return Value{Text: strconv.FormatUint(uint64(v), 10)}
	case uint8:
		return FromInt(int64(v))
	case uint16:
		return FromInt(int64(v))
	case uint32:
		return FromInt(int64(v))
	case uint64:
		return Value{Text: strconv.FormatUint(v, 10)}
	case float32:
		return Value{Text: strconv.FormatFloat(float64(v), 'f', -1, 32)}
	case float64:
		return Value{Text: strconv.FormatFloat(v, 'f', -1, 64)}
	case fmt.Stringer:
		return Value{Text: v.String()}
	default:
		return Value{Text: fmt.Sprint(v)}
	}
}

// Int parses the cell as a base-10 integer.
func (v Value) Int() (int64, error) {
	i, err := strconv.ParseInt(v.Text, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrNotInteger, v.Text)
	}
	return i, nil
}

// IsInt reports whether the cell parses as an integer.
func (v Value) IsInt() bool {
	_, err := strconv.ParseInt(v.Text, 10, 64)
	return err == nil
}

// Truthy is false for empty text and for integer zero.
func (v Value) Truthy() bool {
	if v.Text == "" {
		return false
	}
	if i, err := strconv.ParseInt(v.Text, 10, 64); err == nil {
		return i != 0
	}
	return true
}

// Len returns the character count of the text.
func (v Value) Len() int {
	return utf8.RuneCountInString(v.Text)
}

// Float parses the cell as a decimal number, integer or fractional.
func (v Value) Float() (float64, error) {
	f, err := strconv.ParseFloat(v.Text, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrNotInteger, v.Text)
	}
	return f, nil
}

// Fraction returns the number of digits after the decimal point when the text
// is a plain decimal number with a fractional part.
func (v Value) Fraction() (int, bool) {
	dot := strings.IndexByte(v.Text, '.')
	if dot < 0 {
		return 0, false
	}
	if _, err := strconv.ParseFloat(v.Text, 64); err != nil {
		return 0, false
	}
	digits := v.Text[dot+1:]
	for i := 0; i < len(digits); i++ {
		if digits[i] < '0' || digits[i] > '9' {
			return 0, false
		}
	}
	return len(digits), len(digits) > 0
}

func (v Value) String() string {
	return v.Text
}
