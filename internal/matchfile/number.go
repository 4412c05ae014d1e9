package matchfile

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// Number is a JSON scalar that may arrive as a number, a numeric string or null.
// Decoding never fails; validation happens when the value is read.
type Number struct {
	text string
	set  bool
}

func (n *Number) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		*n = Number{}
		return nil
	}
	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*n = Number{text: strings.TrimSpace(s), set: true}
		return nil
	}
	*n = Number{text: string(b), set: true}
	return nil
}

// IsSet reports whether a non-null value was present.
func (n Number) IsSet() bool { return n.set }

// String returns the raw text.
func (n Number) String() string { return n.text }

// Float parses the value as a finite float.
func (n Number) Float() (float64, error) {
	if !n.set {
		return 0, ErrMissing
	}
	f, err := strconv.ParseFloat(n.text, 64)
	if err != nil {
		return 0, ErrNotNumeric
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, ErrNotFinite
	}
	return f, nil
}

// Int64 parses the value as an integer; integral floats such as 12.0 are accepted.
func (n Number) Int64() (int64, error) {
	if !n.set {
		return 0, ErrMissing
	}
	if v, err := strconv.ParseInt(n.text, 10, 64); err == nil {
		return v, nil
	}
	f, err := n.Float()
	if err != nil {
		return 0, err
	}
	if f != math.Trunc(f) || math.Abs(f) > 1<<53 {
		return 0, ErrNotInteger
	}
	return int64(f), nil
}

// Int is Int64 narrowed to int.
func (n Number) Int() (int, error) {
	v, err := n.Int64()
	return int(v), err
}

// Flag is a JSON value read for truthiness.
type Flag bool

func (f *Flag) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	switch {
	case len(b) == 0, bytes.Equal(b, []byte("null")), bytes.Equal(b, []byte("false")), bytes.Equal(b, []byte(`""`)):
		*f = false
	case b[0] == '-' || (b[0] >= '0' && b[0] <= '9'):
		v, err := strconv.ParseFloat(string(b), 64)
		*f = Flag(err == nil && v != 0)
	default:
		*f = true
	}
	return nil
}

// Text is a JSON value read as a display string; non-strings keep their literal text.
type Text string

func (t *Text) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		*t = ""
		return nil
	}
	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*t = Text(s)
		return nil
	}
	if b[0] == '{' || b[0] == '[' {
		*t = ""
		return nil
	}
	*t = Text(b)
	return nil
}

func fieldErr(field string, n Number, err error) *ParseError {
	return &ParseError{Field: field, Value: n.text, Err: err}
}
