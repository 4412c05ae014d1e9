package matchfile

import (
	"errors"
	"fmt"
)

var (
	// ErrNoMatch means the envelope was recognised but carried no match object.
	ErrNoMatch = errors.New("no match data")
	// ErrEnvelope means the document matched none of the accepted shapes.
	ErrEnvelope = errors.New("unrecognised document shape")

	ErrMissing    = errors.New("missing value")
	ErrNotNumeric = errors.New("not numeric")
	ErrNotFinite  = errors.New("not finite")
	ErrNotInteger = errors.New("not an integer")
)

// ParseError reports a value that could not be decoded into the canonical form.
type ParseError struct {
	Field string // dotted path of the offending field, empty for whole-document errors
	Value string // raw text of the value, if any
	Err   error  // one of the Err* sentinels or the underlying JSON error
}

func (e *ParseError) Error() string {
	switch {
	case e.Field == "":
		return fmt.Sprintf("parse: %v", e.Err)
	case e.Value == "":
		return fmt.Sprintf("parse %s: %v", e.Field, e.Err)
	default:
		return fmt.Sprintf("parse %s=%s: %v", e.Field, e.Value, e.Err)
	}
}

func (e *ParseError) Unwrap() error { return e.Err }

// Diagnostic records one input record that was skipped, or one field that fell back to a default.
type Diagnostic struct {
	Record string // "ward", "position", "item", "player", "index", "team", "match"
	Player int    // player slot, -1 when not player scoped
	Index  int    // position of the record in its list
	Err    error
}

func (d Diagnostic) String() string {
	if d.Player >= 0 {
		return fmt.Sprintf("player %d %s #%d: %v", d.Player, d.Record, d.Index, d.Err)
	}
	return fmt.Sprintf("%s #%d: %v", d.Record, d.Index, d.Err)
}
