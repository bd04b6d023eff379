package model

import (
	"bytes"
	"encoding/json"
	"strconv"
)

// Ordinal is an optional 1-based position (poll rank, SOR rank). The zero
// value is absent. Absent is never treated as a number.
type Ordinal struct {
	value int
	ok    bool
}

// NoOrdinal is the absent Ordinal.
var NoOrdinal = Ordinal{}

// OrdinalOf returns a present Ordinal holding v.
func OrdinalOf(v int) Ordinal { return Ordinal{value: v, ok: true} }

// Get returns the value and whether it is present.
func (o Ordinal) Get() (int, bool) { return o.value, o.ok }

// Valid reports whether the ordinal is present.
func (o Ordinal) Valid() bool { return o.ok }

// Or returns the value, or fallback when absent.
func (o Ordinal) Or(fallback int) int {
	if !o.ok {
		return fallback
	}
	return o.value
}

// CompareOrdinals orders present before absent, then ascending by value.
// Returns -1 when a ranks ahead of b, 1 when behind, 0 when tied.
func CompareOrdinals(a, b Ordinal) int {
	switch {
	case a.ok && !b.ok:
		return -1
	case !a.ok && b.ok:
		return 1
	case !a.ok && !b.ok:
		return 0
	case a.value < b.value:
		return -1
	case a.value > b.value:
		return 1
	}
	return 0
}

func (o Ordinal) String() string {
	if !o.ok {
		return "-"
	}
	return strconv.Itoa(o.value)
}

// MarshalJSON encodes absent as null.
func (o Ordinal) MarshalJSON() ([]byte, error) {
	if !o.ok {
		return []byte("null"), nil
	}
	return []byte(strconv.Itoa(o.value)), nil
}

// UnmarshalJSON accepts null, a number, or a numeric string. Anything else
// (including 0 and negatives) decodes as absent.
func (o *Ordinal) UnmarshalJSON(b []byte) error {
	*o = NoOrdinal
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		return nil
	}
	var n json.Number
	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		n = json.Number(s)
	} else {
		n = json.Number(b)
	}
	v, err := n.Int64()
	if err != nil || v < 1 {
		return nil
	}
	*o = OrdinalOf(int(v))
	return nil
}
