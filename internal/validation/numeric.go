package validation

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// Numeric is a coordinate as sent by a client: a JSON number, or a string
// holding one (form values are always strings). Decoding never fails;
// a value that is not a finite number is remembered as invalid instead so
// the caller can report it together with the other fields.
type Numeric struct {
	value float64
	valid bool
	raw   string
}

// ParseNumeric reads a number from its text form.
func ParseNumeric(s string) Numeric {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return Numeric{raw: s}
	}
	return Numeric{value: f, valid: true, raw: s}
}

// UnmarshalJSON implements json.Unmarshaler.
func (n *Numeric) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case len(data) == 0:
		*n = Numeric{}
	case data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			*n = Numeric{raw: string(data)}
			return nil
		}
		*n = ParseNumeric(s)
	case data[0] == '-' || (data[0] >= '0' && data[0] <= '9'):
		*n = ParseNumeric(string(data))
	default:
		*n = Numeric{raw: string(data)}
	}
	return nil
}

// MarshalJSON implements json.Marshaler. Valid values are written as
// numbers; anything else is written back as the original text in a string.
func (n Numeric) MarshalJSON() ([]byte, error) {
	if n.valid {
		return json.Marshal(n.value)
	}
	return json.Marshal(n.raw)
}

// Float returns the parsed value and whether it is a usable number.
func (n Numeric) Float() (float64, bool) {
	return n.value, n.valid
}

// NullableString tells an absent key apart from an explicit null.
type NullableString struct {
	Set   bool
	Value *string
}

// NewNullableString returns a present value; nil stands for null.
func NewNullableString(v *string) NullableString {
	return NullableString{Set: true, Value: v}
}

func (n *NullableString) UnmarshalJSON(data []byte) error {
	n.Set = true
	if string(data) == "null" {
		n.Value = nil
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	n.Value = &s
	return nil
}

func (n NullableString) MarshalJSON() ([]byte, error) {
	if n.Value == nil {
		return []byte("null"), nil
	}
	return json.Marshal(*n.Value)
}
