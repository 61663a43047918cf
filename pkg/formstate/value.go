package formstate

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

type valueKind uint8

const (
	kindNull valueKind = iota
	kindString
	kindBool
)

// Value is the raw content of a field: null (untouched), a string, or a
// boolean (checkbox). The zero Value is null.
type Value struct {
	kind valueKind
	str  string
	b    bool
}

// Null returns the untouched sentinel.
func Null() Value { return Value{} }

// String wraps a text value.
func String(s string) Value { return Value{kind: kindString, str: s} }

// Bool wraps a checkbox value.
func Bool(b bool) Value { return Value{kind: kindBool, b: b} }

// IsNull reports whether the value is the untouched sentinel.
func (v Value) IsNull() bool { return v.kind == kindNull }

// Filled reports whether the value counts as user supplied: not null, not the
// empty string and not false.
func (v Value) Filled() bool {
	switch v.kind {
	case kindString:
		return v.str != ""
	case kindBool:
		return v.b
	default:
		return false
	}
}

// Text returns the string content, or the formatted boolean. Null yields "".
func (v Value) Text() string {
	switch v.kind {
	case kindString:
		return v.str
	case kindBool:
		return strconv.FormatBool(v.b)
	default:
		return ""
	}
}

// Interface returns nil, string or bool.
func (v Value) Interface() any {
	switch v.kind {
	case kindString:
		return v.str
	case kindBool:
		return v.b
	default:
		return nil
	}
}

// MarshalJSON encodes the value as null, a JSON string or a JSON boolean.
func (v Value) MarshalJSON() ([]byte, error) {
	return json.Marshal(v.Interface())
}

// Validity is the tri-state result last reported by a validator.
type Validity uint8

const (
	// Unevaluated means no validator has reported for the field yet.
	Unevaluated Validity = iota
	// Valid means the last validator run accepted the value.
	Valid
	// Invalid means the last validator run rejected the value.
	Invalid
)

// ValidityOf converts a validator result.
func ValidityOf(ok bool) Validity {
	if ok {
		return Valid
	}
	return Invalid
}

func (v Validity) String() string {
	switch v {
	case Valid:
		return "valid"
	case Invalid:
		return "invalid"
	default:
		return "unevaluated"
	}
}

// Policy decides how Unevaluated fields count during validity aggregation.
type Policy uint8

const (
	// PolicyPermissive counts unevaluated fields as valid, so fields the user
	// has not reached yet do not flag their section as invalid.
	PolicyPermissive Policy = iota
	// PolicyStrict counts only explicit Valid results.
	PolicyStrict
)

// DefaultPolicy is the policy stores use unless configured otherwise.
const DefaultPolicy = PolicyPermissive

// Accepts reports whether a field with validity v passes under the policy.
func (p Policy) Accepts(v Validity) bool {
	switch v {
	case Valid:
		return true
	case Invalid:
		return false
	default:
		return p == PolicyPermissive
	}
}

func (p Policy) String() string {
	if p == PolicyStrict {
		return "strict"
	}
	return "permissive"
}

// ParsePolicy maps "permissive" or "strict" (case-insensitive) to a Policy.
// An empty string selects DefaultPolicy.
func ParsePolicy(raw string) (Policy, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "":
		return DefaultPolicy, nil
	case "permissive":
		return PolicyPermissive, nil
	case "strict":
		return PolicyStrict, nil
	default:
		return DefaultPolicy, fmt.Errorf("formstate: unknown policy %q", raw)
	}
}
