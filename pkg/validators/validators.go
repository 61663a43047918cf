// Package validators holds the field format predicates the form state calls
// through a fixed interface. Each Kind maps to exactly one Func through a
// static registry; callers may override entries but never dispatch on raw
// strings at runtime.
package validators

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"
)

// Kind identifies the validator attached to a declared field.
type Kind string

const (
	// KindNone marks fields that never receive a validator result.
	KindNone Kind = ""
	// KindPhone validates masked phone numbers, e.g. "+38 (050) 123-45-67".
	KindPhone Kind = "phone"
	// KindName validates person names written in Latin or Ukrainian letters.
	KindName Kind = "name"
	// KindPrice validates declared goods value: 1-8 digits, no leading zero.
	KindPrice Kind = "price"
	// KindAddress is only satisfied by an out-of-band confirmation.
	KindAddress Kind = "address"
)

// PhoneLength is the length of a fully typed phone mask.
const PhoneLength = 19

// PhoneMaskPlaceholder marks an unfilled position in the phone mask.
const PhoneMaskPlaceholder = "_"

// Func reports whether a raw field value is acceptable.
type Func func(raw string) bool

var (
	nameLatin     = regexp.MustCompile(`^([a-zA-Z',.-]+\s?){2,}$`)
	nameCyrillic  = regexp.MustCompile(`^([а-яА-ЯІіЄєЇїҐґ',.-]+\s?){2,}$`)
	pricePattern  = regexp.MustCompile(`^[1-9]\d{0,7}$`)
	knownKindList = []Kind{KindNone, KindPhone, KindName, KindPrice, KindAddress}
)

// Phone accepts a fully typed mask: exactly PhoneLength characters and no
// placeholder left.
func Phone(raw string) bool {
	if utf8.RuneCountInString(raw) != PhoneLength {
		return false
	}
	return !strings.Contains(raw, PhoneMaskPlaceholder)
}

// Name accepts two or more letter groups in either alphabet.
func Name(raw string) bool {
	return nameLatin.MatchString(raw) || nameCyrillic.MatchString(raw)
}

// Price accepts a positive integer amount of up to eight digits.
func Price(raw string) bool {
	return pricePattern.MatchString(raw)
}

// Address always rejects typed text. Addresses become valid only when a
// geocoder confirms them through the orchestrator.
func Address(string) bool {
	return false
}

// ParseKind resolves a kind name as written in declaration files.
func ParseKind(raw string) (Kind, error) {
	candidate := Kind(strings.ToLower(strings.TrimSpace(raw)))
	if candidate == "none" {
		return KindNone, nil
	}
	for _, kind := range knownKindList {
		if kind == candidate {
			return kind, nil
		}
	}
	return KindNone, fmt.Errorf("validators: unknown kind %q", raw)
}

// String returns the declaration name of the kind.
func (k Kind) String() string {
	if k == KindNone {
		return "none"
	}
	return string(k)
}
