package formstate

import (
	"fmt"
	"strings"

	"github.com/goliatone/go-courierform/pkg/validators"
)

// Section names one logical group of the form.
type Section string

// Sections understood by the courier order form.
const (
	SectionReceiver  Section = "receiver"
	SectionPackage   Section = "package"
	SectionShipper   Section = "shipper"
	SectionAgreement Section = "agreement"
)

// AggregateSections are the sections combined into the "all filled" and
// "all valid" answers. Agreement is reported separately.
var AggregateSections = []Section{SectionReceiver, SectionPackage, SectionShipper}

// FieldKey identifies a field within its section.
type FieldKey string

// AgreementKey addresses the agreement checkbox, the only value the agreement
// section holds.
const AgreementKey FieldKey = "checked"

// FieldDecl declares one field and the validator kind that judges it.
type FieldDecl struct {
	Key     FieldKey        `json:"key" yaml:"key"`
	Label   string          `json:"label,omitempty" yaml:"label,omitempty"`
	Kind    validators.Kind `json:"validate,omitempty" yaml:"validate,omitempty"`
	Initial *string         `json:"initial,omitempty" yaml:"initial,omitempty"`
}

// SectionDecl declares a section and its fields in display order. The
// agreement section carries no fields; its state is a single checkbox.
type SectionDecl struct {
	Name   Section     `json:"name" yaml:"name"`
	Title  string      `json:"title,omitempty" yaml:"title,omitempty"`
	Fields []FieldDecl `json:"fields,omitempty" yaml:"fields,omitempty"`
}

// Declaration lists every section and field a Store will ever hold.
type Declaration struct {
	Name     string        `json:"name" yaml:"name"`
	Sections []SectionDecl `json:"sections" yaml:"sections"`
}

// Section returns the declaration for name.
func (d Declaration) Section(name Section) (SectionDecl, bool) {
	for _, section := range d.Sections {
		if section.Name == name {
			return section, true
		}
	}
	return SectionDecl{}, false
}

// Field returns the declaration of key inside the section.
func (s SectionDecl) Field(key FieldKey) (FieldDecl, bool) {
	for _, field := range s.Fields {
		if field.Key == key {
			return field, true
		}
	}
	return FieldDecl{}, false
}

// AddressField returns the section's address field, if any.
func (s SectionDecl) AddressField() (FieldDecl, bool) {
	for _, field := range s.Fields {
		if field.Kind == validators.KindAddress {
			return field, true
		}
	}
	return FieldDecl{}, false
}

// Validate checks the declaration is usable. Every aggregate section must be
// declared with at least one field, names must be unpadded and unique, the
// agreement section takes no fields and a section holds at most one address
// field.
func (d Declaration) Validate() error {
	if len(d.Sections) == 0 {
		return fmt.Errorf("%w: no sections declared", ErrInvalidDeclaration)
	}
	seen := make(map[Section]struct{}, len(d.Sections))
	for idx, section := range d.Sections {
		name := Section(strings.TrimSpace(string(section.Name)))
		if name == "" {
			return fmt.Errorf("%w: section %d has no name", ErrInvalidDeclaration, idx)
		}
		if name != section.Name {
			return fmt.Errorf("%w: section name %q has surrounding whitespace", ErrInvalidDeclaration, section.Name)
		}
		if _, dup := seen[name]; dup {
			return fmt.Errorf("%w: duplicate section %q", ErrInvalidDeclaration, name)
		}
		seen[name] = struct{}{}

		if name == SectionAgreement {
			if len(section.Fields) > 0 {
				return fmt.Errorf("%w: agreement section cannot declare fields", ErrInvalidDeclaration)
			}
			continue
		}
		if len(section.Fields) == 0 {
			return fmt.Errorf("%w: section %q declares no fields", ErrInvalidDeclaration, name)
		}

		keys := make(map[FieldKey]struct{}, len(section.Fields))
		addresses := 0
		for _, field := range section.Fields {
			key := FieldKey(strings.TrimSpace(string(field.Key)))
			if key == "" {
				return fmt.Errorf("%w: section %q has a field without key", ErrInvalidDeclaration, name)
			}
			if key != field.Key {
				return fmt.Errorf("%w: field key %q in section %q has surrounding whitespace", ErrInvalidDeclaration, field.Key, name)
			}
			if _, dup := keys[key]; dup {
				return fmt.Errorf("%w: duplicate field %q in section %q", ErrInvalidDeclaration, key, name)
			}
			keys[key] = struct{}{}
			if _, err := validators.ParseKind(string(field.Kind)); err != nil {
				return fmt.Errorf("%w: field %q in section %q: %v", ErrInvalidDeclaration, key, name, err)
			}
			if field.Kind == validators.KindAddress {
				addresses++
			}
		}
		if addresses > 1 {
			return fmt.Errorf("%w: section %q declares %d address fields", ErrInvalidDeclaration, name, addresses)
		}
	}
	for _, required := range AggregateSections {
		if _, ok := seen[required]; !ok {
			return fmt.Errorf("%w: missing section %q", ErrInvalidDeclaration, required)
		}
	}
	return nil
}

// CourierDeclaration returns the standard courier order form.
func CourierDeclaration() Declaration {
	return Declaration{
		Name: "courier-order",
		Sections: []SectionDecl{
			{
				Name:  SectionReceiver,
				Title: "Receiver",
				Fields: []FieldDecl{
					{Key: "name", Label: "Full name", Kind: validators.KindName},
					{Key: "phone", Label: "Phone", Kind: validators.KindPhone},
					{Key: "receiverAddress", Label: "Delivery address", Kind: validators.KindAddress},
				},
			},
			{
				Name:  SectionPackage,
				Title: "Package",
				Fields: []FieldDecl{
					{Key: "goodsAmount", Label: "Declared value", Kind: validators.KindPrice},
					{Key: "deliveryDate", Label: "Delivery date"},
				},
			},
			{
				Name:  SectionShipper,
				Title: "Shipper",
				Fields: []FieldDecl{
					{Key: "shipperAddress", Label: "Pickup address", Kind: validators.KindAddress},
				},
			},
			{
				Name:  SectionAgreement,
				Title: "Terms of service",
			},
		},
	}
}
