package formschema

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/goliatone/go-courierform/pkg/formstate"
	"github.com/goliatone/go-courierform/pkg/validators"
)

const (
	// ExtensionKey annotates request body properties with their section and
	// validator kind.
	ExtensionKey = "x-courierform"
	// TitlesExtensionKey annotates an operation with section titles.
	TitlesExtensionKey = "x-courierform-titles"
)

// ErrOperationNotFound is returned when the document has no operation with
// the requested id.
var ErrOperationNotFound = errors.New("formschema: operation not found")

var sectionOrder = map[formstate.Section]int{
	formstate.SectionReceiver:  0,
	formstate.SectionPackage:   1,
	formstate.SectionShipper:   2,
	formstate.SectionAgreement: 100,
}

const unorderedField = 1 << 20

type propertyExtension struct {
	Section  string `json:"section"`
	Validate string `json:"validate"`
	Label    string `json:"label"`
	Order    *int   `json:"order"`
}

type annotatedField struct {
	decl  formstate.FieldDecl
	order int
}

// FromOpenAPI builds a declaration from the JSON request body of operationID.
// Properties without an x-courierform extension are ignored. A property
// assigned to the agreement section declares the agreement checkbox and adds
// no field.
func FromOpenAPI(ctx context.Context, raw []byte, operationID string) (formstate.Declaration, error) {
	if err := ctx.Err(); err != nil {
		return formstate.Declaration{}, err
	}
	if len(raw) == 0 {
		return formstate.Declaration{}, errors.New("formschema: openapi document is empty")
	}

	loader := &openapi3.Loader{Context: ctx}
	doc, err := loader.LoadFromData(raw)
	if err != nil {
		return formstate.Declaration{}, fmt.Errorf("formschema: load openapi document: %w", err)
	}

	op := findOperation(doc, operationID)
	if op == nil {
		return formstate.Declaration{}, fmt.Errorf("%w: %q", ErrOperationNotFound, operationID)
	}
	schema := requestSchema(op)
	if schema == nil {
		return formstate.Declaration{}, fmt.Errorf("formschema: operation %q has no JSON request body", operationID)
	}

	titles := map[string]string{}
	if value, ok := op.Extensions[TitlesExtensionKey]; ok {
		if err := decodeExtension(value, &titles); err != nil {
			return formstate.Declaration{}, fmt.Errorf("formschema: operation %q %s: %w", operationID, TitlesExtensionKey, err)
		}
	}

	fields := make(map[formstate.Section][]annotatedField)
	agreement := false
	for name, prop := range schema.Properties {
		if prop == nil || prop.Value == nil {
			continue
		}
		value, ok := prop.Value.Extensions[ExtensionKey]
		if !ok {
			continue
		}
		var ext propertyExtension
		if err := decodeExtension(value, &ext); err != nil {
			return formstate.Declaration{}, fmt.Errorf("formschema: property %q %s: %w", name, ExtensionKey, err)
		}
		section := formstate.Section(strings.ToLower(strings.TrimSpace(ext.Section)))
		if section == "" {
			return formstate.Declaration{}, fmt.Errorf("formschema: property %q has no section", name)
		}
		if section == formstate.SectionAgreement {
			agreement = true
			continue
		}

		field := formstate.FieldDecl{
			Key:   formstate.FieldKey(name),
			Label: firstNonEmpty(ext.Label, prop.Value.Title),
			Kind:  validators.Kind(ext.Validate),
		}
		if initial, ok := prop.Value.Default.(string); ok {
			field.Initial = &initial
		}
		order := unorderedField
		if ext.Order != nil {
			order = *ext.Order
		}
		fields[section] = append(fields[section], annotatedField{decl: field, order: order})
	}

	sections := make([]formstate.Section, 0, len(fields)+1)
	for section := range fields {
		sections = append(sections, section)
	}
	if agreement {
		sections = append(sections, formstate.SectionAgreement)
	}
	sort.Slice(sections, func(i, j int) bool {
		oi, oj := rank(sections[i]), rank(sections[j])
		if oi != oj {
			return oi < oj
		}
		return sections[i] < sections[j]
	})

	decl := formstate.Declaration{Name: operationID}
	for _, section := range sections {
		entries := fields[section]
		sort.SliceStable(entries, func(i, j int) bool {
			if entries[i].order != entries[j].order {
				return entries[i].order < entries[j].order
			}
			return entries[i].decl.Key < entries[j].decl.Key
		})
		sd := formstate.SectionDecl{Name: section, Title: titles[string(section)]}
		for _, entry := range entries {
			sd.Fields = append(sd.Fields, entry.decl)
		}
		decl.Sections = append(decl.Sections, sd)
	}

	out, err := Normalize(decl)
	if err != nil {
		return formstate.Declaration{}, fmt.Errorf("formschema: operation %q: %w", operationID, err)
	}
	return out, nil
}

func findOperation(doc *openapi3.T, operationID string) *openapi3.Operation {
	if doc == nil || doc.Paths == nil {
		return nil
	}
	for _, item := range doc.Paths.Map() {
		if item == nil {
			continue
		}
		for _, op := range item.Operations() {
			if op != nil && op.OperationID == operationID {
				return op
			}
		}
	}
	return nil
}

func requestSchema(op *openapi3.Operation) *openapi3.Schema {
	if op.RequestBody == nil || op.RequestBody.Value == nil {
		return nil
	}
	mt, ok := op.RequestBody.Value.Content["application/json"]
	if !ok || mt == nil || mt.Schema == nil {
		return nil
	}
	return mt.Schema.Value
}

// decodeExtension round-trips an extension value through JSON so it decodes
// the same whether the loader produced generic maps or raw messages.
func decodeExtension(value any, target any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, target)
}

func rank(section formstate.Section) int {
	if order, ok := sectionOrder[section]; ok {
		return order
	}
	return len(sectionOrder)
}

func firstNonEmpty(values ...string) string {
	for _, value := range values {
		if trimmed := strings.TrimSpace(value); trimmed != "" {
			return trimmed
		}
	}
	return ""
}
