package formschema

import (
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-courierform/pkg/formstate"
	"github.com/goliatone/go-courierform/pkg/validators"
)

// DefaultFormName is the name of the bundled courier order form.
const DefaultFormName = "courier-order"

// ErrFormNotFound is returned when a store holds no form with the requested
// name.
var ErrFormNotFound = errors.New("formschema: form not found")

//go:embed forms/*.yaml
var embeddedForms embed.FS

// DefaultFS exposes the bundled declaration files.
func DefaultFS() fs.FS {
	sub, err := fs.Sub(embeddedForms, "forms")
	if err != nil {
		return embeddedForms
	}
	return sub
}

// Default loads the bundled courier order form.
func Default() (formstate.Declaration, error) {
	store, err := LoadFS(DefaultFS())
	if err != nil {
		return formstate.Declaration{}, err
	}
	return store.Form(DefaultFormName)
}

// Store holds the declarations loaded from a filesystem, keyed by form name.
type Store struct {
	forms map[string]formstate.Declaration
}

// LoadFS walks fsys and parses every JSON/YAML declaration document. A nil
// fsys yields an empty store.
func LoadFS(fsys fs.FS) (*Store, error) {
	store := &Store{forms: make(map[string]formstate.Declaration)}
	if fsys == nil {
		return store, nil
	}

	err := fs.WalkDir(fsys, ".", func(path string, entry fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if entry.IsDir() || !isDeclarationFile(path) {
			return nil
		}

		data, err := fs.ReadFile(fsys, path)
		if err != nil {
			return fmt.Errorf("formschema: read %s: %w", path, err)
		}
		doc, err := parseDocument(data, path)
		if err != nil {
			return err
		}

		for rawName, form := range doc.Forms {
			name := strings.TrimSpace(rawName)
			if name == "" {
				return fmt.Errorf("formschema: file %s defines a form without name", path)
			}
			if _, exists := store.forms[name]; exists {
				return fmt.Errorf("formschema: duplicate form %q (file %s)", name, path)
			}
			decl, err := Normalize(formstate.Declaration{Name: name, Sections: form.Sections})
			if err != nil {
				return fmt.Errorf("formschema: form %q (file %s): %w", name, path, err)
			}
			store.forms[name] = decl
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return store, nil
}

// Form returns the declaration registered under name.
func (s *Store) Form(name string) (formstate.Declaration, error) {
	if s != nil {
		if decl, ok := s.forms[strings.TrimSpace(name)]; ok {
			return decl, nil
		}
	}
	return formstate.Declaration{}, fmt.Errorf("%w: %q", ErrFormNotFound, name)
}

// Names lists the loaded forms in lexical order.
func (s *Store) Names() []string {
	if s == nil {
		return nil
	}
	names := make([]string, 0, len(s.forms))
	for name := range s.forms {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Empty reports whether the store holds any forms.
func (s *Store) Empty() bool {
	return s == nil || len(s.forms) == 0
}

// Normalize trims names, canonicalises validator kinds and validates the
// result.
func Normalize(decl formstate.Declaration) (formstate.Declaration, error) {
	out := formstate.Declaration{
		Name:     strings.TrimSpace(decl.Name),
		Sections: make([]formstate.SectionDecl, 0, len(decl.Sections)),
	}
	for _, section := range decl.Sections {
		ns := formstate.SectionDecl{
			Name:  formstate.Section(strings.ToLower(strings.TrimSpace(string(section.Name)))),
			Title: strings.TrimSpace(section.Title),
		}
		for _, field := range section.Fields {
			kind, err := validators.ParseKind(string(field.Kind))
			if err != nil {
				return formstate.Declaration{}, fmt.Errorf("%w: section %q field %q: %v", formstate.ErrInvalidDeclaration, ns.Name, field.Key, err)
			}
			nf := formstate.FieldDecl{
				Key:   formstate.FieldKey(strings.TrimSpace(string(field.Key))),
				Label: strings.TrimSpace(field.Label),
				Kind:  kind,
			}
			if field.Initial != nil {
				initial := *field.Initial
				nf.Initial = &initial
			}
			ns.Fields = append(ns.Fields, nf)
		}
		out.Sections = append(out.Sections, ns)
	}
	if err := out.Validate(); err != nil {
		return formstate.Declaration{}, err
	}
	return out, nil
}

type documentFile struct {
	Forms map[string]formFile `json:"forms" yaml:"forms"`
}

type formFile struct {
	Sections []formstate.SectionDecl `json:"sections" yaml:"sections"`
}

func parseDocument(data []byte, source string) (documentFile, error) {
	var doc documentFile
	if len(strings.TrimSpace(string(data))) == 0 {
		return documentFile{}, fmt.Errorf("formschema: file %s is empty", source)
	}

	if err := json.Unmarshal(data, &doc); err == nil {
		return doc, nil
	}

	doc = documentFile{}
	if err := yaml.Unmarshal(data, &doc); err == nil {
		return doc, nil
	}

	return documentFile{}, fmt.Errorf("formschema: parse %s: invalid JSON or YAML", source)
}

func isDeclarationFile(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json", ".yaml", ".yml":
		return true
	default:
		return false
	}
}
