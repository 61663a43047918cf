package courierform

import (
	"io/fs"

	"github.com/goliatone/go-courierform/pkg/formschema"
	"github.com/goliatone/go-courierform/pkg/panel"
)

// EmbeddedTemplates exposes the built-in summary panel template so callers
// can reuse or extend it without importing the panel package directly.
func EmbeddedTemplates() fs.FS {
	return panel.TemplatesFS()
}

// EmbeddedForms exposes the bundled form declarations.
func EmbeddedForms() fs.FS {
	return formschema.DefaultFS()
}
