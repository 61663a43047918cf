package panel

import (
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"html"
	"io/fs"
	"sort"
	"strings"

	"github.com/flosch/pongo2/v6"
	theme "github.com/goliatone/go-theme"
	"github.com/microcosm-cc/bluemonday"
)

//go:embed templates/*.tmpl
var embeddedTemplates embed.FS

const defaultTemplate = "templates/panel.tmpl"

var templateClasses = map[string]any{
	"panelFilled":   ClassPanelFilled,
	"footerFilled":  ClassFooterFilled,
	"submitDisable": ClassSubmitDisable,
}

// TemplatesFS exposes the bundled panel template.
func TemplatesFS() fs.FS {
	return embeddedTemplates
}

// Labels are the user-facing strings of the panel.
type Labels struct {
	Submit string `json:"submit"`
}

// Option configures the panel Renderer.
type Option func(*config)

type config struct {
	templateFS   fs.FS
	templateName string
	templateText string
	theme        *theme.RendererConfig
	labels       Labels
}

// WithTemplateFS loads the named template from fsys instead of the bundled
// one.
func WithTemplateFS(fsys fs.FS, name string) Option {
	return func(cfg *config) {
		if fsys != nil && strings.TrimSpace(name) != "" {
			cfg.templateFS = fsys
			cfg.templateName = strings.TrimSpace(name)
		}
	}
}

// WithTemplateString uses inline template content.
func WithTemplateString(content string) Option {
	return func(cfg *config) {
		cfg.templateText = content
	}
}

// WithTheme passes a resolved go-theme configuration to the template. Tokens
// and CSS variables are exposed under "theme".
func WithTheme(rc *theme.RendererConfig) Option {
	return func(cfg *config) {
		cfg.theme = rc
	}
}

// WithThemeSelection derives the theme from a go-theme selection. Variant
// tokens override the manifest tokens and each token is also exposed as a
// "--name" CSS variable.
func WithThemeSelection(sel *theme.Selection) Option {
	return func(cfg *config) {
		if rc := rendererConfigFromSelection(sel); rc != nil {
			cfg.theme = rc
		}
	}
}

// WithLabels overrides the panel strings.
func WithLabels(labels Labels) Option {
	return func(cfg *config) {
		if labels.Submit != "" {
			cfg.labels.Submit = labels.Submit
		}
	}
}

// Renderer paints a View into HTML through a pongo2 template.
type Renderer struct {
	template *pongo2.Template
	sanitize *bluemonday.Policy
	theme    map[string]any
	labels   Labels
}

// NewRenderer compiles the panel template.
func NewRenderer(options ...Option) (*Renderer, error) {
	cfg := config{
		templateFS:   TemplatesFS(),
		templateName: defaultTemplate,
		labels:       Labels{Submit: "Place order"},
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(&cfg)
	}

	set := pongo2.NewSet("courierform-panel", pongo2.NewFSLoader(cfg.templateFS))

	var (
		tmpl *pongo2.Template
		err  error
	)
	if cfg.templateText != "" {
		tmpl, err = set.FromString(cfg.templateText)
	} else {
		tmpl, err = set.FromFile(cfg.templateName)
	}
	if err != nil {
		return nil, fmt.Errorf("panel: load template: %w", err)
	}

	return &Renderer{
		template: tmpl,
		sanitize: bluemonday.StrictPolicy(),
		theme:    buildThemeContext(cfg.theme),
		labels:   cfg.labels,
	}, nil
}

// Render returns the panel HTML for view. Quote text comes from a remote
// service and is stripped of any markup before rendering.
func (r *Renderer) Render(view View) (string, error) {
	if r == nil || r.template == nil {
		return "", errors.New("panel: renderer is nil")
	}
	// The template escapes on output; sanitising only strips markup.
	view.Price = strings.TrimSpace(html.UnescapeString(r.sanitize.Sanitize(view.Price)))

	viewCtx, err := toMap(view)
	if err != nil {
		return "", fmt.Errorf("panel: convert view: %w", err)
	}
	labels, err := toMap(r.labels)
	if err != nil {
		return "", fmt.Errorf("panel: convert labels: %w", err)
	}

	out, err := r.template.Execute(pongo2.Context{
		"view":    viewCtx,
		"theme":   r.theme,
		"labels":  labels,
		"classes": templateClasses,
	})
	if err != nil {
		return "", fmt.Errorf("panel: execute template: %w", err)
	}
	return out, nil
}

func buildThemeContext(cfg *theme.RendererConfig) map[string]any {
	if cfg == nil {
		return map[string]any{}
	}
	tokens := make(map[string]any, len(cfg.Tokens))
	for key, value := range cfg.Tokens {
		tokens[key] = value
	}
	return map[string]any{
		"name":           cfg.Theme,
		"variant":        cfg.Variant,
		"tokens":         tokens,
		"css_vars_style": cssVarsStyle(cfg.CSSVars),
	}
}

func rendererConfigFromSelection(sel *theme.Selection) *theme.RendererConfig {
	if sel == nil || sel.Manifest == nil {
		return nil
	}
	tokens := make(map[string]string, len(sel.Manifest.Tokens))
	for key, value := range sel.Manifest.Tokens {
		tokens[key] = value
	}
	if variant, ok := sel.Manifest.Variants[sel.Variant]; ok {
		for key, value := range variant.Tokens {
			tokens[key] = value
		}
	}
	vars := make(map[string]string, len(tokens))
	for key, value := range tokens {
		vars["--"+key] = value
	}
	return &theme.RendererConfig{
		Theme:   sel.Theme,
		Variant: sel.Variant,
		Tokens:  tokens,
		CSSVars: vars,
	}
}

func cssVarsStyle(vars map[string]string) string {
	if len(vars) == 0 {
		return ""
	}
	keys := make([]string, 0, len(vars))
	for key := range vars {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	var b strings.Builder
	b.WriteString(":root { ")
	for _, key := range keys {
		b.WriteString(key)
		b.WriteString(": ")
		b.WriteString(vars[key])
		b.WriteString("; ")
	}
	b.WriteString("}")
	return b.String()
}

func toMap(v any) (map[string]any, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	out := map[string]any{}
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, err
	}
	return out, nil
}
