// Package courierform tracks completion and validity of a courier order form
// and derives whether the order may be submitted.
package courierform

import (
	"context"
	"io/fs"

	"github.com/goliatone/go-courierform/pkg/formschema"
	"github.com/goliatone/go-courierform/pkg/formstate"
	"github.com/goliatone/go-courierform/pkg/orchestrator"
)

// Readiness is the consolidated report recomputed after every change.
type Readiness = orchestrator.Readiness

// Declaration lists the sections and fields of a form.
type Declaration = formstate.Declaration

// Option configures an orchestrator.
type Option = orchestrator.Option

// NewOrchestrator starts a session over the bundled courier order form.
func NewOrchestrator(options ...Option) (*orchestrator.Orchestrator, error) {
	decl, err := formschema.Default()
	if err != nil {
		return nil, err
	}
	return orchestrator.New(decl, options...)
}

// NewOrchestratorFromFS starts a session over the form named name found in
// the YAML/JSON declarations of fsys.
func NewOrchestratorFromFS(fsys fs.FS, name string, options ...Option) (*orchestrator.Orchestrator, error) {
	store, err := formschema.LoadFS(fsys)
	if err != nil {
		return nil, err
	}
	decl, err := store.Form(name)
	if err != nil {
		return nil, err
	}
	return orchestrator.New(decl, options...)
}

// NewOrchestratorFromOpenAPI starts a session over the request body of
// operationID, annotated with x-courierform extensions.
func NewOrchestratorFromOpenAPI(ctx context.Context, raw []byte, operationID string, options ...Option) (*orchestrator.Orchestrator, error) {
	decl, err := formschema.FromOpenAPI(ctx, raw, operationID)
	if err != nil {
		return nil, err
	}
	return orchestrator.New(decl, options...)
}
