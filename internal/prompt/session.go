package prompt

import (
	"context"
	"fmt"

	"github.com/goliatone/go-courierform/pkg/formstate"
	"github.com/goliatone/go-courierform/pkg/orchestrator"
	"github.com/goliatone/go-courierform/pkg/validators"
)

// Reporter receives status output while a session runs.
type Reporter interface {
	Step(format string, a ...any)
	Warning(format string, a ...any)
	Indicators(indicators []orchestrator.SectionIndicator)
}

// Option configures a Session.
type Option func(*Session)

// WithMaxAttempts bounds how many times an invalid field is asked again.
func WithMaxAttempts(n int) Option {
	return func(s *Session) {
		if n > 0 {
			s.maxAttempts = n
		}
	}
}

// Session asks for every declared field in order and reports each answer to
// the orchestrator.
type Session struct {
	orch        *orchestrator.Orchestrator
	driver      Driver
	reporter    Reporter
	maxAttempts int
}

// NewSession builds a session over orch.
func NewSession(orch *orchestrator.Orchestrator, driver Driver, reporter Reporter, options ...Option) *Session {
	s := &Session{
		orch:        orch,
		driver:      driver,
		reporter:    reporter,
		maxAttempts: 3,
	}
	for _, opt := range options {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// Run walks the form section by section and returns the final readiness.
// Address fields are confirmed by the user in place of a geocoder.
func (s *Session) Run(ctx context.Context) (orchestrator.Readiness, error) {
	decl := s.orch.Declaration()
	for _, section := range decl.Sections {
		if section.Name == formstate.SectionAgreement {
			continue
		}
		s.reporter.Step("%s", sectionTitle(section))
		for _, field := range section.Fields {
			if err := s.askField(ctx, section.Name, field); err != nil {
				return orchestrator.Readiness{}, err
			}
		}
		indicators, err := s.orch.Indicators()
		if err != nil {
			return orchestrator.Readiness{}, err
		}
		s.reporter.Indicators(indicators)
	}

	if agreement, ok := decl.Section(formstate.SectionAgreement); ok {
		checked, err := s.driver.Confirm(ctx, ConfirmConfig{
			Message: fmt.Sprintf("Accept the %s?", sectionTitle(agreement)),
		})
		if err != nil {
			return orchestrator.Readiness{}, err
		}
		if _, err := s.orch.ReportAgreementToggle(checked); err != nil {
			return orchestrator.Readiness{}, err
		}
	}
	return s.orch.Readiness()
}

func (s *Session) askField(ctx context.Context, section formstate.Section, field formstate.FieldDecl) error {
	rec, err := s.orch.Field(section, field.Key)
	if err != nil {
		return err
	}
	label := fieldLabel(field)
	current := rec.Raw.Text()

	for attempt := 1; ; attempt++ {
		raw, err := s.driver.Input(ctx, InputConfig{Message: label, Default: current})
		if err != nil {
			return err
		}
		if _, err := s.orch.ReportInput(section, field.Key, raw); err != nil {
			return err
		}

		if field.Kind == validators.KindAddress {
			ok, err := s.driver.Confirm(ctx, ConfirmConfig{
				Message: fmt.Sprintf("Use %q as the %s?", raw, label),
				Default: true,
			})
			if err != nil {
				return err
			}
			if ok {
				_, err := s.orch.ConfirmAddressValid(section)
				return err
			}
		} else {
			rec, err := s.orch.Field(section, field.Key)
			if err != nil {
				return err
			}
			if rec.Validity != formstate.Invalid {
				return nil
			}
		}

		if attempt >= s.maxAttempts {
			s.reporter.Warning("%s left invalid", label)
			return nil
		}
		s.reporter.Warning("%s is not valid, try again", label)
		current = raw
	}
}

func sectionTitle(section formstate.SectionDecl) string {
	if section.Title != "" {
		return section.Title
	}
	return string(section.Name)
}

func fieldLabel(field formstate.FieldDecl) string {
	if field.Label != "" {
		return field.Label
	}
	return string(field.Key)
}
