package prompt

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-courierform/pkg/formstate"
	"github.com/goliatone/go-courierform/pkg/orchestrator"
)

type scriptedDriver struct {
	inputs   []string
	confirms []bool
	asked    []string
	err      error
}

func (d *scriptedDriver) Input(_ context.Context, cfg InputConfig) (string, error) {
	d.asked = append(d.asked, cfg.Message)
	if len(d.inputs) == 0 {
		if d.err != nil {
			return "", d.err
		}
		return "", fmt.Errorf("unexpected input prompt %q", cfg.Message)
	}
	next := d.inputs[0]
	d.inputs = d.inputs[1:]
	return next, nil
}

func (d *scriptedDriver) Confirm(_ context.Context, cfg ConfirmConfig) (bool, error) {
	d.asked = append(d.asked, cfg.Message)
	if len(d.confirms) == 0 {
		return false, fmt.Errorf("unexpected confirm prompt %q", cfg.Message)
	}
	next := d.confirms[0]
	d.confirms = d.confirms[1:]
	return next, nil
}

type recorder struct {
	steps      []string
	warnings   []string
	indicators [][]orchestrator.SectionIndicator
}

func (r *recorder) Step(format string, a ...any) {
	r.steps = append(r.steps, fmt.Sprintf(format, a...))
}

func (r *recorder) Warning(format string, a ...any) {
	r.warnings = append(r.warnings, fmt.Sprintf(format, a...))
}

func (r *recorder) Indicators(indicators []orchestrator.SectionIndicator) {
	r.indicators = append(r.indicators, indicators)
}

func newCourier(t *testing.T) *orchestrator.Orchestrator {
	t.Helper()
	o, err := orchestrator.New(formstate.CourierDeclaration())
	if err != nil {
		t.Fatalf("new orchestrator: %v", err)
	}
	return o
}

func TestSession_CompletesOrder(t *testing.T) {
	o := newCourier(t)
	driver := &scriptedDriver{
		inputs: []string{
			"J", "John Smith",
			"+38 (050) 123-45-67",
			"Khreshchatyk 1",
			"250",
			"2026-10-20",
			"Shevchenka 5", "Shevchenka 7",
		},
		confirms: []bool{true, false, true, true},
	}
	rec := &recorder{}

	readiness, err := NewSession(o, driver, rec).Run(context.Background())
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if !readiness.CanSubmit {
		t.Fatalf("expected a submittable order, got %+v", readiness)
	}
	if diff := cmp.Diff([]string{"Receiver", "Package", "Shipper"}, rec.steps); diff != "" {
		t.Fatalf("steps mismatch (-want +got):\n%s", diff)
	}
	want := []string{"Full name is not valid, try again", "Pickup address is not valid, try again"}
	if diff := cmp.Diff(want, rec.warnings); diff != "" {
		t.Fatalf("warnings mismatch (-want +got):\n%s", diff)
	}

	addr, err := o.Field(formstate.SectionShipper, "shipperAddress")
	if err != nil {
		t.Fatalf("field: %v", err)
	}
	if addr.Raw.Text() != "Shevchenka 7" || !addr.Confirmed {
		t.Fatalf("unexpected shipper address %+v", addr)
	}
	if len(rec.indicators) != 3 || rec.indicators[2][2].State != orchestrator.IndicatorComplete {
		t.Fatalf("unexpected indicators %+v", rec.indicators)
	}
}

func TestSession_GivesUpAfterMaxAttempts(t *testing.T) {
	o := newCourier(t)
	driver := &scriptedDriver{
		inputs: []string{
			"John Smith",
			"+38 (050) 123-45-67",
			"Khreshchatyk 1",
			"0", "-5",
			"2026-10-20",
			"Shevchenka 5",
		},
		confirms: []bool{true, true, false},
	}
	rec := &recorder{}

	readiness, err := NewSession(o, driver, rec, WithMaxAttempts(2)).Run(context.Background())
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if readiness.CanSubmit || readiness.Valid.Package || readiness.AgreementChecked {
		t.Fatalf("unexpected readiness %+v", readiness)
	}
	if got := rec.warnings[len(rec.warnings)-1]; got != "Declared value left invalid" {
		t.Fatalf("unexpected last warning %q", got)
	}
}

func TestSession_Aborted(t *testing.T) {
	o := newCourier(t)
	driver := &scriptedDriver{err: ErrAborted}

	if _, err := NewSession(o, driver, &recorder{}).Run(context.Background()); !errors.Is(err, ErrAborted) {
		t.Fatalf("expected ErrAborted, got %v", err)
	}
}
