package printer

import (
	"bytes"
	"testing"

	"github.com/fatih/color"
	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-courierform/pkg/formstate"
	"github.com/goliatone/go-courierform/pkg/orchestrator"
)

func newTestPrinter(t *testing.T) (*Printer, *bytes.Buffer, *bytes.Buffer) {
	t.Helper()
	prev := color.NoColor
	color.NoColor = true
	t.Cleanup(func() { color.NoColor = prev })

	var out, errOut bytes.Buffer
	return New(&out, &errOut), &out, &errOut
}

func TestError(t *testing.T) {
	p, _, errOut := newTestPrinter(t)

	err := p.Error("Price lookup failed", "The service did not answer.", []string{"Check the endpoint", "Retry later"})
	if err == nil || err.Error() != "Price lookup failed" {
		t.Fatalf("unexpected error %v", err)
	}
	want := "Price lookup failed\n\nThe service did not answer.\n\nEither:\n  1. Check the endpoint\n  2. Retry later\n"
	if diff := cmp.Diff(want, errOut.String()); diff != "" {
		t.Fatalf("output mismatch (-want +got):\n%s", diff)
	}
}

func TestIndicatorsAndReadiness(t *testing.T) {
	p, out, errOut := newTestPrinter(t)

	p.Indicators([]orchestrator.SectionIndicator{
		{Section: formstate.SectionReceiver, Title: "Receiver", State: orchestrator.IndicatorComplete},
		{Section: formstate.SectionPackage, Title: "Package", State: orchestrator.IndicatorInvalid},
		{Section: formstate.SectionShipper, Title: "Shipper", State: orchestrator.IndicatorPending},
	})
	want := "  ✓ Receiver\n  ✗ Package\n  … Shipper\n"
	if diff := cmp.Diff(want, out.String()); diff != "" {
		t.Fatalf("indicator output mismatch (-want +got):\n%s", diff)
	}

	out.Reset()
	p.Readiness(orchestrator.Readiness{Valid: formstate.ValidAggregate{IsAllValid: true}})
	if got := errOut.String(); got != "! Order cannot be submitted yet: some fields are empty, terms not accepted\n" {
		t.Fatalf("unexpected warning %q", got)
	}

	p.Readiness(orchestrator.Readiness{CanSubmit: true})
	if got := out.String(); got != "✓ Order is ready to submit\n" {
		t.Fatalf("unexpected success %q", got)
	}
}
