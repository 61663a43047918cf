package orchestrator

import "errors"

var (
	// ErrNoAddressField is returned when an address confirmation targets a
	// section that declares no address field.
	ErrNoAddressField = errors.New("orchestrator: section has no address field")
	// ErrAgreementInput is returned when agreement state is reported through
	// the field paths instead of ReportAgreementToggle.
	ErrAgreementInput = errors.New("orchestrator: agreement is reported with ReportAgreementToggle")
)
