// Package orchestrator is the single entry point the UI layer calls on every
// form interaction. It owns the form state store, sequences the fill and
// validation trackers, dispatches raw input to the validator registered for
// each field kind and returns one consolidated Readiness report. Hosts build
// one Orchestrator per form session and pass it to whatever glue needs it.
package orchestrator
