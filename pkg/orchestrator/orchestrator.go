package orchestrator

import (
	"fmt"

	"github.com/goliatone/go-courierform/pkg/formstate"
	"github.com/goliatone/go-courierform/pkg/validators"
)

// AddressConfirmedMarker fills an address field that was confirmed before the
// user typed anything into it.
const AddressConfirmedMarker = "confirmed"

// Readiness is the consolidated signal the rendering layer consumes.
type Readiness struct {
	Fill             formstate.FillAggregate  `json:"fillState"`
	Valid            formstate.ValidAggregate `json:"validState"`
	AgreementChecked bool                     `json:"agreementChecked"`
	CanSubmit        bool                     `json:"canSubmit"`
}

// Complete reports whether every section is both filled and valid,
// regardless of the agreement checkbox.
func (r Readiness) Complete() bool {
	return r.Fill.IsAllFilled && r.Valid.IsAllValid
}

// ChangeHook observes the readiness computed after every mutation.
type ChangeHook func(Readiness)

// Option customises the orchestrator configuration.
type Option func(*Orchestrator)

// WithValidators injects the validator registry used by ReportInput and
// ResetField.
func WithValidators(registry *validators.Registry) Option {
	return func(o *Orchestrator) {
		if registry != nil {
			o.validators = registry
		}
	}
}

// WithPolicy selects how unevaluated fields count toward validity.
func WithPolicy(policy formstate.Policy) Option {
	return func(o *Orchestrator) {
		o.policy = policy
	}
}

// WithChangeHook registers a hook invoked after each successful mutation,
// typically the panel refresh.
func WithChangeHook(hook ChangeHook) Option {
	return func(o *Orchestrator) {
		if hook != nil {
			o.hooks = append(o.hooks, hook)
		}
	}
}

// Orchestrator owns the form state of one session. It is not safe for
// concurrent use; the UI layer serialises events.
type Orchestrator struct {
	store      *formstate.Store
	fill       *formstate.FillTracker
	valid      *formstate.ValidationTracker
	validators *validators.Registry
	policy     formstate.Policy
	hooks      []ChangeHook
}

// New seeds the form state from decl. The built-in validator registry and
// the permissive policy apply unless overridden.
func New(decl formstate.Declaration, options ...Option) (*Orchestrator, error) {
	o := &Orchestrator{
		policy: formstate.DefaultPolicy,
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(o)
	}
	if o.validators == nil {
		o.validators = validators.NewRegistry()
	}

	store, err := formstate.NewStore(decl, formstate.WithPolicy(o.policy))
	if err != nil {
		return nil, fmt.Errorf("orchestrator: seed form state: %w", err)
	}
	o.store = store
	o.fill = formstate.NewFillTracker(store)
	o.valid = formstate.NewValidationTracker(store)
	return o, nil
}

// Declaration returns the declaration the session was built from.
func (o *Orchestrator) Declaration() formstate.Declaration {
	return o.store.Declaration()
}

// ReportFieldChange records a raw value together with the validity an
// external validator produced for it. Changing the text of a confirmed field
// drops its confirmation.
func (o *Orchestrator) ReportFieldChange(section formstate.Section, key formstate.FieldKey, raw formstate.Value, validity formstate.Validity) (Readiness, error) {
	if section == formstate.SectionAgreement {
		return Readiness{}, ErrAgreementInput
	}
	prev, err := o.store.Record(section, key)
	if err != nil {
		return Readiness{}, err
	}
	if err := o.fill.SetValue(section, key, raw); err != nil {
		return Readiness{}, err
	}
	if err := o.valid.SetValidity(section, key, validity); err != nil {
		return Readiness{}, err
	}
	if prev.Confirmed && (raw.Text() != prev.Raw.Text() || validity != formstate.Valid) {
		if err := o.store.Update(section, key, func(rec *formstate.Record) {
			rec.Confirmed = false
		}); err != nil {
			return Readiness{}, err
		}
	}
	return o.changed()
}

// ReportInput runs the validator registered for the field's declared kind
// against raw and records both. Fields without a validator keep their
// previous validity. Re-reporting the exact text of a confirmed address keeps
// the confirmation; any other address edit leaves the field invalid until it
// is confirmed again.
func (o *Orchestrator) ReportInput(section formstate.Section, key formstate.FieldKey, raw string) (Readiness, error) {
	if section == formstate.SectionAgreement {
		return Readiness{}, ErrAgreementInput
	}
	field, err := o.store.FieldDecl(section, key)
	if err != nil {
		return Readiness{}, err
	}
	prev, err := o.store.Record(section, key)
	if err != nil {
		return Readiness{}, err
	}

	validity := prev.Validity
	switch {
	case field.Kind == validators.KindAddress && prev.Confirmed && prev.Raw.Text() == raw:
		validity = formstate.Valid
	default:
		if ok, applied := o.validators.Validate(field.Kind, raw); applied {
			validity = formstate.ValidityOf(ok)
		}
	}
	return o.ReportFieldChange(section, key, formstate.String(raw), validity)
}

// ReportAgreementToggle records the agreement checkbox. The checkbox is its
// own validity signal.
func (o *Orchestrator) ReportAgreementToggle(checked bool) (Readiness, error) {
	if err := o.fill.SetAgreement(checked); err != nil {
		return Readiness{}, err
	}
	return o.changed()
}

// ConfirmAddressValid marks the section's address field as confirmed by an
// external collaborator (a geocoder resolving the typed address). The field
// becomes valid and filled without going through its validator.
func (o *Orchestrator) ConfirmAddressValid(section formstate.Section) (Readiness, error) {
	decl, err := o.store.SectionDecl(section)
	if err != nil {
		return Readiness{}, err
	}
	field, ok := decl.AddressField()
	if !ok {
		return Readiness{}, fmt.Errorf("%w: %q", ErrNoAddressField, string(section))
	}
	if err := o.store.Update(section, field.Key, func(rec *formstate.Record) {
		rec.Validity = formstate.Valid
		rec.Confirmed = true
		if !rec.Raw.Filled() {
			rec.Raw = formstate.String(AddressConfirmedMarker)
		}
	}); err != nil {
		return Readiness{}, err
	}
	return o.changed()
}

// SetValidity overrides a field's validity without touching its raw value.
// Anything other than Valid drops a previous confirmation, which is how the UI
// invalidates an address the user started editing.
func (o *Orchestrator) SetValidity(section formstate.Section, key formstate.FieldKey, validity formstate.Validity) (Readiness, error) {
	if section == formstate.SectionAgreement {
		return Readiness{}, ErrAgreementInput
	}
	if err := o.valid.SetValidity(section, key, validity); err != nil {
		return Readiness{}, err
	}
	if validity != formstate.Valid {
		if err := o.store.Update(section, key, func(rec *formstate.Record) {
			rec.Confirmed = false
		}); err != nil {
			return Readiness{}, err
		}
	}
	return o.changed()
}

// ResetField clears a field the way the reset button does: the raw value
// becomes empty, confirmation is dropped and the validator re-runs against
// the empty string. Resetting a field that holds no value changes nothing and
// fires no hooks.
func (o *Orchestrator) ResetField(section formstate.Section, key formstate.FieldKey) (Readiness, error) {
	if section == formstate.SectionAgreement {
		return Readiness{}, ErrAgreementInput
	}
	field, err := o.store.FieldDecl(section, key)
	if err != nil {
		return Readiness{}, err
	}
	prev, err := o.store.Record(section, key)
	if err != nil {
		return Readiness{}, err
	}
	if !prev.Raw.Filled() {
		return o.Readiness()
	}
	validity := prev.Validity
	if ok, applied := o.validators.Validate(field.Kind, ""); applied {
		validity = formstate.ValidityOf(ok)
	}
	if err := o.store.Update(section, key, func(rec *formstate.Record) {
		rec.Raw = formstate.String("")
		rec.Validity = validity
		rec.Confirmed = false
	}); err != nil {
		return Readiness{}, err
	}
	return o.changed()
}

// Field returns the current record of a field.
func (o *Orchestrator) Field(section formstate.Section, key formstate.FieldKey) (formstate.Record, error) {
	return o.store.Record(section, key)
}

// FillState returns the aggregate fill state.
func (o *Orchestrator) FillState() (formstate.FillAggregate, error) {
	return o.fill.Aggregate()
}

// ValidState returns the aggregate validity.
func (o *Orchestrator) ValidState() (formstate.ValidAggregate, error) {
	return o.valid.Aggregate()
}

// Readiness derives the consolidated report from the current state.
func (o *Orchestrator) Readiness() (Readiness, error) {
	fill, err := o.fill.Aggregate()
	if err != nil {
		return Readiness{}, err
	}
	valid, err := o.valid.Aggregate()
	if err != nil {
		return Readiness{}, err
	}
	agreement := o.fill.AgreementChecked()
	return Readiness{
		Fill:             fill,
		Valid:            valid,
		AgreementChecked: agreement,
		CanSubmit:        fill.IsAllFilled && valid.IsAllValid && agreement,
	}, nil
}

// Values snapshots the raw values for submission.
func (o *Orchestrator) Values() map[formstate.Section]map[formstate.FieldKey]formstate.Value {
	return o.store.Values()
}

func (o *Orchestrator) changed() (Readiness, error) {
	readiness, err := o.Readiness()
	if err != nil {
		return Readiness{}, err
	}
	for _, hook := range o.hooks {
		hook(readiness)
	}
	return readiness, nil
}
