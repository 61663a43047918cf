package formstate

// ValidAggregate reports which sections have no rejected field.
type ValidAggregate struct {
	Receiver   bool `json:"receiver"`
	Package    bool `json:"package"`
	Shipper    bool `json:"shipper"`
	IsAllValid bool `json:"isAllValid"`
}

// Section returns the flag for one of the aggregate sections.
func (a ValidAggregate) Section(section Section) bool {
	switch section {
	case SectionReceiver:
		return a.Receiver
	case SectionPackage:
		return a.Package
	case SectionShipper:
		return a.Shipper
	default:
		return false
	}
}

// ValidationTracker answers "is the current value acceptable" from the
// results external validators reported. Validity is independent of fill
// state: a filled field may still be unevaluated, and an untouched field is
// accepted under the permissive policy.
type ValidationTracker struct {
	store *Store
}

// NewValidationTracker returns a tracker over store.
func NewValidationTracker(store *Store) *ValidationTracker {
	return &ValidationTracker{store: store}
}

// SetValidity stores the validator result of a field.
func (t *ValidationTracker) SetValidity(section Section, key FieldKey, validity Validity) error {
	return t.store.Update(section, key, func(rec *Record) {
		rec.Validity = validity
	})
}

// Validity returns the stored result of a field.
func (t *ValidationTracker) Validity(section Section, key FieldKey) (Validity, error) {
	rec, err := t.store.Record(section, key)
	if err != nil {
		return Unevaluated, err
	}
	return rec.Validity, nil
}

// IsSectionValid reports whether every field of section passes the store
// policy. The agreement section has no validator; its checkbox is its own
// validity signal.
func (t *ValidationTracker) IsSectionValid(section Section) (bool, error) {
	if section == SectionAgreement {
		v, err := t.store.agreementValue()
		if err != nil {
			return false, err
		}
		return v.Filled(), nil
	}
	_, records, err := t.store.Records(section)
	if err != nil {
		return false, err
	}
	policy := t.store.Policy()
	for _, rec := range records {
		if !policy.Accepts(rec.Validity) {
			return false, nil
		}
	}
	return true, nil
}

// Aggregate computes the validity of receiver, package and shipper.
func (t *ValidationTracker) Aggregate() (ValidAggregate, error) {
	var (
		out ValidAggregate
		err error
	)
	if out.Receiver, err = t.IsSectionValid(SectionReceiver); err != nil {
		return ValidAggregate{}, err
	}
	if out.Package, err = t.IsSectionValid(SectionPackage); err != nil {
		return ValidAggregate{}, err
	}
	if out.Shipper, err = t.IsSectionValid(SectionShipper); err != nil {
		return ValidAggregate{}, err
	}
	out.IsAllValid = out.Receiver && out.Package && out.Shipper
	return out, nil
}
