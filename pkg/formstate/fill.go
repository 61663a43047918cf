package formstate

// FillAggregate reports which sections have every field supplied.
type FillAggregate struct {
	Receiver    bool `json:"receiver"`
	Package     bool `json:"package"`
	Shipper     bool `json:"shipper"`
	IsAllFilled bool `json:"isAllFilled"`
}

// Section returns the flag for one of the aggregate sections.
func (a FillAggregate) Section(section Section) bool {
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

// FillTracker answers "has the user supplied something" independent of
// whether the value is correct.
type FillTracker struct {
	store *Store
}

// NewFillTracker returns a tracker over store.
func NewFillTracker(store *Store) *FillTracker {
	return &FillTracker{store: store}
}

// SetValue stores the raw value of a field. The agreement checkbox is
// addressed with AgreementKey.
func (t *FillTracker) SetValue(section Section, key FieldKey, value Value) error {
	if section == SectionAgreement {
		if _, err := t.store.section(section); err != nil {
			return err
		}
		if key != AgreementKey {
			return &UnknownFieldError{Section: section, Key: key}
		}
		return t.store.setAgreement(value)
	}
	return t.store.Update(section, key, func(rec *Record) {
		rec.Raw = value
	})
}

// SetAgreement records the agreement checkbox.
func (t *FillTracker) SetAgreement(checked bool) error {
	return t.store.setAgreement(Bool(checked))
}

// AgreementChecked reports the agreement checkbox. An undeclared agreement
// section reads as unchecked.
func (t *FillTracker) AgreementChecked() bool {
	v, err := t.store.agreementValue()
	if err != nil {
		return false
	}
	return v.Filled()
}

// IsSectionFilled reports whether every field of section is filled. For the
// agreement section it reports the checkbox.
func (t *FillTracker) IsSectionFilled(section Section) (bool, error) {
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
	for _, rec := range records {
		if !rec.Filled() {
			return false, nil
		}
	}
	return true, nil
}

// Aggregate computes the fill state of receiver, package and shipper.
func (t *FillTracker) Aggregate() (FillAggregate, error) {
	var (
		out FillAggregate
		err error
	)
	if out.Receiver, err = t.IsSectionFilled(SectionReceiver); err != nil {
		return FillAggregate{}, err
	}
	if out.Package, err = t.IsSectionFilled(SectionPackage); err != nil {
		return FillAggregate{}, err
	}
	if out.Shipper, err = t.IsSectionFilled(SectionShipper); err != nil {
		return FillAggregate{}, err
	}
	out.IsAllFilled = out.Receiver && out.Package && out.Shipper
	return out, nil
}
