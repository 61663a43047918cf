package formstate

// Record is the complete state of one field: the raw value the user
// supplied, the last validity reported for it and whether an external
// collaborator confirmed it (address fields).
type Record struct {
	Raw       Value
	Validity  Validity
	Confirmed bool
}

// Filled reports whether the record's raw value counts as supplied.
func (r Record) Filled() bool { return r.Raw.Filled() }

type sectionRecords struct {
	decl    SectionDecl
	records map[FieldKey]*Record
}

// Store holds one Record per declared field plus the agreement checkbox.
// It is not safe for concurrent use; callers serialise access.
type Store struct {
	decl      Declaration
	policy    Policy
	sections  map[Section]*sectionRecords
	agreement Value
}

// StoreOption customises a Store during construction.
type StoreOption func(*Store)

// WithPolicy selects how unevaluated fields count toward validity.
func WithPolicy(policy Policy) StoreOption {
	return func(s *Store) {
		s.policy = policy
	}
}

// NewStore seeds a Store from decl. Every declared field starts with a null
// raw value (or its declared initial value) and Unevaluated validity.
func NewStore(decl Declaration, options ...StoreOption) (*Store, error) {
	if err := decl.Validate(); err != nil {
		return nil, err
	}
	store := &Store{
		decl:     decl,
		policy:   DefaultPolicy,
		sections: make(map[Section]*sectionRecords, len(decl.Sections)),
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(store)
	}

	for _, section := range decl.Sections {
		entry := &sectionRecords{
			decl:    section,
			records: make(map[FieldKey]*Record, len(section.Fields)),
		}
		for _, field := range section.Fields {
			rec := &Record{}
			if field.Initial != nil {
				rec.Raw = String(*field.Initial)
			}
			entry.records[field.Key] = rec
		}
		store.sections[section.Name] = entry
	}
	return store, nil
}

// Declaration returns the declaration the store was seeded from.
func (s *Store) Declaration() Declaration { return s.decl }

// Policy returns the validity policy in effect.
func (s *Store) Policy() Policy { return s.policy }

// HasSection reports whether section was declared.
func (s *Store) HasSection(section Section) bool {
	_, ok := s.sections[section]
	return ok
}

// SectionDecl returns the declaration of a known section.
func (s *Store) SectionDecl(section Section) (SectionDecl, error) {
	entry, err := s.section(section)
	if err != nil {
		return SectionDecl{}, err
	}
	return entry.decl, nil
}

// FieldDecl returns the declaration of a known field.
func (s *Store) FieldDecl(section Section, key FieldKey) (FieldDecl, error) {
	entry, err := s.section(section)
	if err != nil {
		return FieldDecl{}, err
	}
	field, ok := entry.decl.Field(key)
	if !ok {
		return FieldDecl{}, &UnknownFieldError{Section: section, Key: key}
	}
	return field, nil
}

// Record returns a copy of the field's record.
func (s *Store) Record(section Section, key FieldKey) (Record, error) {
	rec, err := s.record(section, key)
	if err != nil {
		return Record{}, err
	}
	return *rec, nil
}

// Update applies fn to the field's record in place.
func (s *Store) Update(section Section, key FieldKey, fn func(*Record)) error {
	rec, err := s.record(section, key)
	if err != nil {
		return err
	}
	fn(rec)
	return nil
}

// Records returns copies of the section's records in declaration order.
func (s *Store) Records(section Section) ([]FieldDecl, []Record, error) {
	entry, err := s.section(section)
	if err != nil {
		return nil, nil, err
	}
	fields := append([]FieldDecl(nil), entry.decl.Fields...)
	records := make([]Record, 0, len(fields))
	for _, field := range fields {
		records = append(records, *entry.records[field.Key])
	}
	return fields, records, nil
}

// Values snapshots every declared raw value keyed by section and field.
func (s *Store) Values() map[Section]map[FieldKey]Value {
	out := make(map[Section]map[FieldKey]Value, len(s.sections))
	for name, entry := range s.sections {
		if name == SectionAgreement {
			out[name] = map[FieldKey]Value{AgreementKey: s.agreement}
			continue
		}
		values := make(map[FieldKey]Value, len(entry.records))
		for key, rec := range entry.records {
			values[key] = rec.Raw
		}
		out[name] = values
	}
	return out
}

func (s *Store) setAgreement(v Value) error {
	if !s.HasSection(SectionAgreement) {
		return &UnknownSectionError{Section: SectionAgreement}
	}
	s.agreement = v
	return nil
}

func (s *Store) agreementValue() (Value, error) {
	if !s.HasSection(SectionAgreement) {
		return Value{}, &UnknownSectionError{Section: SectionAgreement}
	}
	return s.agreement, nil
}

func (s *Store) section(section Section) (*sectionRecords, error) {
	if s == nil {
		return nil, &UnknownSectionError{Section: section}
	}
	entry, ok := s.sections[section]
	if !ok {
		return nil, &UnknownSectionError{Section: section}
	}
	return entry, nil
}

func (s *Store) record(section Section, key FieldKey) (*Record, error) {
	entry, err := s.section(section)
	if err != nil {
		return nil, err
	}
	rec, ok := entry.records[key]
	if !ok {
		return nil, &UnknownFieldError{Section: section, Key: key}
	}
	return rec, nil
}
