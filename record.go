package anomalies

// Record accumulates the anomalies found for one path. It owns a private deep
// copy of the baseline schema that rule engines may mutate (for example to
// deprecate the field); those mutations never reach the baseline or any other
// record.
type Record[S Schema[S], F Field[F]] struct {
	path         Path
	schema       S
	descriptions []Description
	severity     Severity
}

// NewRecord initializes a record for path from a deep copy of baseline.
func NewRecord[S Schema[S], F Field[F]](path Path, baseline S) (*Record[S, F], error) {
	s, err := baseline.Clone()
	if err != nil {
		return nil, newCloneError(path, err)
	}
	return &Record[S, F]{path: path, schema: s}, nil
}

// Path returns the path the record is bound to.
func (r *Record[S, F]) Path() Path { return r.path }

// Schema returns the record's schema copy.
func (r *Record[S, F]) Schema() S { return r.schema }

// Severity returns the current severity.
func (r *Record[S, F]) Severity() Severity { return r.severity }

// Descriptions returns a copy of the accumulated descriptions in order.
func (r *Record[S, F]) Descriptions() []Description {
	return append([]Description(nil), r.descriptions...)
}

// HasAnomaly reports whether anything was recorded.
func (r *Record[S, F]) HasAnomaly() bool {
	return len(r.descriptions) > 0 || r.severity > SeverityUnset
}

// IsDeprecated queries the record's schema copy.
func (r *Record[S, F]) IsDeprecated(p Path) bool { return r.schema.IsDeprecated(p) }

// RecordMissing notes that the field is absent from the data: it appends a
// KindMissingColumn description, raises severity to error and deprecates the
// field in the schema copy.
func (r *Record[S, F]) RecordMissing() {
	r.descriptions = append(r.descriptions, missingDescription())
	r.raise(SeverityError)
	r.schema.Deprecate(r.path)
}

// ApplyUpdate validates field against the schema copy. On error the record is
// left unchanged.
func (r *Record[S, F]) ApplyUpdate(engine RuleEngine[S, F], field F) error {
	work, err := r.scratch()
	if err != nil {
		return err
	}
	ds, sev, err := engine.Validate(work, field)
	if err != nil {
		return newRuleEngineError(opValidate, r.path, err)
	}
	r.adopt(work, ds, sev)
	return nil
}

// ApplyRecursiveCreate defines field and its descendants allowed by filter in
// the schema copy. On error the record is left unchanged.
func (r *Record[S, F]) ApplyRecursiveCreate(engine RuleEngine[S, F], field F, filter *FieldsFilter) error {
	work, err := r.scratch()
	if err != nil {
		return err
	}
	ds, sev, err := engine.CreateRecursively(work, field, filter)
	if err != nil {
		return newRuleEngineError(opCreateRecursively, r.path, err)
	}
	r.adopt(work, ds, sev)
	return nil
}

// ApplySkewUpdate compares field against the engine's reference. Any finding
// raises severity to error whatever the engine would suggest.
func (r *Record[S, F]) ApplySkewUpdate(engine RuleEngine[S, F], field F) error {
	work, err := r.scratch()
	if err != nil {
		return err
	}
	ds, err := engine.CompareSkew(work, field)
	if err != nil {
		return newRuleEngineError(opCompareSkew, r.path, err)
	}
	sev := SeverityUnset
	if len(ds) > 0 {
		sev = SeverityError
	}
	r.adopt(work, ds, sev)
	return nil
}

// Render collapses and unifies the descriptions into a report entry.
func (r *Record[S, F]) Render() ReportEntry {
	ds := Collapse(r.Descriptions())
	return ReportEntry{
		Path:         r.path.Serialize(),
		Descriptions: ds,
		Unified:      Unify(ds),
		Severity:     r.severity,
	}
}

// scratch hands engines a throwaway copy so a failed call cannot leave a
// half-applied mutation behind.
func (r *Record[S, F]) scratch() (S, error) {
	work, err := r.schema.Clone()
	if err != nil {
		var zero S
		return zero, newCloneError(r.path, err)
	}
	return work, nil
}

func (r *Record[S, F]) adopt(work S, ds []Description, sev Severity) {
	r.schema = work
	r.descriptions = append(r.descriptions, ds...)
	r.raise(sev)
}

func (r *Record[S, F]) raise(sev Severity) { r.severity = MaxSeverity(r.severity, sev) }
