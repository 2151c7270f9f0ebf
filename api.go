package anomalies

// Schema is the expected shape that observed data is diffed against.
// S is the concrete implementation type, so Clone yields a value the same
// RuleEngine can work on.
type Schema[S any] interface {
	// Clone returns an independent deep copy. It fails when the schema is
	// structurally invalid.
	Clone() (S, error)
	// FeatureExists reports whether the schema defines p.
	FeatureExists(p Path) bool
	// IsDeprecated reports whether p is defined and marked deprecated.
	IsDeprecated(p Path) bool
	// Deprecate marks p deprecated. Undefined paths are ignored.
	Deprecate(p Path)
	// MissingPaths lists non-deprecated defined paths that observed lacks.
	// Descendants of a missing path are not listed.
	MissingPaths(observed PathIndex) []Path
}

// PathIndex answers existence queries against an observed tree.
type PathIndex interface {
	Has(p Path) bool
}

// Field is one node of an observed statistics tree.
type Field[F any] interface {
	Path() Path
	Children() []F
}

// Statistics is an observed data summary tree.
type Statistics[F any] interface {
	PathIndex
	// RootFields returns the top-level fields in order.
	RootFields() []F
	// Fields returns every field at any depth, parents before children.
	Fields() []F
}

// RuleEngine owns field-level policy: which observed values violate a
// definition, how a new field is defined, and how skew is measured. It may
// mutate the schema it is handed; the caller only keeps those mutations when
// the call succeeds.
type RuleEngine[S any, F any] interface {
	// Validate checks field against its definition in schema.
	Validate(schema S, field F) ([]Description, Severity, error)
	// CreateRecursively defines field (and its descendants allowed by filter)
	// in schema and returns one KindNewColumn description per created field.
	CreateRecursively(schema S, field F, filter *FieldsFilter) ([]Description, Severity, error)
	// CompareSkew compares field against a reference summary. Nothing to
	// compare against is not an error and yields no descriptions.
	CompareSkew(schema S, field F) ([]Description, error)
}
