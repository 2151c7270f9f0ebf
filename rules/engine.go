package rules

import (
	"github.com/pkg/errors"

	"github.com/reoring/anomalies"
	"github.com/reoring/anomalies/featureschema"
	"github.com/reoring/anomalies/i18n"
	"github.com/reoring/anomalies/statistics"
)

// Options configures an Engine. When several are passed to New the last one
// wins.
type Options struct {
	// Rules replace Default when non-empty.
	Rules []Rule
	// SkewReference is the summary CompareSkew measures against (for example
	// the serving data when the builder diffs training data). Without it skew
	// comparison is a no-op.
	SkewReference *statistics.Dataset
}

// Engine is an anomalies.RuleEngine over featureschema and statistics.
type Engine struct {
	rule      Rule
	reference *statistics.Dataset
}

var _ anomalies.RuleEngine[*featureschema.Schema, *statistics.Feature] = (*Engine)(nil)

// New builds an Engine.
func New(opts ...Options) *Engine {
	var opt Options
	if len(opts) > 0 {
		opt = opts[len(opts)-1]
	}
	rule := Default()
	if len(opt.Rules) > 0 {
		rule = And(opt.Rules...)
	}
	return &Engine{rule: rule, reference: opt.SkewReference}
}

// Validate runs the engine's rules against the definition of field.
func (e *Engine) Validate(s *featureschema.Schema, field *statistics.Feature) ([]anomalies.Description, anomalies.Severity, error) {
	if field == nil {
		return nil, anomalies.SeverityUnset, errors.New("rules: nil field")
	}
	def, ok := s.Lookup(field.Path())
	if !ok {
		return nil, anomalies.SeverityUnset, errors.Errorf("rules: %q is not defined", field.Path().Serialize())
	}
	res := e.rule(def, field)
	return res.Descriptions, res.Severity, nil
}

// CreateRecursively defines field in s along with every descendant filter
// allows, reporting one new-column description per created feature.
func (e *Engine) CreateRecursively(s *featureschema.Schema, field *statistics.Feature, filter *anomalies.FieldsFilter) ([]anomalies.Description, anomalies.Severity, error) {
	if field == nil {
		return nil, anomalies.SeverityUnset, errors.New("rules: nil field")
	}
	var ds []anomalies.Description
	def := define(field, filter, &ds)
	if err := s.Add(field.Path().Parent(), def); err != nil {
		return nil, anomalies.SeverityUnset, err
	}
	return ds, anomalies.SeverityError, nil
}

func define(f *statistics.Feature, filter *anomalies.FieldsFilter, ds *[]anomalies.Description) *featureschema.Feature {
	def := &featureschema.Feature{Name: f.Name, Type: featureschema.Type(f.Type)}
	*ds = append(*ds, anomalies.Description{
		Kind:      anomalies.KindNewColumn,
		ShortText: i18n.T(i18n.NewColumn, nil),
		LongText:  i18n.T(i18n.NewColumnLong, nil),
	})
	for _, c := range f.Children() {
		if !filter.Allows(c.Path()) {
			continue
		}
		def.Children = append(def.Children, define(c, filter, ds))
	}
	if len(def.Children) > 0 {
		def.Type = featureschema.TypeStruct
	}
	return def
}

// CompareSkew measures the L-infinity distance between field and its
// counterpart in the skew reference. Above the configured threshold it reports
// the skew and raises the threshold to the observed distance.
func (e *Engine) CompareSkew(s *featureschema.Schema, field *statistics.Feature) ([]anomalies.Description, error) {
	if field == nil {
		return nil, errors.New("rules: nil field")
	}
	if e.reference == nil {
		return nil, nil
	}
	def, ok := s.Lookup(field.Path())
	if !ok || def.SkewComparator == nil {
		return nil, nil
	}
	ref, ok := e.reference.Lookup(field.Path())
	if !ok {
		return nil, nil
	}
	dist, value := LInfinity(field.Distribution(), ref.Distribution())
	threshold := def.SkewComparator.InfinityNormThreshold
	if dist <= threshold {
		return nil, nil
	}
	def.SkewComparator.InfinityNormThreshold = dist
	return []anomalies.Description{{
		Kind:      KindComparatorLInftyHigh,
		ShortText: i18n.T(i18n.HighLInfinity, nil),
		LongText: i18n.T(i18n.HighLInfinityLong, map[string]string{
			"distance":  formatFloat(dist),
			"threshold": formatFloat(threshold),
			"value":     value,
		}),
	}}, nil
}
