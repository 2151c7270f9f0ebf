package rules

import (
	"slices"
	"strconv"
	"strings"

	"github.com/reoring/anomalies"
	"github.com/reoring/anomalies/featureschema"
	"github.com/reoring/anomalies/i18n"
	"github.com/reoring/anomalies/statistics"
)

// Kinds emitted by the built-in rules.
const (
	KindUnexpectedDataType     anomalies.Kind = "unexpected_data_type"
	KindFeatureEmpty           anomalies.Kind = "feature_empty"
	KindLowPresence            anomalies.Kind = "low_presence"
	KindUnexpectedStringValues anomalies.Kind = "enum_unexpected_string_values"
	KindComparatorLInftyHigh   anomalies.Kind = "comparator_l_infinity_high"
)

// Result is what a Rule found.
type Result struct {
	Descriptions []anomalies.Description
	Severity     anomalies.Severity
}

func (r *Result) add(d anomalies.Description, sev anomalies.Severity) {
	r.Descriptions = append(r.Descriptions, d)
	r.Severity = anomalies.MaxSeverity(r.Severity, sev)
}

func (r *Result) merge(o Result) {
	r.Descriptions = append(r.Descriptions, o.Descriptions...)
	r.Severity = anomalies.MaxSeverity(r.Severity, o.Severity)
}

// Rule checks an observed feature against its definition. It may update def so
// that the schema accepts what was observed; def belongs to a scratch copy.
type Rule = func(def *featureschema.Feature, obs *statistics.Feature) Result

// Predicate selects the features a rule applies to.
type Predicate = func(def *featureschema.Feature, obs *statistics.Feature) bool

// And executes all rules and concatenates their results.
func And(rules ...Rule) Rule {
	return func(def *featureschema.Feature, obs *statistics.Feature) Result {
		var out Result
		for _, r := range rules {
			if r == nil {
				continue
			}
			out.merge(r(def, obs))
		}
		return out
	}
}

// When runs rules only for features matching pred.
func When(pred Predicate, rules ...Rule) Rule {
	all := And(rules...)
	return func(def *featureschema.Feature, obs *statistics.Feature) Result {
		if pred != nil && !pred(def, obs) {
			return Result{}
		}
		return all(def, obs)
	}
}

// NotStruct matches leaf features.
func NotStruct(def *featureschema.Feature, _ *statistics.Feature) bool {
	return def.Type != featureschema.TypeStruct
}

// Default is the rule set used when Options.Rules is empty.
func Default() Rule {
	return And(TypeRule(), PresenceRule(), When(NotStruct, DomainRule()))
}

// TypeRule reports an observed type different from the declared one.
func TypeRule() Rule {
	return func(def *featureschema.Feature, obs *statistics.Feature) Result {
		if def.Type == "" || obs.Type == "" || string(def.Type) == obs.Type {
			return Result{}
		}
		var out Result
		out.add(anomalies.Description{
			Kind:      KindUnexpectedDataType,
			ShortText: i18n.T(i18n.UnexpectedDataType, nil),
			LongText: i18n.T(i18n.UnexpectedDataTypeLong, map[string]string{
				"expected": string(def.Type),
				"actual":   obs.Type,
			}),
		}, anomalies.SeverityError)
		return out
	}
}

// PresenceRule enforces the presence constraint. A feature seen in no example
// is deprecated; one seen too rarely gets its constraint relaxed to what was
// observed.
func PresenceRule() Rule {
	return func(def *featureschema.Feature, obs *statistics.Feature) Result {
		pr := def.Presence
		if pr == nil || (pr.MinFraction <= 0 && pr.MinCount == 0) {
			return Result{}
		}
		var out Result
		if obs.NumPresent == 0 {
			def.Deprecated = true
			out.add(anomalies.Description{
				Kind:      KindFeatureEmpty,
				ShortText: i18n.T(i18n.ColumnDropped, nil),
				LongText:  i18n.T(i18n.FeatureEmptyLong, nil),
			}, anomalies.SeverityError)
			return out
		}
		if frac := obs.PresentFraction(); frac < pr.MinFraction {
			out.add(lowPresence("fraction "+formatFloat(pr.MinFraction), formatFloat(frac)), anomalies.SeverityError)
			pr.MinFraction = frac
		}
		if obs.NumPresent < pr.MinCount {
			out.add(lowPresence("count "+strconv.FormatUint(pr.MinCount, 10), strconv.FormatUint(obs.NumPresent, 10)), anomalies.SeverityError)
			pr.MinCount = obs.NumPresent
		}
		return out
	}
}

func lowPresence(constraint, actual string) anomalies.Description {
	return anomalies.Description{
		Kind:      KindLowPresence,
		ShortText: i18n.T(i18n.ColumnDropped, nil),
		LongText:  i18n.T(i18n.LowPresenceLong, map[string]string{"constraint": constraint, "actual": actual}),
	}
}

// DomainRule reports values outside a non-empty string domain and extends the
// domain with them.
func DomainRule() Rule {
	return func(def *featureschema.Feature, obs *statistics.Feature) Result {
		if len(def.Domain) == 0 {
			return Result{}
		}
		var unexpected []string
		for _, v := range obs.SortedValues() {
			if obs.Values[v] > 0 && !slices.Contains(def.Domain, v) {
				unexpected = append(unexpected, v)
			}
		}
		if len(unexpected) == 0 {
			return Result{}
		}
		def.Domain = append(def.Domain, unexpected...)
		var out Result
		out.add(anomalies.Description{
			Kind:      KindUnexpectedStringValues,
			ShortText: i18n.T(i18n.UnexpectedValues, nil),
			LongText:  i18n.T(i18n.UnexpectedValuesLong, map[string]string{"values": strings.Join(unexpected, ", ")}),
		}, anomalies.SeverityError)
		return out
	}
}

// LInfinity returns the largest absolute difference between two frequency
// distributions and the value it occurs at. Ties go to the lexically smallest
// value.
func LInfinity(a, b map[string]float64) (float64, string) {
	keys := make([]string, 0, len(a)+len(b))
	for k := range a {
		keys = append(keys, k)
	}
	for k := range b {
		if _, ok := a[k]; !ok {
			keys = append(keys, k)
		}
	}
	slices.Sort(keys)
	var dist float64
	var at string
	for _, k := range keys {
		d := a[k] - b[k]
		if d < 0 {
			d = -d
		}
		if d > dist {
			dist, at = d, k
		}
	}
	return dist, at
}

func formatFloat(f float64) string { return strconv.FormatFloat(f, 'g', 6, 64) }
