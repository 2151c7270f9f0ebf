// Package anomalies compares observed data summaries against a schema and
// reports, per field, what does not match.
//
// Package anomalies provides:
//
// - A Builder that walks an observed statistics tree against a baseline schema (DiffTree) and then against a reference summary (DetectSkew)
// - Per-path Records that accumulate Descriptions and a monotonic Severity on a private copy of the baseline
// - A Report keyed by serialized Path, with new-column findings collapsed and descriptions unified into one summary
//
// Design policy:
// - Keep the aggregation logic in the root package; field-level policy lives behind the RuleEngine interface.
// - Schema, Statistics and RuleEngine are generic interfaces; featureschema/, statistics/ and rules/ provide reference implementations.
// - Records are committed only when they hold an anomaly, so clean fields never appear in a report.
//
// Typical usage:
//
//	b, err := anomalies.NewBuilder[*featureschema.Schema, *statistics.Feature](baseline)
//	engine := rules.New(rules.Options{SkewReference: serving})
//	err = b.DiffTree(training, nil, engine)
//	err = b.DetectSkew(training, engine)
//	report := b.Render()
package anomalies
