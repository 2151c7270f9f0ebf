package anomalies

import (
	"slices"
	"time"

	json "github.com/goccy/go-json"
	"github.com/sirupsen/logrus"
	"github.com/wI2L/jsondiff"
)

// Builder diffs observed statistics against a baseline schema and collects the
// findings per path. A Builder is not safe for concurrent use; separate
// Builders share no state.
//
// Records are materialized lazily: a pass works on a scratch record and only
// commits it when it holds an anomaly. Once committed, a record is reused by
// every later visit of the same path, in either pass.
type Builder[S Schema[S], F Field[F]] struct {
	baseline S
	records  map[string]*Record[S, F]
	opt      Options
}

// NewBuilder snapshots baseline. Later changes to baseline are not seen by the
// builder.
func NewBuilder[S Schema[S], F Field[F]](baseline S, opts ...Options) (*Builder[S, F], error) {
	snap, err := baseline.Clone()
	if err != nil {
		return nil, newCloneError(Path{}, err)
	}
	return &Builder[S, F]{
		baseline: snap,
		records:  map[string]*Record[S, F]{},
		opt:      resolveOptions(opts),
	}, nil
}

// Baseline returns the snapshot every existence and deprecation check uses.
// Callers must not modify it.
func (b *Builder[S, F]) Baseline() S { return b.baseline }

// Lookup returns the committed record for p.
func (b *Builder[S, F]) Lookup(p Path) (*Record[S, F], bool) {
	r, ok := b.records[p.Serialize()]
	return r, ok
}

// Paths returns the paths of committed records in order.
func (b *Builder[S, F]) Paths() []Path {
	out := make([]Path, 0, len(b.records))
	for _, r := range b.records {
		out = append(out, r.path)
	}
	slices.SortFunc(out, Path.Compare)
	return out
}

// getOrCreate returns the committed record for p, or a fresh uncommitted one.
func (b *Builder[S, F]) getOrCreate(p Path) (*Record[S, F], error) {
	if r, ok := b.records[p.Serialize()]; ok {
		return r, nil
	}
	return NewRecord[S, F](p, b.baseline)
}

// commit stores r under p when it holds an anomaly and drops it otherwise.
func (b *Builder[S, F]) commit(pass Pass, p Path, r *Record[S, F]) {
	if !r.HasAnomaly() {
		return
	}
	key := p.Serialize()
	prev, existed := b.records[key]
	b.records[key] = r
	if existed && prev == r {
		return
	}
	b.opt.Logger.WithFields(logrus.Fields{
		"pass":     pass,
		"path":     key,
		"severity": r.severity,
	}).Debug("anomaly recorded")
	if b.opt.Observer != nil {
		b.opt.Observer.RecordCommitted(pass, p, r.severity)
	}
}

// DiffTree walks every root field of observed, validating defined fields and
// creating undefined ones allowed by filter, then records every defined path
// absent from observed as missing. A nil filter allows all new fields.
//
// The first error aborts the pass. Records committed before it stay in place.
func (b *Builder[S, F]) DiffTree(observed Statistics[F], filter *FieldsFilter, engine RuleEngine[S, F]) (err error) {
	if observed == nil {
		return ErrNilStatistics
	}
	if engine == nil {
		return ErrNilRuleEngine
	}
	defer b.finish(PassDiff, time.Now(), &err)

	for _, f := range observed.RootFields() {
		if err := b.findChanges(f, filter, engine); err != nil {
			return err
		}
	}
	for _, p := range b.baseline.MissingPaths(observed) {
		r, err := b.getOrCreate(p)
		if err != nil {
			return err
		}
		r.RecordMissing()
		b.commit(PassDiff, p, r)
	}
	for _, p := range filter.Paths() {
		if !observed.Has(p) && !b.baseline.FeatureExists(p) {
			b.opt.Logger.WithFields(logrus.Fields{
				"pass": PassDiff,
				"path": p.Serialize(),
			}).Error("requested feature missing from data and schema")
		}
	}
	return nil
}

func (b *Builder[S, F]) findChanges(f F, filter *FieldsFilter, engine RuleEngine[S, F]) error {
	p := f.Path()
	switch {
	case b.baseline.FeatureExists(p):
		if b.baseline.IsDeprecated(p) {
			return nil
		}
		r, err := b.getOrCreate(p)
		if err != nil {
			return err
		}
		if err := r.ApplyUpdate(engine, f); err != nil {
			return err
		}
		b.commit(PassDiff, p, r)
		// A field deprecated by its own update is not descended into.
		if c, ok := b.Lookup(p); ok && c.IsDeprecated(p) {
			return nil
		}
		for _, child := range f.Children() {
			if err := b.findChanges(child, filter, engine); err != nil {
				return err
			}
		}
		return nil
	case filter.Allows(p):
		r, err := b.getOrCreate(p)
		if err != nil {
			return err
		}
		if err := r.ApplyRecursiveCreate(engine, f, filter); err != nil {
			return err
		}
		b.commit(PassDiff, p, r)
		return nil
	default:
		return nil
	}
}

// DetectSkew compares every field of observed, at any depth, against the
// engine's reference. Fields the baseline does not define are handed to the
// engine as well; comparing them is a no-op by the engine's contract.
//
// The first error aborts the pass. Records committed before it stay in place.
func (b *Builder[S, F]) DetectSkew(observed Statistics[F], engine RuleEngine[S, F]) (err error) {
	if observed == nil {
		return ErrNilStatistics
	}
	if engine == nil {
		return ErrNilRuleEngine
	}
	defer b.finish(PassSkew, time.Now(), &err)

	for _, f := range observed.Fields() {
		p := f.Path()
		r, err := b.getOrCreate(p)
		if err != nil {
			return err
		}
		if err := r.ApplySkewUpdate(engine, f); err != nil {
			return err
		}
		b.commit(PassSkew, p, r)
	}
	return nil
}

func (b *Builder[S, F]) finish(pass Pass, start time.Time, err *error) {
	elapsed := time.Since(start)
	entry := b.opt.Logger.WithFields(logrus.Fields{"pass": pass, "records": len(b.records)})
	if *err != nil {
		entry.WithError(*err).Debug("pass failed")
	} else {
		entry.Debug("pass finished")
	}
	if b.opt.Observer != nil {
		b.opt.Observer.PassFinished(pass, elapsed, *err)
	}
}

// Render builds the report over every committed record.
func (b *Builder[S, F]) Render() *Report[S] {
	entries := make([]ReportEntry, 0, len(b.records))
	var base []byte
	if b.opt.SchemaChanges {
		var err error
		if base, err = json.Marshal(b.baseline); err != nil {
			b.opt.Logger.WithError(err).Warn("schema changes disabled: baseline is not marshalable")
		}
	}
	for key, r := range b.records {
		e := r.Render()
		if base != nil {
			e.SchemaChange = b.schemaChange(key, base, r)
		}
		entries = append(entries, e)
	}
	return newReport(b.baseline, entries)
}

func (b *Builder[S, F]) schemaChange(key string, base []byte, r *Record[S, F]) jsondiff.Patch {
	cur, err := json.Marshal(r.schema)
	if err == nil {
		var patch jsondiff.Patch
		if patch, err = jsondiff.CompareJSON(base, cur); err == nil {
			return patch
		}
	}
	b.opt.Logger.WithError(err).WithField("path", key).Warn("cannot compute schema change")
	return nil
}
