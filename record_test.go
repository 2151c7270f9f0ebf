package anomalies_test

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reoring/anomalies"
	fs "github.com/reoring/anomalies/featureschema"
	"github.com/reoring/anomalies/rules"
	"github.com/reoring/anomalies/statistics"
)

type record = anomalies.Record[*fs.Schema, *statistics.Feature]

func newRecord(t *testing.T, path anomalies.Path, baseline *fs.Schema) *record {
	t.Helper()
	r, err := anomalies.NewRecord[*fs.Schema, *statistics.Feature](path, baseline)
	require.NoError(t, err)
	return r
}

func TestRecord_FreshHasNoAnomaly(t *testing.T) {
	r := newRecord(t, p("a"), fs.New(def("a", fs.TypeInt)))
	assert.False(t, r.HasAnomaly())
	assert.Equal(t, anomalies.SeverityUnset, r.Severity())
	assert.Equal(t, "a", r.Render().Path)
}

func TestRecord_RecordMissing(t *testing.T) {
	baseline := fs.New(def("a", fs.TypeInt))
	r := newRecord(t, p("a"), baseline)

	r.RecordMissing()

	require.True(t, r.HasAnomaly())
	assert.Equal(t, anomalies.SeverityError, r.Severity())
	assert.Equal(t, []anomalies.Description{{
		Kind:      anomalies.KindMissingColumn,
		ShortText: "Column dropped",
		LongText:  "Column is completely missing",
	}}, r.Descriptions())
	assert.True(t, r.IsDeprecated(p("a")))
	assert.False(t, baseline.IsDeprecated(p("a")), "baseline must not see the record's mutation")
}

func TestRecord_SeverityNeverDecreases(t *testing.T) {
	sevs := []anomalies.Severity{anomalies.SeverityError, anomalies.SeverityWarning, anomalies.SeverityUnset}
	i := 0
	engine := hookEngine{
		Engine: rules.New(),
		validate: func(*fs.Schema, *statistics.Feature) ([]anomalies.Description, anomalies.Severity, error) {
			sev := sevs[i]
			i++
			return []anomalies.Description{{Kind: "x", LongText: "x"}}, sev, nil
		},
	}
	r := newRecord(t, p("a"), fs.New(def("a", fs.TypeInt)))
	f := obs("a", "INT", 1)

	for range sevs {
		require.NoError(t, r.ApplyUpdate(engine, f))
		assert.Equal(t, anomalies.SeverityError, r.Severity())
	}
	assert.Len(t, r.Descriptions(), 3)
}

func TestRecord_FailedUpdateLeavesStateUntouched(t *testing.T) {
	boom := errors.New("boom")
	engine := hookEngine{
		Engine: rules.New(),
		validate: func(s *fs.Schema, f *statistics.Feature) ([]anomalies.Description, anomalies.Severity, error) {
			s.Deprecate(f.Path())
			return []anomalies.Description{{Kind: "x"}}, anomalies.SeverityError, boom
		},
	}
	r := newRecord(t, p("a"), fs.New(def("a", fs.TypeInt)))

	err := r.ApplyUpdate(engine, obs("a", "INT", 1))

	require.Error(t, err)
	assert.True(t, errors.Is(err, boom))
	re, ok := anomalies.AsRuleEngineError(err)
	require.True(t, ok)
	assert.Equal(t, "validate", re.Op)
	assert.Equal(t, "a", re.Path.Serialize())

	assert.False(t, r.HasAnomaly())
	assert.False(t, r.IsDeprecated(p("a")), "a failed call must not leak schema mutations")
}

func TestRecord_SkewFindingsAreErrors(t *testing.T) {
	engine := hookEngine{
		Engine: rules.New(),
		skew: func(*fs.Schema, *statistics.Feature) ([]anomalies.Description, error) {
			return []anomalies.Description{{Kind: rules.KindComparatorLInftyHigh, LongText: "drift"}}, nil
		},
	}
	r := newRecord(t, p("a"), fs.New(def("a", fs.TypeInt)))

	require.NoError(t, r.ApplySkewUpdate(engine, obs("a", "INT", 1)))
	assert.Equal(t, anomalies.SeverityError, r.Severity())
}

func TestRecord_EmptySkewIsNoOp(t *testing.T) {
	r := newRecord(t, p("a"), fs.New(def("a", fs.TypeInt)))
	require.NoError(t, r.ApplySkewUpdate(rules.New(), obs("a", "INT", 1)))
	assert.False(t, r.HasAnomaly())
}

func TestRecord_RecursiveCreateRendersOneFinding(t *testing.T) {
	r := newRecord(t, p("n"), fs.New(def("a", fs.TypeInt)))
	data := statistics.MustDataset(10,
		obs("n", "STRUCT", 10, obs("x", "INT", 10), obs("y", "INT", 10), obs("z", "BYTES", 10)),
	)
	n, _ := data.Lookup(p("n"))

	require.NoError(t, r.ApplyRecursiveCreate(rules.New(), n, nil))

	assert.Len(t, r.Descriptions(), 4)
	e := r.Render()
	require.Len(t, e.Descriptions, 1)
	assert.Equal(t, anomalies.KindNewColumn, e.Descriptions[0].Kind)
	assert.Equal(t, anomalies.KindNewColumn, e.Unified.Kind)
	assert.Equal(t, anomalies.SeverityError, e.Severity)
	assert.True(t, r.Schema().FeatureExists(p("n", "z")))
}

func TestNewRecord_InvalidBaseline(t *testing.T) {
	_, err := anomalies.NewRecord[*fs.Schema, *statistics.Feature](p("a"), fs.New(def("a", fs.TypeInt), def("a", fs.TypeInt)))
	ce, ok := anomalies.AsCloneError(err)
	require.True(t, ok, "got %v", err)
	assert.Equal(t, "a", ce.Path.Serialize())
}
