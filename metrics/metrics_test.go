package metrics_test

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reoring/anomalies"
	fs "github.com/reoring/anomalies/featureschema"
	"github.com/reoring/anomalies/metrics"
	"github.com/reoring/anomalies/rules"
	"github.com/reoring/anomalies/statistics"
)

func newRecorder(t *testing.T) (*metrics.Recorder, *prometheus.Registry) {
	t.Helper()
	reg := prometheus.NewRegistry()
	r, err := metrics.NewRecorder(reg)
	require.NoError(t, err)
	return r, reg
}

func TestRecorder_CountsCommits(t *testing.T) {
	rec, reg := newRecorder(t)
	b, err := anomalies.NewBuilder[*fs.Schema, *statistics.Feature](
		fs.New(&fs.Feature{Name: "a"}, &fs.Feature{Name: "b"}),
		anomalies.Options{Observer: rec},
	)
	require.NoError(t, err)
	data, err := statistics.NewDataset(1, &statistics.Feature{Name: "b", NumPresent: 1}, &statistics.Feature{Name: "c", NumPresent: 1})
	require.NoError(t, err)

	require.NoError(t, b.DiffTree(data, nil, rules.New()))

	assert.Equal(t, 2.0, testutil.ToFloat64(rec.Committed(anomalies.PassDiff, anomalies.SeverityError)))
	assert.Zero(t, testutil.ToFloat64(rec.Failures(anomalies.PassDiff)))
	n, err := testutil.GatherAndCount(reg, "anomalies_pass_duration_seconds")
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestRecorder_CountsFailures(t *testing.T) {
	rec, _ := newRecorder(t)
	rec.PassFinished(anomalies.PassSkew, 0, errors.New("boom"))
	rec.PassFinished(anomalies.PassSkew, 0, nil)
	assert.Equal(t, 1.0, testutil.ToFloat64(rec.Failures(anomalies.PassSkew)))
}

func TestNewRecorder_DuplicateRegistration(t *testing.T) {
	_, reg := newRecorder(t)
	_, err := metrics.NewRecorder(reg)
	assert.Error(t, err)

	r, err := metrics.NewRecorder(nil)
	require.NoError(t, err)
	assert.NotNil(t, r)
}
