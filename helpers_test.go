package anomalies_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/reoring/anomalies"
	fs "github.com/reoring/anomalies/featureschema"
	"github.com/reoring/anomalies/rules"
	"github.com/reoring/anomalies/statistics"
)

type builder = anomalies.Builder[*fs.Schema, *statistics.Feature]

func newBuilder(t *testing.T, baseline *fs.Schema, opts ...anomalies.Options) *builder {
	t.Helper()
	b, err := anomalies.NewBuilder[*fs.Schema, *statistics.Feature](baseline, opts...)
	require.NoError(t, err)
	return b
}

func def(name string, typ fs.Type, children ...*fs.Feature) *fs.Feature {
	return &fs.Feature{Name: name, Type: typ, Children: children}
}

func obs(name, typ string, present uint64, children ...*statistics.Feature) *statistics.Feature {
	return &statistics.Feature{Name: name, Type: typ, NumPresent: present, Features: children}
}

func p(steps ...string) anomalies.Path { return anomalies.NewPath(steps...) }

// hookEngine overrides selected calls of the reference engine.
type hookEngine struct {
	*rules.Engine
	validate func(*fs.Schema, *statistics.Feature) ([]anomalies.Description, anomalies.Severity, error)
	skew     func(*fs.Schema, *statistics.Feature) ([]anomalies.Description, error)
}

func (h hookEngine) Validate(s *fs.Schema, f *statistics.Feature) ([]anomalies.Description, anomalies.Severity, error) {
	if h.validate != nil {
		return h.validate(s, f)
	}
	return h.Engine.Validate(s, f)
}

func (h hookEngine) CompareSkew(s *fs.Schema, f *statistics.Feature) ([]anomalies.Description, error) {
	if h.skew != nil {
		return h.skew(s, f)
	}
	return h.Engine.CompareSkew(s, f)
}

func kinds(ds []anomalies.Description) []anomalies.Kind {
	out := make([]anomalies.Kind, len(ds))
	for i, d := range ds {
		out[i] = d.Kind
	}
	return out
}
