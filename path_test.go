package anomalies_test

import (
	"slices"
	"testing"

	json "github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reoring/anomalies"
)

func TestPath_SerializeRoundTrip(t *testing.T) {
	cases := []struct {
		steps []string
		want  string
	}{
		{nil, ""},
		{[]string{"a"}, "a"},
		{[]string{"a", "b", "c"}, "a.b.c"},
		{[]string{"a.b", "c"}, "(a.b).c"},
		{[]string{"f(x)"}, "(f(x)))"},
		{[]string{"a", ""}, "a.()"},
		{[]string{"))"}, "()))))"},
	}
	for _, tc := range cases {
		got := anomalies.NewPath(tc.steps...).Serialize()
		assert.Equal(t, tc.want, got)

		back, err := anomalies.ParsePath(got)
		require.NoError(t, err, got)
		assert.True(t, back.Equal(anomalies.NewPath(tc.steps...)), "round trip of %q gave %v", got, back.Steps())
	}
}

func TestParsePath_Rejects(t *testing.T) {
	for _, s := range []string{"a.", ".a", "a..b", "(a", "a(b", "a)b", "(a)b"} {
		_, err := anomalies.ParsePath(s)
		assert.Error(t, err, s)
	}
}

func TestPath_Navigation(t *testing.T) {
	a := p("a")
	abc := a.Child("b").Child("c")

	assert.Equal(t, 1, a.Len(), "Child must not modify the receiver")
	assert.Equal(t, "a.b", abc.Parent().Serialize())
	assert.Equal(t, "c", abc.Last())
	assert.True(t, abc.HasPrefix(a))
	assert.True(t, abc.HasPrefix(abc))
	assert.False(t, a.HasPrefix(abc))
	assert.True(t, anomalies.Path{}.Parent().IsEmpty())
	assert.Equal(t, "", anomalies.Path{}.Last())
}

func TestPath_Ordering(t *testing.T) {
	paths := []anomalies.Path{p("b"), p("a", "b"), p("a"), p("a", "a")}
	slices.SortFunc(paths, anomalies.Path.Compare)

	var got []string
	for _, q := range paths {
		got = append(got, q.Serialize())
	}
	assert.Equal(t, []string{"a", "a.a", "a.b", "b"}, got)
	assert.True(t, p("a").Less(p("a", "a")))
	assert.Equal(t, 0, p("x", "y").Compare(p("x", "y")))
}

func TestPath_TextMarshaling(t *testing.T) {
	b, err := json.Marshal(map[string]anomalies.Path{"p": p("a.b", "c")})
	require.NoError(t, err)
	assert.JSONEq(t, `{"p":"(a.b).c"}`, string(b))

	var out struct{ P anomalies.Path }
	require.NoError(t, json.Unmarshal([]byte(`{"P":"x.(y.z)"}`), &out))
	assert.Equal(t, []string{"x", "y.z"}, out.P.Steps())
}
