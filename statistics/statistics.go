// Package statistics holds observed data summaries that an anomalies.Builder
// diffs against a schema.
package statistics

import (
	"io"
	"os"
	"sort"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/reoring/anomalies"
)

// Feature summarizes the observed values of one field.
type Feature struct {
	Name string `yaml:"name"`
	// Type is the observed value type ("BYTES", "INT", "FLOAT", "STRUCT").
	Type string `yaml:"type,omitempty"`
	// NumPresent counts the examples of the enclosing level carrying the
	// feature.
	NumPresent uint64 `yaml:"num_present"`
	// Values counts occurrences per (stringified) value.
	Values map[string]uint64 `yaml:"values,omitempty"`
	// Features are the nested features of a STRUCT.
	Features []*Feature `yaml:"feature,omitempty"`

	path  anomalies.Path
	total uint64
}

var _ anomalies.Field[*Feature] = (*Feature)(nil)

// Path returns the feature's position in the dataset.
func (f *Feature) Path() anomalies.Path { return f.path }

// Children returns the nested features.
func (f *Feature) Children() []*Feature { return f.Features }

// Total is the number of examples at the feature's level: the dataset size for
// root features, the parent's NumPresent otherwise.
func (f *Feature) Total() uint64 { return f.total }

// PresentFraction returns NumPresent/Total, or 0 when Total is 0.
func (f *Feature) PresentFraction() float64 {
	if f.total == 0 {
		return 0
	}
	return float64(f.NumPresent) / float64(f.total)
}

// Distribution returns the normalized value frequencies.
func (f *Feature) Distribution() map[string]float64 {
	var sum uint64
	for _, n := range f.Values {
		sum += n
	}
	out := make(map[string]float64, len(f.Values))
	if sum == 0 {
		return out
	}
	for v, n := range f.Values {
		out[v] = float64(n) / float64(sum)
	}
	return out
}

// SortedValues returns the observed values in lexical order.
func (f *Feature) SortedValues() []string {
	out := make([]string, 0, len(f.Values))
	for v := range f.Values {
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}

// Dataset is the summary of a whole dataset.
type Dataset struct {
	NumExamples uint64     `yaml:"num_examples"`
	Features    []*Feature `yaml:"feature"`

	all   []*Feature
	index map[string]*Feature
}

var _ anomalies.Statistics[*Feature] = (*Dataset)(nil)

// NewDataset builds and indexes a dataset.
func NewDataset(numExamples uint64, features ...*Feature) (*Dataset, error) {
	d := &Dataset{NumExamples: numExamples, Features: features}
	if err := d.reindex(); err != nil {
		return nil, err
	}
	return d, nil
}

// MustDataset is like NewDataset but panics on error.
func MustDataset(numExamples uint64, features ...*Feature) *Dataset {
	d, err := NewDataset(numExamples, features...)
	if err != nil {
		panic(err)
	}
	return d
}

// Load decodes a YAML dataset summary.
func Load(r io.Reader) (*Dataset, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	d := &Dataset{}
	if err := dec.Decode(d); err != nil && !errors.Is(err, io.EOF) {
		return nil, errors.Wrap(err, "statistics: decode")
	}
	if err := d.reindex(); err != nil {
		return nil, err
	}
	return d, nil
}

// LoadFile reads a YAML dataset summary from name.
func LoadFile(name string) (*Dataset, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, errors.Wrap(err, "statistics: open")
	}
	defer f.Close()
	return Load(f)
}

// reindex assigns paths and totals and rejects nil, unnamed or duplicate
// features.
func (d *Dataset) reindex() error {
	d.all = d.all[:0]
	d.index = map[string]*Feature{}
	var walk func(parent anomalies.Path, total uint64, level []*Feature) error
	walk = func(parent anomalies.Path, total uint64, level []*Feature) error {
		for i, f := range level {
			if f == nil || f.Name == "" {
				return errors.Errorf("statistics: unnamed feature at index %d under %q", i, parent.Serialize())
			}
			f.path = parent.Child(f.Name)
			f.total = total
			key := f.path.Serialize()
			if _, dup := d.index[key]; dup {
				return errors.Errorf("statistics: duplicate feature %q", key)
			}
			d.index[key] = f
			d.all = append(d.all, f)
			if err := walk(f.path, f.NumPresent, f.Features); err != nil {
				return err
			}
		}
		return nil
	}
	return walk(anomalies.Path{}, d.NumExamples, d.Features)
}

// RootFields returns the top-level features.
func (d *Dataset) RootFields() []*Feature { return d.Features }

// Fields returns every feature, parents before children.
func (d *Dataset) Fields() []*Feature { return d.all }

// Has reports whether the dataset observed p.
func (d *Dataset) Has(p anomalies.Path) bool {
	_, ok := d.Lookup(p)
	return ok
}

// Lookup returns the feature at p.
func (d *Dataset) Lookup(p anomalies.Path) (*Feature, bool) {
	if d == nil {
		return nil, false
	}
	f, ok := d.index[p.Serialize()]
	return f, ok
}
