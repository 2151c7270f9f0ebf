// Package featureschema is an in-memory feature schema usable as the baseline
// of an anomalies.Builder.
package featureschema

import (
	"io"
	"os"

	json "github.com/goccy/go-json"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/reoring/anomalies"
)

// Type is the declared value type of a feature.
type Type string

const (
	TypeBytes  Type = "BYTES"
	TypeInt    Type = "INT"
	TypeFloat  Type = "FLOAT"
	TypeStruct Type = "STRUCT"
)

// Presence constrains how often a feature must appear.
type Presence struct {
	MinFraction float64 `json:"min_fraction,omitempty" yaml:"min_fraction,omitempty"`
	MinCount    uint64  `json:"min_count,omitempty" yaml:"min_count,omitempty"`
}

// SkewComparator configures the training/serving skew check of a feature.
type SkewComparator struct {
	InfinityNormThreshold float64 `json:"infinity_norm_threshold" yaml:"infinity_norm_threshold"`
}

// Feature is one node of the schema. Only STRUCT features have children.
type Feature struct {
	Name           string          `json:"name" yaml:"name"`
	Type           Type            `json:"type,omitempty" yaml:"type,omitempty"`
	Deprecated     bool            `json:"deprecated,omitempty" yaml:"deprecated,omitempty"`
	Presence       *Presence       `json:"presence,omitempty" yaml:"presence,omitempty"`
	Domain         []string        `json:"domain,omitempty" yaml:"domain,omitempty"`
	SkewComparator *SkewComparator `json:"skew_comparator,omitempty" yaml:"skew_comparator,omitempty"`
	Children       []*Feature      `json:"feature,omitempty" yaml:"feature,omitempty"`
}

// Schema is an ordered list of root features.
type Schema struct {
	Features []*Feature `json:"feature" yaml:"feature"`
}

var _ anomalies.Schema[*Schema] = (*Schema)(nil)

// New builds a schema from root features.
func New(features ...*Feature) *Schema { return &Schema{Features: features} }

// Load decodes a YAML schema document and checks it.
func Load(r io.Reader) (*Schema, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	s := &Schema{}
	if err := dec.Decode(s); err != nil {
		if errors.Is(err, io.EOF) {
			return s, nil
		}
		return nil, errors.Wrap(err, "featureschema: decode")
	}
	if err := s.Check(); err != nil {
		return nil, err
	}
	return s, nil
}

// LoadFile reads a YAML schema from name.
func LoadFile(name string) (*Schema, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, errors.Wrap(err, "featureschema: open")
	}
	defer f.Close()
	return Load(f)
}

// Check verifies the tree is well formed: no nil features, non-empty names
// unique among siblings, and children only under STRUCT features.
func (s *Schema) Check() error {
	if s == nil {
		return errors.New("featureschema: nil schema")
	}
	return checkLevel(anomalies.Path{}, s.Features)
}

func checkLevel(parent anomalies.Path, level []*Feature) error {
	seen := make(map[string]struct{}, len(level))
	for i, f := range level {
		if f == nil {
			return errors.Errorf("featureschema: nil feature at index %d under %q", i, parent.Serialize())
		}
		if f.Name == "" {
			return errors.Errorf("featureschema: empty feature name at index %d under %q", i, parent.Serialize())
		}
		p := parent.Child(f.Name)
		if _, dup := seen[f.Name]; dup {
			return errors.Errorf("featureschema: duplicate feature %q", p.Serialize())
		}
		seen[f.Name] = struct{}{}
		if len(f.Children) > 0 && f.Type != TypeStruct {
			return errors.Errorf("featureschema: feature %q of type %q has children", p.Serialize(), f.Type)
		}
		if err := checkLevel(p, f.Children); err != nil {
			return err
		}
	}
	return nil
}

// Clone returns a deep copy. It fails when the schema does not pass Check.
func (s *Schema) Clone() (*Schema, error) {
	if err := s.Check(); err != nil {
		return nil, err
	}
	b, err := json.Marshal(s)
	if err != nil {
		return nil, errors.Wrap(err, "featureschema: clone")
	}
	out := &Schema{}
	if err := json.Unmarshal(b, out); err != nil {
		return nil, errors.Wrap(err, "featureschema: clone")
	}
	return out, nil
}

// Lookup returns the feature at p.
func (s *Schema) Lookup(p anomalies.Path) (*Feature, bool) {
	if s == nil || p.IsEmpty() {
		return nil, false
	}
	level := s.Features
	var f *Feature
	for _, step := range p.Steps() {
		if f = find(level, step); f == nil {
			return nil, false
		}
		level = f.Children
	}
	return f, true
}

func find(level []*Feature, name string) *Feature {
	for _, f := range level {
		if f != nil && f.Name == name {
			return f
		}
	}
	return nil
}

// FeatureExists reports whether p is defined.
func (s *Schema) FeatureExists(p anomalies.Path) bool {
	_, ok := s.Lookup(p)
	return ok
}

// IsDeprecated reports whether p is defined and it or one of its ancestors is
// deprecated.
func (s *Schema) IsDeprecated(p anomalies.Path) bool {
	if s == nil || p.IsEmpty() {
		return false
	}
	level := s.Features
	deprecated := false
	for _, step := range p.Steps() {
		f := find(level, step)
		if f == nil {
			return false
		}
		deprecated = deprecated || f.Deprecated
		level = f.Children
	}
	return deprecated
}

// Deprecate marks p deprecated. Undefined paths are ignored.
func (s *Schema) Deprecate(p anomalies.Path) {
	if f, ok := s.Lookup(p); ok {
		f.Deprecated = true
	}
}

// Add defines f under parent; an empty parent adds a root feature. The parent
// must be a STRUCT feature and must not already define a feature named f.Name.
func (s *Schema) Add(parent anomalies.Path, f *Feature) error {
	if f == nil || f.Name == "" {
		return errors.New("featureschema: feature must have a name")
	}
	level := &s.Features
	if !parent.IsEmpty() {
		pf, ok := s.Lookup(parent)
		if !ok {
			return errors.Errorf("featureschema: parent %q not defined", parent.Serialize())
		}
		if pf.Type != TypeStruct {
			return errors.Errorf("featureschema: parent %q is not a STRUCT", parent.Serialize())
		}
		level = &pf.Children
	}
	if find(*level, f.Name) != nil {
		return errors.Errorf("featureschema: feature %q already defined", parent.Child(f.Name).Serialize())
	}
	*level = append(*level, f)
	return nil
}

// MissingPaths lists non-deprecated features that observed lacks. Children of
// a missing feature are not listed.
func (s *Schema) MissingPaths(observed anomalies.PathIndex) []anomalies.Path {
	var out []anomalies.Path
	var walk func(parent anomalies.Path, level []*Feature)
	walk = func(parent anomalies.Path, level []*Feature) {
		for _, f := range level {
			if f == nil || f.Deprecated {
				continue
			}
			p := parent.Child(f.Name)
			if !observed.Has(p) {
				out = append(out, p)
				continue
			}
			walk(p, f.Children)
		}
	}
	walk(anomalies.Path{}, s.Features)
	return out
}
