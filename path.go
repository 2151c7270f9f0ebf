package anomalies

import (
	"strings"

	"github.com/pkg/errors"
)

// Path identifies a field in a nested dataset as an ordered list of steps.
// The zero value is the empty (root) path.
type Path struct {
	steps []string
}

// NewPath builds a Path from the given steps.
func NewPath(steps ...string) Path {
	if len(steps) == 0 {
		return Path{}
	}
	return Path{steps: append([]string(nil), steps...)}
}

// Steps returns a copy of the steps.
func (p Path) Steps() []string { return append([]string(nil), p.steps...) }

// Len returns the number of steps.
func (p Path) Len() int { return len(p.steps) }

// IsEmpty reports whether p has no steps.
func (p Path) IsEmpty() bool { return len(p.steps) == 0 }

// Child returns a new path with step appended. p is not modified.
func (p Path) Child(step string) Path {
	out := make([]string, len(p.steps), len(p.steps)+1)
	copy(out, p.steps)
	return Path{steps: append(out, step)}
}

// Parent returns p without its last step. The parent of the empty path is the
// empty path.
func (p Path) Parent() Path {
	if len(p.steps) <= 1 {
		return Path{}
	}
	return NewPath(p.steps[:len(p.steps)-1]...)
}

// Last returns the final step, or "" for the empty path.
func (p Path) Last() string {
	if len(p.steps) == 0 {
		return ""
	}
	return p.steps[len(p.steps)-1]
}

// HasPrefix reports whether prefix is p itself or one of its ancestors.
func (p Path) HasPrefix(prefix Path) bool {
	if len(prefix.steps) > len(p.steps) {
		return false
	}
	for i, s := range prefix.steps {
		if p.steps[i] != s {
			return false
		}
	}
	return true
}

// Equal reports structural equality.
func (p Path) Equal(q Path) bool {
	return len(p.steps) == len(q.steps) && p.HasPrefix(q)
}

// Compare orders paths step by step; a proper prefix sorts first.
func (p Path) Compare(q Path) int {
	n := min(len(p.steps), len(q.steps))
	for i := 0; i < n; i++ {
		if c := strings.Compare(p.steps[i], q.steps[i]); c != 0 {
			return c
		}
	}
	switch {
	case len(p.steps) < len(q.steps):
		return -1
	case len(p.steps) > len(q.steps):
		return 1
	default:
		return 0
	}
}

// Less reports whether p sorts before q.
func (p Path) Less(q Path) bool { return p.Compare(q) < 0 }

// Serialize renders p as a canonical string. Steps are joined with '.'; a step
// that is empty or contains '.', '(' or ')' is wrapped in parentheses with
// every ')' doubled. ParsePath is the inverse.
func (p Path) Serialize() string {
	b := &strings.Builder{}
	for i, s := range p.steps {
		if i > 0 {
			b.WriteByte('.')
		}
		if needsQuoting(s) {
			b.WriteByte('(')
			b.WriteString(strings.ReplaceAll(s, ")", "))"))
			b.WriteByte(')')
			continue
		}
		b.WriteString(s)
	}
	return b.String()
}

// String implements fmt.Stringer using Serialize.
func (p Path) String() string { return p.Serialize() }

// MarshalText implements encoding.TextMarshaler.
func (p Path) MarshalText() ([]byte, error) { return []byte(p.Serialize()), nil }

// UnmarshalText implements encoding.TextUnmarshaler.
func (p *Path) UnmarshalText(b []byte) error {
	q, err := ParsePath(string(b))
	if err != nil {
		return err
	}
	*p = q
	return nil
}

func needsQuoting(step string) bool {
	return step == "" || strings.ContainsAny(step, ".()")
}

// ParsePath parses the output of Path.Serialize.
func ParsePath(s string) (Path, error) {
	if s == "" {
		return Path{}, nil
	}
	var steps []string
	i := 0
	for {
		var step string
		if i < len(s) && s[i] == '(' {
			b := &strings.Builder{}
			i++
			closed := false
			for i < len(s) {
				if s[i] == ')' {
					if i+1 < len(s) && s[i+1] == ')' {
						b.WriteByte(')')
						i += 2
						continue
					}
					i++
					closed = true
					break
				}
				b.WriteByte(s[i])
				i++
			}
			if !closed {
				return Path{}, errors.Errorf("anomalies: unterminated step in path %q", s)
			}
			step = b.String()
		} else {
			j := i
			for j < len(s) && s[j] != '.' {
				if s[j] == '(' || s[j] == ')' {
					return Path{}, errors.Errorf("anomalies: unexpected %q at offset %d in path %q", s[j], j, s)
				}
				j++
			}
			step = s[i:j]
			if step == "" {
				return Path{}, errors.Errorf("anomalies: empty step at offset %d in path %q", i, s)
			}
			i = j
		}
		steps = append(steps, step)
		if i == len(s) {
			return Path{steps: steps}, nil
		}
		if s[i] != '.' {
			return Path{}, errors.Errorf("anomalies: expected '.' at offset %d in path %q", i, s)
		}
		i++
		if i == len(s) {
			return Path{}, errors.Errorf("anomalies: trailing '.' in path %q", s)
		}
	}
}
