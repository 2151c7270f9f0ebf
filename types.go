package anomalies

import (
	"strconv"

	"github.com/pkg/errors"
)

// Severity expresses the severity level of an anomaly. Levels are totally
// ordered; merging two severities keeps the larger one.
type Severity int

const (
	SeverityUnset   Severity = iota // No severity recorded yet.
	SeverityWarning                 // Suspicious but not blocking.
	SeverityError                   // Blocking.
)

// MaxSeverity returns the larger of a and b.
func MaxSeverity(a, b Severity) Severity {
	if b > a {
		return b
	}
	return a
}

func (s Severity) String() string {
	switch s {
	case SeverityUnset:
		return "unset"
	case SeverityWarning:
		return "warning"
	case SeverityError:
		return "error"
	default:
		return "severity(" + strconv.Itoa(int(s)) + ")"
	}
}

// MarshalText implements encoding.TextMarshaler.
func (s Severity) MarshalText() ([]byte, error) {
	if s < SeverityUnset || s > SeverityError {
		return nil, errors.Errorf("anomalies: invalid severity %d", int(s))
	}
	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *Severity) UnmarshalText(b []byte) error {
	switch string(b) {
	case "unset", "":
		*s = SeverityUnset
	case "warning":
		*s = SeverityWarning
	case "error":
		*s = SeverityError
	default:
		return errors.Errorf("anomalies: unknown severity %q", string(b))
	}
	return nil
}

// Kind tags the cause of a Description. Rule engines may use any value; the
// aggregation logic only distinguishes KindNewColumn.
type Kind string

const (
	KindUnknown       Kind = "unknown"        // Aggregate of several causes.
	KindNewColumn     Kind = "new_column"     // Field observed but not defined.
	KindMissingColumn Kind = "missing_column" // Field defined but not observed.
)

// Pass names one of the builder's traversals.
type Pass string

const (
	PassDiff Pass = "diff"
	PassSkew Pass = "skew"
)
