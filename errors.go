package anomalies

import (
	"fmt"

	"github.com/pkg/errors"
)

var (
	// ErrNilRuleEngine is returned when a pass is started without a RuleEngine.
	ErrNilRuleEngine = errors.New("anomalies: nil rule engine")
	// ErrNilStatistics is returned when a pass is started without statistics.
	ErrNilStatistics = errors.New("anomalies: nil statistics")
)

// CloneError reports that the baseline schema could not be copied for a path.
// The path is empty when the failure happened while snapshotting the baseline.
type CloneError struct {
	Path Path
	Err  error
}

func (e *CloneError) Error() string {
	if e.Path.IsEmpty() {
		return fmt.Sprintf("anomalies: clone baseline: %v", e.Err)
	}
	return fmt.Sprintf("anomalies: clone baseline for %s: %v", e.Path.Serialize(), e.Err)
}

func (e *CloneError) Unwrap() error { return e.Err }

// Cause implements the github.com/pkg/errors causer interface.
func (e *CloneError) Cause() error { return e.Err }

// RuleEngineError reports a failed RuleEngine call. Op is one of "validate",
// "create_recursively" or "compare_skew".
type RuleEngineError struct {
	Op   string
	Path Path
	Err  error
}

func (e *RuleEngineError) Error() string {
	return fmt.Sprintf("anomalies: %s %s: %v", e.Op, e.Path.Serialize(), e.Err)
}

func (e *RuleEngineError) Unwrap() error { return e.Err }

// Cause implements the github.com/pkg/errors causer interface.
func (e *RuleEngineError) Cause() error { return e.Err }

const (
	opValidate          = "validate"
	opCreateRecursively = "create_recursively"
	opCompareSkew       = "compare_skew"
)

func newCloneError(p Path, err error) error {
	return errors.WithStack(&CloneError{Path: p, Err: err})
}

func newRuleEngineError(op string, p Path, err error) error {
	return errors.WithStack(&RuleEngineError{Op: op, Path: p, Err: err})
}

// AsCloneError extracts a *CloneError from err using errors.As.
func AsCloneError(err error) (*CloneError, bool) {
	if err == nil {
		return nil, false
	}
	var ce *CloneError
	if errors.As(err, &ce) {
		return ce, true
	}
	return nil, false
}

// AsRuleEngineError extracts a *RuleEngineError from err using errors.As.
func AsRuleEngineError(err error) (*RuleEngineError, bool) {
	if err == nil {
		return nil, false
	}
	var re *RuleEngineError
	if errors.As(err, &re) {
		return re, true
	}
	return nil, false
}
