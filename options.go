package anomalies

import (
	"time"

	"github.com/sirupsen/logrus"
)

// Observer receives builder events. Implementations must be safe for use by
// the builders they are attached to.
type Observer interface {
	// RecordCommitted is called when a record enters the committed set.
	RecordCommitted(pass Pass, path Path, severity Severity)
	// PassFinished is called when DiffTree or DetectSkew returns.
	PassFinished(pass Pass, elapsed time.Duration, err error)
}

// Options configures a Builder. When several are passed to NewBuilder the
// last one wins.
type Options struct {
	// Logger receives diagnostics. Defaults to logrus.StandardLogger().
	Logger logrus.FieldLogger
	// Observer, when set, is notified of commits and finished passes.
	Observer Observer
	// SchemaChanges attaches to each report entry the JSON patch that turns
	// the baseline into the entry's schema copy. The schema type must be
	// JSON-marshalable.
	SchemaChanges bool
}

func resolveOptions(opts []Options) Options {
	var opt Options
	if len(opts) > 0 {
		opt = opts[len(opts)-1]
	}
	if opt.Logger == nil {
		opt.Logger = logrus.StandardLogger()
	}
	return opt
}
