package anomalies

import (
	"github.com/reoring/anomalies/i18n"
)

// Description is a single anomaly datum attached to a field.
type Description struct {
	Kind      Kind   `json:"type"`
	ShortText string `json:"short_description"`
	LongText  string `json:"description"`
}

// missingDescription is recorded for a defined field absent from the data.
func missingDescription() Description {
	return Description{
		Kind:      KindMissingColumn,
		ShortText: i18n.T(i18n.ColumnDropped, nil),
		LongText:  i18n.T(i18n.ColumnMissing, nil),
	}
}

// Collapse reduces a list made only of KindNewColumn descriptions to its first
// element. A new field with nested sub-fields then reads as a single finding.
// Any other list is returned unchanged.
func Collapse(ds []Description) []Description {
	if len(ds) == 0 {
		return ds
	}
	for _, d := range ds {
		if d.Kind != KindNewColumn {
			return ds
		}
	}
	return ds[:1:1]
}

// Unify folds ds into one summary description. Descriptions with an empty
// long text are skipped once a summary exists; two or more non-empty ones
// yield a KindUnknown "Multiple errors" summary whose long text joins theirs
// with a space.
func Unify(ds []Description) Description {
	var acc Description
	for _, d := range ds {
		switch {
		case acc.LongText == "":
			acc = d
		case d.LongText == "":
		default:
			acc = Description{
				Kind:      KindUnknown,
				ShortText: i18n.T(i18n.MultipleErrors, nil),
				LongText:  acc.LongText + " " + d.LongText,
			}
		}
	}
	return acc
}
