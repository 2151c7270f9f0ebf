package i18n

import "strings"

// Message codes used for anomaly texts.
const (
	ColumnDropped          = "column_dropped"
	ColumnMissing          = "column_missing"
	MultipleErrors         = "multiple_errors"
	NewColumn              = "new_column"
	NewColumnLong          = "new_column_long"
	UnexpectedDataType     = "unexpected_data_type"
	UnexpectedDataTypeLong = "unexpected_data_type_long"
	FeatureEmptyLong       = "feature_empty_long"
	LowPresenceLong        = "low_presence_long"
	UnexpectedValues       = "unexpected_values"
	UnexpectedValuesLong   = "unexpected_values_long"
	HighLInfinity          = "high_l_infinity"
	HighLInfinityLong      = "high_l_infinity_long"
)

// Translator retrieves localized messages for message codes.
// data fills {placeholders} in the message (for example, "expected" or
// "actual").
type Translator interface {
	Message(code string, data map[string]string) string
}

// dictTranslator is the built-in dictionary-based Translator.
type dictTranslator struct{ lang string }

var dict = map[string]map[string]string{
	"en": {
		ColumnDropped:          "Column dropped",
		ColumnMissing:          "Column is completely missing",
		MultipleErrors:         "Multiple errors",
		NewColumn:              "New column",
		NewColumnLong:          "New column (column in data but not in schema)",
		UnexpectedDataType:     "Unexpected data type",
		UnexpectedDataTypeLong: "Expected data of type: {expected} but got {actual}",
		FeatureEmptyLong:       "The feature was present in no examples.",
		LowPresenceLong:        "The feature was present in fewer examples than expected: minimum {constraint}, actual {actual}",
		UnexpectedValues:       "Unexpected string values",
		UnexpectedValuesLong:   "Examples contain values missing from the schema: {values}.",
		HighLInfinity:          "High Linfty distance between training and serving",
		HighLInfinityLong:      "The Linfty distance between training and serving is {distance}, above the threshold {threshold}. The feature value with maximum difference is: {value}",
	},
	"ja": {
		ColumnDropped:          "カラムが削除されました",
		ColumnMissing:          "カラムが完全に欠落しています",
		MultipleErrors:         "複数のエラー",
		NewColumn:              "新しいカラム",
		NewColumnLong:          "新しいカラム (データに存在するがスキーマにありません)",
		UnexpectedDataType:     "予期しないデータ型",
		UnexpectedDataTypeLong: "期待した型は {expected} ですが {actual} でした",
		FeatureEmptyLong:       "この特徴量はどの例にも存在しませんでした。",
		LowPresenceLong:        "この特徴量の出現が期待より少ないです: 最小 {constraint}, 実際 {actual}",
		UnexpectedValues:       "予期しない文字列値",
		UnexpectedValuesLong:   "スキーマにない値が含まれています: {values}。",
		HighLInfinity:          "学習とサービングの間の Linfty 距離が大きすぎます",
		HighLInfinityLong:      "学習とサービングの間の Linfty 距離は {distance} で、しきい値 {threshold} を超えています。差が最大の値: {value}",
	},
}

func (t dictTranslator) Message(code string, data map[string]string) string {
	msg, ok := dict[t.lang][code]
	if !ok {
		return code
	}
	return Expand(msg, data)
}

// Expand replaces {key} placeholders in msg with values from data. Unknown
// placeholders are left as is.
func Expand(msg string, data map[string]string) string {
	if len(data) == 0 || !strings.Contains(msg, "{") {
		return msg
	}
	pairs := make([]string, 0, len(data)*2)
	for k, v := range data {
		pairs = append(pairs, "{"+k+"}", v)
	}
	return strings.NewReplacer(pairs...).Replace(msg)
}

var currentTranslator Translator = dictTranslator{lang: "en"}

// SetLanguage switches the built-in Translator language ("en"/"ja").
func SetLanguage(lang string) {
	if lang != "ja" {
		lang = "en"
	}
	currentTranslator = dictTranslator{lang: lang}
}

// SetTranslator replaces the Translator implementation (not limited to the
// dictionary version).
func SetTranslator(tr Translator) {
	if tr == nil {
		currentTranslator = dictTranslator{lang: "en"}
		return
	}
	currentTranslator = tr
}

// T fetches a message for the given code using the current Translator.
func T(code string, data map[string]string) string { return currentTranslator.Message(code, data) }
