package i18n

import (
	"strings"
	"sync"
)

// Message IDs used by the validation engine.
const (
	MsgExpectedType     = "expected_type"
	MsgExpectedValue    = "expected_value"
	MsgEnumMismatch     = "enum_mismatch"
	MsgTooSmall         = "too_small"
	MsgTooBig           = "too_big"
	MsgNotMultiple      = "not_multiple"
	MsgStringTooShort   = "string_too_short"
	MsgStringTooLong    = "string_too_long"
	MsgArrayTooShort    = "array_too_short"
	MsgArrayTooLong     = "array_too_long"
	MsgPatternMismatch  = "pattern_mismatch"
	MsgInvalidFormat    = "invalid_format"
	MsgMissingKey       = "missing_key"
	MsgTooFewProperties = "too_few_props"
	MsgUnionMismatch    = "union_mismatch"
)

// Translator retrieves localized messages for message IDs.
// data provides optional values interpolated into the message as {name}
// placeholders (for example "expected" or "key").
type Translator interface {
	Message(id string, data map[string]string) string
}

// dictTranslator is the built-in dictionary-based Translator.
type dictTranslator struct{ lang string }

var dict = map[string]map[string]string{
	"en": {
		MsgExpectedType:     "Expected {expected}",
		MsgExpectedValue:    "Expected value",
		MsgEnumMismatch:     "Enum mismatch",
		MsgTooSmall:         "Too small",
		MsgTooBig:           "Too big",
		MsgNotMultiple:      "Not a multiple of {step}",
		MsgStringTooShort:   "String too short",
		MsgStringTooLong:    "String too long",
		MsgArrayTooShort:    "Array too short",
		MsgArrayTooLong:     "Array too long",
		MsgPatternMismatch:  "Pattern mismatch",
		MsgInvalidFormat:    "Invalid {format}",
		MsgMissingKey:       "Missing `{key}`",
		MsgTooFewProperties: "Too few props",
		MsgUnionMismatch:    "Union mismatch",
	},
	"ja": {
		MsgExpectedType:     "{expected} が必要です",
		MsgExpectedValue:    "値が必要です",
		MsgEnumMismatch:     "列挙値に含まれません",
		MsgTooSmall:         "小さすぎます",
		MsgTooBig:           "大きすぎます",
		MsgNotMultiple:      "{step} の倍数ではありません",
		MsgStringTooShort:   "文字列が短すぎます",
		MsgStringTooLong:    "文字列が長すぎます",
		MsgArrayTooShort:    "配列が短すぎます",
		MsgArrayTooLong:     "配列が長すぎます",
		MsgPatternMismatch:  "パターンに一致しません",
		MsgInvalidFormat:    "{format} 形式ではありません",
		MsgMissingKey:       "`{key}` がありません",
		MsgTooFewProperties: "プロパティが少なすぎます",
		MsgUnionMismatch:    "いずれの型にも一致しません",
	},
}

func (t dictTranslator) Message(id string, data map[string]string) string {
	msg, ok := dict[t.lang][id]
	if !ok {
		return id
	}
	return interpolate(msg, data)
}

func interpolate(msg string, data map[string]string) string {
	if len(data) == 0 || !strings.Contains(msg, "{") {
		return msg
	}
	for k, v := range data {
		msg = strings.ReplaceAll(msg, "{"+k+"}", v)
	}
	return msg
}

var (
	mu                sync.RWMutex
	currentTranslator Translator = dictTranslator{lang: "en"}
)

// SetLanguage switches the built-in Translator language ("en"/"ja").
func SetLanguage(lang string) {
	if lang != "ja" {
		lang = "en"
	}
	SetTranslator(dictTranslator{lang: lang})
}

// SetTranslator replaces the Translator implementation (not limited to the
// dictionary version).
func SetTranslator(tr Translator) {
	if tr == nil {
		tr = dictTranslator{lang: "en"}
	}
	mu.Lock()
	currentTranslator = tr
	mu.Unlock()
}

// T fetches a message for the given ID using the current Translator.
func T(id string, data map[string]string) string {
	mu.RLock()
	tr := currentTranslator
	mu.RUnlock()
	return tr.Message(id, data)
}
