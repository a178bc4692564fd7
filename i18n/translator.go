package i18n

import (
	"strings"
	"sync"

	"golang.org/x/text/language"
)

// Translator retrieves localized message templates for method keys.
// Templates use [placeholder] markers; data supplies the substitutions
// (for example "valueName", "value", "max").
type Translator interface {
	Message(key string, data map[string]string) string
}

// dictTranslator is the built-in dictionary-based Translator.
type dictTranslator struct{ lang string }

var dictionaries = map[string]map[string]string{
	"en": {
		"required":    "[valueName] is required",
		"string":      "[valueName] must be a string, received [value]",
		"number":      "[valueName] must be a number, received [value]",
		"bigInt":      "[valueName] must be a bigint, received [value]",
		"boolean":     "[valueName] must be a boolean, received [value]",
		"date":        "[valueName] must be a valid date, received [value]",
		"buffer":      "[valueName] must be a buffer, received [value]",
		"function":    "[valueName] must be a function, received [value]",
		"any":         "[valueName] must be a value, received [value]",
		"array":       "[valueName] must be an array, received [value]",
		"object":      "[valueName] must be an object, received [value]",
		"union":       "[valueName] does not match any of the allowed schemas",
		"min":         "[valueName] must be greater than or equal to [min], received [value]",
		"max":         "[valueName] must be less than or equal to [max], received [value]",
		"min.length":  "[valueName] must contain at least [min] items, received [length]",
		"max.length":  "[valueName] must contain at most [max] items, received [length]",
		"min.date":    "[valueName] must be on or after [min], received [value]",
		"max.date":    "[valueName] must be on or before [max], received [value]",
		"minLength":   "[valueName] must have at least [minLength] characters, received [length]",
		"maxLength":   "[valueName] must have at most [maxLength] characters, received [length]",
		"minWord":     "[valueName] must have at least [minWord] words, received [words]",
		"maxWord":     "[valueName] must have at most [maxWord] words, received [words]",
		"email":       "[valueName] must be a valid email address, received [value]",
		"UUID":        "[valueName] must be a valid UUID, received [value]",
		"UUIDVersion": "[valueName] must be a valid version [version] UUID, received [value]",
		"regex":       "[valueName] must match [regex], received [value]",
		"time":        "[valueName] must be a valid time (HH:MM or HH:MM:SS), received [value]",
		"integer":     "[valueName] must be an integer, received [value]",
		"float":       "[valueName] must be a float, received [value]",
		"positive":    "[valueName] must be positive, received [value]",
		"negative":    "[valueName] must be negative, received [value]",
		"oneOf":       "[valueName] must be one of [oneOf], received [value]",
		"equal":       "[valueName] must be equal to [equal], received [value]",
		"notEqual":    "[valueName] must not be equal to [notEqual]",
		"custom":      "[valueName] failed custom validation",
		"parseTo":     "[valueName] cannot be converted to [type], received [value]",
		"unknownKey":  "[valueName] is not an allowed key",
	},
	"ja": {
		"required":    "[valueName] は必須です",
		"string":      "[valueName] は文字列である必要があります (受信値: [value])",
		"number":      "[valueName] は数値である必要があります (受信値: [value])",
		"bigInt":      "[valueName] は bigint である必要があります (受信値: [value])",
		"boolean":     "[valueName] は真偽値である必要があります (受信値: [value])",
		"date":        "[valueName] は有効な日付である必要があります (受信値: [value])",
		"buffer":      "[valueName] はバッファである必要があります (受信値: [value])",
		"function":    "[valueName] は関数である必要があります (受信値: [value])",
		"array":       "[valueName] は配列である必要があります (受信値: [value])",
		"object":      "[valueName] はオブジェクトである必要があります (受信値: [value])",
		"union":       "[valueName] は許可されたスキーマのいずれにも一致しません",
		"min":         "[valueName] は [min] 以上である必要があります (受信値: [value])",
		"max":         "[valueName] は [max] 以下である必要があります (受信値: [value])",
		"min.length":  "[valueName] は [min] 件以上の要素が必要です (受信: [length])",
		"max.length":  "[valueName] は [max] 件以下の要素である必要があります (受信: [length])",
		"minLength":   "[valueName] は [minLength] 文字以上である必要があります",
		"maxLength":   "[valueName] は [maxLength] 文字以下である必要があります",
		"email":       "[valueName] は有効なメールアドレスである必要があります",
		"UUID":        "[valueName] は有効な UUID である必要があります",
		"regex":       "[valueName] は [regex] に一致する必要があります",
		"integer":     "[valueName] は整数である必要があります",
		"oneOf":       "[valueName] は [oneOf] のいずれかである必要があります",
		"equal":       "[valueName] は [equal] と等しい必要があります",
		"notEqual":    "[valueName] は [notEqual] と等しくてはいけません",
		"parseTo":     "[valueName] は [type] に変換できません",
		"unknownKey":  "[valueName] は許可されていないキーです",
		"custom":      "[valueName] はカスタム検証に失敗しました",
	},
}

func (t dictTranslator) Message(key string, data map[string]string) string {
	if tmpl, ok := dictionaries[t.lang][key]; ok {
		return Format(tmpl, data)
	}
	// Untranslated keys fall back to English.
	if tmpl, ok := dictionaries["en"][key]; ok {
		return Format(tmpl, data)
	}
	return Format("[valueName] is invalid", data)
}

var (
	mu                sync.RWMutex
	currentTranslator Translator = dictTranslator{lang: "en"}
)

var matcher = language.NewMatcher([]language.Tag{language.English, language.Japanese})

// SetLanguage switches the built-in Translator to the dictionary that best
// matches the BCP 47 tag lang ("ja", "ja-JP", "en-GB"). Unsupported or
// malformed tags select English.
func SetLanguage(lang string) {
	tag, _ := language.MatchStrings(matcher, lang)
	base, _ := tag.Base()
	SetTranslator(dictTranslator{lang: base.String()})
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

// T renders the message for key using the current Translator.
func T(key string, data map[string]string) string {
	mu.RLock()
	tr := currentTranslator
	mu.RUnlock()
	return tr.Message(key, data)
}

// Format substitutes every [name] marker in tmpl with data[name]. Unknown
// markers are left untouched.
func Format(tmpl string, data map[string]string) string {
	if len(data) == 0 || !strings.Contains(tmpl, "[") {
		return tmpl
	}
	pairs := make([]string, 0, len(data)*2)
	for k, v := range data {
		pairs = append(pairs, "["+k+"]", v)
	}
	return strings.NewReplacer(pairs...).Replace(tmpl)
}
