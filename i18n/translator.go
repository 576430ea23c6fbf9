package i18n

import (
	"sort"
	"strings"
	"sync"
)

// Translator retrieves localized messages for error codes.
// data fills the {placeholders} of the message (for example "struct" or
// "field").
type Translator interface {
	Message(code string, data map[string]string) string
}

// dictTranslator is the built-in dictionary-based Translator.
type dictTranslator struct{ lang string }

var dictionaries = map[string]map[string]string{
	"en": {
		"invalid_name":            "invalid prop name {field} on {struct}: {reason}",
		"duplicate_prop":          "{struct} already declares prop {field}",
		"invalid_option":          "At least one invalid prop arg supplied in {prop}: {keys}",
		"option_key_type":         "prop option keys on {prop} must be identifiers, got {keys}",
		"invalid_type_constraint": "Invalid value for type constraint on {prop}. Must be a type descriptor, struct type or custom type, got {got}",
		"invalid_combination":     "invalid prop declaration {prop}: {reason}",
		"immutable":               "{struct}#{field} cannot be modified",
		"nil_assignment":          "cannot set {struct}#{field} to nil",
		"missing_construct":       "missing required prop {field} for {struct}: not provided",
		"missing_serialize":       "{struct}.{field} not set",
		"missing_load":            "Property {field} is nil",
		"invalid_value":           "invalid value for {struct}.{field}: expected {expected}, got {got}",
		"unknown_key":             "unknown key {field} for {struct}",
		"unknown_prop":            "{struct} has no prop {field}",
		"no_weak_constructor":     "{struct} does not declare a weak constructor",
		"refine":                  "{struct} failed {rule}",
		"duplicate_key":           "duplicate key",
		"parse_error":             "parse error",
		"truncated":               "truncated",
	},
	"ja": {
		"invalid_name":            "{struct} のプロパティ名 {field} が不正です: {reason}",
		"duplicate_prop":          "{struct} はプロパティ {field} を既に宣言しています",
		"invalid_option":          "{prop} に不正なオプションがあります: {keys}",
		"option_key_type":         "{prop} のオプションキーは識別子である必要があります: {keys}",
		"invalid_type_constraint": "{prop} の型制約が不正です: {got}",
		"invalid_combination":     "{prop} の宣言が不正です: {reason}",
		"immutable":               "{struct}#{field} は変更できません",
		"nil_assignment":          "{struct}#{field} に nil は設定できません",
		"missing_construct":       "{struct} の必須プロパティ {field} が指定されていません",
		"missing_serialize":       "{struct}.{field} が設定されていません",
		"missing_load":            "プロパティ {field} が nil です",
		"invalid_value":           "{struct}.{field} の値が不正です: {expected} が必要ですが {got} でした",
		"unknown_key":             "{struct} に未知のキー {field} があります",
		"unknown_prop":            "{struct} にプロパティ {field} はありません",
		"no_weak_constructor":     "{struct} は弱いコンストラクタを宣言していません",
		"refine":                  "{struct} が {rule} を満たしていません",
		"duplicate_key":           "キーが重複しています",
		"parse_error":             "解析エラー",
		"truncated":               "打ち切られました",
	},
}

func (t dictTranslator) Message(code string, data map[string]string) string {
	msg, ok := dictionaries[t.lang][code]
	if !ok {
		msg, ok = dictionaries["en"][code]
	}
	if !ok {
		return code
	}
	return fill(msg, data)
}

// fill substitutes {key} placeholders. Keys are applied in sorted order so
// the result does not depend on map iteration.
func fill(msg string, data map[string]string) string {
	if len(data) == 0 {
		return msg
	}
	keys := make([]string, 0, len(data))
	for k := range data {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	pairs := make([]string, 0, 2*len(keys))
	for _, k := range keys {
		pairs = append(pairs, "{"+k+"}", data[k])
	}
	return strings.NewReplacer(pairs...).Replace(msg)
}

var (
	mu                           = sync.RWMutex{}
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

// T fetches a message for the given code using the current Translator.
func T(code string, data map[string]string) string {
	mu.RLock()
	tr := currentTranslator
	mu.RUnlock()
	return tr.Message(code, data)
}
