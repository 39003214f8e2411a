package i18n

import "sync"

// Translator retrieves localized messages for error codes.
// data provides optional metadata to embed in the message (for example,
// "member").
type Translator interface {
	Message(code string, data map[string]string) string
}

// dictTranslator is the built-in dictionary-based Translator.
type dictTranslator struct{ lang string }

var dictionaries = map[string]map[string]string{
	"en": {
		"invalid_type":           "invalid type",
		"required":               "required property missing",
		"unknown_key":            "unknown key",
		"duplicate_key":          "duplicate key",
		"null_not_allowed":       "null is not allowed",
		"invalid_enum":           "unknown enumeration value",
		"invalid_format":         "invalid format",
		"parse_error":            "parse error",
		"overflow":               "number out of range",
		"truncated":              "truncated",
		"constructor_failed":     "constructor failed",
		"codec_unresolved":       "no usable codec",
		"unsupported_type":       "unsupported type",
		"missing_constructor":    "no matching constructor",
		"ambiguous_constructor":  "ambiguous constructors",
		"unmatched_parameter":    "constructor parameter matches no member",
		"duplicate_registration": "already configured",
		"unknown_member":         "unknown member",
		"invalid_schema":         "invalid schema",
	},
	"ja": {
		"invalid_type":           "型が不正です",
		"required":               "必須プロパティが不足しています",
		"unknown_key":            "未知のキーです",
		"duplicate_key":          "キーが重複しています",
		"null_not_allowed":       "null は許可されていません",
		"invalid_enum":           "列挙値が不正です",
		"invalid_format":         "形式が不正です",
		"parse_error":            "解析エラー",
		"overflow":               "数値が範囲外です",
		"truncated":              "打ち切られました",
		"constructor_failed":     "コンストラクタが失敗しました",
		"codec_unresolved":       "利用できるコーデックがありません",
		"unsupported_type":       "未対応の型です",
		"missing_constructor":    "一致するコンストラクタがありません",
		"ambiguous_constructor":  "コンストラクタが曖昧です",
		"unmatched_parameter":    "パラメータに対応するメンバーがありません",
		"duplicate_registration": "既に設定されています",
		"unknown_member":         "未知のメンバーです",
		"invalid_schema":         "スキーマが不正です",
	},
}

func (t dictTranslator) Message(code string, data map[string]string) string {
	if msg, ok := dictionaries[t.lang][code]; ok {
		return msg
	}
	return code
}

var (
	mu                sync.RWMutex
	currentTranslator Translator = dictTranslator{lang: "en"}
)

// SetLanguage switches the built-in Translator language ("en"/"ja").
func SetLanguage(lang string) {
	if _, ok := dictionaries[lang]; !ok {
		lang = "en"
	}
	SetTranslator(dictTranslator{lang: lang})
}

// SetTranslator replaces the Translator implementation (not limited to the
// dictionary version). Nil restores English.
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
