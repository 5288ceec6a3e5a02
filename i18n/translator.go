package i18n

// Translator retrieves localized messages for Issue codes.
// data provides optional metadata to embed in the message (for example,
// "field" or "parent").
type Translator interface {
	Message(code string, data map[string]string) string
}

// dictTranslator is the built-in dictionary-based Translator.
type dictTranslator struct{ lang string }

func (t dictTranslator) Message(code string, data map[string]string) string {
	switch t.lang {
	case "ja":
		switch code {
		case "required":
			return "必須フィールドが不足しています"
		case "unknown_field":
			return "スキーマに存在しないフィールドです"
		case "not_container":
			return "値はコンテナではありません"
		case "invalid_index":
			return "リストのインデックスが不正です"
		case "invalid_path":
			return "パスに空のセグメントがあります"
		case "already_registered":
			return "フィールドモデルは別の親に登録済みです"
		case "invalid_schema":
			return "スキーマ定義が不正です"
		case "parse_error":
			return "解析エラー"
		}
	default: // "en"
		switch code {
		case "required":
			return "required field missing"
		case "unknown_field":
			return "field not declared by the schema"
		case "not_container":
			return "value is not a container"
		case "invalid_index":
			return "invalid list index"
		case "invalid_path":
			return "path has an empty segment"
		case "already_registered":
			return "field model already registered under another parent"
		case "invalid_schema":
			return "invalid schema declaration"
		case "parse_error":
			return "parse error"
		}
	}
	return code
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
