package i18n

import "fmt"

// Translator retrieves localized messages for Issue codes.
// data provides optional metadata to embed in the message (for example,
// "expected" or "key").
type Translator interface {
	Message(code string, data map[string]string) string
}

// dictTranslator is the built-in dictionary-based Translator.
type dictTranslator struct{ lang string }

func (t dictTranslator) Message(code string, data map[string]string) string {
	msg := t.base(code)
	if msg == "" {
		return code
	}
	switch {
	case data["key"] != "":
		return fmt.Sprintf("%s: %q", msg, data["key"])
	case data["expected"] != "":
		return fmt.Sprintf("%s (%s)", msg, data["expected"])
	case data["detail"] != "":
		return fmt.Sprintf("%s: %s", msg, data["detail"])
	}
	return msg
}

func (t dictTranslator) base(code string) string {
	switch t.lang {
	case "ja":
		switch code {
		case "parse_error":
			return "解析エラー"
		case "duplicate_key":
			return "キーが重複しています"
		case "invalid_type":
			return "型が不正です"
		case "unknown_key":
			return "未知のキーです"
		case "invalid_form":
			return "スキーマの形式が不正です"
		case "invalid_enum":
			return "列挙値が不正です"
		case "overlapping_properties":
			return "必須と任意のプロパティが重複しています"
		case "invalid_discriminator":
			return "判別子が不正です"
		case "unresolved_ref":
			return "参照先の定義がありません"
		case "invalid_definitions":
			return "definitions が不正です"
		case "required":
			return "必須プロパティが不足しています"
		case "out_of_range":
			return "範囲外の値です"
		case "invalid_format":
			return "形式が不正です"
		case "discriminator_missing":
			return "判別子プロパティがありません"
		case "discriminator_unknown":
			return "未知の判別子の値です"
		}
	default: // "en"
		switch code {
		case "parse_error":
			return "parse error"
		case "duplicate_key":
			return "duplicate key"
		case "invalid_type":
			return "invalid type"
		case "unknown_key":
			return "unknown key"
		case "invalid_form":
			return "invalid schema form"
		case "invalid_enum":
			return "invalid enum"
		case "overlapping_properties":
			return "property is both required and optional"
		case "invalid_discriminator":
			return "invalid discriminator"
		case "unresolved_ref":
			return "ref has no matching definition"
		case "invalid_definitions":
			return "invalid definitions"
		case "required":
			return "required property missing"
		case "out_of_range":
			return "value out of range"
		case "invalid_format":
			return "invalid format"
		case "discriminator_missing":
			return "discriminator tag missing"
		case "discriminator_unknown":
			return "unknown discriminator value"
		}
	}
	return ""
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
