package i18n

import "testing"

func TestTranslator_DefaultAndJapanese(t *testing.T) {
	// default is en
	if msg := T("required", nil); msg == "required" || msg == "" {
		t.Fatalf("expected a human message, got %q", msg)
	}

	SetLanguage("ja")
	if msg := T("required", nil); msg == "required field missing" {
		t.Fatalf("expected japanese message, got %q", msg)
	}

	// reset to en
	SetLanguage("en")
}

func TestTranslator_UnknownCodeFallsBackToCode(t *testing.T) {
	if msg := T("no_such_code", nil); msg != "no_such_code" {
		t.Fatalf("expected code fallback, got %q", msg)
	}
}

type upper struct{}

func (upper) Message(code string, _ map[string]string) string { return "X:" + code }

func TestTranslator_Custom(t *testing.T) {
	SetTranslator(upper{})
	defer SetTranslator(nil)
	if msg := T("required", nil); msg != "X:required" {
		t.Fatalf("custom translator not used, got %q", msg)
	}
}
