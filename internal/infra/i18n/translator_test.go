package i18n_test

import (
	"strings"
	"testing"
	"testing/fstest"

	"telegram-channel-gate/internal/infra/i18n"
)

func TestTranslatorEmbeddedLocale(t *testing.T) {
	tr, err := i18n.NewTranslator(i18n.LocalesFS, "uz")
	if err != nil {
		t.Fatalf("NewTranslator: %v", err)
	}

	if got := tr.T("trigger_post"); !strings.Contains(got, "Post") {
		t.Errorf("trigger_post = %q", got)
	}
	report := tr.T("post_report", 9, 10, 1)
	if !strings.Contains(report, "9/10") {
		t.Errorf("post_report did not format counts: %q", report)
	}
}

func TestTranslatorFallbacks(t *testing.T) {
	fsys := fstest.MapFS{
		"locales/en.yaml": {Data: []byte("greeting: \"Hello, %s!\"\n")},
	}

	tr, err := i18n.NewTranslator(fsys, "en")
	if err != nil {
		t.Fatalf("NewTranslator: %v", err)
	}

	if got := tr.T("greeting", "World"); got != "Hello, World!" {
		t.Errorf("greeting = %q", got)
	}
	if got := tr.T("no_such_key"); got != "no_such_key" {
		t.Errorf("unknown key should fall back to itself, got %q", got)
	}
}

func TestTranslatorMissingLocale(t *testing.T) {
	if _, err := i18n.NewTranslator(fstest.MapFS{}, "de"); err == nil {
		t.Fatal("expected an error for a missing locale file")
	}
}
