package domain

import "testing"

func TestNewLanguageRegistry_Defaults(t *testing.T) {
	t.Parallel()

	r, err := NewLanguageRegistry(nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	langs := r.Languages()
	if len(langs) != 20 {
		t.Fatalf("len(Languages) = %d, want 20", len(langs))
	}
	if langs[0] != DefaultLanguage {
		t.Errorf("first language = %+v, want %+v", langs[0], DefaultLanguage)
	}
	if name, ok := r.Name("zh-cn"); !ok || name != "Chinese (Simplified)" {
		t.Errorf("Name(zh-cn) = %q, %v", name, ok)
	}
	if r.Has("xx") {
		t.Error("Has(xx) = true, want false")
	}
	if codes := r.Codes(); len(codes) != 20 || codes[9] != "zh-cn" {
		t.Errorf("Codes() = %v", codes)
	}
}

func TestNewLanguageRegistry_CustomCodes(t *testing.T) {
	t.Parallel()

	r, err := NewLanguageRegistry([]string{" EN ", "sv", "es", "sv", ""})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	langs := r.Languages()
	if len(langs) != 3 {
		t.Fatalf("len(Languages) = %d, want 3 (duplicates and blanks dropped): %+v", len(langs), langs)
	}
	if langs[0].Code != "en" || langs[1].Code != "sv" || langs[2].Code != "es" {
		t.Errorf("order not preserved: %+v", langs)
	}
	if name, _ := r.Name("sv"); name != "Swedish" {
		t.Errorf("Name(sv) = %q, want Swedish", name)
	}
}

func TestNewLanguageRegistry_InvalidCode(t *testing.T) {
	t.Parallel()

	if _, err := NewLanguageRegistry([]string{"en", "!!"}); err == nil {
		t.Fatal("expected error for malformed language tag")
	}
}

func TestSupportedLanguages_ReturnsCopy(t *testing.T) {
	t.Parallel()

	a := SupportedLanguages()
	a[0].Name = "changed"

	if b := SupportedLanguages(); b[0].Name != "English" {
		t.Errorf("SupportedLanguages leaked internal slice: %q", b[0].Name)
	}
}
