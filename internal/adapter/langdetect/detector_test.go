package langdetect

import "testing"

func TestDetector_Detect(t *testing.T) {
	t.Parallel()

	d := New([]string{"en", "ru", "ja", "es"})
	if d == nil {
		t.Fatal("New returned nil")
	}

	tests := []struct {
		text string
		want string
	}{
		{"The quick brown fox jumps over the lazy dog", "en"},
		{"Съешь же ещё этих мягких французских булок", "ru"},
		{"ひらがなとカタカナ", "ja"},
	}
	for _, tt := range tests {
		got, ok := d.Detect(tt.text)
		if !ok || got != tt.want {
			t.Errorf("Detect(%q) = %q, %v; want %q", tt.text, got, ok, tt.want)
		}
	}
}

func TestDetector_EmptyText(t *testing.T) {
	t.Parallel()

	d := New([]string{"en", "fr"})
	if _, ok := d.Detect("   "); ok {
		t.Error("blank text should not be detected")
	}
}

func TestDetector_NilSafe(t *testing.T) {
	t.Parallel()

	var d *Detector
	if _, ok := d.Detect("hello"); ok {
		t.Error("nil detector should never detect")
	}
}

func TestNew_TooFewLanguages(t *testing.T) {
	t.Parallel()

	if d := New([]string{"en", "kn", "ml"}); d != nil {
		t.Error("one usable language should yield nil detector")
	}
}

func TestSupported(t *testing.T) {
	t.Parallel()

	if !Supported("ZH-CN") {
		t.Error("zh-cn should be supported")
	}
	if Supported("kn") {
		t.Error("kn has no model")
	}
}
