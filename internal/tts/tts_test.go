package tts

import "testing"

func TestNormalizeLang(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"fr", "fr"},
		{"FR", "fr"},
		{"fr-FR", "fr"},
		{"en_US", "en"},
		{" mg ", "mg"},
		{"fra", "fr"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := NormalizeLang(tt.in); got != tt.want {
			t.Errorf("NormalizeLang(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestSpeechLocale(t *testing.T) {
	tests := map[string]string{
		"fr":    "fr-FR",
		"en":    "en-US",
		"ar":    "ar-SA",
		"es":    "es-ES",
		"mg":    "mg",
		"de":    "en-US",
		"":      "en-US",
		"fr-CA": "fr-FR",
	}
	for in, want := range tests {
		if got := SpeechLocale(in); got != want {
			t.Errorf("SpeechLocale(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestDefaultRate(t *testing.T) {
	if DefaultRate("mg") != 0.7 {
		t.Errorf("mg rate: %v", DefaultRate("mg"))
	}
	for _, l := range []string{"fr", "en", "ar", "es"} {
		if DefaultRate(l) != 0.8 {
			t.Errorf("%s rate: %v", l, DefaultRate(l))
		}
	}
}
