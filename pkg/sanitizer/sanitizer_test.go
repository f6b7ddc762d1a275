package sanitizer

import "testing"

func TestTrimAndNormalize(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"trim spaces", "  New York  ", "New York"},
		{"collapse inner spaces", "New    York", "New York"},
		{"tabs and newlines", "New\t\nYork", "New York"},
		{"empty string", "", ""},
		{"only whitespace", "   \t\n  ", ""},
		{"unicode preserved", " Zürich HB ", "Zürich HB"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := TrimAndNormalize(tt.input); got != tt.want {
				t.Errorf("TrimAndNormalize(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestSanitizeStation_KeepsCase(t *testing.T) {
	if got := SanitizeStation("  NYC "); got != "NYC" {
		t.Errorf("SanitizeStation() = %q, want %q", got, "NYC")
	}
	if got := SanitizeStation("nyc"); got != "nyc" {
		t.Errorf("SanitizeStation() = %q, want %q", got, "nyc")
	}
}

func TestSanitizeStation_StripsControlCharacters(t *testing.T) {
	if got := SanitizeStation("Bos\x00ton\x7f "); got != "Boston" {
		t.Errorf("SanitizeStation() = %q, want %q", got, "Boston")
	}
}

func TestSanitizeEmail(t *testing.T) {
	if got := SanitizeEmail("  Alice@Example.COM "); got != "alice@example.com" {
		t.Errorf("SanitizeEmail() = %q", got)
	}
}

func TestSanitizeUserName(t *testing.T) {
	if got := SanitizeUserName("\talice "); got != "alice" {
		t.Errorf("SanitizeUserName() = %q", got)
	}
}

func TestIdempotent(t *testing.T) {
	fns := map[string]Strategy{
		"station":  SanitizeStation,
		"username": SanitizeUserName,
		"email":    SanitizeEmail,
		"date":     SanitizeDate,
	}
	inputs := []string{"  Boston  South ", " Bob@X.io", "2024-05-01 ", ""}

	for name, fn := range fns {
		for _, in := range inputs {
			once := fn(in)
			if twice := fn(once); twice != once {
				t.Errorf("%s not idempotent for %q: %q then %q", name, in, once, twice)
			}
		}
	}
}

func TestPipeline_AppliesInOrder(t *testing.T) {
	p := Pipeline{
		func(s string) string { return s + "a" },
		func(s string) string { return s + "b" },
	}
	if got := p.Apply("x"); got != "xab" {
		t.Errorf("Apply() = %q, want %q", got, "xab")
	}
}
