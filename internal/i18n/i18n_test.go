package i18n

import (
	"testing"

	"telecountdown/internal/render"
)

func TestT(t *testing.T) {
	if got := T("fa", "times_up"); got != "زمان به پایان رسید!" {
		t.Errorf("fa times_up = %q", got)
	}
	if got := T("en", "times_up"); got != "Time is up!" {
		t.Errorf("en times_up = %q", got)
	}
	// unsupported language falls back to the default
	if got := T("de", "times_up"); got != T(DefaultLang, "times_up") {
		t.Errorf("fallback = %q", got)
	}
	// unknown key falls back to the key itself
	if got := T("fa", "no_such_key"); got != "no_such_key" {
		t.Errorf("unknown key = %q", got)
	}
}

func TestTokenLabel(t *testing.T) {
	if got := TokenLabel("fa", render.TokenDays); got != "روز" {
		t.Errorf("fa days label = %q", got)
	}
	if got := TokenLabel("en", render.TokenSeconds); got != "seconds" {
		t.Errorf("en seconds label = %q", got)
	}
	if got := TokenLabel("en", "{other}"); got != "{other}" {
		t.Errorf("unknown token label = %q", got)
	}
}

func TestDigits(t *testing.T) {
	tests := []struct {
		lang string
		n    int
		want string
	}{
		{"fa", 0, "۰"},
		{"fa", 1403, "۱۴۰۳"},
		{"fa", 1234567890, "۱۲۳۴۵۶۷۸۹۰"},
		{"fa", -12, "-۱۲"},
		{"en", 1403, "1403"},
		{"de", 7, "7"},
	}
	for _, tt := range tests {
		if got := Digits(tt.lang, tt.n); got != tt.want {
			t.Errorf("Digits(%q, %d) = %q, want %q", tt.lang, tt.n, got, tt.want)
		}
	}
}
