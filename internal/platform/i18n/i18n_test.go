package i18n

import (
	"testing"

	"golang.org/x/text/language"
)

func TestParseTag(t *testing.T) {
	tests := []struct {
		name  string
		value string
		want  string
		ok    bool
	}{
		{name: "exact english", value: "en-US", want: "en-US", ok: true},
		{name: "bare english", value: "en", want: "en-US", ok: true},
		{name: "portuguese region", value: "pt-BR", want: "pt-BR", ok: true},
		{name: "blank", value: "  ", want: "en-US", ok: false},
		{name: "garbage", value: "not-a-lang", want: "en-US", ok: false},
		{name: "unsupported", value: "fr", want: "en-US", ok: false},
	}
	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got, ok := ParseTag(tc.value)
			if ok != tc.ok {
				t.Fatalf("ParseTag(%q) ok = %v, want %v", tc.value, ok, tc.ok)
			}
			if got.String() != tc.want {
				t.Fatalf("ParseTag(%q) = %q, want %q", tc.value, got.String(), tc.want)
			}
		})
	}
}

func TestMatchTagsFallsBackToDefault(t *testing.T) {
	if got := MatchTags(nil); got != DefaultTag() {
		t.Fatalf("MatchTags(nil) = %s, want %s", got, DefaultTag())
	}
	got := MatchTags([]language.Tag{language.MustParse("pt-BR"), language.English})
	if got.String() != "pt-BR" {
		t.Fatalf("MatchTags = %s, want pt-BR", got)
	}
}

func TestSupportedTagsReturnsCopy(t *testing.T) {
	tags := SupportedTags()
	tags[0] = language.French
	if DefaultTag().String() != "en-US" {
		t.Fatalf("default tag mutated: %s", DefaultTag())
	}
}
