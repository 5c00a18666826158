package quizgen

import (
	"fmt"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/language/display"
)

var supported = []language.Tag{
	language.English,
	language.Indonesian,
	language.Spanish,
	language.French,
	language.German,
	language.Portuguese,
	language.Italian,
	language.Dutch,
	language.Japanese,
	language.Korean,
	language.SimplifiedChinese,
	language.Arabic,
	language.Russian,
	language.Hindi,
	language.Thai,
	language.Vietnamese,
}

var matcher = language.NewMatcher(supported)

// SupportedLanguages lists the codes accepted by Translate.
func SupportedLanguages() []string {
	out := make([]string, len(supported))
	for i, t := range supported {
		out[i] = t.String()
	}
	return out
}

// ResolveLanguage maps a BCP 47 code onto a supported language and returns
// its English name, e.g. "pt-BR" to Portuguese.
func ResolveLanguage(code string) (language.Tag, string, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return language.Und, "", fmt.Errorf("empty language code: %w", ErrUnsupportedLanguage)
	}

	tag, err := language.Parse(code)
	if err != nil {
		return language.Und, "", fmt.Errorf("%q: %v: %w", code, err, ErrUnsupportedLanguage)
	}

	_, idx, conf := matcher.Match(tag)
	if conf < language.High {
		return language.Und, "", fmt.Errorf("%q: %w", code, ErrUnsupportedLanguage)
	}

	match := supported[idx]
	return match, display.English.Tags().Name(match), nil
}
