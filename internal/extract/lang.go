package extract

import (
	"strings"

	wl "github.com/abadojack/whatlanggo"
)

// UndeterminedLanguage is reported when detection is not confident.
const UndeterminedLanguage = "und"

// DetectLanguage returns the ISO 639-1 code of the language text is written in.
func DetectLanguage(text string) string {
	if strings.TrimSpace(text) == "" {
		return UndeterminedLanguage
	}
	info := wl.Detect(text)
	if !info.IsReliable() {
		return UndeterminedLanguage
	}
	code := info.Lang.Iso6391()
	if code == "" {
		return UndeterminedLanguage
	}
	return code
}
