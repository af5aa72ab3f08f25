package draws

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"
	"golang.org/x/text/width"
)

// rankSynonyms maps alternative spellings (Latin and Hebrew letters, with and
// without geresh marks) to a single canonical rank token.
var rankSynonyms = map[string]string{
	"10": "10", "ט": "10",
	"J": "J", "ג": "J", "ג׳": "J", "ג'": "J", `ג"`: "J", "ג״": "J",
	"Q": "Q", "ק": "Q", "ק׳": "Q", "ק'": "Q",
	"K": "K", "כ": "K", "כ׳": "K", "כ'": "K",
	"A": "A", "א": "A",
}

// Normalize maps a raw card value to its canonical rank token. Blank input
// yields "". Tokens outside the synonym table (e.g. ranks 2-9) pass through
// uppercased.
func Normalize(raw string) string {
	s := strings.TrimSpace(raw)
	if s == "" {
		return ""
	}
	s = width.Fold.String(norm.NFC.String(s))
	s = cases.Upper(language.Und).String(s)
	if canon, ok := rankSynonyms[s]; ok {
		return canon
	}
	return s
}
