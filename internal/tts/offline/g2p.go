package offline

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var digraphs = strings.NewReplacer(
	"ny", "ɲ",
	"ng", "ŋ",
	"ts", "ʦ",
)

var phonemes = map[rune]string{
	'j':  "ʒ",
	'-':  "|",
	' ':  "|",
	'\'': "",
}

// normalize lowercases s, strips diacritics and replaces every character
// outside [a-z' -] with a space.
func normalize(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)))
	folded, _, err := transform.String(t, strings.ToLower(s))
	if err != nil {
		folded = strings.ToLower(s)
	}

	var b strings.Builder
	for _, r := range folded {
		switch {
		case r >= 'a' && r <= 'z', r == '\'', r == '-', r == ' ':
			b.WriteRune(r)
		default:
			b.WriteByte(' ')
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

// G2P converts Malagasy orthography to a space-separated phoneme string.
// Word boundaries become "|".
//
//	G2P("Manao ahoana") == "m a n a o | a h o a n a"
func G2P(text string) string {
	s := digraphs.Replace(normalize(text))

	out := make([]string, 0, len(s))
	for _, r := range s {
		if p, ok := phonemes[r]; ok {
			if p != "" {
				out = append(out, p)
			}
			continue
		}
		out = append(out, string(r))
	}
	return strings.Join(out, " ")
}
