package query

import (
	"strings"
	"unicode"
)

// cyrillicToLatin is a phonetic Cyrillic→Latin cluster map. There is no
// reverse direction: Latin input has no entries and passes through as-is.
var cyrillicToLatin = map[rune]string{
	'а': "a", 'б': "b", 'в': "v", 'г': "g", 'д': "d", 'е': "e", 'ё': "e",
	'ж': "zh", 'з': "z", 'и': "i", 'й': "y", 'к': "k", 'л': "l", 'м': "m",
	'н': "n", 'о': "o", 'п': "p", 'р': "r", 'с': "s", 'т': "t", 'у': "u",
	'ф': "f", 'х': "kh", 'ц': "ts", 'ч': "ch", 'ш': "sh", 'щ': "shch",
	'ъ': "", 'ы': "y", 'ь': "", 'э': "e", 'ю': "yu", 'я': "ya",
}

// Transliterate renders Cyrillic text in Latin script. Pure-Latin input
// comes back unchanged, so the function is idempotent.
func Transliterate(text string) string {
	var b strings.Builder
	b.Grow(len(text))
	for _, r := range text {
		mapped, ok := cyrillicToLatin[unicode.ToLower(r)]
		if !ok {
			b.WriteRune(r)
			continue
		}
		if mapped != "" && unicode.IsUpper(r) {
			b.WriteString(strings.ToUpper(mapped[:1]))
			b.WriteString(mapped[1:])
			continue
		}
		b.WriteString(mapped)
	}
	return b.String()
}
