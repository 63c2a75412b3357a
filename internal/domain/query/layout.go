package query

import (
	"strings"
	"unicode"
)

// qwertyToJCUKEN maps each Latin QWERTY key to the Cyrillic letter on the
// same physical key in the ЙЦУКЕН layout, plus the shared punctuation keys.
var qwertyToJCUKEN = map[rune]rune{
	'q': 'й', 'w': 'ц', 'e': 'у', 'r': 'к', 't': 'е', 'y': 'н', 'u': 'г',
	'i': 'ш', 'o': 'щ', 'p': 'з',
	'a': 'ф', 's': 'ы', 'd': 'в', 'f': 'а', 'g': 'п', 'h': 'р', 'j': 'о',
	'k': 'л', 'l': 'д',
	'z': 'я', 'x': 'ч', 'c': 'с', 'v': 'м', 'b': 'и', 'n': 'т', 'm': 'ь',
	'[': 'х', ']': 'ъ', ';': 'ж', '\'': 'э', ',': 'б', '.': 'ю', '/': '.',
}

// layoutTable covers both typing directions. Latin→Cyrillic entries win
// when a character appears on both sides ('.' is a key in one direction
// and a mapped output in the other).
var layoutTable = func() map[rune]rune {
	t := make(map[rune]rune, len(qwertyToJCUKEN)*2)
	for k, v := range qwertyToJCUKEN {
		t[k] = v
	}
	for k, v := range qwertyToJCUKEN {
		if _, ok := t[v]; !ok {
			t[v] = k
		}
	}
	return t
}()

// SwitchLayout replays text as if it had been typed with the other keyboard
// layout active. The substitution is unconditional: downstream ranking
// against the catalog decides which rendering actually matches. Characters
// outside the key table (digits, whitespace) pass through unchanged.
func SwitchLayout(text string) string {
	var b strings.Builder
	b.Grow(len(text))
	for _, r := range text {
		mapped, ok := layoutTable[unicode.ToLower(r)]
		if !ok {
			b.WriteRune(r)
			continue
		}
		if unicode.IsUpper(r) {
			b.WriteRune(unicode.ToUpper(mapped))
		} else {
			b.WriteRune(mapped)
		}
	}
	return b.String()
}
