package fielddef

import "strings"

// DeriveLabel turns a field name into display text: every underscore and
// hyphen becomes a space and each character that starts a word is upper
// cased. The rest of the name is kept as typed, so "due_date" yields
// "Due Date" and "clientID" yields "ClientID".
func DeriveLabel(name string) string {
	if name == "" {
		return ""
	}
	replaced := strings.Map(func(r rune) rune {
		if r == '_' || r == '-' {
			return ' '
		}
		return r
	}, name)

	var out strings.Builder
	out.Grow(len(replaced))
	prevWord := false
	for _, r := range replaced {
		word := isWordRune(r)
		if word && !prevWord && r >= 'a' && r <= 'z' {
			r -= 'a' - 'A'
		}
		out.WriteRune(r)
		prevWord = word
	}
	return out.String()
}

// isWordRune matches the ASCII word class; anything else is a boundary.
func isWordRune(r rune) bool {
	return r == '_' ||
		(r >= 'a' && r <= 'z') ||
		(r >= 'A' && r <= 'Z') ||
		(r >= '0' && r <= '9')
}
