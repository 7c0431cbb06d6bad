package util

// Character classes of SimpleLang source text. All of them work on single bytes; anything
// outside ASCII falls through to the lexer's unknown-character path.

func IsNumber(b byte) bool {
	return b >= '0' && b <= '9'
}

func IsNumberOrDot(b byte) bool {
	return IsNumber(b) || b == '.'
}

func IsUnderScore(b byte) bool {
	return b == '_'
}

func IsLetter(b byte) bool {
	return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z')
}

func IsLetterOrUnderscore(b byte) bool {
	return IsLetter(b) || IsUnderScore(b)
}

func IsLetterOrUnderscoreOrNumber(b byte) bool {
	return IsLetter(b) || IsUnderScore(b) || IsNumber(b)
}

func IsSpace(b byte) bool {
	switch b {
	case ' ', '\t', '\n', '\r', '\v', '\f':
		return true
	}
	return false
}

// IsOperator reports whether b is a complete single character operator.
// '!' is not one: it only starts "!=".
func IsOperator(b byte) bool {
	switch b {
	case '+', '-', '*', '/', '=', '<', '>':
		return true
	}
	return false
}

// IsExtensibleOperator reports whether b followed by '=' forms a two character operator.
func IsExtensibleOperator(b byte) bool {
	switch b {
	case '=', '!', '<', '>':
		return true
	}
	return false
}

func IsDelimiter(b byte) bool {
	switch b {
	case ';', ',', '(', ')', '{', '}':
		return true
	}
	return false
}
