/*
 * This file is subject to the terms and conditions defined in
 * file 'LICENSE.md', which is part of this source code package.
 */

package core

// IsWhiteSpace checks if byte represents a PDF whitespace character (TAB,
// LF, FF, CR, SPACE, and NUL).
func IsWhiteSpace(ch byte) bool {
	switch ch {
	case 0x00, 0x09, 0x0A, 0x0C, 0x0D, 0x20:
		return true
	}
	return false
}

// IsFloatDigit checks if a character can be a part of a float number string.
func IsFloatDigit(c byte) bool {
	return IsDecimalDigit(c) || c == '-' || c == '+' || c == '.' || c == 'e' || c == 'E'
}

// IsDecimalDigit checks if the character is a part of a decimal number.
func IsDecimalDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

// IsOctalDigit checks if a byte is an octal digit.
func IsOctalDigit(c byte) bool {
	return c >= '0' && c <= '7'
}

// IsPrintable checks if a character is printable (for debug purposes).
func IsPrintable(c byte) bool {
	return c >= 0x21 && c <= 0x7E
}

// IsDelimiter checks if a character represents a PDF delimiter.
func IsDelimiter(c byte) bool {
	switch c {
	case '(', ')', '<', '>', '[', ']', '{', '}', '/', '%':
		return true
	}
	return false
}
