// Package textinput holds the rune-safe edits shared by the console and the panel's text fields.
package textinput

import "unicode/utf8"

// Backspace removes the last rune of s.
func Backspace(s string) string {
	_, size := utf8.DecodeLastRuneInString(s)
	return s[:len(s)-size]
}

// DropFirst removes the first rune of s.
func DropFirst(s string) string {
	_, size := utf8.DecodeRuneInString(s)
	return s[size:]
}
