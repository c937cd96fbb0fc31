package drafts

import (
	"regexp"
	"strconv"
	"strings"
)

var maxCharsPattern = regexp.MustCompile(
	`(?i)\b(?:max(?:imum)?\.?|at most|under|no more than|up to)\s*(\d+)\s*(?:characters|chars?)\b`,
)

// ParseMaxChars extracts a character limit such as "max 50 chars" from
// reviewer instructions.
func ParseMaxChars(instructions string) (int, bool) {
	m := maxCharsPattern.FindStringSubmatch(instructions)
	if m == nil {
		return 0, false
	}
	n, err := strconv.Atoi(m[1])
	if err != nil || n <= 0 {
		return 0, false
	}
	return n, true
}

// Truncate shortens s to at most n characters and trims trailing
// whitespace. A non-positive n leaves s unchanged.
func Truncate(s string, n int) string {
	if n <= 0 {
		return s
	}
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return strings.TrimRight(string(r[:n]), " \t\r\n")
}

// EnsureSignature appends signature unless the draft already ends with it.
func EnsureSignature(draft, signature string) string {
	draft = strings.TrimRight(draft, " \t\r\n")
	signature = strings.TrimSpace(signature)
	if signature == "" || strings.HasSuffix(draft, signature) {
		return draft
	}
	if draft == "" {
		return signature
	}
	return draft + "\n\n" + signature
}

// Render applies the signature and length rules to a generated draft. The
// length limit wins over the signature.
func Render(draft, signature string, maxChars int) string {
	return Truncate(EnsureSignature(draft, signature), maxChars)
}
