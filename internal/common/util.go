package common

import "strings"

// WipeByteArray overwrites b with zeros. Used for passwords read from the
// terminal once they have been sent.
func WipeByteArray(b []byte) {
	for i := range b {
		b[i] = 0
	}
}

// BearerToken formats tok for an Authorization header. An already prefixed
// token is returned unchanged.
func BearerToken(tok string) string {
	tok = strings.TrimSpace(tok)
	if strings.HasPrefix(strings.ToLower(tok), "bearer ") {
		return tok
	}
	return BearerPrefix + tok
}
