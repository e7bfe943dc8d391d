package engine

import "strings"

// Normalize reduce una URL de tienda a su dominio canonico: minusculas,
// sin esquema, sin "www.", sin path ni query. Es idempotente.
func Normalize(raw string) string {
	s := strings.ToLower(strings.TrimSpace(raw))
	if s == "" {
		return ""
	}

	s = strings.TrimPrefix(s, "http://")
	s = strings.TrimPrefix(s, "https://")
	s = strings.TrimPrefix(s, "www.")

	if i := strings.IndexByte(s, '/'); i != -1 {
		s = s[:i]
	}
	if i := strings.IndexByte(s, '?'); i != -1 {
		s = s[:i]
	}

	return s
}
