package reconciler

import "strings"

const quote = `"`

// Normalize returns the matching key for a raw identifier: surrounding
// whitespace is trimmed, one enclosing pair of double quotes is removed when
// both ends carry one, and the result is trimmed again so `"C1 "` and `C1`
// share a key. Only one quote layer is removed, so Normalize is idempotent
// only for inputs with at most one enclosing layer: `""C1""` becomes `"C1"`
// and needs a second call to reach `C1`.
//
// The same function is applied to assignment keys, assignment labels and
// observation identifiers; any asymmetry would silently drop matches.
func Normalize(raw string) string {
	s := strings.TrimSpace(raw)
	if len(s) >= 2 && strings.HasPrefix(s, quote) && strings.HasSuffix(s, quote) {
		s = strings.TrimSpace(s[1 : len(s)-1])
	}
	return s
}
