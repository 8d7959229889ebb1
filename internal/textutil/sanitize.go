package textutil

import (
	"strings"
	"unicode"
)

// FileToken turns a dataset id into a file-name component. Letters and
// digits are kept (lowercased), '-' and '.' survive inside the token, and any
// other run of characters collapses to a single '_'. Empty results become
// "dataset".
func FileToken(id string) string {
	var b strings.Builder
	pendingSep := false
	for _, r := range strings.TrimSpace(id) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			if pendingSep && b.Len() > 0 {
				b.WriteByte('_')
			}
			pendingSep = false
			b.WriteRune(unicode.ToLower(r))
		case (r == '-' || r == '.') && !pendingSep && b.Len() > 0:
			b.WriteRune(r)
		default:
			pendingSep = true
		}
	}
	out := strings.TrimRight(b.String(), "-.")
	if out == "" {
		return "dataset"
	}
	return out
}
