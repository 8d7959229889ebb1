package wave

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"
)

// DefaultExtensions lists the capture file extensions accepted when the
// caller does not configure its own.
var DefaultExtensions = []string{".trc"}

// Classification failure reasons.
const (
	ReasonExtension = "unsupported extension"
	ReasonNoToken   = "no wave type token"
	ReasonAmbiguous = "multiple wave type tokens"
)

// ClassificationError reports a capture file that could not be routed to a
// wave family. It is recoverable: the file is skipped and the batch goes on.
type ClassificationError struct {
	Filename string
	Reason   string
	Matches  []Type
}

func (e *ClassificationError) Error() string {
	if len(e.Matches) > 0 {
		return fmt.Sprintf("classify %s: %s (%s)", e.Filename, e.Reason, NewSet(e.Matches...))
	}
	return fmt.Sprintf("classify %s: %s", e.Filename, e.Reason)
}

// Classify routes a single filename to a wave type. The extension must be in
// extensions (case-insensitive, nil means DefaultExtensions) and the base name
// must contain exactly one wave token that is not embedded in a longer word:
// the characters on either side of the token must not be letters.
func Classify(filename string, extensions []string) (Type, error) {
	base := filepath.Base(filename)
	ext := filepath.Ext(base)
	if !extensionAllowed(ext, extensions) {
		return "", &ClassificationError{Filename: base, Reason: ReasonExtension}
	}
	stem := strings.TrimSuffix(base, ext)

	var matches []Type
	for _, t := range allTypes {
		if containsToken(stem, string(t)) {
			matches = append(matches, t)
		}
	}
	switch len(matches) {
	case 0:
		return "", &ClassificationError{Filename: base, Reason: ReasonNoToken}
	case 1:
		return matches[0], nil
	default:
		return "", &ClassificationError{Filename: base, Reason: ReasonAmbiguous, Matches: matches}
	}
}

// ClassifyAll runs Classify over a batch. Accepted names are grouped per wave
// type and sorted; every rejection is reported as a *ClassificationError.
func ClassifyAll(filenames []string, extensions []string) (map[Type][]string, []error) {
	grouped := make(map[Type][]string, len(allTypes))
	var errs []error
	for _, name := range filenames {
		t, err := Classify(name, extensions)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		grouped[t] = append(grouped[t], name)
	}
	for t := range grouped {
		sort.Strings(grouped[t])
	}
	return grouped, errs
}

func extensionAllowed(ext string, extensions []string) bool {
	if extensions == nil {
		extensions = DefaultExtensions
	}
	for _, allowed := range extensions {
		allowed = strings.TrimSpace(allowed)
		if allowed == "" {
			continue
		}
		if !strings.HasPrefix(allowed, ".") {
			allowed = "." + allowed
		}
		if strings.EqualFold(ext, allowed) {
			return true
		}
	}
	return false
}

func containsToken(stem, token string) bool {
	for offset := 0; offset <= len(stem)-len(token); {
		idx := strings.Index(stem[offset:], token)
		if idx < 0 {
			return false
		}
		start := offset + idx
		end := start + len(token)
		if (start == 0 || !isLetter(stem[start-1])) && (end == len(stem) || !isLetter(stem[end])) {
			return true
		}
		offset = start + 1
	}
	return false
}

func isLetter(b byte) bool {
	return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z')
}
