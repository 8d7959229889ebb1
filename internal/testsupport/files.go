package testsupport

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
)

// WriteGarbage writes size bytes of 'B' filler to path. Readers that expect a
// structured header reject it, which is what the corrupt-input tests need.
func WriteGarbage(t testing.TB, path string, size int) {
	t.Helper()
	writeBytes(t, path, bytes.Repeat([]byte{'B'}, max(size, 1)))
}

// WriteText writes content to path, creating parent directories.
func WriteText(t testing.TB, path, content string) {
	t.Helper()
	writeBytes(t, path, []byte(content))
}

func writeBytes(t testing.TB, path string, data []byte) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}
