// Package artifact implements the existence-based cache for pipeline outputs.
//
// A file at its final path is trusted as complete. Writers produce a sibling
// temporary file and rename it into place, so a failed stage never leaves a
// truncated artifact behind.
package artifact

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// Exists reports whether path is present as a regular file.
func Exists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return info.Mode().IsRegular()
}

// EnsureDir creates dir and its parents if needed.
func EnsureDir(dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create directory %s: %w", dir, err)
	}
	return nil
}

// TempPath is the in-progress name for path. The extension is kept last so tools
// that infer the format from it (ffmpeg) still work.
func TempPath(path string) string {
	ext := filepath.Ext(path)
	return path[:len(path)-len(ext)] + ".partial" + ext
}

// Commit moves a finished temporary file to its final path.
func Commit(tmp, path string) error {
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("commit %s: %w", path, err)
	}
	return nil
}

// Discard removes a temporary file, ignoring a missing one.
func Discard(tmp string) {
	_ = os.Remove(tmp)
}

// WriteStream copies r into path via a temporary file.
func WriteStream(path string, r io.Reader) (int64, error) {
	tmp := TempPath(path)
	f, err := os.Create(tmp)
	if err != nil {
		return 0, fmt.Errorf("create %s: %w", tmp, err)
	}
	n, err := io.Copy(f, r)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		Discard(tmp)
		return n, fmt.Errorf("write %s: %w", path, err)
	}
	return n, Commit(tmp, path)
}

// WritePrettyJSON indents raw JSON and writes it to path via a temporary file.
func WritePrettyJSON(path string, raw []byte) error {
	var buf bytes.Buffer
	if err := json.Indent(&buf, raw, "", "  "); err != nil {
		return fmt.Errorf("indent %s: %w", path, err)
	}
	buf.WriteByte('\n')
	_, err := WriteStream(path, &buf)
	return err
}
