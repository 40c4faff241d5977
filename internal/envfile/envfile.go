// Package envfile reads and edits the application's .env file using
// sentinel-key substitution: an existing KEY=value line is replaced in
// place and every other line is preserved byte for byte.
package envfile

import (
	"fmt"
	"os"
	"strings"

	"github.com/fridgepi/fridgectl/internal/fsutil"
)

// Get returns the value for key in the env file at path. The second return
// is false when the key is absent. A missing file is treated as an empty
// file.
func Get(path, key string) (string, bool, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("envfile: read %s: %w", path, err)
	}
	prefix := key + "="
	for _, line := range strings.Split(string(data), "\n") {
		if strings.HasPrefix(line, prefix) {
			return strings.TrimPrefix(line, prefix), true, nil
		}
	}
	return "", false, nil
}

// Set replaces the KEY=value line for key in place, appending the line if
// the key is absent. Comments, blank lines, and unrelated keys are left
// untouched. The file is created when missing.
func Set(path, key, value string) error {
	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("envfile: read %s: %w", path, err)
	}

	entry := key + "=" + value
	prefix := key + "="

	lines := strings.Split(string(data), "\n")
	replaced := false
	for i, line := range lines {
		if strings.HasPrefix(line, prefix) {
			lines[i] = entry
			replaced = true
			break
		}
	}
	if !replaced {
		// Drop a single trailing empty line so the appended entry does not
		// leave a blank gap, then restore the trailing newline below.
		if n := len(lines); n > 0 && lines[n-1] == "" {
			lines = lines[:n-1]
		}
		lines = append(lines, entry)
	}

	out := strings.Join(lines, "\n")
	if !strings.HasSuffix(out, "\n") {
		out += "\n"
	}
	if err := fsutil.WriteFileAtomic(path, []byte(out), 0o644); err != nil {
		return fmt.Errorf("envfile: write %s: %w", path, err)
	}
	return nil
}

// EnsureFromExample creates the env file at path from examplePath when it
// does not exist yet. A missing example yields an empty env file. Returns
// true if the file was created.
func EnsureFromExample(path, examplePath string) (bool, error) {
	if _, err := os.Stat(path); err == nil {
		return false, nil
	} else if !os.IsNotExist(err) {
		return false, fmt.Errorf("envfile: stat %s: %w", path, err)
	}

	var content []byte
	if data, err := os.ReadFile(examplePath); err == nil {
		content = data
	}
	if err := fsutil.WriteFileAtomic(path, content, 0o644); err != nil {
		return false, fmt.Errorf("envfile: create %s: %w", path, err)
	}
	return true, nil
}
