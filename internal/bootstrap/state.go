package bootstrap

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/fridgepi/fridgectl/internal/envprobe"
	"github.com/fridgepi/fridgectl/internal/fsutil"
)

// State records what the bootstrap has already done. It is the explicit
// form of the marker file: installation is attempted at most once per
// marker lifetime, and the idempotence decision is a pure function of the
// loaded State rather than scattered existence checks.
type State struct {
	DependenciesInstalled bool
	EnvFileExists         bool
	Platform              envprobe.PlatformClass
}

// Store persists bootstrap state. Abstracted for testability.
type Store interface {
	// Load returns the persisted state. A missing marker yields the zero
	// State and no error.
	Load() (State, error)

	// Save persists the state, creating the marker if needed.
	Save(State) error
}

// FileStore persists State as key=value lines in a sentinel file. The file
// is owned entirely by this accessor and rewritten on every Save.
type FileStore struct {
	Path string
}

// NewFileStore returns a Store backed by the sentinel file at path.
func NewFileStore(path string) *FileStore {
	return &FileStore{Path: path}
}

func (s *FileStore) Load() (State, error) {
	data, err := os.ReadFile(s.Path)
	if err != nil {
		if os.IsNotExist(err) {
			return State{}, nil
		}
		return State{}, fmt.Errorf("bootstrap: read marker %s: %w", s.Path, err)
	}

	var st State
	for _, line := range strings.Split(string(data), "\n") {
		key, value, ok := strings.Cut(strings.TrimSpace(line), "=")
		if !ok {
			continue
		}
		switch key {
		case "dependencies_installed":
			st.DependenciesInstalled = value == "true"
		case "env_file_exists":
			st.EnvFileExists = value == "true"
		case "platform":
			st.Platform = envprobe.PlatformClass(value)
		}
	}
	return st, nil
}

func (s *FileStore) Save(st State) error {
	entries := map[string]string{
		"dependencies_installed": fmt.Sprintf("%t", st.DependenciesInstalled),
		"env_file_exists":        fmt.Sprintf("%t", st.EnvFileExists),
		"platform":               string(st.Platform),
	}
	keys := make([]string, 0, len(entries))
	for k := range entries {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	for _, k := range keys {
		fmt.Fprintf(&b, "%s=%s\n", k, entries[k])
	}
	if err := fsutil.WriteFileAtomic(s.Path, []byte(b.String()), 0o644); err != nil {
		return fmt.Errorf("bootstrap: write marker %s: %w", s.Path, err)
	}
	return nil
}
