package paths

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
)

// ClassicDir is the flavor directory holding the Classic client's state.
const ClassicDir = "_classic_"

// installMarkers are files or directories at least one of which must exist
// under the installation root for it to be accepted as a WoW install.
var installMarkers = []string{
	ClassicDir,
	"Data",
	"Wow.exe",
	"WowClassic.exe",
	".flavor.info",
}

// PathError reports an unusable installation root or an absent SavedVariables
// subtree. It is fatal to starting the watcher and is surfaced to the caller
// instead of being retried.
type PathError struct {
	Root   string
	Reason string
}

func (e *PathError) Error() string {
	return fmt.Sprintf("install path %q: %s", e.Root, e.Reason)
}

// ValidateRoot checks that root exists and carries at least one known
// install marker.
func ValidateRoot(root string) error {
	info, err := os.Stat(root)
	if err != nil || !info.IsDir() {
		return &PathError{Root: root, Reason: "not a directory"}
	}
	for _, marker := range installMarkers {
		if _, err := os.Stat(filepath.Join(root, marker)); err == nil {
			return nil
		}
	}
	return &PathError{Root: root, Reason: "no installation markers found"}
}

// Resolve expands root into the ordered list of candidate SavedVariables
// paths, one per account directory. An empty result is a PathError, never a
// silent success.
func Resolve(root, addonFile string) ([]string, error) {
	if err := ValidateRoot(root); err != nil {
		return nil, err
	}

	accountDir := filepath.Join(root, ClassicDir, "WTF", "Account")
	entries, err := os.ReadDir(accountDir)
	if err != nil {
		return nil, &PathError{Root: root, Reason: "no WTF/Account subtree; has the game been run?"}
	}

	var resolved []string
	for _, entry := range entries {
		// The client writes bookkeeping files next to account directories.
		if !entry.IsDir() {
			continue
		}
		resolved = append(resolved, filepath.Join(accountDir, entry.Name(), "SavedVariables", addonFile))
	}
	if len(resolved) == 0 {
		return nil, &PathError{Root: root, Reason: "no account directories found"}
	}

	sort.Strings(resolved)
	return resolved, nil
}
