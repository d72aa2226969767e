package shellcheck

import (
	"io/fs"
	"path/filepath"
	"strings"

	domain "github.com/bryanwahyu/shellcheck-gate/internal/domain/checks"
)

var shellExtensions = map[string]bool{
	".sh":   true,
	".bash": true,
	".ksh":  true,
}

var shellBasenames = map[string]bool{
	".bashrc":       true,
	".bash_profile": true,
	".bash_login":   true,
	".bash_logout":  true,
}

func isShellScript(path string) bool {
	if shellExtensions[strings.ToLower(filepath.Ext(path))] {
		return true
	}
	return shellBasenames[filepath.Base(path)]
}

// ResolveSources builds the ordered, deduplicated source file set for one
// run. An explicit SourceFiles list wins as-is; otherwise every SourceDir is
// walked and filtered to recognized shell script names. An empty result is a
// valid state, not an error.
func ResolveSources(cfg domain.TaskConfig) ([]string, error) {
	if len(cfg.SourceFiles) > 0 {
		return absolute(cfg.WorkingDir, cfg.SourceFiles)
	}

	var found []string
	for _, dir := range cfg.SourceDirs {
		if !filepath.IsAbs(dir) {
			dir = filepath.Join(cfg.WorkingDir, dir)
		}
		err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				return nil
			}
			if isShellScript(path) {
				found = append(found, path)
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
	}
	return absolute(cfg.WorkingDir, found)
}

// absolute canonicalizes every path against the working directory and drops
// duplicates while keeping first-seen order.
func absolute(workingDir string, paths []string) ([]string, error) {
	seen := make(map[string]struct{}, len(paths))
	out := make([]string, 0, len(paths))
	for _, p := range paths {
		if !filepath.IsAbs(p) {
			p = filepath.Join(workingDir, p)
		}
		abs, err := filepath.Abs(p)
		if err != nil {
			return nil, err
		}
		if _, ok := seen[abs]; ok {
			continue
		}
		seen[abs] = struct{}{}
		out = append(out, abs)
	}
	return out, nil
}
