package runner

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"sort"
	"strings"

	"github.com/dhamidi/typeorder/config"
)

// Discover expands paths into the sorted, de-duplicated list of files to
// analyse. Files named explicitly are always included; directories are
// walked for files with a configured extension, skipping excluded
// directory names.
func Discover(paths []string, files config.FilesConfig) ([]string, error) {
	seen := make(map[string]bool)
	var result []string
	add := func(path string) {
		path = filepath.Clean(path)
		if !seen[path] {
			seen[path] = true
			result = append(result, path)
		}
	}

	for _, root := range paths {
		info, err := os.Stat(root)
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", root, err)
		}
		if !info.IsDir() {
			add(root)
			continue
		}

		err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				if path != root && slices.Contains(files.ExcludeDirs, d.Name()) {
					return filepath.SkipDir
				}
				return nil
			}
			if hasExtension(path, files.Extensions) {
				add(path)
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("walk %s: %w", root, err)
		}
	}

	sort.Strings(result)
	return result, nil
}

func hasExtension(path string, extensions []string) bool {
	for _, ext := range extensions {
		if strings.HasSuffix(path, ext) {
			return true
		}
	}
	return false
}
