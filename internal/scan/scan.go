// Package scan supplies the engine's initial image identifiers from a
// directory tree. It only lists paths; image content is never opened.
package scan

import (
	"context"
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"
)

// supportedExtensions matches the formats the comparison UI can display.
var supportedExtensions = map[string]struct{}{
	".jpg":  {},
	".jpeg": {},
	".png":  {},
	".bmp":  {},
	".gif":  {},
	".tiff": {},
	".webp": {},
}

// Supported reports whether path has a supported image extension.
func Supported(path string) bool {
	_, ok := supportedExtensions[strings.ToLower(filepath.Ext(path))]
	return ok
}

// Images walks root recursively and returns the sorted paths of all
// supported image files, relative to nothing (paths keep the root prefix
// so they work as stable identifiers across sessions).
func Images(ctx context.Context, root string) ([]string, error) {
	var out []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if d.IsDir() {
			return nil
		}
		if Supported(path) {
			out = append(out, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scan images in %s: %w", root, err)
	}

	sort.Strings(out)
	return out, nil
}
