package levels

import (
	"embed"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"
)

//go:embed *.json *.tmx
var LevelsFS embed.FS

// Load reads a level from the embedded set.
func Load(name string, opts Options) (*Level, error) {
	return LoadFS(LevelsFS, name, opts)
}

// LoadFS reads a .json or .tmx level from fsys by file name.
func LoadFS(fsys fs.FS, name string, opts Options) (*Level, error) {
	switch strings.ToLower(path.Ext(name)) {
	case ".tmx":
		return LoadTMX(fsys, name, opts)
	case ".json":
		data, err := fs.ReadFile(fsys, name)
		if err != nil {
			return nil, fmt.Errorf("levels: read %s: %w", name, err)
		}
		return ParseJSON(name, data, opts)
	}
	return nil, fmt.Errorf("levels: unsupported level format %q", name)
}

// List returns the sorted level file names in fsys.
func List(fsys fs.FS) ([]string, error) {
	var names []string
	for _, pattern := range []string{"*.json", "*.tmx"} {
		matches, err := fs.Glob(fsys, pattern)
		if err != nil {
			return nil, fmt.Errorf("levels: glob %s: %w", pattern, err)
		}
		names = append(names, matches...)
	}
	sort.Strings(names)
	return names, nil
}
