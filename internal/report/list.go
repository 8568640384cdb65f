package report

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// Entry describes a saved report file.
type Entry struct {
	Name    string
	Path    string
	ModTime time.Time
	Size    int64
}

// List returns the reports saved in dir, newest first. A missing directory
// yields no entries.
func List(dir string) ([]Entry, error) {
	files, err := os.ReadDir(dir)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var entries []Entry
	for _, f := range files {
		name := f.Name()
		if f.IsDir() || !strings.HasPrefix(name, reportPrefix) || !strings.HasSuffix(name, reportExt) {
			continue
		}

		info, err := f.Info()
		if err != nil {
			return nil, err
		}

		entries = append(entries, Entry{
			Name:    name,
			Path:    filepath.Join(dir, name),
			ModTime: info.ModTime(),
			Size:    info.Size(),
		})
	}

	sort.Slice(entries, func(i, j int) bool {
		if !entries[i].ModTime.Equal(entries[j].ModTime) {
			return entries[i].ModTime.After(entries[j].ModTime)
		}
		return entries[i].Name > entries[j].Name
	})

	return entries, nil
}
