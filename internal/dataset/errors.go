package dataset

import (
	"errors"
	"fmt"
	"os"
	"sort"
)

// ErrMissingDataset is matched by errors.Is when the dataset file is absent.
var ErrMissingDataset = errors.New("dataset not found")

// DirEntry is one entry of a directory listing.
type DirEntry struct {
	Name  string
	IsDir bool
	Size  int64
}

// MissingDatasetError carries the working directory listing so the caller can
// show the user what is actually there.
type MissingDatasetError struct {
	Path    string
	Dir     string
	Entries []DirEntry
	ListErr error
}

func (e *MissingDatasetError) Error() string {
	return fmt.Sprintf("dataset %q not found in %s", e.Path, e.Dir)
}

func (e *MissingDatasetError) Is(target error) bool {
	return target == ErrMissingDataset
}

// Names returns the entry names, directories suffixed with a slash.
func (e *MissingDatasetError) Names() []string {
	names := make([]string, len(e.Entries))
	for i, ent := range e.Entries {
		names[i] = ent.Name
		if ent.IsDir {
			names[i] += "/"
		}
	}
	return names
}

func newMissingDatasetError(path string) *MissingDatasetError {
	e := &MissingDatasetError{Path: path, Dir: "."}
	if wd, err := os.Getwd(); err == nil {
		e.Dir = wd
	}
	entries, err := os.ReadDir(".")
	if err != nil {
		e.ListErr = err
		return e
	}
	for _, ent := range entries {
		de := DirEntry{Name: ent.Name(), IsDir: ent.IsDir()}
		if info, err := ent.Info(); err == nil && !ent.IsDir() {
			de.Size = info.Size()
		}
		e.Entries = append(e.Entries, de)
	}
	sort.Slice(e.Entries, func(i, j int) bool { return e.Entries[i].Name < e.Entries[j].Name })
	return e
}
