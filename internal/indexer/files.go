package indexer

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// isPDF reports whether the filename has a .pdf extension, case-insensitive.
func isPDF(name string) bool {
	return strings.EqualFold(filepath.Ext(name), ".pdf")
}

// DiscoverPDFs returns the absolute paths of PDF files under root, sorted.
// With recursive set it walks the whole tree; otherwise only root's
// immediate entries are considered. Unreadable subdirectories fail the
// discovery so a partial batch is never mistaken for a full one.
func DiscoverPDFs(root string, recursive bool) ([]string, error) {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolving %s: %w", root, err)
	}

	info, err := os.Stat(absRoot)
	if err != nil {
		return nil, fmt.Errorf("stat %s: %w", absRoot, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%s is not a directory", absRoot)
	}

	var paths []string
	if recursive {
		err = filepath.WalkDir(absRoot, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.Type().IsRegular() && isPDF(d.Name()) {
				paths = append(paths, path)
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("walking %s: %w", absRoot, err)
		}
	} else {
		entries, err := os.ReadDir(absRoot)
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", absRoot, err)
		}
		for _, e := range entries {
			if e.Type().IsRegular() && isPDF(e.Name()) {
				paths = append(paths, filepath.Join(absRoot, e.Name()))
			}
		}
	}

	sort.Strings(paths)
	return paths, nil
}

// FilterFiles canonicalises an explicit file list, keeping existing
// regular PDF files. Entries that are missing, not PDFs, or not regular
// files come back as rejects so the caller can report them per-file.
func FilterFiles(files []string) (accepted []string, rejects []FileError) {
	for _, f := range files {
		abs, err := filepath.Abs(f)
		if err != nil {
			rejects = append(rejects, FileError{File: f, Error: err.Error()})
			continue
		}
		info, err := os.Stat(abs)
		switch {
		case err != nil:
			rejects = append(rejects, FileError{File: f, Error: err.Error()})
		case !info.Mode().IsRegular():
			rejects = append(rejects, FileError{File: f, Error: "not a regular file"})
		case !isPDF(abs):
			rejects = append(rejects, FileError{File: f, Error: "not a PDF file"})
		default:
			accepted = append(accepted, abs)
		}
	}
	return accepted, rejects
}
