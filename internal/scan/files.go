// Package scan finds page images in a directory and its subdirectories
package scan

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/maruel/natural"
)

func searchTree(dir string, m *[]string) error {

	visit := func(p string, fi os.FileInfo, err error) error {
		if err != nil {
			if os.IsNotExist(err) {
				return nil
			}
			return err
		}

		// ignore dir itself to avoid an infinite loop!
		if fi.Mode().IsDir() && p != dir {
			if err := searchTree(p, m); err != nil {
				return err
			}
			return filepath.SkipDir
		}

		if fi.Mode().IsRegular() && fi.Size() > 0 && IsImage(p) {
			*m = append(*m, p)
		}

		return nil
	}

	return filepath.Walk(dir, visit)
}

// Run collects every non-empty page image under dir in natural order, so
// "page2.png" sorts before "page10.png".
func Run(dir string) ([]string, error) {
	var found []string
	if err := searchTree(dir, &found); err != nil {
		return nil, err
	}
	SortNatural(found)
	return found, nil
}

// SortNatural orders names the way a reader expects page numbers to go.
func SortNatural(names []string) {
	sort.Sort(natural.StringSlice(names))
}

// IsImage checks if a file name looks like a page image
func IsImage(n string) bool {
	switch strings.ToLower(filepath.Ext(n)) {
	case ".png", ".jpg", ".jpeg", ".gif", ".webp", ".bmp", ".tif", ".tiff", ".svg":
		return true
	default:
		return false
	}
}
