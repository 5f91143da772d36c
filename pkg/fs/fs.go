package fs

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/h2non/filetype"
	"github.com/karrick/godirwalk"
)

// headerSize is the number of bytes filetype needs to detect a format.
const headerSize = 261

// FileExists returns true if file exists and is not a directory.
func FileExists(fileName string) bool {
	if fileName == "" {
		return false
	}

	info, err := os.Stat(fileName)

	return err == nil && !info.IsDir()
}

// PathExists tests if a path exists, and is a directory.
func PathExists(path string) bool {
	if path == "" {
		return false
	}

	info, err := os.Stat(path)

	return err == nil && info.IsDir()
}

// Abs returns the full path of a file or directory, "~" is replaced with home.
func Abs(name string) string {
	if name == "" {
		return ""
	}

	if len(name) > 2 && name[:2] == "~/" {
		if dir, err := os.UserHomeDir(); err == nil {
			name = filepath.Join(dir, name[2:])
		}
	}

	result, err := filepath.Abs(name)

	if err != nil {
		panic(err)
	}

	return result
}

// IsImage sniffs the file header and returns true for image formats.
func IsImage(fileName string) bool {
	file, err := os.Open(fileName)

	if err != nil {
		return false
	}

	defer file.Close()

	head := make([]byte, headerSize)
	n, _ := file.Read(head)

	return filetype.IsImage(head[:n])
}

// Files returns the sorted names of regular files below root with one of the given extensions.
func Files(root string, extensions ...string) (result []string, err error) {
	exts := make(map[string]bool, len(extensions))

	for _, ext := range extensions {
		exts[strings.ToLower(ext)] = true
	}

	err = godirwalk.Walk(root, &godirwalk.Options{
		Callback: func(fileName string, info *godirwalk.Dirent) error {
			if !info.IsRegular() {
				return nil
			}

			if len(exts) > 0 && !exts[strings.ToLower(filepath.Ext(fileName))] {
				return nil
			}

			result = append(result, fileName)

			return nil
		},
		Unsorted:            false,
		FollowSymbolicLinks: true,
	})

	sort.Strings(result)

	return result, err
}
