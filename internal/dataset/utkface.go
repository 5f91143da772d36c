package dataset

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize/english"

	"github.com/photoprism/agender/pkg/fs"
)

// UTKFace is the source name of benchmark samples.
const UTKFace = "utkface"

// UTKFaceParts are the numbered subfolders of the benchmark dataset.
var UTKFaceParts = []string{"part1", "part2", "part3"}

// ParseUTKFaceName reads age and gender from a file name like "25_0_1_2017...jpg".
// UTKFace uses the opposite gender code, so it is flipped.
func ParseUTKFaceName(fileName string) (s Sample, err error) {
	parts := strings.Split(filepath.Base(fileName), "_")

	if len(parts) < 3 {
		return s, fmt.Errorf("dataset: unexpected benchmark file name %s", filepath.Base(fileName))
	}

	age, err := strconv.Atoi(parts[0])

	if err != nil {
		return s, fmt.Errorf("dataset: invalid age in %s", filepath.Base(fileName))
	}

	gender, err := strconv.Atoi(parts[1])

	if err != nil {
		return s, fmt.Errorf("dataset: invalid gender in %s", filepath.Base(fileName))
	}

	return Sample{
		Source: UTKFace,
		Path:   fileName,
		Age:    age,
		Gender: gender ^ 1,
	}, nil
}

// ListUTKFace returns the labeled jpeg images directly in root/part1..3, ordered by part and name.
func ListUTKFace(root string) (result Samples, err error) {
	for _, part := range UTKFaceParts {
		dir := filepath.Join(root, part)

		if !fs.PathExists(dir) {
			log.Debugf("dataset: %s not found", filepath.Join(filepath.Base(root), part))
			continue
		}

		files, err := fs.Files(dir, ".jpg")

		if err != nil {
			return nil, fmt.Errorf("dataset: %s", err)
		}

		for _, fileName := range files {
			if filepath.Dir(fileName) != dir {
				continue
			} else if !fs.IsImage(fileName) {
				log.Warnf("dataset: %s is not an image", filepath.Base(fileName))
				continue
			}

			s, err := ParseUTKFaceName(fileName)

			if err != nil {
				return nil, err
			}

			result = append(result, s)
		}
	}

	log.Infof("dataset: found %s in %s", english.Plural(len(result), "benchmark image", "benchmark images"), filepath.Base(root))

	return result, nil
}
