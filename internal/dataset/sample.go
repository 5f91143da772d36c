package dataset

import (
	"sort"
)

// Genders.
const (
	Female = 0
	Male   = 1
)

// MaxAge is the highest age class, ages are encoded as 0..MaxAge.
const MaxAge = 100

// TrialSamples is the number of rows kept in trial mode.
const TrialSamples = 640

// Sample is one labeled face image.
type Sample struct {
	Source string
	Path   string
	Age    int
	Gender int
}

// Samples is an ordered table of labeled face images.
type Samples []Sample

// Len returns the number of rows.
func (s Samples) Len() int {
	return len(s)
}

// Columns returns the per-row source, path, age and gender arrays.
func (s Samples) Columns() (sources, paths []string, ages, genders []int) {
	sources = make([]string, len(s))
	paths = make([]string, len(s))
	ages = make([]int, len(s))
	genders = make([]int, len(s))

	for i, r := range s {
		sources[i] = r.Source
		paths[i] = r.Path
		ages[i] = r.Age
		genders[i] = r.Gender
	}

	return sources, paths, ages, genders
}

// Subset returns the rows with the given indices, in index order.
func (s Samples) Subset(idx []int) Samples {
	result := make(Samples, len(idx))

	for i, j := range idx {
		result[i] = s[j]
	}

	return result
}

// Trial returns at most the first n rows.
func (s Samples) Trial(n int) Samples {
	if n <= 0 || n >= len(s) {
		return s
	}

	return s[:n]
}

// SourceCount is the number of rows from one source dataset.
type SourceCount struct {
	Source string
	Count  int
}

// Counts returns the number of rows per source in order of first appearance.
func (s Samples) Counts() (result []SourceCount) {
	pos := make(map[string]int)

	for _, r := range s {
		if i, ok := pos[r.Source]; ok {
			result[i].Count++
		} else {
			pos[r.Source] = len(result)
			result = append(result, SourceCount{Source: r.Source, Count: 1})
		}
	}

	return result
}

// Sources returns the sorted distinct source names.
func (s Samples) Sources() (result []string) {
	for _, c := range s.Counts() {
		result = append(result, c.Source)
	}

	sort.Strings(result)

	return result
}
