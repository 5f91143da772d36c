package dataset

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

var testSamples = Samples{
	{Source: "wiki", Path: "a.jpg", Age: 20, Gender: Male},
	{Source: "imdb", Path: "b.jpg", Age: 31, Gender: Female},
	{Source: "wiki", Path: "c.jpg", Age: 45, Gender: Female},
	{Source: "adience", Path: "d.jpg", Age: 3, Gender: Male},
}

func TestSamples_Columns(t *testing.T) {
	sources, paths, ages, genders := testSamples.Columns()

	assert.Equal(t, []string{"wiki", "imdb", "wiki", "adience"}, sources)
	assert.Equal(t, []string{"a.jpg", "b.jpg", "c.jpg", "d.jpg"}, paths)
	assert.Equal(t, []int{20, 31, 45, 3}, ages)
	assert.Equal(t, []int{1, 0, 0, 1}, genders)
}

func TestSamples_Subset(t *testing.T) {
	s := testSamples.Subset([]int{3, 1})

	assert.Equal(t, 2, s.Len())
	assert.Equal(t, "d.jpg", s[0].Path)
	assert.Equal(t, "b.jpg", s[1].Path)
}

func TestSamples_Trial(t *testing.T) {
	assert.Equal(t, 2, testSamples.Trial(2).Len())
	assert.Equal(t, 4, testSamples.Trial(10).Len())
	assert.Equal(t, 4, testSamples.Trial(0).Len())
}

func TestSamples_Counts(t *testing.T) {
	assert.Equal(t, []SourceCount{{"wiki", 2}, {"imdb", 1}, {"adience", 1}}, testSamples.Counts())
	assert.Equal(t, []string{"adience", "imdb", "wiki"}, testSamples.Sources())
}
