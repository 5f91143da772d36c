package dataset

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTable(t *testing.T, dir, name, content string) string {
	t.Helper()

	fileName := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(fileName, []byte(content), 0644))

	return fileName
}

func TestReadCSV(t *testing.T) {
	t.Run("columns in any order", func(t *testing.T) {
		samples, err := ReadCSV(strings.NewReader("age,gender,full_path,db_name,extra\n25,1,x/a.jpg,wiki,foo\n130,0.0,x/b.jpg,wiki,bar\n"), "test.csv")

		require.NoError(t, err)
		require.Len(t, samples, 2)
		assert.Equal(t, Sample{Source: "wiki", Path: "x/a.jpg", Age: 25, Gender: 1}, samples[0])
		// No range validation.
		assert.Equal(t, 130, samples[1].Age)
	})

	t.Run("missing column", func(t *testing.T) {
		_, err := ReadCSV(strings.NewReader("age,full_path,db_name\n25,a.jpg,wiki\n"), "test.csv")

		assert.EqualError(t, err, "dataset: column gender missing in test.csv")
	})

	t.Run("malformed label", func(t *testing.T) {
		_, err := ReadCSV(strings.NewReader("db_name,full_path,age,gender\nwiki,a.jpg,old,1\n"), "test.csv")

		assert.EqualError(t, err, "dataset: invalid age \"old\" in test.csv line 2")
	})

	t.Run("non-integral label", func(t *testing.T) {
		for _, age := range []string{"nan", "NaN", "inf", "-inf", "1e30", "27.9"} {
			_, err := ReadCSV(strings.NewReader("db_name,full_path,age,gender\nwiki,a.jpg,"+age+",1\n"), "test.csv")

			assert.EqualError(t, err, "dataset: invalid age \""+age+"\" in test.csv line 2", age)
		}

		_, err := ReadCSV(strings.NewReader("db_name,full_path,age,gender\nwiki,a.jpg,27,0.5\n"), "test.csv")
		assert.EqualError(t, err, "dataset: invalid gender \"0.5\" in test.csv line 2")
	})

	t.Run("integral float label", func(t *testing.T) {
		samples, err := ReadCSV(strings.NewReader("db_name,full_path,age,gender\nwiki,a.jpg,27.0,1.0\n"), "test.csv")

		require.NoError(t, err)
		assert.Equal(t, 27, samples[0].Age)
		assert.Equal(t, 1, samples[0].Gender)
	})

	t.Run("short row", func(t *testing.T) {
		_, err := ReadCSV(strings.NewReader("db_name,full_path,age,gender\nwiki,a.jpg\n"), "test.csv")

		assert.Error(t, err)
	})
}

func TestCombine(t *testing.T) {
	dir := t.TempDir()
	wiki := writeTable(t, dir, "wiki.csv", "db_name,full_path,age,gender\nwiki,w1.jpg,20,1\nwiki,w2.jpg,21,0\n")
	imdb := writeTable(t, dir, "imdb.csv", "db_name,full_path,age,gender\nimdb,i1.jpg,30,1\n")
	adience := writeTable(t, dir, "adience.csv", "db_name,full_path,age,gender\nadience,a1.jpg,4,0\n")

	t.Run("preserves order", func(t *testing.T) {
		samples, err := Combine(wiki, imdb, adience)

		require.NoError(t, err)
		_, paths, ages, _ := samples.Columns()
		assert.Equal(t, []string{"w1.jpg", "w2.jpg", "i1.jpg", "a1.jpg"}, paths)
		assert.Equal(t, []int{20, 21, 30, 4}, ages)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := Combine(wiki, filepath.Join(dir, "missing.csv"))

		assert.Error(t, err)
	})

	t.Run("write and read back", func(t *testing.T) {
		samples, err := Combine(wiki, imdb, adience)
		require.NoError(t, err)

		out := filepath.Join(dir, "out", "combined.csv")
		require.NoError(t, WriteCSV(out, samples))

		loaded, err := LoadCSV(out)
		require.NoError(t, err)
		assert.Equal(t, samples, loaded)
	})
}
