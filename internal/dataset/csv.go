package dataset

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/dustin/go-humanize/english"
)

// Table column names.
const (
	ColSource = "db_name"
	ColPath   = "full_path"
	ColAge    = "age"
	ColGender = "gender"
)

var columns = []string{ColSource, ColPath, ColAge, ColGender}

// LoadCSV reads a cleaned table. Any missing column or unparsable label is an error,
// label ranges are not validated.
func LoadCSV(fileName string) (result Samples, err error) {
	f, err := os.Open(fileName)

	if err != nil {
		return nil, fmt.Errorf("dataset: %s", err)
	}

	defer f.Close()

	return ReadCSV(f, filepath.Base(fileName))
}

// ReadCSV reads a cleaned table from a reader, name is used in error messages.
func ReadCSV(r io.Reader, name string) (result Samples, err error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()

	if err != nil {
		return nil, fmt.Errorf("dataset: %s in %s (read header)", err, name)
	}

	pos := make(map[string]int, len(header))

	for i, col := range header {
		pos[strings.TrimSpace(strings.ToLower(col))] = i
	}

	for _, col := range columns {
		if _, ok := pos[col]; !ok {
			return nil, fmt.Errorf("dataset: column %s missing in %s", col, name)
		}
	}

	line := 1

	for {
		record, err := reader.Read()
		line++

		if err == io.EOF {
			break
		} else if err != nil {
			return nil, fmt.Errorf("dataset: %s in %s", err, name)
		}

		s, err := parseRecord(record, pos)

		if err != nil {
			return nil, fmt.Errorf("dataset: %s in %s line %d", err, name, line)
		}

		result = append(result, s)
	}

	return result, nil
}

func parseRecord(record []string, pos map[string]int) (s Sample, err error) {
	field := func(col string) (string, error) {
		if i := pos[col]; i < len(record) {
			return strings.TrimSpace(record[i]), nil
		}

		return "", fmt.Errorf("column %s missing", col)
	}

	if s.Source, err = field(ColSource); err != nil {
		return s, err
	}

	if s.Path, err = field(ColPath); err != nil {
		return s, err
	}

	var v string

	if v, err = field(ColAge); err != nil {
		return s, err
	} else if s.Age, err = parseLabel(v); err != nil {
		return s, fmt.Errorf("invalid age %q", v)
	}

	if v, err = field(ColGender); err != nil {
		return s, err
	} else if s.Gender, err = parseLabel(v); err != nil {
		return s, fmt.Errorf("invalid gender %q", v)
	}

	return s, nil
}

// parseLabel accepts integers and integral floats such as "1.0" written by dataframe exports.
func parseLabel(v string) (int, error) {
	if i, err := strconv.Atoi(v); err == nil {
		return i, nil
	}

	f, err := strconv.ParseFloat(v, 64)

	if err != nil {
		return 0, err
	} else if math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f) {
		return 0, fmt.Errorf("not an integer")
	} else if f < math.MinInt32 || f > math.MaxInt32 {
		return 0, fmt.Errorf("out of range")
	}

	return int(f), nil
}

// Combine loads the given tables and concatenates them in order.
func Combine(fileNames ...string) (result Samples, err error) {
	start := time.Now()

	for _, fileName := range fileNames {
		samples, err := LoadCSV(fileName)

		if err != nil {
			return nil, err
		}

		log.Debugf("dataset: loaded %s from %s", english.Plural(len(samples), "sample", "samples"), filepath.Base(fileName))

		result = append(result, samples...)
	}

	log.Infof("dataset: combined %s from %s [%s]", english.Plural(len(result), "sample", "samples"), english.Plural(len(fileNames), "table", "tables"), time.Since(start))

	return result, nil
}

// WriteCSV writes samples as a table with the standard columns.
func WriteCSV(fileName string, samples Samples) error {
	if err := os.MkdirAll(filepath.Dir(fileName), os.ModePerm); err != nil {
		return fmt.Errorf("dataset: %s", err)
	}

	f, err := os.Create(fileName)

	if err != nil {
		return fmt.Errorf("dataset: %s", err)
	}

	defer f.Close()

	w := csv.NewWriter(f)

	if err := w.Write(columns); err != nil {
		return fmt.Errorf("dataset: %s", err)
	}

	for _, s := range samples {
		if err := w.Write([]string{s.Source, s.Path, strconv.Itoa(s.Age), strconv.Itoa(s.Gender)}); err != nil {
			return fmt.Errorf("dataset: %s", err)
		}
	}

	w.Flush()

	return w.Error()
}
