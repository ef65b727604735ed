package bench

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

// DefaultSkip is the number of context lines Google Benchmark writes before the
// CSV header.
const DefaultSkip = 9

// ErrMissingColumn is returned when the CSV header lacks a required column.
var ErrMissingColumn = errors.New("missing column")

// Row is one record of the benchmark results table.
type Row struct {
	Line         int    // line number in the input file
	Name         string // benchmark identifier
	RealTime     string // real_time column, unparsed
	Unit         string // time_unit column, empty if absent
	Failed       bool   // error_occurred column
	ErrorMessage string
}

// LoadFile reads benchmark rows from a CSV file.
func LoadFile(path string, skip int) ([]Row, error) {
	fd, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer fd.Close()
	rows, err := ReadRows(fd, skip)
	if err != nil {
		return rows, fmt.Errorf("%s: %w", path, err)
	}
	return rows, nil
}

// ReadRows parses benchmark CSV output. The first skip lines are discarded
// verbatim. If skip is negative, lines are discarded up to the header line,
// which must start with "name,".
func ReadRows(r io.Reader, skip int) ([]Row, error) {
	br := bufio.NewReader(r)
	skipped := 0
	var input io.Reader = br
	for skip < 0 || skipped < skip {
		line, err := br.ReadString('\n')
		if skip < 0 && strings.HasPrefix(line, "name,") {
			input = io.MultiReader(strings.NewReader(line), br)
			break
		}
		if err == io.EOF {
			if skip < 0 {
				return nil, errors.New("no CSV header found")
			}
			break
		} else if err != nil {
			return nil, err
		}
		skipped++
	}

	cr := csv.NewReader(input)
	cr.FieldsPerRecord = -1
	header, err := cr.Read()
	if err == io.EOF {
		return nil, errors.New("no CSV header found")
	} else if err != nil {
		return nil, err
	}
	cols := make(map[string]int, len(header))
	for i, h := range header {
		cols[strings.TrimSpace(h)] = i
	}
	for _, req := range []string{"name", "real_time"} {
		if _, ok := cols[req]; !ok {
			return nil, fmt.Errorf("%w %q", ErrMissingColumn, req)
		}
	}
	field := func(rec []string, col string) string {
		i, ok := cols[col]
		if !ok || i >= len(rec) {
			return ""
		}
		return strings.TrimSpace(rec[i])
	}

	var rows []Row
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		} else if err != nil {
			return rows, err
		}
		line, _ := cr.FieldPos(0)
		rows = append(rows, Row{
			Line:         skipped + line,
			Name:         field(rec, "name"),
			RealTime:     field(rec, "real_time"),
			Unit:         field(rec, "time_unit"),
			Failed:       field(rec, "error_occurred") == "true",
			ErrorMessage: field(rec, "error_message"),
		})
	}
	return rows, nil
}
