package main

import (
	"bufio"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

const (
	inclLabel = "INCL"
	paLabel   = "PA"

	// Longest accepted line; bufio's default token limit is 64 KiB.
	maxLineSize = 16 << 20
)

// Record holds one ring, one value per labelled column.
type Record []float64

// Table is a parsed tirific ring table. InclIdx and PAIdx are set by
// Validate.
type Table struct {
	Declared int
	Labels   []string
	Records  []Record
	InclIdx  int
	PAIdx    int
}

// ReadRows reads a space delimited file. Repeated spaces produce empty
// tokens; no other checks are made.
func ReadRows(path string) ([][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "open %s", path)
	}
	defer f.Close()

	var rows [][]string
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	for scanner.Scan() {
		line := strings.TrimSuffix(scanner.Text(), "\r")
		if line == "" {
			rows = append(rows, nil)
			continue
		}
		rows = append(rows, strings.Split(line, " "))
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrapf(err, "read %s", path)
	}
	return rows, nil
}

// LoadTable reads and validates a ring table. Row warnings and a declared
// count that disagrees with the data go to logger.
func LoadTable(path string, logger *log.Logger) (*Table, error) {
	rows, err := ReadRows(path)
	if err != nil {
		return nil, err
	}
	t, err := ParseTable(rows, logger)
	if err != nil {
		return nil, errors.Wrapf(err, "parse %s", path)
	}
	if err := t.Validate(); err != nil {
		return nil, errors.Wrapf(err, "parse %s", path)
	}
	if t.CountMismatch() && logger != nil {
		logger.Printf("Warning: Number of entries specified in line 1 of file: %d, number of entries found in data: %d",
			t.Declared, t.Size())
	}
	return t, nil
}

// ParseTable reads the count and label rows and converts the data rows.
// Rows without any tokens are skipped. Rows with some tokens but fewer than
// there are labels are skipped with a warning.
func ParseTable(rows [][]string, logger *log.Logger) (*Table, error) {
	if len(rows) < 2 {
		return nil, errors.Errorf("need a count line and a label line, got %d lines", len(rows))
	}

	head := nonEmpty(rows[0])
	if len(head) != 1 {
		return nil, errors.Errorf("line 1: expected a single record count, got %d tokens", len(head))
	}
	declared, err := strconv.Atoi(head[0])
	if err != nil {
		return nil, errors.Wrap(err, "line 1: record count")
	}

	t := &Table{Declared: declared, Labels: nonEmpty(rows[1]), InclIdx: -1, PAIdx: -1}
	if len(t.Labels) == 0 {
		return nil, errors.New("line 2: no column labels")
	}

	for i, row := range rows[2:] {
		line := i + 3
		fields := nonEmpty(row)
		if len(fields) == 0 {
			continue
		}
		if len(fields) < len(t.Labels) {
			if logger != nil {
				logger.Printf("line %d: %d fields, expected %d; skipped", line, len(fields), len(t.Labels))
			}
			continue
		}
		rec := make(Record, len(fields))
		for j, f := range fields {
			v, err := strconv.ParseFloat(f, 64)
			if err != nil {
				return nil, errors.Wrapf(err, "line %d column %d", line, j)
			}
			rec[j] = v
		}
		t.Records = append(t.Records, rec)
	}

	if len(t.Records) == 0 {
		return nil, errors.New("no ring records found")
	}
	return t, nil
}

// Validate resolves the INCL and PA columns.
func (t *Table) Validate() error {
	var err error
	if t.InclIdx, err = t.column(inclLabel); err != nil {
		return err
	}
	if t.PAIdx, err = t.column(paLabel); err != nil {
		return err
	}
	return nil
}

func (t *Table) column(label string) (int, error) {
	for i, l := range t.Labels {
		if l == label {
			return i, nil
		}
	}
	return -1, errors.Errorf("column %s missing from labels %v", label, t.Labels)
}

// CountMismatch reports whether line 1 disagrees with the parsed records.
func (t *Table) CountMismatch() bool {
	return t.Declared != len(t.Records)
}

// Size is the number of parsed records; it wins over the declared count.
func (t *Table) Size() int {
	return len(t.Records)
}

// Summary writes the diagnostics printed before plotting.
func (t *Table) Summary(path string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Plotting %d entries of tirific file: %s\n", t.Size(), path)
	fmt.Fprintf(&b, "Column IDs 0 to %d: %v\n", len(t.Labels)-1, t.Labels)
	fmt.Fprintf(&b, "Using INCL from column %d and PA from column %d\n", t.InclIdx, t.PAIdx)
	fmt.Fprintf(&b, "First record: %v\n", t.Records[0])
	fmt.Fprintf(&b, "Last record: %v\n", t.Records[len(t.Records)-1])
	return b.String()
}

func nonEmpty(tokens []string) []string {
	out := make([]string, 0, len(tokens))
	for _, tok := range tokens {
		if tok != "" {
			out = append(out, tok)
		}
	}
	return out
}
