package experiment

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"
)

// ReadOptions selects the comment and time columns of an experiment CSV.
type ReadOptions struct {
	CommentColumn string
	TimeParam     string
	// Delimiter defaults to a comma.
	Delimiter rune
}

// Read parses an experiment CSV with a header row. The comment column is kept
// as text; every other column must be numeric. Blank cells become NaN.
func Read(r io.Reader, opts ReadOptions) (*Record, error) {
	reader := csv.NewReader(r)
	if opts.Delimiter != 0 {
		reader.Comma = opts.Delimiter
	}
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("read experiment: no header row")
	}
	if err != nil {
		return nil, fmt.Errorf("read experiment header: %w", err)
	}
	for i := range header {
		header[i] = strings.TrimSpace(strings.TrimPrefix(header[i], "\ufeff"))
	}

	commentIdx := -1
	seen := make(map[string]struct{}, len(header))
	var order []string
	for i, name := range header {
		if name == "" {
			return nil, fmt.Errorf("read experiment header: column %d has no name", i+1)
		}
		if _, dup := seen[name]; dup {
			return nil, fmt.Errorf("read experiment header: duplicate column %q", name)
		}
		seen[name] = struct{}{}
		if name == opts.CommentColumn {
			commentIdx = i
			continue
		}
		order = append(order, name)
	}
	if commentIdx < 0 {
		return nil, fmt.Errorf("read experiment: comment column %q not found", opts.CommentColumn)
	}

	columns := make(map[string]Column, len(order))
	var comments []string
	line := 1
	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read experiment: %w", err)
		}
		line++
		for i, name := range header {
			cell := ""
			if i < len(row) {
				cell = strings.TrimSpace(row[i])
			}
			if i == commentIdx {
				comments = append(comments, cell)
				continue
			}
			value, err := parseCell(cell)
			if err != nil {
				return nil, fmt.Errorf("read experiment line %d column %q: %w", line, name, err)
			}
			columns[name] = append(columns[name], value)
		}
	}
	for _, name := range order {
		if columns[name] == nil {
			columns[name] = Column{}
		}
	}
	if comments == nil {
		comments = []string{}
	}
	return New(comments, columns, order, opts.TimeParam)
}

// ReadFile opens path and parses it with Read.
func ReadFile(path string, opts ReadOptions) (*Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open experiment: %w", err)
	}
	defer f.Close()
	return Read(f, opts)
}

func parseCell(cell string) (float64, error) {
	if cell == "" {
		return math.NaN(), nil
	}
	return strconv.ParseFloat(cell, 64)
}

// DelimiterRune converts a configured delimiter string to the rune used by
// the CSV reader.
func DelimiterRune(delimiter string) rune {
	for _, r := range delimiter {
		return r
	}
	return ','
}
