// Package csvio reads and writes the admin CSV tables and collects per-row
// import failures without aborting the batch.
package csvio

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"go.uber.org/zap"
)

var ErrMissingColumn = errors.New("missing column")

const bom = "\ufeff"

// Outcome tells the report what a successful row did.
type Outcome int

const (
	Inserted Outcome = iota + 1
	Updated
)

type RowError struct {
	Row     int    `json:"row"`
	Message string `json:"message"`
}

type Report struct {
	Inserted int        `json:"inserted"`
	Updated  int        `json:"updated"`
	Failed   int        `json:"failed"`
	Errors   []RowError `json:"errors"`
}

// Record is one data row keyed by the canonical column name.
type Record struct {
	Row int
	// Err is set when the row itself could not be parsed; values are empty then.
	Err    error
	values map[string]string
}

// Get returns the trimmed cell for column, or "" when absent.
func (r Record) Get(column string) string {
	return r.values[normalize(column)]
}

func normalize(h string) string {
	h = strings.TrimPrefix(h, bom)
	return strings.ToLower(strings.Join(strings.Fields(h), " "))
}

// Write emits header followed by rows.
func Write(w io.Writer, header []string, rows [][]string) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(header); err != nil {
		return err
	}
	if err := cw.WriteAll(rows); err != nil {
		return err
	}
	return cw.Error()
}

// Read parses a table whose header must contain every name in required,
// compared case- and space-insensitively. Extra columns are ignored. A data
// row with malformed quoting comes back with Err set and reading goes on.
func Read(r io.Reader, required []string) ([]Record, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	head, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: empty file", ErrMissingColumn)
		}
		return nil, err
	}
	index := make(map[string]int, len(head))
	for i, h := range head {
		index[normalize(h)] = i
	}
	for _, col := range required {
		if _, ok := index[normalize(col)]; !ok {
			return nil, fmt.Errorf("%w: %s", ErrMissingColumn, col)
		}
	}

	var out []Record
	row := 1
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		row++
		if err != nil {
			var perr *csv.ParseError
			if !errors.As(err, &perr) {
				return nil, fmt.Errorf("row %d: %w", row, err)
			}
			out = append(out, Record{Row: row, Err: err})
			continue
		}
		if blank(rec) {
			continue
		}
		values := make(map[string]string, len(index))
		for name, i := range index {
			if i < len(rec) {
				values[name] = strings.TrimSpace(rec[i])
			}
		}
		out = append(out, Record{Row: row, values: values})
	}
	return out, nil
}

func blank(rec []string) bool {
	for _, v := range rec {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

// Import reads the table and hands each record to apply. A failing row is
// counted and reported; the remaining rows still run.
func Import(ctx context.Context, r io.Reader, required []string, log *zap.Logger, apply func(context.Context, Record) (Outcome, error)) (Report, error) {
	records, err := Read(r, required)
	if err != nil {
		return Report{}, err
	}
	if log == nil {
		log = zap.NewNop()
	}

	rep := Report{Errors: []RowError{}}
	for _, rec := range records {
		if err := ctx.Err(); err != nil {
			return rep, err
		}
		if rec.Err != nil {
			rep.Failed++
			rep.Errors = append(rep.Errors, RowError{Row: rec.Row, Message: rec.Err.Error()})
			log.Warn("csv row unreadable", zap.Int("row", rec.Row), zap.Error(rec.Err))
			continue
		}
		outcome, err := apply(ctx, rec)
		if err != nil {
			rep.Failed++
			rep.Errors = append(rep.Errors, RowError{Row: rec.Row, Message: err.Error()})
			log.Warn("csv row rejected", zap.Int("row", rec.Row), zap.Error(err))
			continue
		}
		switch outcome {
		case Inserted:
			rep.Inserted++
		case Updated:
			rep.Updated++
		}
	}
	return rep, nil
}
