// Package loader reads the observation and species tables from CSV files.
package loader

import (
	"context"
	"encoding/csv"
	"io"
	"strconv"
	"time"

	"github.com/spf13/afero"

	"github.com/tphakala/parkbio/internal/errors"
	"github.com/tphakala/parkbio/internal/logger"
	"github.com/tphakala/parkbio/internal/observation"
)

// cancelCheckInterval is how many rows are read between context checks
const cancelCheckInterval = 4096

// Loader reads input tables through an afero filesystem
type Loader struct {
	fs  afero.Fs
	log logger.Logger
}

// New creates a Loader. A nil fs reads from the operating system.
func New(fs afero.Fs, log logger.Logger) *Loader {
	if fs == nil {
		fs = afero.NewOsFs()
	}
	if log == nil {
		log = logger.Global().Module("loader")
	}
	return &Loader{fs: fs, log: log}
}

// LoadObservations reads the park observations table. Counts must be
// non-negative integers.
func (l *Loader) LoadObservations(ctx context.Context, path string) ([]observation.Observation, error) {
	var out []observation.Observation

	err := l.readTable(ctx, path, []column{colSpeciesName, colLocation, colCount},
		func(line int, idx columnIndex, record []string) error {
			raw := idx.get(record, colCount.name)
			count, err := strconv.Atoi(raw)
			if err != nil {
				return &ParseError{File: path, Line: line, Column: colCount.name, Reason: "non-numeric count " + strconv.Quote(raw), Err: err}
			}
			if count < 0 {
				return &ParseError{File: path, Line: line, Column: colCount.name, Reason: "negative count " + raw}
			}

			out = append(out, observation.Observation{
				SpeciesName:  idx.get(record, colSpeciesName.name),
				LocationName: idx.get(record, colLocation.name),
				Count:        count,
			})
			return nil
		})
	if err != nil {
		return nil, err
	}

	return out, nil
}

// LoadSpecies reads the species table. Category values are kept as read;
// mapping them to known categories is left to the analysis.
func (l *Loader) LoadSpecies(ctx context.Context, path string) ([]observation.Species, error) {
	var out []observation.Species

	err := l.readTable(ctx, path, []column{colCategory, colScientificName, colCommonName, colStatus},
		func(_ int, idx columnIndex, record []string) error {
			out = append(out, observation.Species{
				Category:       observation.Category(idx.get(record, colCategory.name)),
				ScientificName: idx.get(record, colScientificName.name),
				CommonName:     idx.get(record, colCommonName.name),
				Status:         observation.Status(idx.get(record, colStatus.name)),
			})
			return nil
		})
	if err != nil {
		return nil, err
	}

	return out, nil
}

// readTable opens path, resolves columns from the header row and calls row
// for every data record.
func (l *Loader) readTable(ctx context.Context, path string, columns []column,
	row func(line int, idx columnIndex, record []string) error,
) error {
	start := time.Now()

	f, err := l.fs.Open(path)
	if err != nil {
		return errors.FileError(err, path)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil {
			l.log.Warn("failed to close input", logger.String("path", path), logger.Error(cerr))
		}
	}()

	r := csv.NewReader(f)
	r.ReuseRecord = true

	header, err := r.Read()
	if errors.Is(err, io.EOF) {
		return &ParseError{File: path, Line: 1, Reason: "missing header row"}
	}
	if err != nil {
		return csvError(path, err)
	}

	idx, missing := resolveColumns(header, columns...)
	if missing != "" {
		return &ParseError{File: path, Line: 1, Column: missing, Reason: "required column is missing"}
	}

	rows := 0
	for {
		if rows%cancelCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return errors.New(err).
					Category(errors.CategoryCancellation).
					Context("path", path).
					Build()
			}
		}

		record, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return csvError(path, err)
		}

		line, _ := r.FieldPos(0)
		if err := row(line, idx, record); err != nil {
			return err
		}
		rows++
	}

	l.log.Debug("loaded table",
		logger.String("path", path),
		logger.Int("rows", rows),
		logger.Duration("elapsed", time.Since(start)))

	return nil
}

// csvError converts encoding/csv failures into ParseError
func csvError(path string, err error) error {
	var pe *csv.ParseError
	if errors.As(err, &pe) {
		return &ParseError{File: path, Line: pe.Line, Reason: pe.Err.Error(), Err: err}
	}
	return errors.FileError(err, path)
}

// Preview returns at most n leading rows
func Preview[T any](rows []T, n int) []T {
	if n <= 0 {
		return nil
	}
	if len(rows) < n {
		n = len(rows)
	}
	return rows[:n]
}
