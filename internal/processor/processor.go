// Package processor implements the per-column, per-row classification
// loop over a tabular dataset.
//
// The processor accepts an already-loaded table and a column list, so
// any front end (interactive console, flags, tests) drives the same
// contract. Rows are processed strictly sequentially: each cell's
// classification is an independent network call and no concurrency
// control exists.
package processor

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/fyrsmithlabs/clausecheck/internal/classifier"
	"github.com/fyrsmithlabs/clausecheck/internal/dataset"
)

// ErrNoColumns indicates no valid target columns remained after
// filtering.
var ErrNoColumns = errors.New("no valid columns selected")

// Classifier produces a free-text judgment for one cell.
// *classifier.Agent satisfies it; tests substitute a deterministic stub.
type Classifier interface {
	Classify(ctx context.Context, text, columnContext string) (string, error)
}

// Warning records a non-fatal condition encountered during processing.
// Row is 1-indexed; zero means the warning is column-level.
type Warning struct {
	Column  string
	Row     int
	Message string
}

// Result summarizes a processing run over one table.
type Result struct {
	Warnings   []Warning
	Classified int
	Skipped    int
}

// Process classifies every non-empty cell of the named columns and
// overwrites it in place with the canonical Yes/No label.
//
// A column name absent from the table yields a warning and is skipped;
// processing continues with the remaining columns. Empty or missing
// cells are left untouched. A reply containing neither "yes" nor "no"
// yields a warning and defaults to No. Any classifier error aborts the
// run; work already written into the table is not rolled back.
func Process(ctx context.Context, table *dataset.Table, columns []string, clf Classifier, logger *zap.Logger) (*Result, error) {
	if table == nil {
		return nil, errors.New("table is nil")
	}
	if clf == nil {
		return nil, errors.New("classifier is nil")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if len(columns) == 0 {
		return nil, ErrNoColumns
	}

	result := &Result{}
	total := len(table.Rows)

	for _, col := range columns {
		idx, ok := table.ColumnIndex(col)
		if !ok {
			msg := fmt.Sprintf("column %q not found in dataset", col)
			logger.Warn("skipping unknown column", zap.String("column", col))
			result.Warnings = append(result.Warnings, Warning{Column: col, Message: msg})
			continue
		}

		logger.Info("processing column", zap.String("column", col), zap.Int("rows", total))

		for i, row := range table.Rows {
			logger.Info("analyzing row",
				zap.String("column", col),
				zap.Int("row", i+1),
				zap.Int("total", total),
			)

			if row[idx] == "" {
				result.Skipped++
				continue
			}

			reply, err := clf.Classify(ctx, row[idx], col)
			if err != nil {
				return nil, fmt.Errorf("classifying row %d of column %q: %w", i+1, col, err)
			}

			label, ok := classifier.Normalize(reply)
			if !ok {
				msg := fmt.Sprintf("unclear reply %q, defaulting to %s", reply, label)
				logger.Warn("unclear classification reply",
					zap.String("column", col),
					zap.Int("row", i+1),
					zap.String("reply", reply),
					zap.String("default", string(label)),
				)
				result.Warnings = append(result.Warnings, Warning{Column: col, Row: i + 1, Message: msg})
			}

			row[idx] = string(label)
			result.Classified++
		}
	}

	return result, nil
}
