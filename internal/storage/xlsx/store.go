// Package xlsx stores submissions as rows of a spreadsheet workbook.
package xlsx

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/bobmcallan/fund-recommender/internal/common"
	"github.com/bobmcallan/fund-recommender/internal/config"
	"github.com/bobmcallan/fund-recommender/internal/models"
	"github.com/xuri/excelize/v2"
)

// ErrValueNotStorable is returned by Append when a cell value cannot be written
// to the workbook unchanged.
var ErrValueNotStorable = errors.New("value cannot be stored in a spreadsheet cell")

// Store implements interfaces.RecordStore on a single .xlsx workbook.
//
// Every Append opens the whole workbook, writes the new row below the last used
// row and saves the workbook back in full. mu serializes that sequence within
// this process; separate processes sharing the file can still lose updates.
type Store struct {
	mu     sync.Mutex
	path   string
	sheet  string
	logger *common.Logger
}

// NewStore creates a spreadsheet store. The workbook is created lazily on the first Append.
func NewStore(logger *common.Logger, cfg *config.XLSXConfig) (*Store, error) {
	if strings.TrimSpace(cfg.Path) == "" {
		return nil, errors.New("xlsx store: path is required")
	}
	sheet := cfg.Sheet
	if sheet == "" {
		sheet = "Sheet1"
	}

	if dir := filepath.Dir(cfg.Path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create record directory: %w", err)
		}
	}

	logger.Debug().Str("path", cfg.Path).Str("sheet", sheet).Msg("xlsx record store initialized")

	return &Store{
		path:   cfg.Path,
		sheet:  sheet,
		logger: logger,
	}, nil
}

// Path returns the workbook location.
func (s *Store) Path() string {
	return s.path
}

// Append implements interfaces.RecordStore.
func (s *Store) Append(_ context.Context, sub models.Submission) error {
	values := sub.Row()
	for i, v := range values {
		if err := checkCell(v); err != nil {
			return fmt.Errorf("column %q: %w", models.Columns[i], err)
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	f, existed, err := s.open()
	if err != nil {
		return err
	}
	defer f.Close()

	rows, err := f.GetRows(s.sheet)
	if err != nil {
		return fmt.Errorf("failed to read rows from %s: %w", s.path, err)
	}

	next := len(rows) + 1
	if len(rows) == 0 {
		if err := setRow(f, s.sheet, 1, models.Columns); err != nil {
			return err
		}
		next = 2
	}

	if err := setRow(f, s.sheet, next, values); err != nil {
		return err
	}

	if err := s.save(f); err != nil {
		return err
	}

	s.logger.Debug().
		Str("path", s.path).
		Int("row", next).
		Bool("created", !existed).
		Msg("submission appended")

	return nil
}

// Records implements interfaces.RecordStore. A missing workbook yields no records.
func (s *Store) Records(_ context.Context) ([]models.Submission, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := os.Stat(s.path); errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}

	f, err := excelize.OpenFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", s.path, err)
	}
	defer f.Close()

	rows, err := f.GetRows(s.sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to read rows from %s: %w", s.path, err)
	}
	if len(rows) <= 1 {
		return nil, nil
	}

	out := make([]models.Submission, 0, len(rows)-1)
	for _, row := range rows[1:] {
		out = append(out, rowToSubmission(row))
	}
	return out, nil
}

// Close implements interfaces.RecordStore. The workbook is not held open between calls.
func (s *Store) Close() error {
	return nil
}

// open loads the workbook, or starts a new one when the file does not exist yet.
func (s *Store) open() (*excelize.File, bool, error) {
	if _, err := os.Stat(s.path); errors.Is(err, os.ErrNotExist) {
		f := excelize.NewFile()
		if err := ensureSheet(f, s.sheet); err != nil {
			f.Close()
			return nil, false, err
		}
		return f, false, nil
	} else if err != nil {
		return nil, false, fmt.Errorf("failed to stat %s: %w", s.path, err)
	}

	f, err := excelize.OpenFile(s.path)
	if err != nil {
		return nil, true, fmt.Errorf("failed to open %s: %w", s.path, err)
	}
	if err := ensureSheet(f, s.sheet); err != nil {
		f.Close()
		return nil, true, err
	}
	return f, true, nil
}

// save writes the workbook to a sibling temp file and renames it over the original.
func (s *Store) save(f *excelize.File) error {
	tmp, err := os.CreateTemp(filepath.Dir(s.path), ".records-*.xlsx")
	if err != nil {
		return fmt.Errorf("failed to create temp workbook: %w", err)
	}
	tmpPath := tmp.Name()

	if _, err := f.WriteTo(tmp); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	if err := os.Rename(tmpPath, s.path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to replace %s: %w", s.path, err)
	}
	return nil
}

func ensureSheet(f *excelize.File, sheet string) error {
	idx, err := f.GetSheetIndex(sheet)
	if err != nil {
		return fmt.Errorf("invalid sheet name %q: %w", sheet, err)
	}
	if idx >= 0 {
		return nil
	}
	idx, err = f.NewSheet(sheet)
	if err != nil {
		return fmt.Errorf("failed to create sheet %q: %w", sheet, err)
	}
	f.SetActiveSheet(idx)
	return nil
}

func setRow(f *excelize.File, sheet string, row int, values []string) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return fmt.Errorf("invalid row %d: %w", row, err)
	}
	vals := make([]interface{}, len(values))
	for i, v := range values {
		vals[i] = v
	}
	if err := f.SetSheetRow(sheet, cell, &vals); err != nil {
		return fmt.Errorf("failed to write row %d: %w", row, err)
	}
	return nil
}

// checkCell rejects values excelize would truncate or rewrite on save: text over
// the per-cell limit, invalid UTF-8, and runes XML 1.0 does not allow.
func checkCell(v string) error {
	if n := utf8.RuneCountInString(v); n > excelize.TotalCellChars {
		return fmt.Errorf("%w: %d characters exceeds the limit of %d", ErrValueNotStorable, n, excelize.TotalCellChars)
	}
	if !utf8.ValidString(v) {
		return fmt.Errorf("%w: invalid UTF-8", ErrValueNotStorable)
	}
	for i, r := range v {
		if !xmlChar(r) {
			return fmt.Errorf("%w: character %U at byte %d is not allowed", ErrValueNotStorable, r, i)
		}
	}
	return nil
}

func xmlChar(r rune) bool {
	switch {
	case r == '\t', r == '\n', r == '\r':
		return true
	case r < 0x20:
		return false
	case r == 0xFFFE, r == 0xFFFF:
		return false
	}
	return true
}

// rowToSubmission reverses Submission.Row. GetRows drops trailing empty cells, so short rows are padded.
func rowToSubmission(row []string) models.Submission {
	cols := make([]string, len(models.Columns))
	copy(cols, row)

	var funds models.FundList
	if cols[2] != "" {
		funds = strings.Split(cols[2], models.FundSeparator)
	}
	return models.Submission{
		ClientName:  cols[0],
		RiskProfile: models.RiskProfile(cols[1]),
		Funds:       funds,
	}
}
